package models

import (
	"strings"
	"time"
)

// Chute status values exposed by the status API.
const (
	ChuteStatusNormal  = "Normal"
	ChuteStatusWarning = "Warning"
	ChuteStatusFull    = "Full"
	ChuteStatusOffline = "Offline"
)

// KnownChuteStatus reports whether s is one of the published status values.
func KnownChuteStatus(s string) bool {
	switch s {
	case ChuteStatusNormal, ChuteStatusWarning, ChuteStatusFull, ChuteStatusOffline:
		return true
	}
	return false
}

// Chute is one physical unit tracked by the status API. Name doubles as
// the alert pipeline's source key.
type Chute struct {
	ID             int       `json:"id"`
	Barcode        string    `json:"barcode"`
	Name           string    `json:"name"`
	Status         string    `json:"status"` // Normal | Warning | Full | Offline
	FillLevel      int       `json:"fillLevel"`
	LastUpdated    time.Time `json:"lastUpdated"`
	HasActiveAlert bool      `json:"hasActiveAlert"`
}

func normalizeUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
