package models

import "time"

// Severity is the coarse urgency classification attached to an alert.
// ParseDiagnosis stores whatever the model replied verbatim; consumers
// that gate on severity must go through Normalize first.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// Normalize maps a raw severity value onto the known set. Anything the
// model produced outside that set (including empty) collapses to UNKNOWN.
func (s Severity) Normalize() Severity {
	switch Severity(normalizeUpper(string(s))) {
	case SeverityLow:
		return SeverityLow
	case SeverityMedium:
		return SeverityMedium
	case SeverityHigh:
		return SeverityHigh
	case SeverityCritical:
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// Reading is a single raw sensor measurement for one chute. Transient;
// it is never persisted, only fed into the alert pipeline.
type Reading struct {
	Source    string `json:"source"`
	FillLevel int    `json:"fill_level"` // 0–100
}

// AlertRecord is the structured diagnosis for one source. Source is the
// natural key: the alert store keeps at most one record per source.
type AlertRecord struct {
	ID              string    `json:"id"`
	Source          string    `json:"source"`
	Summary         string    `json:"summary"`
	Problems        string    `json:"problems,omitempty"`
	Prediction      string    `json:"prediction,omitempty"`
	RootCause       string    `json:"root_cause"`
	Recommendations string    `json:"recommendations"`
	Severity        Severity  `json:"severity"`
	CreatedAt       time.Time `json:"created_at"`
}
