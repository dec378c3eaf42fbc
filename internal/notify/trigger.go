// Package notify decides when an alert warrants a device-level
// notification and delivers it to connected companion devices.
package notify

import (
	"beltsense/internal/logger"
	"beltsense/internal/models"
)

// DeviceAlerter delivers one device alert. Delivery is best-effort:
// implementations log failures and never return them.
type DeviceAlerter interface {
	DeviceAlert(rec models.AlertRecord)
}

// Trigger gates device alerts on severity.
type Trigger struct {
	device DeviceAlerter
	log    *logger.Logger
}

func NewTrigger(device DeviceAlerter, log *logger.Logger) *Trigger {
	return &Trigger{device: device, log: log}
}

// MaybeNotify fires the device alert iff the record's severity normalizes
// to HIGH or CRITICAL. It fires on every qualifying call: a persisting
// condition re-alerts the operator each time it is re-reported.
func (t *Trigger) MaybeNotify(rec models.AlertRecord) {
	switch rec.Severity.Normalize() {
	case models.SeverityHigh, models.SeverityCritical:
	default:
		return
	}

	if t.log != nil {
		t.log.Infow("device_alert", "source", rec.Source, "severity", rec.Severity.Normalize())
	}
	if t.device != nil {
		t.device.DeviceAlert(rec)
	}
}
