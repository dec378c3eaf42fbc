package service

import (
	"context"
	"sync"

	"beltsense/internal/logger"
	"beltsense/internal/models"
)

// fillLevelAlertThreshold gates the pipeline: readings below it are never
// sent for recommendation at all. Cost/noise control, not a parser concern.
const fillLevelAlertThreshold = 75

// alertFlags is the slice of the chute repository the alert store needs to
// reconcile the hasActiveAlert flag. Reconciliation is best-effort.
type alertFlags interface {
	SetActiveAlert(ctx context.Context, name string, active bool) error
}

// AlertsService is the in-memory collection of active alerts, keyed by
// source. It owns dedup/replace semantics and drives the notifier.
type AlertsService struct {
	rec      Recommendation
	notifier AlertNotifier
	flags    alertFlags
	log      *logger.Logger

	mu      sync.Mutex
	records []models.AlertRecord
}

func NewAlertsService(rec Recommendation, notifier AlertNotifier, flags alertFlags, log *logger.Logger) *AlertsService {
	return &AlertsService{rec: rec, notifier: notifier, flags: flags, log: log}
}

// HandleReading is the pipeline entry for one sensor reading. Readings
// below the fill threshold return the unchanged collection without a model
// query. On a failed recommendation the store is left untouched and the
// error propagates one level to the caller.
func (s *AlertsService) HandleReading(ctx context.Context, r models.Reading) ([]models.AlertRecord, error) {
	if r.FillLevel < fillLevelAlertThreshold {
		return s.List(), nil
	}

	rec, err := s.rec.RequestRecommendation(ctx, r.Source, r.FillLevel)
	if err != nil {
		return nil, err
	}

	out := s.Upsert(rec)

	if s.notifier != nil {
		s.notifier.MaybeNotify(rec)
	}
	if s.flags != nil {
		if err := s.flags.SetActiveAlert(ctx, r.Source, true); err != nil && s.log != nil {
			s.log.Infow("alert_flag_update_failed", "source", r.Source, "err", err)
		}
	}
	return out, nil
}

// Upsert replaces any existing record with the same source and appends the
// incoming record at the end (most-recent-last). Returns a copy of the
// full collection for the caller to render.
func (s *AlertsService) Upsert(rec models.AlertRecord) []models.AlertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, a := range s.records {
		if a.Source != rec.Source {
			kept = append(kept, a)
		}
	}
	s.records = append(kept, rec)
	return s.snapshot()
}

// List returns a copy of the active collection.
func (s *AlertsService) List() []models.AlertRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Dismiss removes the alert for source, if any, and clears the chute's
// active-alert flag. Reports whether a record was removed.
func (s *AlertsService) Dismiss(ctx context.Context, source string) bool {
	s.mu.Lock()
	kept := s.records[:0]
	removed := false
	for _, a := range s.records {
		if a.Source == source {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	s.records = kept
	s.mu.Unlock()

	if removed && s.flags != nil {
		if err := s.flags.SetActiveAlert(ctx, source, false); err != nil && s.log != nil {
			s.log.Infow("alert_flag_clear_failed", "source", source, "err", err)
		}
	}
	return removed
}

// snapshot copies the records slice; callers hold the lock.
func (s *AlertsService) snapshot() []models.AlertRecord {
	out := make([]models.AlertRecord, len(s.records))
	copy(out, s.records)
	return out
}
