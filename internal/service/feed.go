package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"beltsense/internal/logger"
	"beltsense/internal/models"
	"beltsense/internal/repository"
)

// ----------- Feed simulation constants -----------
const (
	seedChuteCount  = 6
	maxFillLevel    = 100
	emptiedMinFill  = 5  // fill after an operator empties a full chute
	emptiedFillSpan = 15 // emptied fill is 5–19
	maxFillStep     = 15 // per-tick upward drift
)

// readingSink receives every simulated reading; the sink applies its own
// threshold gating.
type readingSink interface {
	HandleReading(ctx context.Context, r models.Reading) ([]models.AlertRecord, error)
}

// FeedService stands in for the external sensor feed: it walks chute fill
// levels over time, persists the derived status, and hands each reading to
// the alert pipeline.
type FeedService struct {
	chutes repository.ChuteRepo
	sink   readingSink
	log    *logger.Logger
	rng    *rand.Rand
}

func NewFeedService(chutes repository.ChuteRepo, sink readingSink, log *logger.Logger) *FeedService {
	return &FeedService{
		chutes: chutes,
		sink:   sink,
		log:    log,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *FeedService) Run(ctx context.Context, tick time.Duration) {
	if err := s.seed(ctx); err != nil && s.log != nil {
		s.log.Errorw("feed_seed_failed", "err", err)
	}

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.advance(ctx)
		}
	}
}

// seed populates the chute table on first run.
func (s *FeedService) seed(ctx context.Context) error {
	n, err := s.chutes.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	now := time.Now().UTC()
	for i := 1; i <= seedChuteCount; i++ {
		fill := 10 + s.rng.Intn(30)
		_, err := s.chutes.Insert(ctx, models.Chute{
			Barcode:     fmt.Sprintf("CHT-%04d", i),
			Name:        fmt.Sprintf("Chute %d", i),
			Status:      statusForFill(fill),
			FillLevel:   fill,
			LastUpdated: now,
		})
		if err != nil {
			return err
		}
	}
	if s.log != nil {
		s.log.Infow("feed_seeded", "chutes", seedChuteCount)
	}
	return nil
}

// advance moves every chute one tick forward and feeds the readings into
// the pipeline. Individual failures are logged and skipped so one bad
// chute never stalls the feed.
func (s *FeedService) advance(ctx context.Context) {
	chutes, err := s.chutes.List(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("feed_list_failed", "err", err)
		}
		return
	}

	now := time.Now().UTC()
	for _, c := range chutes {
		fill := s.nextFill(c.FillLevel)
		status := statusForFill(fill)

		if err := s.chutes.SaveTelemetry(ctx, c.ID, fill, status, now); err != nil {
			if s.log != nil {
				s.log.Errorw("feed_save_failed", "chute", c.Name, "err", err)
			}
			continue
		}

		if _, err := s.sink.HandleReading(ctx, models.Reading{Source: c.Name, FillLevel: fill}); err != nil {
			// The pipeline already scoped this failure to one reading;
			// the next tick is an independent attempt.
			if s.log != nil {
				s.log.Infow("feed_reading_rejected", "chute", c.Name, "fill", fill, "err", err)
			}
		}
	}
}

// nextFill drifts the level upward; a full chute gets emptied by the
// simulated operator on the following tick.
func (s *FeedService) nextFill(current int) int {
	if current >= maxFillLevel {
		return emptiedMinFill + s.rng.Intn(emptiedFillSpan)
	}
	next := current + s.rng.Intn(maxFillStep+1)
	if next > maxFillLevel {
		next = maxFillLevel
	}
	return next
}

// statusForFill derives the published status from a fill level.
func statusForFill(fill int) string {
	switch {
	case fill >= maxFillLevel:
		return models.ChuteStatusFull
	case fill >= fillLevelAlertThreshold:
		return models.ChuteStatusWarning
	default:
		return models.ChuteStatusNormal
	}
}
