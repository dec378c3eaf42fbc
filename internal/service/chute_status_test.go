package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"beltsense/internal/models"
)

// chuteRepoStub is a minimal in-memory stub for repository.ChuteRepo.
type chuteRepoStub struct {
	chutes  []models.Chute
	listErr error

	statusCalls []struct {
		key    string
		status string
		at     time.Time
	}
	telemetryCalls int
	inserted       []models.Chute
	flagCalls      []struct {
		name   string
		active bool
	}
}

func (r *chuteRepoStub) List(ctx context.Context) ([]models.Chute, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Chute, len(r.chutes))
	copy(out, r.chutes)
	return out, nil
}

func (r *chuteRepoStub) GetByID(ctx context.Context, id int) (*models.Chute, error) {
	for i := range r.chutes {
		if r.chutes[i].ID == id {
			c := r.chutes[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *chuteRepoStub) GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error) {
	for i := range r.chutes {
		if r.chutes[i].Barcode == barcode {
			c := r.chutes[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (r *chuteRepoStub) Insert(ctx context.Context, c models.Chute) (int, error) {
	c.ID = len(r.chutes) + 1
	r.chutes = append(r.chutes, c)
	r.inserted = append(r.inserted, c)
	return c.ID, nil
}

func (r *chuteRepoStub) Count(ctx context.Context) (int, error) {
	return len(r.chutes), nil
}

func (r *chuteRepoStub) UpdateStatusByID(ctx context.Context, id int, status string, at time.Time) error {
	r.statusCalls = append(r.statusCalls, struct {
		key    string
		status string
		at     time.Time
	}{"id", status, at})
	for i := range r.chutes {
		if r.chutes[i].ID == id {
			r.chutes[i].Status = status
			r.chutes[i].LastUpdated = at
		}
	}
	return nil
}

func (r *chuteRepoStub) UpdateStatusByBarcode(ctx context.Context, barcode, status string, at time.Time) error {
	r.statusCalls = append(r.statusCalls, struct {
		key    string
		status string
		at     time.Time
	}{"barcode", status, at})
	for i := range r.chutes {
		if r.chutes[i].Barcode == barcode {
			r.chutes[i].Status = status
			r.chutes[i].LastUpdated = at
		}
	}
	return nil
}

func (r *chuteRepoStub) SaveTelemetry(ctx context.Context, id, fillLevel int, status string, at time.Time) error {
	r.telemetryCalls++
	for i := range r.chutes {
		if r.chutes[i].ID == id {
			r.chutes[i].FillLevel = fillLevel
			r.chutes[i].Status = status
			r.chutes[i].LastUpdated = at
		}
	}
	return nil
}

func (r *chuteRepoStub) SetActiveAlert(ctx context.Context, name string, active bool) error {
	r.flagCalls = append(r.flagCalls, struct {
		name   string
		active bool
	}{name, active})
	return nil
}

// ---- Tests ----

func TestChuteStatusService_UpdateStatusByID(t *testing.T) {
	t.Parallel()

	repo := &chuteRepoStub{chutes: []models.Chute{
		{ID: 1, Barcode: "CHT-0001", Name: "Chute 1", Status: models.ChuteStatusNormal},
	}}
	s := NewChuteStatusService(repo, nil)

	got, err := s.UpdateStatusByID(context.Background(), 1, models.ChuteStatusFull)
	if err != nil {
		t.Fatalf("UpdateStatusByID errored: %v", err)
	}
	if got == nil || got.Status != models.ChuteStatusFull {
		t.Fatalf("want updated record with Full status, got %+v", got)
	}
	if len(repo.statusCalls) != 1 {
		t.Fatalf("want 1 repo update, got %d", len(repo.statusCalls))
	}
	call := repo.statusCalls[0]
	if call.at.Location() != time.UTC || call.at.IsZero() {
		t.Errorf("lastUpdated must be stamped in UTC, got %v", call.at)
	}
}

func TestChuteStatusService_UpdateRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	repo := &chuteRepoStub{}
	s := NewChuteStatusService(repo, nil)

	if _, err := s.UpdateStatusByID(context.Background(), 1, "Exploded"); !errors.Is(err, ErrUnknownChuteStatus) {
		t.Fatalf("want ErrUnknownChuteStatus, got %v", err)
	}
	if _, err := s.UpdateStatusByBarcode(context.Background(), "CHT-0001", "exploded"); !errors.Is(err, ErrUnknownChuteStatus) {
		t.Fatalf("want ErrUnknownChuteStatus, got %v", err)
	}
	if len(repo.statusCalls) != 0 {
		t.Fatalf("invalid status must not reach the repo, got %d calls", len(repo.statusCalls))
	}
}

func TestChuteStatusService_GetMissingReturnsNil(t *testing.T) {
	t.Parallel()

	s := NewChuteStatusService(&chuteRepoStub{}, nil)

	got, err := s.GetByID(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("missing chute: want (nil, nil), got (%+v, %v)", got, err)
	}
	got, err = s.UpdateStatusByBarcode(context.Background(), "NOPE", models.ChuteStatusOffline)
	if err != nil || got != nil {
		t.Fatalf("missing chute update: want (nil, nil), got (%+v, %v)", got, err)
	}
}
