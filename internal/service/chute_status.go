package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"beltsense/internal/logger"
	"beltsense/internal/models"
	"beltsense/internal/repository"
)

// ErrUnknownChuteStatus rejects status values outside the published enum.
var ErrUnknownChuteStatus = errors.New("unknown chute status")

// ChuteStatusService backs the status REST surface consumed by the web app.
type ChuteStatusService struct {
	chutes repository.ChuteRepo
	log    *logger.Logger
}

func NewChuteStatusService(chutes repository.ChuteRepo, log *logger.Logger) *ChuteStatusService {
	return &ChuteStatusService{chutes: chutes, log: log}
}

func (s *ChuteStatusService) List(ctx context.Context) ([]models.Chute, error) {
	return s.chutes.List(ctx)
}

// GetByID returns (nil, nil) when no chute matches.
func (s *ChuteStatusService) GetByID(ctx context.Context, id int) (*models.Chute, error) {
	return s.chutes.GetByID(ctx, id)
}

// GetByBarcode returns (nil, nil) when no chute matches.
func (s *ChuteStatusService) GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error) {
	return s.chutes.GetByBarcode(ctx, barcode)
}

// UpdateStatusByID validates and applies a status change, then returns the
// updated record. Returns (nil, nil) when no chute matches.
func (s *ChuteStatusService) UpdateStatusByID(ctx context.Context, id int, status string) (*models.Chute, error) {
	if !models.KnownChuteStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChuteStatus, status)
	}
	if err := s.chutes.UpdateStatusByID(ctx, id, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.chutes.GetByID(ctx, id)
}

// UpdateStatusByBarcode validates and applies a status change, then returns
// the updated record. Returns (nil, nil) when no chute matches.
func (s *ChuteStatusService) UpdateStatusByBarcode(ctx context.Context, barcode, status string) (*models.Chute, error) {
	if !models.KnownChuteStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChuteStatus, status)
	}
	if err := s.chutes.UpdateStatusByBarcode(ctx, barcode, status, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.chutes.GetByBarcode(ctx, barcode)
}
