package repository

import (
	"context"
	"database/sql"
	"time"

	"beltsense/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ChuteRepo persists chute-status records for the status API and the
// sensor feed.
type ChuteRepo interface {
	List(ctx context.Context) ([]models.Chute, error)
	GetByID(ctx context.Context, id int) (*models.Chute, error)
	GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error)
	Insert(ctx context.Context, c models.Chute) (int, error)
	Count(ctx context.Context) (int, error)
	UpdateStatusByID(ctx context.Context, id int, status string, at time.Time) error
	UpdateStatusByBarcode(ctx context.Context, barcode, status string, at time.Time) error
	SaveTelemetry(ctx context.Context, id, fillLevel int, status string, at time.Time) error
	SetActiveAlert(ctx context.Context, name string, active bool) error
}

type Repository struct {
	Chutes ChuteRepo
	Auth   Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Chutes: NewChuteSQLite(db),
		Auth:   NewUserRepository(db),
	}
}
