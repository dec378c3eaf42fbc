package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"beltsense/internal/models"
)

type ChuteSQLite struct {
	db *sql.DB
}

func NewChuteSQLite(db *sql.DB) *ChuteSQLite {
	return &ChuteSQLite{db: db}
}

// Ensure implementation of ChuteRepo interface at compile time.
var _ ChuteRepo = (*ChuteSQLite)(nil)

const (
	chuteColumns = `id, barcode, name, status, fill_level, last_updated, has_active_alert`

	selectChutesSQL         = `SELECT ` + chuteColumns + ` FROM chutes ORDER BY id ASC`
	selectChuteByIDSQL      = `SELECT ` + chuteColumns + ` FROM chutes WHERE id = ?`
	selectChuteByBarcodeSQL = `SELECT ` + chuteColumns + ` FROM chutes WHERE barcode = ?`
	countChutesSQL          = `SELECT COUNT(*) FROM chutes`

	insertChuteSQL = `
		INSERT INTO chutes (barcode, name, status, fill_level, last_updated, has_active_alert)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	updateStatusByIDSQL      = `UPDATE chutes SET status = ?, last_updated = ? WHERE id = ?`
	updateStatusByBarcodeSQL = `UPDATE chutes SET status = ?, last_updated = ? WHERE barcode = ?`
	saveTelemetrySQL         = `UPDATE chutes SET fill_level = ?, status = ?, last_updated = ? WHERE id = ?`
	setActiveAlertSQL        = `UPDATE chutes SET has_active_alert = ? WHERE name = ?`
)

// toUTC normalizes non-zero time to UTC, defaulting zero values to now.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

func (r *ChuteSQLite) List(ctx context.Context) ([]models.Chute, error) {
	rows, err := r.db.QueryContext(ctx, selectChutesSQL)
	if err != nil {
		return nil, fmt.Errorf("select chutes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Chute, 0, 16)
	for rows.Next() {
		c, err := scanChute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ChuteSQLite) GetByID(ctx context.Context, id int) (*models.Chute, error) {
	return r.getOne(ctx, selectChuteByIDSQL, id)
}

func (r *ChuteSQLite) GetByBarcode(ctx context.Context, barcode string) (*models.Chute, error) {
	return r.getOne(ctx, selectChuteByBarcodeSQL, barcode)
}

// getOne fetches a single chute. Returns (nil, nil) if not found.
func (r *ChuteSQLite) getOne(ctx context.Context, query string, arg any) (*models.Chute, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	c, err := scanChute(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select chute: %w", err)
	}
	return &c, nil
}

func (r *ChuteSQLite) Insert(ctx context.Context, c models.Chute) (int, error) {
	res, err := r.db.ExecContext(ctx, insertChuteSQL,
		c.Barcode,
		c.Name,
		c.Status,
		c.FillLevel,
		toUTC(c.LastUpdated),
		c.HasActiveAlert,
	)
	if err != nil {
		return 0, fmt.Errorf("insert chute %q: %w", c.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for chute %q: %w", c.Name, err)
	}
	return int(lastID), nil
}

func (r *ChuteSQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countChutesSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chutes: %w", err)
	}
	return n, nil
}

func (r *ChuteSQLite) UpdateStatusByID(ctx context.Context, id int, status string, at time.Time) error {
	return r.exec(ctx, updateStatusByIDSQL, status, toUTC(at), id)
}

func (r *ChuteSQLite) UpdateStatusByBarcode(ctx context.Context, barcode, status string, at time.Time) error {
	return r.exec(ctx, updateStatusByBarcodeSQL, status, toUTC(at), barcode)
}

func (r *ChuteSQLite) SaveTelemetry(ctx context.Context, id, fillLevel int, status string, at time.Time) error {
	return r.exec(ctx, saveTelemetrySQL, fillLevel, status, toUTC(at), id)
}

func (r *ChuteSQLite) SetActiveAlert(ctx context.Context, name string, active bool) error {
	return r.exec(ctx, setActiveAlertSQL, active, name)
}

func (r *ChuteSQLite) exec(ctx context.Context, query string, args ...any) error {
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update chutes: %w", err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanChute(row rowScanner) (models.Chute, error) {
	var c models.Chute
	if err := row.Scan(
		&c.ID,
		&c.Barcode,
		&c.Name,
		&c.Status,
		&c.FillLevel,
		&c.LastUpdated,
		&c.HasActiveAlert,
	); err != nil {
		return models.Chute{}, err
	}
	c.LastUpdated = c.LastUpdated.UTC()
	return c, nil
}
