package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// PushRepository persists push records. Every mutation replaces the full set
// of mutable columns in one statement so readers always observe a consistent
// snapshot of a record.
type PushRepository struct {
	db *sqlx.DB
}

// NewPushRepository constructs the repository.
func NewPushRepository(db *sqlx.DB) *PushRepository {
	return &PushRepository{db: db}
}

const pushColumns = `id, content, destination, force_push, status, retry_count, last_error, created_at, updated_at`

// Create inserts a new push row with generated defaults.
func (r *PushRepository) Create(ctx context.Context, rec *models.PushRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = models.PushStatusQueued
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	const query = `INSERT INTO push_records (id, content, destination, force_push, status, retry_count, last_error, created_at, updated_at)
VALUES (:id, :content, :destination, :force_push, :status, :retry_count, :last_error, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return fmt.Errorf("create push record: %w", err)
	}
	return nil
}

// GetByID returns a push row by its identifier.
func (r *PushRepository) GetByID(ctx context.Context, id string) (*models.PushRecord, error) {
	const query = `SELECT ` + pushColumns + ` FROM push_records WHERE id = $1`
	var rec models.PushRecord
	if err := r.db.GetContext(ctx, &rec, query, id); err != nil {
		return nil, fmt.Errorf("get push record: %w", err)
	}
	return &rec, nil
}

// UpdateState replaces the mutable columns of a push row in one statement.
func (r *PushRepository) UpdateState(ctx context.Context, id string, status models.PushStatus, retryCount int, lastError *string, updatedAt time.Time) error {
	const query = `UPDATE push_records SET status = $1, retry_count = $2, last_error = $3, updated_at = $4 WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, status, retryCount, lastError, updatedAt, id); err != nil {
		return fmt.Errorf("update push record: %w", err)
	}
	return nil
}

// ListSince returns pushes created at or after the cutoff, optionally
// restricted to a status, newest first.
func (r *PushRepository) ListSince(ctx context.Context, since time.Time, status *models.PushStatus, limit, offset int) ([]models.PushRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var (
		recs []models.PushRecord
		err  error
	)
	if status != nil {
		const query = `SELECT ` + pushColumns + ` FROM push_records WHERE created_at >= $1 AND status = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4`
		err = r.db.SelectContext(ctx, &recs, query, since, *status, limit, offset)
	} else {
		const query = `SELECT ` + pushColumns + ` FROM push_records WHERE created_at >= $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &recs, query, since, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list push records: %w", err)
	}
	return recs, nil
}

// CountSince returns the number of pushes matching the ListSince window.
func (r *PushRepository) CountSince(ctx context.Context, since time.Time, status *models.PushStatus) (int, error) {
	var (
		count int
		err   error
	)
	if status != nil {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM push_records WHERE created_at >= $1 AND status = $2`, since, *status)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM push_records WHERE created_at >= $1`, since)
	}
	if err != nil {
		return 0, fmt.Errorf("count push records: %w", err)
	}
	return count, nil
}

// ListPending fetches non-terminal pushes for cold start recovery, oldest
// first.
func (r *PushRepository) ListPending(ctx context.Context, limit int) ([]models.PushRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `SELECT ` + pushColumns + ` FROM push_records WHERE status IN ('QUEUED', 'IN_PROGRESS') ORDER BY created_at ASC LIMIT $1`
	var recs []models.PushRecord
	if err := r.db.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("list pending push records: %w", err)
	}
	return recs, nil
}
