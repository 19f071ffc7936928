package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// DestinationRepository persists destination configurations.
type DestinationRepository struct {
	db *sqlx.DB
}

// NewDestinationRepository constructs the repository.
func NewDestinationRepository(db *sqlx.DB) *DestinationRepository {
	return &DestinationRepository{db: db}
}

const destinationColumns = `id, name, kind, endpoint, auth_token, rule_id, created_at`

// Create inserts a new destination row with generated defaults.
func (r *DestinationRepository) Create(ctx context.Context, dest *models.Destination) error {
	if dest.ID == "" {
		dest.ID = uuid.NewString()
	}
	if dest.CreatedAt.IsZero() {
		dest.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO destinations (id, name, kind, endpoint, auth_token, rule_id, created_at)
VALUES (:id, :name, :kind, :endpoint, :auth_token, :rule_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, dest); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return nil
}

// GetByName returns a destination by its unique lookup name.
func (r *DestinationRepository) GetByName(ctx context.Context, name string) (*models.Destination, error) {
	const query = `SELECT ` + destinationColumns + ` FROM destinations WHERE name = $1`
	var dest models.Destination
	if err := r.db.GetContext(ctx, &dest, query, name); err != nil {
		return nil, fmt.Errorf("get destination: %w", err)
	}
	return &dest, nil
}

// List returns all configured destinations ordered by name.
func (r *DestinationRepository) List(ctx context.Context) ([]models.Destination, error) {
	const query = `SELECT ` + destinationColumns + ` FROM destinations ORDER BY name ASC`
	var dests []models.Destination
	if err := r.db.SelectContext(ctx, &dests, query); err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	return dests, nil
}
