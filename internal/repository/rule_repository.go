package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-content-push/internal/models"
)

// RuleRepository persists filter rules.
type RuleRepository struct {
	db *sqlx.DB
}

// NewRuleRepository constructs the repository.
func NewRuleRepository(db *sqlx.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, name, content_types, grade_min, required_tags, learner_groups, active, created_at`

// Create inserts a new rule row with generated defaults.
func (r *RuleRepository) Create(ctx context.Context, rule *models.FilterRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO filter_rules (id, name, content_types, grade_min, required_tags, learner_groups, active, created_at)
VALUES (:id, :name, :content_types, :grade_min, :required_tags, :learner_groups, :active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create filter rule: %w", err)
	}
	return nil
}

// GetByID returns a rule row by its identifier.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*models.FilterRule, error) {
	const query = `SELECT ` + ruleColumns + ` FROM filter_rules WHERE id = $1`
	var rule models.FilterRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, fmt.Errorf("get filter rule: %w", err)
	}
	return &rule, nil
}

// List returns rules, optionally only active ones, newest first.
func (r *RuleRepository) List(ctx context.Context, activeOnly bool) ([]models.FilterRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM filter_rules ORDER BY created_at DESC`
	if activeOnly {
		query = `SELECT ` + ruleColumns + ` FROM filter_rules WHERE active = TRUE ORDER BY created_at DESC`
	}
	var rules []models.FilterRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list filter rules: %w", err)
	}
	return rules, nil
}
