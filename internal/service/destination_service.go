package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/models"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
)

type destinationRepository interface {
	Create(ctx context.Context, dest *models.Destination) error
	List(ctx context.Context) ([]models.Destination, error)
}

// DestinationService manages destination configurations for the adapter
// resolution step.
type DestinationService struct {
	repo   destinationRepository
	rules  ruleStore
	cache  cacheInvalidator
	logger *zap.Logger
}

// NewDestinationService constructs the service.
func NewDestinationService(repo destinationRepository, rules ruleStore, cache cacheInvalidator, logger *zap.Logger) *DestinationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DestinationService{repo: repo, rules: rules, cache: cache, logger: logger}
}

// Create validates and persists a destination. A referenced rule must exist.
func (s *DestinationService) Create(ctx context.Context, req dto.DestinationRequest) (*dto.DestinationResponse, error) {
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported destination kind %q", req.Kind))
	}
	if req.RuleID != nil && *req.RuleID != "" {
		if _, err := s.rules.GetByID(ctx, *req.RuleID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrUnknownRule, fmt.Sprintf("filter rule %q not found", *req.RuleID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filter rule")
		}
	}

	dest := &models.Destination{
		Name:      req.Name,
		Kind:      req.Kind,
		Endpoint:  req.Endpoint,
		AuthToken: req.AuthToken,
		RuleID:    req.RuleID,
	}
	if err := s.repo.Create(ctx, dest); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("destination %q already exists", req.Name))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create destination")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "dest:*"); err != nil {
			s.logger.Sugar().Warnw("failed to invalidate destination cache", "error", err)
		}
	}

	resp := destinationResponse(dest)
	return &resp, nil
}

// List returns all destinations without credentials.
func (s *DestinationService) List(ctx context.Context) ([]dto.DestinationResponse, error) {
	dests, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list destinations")
	}
	items := make([]dto.DestinationResponse, 0, len(dests))
	for i := range dests {
		items = append(items, destinationResponse(&dests[i]))
	}
	return items, nil
}

func destinationResponse(dest *models.Destination) dto.DestinationResponse {
	return dto.DestinationResponse{
		ID:       dest.ID,
		Name:     dest.Name,
		Kind:     dest.Kind,
		Endpoint: dest.Endpoint,
		RuleID:   dest.RuleID,
	}
}
