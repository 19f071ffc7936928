package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/models"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
)

type ruleRepository interface {
	Create(ctx context.Context, rule *models.FilterRule) error
	GetByID(ctx context.Context, id string) (*models.FilterRule, error)
	List(ctx context.Context, activeOnly bool) ([]models.FilterRule, error)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RuleService manages filter rules and hosts the filter diagnostic boundary.
type RuleService struct {
	repo   ruleRepository
	cache  cacheInvalidator
	filter *FilterService
	logger *zap.Logger
}

// NewRuleService constructs the service.
func NewRuleService(repo ruleRepository, cache cacheInvalidator, filter *FilterService, logger *zap.Logger) *RuleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleService{repo: repo, cache: cache, filter: filter, logger: logger}
}

// Create validates and persists a new rule.
func (s *RuleService) Create(ctx context.Context, req dto.FilterRuleRequest) (*models.FilterRule, error) {
	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create filter rule")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "rule:*"); err != nil {
			s.logger.Sugar().Warnw("failed to invalidate rule cache", "error", err)
		}
	}
	return rule, nil
}

// List returns all rules.
func (s *RuleService) List(ctx context.Context) ([]models.FilterRule, error) {
	rules, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list filter rules")
	}
	return rules, nil
}

// Test evaluates the filter decision for a content record without performing
// a push. RuleID takes precedence over an inline rule; with neither the
// decision is always allow.
func (s *RuleService) Test(ctx context.Context, req dto.TestFilterRequest) (*dto.TestFilterResponse, error) {
	content := req.Content.ToModel()
	if !content.ContentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported content type %q", content.ContentType))
	}

	var rule *models.FilterRule
	switch {
	case req.RuleID != nil && *req.RuleID != "":
		stored, err := s.repo.GetByID(ctx, *req.RuleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrUnknownRule, fmt.Sprintf("filter rule %q not found", *req.RuleID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load filter rule")
		}
		rule = stored
	case req.Rule != nil:
		inline, err := ruleFromRequest(*req.Rule)
		if err != nil {
			return nil, err
		}
		rule = inline
	}

	allowed, reason := s.filter.Evaluate(content, rule)
	return &dto.TestFilterResponse{
		Allowed: allowed,
		Reason:  reason,
		Summary: dto.TestFilterSummary{
			ContentType: content.ContentType,
			Grade:       content.Grade,
			Tags:        content.Tags,
			Group:       content.LearnerGroup,
		},
	}, nil
}

func ruleFromRequest(req dto.FilterRuleRequest) (*models.FilterRule, error) {
	for _, raw := range req.ContentTypes {
		if !models.ContentType(raw).Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported content type %q", raw))
		}
	}
	if req.GradeMin != nil && *req.GradeMin != "" {
		if _, ok := models.GradeRank(*req.GradeMin); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognised grade threshold %q", *req.GradeMin))
		}
	}
	return &models.FilterRule{
		Name:          req.Name,
		ContentTypes:  req.ContentTypes,
		GradeMin:      req.GradeMin,
		RequiredTags:  req.RequiredTags,
		LearnerGroups: req.LearnerGroups,
		Active:        true,
	}, nil
}
