package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/models"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
)

type ruleRepoStub struct {
	rules map[string]*models.FilterRule
}

func newRuleRepoStub() *ruleRepoStub {
	return &ruleRepoStub{rules: map[string]*models.FilterRule{}}
}

func (r *ruleRepoStub) Create(ctx context.Context, rule *models.FilterRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	r.rules[rule.ID] = rule
	return nil
}

func (r *ruleRepoStub) GetByID(ctx context.Context, id string) (*models.FilterRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return rule, nil
}

func (r *ruleRepoStub) List(ctx context.Context, activeOnly bool) ([]models.FilterRule, error) {
	var rules []models.FilterRule
	for _, rule := range r.rules {
		if activeOnly && !rule.Active {
			continue
		}
		rules = append(rules, *rule)
	}
	return rules, nil
}

type cacheInvalidatorStub struct {
	patterns []string
}

func (c *cacheInvalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

func newRuleServiceForTest(t *testing.T) (*RuleService, *ruleRepoStub, *cacheInvalidatorStub) {
	t.Helper()
	repo := newRuleRepoStub()
	cache := &cacheInvalidatorStub{}
	return NewRuleService(repo, cache, NewFilterService(), zap.NewNop()), repo, cache
}

func testPayload() dto.ContentPayload {
	content := sampleContent()
	return dto.ContentPayload{
		LearnerID:    content.LearnerID,
		LearnerName:  content.LearnerName,
		LearnerEmail: content.LearnerEmail,
		LearnerGroup: content.LearnerGroup,
		ContentID:    content.ContentID,
		ContentType:  content.ContentType,
		Title:        content.Title,
		ContentURL:   content.ContentURL,
		Grade:        content.Grade,
		Tags:         content.Tags,
	}
}

func TestRuleServiceCreate(t *testing.T) {
	svc, repo, cache := newRuleServiceForTest(t)

	rule, err := svc.Create(context.Background(), dto.FilterRuleRequest{
		Name:         "essays-b-or-better",
		ContentTypes: []string{"essay"},
		GradeMin:     strPtr("B"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, rule.ID)
	assert.True(t, rule.Active)
	assert.Contains(t, repo.rules, rule.ID)
	assert.Contains(t, cache.patterns, "rule:*")
}

func TestRuleServiceCreateRejectsBadContentType(t *testing.T) {
	svc, _, _ := newRuleServiceForTest(t)
	_, err := svc.Create(context.Background(), dto.FilterRuleRequest{
		Name:         "bad",
		ContentTypes: []string{"sculpture"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceCreateRejectsBadGrade(t *testing.T) {
	svc, _, _ := newRuleServiceForTest(t)
	_, err := svc.Create(context.Background(), dto.FilterRuleRequest{
		Name:     "bad",
		GradeMin: strPtr("Z"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceTestStoredRule(t *testing.T) {
	svc, repo, _ := newRuleServiceForTest(t)
	repo.rules["rule-1"] = &models.FilterRule{ID: "rule-1", Name: "b-or-better", GradeMin: strPtr("B"), Active: true}

	resp, err := svc.Test(context.Background(), dto.TestFilterRequest{
		Content: testPayload(),
		RuleID:  strPtr("rule-1"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Equal(t, models.ContentTypeEssay, resp.Summary.ContentType)
	assert.Equal(t, "A", resp.Summary.Grade)
}

func TestRuleServiceTestUnknownRule(t *testing.T) {
	svc, _, _ := newRuleServiceForTest(t)
	_, err := svc.Test(context.Background(), dto.TestFilterRequest{
		Content: testPayload(),
		RuleID:  strPtr("missing"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownRule.Code, appErrors.FromError(err).Code)
}

func TestRuleServiceTestInlineRule(t *testing.T) {
	svc, _, _ := newRuleServiceForTest(t)
	payload := testPayload()
	payload.Grade = "C"

	resp, err := svc.Test(context.Background(), dto.TestFilterRequest{
		Content: payload,
		Rule:    &dto.FilterRuleRequest{Name: "inline", GradeMin: strPtr("B")},
	})
	require.NoError(t, err)
	assert.False(t, resp.Allowed)
	assert.Contains(t, resp.Reason, "below")
}

func TestRuleServiceTestStoredRuleWinsOverInline(t *testing.T) {
	svc, repo, _ := newRuleServiceForTest(t)
	repo.rules["rule-1"] = &models.FilterRule{ID: "rule-1", Name: "allow-all", Active: true}

	resp, err := svc.Test(context.Background(), dto.TestFilterRequest{
		Content: testPayload(),
		RuleID:  strPtr("rule-1"),
		Rule:    &dto.FilterRuleRequest{Name: "deny", ContentTypes: []string{"video"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Contains(t, resp.Reason, "allow-all")
}

func TestRuleServiceTestNoRuleAllows(t *testing.T) {
	svc, _, _ := newRuleServiceForTest(t)
	resp, err := svc.Test(context.Background(), dto.TestFilterRequest{Content: testPayload()})
	require.NoError(t, err)
	assert.True(t, resp.Allowed)
	assert.Equal(t, "no filter rule configured", resp.Reason)
}

func TestRuleServiceList(t *testing.T) {
	svc, repo, _ := newRuleServiceForTest(t)
	repo.rules["rule-1"] = &models.FilterRule{ID: "rule-1", Name: "a", Active: true}
	repo.rules["rule-2"] = &models.FilterRule{ID: "rule-2", Name: "b", Active: false}

	rules, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}
