package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/models"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
)

type destRepoStub struct {
	dests map[string]*models.Destination
	err   error
}

func newDestRepoStub() *destRepoStub {
	return &destRepoStub{dests: map[string]*models.Destination{}}
}

func (r *destRepoStub) Create(ctx context.Context, dest *models.Destination) error {
	if r.err != nil {
		return r.err
	}
	if dest.ID == "" {
		dest.ID = uuid.NewString()
	}
	r.dests[dest.Name] = dest
	return nil
}

func (r *destRepoStub) List(ctx context.Context) ([]models.Destination, error) {
	var dests []models.Destination
	for _, dest := range r.dests {
		dests = append(dests, *dest)
	}
	return dests, nil
}

func newDestinationServiceForTest(t *testing.T) (*DestinationService, *destRepoStub, *ruleStoreStub, *cacheInvalidatorStub) {
	t.Helper()
	repo := newDestRepoStub()
	rules := &ruleStoreStub{rules: map[string]*models.FilterRule{}}
	cache := &cacheInvalidatorStub{}
	return NewDestinationService(repo, rules, cache, zap.NewNop()), repo, rules, cache
}

func TestDestinationServiceCreate(t *testing.T) {
	svc, repo, _, cache := newDestinationServiceForTest(t)

	resp, err := svc.Create(context.Background(), dto.DestinationRequest{
		Name:      "lrs-main",
		Kind:      models.DestinationKindLRS,
		Endpoint:  "http://lrs.example.com/xapi",
		AuthToken: "secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, models.DestinationKindLRS, resp.Kind)
	assert.Contains(t, repo.dests, "lrs-main")
	assert.Equal(t, "secret", repo.dests["lrs-main"].AuthToken)
	assert.Contains(t, cache.patterns, "dest:*")
}

func TestDestinationServiceCreateRejectsBadKind(t *testing.T) {
	svc, _, _, _ := newDestinationServiceForTest(t)
	_, err := svc.Create(context.Background(), dto.DestinationRequest{
		Name:     "bad",
		Kind:     "ftp",
		Endpoint: "http://example.com",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDestinationServiceCreateUnknownRule(t *testing.T) {
	svc, _, _, _ := newDestinationServiceForTest(t)
	_, err := svc.Create(context.Background(), dto.DestinationRequest{
		Name:     "hook",
		Kind:     models.DestinationKindWebhook,
		Endpoint: "http://example.com/hook",
		RuleID:   strPtr("missing"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownRule.Code, appErrors.FromError(err).Code)
}

func TestDestinationServiceCreateWithRule(t *testing.T) {
	svc, repo, rules, _ := newDestinationServiceForTest(t)
	rules.rules["rule-1"] = &models.FilterRule{ID: "rule-1", Name: "finals", Active: true}

	resp, err := svc.Create(context.Background(), dto.DestinationRequest{
		Name:     "hook",
		Kind:     models.DestinationKindWebhook,
		Endpoint: "http://example.com/hook",
		RuleID:   strPtr("rule-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.RuleID)
	assert.Equal(t, "rule-1", *resp.RuleID)
	assert.Contains(t, repo.dests, "hook")
}

func TestDestinationServiceCreateDuplicate(t *testing.T) {
	svc, repo, _, _ := newDestinationServiceForTest(t)
	repo.err = &pq.Error{Code: "23505"}

	_, err := svc.Create(context.Background(), dto.DestinationRequest{
		Name:     "lrs-main",
		Kind:     models.DestinationKindLRS,
		Endpoint: "http://lrs.example.com/xapi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDestinationServiceListHidesCredentials(t *testing.T) {
	svc, repo, _, _ := newDestinationServiceForTest(t)
	repo.dests["lrs-main"] = &models.Destination{
		ID:        "dest-1",
		Name:      "lrs-main",
		Kind:      models.DestinationKindLRS,
		Endpoint:  "http://lrs.example.com/xapi",
		AuthToken: "secret",
	}

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "lrs-main", items[0].Name)
	// DestinationResponse has no credential field at all.
	assert.Equal(t, "http://lrs.example.com/xapi", items[0].Endpoint)
}
