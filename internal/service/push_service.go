package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-content-push/internal/dto"
	"github.com/noah-isme/lms-content-push/internal/models"
	appErrors "github.com/noah-isme/lms-content-push/pkg/errors"
	"github.com/noah-isme/lms-content-push/pkg/jobs"
)

type pushStore interface {
	Create(ctx context.Context, rec *models.PushRecord) error
	GetByID(ctx context.Context, id string) (*models.PushRecord, error)
	UpdateState(ctx context.Context, id string, status models.PushStatus, retryCount int, lastError *string, updatedAt time.Time) error
	ListSince(ctx context.Context, since time.Time, status *models.PushStatus, limit, offset int) ([]models.PushRecord, error)
	CountSince(ctx context.Context, since time.Time, status *models.PushStatus) (int, error)
	ListPending(ctx context.Context, limit int) ([]models.PushRecord, error)
}

type destinationStore interface {
	GetByName(ctx context.Context, name string) (*models.Destination, error)
}

type ruleStore interface {
	GetByID(ctx context.Context, id string) (*models.FilterRule, error)
}

type lookupCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// PushServiceConfig governs the retry policy and lookup caching.
type PushServiceConfig struct {
	MaxRetries      int
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration
	LookupCacheTTL  time.Duration
}

// PushService orchestrates the push lifecycle: submission, filtering,
// statement generation, destination delivery with retry, and status
// bookkeeping. Each push id is processed by exactly one orchestrator run; the
// status store is the only shared state between runs.
type PushService struct {
	pushes       pushStore
	destinations destinationStore
	rules        ruleStore
	cache        lookupCache
	filter       *FilterService
	statements   *StatementService
	adapters     AdapterRegistry
	notifier     *StatusNotifier
	queue        jobDispatcher
	metrics      *MetricsService
	validate     *validator.Validate
	logger       *zap.Logger
	cfg          PushServiceConfig
}

// NewPushService constructs the orchestrator.
func NewPushService(
	pushes pushStore,
	destinations destinationStore,
	rules ruleStore,
	cache lookupCache,
	filter *FilterService,
	statements *StatementService,
	adapters AdapterRegistry,
	notifier *StatusNotifier,
	queue jobDispatcher,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg PushServiceConfig,
) *PushService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = time.Second
	}
	if cfg.RetryBackoffMax <= 0 {
		cfg.RetryBackoffMax = 30 * time.Second
	}
	if cfg.LookupCacheTTL <= 0 {
		cfg.LookupCacheTTL = 5 * time.Minute
	}
	return &PushService{
		pushes:       pushes,
		destinations: destinations,
		rules:        rules,
		cache:        cache,
		filter:       filter,
		statements:   statements,
		adapters:     adapters,
		notifier:     notifier,
		queue:        queue,
		metrics:      metrics,
		validate:     validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// Submit validates the request, creates the QUEUED record and enqueues the
// background unit of work. All delivery happens after this call returns.
func (s *PushService) Submit(ctx context.Context, content models.ContentRecord, destination string, force bool) (*dto.PushSubmitResponse, error) {
	if err := s.validate.Struct(content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content record")
	}
	if !content.ContentType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported content type %q", content.ContentType))
	}
	if content.Grade != "" {
		if _, ok := models.GradeRank(content.Grade); !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unrecognised grade %q", content.Grade))
		}
	}

	rec := &models.PushRecord{
		Content:     content,
		Destination: destination,
		ForcePush:   force,
		Status:      models.PushStatusQueued,
	}
	if err := s.pushes.Create(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create push record")
	}
	s.notifier.Publish(s.event(rec))

	if err := s.queue.Enqueue(jobs.Job{ID: rec.ID, Type: "push"}); err != nil {
		reason := "failed to enqueue push"
		if terr := s.transition(ctx, rec, models.PushStatusFailed, &reason); terr != nil {
			s.logger.Sugar().Errorw("failed to record enqueue failure", "push_id", rec.ID, "error", terr)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue push")
	}

	return &dto.PushSubmitResponse{ID: rec.ID, Status: rec.Status}, nil
}

// Process executes one push end to end. It is the jobs queue handler; the
// queue context is cancelled only by process shutdown.
func (s *PushService) Process(ctx context.Context, job jobs.Job) error {
	rec, err := s.pushes.GetByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load push %s: %w", job.ID, err)
	}
	if rec.Status.Terminal() {
		return nil
	}

	dest, err := s.resolveDestination(ctx, rec.Destination)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			reason := fmt.Sprintf("unknown destination %q", rec.Destination)
			return s.transition(ctx, rec, models.PushStatusFailed, &reason)
		}
		return fmt.Errorf("resolve destination for push %s: %w", rec.ID, err)
	}

	adapter, ok := s.adapters[dest.Kind]
	if !ok {
		reason := fmt.Sprintf("no adapter registered for destination kind %q", dest.Kind)
		return s.transition(ctx, rec, models.PushStatusFailed, &reason)
	}

	if !rec.ForcePush && dest.RuleID != nil {
		rule, err := s.resolveRule(ctx, *dest.RuleID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				reason := fmt.Sprintf("destination %q references unknown filter rule %q", dest.Name, *dest.RuleID)
				return s.transition(ctx, rec, models.PushStatusFailed, &reason)
			}
			return fmt.Errorf("resolve rule for push %s: %w", rec.ID, err)
		}
		if allowed, reason := s.filter.Evaluate(rec.Content, rule); !allowed {
			return s.transition(ctx, rec, models.PushStatusFilteredOut, &reason)
		}
	}

	if err := s.transition(ctx, rec, models.PushStatusInProgress, nil); err != nil {
		return err
	}

	stmt := s.statements.Generate(rec.Content)

	for attempt := 1; ; attempt++ {
		start := time.Now()
		outcome := adapter.Deliver(ctx, stmt, rec.Content, dest)
		s.metrics.ObserveDelivery(dest.Kind, time.Since(start))

		switch outcome.State {
		case DeliveryDelivered:
			return s.transition(ctx, rec, models.PushStatusDelivered, nil)
		case DeliveryFatal:
			reason := outcome.Reason
			return s.transition(ctx, rec, models.PushStatusFailed, &reason)
		}

		reason := outcome.Reason
		rec.RetryCount = attempt
		if attempt >= s.cfg.MaxRetries {
			return s.transition(ctx, rec, models.PushStatusFailed, &reason)
		}
		if err := s.transition(ctx, rec, models.PushStatusInProgress, &reason); err != nil {
			return err
		}
		s.metrics.RecordRetry()
		if err := s.waitBackoff(ctx, attempt); err != nil {
			return err
		}
	}
}

// Status returns the current push record snapshot.
func (s *PushService) Status(ctx context.Context, id string) (*dto.PushStatusResponse, error) {
	rec, err := s.pushes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load push record")
	}
	resp := snapshotResponse(rec)
	return &resp, nil
}

// Snapshot exposes the current record as a status event, used to seed
// subscribers attaching when the notifier has no topic for the push.
func (s *PushService) Snapshot(ctx context.Context, id string) (*PushStatusEvent, error) {
	rec, err := s.pushes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load push record")
	}
	evt := s.event(rec)
	return &evt, nil
}

// List performs the operational range scan: pushes created in the last N
// hours, optionally restricted to one status.
func (s *PushService) List(ctx context.Context, query dto.PushListQuery) ([]dto.PushStatusResponse, *models.Pagination, error) {
	hours := query.Hours
	if hours <= 0 {
		hours = 24
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	recs, err := s.pushes.ListSince(ctx, since, query.Status, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list push records")
	}
	total, err := s.pushes.CountSince(ctx, since, query.Status)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count push records")
	}

	items := make([]dto.PushStatusResponse, 0, len(recs))
	for i := range recs {
		items = append(items, snapshotResponse(&recs[i]))
	}
	return items, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// RecoverPending re-enqueues non-terminal pushes left over from a previous
// process, so a restart never strands a queued push.
func (s *PushService) RecoverPending(ctx context.Context) error {
	recs, err := s.pushes.ListPending(ctx, 0)
	if err != nil {
		return fmt.Errorf("list pending pushes: %w", err)
	}
	for i := range recs {
		rec := &recs[i]
		s.notifier.Publish(s.event(rec))
		if err := s.queue.Enqueue(jobs.Job{ID: rec.ID, Type: "push"}); err != nil {
			return fmt.Errorf("requeue push %s: %w", rec.ID, err)
		}
	}
	if len(recs) > 0 {
		s.logger.Sugar().Infow("recovered pending pushes", "count", len(recs))
	}
	return nil
}

// transition records a status change: store write first, then notifier, then
// metrics. Transitions out of a terminal status are refused.
func (s *PushService) transition(ctx context.Context, rec *models.PushRecord, status models.PushStatus, lastError *string) error {
	if rec.Status.Terminal() {
		return fmt.Errorf("push %s already terminal in status %s", rec.ID, rec.Status)
	}

	rec.Status = status
	rec.LastError = lastError
	rec.UpdatedAt = time.Now().UTC()

	if err := s.pushes.UpdateState(ctx, rec.ID, rec.Status, rec.RetryCount, rec.LastError, rec.UpdatedAt); err != nil {
		return fmt.Errorf("record transition of push %s to %s: %w", rec.ID, status, err)
	}
	s.notifier.Publish(s.event(rec))

	if status.Terminal() {
		s.metrics.RecordPushOutcome(status)
		s.logger.Sugar().Infow("push finished",
			"push_id", rec.ID,
			"destination", rec.Destination,
			"status", status,
			"retries", rec.RetryCount,
		)
	}
	return nil
}

func (s *PushService) event(rec *models.PushRecord) PushStatusEvent {
	return PushStatusEvent{
		PushID:     rec.ID,
		Status:     rec.Status,
		RetryCount: rec.RetryCount,
		LastError:  rec.LastError,
		UpdatedAt:  rec.UpdatedAt,
	}
}

func (s *PushService) resolveDestination(ctx context.Context, name string) (*models.Destination, error) {
	key := "dest:" + name
	if s.cache != nil {
		var cached models.Destination
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	dest, err := s.destinations.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, dest, s.cfg.LookupCacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache destination", "name", name, "error", err)
		}
	}
	return dest, nil
}

func (s *PushService) resolveRule(ctx context.Context, id string) (*models.FilterRule, error) {
	key := "rule:" + id
	if s.cache != nil {
		var cached models.FilterRule
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	rule, err := s.rules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, rule, s.cfg.LookupCacheTTL); err != nil {
			s.logger.Sugar().Warnw("failed to cache rule", "rule_id", id, "error", err)
		}
	}
	return rule, nil
}

// waitBackoff sleeps the exponential delay before the next attempt. Only
// process shutdown interrupts the wait.
func (s *PushService) waitBackoff(ctx context.Context, attempt int) error {
	delay := s.cfg.RetryBackoff << (attempt - 1)
	if delay > s.cfg.RetryBackoffMax || delay <= 0 {
		delay = s.cfg.RetryBackoffMax
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func snapshotResponse(rec *models.PushRecord) dto.PushStatusResponse {
	return dto.PushStatusResponse{
		ID:          rec.ID,
		Destination: rec.Destination,
		Status:      rec.Status,
		RetryCount:  rec.RetryCount,
		LastError:   rec.LastError,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
