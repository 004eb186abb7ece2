package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
	"github.com/taxpadi/taxpadi-engine-go/internal/infra/observability"
	"github.com/taxpadi/taxpadi-engine-go/internal/rules"
)

var rulesTracer = otel.Tracer("service/rules")

// RulesService fronts the rule registry for the admin surface and the
// background refresh loop.
type RulesService struct {
	registry     *rules.Registry
	fetcher      rules.OverrideFetcher
	fetchTimeout time.Duration
	metrics      *observability.Metrics
	logger       *zap.Logger
}

// NewRulesService creates the rules admin service. fetcher may be nil
// when no remote override source is configured; manual overrides still
// work.
func NewRulesService(
	registry *rules.Registry,
	fetcher rules.OverrideFetcher,
	fetchTimeout time.Duration,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *RulesService {
	metrics.SetSnapshotVersion(registry.Meta().Version)
	return &RulesService{
		registry:     registry,
		fetcher:      fetcher,
		fetchTimeout: fetchTimeout,
		metrics:      metrics,
		logger:       logger,
	}
}

// Meta returns the active snapshot's version metadata.
func (s *RulesService) Meta() domain.RuleMeta {
	return s.registry.Meta()
}

// ApplyOverride validates and publishes an admin-supplied override
// document. The active snapshot survives any rejection.
func (s *RulesService) ApplyOverride(ctx context.Context, doc *domain.OverrideDocument) (domain.RuleMeta, error) {
	_, span := rulesTracer.Start(ctx, "RulesService.ApplyOverride")
	defer span.End()

	snapshot, err := s.registry.Apply(doc)
	if err != nil {
		s.metrics.IncrRuleRefresh("rejected")
		return domain.RuleMeta{}, err
	}

	s.metrics.IncrRuleRefresh("applied")
	s.metrics.SetSnapshotVersion(snapshot.Meta.Version)
	span.SetAttributes(attribute.String("rules.version", snapshot.Meta.Version))
	return snapshot.Meta, nil
}

// Refresh pulls the override document from the configured remote source
// under the fetch deadline. Fail-closed: any failure leaves the active
// snapshot current and is reported only to the caller and the logs.
func (s *RulesService) Refresh(ctx context.Context) (domain.RuleMeta, error) {
	ctx, span := rulesTracer.Start(ctx, "RulesService.Refresh")
	defer span.End()

	if s.fetcher == nil {
		return domain.RuleMeta{}, &domain.ErrValidation{Field: "overrideSource", Message: "no remote override source is configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	snapshot, err := s.registry.RefreshFrom(ctx, s.fetcher)
	if err != nil {
		s.metrics.IncrRuleRefresh("failed")
		s.metrics.IncrExternalError("rule-overrides")
		return domain.RuleMeta{}, err
	}

	s.metrics.IncrRuleRefresh("applied")
	s.metrics.SetSnapshotVersion(snapshot.Meta.Version)
	return snapshot.Meta, nil
}

// RunRefreshLoop periodically refreshes rules until ctx is cancelled.
// Intended to run in its own goroutine from main.
func (s *RulesService) RunRefreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("rule refresh loop started", zap.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rule refresh loop stopped")
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				// Already logged by the registry; keep the loop alive.
				continue
			}
		}
	}
}
