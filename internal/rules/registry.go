package rules

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/taxpadi/taxpadi-engine-go/internal/domain"
)

// OverrideFetcher retrieves an override document from a remote source.
// Implementations must honor the context deadline.
type OverrideFetcher interface {
	FetchOverrides(ctx context.Context) (*domain.OverrideDocument, error)
}

// Registry publishes the active rule snapshot. Reads never block: the
// active snapshot is an atomic pointer, so refreshes publish a fully
// merged snapshot and swap the reference. In-flight computations observe
// either the old or the new snapshot in full, never a mix.
type Registry struct {
	active atomic.Pointer[domain.RuleSnapshot]
	group  singleflight.Group
	logger *zap.Logger
}

// NewRegistry creates a registry seeded with the built-in base snapshot.
func NewRegistry(logger *zap.Logger) *Registry {
	r := &Registry{logger: logger}
	r.active.Store(BaseSnapshot())
	return r
}

// Snapshot returns the currently active snapshot. Never nil, never blocks.
func (r *Registry) Snapshot() *domain.RuleSnapshot {
	return r.active.Load()
}

// Meta returns the active snapshot's version metadata.
func (r *Registry) Meta() domain.RuleMeta {
	return r.active.Load().Meta
}

// Apply validates an override document, merges it over the active
// snapshot and publishes the result. On any validation failure the
// previously active snapshot remains current.
func (r *Registry) Apply(doc *domain.OverrideDocument) (*domain.RuleSnapshot, error) {
	if doc == nil {
		return nil, &domain.ErrOverrideRejected{Reason: "override document is required"}
	}

	for {
		current := r.active.Load()
		if doc.Version == current.Meta.Version {
			return nil, &domain.ErrOverrideRejected{Reason: "version must differ from the active snapshot"}
		}

		merged := Merge(current, doc)
		if err := Validate(doc, merged); err != nil {
			return nil, err
		}

		// Re-merge against the snapshot another writer may have
		// published since the load, so no override is lost.
		if !r.active.CompareAndSwap(current, merged) {
			continue
		}

		r.logger.Info("rule snapshot published",
			zap.String("version", merged.Meta.Version),
			zap.String("source", merged.Meta.Source),
			zap.String("effective_date", merged.Meta.EffectiveDate),
			zap.String("previous_version", current.Meta.Version),
		)
		return merged, nil
	}
}

// RefreshFrom fetches an override document and applies it. Concurrent
// refreshes are collapsed into a single fetch. Fail-closed: on fetch or
// validation failure the error is returned and logged but the active
// snapshot is untouched, so computation callers are unaffected.
func (r *Registry) RefreshFrom(ctx context.Context, fetcher OverrideFetcher) (*domain.RuleSnapshot, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		doc, err := fetcher.FetchOverrides(ctx)
		if err != nil {
			return nil, err
		}
		if doc.Version == r.active.Load().Meta.Version {
			// Remote has nothing newer; keep the active snapshot.
			return r.active.Load(), nil
		}
		return r.Apply(doc)
	})
	if err != nil {
		r.logger.Warn("rule refresh failed, keeping last-good snapshot",
			zap.String("active_version", r.Meta().Version),
			zap.Error(err),
		)
		return nil, err
	}
	return v.(*domain.RuleSnapshot), nil
}
