package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/dedupe"
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/keys"
	"github.com/ericogr/chimera-descent/internal/logging"
	"github.com/ericogr/chimera-descent/internal/retry"
)

const encountersKey = "encounters"

type entry struct {
	value   interface{}
	fetched time.Time
}

// Repository caches a Provider per tier. It is itself a Provider and never
// returns a provider error: after retries it serves stale cache, then the
// fallback roster.
type Repository struct {
	provider Provider
	fallback Roster
	ttl      time.Duration
	policy   retry.Policy
	now      func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

type Option func(*Repository)

// WithClock replaces time.Now for TTL checks.
func WithClock(now func() time.Time) Option { return func(r *Repository) { r.now = now } }

// WithRetryPolicy replaces retry.DefaultPolicy.
func WithRetryPolicy(p retry.Policy) Option { return func(r *Repository) { r.policy = p } }

// NewRepository wraps provider with a cache of the given ttl. A nil
// provider serves the fallback roster directly.
func NewRepository(provider Provider, fallback Roster, ttl time.Duration, opts ...Option) *Repository {
	if len(fallback.Adversaries) == 0 {
		fallback = DefaultRoster()
	}
	r := &Repository{
		provider: provider,
		fallback: fallback,
		ttl:      ttl,
		policy:   retry.DefaultPolicy,
		now:      time.Now,
		entries:  make(map[string]entry),
	}
	for _, o := range opts {
		o(r)
	}
	if r.provider == nil {
		r.provider = fallback
	}
	return r
}

func (r *Repository) ListRegular(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return cached(ctx, r, string(game.TierRegular), r.provider.ListRegular, r.fallback.ListRegular)
}

func (r *Repository) ListElite(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return cached(ctx, r, string(game.TierElite), r.provider.ListElite, r.fallback.ListElite)
}

func (r *Repository) ListBoss(ctx context.Context) ([]game.AdversaryTemplate, error) {
	return cached(ctx, r, string(game.TierBoss), r.provider.ListBoss, r.fallback.ListBoss)
}

func (r *Repository) ListScriptedEncounters(ctx context.Context) ([]game.ScriptedEncounter, error) {
	return cached(ctx, r, encountersKey, r.provider.ListScriptedEncounters, r.fallback.ListScriptedEncounters)
}

// Invalidate drops every cached tier.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]entry)
}

func (r *Repository) lookup(key string) (entry, bool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return entry{}, false, false
	}
	return e, true, r.now().Sub(e.fetched) < r.ttl
}

func (r *Repository) store(key string, v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry{value: v, fetched: r.now()}
}

func cached[T any](ctx context.Context, r *Repository, tier string, load, fallback func(context.Context) ([]T, error)) ([]T, error) {
	key := keys.Catalog(tier)
	if e, ok, fresh := r.lookup(key); ok && fresh {
		return e.value.([]T), nil
	}

	ch := dedupe.CatalogGroup.DoChan(key, func() (interface{}, error) {
		if e, ok, fresh := r.lookup(key); ok && fresh {
			return e.value, nil
		}
		var out []T
		err := retry.Do(ctx, r.policy, func() error {
			v, err := load(ctx)
			if err != nil {
				return err
			}
			out = v
			return nil
		})
		if err != nil {
			return nil, err
		}
		r.store(key, out)
		logging.Debug("catalog refreshed", logging.Fields{constants.LogFieldKey: key})
		return out, nil
	})

	select {
	case res := <-ch:
		if res.Err == nil {
			if v, ok := res.Val.([]T); ok {
				return v, nil
			}
			return nil, fmt.Errorf("unexpected catalog value for %s", key)
		}
		if e, ok, _ := r.lookup(key); ok {
			logging.Warn("catalog provider failed; serving stale entry", logging.Fields{constants.LogFieldKey: key, "error": res.Err.Error()})
			return e.value.([]T), nil
		}
		logging.Error("catalog provider failed; serving static roster", res.Err, logging.Fields{constants.LogFieldKey: key})
		return fallback(ctx)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
