package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/booking"
)

const (
	keyCourts = "courts"
	keyRules  = "rules"
)

const (
	DefaultTTL = 10 * time.Minute
	// fetchTimeout bounds a shared upstream fetch once it no longer follows
	// the caller that started it.
	fetchTimeout = 15 * time.Second
)

// Backend serves Courts and Rules from Redis and everything else straight
// from the wrapped backend. Free slots and reservations are never cached.
// When Redis is unreachable calls fall through to the backend.
type Backend struct {
	booking.Backend

	store *Store
	ttl   time.Duration
	group singleflight.Group
}

func Wrap(upstream booking.Backend, store *Store, ttl time.Duration) *Backend {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Backend{Backend: upstream, store: store, ttl: ttl}
}

func (b *Backend) Courts(ctx context.Context) ([]api.Court, error) {
	return cached(ctx, b, keyCourts, b.Backend.Courts)
}

func (b *Backend) Rules(ctx context.Context) ([]api.Rule, error) {
	return cached(ctx, b, keyRules, b.Backend.Rules)
}

// Refresh reloads both cached lists from the backend.
func (b *Backend) Refresh(ctx context.Context) error {
	courts, errC := b.Backend.Courts(ctx)
	if errC == nil {
		errC = b.store.setJSON(ctx, keyCourts, courts, b.ttl)
	}
	rules, errR := b.Backend.Rules(ctx)
	if errR == nil {
		errR = b.store.setJSON(ctx, keyRules, rules, b.ttl)
	}
	return errors.Join(errC, errR)
}

// Invalidate drops both cached lists.
func (b *Backend) Invalidate(ctx context.Context) error {
	return b.store.del(ctx, keyCourts, keyRules)
}

func cached[T any](ctx context.Context, b *Backend, key string, fetch func(context.Context) (T, error)) (T, error) {
	var v T
	hit, err := b.store.getJSON(ctx, key, &v)
	if err != nil {
		log.Printf("cache: get %s: %v", key, err)
	} else if hit {
		return v, nil
	}

	// The fetch is shared by every caller waiting on key, so it must not
	// end when the first caller's request does.
	res, err, _ := b.group.Do(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		v, err := fetch(fctx)
		if err != nil {
			return v, err
		}
		if err := b.store.setJSON(fctx, key, v, b.ttl); err != nil {
			log.Printf("cache: set %s: %v", key, err)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

var _ booking.Backend = (*Backend)(nil)
