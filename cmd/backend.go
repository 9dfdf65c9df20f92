package cmd

import (
	"context"
	"log"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/cache"
	"github.com/example/quadras-reserva/internal/config"
)

// backend is the booking API as configured: the REST client, fronted by the
// Redis cache when REDIS_ADDR is set.
type backend struct {
	booking.Backend
	cached *cache.Backend
	store  *cache.Store
}

func openBackend(ctx context.Context, cfg config.Config) *backend {
	client := api.New(cfg.APIBaseURL, api.Options{Timeout: cfg.HTTPTimeout, Tracing: cfg.Tracing})
	b := &backend{Backend: client}
	if cfg.RedisAddr == "" {
		return b
	}

	b.store = cache.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := b.store.Ping(ctx); err != nil {
		log.Printf("cache: redis %s unreachable, continuing without it: %v", cfg.RedisAddr, err)
	}
	b.cached = cache.Wrap(client, b.store, cfg.CacheTTL)
	b.Backend = b.cached
	return b
}

func (b *backend) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
}
