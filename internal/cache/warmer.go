package cache

import (
	"context"
	"log"
	"time"
)

// Warmer refreshes the cached lists on a fixed interval so they rarely
// expire under a page request.
type Warmer struct {
	Backend  *Backend
	Interval time.Duration
}

func (w *Warmer) Run(ctx context.Context) error {
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// kick immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Warmer) tick(ctx context.Context) {
	if err := w.Backend.Refresh(ctx); err != nil {
		log.Printf("cache: refresh failed: %v", err)
	}
}
