package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/civil"
)

const defaultSlotTimeout = 10 * time.Second

// CourtsNotice is shown in place of the court list when it cannot be loaded.
const CourtsNotice = "Não foi possível carregar a lista de quadras."

var ErrCourtsUnavailable = errors.New("booking: courts unavailable")

type selection struct {
	date    civil.Date
	courtID string
}

func (s selection) complete() bool { return !s.date.IsZero() && s.courtID != "" }

// Coordinator keeps the free start times for the selected (date, court)
// pair. Only the fetch for the latest selection may publish its result;
// superseded fetches are cancelled and anything they return is dropped.
type Coordinator struct {
	src     Catalog
	timeout time.Duration

	mu           sync.Mutex
	courts       []api.Court
	courtsLoaded bool
	sel          selection
	gen          uint64
	slots        []string
	fetching     bool
	cancel       context.CancelFunc
	done         chan struct{}
	onChange     func()
}

func NewCoordinator(src Catalog, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = defaultSlotTimeout
	}
	return &Coordinator{src: src, timeout: timeout}
}

// OnChange registers fn to run after the slot list or the fetching flag
// changes. fn is called without internal locks held.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// LoadCourts returns the court list, fetching it on first use. A failure is
// not cached so the next call tries again.
func (c *Coordinator) LoadCourts(ctx context.Context) ([]api.Court, error) {
	c.mu.Lock()
	if c.courtsLoaded {
		out := append([]api.Court(nil), c.courts...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	courts, err := c.src.Courts(ctx)
	if err != nil {
		log.Printf("booking: load courts: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrCourtsUnavailable, err)
	}

	c.mu.Lock()
	c.courts = courts
	c.courtsLoaded = true
	c.mu.Unlock()
	return append([]api.Court(nil), courts...), nil
}

// Select records the chosen date and court. A changed pair clears the slot
// list; when both parts are set a fetch starts in the background.
func (c *Coordinator) Select(ctx context.Context, date civil.Date, courtID string) {
	next := selection{date: date, courtID: courtID}

	c.mu.Lock()
	if next == c.sel {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.sel = next
	c.gen++
	c.slots = nil
	c.cancel, c.done, c.fetching = nil, nil, false

	if !next.complete() {
		c.mu.Unlock()
		c.notify()
		return
	}

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	done := make(chan struct{})
	c.cancel, c.done, c.fetching = cancel, done, true
	gen := c.gen
	c.mu.Unlock()

	c.notify()
	go c.fetch(fctx, cancel, gen, next, done)
}

func (c *Coordinator) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, sel selection, done chan struct{}) {
	defer close(done)
	defer cancel()

	slots, err := c.src.FreeSlots(ctx, sel.courtID, sel.date.String())

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		log.Printf("booking: dropped stale slots for court=%s date=%s", sel.courtID, sel.date)
		return
	}
	if err != nil {
		log.Printf("booking: free slots court=%s date=%s: %v", sel.courtID, sel.date, err)
		slots = nil
	}
	c.slots = slots
	c.fetching = false
	c.cancel = nil
	c.mu.Unlock()

	c.notify()
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Slots returns the free start times for the current selection.
func (c *Coordinator) Slots() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.slots...)
}

func (c *Coordinator) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetching
}

// Selected reports the current date and court.
func (c *Coordinator) Selected() (civil.Date, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel.date, c.sel.courtID
}

// Await blocks until no fetch is in flight for the current selection.
func (c *Coordinator) Await(ctx context.Context) error {
	for {
		c.mu.Lock()
		done, fetching := c.done, c.fetching
		c.mu.Unlock()
		if !fetching || done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels any fetch in flight.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}
