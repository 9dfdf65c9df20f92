// Package booking is the reservation engine behind the court booking pages:
// which courts and start times are free, whether booking is open today, the
// reservation form state machine, and lookup of a citizen's reservations.
//
// The backend is reached only through the small interfaces below so every
// component can be driven by a fake in tests.
package booking

import (
	"context"

	"github.com/example/quadras-reserva/internal/api"
)

type CourtSource interface {
	Courts(ctx context.Context) ([]api.Court, error)
}

type SlotSource interface {
	FreeSlots(ctx context.Context, courtID, date string) ([]string, error)
}

// Catalog is what the availability coordinator reads.
type Catalog interface {
	CourtSource
	SlotSource
}

type ReservationCreator interface {
	CreateReservation(ctx context.Context, r api.NewReservation) error
}

type ReservationFinder interface {
	ReservationsByIdentifier(ctx context.Context, digits string) ([]api.Reservation, error)
}

type RuleSource interface {
	Rules(ctx context.Context) ([]api.Rule, error)
}

// FormBackend is what the form controller needs.
type FormBackend interface {
	Catalog
	ReservationCreator
}

// Backend is the whole booking API.
type Backend interface {
	FormBackend
	ReservationFinder
	RuleSource
}

var _ Backend = (*api.Client)(nil)
