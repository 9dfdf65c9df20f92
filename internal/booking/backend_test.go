package booking

import (
	"context"
	"sync"

	"github.com/example/quadras-reserva/internal/api"
)

// MockBackend records every call and answers from its fields. A gate
// registered for "court|date" holds FreeSlots until it is closed.
type MockBackend struct {
	mu sync.Mutex

	CourtList []api.Court
	CourtsErr error

	SlotsByKey map[string][]string
	SlotsErr   error
	gates      map[string]chan struct{}
	SlotCalls  []string

	CreateErr error
	Created   []api.NewReservation
	createHold    chan struct{}
	createEntered chan struct{}

	RuleList []api.Rule
	RulesErr error

	ReservationList []api.Reservation
	FindErr         error
	FindCalls       []string
}

func (m *MockBackend) Courts(ctx context.Context) ([]api.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CourtList, m.CourtsErr
}

func (m *MockBackend) Gate(courtID, date string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gates == nil {
		m.gates = make(map[string]chan struct{})
	}
	g := make(chan struct{})
	m.gates[courtID+"|"+date] = g
	return g
}

func (m *MockBackend) FreeSlots(ctx context.Context, courtID, date string) ([]string, error) {
	key := courtID + "|" + date
	m.mu.Lock()
	m.SlotCalls = append(m.SlotCalls, key)
	gate := m.gates[key]
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SlotsErr != nil {
		return nil, m.SlotsErr
	}
	return m.SlotsByKey[key], nil
}

func (m *MockBackend) CreateReservation(ctx context.Context, r api.NewReservation) error {
	m.mu.Lock()
	m.Created = append(m.Created, r)
	hold, entered := m.createHold, m.createEntered
	m.mu.Unlock()

	if hold != nil {
		close(entered)
		<-hold
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CreateErr
}

// HoldCreate makes CreateReservation wait until release is closed. entered
// is closed once the first call has been recorded.
func (m *MockBackend) HoldCreate() (release chan struct{}, entered chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createHold = make(chan struct{})
	m.createEntered = make(chan struct{})
	return m.createHold, m.createEntered
}

func (m *MockBackend) ReservationsByIdentifier(ctx context.Context, digits string) ([]api.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindCalls = append(m.FindCalls, digits)
	return m.ReservationList, m.FindErr
}

func (m *MockBackend) Rules(ctx context.Context) ([]api.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RuleList, m.RulesErr
}

func (m *MockBackend) createdCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

func (m *MockBackend) slotCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SlotCalls)
}

var _ Backend = (*MockBackend)(nil)
