package booking

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/civil"
	"github.com/example/quadras-reserva/internal/identifier"
)

// DefaultOrigin tags reservations made through the public booking page.
const DefaultOrigin = "LandingPage"

// Messages reported by Submit.
const (
	MsgMissingFields   = "Todos os campos são obrigatórios."
	MsgInvalidID       = "CPF inválido."
	MsgSlotUnavailable = "O horário selecionado não está mais disponível."
	MsgUnexpected      = "Ocorreu um erro inesperado."
)

// ErrBusy is returned by Submit while a submission or slot fetch is in flight.
var ErrBusy = errors.New("booking: form busy")

type Field string

const (
	FieldName       Field = "nome"
	FieldIdentifier Field = "cpf"
	FieldCourt      Field = "quadraId"
	FieldDate       Field = "data"
	FieldStartTime  Field = "horarioInicio"
)

// Fields lists the form fields in display order.
var Fields = []Field{FieldName, FieldIdentifier, FieldCourt, FieldDate, FieldStartTime}

// Draft is the form as the citizen has filled it so far. Identifier holds
// digits only.
type Draft struct {
	Name       string     `json:"nome,omitempty"`
	Identifier string     `json:"cpf,omitempty"`
	CourtID    string     `json:"quadraId,omitempty"`
	Date       civil.Date `json:"data,omitempty"`
	StartTime  string     `json:"horarioInicio,omitempty"`
}

func (d Draft) complete() bool {
	return strings.TrimSpace(d.Name) != "" && d.Identifier != "" && d.CourtID != "" &&
		!d.Date.IsZero() && d.StartTime != ""
}

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of the latest submission. Message is set only in
// StateError.
type Outcome struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

type ControllerOptions struct {
	// Origin is sent as the reservation's origin tag.
	Origin string
	// SlotTimeout bounds each free-slot fetch.
	SlotTimeout time.Duration
	OnSuccess   func()
	OnError     func(msg string)
}

// Controller drives the reservation form: it owns the draft, keeps the chosen
// start time consistent with the free slots, and submits the reservation.
type Controller struct {
	backend   FormBackend
	avail     *Coordinator
	origin    string
	onSuccess func()
	onError   func(string)

	mu      sync.Mutex
	draft   Draft
	outcome Outcome
}

func NewController(backend FormBackend, opts ControllerOptions) *Controller {
	origin := opts.Origin
	if origin == "" {
		origin = DefaultOrigin
	}
	c := &Controller{
		backend:   backend,
		avail:     NewCoordinator(backend, opts.SlotTimeout),
		origin:    origin,
		onSuccess: opts.OnSuccess,
		onError:   opts.OnError,
	}
	c.avail.OnChange(c.reconcile)
	return c
}

// Availability exposes the slot coordinator backing the form.
func (c *Controller) Availability() *Coordinator { return c.avail }

func (c *Controller) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Loading reports whether a submission or a slot fetch is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	submitting := c.outcome.State == StateSubmitting
	c.mu.Unlock()
	return submitting || c.avail.Fetching()
}

// HandleFieldChange applies one field edit. Changing the date or the court
// clears the start time and starts a new slot query.
func (c *Controller) HandleFieldChange(ctx context.Context, field Field, value string) {
	c.mu.Lock()
	reselect := false
	switch field {
	case FieldName:
		c.draft.Name = value
	case FieldIdentifier:
		c.draft.Identifier = identifier.Normalize(value)
	case FieldCourt:
		if v := strings.TrimSpace(value); v != c.draft.CourtID {
			c.draft.CourtID = v
			c.draft.StartTime = ""
			reselect = true
		}
	case FieldDate:
		d, err := civil.ParseDate(strings.TrimSpace(value))
		if err != nil {
			d = civil.Date{}
		}
		if d != c.draft.Date {
			c.draft.Date = d
			c.draft.StartTime = ""
			reselect = true
		}
	case FieldStartTime:
		c.draft.StartTime = strings.TrimSpace(value)
	default:
		c.mu.Unlock()
		log.Printf("booking: ignoring unknown field %q", field)
		return
	}
	date, courtID := c.draft.Date, c.draft.CourtID
	c.mu.Unlock()

	if reselect {
		c.avail.Select(ctx, date, courtID)
		return
	}
	if field == FieldStartTime {
		c.reconcile()
	}
}

// Restore replaces the draft, for instance with one kept in a session, and
// queries slots for its date and court. The start time survives only if it
// is still free.
func (c *Controller) Restore(ctx context.Context, d Draft) {
	d.Identifier = identifier.Normalize(d.Identifier)
	c.mu.Lock()
	c.draft = d
	c.mu.Unlock()
	c.avail.Select(ctx, d.Date, d.CourtID)
	c.reconcile()
}

// reconcile drops a start time that is not among the settled slot list.
func (c *Controller) reconcile() {
	if c.avail.Fetching() {
		return
	}
	slots := c.avail.Slots()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.StartTime != "" && !containsSlot(slots, c.draft.StartTime) {
		c.draft.StartTime = ""
	}
}

// Submit validates the draft and creates the reservation. Validation and
// backend failures end in StateError and are not returned as errors; the
// only error is ErrBusy.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.outcome.State == StateSubmitting || c.avail.Fetching() {
		o := c.outcome
		c.mu.Unlock()
		return o, ErrBusy
	}
	c.outcome = Outcome{State: StateSubmitting}
	d := c.draft
	c.mu.Unlock()

	req, msg := c.request(d)
	if msg != "" {
		return c.fail(msg), nil
	}

	if err := c.backend.CreateReservation(ctx, req); err != nil {
		log.Printf("booking: create reservation court=%s start=%s cpf=%s: %v",
			req.CourtID, req.Start, identifier.Fingerprint(req.Identifier), err)
		return c.fail(failureMessage(err)), nil
	}

	log.Printf("booking: reservation created court=%s start=%s cpf=%s",
		req.CourtID, req.Start, identifier.Fingerprint(req.Identifier))
	c.mu.Lock()
	c.outcome = Outcome{State: StateSuccess}
	c.mu.Unlock()
	if c.onSuccess != nil {
		c.onSuccess()
	}
	return Outcome{State: StateSuccess}, nil
}

func (c *Controller) request(d Draft) (api.NewReservation, string) {
	if !d.complete() {
		return api.NewReservation{}, MsgMissingFields
	}
	if !identifier.Validate(d.Identifier) {
		return api.NewReservation{}, MsgInvalidID
	}
	if !containsSlot(c.avail.Slots(), d.StartTime) {
		return api.NewReservation{}, MsgSlotUnavailable
	}
	start, err := d.Date.At(d.StartTime)
	if err != nil {
		return api.NewReservation{}, MsgSlotUnavailable
	}
	return api.NewReservation{
		Name:       strings.TrimSpace(d.Name),
		Identifier: identifier.Digits(d.Identifier),
		CourtID:    d.CourtID,
		Start:      start.String(),
		End:        start.AddMinutes(SlotMinutes).String(),
		Origin:     c.origin,
	}, ""
}

func (c *Controller) fail(msg string) Outcome {
	o := Outcome{State: StateError, Message: msg}
	c.mu.Lock()
	c.outcome = o
	c.mu.Unlock()
	if c.onError != nil {
		c.onError(msg)
	}
	return o
}

// failureMessage prefers the backend's own explanation. Transport and
// decoding errors are not shown to citizens.
func failureMessage(err error) string {
	if msg, ok := api.ServerMessage(err); ok {
		return msg
	}
	return MsgUnexpected
}

// Reset returns to StateIdle with an empty draft.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.draft = Draft{}
	c.outcome = Outcome{}
	c.mu.Unlock()
	c.avail.Select(context.Background(), civil.Date{}, "")
}

// Close releases the slot coordinator.
func (c *Controller) Close() { c.avail.Close() }
