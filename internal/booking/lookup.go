package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/identifier"
)

// HistoryLimit caps each non-active status group.
const HistoryLimit = 3

// Notices and messages of the lookup screen.
const (
	NoticeNotFound  = "Nenhuma reserva encontrada ou CPF inválido."
	MsgNoneFound    = "Nenhuma reserva encontrada para este CPF."
	MsgNoActive     = "Você não possui reservas ativas no momento."
	ReceiptTitle    = "Comprovante de Reserva"
	ReceiptIssuer   = "Prefeitura de Teodoro Sampaio - SP"
	receiptDateTime = "02/01/2006 15:04"
)

// Record is a stored reservation with its times resolved to the municipal
// time zone. Start and End are zero when the backend sent an unreadable
// value; StartRaw and EndRaw keep what was sent.
type Record struct {
	ID            string
	Name          string
	Start         time.Time
	End           time.Time
	StartRaw      string
	EndRaw        string
	Status        Status
	CourtLocation string
	CourtType     string
	CourtPrice    string
}

// Court is the court as printed on screens and receipts.
func (r Record) Court() string {
	return strings.TrimSpace(r.CourtLocation + " " + r.CourtType)
}

// Period renders the reservation span as dd/mm/aaaa hh:mm - dd/mm/aaaa hh:mm.
func (r Record) Period() string {
	return formatInstant(r.Start, r.StartRaw) + " - " + formatInstant(r.End, r.EndRaw)
}

func formatInstant(t time.Time, raw string) string {
	if t.IsZero() {
		return raw
	}
	return t.Format(receiptDateTime)
}

type LookupState int

const (
	NotSearched LookupState = iota
	NoneFound
	NoActive
	HasActive
)

// LookupResult is what a search produced. History holds the non-active
// groups, newest first.
type LookupResult struct {
	Searched bool
	Notice   string
	Records  []Record
	Active   *Record
	History  map[Status][]Record
}

func (r LookupResult) State() LookupState {
	switch {
	case !r.Searched:
		return NotSearched
	case len(r.Records) == 0:
		return NoneFound
	case r.Active == nil:
		return NoActive
	default:
		return HasActive
	}
}

// Message is the text shown for the result state, if any.
func (r LookupResult) Message() string {
	switch r.State() {
	case NoneFound:
		if r.Notice != "" {
			return r.Notice
		}
		return MsgNoneFound
	case NoActive:
		return MsgNoActive
	default:
		return ""
	}
}

// HistoryGroups returns the non-empty history groups in display order.
func (r LookupResult) HistoryGroups() []HistoryGroup {
	var out []HistoryGroup
	for _, s := range historyStatuses {
		if recs := r.History[s]; len(recs) > 0 {
			out = append(out, HistoryGroup{Status: s, Records: recs})
		}
	}
	return out
}

type HistoryGroup struct {
	Status  Status
	Records []Record
}

type Lookup struct {
	src ReservationFinder
	loc *time.Location
}

// NewLookup returns a lookup service that shows times in loc.
func NewLookup(src ReservationFinder, loc *time.Location) *Lookup {
	if loc == nil {
		loc = time.Local
	}
	return &Lookup{src: src, loc: loc}
}

// Find fetches the reservations of the identifier in raw, which may carry
// punctuation. A rejected or unknown identifier is an empty result with a
// notice rather than an error.
func (l *Lookup) Find(ctx context.Context, raw string) (LookupResult, error) {
	digits := identifier.Digits(raw)
	if digits == "" {
		return LookupResult{Searched: true, Notice: NoticeNotFound}, nil
	}

	list, err := l.src.ReservationsByIdentifier(ctx, digits)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusNotFound || apiErr.Status == http.StatusBadRequest) {
			return LookupResult{Searched: true, Notice: NoticeNotFound}, nil
		}
		return LookupResult{Searched: true}, fmt.Errorf("lookup reservations: %w", err)
	}

	records := make([]Record, 0, len(list))
	for _, r := range list {
		records = append(records, l.record(r))
	}
	active, history := Partition(records)
	log.Printf("booking: lookup cpf=%s records=%d active=%t", identifier.Fingerprint(digits), len(records), active != nil)
	return LookupResult{Searched: true, Records: records, Active: active, History: history}, nil
}

func (l *Lookup) record(r api.Reservation) Record {
	return Record{
		ID:            r.ID.String(),
		Name:          r.Name,
		Start:         parseInstant(r.Start, l.loc),
		End:           parseInstant(r.End, l.loc),
		StartRaw:      r.Start,
		EndRaw:        r.End,
		Status:        Status(r.Status),
		CourtLocation: r.Court.Location,
		CourtType:     r.Court.Type,
		CourtPrice:    r.Court.Price,
	}
}

// parseInstant reads an RFC 3339 timestamp, converting it to loc, or a
// zone-less local date-time taken to be in loc.
func parseInstant(s string, loc *time.Location) time.Time {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc)
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Partition picks the first ACTIVE record and groups the others by status,
// newest start first, at most HistoryLimit per group.
func Partition(records []Record) (*Record, map[Status][]Record) {
	var active *Record
	for i := range records {
		if records[i].Status == StatusActive {
			r := records[i]
			active = &r
			break
		}
	}

	history := make(map[Status][]Record)
	for _, s := range historyStatuses {
		var group []Record
		for _, r := range records {
			if r.Status == s {
				group = append(group, r)
			}
		}
		if len(group) == 0 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool { return newer(group[i], group[j]) })
		if len(group) > HistoryLimit {
			group = group[:HistoryLimit]
		}
		history[s] = group
	}
	return active, history
}

func newer(a, b Record) bool {
	if !a.Start.IsZero() && !b.Start.IsZero() {
		return a.Start.After(b.Start)
	}
	if a.Start.IsZero() != b.Start.IsZero() {
		return b.Start.IsZero()
	}
	return a.StartRaw > b.StartRaw
}

// Receipt is the printable proof of an active reservation.
type Receipt struct {
	Title  string
	Issuer string
	Client string
	Court  string
	Period string
	Status string
	Code   string
}

func NewReceipt(r Record) Receipt {
	return Receipt{
		Title:  ReceiptTitle,
		Issuer: ReceiptIssuer,
		Client: r.Name,
		Court:  r.Court(),
		Period: r.Period(),
		Status: r.Status.Label(),
		Code:   r.ID,
	}
}
