package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/example/quadras-reserva/internal/clock"
)

// Rule names that carry the opening hours rather than the booking weekday.
const (
	RuleDayStart = "HORARIO_INICIO"
	RuleDayEnd   = "HORARIO_FIM"
)

// ErrNoBookingRule means the booking weekday could not be determined. Pages
// treat it as fatal.
var ErrNoBookingRule = errors.New("booking: no booking weekday rule")

var weekdayNames = [7]string{"domingo", "segunda-feira", "terça-feira", "quarta-feira", "quinta-feira", "sexta-feira", "sábado"}

var weekdayPlurals = [7]string{"aos domingos", "às segundas-feiras", "às terças-feiras", "às quartas-feiras", "às quintas-feiras", "às sextas-feiras", "aos sábados"}

// Window says whether booking is open today.
type Window struct {
	RuleName    string
	Weekday     time.Weekday
	WeekdayName string
	OpenToday   bool
	Title       string
	Message     string
	// DayStart and DayEnd are the configured opening hours, when present.
	DayStart string
	DayEnd   string
}

type RuleResolver struct {
	src   RuleSource
	clock clock.Clock
}

func NewRuleResolver(src RuleSource, clk clock.Clock) *RuleResolver {
	return &RuleResolver{src: src, clock: clk}
}

// Resolve fetches the rules and works out today's booking window.
func (r *RuleResolver) Resolve(ctx context.Context) (Window, error) {
	rules, err := r.src.Rules(ctx)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %w", ErrNoBookingRule, err)
	}

	var w Window
	found := false
	for _, rule := range rules {
		switch strings.TrimSpace(rule.Name) {
		case RuleDayStart:
			w.DayStart = strings.TrimSpace(rule.Value)
			continue
		case RuleDayEnd:
			w.DayEnd = strings.TrimSpace(rule.Value)
			continue
		}
		if found {
			continue
		}
		wd, ok := ParseWeekday(rule.Value)
		if !ok {
			return Window{}, fmt.Errorf("%w: rule %q has value %q", ErrNoBookingRule, rule.Name, rule.Value)
		}
		w.RuleName = rule.Name
		w.Weekday = wd
		found = true
	}
	if !found {
		return Window{}, ErrNoBookingRule
	}

	w.WeekdayName = weekdayNames[w.Weekday]
	w.OpenToday = r.clock.Now().Weekday() == w.Weekday
	if w.OpenToday {
		w.Title = "Agendamento aberto"
		w.Message = fmt.Sprintf("Hoje é %s: as reservas da semana estão liberadas.", w.WeekdayName)
	} else {
		w.Title = "Agendamento fechado"
		w.Message = fmt.Sprintf("As reservas são liberadas somente %s.", weekdayPlurals[w.Weekday])
	}
	if w.DayStart != "" && w.DayEnd != "" {
		w.Message += fmt.Sprintf(" Horário de funcionamento: %s às %s.", w.DayStart, w.DayEnd)
	}
	return w, nil
}

// ParseWeekday reads a weekday given as 0-6 (Sunday first) or as a
// Portuguese name, with or without "-feira" and accents.
func ParseWeekday(v string) (time.Weekday, bool) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, false
		}
		return time.Weekday(n), true
	}
	name := foldAccents(strings.ToLower(v))
	name = strings.TrimSuffix(name, "-feira")
	name = strings.TrimSuffix(name, " feira")
	switch name {
	case "domingo":
		return time.Sunday, true
	case "segunda":
		return time.Monday, true
	case "terca":
		return time.Tuesday, true
	case "quarta":
		return time.Wednesday, true
	case "quinta":
		return time.Thursday, true
	case "sexta":
		return time.Friday, true
	case "sabado":
		return time.Saturday, true
	}
	return 0, false
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
