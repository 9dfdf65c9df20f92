package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/clock"
)

// 2025-03-07 is a Friday.
var fridayNoon = time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)

func TestRuleResolver_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		rules     []api.Rule
		now       time.Time
		wantDay   time.Weekday
		wantOpen  bool
		wantTitle string
	}{
		{
			name:      "numeric weekday open",
			rules:     []api.Rule{{Name: "DIA_AGENDAMENTO", Value: "5"}},
			now:       fridayNoon,
			wantDay:   time.Friday,
			wantOpen:  true,
			wantTitle: "Agendamento aberto",
		},
		{
			name:      "named weekday closed",
			rules:     []api.Rule{{Name: "DIA_AGENDAMENTO", Value: "Segunda-Feira"}},
			now:       fridayNoon,
			wantDay:   time.Monday,
			wantOpen:  false,
			wantTitle: "Agendamento fechado",
		},
		{
			name: "boundary rules come first",
			rules: []api.Rule{
				{Name: RuleDayStart, Value: "08:00"},
				{Name: RuleDayEnd, Value: "22:00"},
				{Name: "DIA_AGENDAMENTO", Value: "sábado"},
				{Name: "OUTRA", Value: "1"},
			},
			now:       fridayNoon.AddDate(0, 0, 1),
			wantDay:   time.Saturday,
			wantOpen:  true,
			wantTitle: "Agendamento aberto",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRuleResolver(&MockBackend{RuleList: tt.rules}, clock.Fixed{T: tt.now})
			got, err := r.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Weekday != tt.wantDay || got.OpenToday != tt.wantOpen || got.Title != tt.wantTitle {
				t.Errorf("Resolve() = %+v", got)
			}
			if got.RuleName != "DIA_AGENDAMENTO" {
				t.Errorf("RuleName = %q", got.RuleName)
			}
		})
	}
}

func TestRuleResolver_OpeningHours(t *testing.T) {
	rules := []api.Rule{
		{Name: RuleDayStart, Value: "08:00"},
		{Name: "DIA_AGENDAMENTO", Value: "1"},
		{Name: RuleDayEnd, Value: "22:00"},
	}
	r := NewRuleResolver(&MockBackend{RuleList: rules}, clock.Fixed{T: fridayNoon})
	got, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.DayStart != "08:00" || got.DayEnd != "22:00" {
		t.Errorf("DayStart, DayEnd = %q, %q", got.DayStart, got.DayEnd)
	}
	if !strings.Contains(got.Message, "às segundas-feiras") || !strings.Contains(got.Message, "08:00 às 22:00") {
		t.Errorf("Message = %q", got.Message)
	}
}

func TestRuleResolver_Failures(t *testing.T) {
	tests := []struct {
		name string
		m    *MockBackend
	}{
		{"fetch error", &MockBackend{RulesErr: errors.New("timeout")}},
		{"no rules", &MockBackend{}},
		{"only boundaries", &MockBackend{RuleList: []api.Rule{{Name: RuleDayStart, Value: "08:00"}, {Name: RuleDayEnd, Value: "22:00"}}}},
		{"malformed weekday", &MockBackend{RuleList: []api.Rule{{Name: "DIA", Value: "feriado"}}}},
		{"out of range", &MockBackend{RuleList: []api.Rule{{Name: "DIA", Value: "7"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleResolver(tt.m, clock.Fixed{T: fridayNoon}).Resolve(context.Background())
			if !errors.Is(err, ErrNoBookingRule) {
				t.Errorf("Resolve() error = %v, want ErrNoBookingRule", err)
			}
		})
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"0":             time.Sunday,
		" 6 ":           time.Saturday,
		"domingo":       time.Sunday,
		"Terça-feira":   time.Tuesday,
		"terca":         time.Tuesday,
		"QUARTA FEIRA":  time.Wednesday,
		"quinta":        time.Thursday,
		"Sexta-Feira":   time.Friday,
		"Sabado":        time.Saturday,
		"segunda-feira": time.Monday,
	}
	for in, want := range tests {
		got, ok := ParseWeekday(in)
		if !ok || got != want {
			t.Errorf("ParseWeekday(%q) = %v, %v, want %v", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "-1", "8", "dia"} {
		if _, ok := ParseWeekday(in); ok {
			t.Errorf("ParseWeekday(%q) ok = true", in)
		}
	}
}
