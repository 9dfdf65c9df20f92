package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", Options{})
}

func TestClient_Courts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/quadras" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-request-id") == "" {
			t.Error("x-request-id header missing")
		}
		_, _ = io.WriteString(w, `[{"id":1,"localizacao":"Ginásio Municipal","tipo":"Futsal"},{"id":"b2","localizacao":"Praça","tipo":"Areia"}]`)
	})

	got, err := c.Courts(context.Background())
	if err != nil {
		t.Fatalf("Courts() error = %v", err)
	}
	want := []Court{
		{ID: "1", Location: "Ginásio Municipal", Type: "Futsal"},
		{ID: "b2", Location: "Praça", Type: "Areia"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Courts() = %+v, want %+v", got, want)
	}
}

func TestClient_FreeSlots(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reserva/horarios/7/2025-01-10" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"horariosIndividuais":["8:00","09:00:00","bad","10:00"]}`)
	})

	got, err := c.FreeSlots(context.Background(), "7", "2025-01-10")
	if err != nil {
		t.Fatalf("FreeSlots() error = %v", err)
	}
	want := []string{"08:00", "09:00", "10:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FreeSlots() = %v, want %v", got, want)
	}
}

func TestClient_CreateReservation(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     bool
		wantMessage string
	}{
		{name: "created", status: http.StatusCreated, body: `{}`},
		{name: "server message", status: http.StatusConflict, body: `{"error":"Horário já reservado."}`, wantErr: true, wantMessage: "Horário já reservado."},
		{name: "message field", status: http.StatusBadRequest, body: `{"message":"CPF bloqueado"}`, wantErr: true, wantMessage: "CPF bloqueado"},
		{name: "no body", status: http.StatusInternalServerError, body: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got NewReservation
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/reserva/nova" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if ct := r.Header.Get("content-type"); ct != "application/json" {
					t.Errorf("content-type = %q", ct)
				}
				_ = json.NewDecoder(r.Body).Decode(&got)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			in := NewReservation{
				Name: "Ana", Identifier: "52998224725", CourtID: "7",
				Start: "2025-01-10T08:00", End: "2025-01-10T09:00", Origin: "LandingPage",
			}
			err := c.CreateReservation(context.Background(), in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateReservation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != in {
				t.Errorf("posted body = %+v, want %+v", got, in)
			}
			msg, ok := ServerMessage(err)
			if msg != tt.wantMessage || ok != (tt.wantMessage != "") {
				t.Errorf("ServerMessage() = %q, %v, want %q", msg, ok, tt.wantMessage)
			}
		})
	}
}

func TestClient_ReservationsByIdentifier(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reservas/cpf/52998224725":
			_, _ = io.WriteString(w, `[{"id":10,"nome":"Ana","dataInicio":"2025-01-10T08:00:00.000Z","dataFim":"2025-01-10T09:00:00.000Z","status":1,"Quadra":{"localizacao":"Ginásio","tipo":"Futsal","preco":"0"}}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Nenhuma reserva"}`)
		}
	})

	got, err := c.ReservationsByIdentifier(context.Background(), "52998224725")
	if err != nil {
		t.Fatalf("ReservationsByIdentifier() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "10" || got[0].Status != 1 || got[0].Court.Location != "Ginásio" {
		t.Errorf("ReservationsByIdentifier() = %+v", got)
	}

	_, err = c.ReservationsByIdentifier(context.Background(), "11144477735")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ReservationsByIdentifier() error = %v, want ErrNotFound", err)
	}
}

func TestClient_Rules(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"valor":"08:00","regra":"HORARIO_INICIO"},{"valor":5,"regra":"DIA_RESERVA"}]`)
	})
	got, err := c.Rules(context.Background())
	if err != nil {
		t.Fatalf("Rules() error = %v", err)
	}
	want := []Rule{{Value: "08:00", Name: "HORARIO_INICIO"}, {Value: "5", Name: "DIA_RESERVA"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rules() = %+v, want %+v", got, want)
	}
}

func TestClient_DecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})
	if _, err := c.Courts(context.Background()); err == nil {
		t.Error("Courts() error = nil, want decode error")
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := map[string]string{
		"08:00":    "08:00",
		"8:00":     "08:00",
		"08:00:00": "08:00",
		" 21:00 ":  "21:00",
		"":         "",
		"0800":     "",
		"123:00":   "",
	}
	for in, want := range tests {
		if got := normalizeTime(in); got != want {
			t.Errorf("normalizeTime(%q) = %q, want %q", in, got, want)
		}
	}
}
