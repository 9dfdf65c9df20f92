package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Court is a bookable court as listed by GET /quadras.
type Court struct {
	ID       ID     `json:"id"`
	Location string `json:"localizacao"`
	Type     string `json:"tipo"`
}

// Rule is one entry of GET /configuracoes.
type Rule struct {
	Value string `json:"valor"`
	Name  string `json:"regra"`
}

// UnmarshalJSON accepts valor as a string or a number.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value ID     `json:"valor"`
		Name  string `json:"regra"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Value, r.Name = string(raw.Value), raw.Name
	return nil
}

// NewReservation is the body of POST /reserva/nova. Start and End are civil
// YYYY-MM-DDTHH:MM strings.
type NewReservation struct {
	Name       string `json:"nome"`
	Identifier string `json:"cpf"`
	CourtID    string `json:"quadraId"`
	Start      string `json:"dataInicio"`
	End        string `json:"dataFim"`
	Origin     string `json:"origem"`
}

// Reservation is a record returned by GET /reservas/cpf/{cpf}.
type Reservation struct {
	ID     ID     `json:"id"`
	Name   string `json:"nome"`
	Start  string `json:"dataInicio"`
	End    string `json:"dataFim"`
	Status int    `json:"status"`
	Court  struct {
		Location string `json:"localizacao"`
		Type     string `json:"tipo"`
		Price    string `json:"preco"`
	} `json:"Quadra"`
}

type freeSlotsResponse struct {
	Slots []string `json:"horariosIndividuais"`
}

// ID accepts both JSON strings and numbers; the backend has used both.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("api: id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

var ErrNotFound = errors.New("api: not found")

// Error is a non-2xx answer from the backend. Message carries the backend's own
// explanation when the body had one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status=%d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status=%d)", e.Status)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// ServerMessage returns the backend-provided message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message, true
	}
	return "", false
}
