// Package session keeps a visitor's form draft and the last submission
// outcome in a signed and encrypted cookie.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"

	"github.com/example/quadras-reserva/internal/booking"
)

const (
	cookieName = "quadras_sessao"
	maxAge     = 2 * time.Hour
)

type ctxKey string

const visitorKey ctxKey = "visitor"

// State is what a visitor carries between requests. Outcome is a flash: it
// is set by the submit handler and read by the result screen.
type State struct {
	Visitor string           `json:"v,omitempty"`
	Draft   booking.Draft    `json:"d"`
	Outcome *booking.Outcome `json:"o,omitempty"`
}

type Store struct {
	sc *securecookie.SecureCookie
}

func NewStore(hashKey, blockKey []byte) *Store {
	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(int(maxAge.Seconds()))
	sc.SetSerializer(securecookie.JSONEncoder{})
	return &Store{sc: sc}
}

// Load returns the visitor's state. A missing or tampered cookie yields an
// empty State and false.
func (s *Store) Load(r *http.Request) (State, bool) {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return State{}, false
	}
	var st State
	if err := s.sc.Decode(cookieName, c.Value, &st); err != nil {
		return State{}, false
	}
	return st, true
}

func (s *Store) Save(w http.ResponseWriter, r *http.Request, st State) error {
	if st.Visitor == "" {
		st.Visitor, _ = VisitorFromContext(r.Context())
	}
	encoded, err := s.sc.Encode(cookieName, st)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(maxAge.Seconds()),
	})
	return nil
}

// Visitors tags each request with a stable visitor id taken from the
// session, or a fresh one for new visitors.
func (s *Store) Visitors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, _ := s.Load(r)
		id := st.Visitor
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), visitorKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func VisitorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(visitorKey).(string)
	return id, ok
}
