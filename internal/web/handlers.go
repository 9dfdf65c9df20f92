package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/civil"
	"github.com/example/quadras-reserva/internal/session"
)

const (
	msgBookingClosed  = "O agendamento não está aberto hoje."
	msgLookupFailed   = "Não foi possível consultar as reservas. Tente novamente."
	msgWindowFatal    = "Não foi possível determinar o dia de agendamento. Tente novamente mais tarde."
	msgSessionFailure = "Não foi possível salvar o formulário."
)

// formPage holds the per-request state behind the form screen.
type formPage struct {
	window    booking.Window
	courts    []api.Court
	courtsErr error
	ctrl      *booking.Controller
}

// loadForm resolves the booking window, loads courts and rebuilds the
// controller from the visitor's draft. ok is false when a fatal page was
// already written.
func (s *Server) loadForm(ctx context.Context, w http.ResponseWriter, r *http.Request, st session.State) (*formPage, bool) {
	window, err := booking.NewRuleResolver(s.Backend, s.Clock).Resolve(ctx)
	if err != nil {
		log.Printf("web: booking window: %v", err)
		s.render(w, r, http.StatusServiceUnavailable, pageFatal, tmplData{Title: "Erro", Fatal: msgWindowFatal})
		return nil, false
	}

	ctrl := booking.NewController(s.Backend, booking.ControllerOptions{
		Origin:      s.Origin,
		SlotTimeout: s.SlotTimeout,
	})
	courts, courtsErr := ctrl.Availability().LoadCourts(ctx)

	ctrl.Restore(ctx, st.Draft)
	if err := ctrl.Availability().Await(ctx); err != nil {
		log.Printf("web: awaiting slots: %v", err)
	}
	return &formPage{window: window, courts: courts, courtsErr: courtsErr, ctrl: ctrl}, true
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pageTimeout)
	defer cancel()

	st, _ := s.Sessions.Load(r)
	p, ok := s.loadForm(ctx, w, r, st)
	if !ok {
		return
	}
	defer p.ctrl.Close()

	st.Draft = p.ctrl.Draft()
	if err := s.Sessions.Save(w, r, st); err != nil {
		log.Printf("web: save session: %v", err)
	}
	s.renderForm(w, r, p, "")
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, p *formPage, notice string) {
	v := newFormView(p.window, p.courts, p.courtsErr, p.ctrl, civil.WeekRange(s.Clock.Now()))
	v.Notice = notice
	s.render(w, r, http.StatusOK, pageForm, tmplData{Title: "Reservar", Form: v})
}

func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), pageTimeout)
	defer cancel()

	st, _ := s.Sessions.Load(r)
	p, ok := s.loadForm(ctx, w, r, st)
	if !ok {
		return
	}
	defer p.ctrl.Close()

	s.applyFields(ctx, p.ctrl, r)

	if r.PostFormValue("acao") != "reservar" {
		st.Draft = p.ctrl.Draft()
		if err := s.Sessions.Save(w, r, st); err != nil {
			log.Printf("web: save session: %v", err)
			s.renderForm(w, r, p, msgSessionFailure)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var out booking.Outcome
	if !p.window.OpenToday {
		out = booking.Outcome{State: booking.StateError, Message: msgBookingClosed}
	} else {
		var err error
		out, err = p.ctrl.Submit(ctx)
		if errors.Is(err, booking.ErrBusy) {
			s.renderForm(w, r, p, "")
			return
		}
		if out.State == booking.StateSuccess {
			p.ctrl.Reset()
		}
	}

	st.Draft = p.ctrl.Draft()
	st.Outcome = &out
	if err := s.Sessions.Save(w, r, st); err != nil {
		log.Printf("web: save session: %v", err)
		s.renderForm(w, r, p, msgSessionFailure)
		return
	}
	http.Redirect(w, r, "/resultado", http.StatusSeeOther)
}

// Hidden form fields naming the court and date the slot picker was
// rendered for.
const (
	fieldSlotsCourt = "horariosQuadra"
	fieldSlotsDate  = "horariosData"
)

// applyFields feeds the posted form to the controller. A posted start time
// is dropped when the court or date differs from the pair its slot list was
// rendered for. Without a rendered pair the start time is kept and Submit
// checks it against the free slots.
func (s *Server) applyFields(ctx context.Context, ctrl *booking.Controller, r *http.Request) {
	for _, f := range booking.Fields {
		if f == booking.FieldStartTime {
			continue
		}
		if vals, ok := r.PostForm[string(f)]; ok && len(vals) > 0 {
			ctrl.HandleFieldChange(ctx, f, vals[0])
		}
	}
	if err := ctrl.Availability().Await(ctx); err != nil {
		log.Printf("web: awaiting slots: %v", err)
	}

	start := strings.TrimSpace(r.PostFormValue(string(booking.FieldStartTime)))
	renderedCourt := strings.TrimSpace(r.PostFormValue(fieldSlotsCourt))
	renderedDate := strings.TrimSpace(r.PostFormValue(fieldSlotsDate))
	if renderedCourt != "" || renderedDate != "" {
		d := ctrl.Draft()
		if d.CourtID != renderedCourt || d.Date.String() != renderedDate {
			start = ""
		}
	}
	ctrl.HandleFieldChange(ctx, booking.FieldStartTime, start)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	st, _ := s.Sessions.Load(r)
	if st.Outcome == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, pageResult, tmplData{Title: "Resultado", Result: newResultView(*st.Outcome)})
}

func (s *Server) handleResultDismiss(w http.ResponseWriter, r *http.Request) {
	st, _ := s.Sessions.Load(r)
	st.Outcome = nil
	if err := s.Sessions.Save(w, r, st); err != nil {
		log.Printf("web: save session: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("cpf"))
	if raw == "" {
		s.render(w, r, http.StatusOK, pageLookup, tmplData{Title: "Minhas Reservas", Lookup: newLookupView("", booking.LookupResult{})})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pageTimeout)
	defer cancel()

	res, err := booking.NewLookup(s.Backend, s.Location).Find(ctx, raw)
	v := newLookupView(raw, res)
	if err != nil {
		log.Printf("web: lookup: %v", err)
		v.Message = msgLookupFailed
	}
	s.render(w, r, http.StatusOK, pageLookup, tmplData{Title: "Minhas Reservas", Lookup: v})
}
