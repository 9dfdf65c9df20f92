package web

import (
	"github.com/example/quadras-reserva/internal/api"
	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/civil"
	"github.com/example/quadras-reserva/internal/identifier"
)

const (
	labelConfirm    = "Confirmar Reserva"
	labelClosed     = "Agendamento Indisponível"
	labelProcessing = "Processando..."
)

type slotOption struct {
	Value    string
	Label    string
	Selected bool
}

type formView struct {
	Window       booking.Window
	Closed       bool
	Notice       string
	Courts       []api.Court
	CourtsNotice string

	Draft   booking.Draft
	CPF     string
	Date    string
	MinDate string
	MaxDate string

	Slots         []slotOption
	SlotHint      string
	SlotsDisabled bool
	// SlotsCourt and SlotsDate name the selection Slots belong to.
	SlotsCourt string
	SlotsDate  string

	SubmitDisabled bool
	SubmitLabel    string
}

func newFormView(w booking.Window, courts []api.Court, courtsErr error, ctrl *booking.Controller, week civil.Range) *formView {
	d := ctrl.Draft()
	avail := ctrl.Availability()
	slots := avail.Slots()
	loading := ctrl.Loading()
	selected := !d.Date.IsZero() && d.CourtID != ""

	v := &formView{
		Window:   w,
		Closed:   !w.OpenToday,
		Courts:   courts,
		Draft:    d,
		CPF:      identifier.Format(d.Identifier),
		Date:     d.Date.String(),
		MinDate:  week.Min.String(),
		MaxDate:  week.Max.String(),
		SlotHint: booking.PickerHint(selected, loading, len(slots)),

		SlotsDisabled:  !w.OpenToday || loading || !selected,
		SubmitDisabled: !w.OpenToday || loading,
	}
	if courtsErr != nil {
		v.CourtsNotice = booking.CourtsNotice
	}
	if date, courtID := avail.Selected(); !date.IsZero() && courtID != "" {
		v.SlotsCourt, v.SlotsDate = courtID, date.String()
	}
	for _, s := range slots {
		v.Slots = append(v.Slots, slotOption{Value: s, Label: booking.SlotLabel(s), Selected: s == d.StartTime})
	}
	switch {
	case loading:
		v.SubmitLabel = labelProcessing
	case w.OpenToday:
		v.SubmitLabel = labelConfirm
	default:
		v.SubmitLabel = labelClosed
	}
	return v
}

type resultView struct {
	Success bool
	Title   string
	Message string
	Button  string
}

func newResultView(o booking.Outcome) *resultView {
	if o.State == booking.StateSuccess {
		return &resultView{
			Success: true,
			Title:   "Reserva Confirmada!",
			Message: "Sua reserva foi realizada com sucesso. Em breve você receberá a confirmação.",
			Button:  "Fazer Nova Reserva",
		}
	}
	msg := o.Message
	if msg == "" {
		msg = "Não foi possível concluir a reserva. Tente novamente."
	}
	return &resultView{Title: "Ocorreu um Erro", Message: msg, Button: "Tentar Novamente"}
}

type lookupView struct {
	CPF     string
	State   booking.LookupState
	Message string
	Receipt *booking.Receipt
	History []booking.HistoryGroup
}

func newLookupView(raw string, res booking.LookupResult) *lookupView {
	v := &lookupView{
		CPF:     identifier.Format(raw),
		State:   res.State(),
		Message: res.Message(),
		History: res.HistoryGroups(),
	}
	if res.Active != nil {
		r := booking.NewReceipt(*res.Active)
		v.Receipt = &r
	}
	return v
}
