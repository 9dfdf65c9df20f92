package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/clock"
)

func newBookCmd() *cobra.Command {
	var name, cpf, courtID, date, times string

	c := &cobra.Command{
		Use:   "book",
		Short: "Make a reservation through the same checks as the booking page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			clk := clock.Local{Loc: cfg.Location}
			d, err := dateOrToday(date, clk)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			w, err := booking.NewRuleResolver(b, clk).Resolve(ctx)
			if err != nil {
				return err
			}
			if !w.OpenToday {
				return fmt.Errorf("booking is closed today: %s", w.Message)
			}

			ctrl := booking.NewController(b, booking.ControllerOptions{Origin: cfg.Origin, SlotTimeout: cfg.HTTPTimeout})
			defer ctrl.Close()

			ctrl.HandleFieldChange(ctx, booking.FieldName, name)
			ctrl.HandleFieldChange(ctx, booking.FieldIdentifier, cpf)
			ctrl.HandleFieldChange(ctx, booking.FieldCourt, courtID)
			ctrl.HandleFieldChange(ctx, booking.FieldDate, d.String())
			if err := ctrl.Availability().Await(ctx); err != nil {
				return err
			}
			start, ok := booking.ChooseSlot(splitCSV(times), ctrl.Availability().Slots())
			if !ok {
				return fmt.Errorf("none of %q is free on %s", times, d)
			}
			ctrl.HandleFieldChange(ctx, booking.FieldStartTime, start)

			out, err := ctrl.Submit(ctx)
			if err != nil {
				return err
			}
			if out.State != booking.StateSuccess {
				return fmt.Errorf("reservation failed: %s", out.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reserved court=%s date=%s slot=%q\n", courtID, d, booking.SlotLabel(start))
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "full name")
	c.Flags().StringVar(&cpf, "cpf", "", "CPF, with or without punctuation")
	c.Flags().StringVar(&courtID, "court", "", "court id")
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	c.Flags().StringVar(&times, "time", "", "comma-separated start times HH:MM in order of preference (default earliest free)")

	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("cpf")
	_ = c.MarkFlagRequired("court")
	return c
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
