package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/booking"
	"github.com/example/quadras-reserva/internal/civil"
	"github.com/example/quadras-reserva/internal/clock"
)

func newCourtsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courts",
		Short: "List bookable courts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			courts, err := booking.NewCoordinator(b, cfg.HTTPTimeout).LoadCourts(ctx)
			if err != nil {
				return err
			}
			for _, c := range courts {
				fmt.Fprintf(cmd.OutOrStdout(), "id=%s location=%q type=%q\n", c.ID, c.Location, c.Type)
			}
			return nil
		},
	}
}

func newSlotsCmd() *cobra.Command {
	var courtID, date string

	c := &cobra.Command{
		Use:   "slots",
		Short: "List free start times of a court on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			d, err := dateOrToday(date, clock.Local{Loc: cfg.Location})
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			avail := booking.NewCoordinator(b, cfg.HTTPTimeout)
			defer avail.Close()
			avail.Select(ctx, d, courtID)
			if err := avail.Await(ctx); err != nil {
				return err
			}
			slots := avail.Slots()
			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				fmt.Fprintln(out, booking.PickerHint(true, false, 0))
				return nil
			}
			for _, s := range slots {
				fmt.Fprintln(out, booking.SlotLabel(s))
			}
			return nil
		},
	}

	c.Flags().StringVar(&courtID, "court", "", "court id")
	c.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD (default today)")
	_ = c.MarkFlagRequired("court")
	return c
}

func newWindowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "window",
		Short: "Show whether booking is open today",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			clk := clock.Local{Loc: cfg.Location}
			w, err := booking.NewRuleResolver(b, clk).Resolve(ctx)
			if err != nil {
				return err
			}
			week := civil.WeekRange(clk.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "open=%t weekday=%s rule=%q dates=%s..%s\n%s: %s\n",
				w.OpenToday, w.WeekdayName, w.RuleName, week.Min, week.Max, w.Title, w.Message)
			return nil
		},
	}
}

func dateOrToday(s string, clk clock.Clock) (civil.Date, error) {
	if s == "" {
		return civil.DateOf(clk.Now()), nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid --date (want YYYY-MM-DD)")
	}
	return d, nil
}
