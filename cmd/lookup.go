package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/booking"
)

func newLookupCmd() *cobra.Command {
	var cpf string

	c := &cobra.Command{
		Use:   "lookup",
		Short: "Show the active reservation and recent history of a CPF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			res, err := booking.NewLookup(b, cfg.Location).Find(ctx, cpf)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if msg := res.Message(); msg != "" {
				fmt.Fprintln(out, msg)
			}
			if res.Active != nil {
				r := booking.NewReceipt(*res.Active)
				fmt.Fprintf(out, "%s\n%s\ncliente=%q quadra=%q periodo=%q status=%s codigo=%s\n",
					r.Title, r.Issuer, r.Client, r.Court, r.Period, r.Status, r.Code)
			}
			for _, g := range res.HistoryGroups() {
				for _, r := range g.Records {
					fmt.Fprintf(out, "status=%s quadra=%q periodo=%q codigo=%s\n", g.Status.Label(), r.Court(), r.Period(), r.ID)
				}
			}
			return nil
		},
	}

	c.Flags().StringVar(&cpf, "cpf", "", "CPF, with or without punctuation")
	_ = c.MarkFlagRequired("cpf")
	return c
}
