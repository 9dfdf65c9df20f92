package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/identifier"
)

func newCPFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cpf <cpf>...",
		Short: "Format and validate CPF numbers offline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invalid := 0
			for _, a := range args {
				ok := identifier.Validate(a)
				if !ok {
					invalid++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s valid=%t\n", identifier.Format(a), ok)
			}
			if invalid > 0 {
				return fmt.Errorf("%d invalid CPF(s)", invalid)
			}
			return nil
		},
	}
}
