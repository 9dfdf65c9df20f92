package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
)

func newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Generate SESSION_HASH_KEY, SESSION_BLOCK_KEY and CSRF_KEY values (base64)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, k := range []struct {
				env  string
				size int
			}{
				{"SESSION_HASH_KEY", 32},
				{"SESSION_BLOCK_KEY", 32},
				{"CSRF_KEY", 32},
			} {
				b := securecookie.GenerateRandomKey(k.size)
				if b == nil {
					return fmt.Errorf("generate %s: no randomness available", k.env)
				}
				fmt.Fprintf(out, "export %s=%s\n", k.env, base64.StdEncoding.EncodeToString(b))
			}
			return nil
		},
	}
}
