package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/config"
)

// cliConfig loads the configuration for one-shot commands. Tracing only
// applies inside served requests.
func cliConfig() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg.Tracing = false
	return cfg, nil
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the booking backend (and Redis, when configured) answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cliConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPTimeout)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()
			out := cmd.OutOrStdout()

			if b.store != nil {
				if err := b.store.Ping(ctx); err != nil {
					return fmt.Errorf("redis ping: %w", err)
				}
				fmt.Fprintf(out, "redis ok addr=%s\n", cfg.RedisAddr)
			}

			start := time.Now()
			rules, err := b.Rules(ctx)
			if err != nil {
				return fmt.Errorf("backend ping: %w", err)
			}
			fmt.Fprintf(out, "backend ok url=%s rules=%d took=%s\n", cfg.APIBaseURL, len(rules), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
