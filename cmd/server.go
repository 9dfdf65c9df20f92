package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/quadras-reserva/internal/cache"
	"github.com/example/quadras-reserva/internal/clock"
	"github.com/example/quadras-reserva/internal/config"
	"github.com/example/quadras-reserva/internal/session"
	"github.com/example/quadras-reserva/internal/web"
)

func newServeCmd() *cobra.Command {
	var warm bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the public booking pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if err := cfg.WebKeys(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			b := openBackend(ctx, cfg)
			defer b.Close()

			if warm && b.cached != nil {
				w := &cache.Warmer{Backend: b.cached, Interval: cfg.CacheTTL / 2}
				go func() { _ = w.Run(ctx) }()
			}

			ws, err := web.New(web.Server{
				Backend:     b,
				Sessions:    session.NewStore(cfg.CookieHashKey, cfg.CookieBlockKey),
				Clock:       clock.Local{Loc: cfg.Location},
				Location:    cfg.Location,
				Origin:      cfg.Origin,
				SlotTimeout: cfg.HTTPTimeout,
				BaseURL:     cfg.BaseURL,
				CSRFKey:     cfg.CSRFKey,
				Tracing:     cfg.Tracing,
			})
			if err != nil {
				return err
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&warm, "warm-cache", true, "keep the court list and rules fresh in Redis in the background")
	return cmd
}
