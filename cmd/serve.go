package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/seo-forecast/internal/server"
	"github.com/sells-group/seo-forecast/internal/store"
)

var (
	servePort      int
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forecast HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		var st store.Store
		if !serveNoHistory {
			s, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck
			if err := s.Migrate(ctx); err != nil {
				return err
			}
			st = s
		}

		srv := server.New(server.Config{
			Port:              cfg.Server.Port,
			RateLimit:         cfg.Server.RateLimit,
			Burst:             cfg.Server.Burst,
			CORSOrigins:       cfg.Server.CORSOrigins,
			WhatIfConcurrency: cfg.WhatIf.Concurrency,
			Defaults:          cfg.Forecast,
		}, st)
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "serve without run history storage")
	rootCmd.AddCommand(serveCmd)
}
