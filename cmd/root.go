package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "seo-forecast",
	Short:        "Forecast organic traffic and revenue from ranking improvements",
	Long:         "Estimates traffic, conversion and revenue gains from moving keywords up the search results, spreads them over a seasonal month-by-month projection, and runs what-if sweeps.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
