package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/engine"
	"github.com/sells-group/seo-forecast/internal/export"
)

var (
	forecastFormat string
	forecastOutput string
	forecastSave   bool
	forecastName   string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast gains for a keyword list",
	Example: `  seo-forecast forecast --keywords keywords.csv --category bbq --months 12
  seo-forecast forecast --scenario spring.yaml --format xlsx --output spring.xlsx --save`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := export.ParseFormat(forecastFormat)
		if err != nil {
			return err
		}
		keywords, settings, err := loadInputs(cmd)
		if err != nil {
			return err
		}

		report, err := engine.New().Forecast(keywords, settings)
		if err != nil {
			return eris.Wrap(err, "forecast")
		}
		if report.NoKeywords {
			zap.L().Warn("forecast: keyword list is empty, nothing to project")
		}

		w, closeOut, err := openOutput(cmd, forecastOutput, format)
		if err != nil {
			return err
		}
		if err := export.Write(w, format, report); err != nil {
			_ = closeOut()
			return err
		}
		if err := closeOut(); err != nil {
			return eris.Wrap(err, "close output")
		}

		if !forecastSave {
			return nil
		}
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		run, err := st.SaveRun(ctx, forecastName, report)
		if err != nil {
			return eris.Wrap(err, "save run")
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s (%s)\n", run.ID, run.Name)
		return nil
	},
}

func init() {
	addInputFlags(forecastCmd)
	forecastCmd.Flags().StringVar(&forecastFormat, "format", string(export.FormatTable), "output format (table, json, csv, monthly-csv, xlsx, md, html)")
	forecastCmd.Flags().StringVarP(&forecastOutput, "output", "o", "", "write output to a file instead of stdout")
	forecastCmd.Flags().BoolVar(&forecastSave, "save", false, "save the report to run history")
	forecastCmd.Flags().StringVar(&forecastName, "name", "", "name for the saved run")
	rootCmd.AddCommand(forecastCmd)
}
