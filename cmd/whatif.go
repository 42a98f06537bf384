package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/seo-forecast/internal/export"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/whatif"
)

var (
	whatifVariable string
	whatifMin      float64
	whatifMax      float64
	whatifSteps    int
	whatifValues   []float64
	whatifFormat   string
	whatifOutput   string
)

var whatifCmd = &cobra.Command{
	Use:   "whatif",
	Short: "Sweep one input and compare the resulting forecasts",
	Long: `Re-runs the forecast for each sample of one variable:
  conversion_rate   conversion rate in percent
  aov               average order value
  target_positions  percentage of the distance to the target rank that is closed`,
	Example: `  seo-forecast whatif --keywords keywords.csv --variable conversion_rate --min 1 --max 5
  seo-forecast whatif --keywords keywords.csv --variable aov --values 150,250,400
  seo-forecast whatif --keywords keywords.csv --variable target_positions`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		variable := model.SweepVariable(whatifVariable)
		if !variable.Valid() {
			return eris.Errorf("unknown variable %q (conversion_rate, aov, target_positions)", whatifVariable)
		}
		if whatifFormat != string(export.FormatTable) && whatifFormat != string(export.FormatJSON) && whatifFormat != string(export.FormatCSV) {
			return eris.Errorf("unsupported whatif format %q (table, json, csv)", whatifFormat)
		}

		keywords, settings, err := loadInputs(cmd)
		if err != nil {
			return err
		}
		values, err := sweepValues(cmd, variable)
		if err != nil {
			return err
		}

		runner := whatif.NewRunner(keywords, settings,
			whatif.WithConcurrency(cfg.WhatIf.Concurrency),
			whatif.WithStartMonth(time.Now().Month()),
		)
		rows, err := runner.Run(cmd.Context(), whatif.Sweep{Variable: variable, Values: values})
		if err != nil {
			return err
		}

		w, closeOut, err := openOutput(cmd, whatifOutput, export.Format(whatifFormat))
		if err != nil {
			return err
		}
		switch export.Format(whatifFormat) {
		case export.FormatJSON:
			err = export.WriteJSON(w, rows)
		case export.FormatCSV:
			err = export.WriteWhatIfCSV(w, rows)
		default:
			err = export.WriteWhatIfTable(w, rows, settings.Currency)
		}
		if err != nil {
			_ = closeOut()
			return err
		}
		return closeOut()
	},
}

// sweepValues picks explicit --values first, then a --min/--max range, then
// the variable's defaults.
func sweepValues(cmd *cobra.Command, variable model.SweepVariable) ([]float64, error) {
	if len(whatifValues) > 0 {
		return whatifValues, nil
	}
	f := cmd.Flags()
	if f.Changed("min") || f.Changed("max") {
		steps := whatifSteps
		if !f.Changed("steps") && cfg.WhatIf.Steps > 0 {
			steps = cfg.WhatIf.Steps
		}
		return whatif.LinSpace(whatifMin, whatifMax, steps)
	}
	if variable == model.SweepTargetPositions {
		return whatif.DefaultImprovements, nil
	}
	return nil, eris.Errorf("--values or --min/--max are required for %s", variable)
}

func init() {
	addInputFlags(whatifCmd)
	whatifCmd.Flags().StringVar(&whatifVariable, "variable", "", "variable to sweep (required)")
	whatifCmd.Flags().Float64Var(&whatifMin, "min", 0, "lowest sample of a ranged sweep")
	whatifCmd.Flags().Float64Var(&whatifMax, "max", 0, "highest sample of a ranged sweep")
	whatifCmd.Flags().IntVar(&whatifSteps, "steps", whatif.DefaultSteps, "number of samples in a ranged sweep")
	whatifCmd.Flags().Float64SliceVar(&whatifValues, "values", nil, "explicit comma-separated samples")
	whatifCmd.Flags().StringVar(&whatifFormat, "format", string(export.FormatTable), "output format (table, json, csv)")
	whatifCmd.Flags().StringVarP(&whatifOutput, "output", "o", "", "write output to a file instead of stdout")
	_ = whatifCmd.MarkFlagRequired("variable")
	rootCmd.AddCommand(whatifCmd)
}
