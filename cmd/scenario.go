package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/seo-forecast/internal/export"
	"github.com/sells-group/seo-forecast/internal/ingest"
	"github.com/sells-group/seo-forecast/internal/model"
)

var (
	scenarioOutput   string
	scenarioKeywords string
	scenarioName     string
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Work with scenario files",
}

var scenarioInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a scenario file from the configured defaults",
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc := &ingest.Scenario{Name: scenarioName, Settings: cfg.Forecast}
		if err := applySettingsFlags(cmd, &sc.Settings); err != nil {
			return err
		}
		if err := sc.Settings.Validate(); err != nil {
			return err
		}
		if scenarioKeywords != "" {
			imp, err := ingest.ReadFile(scenarioKeywords)
			if err != nil {
				return err
			}
			sc.Keywords = imp.Keywords
		} else {
			sc.Keywords = []model.Keyword{{Term: "example keyword", SearchVolume: 1000, Position: 12, TargetPosition: 3, Difficulty: 5}}
		}

		w, closeOut, err := openOutput(cmd, scenarioOutput, export.FormatTable)
		if err != nil {
			return err
		}
		if err := ingest.WriteScenario(w, sc); err != nil {
			_ = closeOut()
			return err
		}
		if err := closeOut(); err != nil {
			return eris.Wrap(err, "close output")
		}
		if scenarioOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s with %d keywords\n", scenarioOutput, len(sc.Keywords))
		}
		return nil
	},
}

var scenarioCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := ingest.LoadScenario(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d keywords, %s, %d months)\n",
			args[0], len(sc.Keywords), sc.Settings.Category.DisplayName(), sc.Settings.Months)
		return nil
	},
}

func init() {
	addSettingsFlags(scenarioInitCmd)
	scenarioInitCmd.Flags().StringVarP(&scenarioOutput, "output", "o", "", "write the scenario to a file instead of stdout")
	scenarioInitCmd.Flags().StringVar(&scenarioKeywords, "keywords", "", "seed keywords from a keyword file")
	scenarioInitCmd.Flags().StringVar(&scenarioName, "name", "", "scenario name")

	scenarioCmd.AddCommand(scenarioInitCmd)
	scenarioCmd.AddCommand(scenarioCheckCmd)
	rootCmd.AddCommand(scenarioCmd)
}
