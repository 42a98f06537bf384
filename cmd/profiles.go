package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/seo-forecast/internal/ctr"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/projection"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Show the built-in CTR profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatProfiles(cmd.OutOrStdout())
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show seasonality multipliers per category",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return formatCategories(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(categoriesCmd)
}

// formatProfiles writes one row per rank and one column per built-in profile.
func formatProfiles(out io.Writer) error {
	names := ctr.BuiltinNames()
	models := make([]*ctr.Model, 0, len(names))
	maxRank := 0
	for _, n := range names {
		p, err := ctr.Builtin(n)
		if err != nil {
			return err
		}
		models = append(models, ctr.NewModel(p, model.SERPFeatures{}))
		maxRank = max(maxRank, p.MaxRank())
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "RANK")
	for _, n := range names {
		_, _ = fmt.Fprintf(w, "\t%s", n)
	}
	_, _ = fmt.Fprintln(w)
	for r := 1; r <= maxRank; r++ {
		label := fmt.Sprintf("%d", r)
		if r == maxRank {
			label += "+"
		}
		_, _ = fmt.Fprint(w, label)
		for _, m := range models {
			_, _ = fmt.Fprintf(w, "\t%.1f%%", m.Rate(r)*100)
		}
		_, _ = fmt.Fprintln(w)
	}
	return w.Flush()
}

func formatCategories(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "CATEGORY")
	for m := time.January; m <= time.December; m++ {
		_, _ = fmt.Fprintf(w, "\t%s", m.String()[:3])
	}
	_, _ = fmt.Fprintln(w)
	for _, c := range model.Categories() {
		factors, err := projection.Seasonality(c)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(w, c)
		for _, f := range factors {
			_, _ = fmt.Fprintf(w, "\t%.1f", f)
		}
		_, _ = fmt.Fprintln(w)
	}
	return w.Flush()
}
