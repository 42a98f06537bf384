package main

import (
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/export"
	"github.com/sells-group/seo-forecast/internal/ingest"
	"github.com/sells-group/seo-forecast/internal/model"
)

// addInputFlags registers the keyword source and settings override flags
// shared by forecast and whatif.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("keywords", "", "keyword file (.csv, .txt or .xlsx)")
	cmd.Flags().String("scenario", "", "scenario file (.yaml) with settings and keywords")
	addSettingsFlags(cmd)
}

func addSettingsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("category", "", "seasonality category (bbq, christmas, fashion, electronics, gardening, furniture)")
	f.Int("months", 0, "projection horizon in months (6 or 12)")
	f.Float64("conversion-rate", 0, "conversion rate in percent")
	f.Float64("aov", 0, "average order value")
	f.Float64("cost", 0, "implementation cost")
	f.String("currency", "", "display currency (GBP, EUR, USD, AED, SAR)")
	f.String("ctr-profile", "", "CTR profile (default, ecommerce, informational, custom)")
	f.Float64("confidence", 0, "confidence level for intervals, e.g. 0.95")
	f.Bool("featured-snippet", false, "results page shows a featured snippet")
	f.Bool("owns-snippet", false, "the site owns the featured snippet")
	f.Bool("faq", false, "results page shows an FAQ block")
	f.Bool("owns-faq", false, "the site owns the FAQ block")
}

// loadInputs resolves keywords and settings from config, the scenario file,
// the keyword file and flag overrides, in that order.
func loadInputs(cmd *cobra.Command) ([]model.Keyword, model.Settings, error) {
	f := cmd.Flags()
	settings := cfg.Forecast
	var keywords []model.Keyword

	scenarioPath, _ := f.GetString("scenario")
	keywordsPath, _ := f.GetString("keywords")
	if scenarioPath == "" && keywordsPath == "" {
		return nil, settings, eris.New("either --keywords or --scenario is required")
	}

	if scenarioPath != "" {
		sc, err := ingest.LoadScenario(scenarioPath)
		if err != nil {
			return nil, settings, err
		}
		settings = sc.Settings
		keywords = sc.Keywords
	}

	if keywordsPath != "" {
		imp, err := ingest.ReadFile(keywordsPath)
		if err != nil {
			return nil, settings, err
		}
		for _, pe := range imp.Errors {
			zap.L().Warn("keyword import", zap.String("file", keywordsPath), zap.String("problem", pe.Error()))
		}
		keywords = imp.Keywords
	}

	if err := applySettingsFlags(cmd, &settings); err != nil {
		return nil, settings, err
	}
	return keywords, settings, nil
}

// applySettingsFlags overwrites settings with every flag the user set.
func applySettingsFlags(cmd *cobra.Command, s *model.Settings) error {
	f := cmd.Flags()

	if f.Changed("category") {
		v, _ := f.GetString("category")
		c, err := model.ParseCategory(v)
		if err != nil {
			return err
		}
		s.Category = c
	}
	if f.Changed("ctr-profile") {
		v, _ := f.GetString("ctr-profile")
		p, err := model.ParseCTRProfile(v)
		if err != nil {
			return err
		}
		s.CTRProfile = p
	}
	if f.Changed("currency") {
		v, _ := f.GetString("currency")
		s.Currency = model.Currency(strings.ToUpper(strings.TrimSpace(v)))
	}
	if f.Changed("months") {
		s.Months, _ = f.GetInt("months")
	}
	if f.Changed("conversion-rate") {
		s.ConversionRate, _ = f.GetFloat64("conversion-rate")
	}
	if f.Changed("aov") {
		s.AOV, _ = f.GetFloat64("aov")
	}
	if f.Changed("cost") {
		s.ImplementationCost, _ = f.GetFloat64("cost")
	}
	if f.Changed("confidence") {
		s.ConfidenceLevel, _ = f.GetFloat64("confidence")
	}
	if f.Changed("featured-snippet") {
		s.SERP.FeaturedSnippet, _ = f.GetBool("featured-snippet")
	}
	if f.Changed("owns-snippet") {
		s.SERP.OwnsFeaturedSnippet, _ = f.GetBool("owns-snippet")
	}
	if f.Changed("faq") {
		s.SERP.FAQ, _ = f.GetBool("faq")
	}
	if f.Changed("owns-faq") {
		s.SERP.OwnsFAQ, _ = f.GetBool("owns-faq")
	}
	return nil
}

// openOutput returns the destination for rendered output. An empty path
// means the command's stdout, which binary formats refuse.
func openOutput(cmd *cobra.Command, path string, format export.Format) (io.Writer, func() error, error) {
	if path == "" {
		if format.Binary() {
			return nil, nil, eris.Errorf("--output is required for %s", format)
		}
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
