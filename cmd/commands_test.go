package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/seo-forecast/internal/config"
	"github.com/sells-group/seo-forecast/internal/ingest"
	"github.com/sells-group/seo-forecast/internal/model"
)

const keywordsCSV = `Keyword,Search Volume,Position,Target Position,Difficulty
gas bbq,8000,8,3,5
charcoal bbq,6500,12,3,4
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestForecastCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	out, err := execute(t, dir, "forecast", "--keywords", "keywords.csv", "--format", "json", "--months", "12", "--category", "christmas")
	require.NoError(t, err)

	var report model.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Keywords, 2)
	assert.Equal(t, 12, report.Settings.Months)
	assert.Equal(t, model.CategoryChristmas, report.Settings.Category)
	require.NotNil(t, report.Projection)
	assert.Len(t, report.Projection.Rows, 12)
}

func TestForecastCommand_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	_, err := execute(t, dir, "forecast", "--keywords", "keywords.csv", "--months", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "months must be 6 or 12")
}

func TestForecastCommand_RequiresInput(t *testing.T) {
	_, err := execute(t, t.TempDir(), "forecast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--keywords or --scenario")
}

func TestForecastCommand_XLSXNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	_, err := execute(t, dir, "forecast", "--keywords", "keywords.csv", "--format", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output is required")

	_, err = execute(t, dir, "forecast", "--keywords", "keywords.csv", "--format", "xlsx", "--output", "report.xlsx")
	require.NoError(t, err)
	info, err := os.Stat(filepath.Join(dir, "report.xlsx"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestForecastCommand_SaveAndRuns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	_, err := execute(t, dir, "forecast", "--keywords", "keywords.csv", "--format", "md", "--save", "--name", "spring push")
	require.NoError(t, err)

	out, err := execute(t, dir, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "spring push")
	assert.Contains(t, out, "bbq")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	shortID := strings.Fields(lines[2])[0]
	assert.Len(t, shortID, 8)
}

func TestWhatIfCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	out, err := execute(t, dir, "whatif", "--keywords", "keywords.csv", "--variable", "aov", "--values", "100,200,300", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "variable,value"))
	assert.True(t, strings.HasPrefix(lines[1], "aov,100"))
	assert.True(t, strings.HasPrefix(lines[3], "aov,300"))
}

func TestWhatIfCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	_, err := execute(t, dir, "whatif", "--keywords", "keywords.csv", "--variable", "budget")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variable")

	_, err = execute(t, dir, "whatif", "--keywords", "keywords.csv", "--variable", "aov")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--values or --min/--max")

	_, err = execute(t, dir, "whatif", "--keywords", "keywords.csv", "--variable", "aov", "--min", "5", "--max", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be less than max")
}

func TestKeywordsCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV+",100,3,1,2\n")

	out, err := execute(t, dir, "keywords", "--file", "keywords.csv")
	require.NoError(t, err)
	assert.Contains(t, out, `term="Keyword"`)
	assert.Contains(t, out, `target="Target Position"`)
	assert.Contains(t, out, "charcoal bbq")
	assert.Contains(t, out, "row 4")
}

func TestScenarioInitAndForecast(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keywords.csv", keywordsCSV)

	_, err := execute(t, dir, "scenario", "init", "--keywords", "keywords.csv", "--category", "gardening", "--output", "plan.yaml", "--name", "garden")
	require.NoError(t, err)

	sc, err := ingest.LoadScenario(filepath.Join(dir, "plan.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "garden", sc.Name)
	assert.Equal(t, model.CategoryGardening, sc.Settings.Category)
	assert.Len(t, sc.Keywords, 2)

	out, err := execute(t, dir, "scenario", "check", "plan.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 keywords, Gardening & Outdoor, 6 months)")

	out, err = execute(t, dir, "forecast", "--scenario", "plan.yaml", "--format", "monthly-csv")
	require.NoError(t, err)
	assert.Contains(t, out, "TOTAL")
}

func TestApplySettingsFlags(t *testing.T) {
	t.Cleanup(func() { resetFlags(forecastCmd) })
	require.NoError(t, forecastCmd.Flags().Set("category", "Fashion & Apparel"))
	require.NoError(t, forecastCmd.Flags().Set("ctr-profile", "E-commerce"))
	require.NoError(t, forecastCmd.Flags().Set("currency", "gbp"))
	require.NoError(t, forecastCmd.Flags().Set("faq", "true"))

	s := model.DefaultSettings()
	s.CTRProfile = model.CTRProfileDefault
	require.NoError(t, applySettingsFlags(forecastCmd, &s))

	assert.Equal(t, model.CategoryFashion, s.Category)
	assert.Equal(t, model.CTRProfileEcommerce, s.CTRProfile)
	assert.Equal(t, model.CurrencyGBP, s.Currency)
	assert.True(t, s.SERP.FAQ)
	assert.False(t, s.SERP.OwnsFAQ)
	assert.InDelta(t, 250, s.AOV, 1e-9, "unset flags leave settings alone")
}

func TestApplySettingsFlags_BadCategory(t *testing.T) {
	t.Cleanup(func() { resetFlags(forecastCmd) })
	require.NoError(t, forecastCmd.Flags().Set("category", "toys"))

	s := model.DefaultSettings()
	require.Error(t, applySettingsFlags(forecastCmd, &s))
}

func TestLoadInputs_KeywordsOverrideScenario(t *testing.T) {
	cfg = &config.Config{Forecast: model.DefaultSettings()}
	dir := t.TempDir()
	scenario := writeFile(t, dir, "s.yaml", `
settings:
  category: furniture
keywords:
  - term: sofa
    search_volume: 100
    position: 9
    target_position: 2
    difficulty: 3
`)
	csvPath := writeFile(t, dir, "k.csv", keywordsCSV)

	t.Cleanup(func() { resetFlags(forecastCmd) })
	require.NoError(t, forecastCmd.Flags().Set("scenario", scenario))
	require.NoError(t, forecastCmd.Flags().Set("keywords", csvPath))

	keywords, settings, err := loadInputs(forecastCmd)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryFurniture, settings.Category)
	require.Len(t, keywords, 2)
	assert.Equal(t, "gas bbq", keywords[0].Term)
}
