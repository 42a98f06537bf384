package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/seo-forecast/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	settings := model.DefaultSettings()
	settings.Currency = model.CurrencyGBP
	runs := []model.Run{
		{
			ID:   "abc12345-6789-0000-0000-000000000000",
			Name: "bbq summer push",
			Report: model.Report{
				Settings: settings,
				Keywords: make([]model.KeywordResult, 3),
				Totals:   model.Totals{TrafficGain: 1234.4, RevenueGain: 9876.5},
				ROI:      97.53,
			},
			CreatedAt: now,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Name:      "a very long run name that will not fit the column",
			Report:    model.Report{Settings: settings},
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "REVENUE GAIN")
	assert.Contains(t, output, "bbq summer push")
	assert.Contains(t, output, "1,234")
	assert.Contains(t, output, "£9,876.50")
	assert.Contains(t, output, "+97.5%")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-")
	assert.Contains(t, output, "a very long run name that w...")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
