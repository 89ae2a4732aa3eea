package report

import (
	"fmt"

	"github.com/cohortly-org/cohortly/cohort"
)

// ============================================================================
// CHART BUILDER — Retention curves for the dashboard
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BuildRetentionChart produces a line chart with one series per cohort,
// retention percent on the Y axis and month offset on the X axis.
// Only observable offsets get points. Returns nil for an empty matrix.
func BuildRetentionChart(matrix cohort.Matrix) *ChartConfig {
	if len(matrix.Cohorts) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  "line",
		Title:      "Cohort Retention Curves",
		XAxis:      "Months Since First Purchase",
		YAxis:      "Retention %",
		ShowLegend: true,
		ShowGrid:   true,
	}

	for i, row := range matrix.Cohorts {
		points := make([]ChartPoint, 0, len(row.Rates))
		for k, rate := range row.Rates {
			points = append(points, ChartPoint{
				Label: fmt.Sprintf("Month %d", k),
				Value: cohort.RoundTo4(rate) * 100, // percent, 2dp
			})
		}
		config.Series = append(config.Series, ChartSeries{
			Name:  row.Cohort.Label(),
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	config.Colors = make([]string, len(config.Series))
	for i := range config.Series {
		config.Colors[i] = defaultColors[i%len(defaultColors)]
	}
	return config
}
