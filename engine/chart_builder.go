package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a DashboardModel
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildSeriesChart produces a line chart of the daily series with anomalous
// days overlaid as a scatter series. Returns nil when there is no series.
func BuildSeriesChart(m *DashboardModel) *ChartConfig {
	if len(m.Series) == 0 {
		return nil
	}

	config := &ChartConfig{
		ChartType:  "line",
		Title:      "Daily cost " + m.Current.String(),
		XAxis:      "Date",
		YAxis:      "Cost (USD)",
		ShowLegend: true,
		ShowGrid:   true,
	}

	points := make([]ChartPoint, 0, len(m.Series))
	for _, p := range m.Series {
		points = append(points, ChartPoint{Label: p.Date, Value: RoundTo2(p.Cost)})
	}
	config.Series = append(config.Series, ChartSeries{
		Name: "Daily cost",
		Kind: "line",
		Data: points,
	})

	if len(m.Anomalies) > 0 {
		marks := make([]ChartPoint, 0, len(m.Anomalies))
		for _, a := range m.Anomalies {
			marks = append(marks, ChartPoint{Label: a.Date, Value: a.Cost})
		}
		config.Series = append(config.Series, ChartSeries{
			Name: "Anomalies",
			Kind: "scatter",
			Data: marks,
		})
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		config.Series[i].Color = config.Colors[i]
	}
	return config
}

// BuildDriverChart produces a bar chart of driver deltas. Returns nil when
// there are no drivers.
func BuildDriverChart(m *DashboardModel) *ChartConfig {
	if len(m.Drivers) == 0 {
		return nil
	}

	current := make([]ChartPoint, 0, len(m.Drivers))
	previous := make([]ChartPoint, 0, len(m.Drivers))
	for _, d := range m.Drivers {
		current = append(current, ChartPoint{Label: d.Name, Value: d.Current})
		previous = append(previous, ChartPoint{Label: d.Name, Value: d.Previous})
	}

	config := &ChartConfig{
		ChartType:  "bar",
		Title:      "Drivers by " + m.GroupBy.Label(),
		XAxis:      m.GroupBy.Label(),
		YAxis:      "Cost (USD)",
		ShowLegend: true,
		ShowGrid:   true,
		Series: []ChartSeries{
			{Name: "Previous", Data: previous},
			{Name: "Current", Data: current},
		},
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
