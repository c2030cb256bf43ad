package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from a DashboardModel
// ============================================================================

// BuildDriverTable renders the ranked drivers of m as a table.
func BuildDriverTable(m *DashboardModel) *TableData {
	title := fmt.Sprintf("Drivers by %s", m.GroupBy.Label())
	if len(m.Drivers) == 0 {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	columns := []Column{
		{Key: "name", Label: m.GroupBy.Label(), Type: "text", Align: "left"},
		{Key: "current", Label: "Current", Type: "currency", Align: "right"},
		{Key: "previous", Label: "Previous", Type: "currency", Align: "right"},
		{Key: "delta", Label: "Delta", Type: "currency", Align: "right"},
		{Key: "deltaPct", Label: "Delta %", Type: "percent", Align: "right"},
	}

	rows := make([][]string, 0, len(m.Drivers))
	var cur, prev float64
	for _, d := range m.Drivers {
		rows = append(rows, []string{
			d.Name,
			FormatCost(d.Current),
			FormatCost(d.Previous),
			FormatCost(d.Delta),
			FormatPct(d.DeltaPct),
		})
		cur += d.Current
		prev += d.Previous
	}
	delta := RoundTo2(RoundTo2(cur) - RoundTo2(prev))

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d groups)", len(m.Drivers)),
			Values: map[string]string{
				"current":  FormatCost(cur),
				"previous": FormatCost(prev),
				"delta":    FormatCost(delta),
				"deltaPct": FormatPct(ratio(delta, RoundTo2(prev))),
			},
		},
	}
}

// BuildSeriesTable renders the daily series of m, marking anomalous days.
func BuildSeriesTable(m *DashboardModel) *TableData {
	title := fmt.Sprintf("Daily cost %s", m.Current)
	if len(m.Series) == 0 {
		return &TableData{
			Title:   title,
			Columns: []Column{},
			Rows:    [][]string{},
		}
	}

	flagged := make(map[string]AnomalyPoint, len(m.Anomalies))
	for _, a := range m.Anomalies {
		flagged[a.Date] = a
	}

	columns := []Column{
		{Key: "date", Label: "Date", Type: "text", Align: "left"},
		{Key: "cost", Label: "Cost", Type: "currency", Align: "right"},
		{Key: "anomaly", Label: "Anomaly", Type: "text", Align: "center"},
	}

	rows := make([][]string, 0, len(m.Series))
	var total float64
	for _, p := range m.Series {
		mark := ""
		if a, ok := flagged[p.Date]; ok {
			mark = fmt.Sprintf("%s (z=%.2f)", a.Direction, a.ZScore)
		}
		rows = append(rows, []string{p.Date, FormatCost(p.Cost), mark})
		total += p.Cost
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%d days)", len(m.Series)),
			Values: map[string]string{
				"cost":    FormatCost(total),
				"anomaly": FormatInt(len(m.Anomalies)),
			},
		},
	}
}
