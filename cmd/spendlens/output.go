package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/spendlens/engine"
)

// ============================================================================
// JSON / YAML OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	return enc.Close()
}

// ============================================================================
// CSV OUTPUT — tables ready for Sheets/Excel
// ============================================================================

func writeTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = c.Label
	}
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// TEXT OUTPUT
// ============================================================================

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func writeTableText(w io.Writer, table *engine.TableData) error {
	if table.Title != "" {
		fmt.Fprintln(w, table.Title)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		headers[i] = strings.ToUpper(c.Label)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func writeAnomaliesText(w io.Writer, points []engine.AnomalyPoint) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No anomalies detected.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCOST\tZ\tDIRECTION")
	for _, p := range points {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\n", p.Date, engine.FormatUSD(p.Cost), p.ZScore, p.Direction)
	}
	return tw.Flush()
}

func writeAnomaliesCSV(w io.Writer, entity func(i int) string, points []engine.AnomalyPoint) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "cost", "zScore", "direction"}
	if entity != nil {
		header = append([]string{"entity"}, header...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, p := range points {
		row := []string{p.Date, fmt.Sprintf("%.2f", p.Cost), fmt.Sprintf("%.2f", p.ZScore), string(p.Direction)}
		if entity != nil {
			row = append([]string{entity(i)}, row...)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
