package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.SpendRecord
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into SpendRecords, resolving the
// header through schema.ResolveColumns.
// ============================================================================

// csvHeader is the column order WriteCSV emits and ParseCSV reads back.
var csvHeader = []string{"date", "entityId", "entityLabel", "region", "category", "cost"}

// Report counts what a loader kept and dropped.
type Report struct {
	Rows    int                    `json:"rows"`
	Skipped int                    `json:"skipped"`
	Reasons map[string]int         `json:"reasons,omitempty"`
	Columns []schema.SkippedColumn `json:"ignoredColumns,omitempty"`
}

func (r *Report) skip(reason string) {
	r.Skipped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[reason]++
}

// ParseCSV parses CSV bytes into SpendRecords. Rows with an unparsable date
// or cost are dropped.
func ParseCSV(data []byte) ([]engine.SpendRecord, error) {
	rows, _, err := ParseCSVReport(data)
	return rows, err
}

// ParseCSVReport is ParseCSV plus a count of dropped rows by reason.
func ParseCSVReport(data []byte) ([]engine.SpendRecord, *Report, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	// Read header
	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	cols, err := schema.ResolveColumns(headers)
	if err != nil {
		return nil, nil, err
	}

	report := &Report{Columns: cols.Skipped}
	records := make([]engine.SpendRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.skip("malformed row")
			continue
		}

		date := schema.Get(row, cols.Date)
		if !dates.Valid(date) {
			report.skip("invalid date")
			continue
		}
		cost, err := strconv.ParseFloat(strings.TrimPrefix(schema.Get(row, cols.Cost), "$"), 64)
		if err != nil {
			report.skip("invalid cost")
			continue
		}

		rec := engine.SpendRecord{
			Date:        date,
			EntityID:    schema.Get(row, cols.EntityID),
			EntityLabel: schema.Get(row, cols.EntityLabel),
			Region:      schema.Get(row, cols.Region),
			Category:    schema.Get(row, cols.Category),
			Cost:        cost,
		}
		if rec.EntityID == "" {
			rec.EntityID = rec.EntityLabel
		}
		records = append(records, rec)
	}

	report.Rows = len(records)
	return records, report, nil
}

// WriteCSV writes rows with a canonical header that ParseCSV reads back.
func WriteCSV(w io.Writer, rows []engine.SpendRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date,
			r.EntityID,
			r.EntityLabel,
			r.Region,
			r.Category,
			strconv.FormatFloat(r.Cost, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
