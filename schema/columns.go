package schema

import (
	"strings"
	"unicode"

	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// COLUMN RESOLUTION — map CSV headers onto SpendRecord fields
// ============================================================================
// Headers are normalized to snake_case then matched against a synonym
// table, so billing exports ("usage_usd", "aws_service", "accountId") load
// without renaming. date, category and cost are required.
// ============================================================================

// Field names a SpendRecord field.
type Field string

const (
	FieldDate        Field = "date"
	FieldEntityID    Field = "entity_id"
	FieldEntityLabel Field = "entity_label"
	FieldRegion      Field = "region"
	FieldCategory    Field = "category"
	FieldCost        Field = "cost"
)

var synonyms = map[string]Field{
	"date":             FieldDate,
	"day":              FieldDate,
	"usage_date":       FieldDate,
	"usage_start_date": FieldDate,

	"entity_id":         FieldEntityID,
	"account_id":        FieldEntityID,
	"client_id":         FieldEntityID,
	"linked_account_id": FieldEntityID,
	"account":           FieldEntityID,

	"entity_label": FieldEntityLabel,
	"entity_name":  FieldEntityLabel,
	"account_name": FieldEntityLabel,
	"client_name":  FieldEntityLabel,

	"region":     FieldRegion,
	"aws_region": FieldRegion,

	"category":    FieldCategory,
	"service":     FieldCategory,
	"aws_service": FieldCategory,
	"product":     FieldCategory,

	"cost":           FieldCost,
	"cost_usd":       FieldCost,
	"usage_usd":      FieldCost,
	"amount":         FieldCost,
	"unblended_cost": FieldCost,
}

// SkippedColumn records a header that maps to no field.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Reason      string `json:"reason" yaml:"reason"`
}

// ColumnMap holds the header index of each field, -1 when absent.
type ColumnMap struct {
	Date        int             `json:"date"`
	EntityID    int             `json:"entityId"`
	EntityLabel int             `json:"entityLabel"`
	Region      int             `json:"region"`
	Category    int             `json:"category"`
	Cost        int             `json:"cost"`
	Skipped     []SkippedColumn `json:"skipped,omitempty"`
}

// ResolveColumns maps headers to fields. The first header matching a field
// wins; later duplicates are skipped.
func ResolveColumns(headers []string) (ColumnMap, error) {
	m := ColumnMap{Date: -1, EntityID: -1, EntityLabel: -1, Region: -1, Category: -1, Cost: -1}

	for i, h := range headers {
		field, ok := synonyms[toSnakeCase(strings.TrimSpace(h))]
		if !ok {
			m.Skipped = append(m.Skipped, SkippedColumn{Column: h, DisplayName: toDisplayName(h), Reason: "unrecognized column"})
			continue
		}
		slot := m.slot(field)
		if *slot != -1 {
			m.Skipped = append(m.Skipped, SkippedColumn{Column: h, DisplayName: toDisplayName(h), Reason: "duplicate " + string(field)})
			continue
		}
		*slot = i
	}

	var missing []string
	for _, f := range []Field{FieldDate, FieldCategory, FieldCost} {
		if *m.slot(f) == -1 {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return m, errs.InvalidFormat(strings.Join(headers, ","), "header with columns "+strings.Join(missing, ", "))
	}
	return m, nil
}

func (m *ColumnMap) slot(f Field) *int {
	switch f {
	case FieldDate:
		return &m.Date
	case FieldEntityID:
		return &m.EntityID
	case FieldEntityLabel:
		return &m.EntityLabel
	case FieldRegion:
		return &m.Region
	case FieldCategory:
		return &m.Category
	default:
		return &m.Cost
	}
}

// Get returns row[idx] trimmed, or "" when idx is -1 or out of range.
func Get(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}
