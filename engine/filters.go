package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Predicate-Based Row Subsetting via RecordView
// ============================================================================
// Single-pass filter: checks every constraint per record in one loop.
// Returns a SubView (index list into parent) with zero data copy.
// ============================================================================

// AllValues is the sentinel meaning "no constraint" for a single-valued field.
const AllValues = "All"

// Filter holds optional constraints. Every field ANDs with the others;
// set-valued fields OR within themselves. "" and "All" mean unconstrained.
type Filter struct {
	Region     string   `json:"region,omitempty" yaml:"region,omitempty"`
	Category   string   `json:"category,omitempty" yaml:"category,omitempty"`
	EntityID   string   `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	EntityIDs  []string `json:"entityIds,omitempty" yaml:"entityIds,omitempty"`
	DateRange  *Window  `json:"dateRange,omitempty" yaml:"dateRange,omitempty"`
}

// IsAll reports whether v is the "no constraint" sentinel.
func IsAll(v string) bool {
	return v == "" || strings.EqualFold(v, AllValues)
}

// IsEmpty returns true if no constraint is set.
func (f *Filter) IsEmpty() bool {
	if f == nil {
		return true
	}
	return IsAll(f.Region) && IsAll(f.Category) && IsAll(f.EntityID) &&
		len(nonSentinel(f.Categories)) == 0 && len(nonSentinel(f.EntityIDs)) == 0 &&
		f.DateRange == nil
}

// compiledFilter is a Filter with its sets pre-built for the hot loop.
type compiledFilter struct {
	region, category, entity string
	categories, entities     map[string]bool
	dateRange                *Window
}

func (f *Filter) compile() compiledFilter {
	c := compiledFilter{dateRange: f.DateRange}
	if !IsAll(f.Region) {
		c.region = f.Region
	}
	if !IsAll(f.Category) {
		c.category = f.Category
	}
	if !IsAll(f.EntityID) {
		c.entity = f.EntityID
	}
	c.categories = toSet(nonSentinel(f.Categories))
	c.entities = toSet(nonSentinel(f.EntityIDs))
	return c
}

func (c compiledFilter) matches(r SpendRecord) bool {
	if c.region != "" && r.Region != c.region {
		return false
	}
	if c.category != "" && r.Category != c.category {
		return false
	}
	if c.entity != "" && r.EntityID != c.entity {
		return false
	}
	if c.categories != nil && !c.categories[r.Category] {
		return false
	}
	if c.entities != nil && !c.entities[r.EntityID] {
		return false
	}
	if c.dateRange != nil && !c.dateRange.Contains(r.Date) {
		return false
	}
	return true
}

// Matches reports whether r passes every constraint of f.
func (f *Filter) Matches(r SpendRecord) bool {
	if f.IsEmpty() {
		return true
	}
	return f.compile().matches(r)
}

// ApplyFilter returns a view of records matching f.
// Empty filter = no restriction (returns original view).
func ApplyFilter(view RecordView, f *Filter) RecordView {
	if f.IsEmpty() {
		return view
	}

	c := f.compile()
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if c.matches(view.At(i)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// FilterRows returns the subset of rows matching f. A nil or empty filter
// returns rows unchanged.
func FilterRows(rows []SpendRecord, f *Filter) []SpendRecord {
	if f.IsEmpty() {
		return rows
	}
	c := f.compile()
	out := make([]SpendRecord, 0, len(rows))
	for _, r := range rows {
		if c.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func nonSentinel(items []string) []string {
	var out []string
	for _, item := range items {
		if !IsAll(item) {
			out = append(out, item)
		}
	}
	return out
}

// toSet converts a string slice to a lookup set. nil for an empty slice.
func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
