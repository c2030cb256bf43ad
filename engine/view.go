package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns consumer data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []SpendRecord
//   DomainView[T]  — maps consumer structs to SpendRecord on read
//   SubView        — filtered subset (indices into parent, zero-copy)
//
// Filtering produces SubViews; aggregation reads any view in one pass.
// ============================================================================

// RecordView provides indexed access to a spend dataset.
// The engine calls At in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	At(index int) SpendRecord
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []SpendRecord slice as a RecordView.
type SliceView struct {
	records []SpendRecord
}

// NewSliceView creates a RecordView from a []SpendRecord slice.
func NewSliceView(records []SpendRecord) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) At(i int) SpendRecord {
	if i < 0 || i >= len(v.records) {
		return SpendRecord{}
	}
	return v.records[i]
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) SpendRecord {
	if i < 0 || i >= len(v.indices) {
		return SpendRecord{}
	}
	return v.parent.At(v.indices[i])
}

// ============================================================================
// DOMAIN ADAPTER — consumer structs without conversion up front
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter(func(r usageRow) engine.SpendRecord {
//	    return engine.SpendRecord{Date: r.Date, EntityID: r.ClientID, Category: r.Service, Cost: r.USD}
//	})
//	view := adapter.Bind(rows)
//
// ============================================================================

// DomainAdapter builds a RecordView over typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	convert func(T) SpendRecord
}

// NewDomainAdapter creates an adapter for type T.
func NewDomainAdapter[T any](convert func(T) SpendRecord) *DomainAdapter[T] {
	return &DomainAdapter[T]{convert: convert}
}

// Bind creates a RecordView from a data slice. It holds a reference, no copy.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{data: data, convert: a.convert}
}

// DomainView converts consumer structs on each read.
type DomainView[T any] struct {
	data    []T
	convert func(T) SpendRecord
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) At(i int) SpendRecord {
	if i < 0 || i >= len(v.data) {
		return SpendRecord{}
	}
	return v.convert(v.data[i])
}

// ============================================================================
// MATERIALIZATION
// ============================================================================

// Collect copies a view into a fresh slice.
func Collect(view RecordView) []SpendRecord {
	out := make([]SpendRecord, view.Len())
	for i := range out {
		out[i] = view.At(i)
	}
	return out
}

// RecordDates returns the date of every record in the view.
func RecordDates(view RecordView) []string {
	out := make([]string, view.Len())
	for i := range out {
		out[i] = view.At(i).Date
	}
	return out
}
