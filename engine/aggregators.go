package engine

import (
	"math"
	"sort"
)

// ============================================================================
// AGGREGATORS — Window Sums, Daily Series, Driver Ranking via RecordView
// ============================================================================
// Sums accumulate at full precision and round to cents only on emission so
// rounding error never compounds across thousands of additions.
// ============================================================================

// RoundTo2 rounds half-up to cents.
func RoundTo2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// SumCost totals every record in the view.
func SumCost(view RecordView) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.At(i).Cost
	}
	return RoundTo2(total)
}

// SumInWindow totals the records dated inside w.
func SumInWindow(view RecordView, w Window) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if w.Contains(r.Date) {
			total += r.Cost
		}
	}
	return RoundTo2(total)
}

// ============================================================================
// DAILY SERIES
// ============================================================================

// DailySeries returns one total per day inside w, ascending by date.
// Days without records are absent, not zero-filled.
func DailySeries(view RecordView, w Window) []SeriesPoint {
	return dailyTotals(view, func(date string) bool { return w.Contains(date) })
}

// DailyTotals returns one total per day across the whole view.
func DailyTotals(view RecordView) []SeriesPoint {
	return dailyTotals(view, nil)
}

func dailyTotals(view RecordView, keep func(string) bool) []SeriesPoint {
	byDate := make(map[string]float64)
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if keep != nil && !keep(r.Date) {
			continue
		}
		byDate[r.Date] += r.Cost
	}

	days := make([]string, 0, len(byDate))
	for d := range byDate {
		days = append(days, d)
	}
	sort.Strings(days)

	series := make([]SeriesPoint, 0, len(days))
	for _, d := range days {
		series = append(series, SeriesPoint{Date: d, Cost: RoundTo2(byDate[d])})
	}
	return series
}

// ============================================================================
// DRIVER RANKING
// ============================================================================

type driverAcc struct {
	current  float64
	previous float64
}

// RankDrivers groups rows by dim, sums each group per window and ranks the
// groups by the size of their change.
func RankDrivers(rows []SpendRecord, dim Dimension, current, previous Window) []DriverRow {
	return RankDriversView(NewSliceView(rows), dim, current, previous)
}

// RankDriversView is RankDrivers over any RecordView.
//
// A group seen in only one window still appears, with the other side 0.
// Rows outside both windows contribute nothing and create no group.
func RankDriversView(view RecordView, dim Dimension, current, previous Window) []DriverRow {
	groups := make(map[string]*driverAcc)
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		inCur := current.Contains(r.Date)
		inPrev := previous.Contains(r.Date)
		if !inCur && !inPrev {
			continue
		}
		key := dim.Key(r)
		acc, ok := groups[key]
		if !ok {
			acc = &driverAcc{}
			groups[key] = acc
		}
		if inCur {
			acc.current += r.Cost
		}
		if inPrev {
			acc.previous += r.Cost
		}
	}

	drivers := make([]DriverRow, 0, len(groups))
	for name, acc := range groups {
		drivers = append(drivers, newDriverRow(name, acc.current, acc.previous))
	}
	SortDrivers(drivers)
	return drivers
}

func newDriverRow(name string, current, previous float64) DriverRow {
	c := RoundTo2(current)
	p := RoundTo2(previous)
	d := RoundTo2(c - p)
	return DriverRow{
		Name:     name,
		Current:  c,
		Previous: p,
		Delta:    d,
		DeltaPct: ratio(d, p),
	}
}

// ratio returns num/den, or nil when den is 0.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

// SortDrivers orders by |delta| desc, then current desc, then name asc.
func SortDrivers(drivers []DriverRow) {
	sort.SliceStable(drivers, func(i, j int) bool {
		return driverLess(drivers[i], drivers[j])
	})
}

func driverLess(a, b DriverRow) bool {
	ad, bd := math.Abs(a.Delta), math.Abs(b.Delta)
	if ad != bd {
		return ad > bd
	}
	if a.Current != b.Current {
		return a.Current > b.Current
	}
	return a.Name < b.Name
}

// TopDriver returns the first ranked driver, or nil when there are none.
func TopDriver(drivers []DriverRow) *DriverRow {
	if len(drivers) == 0 {
		return nil
	}
	top := drivers[0]
	return &top
}

// UniqueValues returns the distinct values of dim across a view, in first-seen order.
func UniqueValues(view RecordView, dim Dimension) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := dim.Key(view.At(i))
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
