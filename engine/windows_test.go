package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/errs"
)

func TestRollingWindows(t *testing.T) {
	w, err := RollingWindows(14, "2026-01-19")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: "2026-01-06", End: "2026-01-19"}, w.Current)
	assert.Equal(t, Window{Start: "2025-12-23", End: "2026-01-05"}, w.Previous)

	for _, n := range []int{1, 7, 30, 90} {
		w, err := RollingWindows(n, "2026-03-01")
		require.NoError(t, err)
		assert.Equal(t, n, w.Current.Days())
		assert.Equal(t, n, w.Previous.Days())
		next, err := dates.AddDays(w.Previous.End, 1)
		require.NoError(t, err)
		assert.Equal(t, w.Current.Start, next, "previous must end the day before current starts")
	}
}

func TestRollingWindowsRejectsBadInput(t *testing.T) {
	_, err := RollingWindows(0, "2026-01-19")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = RollingWindows(-3, "2026-01-19")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = RollingWindows(7, "2026-1-19x")
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestQuarterToDateWindows(t *testing.T) {
	cases := []struct {
		asOf     string
		current  Window
		previous Window
	}{
		{"2026-01-21", Window{"2026-01-01", "2026-01-21"}, Window{"2025-10-01", "2025-10-21"}},
		{"2026-05-15", Window{"2026-04-01", "2026-05-15"}, Window{"2026-01-01", "2026-02-14"}},
		{"2026-08-10", Window{"2026-07-01", "2026-08-10"}, Window{"2026-04-01", "2026-05-11"}},
		{"2026-11-30", Window{"2026-10-01", "2026-11-30"}, Window{"2026-07-01", "2026-08-30"}},
		{"2026-04-01", Window{"2026-04-01", "2026-04-01"}, Window{"2026-01-01", "2026-01-01"}},
		{"2026-03-31", Window{"2026-01-01", "2026-03-31"}, Window{"2025-10-01", "2025-12-29"}},
	}
	for _, tc := range cases {
		t.Run(tc.asOf, func(t *testing.T) {
			w, err := QuarterToDateWindows(tc.asOf)
			require.NoError(t, err)
			assert.Equal(t, tc.current, w.Current)
			assert.Equal(t, tc.previous, w.Previous)
			assert.Equal(t, w.Current.Days(), w.Previous.Days())
		})
	}
}

func TestExplicitWindows(t *testing.T) {
	w, err := ExplicitWindows(twoDayCur, twoDayPrev)
	require.NoError(t, err)
	assert.Equal(t, twoDayCur, w.Current)

	_, err = ExplicitWindows(Window{Start: "2026-01-05", End: "2026-01-01"}, twoDayPrev)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)

	_, err = ExplicitWindows(twoDayCur, Window{Start: "nope", End: "2026-01-01"})
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)
}

func TestWindowsRejectUnpaddedDates(t *testing.T) {
	_, err := ExplicitWindows(Window{Start: "2026-01-01", End: "2026-1-5"}, Window{Start: "2025-12-27", End: "2025-12-31"})
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	_, err = RollingWindows(2, "2026-1-19")
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	_, err = QuarterToDateWindows("2026-2-15")
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	_, err = ResolveWindows(Rolling(2, "2026-1-19"), NewSliceView(twoDayRows))
	assert.ErrorIs(t, err, errs.ErrInvalidFormat)

	w := Window{Start: "2026-01-01", End: "2026-01-05"}
	assert.False(t, w.Contains("2026-09-30"))
}

func TestResolveWindows(t *testing.T) {
	view := NewSliceView(twoDayRows)

	w, err := ResolveWindows(Rolling(2, ""), view)
	require.NoError(t, err)
	assert.Equal(t, twoDayCur, w.Current, "end defaults to the latest date in the data")
	assert.Equal(t, twoDayPrev, w.Previous)

	w, err = ResolveWindows(WindowSpec{RangeLength: 2, EndDate: "2026-01-02"}, view)
	require.NoError(t, err)
	assert.Equal(t, twoDayPrev, w.Current, "empty mode behaves as rolling")

	w, err = ResolveWindows(QuarterToDate(""), view)
	require.NoError(t, err)
	assert.Equal(t, Window{Start: "2026-01-01", End: "2026-01-04"}, w.Current)

	w, err = ResolveWindows(Explicit(twoDayCur, twoDayPrev), NewSliceView(nil))
	require.NoError(t, err)
	assert.Equal(t, twoDayPrev, w.Previous)

	_, err = ResolveWindows(Rolling(2, ""), NewSliceView(nil))
	assert.ErrorIs(t, err, errs.ErrEmptyInput)

	_, err = ResolveWindows(WindowSpec{Mode: "weekly"}, view)
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}

func TestParseWindowMode(t *testing.T) {
	m, err := ParseWindowMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeRolling, m)

	m, err = ParseWindowMode("qtd")
	require.NoError(t, err)
	assert.Equal(t, ModeQuarterToDate, m)

	_, err = ParseWindowMode("yearly")
	assert.ErrorIs(t, err, errs.ErrInvalidParameter)
}
