package engine

import (
	"github.com/spektr-org/spendlens/dates"
	"github.com/spektr-org/spendlens/errs"
)

// ============================================================================
// WINDOWS — current/previous comparison ranges
// ============================================================================
// Three modes:
//   explicit — caller supplies both windows
//   rolling  — N days ending at an end date vs the N days before
//   qtd      — quarter-to-date vs the same elapsed days of the prior quarter
// ============================================================================

// WindowMode selects how a WindowSpec resolves.
type WindowMode string

const (
	ModeExplicit      WindowMode = "explicit"
	ModeRolling       WindowMode = "rolling"
	ModeQuarterToDate WindowMode = "qtd"
)

// WindowSpec describes how to derive the comparison windows.
// EndDate is the rolling end or the QTD as-of date; empty means the latest
// date present in the data.
type WindowSpec struct {
	Mode        WindowMode `json:"mode" yaml:"mode"`
	RangeLength int        `json:"rangeLength,omitempty" yaml:"rangeLength,omitempty"`
	EndDate     string     `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Current     Window     `json:"current,omitempty" yaml:"current,omitempty"`
	Previous    Window     `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// Rolling is shorthand for a rolling WindowSpec.
func Rolling(n int, end string) WindowSpec {
	return WindowSpec{Mode: ModeRolling, RangeLength: n, EndDate: end}
}

// QuarterToDate is shorthand for a QTD WindowSpec.
func QuarterToDate(asOf string) WindowSpec {
	return WindowSpec{Mode: ModeQuarterToDate, EndDate: asOf}
}

// Explicit is shorthand for an explicit WindowSpec.
func Explicit(current, previous Window) WindowSpec {
	return WindowSpec{Mode: ModeExplicit, Current: current, Previous: previous}
}

// ExplicitWindows validates a caller-supplied pair.
func ExplicitWindows(current, previous Window) (WindowPair, error) {
	if err := current.Validate(); err != nil {
		return WindowPair{}, err
	}
	if err := previous.Validate(); err != nil {
		return WindowPair{}, err
	}
	return WindowPair{Current: current, Previous: previous}, nil
}

// RollingWindows returns [end-(n-1), end] and the n days immediately before.
func RollingWindows(n int, end string) (WindowPair, error) {
	if n <= 0 {
		return WindowPair{}, errs.InvalidParameter("rangeLength", n, "must be > 0")
	}
	start, err := dates.AddDays(end, -(n - 1))
	if err != nil {
		return WindowPair{}, err
	}
	prevEnd, err := dates.AddDays(start, -1)
	if err != nil {
		return WindowPair{}, err
	}
	prevStart, err := dates.AddDays(prevEnd, -(n - 1))
	if err != nil {
		return WindowPair{}, err
	}
	return WindowPair{
		Current:  Window{Start: start, End: end},
		Previous: Window{Start: prevStart, End: prevEnd},
	}, nil
}

// QuarterToDateWindows compares [quarterStart(asOf), asOf] against the prior
// quarter. The previous window replays the same number of elapsed days from
// the prior quarter's start, so unequal quarter lengths line up by day count.
func QuarterToDateWindows(asOf string) (WindowPair, error) {
	start, err := dates.QuarterStart(asOf)
	if err != nil {
		return WindowPair{}, err
	}
	n, err := dates.DaysBetweenInclusive(start, asOf)
	if err != nil {
		return WindowPair{}, err
	}
	elapsed := n - 1

	prevStart, err := dates.AddMonths(start, -3)
	if err != nil {
		return WindowPair{}, err
	}
	prevEnd, err := dates.AddDays(prevStart, elapsed)
	if err != nil {
		return WindowPair{}, err
	}
	return WindowPair{
		Current:  Window{Start: start, End: asOf},
		Previous: Window{Start: prevStart, End: prevEnd},
	}, nil
}

// ResolveWindows turns a WindowSpec into concrete windows. For rolling and QTD
// modes an empty EndDate falls back to the latest date in view.
func ResolveWindows(spec WindowSpec, view RecordView) (WindowPair, error) {
	switch spec.Mode {
	case ModeExplicit:
		return ExplicitWindows(spec.Current, spec.Previous)
	case ModeRolling, "":
		end, err := resolveEndDate(spec.EndDate, view)
		if err != nil {
			return WindowPair{}, err
		}
		return RollingWindows(spec.RangeLength, end)
	case ModeQuarterToDate:
		end, err := resolveEndDate(spec.EndDate, view)
		if err != nil {
			return WindowPair{}, err
		}
		return QuarterToDateWindows(end)
	default:
		return WindowPair{}, errs.InvalidParameter("mode", spec.Mode, "want explicit, rolling or qtd")
	}
}

// ParseWindowMode validates a mode name.
func ParseWindowMode(s string) (WindowMode, error) {
	switch WindowMode(s) {
	case ModeExplicit, ModeRolling, ModeQuarterToDate:
		return WindowMode(s), nil
	case "":
		return ModeRolling, nil
	default:
		return "", errs.InvalidParameter("mode", s, "want explicit, rolling or qtd")
	}
}

func resolveEndDate(end string, view RecordView) (string, error) {
	if end != "" {
		if _, err := dates.Parse(end); err != nil {
			return "", err
		}
		return end, nil
	}
	return dates.Max(RecordDates(view))
}
