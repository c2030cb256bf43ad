// Package dates implements UTC-safe arithmetic on ISO calendar dates
// (YYYY-MM-DD).
//
// The format is fixed-width and zero-padded, so plain string comparison is
// date comparison. Callers rely on that wherever only ordering or equality
// matters and use this package only when they need to move across days.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/spektr-org/spendlens/errs"
)

// Layout is the ISO calendar date layout used everywhere.
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Format renders the UTC calendar date of t.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Today returns the current UTC date.
func Today() string {
	return Format(time.Now())
}

// partWidths are the digit counts of year, month and day.
var partWidths = [3]int{4, 2, 2}

// Parse converts an ISO date into midnight UTC. The string must split on "-"
// into three zero-padded numeric parts (4-2-2 digits) naming a real calendar
// day. Unpadded input such as 2026-1-5 is rejected so accepted strings keep
// sorting in date order.
func Parse(iso string) (time.Time, error) {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
	}

	nums := [3]int{}
	for i, p := range parts {
		if len(p) != partWidths[i] {
			return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
		}
		nums[i] = n
	}

	y, m, d := nums[0], nums[1], nums[2]
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject instead.
	if t.Day() != d || int(t.Month()) != m {
		return time.Time{}, errs.InvalidFormat(iso, "YYYY-MM-DD")
	}
	return t, nil
}

// Valid reports whether iso parses.
func Valid(iso string) bool {
	_, err := Parse(iso)
	return err == nil
}

// AddDays shifts an ISO date by n days (n may be negative).
func AddDays(iso string, n int) (string, error) {
	t, err := Parse(iso)
	if err != nil {
		return "", err
	}
	return Format(t.AddDate(0, 0, n)), nil
}

// DaysBetweenInclusive counts the days in [start, end]. It is 1 when both
// dates are equal and ≤ 0 when end precedes start.
func DaysBetweenInclusive(start, end string) (int, error) {
	s, err := Parse(start)
	if err != nil {
		return 0, err
	}
	e, err := Parse(end)
	if err != nil {
		return 0, err
	}
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1, nil
}

// Max returns the latest of a non-empty set of ISO dates.
func Max(values []string) (string, error) {
	if len(values) == 0 {
		return "", errs.EmptyInput("max date")
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// QuarterStart returns the first day of the calendar quarter containing iso.
func QuarterStart(iso string) (string, error) {
	t, err := Parse(iso)
	if err != nil {
		return "", err
	}
	month := (int(t.Month())-1)/3*3 + 1
	return Format(time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, time.UTC)), nil
}

// AddMonths shifts a first-of-month ISO date by n calendar months. Days other
// than the 1st are clamped to the target month's length.
func AddMonths(iso string, n int) (string, error) {
	t, err := Parse(iso)
	if err != nil {
		return "", err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return Format(time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)), nil
}
