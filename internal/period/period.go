// Package period computes reporting date windows and their labels.
package period

import (
	"fmt"
	"time"
)

// Kind is a named report cadence. Unrecognized kinds fall back to a
// trailing N-day window ending yesterday.
type Kind string

const (
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
	Yearly  Kind = "yearly"
)

// defaultCustomDays is the trailing window length when none is configured.
const defaultCustomDays = 7

// Range returns the closed date interval [start, end] for a period.
//
// Explicit bounds, when both are given, pass through verbatim regardless of
// kind; start <= end validation is the caller's concern. The weekly window is
// Monday through Sunday: on a Monday it is the fully completed previous week,
// on a Sunday the week ending today, and on any other weekday the in-progress
// week through its upcoming Sunday. Monthly and yearly are the full previous
// calendar month and year.
func Range(kind Kind, today time.Time, explicitStart, explicitEnd *time.Time, customDays int) (time.Time, time.Time) {
	if explicitStart != nil && explicitEnd != nil {
		return *explicitStart, *explicitEnd
	}

	today = dateOnly(today)

	switch kind {
	case Weekly:
		// Zero-based day of week with Monday = 0.
		dow := (int(today.Weekday()) + 6) % 7
		var start time.Time
		if dow == 0 {
			start = today.AddDate(0, 0, -7)
		} else {
			start = today.AddDate(0, 0, -dow)
		}
		return start, start.AddDate(0, 0, 6)
	case Monthly:
		firstOfMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := firstOfMonth.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, end
	case Yearly:
		start := time.Date(today.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(today.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)
		return start, end
	default:
		if customDays < 1 {
			customDays = defaultCustomDays
		}
		end := today.AddDate(0, 0, -1)
		start := end.AddDate(0, 0, -(customDays - 1))
		return start, end
	}
}

// Label returns the human-readable period heading for the report.
func Label(kind Kind, start, end time.Time) string {
	switch kind {
	case Weekly:
		_, week := start.ISOWeek()
		return fmt.Sprintf("Week %d, %d", week, start.Year())
	case Monthly:
		return start.Format("January 2006")
	case Yearly:
		return fmt.Sprintf("%d", start.Year())
	default:
		return fmt.Sprintf("%s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
}

// OutputFilename returns the report filename for a period.
func OutputFilename(kind Kind, start, end time.Time) string {
	switch kind {
	case Weekly:
		_, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d.md", start.Year(), week)
	case Monthly:
		return fmt.Sprintf("%d-%02d.md", start.Year(), int(start.Month()))
	case Yearly:
		return fmt.Sprintf("%d.md", start.Year())
	default:
		return fmt.Sprintf("%s_to_%s.md", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
}

// Phrase returns the time phrase used in narrative prompts.
func Phrase(kind Kind) string {
	switch kind {
	case Weekly:
		return "this week's"
	case Monthly:
		return "this month's"
	case Yearly:
		return "this year's"
	default:
		return "recent"
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
