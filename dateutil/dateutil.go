// Package dateutil centralizes the calendar-month arithmetic used
// throughout the trainer and evaluator, per the REDESIGN FLAGS in
// spec.md §9: "ad hoc date math scattered across callers" becomes one
// audited place that every caller shares.
package dateutil

import "time"

// SubtractMonths returns t shifted back by n calendar months, matching
// Python's dateutil.relativedelta semantics original_source relies on:
// a day-of-month past the end of the target month is clamped to that
// month's last day (e.g. Mar 31 - 1 month = Feb 28, not Mar 3).
// time.AddDate alone would normalise the overflow into the next month,
// so the clamp is applied explicitly in AddMonths.
func SubtractMonths(t time.Time, months int) time.Time {
	return AddMonths(t, -months)
}

// AddMonths shifts t forward by n calendar months with the same
// day-of-month clamping as SubtractMonths, used where the trainer window
// is expressed forward from a start date instead of back from an end
// date.
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

// Window is an inclusive [Start, End] calendar range.
type Window struct {
	Start time.Time
	End   time.Time
}

// TrainingWindow computes {period_start, period_end} for a trainer run
// given an end date and a window size in months (spec.md §4.3 step 1).
func TrainingWindow(endDate time.Time, windowMonths int) Window {
	return Window{
		Start: SubtractMonths(endDate, windowMonths),
		End:   endDate,
	}
}

// Contains reports whether d falls within the inclusive window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// DaysSince returns the number of whole days between t and now, used
// by the evaluator's freshness check (spec.md §4.7: ">7 days triggers
// retrain").
func DaysSince(t, now time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}
