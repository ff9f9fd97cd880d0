package service

import "time"

// DateRange selects records by calendar day. Both ends are inclusive days:
// the window is [start of From, start of the day after To). A missing To
// selects only the From day and a missing From selects everything.
type DateRange struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// IsZero reports whether the range selects everything
func (r DateRange) IsZero() bool {
	return r.From == nil
}

// Bounds returns the half-open window [start, end)
func (r DateRange) Bounds() (start, end time.Time, ok bool) {
	if r.From == nil {
		return time.Time{}, time.Time{}, false
	}
	start = startOfDay(*r.From)
	if r.To != nil {
		end = startOfDay(*r.To).AddDate(0, 0, 1)
	} else {
		end = start.AddDate(0, 0, 1)
	}
	return start, end, true
}

// Contains reports whether t falls inside the window
func (r DateRange) Contains(t time.Time) bool {
	start, end, ok := r.Bounds()
	if !ok {
		return true
	}
	return !t.Before(start) && t.Before(end)
}

// LastDays is the range covering the n days up to and including today
func LastDays(now time.Time, n int) DateRange {
	if n < 1 {
		n = 1
	}
	from := now.AddDate(0, 0, -(n - 1))
	to := now
	return DateRange{From: &from, To: &to}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
