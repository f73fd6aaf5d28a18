package attendance

import "time"

// DayAggregate is the derived per-day attendance view of one employee.
// It is never persisted; both the performance scorer and the payroll
// calculator rebuild it from punches on every run.
type DayAggregate struct {
	Date         time.Time
	CheckIn      *time.Time
	CheckOut     *time.Time
	IsLate       bool
	IsEarlyLeave bool
	IsPerfect    bool
	IsAbsent     bool
}

// HasAttendance reports whether the employee showed up at all that day.
func (d DayAggregate) HasAttendance() bool {
	return d.CheckIn != nil
}

// IsComplete reports whether both punches exist for the day.
func (d DayAggregate) IsComplete() bool {
	return d.CheckIn != nil && d.CheckOut != nil
}

type DayKind int

const (
	Weekday DayKind = iota
	Weekend
)

// ClassifyDay tags a calendar date as Weekday or Weekend. Weekend days
// (Saturday and Sunday) contribute neither presence nor absence to any
// count in this engine.
func ClassifyDay(date time.Time) DayKind {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// WorkingDaysIn counts the weekday dates in [from, to] inclusive.
func WorkingDaysIn(from, to time.Time) int {
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if ClassifyDay(d) == Weekday {
			count++
		}
	}
	return count
}
