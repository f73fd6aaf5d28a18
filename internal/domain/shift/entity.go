package shift

import "time"

// Shift defines the expected working window for a day. StartTime and
// EndTime carry only a time-of-day component; the date part is ignored.
// Shifts are immutable during a computation run, changes apply
// prospectively only.
type Shift struct {
	ID               string
	CompanyID        string
	Name             string
	StartTime        time.Time
	EndTime          time.Time
	BreakMinutes     int
	LateGraceMinutes int
	OvertimeAfter    int // minutes after EndTime before overtime may count
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StartOn anchors the shift's start time-of-day onto a calendar date.
func (s Shift) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), s.StartTime.Second(), 0, date.Location())
}

// EndOn anchors the shift's end time-of-day onto a calendar date.
func (s Shift) EndOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		s.EndTime.Hour(), s.EndTime.Minute(), s.EndTime.Second(), 0, date.Location())
}

// GraceEnd is the last instant a check-in on date is still on time.
func (s Shift) GraceEnd(date time.Time) time.Time {
	return s.StartOn(date).Add(time.Duration(s.LateGraceMinutes) * time.Minute)
}
