package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
)

// earlyLeaveToleranceMinutes is how early a check-out may be before it
// counts as an early leave. Fixed tolerance, independent of the shift's
// grace minutes (those apply to lateness only).
const earlyLeaveToleranceMinutes = 15

// Aggregator turns raw punches into per-day attendance aggregates.
type Aggregator struct {
	punchRepo attendance.PunchRepository
}

func NewAggregator(punchRepo attendance.PunchRepository) *Aggregator {
	return &Aggregator{punchRepo: punchRepo}
}

// AggregateRange produces one DayAggregate per non-weekend calendar day
// in [from, to] inclusive. sh may be nil when the employee has no shift
// assigned; pairing still happens but late/early-leave/perfect flags
// stay false.
func (a *Aggregator) AggregateRange(ctx context.Context, employeeID string, sh *shift.Shift, from, to time.Time) ([]attendance.DayAggregate, error) {
	punches, err := a.punchRepo.ListForEmployee(ctx, employeeID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list punches for employee %s: %w", employeeID, err)
	}

	return BuildDayAggregates(punches, sh, from, to), nil
}

// BuildDayAggregates is the pure aggregation pass over already-loaded
// punches. Punches outside [from, to] are ignored; days are matched on
// the local calendar date of the punch timestamp, not on record order.
func BuildDayAggregates(punches []attendance.Punch, sh *shift.Shift, from, to time.Time) []attendance.DayAggregate {
	type dayPair struct {
		in  *time.Time
		out *time.Time
	}

	pairs := make(map[string]*dayPair)
	for i := range punches {
		p := punches[i]
		key := p.Timestamp.Format("2006-01-02")
		pair, ok := pairs[key]
		if !ok {
			pair = &dayPair{}
			pairs[key] = pair
		}
		ts := p.Timestamp
		switch p.Type {
		case attendance.PunchTypeIn:
			// Earliest check-in wins.
			if pair.in == nil || ts.Before(*pair.in) {
				pair.in = &ts
			}
		case attendance.PunchTypeOut:
			// Latest check-out wins.
			if pair.out == nil || ts.After(*pair.out) {
				pair.out = &ts
			}
		}
	}

	var days []attendance.DayAggregate
	for d := startOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if attendance.ClassifyDay(d) == attendance.Weekend {
			continue
		}

		pair := pairs[d.Format("2006-01-02")]
		day := attendance.DayAggregate{Date: d}
		if pair != nil {
			day.CheckIn = pair.in
			day.CheckOut = pair.out
		}

		day.IsAbsent = day.CheckIn == nil
		if sh != nil {
			day.IsLate = isLate(*sh, d, day.CheckIn)
			day.IsEarlyLeave = isEarlyLeave(*sh, d, day.CheckOut)
			day.IsPerfect = day.IsComplete() && !day.IsLate && !day.IsEarlyLeave
		}

		days = append(days, day)
	}

	return days
}

// isLate reports whether checkIn exceeds the grace window. A check-in
// exactly at shift start + grace minutes is still on time.
func isLate(sh shift.Shift, date time.Time, checkIn *time.Time) bool {
	if checkIn == nil {
		return false
	}
	return checkIn.After(sh.GraceEnd(date))
}

// isEarlyLeave reports whether checkOut is short of the shift end by more
// than the fixed tolerance.
func isEarlyLeave(sh shift.Shift, date time.Time, checkOut *time.Time) bool {
	if checkOut == nil {
		return false
	}
	expectedEnd := sh.EndOn(date)
	if !checkOut.Before(expectedEnd) {
		return false
	}
	return expectedEnd.Sub(*checkOut) > earlyLeaveToleranceMinutes*time.Minute
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
