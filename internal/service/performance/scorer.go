package performance

import (
	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
)

// Scoring formula constants. The formula is deliberately fixed: the same
// month of attendance must always produce the same score.
const (
	baseScore          = 100
	latePenalty        = 5
	earlyLeavePenalty  = 5
	absencePenalty     = 10
	perfectDayBonus    = 2
	perfectBonusCap    = 20
	excellentThreshold = 90
	goodThreshold      = 75
	fairThreshold      = 60
)

// Tally is the per-month attendance count summary one employee's days
// reduce to. WorkingDays counts attended days; together with AbsenceDays
// it covers every non-weekend day of the month.
type Tally struct {
	WorkingDays     int
	LateCount       int
	EarlyLeaveCount int
	AbsenceDays     int
	PerfectDays     int
}

// TallyDays reduces a month of day aggregates to counts. A day is absent
// here iff it has no check-in; a check-in alone is enough to count the
// day as worked.
func TallyDays(days []attendance.DayAggregate) Tally {
	var t Tally
	for _, day := range days {
		if day.IsAbsent {
			t.AbsenceDays++
			continue
		}
		t.WorkingDays++
		if day.IsLate {
			t.LateCount++
		}
		if day.IsEarlyLeave {
			t.EarlyLeaveCount++
		}
		if day.IsPerfect {
			t.PerfectDays++
		}
	}
	return t
}

// ComputeScore applies the fixed deduction/bonus formula:
// start at 100, subtract 5 per late, 5 per early leave, 10 per absence,
// add min(2 x perfect days, 20), clamp into [0, 100].
func ComputeScore(t Tally) (decimal.Decimal, performance.Status) {
	score := baseScore -
		t.LateCount*latePenalty -
		t.EarlyLeaveCount*earlyLeavePenalty -
		t.AbsenceDays*absencePenalty

	bonus := t.PerfectDays * perfectDayBonus
	if bonus > perfectBonusCap {
		bonus = perfectBonusCap
	}
	score += bonus

	if score > baseScore {
		score = baseScore
	}
	if score < 0 {
		score = 0
	}

	return decimal.NewFromInt(int64(score)), statusFor(score)
}

// statusFor maps a clamped score to its qualitative band, highest first.
func statusFor(score int) performance.Status {
	switch {
	case score >= excellentThreshold:
		return performance.StatusExcellent
	case score >= goodThreshold:
		return performance.StatusGood
	case score >= fairThreshold:
		return performance.StatusFair
	default:
		return performance.StatusPoor
	}
}
