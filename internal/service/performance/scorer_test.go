package performance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
)

func TestTallyDays(t *testing.T) {
	t.Parallel()

	ts := func(hour int) *time.Time {
		v := time.Date(2025, time.September, 1, hour, 0, 0, 0, time.UTC)
		return &v
	}

	days := []attendance.DayAggregate{
		{CheckIn: ts(9), CheckOut: ts(17), IsPerfect: true},
		{CheckIn: ts(10), CheckOut: ts(17), IsLate: true},
		{CheckIn: ts(9), CheckOut: ts(15), IsEarlyLeave: true},
		{IsAbsent: true},
		// A check-in with no check-out still counts as a worked day.
		{CheckIn: ts(9)},
	}

	tally := TallyDays(days)
	assert.Equal(t, Tally{
		WorkingDays:     4,
		LateCount:       1,
		EarlyLeaveCount: 1,
		AbsenceDays:     1,
		PerfectDays:     1,
	}, tally)
}

func TestComputeScore_PerfectMonthIsCappedAtHundred(t *testing.T) {
	t.Parallel()

	// 22 perfect days: bonus caps at 20 and the total caps at 100.
	score, status := ComputeScore(Tally{WorkingDays: 22, PerfectDays: 22})
	assert.True(t, score.Equal(decimal.NewFromInt(100)), "got %s", score)
	assert.Equal(t, performance.StatusExcellent, status)
}

func TestComputeScore_FloorsAtZero(t *testing.T) {
	t.Parallel()

	// 22 late days: 100 - 110 floors at 0.
	score, status := ComputeScore(Tally{WorkingDays: 22, LateCount: 22})
	assert.True(t, score.IsZero(), "got %s", score)
	assert.Equal(t, performance.StatusPoor, status)
}

func TestComputeScore_Penalties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tally  Tally
		want   int64
		status performance.Status
	}{
		{"one late", Tally{WorkingDays: 20, LateCount: 1}, 95, performance.StatusExcellent},
		{"one early leave", Tally{WorkingDays: 20, EarlyLeaveCount: 1}, 95, performance.StatusExcellent},
		{"one absence", Tally{WorkingDays: 19, AbsenceDays: 1}, 90, performance.StatusExcellent},
		{"late plus absence", Tally{WorkingDays: 19, LateCount: 1, AbsenceDays: 1}, 85, performance.StatusGood},
		{"three absences", Tally{WorkingDays: 17, AbsenceDays: 3}, 70, performance.StatusFair},
		{"heavy penalties", Tally{WorkingDays: 15, LateCount: 4, AbsenceDays: 3}, 50, performance.StatusPoor},
		{"bonus offsets penalties", Tally{WorkingDays: 20, LateCount: 2, PerfectDays: 5}, 100, performance.StatusExcellent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, status := ComputeScore(tt.tally)
			assert.True(t, score.Equal(decimal.NewFromInt(tt.want)), "got %s want %d", score, tt.want)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestComputeScore_StatusBoundaries(t *testing.T) {
	t.Parallel()

	// 90/75/60 are inclusive lower bounds of their bands.
	tests := []struct {
		lateCount int
		status    performance.Status
	}{
		{2, performance.StatusExcellent}, // 90
		{3, performance.StatusGood},      // 85
		{5, performance.StatusGood},      // 75
		{6, performance.StatusFair},      // 70
		{8, performance.StatusFair},      // 60
		{9, performance.StatusPoor},      // 55
	}

	for _, tt := range tests {
		_, status := ComputeScore(Tally{WorkingDays: 20, LateCount: tt.lateCount})
		assert.Equal(t, tt.status, status, "late count %d", tt.lateCount)
	}
}
