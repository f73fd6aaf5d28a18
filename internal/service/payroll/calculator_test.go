package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

// testShift is a 09:00-17:00 shift with a 15 minute grace window.
func testShift() *shift.Shift {
	return &shift.Shift{
		ID:               "shift-1",
		StartTime:        time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:          time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
		LateGraceMinutes: 15,
	}
}

func basePolicy() payroll.EffectivePolicy {
	return payroll.EffectivePolicy{
		BasicSalary:         dec("2600"),
		HourlyRate:          dec("12.5"),
		OvertimeRate:        dec("1.25"),
		WorkingHoursPerDay:  8,
		WorkingDaysPerMonth: 26,
	}
}

// workedDay builds an on-time day: checked in at inHour:inMin and out at
// outHour:outMin on the given weekday date.
func workedDay(date time.Time, inHour, inMin, outHour, outMin int) attendance.DayAggregate {
	in := time.Date(date.Year(), date.Month(), date.Day(), inHour, inMin, 0, 0, time.UTC)
	out := time.Date(date.Year(), date.Month(), date.Day(), outHour, outMin, 0, 0, time.UTC)
	return attendance.DayAggregate{
		Date:      date,
		CheckIn:   timePtr(in),
		CheckOut:  timePtr(out),
		IsPerfect: inHour*60+inMin <= 9*60+15 && outHour >= 17,
	}
}

func absentDay(date time.Time) attendance.DayAggregate {
	return attendance.DayAggregate{Date: date, IsAbsent: true}
}

// monthDays builds n consecutive weekdays starting Mon Sep 1 2025, each
// worked 09:00-17:00, then applies the given mutations by index.
func monthDays(n int, mutate map[int]func(time.Time) attendance.DayAggregate) []attendance.DayAggregate {
	days := make([]attendance.DayAggregate, 0, n)
	d := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	for len(days) < n {
		if attendance.ClassifyDay(d) == attendance.Weekday {
			idx := len(days)
			if fn, ok := mutate[idx]; ok {
				days = append(days, fn(d))
			} else {
				days = append(days, workedDay(d, 9, 0, 17, 0))
			}
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

func TestCompute_ReferenceScenario(t *testing.T) {
	t.Parallel()

	// basic 2600, 26 working days, hourly 12.50, overtime x1.25.
	// One day with 2 whole overtime hours, two absent days charged at the
	// full daily rate (100 each).
	pol := basePolicy()
	pol.Settings.OvertimeEnabled = true
	pol.Settings.AbsenceDeductionEnabled = true
	pol.Settings.AbsenceDeductionType = payroll.AbsenceDeductionFullDay

	days := monthDays(22, map[int]func(time.Time) attendance.DayAggregate{
		3: func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 19, 0) },
		10: func(d time.Time) attendance.DayAggregate { return absentDay(d) },
		11: func(d time.Time) attendance.DayAggregate { return absentDay(d) },
	})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)

	assert.True(t, c.OvertimeHours.Equal(dec("2")), "overtime hours: %s", c.OvertimeHours)
	assert.True(t, c.OvertimeAmount.Equal(dec("31.25")), "overtime amount: %s", c.OvertimeAmount)
	assert.True(t, c.LeaveDeductions.Equal(dec("200")), "leave deductions: %s", c.LeaveDeductions)
	assert.True(t, c.NetSalary.Equal(dec("2431.25")), "net: %s", c.NetSalary)
	assert.Equal(t, 22, c.TotalWorkingDays)
	assert.Equal(t, 20, c.AttendedDays)
	assert.Equal(t, 2, c.AbsenceDays)
}

func TestCompute_OvertimeWholeHourTruncation(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.OvertimeEnabled = true

	// 9h50m worked truncates to 9 whole hours: exactly 1 overtime hour,
	// the 50 minutes never count.
	days := monthDays(1, map[int]func(time.Time) attendance.DayAggregate{
		0: func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 18, 50) },
	})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.OvertimeHours.Equal(dec("1")), "got %s", c.OvertimeHours)

	// 8h50m truncates to 8 hours: no overtime at all.
	days = monthDays(1, map[int]func(time.Time) attendance.DayAggregate{
		0: func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 17, 50) },
	})
	c = Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.OvertimeHours.IsZero(), "got %s", c.OvertimeHours)
}

func TestCompute_OvertimeCaps(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.OvertimeEnabled = true
	pol.Settings.OvertimeMaxPerDay = decPtr("3")
	pol.Settings.OvertimeMaxPerMonth = decPtr("5")

	// Three days of 5 raw overtime hours each: daily cap trims each day to
	// 3, the monthly cap trims the 9-hour sum to 5.
	long := func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 22, 0) }
	days := monthDays(3, map[int]func(time.Time) attendance.DayAggregate{0: long, 1: long, 2: long})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.OvertimeHours.Equal(dec("5")), "got %s", c.OvertimeHours)
}

func TestCompute_OvertimeDisabled(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	days := monthDays(1, map[int]func(time.Time) attendance.DayAggregate{
		0: func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 21, 0) },
	})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.OvertimeHours.IsZero())
	assert.True(t, c.OvertimeAmount.IsZero())
}

func TestCompute_LateDeductionHourUnitRoundsUp(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.LateDeductionEnabled = true
	pol.Settings.LateCalculationUnit = payroll.CalculationUnitHour

	// 50 minutes after start, grace 15 => 35 deductible minutes, charged
	// as one whole hour: 12.50.
	late := func(d time.Time) attendance.DayAggregate {
		day := workedDay(d, 9, 50, 17, 0)
		day.IsLate = true
		day.IsPerfect = false
		return day
	}
	days := monthDays(1, map[int]func(time.Time) attendance.DayAggregate{0: late})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.AttendanceDeductionsRaw.Equal(dec("12.5")), "got %s", c.AttendanceDeductionsRaw)
}

func TestCompute_LateDeductionMinuteUnitIsExact(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.LateDeductionEnabled = true
	pol.Settings.LateCalculationUnit = payroll.CalculationUnitMinute

	// 35 deductible minutes at 12.50/h = 7.291666... rounds to 7.29.
	late := func(d time.Time) attendance.DayAggregate {
		day := workedDay(d, 9, 50, 17, 0)
		day.IsLate = true
		day.IsPerfect = false
		return day
	}
	days := monthDays(1, map[int]func(time.Time) attendance.DayAggregate{0: late})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.AttendanceDeductionsRaw.Equal(dec("7.29")), "got %s", c.AttendanceDeductionsRaw)
}

func TestCompute_EarlyLeaveDeduction(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.EarlyLeaveDeductionEnabled = true

	// Left at 16:30, 30 minutes short: 0.5h x 12.50 = 6.25.
	early := func(d time.Time) attendance.DayAggregate {
		day := workedDay(d, 9, 0, 16, 30)
		day.IsEarlyLeave = true
		day.IsPerfect = false
		return day
	}
	days := monthDays(1, map[int]func(time.Time) attendance.DayAggregate{0: early})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.AttendanceDeductionsRaw.Equal(dec("6.25")), "got %s", c.AttendanceDeductionsRaw)
}

func TestCompute_AttendanceDeductionsStaySigned(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.AttendanceBonusEnabled = true
	pol.Settings.AttendanceBonusType = payroll.BonusTypeFixedAmount
	pol.Settings.AttendanceBonusAmount = dec("150")
	pol.Settings.AttendanceBonusCondition = payroll.BonusConditionNoAbsence

	days := monthDays(22, nil)

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)

	// No penalty, bonus 150: the stored field is -150, but it contributes
	// zero to total deductions.
	assert.True(t, c.AttendanceDeductions.Equal(dec("-150")), "got %s", c.AttendanceDeductions)
	assert.True(t, c.TotalDeductions.IsZero(), "got %s", c.TotalDeductions)
	assert.True(t, c.NetSalary.Equal(dec("2600")), "got %s", c.NetSalary)
}

func TestCompute_BonusConditions(t *testing.T) {
	t.Parallel()

	lateDay := func(d time.Time) attendance.DayAggregate {
		day := workedDay(d, 9, 30, 17, 0)
		day.IsLate = true
		day.IsPerfect = false
		return day
	}

	tests := []struct {
		name      string
		condition payroll.BonusCondition
		minDays   int
		mutate    map[int]func(time.Time) attendance.DayAggregate
		granted   bool
	}{
		{
			name:      "perfect attendance granted on a flawless month",
			condition: payroll.BonusConditionPerfectAttendance,
			granted:   true,
		},
		{
			name:      "perfect attendance denied by one late day",
			condition: payroll.BonusConditionPerfectAttendance,
			mutate:    map[int]func(time.Time) attendance.DayAggregate{0: lateDay},
			granted:   false,
		},
		{
			name:      "no_late tolerates nothing",
			condition: payroll.BonusConditionNoLate,
			mutate:    map[int]func(time.Time) attendance.DayAggregate{5: lateDay},
			granted:   false,
		},
		{
			name:      "no_late granted when late-free",
			condition: payroll.BonusConditionNoLate,
			granted:   true,
		},
		{
			name:      "no_absence denied by one absent day",
			condition: payroll.BonusConditionNoAbsence,
			mutate:    map[int]func(time.Time) attendance.DayAggregate{7: absentDay},
			granted:   false,
		},
		{
			name:      "custom_days met",
			condition: payroll.BonusConditionCustomDays,
			minDays:   20,
			mutate:    map[int]func(time.Time) attendance.DayAggregate{0: absentDay, 1: absentDay},
			granted:   true,
		},
		{
			name:      "custom_days missed",
			condition: payroll.BonusConditionCustomDays,
			minDays:   21,
			mutate:    map[int]func(time.Time) attendance.DayAggregate{0: absentDay, 1: absentDay},
			granted:   false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pol := basePolicy()
			pol.Settings.AttendanceBonusEnabled = true
			pol.Settings.AttendanceBonusType = payroll.BonusTypeFixedAmount
			pol.Settings.AttendanceBonusAmount = dec("100")
			pol.Settings.AttendanceBonusCondition = tt.condition
			pol.Settings.AttendanceBonusMinDays = tt.minDays

			days := monthDays(22, tt.mutate)
			c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)

			if tt.granted {
				assert.True(t, c.AttendanceBonus.Equal(dec("100")), "got %s", c.AttendanceBonus)
			} else {
				assert.True(t, c.AttendanceBonus.IsZero(), "got %s", c.AttendanceBonus)
			}
		})
	}
}

func TestCompute_BonusValuation(t *testing.T) {
	t.Parallel()

	days := monthDays(22, nil)

	pol := basePolicy()
	pol.Settings.AttendanceBonusEnabled = true
	pol.Settings.AttendanceBonusCondition = payroll.BonusConditionNoAbsence

	pol.Settings.AttendanceBonusType = payroll.BonusTypePercentage
	pol.Settings.AttendanceBonusAmount = dec("5")
	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.AttendanceBonus.Equal(dec("130")), "percentage: got %s", c.AttendanceBonus)

	pol.Settings.AttendanceBonusType = payroll.BonusTypePerDay
	pol.Settings.AttendanceBonusAmount = dec("4")
	c = Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.AttendanceBonus.Equal(dec("88")), "per day: got %s", c.AttendanceBonus)
}

func TestCompute_AbsencePercentageDeduction(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.AbsenceDeductionEnabled = true
	pol.Settings.AbsenceDeductionType = payroll.AbsenceDeductionPercentage
	pol.Settings.AbsenceDeductionPercentage = dec("50")

	days := monthDays(22, map[int]func(time.Time) attendance.DayAggregate{
		0: absentDay,
		1: absentDay,
		2: absentDay,
	})

	// Daily rate 100, half-day charge, 3 absences: 150.
	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	assert.True(t, c.LeaveDeductions.Equal(dec("150")), "got %s", c.LeaveDeductions)
}

func TestCompute_NetSalaryFloorsAtZero(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.AbsenceDeductionEnabled = true
	pol.Settings.AbsenceDeductionType = payroll.AbsenceDeductionFullDay

	// Fully absent month plus manual deduction larger than the salary.
	mutate := map[int]func(time.Time) attendance.DayAggregate{}
	for i := 0; i < 22; i++ {
		mutate[i] = absentDay
	}
	days := monthDays(22, mutate)

	c := Calculator{}.Compute(pol, testShift(), days, dec("1000"))
	assert.True(t, c.NetSalary.IsZero(), "got %s", c.NetSalary)
	assert.True(t, c.TotalDeductions.Equal(dec("3200")), "got %s", c.TotalDeductions)
}

func TestCompute_ManualAndFixedDeductionsAlwaysApply(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.AllowancesTotal = dec("250")
	pol.FixedDeductionsTotal = dec("80")

	days := monthDays(22, nil)

	c := Calculator{}.Compute(pol, testShift(), days, dec("40"))
	// 2600 + 250 - 80 - 40 = 2730
	assert.True(t, c.NetSalary.Equal(dec("2730")), "got %s", c.NetSalary)
}

func TestCompute_NilShiftSkipsAttendanceDeductions(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.LateDeductionEnabled = true
	pol.Settings.EarlyLeaveDeductionEnabled = true

	late := func(d time.Time) attendance.DayAggregate {
		day := workedDay(d, 10, 0, 16, 0)
		day.IsLate = true
		day.IsEarlyLeave = true
		day.IsPerfect = false
		return day
	}
	days := monthDays(5, map[int]func(time.Time) attendance.DayAggregate{0: late})

	c := Calculator{}.Compute(pol, nil, days, decimal.Zero)
	assert.True(t, c.AttendanceDeductionsRaw.IsZero())
	assert.True(t, c.NetSalary.Equal(dec("2600")))
}

func TestBuildNotes(t *testing.T) {
	t.Parallel()

	pol := basePolicy()
	pol.Settings.OvertimeEnabled = true

	days := monthDays(22, map[int]func(time.Time) attendance.DayAggregate{
		0: func(d time.Time) attendance.DayAggregate { return workedDay(d, 9, 0, 19, 0) },
	})

	c := Calculator{}.Compute(pol, testShift(), days, decimal.Zero)
	notes := BuildNotes(c)
	assert.Contains(t, notes, "basic 2600")
	assert.Contains(t, notes, "overtime 31.25 (2h)")
	assert.Contains(t, notes, "net 2631.25")
}
