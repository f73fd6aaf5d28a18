package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
)

var (
	sixty      = decimal.NewFromInt(60)
	oneHundred = decimal.NewFromInt(100)
)

// Computation holds every sub-result of one employee's payroll
// calculation. Monetary fields are rounded to 2 decimal places at the
// point each is computed, so reruns never accumulate rounding drift.
type Computation struct {
	BasicSalary             decimal.Decimal
	Allowances              decimal.Decimal
	OvertimeHours           decimal.Decimal
	OvertimeAmount          decimal.Decimal
	AttendanceDeductionsRaw decimal.Decimal
	AttendanceBonus         decimal.Decimal
	AttendanceDeductions    decimal.Decimal // raw minus bonus, may be negative
	LeaveDeductions         decimal.Decimal
	ManualDeductions        decimal.Decimal
	FixedDeductions         decimal.Decimal
	TotalDeductions         decimal.Decimal
	NetSalary               decimal.Decimal

	TotalWorkingDays int
	AttendedDays     int
	AbsenceDays      int
}

// Calculator computes one payroll entry from aggregated days and an
// effective policy. It is stateless and safe for concurrent use.
type Calculator struct{}

// Compute runs the calculation steps in order. days must already exclude
// weekends. sh may be nil (no shift assigned): attendance deductions are
// then skipped entirely. manual is the pre-summed manual deduction total
// for the period.
func (Calculator) Compute(pol payroll.EffectivePolicy, sh *shift.Shift, days []attendance.DayAggregate, manual decimal.Decimal) Computation {
	c := Computation{
		BasicSalary:      pol.BasicSalary.Round(2),
		Allowances:       pol.AllowancesTotal,
		ManualDeductions: manual.Round(2),
		FixedDeductions:  pol.FixedDeductionsTotal,
		TotalWorkingDays: len(days),
	}

	for _, day := range days {
		if day.HasAttendance() {
			c.AttendedDays++
		}
	}
	// Payroll absence means no attendance at all that working day. This
	// is a different definition from performance absence (which only
	// requires a missing check-in) and the two are kept separate on
	// purpose.
	c.AbsenceDays = c.TotalWorkingDays - c.AttendedDays

	c.OvertimeHours, c.OvertimeAmount = overtime(pol, days)

	if sh != nil {
		c.AttendanceDeductionsRaw = attendanceDeductions(pol, *sh, days)
	}
	c.AttendanceBonus = attendanceBonus(pol, days, c.AttendedDays, c.TotalWorkingDays)
	c.AttendanceDeductions = c.AttendanceDeductionsRaw.Sub(c.AttendanceBonus).Round(2)

	c.LeaveDeductions = absenceDeduction(pol, c.AbsenceDays)

	c.TotalDeductions = decimal.Max(decimal.Zero, c.AttendanceDeductions).
		Add(c.LeaveDeductions).
		Add(c.ManualDeductions).
		Add(c.FixedDeductions).
		Round(2)

	gross := c.BasicSalary.Add(c.Allowances).Add(c.OvertimeAmount)
	c.NetSalary = decimal.Max(decimal.Zero, gross.Sub(c.TotalDeductions)).Round(2)

	return c
}

// overtime sums daily overtime hours and prices them. Worked hours are
// truncated to whole hours before the comparison with the contractual
// day length; 7h50m over an 8-hour day yields zero overtime. That
// truncation matches the amounts historically paid out and must not be
// "fixed" without product-owner sign-off.
func overtime(pol payroll.EffectivePolicy, days []attendance.DayAggregate) (decimal.Decimal, decimal.Decimal) {
	if !pol.Settings.OvertimeEnabled {
		return decimal.Zero, decimal.Zero
	}

	totalHours := decimal.Zero
	for _, day := range days {
		if !day.IsComplete() {
			continue
		}
		worked := wholeHours(day.CheckOut.Sub(*day.CheckIn))
		if worked <= int64(pol.WorkingHoursPerDay) {
			continue
		}
		dayHours := decimal.NewFromInt(worked - int64(pol.WorkingHoursPerDay))
		if max := pol.Settings.OvertimeMaxPerDay; max != nil && dayHours.GreaterThan(*max) {
			dayHours = *max
		}
		totalHours = totalHours.Add(dayHours)
	}

	if max := pol.Settings.OvertimeMaxPerMonth; max != nil && totalHours.GreaterThan(*max) {
		totalHours = *max
	}

	amount := totalHours.Mul(pol.HourlyRate).Mul(pol.OvertimeRate).Round(2)
	return totalHours, amount
}

func wholeHours(d time.Duration) int64 {
	return int64(d / time.Hour)
}

// attendanceDeductions prices late arrivals and early leaves against the
// hourly rate. Only minutes beyond the grace window are deductible.
func attendanceDeductions(pol payroll.EffectivePolicy, sh shift.Shift, days []attendance.DayAggregate) decimal.Decimal {
	total := decimal.Zero

	for _, day := range days {
		if pol.Settings.LateDeductionEnabled && day.IsLate && day.CheckIn != nil {
			lateMinutes := minutesBetween(sh.StartOn(day.Date), *day.CheckIn)
			deductible := lateMinutes - int64(sh.LateGraceMinutes)
			if deductible > 0 {
				total = total.Add(lateHours(pol.Settings.LateCalculationUnit, deductible).Mul(pol.HourlyRate).Round(2))
			}
		}

		if pol.Settings.EarlyLeaveDeductionEnabled && day.IsEarlyLeave && day.CheckOut != nil {
			earlyMinutes := minutesBetween(*day.CheckOut, sh.EndOn(day.Date))
			if earlyMinutes > 0 {
				hours := decimal.NewFromInt(earlyMinutes).Div(sixty)
				total = total.Add(hours.Mul(pol.HourlyRate).Round(2))
			}
		}
	}

	return total.Round(2)
}

// lateHours converts deductible minutes to hours: whole hours rounded up
// when the company charges per hour, exact fractional hours otherwise.
func lateHours(unit payroll.CalculationUnit, minutes int64) decimal.Decimal {
	if unit == payroll.CalculationUnitHour {
		return decimal.NewFromInt((minutes + 59) / 60)
	}
	return decimal.NewFromInt(minutes).Div(sixty)
}

func minutesBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / time.Minute)
}

// attendanceBonus evaluates the configured monthly condition and values
// the bonus when it holds.
func attendanceBonus(pol payroll.EffectivePolicy, days []attendance.DayAggregate, attendedDays, totalWorkingDays int) decimal.Decimal {
	s := pol.Settings
	if !s.AttendanceBonusEnabled || totalWorkingDays == 0 {
		return decimal.Zero
	}

	perfectDays := 0
	lateDays := 0
	for _, day := range days {
		if day.IsPerfect {
			perfectDays++
		}
		if day.IsLate {
			lateDays++
		}
	}

	satisfied := false
	switch s.AttendanceBonusCondition {
	case payroll.BonusConditionPerfectAttendance:
		satisfied = perfectDays == totalWorkingDays
	case payroll.BonusConditionNoLate:
		satisfied = lateDays == 0 && attendedDays == totalWorkingDays
	case payroll.BonusConditionNoAbsence:
		satisfied = attendedDays == totalWorkingDays
	case payroll.BonusConditionCustomDays:
		satisfied = attendedDays >= s.AttendanceBonusMinDays
	}
	if !satisfied {
		return decimal.Zero
	}

	switch s.AttendanceBonusType {
	case payroll.BonusTypeFixedAmount:
		return s.AttendanceBonusAmount.Round(2)
	case payroll.BonusTypePercentage:
		return pol.BasicSalary.Mul(s.AttendanceBonusAmount).Div(oneHundred).Round(2)
	case payroll.BonusTypePerDay:
		return s.AttendanceBonusAmount.Mul(decimal.NewFromInt(int64(attendedDays))).Round(2)
	}
	return decimal.Zero
}

// absenceDeduction charges missed working days at the daily rate, either
// in full or as a configured percentage of it.
func absenceDeduction(pol payroll.EffectivePolicy, absenceDays int) decimal.Decimal {
	s := pol.Settings
	if !s.AbsenceDeductionEnabled || absenceDays == 0 {
		return decimal.Zero
	}

	dailyRate := pol.DailyRate()
	daysDec := decimal.NewFromInt(int64(absenceDays))

	switch s.AbsenceDeductionType {
	case payroll.AbsenceDeductionPercentage:
		perDay := dailyRate.Mul(s.AbsenceDeductionPercentage).Div(oneHundred).Round(2)
		return daysDec.Mul(perDay).Round(2)
	default: // full_day
		return daysDec.Mul(dailyRate).Round(2)
	}
}

// BuildNotes renders the human-readable breakdown stored on the entry.
func BuildNotes(c Computation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "basic %s", c.BasicSalary)
	if !c.Allowances.IsZero() {
		fmt.Fprintf(&b, ", allowances %s", c.Allowances)
	}
	if !c.OvertimeAmount.IsZero() {
		fmt.Fprintf(&b, ", overtime %s (%sh)", c.OvertimeAmount, c.OvertimeHours)
	}
	if !c.AttendanceDeductionsRaw.IsZero() {
		fmt.Fprintf(&b, ", attendance penalty %s", c.AttendanceDeductionsRaw)
	}
	if !c.AttendanceBonus.IsZero() {
		fmt.Fprintf(&b, ", attendance bonus %s", c.AttendanceBonus)
	}
	if !c.LeaveDeductions.IsZero() {
		fmt.Fprintf(&b, ", absence deduction %s (%d days)", c.LeaveDeductions, c.AbsenceDays)
	}
	if !c.ManualDeductions.IsZero() {
		fmt.Fprintf(&b, ", manual deductions %s", c.ManualDeductions)
	}
	if !c.FixedDeductions.IsZero() {
		fmt.Fprintf(&b, ", fixed deductions %s", c.FixedDeductions)
	}
	fmt.Fprintf(&b, ", net %s", c.NetSalary)
	return b.String()
}
