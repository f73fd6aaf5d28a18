package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
)

// Documented defaults applied when the employee profile leaves the
// contractual schedule fields empty.
const (
	DefaultWorkingHoursPerDay  = 8
	DefaultWorkingDaysPerMonth = 26
)

// Resolver merges company payroll settings with per-employee overrides
// into one EffectivePolicy per employee per run.
type Resolver struct {
	payrollRepo payroll.PayrollRepository
}

func NewResolver(payrollRepo payroll.PayrollRepository) *Resolver {
	return &Resolver{payrollRepo: payrollRepo}
}

// Resolve produces the effective policy for one employee. An employee
// without basic salary yields employee.ErrNoBasicSalary: the caller
// skips, it is not a failure. A company without a settings row gets an
// all-disabled Settings stub so callers never nil-check.
func (r *Resolver) Resolve(ctx context.Context, emp employee.Employee) (payroll.EffectivePolicy, error) {
	settings, err := r.payrollRepo.GetSettings(ctx, emp.CompanyID)
	settingsFound := true
	if err != nil {
		if !errors.Is(err, payroll.ErrSettingsNotFound) {
			return payroll.EffectivePolicy{}, fmt.Errorf("failed to get payroll settings: %w", err)
		}
		settings = payroll.Settings{CompanyID: emp.CompanyID}
		settingsFound = false
	}

	return BuildPolicy(emp, settings, settingsFound)
}

// BuildPolicy is the pure merge of employee profile and company settings.
func BuildPolicy(emp employee.Employee, settings payroll.Settings, settingsFound bool) (payroll.EffectivePolicy, error) {
	if emp.BasicSalary == nil || emp.BasicSalary.IsZero() {
		return payroll.EffectivePolicy{}, employee.ErrNoBasicSalary
	}

	workingHours := DefaultWorkingHoursPerDay
	if emp.WorkingHoursPerDay != nil && *emp.WorkingHoursPerDay > 0 {
		workingHours = *emp.WorkingHoursPerDay
	}
	workingDays := DefaultWorkingDaysPerMonth
	if emp.WorkingDaysPerMonth != nil && *emp.WorkingDaysPerMonth > 0 {
		workingDays = *emp.WorkingDaysPerMonth
	}

	hourlyRate := decimal.Zero
	if emp.HourlyRate != nil {
		hourlyRate = *emp.HourlyRate
	} else {
		monthlyHours := decimal.NewFromInt(int64(workingDays * workingHours))
		hourlyRate = emp.BasicSalary.DivRound(monthlyHours, 2)
	}
	if hourlyRate.IsNegative() {
		return payroll.EffectivePolicy{}, fmt.Errorf("resolved hourly rate is negative for employee %s", emp.ID)
	}

	// Overtime rate comes from settings when a settings row exists,
	// otherwise from the employee profile.
	overtimeRate := decimal.Zero
	if settingsFound {
		overtimeRate = settings.OvertimeNormalRate
	} else if emp.OvertimeRate != nil {
		overtimeRate = *emp.OvertimeRate
	}

	allowances := decimal.Zero
	for _, a := range emp.AllowancesFixed {
		allowances = allowances.Add(a.Amount)
	}
	fixedDeductions := decimal.Zero
	for _, d := range emp.DeductionsFixed {
		fixedDeductions = fixedDeductions.Add(d.Amount)
	}

	return payroll.EffectivePolicy{
		BasicSalary:          *emp.BasicSalary,
		HourlyRate:           hourlyRate,
		OvertimeRate:         overtimeRate,
		WorkingHoursPerDay:   workingHours,
		WorkingDaysPerMonth:  workingDays,
		AllowancesTotal:      allowances.Round(2),
		FixedDeductionsTotal: fixedDeductions.Round(2),
		Settings:             settings,
	}, nil
}
