package policy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
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

func intPtr(i int) *int { return &i }

func TestBuildPolicy_DerivesHourlyRate(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{
		ID:          "emp-1",
		BasicSalary: decPtr("2600"),
	}

	pol, err := BuildPolicy(emp, payroll.Settings{}, false)
	require.NoError(t, err)

	// 2600 / (26 days x 8 hours) = 12.50
	assert.True(t, pol.HourlyRate.Equal(dec("12.5")), "got %s", pol.HourlyRate)
	assert.Equal(t, 8, pol.WorkingHoursPerDay)
	assert.Equal(t, 26, pol.WorkingDaysPerMonth)
	assert.True(t, pol.DailyRate().Equal(dec("100")), "got %s", pol.DailyRate())
}

func TestBuildPolicy_ExplicitOverridesWin(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{
		ID:                  "emp-1",
		BasicSalary:         decPtr("3000"),
		HourlyRate:          decPtr("20"),
		WorkingHoursPerDay:  intPtr(7),
		WorkingDaysPerMonth: intPtr(22),
	}

	pol, err := BuildPolicy(emp, payroll.Settings{}, false)
	require.NoError(t, err)

	assert.True(t, pol.HourlyRate.Equal(dec("20")))
	assert.Equal(t, 7, pol.WorkingHoursPerDay)
	assert.Equal(t, 22, pol.WorkingDaysPerMonth)
}

func TestBuildPolicy_NoBasicSalaryIsIneligible(t *testing.T) {
	t.Parallel()

	_, err := BuildPolicy(employee.Employee{ID: "emp-1"}, payroll.Settings{}, false)
	assert.ErrorIs(t, err, employee.ErrNoBasicSalary)

	zero := decimal.Zero
	_, err = BuildPolicy(employee.Employee{ID: "emp-1", BasicSalary: &zero}, payroll.Settings{}, false)
	assert.ErrorIs(t, err, employee.ErrNoBasicSalary)
}

func TestBuildPolicy_SumsAllowancesAndFixedDeductions(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{
		ID:          "emp-1",
		BasicSalary: decPtr("2600"),
		AllowancesFixed: []employee.Allowance{
			{Type: "transport", Amount: dec("150.50")},
			{Type: "meal", Amount: dec("99.50")},
		},
		DeductionsFixed: []employee.FixedDeduction{
			{Type: "insurance", Reason: "health plan", Amount: dec("80")},
		},
	}

	pol, err := BuildPolicy(emp, payroll.Settings{}, false)
	require.NoError(t, err)

	assert.True(t, pol.AllowancesTotal.Equal(dec("250")), "got %s", pol.AllowancesTotal)
	assert.True(t, pol.FixedDeductionsTotal.Equal(dec("80")))
}

func TestBuildPolicy_OvertimeRateSource(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{
		ID:           "emp-1",
		BasicSalary:  decPtr("2600"),
		OvertimeRate: decPtr("2"),
	}

	// Settings row present: its rate wins even over the profile's.
	withSettings, err := BuildPolicy(emp, payroll.Settings{OvertimeNormalRate: dec("1.25")}, true)
	require.NoError(t, err)
	assert.True(t, withSettings.OvertimeRate.Equal(dec("1.25")))

	// No settings row: fall back to the employee profile.
	withoutSettings, err := BuildPolicy(emp, payroll.Settings{}, false)
	require.NoError(t, err)
	assert.True(t, withoutSettings.OvertimeRate.Equal(dec("2")))
}

func TestBuildPolicy_MissingSettingsDisablesEverything(t *testing.T) {
	t.Parallel()

	emp := employee.Employee{ID: "emp-1", BasicSalary: decPtr("2600")}

	pol, err := BuildPolicy(emp, payroll.Settings{CompanyID: "co-1"}, false)
	require.NoError(t, err)

	assert.False(t, pol.Settings.OvertimeEnabled)
	assert.False(t, pol.Settings.LateDeductionEnabled)
	assert.False(t, pol.Settings.EarlyLeaveDeductionEnabled)
	assert.False(t, pol.Settings.AbsenceDeductionEnabled)
	assert.False(t, pol.Settings.AttendanceBonusEnabled)
}
