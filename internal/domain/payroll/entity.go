package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

// AbsenceDeductionType selects how an absent working day is charged.
type AbsenceDeductionType string

const (
	AbsenceDeductionFullDay    AbsenceDeductionType = "full_day"
	AbsenceDeductionPercentage AbsenceDeductionType = "percentage"
)

// CalculationUnit selects how deductible late minutes convert to hours.
type CalculationUnit string

const (
	// CalculationUnitHour rounds deductible time up to whole hours.
	CalculationUnitHour CalculationUnit = "hour"
	// CalculationUnitMinute charges exact fractional hours.
	CalculationUnitMinute CalculationUnit = "minute"
)

// BonusType selects how a granted attendance bonus is valued.
type BonusType string

const (
	BonusTypeFixedAmount BonusType = "fixed_amount"
	BonusTypePercentage  BonusType = "percentage"
	BonusTypePerDay      BonusType = "per_day"
)

// BonusCondition is the monthly condition an employee must satisfy to
// receive the attendance bonus.
type BonusCondition string

const (
	BonusConditionPerfectAttendance BonusCondition = "perfect_attendance"
	BonusConditionNoLate            BonusCondition = "no_late"
	BonusConditionNoAbsence         BonusCondition = "no_absence"
	BonusConditionCustomDays        BonusCondition = "custom_days"
)

// Settings is the per-company payroll policy. Exactly one row exists per
// company; when the row is absent the zero value applies, which disables
// every deduction and bonus feature.
type Settings struct {
	ID        string
	CompanyID string

	LateDeductionEnabled bool
	LateCalculationUnit  CalculationUnit

	EarlyLeaveDeductionEnabled bool

	AbsenceDeductionEnabled    bool
	AbsenceDeductionType       AbsenceDeductionType
	AbsenceDeductionPercentage decimal.Decimal

	OvertimeEnabled          bool
	OvertimeApprovalRequired bool
	OvertimeNormalRate       decimal.Decimal
	OvertimeMaxPerDay        *decimal.Decimal // hours
	OvertimeMaxPerMonth      *decimal.Decimal // hours

	AttendanceBonusEnabled   bool
	AttendanceBonusType      BonusType
	AttendanceBonusAmount    decimal.Decimal
	AttendanceBonusCondition BonusCondition
	AttendanceBonusMinDays   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectivePolicy is the fully-resolved numeric policy for one employee
// in one period: company settings merged with per-employee overrides and
// documented defaults. Downstream calculators read it without any
// null-coalescing of their own.
type EffectivePolicy struct {
	BasicSalary          decimal.Decimal
	HourlyRate           decimal.Decimal
	OvertimeRate         decimal.Decimal
	WorkingHoursPerDay   int
	WorkingDaysPerMonth  int
	AllowancesTotal      decimal.Decimal
	FixedDeductionsTotal decimal.Decimal
	Settings             Settings
}

// DailyRate is the basic salary spread over the contractual working days.
func (p EffectivePolicy) DailyRate() decimal.Decimal {
	if p.WorkingDaysPerMonth == 0 {
		return decimal.Zero
	}
	return p.BasicSalary.DivRound(decimal.NewFromInt(int64(p.WorkingDaysPerMonth)), 2)
}

type CycleStatus string

const (
	CycleStatusDraft     CycleStatus = "draft"
	CycleStatusGenerated CycleStatus = "generated"
	CycleStatusApproved  CycleStatus = "approved"
	CycleStatusPaid      CycleStatus = "paid"
)

// Cycle is one payroll run for one company for one calendar month.
type Cycle struct {
	ID          string
	CompanyID   string
	Period      validator.Period
	Status      CycleStatus
	GeneratedAt *time.Time
	PaidAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusPaid     EntryStatus = "paid"
)

// Entry is one employee's computed payroll line within a cycle.
//
// AttendanceDeductions is stored signed: the attendance bonus is
// subtracted from the raw late/early-leave penalty and the result may go
// negative when the bonus wins. It is floored at zero only when folded
// into TotalDeductions, keeping the audit trail intact.
type Entry struct {
	ID         string
	CycleID    string
	CompanyID  string
	EmployeeID string

	BasicSalary          decimal.Decimal
	TotalAllowances      decimal.Decimal
	TotalOvertimeAmount  decimal.Decimal
	AttendanceDeductions decimal.Decimal // signed
	LeaveDeductions      decimal.Decimal
	ManualDeductions     decimal.Decimal
	FixedDeductions      decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetSalary            decimal.Decimal

	Status    EntryStatus
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// ManualDeduction is an ad hoc deduction dated within a period. Read-only
// input to cycle generation; summed over [period start, period end).
type ManualDeduction struct {
	ID         string
	CompanyID  string
	EmployeeID string
	Amount     decimal.Decimal
	Reason     string
	Date       time.Time
	CreatedAt  time.Time
}
