package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Allowance is a fixed recurring allowance assigned to an employee.
type Allowance struct {
	Type   string
	Amount decimal.Decimal
}

// FixedDeduction is a fixed recurring deduction assigned to an employee.
type FixedDeduction struct {
	Type   string
	Reason string
	Amount decimal.Decimal
}

// Employee carries the payroll profile fields this engine reads. An
// employee without BasicSalary is ineligible for payroll and is skipped
// by cycle generation, never treated as a failure.
type Employee struct {
	ID                  string
	CompanyID           string
	EmployeeCode        string
	FullName            string
	EmploymentStatus    EmploymentStatus
	BasicSalary         *decimal.Decimal
	HourlyRate          *decimal.Decimal
	OvertimeRate        *decimal.Decimal
	WorkingHoursPerDay  *int
	WorkingDaysPerMonth *int
	AllowancesFixed     []Allowance
	DeductionsFixed     []FixedDeduction
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}
