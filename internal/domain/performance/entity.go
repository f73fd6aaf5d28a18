package performance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusFair      Status = "fair"
	StatusPoor      Status = "poor"
)

// Score is one employee's attendance performance for one month. Upserted
// on (company, employee, period): recomputation overwrites, never
// duplicates.
type Score struct {
	ID              string
	CompanyID       string
	EmployeeID      string
	Period          validator.Period
	WorkingDays     int
	LateCount       int
	EarlyLeaveCount int
	AbsenceDays     int
	PerfectDays     int
	Score           decimal.Decimal
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
