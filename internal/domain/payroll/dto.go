package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

// ========== CYCLE DTOs ==========

type GenerateCycleRequest struct {
	Month string `json:"month"` // "YYYY-MM"
}

// Validate rejects malformed month identifiers before any computation or
// transaction begins.
func (r *GenerateCycleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "is required"})
	} else if _, err := validator.ParsePeriod(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed month. Call Validate first.
func (r *GenerateCycleRequest) Period() validator.Period {
	p, _ := validator.ParsePeriod(r.Month)
	return p
}

type EntryResponse struct {
	ID                   string          `json:"id"`
	EmployeeID           string          `json:"employee_id"`
	EmployeeName         string          `json:"employee_name,omitempty"`
	EmployeeCode         string          `json:"employee_code,omitempty"`
	BasicSalary          decimal.Decimal `json:"basic_salary"`
	TotalAllowances      decimal.Decimal `json:"total_allowances"`
	TotalOvertimeAmount  decimal.Decimal `json:"total_overtime_amount"`
	AttendanceDeductions decimal.Decimal `json:"attendance_deductions"`
	LeaveDeductions      decimal.Decimal `json:"leave_deductions"`
	ManualDeductions     decimal.Decimal `json:"manual_deductions"`
	FixedDeductions      decimal.Decimal `json:"fixed_deductions"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	NetSalary            decimal.Decimal `json:"net_salary"`
	Status               string          `json:"status"`
	Notes                *string         `json:"notes,omitempty"`
}

// CycleSummaryResponse is returned by cycle generation and by the
// summary lookup.
type CycleSummaryResponse struct {
	CycleID            string          `json:"cycle_id"`
	CompanyID          string          `json:"company_id"`
	Month              string          `json:"month"`
	Status             string          `json:"status"`
	TotalEmployees     int             `json:"total_employees"`
	ProcessedEmployees int             `json:"processed_employees"`
	SkippedEmployees   int             `json:"skipped_employees"`
	TotalNetSalary     decimal.Decimal `json:"total_net_salary"`
	Entries            []EntryResponse `json:"entries"`
}

func MapEntryResponse(e Entry) EntryResponse {
	name := ""
	code := ""
	if e.EmployeeName != nil {
		name = *e.EmployeeName
	}
	if e.EmployeeCode != nil {
		code = *e.EmployeeCode
	}

	return EntryResponse{
		ID:                   e.ID,
		EmployeeID:           e.EmployeeID,
		EmployeeName:         name,
		EmployeeCode:         code,
		BasicSalary:          e.BasicSalary,
		TotalAllowances:      e.TotalAllowances,
		TotalOvertimeAmount:  e.TotalOvertimeAmount,
		AttendanceDeductions: e.AttendanceDeductions,
		LeaveDeductions:      e.LeaveDeductions,
		ManualDeductions:     e.ManualDeductions,
		FixedDeductions:      e.FixedDeductions,
		TotalDeductions:      e.TotalDeductions,
		NetSalary:            e.NetSalary,
		Status:               string(e.Status),
		Notes:                e.Notes,
	}
}

func MapEntryResponses(entries []Entry) []EntryResponse {
	result := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, MapEntryResponse(e))
	}
	return result
}
