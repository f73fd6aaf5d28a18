package performance

import (
	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

type CalculateRequest struct {
	Month      string `json:"month"`                 // "YYYY-MM"
	EmployeeID string `json:"employee_id,omitempty"` // empty = every active employee
}

func (r *CalculateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "is required"})
	} else if _, err := validator.ParsePeriod(r.Month); err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be in YYYY-MM format"})
	}
	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Period returns the parsed month. Call Validate first.
func (r *CalculateRequest) Period() validator.Period {
	p, _ := validator.ParsePeriod(r.Month)
	return p
}

type ScoreResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	EmployeeID      string          `json:"employee_id"`
	Month           string          `json:"month"`
	WorkingDays     int             `json:"working_days"`
	LateCount       int             `json:"late_count"`
	EarlyLeaveCount int             `json:"early_leave_count"`
	AbsenceDays     int             `json:"absence_days"`
	PerfectDays     int             `json:"perfect_days"`
	Score           decimal.Decimal `json:"score"`
	Status          string          `json:"status"`
}

func MapScoreResponse(s Score) ScoreResponse {
	return ScoreResponse{
		ID:              s.ID,
		CompanyID:       s.CompanyID,
		EmployeeID:      s.EmployeeID,
		Month:           s.Period.String(),
		WorkingDays:     s.WorkingDays,
		LateCount:       s.LateCount,
		EarlyLeaveCount: s.EarlyLeaveCount,
		AbsenceDays:     s.AbsenceDays,
		PerfectDays:     s.PerfectDays,
		Score:           s.Score,
		Status:          string(s.Status),
	}
}

func MapScoreResponses(scores []Score) []ScoreResponse {
	result := make([]ScoreResponse, 0, len(scores))
	for _, s := range scores {
		result = append(result, MapScoreResponse(s))
	}
	return result
}
