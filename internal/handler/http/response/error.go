package response

import (
	"errors"
	"net/http"

	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrCycleNotFound):
		NotFound(w, "Payroll cycle not found")
	case errors.Is(err, payroll.ErrEntryNotFound):
		NotFound(w, "Payroll entry not found")
	case errors.Is(err, payroll.ErrCycleAlreadyFinalized):
		Conflict(w, "Payroll cycle already finalized, delete and regenerate to recompute")
	case errors.Is(err, payroll.ErrCycleAlreadyExists):
		Conflict(w, "Payroll cycle already exists for this month")
	case errors.Is(err, payroll.ErrCycleAlreadyPaid):
		Conflict(w, "Payroll cycle already paid")
	case errors.Is(err, payroll.ErrEntryAlreadyPaid):
		Conflict(w, "Payroll entry already paid")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Performance domain errors
	case errors.Is(err, performance.ErrScoreNotFound):
		NotFound(w, "Performance score not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
