package shift

import "context"

type ShiftRepository interface {
	// GetForEmployee resolves the shift currently assigned to the
	// employee. Returns ErrShiftNotFound when no shift is assigned.
	GetForEmployee(ctx context.Context, employeeID, companyID string) (Shift, error)
}
