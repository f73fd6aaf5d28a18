package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrNoBasicSalary marks an employee as ineligible for payroll. It is
	// a skip signal, not a failure: callers exclude the employee and keep
	// going.
	ErrNoBasicSalary = errors.New("employee has no basic salary configured")
)
