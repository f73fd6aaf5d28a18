package payroll

import "errors"

var (
	ErrSettingsNotFound = errors.New("payroll settings not found")
	ErrCycleNotFound    = errors.New("payroll cycle not found")

	// ErrCycleAlreadyFinalized rejects generate() against a cycle that
	// left draft. The caller must regenerate (delete and re-create)
	// explicitly.
	ErrCycleAlreadyFinalized = errors.New("payroll cycle already finalized for this period")

	// ErrCycleAlreadyExists surfaces the (company, period) uniqueness
	// constraint when two generations race.
	ErrCycleAlreadyExists = errors.New("payroll cycle already exists for this period")

	ErrCycleAlreadyPaid = errors.New("payroll cycle already paid, cannot regenerate")
	ErrEntryNotFound    = errors.New("payroll entry not found")
	ErrEntryAlreadyPaid = errors.New("payroll entry already paid, cannot modify")
	ErrInvalidPeriod    = errors.New("invalid payroll period")
)
