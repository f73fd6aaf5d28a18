package attendance

import (
	"context"
	"time"
)

// PunchRepository is the read-only view of the attendance store.
type PunchRepository interface {
	// ListForEmployee returns the employee's punches with timestamps in
	// [from, to), ordered by timestamp ascending.
	ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Punch, error)
}
