package attendance

import "time"

type PunchType string

const (
	PunchTypeIn  PunchType = "in"
	PunchTypeOut PunchType = "out"
)

type PunchMethod string

const (
	PunchMethodManual PunchMethod = "manual"
	PunchMethodQR     PunchMethod = "qr"
	PunchMethodIP     PunchMethod = "ip"
)

// Punch is an immutable clock event recorded by the check-in flow. This
// engine only ever reads punches; creation and administrative deletion
// happen elsewhere.
type Punch struct {
	ID         string
	EmployeeID string
	CompanyID  string
	Type       PunchType
	Timestamp  time.Time
	Method     PunchMethod
	CreatedAt  time.Time
}
