package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

// PayrollRepository defines data access for settings, cycles, entries and
// manual deductions. All methods take companyID to prevent cross-company
// data access.
type PayrollRepository interface {
	// Settings
	GetSettings(ctx context.Context, companyID string) (Settings, error)

	// Cycles
	GetCycle(ctx context.Context, companyID string, period validator.Period) (Cycle, error)
	GetCycleByID(ctx context.Context, id, companyID string) (Cycle, error)
	CreateCycle(ctx context.Context, cycle Cycle) (Cycle, error)
	MarkCycleGenerated(ctx context.Context, id, companyID string, generatedAt time.Time) error
	MarkCyclePaid(ctx context.Context, id, companyID string, paidAt time.Time) error
	// DeleteCycle removes the cycle and cascades to its entries.
	DeleteCycle(ctx context.Context, id, companyID string) error

	// Entries
	UpsertEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntryByID(ctx context.Context, id, companyID string) (Entry, error)
	ListEntries(ctx context.Context, cycleID, companyID string) ([]Entry, error)
	UpdateEntryStatus(ctx context.Context, id, companyID string, status EntryStatus) error
	CountEntriesNotInStatus(ctx context.Context, cycleID, companyID string, status EntryStatus) (int, error)

	// Manual deductions
	SumManualDeductions(ctx context.Context, employeeID, companyID string, from, to time.Time) (decimal.Decimal, error)
}
