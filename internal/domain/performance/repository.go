package performance

import (
	"context"

	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

type ScoreRepository interface {
	// Upsert creates or overwrites the score keyed by
	// (company, employee, period).
	Upsert(ctx context.Context, score Score) (Score, error)
	GetByEmployeePeriod(ctx context.Context, employeeID, companyID string, period validator.Period) (Score, error)
	ListByCompanyPeriod(ctx context.Context, companyID string, period validator.Period) ([]Score, error)
}
