package performance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	attendanceService "github.com/workpulse/payroll-engine-go/internal/service/attendance"
)

type Service struct {
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	scoreRepo    performance.ScoreRepository
	aggregator   *attendanceService.Aggregator
}

func NewService(
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	scoreRepo performance.ScoreRepository,
	aggregator *attendanceService.Aggregator,
) *Service {
	return &Service{
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		scoreRepo:    scoreRepo,
		aggregator:   aggregator,
	}
}

// CalculateForEmployee recomputes and upserts one employee's score for
// one month. It is a pure function of that month's attendance: rerunning
// with unchanged punches persists identical fields.
func (s *Service) CalculateForEmployee(ctx context.Context, companyID, employeeID string, period validator.Period) (performance.Score, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return performance.Score{}, err
	}

	score := performance.Score{
		CompanyID:  companyID,
		EmployeeID: emp.ID,
		Period:     period,
	}

	sh, err := s.shiftRepo.GetForEmployee(ctx, emp.ID, companyID)
	if err != nil {
		if !errors.Is(err, shift.ErrShiftNotFound) {
			return performance.Score{}, fmt.Errorf("failed to get shift for employee %s: %w", emp.ID, err)
		}
		// No shift assigned: the month cannot be evaluated against a
		// working window, so the score degrades to the defined default
		// rather than erroring.
		score.Score = decimal.Zero
		score.Status = performance.StatusPoor
		return s.scoreRepo.Upsert(ctx, score)
	}

	days, err := s.aggregator.AggregateRange(ctx, emp.ID, &sh, period.Start(), period.End().AddDate(0, 0, -1))
	if err != nil {
		return performance.Score{}, err
	}

	tally := TallyDays(days)
	value, status := ComputeScore(tally)

	score.WorkingDays = tally.WorkingDays
	score.LateCount = tally.LateCount
	score.EarlyLeaveCount = tally.EarlyLeaveCount
	score.AbsenceDays = tally.AbsenceDays
	score.PerfectDays = tally.PerfectDays
	score.Score = value
	score.Status = status

	return s.scoreRepo.Upsert(ctx, score)
}

// CalculateForCompany recomputes scores for every active employee of the
// company for one month.
func (s *Service) CalculateForCompany(ctx context.Context, companyID string, period validator.Period) ([]performance.Score, error) {
	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	scores := make([]performance.Score, 0, len(employees))
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := s.CalculateForEmployee(ctx, companyID, emp.ID, period)
		if err != nil {
			return nil, fmt.Errorf("failed to score employee %s for %s: %w", emp.ID, period, err)
		}
		scores = append(scores, score)
	}

	slog.Info("performance scores calculated",
		"company_id", companyID,
		"period", period.String(),
		"employees", len(scores))

	return scores, nil
}

// GetScore returns the stored score for one employee and month.
func (s *Service) GetScore(ctx context.Context, companyID, employeeID string, period validator.Period) (performance.Score, error) {
	return s.scoreRepo.GetByEmployeePeriod(ctx, employeeID, companyID, period)
}

// ListScores returns every stored score for a company and month.
func (s *Service) ListScores(ctx context.Context, companyID string, period validator.Period) ([]performance.Score, error) {
	return s.scoreRepo.ListByCompanyPeriod(ctx, companyID, period)
}
