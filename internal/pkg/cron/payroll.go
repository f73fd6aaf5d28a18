package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	payrollService "github.com/workpulse/payroll-engine-go/internal/service/payroll"
	performanceService "github.com/workpulse/payroll-engine-go/internal/service/performance"
)

// PayrollJobs runs the monthly automatic triggers: performance scores
// and a draft payroll cycle for the previous month, per company.
type PayrollJobs struct {
	performanceSvc *performanceService.Service
	payrollSvc     *payrollService.Service
	db             *database.DB
}

func NewPayrollJobs(performanceSvc *performanceService.Service, payrollSvc *payrollService.Service, db *database.DB) *PayrollJobs {
	return &PayrollJobs{
		performanceSvc: performanceSvc,
		payrollSvc:     payrollSvc,
		db:             db,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monthly_performance_scores", 1*time.Hour, j.CalculateMonthlyPerformance)
	scheduler.AddJob("monthly_payroll_generation", 1*time.Hour, j.GenerateMonthlyPayroll)
}

// CalculateMonthlyPerformance scores the previous month for every
// company. Gated to the 1st of the month, 02:00-02:59 UTC.
func (j *PayrollJobs) CalculateMonthlyPerformance(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Day() != 1 || now.Hour() != 2 {
		return nil
	}

	period := currentPeriod(now).Previous()
	slog.Info("Cron: Starting monthly performance scoring", "period", period.String())

	companyIDs, err := j.activeCompanyIDs(ctx)
	if err != nil {
		return err
	}

	for _, companyID := range companyIDs {
		if _, err := j.performanceSvc.CalculateForCompany(ctx, companyID, period); err != nil {
			slog.Error("Cron: Failed to score company", "company_id", companyID, "period", period.String(), "error", err)
		}
	}

	return nil
}

// GenerateMonthlyPayroll generates the previous month's payroll cycle
// for every company. Gated to the 1st of the month, 03:00-03:59 UTC so
// it follows the performance run. Companies whose cycle was already
// generated by hand are skipped, not failed.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	now := time.Now().UTC()
	if now.Day() != 1 || now.Hour() != 3 {
		return nil
	}

	period := currentPeriod(now).Previous()
	slog.Info("Cron: Starting monthly payroll generation", "period", period.String())

	companyIDs, err := j.activeCompanyIDs(ctx)
	if err != nil {
		return err
	}

	generated := 0
	for _, companyID := range companyIDs {
		req := payroll.GenerateCycleRequest{Month: period.String()}
		_, err := j.payrollSvc.Generate(ctx, companyID, req)
		switch {
		case err == nil:
			generated++
		case errors.Is(err, payroll.ErrCycleAlreadyFinalized), errors.Is(err, payroll.ErrCycleAlreadyExists):
			slog.Info("Cron: Payroll cycle already generated", "company_id", companyID, "period", period.String())
		default:
			slog.Error("Cron: Failed to generate payroll", "company_id", companyID, "period", period.String(), "error", err)
		}
	}

	slog.Info("Cron: Monthly payroll generation finished", "period", period.String(), "generated", generated)
	return nil
}

func (j *PayrollJobs) activeCompanyIDs(ctx context.Context) ([]string, error) {
	rows, err := j.db.Pool.Query(ctx, `
		SELECT DISTINCT company_id FROM employees
		WHERE employment_status = 'active' AND deleted_at IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get companies: %w", err)
	}
	defer rows.Close()

	var companyIDs []string
	for rows.Next() {
		var companyID string
		if err := rows.Scan(&companyID); err != nil {
			continue
		}
		companyIDs = append(companyIDs, companyID)
	}

	return companyIDs, nil
}

func currentPeriod(now time.Time) validator.Period {
	return validator.Period{Year: now.Year(), Month: now.Month()}
}
