package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	attendanceService "github.com/workpulse/payroll-engine-go/internal/service/attendance"
	policyService "github.com/workpulse/payroll-engine-go/internal/service/policy"
)

// defaultWorkers bounds the parallel per-employee compute phase. Reads go
// through the pool; the value stays well under the pool's connection cap.
const defaultWorkers = 8

// Service orchestrates cycle generation: it sequences the policy
// resolver, attendance aggregator and calculator over every active
// employee of a company and persists the cycle atomically.
type Service struct {
	tx           database.TxManager
	employeeRepo employee.EmployeeRepository
	shiftRepo    shift.ShiftRepository
	payrollRepo  payroll.PayrollRepository
	resolver     *policyService.Resolver
	aggregator   *attendanceService.Aggregator
	calculator   Calculator
	workers      int
}

func NewService(
	tx database.TxManager,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	payrollRepo payroll.PayrollRepository,
	resolver *policyService.Resolver,
	aggregator *attendanceService.Aggregator,
) *Service {
	return &Service{
		tx:           tx,
		employeeRepo: employeeRepo,
		shiftRepo:    shiftRepo,
		payrollRepo:  payrollRepo,
		resolver:     resolver,
		aggregator:   aggregator,
		workers:      defaultWorkers,
	}
}

// computed is the per-employee result of the parallel compute phase.
// skipped employees produce no entry.
type computed struct {
	employee employee.Employee
	result   Computation
	skipped  bool
}

// Generate runs payroll for one company and month.
//
// An existing draft cycle for the key is reused (rerun-safe); a cycle in
// any later state is refused with ErrCycleAlreadyFinalized and must be
// regenerated explicitly. Employees without a basic salary are excluded
// from the run and reported as skipped, never as failures. All writes
// happen in one transaction: an error for any employee persists nothing.
func (s *Service) Generate(ctx context.Context, companyID string, req payroll.GenerateCycleRequest) (payroll.CycleSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleSummaryResponse{}, err
	}
	period := req.Period()
	if period.Start().After(time.Now()) {
		return payroll.CycleSummaryResponse{}, payroll.ErrInvalidPeriod
	}

	existing, err := s.payrollRepo.GetCycle(ctx, companyID, period)
	switch {
	case err == nil:
		if existing.Status != payroll.CycleStatusDraft {
			return payroll.CycleSummaryResponse{}, payroll.ErrCycleAlreadyFinalized
		}
	case errors.Is(err, payroll.ErrCycleNotFound):
		existing = payroll.Cycle{}
	default:
		return payroll.CycleSummaryResponse{}, fmt.Errorf("failed to get cycle: %w", err)
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.CycleSummaryResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	results, err := s.computeAll(ctx, companyID, period, employees)
	if err != nil {
		return payroll.CycleSummaryResponse{}, err
	}

	summary := payroll.CycleSummaryResponse{
		CompanyID:      companyID,
		Month:          period.String(),
		Status:         string(payroll.CycleStatusGenerated),
		TotalEmployees: len(employees),
		TotalNetSalary: decimal.Zero,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		cycle := existing
		if cycle.ID == "" {
			created, err := s.payrollRepo.CreateCycle(ctx, payroll.Cycle{
				CompanyID: companyID,
				Period:    period,
				Status:    payroll.CycleStatusDraft,
			})
			if err != nil {
				return fmt.Errorf("failed to create cycle: %w", err)
			}
			cycle = created
		}
		summary.CycleID = cycle.ID

		for _, r := range results {
			if r.skipped {
				summary.SkippedEmployees++
				continue
			}

			entry, err := s.upsertEntry(ctx, cycle, r)
			if err != nil {
				return fmt.Errorf("failed to upsert entry for employee %s in %s: %w", r.employee.ID, period, err)
			}
			summary.ProcessedEmployees++
			summary.TotalNetSalary = summary.TotalNetSalary.Add(entry.NetSalary)
			summary.Entries = append(summary.Entries, payroll.MapEntryResponse(entry))
		}

		if err := s.payrollRepo.MarkCycleGenerated(ctx, cycle.ID, companyID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark cycle generated: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.CycleSummaryResponse{}, err
	}

	slog.Info("payroll cycle generated",
		"company_id", companyID,
		"period", period.String(),
		"cycle_id", summary.CycleID,
		"processed", summary.ProcessedEmployees,
		"skipped", summary.SkippedEmployees,
		"total_net", summary.TotalNetSalary)

	return summary, nil
}

// computeAll runs the read-only per-employee calculation in a bounded
// worker pool. No employee's computation touches another's state, so the
// only ordering requirement is the stable results slice.
func (s *Service) computeAll(ctx context.Context, companyID string, period validator.Period, employees []employee.Employee) ([]computed, error) {
	results := make([]computed, len(employees))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range employees {
		i := i
		g.Go(func() error {
			r, err := s.computeOne(ctx, companyID, period, employees[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) computeOne(ctx context.Context, companyID string, period validator.Period, emp employee.Employee) (computed, error) {
	pol, err := s.resolver.Resolve(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrNoBasicSalary) {
			return computed{employee: emp, skipped: true}, nil
		}
		return computed{}, fmt.Errorf("failed to resolve policy for employee %s: %w", emp.ID, err)
	}

	var empShift *shift.Shift
	sh, err := s.shiftRepo.GetForEmployee(ctx, emp.ID, companyID)
	if err != nil {
		if !errors.Is(err, shift.ErrShiftNotFound) {
			return computed{}, fmt.Errorf("failed to get shift for employee %s: %w", emp.ID, err)
		}
	} else {
		empShift = &sh
	}

	days, err := s.aggregator.AggregateRange(ctx, emp.ID, empShift, period.Start(), period.End().AddDate(0, 0, -1))
	if err != nil {
		return computed{}, err
	}

	manual, err := s.payrollRepo.SumManualDeductions(ctx, emp.ID, companyID, period.Start(), period.End())
	if err != nil {
		return computed{}, fmt.Errorf("failed to sum manual deductions for employee %s: %w", emp.ID, err)
	}

	return computed{
		employee: emp,
		result:   s.calculator.Compute(pol, empShift, days, manual),
	}, nil
}

func (s *Service) upsertEntry(ctx context.Context, cycle payroll.Cycle, r computed) (payroll.Entry, error) {
	notes := BuildNotes(r.result)
	entry, err := s.payrollRepo.UpsertEntry(ctx, payroll.Entry{
		CycleID:              cycle.ID,
		CompanyID:            cycle.CompanyID,
		EmployeeID:           r.employee.ID,
		BasicSalary:          r.result.BasicSalary,
		TotalAllowances:      r.result.Allowances,
		TotalOvertimeAmount:  r.result.OvertimeAmount,
		AttendanceDeductions: r.result.AttendanceDeductions,
		LeaveDeductions:      r.result.LeaveDeductions,
		ManualDeductions:     r.result.ManualDeductions,
		FixedDeductions:      r.result.FixedDeductions,
		TotalDeductions:      r.result.TotalDeductions,
		NetSalary:            r.result.NetSalary,
		Status:               payroll.EntryStatusPending,
		Notes:                &notes,
	})
	if err != nil {
		return payroll.Entry{}, err
	}

	if entry.EmployeeName == nil {
		entry.EmployeeName = &r.employee.FullName
	}
	if entry.EmployeeCode == nil {
		entry.EmployeeCode = &r.employee.EmployeeCode
	}
	return entry, nil
}

// Regenerate deletes the month's cycle with its entries and generates it
// again: a destructive reset used after policy or attendance corrections.
// A paid cycle is immutable and is refused.
func (s *Service) Regenerate(ctx context.Context, companyID string, req payroll.GenerateCycleRequest) (payroll.CycleSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CycleSummaryResponse{}, err
	}
	period := req.Period()

	cycle, err := s.payrollRepo.GetCycle(ctx, companyID, period)
	if err != nil {
		return payroll.CycleSummaryResponse{}, err
	}
	if cycle.Status == payroll.CycleStatusPaid {
		return payroll.CycleSummaryResponse{}, payroll.ErrCycleAlreadyPaid
	}

	if err := s.payrollRepo.DeleteCycle(ctx, cycle.ID, companyID); err != nil {
		return payroll.CycleSummaryResponse{}, fmt.Errorf("failed to delete cycle %s: %w", cycle.ID, err)
	}

	slog.Info("payroll cycle deleted for regeneration",
		"company_id", companyID,
		"period", period.String(),
		"cycle_id", cycle.ID)

	return s.Generate(ctx, companyID, req)
}

// ApproveEntry moves a pending entry to approved.
func (s *Service) ApproveEntry(ctx context.Context, entryID, companyID string) (payroll.Entry, error) {
	entry, err := s.payrollRepo.GetEntryByID(ctx, entryID, companyID)
	if err != nil {
		return payroll.Entry{}, err
	}
	if entry.Status == payroll.EntryStatusPaid {
		return payroll.Entry{}, payroll.ErrEntryAlreadyPaid
	}

	if err := s.payrollRepo.UpdateEntryStatus(ctx, entryID, companyID, payroll.EntryStatusApproved); err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to approve entry %s: %w", entryID, err)
	}
	entry.Status = payroll.EntryStatusApproved
	return entry, nil
}

// PayEntry moves an entry to paid. When it is the last unpaid entry of
// its cycle the cycle transitions to paid as well.
func (s *Service) PayEntry(ctx context.Context, entryID, companyID string) (payroll.Entry, error) {
	entry, err := s.payrollRepo.GetEntryByID(ctx, entryID, companyID)
	if err != nil {
		return payroll.Entry{}, err
	}
	if entry.Status == payroll.EntryStatusPaid {
		return payroll.Entry{}, payroll.ErrEntryAlreadyPaid
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.payrollRepo.UpdateEntryStatus(ctx, entryID, companyID, payroll.EntryStatusPaid); err != nil {
			return fmt.Errorf("failed to pay entry %s: %w", entryID, err)
		}

		remaining, err := s.payrollRepo.CountEntriesNotInStatus(ctx, entry.CycleID, companyID, payroll.EntryStatusPaid)
		if err != nil {
			return fmt.Errorf("failed to count unpaid entries: %w", err)
		}
		if remaining == 0 {
			if err := s.payrollRepo.MarkCyclePaid(ctx, entry.CycleID, companyID, time.Now()); err != nil {
				return fmt.Errorf("failed to mark cycle paid: %w", err)
			}
			slog.Info("payroll cycle fully paid",
				"company_id", companyID,
				"cycle_id", entry.CycleID)
		}
		return nil
	})
	if err != nil {
		return payroll.Entry{}, err
	}

	entry.Status = payroll.EntryStatusPaid
	return entry, nil
}

// GetCycleSummary returns the stored cycle with its entries for a month.
func (s *Service) GetCycleSummary(ctx context.Context, companyID string, period validator.Period) (payroll.CycleSummaryResponse, error) {
	cycle, err := s.payrollRepo.GetCycle(ctx, companyID, period)
	if err != nil {
		return payroll.CycleSummaryResponse{}, err
	}

	entries, err := s.payrollRepo.ListEntries(ctx, cycle.ID, companyID)
	if err != nil {
		return payroll.CycleSummaryResponse{}, fmt.Errorf("failed to list entries for cycle %s: %w", cycle.ID, err)
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.NetSalary)
	}

	return payroll.CycleSummaryResponse{
		CycleID:            cycle.ID,
		CompanyID:          companyID,
		Month:              period.String(),
		Status:             string(cycle.Status),
		TotalEmployees:     len(entries),
		ProcessedEmployees: len(entries),
		TotalNetSalary:     total,
		Entries:            payroll.MapEntryResponses(entries),
	}, nil
}
