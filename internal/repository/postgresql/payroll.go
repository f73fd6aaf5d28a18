package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== SETTINGS ==========

func (r *payrollRepository) GetSettings(ctx context.Context, companyID string) (payroll.Settings, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id,
			   late_deduction_enabled, late_calculation_unit,
			   early_leave_deduction_enabled,
			   absence_deduction_enabled, absence_deduction_type, absence_deduction_percentage,
			   overtime_enabled, overtime_approval_required, overtime_normal_rate,
			   overtime_max_per_day, overtime_max_per_month,
			   attendance_bonus_enabled, attendance_bonus_type, attendance_bonus_amount,
			   attendance_bonus_condition, attendance_bonus_min_days,
			   created_at, updated_at
		FROM payroll_settings
		WHERE company_id = $1
	`

	var s payroll.Settings
	err := q.QueryRow(ctx, query, companyID).Scan(
		&s.ID, &s.CompanyID,
		&s.LateDeductionEnabled, &s.LateCalculationUnit,
		&s.EarlyLeaveDeductionEnabled,
		&s.AbsenceDeductionEnabled, &s.AbsenceDeductionType, &s.AbsenceDeductionPercentage,
		&s.OvertimeEnabled, &s.OvertimeApprovalRequired, &s.OvertimeNormalRate,
		&s.OvertimeMaxPerDay, &s.OvertimeMaxPerMonth,
		&s.AttendanceBonusEnabled, &s.AttendanceBonusType, &s.AttendanceBonusAmount,
		&s.AttendanceBonusCondition, &s.AttendanceBonusMinDays,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

// ========== CYCLES ==========

func (r *payrollRepository) GetCycle(ctx context.Context, companyID string, period validator.Period) (payroll.Cycle, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_month, period_year, status,
			   generated_at, paid_at, created_at, updated_at
		FROM payroll_cycles
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
	`

	c, err := scanCycle(q.QueryRow(ctx, query, companyID, int(period.Month), period.Year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get payroll cycle: %w", err)
	}
	return c, nil
}

func (r *payrollRepository) GetCycleByID(ctx context.Context, id, companyID string) (payroll.Cycle, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, period_month, period_year, status,
			   generated_at, paid_at, created_at, updated_at
		FROM payroll_cycles
		WHERE id = $1 AND company_id = $2
	`

	c, err := scanCycle(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Cycle{}, payroll.ErrCycleNotFound
		}
		return payroll.Cycle{}, fmt.Errorf("failed to get payroll cycle: %w", err)
	}
	return c, nil
}

func scanCycle(row pgx.Row) (payroll.Cycle, error) {
	var c payroll.Cycle
	var month, year int
	err := row.Scan(
		&c.ID, &c.CompanyID, &month, &year, &c.Status,
		&c.GeneratedAt, &c.PaidAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return payroll.Cycle{}, err
	}
	c.Period = validator.Period{Year: year, Month: time.Month(month)}
	return c, nil
}

func (r *payrollRepository) CreateCycle(ctx context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_cycles (company_id, period_month, period_year, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, period_month, period_year, status,
			generated_at, paid_at, created_at, updated_at
	`

	created, err := scanCycle(q.QueryRow(ctx, query,
		cycle.CompanyID, int(cycle.Period.Month), cycle.Period.Year, cycle.Status,
	))
	if err != nil {
		// uk_payroll_cycle_period is the unique key on (company_id,
		// period_month, period_year); a violation means a concurrent
		// generation already created the cycle.
		if strings.Contains(err.Error(), "uk_payroll_cycle_period") {
			return payroll.Cycle{}, payroll.ErrCycleAlreadyExists
		}
		return payroll.Cycle{}, fmt.Errorf("failed to create payroll cycle: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) MarkCycleGenerated(ctx context.Context, id, companyID string, generatedAt time.Time) error {
	return r.updateCycleStatus(ctx, id, companyID,
		`status = 'generated', generated_at = $3`, generatedAt)
}

func (r *payrollRepository) MarkCyclePaid(ctx context.Context, id, companyID string, paidAt time.Time) error {
	return r.updateCycleStatus(ctx, id, companyID,
		`status = 'paid', paid_at = $3`, paidAt)
}

func (r *payrollRepository) updateCycleStatus(ctx context.Context, id, companyID, setClause string, at time.Time) error {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE payroll_cycles
		SET %s, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, setClause)

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, at).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrCycleNotFound
		}
		return fmt.Errorf("failed to update payroll cycle: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeleteCycle(ctx context.Context, id, companyID string) error {
	q := database.GetQuerier(ctx, r.db)

	// Entries cascade via fk_payroll_entry_cycle ON DELETE CASCADE.
	query := `DELETE FROM payroll_cycles WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrCycleNotFound
		}
		return fmt.Errorf("failed to delete payroll cycle: %w", err)
	}

	return nil
}

// ========== ENTRIES ==========

const entryColumns = `
	pe.id, pe.cycle_id, pe.company_id, pe.employee_id,
	pe.basic_salary, pe.total_allowances, pe.total_overtime_amount,
	pe.attendance_deductions, pe.leave_deductions, pe.manual_deductions,
	pe.fixed_deductions, pe.total_deductions, pe.net_salary,
	pe.status, pe.notes, pe.created_at, pe.updated_at
`

func (r *payrollRepository) UpsertEntry(ctx context.Context, entry payroll.Entry) (payroll.Entry, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_entries AS pe (
			cycle_id, company_id, employee_id,
			basic_salary, total_allowances, total_overtime_amount,
			attendance_deductions, leave_deductions, manual_deductions,
			fixed_deductions, total_deductions, net_salary, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (cycle_id, employee_id) DO UPDATE SET
			basic_salary = EXCLUDED.basic_salary,
			total_allowances = EXCLUDED.total_allowances,
			total_overtime_amount = EXCLUDED.total_overtime_amount,
			attendance_deductions = EXCLUDED.attendance_deductions,
			leave_deductions = EXCLUDED.leave_deductions,
			manual_deductions = EXCLUDED.manual_deductions,
			fixed_deductions = EXCLUDED.fixed_deductions,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING %s
	`, entryColumns)

	var e payroll.Entry
	err := q.QueryRow(ctx, query,
		entry.CycleID, entry.CompanyID, entry.EmployeeID,
		entry.BasicSalary, entry.TotalAllowances, entry.TotalOvertimeAmount,
		entry.AttendanceDeductions, entry.LeaveDeductions, entry.ManualDeductions,
		entry.FixedDeductions, entry.TotalDeductions, entry.NetSalary,
		entry.Status, entry.Notes,
	).Scan(
		&e.ID, &e.CycleID, &e.CompanyID, &e.EmployeeID,
		&e.BasicSalary, &e.TotalAllowances, &e.TotalOvertimeAmount,
		&e.AttendanceDeductions, &e.LeaveDeductions, &e.ManualDeductions,
		&e.FixedDeductions, &e.TotalDeductions, &e.NetSalary,
		&e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return payroll.Entry{}, fmt.Errorf("failed to upsert payroll entry: %w", err)
	}

	return e, nil
}

func (r *payrollRepository) GetEntryByID(ctx context.Context, id, companyID string) (payroll.Entry, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name, e.employee_code
		FROM payroll_entries pe
		JOIN employees e ON pe.employee_id = e.id
		WHERE pe.id = $1 AND pe.company_id = $2
	`, entryColumns)

	var entry payroll.Entry
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&entry.ID, &entry.CycleID, &entry.CompanyID, &entry.EmployeeID,
		&entry.BasicSalary, &entry.TotalAllowances, &entry.TotalOvertimeAmount,
		&entry.AttendanceDeductions, &entry.LeaveDeductions, &entry.ManualDeductions,
		&entry.FixedDeductions, &entry.TotalDeductions, &entry.NetSalary,
		&entry.Status, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt,
		&entry.EmployeeName, &entry.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Entry{}, payroll.ErrEntryNotFound
		}
		return payroll.Entry{}, fmt.Errorf("failed to get payroll entry: %w", err)
	}

	return entry, nil
}

func (r *payrollRepository) ListEntries(ctx context.Context, cycleID, companyID string) ([]payroll.Entry, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s, e.full_name, e.employee_code
		FROM payroll_entries pe
		JOIN employees e ON pe.employee_id = e.id
		WHERE pe.cycle_id = $1 AND pe.company_id = $2
		ORDER BY e.employee_code ASC
	`, entryColumns)

	rows, err := q.Query(ctx, query, cycleID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.Entry
	for rows.Next() {
		var entry payroll.Entry
		if err := rows.Scan(
			&entry.ID, &entry.CycleID, &entry.CompanyID, &entry.EmployeeID,
			&entry.BasicSalary, &entry.TotalAllowances, &entry.TotalOvertimeAmount,
			&entry.AttendanceDeductions, &entry.LeaveDeductions, &entry.ManualDeductions,
			&entry.FixedDeductions, &entry.TotalDeductions, &entry.NetSalary,
			&entry.Status, &entry.Notes, &entry.CreatedAt, &entry.UpdatedAt,
			&entry.EmployeeName, &entry.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *payrollRepository) UpdateEntryStatus(ctx context.Context, id, companyID string, status payroll.EntryStatus) error {
	q := database.GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_entries
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query, id, companyID, status).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrEntryNotFound
		}
		return fmt.Errorf("failed to update payroll entry status: %w", err)
	}

	return nil
}

func (r *payrollRepository) CountEntriesNotInStatus(ctx context.Context, cycleID, companyID string, status payroll.EntryStatus) (int, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM payroll_entries
		WHERE cycle_id = $1 AND company_id = $2 AND status != $3
	`

	var count int
	if err := q.QueryRow(ctx, query, cycleID, companyID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payroll entries: %w", err)
	}

	return count, nil
}

// ========== MANUAL DEDUCTIONS ==========

func (r *payrollRepository) SumManualDeductions(ctx context.Context, employeeID, companyID string, from, to time.Time) (decimal.Decimal, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM manual_deductions
		WHERE employee_id = $1 AND company_id = $2 AND date >= $3 AND date < $4
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, companyID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum manual deductions: %w", err)
	}

	return total, nil
}
