package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, employment_status,
	basic_salary, hourly_rate, overtime_rate,
	working_hours_per_day, working_days_per_month,
	created_at, updated_at, deleted_at
`

func (r *employeeRepository) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`, employeeColumns)

	var e employee.Employee
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus,
		&e.BasicSalary, &e.HourlyRate, &e.OvertimeRate,
		&e.WorkingHoursPerDay, &e.WorkingDaysPerMonth,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := r.loadRecurringComponents(ctx, &e); err != nil {
		return employee.Employee{}, err
	}

	return e, nil
}

func (r *employeeRepository) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM employees
		WHERE company_id = $1 AND employment_status = 'active' AND deleted_at IS NULL
		ORDER BY employee_code ASC
	`, employeeColumns)

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus,
			&e.BasicSalary, &e.HourlyRate, &e.OvertimeRate,
			&e.WorkingHoursPerDay, &e.WorkingDaysPerMonth,
			&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	for i := range employees {
		if err := r.loadRecurringComponents(ctx, &employees[i]); err != nil {
			return nil, err
		}
	}

	return employees, nil
}

// loadRecurringComponents fills the fixed allowances and deductions
// assigned to the employee.
func (r *employeeRepository) loadRecurringComponents(ctx context.Context, e *employee.Employee) error {
	q := database.GetQuerier(ctx, r.db)

	allowanceQuery := `
		SELECT type, amount FROM employee_allowances
		WHERE employee_id = $1
		ORDER BY type ASC
	`
	rows, err := q.Query(ctx, allowanceQuery, e.ID)
	if err != nil {
		return fmt.Errorf("failed to list allowances for employee %s: %w", e.ID, err)
	}
	defer rows.Close()

	e.AllowancesFixed = nil
	for rows.Next() {
		var a employee.Allowance
		if err := rows.Scan(&a.Type, &a.Amount); err != nil {
			return fmt.Errorf("failed to scan allowance: %w", err)
		}
		e.AllowancesFixed = append(e.AllowancesFixed, a)
	}
	rows.Close()

	deductionQuery := `
		SELECT type, reason, amount FROM employee_fixed_deductions
		WHERE employee_id = $1
		ORDER BY type ASC
	`
	rows, err = q.Query(ctx, deductionQuery, e.ID)
	if err != nil {
		return fmt.Errorf("failed to list fixed deductions for employee %s: %w", e.ID, err)
	}
	defer rows.Close()

	e.DeductionsFixed = nil
	for rows.Next() {
		var d employee.FixedDeduction
		if err := rows.Scan(&d.Type, &d.Reason, &d.Amount); err != nil {
			return fmt.Errorf("failed to scan fixed deduction: %w", err)
		}
		e.DeductionsFixed = append(e.DeductionsFixed, d)
	}

	return nil
}
