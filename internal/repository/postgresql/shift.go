package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) GetForEmployee(ctx context.Context, employeeID, companyID string) (shift.Shift, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.company_id, s.name, s.start_time, s.end_time,
			   s.break_minutes, s.late_grace_minutes, s.overtime_after,
			   s.created_at, s.updated_at
		FROM shifts s
		JOIN employee_shift_assignments esa ON esa.shift_id = s.id
		WHERE esa.employee_id = $1 AND s.company_id = $2
	`

	var sh shift.Shift
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&sh.ID, &sh.CompanyID, &sh.Name, &sh.StartTime, &sh.EndTime,
		&sh.BreakMinutes, &sh.LateGraceMinutes, &sh.OvertimeAfter,
		&sh.CreatedAt, &sh.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return sh, nil
}
