package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
)

type punchRepository struct {
	db *database.DB
}

func NewPunchRepository(db *database.DB) attendance.PunchRepository {
	return &punchRepository{db: db}
}

func (r *punchRepository) ListForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	q := database.GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, type, timestamp, method, created_at
		FROM attendance_punches
		WHERE employee_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list punches: %w", err)
	}
	defer rows.Close()

	var punches []attendance.Punch
	for rows.Next() {
		var p attendance.Punch
		if err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.CompanyID, &p.Type, &p.Timestamp, &p.Method, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan punch: %w", err)
		}
		punches = append(punches, p)
	}

	return punches, nil
}
