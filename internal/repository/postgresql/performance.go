package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/pkg/database"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

type scoreRepository struct {
	db *database.DB
}

func NewScoreRepository(db *database.DB) performance.ScoreRepository {
	return &scoreRepository{db: db}
}

const scoreColumns = `
	id, company_id, employee_id, period_month, period_year,
	working_days, late_count, early_leave_count, absence_days, perfect_days,
	score, status, created_at, updated_at
`

func (r *scoreRepository) Upsert(ctx context.Context, score performance.Score) (performance.Score, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO performance_scores (
			company_id, employee_id, period_month, period_year,
			working_days, late_count, early_leave_count, absence_days, perfect_days,
			score, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id, employee_id, period_month, period_year) DO UPDATE SET
			working_days = EXCLUDED.working_days,
			late_count = EXCLUDED.late_count,
			early_leave_count = EXCLUDED.early_leave_count,
			absence_days = EXCLUDED.absence_days,
			perfect_days = EXCLUDED.perfect_days,
			score = EXCLUDED.score,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING %s
	`, scoreColumns)

	s, err := scanScore(q.QueryRow(ctx, query,
		score.CompanyID, score.EmployeeID, int(score.Period.Month), score.Period.Year,
		score.WorkingDays, score.LateCount, score.EarlyLeaveCount, score.AbsenceDays, score.PerfectDays,
		score.Score, score.Status,
	))
	if err != nil {
		return performance.Score{}, fmt.Errorf("failed to upsert performance score: %w", err)
	}

	return s, nil
}

func (r *scoreRepository) GetByEmployeePeriod(ctx context.Context, employeeID, companyID string, period validator.Period) (performance.Score, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM performance_scores
		WHERE employee_id = $1 AND company_id = $2 AND period_month = $3 AND period_year = $4
	`, scoreColumns)

	s, err := scanScore(q.QueryRow(ctx, query, employeeID, companyID, int(period.Month), period.Year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return performance.Score{}, performance.ErrScoreNotFound
		}
		return performance.Score{}, fmt.Errorf("failed to get performance score: %w", err)
	}

	return s, nil
}

func (r *scoreRepository) ListByCompanyPeriod(ctx context.Context, companyID string, period validator.Period) ([]performance.Score, error) {
	q := database.GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM performance_scores
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3
		ORDER BY score DESC, employee_id ASC
	`, scoreColumns)

	rows, err := q.Query(ctx, query, companyID, int(period.Month), period.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance scores: %w", err)
	}
	defer rows.Close()

	var scores []performance.Score
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, nil
}

func scanScore(row pgx.Row) (performance.Score, error) {
	var s performance.Score
	var month, year int
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.EmployeeID, &month, &year,
		&s.WorkingDays, &s.LateCount, &s.EarlyLeaveCount, &s.AbsenceDays, &s.PerfectDays,
		&s.Score, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return performance.Score{}, err
	}
	s.Period = validator.Period{Year: year, Month: time.Month(month)}
	return s, nil
}
