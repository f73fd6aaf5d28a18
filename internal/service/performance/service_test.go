package performance

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
	"github.com/workpulse/payroll-engine-go/internal/repository/memory"
	attendanceService "github.com/workpulse/payroll-engine-go/internal/service/attendance"
)

const testCompanyID = "co-1"

func newTestService(store *memory.Store) *Service {
	return NewService(store, store, store, attendanceService.NewAggregator(store))
}

func seedEmployee(store *memory.Store, id string, withShift bool) {
	store.AddEmployee(employee.Employee{
		ID:               id,
		CompanyID:        testCompanyID,
		EmployeeCode:     id,
		FullName:         "Employee " + id,
		EmploymentStatus: employee.EmploymentStatusActive,
	})
	if withShift {
		store.AssignShift(id, shift.Shift{
			CompanyID:        testCompanyID,
			Name:             "day",
			StartTime:        time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
			EndTime:          time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC),
			LateGraceMinutes: 15,
		})
	}
}

func punchDay(store *memory.Store, employeeID string, date time.Time, inHour, inMin, outHour, outMin int) {
	store.AddPunch(attendance.Punch{
		EmployeeID: employeeID,
		CompanyID:  testCompanyID,
		Type:       attendance.PunchTypeIn,
		Timestamp:  time.Date(date.Year(), date.Month(), date.Day(), inHour, inMin, 0, 0, time.UTC),
	})
	store.AddPunch(attendance.Punch{
		EmployeeID: employeeID,
		CompanyID:  testCompanyID,
		Type:       attendance.PunchTypeOut,
		Timestamp:  time.Date(date.Year(), date.Month(), date.Day(), outHour, outMin, 0, 0, time.UTC),
	})
}

func mustPeriod(s string) validator.Period {
	p, err := validator.ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

func TestCalculateForEmployee_PerfectMonth(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedEmployee(store, "emp-1", true)

	// Every weekday of September 2025 (22 working days), in at 08:58 and
	// out at 17:02.
	for d := 1; d <= 30; d++ {
		date := time.Date(2025, time.September, d, 0, 0, 0, 0, time.UTC)
		if attendance.ClassifyDay(date) == attendance.Weekend {
			continue
		}
		punchDay(store, "emp-1", date, 8, 58, 17, 2)
	}

	svc := newTestService(store)
	score, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "emp-1", mustPeriod("2025-09"))
	require.NoError(t, err)

	assert.Equal(t, 22, score.WorkingDays)
	assert.Equal(t, 0, score.LateCount)
	assert.Equal(t, 0, score.EarlyLeaveCount)
	assert.Equal(t, 0, score.AbsenceDays)
	assert.Equal(t, 22, score.PerfectDays)
	assert.True(t, score.Score.Equal(decimal.NewFromInt(100)), "got %s", score.Score)
	assert.Equal(t, performance.StatusExcellent, score.Status)
}

func TestCalculateForEmployee_IsIdempotent(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedEmployee(store, "emp-1", true)
	punchDay(store, "emp-1", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), 9, 30, 17, 0)

	svc := newTestService(store)
	period := mustPeriod("2025-09")

	first, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "emp-1", period)
	require.NoError(t, err)
	second, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "emp-1", period)
	require.NoError(t, err)

	// Same row overwritten, same fields.
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.Score.Equal(second.Score))
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.LateCount, second.LateCount)

	scores, err := store.ListByCompanyPeriod(context.Background(), testCompanyID, period)
	require.NoError(t, err)
	assert.Len(t, scores, 1, "recomputation must never duplicate rows")
}

func TestCalculateForEmployee_WeekendExclusionInvariant(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedEmployee(store, "emp-1", true)
	// Sporadic attendance: 3 worked days in the month.
	for _, d := range []int{2, 10, 24} {
		punchDay(store, "emp-1", time.Date(2025, time.September, d, 0, 0, 0, 0, time.UTC), 9, 0, 17, 0)
	}

	svc := newTestService(store)
	score, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "emp-1", mustPeriod("2025-09"))
	require.NoError(t, err)

	nonWeekend := attendance.WorkingDaysIn(
		time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, nonWeekend, score.WorkingDays+score.AbsenceDays)
	assert.Equal(t, 3, score.WorkingDays)
	assert.Equal(t, 19, score.AbsenceDays)
}

func TestCalculateForEmployee_NoShiftScoresZero(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedEmployee(store, "emp-1", false)
	punchDay(store, "emp-1", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), 9, 0, 17, 0)

	svc := newTestService(store)
	score, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "emp-1", mustPeriod("2025-09"))
	require.NoError(t, err)

	assert.True(t, score.Score.IsZero())
	assert.Equal(t, performance.StatusPoor, score.Status)
	assert.Equal(t, 0, score.WorkingDays)
}

func TestCalculateForEmployee_UnknownEmployee(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore())
	_, err := svc.CalculateForEmployee(context.Background(), testCompanyID, "ghost", mustPeriod("2025-09"))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCalculateForCompany(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	seedEmployee(store, "emp-1", true)
	seedEmployee(store, "emp-2", true)
	date := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	punchDay(store, "emp-1", date, 9, 0, 17, 0)
	punchDay(store, "emp-2", date, 9, 30, 17, 0) // late

	svc := newTestService(store)
	scores, err := svc.CalculateForCompany(context.Background(), testCompanyID, mustPeriod("2025-09"))
	require.NoError(t, err)
	require.Len(t, scores, 2)

	stored, err := svc.ListScores(context.Background(), testCompanyID, mustPeriod("2025-09"))
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestGetScore_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(memory.NewStore())
	_, err := svc.GetScore(context.Background(), testCompanyID, "emp-1", mustPeriod("2025-09"))
	assert.ErrorIs(t, err, performance.ErrScoreNotFound)
}
