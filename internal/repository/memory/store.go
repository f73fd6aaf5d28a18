// Package memory holds an in-memory implementation of every repository
// interface of the engine. It backs the service-level tests; the pgx
// implementations in repository/postgresql are the production versions.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/workpulse/payroll-engine-go/internal/domain/attendance"
	"github.com/workpulse/payroll-engine-go/internal/domain/employee"
	"github.com/workpulse/payroll-engine-go/internal/domain/payroll"
	"github.com/workpulse/payroll-engine-go/internal/domain/performance"
	"github.com/workpulse/payroll-engine-go/internal/domain/shift"
	"github.com/workpulse/payroll-engine-go/internal/pkg/validator"
)

// Store keeps all engine data in maps guarded by one mutex. Transactions
// are snapshot-based: WithinTransaction clones the state and restores the
// clone when the wrapped function errors, giving tests the same
// all-or-nothing behavior the SQL implementation gets from pgx.
type Store struct {
	mu sync.RWMutex

	punches          []attendance.Punch
	shifts           map[string]shift.Shift       // employeeID -> shift
	employees        map[string]employee.Employee // id -> employee
	settings         map[string]payroll.Settings  // companyID -> settings
	cycles           map[string]payroll.Cycle     // id -> cycle
	entries          map[string]payroll.Entry     // id -> entry
	manualDeductions []payroll.ManualDeduction
	scores           map[string]performance.Score // companyID|employeeID|period
}

func NewStore() *Store {
	return &Store{
		shifts:    make(map[string]shift.Shift),
		employees: make(map[string]employee.Employee),
		settings:  make(map[string]payroll.Settings),
		cycles:    make(map[string]payroll.Cycle),
		entries:   make(map[string]payroll.Entry),
		scores:    make(map[string]performance.Score),
	}
}

// ========== Seeding helpers ==========

func (s *Store) AddPunch(p attendance.Punch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.punches = append(s.punches, p)
}

func (s *Store) AddEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.employees[e.ID] = e
}

func (s *Store) AssignShift(employeeID string, sh shift.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	s.shifts[employeeID] = sh
}

func (s *Store) PutSettings(cfg payroll.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	s.settings[cfg.CompanyID] = cfg
}

func (s *Store) AddManualDeduction(d payroll.ManualDeduction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.manualDeductions = append(s.manualDeductions, d)
}

// ========== attendance.PunchRepository ==========

func (s *Store) ListForEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Punch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Punch
	for _, p := range s.punches {
		if p.EmployeeID != employeeID {
			continue
		}
		if p.Timestamp.Before(from) || !p.Timestamp.Before(to) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// ========== shift.ShiftRepository ==========

func (s *Store) GetForEmployee(_ context.Context, employeeID, companyID string) (shift.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shifts[employeeID]
	if !ok || (sh.CompanyID != "" && sh.CompanyID != companyID) {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return sh, nil
}

// ========== employee.EmployeeRepository ==========

func (s *Store) GetByID(_ context.Context, id, companyID string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (s *Store) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []employee.Employee
	for _, e := range s.employees {
		if e.CompanyID == companyID && e.EmploymentStatus == employee.EmploymentStatusActive && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeCode < out[j].EmployeeCode })
	return out, nil
}

// ========== performance.ScoreRepository ==========

func scoreKey(companyID, employeeID string, period validator.Period) string {
	return companyID + "|" + employeeID + "|" + period.String()
}

func (s *Store) Upsert(_ context.Context, score performance.Score) (performance.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scoreKey(score.CompanyID, score.EmployeeID, score.Period)
	if existing, ok := s.scores[key]; ok {
		score.ID = existing.ID
		score.CreatedAt = existing.CreatedAt
	} else {
		score.ID = uuid.NewString()
		score.CreatedAt = time.Now()
	}
	score.UpdatedAt = time.Now()
	s.scores[key] = score
	return score, nil
}

func (s *Store) GetByEmployeePeriod(_ context.Context, employeeID, companyID string, period validator.Period) (performance.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.scores[scoreKey(companyID, employeeID, period)]
	if !ok {
		return performance.Score{}, performance.ErrScoreNotFound
	}
	return score, nil
}

func (s *Store) ListByCompanyPeriod(_ context.Context, companyID string, period validator.Period) ([]performance.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []performance.Score
	for _, score := range s.scores {
		if score.CompanyID == companyID && score.Period == period {
			out = append(out, score)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// ========== payroll.PayrollRepository ==========

func (s *Store) GetSettings(_ context.Context, companyID string) (payroll.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.settings[companyID]
	if !ok {
		return payroll.Settings{}, payroll.ErrSettingsNotFound
	}
	return cfg, nil
}

func (s *Store) GetCycle(_ context.Context, companyID string, period validator.Period) (payroll.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cycles {
		if c.CompanyID == companyID && c.Period == period {
			return c, nil
		}
	}
	return payroll.Cycle{}, payroll.ErrCycleNotFound
}

func (s *Store) GetCycleByID(_ context.Context, id, companyID string) (payroll.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.Cycle{}, payroll.ErrCycleNotFound
	}
	return c, nil
}

func (s *Store) CreateCycle(_ context.Context, cycle payroll.Cycle) (payroll.Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.cycles {
		if c.CompanyID == cycle.CompanyID && c.Period == cycle.Period {
			return payroll.Cycle{}, payroll.ErrCycleAlreadyExists
		}
	}

	cycle.ID = uuid.NewString()
	cycle.CreatedAt = time.Now()
	cycle.UpdatedAt = cycle.CreatedAt
	s.cycles[cycle.ID] = cycle
	return cycle, nil
}

func (s *Store) MarkCycleGenerated(_ context.Context, id, companyID string, generatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrCycleNotFound
	}
	c.Status = payroll.CycleStatusGenerated
	c.GeneratedAt = &generatedAt
	c.UpdatedAt = time.Now()
	s.cycles[id] = c
	return nil
}

func (s *Store) MarkCyclePaid(_ context.Context, id, companyID string, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrCycleNotFound
	}
	c.Status = payroll.CycleStatusPaid
	c.PaidAt = &paidAt
	c.UpdatedAt = time.Now()
	s.cycles[id] = c
	return nil
}

func (s *Store) DeleteCycle(_ context.Context, id, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cycles[id]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrCycleNotFound
	}
	delete(s.cycles, id)
	for entryID, e := range s.entries {
		if e.CycleID == id {
			delete(s.entries, entryID)
		}
	}
	return nil
}

func (s *Store) UpsertEntry(_ context.Context, entry payroll.Entry) (payroll.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if e.CycleID == entry.CycleID && e.EmployeeID == entry.EmployeeID {
			entry.ID = id
			entry.CreatedAt = e.CreatedAt
			entry.UpdatedAt = time.Now()
			s.entries[id] = entry
			return entry, nil
		}
	}

	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	s.entries[entry.ID] = entry
	return entry, nil
}

func (s *Store) GetEntryByID(_ context.Context, id, companyID string) (payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.CompanyID != companyID {
		return payroll.Entry{}, payroll.ErrEntryNotFound
	}
	return e, nil
}

func (s *Store) ListEntries(_ context.Context, cycleID, companyID string) ([]payroll.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payroll.Entry
	for _, e := range s.entries {
		if e.CycleID == cycleID && e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (s *Store) UpdateEntryStatus(_ context.Context, id, companyID string, status payroll.EntryStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.CompanyID != companyID {
		return payroll.ErrEntryNotFound
	}
	e.Status = status
	e.UpdatedAt = time.Now()
	s.entries[id] = e
	return nil
}

func (s *Store) CountEntriesNotInStatus(_ context.Context, cycleID, companyID string, status payroll.EntryStatus) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.CycleID == cycleID && e.CompanyID == companyID && e.Status != status {
			count++
		}
	}
	return count, nil
}

func (s *Store) SumManualDeductions(_ context.Context, employeeID, companyID string, from, to time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, d := range s.manualDeductions {
		if d.EmployeeID != employeeID || d.CompanyID != companyID {
			continue
		}
		if d.Date.Before(from) || !d.Date.Before(to) {
			continue
		}
		total = total.Add(d.Amount)
	}
	return total, nil
}

// ========== database.TxManager ==========

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := s.cloneLocked()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.restoreLocked(snapshot)
		s.mu.Unlock()
		return err
	}
	return nil
}

type stateSnapshot struct {
	cycles  map[string]payroll.Cycle
	entries map[string]payroll.Entry
	scores  map[string]performance.Score
}

func (s *Store) cloneLocked() stateSnapshot {
	snap := stateSnapshot{
		cycles:  make(map[string]payroll.Cycle, len(s.cycles)),
		entries: make(map[string]payroll.Entry, len(s.entries)),
		scores:  make(map[string]performance.Score, len(s.scores)),
	}
	for k, v := range s.cycles {
		snap.cycles[k] = v
	}
	for k, v := range s.entries {
		snap.entries[k] = v
	}
	for k, v := range s.scores {
		snap.scores[k] = v
	}
	return snap
}

func (s *Store) restoreLocked(snap stateSnapshot) {
	s.cycles = snap.cycles
	s.entries = snap.entries
	s.scores = snap.scores
}
