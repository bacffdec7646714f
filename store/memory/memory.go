/*
memory.go - In-memory store for tests and local development

PURPOSE:
  A map-backed implementation of attendance.Store. Enforces the same
  (user, date) uniqueness contract as the SQLite store so tests exercise
  the duplicate path without a database.

CONCURRENCY:
  Guarded by a single RWMutex. All returned slices and pointers are
  copies; callers can't mutate stored state.
*/
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
)

// Store is an in-memory attendance.Store.
type Store struct {
	mu sync.RWMutex

	users    map[payroll.UserID]payroll.User
	records  map[payroll.UserID]map[string]payroll.AttendanceRecord // keyed by date string
	expenses map[payroll.UserID][]payroll.EmployeeExpense
}

var _ attendance.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:    make(map[payroll.UserID]payroll.User),
		records:  make(map[payroll.UserID]map[string]payroll.AttendanceRecord),
		expenses: make(map[payroll.UserID][]payroll.EmployeeExpense),
	}
}

// =============================================================================
// RECORDS
// =============================================================================

func (s *Store) FindRecord(_ context.Context, userID payroll.UserID, date payroll.Date) (*payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID][date.String()]
	if !ok {
		return nil, nil
	}
	out := rec
	return &out, nil
}

func (s *Store) ListRecords(_ context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payroll.AttendanceRecord
	for _, rec := range s.records[userID] {
		if rec.Date.AfterOrEqual(from) && rec.Date.BeforeOrEqual(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SaveRecord(_ context.Context, rec payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.records[rec.UserID]
	if !ok {
		byDate = make(map[string]payroll.AttendanceRecord)
		s.records[rec.UserID] = byDate
	}
	key := rec.Date.String()
	if _, exists := byDate[key]; exists {
		return &attendance.DuplicateRecordError{UserID: rec.UserID, Date: rec.Date}
	}
	byDate[key] = rec
	return nil
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) GetUser(_ context.Context, id payroll.UserID) (*payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (s *Store) ListUsers(_ context.Context) ([]payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveUser(_ context.Context, u payroll.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[u.ID] = u
	return nil
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) ListExpenses(_ context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.EmployeeExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []payroll.EmployeeExpense
	for _, e := range s.expenses[userID] {
		if e.ExpenseDate.AfterOrEqual(from) && e.ExpenseDate.BeforeOrEqual(to) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpenseDate.Before(out[j].ExpenseDate) })
	return out, nil
}

func (s *Store) SaveExpense(_ context.Context, e payroll.EmployeeExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses[e.UserID] = append(s.expenses[e.UserID], e)
	return nil
}
