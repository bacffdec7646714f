/*
store.go - Persistence interfaces required by the attendance service

PURPOSE:
  Defines the contract between the attendance layer and storage. The
  calculation core owns no persistence; it only needs read/write-by-key
  and range-query-by-date capabilities from a record store.

UNIQUENESS CONTRACT:
  At most one AttendanceRecord may exist per (userID, date). The store
  boundary enforces this, NOT the calculators: two concurrent attempts to
  record the same day must race on the store's uniqueness check, and the
  loser receives ErrDuplicateRecord.

IMPLEMENTATIONS:
  - store/sqlite: Production store, unique index on (user_id, date)
  - store/memory: In-memory store for tests and dev
*/
package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateRecord is returned when a record already exists for the
	// (user, date) pair.
	ErrDuplicateRecord = errors.New("attendance record already exists for this day")

	// ErrUserNotFound is returned when a referenced user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrRecordNotFound is returned when a referenced record doesn't exist.
	ErrRecordNotFound = errors.New("attendance record not found")
)

// DuplicateRecordError reports which (user, date) pair collided.
type DuplicateRecordError struct {
	UserID payroll.UserID
	Date   payroll.Date
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("attendance record already exists for %s on %s", e.UserID, e.Date)
}

func (e *DuplicateRecordError) Unwrap() error { return ErrDuplicateRecord }

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrRecordNotFound)
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// RecordStore persists attendance records. Records are created once and
// never mutated; there is no update path.
type RecordStore interface {
	// FindRecord returns the record for (userID, date), or nil when none.
	FindRecord(ctx context.Context, userID payroll.UserID, date payroll.Date) (*payroll.AttendanceRecord, error)

	// ListRecords returns a user's records with dates in [from, to],
	// ordered by date ascending.
	ListRecords(ctx context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.AttendanceRecord, error)

	// SaveRecord persists a new record. Returns ErrDuplicateRecord (or a
	// *DuplicateRecordError) when the (user, date) pair is taken.
	SaveRecord(ctx context.Context, rec payroll.AttendanceRecord) error
}

// UserStore exposes the users the engine computes for.
type UserStore interface {
	// GetUser returns the user, or nil when none.
	GetUser(ctx context.Context, id payroll.UserID) (*payroll.User, error)

	// ListUsers returns all users ordered by name.
	ListUsers(ctx context.Context) ([]payroll.User, error)

	// SaveUser creates or replaces a user.
	SaveUser(ctx context.Context, u payroll.User) error
}

// ExpenseStore persists employee expenses for net payroll reporting.
type ExpenseStore interface {
	// ListExpenses returns a user's expenses with dates in [from, to].
	ListExpenses(ctx context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.EmployeeExpense, error)

	// SaveExpense persists a new expense.
	SaveExpense(ctx context.Context, e payroll.EmployeeExpense) error
}

// Store bundles everything the attendance service needs.
type Store interface {
	RecordStore
	UserStore
	ExpenseStore
}
