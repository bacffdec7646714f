/*
Package sqlite provides a SQLite-backed implementation of the attendance store.

PURPOSE:
  Implements attendance.Store using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

DAY UNIQUENESS:
  The attendance_records table carries UNIQUE(user_id, date). This is the
  authoritative enforcement of one record per user per day: concurrent
  submissions race on the index, and the loser surfaces
  attendance.ErrDuplicateRecord.

KEY TABLES:
  users:              Employees with salary and overtime settings
  attendance_records: One immutable row per (user, day)
  expenses:           Expenses deducted from net pay

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := attendance.NewService(store, payroll.DefaultPolicy(), logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - attendance/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements attendance.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ attendance.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Users (salary settings drive all pay calculations)
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		monthly_salary TEXT NOT NULL,
		overtime_multiplier TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Attendance records (one immutable row per user per day)
	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		date TEXT NOT NULL,
		status TEXT NOT NULL,
		is_present BOOLEAN NOT NULL,
		permission TEXT NOT NULL,
		check_in TEXT,
		check_out TEXT,
		regular_hours TEXT NOT NULL,
		overtime_hours TEXT NOT NULL,
		daily_pay TEXT NOT NULL,
		needs_salary BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- CRITICAL: one attendance record per user per day
	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_unique_user_day
		ON attendance_records(user_id, date);

	-- Month range queries (hot path for payroll aggregation)
	CREATE INDEX IF NOT EXISTS idx_records_user_date
		ON attendance_records(user_id, date ASC);

	-- Expenses (deducted from net pay in their month)
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		expense_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_user_date
		ON expenses(user_id, expense_date ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORD STORE (attendance.RecordStore interface)
// =============================================================================

const recordColumns = `id, user_id, user_name, date, status, is_present, permission,
	check_in, check_out, regular_hours, overtime_hours, daily_pay, needs_salary, notes, created_at`

// FindRecord returns the record for (userID, date), or nil when none.
func (s *Store) FindRecord(ctx context.Context, userID payroll.UserID, date payroll.Date) (*payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE user_id = ? AND date = ?`

	row := s.db.QueryRowContext(ctx, query, userID, date.String())
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListRecords returns a user's records with dates in [from, to], date ascending.
func (s *Store) ListRecords(ctx context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []payroll.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveRecord persists a new record. The unique (user_id, date) index is
// the authority on day uniqueness.
func (s *Store) SaveRecord(ctx context.Context, rec payroll.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance_records
		(id, user_id, user_name, date, status, is_present, permission,
		 check_in, check_out, regular_hours, overtime_hours, daily_pay, needs_salary, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.UserName,
		rec.Date.String(),
		rec.Status,
		rec.IsPresent,
		rec.Permission,
		nullTime(rec.CheckIn),
		nullTime(rec.CheckOut),
		rec.RegularHours.String(),
		rec.OvertimeHours.String(),
		rec.DailyPay.String(),
		rec.NeedsSalary,
		rec.Notes,
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return &attendance.DuplicateRecordError{UserID: rec.UserID, Date: rec.Date}
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (payroll.AttendanceRecord, error) {
	var (
		rec           payroll.AttendanceRecord
		date          string
		checkIn       sql.NullString
		checkOut      sql.NullString
		regularHours  string
		overtimeHours string
		dailyPay      string
		createdAt     string
	)

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.UserName, &date, &rec.Status, &rec.IsPresent, &rec.Permission,
		&checkIn, &checkOut, &regularHours, &overtimeHours, &dailyPay, &rec.NeedsSalary, &rec.Notes, &createdAt,
	)
	if err == sql.ErrNoRows {
		return rec, err
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.Date, _ = payroll.ParseDate(date)
	rec.CheckIn = parseNullTime(checkIn)
	rec.CheckOut = parseNullTime(checkOut)
	rec.RegularHours = parseDecimal(regularHours)
	rec.OvertimeHours = parseDecimal(overtimeHours)
	rec.DailyPay = parseDecimal(dailyPay)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return rec, nil
}

// =============================================================================
// USER STORE (attendance.UserStore interface)
// =============================================================================

// GetUser returns the user, or nil when none.
func (s *Store) GetUser(ctx context.Context, id payroll.UserID) (*payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		u          payroll.User
		salary     string
		multiplier string
	)

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, role, enabled, monthly_salary, overtime_multiplier FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.Enabled, &salary, &multiplier)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.MonthlySalary = parseDecimal(salary)
	u.OvertimeMultiplier = parseDecimal(multiplier)
	return &u, nil
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]payroll.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, role, enabled, monthly_salary, overtime_multiplier FROM users ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []payroll.User
	for rows.Next() {
		var (
			u          payroll.User
			salary     string
			multiplier string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.Enabled, &salary, &multiplier); err != nil {
			return nil, err
		}
		u.MonthlySalary = parseDecimal(salary)
		u.OvertimeMultiplier = parseDecimal(multiplier)
		users = append(users, u)
	}
	return users, rows.Err()
}

// SaveUser creates or replaces a user.
func (s *Store) SaveUser(ctx context.Context, u payroll.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (id, name, role, enabled, monthly_salary, overtime_multiplier, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			enabled = excluded.enabled,
			monthly_salary = excluded.monthly_salary,
			overtime_multiplier = excluded.overtime_multiplier
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, u.Role, u.Enabled,
		u.MonthlySalary.String(),
		u.OvertimeMultiplier.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// EXPENSE STORE (attendance.ExpenseStore interface)
// =============================================================================

// ListExpenses returns a user's expenses with dates in [from, to].
func (s *Store) ListExpenses(ctx context.Context, userID payroll.UserID, from, to payroll.Date) ([]payroll.EmployeeExpense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, user_id, amount, category, notes, expense_date
		FROM expenses
		WHERE user_id = ? AND expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []payroll.EmployeeExpense
	for rows.Next() {
		var (
			e      payroll.EmployeeExpense
			amount string
			date   string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &amount, &e.Category, &e.Notes, &date); err != nil {
			return nil, err
		}
		e.Amount = parseDecimal(amount)
		e.ExpenseDate, _ = payroll.ParseDate(date)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SaveExpense persists a new expense.
func (s *Store) SaveExpense(ctx context.Context, e payroll.EmployeeExpense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO expenses (id, user_id, amount, category, notes, expense_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Amount.String(), e.Category, e.Notes,
		e.ExpenseDate.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"attendance_records", "expenses", "users"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// Helper functions

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
