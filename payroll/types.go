/*
Package payroll provides the attendance and payroll calculation core.

PURPOSE:
  This package contains the pure calculation engine that turns raw daily
  attendance input (status, check-in/out clock times) into regular and
  overtime hours and monetary pay, and folds a month of such records into
  a payroll summary with rest-day accrual and absence deductions.

KEY CONCEPTS IN THIS FILE (types.go):
  - User: Salary and overtime configuration, consumed read-only
  - AttendanceRecord: One computed day for one user
  - Status / PermissionType: The three mutually exclusive day classes
  - DayResult / MonthSummary / Totals: Calculation outputs

DESIGN PRINCIPLES:
  1. Purity: Every calculation is a function of its inputs plus the
     PayPolicy. No stores, no clocks, no globals.
  2. Precision: Uses decimal.Decimal for all money and hour values.
  3. Determinism: Monetary outputs are rounded to 2 decimal places at the
     point of computation, so repeated reads of a persisted record are
     stable and auditable.
  4. Disposable summaries: A MonthSummary is a recomputed-on-read
     projection, never a cached source of truth.

USAGE:
  calc := payroll.NewCalculator(payroll.DefaultPolicy())
  result, err := calc.CalculateDay(user, date, payroll.StatusPresent, &in, &out)

SEE ALSO:
  - shift.go:   Scheduled shift window resolution
  - daily.go:   Per-day hours and pay computation
  - monthly.go: Month aggregation with rest-day accrual
  - totals.go:  Organization-wide totals reduction
  - errors.go:  Validation failure taxonomy
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type RecordID string
type ExpenseID string

// =============================================================================
// STATUS - Mutually exclusive day classification
// =============================================================================

type Status string

const (
	StatusPresent                  Status = "present"
	StatusAbsentWithPermission     Status = "absent_with_permission"
	StatusAbsentWithoutPermission  Status = "absent_without_permission"

	// statusLegacyReset belonged to an earlier rule generation (7/6 reset
	// cycle) and is rejected on parse. Kept only so the error message can
	// name it.
	statusLegacyReset Status = "reset"
)

// ParseStatus converts external input into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPresent, StatusAbsentWithPermission, StatusAbsentWithoutPermission:
		return Status(s), nil
	case statusLegacyReset:
		return "", &ValidationFailure{Field: "status", Message: "status 'reset' is retired; record the day as present or absent", Err: ErrUnknownStatus}
	default:
		return "", &ValidationFailure{Field: "status", Message: "unknown status " + s, Err: ErrUnknownStatus}
	}
}

// IsPresent is true only for StatusPresent.
func (s Status) IsPresent() bool { return s == StatusPresent }

// PermissionType returns the absence dimension of the status. Redundant
// with the status itself, kept for reporting.
func (s Status) PermissionType() PermissionType {
	switch s {
	case StatusAbsentWithPermission:
		return PermissionWith
	case StatusAbsentWithoutPermission:
		return PermissionWithout
	default:
		return PermissionNone
	}
}

type PermissionType string

const (
	PermissionNone    PermissionType = "none"
	PermissionWith    PermissionType = "with_permission"
	PermissionWithout PermissionType = "without_permission"
)

// =============================================================================
// ENTITIES - Consumed read-only by the engine
// =============================================================================

// User carries the pay configuration the engine needs. Role and enabled
// flags drive authorization and listing upstream, never calculation.
type User struct {
	ID                 UserID
	Name               string
	Role               string
	Enabled            bool
	MonthlySalary      decimal.Decimal
	OvertimeMultiplier decimal.Decimal
}

// HasSalary reports whether pay can be computed. Zero means "unset".
func (u User) HasSalary() bool { return u.MonthlySalary.IsPositive() }

// AttendanceRecord is one computed day for one user. Created once from a
// DayResult and never mutated by the engine.
type AttendanceRecord struct {
	ID            RecordID
	UserID        UserID
	UserName      string // denormalized for history
	Date          Date
	Status        Status
	IsPresent     bool
	Permission    PermissionType
	CheckIn       *time.Time
	CheckOut      *time.Time
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	DailyPay      decimal.Decimal
	NeedsSalary   bool
	Notes         string
	CreatedAt     time.Time
}

// TotalHours returns regular plus overtime hours.
func (r AttendanceRecord) TotalHours() decimal.Decimal {
	return r.RegularHours.Add(r.OvertimeHours)
}

// EmployeeExpense is a personal expense netted against payroll reporting.
type EmployeeExpense struct {
	ID          ExpenseID
	UserID      UserID
	Amount      decimal.Decimal
	Category    string
	Notes       string
	ExpenseDate Date
}

// =============================================================================
// CALCULATION OUTPUTS
// =============================================================================

// DayResult is the Daily Calculator output. Immutable value; the caller
// owns persistence and any reactive propagation.
type DayResult struct {
	Status        Status
	IsPresent     bool
	Permission    PermissionType
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	DailyPay      decimal.Decimal

	// NeedsSalary flags a present day recorded before the user's salary
	// was configured. Pay is deferred to zero, not an error.
	NeedsSalary bool
}

// MonthSummary is the Monthly Aggregator output for one (user, month).
// Pure computation result, not persisted.
type MonthSummary struct {
	UserID   UserID
	UserName string
	Month    Month

	WorkedDays     int
	EarnedRestDays int

	WithPermissionAbsences    int
	WithoutPermissionAbsences int

	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal

	DailyRate         decimal.Decimal
	BasePay           decimal.Decimal
	RestDayPayout     decimal.Decimal
	AbsenceDeductions decimal.Decimal

	// GrossPay and NetPay are surfaced separately; net subtracts the
	// month's recorded employee expenses.
	GrossPay     decimal.Decimal
	ExpenseTotal decimal.Decimal
	NetPay       decimal.Decimal

	NeedsSalary bool
}

// Totals is the organization-wide reduction across per-user summaries.
type Totals struct {
	Users             int
	PresentDays       int
	AbsentDays        int
	OvertimeHours     decimal.Decimal
	RestDayPayout     decimal.Decimal
	AbsenceDeductions decimal.Decimal
	GrossPay          decimal.Decimal
	NetPay            decimal.Decimal
}
