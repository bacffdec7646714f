/*
service.go - Attendance service: record days, build monthly payroll

PURPOSE:
  Wires the pure calculation core (payroll package) to storage. The
  service owns validation that needs the outside world - user existence,
  duplicate days, future dates - while every pay number comes from the
  calculators.

KEY OPERATIONS:
  - PreviewDay:     Run the daily calculation without persisting
  - RecordDay:      Validate, calculate, and persist one day
  - MonthSummary:   Aggregate one user's month
  - MonthReport:    Aggregate every enabled user + organisation totals
  - AddExpense:     Register an expense deducted from net pay

CONCURRENCY:
  The service is stateless apart from its dependencies; one instance is
  shared by all request handlers. Day uniqueness is enforced at the
  store, so concurrent submissions of the same day resolve to exactly
  one winner.

SEE ALSO:
  - payroll/daily.go:   Per-day hour and pay calculation
  - payroll/monthly.go: Monthly aggregation
  - store.go:           Persistence contract
*/
package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/payroll"
)

// Service coordinates attendance recording and payroll reporting.
type Service struct {
	store  Store
	calc   *payroll.Calculator
	agg    *payroll.Aggregator
	logger *slog.Logger

	// now is injectable so tests can pin "today".
	now func() time.Time
}

// NewService creates a service over the given store and pay policy.
// A nil logger falls back to slog.Default().
func NewService(store Store, policy payroll.PayPolicy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		calc:   payroll.NewCalculator(policy),
		agg:    payroll.NewAggregator(policy, logger),
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service's notion of now. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Policy returns the pay policy the service calculates with.
func (s *Service) Policy() payroll.PayPolicy { return s.calc.Policy }

// =============================================================================
// DAY RECORDING
// =============================================================================

// DayInput is one attendance submission for a user and date.
type DayInput struct {
	UserID   payroll.UserID
	Date     payroll.Date
	Status   payroll.Status
	CheckIn  *time.Time
	CheckOut *time.Time
	Notes    string
}

// PreviewDay runs the daily calculation without persisting anything.
// Useful for showing an employee their pay before submission.
func (s *Service) PreviewDay(ctx context.Context, in DayInput) (payroll.DayResult, error) {
	user, err := s.requireUser(ctx, in.UserID)
	if err != nil {
		return payroll.DayResult{}, err
	}
	return s.calc.CalculateDay(*user, in.Date, in.Status, in.CheckIn, in.CheckOut)
}

// RecordDay validates, calculates, and persists one attendance day.
//
// Validation order: user exists, date not in the future, day not already
// recorded, then the calculation's own checks (times, status). The
// duplicate check is repeated by the store's uniqueness constraint, so a
// race between two submissions still yields a single record.
func (s *Service) RecordDay(ctx context.Context, in DayInput) (payroll.AttendanceRecord, error) {
	user, err := s.requireUser(ctx, in.UserID)
	if err != nil {
		return payroll.AttendanceRecord{}, err
	}

	today := payroll.DateOf(s.now())
	if in.Date.After(today) {
		return payroll.AttendanceRecord{}, &payroll.ValidationFailure{
			Field:   "date",
			Message: fmt.Sprintf("cannot record attendance for future date %s", in.Date),
		}
	}

	if existing, err := s.store.FindRecord(ctx, in.UserID, in.Date); err != nil {
		return payroll.AttendanceRecord{}, fmt.Errorf("checking existing record: %w", err)
	} else if existing != nil {
		return payroll.AttendanceRecord{}, &DuplicateRecordError{UserID: in.UserID, Date: in.Date}
	}

	result, err := s.calc.CalculateDay(*user, in.Date, in.Status, in.CheckIn, in.CheckOut)
	if err != nil {
		return payroll.AttendanceRecord{}, err
	}

	rec := payroll.AttendanceRecord{
		ID:            payroll.RecordID(uuid.NewString()),
		UserID:        user.ID,
		UserName:      user.Name,
		Date:          in.Date,
		Status:        result.Status,
		IsPresent:     result.IsPresent,
		Permission:    result.Permission,
		CheckIn:       in.CheckIn,
		CheckOut:      in.CheckOut,
		RegularHours:  result.RegularHours,
		OvertimeHours: result.OvertimeHours,
		DailyPay:      result.DailyPay,
		NeedsSalary:   result.NeedsSalary,
		Notes:         in.Notes,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.store.SaveRecord(ctx, rec); err != nil {
		return payroll.AttendanceRecord{}, fmt.Errorf("saving attendance record: %w", err)
	}

	s.logger.Info("attendance recorded",
		"user", user.ID,
		"date", in.Date.String(),
		"status", result.Status,
		"regular_hours", result.RegularHours,
		"overtime_hours", result.OvertimeHours,
	)
	return rec, nil
}

// Record returns a single record by (user, date).
func (s *Service) Record(ctx context.Context, userID payroll.UserID, date payroll.Date) (payroll.AttendanceRecord, error) {
	rec, err := s.store.FindRecord(ctx, userID, date)
	if err != nil {
		return payroll.AttendanceRecord{}, fmt.Errorf("loading record: %w", err)
	}
	if rec == nil {
		return payroll.AttendanceRecord{}, ErrRecordNotFound
	}
	return *rec, nil
}

// MonthRecords returns a user's records for a month, date ascending.
func (s *Service) MonthRecords(ctx context.Context, userID payroll.UserID, month payroll.Month) ([]payroll.AttendanceRecord, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListRecords(ctx, userID, month.Start(), month.End())
}

// =============================================================================
// MONTHLY REPORTING
// =============================================================================

// MonthReport is the organisation-wide payroll view for one month.
type MonthReport struct {
	Month     payroll.Month
	Summaries []payroll.MonthSummary
	Totals    payroll.Totals
}

// MonthSummary aggregates one user's month into a payroll summary.
func (s *Service) MonthSummary(ctx context.Context, userID payroll.UserID, month payroll.Month) (payroll.MonthSummary, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return payroll.MonthSummary{}, err
	}
	return s.summarize(ctx, *user, month)
}

// MonthReport builds summaries for every enabled user plus the reduced
// organisation totals. Users are ordered by name for stable output.
func (s *Service) MonthReport(ctx context.Context, month payroll.Month) (MonthReport, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return MonthReport{}, fmt.Errorf("listing users: %w", err)
	}

	summaries := make([]payroll.MonthSummary, 0, len(users))
	for _, u := range users {
		if !u.Enabled {
			continue
		}
		summary, err := s.summarize(ctx, u, month)
		if err != nil {
			return MonthReport{}, fmt.Errorf("summarizing user %s: %w", u.ID, err)
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UserName < summaries[j].UserName
	})

	return MonthReport{
		Month:     month,
		Summaries: summaries,
		Totals:    payroll.ReduceTotals(summaries),
	}, nil
}

func (s *Service) summarize(ctx context.Context, user payroll.User, month payroll.Month) (payroll.MonthSummary, error) {
	records, err := s.store.ListRecords(ctx, user.ID, month.Start(), month.End())
	if err != nil {
		return payroll.MonthSummary{}, fmt.Errorf("listing records: %w", err)
	}
	expenses, err := s.store.ListExpenses(ctx, user.ID, month.Start(), month.End())
	if err != nil {
		return payroll.MonthSummary{}, fmt.Errorf("listing expenses: %w", err)
	}
	return s.agg.AggregateMonth(user, month, records, expenses), nil
}

// =============================================================================
// EXPENSES
// =============================================================================

// AddExpense registers an expense deducted from the user's net pay in
// the month the expense falls in.
func (s *Service) AddExpense(ctx context.Context, userID payroll.UserID, date payroll.Date, amount decimal.Decimal, category, notes string) (payroll.EmployeeExpense, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return payroll.EmployeeExpense{}, err
	}
	if !amount.IsPositive() {
		return payroll.EmployeeExpense{}, &payroll.ValidationFailure{
			Field:   "amount",
			Message: "expense amount must be positive",
		}
	}

	exp := payroll.EmployeeExpense{
		ID:          payroll.ExpenseID(uuid.NewString()),
		UserID:      user.ID,
		Amount:      s.calc.Policy.RoundMoney(amount),
		Category:    category,
		Notes:       notes,
		ExpenseDate: date,
	}
	if err := s.store.SaveExpense(ctx, exp); err != nil {
		return payroll.EmployeeExpense{}, fmt.Errorf("saving expense: %w", err)
	}
	return exp, nil
}

// =============================================================================
// USERS
// =============================================================================

// User returns one user by ID.
func (s *Service) User(ctx context.Context, id payroll.UserID) (payroll.User, error) {
	user, err := s.requireUser(ctx, id)
	if err != nil {
		return payroll.User{}, err
	}
	return *user, nil
}

// Users returns all users ordered by name.
func (s *Service) Users(ctx context.Context) ([]payroll.User, error) {
	return s.store.ListUsers(ctx)
}

// SaveUser creates or replaces a user after basic validation.
func (s *Service) SaveUser(ctx context.Context, u payroll.User) error {
	if u.ID == "" {
		return &payroll.ValidationFailure{Field: "id", Message: "user id is required"}
	}
	if u.Name == "" {
		return &payroll.ValidationFailure{Field: "name", Message: "user name is required"}
	}
	if u.MonthlySalary.IsNegative() {
		return &payroll.ValidationFailure{Field: "monthlySalary", Message: "monthly salary cannot be negative"}
	}
	return s.store.SaveUser(ctx, u)
}

func (s *Service) requireUser(ctx context.Context, id payroll.UserID) (*payroll.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrUserNotFound)
	}
	return user, nil
}
