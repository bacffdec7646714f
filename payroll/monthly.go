/*
monthly.go - Month aggregation with rest-day accrual

PURPOSE:
  Folds one user's attendance records for a month into a MonthSummary:
  worked days, earned rest days, absence counts and deductions, overtime
  and pay totals.

ACCRUAL RULE:
  One rest day per 6 presence days in the month, integer division. The
  six days need not be contiguous; remainder days earn nothing that
  month. 24 worked days -> 4 rest days, 31 -> 5.

DEDUCTION RULE:
  dailyRate = monthlySalary / 30
  deduction = withPermission*dailyRate + withoutPermission*2*dailyRate

FAILURE POLICY:
  Aggregation sits on a UI codepath that must never crash. Any panic is
  recovered at this boundary and converted into an all-zero summary with
  DailyRate still computed from the salary; the incident is logged for
  diagnostics. Summaries are disposable projections, so the caller just
  recomputes on the next read.
*/
package payroll

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// Aggregator computes monthly summaries from persisted day records.
// Stateless apart from the logger; safe for concurrent use.
type Aggregator struct {
	Policy PayPolicy
	Logger *slog.Logger
}

// NewAggregator returns an Aggregator with the given policy. A nil
// logger falls back to slog.Default().
func NewAggregator(policy PayPolicy, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{Policy: policy, Logger: logger}
}

// AggregateMonth computes the payroll summary for one user and month.
// Records and expenses are defensively re-filtered to the (user, month)
// scope; nil or empty input yields a zero summary. Idempotent: the same
// record set always yields an identical summary.
func (a *Aggregator) AggregateMonth(u User, month Month, records []AttendanceRecord, expenses []EmployeeExpense) (summary MonthSummary) {
	zero := a.zeroSummary(u, month)
	summary = zero

	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("month aggregation fault, returning zero summary",
				"user_id", string(u.ID),
				"month", month.String(),
				"panic", r,
			)
			summary = zero
		}
	}()

	for _, rec := range records {
		if rec.UserID != u.ID || !month.Contains(rec.Date) {
			continue
		}

		if rec.IsPresent {
			summary.WorkedDays++
		}
		switch rec.Permission {
		case PermissionWith:
			summary.WithPermissionAbsences++
		case PermissionWithout:
			summary.WithoutPermissionAbsences++
		}

		summary.RegularHours = summary.RegularHours.Add(rec.RegularHours)
		summary.OvertimeHours = summary.OvertimeHours.Add(rec.OvertimeHours)
		summary.BasePay = summary.BasePay.Add(rec.DailyPay)
		if rec.NeedsSalary {
			summary.NeedsSalary = true
		}
	}

	summary.EarnedRestDays = summary.WorkedDays / a.Policy.RestDayBlock

	dailyRate := summary.DailyRate
	summary.RestDayPayout = a.Policy.RoundMoney(
		dailyRate.Mul(decimal.NewFromInt(int64(summary.EarnedRestDays))))
	summary.AbsenceDeductions = a.Policy.RoundMoney(
		dailyRate.Mul(a.Policy.WithPermissionFactor).Mul(decimal.NewFromInt(int64(summary.WithPermissionAbsences))).
			Add(dailyRate.Mul(a.Policy.WithoutPermissionFactor).Mul(decimal.NewFromInt(int64(summary.WithoutPermissionAbsences)))))

	summary.GrossPay = a.Policy.RoundMoney(
		summary.BasePay.Add(summary.RestDayPayout).Sub(summary.AbsenceDeductions))

	for _, exp := range expenses {
		if exp.UserID != u.ID || !month.Contains(exp.ExpenseDate) {
			continue
		}
		summary.ExpenseTotal = summary.ExpenseTotal.Add(exp.Amount)
	}
	summary.ExpenseTotal = a.Policy.RoundMoney(summary.ExpenseTotal)
	summary.NetPay = a.Policy.RoundMoney(summary.GrossPay.Sub(summary.ExpenseTotal))

	return summary
}

// zeroSummary carries the identity and the caller-visible daily rate even
// when no records exist or aggregation faulted.
func (a *Aggregator) zeroSummary(u User, month Month) MonthSummary {
	return MonthSummary{
		UserID:    u.ID,
		UserName:  u.Name,
		Month:     month,
		DailyRate: a.Policy.DailyRate(u.MonthlySalary),
	}
}
