/*
policy.go - Pay policy configuration

PURPOSE:
  Bundles every tunable constant of the pay rules so the calculators take
  explicit configuration instead of reading globals. The defaults encode
  the canonical rule set:

    - Shift: 08:00 start, 8 hours, every calendar day
    - Daily rate: monthlySalary / 30
    - Hourly rate: daily rate / 8
    - Overtime: hourly rate x per-user multiplier (1.5 when unset)
    - Rest days: 1 earned per 6 worked days in a month
    - Absences: 1x daily rate with permission, 2x without
    - Money and hours rounded to 2 decimal places, half away from zero

  An older rule generation divided salary by the calendar month length and
  fixed the multiplier at 1.5; that variant is intentionally not modeled.
*/
package payroll

import "github.com/shopspring/decimal"

// PayPolicy is the complete ruleset for attendance pay computation.
type PayPolicy struct {
	// Scheduled shift window, identical on every calendar day.
	ShiftStartHour   int
	ShiftStartMinute int
	ShiftHours       int

	// Salary divisor for the daily rate. 30 regardless of month length.
	DailyRateDivisor int

	// Worked days per earned rest day.
	RestDayBlock int

	// Daily-rate multiples deducted per absence class.
	WithPermissionFactor    decimal.Decimal
	WithoutPermissionFactor decimal.Decimal

	// Overtime multiplier applied when the user has none configured.
	DefaultOvertimeMultiplier decimal.Decimal

	// Display configuration carried for report consumers.
	CurrencySymbol string

	// Rounding, applied at computation time (half away from zero).
	MoneyPlaces int32
	HoursPlaces int32
}

// DefaultPolicy returns the canonical rule set.
func DefaultPolicy() PayPolicy {
	return PayPolicy{
		ShiftStartHour:            8,
		ShiftStartMinute:          0,
		ShiftHours:                8,
		DailyRateDivisor:          30,
		RestDayBlock:              6,
		WithPermissionFactor:      decimal.NewFromInt(1),
		WithoutPermissionFactor:   decimal.NewFromInt(2),
		DefaultOvertimeMultiplier: decimal.RequireFromString("1.5"),
		CurrencySymbol:            "$",
		MoneyPlaces:               2,
		HoursPlaces:               2,
	}
}

// DailyRate returns monthlySalary / divisor, rounded as money.
func (p PayPolicy) DailyRate(monthlySalary decimal.Decimal) decimal.Decimal {
	return p.RoundMoney(monthlySalary.Div(decimal.NewFromInt(int64(p.DailyRateDivisor))))
}

// HourlyRate returns the unrounded base hourly rate. Rounding happens on
// the final pay figure, not on intermediate rates, so a full shift at a
// round salary reproduces the daily rate exactly.
func (p PayPolicy) HourlyRate(monthlySalary decimal.Decimal) decimal.Decimal {
	return monthlySalary.
		Div(decimal.NewFromInt(int64(p.DailyRateDivisor))).
		Div(decimal.NewFromInt(int64(p.ShiftHours)))
}

// OvertimeMultiplier resolves the user's multiplier, falling back to the
// policy default when unset or non-positive.
func (p PayPolicy) OvertimeMultiplier(u User) decimal.Decimal {
	if u.OvertimeMultiplier.IsPositive() {
		return u.OvertimeMultiplier
	}
	return p.DefaultOvertimeMultiplier
}

// RoundMoney rounds a currency amount half away from zero.
func (p PayPolicy) RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(p.MoneyPlaces)
}

// RoundHours rounds an hour quantity half away from zero.
func (p PayPolicy) RoundHours(d decimal.Decimal) decimal.Decimal {
	return d.Round(p.HoursPlaces)
}
