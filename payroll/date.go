package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, time-of-day truncated
// =============================================================================

// Date is a calendar day. Attendance keys on dates, never on instants:
// exactly one record may exist per (user, date), so the time-of-day is
// always truncated.
type Date struct {
	Time time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool  { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool  { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

// At returns the instant at the given wall-clock time on this day.
func (d Date) At(hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// MONTH - The aggregation boundary for payroll
// =============================================================================

// Month identifies a payroll cycle. Summaries are ALWAYS computed for a
// month, recomputable at any time from that month's records.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing the given date.
func MonthOf(d Date) Month {
	return Month{Year: d.Year(), Month: d.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (use YYYY-MM): %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Start returns the first day of the month.
func (m Month) Start() Date { return NewDate(m.Year, m.Month, 1) }

// End returns the last day of the month.
func (m Month) End() Date {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return DateOf(t)
}

// Contains returns true if the date falls within the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// Days returns the number of calendar days in the month.
func (m Month) Days() int { return m.End().Day() }

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
