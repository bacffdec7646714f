/*
daily.go - Per-day hours and pay computation

PURPOSE:
  Classifies one attendance day and, for present days, computes regular
  hours, overtime hours, and daily pay against the scheduled shift.

CLASSIFICATION:
  Present:                  requires check-in and check-out
  AbsentWithPermission:     times ignored, everything zero
  AbsentWithoutPermission:  times ignored, everything zero

HOURS MODEL:
  Regular hours are the overlap between the actual [checkIn, checkOut)
  interval and the scheduled shift window, capped at the shift length.
  Overtime is only the time worked strictly AFTER the scheduled end.
  Early arrival earns nothing extra; a shortened shift simply produces
  fewer regular hours.

      08:00            16:00
        |----- shift ----|
   07:30 |===== work =========| 18:00
        regular: 8h       overtime: 2h

PAY MODEL:
  hourlyRate   = monthlySalary / 30 / 8
  overtimeRate = hourlyRate * multiplier
  dailyPay     = round(regular*hourlyRate + overtime*overtimeRate, 2)

  A zero salary defers pay to zero with NeedsSalary set instead of
  failing; the day is still recordable while payroll setup lags.

SEE ALSO:
  - shift.go:   Shift window resolution
  - monthly.go: Aggregation of persisted day results
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculator computes per-day attendance results. Stateless; safe for
// concurrent use.
type Calculator struct {
	Policy PayPolicy
}

// NewCalculator returns a Calculator with the given policy.
func NewCalculator(policy PayPolicy) *Calculator {
	return &Calculator{Policy: policy}
}

// CalculateDay validates one day's raw input and computes its result.
// Validation failures are returned as *ValidationFailure for inline
// re-prompting; a computed DayResult is never partially filled.
func (c *Calculator) CalculateDay(u User, d Date, status Status, checkIn, checkOut *time.Time) (DayResult, error) {
	switch status {
	case StatusAbsentWithPermission, StatusAbsentWithoutPermission:
		// Times are ignored even if supplied.
		return DayResult{
			Status:     status,
			IsPresent:  false,
			Permission: status.PermissionType(),
		}, nil

	case StatusPresent:
		return c.presentDay(u, d, checkIn, checkOut)

	default:
		return DayResult{}, &ValidationFailure{Field: "status", Message: "unknown status " + string(status), Err: ErrUnknownStatus}
	}
}

func (c *Calculator) presentDay(u User, d Date, checkIn, checkOut *time.Time) (DayResult, error) {
	if checkIn == nil || checkOut == nil {
		return DayResult{}, &ValidationFailure{Field: "check_times", Message: "present day requires both check-in and check-out", Err: ErrMissingCheckTimes}
	}
	if !checkOut.After(*checkIn) {
		return DayResult{}, &ValidationFailure{Field: "check_out", Message: "check-out must be after check-in", Err: ErrCheckOutNotAfterCheckIn}
	}

	shift := c.Policy.ScheduleFor(d)

	regular := c.Policy.RoundHours(c.regularHours(*checkIn, *checkOut, shift))
	overtime := c.Policy.RoundHours(c.overtimeHours(*checkOut, shift))

	result := DayResult{
		Status:        StatusPresent,
		IsPresent:     true,
		Permission:    PermissionNone,
		RegularHours:  regular,
		OvertimeHours: overtime,
	}

	if !u.HasSalary() {
		result.NeedsSalary = true
		result.DailyPay = decimal.Zero
		return result, nil
	}

	hourlyRate := c.Policy.HourlyRate(u.MonthlySalary)
	overtimeRate := hourlyRate.Mul(c.Policy.OvertimeMultiplier(u))
	result.DailyPay = c.Policy.RoundMoney(
		regular.Mul(hourlyRate).Add(overtime.Mul(overtimeRate)),
	)
	return result, nil
}

// regularHours is the overlap of [checkIn, checkOut) with the shift
// window, clamped to [0, shift length].
func (c *Calculator) regularHours(checkIn, checkOut time.Time, shift Shift) decimal.Decimal {
	overlapStart := checkIn
	if shift.Start.After(overlapStart) {
		overlapStart = shift.Start
	}
	overlapEnd := checkOut
	if shift.End.Before(overlapEnd) {
		overlapEnd = shift.End
	}

	overlap := overlapEnd.Sub(overlapStart)
	if overlap < 0 {
		overlap = 0
	}
	if max := shift.Duration(); overlap > max {
		overlap = max
	}
	return hoursOf(overlap)
}

// overtimeHours is the time worked strictly after the scheduled end.
func (c *Calculator) overtimeHours(checkOut time.Time, shift Shift) decimal.Decimal {
	extra := checkOut.Sub(shift.End)
	if extra < 0 {
		extra = 0
	}
	return hoursOf(extra)
}

func hoursOf(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(decimal.NewFromInt(3600))
}
