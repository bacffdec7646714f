package payroll

import "time"

// =============================================================================
// SHIFT SCHEDULE - Scheduled work window for a calendar day
// =============================================================================

// Shift is the scheduled work window used as the baseline for
// regular/overtime classification.
type Shift struct {
	Start time.Time
	End   time.Time
}

// Duration returns the scheduled shift length.
func (s Shift) Duration() time.Duration { return s.End.Sub(s.Start) }

// ScheduleFor resolves the scheduled shift for a date. The policy applies
// the same window on every calendar day: no weekday variation, no
// holidays. Pure function of the date.
func (p PayPolicy) ScheduleFor(d Date) Shift {
	start := d.At(p.ShiftStartHour, p.ShiftStartMinute)
	return Shift{
		Start: start,
		End:   start.Add(time.Duration(p.ShiftHours) * time.Hour),
	}
}
