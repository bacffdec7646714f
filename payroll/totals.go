package payroll

// =============================================================================
// TOTALS REDUCER - Organization-wide sums over per-user summaries
// =============================================================================

// ReduceTotals folds per-user month summaries into organization totals.
// Pure field-wise summation; exists so report call sites cannot drift
// from the displayed per-user rows. An empty or nil input yields all
// zeros.
func ReduceTotals(summaries []MonthSummary) Totals {
	var t Totals
	for _, s := range summaries {
		t.Users++
		t.PresentDays += s.WorkedDays
		t.AbsentDays += s.WithPermissionAbsences + s.WithoutPermissionAbsences
		t.OvertimeHours = t.OvertimeHours.Add(s.OvertimeHours)
		t.RestDayPayout = t.RestDayPayout.Add(s.RestDayPayout)
		t.AbsenceDeductions = t.AbsenceDeductions.Add(s.AbsenceDeductions)
		t.GrossPay = t.GrossPay.Add(s.GrossPay)
		t.NetPay = t.NetPay.Add(s.NetPay)
	}
	return t
}
