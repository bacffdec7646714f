package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) payroll.Date { return payroll.NewDate(y, m, d) }

func clock(d payroll.Date, hour, minute int) *time.Time {
	t := d.At(hour, minute)
	return &t
}

// salariedUser earns 2400/month: daily rate 80, hourly rate 10.
func salariedUser() payroll.User {
	return payroll.User{
		ID:            "emp-1",
		Name:          "Amal",
		Enabled:       true,
		MonthlySalary: dec("2400"),
	}
}

func newCalc() *payroll.Calculator {
	return payroll.NewCalculator(payroll.DefaultPolicy())
}

// =============================================================================
// HOURS CLASSIFICATION
// =============================================================================

func TestCalculateDay_FullShift_EightRegularNoOvertime(t *testing.T) {
	// GIVEN: Present day worked exactly 08:00-16:00
	// WHEN: Calculating the day
	// THEN: 8 regular hours, 0 overtime

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 16, 0))

	require.NoError(t, err)
	assert.True(t, result.IsPresent)
	assert.True(t, result.RegularHours.Equal(dec("8")), "regular = %s", result.RegularHours)
	assert.True(t, result.OvertimeHours.IsZero(), "overtime = %s", result.OvertimeHours)
}

func TestCalculateDay_WorkPastShiftEnd_CountsOvertime(t *testing.T) {
	// GIVEN: Present day worked 08:00-18:00
	// WHEN: Calculating the day
	// THEN: 8 regular hours, 2 overtime hours

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 18, 0))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.Equal(dec("8")))
	assert.True(t, result.OvertimeHours.Equal(dec("2")))
}

func TestCalculateDay_ShortenedShift_NoOvertime(t *testing.T) {
	// GIVEN: Present day worked 09:00-15:00
	// WHEN: Calculating the day
	// THEN: 6 regular hours and no overtime; the shortfall is not made up

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 9, 0), clock(d, 15, 0))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.Equal(dec("6")))
	assert.True(t, result.OvertimeHours.IsZero())
}

func TestCalculateDay_EarlyArrival_EarnsNothingExtra(t *testing.T) {
	// GIVEN: Worked 06:30-16:00, starting well before the shift
	// WHEN: Calculating the day
	// THEN: Time before 08:00 neither adds regular hours beyond the cap
	//       nor counts as overtime

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 6, 30), clock(d, 16, 0))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.Equal(dec("8")))
	assert.True(t, result.OvertimeHours.IsZero())
}

func TestCalculateDay_WorkEntirelyAfterShift_OnlyOvertime(t *testing.T) {
	// GIVEN: Worked 17:00-19:00, entirely past the scheduled end
	// WHEN: Calculating the day
	// THEN: No overlap with the shift, 2 hours overtime

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 17, 0), clock(d, 19, 0))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.IsZero(), "regular = %s", result.RegularHours)
	assert.True(t, result.OvertimeHours.Equal(dec("2")))
}

// =============================================================================
// ABSENCES
// =============================================================================

func TestCalculateDay_Absences_ZeroEverythingAndIgnoreTimes(t *testing.T) {
	// GIVEN: Absent days with check times mistakenly supplied
	// WHEN: Calculating each absence class
	// THEN: Hours and pay are zero regardless of supplied times

	d := date(2025, time.March, 10)
	for _, status := range []payroll.Status{
		payroll.StatusAbsentWithPermission,
		payroll.StatusAbsentWithoutPermission,
	} {
		result, err := newCalc().CalculateDay(salariedUser(), d, status,
			clock(d, 8, 0), clock(d, 18, 0))

		require.NoError(t, err, "status %s", status)
		assert.False(t, result.IsPresent)
		assert.True(t, result.RegularHours.IsZero())
		assert.True(t, result.OvertimeHours.IsZero())
		assert.True(t, result.DailyPay.IsZero())
		assert.Equal(t, status.PermissionType(), result.Permission)
	}
}

// =============================================================================
// VALIDATION FAILURES
// =============================================================================

func TestCalculateDay_MissingTimes_ValidationFailure(t *testing.T) {
	// GIVEN: A present day with no check-out
	// WHEN: Calculating the day
	// THEN: Structured validation failure, never a computed result

	d := date(2025, time.March, 10)
	_, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 8, 0), nil)

	require.Error(t, err)
	assert.True(t, payroll.IsValidationFailure(err))
	assert.ErrorIs(t, err, payroll.ErrMissingCheckTimes)
}

func TestCalculateDay_CheckOutNotAfterCheckIn_ValidationFailure(t *testing.T) {
	// GIVEN: check-out equal to and before check-in
	// WHEN: Calculating the day
	// THEN: Validation failure in both cases

	d := date(2025, time.March, 10)
	cases := []struct{ inH, inM, outH, outM int }{
		{16, 0, 16, 0}, // equal
		{16, 0, 8, 0},  // inverted
	}
	for _, tc := range cases {
		_, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
			clock(d, tc.inH, tc.inM), clock(d, tc.outH, tc.outM))

		require.Error(t, err)
		assert.True(t, payroll.IsValidationFailure(err))
		assert.ErrorIs(t, err, payroll.ErrCheckOutNotAfterCheckIn)
	}
}

func TestParseStatus_RejectsUnknownAndLegacy(t *testing.T) {
	// GIVEN: Unknown and retired status strings
	// WHEN: Parsing
	// THEN: Both rejected as validation failures

	for _, raw := range []string{"reset", "vacation", ""} {
		_, err := payroll.ParseStatus(raw)
		require.Error(t, err, "raw %q", raw)
		assert.ErrorIs(t, err, payroll.ErrUnknownStatus)
		assert.True(t, payroll.IsValidationFailure(err))
	}

	status, err := payroll.ParseStatus("absent_with_permission")
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusAbsentWithPermission, status)
}

// =============================================================================
// PAY COMPUTATION
// =============================================================================

func TestCalculateDay_FullShiftPay_MatchesDailyRate(t *testing.T) {
	// GIVEN: 2400/month (daily rate 80, hourly 10), full shift worked
	// WHEN: Calculating pay
	// THEN: Pay equals the daily rate exactly

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 16, 0))

	require.NoError(t, err)
	assert.True(t, result.DailyPay.Equal(dec("80")), "pay = %s", result.DailyPay)
	assert.False(t, result.NeedsSalary)
}

func TestCalculateDay_OvertimePay_UsesMultiplier(t *testing.T) {
	// GIVEN: Hourly rate 10, default 1.5x multiplier, 2 hours overtime
	// WHEN: Calculating pay for 08:00-18:00
	// THEN: 8*10 + 2*15 = 110.00

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(salariedUser(), d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 18, 0))

	require.NoError(t, err)
	assert.True(t, result.DailyPay.Equal(dec("110")), "pay = %s", result.DailyPay)
}

func TestCalculateDay_PerUserMultiplier_OverridesDefault(t *testing.T) {
	// GIVEN: A user with a 2x overtime multiplier
	// WHEN: Calculating pay for 08:00-18:00
	// THEN: 8*10 + 2*20 = 120.00

	u := salariedUser()
	u.OvertimeMultiplier = dec("2")

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(u, d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 18, 0))

	require.NoError(t, err)
	assert.True(t, result.DailyPay.Equal(dec("120")), "pay = %s", result.DailyPay)
}

func TestCalculateDay_NoSalary_DefersPayWithFlag(t *testing.T) {
	// GIVEN: A user whose salary is not yet configured
	// WHEN: Calculating a full present day
	// THEN: Hours computed, pay deferred to zero, NeedsSalary set; no error

	u := payroll.User{ID: "emp-2", Name: "Nur"}
	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(u, d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 16, 0))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.Equal(dec("8")))
	assert.True(t, result.DailyPay.IsZero())
	assert.True(t, result.NeedsSalary)
}

// =============================================================================
// ROUNDING
// =============================================================================

func TestRounding_HalfAwayFromZero(t *testing.T) {
	// GIVEN: The default policy
	// WHEN: Rounding exact halves
	// THEN: Half rounds away from zero, not to even

	p := payroll.DefaultPolicy()
	assert.True(t, p.RoundMoney(dec("2.005")).Equal(dec("2.01")))
	assert.True(t, p.RoundMoney(dec("2.015")).Equal(dec("2.02")))
	assert.True(t, p.RoundMoney(dec("-2.005")).Equal(dec("-2.01")))
	assert.True(t, p.RoundHours(dec("7.335")).Equal(dec("7.34")))
}

func TestCalculateDay_FractionalHoursPay_RoundedAtComputation(t *testing.T) {
	// GIVEN: 720/month (hourly rate exactly 3.0), worked 08:00-15:20
	// WHEN: Calculating the day
	// THEN: 7h20m rounds to 7.33 regular hours; pay = 7.33*3 = 21.99,
	//       already rounded when stored

	u := salariedUser()
	u.MonthlySalary = dec("720")

	d := date(2025, time.March, 10)
	result, err := newCalc().CalculateDay(u, d, payroll.StatusPresent,
		clock(d, 8, 0), clock(d, 15, 20))

	require.NoError(t, err)
	assert.True(t, result.RegularHours.Equal(dec("7.33")), "regular = %s", result.RegularHours)
	assert.True(t, result.DailyPay.Equal(dec("21.99")), "pay = %s", result.DailyPay)
}

// =============================================================================
// SHIFT SCHEDULE
// =============================================================================

func TestScheduleFor_FixedWindowEveryDay(t *testing.T) {
	// GIVEN: The default policy
	// WHEN: Resolving the shift for a weekday, a weekend day, and a holiday
	// THEN: Always 08:00-16:00 on that day

	p := payroll.DefaultPolicy()
	for _, d := range []payroll.Date{
		date(2025, time.March, 10), // Monday
		date(2025, time.March, 15), // Saturday
		date(2025, time.December, 25),
	} {
		shift := p.ScheduleFor(d)
		assert.Equal(t, d.At(8, 0), shift.Start, "start on %s", d)
		assert.Equal(t, d.At(16, 0), shift.End, "end on %s", d)
		assert.Equal(t, 8*time.Hour, shift.Duration())
	}
}
