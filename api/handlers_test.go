/*
handlers_test.go - HTTP API behavior

WHAT IS TESTED:
  - Endpoint wiring end to end (router -> handler -> service -> store)
  - Error mapping: 400 for bad input, 404 for missing users,
    409 for duplicate day submissions
  - JSON shapes for records, summaries, and the month report

Tests run against the in-memory store with a pinned clock.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/memory"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore()
	svc := attendance.NewService(store, payroll.DefaultPolicy(), nil).
		WithClock(func() time.Time {
			return time.Date(2025, time.March, 31, 12, 0, 0, 0, time.UTC)
		})
	return api.NewRouter(api.NewHandler(svc), nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func createUser(t *testing.T, router http.Handler, id, name, salary string) {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/users", map[string]any{
		"id":            id,
		"name":          name,
		"monthlySalary": salary,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func recordDayBody(userID, date string) map[string]any {
	return map[string]any{
		"userId":   userID,
		"date":     date,
		"status":   "present",
		"checkIn":  "08:00",
		"checkOut": "16:00",
	}
}

func TestCreateAndGetUser(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	rr := doJSON(t, router, http.MethodGet, "/api/users/u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	user := decodeBody[api.UserDTO](t, rr)
	assert.Equal(t, "Ana", user.Name)
	assert.True(t, user.Enabled)
	assert.True(t, user.HasSalary)
}

func TestGetUser_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodGet, "/api/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecordDay_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	rr := doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u1", "2025-03-10"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rec := decodeBody[api.RecordDTO](t, rr)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "2025-03-10", rec.Date)
	assert.Equal(t, "8", rec.RegularHours)
	assert.Equal(t, "80", rec.DailyPay)
	assert.Equal(t, "08:00", rec.CheckIn)
	assert.Equal(t, "16:00", rec.CheckOut)

	// Retrievable via GET
	rr = doJSON(t, router, http.MethodGet, "/api/attendance/u1/2025-03-10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeBody[api.RecordDTO](t, rr)
	assert.Equal(t, rec.ID, got.ID)
}

func TestRecordDay_DuplicateIs409(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	rr := doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u1", "2025-03-10"))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u1", "2025-03-10"))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRecordDay_BadInput(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	// Legacy status value is rejected at parse time
	body := recordDayBody("u1", "2025-03-10")
	body["status"] = "reset"
	rr := doJSON(t, router, http.MethodPost, "/api/attendance", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Check-out before check-in
	body = recordDayBody("u1", "2025-03-11")
	body["checkIn"] = "16:00"
	body["checkOut"] = "08:00"
	rr = doJSON(t, router, http.MethodPost, "/api/attendance", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Malformed date
	body = recordDayBody("u1", "10/03/2025")
	rr = doJSON(t, router, http.MethodPost, "/api/attendance", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecordDay_UnknownUserIs404(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("ghost", "2025-03-10"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPreviewDay_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	body := recordDayBody("u1", "2025-03-10")
	body["checkOut"] = "18:00" // two hours past shift end
	rr := doJSON(t, router, http.MethodPost, "/api/attendance/preview", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	result := decodeBody[api.DayResultDTO](t, rr)
	assert.Equal(t, "8", result.RegularHours)
	assert.Equal(t, "2", result.OvertimeHours)
	assert.Equal(t, "110", result.DailyPay)

	// Preview does not persist; the day can still be recorded
	rr = doJSON(t, router, http.MethodPost, "/api/attendance", body)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestUserSummary_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	for _, date := range []string{"2025-03-03", "2025-03-04", "2025-03-05"} {
		rr := doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u1", date))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/api/users/u1/summary?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	summary := decodeBody[api.MonthSummaryDTO](t, rr)
	assert.Equal(t, 3, summary.WorkedDays)
	assert.Equal(t, 0, summary.EarnedRestDays)
	assert.Equal(t, "240", summary.BasePay)
	assert.Equal(t, "240", summary.NetPay)
}

func TestUserSummary_MissingMonthParam(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	rr := doJSON(t, router, http.MethodGet, "/api/users/u1/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMonthReport_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")
	createUser(t, router, "u2", "Ben", "2400")

	rr := doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u1", "2025-03-10"))
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, http.MethodPost, "/api/attendance", recordDayBody("u2", "2025-03-10"))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/payroll/report?month=2025-03", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	report := decodeBody[api.MonthReportDTO](t, rr)
	assert.Equal(t, "2025-03", report.Month)
	require.Len(t, report.Summaries, 2)
	assert.Equal(t, 2, report.Totals.Users)
	assert.Equal(t, "160", report.Totals.GrossPay)
}

func TestAddExpense_Endpoint(t *testing.T) {
	router := newTestRouter(t)
	createUser(t, router, "u1", "Ana", "2400")

	rr := doJSON(t, router, http.MethodPost, "/api/users/u1/expenses", map[string]any{
		"date":     "2025-03-15",
		"amount":   "50",
		"category": "uniform",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	exp := decodeBody[api.ExpenseDTO](t, rr)
	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, "50", exp.Amount)

	// Negative amount rejected
	rr = doJSON(t, router, http.MethodPost, "/api/users/u1/expenses", map[string]any{
		"date":   "2025-03-15",
		"amount": "-5",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
