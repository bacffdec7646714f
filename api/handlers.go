/*
handlers.go - HTTP API handlers for the attendance and payroll engine

PURPOSE:
  Exposes the attendance service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Users:
    GET    /api/users                   List all users
    POST   /api/users                   Create or replace user
    GET    /api/users/{id}              Get user details
    GET    /api/users/{id}/records      Month's attendance records (?month=YYYY-MM)
    GET    /api/users/{id}/summary      Monthly payroll summary (?month=YYYY-MM)
    POST   /api/users/{id}/expenses     Register an expense

  Attendance:
    POST   /api/attendance              Record one day
    POST   /api/attendance/preview      Calculate a day without saving
    GET    /api/attendance/{userId}/{date}  Get one record

  Payroll:
    GET    /api/payroll/report          Organisation report (?month=YYYY-MM)

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (attendance service)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: User or record not found
  - 409: Duplicate day submission
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - attendance/service.go: Domain logic handlers delegate to
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *attendance.Service
}

// NewHandler creates a new handler over the attendance service.
func NewHandler(svc *attendance.Service) *Handler {
	return &Handler{Service: svc}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUser returns a single user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := payroll.UserID(chi.URLParam(r, "id"))

	user, err := h.Service.User(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// SaveUser creates or replaces a user.
func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	salary, err := decimal.NewFromString(orZero(req.MonthlySalary))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid monthlySalary", err)
		return
	}
	multiplier := decimal.Zero
	if req.OvertimeMultiplier != "" {
		multiplier, err = decimal.NewFromString(req.OvertimeMultiplier)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid overtimeMultiplier", err)
			return
		}
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	user := payroll.User{
		ID:                 payroll.UserID(req.ID),
		Name:               req.Name,
		Role:               req.Role,
		Enabled:            enabled,
		MonthlySalary:      salary,
		OvertimeMultiplier: multiplier,
	}

	if err := h.Service.SaveUser(r.Context(), user); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// GetUserRecords returns a user's attendance records for a month.
func (h *Handler) GetUserRecords(w http.ResponseWriter, r *http.Request) {
	id := payroll.UserID(chi.URLParam(r, "id"))
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	records, err := h.Service.MonthRecords(r.Context(), id, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUserSummary returns a user's monthly payroll summary.
func (h *Handler) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	id := payroll.UserID(chi.URLParam(r, "id"))
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	summary, err := h.Service.MonthSummary(r.Context(), id, month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// AddExpense registers an expense against a user.
func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id := payroll.UserID(chi.URLParam(r, "id"))

	var req AddExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	exp, err := h.Service.AddExpense(r.Context(), id, date, amount, req.Category, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(exp))
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordDay records one attendance day.
func (h *Handler) RecordDay(w http.ResponseWriter, r *http.Request) {
	in, ok := dayInput(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.RecordDay(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRecordDTO(rec))
}

// PreviewDay calculates a day without persisting it.
func (h *Handler) PreviewDay(w http.ResponseWriter, r *http.Request) {
	in, ok := dayInput(w, r)
	if !ok {
		return
	}

	result, err := h.Service.PreviewDay(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayResultDTO(result))
}

// GetRecord returns one record by user and date.
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := payroll.UserID(chi.URLParam(r, "userId"))
	date, err := payroll.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Service.Record(r.Context(), id, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(rec))
}

func dayInput(w http.ResponseWriter, r *http.Request) (attendance.DayInput, bool) {
	var req RecordDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return attendance.DayInput{}, false
	}

	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return attendance.DayInput{}, false
	}
	status, err := payroll.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid status", err)
		return attendance.DayInput{}, false
	}

	checkIn, err := clockTime(date, req.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid checkIn format (use HH:MM)", err)
		return attendance.DayInput{}, false
	}
	checkOut, err := clockTime(date, req.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid checkOut format (use HH:MM)", err)
		return attendance.DayInput{}, false
	}

	return attendance.DayInput{
		UserID:   payroll.UserID(req.UserID),
		Date:     date,
		Status:   status,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Notes:    req.Notes,
	}, true
}

// clockTime anchors an HH:MM wall-clock value on the given day.
func clockTime(d payroll.Date, hhmm string) (*time.Time, error) {
	if hhmm == "" {
		return nil, nil
	}
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return nil, err
	}
	t := d.At(parsed.Hour(), parsed.Minute())
	return &t, nil
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// MonthReport returns the organisation-wide payroll report for a month.
func (h *Handler) MonthReport(w http.ResponseWriter, r *http.Request) {
	month, ok := monthParam(w, r)
	if !ok {
		return
	}

	report, err := h.Service.MonthReport(r.Context(), month)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// =============================================================================
// HELPERS
// =============================================================================

func monthParam(w http.ResponseWriter, r *http.Request) (payroll.Month, bool) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing month query parameter (use YYYY-MM)", nil)
		return payroll.Month{}, false
	}
	month, err := payroll.ParseMonth(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return payroll.Month{}, false
	}
	return month, true
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, "Attendance already recorded for this day", err)
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case payroll.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
