/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY AND HOURS:
  All decimal amounts are serialized as JSON strings ("123.45"), never
  floats. Clients parse them with their own decimal types.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - payroll/types.go: Domain model these map from
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	Enabled            bool   `json:"enabled"`
	MonthlySalary      string `json:"monthlySalary"`
	OvertimeMultiplier string `json:"overtimeMultiplier"`
	HasSalary          bool   `json:"hasSalary"`
}

// SaveUserRequest creates or replaces a user.
type SaveUserRequest struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	Enabled            *bool  `json:"enabled"` // nil defaults to true
	MonthlySalary      string `json:"monthlySalary"`
	OvertimeMultiplier string `json:"overtimeMultiplier"`
}

// RecordDayRequest is one attendance submission.
type RecordDayRequest struct {
	UserID   string `json:"userId"`
	Date     string `json:"date"`   // YYYY-MM-DD
	Status   string `json:"status"` // present | absent_with_permission | absent_without_permission
	CheckIn  string `json:"checkIn,omitempty"`  // HH:MM, local to the shift day
	CheckOut string `json:"checkOut,omitempty"` // HH:MM
	Notes    string `json:"notes,omitempty"`
}

// DayResultDTO is the calculated outcome of one day.
type DayResultDTO struct {
	Status        string `json:"status"`
	IsPresent     bool   `json:"isPresent"`
	Permission    string `json:"permission"`
	RegularHours  string `json:"regularHours"`
	OvertimeHours string `json:"overtimeHours"`
	DailyPay      string `json:"dailyPay"`
	NeedsSalary   bool   `json:"needsSalary"`
}

// RecordDTO is a persisted attendance record.
type RecordDTO struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	Date          string `json:"date"`
	Status        string `json:"status"`
	IsPresent     bool   `json:"isPresent"`
	Permission    string `json:"permission"`
	CheckIn       string `json:"checkIn,omitempty"`
	CheckOut      string `json:"checkOut,omitempty"`
	RegularHours  string `json:"regularHours"`
	OvertimeHours string `json:"overtimeHours"`
	DailyPay      string `json:"dailyPay"`
	NeedsSalary   bool   `json:"needsSalary"`
	Notes         string `json:"notes,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// AddExpenseRequest registers an expense against a user's net pay.
type AddExpenseRequest struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Amount   string `json:"amount"`
	Category string `json:"category,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ExpenseDTO is a persisted expense.
type ExpenseDTO struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Category string `json:"category,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// MonthSummaryDTO is one user's monthly payroll summary.
type MonthSummaryDTO struct {
	UserID                    string `json:"userId"`
	UserName                  string `json:"userName"`
	Month                     string `json:"month"` // YYYY-MM
	WorkedDays                int    `json:"workedDays"`
	EarnedRestDays            int    `json:"earnedRestDays"`
	WithPermissionAbsences    int    `json:"withPermissionAbsences"`
	WithoutPermissionAbsences int    `json:"withoutPermissionAbsences"`
	RegularHours              string `json:"regularHours"`
	OvertimeHours             string `json:"overtimeHours"`
	DailyRate                 string `json:"dailyRate"`
	BasePay                   string `json:"basePay"`
	RestDayPayout             string `json:"restDayPayout"`
	AbsenceDeductions         string `json:"absenceDeductions"`
	GrossPay                  string `json:"grossPay"`
	ExpenseTotal              string `json:"expenseTotal"`
	NetPay                    string `json:"netPay"`
	NeedsSalary               bool   `json:"needsSalary"`
}

// TotalsDTO is the organisation-wide reduction over summaries.
type TotalsDTO struct {
	Users             int    `json:"users"`
	PresentDays       int    `json:"presentDays"`
	AbsentDays        int    `json:"absentDays"`
	OvertimeHours     string `json:"overtimeHours"`
	RestDayPayout     string `json:"restDayPayout"`
	AbsenceDeductions string `json:"absenceDeductions"`
	GrossPay          string `json:"grossPay"`
	NetPay            string `json:"netPay"`
}

// MonthReportDTO is summaries plus totals for one month.
type MonthReportDTO struct {
	Month     string            `json:"month"`
	Summaries []MonthSummaryDTO `json:"summaries"`
	Totals    TotalsDTO         `json:"totals"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toUserDTO(u payroll.User) UserDTO {
	return UserDTO{
		ID:                 string(u.ID),
		Name:               u.Name,
		Role:               u.Role,
		Enabled:            u.Enabled,
		MonthlySalary:      u.MonthlySalary.String(),
		OvertimeMultiplier: u.OvertimeMultiplier.String(),
		HasSalary:          u.HasSalary(),
	}
}

func toDayResultDTO(r payroll.DayResult) DayResultDTO {
	return DayResultDTO{
		Status:        string(r.Status),
		IsPresent:     r.IsPresent,
		Permission:    string(r.Permission),
		RegularHours:  r.RegularHours.String(),
		OvertimeHours: r.OvertimeHours.String(),
		DailyPay:      r.DailyPay.String(),
		NeedsSalary:   r.NeedsSalary,
	}
}

func toRecordDTO(rec payroll.AttendanceRecord) RecordDTO {
	dto := RecordDTO{
		ID:            string(rec.ID),
		UserID:        string(rec.UserID),
		UserName:      rec.UserName,
		Date:          rec.Date.String(),
		Status:        string(rec.Status),
		IsPresent:     rec.IsPresent,
		Permission:    string(rec.Permission),
		RegularHours:  rec.RegularHours.String(),
		OvertimeHours: rec.OvertimeHours.String(),
		DailyPay:      rec.DailyPay.String(),
		NeedsSalary:   rec.NeedsSalary,
		Notes:         rec.Notes,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.CheckIn != nil {
		dto.CheckIn = rec.CheckIn.Format("15:04")
	}
	if rec.CheckOut != nil {
		dto.CheckOut = rec.CheckOut.Format("15:04")
	}
	return dto
}

func toExpenseDTO(e payroll.EmployeeExpense) ExpenseDTO {
	return ExpenseDTO{
		ID:       string(e.ID),
		UserID:   string(e.UserID),
		Date:     e.ExpenseDate.String(),
		Amount:   e.Amount.String(),
		Category: e.Category,
		Notes:    e.Notes,
	}
}

func toSummaryDTO(s payroll.MonthSummary) MonthSummaryDTO {
	return MonthSummaryDTO{
		UserID:                    string(s.UserID),
		UserName:                  s.UserName,
		Month:                     s.Month.String(),
		WorkedDays:                s.WorkedDays,
		EarnedRestDays:            s.EarnedRestDays,
		WithPermissionAbsences:    s.WithPermissionAbsences,
		WithoutPermissionAbsences: s.WithoutPermissionAbsences,
		RegularHours:              s.RegularHours.String(),
		OvertimeHours:             s.OvertimeHours.String(),
		DailyRate:                 s.DailyRate.String(),
		BasePay:                   s.BasePay.String(),
		RestDayPayout:             s.RestDayPayout.String(),
		AbsenceDeductions:         s.AbsenceDeductions.String(),
		GrossPay:                  s.GrossPay.String(),
		ExpenseTotal:              s.ExpenseTotal.String(),
		NetPay:                    s.NetPay.String(),
		NeedsSalary:               s.NeedsSalary,
	}
}

func toReportDTO(r attendance.MonthReport) MonthReportDTO {
	summaries := make([]MonthSummaryDTO, len(r.Summaries))
	for i, s := range r.Summaries {
		summaries[i] = toSummaryDTO(s)
	}
	return MonthReportDTO{
		Month:     r.Month.String(),
		Summaries: summaries,
		Totals: TotalsDTO{
			Users:             r.Totals.Users,
			PresentDays:       r.Totals.PresentDays,
			AbsentDays:        r.Totals.AbsentDays,
			OvertimeHours:     r.Totals.OvertimeHours.String(),
			RestDayPayout:     r.Totals.RestDayPayout.String(),
			AbsenceDeductions: r.Totals.AbsenceDeductions.String(),
			GrossPay:          r.Totals.GrossPay.String(),
			NetPay:            r.Totals.NetPay.String(),
		},
	}
}
