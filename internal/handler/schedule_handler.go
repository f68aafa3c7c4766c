package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/middleware"
	"github.com/budgetwise/budgetwise-backend/internal/schedule"
	"github.com/budgetwise/budgetwise-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ScheduleHandler handles payment schedule HTTP requests
type ScheduleHandler struct {
	scheduleService *service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
	}
}

// NextPaymentResponse is the next occurrence of one payment.
// NextDate is null when the payment has no occurrence left.
type NextPaymentResponse struct {
	PaymentID int32   `json:"paymentId"`
	From      string  `json:"from"`
	NextDate  *string `json:"nextDate"`
}

// PaymentDatesResponse lists the occurrences of one payment in a range
type PaymentDatesResponse struct {
	PaymentID int32    `json:"paymentId"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Dates     []string `json:"dates"`
}

// UpcomingPaymentResponse is one occurrence in the upcoming window
type UpcomingPaymentResponse struct {
	PaymentID  int32  `json:"paymentId"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Type       string `json:"type"`
	CategoryID *int32 `json:"categoryId,omitempty"`
	Frequency  string `json:"frequency"`
	NextDate   string `json:"nextDate"`
	DaysUntil  int    `json:"daysUntil"`
}

// UpcomingResponse represents the upcoming payments list
type UpcomingResponse struct {
	AsOf string                    `json:"asOf"`
	Days int                       `json:"days"`
	Data []UpcomingPaymentResponse `json:"data"`
}

// ProjectedPaymentResponse is one occurrence inside a projected month
type ProjectedPaymentResponse struct {
	PaymentID int32  `json:"paymentId"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Type      string `json:"type"`
}

// ProjectionResponse represents the expected income and expenses of a month
type ProjectionResponse struct {
	Year     int                        `json:"year"`
	Month    int                        `json:"month"`
	Income   string                     `json:"income"`
	Expenses string                     `json:"expenses"`
	Net      string                     `json:"net"`
	Payments []ProjectedPaymentResponse `json:"payments"`
}

// ForecastResponse represents consecutive monthly projections
type ForecastResponse struct {
	Data []ProjectionResponse `json:"data"`
}

// CalendarDayResponse groups the occurrences falling on one date
type CalendarDayResponse struct {
	Date     string                     `json:"date"`
	Payments []ProjectedPaymentResponse `json:"payments"`
}

// CalendarResponse represents the occurrences of a month grouped by date
type CalendarResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []CalendarDayResponse `json:"days"`
}

// ScheduleSummaryResponse represents the dashboard view of the schedule
type ScheduleSummaryResponse struct {
	AsOf            string                    `json:"asOf"`
	CurrentMonth    ProjectionResponse        `json:"currentMonth"`
	NextMonth       ProjectionResponse        `json:"nextMonth"`
	Upcoming        []UpcomingPaymentResponse `json:"upcoming"`
	NetCurrentMonth string                    `json:"netCurrentMonth"`
}

// GetNextPaymentDate godoc
// @Summary Next occurrence of a payment
// @Description First occurrence on or after the given date, after business-day adjustment
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} NextPaymentResponse
// @Failure 404 {object} ProblemDetails
// @Router /payments/{id}/next [get]
func (h *ScheduleHandler) GetNextPaymentDate(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	from := h.scheduleService.Today()
	if fromParam := c.QueryParam("from"); fromParam != "" {
		from, err = time.Parse(dateLayout, fromParam)
		if err != nil {
			return NewValidationError(c, "Invalid from date", []ValidationError{
				{Field: "from", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
	}

	next, err := h.scheduleService.NextPaymentDate(workspaceID, id, &from)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get next payment date")
	}

	response := NextPaymentResponse{PaymentID: id, From: from.Format(dateLayout)}
	if next != nil {
		formatted := next.Format(dateLayout)
		response.NextDate = &formatted
	}
	return c.JSON(http.StatusOK, response)
}

// GetPaymentDates godoc
// @Summary Occurrences of a payment in a date range
// @Description All occurrences within [from, to], ascending
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} PaymentDatesResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /payments/{id}/dates [get]
func (h *ScheduleHandler) GetPaymentDates(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	from, err := time.Parse(dateLayout, c.QueryParam("from"))
	if err != nil {
		return NewValidationError(c, "Invalid from date", []ValidationError{
			{Field: "from", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}
	to, err := time.Parse(dateLayout, c.QueryParam("to"))
	if err != nil {
		return NewValidationError(c, "Invalid to date", []ValidationError{
			{Field: "to", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	dates, err := h.scheduleService.PaymentDates(workspaceID, id, from, to)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get payment dates")
	}

	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format(dateLayout)
	}

	return c.JSON(http.StatusOK, PaymentDatesResponse{
		PaymentID: id,
		From:      from.Format(dateLayout),
		To:        to.Format(dateLayout),
		Dates:     formatted,
	})
}

// GetUpcoming godoc
// @Summary Upcoming payments
// @Description Every occurrence of the active payments from today through today+days, ordered by date
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param days query int false "Days ahead, defaults to the configured window"
// @Success 200 {object} UpcomingResponse
// @Failure 400 {object} ProblemDetails
// @Router /schedule/upcoming [get]
func (h *ScheduleHandler) GetUpcoming(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	days := h.scheduleService.UpcomingDays()
	if daysParam := c.QueryParam("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil {
			return NewValidationError(c, "Invalid days", []ValidationError{
				{Field: "days", Message: "Must be a whole number"},
			})
		}
		days = parsed
	}

	upcoming, err := h.scheduleService.Upcoming(workspaceID, &days)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid days", []ValidationError{
				{Field: "days", Message: "Days must be between 0 and " + strconv.Itoa(service.MaxUpcomingDays)},
			})
		}
		return h.handleServiceError(c, err, workspaceID, "get upcoming payments")
	}

	return c.JSON(http.StatusOK, UpcomingResponse{
		AsOf: h.scheduleService.Today().Format(dateLayout),
		Days: days,
		Data: toUpcomingResponses(upcoming),
	})
}

// GetProjection godoc
// @Summary Monthly projection
// @Description Expected income and expenses of a month from the active payments
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} ProjectionResponse
// @Failure 400 {object} ProblemDetails
// @Router /schedule/projection/{year}/{month} [get]
func (h *ScheduleHandler) GetProjection(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	month, fieldErr := parseYearMonthParams(c)
	if fieldErr != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{*fieldErr})
	}

	projection, err := h.scheduleService.MonthlyProjection(workspaceID, month)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get monthly projection")
	}

	return c.JSON(http.StatusOK, toProjectionResponse(projection))
}

// GetForecast godoc
// @Summary Multi-month forecast
// @Description Consecutive monthly projections starting at the given month
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param from query string false "First month (YYYY-MM), defaults to the current month"
// @Param months query int false "Number of months" default(6)
// @Success 200 {object} ForecastResponse
// @Failure 400 {object} ProblemDetails
// @Router /schedule/forecast [get]
func (h *ScheduleHandler) GetForecast(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	from := schedule.YearMonthOf(h.scheduleService.Today())
	if fromParam := c.QueryParam("from"); fromParam != "" {
		parsed, err := schedule.ParseYearMonth(fromParam)
		if err != nil {
			return NewValidationError(c, "Invalid from month", []ValidationError{
				{Field: "from", Message: "Must be a month in YYYY-MM format"},
			})
		}
		from = parsed
	}

	months := 6
	if monthsParam := c.QueryParam("months"); monthsParam != "" {
		parsed, err := strconv.Atoi(monthsParam)
		if err != nil {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Must be a whole number"},
			})
		}
		months = parsed
	}

	forecast, err := h.scheduleService.Forecast(workspaceID, from, months)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Months must be between 1 and " + strconv.Itoa(service.MaxForecastMonths)},
			})
		}
		return h.handleServiceError(c, err, workspaceID, "get forecast")
	}

	data := make([]ProjectionResponse, len(forecast))
	for i, p := range forecast {
		data[i] = toProjectionResponse(p)
	}
	return c.JSON(http.StatusOK, ForecastResponse{Data: data})
}

// GetCalendar godoc
// @Summary Payment calendar
// @Description Occurrences of the active payments in a month grouped by date
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} CalendarResponse
// @Failure 400 {object} ProblemDetails
// @Router /schedule/calendar/{year}/{month} [get]
func (h *ScheduleHandler) GetCalendar(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	month, fieldErr := parseYearMonthParams(c)
	if fieldErr != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{*fieldErr})
	}

	days, err := h.scheduleService.Calendar(workspaceID, month)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get payment calendar")
	}

	response := CalendarResponse{
		Year:  month.Year,
		Month: int(month.Month),
		Days:  make([]CalendarDayResponse, len(days)),
	}
	for i, day := range days {
		response.Days[i] = CalendarDayResponse{
			Date:     day.Date.Format(dateLayout),
			Payments: toProjectedPaymentResponses(day.Payments),
		}
	}
	return c.JSON(http.StatusOK, response)
}

// GetSummary godoc
// @Summary Schedule summary
// @Description Current and next month projections with the upcoming payments
// @Tags schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ScheduleSummaryResponse
// @Router /schedule/summary [get]
func (h *ScheduleHandler) GetSummary(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	summary, err := h.scheduleService.Summary(c.Request().Context(), workspaceID)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get schedule summary")
	}

	return c.JSON(http.StatusOK, ScheduleSummaryResponse{
		AsOf:            summary.AsOf.Format(dateLayout),
		CurrentMonth:    toProjectionResponse(summary.CurrentMonth),
		NextMonth:       toProjectionResponse(summary.NextMonth),
		Upcoming:        toUpcomingResponses(summary.Upcoming),
		NetCurrentMonth: summary.NetCurrentMonth.StringFixed(2),
	})
}

// handleServiceError maps service errors to problem details
func (h *ScheduleHandler) handleServiceError(c echo.Context, err error, workspaceID int32, operation string) error {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		return NewNotFoundError(c, "Payment not found")
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "to", Message: "End of range must not be before its start"},
		})
	case errors.Is(err, schedule.ErrInvalidFrequency):
		log.Error().Err(err).Int32("workspace_id", workspaceID).Str("operation", operation).Msg("Stored recurrence is invalid")
		return NewUnprocessableError(c, err.Error())
	}
	log.Error().Err(err).Int32("workspace_id", workspaceID).Str("operation", operation).Msg("Failed to " + operation)
	return NewInternalError(c, "Failed to "+operation)
}

func parseYearMonthParams(c echo.Context) (schedule.YearMonth, *ValidationError) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2200 {
		return schedule.YearMonth{}, &ValidationError{Field: "year", Message: "Year must be between 1900 and 2200"}
	}
	monthNum, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return schedule.YearMonth{}, &ValidationError{Field: "month", Message: "Month must be between 1 and 12"}
	}
	month, err := schedule.NewYearMonth(year, monthNum)
	if err != nil {
		return schedule.YearMonth{}, &ValidationError{Field: "month", Message: "Month must be between 1 and 12"}
	}
	return month, nil
}

func toUpcomingResponses(upcoming []schedule.UpcomingPayment) []UpcomingPaymentResponse {
	result := make([]UpcomingPaymentResponse, len(upcoming))
	for i, u := range upcoming {
		result[i] = UpcomingPaymentResponse{
			PaymentID:  u.ID,
			Name:       u.Name,
			Amount:     u.Amount.StringFixed(2),
			Type:       string(u.Type),
			CategoryID: u.CategoryID,
			Frequency:  u.Recurrence.Frequency.String(),
			NextDate:   u.NextDate.Format(dateLayout),
			DaysUntil:  u.DaysUntil,
		}
	}
	return result
}

func toProjectedPaymentResponses(payments []schedule.ProjectedPayment) []ProjectedPaymentResponse {
	result := make([]ProjectedPaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = ProjectedPaymentResponse{
			PaymentID: p.PaymentID,
			Name:      p.Name,
			Amount:    p.Amount.StringFixed(2),
			Date:      p.Date.Format(dateLayout),
			Type:      string(p.Type),
		}
	}
	return result
}

func toProjectionResponse(p schedule.Projection) ProjectionResponse {
	return ProjectionResponse{
		Year:     p.Month.Year,
		Month:    int(p.Month.Month),
		Income:   p.Income.StringFixed(2),
		Expenses: p.Expenses.StringFixed(2),
		Net:      p.Income.Sub(p.Expenses).StringFixed(2),
		Payments: toProjectedPaymentResponses(p.Payments),
	}
}
