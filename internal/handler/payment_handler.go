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
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// PaymentHandler handles recurring payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePaymentRequest represents the create payment request body
type CreatePaymentRequest struct {
	Name                   string  `json:"name"`
	Amount                 string  `json:"amount"`
	Type                   string  `json:"type"`
	CategoryID             *int32  `json:"categoryId,omitempty"`
	Frequency              string  `json:"frequency"`
	StartDate              string  `json:"startDate"`         // YYYY-MM-DD
	EndDate                *string `json:"endDate,omitempty"` // YYYY-MM-DD
	BusinessDaysOnly       bool    `json:"businessDaysOnly"`
	LastBusinessDayOfMonth bool    `json:"lastBusinessDayOfMonth"`
}

// UpdatePaymentRequest represents the update payment request body
type UpdatePaymentRequest struct {
	CreatePaymentRequest
	IsActive bool `json:"isActive"`
}

// SetActiveRequest represents the pause/resume request body
type SetActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID                     int32   `json:"id"`
	WorkspaceID            int32   `json:"workspaceId"`
	Name                   string  `json:"name"`
	Amount                 string  `json:"amount"`
	Type                   string  `json:"type"`
	CategoryID             *int32  `json:"categoryId,omitempty"`
	Frequency              string  `json:"frequency"`
	FrequencyLabel         string  `json:"frequencyLabel"`
	StartDate              string  `json:"startDate"`
	EndDate                *string `json:"endDate,omitempty"`
	BusinessDaysOnly       bool    `json:"businessDaysOnly"`
	LastBusinessDayOfMonth bool    `json:"lastBusinessDayOfMonth"`
	IsActive               bool    `json:"isActive"`
	CreatedAt              string  `json:"createdAt"`
	UpdatedAt              string  `json:"updatedAt"`
}

// PaymentListResponse represents the list response
type PaymentListResponse struct {
	Data []PaymentResponse `json:"data"`
}

// CreatePayment godoc
// @Summary Create a recurring payment
// @Description Create a recurring bill or income stream in the current workspace
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body CreatePaymentRequest true "Payment"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} ProblemDetails
// @Router /payments [post]
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErr := parsePaymentRequest(req)
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	p, err := h.paymentService.CreatePayment(workspaceID, input)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "create payment")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("payment_id", p.ID).Str("name", p.Name).Msg("Payment created")

	return c.JSON(http.StatusCreated, toPaymentResponse(p))
}

// GetPayments godoc
// @Summary List recurring payments
// @Description List the recurring payments of the current workspace
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Filter by active state"
// @Success 200 {object} PaymentListResponse
// @Router /payments [get]
func (h *PaymentHandler) GetPayments(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var activeOnly *bool
	if activeParam := c.QueryParam("active"); activeParam != "" {
		active, err := strconv.ParseBool(activeParam)
		if err != nil {
			return NewValidationError(c, "Invalid active filter", []ValidationError{
				{Field: "active", Message: "Must be true or false"},
			})
		}
		activeOnly = &active
	}

	payments, err := h.paymentService.ListPayments(workspaceID, activeOnly)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get payments")
		return NewInternalError(c, "Failed to get payments")
	}

	response := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		response[i] = toPaymentResponse(p)
	}

	return c.JSON(http.StatusOK, PaymentListResponse{Data: response})
}

// GetPayment godoc
// @Summary Get a recurring payment
// @Description Get a single recurring payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} PaymentResponse
// @Failure 404 {object} ProblemDetails
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	p, err := h.paymentService.GetPaymentByID(workspaceID, id)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "get payment")
	}

	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// UpdatePayment godoc
// @Summary Update a recurring payment
// @Description Replace the editable fields of a recurring payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param payment body UpdatePaymentRequest true "Payment"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /payments/{id} [put]
func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, fieldErr := parsePaymentRequest(req.CreatePaymentRequest)
	if fieldErr != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{*fieldErr})
	}

	p, err := h.paymentService.UpdatePayment(workspaceID, id, service.UpdatePaymentInput{
		CreatePaymentInput: input,
		IsActive:           req.IsActive,
	})
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "update payment")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("payment_id", p.ID).Str("name", p.Name).Msg("Payment updated")

	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// SetActive godoc
// @Summary Pause or resume a recurring payment
// @Description Paused payments keep their recurrence but are left out of upcoming lists and projections
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Param body body SetActiveRequest true "Active state"
// @Success 200 {object} PaymentResponse
// @Router /payments/{id}/active [patch]
func (h *PaymentHandler) SetActive(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	var req SetActiveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	p, err := h.paymentService.SetPaymentActive(workspaceID, id, req.IsActive)
	if err != nil {
		return h.handleServiceError(c, err, workspaceID, "update payment status")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("payment_id", p.ID).Bool("is_active", p.IsActive).Msg("Payment active status changed")

	return c.JSON(http.StatusOK, toPaymentResponse(p))
}

// DeletePayment godoc
// @Summary Delete a recurring payment
// @Description Soft delete a recurring payment
// @Tags payments
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /payments/{id} [delete]
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parsePaymentID(c)
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", nil)
	}

	if err := h.paymentService.DeletePayment(workspaceID, id); err != nil {
		return h.handleServiceError(c, err, workspaceID, "delete payment")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("payment_id", id).Msg("Payment deleted (soft)")

	return c.NoContent(http.StatusNoContent)
}

// handleServiceError maps service errors to problem details
func (h *PaymentHandler) handleServiceError(c echo.Context, err error, workspaceID int32, operation string) error {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		return NewNotFoundError(c, "Payment not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be 'income' or 'expense'"},
		})
	case errors.Is(err, schedule.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Frequency must be one of weekly, biweekly, monthly, quarterly, yearly"},
		})
	case errors.Is(err, domain.ErrStartDateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "startDate", Message: "Start date is required"},
		})
	case errors.Is(err, domain.ErrInvalidDateRange):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "endDate", Message: "End date must not be before start date"},
		})
	}
	log.Error().Err(err).Int32("workspace_id", workspaceID).Str("operation", operation).Msg("Failed to " + operation)
	return NewInternalError(c, "Failed to "+operation)
}

// parsePaymentRequest converts the wire format into service input. Business
// rules are left to the service; only syntax is checked here.
func parsePaymentRequest(req CreatePaymentRequest) (service.CreatePaymentInput, *ValidationError) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.CreatePaymentInput{}, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}

	var startDate time.Time
	if req.StartDate != "" {
		startDate, err = time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return service.CreatePaymentInput{}, &ValidationError{Field: "startDate", Message: "Must be a date in YYYY-MM-DD format"}
		}
	}

	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return service.CreatePaymentInput{}, &ValidationError{Field: "endDate", Message: "Must be a date in YYYY-MM-DD format"}
		}
		endDate = &end
	}

	return service.CreatePaymentInput{
		Name:                   req.Name,
		Amount:                 amount,
		Type:                   domain.PaymentType(req.Type),
		CategoryID:             req.CategoryID,
		Frequency:              req.Frequency,
		StartDate:              startDate,
		EndDate:                endDate,
		BusinessDaysOnly:       req.BusinessDaysOnly,
		LastBusinessDayOfMonth: req.LastBusinessDayOfMonth,
	}, nil
}

func parsePaymentID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                     p.ID,
		WorkspaceID:            p.WorkspaceID,
		Name:                   p.Name,
		Amount:                 p.Amount.StringFixed(2),
		Type:                   string(p.Type),
		CategoryID:             p.CategoryID,
		Frequency:              p.Frequency,
		StartDate:              p.StartDate.Format(dateLayout),
		BusinessDaysOnly:       p.BusinessDaysOnly,
		LastBusinessDayOfMonth: p.LastBusinessDayOfMonth,
		IsActive:               p.IsActive,
		CreatedAt:              p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              p.UpdatedAt.Format(time.RFC3339),
	}
	if f, err := schedule.ParseFrequency(p.Frequency); err == nil {
		resp.FrequencyLabel = schedule.FormatFrequency(f)
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	return resp
}
