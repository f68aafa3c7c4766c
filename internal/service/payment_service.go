package service

import (
	"strings"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/schedule"
	"github.com/budgetwise/budgetwise-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// PaymentService handles recurring payment business logic
type PaymentService struct {
	paymentRepo    domain.PaymentRepository
	eventPublisher websocket.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *PaymentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *PaymentService) publishEvent(workspaceID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(workspaceID, event)
	}
}

// CreatePaymentInput holds the input for creating a recurring payment
type CreatePaymentInput struct {
	Name                   string
	Amount                 decimal.Decimal
	Type                   domain.PaymentType
	CategoryID             *int32
	Frequency              string
	StartDate              time.Time
	EndDate                *time.Time
	BusinessDaysOnly       bool
	LastBusinessDayOfMonth bool
}

// UpdatePaymentInput holds the input for updating a recurring payment
type UpdatePaymentInput struct {
	CreatePaymentInput
	IsActive bool
}

// CreatePayment validates and stores a new active payment
func (s *PaymentService) CreatePayment(workspaceID int32, input CreatePaymentInput) (*domain.Payment, error) {
	p, err := buildPayment(input)
	if err != nil {
		return nil, err
	}
	p.WorkspaceID = workspaceID
	p.IsActive = true

	created, err := s.paymentRepo.Create(p)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.PaymentCreated(created))
	s.publishEvent(workspaceID, websocket.ScheduleChanged(map[string]interface{}{"paymentId": created.ID}))
	return created, nil
}

// ListPayments retrieves the payments of a workspace, optionally filtered by active state
func (s *PaymentService) ListPayments(workspaceID int32, activeOnly *bool) ([]*domain.Payment, error) {
	return s.paymentRepo.ListByWorkspace(workspaceID, activeOnly)
}

// GetPaymentByID retrieves a payment by ID
func (s *PaymentService) GetPaymentByID(workspaceID int32, id int32) (*domain.Payment, error) {
	return s.paymentRepo.GetByID(workspaceID, id)
}

// UpdatePayment replaces the editable fields of a payment
func (s *PaymentService) UpdatePayment(workspaceID int32, id int32, input UpdatePaymentInput) (*domain.Payment, error) {
	if _, err := s.paymentRepo.GetByID(workspaceID, id); err != nil {
		return nil, err
	}

	p, err := buildPayment(input.CreatePaymentInput)
	if err != nil {
		return nil, err
	}
	p.ID = id
	p.WorkspaceID = workspaceID
	p.IsActive = input.IsActive

	updated, err := s.paymentRepo.Update(p)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.PaymentUpdated(updated))
	s.publishEvent(workspaceID, websocket.ScheduleChanged(map[string]interface{}{"paymentId": updated.ID}))
	return updated, nil
}

// SetPaymentActive pauses or resumes a payment. Paused payments keep their
// recurrence but are left out of upcoming lists and projections.
func (s *PaymentService) SetPaymentActive(workspaceID int32, id int32, active bool) (*domain.Payment, error) {
	p, err := s.paymentRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if p.IsActive == active {
		return p, nil
	}

	changed := *p
	changed.IsActive = active
	updated, err := s.paymentRepo.Update(&changed)
	if err != nil {
		return nil, err
	}

	s.publishEvent(workspaceID, websocket.PaymentUpdated(updated))
	s.publishEvent(workspaceID, websocket.ScheduleChanged(map[string]interface{}{"paymentId": updated.ID}))
	return updated, nil
}

// DeletePayment soft deletes a payment
func (s *PaymentService) DeletePayment(workspaceID int32, id int32) error {
	if err := s.paymentRepo.Delete(workspaceID, id); err != nil {
		return err
	}

	s.publishEvent(workspaceID, websocket.PaymentDeleted(map[string]interface{}{"id": id}))
	s.publishEvent(workspaceID, websocket.ScheduleChanged(map[string]interface{}{"paymentId": id}))
	return nil
}

// buildPayment validates input and returns a payment with normalised fields
func buildPayment(input CreatePaymentInput) (*domain.Payment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxPaymentNameLength {
		return nil, domain.ErrNameTooLong
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	if input.Type != domain.PaymentTypeExpense && input.Type != domain.PaymentTypeIncome {
		return nil, domain.ErrInvalidType
	}

	frequency, err := schedule.ParseFrequency(input.Frequency)
	if err != nil {
		return nil, err
	}

	if input.StartDate.IsZero() {
		return nil, domain.ErrStartDateRequired
	}
	startDate := schedule.DateOf(input.StartDate)

	var endDate *time.Time
	if input.EndDate != nil {
		end := schedule.DateOf(*input.EndDate)
		if end.Before(startDate) {
			return nil, domain.ErrInvalidDateRange
		}
		endDate = &end
	}

	return &domain.Payment{
		Name:                   name,
		Amount:                 input.Amount,
		Type:                   input.Type,
		CategoryID:             input.CategoryID,
		Frequency:              frequency.String(),
		StartDate:              startDate,
		EndDate:                endDate,
		BusinessDaysOnly:       input.BusinessDaysOnly,
		LastBusinessDayOfMonth: input.LastBusinessDayOfMonth,
	}, nil
}
