package domain

import (
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/schedule"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentTypeExpense PaymentType = "expense"
	PaymentTypeIncome  PaymentType = "income"
)

// Payment is a recurring bill or income stream. The recurrence rule is stored
// as plain scalar fields; EndDate nil means it recurs indefinitely.
type Payment struct {
	ID                     int32           `json:"id"`
	WorkspaceID            int32           `json:"workspaceId"`
	Name                   string          `json:"name"`
	Amount                 decimal.Decimal `json:"amount"`
	Type                   PaymentType     `json:"type"`
	CategoryID             *int32          `json:"categoryId,omitempty"`
	Frequency              string          `json:"frequency"`
	StartDate              time.Time       `json:"startDate"`
	EndDate                *time.Time      `json:"endDate,omitempty"`
	BusinessDaysOnly       bool            `json:"businessDaysOnly"`
	LastBusinessDayOfMonth bool            `json:"lastBusinessDayOfMonth"`
	IsActive               bool            `json:"isActive"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
	DeletedAt              *time.Time      `json:"deletedAt,omitempty"`
}

// Descriptor derives the recurrence rule from the stored fields. It fails with
// schedule.ErrInvalidFrequency when the stored frequency is not recognised.
func (p *Payment) Descriptor() (schedule.Descriptor, error) {
	frequency, err := schedule.ParseFrequency(p.Frequency)
	if err != nil {
		return schedule.Descriptor{}, err
	}

	d := schedule.Descriptor{
		StartDate:              schedule.DateOf(p.StartDate),
		Frequency:              frequency,
		BusinessDaysOnly:       p.BusinessDaysOnly,
		LastBusinessDayOfMonth: p.LastBusinessDayOfMonth,
	}
	if p.EndDate != nil {
		end := schedule.DateOf(*p.EndDate)
		d.EndDate = &end
	}
	return d, nil
}

// ToSchedule builds the read-only view the schedule queries operate on
func (p *Payment) ToSchedule() (schedule.Payment, error) {
	d, err := p.Descriptor()
	if err != nil {
		return schedule.Payment{}, err
	}
	return schedule.Payment{
		ID:         p.ID,
		Name:       p.Name,
		Amount:     p.Amount,
		Type:       schedule.PaymentType(p.Type),
		CategoryID: p.CategoryID,
		Recurrence: d,
		IsActive:   p.IsActive,
	}, nil
}

// PaymentRepository persists payments per workspace
type PaymentRepository interface {
	Create(p *Payment) (*Payment, error)
	GetByID(workspaceID int32, id int32) (*Payment, error)
	ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*Payment, error)
	Update(p *Payment) (*Payment, error)
	Delete(workspaceID int32, id int32) error
}
