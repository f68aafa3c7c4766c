package service

import (
	"context"
	"fmt"
	"time"

	"github.com/budgetwise/budgetwise-backend/internal/domain"
	"github.com/budgetwise/budgetwise-backend/internal/schedule"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultUpcomingDays is the upcoming window used when none is configured
	DefaultUpcomingDays = 30
	// MaxUpcomingDays bounds the upcoming window a caller may request
	MaxUpcomingDays = 366
	// MaxForecastMonths bounds the number of months in a forecast
	MaxForecastMonths = 24
)

// ScheduleService answers date questions about the recurring payments of a
// workspace. Payments are loaded fresh on every call.
type ScheduleService struct {
	paymentRepo  domain.PaymentRepository
	upcomingDays int
	now          func() time.Time
}

// NewScheduleService creates a new ScheduleService. A non-positive upcomingDays
// falls back to DefaultUpcomingDays.
func NewScheduleService(paymentRepo domain.PaymentRepository, upcomingDays int) *ScheduleService {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	return &ScheduleService{
		paymentRepo:  paymentRepo,
		upcomingDays: upcomingDays,
		now:          time.Now,
	}
}

// SetClock replaces the clock used to resolve "today"
func (s *ScheduleService) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar date
func (s *ScheduleService) Today() time.Time {
	return schedule.DateOf(s.now())
}

// UpcomingDays returns the window used when a caller does not pick one
func (s *ScheduleService) UpcomingDays() int {
	return s.upcomingDays
}

// CalendarDay groups the occurrences that fall on one date
type CalendarDay struct {
	Date     time.Time
	Payments []schedule.ProjectedPayment
}

// ScheduleSummary is the dashboard view of the schedule
type ScheduleSummary struct {
	AsOf         time.Time
	CurrentMonth schedule.Projection
	NextMonth    schedule.Projection
	Upcoming     []schedule.UpcomingPayment
	// NetCurrentMonth is current month income minus expenses
	NetCurrentMonth decimal.Decimal
}

// NextPaymentDate returns the next occurrence of a payment on or after from.
// A nil from means today. A nil result means the payment has no occurrence left.
func (s *ScheduleService) NextPaymentDate(workspaceID int32, id int32, from *time.Time) (*time.Time, error) {
	p, err := s.loadPayment(workspaceID, id)
	if err != nil {
		return nil, err
	}

	start := s.Today()
	if from != nil {
		start = schedule.DateOf(*from)
	}
	return schedule.NextPaymentDate(p.Recurrence, start)
}

// PaymentDates returns the occurrences of a payment within [from, to]
func (s *ScheduleService) PaymentDates(workspaceID int32, id int32, from, to time.Time) ([]time.Time, error) {
	from, to = schedule.DateOf(from), schedule.DateOf(to)
	if to.Before(from) {
		return nil, domain.ErrInvalidDateRange
	}

	p, err := s.loadPayment(workspaceID, id)
	if err != nil {
		return nil, err
	}
	return schedule.PaymentDatesInRange(p.Recurrence, from, to)
}

// Upcoming lists occurrences of active payments from today through today+days.
// A nil days uses the configured default.
func (s *ScheduleService) Upcoming(workspaceID int32, days *int) ([]schedule.UpcomingPayment, error) {
	window := s.upcomingDays
	if days != nil {
		window = *days
	}
	if window < 0 || window > MaxUpcomingDays {
		return nil, domain.ErrInvalidInput
	}

	payments, err := s.activePayments(workspaceID)
	if err != nil {
		return nil, err
	}
	return schedule.UpcomingPayments(payments, window, s.now())
}

// MonthlyProjection returns income and expenses expected in a month from the
// active payments of a workspace
func (s *ScheduleService) MonthlyProjection(workspaceID int32, month schedule.YearMonth) (schedule.Projection, error) {
	payments, err := s.activePayments(workspaceID)
	if err != nil {
		return schedule.Projection{}, err
	}
	return schedule.MonthlyProjection(payments, month)
}

// Forecast returns consecutive monthly projections starting at from
func (s *ScheduleService) Forecast(workspaceID int32, from schedule.YearMonth, months int) ([]schedule.Projection, error) {
	if months < 1 || months > MaxForecastMonths {
		return nil, domain.ErrInvalidInput
	}

	payments, err := s.activePayments(workspaceID)
	if err != nil {
		return nil, err
	}

	forecast := make([]schedule.Projection, 0, months)
	month := from
	for i := 0; i < months; i++ {
		projection, err := schedule.MonthlyProjection(payments, month)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, projection)
		month = month.Next()
	}
	return forecast, nil
}

// Calendar groups the occurrences of a month by date, ascending. Days without
// occurrences are omitted.
func (s *ScheduleService) Calendar(workspaceID int32, month schedule.YearMonth) ([]CalendarDay, error) {
	projection, err := s.MonthlyProjection(workspaceID, month)
	if err != nil {
		return nil, err
	}

	byDay := make(map[int][]schedule.ProjectedPayment)
	for _, pp := range projection.Payments {
		byDay[pp.Date.Day()] = append(byDay[pp.Date.Day()], pp)
	}

	days := make([]CalendarDay, 0, len(byDay))
	for day := 1; day <= schedule.DaysInMonth(month.Year, month.Month); day++ {
		if payments, ok := byDay[day]; ok {
			days = append(days, CalendarDay{
				Date:     schedule.NewDate(month.Year, month.Month, day),
				Payments: payments,
			})
		}
	}
	return days, nil
}

// Summary builds the dashboard view. The projections and the upcoming list are
// computed concurrently from one snapshot of the payments.
func (s *ScheduleService) Summary(ctx context.Context, workspaceID int32) (*ScheduleSummary, error) {
	payments, err := s.activePayments(workspaceID)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	current := schedule.YearMonthOf(schedule.DateOf(asOf))
	summary := &ScheduleSummary{AsOf: schedule.DateOf(asOf)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projection, err := schedule.MonthlyProjection(payments, current)
		if err != nil {
			return err
		}
		summary.CurrentMonth = projection
		return ctx.Err()
	})
	g.Go(func() error {
		projection, err := schedule.MonthlyProjection(payments, current.Next())
		if err != nil {
			return err
		}
		summary.NextMonth = projection
		return ctx.Err()
	})
	g.Go(func() error {
		upcoming, err := schedule.UpcomingPayments(payments, s.upcomingDays, asOf)
		if err != nil {
			return err
		}
		summary.Upcoming = upcoming
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.NetCurrentMonth = summary.CurrentMonth.Income.Sub(summary.CurrentMonth.Expenses)
	return summary, nil
}

func (s *ScheduleService) loadPayment(workspaceID int32, id int32) (schedule.Payment, error) {
	p, err := s.paymentRepo.GetByID(workspaceID, id)
	if err != nil {
		return schedule.Payment{}, err
	}
	view, err := p.ToSchedule()
	if err != nil {
		log.Error().Err(err).Int32("payment_id", p.ID).Str("frequency", p.Frequency).Msg("Stored payment has invalid recurrence")
		return schedule.Payment{}, fmt.Errorf("payment %q: %w", p.Name, err)
	}
	return view, nil
}

func (s *ScheduleService) activePayments(workspaceID int32) ([]schedule.Payment, error) {
	active := true
	stored, err := s.paymentRepo.ListByWorkspace(workspaceID, &active)
	if err != nil {
		return nil, err
	}

	payments := make([]schedule.Payment, 0, len(stored))
	for _, p := range stored {
		view, err := p.ToSchedule()
		if err != nil {
			log.Error().Err(err).Int32("payment_id", p.ID).Str("frequency", p.Frequency).Msg("Stored payment has invalid recurrence")
			return nil, fmt.Errorf("payment %q: %w", p.Name, err)
		}
		payments = append(payments, view)
	}
	return payments, nil
}
