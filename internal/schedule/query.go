package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType tells whether a payment adds to income or expenses
type PaymentType string

const (
	PaymentTypeExpense PaymentType = "expense"
	PaymentTypeIncome  PaymentType = "income"
)

// Payment is the read-only view of a stored payment that the query functions need
type Payment struct {
	ID         int32
	Name       string
	Amount     decimal.Decimal
	Type       PaymentType
	CategoryID *int32
	Recurrence Descriptor
	IsActive   bool
}

// UpcomingPayment is one occurrence of a payment inside an upcoming window
type UpcomingPayment struct {
	Payment
	NextDate  time.Time
	DaysUntil int
}

// ProjectedPayment is one occurrence of a payment inside a projected month
type ProjectedPayment struct {
	PaymentID int32
	Name      string
	Amount    decimal.Decimal
	Date      time.Time
	Type      PaymentType
}

// Projection is the income and expense outlook for one month. Both totals are
// non-negative; callers apply the sign when combining them.
type Projection struct {
	Month    YearMonth
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Payments []ProjectedPayment
}

// NextPaymentDate returns the first occurrence on or after from, or nil when the
// recurrence has no occurrence left under its constraints.
func NextPaymentDate(d Descriptor, from time.Time) (*time.Time, error) {
	if !d.Frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}
	date, ok := FirstOnOrAfter(d, from)
	if !ok {
		return nil, nil
	}
	return &date, nil
}

// PaymentDatesInRange returns the occurrences within [rangeStart, rangeEnd].
// An empty range result is an empty slice, not an error.
func PaymentDatesInRange(d Descriptor, rangeStart, rangeEnd time.Time) ([]time.Time, error) {
	if !d.Frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}
	return Enumerate(d, rangeStart, rangeEnd), nil
}

// UpcomingPayments lists every occurrence of the active payments between asOf
// and asOf+daysAhead inclusive, one row per occurrence, ordered by date with
// ties kept in input order.
func UpcomingPayments(payments []Payment, daysAhead int, asOf time.Time) ([]UpcomingPayment, error) {
	today := DateOf(asOf)
	upcoming := make([]UpcomingPayment, 0)
	if daysAhead < 0 {
		return upcoming, nil
	}
	horizon := today.AddDate(0, 0, daysAhead)

	for _, p := range payments {
		if !p.IsActive {
			continue
		}
		rows, err := upcomingFor(p, today, horizon)
		if err != nil {
			return nil, err
		}
		upcoming = append(upcoming, rows...)
	}

	slices.SortStableFunc(upcoming, func(a, b UpcomingPayment) int {
		return a.NextDate.Compare(b.NextDate)
	})
	return upcoming, nil
}

func upcomingFor(p Payment, today, horizon time.Time) ([]UpcomingPayment, error) {
	dates, err := PaymentDatesInRange(p.Recurrence, today, horizon)
	if err != nil {
		return nil, fmt.Errorf("payment %q: %w", p.Name, err)
	}

	rows := make([]UpcomingPayment, 0, len(dates))
	for _, date := range dates {
		rows = append(rows, UpcomingPayment{
			Payment:   p,
			NextDate:  date,
			DaysUntil: daysBetween(today, date),
		})
	}
	return rows, nil
}

// MonthlyProjection sums the occurrences of payments within month into income
// and expenses, listing each occurrence with its own date. Payments without an
// occurrence in the month contribute nothing.
func MonthlyProjection(payments []Payment, month YearMonth) (Projection, error) {
	projection := Projection{
		Month:    month,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Payments: make([]ProjectedPayment, 0),
	}

	for _, p := range payments {
		contribution, err := projectPayment(p, month)
		if err != nil {
			return Projection{}, err
		}
		projection = projection.merge(contribution)
	}
	return projection, nil
}

func projectPayment(p Payment, month YearMonth) (Projection, error) {
	dates, err := PaymentDatesInRange(p.Recurrence, month.FirstDay(), month.LastDay())
	if err != nil {
		return Projection{}, fmt.Errorf("payment %q: %w", p.Name, err)
	}

	amount := p.Amount.Abs()
	total := amount.Mul(decimal.NewFromInt(int64(len(dates))))

	contribution := Projection{
		Month:    month,
		Income:   decimal.Zero,
		Expenses: decimal.Zero,
		Payments: make([]ProjectedPayment, 0, len(dates)),
	}
	if p.Type == PaymentTypeIncome {
		contribution.Income = total
	} else {
		contribution.Expenses = total
	}
	for _, date := range dates {
		contribution.Payments = append(contribution.Payments, ProjectedPayment{
			PaymentID: p.ID,
			Name:      p.Name,
			Amount:    amount,
			Date:      date,
			Type:      p.Type,
		})
	}
	return contribution, nil
}

// merge folds another projection of the same month into p
func (p Projection) merge(other Projection) Projection {
	return Projection{
		Month:    p.Month,
		Income:   p.Income.Add(other.Income),
		Expenses: p.Expenses.Add(other.Expenses),
		Payments: append(p.Payments, other.Payments...),
	}
}
