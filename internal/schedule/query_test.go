package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func governmentLoan() Payment {
	return Payment{
		ID:         1,
		Name:       "Government Loan",
		Amount:     decimal.NewFromInt(200),
		Type:       PaymentTypeExpense,
		Recurrence: lastBusinessDayDescriptor(Monthly),
		IsActive:   true,
	}
}

func regularPayment() Payment {
	return Payment{
		ID:     2,
		Name:   "Regular Payment",
		Amount: decimal.NewFromInt(100),
		Type:   PaymentTypeExpense,
		Recurrence: Descriptor{
			StartDate: NewDate(2026, time.January, 15),
			Frequency: Monthly,
		},
		IsActive: true,
	}
}

func TestNextPaymentDate(t *testing.T) {
	next, err := NextPaymentDate(lastBusinessDayDescriptor(Monthly), NewDate(2026, time.January, 31))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, NewDate(2026, time.February, 27), *next)
}

func TestNextPaymentDate_Exhausted(t *testing.T) {
	d := Descriptor{
		StartDate: NewDate(2026, time.January, 1),
		Frequency: Quarterly,
		EndDate:   datePtr(NewDate(2026, time.June, 30)),
	}

	next, err := NextPaymentDate(d, NewDate(2026, time.April, 2))
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextPaymentDate_InvalidFrequency(t *testing.T) {
	next, err := NextPaymentDate(Descriptor{StartDate: NewDate(2026, time.January, 1)}, NewDate(2026, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
	assert.Nil(t, next)
}

func TestNextPaymentDate_MatchesFirstDateInRange(t *testing.T) {
	end := NewDate(2027, time.June, 30)
	descriptors := []Descriptor{
		lastBusinessDayDescriptor(Monthly),
		{StartDate: NewDate(2026, time.January, 31), Frequency: Monthly, BusinessDaysOnly: true, EndDate: &end},
		{StartDate: NewDate(2026, time.February, 2), Frequency: Biweekly, EndDate: &end},
		{StartDate: NewDate(2026, time.March, 31), Frequency: Quarterly},
	}
	froms := []time.Time{
		NewDate(2025, time.December, 1),
		NewDate(2026, time.March, 1),
		NewDate(2026, time.December, 31),
		NewDate(2027, time.July, 1),
	}
	farFuture := NewDate(2040, time.December, 31)

	for _, d := range descriptors {
		for _, from := range froms {
			next, err := NextPaymentDate(d, from)
			require.NoError(t, err)

			rangeEnd := farFuture
			if d.EndDate != nil {
				rangeEnd = *d.EndDate
			}
			dates, err := PaymentDatesInRange(d, from, rangeEnd)
			require.NoError(t, err)

			if next == nil {
				assert.Empty(t, dates, "frequency %s from %s", d.Frequency, from.Format(time.DateOnly))
				continue
			}
			require.NotEmpty(t, dates, "frequency %s from %s", d.Frequency, from.Format(time.DateOnly))
			assert.Equal(t, dates[0], *next)
			assert.False(t, next.Before(from))
		}
	}
}

func TestPaymentDatesInRange(t *testing.T) {
	dates, err := PaymentDatesInRange(lastBusinessDayDescriptor(Monthly), NewDate(2026, time.January, 1), NewDate(2026, time.March, 31))
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		NewDate(2026, time.January, 30),
		NewDate(2026, time.February, 27),
		NewDate(2026, time.March, 31),
	}, dates)
}

func TestPaymentDatesInRange_Idempotent(t *testing.T) {
	d := lastBusinessDayDescriptor(Quarterly)
	first, err := PaymentDatesInRange(d, NewDate(2026, time.January, 1), NewDate(2026, time.December, 31))
	require.NoError(t, err)
	second, err := PaymentDatesInRange(d, NewDate(2026, time.January, 1), NewDate(2026, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestUpcomingPayments_OneRowPerOccurrence(t *testing.T) {
	asOf := time.Date(2026, time.January, 28, 14, 45, 0, 0, time.UTC)

	upcoming, err := UpcomingPayments([]Payment{governmentLoan(), regularPayment()}, 35, asOf)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)

	assert.Equal(t, "Government Loan", upcoming[0].Name)
	assert.Equal(t, NewDate(2026, time.January, 30), upcoming[0].NextDate)
	assert.Equal(t, 2, upcoming[0].DaysUntil)

	assert.Equal(t, "Regular Payment", upcoming[1].Name)
	assert.Equal(t, NewDate(2026, time.February, 15), upcoming[1].NextDate)
	assert.Equal(t, 18, upcoming[1].DaysUntil)

	assert.Equal(t, "Government Loan", upcoming[2].Name)
	assert.Equal(t, NewDate(2026, time.February, 27), upcoming[2].NextDate)
	assert.Equal(t, 30, upcoming[2].DaysUntil)
}

func TestUpcomingPayments_ExcludesInactive(t *testing.T) {
	paused := governmentLoan()
	paused.IsActive = false

	upcoming, err := UpcomingPayments([]Payment{paused, regularPayment()}, 35, NewDate(2026, time.January, 28))
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Regular Payment", upcoming[0].Name)
}

func TestUpcomingPayments_TiesKeepInputOrder(t *testing.T) {
	rent := regularPayment()
	rent.ID, rent.Name = 3, "Rent"
	gym := regularPayment()
	gym.ID, gym.Name = 4, "Gym"

	upcoming, err := UpcomingPayments([]Payment{rent, gym}, 0, NewDate(2026, time.March, 15))
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Rent", upcoming[0].Name)
	assert.Equal(t, "Gym", upcoming[1].Name)
	assert.Equal(t, 0, upcoming[0].DaysUntil)
}

func TestUpcomingPayments_EmptyInputs(t *testing.T) {
	upcoming, err := UpcomingPayments(nil, 30, NewDate(2026, time.January, 1))
	require.NoError(t, err)
	assert.NotNil(t, upcoming)
	assert.Empty(t, upcoming)

	upcoming, err = UpcomingPayments([]Payment{governmentLoan()}, 0, NewDate(2026, time.January, 28))
	require.NoError(t, err)
	assert.Empty(t, upcoming)

	upcoming, err = UpcomingPayments([]Payment{governmentLoan()}, -1, NewDate(2026, time.January, 30))
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestUpcomingPayments_InvalidFrequency(t *testing.T) {
	broken := regularPayment()
	broken.Recurrence.Frequency = Frequency{}

	_, err := UpcomingPayments([]Payment{governmentLoan(), broken}, 30, NewDate(2026, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidFrequency)
	assert.Contains(t, err.Error(), "Regular Payment")
}

func TestMonthlyProjection(t *testing.T) {
	month, err := ParseYearMonth("2026-02")
	require.NoError(t, err)

	projection, err := MonthlyProjection([]Payment{governmentLoan(), regularPayment()}, month)
	require.NoError(t, err)

	assert.True(t, projection.Expenses.Equal(decimal.NewFromInt(300)), "expenses %s", projection.Expenses)
	assert.True(t, projection.Income.IsZero())
	require.Len(t, projection.Payments, 2)

	assert.Equal(t, "Government Loan", projection.Payments[0].Name)
	assert.True(t, projection.Payments[0].Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, NewDate(2026, time.February, 27), projection.Payments[0].Date)

	assert.Equal(t, "Regular Payment", projection.Payments[1].Name)
	assert.True(t, projection.Payments[1].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, NewDate(2026, time.February, 15), projection.Payments[1].Date)
}

func TestMonthlyProjection_MultipleOccurrencesAndIncome(t *testing.T) {
	salary := Payment{
		ID:     5,
		Name:   "Salary",
		Amount: decimal.RequireFromString("1500.50"),
		Type:   PaymentTypeIncome,
		Recurrence: Descriptor{
			StartDate: NewDate(2026, time.January, 2),
			Frequency: Biweekly,
		},
		IsActive: true,
	}
	lapsed := regularPayment()
	lapsed.Recurrence.EndDate = datePtr(NewDate(2026, time.February, 1))

	projection, err := MonthlyProjection([]Payment{salary, lapsed}, YearMonth{Year: 2026, Month: time.January})
	require.NoError(t, err)

	// Jan 2, 16, 30
	assert.True(t, projection.Income.Equal(decimal.RequireFromString("4501.50")), "income %s", projection.Income)
	assert.True(t, projection.Expenses.Equal(decimal.NewFromInt(100)), "expenses %s", projection.Expenses)
	require.Len(t, projection.Payments, 4)
	assert.Equal(t, NewDate(2026, time.January, 30), projection.Payments[2].Date)

	march, err := MonthlyProjection([]Payment{lapsed}, YearMonth{Year: 2026, Month: time.March})
	require.NoError(t, err)
	assert.True(t, march.Expenses.IsZero())
	assert.Empty(t, march.Payments)
}

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2028-02")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2028, time.February, 1), ym.FirstDay())
	assert.Equal(t, NewDate(2028, time.February, 29), ym.LastDay())
	assert.Equal(t, "2028-02", ym.String())
	assert.Equal(t, YearMonth{Year: 2028, Month: time.January}, ym.Previous())
	assert.Equal(t, YearMonth{Year: 2029, Month: time.January}, YearMonth{Year: 2028, Month: time.December}.Next())

	for _, s := range []string{"", "2026-13", "2026/02", "26-02"} {
		_, err := ParseYearMonth(s)
		assert.ErrorIs(t, err, ErrInvalidYearMonth, "input %q", s)
	}

	_, err = NewYearMonth(2026, 0)
	assert.ErrorIs(t, err, ErrInvalidYearMonth)
}
