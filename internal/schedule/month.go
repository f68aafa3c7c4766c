package schedule

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a YearMonth, rejecting months outside 1..12
func NewYearMonth(year, month int) (YearMonth, error) {
	if month < 1 || month > 12 || year < 1 {
		return YearMonth{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidYearMonth, year, month)
	}
	return YearMonth{Year: year, Month: time.Month(month)}, nil
}

// ParseYearMonth parses a "YYYY-MM" string
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// YearMonthOf returns the month containing date
func YearMonthOf(date time.Time) YearMonth {
	return YearMonth{Year: date.Year(), Month: date.Month()}
}

// FirstDay returns the first calendar day of the month
func (ym YearMonth) FirstDay() time.Time {
	return NewDate(ym.Year, ym.Month, 1)
}

// LastDay returns the last calendar day of the month
func (ym YearMonth) LastDay() time.Time {
	return NewDate(ym.Year, ym.Month, DaysInMonth(ym.Year, ym.Month))
}

// Previous returns the month before ym
func (ym YearMonth) Previous() YearMonth {
	year, month := shiftMonth(ym.Year, ym.Month, -1)
	return YearMonth{Year: year, Month: month}
}

// Next returns the month after ym
func (ym YearMonth) Next() YearMonth {
	year, month := shiftMonth(ym.Year, ym.Month, 1)
	return YearMonth{Year: year, Month: month}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
