package schedule

import "time"

// Direction selects which way NearestBusinessDay moves a weekend date
type Direction int

const (
	// Forward moves Saturday and Sunday to the following Monday
	Forward Direction = iota
	// Backward moves Saturday and Sunday to the preceding Friday
	Backward
)

// NewDate returns the calendar date at midnight UTC
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the time-of-day and location of t, keeping its calendar date
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// IsLeapYear reports whether year is a Gregorian leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	default:
		return 31
	}
}

// Weekday returns the day of the week, Sunday=0 through Saturday=6
func Weekday(date time.Time) time.Weekday {
	return date.Weekday()
}

// IsBusinessDay reports whether date falls Monday through Friday
func IsBusinessDay(date time.Time) bool {
	wd := Weekday(date)
	return wd != time.Saturday && wd != time.Sunday
}

// LastBusinessDayOfMonth returns the last Monday-Friday date of the month
func LastBusinessDayOfMonth(year int, month time.Month) time.Time {
	last := NewDate(year, month, DaysInMonth(year, month))
	switch Weekday(last) {
	case time.Saturday:
		return last.AddDate(0, 0, -1)
	case time.Sunday:
		return last.AddDate(0, 0, -2)
	}
	return last
}

// NearestBusinessDay shifts a weekend date to a business day in the given direction.
// Business days are returned unchanged.
func NearestBusinessDay(date time.Time, direction Direction) time.Time {
	switch Weekday(date) {
	case time.Saturday:
		if direction == Backward {
			return date.AddDate(0, 0, -1)
		}
		return date.AddDate(0, 0, 2)
	case time.Sunday:
		if direction == Backward {
			return date.AddDate(0, 0, -2)
		}
		return date.AddDate(0, 0, 1)
	}
	return date
}

// AddMonths adds n calendar months to date, clamping the day to the length of
// the resulting month (Jan 31 + 1 month is Feb 28, or Feb 29 in a leap year)
func AddMonths(date time.Time, n int) time.Time {
	year, month := shiftMonth(date.Year(), date.Month(), n)
	day := min(date.Day(), DaysInMonth(year, month))
	return NewDate(year, month, day)
}

// shiftMonth moves a year/month pair by n months
func shiftMonth(year int, month time.Month, n int) (int, time.Month) {
	total := year*12 + int(month) - 1 + n
	y := total / 12
	m := total % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}

// monthsBetween counts whole calendar months from a to b, ignoring days
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// daysBetween counts calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
