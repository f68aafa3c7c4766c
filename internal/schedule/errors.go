package schedule

import "errors"

var (
	// ErrInvalidFrequency is returned for a frequency outside the supported set
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrEndBeforeStart is returned when a recurrence ends before it starts
	ErrEndBeforeStart = errors.New("end date is before start date")
	// ErrInvalidYearMonth is returned when a year-month value cannot be parsed
	ErrInvalidYearMonth = errors.New("invalid year-month")
)
