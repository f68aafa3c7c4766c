package schedule

import "time"

// Descriptor is the immutable rule set that defines when a payment recurs.
// Callers rebuild it from the stored payment on every query.
type Descriptor struct {
	// StartDate is the first possible occurrence
	StartDate time.Time
	Frequency Frequency
	// EndDate, when set, bounds every occurrence (inclusive)
	EndDate *time.Time
	// BusinessDaysOnly moves weekend occurrences forward to Monday
	BusinessDaysOnly bool
	// LastBusinessDayOfMonth places calendar-frequency occurrences on the last
	// business day of their anchor month; it takes precedence over BusinessDaysOnly
	LastBusinessDayOfMonth bool
}

// Validate checks the frequency and the start/end ordering
func (d Descriptor) Validate() error {
	if !d.Frequency.IsValid() {
		return ErrInvalidFrequency
	}
	if d.EndDate != nil && DateOf(*d.EndDate).Before(DateOf(d.StartDate)) {
		return ErrEndBeforeStart
	}
	return nil
}

// pastEnd reports whether date falls after the descriptor's end date
func (d Descriptor) pastEnd(date time.Time) bool {
	return d.EndDate != nil && date.After(DateOf(*d.EndDate))
}
