package schedule

import (
	"time"

	"github.com/rs/zerolog/log"
)

// MaxIterations bounds how many cycles a single scan may evaluate. A descriptor
// that exhausts it is treated as having no further occurrences.
const MaxIterations = 2000

// Occurrence returns the date of the n-th (0-based) occurrence of d
func Occurrence(d Descriptor, n int) time.Time {
	start := DateOf(d.StartDate)

	if !d.Frequency.IsCalendar() {
		date := start.AddDate(0, 0, n*d.Frequency.cycleDays)
		if d.BusinessDaysOnly {
			date = NearestBusinessDay(date, Forward)
		}
		return date
	}

	offset := n * d.Frequency.monthStep
	if d.LastBusinessDayOfMonth {
		year, month := shiftMonth(start.Year(), start.Month(), offset)
		return LastBusinessDayOfMonth(year, month)
	}

	date := AddMonths(start, offset)
	if d.BusinessDaysOnly {
		date = NearestBusinessDay(date, Forward)
	}
	return date
}

// FirstOnOrAfter returns the earliest occurrence of d on or after from.
// It returns false when the recurrence ends before reaching from, or when the
// scan exhausts MaxIterations.
func FirstOnOrAfter(d Descriptor, from time.Time) (time.Time, bool) {
	from = DateOf(from)

	n := firstCandidate(d, from)
	for i := 0; i < MaxIterations; i, n = i+1, n+1 {
		date := Occurrence(d, n)
		if d.pastEnd(date) {
			return time.Time{}, false
		}
		if !date.Before(from) {
			return date, true
		}
	}

	logCeiling(d, from)
	return time.Time{}, false
}

// Enumerate returns every occurrence of d within [rangeStart, rangeEnd], in
// ascending order and without duplicates. An inverted range yields an empty slice.
func Enumerate(d Descriptor, rangeStart, rangeEnd time.Time) []time.Time {
	rangeStart, rangeEnd = DateOf(rangeStart), DateOf(rangeEnd)

	dates := make([]time.Time, 0)
	if rangeEnd.Before(rangeStart) {
		return dates
	}

	n := firstCandidate(d, rangeStart)
	for i := 0; i < MaxIterations; i, n = i+1, n+1 {
		date := Occurrence(d, n)
		if date.After(rangeEnd) || d.pastEnd(date) {
			return dates
		}
		if date.Before(rangeStart) {
			continue
		}
		if len(dates) > 0 && !date.After(dates[len(dates)-1]) {
			continue
		}
		dates = append(dates, date)
	}

	logCeiling(d, rangeStart)
	return dates
}

// firstCandidate returns an occurrence index from which scanning towards from
// cannot miss anything: every earlier index lands strictly before from, even
// after a weekend shift of up to two days. Degenerate descriptors start at 0.
func firstCandidate(d Descriptor, from time.Time) int {
	start := DateOf(d.StartDate)
	if !from.After(start) {
		return 0
	}

	var n int
	switch {
	case d.Frequency.monthStep > 0:
		n = monthsBetween(start, from)/d.Frequency.monthStep - 2
	case d.Frequency.cycleDays > 0:
		n = daysBetween(start, from)/d.Frequency.cycleDays - 1
	}
	return max(n, 0)
}

func logCeiling(d Descriptor, from time.Time) {
	log.Warn().
		Str("frequency", d.Frequency.String()).
		Time("start_date", d.StartDate).
		Time("from", from).
		Int("max_iterations", MaxIterations).
		Msg("Recurrence scan hit iteration ceiling")
}
