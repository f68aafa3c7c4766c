package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastBusinessDayDescriptor(f Frequency) Descriptor {
	return Descriptor{
		StartDate:              NewDate(2026, time.January, 1),
		Frequency:              f,
		LastBusinessDayOfMonth: true,
	}
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func TestOccurrence_FixedInterval(t *testing.T) {
	weekly := Descriptor{StartDate: NewDate(2026, time.January, 1), Frequency: Weekly}
	assert.Equal(t, NewDate(2026, time.January, 1), Occurrence(weekly, 0))
	assert.Equal(t, NewDate(2026, time.January, 8), Occurrence(weekly, 1))
	assert.Equal(t, NewDate(2026, time.February, 26), Occurrence(weekly, 8))

	biweekly := Descriptor{StartDate: NewDate(2026, time.January, 1), Frequency: Biweekly}
	assert.Equal(t, NewDate(2026, time.January, 29), Occurrence(biweekly, 2))
}

func TestOccurrence_FixedIntervalBusinessDaysOnly(t *testing.T) {
	// Saturday start moves to Monday on every cycle
	d := Descriptor{
		StartDate:        NewDate(2026, time.January, 3),
		Frequency:        Weekly,
		BusinessDaysOnly: true,
	}
	assert.Equal(t, NewDate(2026, time.January, 5), Occurrence(d, 0))
	assert.Equal(t, NewDate(2026, time.January, 12), Occurrence(d, 1))
}

func TestOccurrence_LastBusinessDayIgnoredForWeekly(t *testing.T) {
	d := Descriptor{
		StartDate:              NewDate(2026, time.January, 1),
		Frequency:              Weekly,
		LastBusinessDayOfMonth: true,
	}
	assert.Equal(t, NewDate(2026, time.January, 8), Occurrence(d, 1))
}

func TestOccurrence_MonthlyClampsFromStart(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.January, 31), Frequency: Monthly}
	assert.Equal(t, NewDate(2026, time.February, 28), Occurrence(d, 1))
	assert.Equal(t, NewDate(2026, time.March, 31), Occurrence(d, 2))
	assert.Equal(t, NewDate(2026, time.April, 30), Occurrence(d, 3))
}

func TestOccurrence_MonthlyBusinessDaysOnly(t *testing.T) {
	// 2026-02-15 and 2026-03-15 are Sundays
	d := Descriptor{
		StartDate:        NewDate(2026, time.January, 15),
		Frequency:        Monthly,
		BusinessDaysOnly: true,
	}
	assert.Equal(t, NewDate(2026, time.January, 15), Occurrence(d, 0))
	assert.Equal(t, NewDate(2026, time.February, 16), Occurrence(d, 1))
	assert.Equal(t, NewDate(2026, time.March, 16), Occurrence(d, 2))
}

func TestOccurrence_LastBusinessDayTakesPrecedence(t *testing.T) {
	d := lastBusinessDayDescriptor(Monthly)
	d.BusinessDaysOnly = true
	assert.Equal(t, NewDate(2026, time.January, 30), Occurrence(d, 0))
	assert.Equal(t, NewDate(2026, time.May, 29), Occurrence(d, 4))
}

func TestOccurrence_QuarterlyAndYearly(t *testing.T) {
	q := Descriptor{StartDate: NewDate(2026, time.November, 30), Frequency: Quarterly}
	assert.Equal(t, NewDate(2027, time.February, 28), Occurrence(q, 1))
	assert.Equal(t, NewDate(2027, time.May, 30), Occurrence(q, 2))

	y := Descriptor{StartDate: NewDate(2028, time.February, 29), Frequency: Yearly}
	assert.Equal(t, NewDate(2029, time.February, 28), Occurrence(y, 1))
	assert.Equal(t, NewDate(2032, time.February, 29), Occurrence(y, 4))
}

func TestFirstOnOrAfter_LastBusinessDayEachMonth(t *testing.T) {
	d := lastBusinessDayDescriptor(Monthly)
	want := []time.Time{
		NewDate(2026, time.January, 30),
		NewDate(2026, time.February, 27),
		NewDate(2026, time.March, 31),
		NewDate(2026, time.April, 30),
		NewDate(2026, time.May, 29),
		NewDate(2026, time.June, 30),
		NewDate(2026, time.July, 31),
		NewDate(2026, time.August, 31),
		NewDate(2026, time.September, 30),
		NewDate(2026, time.October, 30),
		NewDate(2026, time.November, 30),
		NewDate(2026, time.December, 31),
	}

	for i, expected := range want {
		from := NewDate(2026, time.Month(i+1), 1)
		got, ok := FirstOnOrAfter(d, from)
		require.True(t, ok, "from %s", from.Format(time.DateOnly))
		assert.Equal(t, expected, got, "from %s", from.Format(time.DateOnly))
	}
}

func TestFirstOnOrAfter_LeapYear(t *testing.T) {
	d := lastBusinessDayDescriptor(Monthly)
	got, ok := FirstOnOrAfter(d, NewDate(2028, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, NewDate(2028, time.February, 29), got)
}

func TestFirstOnOrAfter_BeforeStart(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.March, 10), Frequency: Monthly}
	got, ok := FirstOnOrAfter(d, NewDate(2025, time.June, 1))
	require.True(t, ok)
	assert.Equal(t, NewDate(2026, time.March, 10), got)
}

func TestFirstOnOrAfter_PastEndDate(t *testing.T) {
	d := Descriptor{
		StartDate: NewDate(2026, time.January, 10),
		Frequency: Monthly,
		EndDate:   datePtr(NewDate(2026, time.March, 31)),
	}

	got, ok := FirstOnOrAfter(d, NewDate(2026, time.March, 11))
	assert.False(t, ok)
	assert.True(t, got.IsZero())

	got, ok = FirstOnOrAfter(d, NewDate(2026, time.March, 10))
	require.True(t, ok)
	assert.Equal(t, NewDate(2026, time.March, 10), got)
}

func TestFirstOnOrAfter_FarFromStart(t *testing.T) {
	// More weekly cycles than the iteration ceiling between start and from
	d := Descriptor{StartDate: NewDate(1980, time.January, 7), Frequency: Weekly}
	got, ok := FirstOnOrAfter(d, NewDate(2026, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, NewDate(2026, time.January, 5), got)
	assert.Equal(t, time.Monday, got.Weekday())
}

func TestFirstOnOrAfter_NonAdvancingFrequency(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.January, 1)}

	_, ok := FirstOnOrAfter(d, NewDate(2026, time.January, 2))
	assert.False(t, ok)
}

func TestEnumerate_LastBusinessDay(t *testing.T) {
	tests := []struct {
		name      string
		frequency Frequency
		end       time.Time
		want      []time.Time
	}{
		{
			name:      "monthly first quarter",
			frequency: Monthly,
			end:       NewDate(2026, time.March, 31),
			want: []time.Time{
				NewDate(2026, time.January, 30),
				NewDate(2026, time.February, 27),
				NewDate(2026, time.March, 31),
			},
		},
		{
			name:      "quarterly over a year",
			frequency: Quarterly,
			end:       NewDate(2026, time.December, 31),
			want: []time.Time{
				NewDate(2026, time.January, 30),
				NewDate(2026, time.April, 30),
				NewDate(2026, time.July, 31),
				NewDate(2026, time.October, 30),
			},
		},
		{
			name:      "yearly over three years",
			frequency: Yearly,
			end:       NewDate(2028, time.December, 31),
			want: []time.Time{
				NewDate(2026, time.January, 30),
				NewDate(2027, time.January, 29),
				NewDate(2028, time.January, 31),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enumerate(lastBusinessDayDescriptor(tt.frequency), NewDate(2026, time.January, 1), tt.end)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumerate_RespectsEndDate(t *testing.T) {
	d := Descriptor{
		StartDate: NewDate(2026, time.January, 5),
		Frequency: Biweekly,
		EndDate:   datePtr(NewDate(2026, time.February, 2)),
	}

	got := Enumerate(d, NewDate(2026, time.January, 1), NewDate(2026, time.December, 31))
	assert.Equal(t, []time.Time{
		NewDate(2026, time.January, 5),
		NewDate(2026, time.January, 19),
		NewDate(2026, time.February, 2),
	}, got)
}

func TestEnumerate_EmptyResults(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.June, 1), Frequency: Monthly}

	got := Enumerate(d, NewDate(2026, time.January, 1), NewDate(2026, time.May, 31))
	assert.NotNil(t, got)
	assert.Empty(t, got)

	inverted := Enumerate(d, NewDate(2026, time.July, 31), NewDate(2026, time.July, 1))
	assert.NotNil(t, inverted)
	assert.Empty(t, inverted)
}

func TestEnumerate_SingleDayRange(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.January, 15), Frequency: Monthly}
	day := NewDate(2026, time.April, 15)

	assert.Equal(t, []time.Time{day}, Enumerate(d, day, day))
	assert.Empty(t, Enumerate(d, day.AddDate(0, 0, 1), day.AddDate(0, 0, 1)))
}

func TestEnumerate_NonAdvancingFrequencyYieldsStartOnce(t *testing.T) {
	d := Descriptor{StartDate: NewDate(2026, time.January, 1)}
	got := Enumerate(d, NewDate(2026, time.January, 1), NewDate(2026, time.December, 31))
	assert.Equal(t, []time.Time{NewDate(2026, time.January, 1)}, got)
}

func TestEnumerate_StrictlyAscending(t *testing.T) {
	descriptors := []Descriptor{
		{StartDate: NewDate(2026, time.January, 31), Frequency: Monthly, BusinessDaysOnly: true},
		{StartDate: NewDate(2026, time.January, 3), Frequency: Weekly, BusinessDaysOnly: true},
		{StartDate: NewDate(2025, time.August, 30), Frequency: Quarterly, BusinessDaysOnly: true},
		{StartDate: NewDate(2024, time.February, 29), Frequency: Yearly},
		lastBusinessDayDescriptor(Monthly),
	}
	rangeStart := NewDate(2026, time.January, 1)
	rangeEnd := NewDate(2030, time.December, 31)

	for _, d := range descriptors {
		got := Enumerate(d, rangeStart, rangeEnd)
		require.NotEmpty(t, got, "frequency %s", d.Frequency)
		for i, date := range got {
			assert.False(t, date.Before(rangeStart))
			assert.False(t, date.After(rangeEnd))
			if i > 0 {
				assert.True(t, date.After(got[i-1]), "frequency %s at %s", d.Frequency, date.Format(time.DateOnly))
			}
			if d.BusinessDaysOnly || d.LastBusinessDayOfMonth && d.Frequency.IsCalendar() {
				assert.True(t, IsBusinessDay(date), "frequency %s at %s", d.Frequency, date.Format(time.DateOnly))
			}
		}
	}
}
