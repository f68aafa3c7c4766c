package schedule

import "fmt"

// Frequency is the repetition rule of a recurring payment. The set of values is
// closed: only the package-level variables below are valid. Fixed-interval
// frequencies step by a number of days, calendar frequencies by a number of months.
type Frequency struct {
	name      string
	cycleDays int
	monthStep int
}

var (
	Weekly    = Frequency{name: "weekly", cycleDays: 7}
	Biweekly  = Frequency{name: "biweekly", cycleDays: 14}
	Monthly   = Frequency{name: "monthly", monthStep: 1}
	Quarterly = Frequency{name: "quarterly", monthStep: 3}
	Yearly    = Frequency{name: "yearly", monthStep: 12}
)

// Frequencies lists every supported frequency
var Frequencies = []Frequency{Weekly, Biweekly, Monthly, Quarterly, Yearly}

var frequencyLabels = map[Frequency]string{
	Weekly:    "Weekly",
	Biweekly:  "Every 2 weeks",
	Monthly:   "Monthly",
	Quarterly: "Quarterly",
	Yearly:    "Yearly",
}

// ParseFrequency converts a persisted frequency literal into a Frequency.
// Unknown literals are a configuration error and are never defaulted.
func ParseFrequency(s string) (Frequency, error) {
	for _, f := range Frequencies {
		if f.name == s {
			return f, nil
		}
	}
	return Frequency{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// String returns the persisted literal, e.g. "biweekly"
func (f Frequency) String() string {
	return f.name
}

// IsValid reports whether f is one of the supported frequencies
func (f Frequency) IsValid() bool {
	_, ok := frequencyLabels[f]
	return ok
}

// IsCalendar reports whether f steps by calendar months
func (f Frequency) IsCalendar() bool {
	return f.monthStep > 0
}

// CycleDays is the day step of a fixed-interval frequency, 0 for calendar frequencies
func (f Frequency) CycleDays() int {
	return f.cycleDays
}

// MonthStep is the month step of a calendar frequency, 0 for fixed-interval frequencies
func (f Frequency) MonthStep() int {
	return f.monthStep
}

// MarshalText implements encoding.TextMarshaler
func (f Frequency) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, ErrInvalidFrequency
	}
	return []byte(f.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Frequency) UnmarshalText(text []byte) error {
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// FormatFrequency returns the human-readable label for f
func FormatFrequency(f Frequency) string {
	return frequencyLabels[f]
}
