package table

import "time"

// OptFloat is a float that may be missing. Zero is a valid value, not "missing".
type OptFloat struct {
	V     float64
	Valid bool
}

// Some wraps a present float.
func Some(v float64) OptFloat { return OptFloat{V: v, Valid: true} }

// None is the missing float.
var None = OptFloat{}

// OptDate is a calendar timestamp that may be missing.
type OptDate struct {
	T     time.Time
	Valid bool
}

// SomeDate wraps a present timestamp.
func SomeDate(t time.Time) OptDate { return OptDate{T: t, Valid: true} }

// Day truncates to the calendar date, dropping time-of-day.
func (d OptDate) Day() time.Time {
	y, m, dd := d.T.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

// Month truncates to the first day of the month.
func (d OptDate) Month() time.Time {
	y, m, _ := d.T.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
