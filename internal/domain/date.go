package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a civil calendar date without time-of-day or zone. Streak
// arithmetic works on whole calendar days, so wall-clock durations are
// never compared; this keeps DST and timezone shifts from producing
// off-by-one streaks.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a time.Time to its calendar date in that time's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date string like "2026-01-04"
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date: %w", err)
	}
	return DateOf(t), nil
}

// String formats the date as ISO "YYYY-MM-DD"
func (d Date) String() string {
	return d.midnightUTC().Format("2006-01-02")
}

// IsZero reports whether the date is unset (the "null" last-study-date)
func (d Date) IsZero() bool {
	return d == Date{}
}

// Equal compares two dates
func (d Date) Equal(other Date) bool {
	return d == other
}

// DaysSince returns the whole-calendar-day difference d - other. Both
// dates are anchored to UTC midnight, so the division is always exact.
func (d Date) DaysSince(other Date) int {
	return int(d.midnightUTC().Sub(other.midnightUTC()) / (24 * time.Hour))
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON encodes the zero date as null to match the stored stats shape
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null or an ISO date string
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
