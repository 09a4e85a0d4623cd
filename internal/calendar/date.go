package calendar

import "time"

// DateFormat is the layout Google Calendar uses for all-day event dates.
const DateFormat = "2006-01-02"

// Date is a calendar date without a time of day. It is stored as midnight UTC
// so that dates taken from different offsets compare by their wall-clock day.
type Date struct {
	time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDateFromTime returns the wall-clock date of t in t's own location.
func NewDateFromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD value.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return Date{}, err
	}
	return NewDateFromTime(t), nil
}

// AddDays returns the date n calendar days later.
func (d Date) AddDays(n int) Date {
	return NewDateFromTime(d.Time.AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) String() string {
	return d.Format(DateFormat)
}
