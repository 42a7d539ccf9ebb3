package entity

import (
	"fmt"
	"time"
)

// MonthKey identifies a calendar month. It is used as the bucket key for
// monthly reports; display labels are derived from it only when a response
// is serialized.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t, evaluated in UTC.
func MonthOf(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// AddMonths returns the month n months after m (n may be negative).
func (m MonthKey) AddMonths(n int) MonthKey {
	idx := m.Year*12 + int(m.Month-1) + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return MonthKey{Year: year, Month: time.Month(month + 1)}
}

// Start returns midnight UTC on the first day of the month.
func (m MonthKey) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether m is strictly earlier than o.
func (m MonthKey) Before(o MonthKey) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Label formats the month for chart axes, e.g. "Jan 2026".
func (m MonthKey) Label() string {
	return m.Start().Format("Jan 2006")
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MonthRange returns count consecutive months starting at first.
func MonthRange(first MonthKey, count int) []MonthKey {
	if count <= 0 {
		return nil
	}
	months := make([]MonthKey, count)
	for i := range months {
		months[i] = first.AddMonths(i)
	}
	return months
}
