package entities

import (
	"fmt"
	"time"
)

// ISOWeek is an ISO-8601 week label in YYYY-Www form.
// Labels sort lexicographically in calendar order.
type ISOWeek string

// CivilDate builds a date at UTC midnight
func CivilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ToCivil drops the time of day and location of t.
// The zero time stays zero so it keeps meaning "absent".
func ToCivil(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return CivilDate(t.Year(), t.Month(), t.Day())
}

// WeekOf derives the ISO week of a date; the zero date has no week
func WeekOf(t time.Time) ISOWeek {
	if t.IsZero() {
		return ""
	}
	year, week := t.ISOWeek()
	return ISOWeek(fmt.Sprintf("%04d-W%02d", year, week))
}

// AddDays moves a civil date by whole days
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// DaysBetween returns to - from in whole days
func DaysBetween(from, to time.Time) int {
	return int(ToCivil(to).Sub(ToCivil(from)).Hours() / 24)
}

// FormatDate renders a civil date, or "-" when absent
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.DateOnly)
}
