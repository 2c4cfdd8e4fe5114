package dateutil

import (
	"fmt"
	"time"
)

// DateKey formats the day part used in daily cache keys.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey formats the ISO week part used in weekly cache keys.
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the most recent Monday midnight.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return day.AddDate(0, 0, 1-weekday)
}

func NextDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}

func NextWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 7)
}
