package digest

import (
	"math"
	"time"
)

const (
	// fullTermDays is 40 weeks: the due date sits at the end of week 40.
	fullTermDays  = 280
	fullTermWeeks = 40
)

// startOfDay truncates t to midnight UTC of its UTC calendar day.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dateOnly reads the calendar date of a DATE column value. The driver hands
// dates back as midnight in some location; the wall-clock date is what counts.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GestationalAge returns the completed gestational week and the whole weeks
// left until the due date, as of the UTC day containing now.
//
// Week is negative when now is more than 40 weeks before the due date.
// WeeksRemaining is never negative; overdue pregnancies report 0.
func GestationalAge(dueDate, now time.Time) (week, weeksRemaining int) {
	days := int(math.Round(dateOnly(dueDate).Sub(startOfDay(now)).Hours() / 24))

	elapsed := fullTermDays - days
	if elapsed < 0 {
		return -1, days / 7
	}

	week = elapsed / 7
	weeksRemaining = fullTermWeeks - week
	if weeksRemaining < 0 {
		weeksRemaining = 0
	}
	return week, weeksRemaining
}
