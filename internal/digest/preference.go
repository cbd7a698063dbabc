package digest

import "time"

// Eligible reports whether pref can ever receive a digest: email must be
// enabled and the frequency must be a known, non-off value. A forced run
// still requires this.
func Eligible(pref Preference) bool {
	if !pref.EmailEnabled {
		return false
	}
	switch pref.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		// off, empty, or a value this build does not know: fail closed.
		return false
	}
}

// ShouldSendToday reports whether pref is due on the UTC calendar day
// containing now. Time of day is ignored.
func ShouldSendToday(pref Preference, now time.Time) bool {
	if !Eligible(pref) {
		return false
	}

	today := now.UTC()

	switch pref.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return int(today.Weekday()) == pref.PreferredDay
	case FrequencyMonthly:
		return today.Day() == 1
	default:
		return false
	}
}
