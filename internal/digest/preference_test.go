package digest_test

import (
	"testing"
	"time"

	"github.com/nyashahama/bump-digest/internal/digest"
)

// monday is 2025-10-20, a Monday, at an arbitrary time of day.
var monday = time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC)

func pref(freq digest.Frequency, day int) digest.Preference {
	return digest.Preference{EmailEnabled: true, Frequency: freq, PreferredDay: day}
}

// ─── daily ────────────────────────────────────────────────────────────────────

func TestShouldSendToday_DailyAlwaysTrue(t *testing.T) {
	p := pref(digest.FrequencyDaily, 0)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		now := start.Add(time.Duration(i)*24*time.Hour + time.Duration(i%24)*time.Hour)
		if !digest.ShouldSendToday(p, now) {
			t.Fatalf("daily should send on %s", now)
		}
	}
}

// ─── weekly ───────────────────────────────────────────────────────────────────

func TestShouldSendToday_WeeklyMatchesPreferredDay(t *testing.T) {
	// Every preferred day against every day of one week.
	for d := 0; d <= 6; d++ {
		p := pref(digest.FrequencyWeekly, d)
		for offset := 0; offset < 7; offset++ {
			now := monday.AddDate(0, 0, offset)
			want := int(now.Weekday()) == d
			if got := digest.ShouldSendToday(p, now); got != want {
				t.Errorf("preferred_day=%d now=%s (%s): got %v, want %v",
					d, now.Format("2006-01-02"), now.Weekday(), got, want)
			}
		}
	}
}

func TestShouldSendToday_WeeklyFixedNow(t *testing.T) {
	for d := 0; d <= 6; d++ {
		got := digest.ShouldSendToday(pref(digest.FrequencyWeekly, d), monday)
		if want := d == int(time.Monday); got != want {
			t.Errorf("preferred_day=%d on Monday: got %v, want %v", d, got, want)
		}
	}
}

func TestShouldSendToday_WeeklyUsesUTCDay(t *testing.T) {
	// 23:30 on Sunday in UTC-5 is already Monday in UTC.
	est := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 10, 19, 23, 30, 0, 0, est)

	if !digest.ShouldSendToday(pref(digest.FrequencyWeekly, int(time.Monday)), now) {
		t.Error("expected Monday (UTC) to match")
	}
	if digest.ShouldSendToday(pref(digest.FrequencyWeekly, int(time.Sunday)), now) {
		t.Error("expected Sunday (local) not to match")
	}
}

func TestShouldSendToday_WeeklyOutOfRangeDayNeverMatches(t *testing.T) {
	for _, d := range []int{-1, 7, 42} {
		for offset := 0; offset < 7; offset++ {
			if digest.ShouldSendToday(pref(digest.FrequencyWeekly, d), monday.AddDate(0, 0, offset)) {
				t.Errorf("preferred_day=%d should never match", d)
			}
		}
	}
}

// ─── monthly ──────────────────────────────────────────────────────────────────

func TestShouldSendToday_MonthlyOnlyOnFirst(t *testing.T) {
	p := pref(digest.FrequencyMonthly, 0)
	start := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i++ {
		now := start.AddDate(0, 0, i)
		want := now.Day() == 1
		if got := digest.ShouldSendToday(p, now); got != want {
			t.Errorf("%s: got %v, want %v", now.Format("2006-01-02"), got, want)
		}
	}
}

// ─── off / disabled / unknown ────────────────────────────────────────────────

func TestShouldSendToday_OffDisabledUnknownNeverSend(t *testing.T) {
	prefs := map[string]digest.Preference{
		"off":              pref(digest.FrequencyOff, int(time.Monday)),
		"disabled daily":   {EmailEnabled: false, Frequency: digest.FrequencyDaily},
		"disabled weekly":  {EmailEnabled: false, Frequency: digest.FrequencyWeekly, PreferredDay: int(time.Monday)},
		"disabled monthly": {EmailEnabled: false, Frequency: digest.FrequencyMonthly},
		"unknown":          pref(digest.Frequency("fortnightly"), int(time.Monday)),
		"empty":            pref("", int(time.Monday)),
		"wrong case":       pref(digest.Frequency("DAILY"), 0),
	}
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for name, p := range prefs {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 62; i++ {
				if digest.ShouldSendToday(p, start.AddDate(0, 0, i)) {
					t.Fatalf("should never send, sent on day %d", i)
				}
			}
			if digest.Eligible(p) {
				t.Error("Eligible should be false")
			}
		})
	}
}

func TestEligible_KnownFrequencies(t *testing.T) {
	for _, f := range []digest.Frequency{digest.FrequencyDaily, digest.FrequencyWeekly, digest.FrequencyMonthly} {
		if !digest.Eligible(pref(f, 3)) {
			t.Errorf("%s should be eligible", f)
		}
	}
}
