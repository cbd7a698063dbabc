// Package digest contains the pure parts of the weekly pregnancy digest:
// deciding whether a subscriber is due today, computing gestational age,
// assembling a per-child payload and rendering it to an email.
//
// Its types are plain Go types so the package never imports db. The worker
// maps database rows into these types before calling in.
package digest

import (
	"time"

	"github.com/google/uuid"
)

// ─── PREFERENCES ─────────────────────────────────────────────────────────────

// Frequency is the subscriber's chosen digest cadence. String values match the
// Postgres email_frequency enum.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyOff     Frequency = "off"
)

// Preference is one subscriber's notification settings.
type Preference struct {
	ID            uuid.UUID
	SubscriberID  uuid.UUID
	EmailEnabled  bool
	Frequency     Frequency
	PreferredDay  int // 0 = Sunday … 6 = Saturday; weekly only
	PreferredHour int // advisory; the batch runs once a day

	// LastEmailSentAt is nil until the first successful digest.
	LastEmailSentAt *time.Time
}

// ─── PEOPLE ──────────────────────────────────────────────────────────────────

// Subscriber is the recipient of the digest.
type Subscriber struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

// Recipient is one row of the bulk preference load: a subscriber together
// with their settings.
type Recipient struct {
	Subscriber Subscriber
	Preference Preference
}

// Child belongs to exactly one subscriber. Only unborn children with a due
// date receive a digest.
type Child struct {
	ID          uuid.UUID
	Name        string
	IsBorn      bool
	DueDate     *time.Time
	DateOfBirth *time.Time
}

// ─── PAYLOAD ─────────────────────────────────────────────────────────────────

// SizeComparison is the "size of a …" fact for the current week.
type SizeComparison struct {
	Item   string
	Length string
}

// ProgressFact is the countdown block. Every renderable payload has one.
type ProgressFact struct {
	Week           int
	WeeksRemaining int
	Size           *SizeComparison // nil when the catalogue has no entry
	Encouragement  string
}

// BodyChangeFact describes what the parent may be feeling. Either field may
// be empty.
type BodyChangeFact struct {
	Text string
	Tip  string
}

// ResourceSummary is a newly published article, newest first in a payload.
type ResourceSummary struct {
	Title   string
	Slug    string
	Summary string
	URL     string
}

// Links are the navigation links in the email footer.
type Links struct {
	Dashboard string
	Resources string
	Settings  string
}

// Payload is everything the renderer needs for one (subscriber, child) pair.
type Payload struct {
	SubscriberID uuid.UUID
	ChildID      uuid.UUID
	DisplayName  string
	ChildName    string

	Progress     *ProgressFact
	BodyChange   *BodyChangeFact
	PlanningTips []string
	NewResources []ResourceSummary
	Links        Links
}

// ─── RUN RESULT ──────────────────────────────────────────────────────────────

// RunResult summarises one digest batch. It is returned to whoever triggered
// the run and never persisted.
type RunResult struct {
	SentCount  int      `json:"sentCount"`
	ErrorCount int      `json:"errorCount"`
	Errors     []string `json:"errors"`
}
