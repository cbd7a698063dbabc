package digest

import (
	"context"
	"time"

	"github.com/nyashahama/bump-digest/internal/content"
)

// FactSource answers week-keyed lookups. *content.Catalogue satisfies it.
type FactSource interface {
	Size(week int) (content.Size, bool)
	Encouragement(week int) string
	BodyChange(week int) (content.BodyChange, bool)
	PlanningTips(week int) []string
}

// ResourceSource lists published resources created strictly after since,
// newest first, at most limit of them.
type ResourceSource interface {
	RecentResources(ctx context.Context, since time.Time, limit int) ([]ResourceSummary, error)
}

// AggregatorConfig tunes the "new resources" block and the links.
type AggregatorConfig struct {
	// ResourceLimit caps the number of new resources per payload. Default 3.
	ResourceLimit int

	// ResourceWindow is how far back "new" reaches when the subscriber has
	// never had a digest, or had one longer ago than this. Default 7 days.
	ResourceWindow time.Duration

	// BaseURL prefixes every link, e.g. "https://app.bumpdigest.com".
	BaseURL string
}

// DefaultAggregatorConfig returns the production defaults.
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		ResourceLimit:  3,
		ResourceWindow: 7 * 24 * time.Hour,
	}
}

// Aggregator assembles payloads from read-only sources.
type Aggregator struct {
	facts     FactSource
	resources ResourceSource
	cfg       AggregatorConfig
}

// NewAggregator constructs an Aggregator. A zero ResourceWindow falls back to
// the default; a zero ResourceLimit disables the resources block.
func NewAggregator(facts FactSource, resources ResourceSource, cfg AggregatorConfig) *Aggregator {
	if cfg.ResourceWindow <= 0 {
		cfg.ResourceWindow = DefaultAggregatorConfig().ResourceWindow
	}
	return &Aggregator{facts: facts, resources: resources, cfg: cfg}
}

// ResourcesSince returns the lower bound of the "new resources" window:
// the later of the last send and now minus the window.
func (a *Aggregator) ResourcesSince(pref Preference, now time.Time) time.Time {
	since := now.Add(-a.cfg.ResourceWindow)
	if pref.LastEmailSentAt != nil && pref.LastEmailSentAt.After(since) {
		since = *pref.LastEmailSentAt
	}
	return since
}

// BuildPayload assembles the digest for one child. ok is false when the
// child has nothing to send today (born, no due date, or a gestational week
// outside the catalogue); that is not an error. A failed resource lookup
// returns a *LookupError for this unit.
func (a *Aggregator) BuildPayload(ctx context.Context, sub Subscriber, child Child, pref Preference, now time.Time) (Payload, bool, error) {
	if child.IsBorn || child.DueDate == nil {
		return Payload{}, false, nil
	}

	week, remaining := GestationalAge(*child.DueDate, now)
	if week < content.MinWeek || week > content.MaxWeek {
		return Payload{}, false, nil
	}

	p := Payload{
		SubscriberID: sub.ID,
		ChildID:      child.ID,
		DisplayName:  sub.DisplayName,
		ChildName:    child.Name,
		Progress: &ProgressFact{
			Week:           week,
			WeeksRemaining: remaining,
			Encouragement:  a.facts.Encouragement(week),
		},
		Links: Links{
			Dashboard: a.cfg.BaseURL + "/dashboard",
			Resources: a.cfg.BaseURL + "/resources",
			Settings:  a.cfg.BaseURL + "/settings/notifications",
		},
	}

	if s, ok := a.facts.Size(week); ok {
		p.Progress.Size = &SizeComparison{Item: s.Item, Length: s.Length}
	}

	if bc, ok := a.facts.BodyChange(week); ok && (bc.Change != "" || bc.Tip != "") {
		p.BodyChange = &BodyChangeFact{Text: bc.Change, Tip: bc.Tip}
	}

	// One representative tip. Rotating by week keeps it deterministic while
	// still varying between consecutive digests.
	if tips := a.facts.PlanningTips(week); len(tips) > 0 {
		p.PlanningTips = []string{tips[week%len(tips)]}
	}

	if a.cfg.ResourceLimit > 0 {
		resources, err := a.resources.RecentResources(ctx, a.ResourcesSince(pref, now), a.cfg.ResourceLimit)
		if err != nil {
			return Payload{}, false, &LookupError{
				Unit: Unit{SubscriberID: sub.ID, Email: sub.Email, ChildID: child.ID},
				Op:   "list new resources",
				Err:  err,
			}
		}
		for i := range resources {
			if resources[i].URL == "" {
				resources[i].URL = a.cfg.BaseURL + "/resources/" + resources[i].Slug
			}
		}
		p.NewResources = resources
	}

	return p, true, nil
}
