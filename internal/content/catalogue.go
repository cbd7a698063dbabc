// Package content holds the week-keyed pregnancy facts that feed the digest:
// size comparisons, encouragement, body changes and planning tips. The
// catalogue is a YAML document embedded in the binary and parsed once at
// startup.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Supported gestational week range. Children outside it get no digest.
const (
	MinWeek = 4
	MaxWeek = 42
)

//go:embed catalogue.yaml
var defaultCatalogue []byte

// Size is the "your baby is the size of a …" fact for one week.
type Size struct {
	Week   int    `yaml:"week"`
	Item   string `yaml:"item"`
	Length string `yaml:"length"`
}

// BodyChange describes what the parent may be experiencing. Tip may be empty.
type BodyChange struct {
	From   int    `yaml:"from"`
	To     int    `yaml:"to"`
	Change string `yaml:"change"`
	Tip    string `yaml:"tip"`
}

type encouragement struct {
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
	Text string `yaml:"text"`
}

type planningTip struct {
	From int    `yaml:"from"`
	To   int    `yaml:"to"`
	Tip  string `yaml:"tip"`
}

type document struct {
	Encouragement []encouragement `yaml:"encouragement"`
	Sizes         []Size          `yaml:"sizes"`
	BodyChanges   []BodyChange    `yaml:"body_changes"`
	PlanningTips  []planningTip   `yaml:"planning_tips"`
}

// Catalogue answers point lookups by gestational week. It is immutable after
// construction and safe for concurrent use.
type Catalogue struct {
	sizes         map[int]Size
	encouragement []encouragement
	bodyChanges   []BodyChange
	planningTips  []planningTip
}

// Default parses the embedded catalogue.
func Default() (*Catalogue, error) {
	return Parse(defaultCatalogue)
}

// Parse decodes and validates a catalogue document.
func Parse(data []byte) (*Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("content: decode catalogue: %w", err)
	}

	c := &Catalogue{
		sizes:         make(map[int]Size, len(doc.Sizes)),
		encouragement: doc.Encouragement,
		bodyChanges:   doc.BodyChanges,
		planningTips:  doc.PlanningTips,
	}

	for _, s := range doc.Sizes {
		if err := checkWeek(s.Week); err != nil {
			return nil, fmt.Errorf("content: size %q: %w", s.Item, err)
		}
		if _, dup := c.sizes[s.Week]; dup {
			return nil, fmt.Errorf("content: duplicate size for week %d", s.Week)
		}
		c.sizes[s.Week] = s
	}
	for _, e := range doc.Encouragement {
		if err := checkRange(e.From, e.To); err != nil {
			return nil, fmt.Errorf("content: encouragement: %w", err)
		}
	}
	for _, b := range doc.BodyChanges {
		if err := checkRange(b.From, b.To); err != nil {
			return nil, fmt.Errorf("content: body change: %w", err)
		}
	}
	for _, p := range doc.PlanningTips {
		if err := checkRange(p.From, p.To); err != nil {
			return nil, fmt.Errorf("content: planning tip %q: %w", p.Tip, err)
		}
	}

	return c, nil
}

func checkWeek(w int) error {
	if w < MinWeek || w > MaxWeek {
		return fmt.Errorf("week %d outside %d..%d", w, MinWeek, MaxWeek)
	}
	return nil
}

func checkRange(from, to int) error {
	if err := checkWeek(from); err != nil {
		return err
	}
	if err := checkWeek(to); err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("range %d..%d is inverted", from, to)
	}
	return nil
}

// Size returns the size comparison for week.
func (c *Catalogue) Size(week int) (Size, bool) {
	s, ok := c.sizes[week]
	return s, ok
}

// Encouragement returns the first encouragement line covering week, or "".
func (c *Catalogue) Encouragement(week int) string {
	for _, e := range c.encouragement {
		if week >= e.From && week <= e.To {
			return e.Text
		}
	}
	return ""
}

// BodyChange returns the first body-change entry covering week.
func (c *Catalogue) BodyChange(week int) (BodyChange, bool) {
	for _, b := range c.bodyChanges {
		if week >= b.From && week <= b.To {
			return b, true
		}
	}
	return BodyChange{}, false
}

// PlanningTips returns every planning tip covering week, in document order.
func (c *Catalogue) PlanningTips(week int) []string {
	var tips []string
	for _, p := range c.planningTips {
		if week >= p.From && week <= p.To {
			tips = append(tips, p.Tip)
		}
	}
	return tips
}
