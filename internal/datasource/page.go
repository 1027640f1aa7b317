package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seenimoa/minicharts/pkg/geometry"
)

// Page is the loader document a dashboard view is rendered from.
type Page struct {
	Title     string       `json:"title"`
	Subtitle  string       `json:"subtitle,omitempty"`
	StatusURL string       `json:"statusUrl,omitempty"` // scraped for Score.Metric values
	Scores    []Score      `json:"scores,omitempty"`    // radial score cards
	Progress  []Score      `json:"progress,omitempty"`  // inline circular progress
	Summary   *SummaryPair `json:"summary,omitempty"`
	Trends    []Trend      `json:"trends,omitempty"`
}

// Score is a single scalar bound to a ring widget. A nil Max means the
// default 0–100 scale; an explicit zero is kept and rejected when rendered.
type Score struct {
	Label   string   `json:"label"`
	Value   float64  `json:"value"`
	Max     *float64 `json:"max,omitempty"`
	Caption string   `json:"caption,omitempty"`
	Metric  string   `json:"metric,omitempty"`
}

// MaxOrDefault returns the score's scale.
func (s Score) MaxOrDefault() float64 {
	if s.Max == nil {
		return geometry.DefaultMax
	}
	return *s.Max
}

// SummaryPair is the concentric two-ring summary card.
type SummaryPair struct {
	Label string `json:"label"`
	Outer Score  `json:"outer"`
	Inner Score  `json:"inner"`
}

// Trend is an ordered series drawn as a sparkline card. When Feed is set
// and Values is empty the series is filled from the feed's activity.
type Trend struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
	Unit   string    `json:"unit,omitempty"`
	Feed   string    `json:"feed,omitempty"`
}

// Latest returns the last value of the series, or false when empty.
func (t Trend) Latest() (float64, bool) {
	if len(t.Values) == 0 {
		return 0, false
	}
	return t.Values[len(t.Values)-1], true
}

// Decode reads and validates a page document.
func Decode(r io.Reader) (*Page, error) {
	var p Page
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a page document from disk.
func LoadFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Validate checks structural requirements. Numeric ranges are left to the
// geometry layer, which rejects them at render time.
func (p *Page) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Title) == "" {
		problems = append(problems, "title is required")
	}
	for i, s := range p.Scores {
		if s.Label == "" {
			problems = append(problems, fmt.Sprintf("scores[%d]: label is required", i))
		}
	}
	for i, s := range p.Progress {
		if s.Label == "" {
			problems = append(problems, fmt.Sprintf("progress[%d]: label is required", i))
		}
	}
	for i, t := range p.Trends {
		if t.Label == "" {
			problems = append(problems, fmt.Sprintf("trends[%d]: label is required", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPage, strings.Join(problems, "; "))
	}
	return nil
}

// Cards returns the number of widgets the page renders.
func (p *Page) Cards() int {
	n := len(p.Scores) + len(p.Progress) + len(p.Trends)
	if p.Summary != nil {
		n++
	}
	return n
}

// ApplyMetrics copies scraped values into every score bound to a metric
// name and returns how many scores were updated.
func (p *Page) ApplyMetrics(metrics []Metric) int {
	byName := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		byName[m.Name] = m.Value
	}

	applied := 0
	apply := func(s *Score) {
		if s.Metric == "" {
			return
		}
		if v, ok := byName[s.Metric]; ok {
			s.Value = v
			applied++
		}
	}
	for i := range p.Scores {
		apply(&p.Scores[i])
	}
	for i := range p.Progress {
		apply(&p.Progress[i])
	}
	if p.Summary != nil {
		apply(&p.Summary.Outer)
		apply(&p.Summary.Inner)
	}
	return applied
}

// Resolver fills a page's live bindings: scores bound to metrics on the
// page's status URL, and trends bound to feeds.
type Resolver struct {
	Feeds       *Feeds // nil leaves feed trends empty
	StatusToken string // bearer token for status pages
	Days        int    // feed activity window
}

// Resolve updates page in place.
func (r Resolver) Resolve(ctx context.Context, page *Page) error {
	if page.StatusURL != "" {
		metrics, err := FetchMetrics(ctx, page.StatusURL, r.StatusToken)
		if err != nil {
			return fmt.Errorf("status page: %w", err)
		}
		page.ApplyMetrics(metrics)
	}
	if r.Feeds != nil {
		if err := r.Feeds.FetchAll(ctx, page, r.Days); err != nil {
			return err
		}
	}
	return nil
}
