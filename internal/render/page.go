package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/minicharts/internal/datasource"
	"github.com/seenimoa/minicharts/pkg/geometry"
	"github.com/seenimoa/minicharts/pkg/utils"
	"github.com/seenimoa/minicharts/web"
)

// ════════════════════════════════════════════════════════════════════
// Dashboard Page: widget + template rendering
// ════════════════════════════════════════════════════════════════════

// PageConfig controls dashboard generation.
type PageConfig struct {
	Radial    RadialConfig
	Progress  ProgressConfig
	Summary   SummaryConfig
	Sparkline SparklineConfig
	Location  *time.Location // timestamp zone (default: UTC)
	Workers   int            // concurrent card renders (default: 4)
	Now       time.Time      // generation time (default: time.Now)
}

// DefaultPageConfig returns sensible defaults.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Radial:    DefaultRadialConfig(),
		Progress:  DefaultProgressConfig(),
		Summary:   DefaultSummaryConfig(),
		Sparkline: DefaultSparklineConfig(),
		Location:  time.UTC,
		Workers:   4,
	}
}

// DashboardData is the template model passed to the dashboard template.
type DashboardData struct {
	Title       string
	Subtitle    string
	GeneratedAt string
	Cards       int

	Scores   []CardView
	Progress []CardView
	Summary  *SummaryView
	Trends   []TrendView
}

// CardView is a single ring card flattened for template rendering.
type CardView struct {
	Label   string
	Caption string
	Value   string
	SVG     template.HTML
}

// SummaryView is the concentric ring card.
type SummaryView struct {
	Label      string
	OuterLabel string
	OuterValue string
	InnerLabel string
	InnerValue string
	SVG        template.HTML
}

// TrendView is a sparkline card.
type TrendView struct {
	Label  string
	Latest string
	Range  string
	SVG    template.HTML
}

var dashboardTemplate = sync.OnceValues(func() (*template.Template, error) {
	return template.ParseFS(web.TemplateFS(), web.DashboardTemplate)
})

// ════════════════════════════════════════════════════════════════════
// Generate
// ════════════════════════════════════════════════════════════════════

// GenerateHTML renders every card of page and lays them out in the
// dashboard template.
func GenerateHTML(page *datasource.Page, cfg PageConfig) (string, error) {
	data, err := BuildDashboard(page, cfg)
	if err != nil {
		return "", err
	}

	tmpl, err := dashboardTemplate()
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// BuildDashboard renders the page's cards concurrently into a template
// model. A card whose parameters are invalid fails the whole page.
func BuildDashboard(page *datasource.Page, cfg PageConfig) (DashboardData, error) {
	if page == nil {
		return DashboardData{}, fmt.Errorf("page is nil")
	}
	cfg = cfg.withDefaults()

	data := DashboardData{
		Title:       page.Title,
		Subtitle:    page.Subtitle,
		GeneratedAt: utils.FormatDateTime(cfg.Now, cfg.Location),
		Cards:       page.Cards(),
		Scores:      make([]CardView, len(page.Scores)),
		Progress:    make([]CardView, len(page.Progress)),
		Trends:      make([]TrendView, len(page.Trends)),
	}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)

	for i, s := range page.Scores {
		g.Go(func() error {
			svg, err := RadialScoreOf(s.Value, s.MaxOrDefault(), s.Label, cfg.Radial)
			if err != nil {
				return fmt.Errorf("score %q: %w", s.Label, err)
			}
			data.Scores[i] = CardView{
				Label:   s.Label,
				Caption: s.Caption,
				Value:   geometry.FormatNumber(s.Value),
				SVG:     template.HTML(svg),
			}
			return nil
		})
	}

	for i, s := range page.Progress {
		g.Go(func() error {
			svg, err := CircularProgress(s.Value, s.MaxOrDefault(), cfg.Progress)
			if err != nil {
				return fmt.Errorf("progress %q: %w", s.Label, err)
			}
			data.Progress[i] = CardView{
				Label:   s.Label,
				Caption: s.Caption,
				Value:   utils.FormatCompact(s.Value) + " / " + utils.FormatCompact(s.MaxOrDefault()),
				SVG:     template.HTML(svg),
			}
			return nil
		})
	}

	if sp := page.Summary; sp != nil {
		g.Go(func() error {
			svg, err := SummaryRings(ringInput(sp.Outer), ringInput(sp.Inner), cfg.Summary)
			if err != nil {
				return fmt.Errorf("summary %q: %w", sp.Label, err)
			}
			data.Summary = &SummaryView{
				Label:      sp.Label,
				OuterLabel: sp.Outer.Label,
				OuterValue: geometry.FormatNumber(sp.Outer.Value),
				InnerLabel: sp.Inner.Label,
				InnerValue: geometry.FormatNumber(sp.Inner.Value),
				SVG:        template.HTML(svg),
			}
			return nil
		})
	}

	for i, t := range page.Trends {
		g.Go(func() error {
			view, err := trendView(t, cfg.Sparkline)
			if err != nil {
				return fmt.Errorf("trend %q: %w", t.Label, err)
			}
			data.Trends[i] = view
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return DashboardData{}, err
	}
	return data, nil
}

func trendView(t datasource.Trend, cfg SparklineConfig) (TrendView, error) {
	svg, err := SparklineSVG(t.Values, cfg)
	if err != nil {
		return TrendView{}, err
	}
	view := TrendView{Label: t.Label, SVG: template.HTML(svg)}
	if latest, ok := t.Latest(); ok {
		view.Latest = utils.FormatWithUnit(latest, t.Unit)
		g, err := geometry.Sparkline(t.Values, 0, 0)
		if err != nil {
			return TrendView{}, err
		}
		view.Range = fmt.Sprintf("Low %s · High %s", utils.FormatCompact(g.Min), utils.FormatCompact(g.Max))
	}
	return view, nil
}

func ringInput(s datasource.Score) RingInput {
	return RingInput{Label: s.Label, Value: s.Value, Max: s.MaxOrDefault()}
}

func (c PageConfig) withDefaults() PageConfig {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
	return c
}

// ════════════════════════════════════════════════════════════════════
// Plain-text renderer
// ════════════════════════════════════════════════════════════════════

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// GenerateText renders a terminal summary of page: score bars and
// block-character sparklines.
func GenerateText(page *datasource.Page, cfg PageConfig) (string, error) {
	if page == nil {
		return "", fmt.Errorf("page is nil")
	}
	cfg = cfg.withDefaults()

	var sb strings.Builder
	line := strings.Repeat("═", 60)
	thinLine := strings.Repeat("─", 60)

	sb.WriteString("\n" + line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", page.Title))
	if page.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("  %s\n", page.Subtitle))
	}
	sb.WriteString(fmt.Sprintf("  Generated: %s\n", utils.FormatDateTime(cfg.Now, cfg.Location)))
	sb.WriteString(line + "\n")

	writeRings := func(title string, scores []datasource.Score) error {
		if len(scores) == 0 {
			return nil
		}
		sb.WriteString(fmt.Sprintf("\n  ■ %s\n", title))
		for _, s := range scores {
			row, err := TextRing(s.Label, s.Value, s.MaxOrDefault())
			if err != nil {
				return fmt.Errorf("%s %q: %w", strings.ToLower(title), s.Label, err)
			}
			sb.WriteString("    " + row + "\n")
		}
		sb.WriteString(thinLine + "\n")
		return nil
	}

	if err := writeRings("SCORES", page.Scores); err != nil {
		return "", err
	}
	if err := writeRings("PROGRESS", page.Progress); err != nil {
		return "", err
	}
	if sp := page.Summary; sp != nil {
		if err := writeRings(strings.ToUpper(titleOr(sp.Label, "Summary")), []datasource.Score{sp.Outer, sp.Inner}); err != nil {
			return "", err
		}
	}

	if len(page.Trends) > 0 {
		sb.WriteString("\n  ■ TRENDS\n")
		for _, t := range page.Trends {
			spark, err := TextSparkline(t.Values)
			if err != nil {
				return "", fmt.Errorf("trend %q: %w", t.Label, err)
			}
			latest := "–"
			if v, ok := t.Latest(); ok {
				latest = utils.FormatWithUnit(v, t.Unit)
			}
			if pct, ok := trendChange(t.Values); ok {
				latest += "  " + utils.FormatPct(pct)
			}
			sb.WriteString(fmt.Sprintf("    %-20s %s  %s\n", t.Label, spark, latest))
		}
		sb.WriteString(thinLine + "\n")
	}

	return sb.String(), nil
}

// trendChange is the percentage change from the first to the last finite
// value.
func trendChange(values []float64) (float64, bool) {
	var first, last float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if n == 0 {
			first = v
		}
		last = v
		n++
	}
	if n < 2 || first == 0 {
		return 0, false
	}
	return (last - first) / math.Abs(first) * 100, true
}

// TextRing renders one ring as a 20-cell bar with its rounded value.
func TextRing(label string, value, max float64) (string, error) {
	g, err := geometry.RingWithRadius(value, max, 1)
	if err != nil {
		return "", err
	}
	const cells = 20
	filled := geometry.RoundLabel(g.Fraction() * cells)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
	return fmt.Sprintf("%-20s %s %3d%%  (%s / %s)",
		label, bar, g.Percent(), geometry.FormatNumber(g.Value), geometry.FormatNumber(g.Max)), nil
}

// TextSparkline renders values as one block character per point, taller
// blocks for larger values.
func TextSparkline(values []float64) (string, error) {
	levels := float64(len(sparkBlocks) - 1)
	g, err := geometry.Sparkline(values, float64(len(values)), levels)
	if err != nil {
		return "", err
	}
	if g.Empty() {
		return "(no data)", nil
	}
	var sb strings.Builder
	for _, p := range g.Points {
		idx := geometry.RoundLabel(levels - p.Y)
		sb.WriteRune(sparkBlocks[idx])
	}
	return sb.String(), nil
}
