package render

import (
	"fmt"
	"strings"

	"github.com/seenimoa/minicharts/pkg/geometry"
)

// ════════════════════════════════════════════════════════════════════
// Radial Score
// ════════════════════════════════════════════════════════════════════

// RadialConfig holds rendering parameters for the radial score card.
type RadialConfig struct {
	Size        float64 // outer size in pixels (default: 140)
	StrokeWidth float64 // ring thickness (default: 10)
	TrackColor  string  // background ring colour (default: ColorTrack)
	TextColor   string  // centre label colour (default: ColorText)
}

// DefaultRadialConfig returns the radial score defaults.
func DefaultRadialConfig() RadialConfig {
	return RadialConfig{
		Size:        140,
		StrokeWidth: 10,
		TrackColor:  ColorTrack,
		TextColor:   ColorText,
	}
}

// RadialScore renders a score on the default 0–100 scale as a ring with
// the rounded value in its centre and an optional caption below.
func RadialScore(value float64, label string, cfg RadialConfig) (string, error) {
	return RadialScoreOf(value, geometry.DefaultMax, label, cfg)
}

// RadialScoreOf is RadialScore on a custom scale.
func RadialScoreOf(value, max float64, label string, cfg RadialConfig) (string, error) {
	cfg = cfg.withDefaults()
	g, err := geometry.Ring(geometry.RingSpec{
		Value:       value,
		Max:         max,
		Size:        cfg.Size,
		StrokeWidth: cfg.StrokeWidth,
	})
	if err != nil {
		return "", err
	}

	c := cfg.Size / 2
	height := cfg.Size
	if label != "" {
		height += 24
	}
	color := ScoreColor(float64(g.Percent()))

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg.Size, height, "radial-score"))
	fmt.Fprintf(&sb, `<title>%s: %d</title>`, escapeXML(titleOr(label, "Score")), g.Label())
	trackCircle(&sb, c, c, g.Radius, cfg.StrokeWidth, cfg.TrackColor)
	progressCircle(&sb, g, c, c, cfg.StrokeWidth, color)
	fmt.Fprintf(&sb, `<text class="value" x="%s" y="%s" font-size="%s" font-weight="bold" fill="%s" text-anchor="middle" dominant-baseline="central">%d</text>`,
		num(c), num(c), num(cfg.Size*0.22), cfg.TextColor, g.Label())
	if label != "" {
		fmt.Fprintf(&sb, `<text class="label" x="%s" y="%s" font-size="12" fill="%s" text-anchor="middle">%s</text>`,
			num(c), num(height-6), ColorMuted, escapeXML(label))
	}
	sb.WriteString("</svg>")
	return sb.String(), nil
}

func (c RadialConfig) withDefaults() RadialConfig {
	d := DefaultRadialConfig()
	if c.Size == 0 && c.StrokeWidth == 0 {
		c.Size, c.StrokeWidth = d.Size, d.StrokeWidth
	}
	if c.TrackColor == "" {
		c.TrackColor = d.TrackColor
	}
	if c.TextColor == "" {
		c.TextColor = d.TextColor
	}
	return c
}

// ════════════════════════════════════════════════════════════════════
// Circular Progress
// ════════════════════════════════════════════════════════════════════

// ProgressConfig holds rendering parameters for the inline progress ring.
type ProgressConfig struct {
	Radius      float64 // ring radius (default: 36)
	StrokeWidth float64 // ring thickness (default: 8)
	Color       string  // progress colour (default: ColorBlue)
	TrackColor  string  // background ring colour (default: ColorTrack)
}

// DefaultProgressConfig returns the progress ring defaults.
func DefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		Radius:      36,
		StrokeWidth: 8,
		Color:       ColorBlue,
		TrackColor:  ColorTrack,
	}
}

// CircularProgress renders value/max as a fixed-radius ring with the
// filled percentage in its centre.
func CircularProgress(value, max float64, cfg ProgressConfig) (string, error) {
	cfg = cfg.withDefaults()
	g, err := geometry.RingWithRadius(value, max, cfg.Radius)
	if err != nil {
		return "", err
	}

	size := 2*cfg.Radius + cfg.StrokeWidth
	c := size / 2

	var sb strings.Builder
	sb.WriteString(svgHeader(size, size, "circular-progress"))
	fmt.Fprintf(&sb, `<title>%d%%</title>`, g.Percent())
	trackCircle(&sb, c, c, g.Radius, cfg.StrokeWidth, cfg.TrackColor)
	progressCircle(&sb, g, c, c, cfg.StrokeWidth, cfg.Color)
	fmt.Fprintf(&sb, `<text class="value" x="%s" y="%s" font-size="%s" font-weight="600" fill="%s" text-anchor="middle" dominant-baseline="central">%d%%</text>`,
		num(c), num(c), num(cfg.Radius*0.45), ColorText, g.Percent())
	sb.WriteString("</svg>")
	return sb.String(), nil
}

func (c ProgressConfig) withDefaults() ProgressConfig {
	d := DefaultProgressConfig()
	if c.Radius == 0 {
		c.Radius = d.Radius
	}
	if c.StrokeWidth == 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.Color == "" {
		c.Color = d.Color
	}
	if c.TrackColor == "" {
		c.TrackColor = d.TrackColor
	}
	return c
}

// ════════════════════════════════════════════════════════════════════
// Summary Rings
// ════════════════════════════════════════════════════════════════════

// RingInput is one ring of a summary pair.
type RingInput struct {
	Label string
	Value float64
	Max   float64
}

// SummaryConfig holds rendering parameters for the concentric summary card.
type SummaryConfig struct {
	OuterRadius float64 // default: 52
	InnerRadius float64 // default: 38
	StrokeWidth float64 // default: 8
	OuterColor  string  // default: ColorBlue
	InnerColor  string  // default: ColorGreen
	TrackColor  string  // default: ColorTrack
}

// DefaultSummaryConfig returns the summary ring defaults.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{
		OuterRadius: 52,
		InnerRadius: 38,
		StrokeWidth: 8,
		OuterColor:  ColorBlue,
		InnerColor:  ColorGreen,
		TrackColor:  ColorTrack,
	}
}

// SummaryRings renders two concentric rings, outer and inner, each with
// its own radius and scale. The outer ring's percentage sits in the
// centre.
func SummaryRings(outer, inner RingInput, cfg SummaryConfig) (string, error) {
	cfg = cfg.withDefaults()
	og, err := geometry.RingWithRadius(outer.Value, outer.Max, cfg.OuterRadius)
	if err != nil {
		return "", fmt.Errorf("outer ring: %w", err)
	}
	ig, err := geometry.RingWithRadius(inner.Value, inner.Max, cfg.InnerRadius)
	if err != nil {
		return "", fmt.Errorf("inner ring: %w", err)
	}

	size := 2*cfg.OuterRadius + cfg.StrokeWidth
	c := size / 2

	var sb strings.Builder
	sb.WriteString(svgHeader(size, size, "summary-rings"))
	fmt.Fprintf(&sb, `<title>%s: %d%%, %s: %d%%</title>`,
		escapeXML(titleOr(outer.Label, "Outer")), og.Percent(), escapeXML(titleOr(inner.Label, "Inner")), ig.Percent())
	trackCircle(&sb, c, c, og.Radius, cfg.StrokeWidth, cfg.TrackColor)
	progressCircle(&sb, og, c, c, cfg.StrokeWidth, cfg.OuterColor)
	trackCircle(&sb, c, c, ig.Radius, cfg.StrokeWidth, cfg.TrackColor)
	progressCircle(&sb, ig, c, c, cfg.StrokeWidth, cfg.InnerColor)
	fmt.Fprintf(&sb, `<text class="value" x="%s" y="%s" font-size="%s" font-weight="bold" fill="%s" text-anchor="middle" dominant-baseline="central">%d%%</text>`,
		num(c), num(c), num(cfg.InnerRadius*0.45), ColorText, og.Percent())
	sb.WriteString("</svg>")
	return sb.String(), nil
}

func (c SummaryConfig) withDefaults() SummaryConfig {
	d := DefaultSummaryConfig()
	if c.OuterRadius == 0 && c.InnerRadius == 0 {
		c.OuterRadius, c.InnerRadius = d.OuterRadius, d.InnerRadius
	}
	if c.StrokeWidth == 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.OuterColor == "" {
		c.OuterColor = d.OuterColor
	}
	if c.InnerColor == "" {
		c.InnerColor = d.InnerColor
	}
	if c.TrackColor == "" {
		c.TrackColor = d.TrackColor
	}
	return c
}

func titleOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
