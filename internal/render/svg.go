// Package render turns geometry into markup: SVG ring and sparkline
// widgets, PNG sparklines, and the HTML dashboard page that lays the cards
// out. All numbers come from pkg/geometry; this package only decides
// colours, text and element order.
package render

import (
	"fmt"
	"strings"

	"github.com/seenimoa/minicharts/pkg/geometry"
)

// ════════════════════════════════════════════════════════════════════
// Palette
// ════════════════════════════════════════════════════════════════════

// Zone colours used by score widgets.
const (
	ColorRed    = "#ef5350"
	ColorOrange = "#ff9800"
	ColorAmber  = "#ffc107"
	ColorGreen  = "#4caf50"
	ColorBlue   = "#2196f3"
	ColorTrack  = "#e5e7eb"
	ColorText   = "#1a1a2e"
	ColorMuted  = "#6b7280"
)

// ScoreColor picks the zone colour for a percentage in [0, 100].
func ScoreColor(pct float64) string {
	switch {
	case pct < 30:
		return ColorRed
	case pct < 50:
		return ColorOrange
	case pct < 70:
		return ColorAmber
	default:
		return ColorGreen
	}
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(width, height float64, class string) string {
	w, h := geometry.FormatNumber(width), geometry.FormatNumber(height)
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" class="%s" width="%s" height="%s" viewBox="0 0 %s %s" font-family="sans-serif">`,
		class, w, h, w, h)
}

// trackCircle draws the full background circle of a ring.
func trackCircle(sb *strings.Builder, cx, cy, r, stroke float64, color string) {
	fmt.Fprintf(sb, `<circle class="track" cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
		num(cx), num(cy), num(r), color, num(stroke))
}

// progressCircle draws the filled arc of a ring. The stroke starts at
// 3 o'clock, so it is rotated to begin at 12. An empty ring keeps butt
// caps so no dot is drawn.
func progressCircle(sb *strings.Builder, g geometry.RingGeometry, cx, cy, stroke float64, color string) {
	linecap := "round"
	if g.Filled == 0 {
		linecap = "butt"
	}
	fmt.Fprintf(sb, `<circle class="progress" cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="%s" stroke-dasharray="%s" transform="rotate(-90 %s %s)"/>`,
		num(cx), num(cy), num(g.Radius), color, num(stroke), linecap, g.DashArrayAttr(), num(cx), num(cy))
}

func num(v float64) string {
	return geometry.FormatNumber(v)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
