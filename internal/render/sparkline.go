package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/seenimoa/minicharts/pkg/geometry"
)

// DefaultMaxPixels caps width × height of a PNG render when
// SparklineConfig.MaxPixels is unset.
const DefaultMaxPixels = 4_000_000

// ErrImageTooLarge is returned when a PNG viewport exceeds MaxPixels.
var ErrImageTooLarge = errors.New("image too large")

// SparklineConfig holds rendering parameters for sparklines.
type SparklineConfig struct {
	Width       float64 // viewport width (default: 280)
	Height      float64 // viewport height (default: 64)
	Area        bool    // fill the region under the line
	StrokeColor string  // default: ColorBlue
	StrokeWidth float64 // default: 2
	FillOpacity float64 // area fill opacity (default: 0.15)
	MaxPixels   int     // PNG width × height cap (default: DefaultMaxPixels)
}

// DefaultSparklineConfig returns the sparkline defaults.
func DefaultSparklineConfig() SparklineConfig {
	return SparklineConfig{
		Width:       280,
		Height:      64,
		Area:        true,
		StrokeColor: ColorBlue,
		StrokeWidth: 2,
		FillOpacity: 0.15,
		MaxPixels:   DefaultMaxPixels,
	}
}

func (c SparklineConfig) withDefaults() SparklineConfig {
	d := DefaultSparklineConfig()
	if c.Width == 0 && c.Height == 0 {
		c.Width, c.Height = d.Width, d.Height
	}
	if c.StrokeColor == "" {
		c.StrokeColor = d.StrokeColor
	}
	if c.StrokeWidth == 0 {
		c.StrokeWidth = d.StrokeWidth
	}
	if c.FillOpacity == 0 {
		c.FillOpacity = d.FillOpacity
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = d.MaxPixels
	}
	return c
}

// ════════════════════════════════════════════════════════════════════
// SVG
// ════════════════════════════════════════════════════════════════════

// SparklineSVG renders values as an open polyline path. An empty series
// renders the empty plot area so the card keeps its size.
func SparklineSVG(values []float64, cfg SparklineConfig) (string, error) {
	cfg = cfg.withDefaults()
	g, err := geometry.Sparkline(values, cfg.Width, cfg.Height)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg.Width, cfg.Height, "sparkline"))
	if g.Empty() {
		fmt.Fprintf(&sb, `<rect class="plot-empty" x="0" y="0" width="%s" height="%s" fill="#f5f5f5"/>`,
			num(cfg.Width), num(cfg.Height))
		sb.WriteString("</svg>")
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, `<title>%d points, min %s, max %s</title>`,
		len(g.Points), num(g.Min), num(g.Max))
	if cfg.Area {
		fmt.Fprintf(&sb, `<path class="area" d="%s" fill="%s" fill-opacity="%s" stroke="none"/>`,
			g.AreaPath, cfg.StrokeColor, num(cfg.FillOpacity))
	}
	fmt.Fprintf(&sb, `<path class="line" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linejoin="round" stroke-linecap="round"/>`,
		g.Path, cfg.StrokeColor, num(cfg.StrokeWidth))
	last := g.Points[len(g.Points)-1]
	fmt.Fprintf(&sb, `<circle class="last" cx="%s" cy="%s" r="%s" fill="%s"/>`,
		num(last.X), num(last.Y), num(cfg.StrokeWidth*1.5), cfg.StrokeColor)
	sb.WriteString("</svg>")
	return sb.String(), nil
}

// ════════════════════════════════════════════════════════════════════
// PNG
// ════════════════════════════════════════════════════════════════════

// SparklinePNG renders the same geometry as SparklineSVG into a PNG. The
// chart axes are pinned to the viewport so the plotted shape matches the
// SVG. Series with fewer than two points produce a blank image.
func SparklinePNG(w io.Writer, values []float64, cfg SparklineConfig) error {
	cfg = cfg.withDefaults()
	g, err := geometry.Sparkline(values, cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	if cfg.Width*cfg.Height > float64(cfg.MaxPixels) {
		return fmt.Errorf("sparkline png: %w: %vx%v exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, cfg.MaxPixels)
	}
	width, height := int(cfg.Width), int(cfg.Height)
	if width < 1 || height < 1 {
		return fmt.Errorf("sparkline png: viewport %dx%d too small", width, height)
	}
	if len(g.Points) < 2 {
		return blankPNG(w, width, height)
	}

	// go-chart's y axis grows upwards; geometry's grows down.
	xs := make([]float64, len(g.Points))
	ys := make([]float64, len(g.Points))
	for i, p := range g.Points {
		xs[i] = p.X
		ys[i] = g.Height - p.Y
	}

	stroke := drawing.ColorFromHex(strings.TrimPrefix(cfg.StrokeColor, "#"))
	style := chart.Style{
		StrokeColor: stroke,
		StrokeWidth: cfg.StrokeWidth,
	}
	if cfg.Area {
		style.FillColor = stroke.WithAlpha(uint8(cfg.FillOpacity * 255))
	}

	hidden := chart.Style{Hidden: true}
	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 1, Left: 1, Right: 1, Bottom: 1}},
		XAxis: chart.XAxis{
			Style: hidden,
			Range: &chart.ContinuousRange{Min: 0, Max: g.Width},
		},
		YAxis: chart.YAxis{
			Style: hidden,
			Range: &chart.ContinuousRange{Min: 0, Max: g.Height},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "series", XValues: xs, YValues: ys, Style: style},
		},
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("sparkline png: %w", err)
	}
	return nil
}

func blankPNG(w io.Writer, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	return png.Encode(w, img)
}
