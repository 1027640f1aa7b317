package geometry

import (
	"math"
	"strings"
)

// Point is a position in viewport pixels, y growing downwards.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SeriesGeometry is a series normalised into a width × height viewport.
type SeriesGeometry struct {
	Points   []Point `json:"points"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Range    float64 `json:"range"` // floored at 1
	Step     float64 `json:"step"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Path     string  `json:"path"`
	AreaPath string  `json:"areaPath"`
}

// Empty reports whether the series produced no points.
func (g SeriesGeometry) Empty() bool {
	return len(g.Points) == 0
}

// Sparkline maps values into the viewport. Larger values sit higher on
// screen. Empty, single-point and constant series all produce defined
// output; only a negative or non-finite viewport is rejected.
//
// Non-finite entries do not count towards min/max and are plotted at the
// series minimum.
func Sparkline(values []float64, width, height float64) (SeriesGeometry, error) {
	if !isFinite(width) || width < 0 {
		return SeriesGeometry{}, invalid("sparkline", "width", width, "must be finite and non-negative")
	}
	if !isFinite(height) || height < 0 {
		return SeriesGeometry{}, invalid("sparkline", "height", height, "must be finite and non-negative")
	}

	g := SeriesGeometry{
		Points: []Point{},
		Range:  1,
		Width:  width,
		Height: height,
	}
	if len(values) == 0 {
		g.Step = width
		return g, nil
	}

	lo, hi := seriesBounds(values)
	g.Min, g.Max = lo, hi
	g.Step = width / SafeDenominator(float64(len(values)-1))

	// hi - lo overflows when the bounds sit near opposite ends of the
	// float64 range; the halved difference never does.
	norm := func(v float64) float64 { return (v - lo) / g.Range }
	if span := hi - lo; isFinite(span) {
		g.Range = SafeDenominator(span)
	} else {
		g.Range = math.MaxFloat64
		half := hi/2 - lo/2
		norm = func(v float64) float64 { return (v/2 - lo/2) / half }
	}

	g.Points = make([]Point, len(values))
	for i, v := range values {
		if !isFinite(v) {
			v = lo
		}
		g.Points[i] = Point{
			X: float64(i) * g.Step,
			Y: height - norm(v)*height,
		}
	}

	g.Path = linePath(g.Points)
	g.AreaPath = areaPath(g.Path, width, height)
	return g, nil
}

// seriesBounds returns the min and max of the finite values, or 0, 0 when
// there are none.
func seriesBounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

func linePath(points []Point) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(FormatNumber(p.X))
		sb.WriteString(",")
		sb.WriteString(FormatNumber(p.Y))
	}
	return sb.String()
}

func areaPath(line string, width, height float64) string {
	if line == "" {
		return ""
	}
	w, h := FormatNumber(width), FormatNumber(height)
	return line + " L" + w + "," + h + " L0," + h + " Z"
}
