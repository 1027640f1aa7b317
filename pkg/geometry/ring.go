package geometry

import "math"

// DefaultMax is the scale used by score widgets when no max is given.
const DefaultMax = 100

// RingSpec describes a ring whose radius is derived from its outer size and
// stroke width. A zero Max is rejected, so build specs with NewRingSpec
// unless a non-default scale is needed.
type RingSpec struct {
	Value       float64 `json:"value"`
	Max         float64 `json:"max"`
	Size        float64 `json:"size"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// NewRingSpec returns a spec on the default 0–100 scale.
func NewRingSpec(value, size, strokeWidth float64) RingSpec {
	return RingSpec{
		Value:       value,
		Max:         DefaultMax,
		Size:        size,
		StrokeWidth: strokeWidth,
	}
}

// Radius returns (size − strokeWidth) / 2.
func (s RingSpec) Radius() float64 {
	return (s.Size - s.StrokeWidth) / 2
}

// RingGeometry is the dash specification for a partially drawn circle.
// Filled + Gap always equals Circumference.
type RingGeometry struct {
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	Value         float64 `json:"value"` // clamped to [0, Max]
	Max           float64 `json:"max"`
	Filled        float64 `json:"filled"`
	Gap           float64 `json:"gap"`
}

// DashArray returns the (filled, gap) stroke pair.
func (g RingGeometry) DashArray() [2]float64 {
	return [2]float64{g.Filled, g.Gap}
}

// DashArrayAttr formats the dash pair for a stroke-dasharray attribute.
func (g RingGeometry) DashArrayAttr() string {
	return FormatNumber(g.Filled) + " " + FormatNumber(g.Gap)
}

// Fraction returns the filled share of the ring in [0, 1].
func (g RingGeometry) Fraction() float64 {
	if g.Max <= 0 {
		return 0
	}
	return g.Value / g.Max
}

// Label is the clamped value rounded for display.
func (g RingGeometry) Label() int {
	return RoundLabel(g.Value)
}

// Percent is the filled fraction as a rounded percentage.
func (g RingGeometry) Percent() int {
	return RoundLabel(g.Fraction() * 100)
}

// Ring computes the geometry for a size-driven ring.
func Ring(spec RingSpec) (RingGeometry, error) {
	if !isFinite(spec.Size) {
		return RingGeometry{}, invalid("ring", "size", spec.Size, "must be finite")
	}
	if !isFinite(spec.StrokeWidth) || spec.StrokeWidth < 0 {
		return RingGeometry{}, invalid("ring", "strokeWidth", spec.StrokeWidth, "must be finite and non-negative")
	}
	if spec.Size <= spec.StrokeWidth {
		return RingGeometry{}, invalid("ring", "size", spec.Size, "must exceed strokeWidth")
	}
	return ring(spec.Value, spec.Max, spec.Radius())
}

// RingWithRadius computes the geometry for a ring whose radius the caller
// chooses directly, as the progress and summary widgets do.
func RingWithRadius(value, max, radius float64) (RingGeometry, error) {
	if !isFinite(radius) || radius <= 0 {
		return RingGeometry{}, invalid("ring", "radius", radius, "must be finite and positive")
	}
	return ring(value, max, radius)
}

func ring(value, max, radius float64) (RingGeometry, error) {
	if !isFinite(max) || max <= 0 {
		return RingGeometry{}, invalid("ring", "max", max, "must be finite and positive")
	}

	circumference := 2 * math.Pi * radius
	if !isFinite(circumference) {
		return RingGeometry{}, invalid("ring", "radius", radius, "too large")
	}
	clamped := Clamp(value, 0, max)
	filled := (clamped / max) * circumference

	return RingGeometry{
		Radius:        radius,
		Circumference: circumference,
		Value:         clamped,
		Max:           max,
		Filled:        filled,
		Gap:           circumference - filled,
	}, nil
}
