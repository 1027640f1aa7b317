package geometry

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSparklineEmpty(t *testing.T) {
	g, err := Sparkline(nil, 280, 64)
	if err != nil {
		t.Fatalf("Sparkline() error: %v", err)
	}
	if len(g.Points) != 0 || !g.Empty() {
		t.Errorf("Points: got %v, want empty", g.Points)
	}
	if g.Path != "" || g.AreaPath != "" {
		t.Errorf("paths: got %q / %q, want empty", g.Path, g.AreaPath)
	}
	if g.Range != 1 {
		t.Errorf("Range: got %v, want 1", g.Range)
	}
}

func TestSparklineSinglePoint(t *testing.T) {
	g, err := Sparkline([]float64{5}, 280, 64)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{X: 0, Y: 64}}
	if !reflect.DeepEqual(g.Points, want) {
		t.Errorf("Points: got %v, want %v", g.Points, want)
	}
	if g.Path != "M0,64" {
		t.Errorf("Path: got %q, want %q", g.Path, "M0,64")
	}
	if g.Range != 1 {
		t.Errorf("Range: got %v, want 1", g.Range)
	}
	if g.Step != 280 {
		t.Errorf("Step: got %v, want 280", g.Step)
	}
}

func TestSparklineConstant(t *testing.T) {
	g, err := Sparkline([]float64{1, 1, 1}, 280, 64)
	if err != nil {
		t.Fatal(err)
	}
	if g.Range != 1 {
		t.Errorf("Range: got %v, want 1", g.Range)
	}
	wantX := []float64{0, 140, 280}
	for i, p := range g.Points {
		if p.X != wantX[i] {
			t.Errorf("Points[%d].X: got %v, want %v", i, p.X, wantX[i])
		}
		if p.Y != 64 {
			t.Errorf("Points[%d].Y: got %v, want 64", i, p.Y)
		}
	}
	if g.Path != "M0,64 L140,64 L280,64" {
		t.Errorf("Path: got %q", g.Path)
	}
}

func TestSparklineNormalisesAndFlips(t *testing.T) {
	g, err := Sparkline([]float64{10, 30, 20, 50}, 300, 100)
	if err != nil {
		t.Fatal(err)
	}
	if g.Min != 10 || g.Max != 50 || g.Range != 40 {
		t.Errorf("Min/Max/Range: got %v/%v/%v, want 10/50/40", g.Min, g.Max, g.Range)
	}
	want := []Point{
		{X: 0, Y: 100},
		{X: 100, Y: 50},
		{X: 200, Y: 75},
		{X: 300, Y: 0},
	}
	if !reflect.DeepEqual(g.Points, want) {
		t.Errorf("Points: got %v, want %v", g.Points, want)
	}
	if g.Path != "M0,100 L100,50 L200,75 L300,0" {
		t.Errorf("Path: got %q", g.Path)
	}
	if g.AreaPath != "M0,100 L100,50 L200,75 L300,0 L300,100 L0,100 Z" {
		t.Errorf("AreaPath: got %q", g.AreaPath)
	}
}

func TestSparklineSmallRangeFloored(t *testing.T) {
	// max−min = 0.5 is below the floor, so the highest point stays at mid-height.
	g, err := Sparkline([]float64{2, 2.5}, 100, 64)
	if err != nil {
		t.Fatal(err)
	}
	if g.Range != 1 {
		t.Errorf("Range: got %v, want 1", g.Range)
	}
	if g.Points[1].Y != 32 {
		t.Errorf("Points[1].Y: got %v, want 32", g.Points[1].Y)
	}
}

func TestSparklineFractionalCoordinates(t *testing.T) {
	g, err := Sparkline([]float64{0, 1, 2, 3}, 100, 30)
	if err != nil {
		t.Fatal(err)
	}
	if g.Path != "M0,30 L33.33,20 L66.67,10 L100,0" {
		t.Errorf("Path: got %q", g.Path)
	}
}

func TestSparklineNonFiniteEntries(t *testing.T) {
	g, err := Sparkline([]float64{4, math.NaN(), 8, math.Inf(1)}, 30, 10)
	if err != nil {
		t.Fatal(err)
	}
	if g.Min != 4 || g.Max != 8 {
		t.Errorf("Min/Max: got %v/%v, want 4/8", g.Min, g.Max)
	}
	for _, i := range []int{1, 3} {
		if g.Points[i].Y != 10 {
			t.Errorf("Points[%d].Y: got %v, want 10 (series minimum)", i, g.Points[i].Y)
		}
	}

	all, err := Sparkline([]float64{math.NaN(), math.NaN()}, 30, 10)
	if err != nil {
		t.Fatal(err)
	}
	if all.Path != "M0,10 L30,10" {
		t.Errorf("all non-finite Path: got %q", all.Path)
	}
}

func TestSparklineExtremeBounds(t *testing.T) {
	g, err := Sparkline([]float64{-1e308, 0, 1e308}, 280, 64)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{X: 0, Y: 64}, {X: 140, Y: 32}, {X: 280, Y: 0}}
	if !reflect.DeepEqual(g.Points, want) {
		t.Errorf("Points: got %v, want %v", g.Points, want)
	}
	if g.Path != "M0,64 L140,32 L280,0" {
		t.Errorf("Path: got %q", g.Path)
	}
	if math.IsInf(g.Range, 0) || math.IsNaN(g.Range) {
		t.Errorf("Range: got %v, want finite", g.Range)
	}
	for i, p := range g.Points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			t.Errorf("Points[%d].Y is not finite: %v", i, p.Y)
		}
	}
}

func TestSparklineAreaDoesNotMutateLine(t *testing.T) {
	g, err := Sparkline([]float64{3, 1, 2}, 200, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Points) != 3 {
		t.Fatalf("Points: got %d, want 3", len(g.Points))
	}
	if g.AreaPath[:len(g.Path)] != g.Path {
		t.Errorf("AreaPath %q does not extend Path %q", g.AreaPath, g.Path)
	}
	if g.Points[2] != (Point{X: 200, Y: 25}) {
		t.Errorf("last point: got %v", g.Points[2])
	}
}

func TestSparklineKeepsInputOrder(t *testing.T) {
	values := []float64{9, 1, 5, 3}
	g, err := Sparkline(values, 30, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(g.Points); i++ {
		if g.Points[i].X <= g.Points[i-1].X {
			t.Fatalf("x not increasing at %d: %v", i, g.Points)
		}
	}
	if !reflect.DeepEqual(values, []float64{9, 1, 5, 3}) {
		t.Errorf("input mutated: %v", values)
	}
}

func TestSparklineIdempotent(t *testing.T) {
	values := []float64{12.5, 7, 19.25, 3, 3, 40}
	a, _ := Sparkline(values, 280, 64)
	b, _ := Sparkline(values, 280, 64)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated Sparkline() calls differ:\n%+v\n%+v", a, b)
	}
}

func TestSparklineInvalidViewport(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"negative width", -1, 64},
		{"negative height", 280, -1},
		{"NaN width", math.NaN(), 64},
		{"infinite height", 280, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Sparkline([]float64{1, 2}, tt.width, tt.height)
			if !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("got %v, want ErrInvalidParameter", err)
			}
		})
	}
}
