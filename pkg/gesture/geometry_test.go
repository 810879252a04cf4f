package gesture

import (
	"math"
	"testing"

	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

var desktop = geom.CanvasConfig{Width: 800, GridColumns: 12, MinHeight: 400}

var start = geom.BlockPosition{ID: "b", X: 100, Y: 100, Width: 200, Height: 100}

func rect(x, y, w, h float64) geom.BlockPosition {
	return geom.BlockPosition{ID: "b", X: x, Y: y, Width: w, Height: h}
}

func TestResizeDirections(t *testing.T) {
	tests := []struct {
		name  string
		dir   Direction
		delta geom.Point
		want  geom.BlockPosition
	}{
		{"se grows right and down", SE, geom.Point{X: 50, Y: 20}, rect(100, 100, 250, 120)},
		{"nw grows left and up", NW, geom.Point{X: -30, Y: -10}, rect(70, 90, 230, 110)},
		{"sw anchors top right", SW, geom.Point{X: -20, Y: 10}, rect(80, 100, 220, 110)},
		{"ne anchors bottom left", NE, geom.Point{X: 20, Y: -10}, rect(100, 90, 220, 110)},
		{"n only height", N, geom.Point{X: 999, Y: 20}, rect(100, 120, 200, 80)},
		{"s only height", S, geom.Point{X: 999, Y: 20}, rect(100, 100, 200, 120)},
		{"e only width", E, geom.Point{X: 40, Y: 999}, rect(100, 100, 240, 100)},
		{"w only width", W, geom.Point{X: 40, Y: 999}, rect(140, 100, 160, 100)},
		{"se clamps to min size", SE, geom.Point{X: -500, Y: -500}, rect(100, 100, 50, 30)},
		{"nw min size keeps bottom right", NW, geom.Point{X: 500, Y: 500}, rect(250, 170, 50, 30)},
		{"e clamps at canvas edge", E, geom.Point{X: 1000}, rect(100, 100, 700, 100)},
		{"w clamps at canvas origin", W, geom.Point{X: -1000}, rect(0, 100, 300, 100)},
		{"n clamps at canvas top", N, geom.Point{Y: -1000}, rect(100, 0, 200, 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(start, tt.dir, tt.delta, desktop, snap.Options{})
			if got != tt.want {
				t.Errorf("Resize(%s, %v) = %+v, want %+v", tt.dir, tt.delta, got, tt.want)
			}
		})
	}
}

func TestResizeBounds(t *testing.T) {
	deltas := []float64{-2000, -350, -120, -49, -1, 0, 3, 77, 260, 900, 5000}
	starts := []geom.BlockPosition{
		start,
		rect(0, 0, 50, 30),
		rect(600, 10, 200, 300),
		rect(740, 900, 60, 40),
	}
	for _, s := range starts {
		for _, dir := range Directions {
			for _, dx := range deltas {
				for _, dy := range deltas {
					for _, so := range []snap.Options{{}, {Enabled: true, Sizes: true, Tolerance: 10}} {
						got := Resize(s, dir, geom.Point{X: dx, Y: dy}, desktop, so)
						if !got.Valid(desktop.Width) {
							t.Fatalf("Resize(%+v, %s, %v, %v) = %+v violates bounds", s, dir, dx, dy, got)
						}
					}
				}
			}
		}
	}
}

func TestResizeAnchorsStayFixed(t *testing.T) {
	for _, dir := range Directions {
		got := Resize(start, dir, geom.Point{X: 17, Y: -13}, desktop, snap.Options{})
		if !dir.west() && got.X != start.X {
			t.Errorf("%s moved left edge to %v", dir, got.X)
		}
		if dir.west() && got.Right() != start.Right() {
			t.Errorf("%s moved right edge to %v", dir, got.Right())
		}
		if !dir.north() && got.Y != start.Y {
			t.Errorf("%s moved top edge to %v", dir, got.Y)
		}
		if dir.north() && got.Bottom() != start.Bottom() {
			t.Errorf("%s moved bottom edge to %v", dir, got.Bottom())
		}
	}
}

func TestResizeSnapsSize(t *testing.T) {
	so := snap.Options{Enabled: true, Sizes: true, Tolerance: 10}
	col := 800.0 / 12

	got := Resize(start, SE, geom.Point{X: 3*col - 200 + 5, Y: 18}, desktop, so)
	if math.Abs(got.Width-3*col) > 1e-9 {
		t.Errorf("Width = %v, want %v", got.Width, 3*col)
	}
	if got.Height != 120 {
		t.Errorf("Height = %v, want 120", got.Height)
	}

	// Only the resized axis snaps.
	got = Resize(rect(100, 100, 200, 95), E, geom.Point{X: 0.5}, desktop, so)
	if got.Height != 95 {
		t.Errorf("e handle changed height to %v", got.Height)
	}
}

func TestDrag(t *testing.T) {
	size := geom.Size{Width: 200, Height: 100}
	tests := []struct {
		name string
		cand geom.Point
		so   snap.Options
		want geom.Point
	}{
		{"inside", geom.Point{X: 120, Y: 130}, snap.Options{}, geom.Point{X: 120, Y: 130}},
		{"clamped left and top", geom.Point{X: -40, Y: -10}, snap.Options{}, geom.Point{X: 0, Y: 0}},
		{"clamped right", geom.Point{X: 750, Y: 10}, snap.Options{}, geom.Point{X: 600, Y: 10}},
		{"no bottom limit", geom.Point{X: 0, Y: 99999}, snap.Options{}, geom.Point{X: 0, Y: 99999}},
		{"snapped", geom.Point{X: 64, Y: 118}, snap.DefaultOptions(), geom.Point{X: 800.0 / 12, Y: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Drag(tt.cand, size, desktop, tt.so)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Drag(%v) = %v, want %v", tt.cand, got, tt.want)
			}
		})
	}
}

func TestDragSnapNeverLeavesCanvas(t *testing.T) {
	// 800 - 205 = 595 is within tolerance of the grid line at 600.
	got := Drag(geom.Point{X: 700}, geom.Size{Width: 205, Height: 40}, desktop, snap.DefaultOptions())
	if got.X+205 > desktop.Width {
		t.Errorf("right edge %v exceeds canvas", got.X+205)
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(string(d))
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q) = %q, %v", d, got, err)
		}
	}
	if got, err := ParseDirection(" SE "); err != nil || got != SE {
		t.Errorf("ParseDirection(\" SE \") = %q, %v", got, err)
	}
	if _, err := ParseDirection("up"); err == nil {
		t.Error("ParseDirection(\"up\") should fail")
	}
}
