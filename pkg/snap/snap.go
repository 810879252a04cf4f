// Package snap aligns canvas coordinates to the layout grid.
//
// The horizontal grid divides the canvas into equal columns; the vertical grid
// uses a fixed [geom.RowUnit]. A coordinate snaps to its nearest grid line only
// when it is within the tolerance of that line, independently per axis. Snapping
// never fails: a coordinate out of range is returned unchanged.
package snap

import (
	"math"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// DefaultTolerance is the snap distance in pixels.
const DefaultTolerance = 10.0

// Options controls grid snapping.
type Options struct {
	Enabled   bool    `mapstructure:"enabled"`
	Tolerance float64 `mapstructure:"tolerance"`
	// Sizes also snaps width and height during a resize.
	Sizes bool `mapstructure:"sizes"`
}

// DefaultOptions enables position snapping with [DefaultTolerance].
func DefaultOptions() Options {
	return Options{Enabled: true, Tolerance: DefaultTolerance}
}

// Point snaps (x, y) to the grid of cfg.
func Point(p geom.Point, cfg geom.CanvasConfig, tolerance float64) geom.Point {
	return geom.Point{
		X: axis(p.X, cfg.ColumnWidth(), tolerance),
		Y: axis(p.Y, geom.RowUnit, tolerance),
	}
}

// Size snaps a width against the column width and a height against the row
// unit, using the same tolerance rule as [Point].
func Size(s geom.Size, cfg geom.CanvasConfig, tolerance float64) geom.Size {
	return geom.Size{
		Width:  axis(s.Width, cfg.ColumnWidth(), tolerance),
		Height: axis(s.Height, geom.RowUnit, tolerance),
	}
}

func axis(v, unit, tolerance float64) float64 {
	if unit <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	snapped := math.Round(v/unit) * unit
	if math.Abs(v-snapped) <= tolerance {
		return snapped
	}
	return v
}
