// Package placement computes a default, non-overlapping position for a newly
// inserted block.
//
// The strategy is a single column: a candidate rectangle starts at
// ([DefaultX], [DefaultY]) and moves down by its own height plus [Gap] until it
// no longer overlaps any existing block. Alternative x positions are never
// searched, so blocks stack vertically by default.
package placement

import (
	"math"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

const (
	// DefaultX and DefaultY are the top-left corner of the first candidate.
	DefaultX = 50.0
	DefaultY = 50.0

	// DefaultHeight is the candidate height when no size hint is given.
	DefaultHeight = 120.0

	// Gap is the vertical distance kept between stacked blocks.
	Gap = 20.0
)

// Place returns a position for a new block of default size: half the canvas
// width and [DefaultHeight] tall. The returned ID is empty.
func Place(existing []geom.BlockPosition, cfg geom.CanvasConfig) geom.BlockPosition {
	return PlaceSized(existing, cfg, geom.Size{Width: cfg.Width / 2, Height: DefaultHeight})
}

// PlaceSized is like [Place] with a caller-supplied size, typically a
// content-aware hint. The size is clamped to the minimum block size and to the
// canvas width.
func PlaceSized(existing []geom.BlockPosition, cfg geom.CanvasConfig, size geom.Size) geom.BlockPosition {
	w := math.Max(geom.MinWidth, size.Width)
	h := math.Max(geom.MinHeight, size.Height)
	x := DefaultX
	if cfg.Width > 0 && x+w > cfg.Width {
		w = math.Min(w, math.Max(geom.MinWidth, cfg.Width-DefaultX))
		x = math.Max(0, math.Min(DefaultX, cfg.Width-w))
	}

	// Candidates sit at DefaultY + n*step. Every step above the bottom of a
	// block the candidate overlaps overlaps it too, so n jumps past it and the
	// candidate never revisits a block.
	step := h + Gap
	cand := geom.BlockPosition{X: x, Y: DefaultY, Width: w, Height: h}
	n := 0.0
	for {
		p, ok := collision(cand, existing)
		if !ok {
			return cand
		}
		n = math.Max(n+1, math.Ceil((p.Bottom()-DefaultY)/step))
		cand.Y = math.Max(DefaultY+n*step, p.Bottom())
	}
}

func collision(cand geom.BlockPosition, existing []geom.BlockPosition) (geom.BlockPosition, bool) {
	for _, p := range existing {
		if cand.Overlaps(p) {
			return p, true
		}
	}
	return geom.BlockPosition{}, false
}
