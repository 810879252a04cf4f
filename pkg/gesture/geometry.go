package gesture

import (
	"math"

	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

// Drag returns the position of a block of the given size whose top-left
// corner follows cand, clamped to the canvas and optionally snapped.
func Drag(cand geom.Point, size geom.Size, cfg geom.CanvasConfig, so snap.Options) geom.Point {
	maxX := math.Max(0, cfg.Width-size.Width)
	p := geom.Point{X: clamp(cand.X, 0, maxX), Y: math.Max(0, cand.Y)}
	if so.Enabled {
		p = snap.Point(p, cfg, so.Tolerance)
		// A grid line past the right edge must not push the block off canvas.
		p.X = clamp(p.X, 0, maxX)
		p.Y = math.Max(0, p.Y)
	}
	return p
}

// Resize returns start resized from handle dir by the model-space delta d.
// The edge or corner opposite the handle stays fixed; the result is clamped
// to the canvas and to the minimum block size.
func Resize(start geom.BlockPosition, dir Direction, d geom.Point, cfg geom.CanvasConfig, so snap.Options) geom.BlockPosition {
	x, y, w, h := start.X, start.Y, start.Width, start.Height

	width, height := w, h
	switch {
	case dir.east():
		width = w + d.X
	case dir.west():
		width = w - d.X
	}
	switch {
	case dir.south():
		height = h + d.Y
	case dir.north():
		height = h - d.Y
	}

	if so.Enabled && so.Sizes {
		s := snap.Size(geom.Size{Width: width, Height: height}, cfg, so.Tolerance)
		if dir.east() || dir.west() {
			width = s.Width
		}
		if dir.north() || dir.south() {
			height = s.Height
		}
	}
	width = math.Max(geom.MinWidth, width)
	height = math.Max(geom.MinHeight, height)

	nx, ny := x, y
	if dir.west() {
		nx = x + (w - width)
		if nx < 0 {
			// Keep the right edge anchored at the canvas boundary.
			width, nx = math.Max(geom.MinWidth, x+w), 0
		}
	}
	if dir.north() {
		ny = y + (h - height)
		if ny < 0 {
			height, ny = math.Max(geom.MinHeight, y+h), 0
		}
	}

	if cfg.Width > 0 {
		width = math.Min(width, cfg.Width-nx)
		width = math.Max(geom.MinWidth, math.Min(width, math.Max(cfg.Width, geom.MinWidth)))
		nx = clamp(nx, 0, math.Max(0, cfg.Width-width))
	}
	ny = math.Max(0, ny)

	return geom.BlockPosition{ID: start.ID, X: nx, Y: ny, Width: width, Height: height, ZIndex: start.ZIndex}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
