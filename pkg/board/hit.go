package board

import (
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
)

// HandleSize is the default grab margin of the resize handles, in canvas pixels.
const HandleSize = 8.0

// Hit is the result of a hit test.
type Hit struct {
	BlockID string
	// Handle is empty when the body was hit.
	Handle gesture.Direction
}

// HitTest returns the topmost renderable block under p, given in canvas
// coordinates, and the resize handle under p if any. margin is the handle
// grab margin per axis; non-positive components mean [HandleSize].
func (b *Board) HitTest(p geom.Point, margin geom.Size) (Hit, bool) {
	if margin.Width <= 0 {
		margin.Width = HandleSize
	}
	if margin.Height <= 0 {
		margin.Height = HandleSize
	}
	blocks := b.Renderable()
	for i := len(blocks) - 1; i >= 0; i-- {
		bp := blocks[i]
		if p.X < bp.X || p.X > bp.Right() || p.Y < bp.Y || p.Y > bp.Bottom() {
			continue
		}
		return Hit{BlockID: bp.ID, Handle: handleAt(bp, p, margin)}, true
	}
	return Hit{}, false
}

// handleAt resolves the handle under p. Each margin is capped at a third of
// the block on its axis, so thin blocks keep a body region to drag by.
func handleAt(bp geom.BlockPosition, p geom.Point, margin geom.Size) gesture.Direction {
	margin.Width = min(margin.Width, bp.Width/3)
	margin.Height = min(margin.Height, bp.Height/3)

	var v, h string
	switch {
	case p.Y-bp.Y <= margin.Height:
		v = "n"
	case bp.Bottom()-p.Y <= margin.Height:
		v = "s"
	}
	switch {
	case p.X-bp.X <= margin.Width:
		h = "w"
	case bp.Right()-p.X <= margin.Width:
		h = "e"
	}
	return gesture.Direction(v + h)
}
