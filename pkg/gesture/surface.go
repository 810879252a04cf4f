package gesture

import "github.com/matzehuels/blockcanvas/pkg/geom"

// StaticSurface is a [Surface] with a fixed origin. A zero Scale means 1.
type StaticSurface struct {
	At    geom.Point
	Scale float64
}

// Origin implements [Surface]. A static surface is always resolvable.
func (s StaticSurface) Origin() (geom.Point, bool) { return s.At, true }

// Zoom implements [Surface].
func (s StaticSurface) Zoom() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

type nopInput struct{}

func (nopInput) Attach(Handler) {}
func (nopInput) Detach()        {}
