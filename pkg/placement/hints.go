package placement

import (
	"math"

	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// Hints maps a block type to its preferred initial size.
type Hints map[string]geom.Size

// DefaultHints returns the built-in content-aware sizes, in desktop pixels.
func DefaultHints() Hints {
	return Hints{
		"text":    {Width: 400, Height: 120},
		"heading": {Width: 600, Height: 60},
		"image":   {Width: 400, Height: 300},
		"video":   {Width: 480, Height: 270},
		"table":   {Width: 600, Height: 200},
		"poll":    {Width: 400, Height: 240},
		"quote":   {Width: 500, Height: 100},
		"divider": {Width: 700, Height: 30},
		"embed":   {Width: 480, Height: 360},
	}
}

// For returns the size hint for blockType on cfg. Unknown types get the
// default placement size. Hints wider than the usable canvas are scaled down
// proportionally, keeping the minimum block size.
func (h Hints) For(blockType string, cfg geom.CanvasConfig) geom.Size {
	s, ok := h[blockType]
	if !ok {
		return geom.Size{Width: cfg.Width / 2, Height: DefaultHeight}
	}
	usable := cfg.Width - DefaultX
	if usable > 0 && s.Width > usable {
		f := usable / s.Width
		s = geom.Size{Width: usable, Height: s.Height * f}
	}
	s.Width = math.Max(geom.MinWidth, s.Width)
	s.Height = math.Max(geom.MinHeight, s.Height)
	return s
}
