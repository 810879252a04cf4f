package geom

import "math"

// =============================================================================
// Constants
// =============================================================================

const (
	// MinWidth is the smallest width a block may be resized to.
	MinWidth = 50.0

	// MinHeight is the smallest height a block may be resized to.
	MinHeight = 30.0

	// RowUnit is the fixed vertical grid unit in pixels.
	RowUnit = 20.0

	// BottomMargin is the space kept below the lowest block when sizing the canvas.
	BottomMargin = 60.0
)

// =============================================================================
// Viewport
// =============================================================================

// Viewport identifies one independent layout context.
type Viewport string

const (
	Desktop Viewport = "desktop"
	Mobile  Viewport = "mobile"
)

// Viewports lists the known viewports in display order.
var Viewports = []Viewport{Desktop, Mobile}

// String returns the viewport identifier.
func (v Viewport) String() string { return string(v) }

// Known reports whether v is one of [Viewports].
func (v Viewport) Known() bool {
	for _, k := range Viewports {
		if v == k {
			return true
		}
	}
	return false
}

// =============================================================================
// CanvasConfig
// =============================================================================

// CanvasConfig holds the static geometry of one viewport's canvas.
type CanvasConfig struct {
	Width       float64 `json:"width" mapstructure:"width"`
	GridColumns int     `json:"grid_columns" mapstructure:"grid_columns"`
	MinHeight   float64 `json:"min_height" mapstructure:"min_height"`
}

// ColumnWidth returns the width of one horizontal grid column.
// A config without columns treats the whole canvas as a single column.
func (c CanvasConfig) ColumnWidth() float64 {
	if c.GridColumns <= 0 {
		return c.Width
	}
	return c.Width / float64(c.GridColumns)
}

// DefaultConfigs returns the built-in canvas configuration per viewport.
// Widths match the final rendered output of each viewport.
func DefaultConfigs() map[Viewport]CanvasConfig {
	return map[Viewport]CanvasConfig{
		Desktop: {Width: 800, GridColumns: 12, MinHeight: 400},
		Mobile:  {Width: 375, GridColumns: 6, MinHeight: 600},
	}
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a pixel coordinate pair.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by f.
func (p Point) Scale(f float64) Point { return Point{X: p.X * f, Y: p.Y * f} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" mapstructure:"width"`
	Height float64 `json:"height" mapstructure:"height"`
}

// BlockPosition is the pixel-space rectangle of one content block.
type BlockPosition struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex *int    `json:"zIndex,omitempty"`
}

// Right returns the x coordinate of the right edge.
func (b BlockPosition) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b BlockPosition) Bottom() float64 { return b.Y + b.Height }

// Origin returns the top-left corner.
func (b BlockPosition) Origin() Point { return Point{X: b.X, Y: b.Y} }

// Size returns the block's dimensions.
func (b BlockPosition) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// Z returns the z-order, treating an unset value as 0.
func (b BlockPosition) Z() int {
	if b.ZIndex == nil {
		return 0
	}
	return *b.ZIndex
}

// Overlaps reports whether the two rectangles intersect with positive area.
// Rectangles that only touch along an edge do not overlap.
func (b BlockPosition) Overlaps(o BlockPosition) bool {
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// Valid reports whether b satisfies the position invariants for a canvas
// of the given width. NaN and infinite coordinates are never valid.
func (b BlockPosition) Valid(canvasWidth float64) bool {
	for _, v := range []float64{b.X, b.Y, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.X >= 0 && b.Y >= 0 &&
		b.Width >= MinWidth && b.Height >= MinHeight &&
		b.Right() <= canvasWidth+epsilon
}

// epsilon absorbs float drift from column-width arithmetic (800/12 etc).
const epsilon = 1e-9

// =============================================================================
// Partial
// =============================================================================

// Partial is a sparse position update. A nil field leaves the value unchanged.
type Partial struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	ZIndex *int     `json:"zIndex,omitempty"`
}

// Float returns a pointer to v, for building a [Partial].
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building a [Partial].
func Int(v int) *int { return &v }

// Empty reports whether p changes nothing.
func (p Partial) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil && p.ZIndex == nil
}

// Apply returns b with the fields set in p replaced.
func (p Partial) Apply(b BlockPosition) BlockPosition {
	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.Width != nil {
		b.Width = *p.Width
	}
	if p.Height != nil {
		b.Height = *p.Height
	}
	if p.ZIndex != nil {
		z := *p.ZIndex
		b.ZIndex = &z
	}
	return b
}

// Rect returns a Partial that sets all four geometry fields of b.
func Rect(b BlockPosition) Partial {
	return Partial{X: Float(b.X), Y: Float(b.Y), Width: Float(b.Width), Height: Float(b.Height)}
}

// =============================================================================
// PositionSet and Node
// =============================================================================

// PositionSet maps block id to its position within one viewport.
type PositionSet map[string]BlockPosition

// Clone returns an independent copy of s.
func (s PositionSet) Clone() PositionSet {
	out := make(PositionSet, len(s))
	for id, p := range s {
		if p.ZIndex != nil {
			z := *p.ZIndex
			p.ZIndex = &z
		}
		out[id] = p
	}
	return out
}

// Slice returns the positions of s in unspecified order.
func (s PositionSet) Slice() []BlockPosition {
	out := make([]BlockPosition, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	return out
}

// Node identifies a block's existence and content kind.
// It is owned by the content store and never mutated by the engine.
type Node struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// NodeIDs returns the set of ids in nodes.
func NodeIDs(nodes []Node) map[string]struct{} {
	ids := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	return ids
}
