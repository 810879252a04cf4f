package gesture

import (
	"strings"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// =============================================================================
// State
// =============================================================================

// State is the tagged gesture state: one of [Idle], [Dragging] or [Resizing].
type State interface {
	// Kind returns "idle", "drag" or "resize".
	Kind() string
	isState()
}

// Idle means no gesture is active and the operation lock is free.
type Idle struct{}

// Dragging means a block is being translated.
type Dragging struct {
	BlockID string
}

// Resizing means a block is being resized from one of its eight handles.
type Resizing struct {
	BlockID   string
	Direction Direction
}

func (Idle) Kind() string     { return "idle" }
func (Dragging) Kind() string { return "drag" }
func (Resizing) Kind() string { return "resize" }

func (Idle) isState()     {}
func (Dragging) isState() {}
func (Resizing) isState() {}

// =============================================================================
// Direction
// =============================================================================

// Direction names a resize handle by the compass edge or corner it moves.
type Direction string

const (
	N  Direction = "n"
	S  Direction = "s"
	E  Direction = "e"
	W  Direction = "w"
	NE Direction = "ne"
	NW Direction = "nw"
	SE Direction = "se"
	SW Direction = "sw"
)

// Directions lists all eight handles.
var Directions = []Direction{N, S, E, W, NE, NW, SE, SW}

// ParseDirection converts a handle name such as "se" to a Direction.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", errors.New(errors.ErrCodeInvalidDirection, "unknown resize handle %q", s)
	}
	return d, nil
}

// Valid reports whether d is one of [Directions].
func (d Direction) Valid() bool {
	switch d {
	case N, S, E, W, NE, NW, SE, SW:
		return true
	}
	return false
}

func (d Direction) north() bool { return d == N || d == NE || d == NW }
func (d Direction) south() bool { return d == S || d == SE || d == SW }
func (d Direction) east() bool  { return d == E || d == NE || d == SE }
func (d Direction) west() bool  { return d == W || d == NW || d == SW }

// =============================================================================
// Input
// =============================================================================

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// PointerEvent is a pointer position in client (screen) pixels.
type PointerEvent struct {
	Client geom.Point
	Button Button
}

// Handler receives document-level pointer events while a gesture is active.
type Handler interface {
	PointerMove(ev PointerEvent)
	PointerUp(ev PointerEvent)
}

// InputAdapter subscribes a [Handler] to document-level pointer events.
// Attach and Detach are called with the controller lock held and must not
// deliver events synchronously.
type InputAdapter interface {
	Attach(h Handler)
	Detach()
}

// Surface resolves the on-screen geometry of the canvas.
type Surface interface {
	// Origin returns the client position of the canvas top-left corner.
	// ok is false when the canvas cannot currently be resolved.
	Origin() (origin geom.Point, ok bool)
	// Zoom returns the display scale applied to the canvas.
	Zoom() float64
}

// Target is the block a gesture acts on, with the geometry of its viewport.
type Target struct {
	Block    geom.BlockPosition
	Viewport geom.Viewport
	Config   geom.CanvasConfig
}

// Update is one computed geometry change, delivered through the scheduler.
type Update struct {
	Viewport geom.Viewport
	BlockID  string
	Partial  geom.Partial
}
