package gesture

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/observability"
	"github.com/matzehuels/blockcanvas/pkg/schedule"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

// DefaultSafetyTimeout force-ends a gesture whose pointer-up was lost.
const DefaultSafetyTimeout = 5 * time.Second

// Options configures a [Controller]. The zero value is usable.
type Options struct {
	Clock  clockwork.Clock
	Logger *log.Logger
	Snap   snap.Options

	// SafetyTimeout defaults to DefaultSafetyTimeout.
	SafetyTimeout time.Duration
	// UpdateInterval is the scheduler window; see schedule.DefaultInterval.
	UpdateInterval time.Duration

	// OnPositionChange is the sole mutation channel. It receives at most one
	// update per interval and runs without the controller lock held.
	OnPositionChange func(Update)
	// OnSelect fires when a gesture starts on a block.
	OnSelect func(blockID string)
}

// gestureState is captured on pointer-down and discarded on exit.
type gestureState struct {
	target     Target
	startMouse geom.Point
	dragOffset geom.Point
	started    time.Time
}

// Controller is the drag/resize state machine. It is safe for concurrent use.
type Controller struct {
	input    InputAdapter
	surface  Surface
	clock    clockwork.Clock
	logger   *log.Logger
	snap     snap.Options
	timeout  time.Duration
	sched    *schedule.Scheduler[Update]
	onSelect func(string)

	mu     sync.Mutex
	state  State
	gs     *gestureState
	safety clockwork.Timer
	gen    uint64
	closed bool
}

// New creates an idle controller reading pointer events from input and canvas
// geometry from surface.
func New(input InputAdapter, surface Surface, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.SafetyTimeout <= 0 {
		opts.SafetyTimeout = DefaultSafetyTimeout
	}
	if input == nil {
		input = nopInput{}
	}
	if surface == nil {
		surface = StaticSurface{}
	}
	sink := opts.OnPositionChange
	if sink == nil {
		sink = func(Update) {}
	}
	return &Controller{
		input:    input,
		surface:  surface,
		clock:    opts.Clock,
		logger:   opts.Logger.WithPrefix("gesture"),
		snap:     opts.Snap,
		timeout:  opts.SafetyTimeout,
		sched:    schedule.New(opts.Clock, opts.UpdateInterval, sink),
		onSelect: opts.OnSelect,
		state:    Idle{},
	}
}

// State returns the current gesture state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Locked reports whether a gesture holds the operation lock.
func (c *Controller) Locked() bool {
	_, idle := c.State().(Idle)
	return !idle
}

// Pending reports whether a position update is waiting to be delivered.
func (c *Controller) Pending() bool { return c.sched.Pending() }

// BeginDrag starts translating t.Block from a primary-button pointer-down on
// its body. It reports false, changing nothing, when another gesture is
// active, the button is not primary, or the canvas cannot be resolved.
func (c *Controller) BeginDrag(ev PointerEvent, t Target) bool {
	if ev.Button != ButtonPrimary {
		return false
	}
	origin, ok := c.surface.Origin()
	if !ok {
		return false
	}
	zoom := c.zoom()
	offset := ev.Client.Sub(origin).Sub(t.Block.Origin().Scale(zoom))
	return c.begin(Dragging{BlockID: t.Block.ID}, &gestureState{
		target:     t,
		startMouse: ev.Client,
		dragOffset: offset,
	})
}

// BeginResize starts resizing t.Block from handle dir. It reports false,
// changing nothing, when another gesture is active or dir is not a handle.
func (c *Controller) BeginResize(ev PointerEvent, t Target, dir Direction) bool {
	if !dir.Valid() || ev.Button != ButtonPrimary {
		return false
	}
	return c.begin(Resizing{BlockID: t.Block.ID, Direction: dir}, &gestureState{
		target:     t,
		startMouse: ev.Client,
	})
}

func (c *Controller) begin(next State, gs *gestureState) bool {
	id := gs.target.Block.ID

	c.mu.Lock()
	if _, idle := c.state.(Idle); !idle || c.closed {
		held := c.state.Kind()
		c.mu.Unlock()
		c.logger.Debug("gesture ignored", "want", next.Kind(), "block", id, "held", held)
		observability.Gesture().OnGestureRejected(next.Kind(), id)
		return false
	}

	gs.started = c.clock.Now()
	c.state = next
	c.gs = gs
	c.gen++
	gen := c.gen
	c.safety = c.clock.AfterFunc(c.timeout, func() { c.end(gen, true) })
	c.input.Attach(c)
	c.mu.Unlock()

	c.logger.Debug("gesture start", "kind", next.Kind(), "block", id, "viewport", gs.target.Viewport)
	observability.Gesture().OnGestureStart(next.Kind(), id)
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return true
}

// PointerMove implements [Handler]. It computes the candidate geometry for
// the active gesture and schedules it; it is a no-op while idle.
func (c *Controller) PointerMove(ev PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gs == nil {
		return
	}
	t := c.gs.target
	zoom := c.zoom()

	var partial geom.Partial
	switch st := c.state.(type) {
	case Dragging:
		origin, ok := c.surface.Origin()
		if !ok {
			return
		}
		cand := ev.Client.Sub(origin).Sub(c.gs.dragOffset).Scale(1 / zoom)
		p := Drag(cand, t.Block.Size(), t.Config, c.snap)
		partial = geom.Partial{X: geom.Float(p.X), Y: geom.Float(p.Y)}
	case Resizing:
		delta := ev.Client.Sub(c.gs.startMouse).Scale(1 / zoom)
		partial = geom.Rect(Resize(t.Block, st.Direction, delta, t.Config, c.snap))
	default:
		return
	}

	c.sched.Schedule(Update{Viewport: t.Viewport, BlockID: t.Block.ID, Partial: partial})
}

// PointerUp implements [Handler]. It ends the active gesture.
func (c *Controller) PointerUp(PointerEvent) {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	c.end(gen, false)
}

// end returns to Idle if gen still identifies the active gesture: it stops
// the safety timer, detaches input and flushes the pending update. The update
// is delivered after c.mu is released.
func (c *Controller) end(gen uint64, forced bool) {
	c.mu.Lock()
	if gen != c.gen || c.gs == nil {
		c.mu.Unlock()
		return
	}
	kind, id := c.state.Kind(), c.gs.target.Block.ID
	elapsed := c.clock.Since(c.gs.started)

	c.state = Idle{}
	c.gs = nil
	c.gen++
	if c.safety != nil {
		c.safety.Stop()
		c.safety = nil
	}
	c.input.Detach()
	deliver := c.sched.Drain()
	c.mu.Unlock()

	deliver()
	if forced {
		c.logger.Warn("gesture force-released: no pointer-up received", "kind", kind, "block", id, "after", elapsed)
	} else {
		c.logger.Debug("gesture end", "kind", kind, "block", id, "elapsed", elapsed)
	}
	observability.Gesture().OnGestureEnd(kind, id, elapsed, forced)
}

// Close tears the controller down: it cancels any pending update without
// delivering it, detaches input and stops the safety timer. Later begin
// requests are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.sched.Cancel()
	if c.gs == nil {
		return
	}
	c.state = Idle{}
	c.gs = nil
	c.gen++
	if c.safety != nil {
		c.safety.Stop()
		c.safety = nil
	}
	c.input.Detach()
}

func (c *Controller) zoom() float64 {
	z := c.surface.Zoom()
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return 1
	}
	return z
}
