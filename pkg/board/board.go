// Package board wires the positioning engine into one editor canvas.
//
// A [Board] owns the node list, the viewport-keyed position store and the
// gesture controller. It seeds positions for new blocks and for blocks that
// enter a viewport for the first time, routes pointer-downs to the controller,
// and exposes the derived, read-only values the container layout needs: the
// canvas height, the phantom list and the renderable positions.
package board

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/extent"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
	"github.com/matzehuels/blockcanvas/pkg/placement"
	"github.com/matzehuels/blockcanvas/pkg/schedule"
	"github.com/matzehuels/blockcanvas/pkg/snap"
	"github.com/matzehuels/blockcanvas/pkg/store"
)

// =============================================================================
// Configuration
// =============================================================================

// Config is the static configuration of a board.
type Config struct {
	Canvases       map[geom.Viewport]geom.CanvasConfig
	Snap           snap.Options
	Hints          placement.Hints
	SafetyTimeout  time.Duration
	UpdateInterval time.Duration
}

// DefaultConfig returns the built-in desktop/mobile configuration.
func DefaultConfig() Config {
	return Config{
		Canvases:       geom.DefaultConfigs(),
		Snap:           snap.DefaultOptions(),
		Hints:          placement.DefaultHints(),
		SafetyTimeout:  gesture.DefaultSafetyTimeout,
		UpdateInterval: schedule.DefaultInterval,
	}
}

// Validate checks every canvas configuration.
func (c Config) Validate() error {
	if len(c.Canvases) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no canvas configured")
	}
	for vp, cfg := range c.Canvases {
		if err := errors.ValidateCanvasConfig(vp, cfg); err != nil {
			return err
		}
	}
	if c.Snap.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "snap tolerance must be non-negative, got %v", c.Snap.Tolerance)
	}
	return nil
}

// Options carries the runtime collaborators of a board. The zero value is usable.
type Options struct {
	Clock   clockwork.Clock
	Logger  *log.Logger
	Input   gesture.InputAdapter
	Surface gesture.Surface

	// OnSelect fires when a gesture starts on a block.
	OnSelect func(blockID string)
	// OnHeightChange fires when the derived canvas height of a viewport
	// changes. It runs with no board or controller lock held and may call
	// back into the board.
	OnHeightChange func(vp geom.Viewport, height float64)
}

// =============================================================================
// Board
// =============================================================================

// Board is one editor canvas. It is safe for concurrent use.
type Board struct {
	cfg    Config
	logger *log.Logger
	store  *store.Store
	ctrl   *gesture.Controller

	onSelect       func(string)
	onHeightChange func(geom.Viewport, float64)
	unsubscribe    func()

	writeMu sync.Mutex   // serializes read-modify-write sequences on the store
	writing atomic.Int32 // write sections in progress; height notices wait for zero

	mu         sync.RWMutex // guards the fields below; never held across store or controller calls
	nodes      []geom.Node
	viewport   geom.Viewport
	selected   string
	lastHeight map[geom.Viewport]float64
	stale      map[geom.Viewport]struct{} // viewports whose height needs rechecking
	notifying  bool
}

// New creates an empty board showing the desktop viewport.
func New(cfg Config, opts Options) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Hints == nil {
		cfg.Hints = placement.DefaultHints()
	}
	if cfg.SafetyTimeout <= 0 {
		cfg.SafetyTimeout = gesture.DefaultSafetyTimeout
	}
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = schedule.DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	b := &Board{
		cfg:            cfg,
		logger:         opts.Logger.WithPrefix("board"),
		store:          store.New(),
		onSelect:       opts.OnSelect,
		onHeightChange: opts.OnHeightChange,
		viewport:       geom.Desktop,
		lastHeight:     make(map[geom.Viewport]float64),
		stale:          make(map[geom.Viewport]struct{}),
	}
	if _, ok := cfg.Canvases[geom.Desktop]; !ok {
		b.viewport = sortedViewports(cfg.Canvases)[0]
	}

	b.ctrl = gesture.New(opts.Input, opts.Surface, gesture.Options{
		Clock:            opts.Clock,
		Logger:           opts.Logger,
		Snap:             cfg.Snap,
		SafetyTimeout:    cfg.SafetyTimeout,
		UpdateInterval:   cfg.UpdateInterval,
		OnPositionChange: b.apply,
		OnSelect:         b.selectBlock,
	})
	b.unsubscribe = b.store.Subscribe(b.changed)
	return b, nil
}

// Close tears down the gesture controller and stops change notifications.
func (b *Board) Close() {
	b.ctrl.Close()
	b.unsubscribe()
}

// Config returns the static configuration of the board.
func (b *Board) Config() Config { return b.cfg }

// Store returns the underlying position store.
func (b *Board) Store() *store.Store { return b.store }

// Controller returns the gesture controller.
func (b *Board) Controller() *gesture.Controller { return b.ctrl }

// Viewport returns the current viewport.
func (b *Board) Viewport() geom.Viewport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.viewport
}

// Canvas returns the canvas configuration of vp.
func (b *Board) Canvas(vp geom.Viewport) (geom.CanvasConfig, bool) {
	cfg, ok := b.cfg.Canvases[vp]
	return cfg, ok
}

// Nodes returns a copy of the node list.
func (b *Board) Nodes() []geom.Node {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]geom.Node(nil), b.nodes...)
}

// Selected returns the id of the block selected by the last gesture start.
func (b *Board) Selected() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selected
}

// =============================================================================
// Content
// =============================================================================

// Load replaces the node list and every stored position set, e.g. from a
// layout document. Viewports absent from positions are emptied. Nodes without
// a position in the current viewport are placed.
func (b *Board) Load(nodes []geom.Node, positions map[geom.Viewport]geom.PositionSet) error {
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if err := errors.ValidateBlockID(n.ID); err != nil {
			return err
		}
		if _, dup := seen[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidBlock, "block %q already exists", n.ID)
		}
		seen[n.ID] = struct{}{}
	}
	for vp := range positions {
		if _, ok := b.cfg.Canvases[vp]; !ok {
			return errors.New(errors.ErrCodeInvalidViewport, "no canvas configured for viewport %q", vp)
		}
	}

	b.lockWrite()
	defer b.unlockWrite()

	for _, vp := range b.store.Viewports() {
		if _, ok := positions[vp]; !ok {
			b.store.Replace(vp, nil)
		}
	}
	for vp, set := range positions {
		b.store.Replace(vp, set)
	}
	b.mu.Lock()
	b.nodes = append([]geom.Node(nil), nodes...)
	b.mu.Unlock()

	b.seedLocked(b.Viewport())
	return nil
}

// AddBlock appends a node and places it in the current viewport using the
// content-aware size of its type. Other viewports are seeded when shown.
func (b *Board) AddBlock(n geom.Node) (geom.BlockPosition, error) {
	if err := errors.ValidateBlockID(n.ID); err != nil {
		return geom.BlockPosition{}, err
	}
	if err := errors.ValidateBlockType(n.Type); err != nil {
		return geom.BlockPosition{}, err
	}

	b.lockWrite()
	defer b.unlockWrite()

	b.mu.Lock()
	for _, existing := range b.nodes {
		if existing.ID == n.ID {
			b.mu.Unlock()
			return geom.BlockPosition{}, errors.New(errors.ErrCodeInvalidBlock, "block %q already exists", n.ID)
		}
	}
	b.nodes = append(b.nodes, n)
	vp := b.viewport
	b.mu.Unlock()

	p := b.place(vp, n)
	b.logger.Debug("block placed", "block", n.ID, "type", n.Type, "viewport", vp, "x", p.X, "y", p.Y)
	return p, nil
}

// RemoveBlock drops a node from the node list. Its positions stay in the
// store as phantoms until [Board.Prune] is called.
func (b *Board) RemoveBlock(id string) bool {
	b.mu.Lock()
	removed := false
	for i, n := range b.nodes {
		if n.ID == id {
			b.nodes = append(b.nodes[:i], b.nodes[i+1:]...)
			if b.selected == id {
				b.selected = ""
			}
			removed = true
			break
		}
	}
	if removed {
		// The block no longer counts toward any viewport's height.
		for vp := range b.cfg.Canvases {
			b.stale[vp] = struct{}{}
		}
	}
	b.mu.Unlock()

	if removed {
		b.notifyHeights()
	}
	return removed
}

// SwitchViewport shows vp, seeding a position for every block that has none
// there yet.
func (b *Board) SwitchViewport(vp geom.Viewport) error {
	if _, ok := b.cfg.Canvases[vp]; !ok {
		return errors.New(errors.ErrCodeInvalidViewport, "no canvas configured for viewport %q", vp)
	}
	b.mu.Lock()
	b.viewport = vp
	b.mu.Unlock()

	n := b.seed(vp)
	b.logger.Debug("viewport switched", "viewport", vp, "seeded", n)
	return nil
}

// seed places every node lacking a position in vp, in node order.
func (b *Board) seed(vp geom.Viewport) int {
	b.lockWrite()
	defer b.unlockWrite()
	return b.seedLocked(vp)
}

// seedLocked is seed for callers inside a write section.
func (b *Board) seedLocked(vp geom.Viewport) int {
	seeded := 0
	for _, n := range b.Nodes() {
		if b.store.Has(vp, n.ID) {
			continue
		}
		b.place(vp, n)
		seeded++
	}
	return seeded
}

// place stores the first position of n in vp. Invalid positions are ignored
// as obstacles, as they are for rendering. Callers hold writeMu.
func (b *Board) place(vp geom.Viewport, n geom.Node) geom.BlockPosition {
	cfg := b.cfg.Canvases[vp]
	var existing []geom.BlockPosition
	for _, p := range extent.Live(b.store.Positions(vp), b.Nodes()) {
		if p.Valid(cfg.Width) {
			existing = append(existing, p)
		}
	}
	p := placement.PlaceSized(existing, cfg, b.cfg.Hints.For(n.Type, cfg))
	p.ID = n.ID
	b.store.Initialize(vp, p)
	return p
}

// BringToFront raises id above every other block of the current viewport.
func (b *Board) BringToFront(id string) bool {
	b.lockWrite()
	defer b.unlockWrite()

	vp := b.Viewport()
	set := b.store.Positions(vp)
	if _, ok := set[id]; !ok {
		return false
	}
	top := 0
	for other, p := range set {
		if other != id && p.Z() >= top {
			top = p.Z() + 1
		}
	}
	return b.store.Update(vp, id, geom.Partial{ZIndex: geom.Int(top)})
}

// =============================================================================
// Derived values
// =============================================================================

// Height returns the canvas height of the current viewport.
func (b *Board) Height() float64 { return b.HeightOf(b.Viewport()) }

// HeightOf returns the canvas height of vp, ignoring phantom positions.
func (b *Board) HeightOf(vp geom.Viewport) float64 {
	return extent.Height(b.store.Positions(vp), b.Nodes(), b.cfg.Canvases[vp])
}

// Phantoms returns the ids stored in the current viewport that match no node.
func (b *Board) Phantoms() []string {
	return extent.Phantoms(b.store.Positions(b.Viewport()), b.Nodes())
}

// Renderable returns the positions of the current viewport that belong to a
// known node and satisfy the position invariants, in paint order (z-index,
// then top to bottom). Anything else is skipped.
func (b *Board) Renderable() []geom.BlockPosition {
	vp := b.Viewport()
	cfg := b.cfg.Canvases[vp]
	var out []geom.BlockPosition
	for _, p := range extent.Live(b.store.Positions(vp), b.Nodes()) {
		if p.Valid(cfg.Width) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Z() != out[j].Z() {
			return out[i].Z() < out[j].Z()
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Prune removes phantom positions from the current viewport. It refuses, and
// returns false, while a gesture is active.
func (b *Board) Prune() (int, bool) { return b.PruneViewport(b.Viewport()) }

// PruneViewport is [Board.Prune] for any viewport.
func (b *Board) PruneViewport(vp geom.Viewport) (int, bool) {
	if b.ctrl.Locked() {
		return 0, false
	}
	b.lockWrite()
	defer b.unlockWrite()
	return b.store.Prune(vp, extent.Phantoms(b.store.Positions(vp), b.Nodes())), true
}

// =============================================================================
// Gestures
// =============================================================================

// PointerDownBody starts a drag of block id. It reports false when the block
// has no position in the current viewport or a gesture is already active.
func (b *Board) PointerDownBody(id string, ev gesture.PointerEvent) bool {
	t, ok := b.target(id)
	if !ok {
		return false
	}
	return b.ctrl.BeginDrag(ev, t)
}

// PointerDownHandle starts a resize of block id from handle dir.
func (b *Board) PointerDownHandle(id string, dir gesture.Direction, ev gesture.PointerEvent) bool {
	t, ok := b.target(id)
	if !ok {
		return false
	}
	return b.ctrl.BeginResize(ev, t, dir)
}

func (b *Board) target(id string) (gesture.Target, bool) {
	vp := b.Viewport()
	p, ok := b.store.Get(vp, id)
	if !ok {
		return gesture.Target{}, false
	}
	cfg := b.cfg.Canvases[vp]
	if !p.Valid(cfg.Width) {
		b.logger.Debug("gesture on invalid position skipped", "block", id, "viewport", vp)
		return gesture.Target{}, false
	}
	return gesture.Target{Block: p, Viewport: vp, Config: cfg}, true
}

// apply is the controller's position-change channel.
func (b *Board) apply(u gesture.Update) {
	if u.Partial.Empty() {
		return
	}
	if !b.store.Update(u.Viewport, u.BlockID, u.Partial) {
		b.logger.Debug("update for unknown block dropped", "block", u.BlockID, "viewport", u.Viewport)
	}
}

func (b *Board) selectBlock(id string) {
	b.mu.Lock()
	b.selected = id
	b.mu.Unlock()
	if b.onSelect != nil {
		b.onSelect(id)
	}
}

// =============================================================================
// Height notifications
// =============================================================================

func (b *Board) lockWrite() {
	b.writeMu.Lock()
	b.writing.Add(1)
}

// unlockWrite ends a write section and delivers the height changes it caused.
func (b *Board) unlockWrite() {
	b.writing.Add(-1)
	b.writeMu.Unlock()
	b.notifyHeights()
}

// changed marks the viewport of a store change stale. Inside a write section
// the notice waits for unlockWrite.
func (b *Board) changed(c store.Change) {
	if b.onHeightChange == nil {
		return
	}
	b.mu.Lock()
	b.stale[c.Viewport] = struct{}{}
	b.mu.Unlock()
	if b.writing.Load() == 0 {
		b.notifyHeights()
	}
}

// notifyHeights recomputes stale viewports and calls OnHeightChange for each
// height that moved. One goroutine delivers at a time; changes made by a
// callback are picked up by the loop that is already delivering.
func (b *Board) notifyHeights() {
	if b.onHeightChange == nil {
		return
	}
	b.mu.Lock()
	if b.notifying {
		b.mu.Unlock()
		return
	}
	b.notifying = true
	b.mu.Unlock()

	for {
		b.mu.Lock()
		if len(b.stale) == 0 {
			b.notifying = false
			b.mu.Unlock()
			return
		}
		vps := make([]geom.Viewport, 0, len(b.stale))
		for vp := range b.stale {
			vps = append(vps, vp)
		}
		clear(b.stale)
		b.mu.Unlock()

		sort.Slice(vps, func(i, j int) bool { return vps[i] < vps[j] })
		for _, vp := range vps {
			h := b.HeightOf(vp)
			b.mu.Lock()
			prev, seen := b.lastHeight[vp]
			b.lastHeight[vp] = h
			b.mu.Unlock()
			if !seen || prev != h {
				b.onHeightChange(vp, h)
			}
		}
	}
}

func sortedViewports(m map[geom.Viewport]geom.CanvasConfig) []geom.Viewport {
	out := make([]geom.Viewport, 0, len(m))
	for vp := range m {
		out = append(out, vp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
