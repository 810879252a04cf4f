package board

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
	"github.com/matzehuels/blockcanvas/pkg/placement"
	"github.com/matzehuels/blockcanvas/pkg/snap"
)

type fixture struct {
	board *Board
	relay *gesture.Relay

	mu      sync.Mutex
	heights []float64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{relay: &gesture.Relay{}}
	cfg := DefaultConfig()
	cfg.Snap = snap.Options{}
	b, err := New(cfg, Options{
		Clock:   clockwork.NewFakeClock(),
		Logger:  log.New(io.Discard),
		Input:   f.relay,
		Surface: gesture.StaticSurface{},
		OnHeightChange: func(_ geom.Viewport, h float64) {
			f.mu.Lock()
			f.heights = append(f.heights, h)
			f.mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(b.Close)
	f.board = b
	return f
}

// returnsWithin fails t when fn does not return in time.
func returnsWithin(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("call did not return")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func primary(x, y float64) gesture.PointerEvent {
	return gesture.PointerEvent{Client: geom.Point{X: x, Y: y}, Button: gesture.ButtonPrimary}
}

func mustAdd(t *testing.T, b *Board, id, typ string) geom.BlockPosition {
	t.Helper()
	p, err := b.AddBlock(geom.Node{ID: id, Type: typ})
	if err != nil {
		t.Fatalf("AddBlock(%s): %v", id, err)
	}
	return p
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Canvases = map[geom.Viewport]geom.CanvasConfig{geom.Desktop: {Width: 0, GridColumns: 12}}
	if _, err := New(cfg, Options{Logger: log.New(io.Discard)}); err == nil {
		t.Fatal("expected error for zero-width canvas")
	}
}

func TestAddBlockPlacesWithoutOverlap(t *testing.T) {
	f := newFixture(t)
	a := mustAdd(t, f.board, "a", "text")
	b := mustAdd(t, f.board, "b", "text")

	if a.X != placement.DefaultX || a.Y != placement.DefaultY {
		t.Fatalf("first block at (%v,%v), want default slot", a.X, a.Y)
	}
	if a.Width != 400 || a.Height != 120 {
		t.Fatalf("text block size = %vx%v, want 400x120", a.Width, a.Height)
	}
	if a.Overlaps(b) {
		t.Fatalf("blocks overlap: %+v %+v", a, b)
	}
	if _, err := f.board.AddBlock(geom.Node{ID: "a", Type: "text"}); err == nil {
		t.Fatal("duplicate id accepted")
	}
	if _, err := f.board.AddBlock(geom.Node{ID: "", Type: "text"}); err == nil {
		t.Fatal("empty id accepted")
	}
}

func TestSwitchViewportSeedsMissingPositions(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "a", "text")
	mustAdd(t, f.board, "b", "image")

	if f.board.Store().Has(geom.Mobile, "a") {
		t.Fatal("mobile position created before the viewport was shown")
	}
	if err := f.board.SwitchViewport(geom.Mobile); err != nil {
		t.Fatalf("SwitchViewport: %v", err)
	}
	mobile := f.board.Store().Positions(geom.Mobile)
	if len(mobile) != 2 {
		t.Fatalf("mobile positions = %d, want 2", len(mobile))
	}
	cfg, _ := f.board.Canvas(geom.Mobile)
	for id, p := range mobile {
		if !p.Valid(cfg.Width) {
			t.Errorf("%s: invalid mobile position %+v", id, p)
		}
	}
	if mobile["a"].Overlaps(mobile["b"]) {
		t.Fatal("seeded mobile positions overlap")
	}
	if err := f.board.SwitchViewport("watch"); err == nil {
		t.Fatal("unknown viewport accepted")
	}
}

func TestViewportsAreIndependent(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "a", "text")
	_ = f.board.SwitchViewport(geom.Mobile)
	before, _ := f.board.Store().Get(geom.Desktop, "a")

	f.board.Store().Update(geom.Mobile, "a", geom.Partial{X: geom.Float(0)})

	after, _ := f.board.Store().Get(geom.Desktop, "a")
	if before != after {
		t.Fatalf("desktop changed after mobile update: %+v -> %+v", before, after)
	}
}

func TestDragThroughBoard(t *testing.T) {
	f := newFixture(t)
	a := mustAdd(t, f.board, "a", "text")

	// Grab 10px inside the top-left corner.
	if !f.board.PointerDownBody("a", primary(a.X+10, a.Y+10)) {
		t.Fatal("drag rejected")
	}
	if f.board.Selected() != "a" {
		t.Fatalf("selected = %q, want a", f.board.Selected())
	}
	f.relay.Move(primary(210, 310))
	f.relay.Up(primary(210, 310))

	got, _ := f.board.Store().Get(geom.Desktop, "a")
	if got.X != 200 || got.Y != 300 {
		t.Fatalf("after drag = (%v,%v), want (200,300)", got.X, got.Y)
	}
	if f.board.Controller().Locked() {
		t.Fatal("lock still held after pointer-up")
	}
}

func TestResizeThroughBoard(t *testing.T) {
	f := newFixture(t)
	a := mustAdd(t, f.board, "a", "text")

	if !f.board.PointerDownHandle("a", gesture.SE, primary(0, 0)) {
		t.Fatal("resize rejected")
	}
	// A second gesture is refused while the first holds the lock.
	if f.board.PointerDownBody("a", primary(0, 0)) {
		t.Fatal("drag accepted during resize")
	}
	f.relay.Move(primary(40, 60))
	f.relay.Up(primary(40, 60))

	got, _ := f.board.Store().Get(geom.Desktop, "a")
	if got.Width != a.Width+40 || got.Height != a.Height+60 {
		t.Fatalf("after resize = %vx%v, want %vx%v", got.Width, got.Height, a.Width+40, a.Height+60)
	}
	if got.X != a.X || got.Y != a.Y {
		t.Fatalf("south-east resize moved the origin: %+v", got)
	}
}

func TestPointerDownOnUnknownBlock(t *testing.T) {
	f := newFixture(t)
	if f.board.PointerDownBody("ghost", primary(0, 0)) {
		t.Fatal("drag started on a block without a position")
	}
	if f.board.Controller().Locked() {
		t.Fatal("lock taken for unknown block")
	}
}

func TestHeightTracksContent(t *testing.T) {
	f := newFixture(t)
	if got := f.board.Height(); got != 400 {
		t.Fatalf("empty height = %v, want min height 400", got)
	}
	a := mustAdd(t, f.board, "a", "text")
	f.board.Store().Update(geom.Desktop, "a", geom.Partial{Y: geom.Float(700)})

	want := 700 + a.Height + geom.BottomMargin
	if got := f.board.Height(); got != want {
		t.Fatalf("height = %v, want %v", got, want)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.heights) == 0 || f.heights[len(f.heights)-1] != want {
		t.Fatalf("height notifications = %v, want last %v", f.heights, want)
	}
}

func TestPhantomsAndPrune(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "a", "text")
	mustAdd(t, f.board, "b", "text")
	f.board.Store().Update(geom.Desktop, "b", geom.Partial{Y: geom.Float(2000)})

	if !f.board.RemoveBlock("b") {
		t.Fatal("RemoveBlock(b) = false")
	}
	if got := f.board.Phantoms(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("phantoms = %v, want [b]", got)
	}
	if f.board.Height() >= 2000 {
		t.Fatalf("phantom counted toward height: %v", f.board.Height())
	}
	for _, p := range f.board.Renderable() {
		if p.ID == "b" {
			t.Fatal("phantom is renderable")
		}
	}

	_ = f.board.PointerDownBody("a", primary(0, 0))
	if _, ok := f.board.Prune(); ok {
		t.Fatal("prune ran during a gesture")
	}
	f.relay.Up(primary(0, 0))

	n, ok := f.board.Prune()
	if !ok || n != 1 {
		t.Fatalf("Prune = (%d,%v), want (1,true)", n, ok)
	}
	if f.board.Store().Has(geom.Desktop, "b") {
		t.Fatal("phantom still stored after prune")
	}
}

func TestRenderableSkipsInvalid(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "a", "text")
	mustAdd(t, f.board, "b", "text")
	f.board.Store().Update(geom.Desktop, "b", geom.Partial{Width: geom.Float(10)})

	got := f.board.Renderable()
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("renderable = %+v, want only a", got)
	}
	if f.board.PointerDownBody("b", primary(0, 0)) {
		t.Fatal("gesture started on invalid position")
	}
}

func TestBringToFront(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "a", "text")
	mustAdd(t, f.board, "b", "text")
	f.board.Store().Update(geom.Desktop, "b", geom.Partial{ZIndex: geom.Int(3)})

	if !f.board.BringToFront("a") {
		t.Fatal("BringToFront(a) = false")
	}
	a, _ := f.board.Store().Get(geom.Desktop, "a")
	if a.Z() != 4 {
		t.Fatalf("z = %d, want 4", a.Z())
	}
	r := f.board.Renderable()
	if r[len(r)-1].ID != "a" {
		t.Fatalf("a is not painted last: %+v", r)
	}
	if f.board.BringToFront("ghost") {
		t.Fatal("BringToFront on unknown id = true")
	}
}

func TestLoadSeedsUnplacedNodes(t *testing.T) {
	f := newFixture(t)
	nodes := []geom.Node{{ID: "a", Type: "text"}, {ID: "b", Type: "heading"}}
	positions := map[geom.Viewport]geom.PositionSet{
		geom.Desktop: {"a": {ID: "a", X: 0, Y: 0, Width: 200, Height: 100}},
	}
	if err := f.board.Load(nodes, positions); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !f.board.Store().Has(geom.Desktop, "b") {
		t.Fatal("b not seeded on load")
	}
	a, _ := f.board.Store().Get(geom.Desktop, "a")
	if a.Width != 200 {
		t.Fatalf("loaded position overwritten: %+v", a)
	}
	if err := f.board.Load(nodes, map[geom.Viewport]geom.PositionSet{"tv": {}}); err == nil {
		t.Fatal("unknown viewport accepted")
	}
}

func TestLoadReplacesEveryViewport(t *testing.T) {
	f := newFixture(t)
	mustAdd(t, f.board, "old", "text")
	_ = f.board.SwitchViewport(geom.Mobile)
	_ = f.board.SwitchViewport(geom.Desktop)

	nodes := []geom.Node{{ID: "a", Type: "text"}}
	positions := map[geom.Viewport]geom.PositionSet{
		geom.Desktop: {"a": {ID: "a", X: 0, Y: 0, Width: 200, Height: 100}},
	}
	if err := f.board.Load(nodes, positions); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := f.board.Store().Positions(geom.Mobile); len(got) != 0 {
		t.Fatalf("mobile positions kept from before load: %v", got)
	}
	if f.board.Store().Has(geom.Desktop, "old") {
		t.Fatal("desktop position kept from before load")
	}
}

func TestLoadRejectsBadNodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes []geom.Node
	}{
		{"duplicate id", []geom.Node{{ID: "a", Type: "text"}, {ID: "a", Type: "image"}}},
		{"empty id", []geom.Node{{ID: "", Type: "text"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			mustAdd(t, f.board, "keep", "text")
			if err := f.board.Load(tt.nodes, nil); err == nil {
				t.Fatal("Load accepted invalid nodes")
			}
			if n := f.board.Nodes(); len(n) != 1 || n[0].ID != "keep" {
				t.Fatalf("nodes changed by failed load: %v", n)
			}
		})
	}
}

func TestHeightCallbackMayReenterBoard(t *testing.T) {
	clock := clockwork.NewFakeClock()
	relay := &gesture.Relay{}
	cfg := DefaultConfig()
	cfg.Snap = snap.Options{}

	var (
		b     *Board
		mu    sync.Mutex
		calls int
	)
	b, err := New(cfg, Options{
		Clock:   clock,
		Logger:  log.New(io.Discard),
		Input:   relay,
		Surface: gesture.StaticSurface{},
		OnHeightChange: func(geom.Viewport, float64) {
			_ = b.Controller().Locked()
			b.Prune()
			mu.Lock()
			calls++
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(b.Close)
	count := func() int {
		mu.Lock()
		defer mu.Unlock()
		return calls
	}
	x := placement.DefaultX + 10

	steps := []struct {
		name string
		run  func() bool
	}{
		{"add block", func() bool {
			_, err := b.AddBlock(geom.Node{ID: "a", Type: "text"})
			return err == nil
		}},
		{"store update", func() bool {
			_, err := b.AddBlock(geom.Node{ID: "ghost", Type: "text"})
			return err == nil && b.Store().Update(geom.Desktop, "ghost", geom.Partial{Y: geom.Float(2000)})
		}},
		{"remove block", func() bool {
			return b.RemoveBlock("ghost")
		}},
		{"pointer-up", func() bool {
			if !b.PointerDownBody("a", primary(x, placement.DefaultY+10)) {
				return false
			}
			relay.Move(primary(x, 1510))
			relay.Up(primary(x, 1510))
			return true
		}},
		{"safety release", func() bool {
			if !b.PointerDownBody("a", primary(x, 1510)) {
				return false
			}
			relay.Move(primary(x, 3010))
			clock.Advance(gesture.DefaultSafetyTimeout)
			return true
		}},
	}
	for _, st := range steps {
		t.Run(st.name, func(t *testing.T) {
			before := count()
			var ok bool
			returnsWithin(t, func() { ok = st.run() })
			if !ok {
				t.Fatal("step failed")
			}
			waitFor(t, func() bool { return count() > before && !b.Controller().Locked() })
		})
	}

	if b.Store().Has(geom.Desktop, "ghost") {
		t.Fatal("phantom not pruned from the height callback")
	}
	if got, _ := b.Store().Get(geom.Desktop, "a"); got.Y != 3000 {
		t.Fatalf("a.Y = %v, want 3000 after the safety release", got.Y)
	}
}

func TestHitTest(t *testing.T) {
	f := newFixture(t)
	a := mustAdd(t, f.board, "a", "text")

	tests := []struct {
		name   string
		p      geom.Point
		hit    bool
		handle gesture.Direction
	}{
		{"body", geom.Point{X: a.X + 100, Y: a.Y + 50}, true, ""},
		{"south-east corner", geom.Point{X: a.Right() - 2, Y: a.Bottom() - 2}, true, gesture.SE},
		{"west edge", geom.Point{X: a.X + 1, Y: a.Y + 50}, true, gesture.W},
		{"north edge", geom.Point{X: a.X + 100, Y: a.Y + 3}, true, gesture.N},
		{"outside", geom.Point{X: a.X - 5, Y: a.Y}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := f.board.HitTest(tt.p, geom.Size{})
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && (h.BlockID != "a" || h.Handle != tt.handle) {
				t.Fatalf("HitTest = %+v, want a/%q", h, tt.handle)
			}
		})
	}
}

func TestHitTestThinBlocks(t *testing.T) {
	f := newFixture(t)
	positions := map[geom.Viewport]geom.PositionSet{
		geom.Desktop: {
			"divider": {ID: "divider", X: 50, Y: 100, Width: 700, Height: 30},
			"rail":    {ID: "rail", X: 50, Y: 300, Width: 50, Height: 200},
		},
	}
	nodes := []geom.Node{{ID: "divider", Type: "divider"}, {ID: "rail", Type: "image"}}
	if err := f.board.Load(nodes, positions); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cell := geom.Size{Width: 8, Height: 16}

	tests := []struct {
		name   string
		p      geom.Point
		margin geom.Size
		id     string
		handle gesture.Direction
	}{
		{"divider center is body", geom.Point{X: 400, Y: 115}, cell, "divider", ""},
		{"divider top edge", geom.Point{X: 400, Y: 102}, cell, "divider", gesture.N},
		{"divider bottom edge", geom.Point{X: 400, Y: 128}, cell, "divider", gesture.S},
		{"divider west edge", geom.Point{X: 53, Y: 115}, cell, "divider", gesture.W},
		{"narrow block body", geom.Point{X: 70, Y: 400}, geom.Size{Width: 20, Height: 20}, "rail", ""},
		{"narrow block east edge", geom.Point{X: 98, Y: 400}, geom.Size{Width: 20, Height: 20}, "rail", gesture.E},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := f.board.HitTest(tt.p, tt.margin)
			if !ok {
				t.Fatal("no hit")
			}
			if h.BlockID != tt.id || h.Handle != tt.handle {
				t.Fatalf("HitTest = %+v, want %s/%q", h, tt.id, tt.handle)
			}
		})
	}
}
