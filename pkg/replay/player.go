package replay

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
)

// settleTimeout bounds the real time spent waiting for timer callbacks
// released by a virtual-time advance.
const settleTimeout = 2 * time.Second

// Result summarizes a replay.
type Result struct {
	Steps    int
	Started  int // gestures that took the lock
	Rejected int // pointer-downs that did not
	Dropped  int // moves and ups nobody was listening to
	Forced   int // gestures ended by the safety timeout
	// Active is true when the script ended with a gesture still holding the lock.
	Active bool
}

// Player replays scripts against one board. The board must have been built
// with Relay as its input adapter and Clock as its clock.
type Player struct {
	Board  *board.Board
	Relay  *gesture.Relay
	Clock  *clockwork.FakeClock
	Logger *log.Logger

	blurred   bool
	startedAt time.Time
	armedAt   time.Time // first move of the current update window
}

// Run plays s step by step. It stops early when ctx is cancelled.
func (p *Player) Run(ctx context.Context, s *Script) (Result, error) {
	if p.Logger == nil {
		p.Logger = log.Default()
	}
	logger := p.Logger.WithPrefix("replay")

	if s.Viewport != "" {
		vp, err := errors.ParseViewport(s.Viewport)
		if err != nil {
			return Result{}, err
		}
		if err := p.Board.SwitchViewport(vp); err != nil {
			return Result{}, err
		}
	}

	var res Result
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		ev := st.event()
		switch strings.ToLower(st.Action) {
		case ActionDown:
			p.blurred = false
			if p.down(st, ev) {
				res.Started++
				p.startedAt = p.Clock.Now()
			} else {
				res.Rejected++
			}
		case ActionMove:
			if p.blurred {
				res.Dropped++
				break
			}
			armed := p.Board.Controller().Pending()
			if !p.Relay.Move(ev) {
				res.Dropped++
				break
			}
			if !armed {
				p.armedAt = p.Clock.Now()
			}
		case ActionUp:
			if p.blurred || !p.Relay.Up(ev) {
				res.Dropped++
			}
		case ActionWait:
			p.Clock.Advance(time.Duration(st.Ms) * time.Millisecond)
			forced, err := p.settle()
			if err != nil {
				return res, errors.Wrap(errors.ErrCodeInternal, err, "step %d", i+1)
			}
			if forced {
				res.Forced++
			}
		case ActionBlur:
			p.blurred = true
		}
		res.Steps++
		logger.Debug("step", "n", i+1, "action", st.Action, "state", p.Board.Controller().State().Kind())
	}
	res.Active = p.Board.Controller().Locked()
	return res, nil
}

func (p *Player) down(st Step, ev gesture.PointerEvent) bool {
	if st.Handle == "" {
		return p.Board.PointerDownBody(st.Target, ev)
	}
	dir, err := gesture.ParseDirection(st.Handle)
	if err != nil {
		return false
	}
	return p.Board.PointerDownHandle(st.Target, dir, ev)
}

// settle waits for the callbacks whose deadline virtual time has passed: a
// due position update and a due safety release. It reports whether a
// gesture was force-released.
func (p *Player) settle() (bool, error) {
	ctrl := p.Board.Controller()
	cfg := p.Board.Config()
	deadline := time.Now().Add(settleTimeout)
	forced := ctrl.Locked() && p.Clock.Since(p.startedAt) >= cfg.SafetyTimeout
	for {
		releaseDue := ctrl.Locked() && p.Clock.Since(p.startedAt) >= cfg.SafetyTimeout
		updateDue := ctrl.Pending() && p.Clock.Since(p.armedAt) >= cfg.UpdateInterval
		if !releaseDue && !updateDue {
			return forced, nil
		}
		if time.Now().After(deadline) {
			return forced, errors.New(errors.ErrCodeInternal, "timers did not fire after advancing the clock")
		}
		time.Sleep(time.Millisecond)
	}
}

// Position is a convenience for reading the stored position of id in the
// board's current viewport.
func (p *Player) Position(id string) (geom.BlockPosition, bool) {
	return p.Board.Store().Get(p.Board.Viewport(), id)
}
