// Package replay plays scripted pointer gestures against a board.
//
// A script is a TOML file of steps:
//
//	viewport = "desktop"
//
//	[[step]]
//	action = "down"
//	target = "intro"
//	x = 60
//	y = 60
//
//	[[step]]
//	action = "move"
//	x = 260
//	y = 160
//
//	[[step]]
//	action = "up"
//
// Actions are "down" (on a block body, or on a resize handle when handle is
// set), "move", "up", "wait" (advance virtual time by ms milliseconds) and
// "blur" (the window loses focus: pointer events are lost until the next
// down). Time only moves on "wait", so a script that waits past the safety
// timeout without an "up" reproduces a forced release deterministically.
package replay

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
)

// Step actions.
const (
	ActionDown = "down"
	ActionMove = "move"
	ActionUp   = "up"
	ActionWait = "wait"
	ActionBlur = "blur"
)

// Script is a decoded gesture script.
type Script struct {
	// Viewport is shown before the first step. Empty keeps the current one.
	Viewport string `toml:"viewport"`
	Steps    []Step `toml:"step"`
}

// Step is one scripted input event.
type Step struct {
	Action string  `toml:"action"`
	Target string  `toml:"target"`
	Handle string  `toml:"handle"`
	X      float64 `toml:"x"`
	Y      float64 `toml:"y"`
	Button string  `toml:"button"`
	Ms     int     `toml:"ms"`
}

var buttons = map[string]gesture.Button{
	"":          gesture.ButtonPrimary,
	"primary":   gesture.ButtonPrimary,
	"left":      gesture.ButtonPrimary,
	"middle":    gesture.ButtonMiddle,
	"secondary": gesture.ButtonSecondary,
	"right":     gesture.ButtonSecondary,
}

// Parse decodes and validates a script from r.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown script keys: %v", undec)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f)
}

// Validate checks every step.
func (s *Script) Validate() error {
	if s.Viewport != "" {
		if _, err := errors.ParseViewport(s.Viewport); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "viewport")
		}
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", i+1)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch strings.ToLower(st.Action) {
	case ActionDown:
		if st.Target == "" {
			return errors.New(errors.ErrCodeInvalidScript, "down needs a target")
		}
		if st.Handle != "" {
			if _, err := gesture.ParseDirection(st.Handle); err != nil {
				return err
			}
		}
	case ActionWait:
		if st.Ms < 0 {
			return errors.New(errors.ErrCodeInvalidScript, "wait needs ms >= 0, got %d", st.Ms)
		}
	case ActionMove, ActionUp, ActionBlur:
	default:
		return errors.New(errors.ErrCodeInvalidScript, "unknown action %q", st.Action)
	}
	if _, ok := buttons[strings.ToLower(st.Button)]; !ok {
		return errors.New(errors.ErrCodeInvalidScript, "unknown button %q", st.Button)
	}
	return nil
}

func (st Step) event() gesture.PointerEvent {
	return gesture.PointerEvent{
		Client: geom.Point{X: st.X, Y: st.Y},
		Button: buttons[strings.ToLower(st.Button)],
	}
}
