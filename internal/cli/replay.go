package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
	"github.com/matzehuels/blockcanvas/pkg/observability"
	"github.com/matzehuels/blockcanvas/pkg/replay"
)

// replayCommand creates the replay command for running gesture scripts.
func (c *CLI) replayCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "replay [layout.json] [script.toml]",
		Short: "Replay a scripted pointer gesture sequence against a layout",
		Long: `Replay a scripted pointer gesture sequence against a layout.

The script is a TOML file of [[step]] entries with an action of down, move,
up, wait or blur. Time is virtual: only wait steps advance it, so scripts
that never release the pointer exercise the safety timeout without sleeping.

Example script:

  viewport = "mobile"

  [[step]]
  action = "down"
  target = "intro"
  handle = "se"

  [[step]]
  action = "move"
  x = 40
  y = 80

  [[step]]
  action = "up"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReplay(cmd.Context(), args[0], args[1], outputPath(args[0], output))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

func (c *CLI) runReplay(ctx context.Context, input, scriptPath, output string) error {
	script, err := replay.Load(scriptPath)
	if err != nil {
		return err
	}

	observability.SetGestureHooks(newGestureLog(c.Logger))
	defer observability.Reset()

	clock := clockwork.NewFakeClock()
	relay := &gesture.Relay{}
	b, err := c.openBoard(input, board.Options{
		Clock:   clock,
		Input:   relay,
		Surface: gesture.StaticSurface{},
	}, false)
	if err != nil {
		return err
	}
	defer b.Close()

	prog := newProgress(c.Logger)
	player := &replay.Player{Board: b, Relay: relay, Clock: clock, Logger: loggerFromContext(ctx)}
	res, err := player.Run(ctx, script)
	if err != nil {
		return fmt.Errorf("replay %s: %w", scriptPath, err)
	}
	prog.done(fmt.Sprintf("Replayed %d steps", res.Steps))

	if err := saveBoard(b, output); err != nil {
		return err
	}

	printSuccess("Replay complete")
	printFile(output)
	printKeyValue("gestures", fmt.Sprintf("%d started, %d rejected", res.Started, res.Rejected))
	if res.Forced > 0 {
		printWarning("%d gestures force-released by the safety timeout", res.Forced)
	}
	if res.Dropped > 0 {
		printDetail("%d pointer events arrived with no active gesture", res.Dropped)
	}
	if res.Active {
		printWarning("script ended with a gesture still active")
	}
	printStats(len(b.Renderable()), len(b.Phantoms()), b.Height())
	return nil
}

// =============================================================================
// Gesture Logging
// =============================================================================

// gestureLog implements observability.GestureHooks on top of the CLI logger.
type gestureLog struct {
	logger *log.Logger
}

func newGestureLog(l *log.Logger) *gestureLog {
	return &gestureLog{logger: l.WithPrefix("hooks")}
}

func (g *gestureLog) OnGestureStart(kind, blockID string) {
	g.logger.Debug("gesture started", "kind", kind, "block", blockID)
}

func (g *gestureLog) OnGestureRejected(kind, blockID string) {
	g.logger.Debug("gesture rejected", "kind", kind, "block", blockID)
}

func (g *gestureLog) OnGestureEnd(kind, blockID string, d time.Duration, forced bool) {
	g.logger.Debug("gesture ended", "kind", kind, "block", blockID, "duration", d, "forced", forced)
}
