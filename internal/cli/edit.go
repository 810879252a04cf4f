package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/gesture"
)

// editCommand creates the edit command for interactive layout editing.
func (c *CLI) editCommand() *cobra.Command {
	var viewport string

	cmd := &cobra.Command{
		Use:   "edit [layout.json]",
		Short: "Move and resize blocks with the mouse in the terminal",
		Long: `Move and resize blocks with the mouse in the terminal.

Press on a block body and drag to move it; press on its border to resize it
from that edge or corner. Only one gesture is active at a time, and a gesture
whose release is lost ends on its own after the safety timeout.

Keys: tab switches viewport, f brings the selected block to the front,
x prunes phantom positions, s saves, q saves and quits, ctrl+c quits
without saving.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0], viewport)
		},
	}
	viewportFlag(cmd, &viewport)

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, viewport string) error {
	relay := &gesture.Relay{}
	// The terminal belongs to the UI while it runs.
	b, err := c.openBoard(path, board.Options{
		Logger:  log.New(io.Discard),
		Input:   relay,
		Surface: gesture.StaticSurface{},
	}, false)
	if err != nil {
		return err
	}
	defer b.Close()

	if _, err := showViewport(b, viewport); err != nil {
		return err
	}

	p := tea.NewProgram(newEditModel(b, relay, path),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	if m, ok := final.(editModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
