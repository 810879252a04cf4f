package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
)

// inspectCommand creates the inspect command for listing renderable positions.
func (c *CLI) inspectCommand() *cobra.Command {
	var viewport string

	cmd := &cobra.Command{
		Use:   "inspect [layout.json]",
		Short: "Print the renderable positions of a viewport",
		Long: `Print the renderable positions of a viewport as a table, in paint order.

Positions that violate the canvas bounds or minimum size are skipped, as are
phantoms.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.openBoard(args[0], board.Options{}, false)
			if err != nil {
				return err
			}
			defer b.Close()

			vp, err := showViewport(b, viewport)
			if err != nil {
				return err
			}
			cfg, _ := b.Canvas(vp)

			fmt.Println(StyleTitle.Render(fmt.Sprintf("%s · %s wide · %d columns", vp, formatPx(cfg.Width), cfg.GridColumns)))
			fmt.Println(renderPositions(b))
			printStats(len(b.Renderable()), len(b.Phantoms()), b.Height())
			return nil
		},
	}
	viewportFlag(cmd, &viewport)

	return cmd
}

// renderPositions renders the renderable positions of b as a table.
func renderPositions(b *board.Board) string {
	types := make(map[string]string)
	for _, n := range b.Nodes() {
		types[n.ID] = n.Type
	}

	rows := [][]string{}
	for _, p := range b.Renderable() {
		rows = append(rows, []string{
			p.ID,
			types[p.ID],
			trimFloat(p.X),
			trimFloat(p.Y),
			trimFloat(p.Width),
			trimFloat(p.Height),
			strconv.Itoa(p.Z()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	selected := b.Selected()

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Block", "Type", "X", "Y", "Width", "Height", "Z").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(rows) && rows[row][0] == selected {
				return base.Foreground(colorCyan).Bold(true)
			}
			if col >= 2 {
				return base.Foreground(colorWhite).Align(lipgloss.Right)
			}
			return base
		})
	return t.Render()
}
