package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// placeCommand creates the place command for adding a block to a layout.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		blockType string
		blockID   string
		viewport  string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "place [layout.json]",
		Short: "Add a block to a layout at the first free position",
		Long: `Add a block to a layout at the first free position.

The block is sized from the content-aware hint of its type and placed below
the existing blocks of the viewport without overlapping them. Other viewports
receive a position the first time they are shown.

A missing layout file is created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(args[0], blockType, blockID, viewport, outputPath(args[0], output))
		},
	}

	cmd.Flags().StringVarP(&blockType, "type", "t", "text", "block type (text, heading, image, ...)")
	cmd.Flags().StringVar(&blockID, "id", "", "block id (default: random UUID)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	viewportFlag(cmd, &viewport)

	return cmd
}

// runPlace loads the layout, places one block and writes the result.
func (c *CLI) runPlace(input, blockType, blockID, viewport, output string) error {
	created := !exists(input)
	b, err := c.openBoard(input, board.Options{}, true)
	if err != nil {
		return err
	}
	defer b.Close()

	vp, err := showViewport(b, viewport)
	if err != nil {
		return err
	}
	if blockID == "" {
		blockID = uuid.NewString()
	}

	p, err := b.AddBlock(geom.Node{ID: blockID, Type: blockType})
	if err != nil {
		return err
	}
	if err := saveBoard(b, output); err != nil {
		return err
	}

	if created {
		printSuccess("Layout created")
	} else {
		printSuccess("Block placed")
	}
	printFile(output)
	printKeyValue("id", blockID)
	printKeyValue("viewport", vp.String())
	printKeyValue("rect", fmt.Sprintf("%s,%s %sx%s", formatPx(p.X), formatPx(p.Y), formatPx(p.Width), formatPx(p.Height)))
	printStats(len(b.Renderable()), len(b.Phantoms()), b.Height())
	printNewline()
	printNextStep("Inspect", appName+" inspect "+output)
	return nil
}
