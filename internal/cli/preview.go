package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/preview"
)

// previewCommand creates the preview command for rendering a layout as SVG.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		viewport string
		output   string
		grid     bool
		selected string
	)

	cmd := &cobra.Command{
		Use:   "preview [layout.json]",
		Short: "Render the blocks of a viewport as an SVG image",
		Long: `Render the blocks of a viewport as an SVG image.

The image is as wide as the viewport's canvas and as tall as its derived
height. Phantom and out-of-bounds positions are not drawn.`,
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

			opts := []preview.Option{preview.WithNodes(b.Nodes())}
			if grid {
				opts = append(opts, preview.WithGrid())
			}
			if selected != "" {
				if !hasNode(b.Nodes(), selected) {
					return errors.New(errors.ErrCodeBlockNotFound, "no block %q", selected)
				}
				opts = append(opts, preview.WithSelected(selected))
			}
			svg := preview.RenderSVG(b.Renderable(), cfg, b.Height(), opts...)

			path := output
			if path == "" {
				path = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "." + vp.String() + ".svg"
			}
			if err := os.WriteFile(path, svg, 0o644); err != nil {
				return fmt.Errorf("write output %s: %w", path, err)
			}

			printSuccess("Preview rendered")
			printFile(path)
			printStats(len(b.Renderable()), len(b.Phantoms()), b.Height())
			return nil
		},
	}
	viewportFlag(cmd, &viewport)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<viewport>.svg)")
	cmd.Flags().BoolVar(&grid, "grid", false, "draw the column grid")
	cmd.Flags().StringVar(&selected, "select", "", "highlight the block with this id")

	return cmd
}

func hasNode(nodes []geom.Node, id string) bool {
	_, ok := geom.NodeIDs(nodes)[id]
	return ok
}
