package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
)

// heightCommand creates the height command for printing the derived canvas height.
func (c *CLI) heightCommand() *cobra.Command {
	var viewport string

	cmd := &cobra.Command{
		Use:   "height [layout.json]",
		Short: "Print the canvas height and phantom positions of a viewport",
		Long: `Print the canvas height and phantom positions of a viewport.

The height is the lowest block edge plus a bottom margin, never less than the
viewport's minimum height. Phantoms are stored positions whose block no longer
exists; they do not count toward the height.`,
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
			printKeyValue("viewport", vp.String())
			printKeyValue("height", formatPx(b.Height()))
			if phantoms := b.Phantoms(); len(phantoms) > 0 {
				printWarning("%d phantom positions", len(phantoms))
				printDetail("%s", strings.Join(phantoms, ", "))
				printNextStep("Clean up", appName+" prune "+args[0]+" --viewport "+vp.String())
			}
			return nil
		},
	}
	viewportFlag(cmd, &viewport)

	return cmd
}

// pruneCommand creates the prune command for dropping phantom positions.
func (c *CLI) pruneCommand() *cobra.Command {
	var (
		viewport string
		output   string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "prune [layout.json]",
		Short: "Drop phantom positions from a layout",
		Long: `Drop phantom positions from a layout.

Only the selected viewport is cleaned unless --all is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPrune(args[0], viewport, outputPath(args[0], output), all)
		},
	}
	viewportFlag(cmd, &viewport)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&all, "all", false, "prune every viewport")

	return cmd
}

func (c *CLI) runPrune(input, viewport, output string, all bool) error {
	if all && viewport != "" {
		return errors.New(errors.ErrCodeInvalidInput, "--all and --viewport are mutually exclusive")
	}
	b, err := c.openBoard(input, board.Options{}, false)
	if err != nil {
		return err
	}
	defer b.Close()

	targets := []geom.Viewport{b.Viewport()}
	if viewport != "" {
		vp, err := errors.ParseViewport(viewport)
		if err != nil {
			return err
		}
		targets[0] = vp
	}
	if all {
		targets = b.Store().Viewports()
	}

	total := 0
	for _, vp := range targets {
		n, _ := b.PruneViewport(vp)
		c.Logger.Debug("pruned", "viewport", vp, "count", n)
		total += n
	}

	if total == 0 {
		printInfo("No phantom positions")
		return nil
	}
	if err := saveBoard(b, output); err != nil {
		return err
	}
	printSuccess("Pruned %d phantom positions", total)
	printFile(output)
	return nil
}
