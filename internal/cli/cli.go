package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockcanvas/pkg/board"
	"github.com/matzehuels/blockcanvas/pkg/buildinfo"
	"github.com/matzehuels/blockcanvas/pkg/errors"
	"github.com/matzehuels/blockcanvas/pkg/geom"
	"github.com/matzehuels/blockcanvas/pkg/layoutio"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "blockcanvas"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blockcanvas lays out content blocks on a free-form canvas",
		Long:         `Blockcanvas places, moves and resizes content blocks on a pixel canvas with independent desktop and mobile layouts, and stores the result as a JSON layout document.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./blockcanvas.toml or ~/.config/blockcanvas/blockcanvas.toml)")

	// Register all subcommands
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.heightCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.pruneCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Board Factory
// =============================================================================

// openBoard loads the configuration and the layout document at path into a
// new board. When allowMissing is set a missing document yields an empty board.
func (c *CLI) openBoard(path string, opts board.Options, allowMissing bool) (*board.Board, error) {
	cfg, used, err := loadConfig(c.configPath)
	if err != nil {
		return nil, err
	}
	if used != "" {
		c.Logger.Debug("config loaded", "file", used)
	}

	doc, err := layoutio.ImportJSON(path)
	switch {
	case err == nil:
	case allowMissing && errors.Is(err, errors.ErrCodeFileNotFound):
		c.Logger.Debug("layout not found, starting empty", "file", path)
		doc = &layoutio.Document{}
	default:
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = c.Logger
	}
	b, err := board.New(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := b.Load(doc.Nodes, doc.Positions); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// saveBoard writes the nodes and every viewport's positions to path.
func saveBoard(b *board.Board, path string) error {
	if err := layoutio.ExportJSON(layoutio.Capture(b.Nodes(), b.Store()), path); err != nil {
		return fmt.Errorf("write layout %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// showViewport switches b to the viewport named by flag; empty keeps desktop.
func showViewport(b *board.Board, flag string) (geom.Viewport, error) {
	if flag == "" {
		return b.Viewport(), nil
	}
	vp, err := errors.ParseViewport(flag)
	if err != nil {
		return "", err
	}
	return vp, b.SwitchViewport(vp)
}

// viewportFlag registers the shared --viewport flag.
func viewportFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "viewport", "", "viewport: desktop (default), mobile")
	_ = cmd.RegisterFlagCompletionFunc("viewport", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(geom.Viewports))
		for i, vp := range geom.Viewports {
			names[i] = vp.String()
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// outputPath returns output, or input when output is empty.
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return input
}

// exists reports whether path names an existing file.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
