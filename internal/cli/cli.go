// Package cli implements the lottrace command-line interface.
package cli

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vanshika/lottrace/internal/config"
	"github.com/vanshika/lottrace/internal/logging"
	"github.com/vanshika/lottrace/internal/viewer"
)

// CLI holds shared state for all commands.
type CLI struct {
	Out    io.Writer
	Err    io.Writer
	Config config.Config
	Logger *slog.Logger
	// HTTPClient is used for trace downloads; nil means http.DefaultClient.
	HTTPClient *http.Client
}

// New creates a CLI writing results to out and diagnostics to errOut.
func New(out, errOut io.Writer, cfg config.Config) *CLI {
	return &CLI{
		Out:    out,
		Err:    errOut,
		Config: cfg,
		Logger: logging.NewWithWriter(errOut, cfg.Logging),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "lottrace",
		Short:        "lottrace shows the chronological path of a lot",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				cfg := c.Config.Logging
				cfg.Level = "debug"
				c.Logger = logging.NewWithWriter(c.Err, cfg)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.showCommand())
	return root
}

func (c *CLI) newViewer() *viewer.Viewer {
	return viewer.New(c.Logger, viewer.NewFetcher(c.HTTPClient))
}
