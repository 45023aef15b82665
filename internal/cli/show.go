package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanshika/lottrace/internal/render"
	"github.com/vanshika/lottrace/internal/viewer"
)

// Output formats accepted by show.
const (
	formatText = "text"
	formatJSON = "json"
	formatHTML = "html"
	formatDOT  = "dot"
	formatSVG  = "svg"
)

var formats = []string{formatText, formatJSON, formatHTML, formatDOT, formatSVG}

// ErrLoadFailed is returned after the failed view has been shown.
var ErrLoadFailed = errors.New("lot path could not be loaded")

type showOpts struct {
	traceURL string
	apiURL   string
	format   string
	output   string
}

func (c *CLI) showCommand() *cobra.Command {
	opts := showOpts{
		apiURL: c.Config.Viewer.APIBaseURL,
		format: formatText,
	}

	cmd := &cobra.Command{
		Use:   "show [lot-id]",
		Short: "Fetch a lot trace and render its path",
		Long: `Fetch a lot trace and render its chronological path as a row of boxes.

The trace is read from --url, or from the lot's trace.json endpoint under --api-url.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lotID := ""
			if len(args) == 1 {
				lotID = args[0]
			}
			return c.runShow(cmd.Context(), lotID, opts)
		},
	}

	cmd.Flags().StringVar(&opts.traceURL, "url", "", "trace JSON URL (overrides --api-url)")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", opts.apiURL, "base URL of the lot trace API")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func (c *CLI) runShow(ctx context.Context, lotID string, opts showOpts) error {
	if !isFormat(opts.format) {
		return fmt.Errorf("unknown format %q (want one of %s)", opts.format, strings.Join(formats, ", "))
	}
	traceURL, err := resolveTraceURL(lotID, opts)
	if err != nil {
		return err
	}

	out := c.Out
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	var state render.State
	v := c.newViewer().WithObserver(func(s render.State) { state = s })
	target := writeView(ctx, out, opts.format, pageTitle(lotID))

	c.Logger.Debug("loading lot trace", "url", traceURL, "format", opts.format)
	if err := v.Mount(ctx, target, traceURL); err != nil {
		return fmt.Errorf("render %s: %w", opts.format, err)
	}
	if state == render.StateFailed {
		return ErrLoadFailed
	}
	return nil
}

// resolveTraceURL prefers an explicit URL; otherwise the lot's trace.json
// under the API base.
func resolveTraceURL(lotID string, opts showOpts) (string, error) {
	if opts.traceURL != "" {
		return opts.traceURL, nil
	}
	lotID = strings.TrimSpace(lotID)
	if lotID == "" {
		return "", errors.New("a lot id or --url is required")
	}
	base := strings.TrimRight(opts.apiURL, "/")
	if base == "" {
		return "", errors.New("--api-url is required when --url is not set")
	}
	return base + "/lots/" + url.PathEscape(lotID) + "/trace.json", nil
}

func isFormat(format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func pageTitle(lotID string) string {
	if lotID == "" {
		return "Lot path"
	}
	return "Lot " + lotID
}

// writeView returns a target that writes each view to w in one format.
func writeView(ctx context.Context, w io.Writer, format, title string) viewer.TargetFunc {
	return func(view render.View) error {
		switch format {
		case formatJSON:
			return render.JSON(w, view)
		case formatHTML:
			return render.Page(w, title, view)
		case formatDOT:
			_, err := io.WriteString(w, render.DOT(view))
			return err
		case formatSVG:
			svg, err := render.SVG(ctx, view)
			if err != nil {
				return err
			}
			_, err = w.Write(svg)
			return err
		default:
			return render.Text(w, view)
		}
	}
}
