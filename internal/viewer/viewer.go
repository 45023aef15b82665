// Package viewer loads a lot trace from a URL and hands the rendered path to
// a display target. It is the only place where fetch failures are handled:
// every failure becomes the single "load failed" view.
package viewer

import (
	"context"
	"log/slog"

	"github.com/vanshika/lottrace/internal/domain"
	"github.com/vanshika/lottrace/internal/lotpath"
	"github.com/vanshika/lottrace/internal/render"
)

// Target displays a view, for example a terminal, a file or an HTTP response.
type Target interface {
	Show(view render.View) error
}

// TargetFunc adapts a function to Target.
type TargetFunc func(view render.View) error

// Show implements Target.
func (f TargetFunc) Show(view render.View) error { return f(view) }

// TraceSource supplies trace documents by URL.
type TraceSource interface {
	Fetch(ctx context.Context, url string) (domain.Trace, error)
}

// Observer is told the state of each mounted view.
type Observer func(state render.State)

// Viewer wires a trace source to display targets.
type Viewer struct {
	source   TraceSource
	logger   *slog.Logger
	observer Observer
}

// New constructs a Viewer. A nil logger discards diagnostics.
func New(logger *slog.Logger, source TraceSource) *Viewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Viewer{source: source, logger: logger}
}

// WithObserver registers fn to be told the state of every mounted view.
func (v *Viewer) WithObserver(fn Observer) *Viewer {
	v.observer = fn
	return v
}

// FromTrace converts a loaded trace into the view to display.
func FromTrace(trace domain.Trace) render.View {
	if len(trace.Nodes) == 0 {
		return render.Empty()
	}
	return render.Ready(render.BuildRow(lotpath.Order(trace.Nodes, trace.Links)))
}

// Load fetches traceURL and returns the view to display. It never fails:
// any fetch or decode error yields the load-failed view.
func (v *Viewer) Load(ctx context.Context, traceURL string) render.View {
	trace, err := v.source.Fetch(ctx, traceURL)
	if err != nil {
		v.logger.Error("loading lot trace failed", "url", traceURL, "error", err)
		return render.Failed()
	}
	return FromTrace(trace)
}

// Mount loads traceURL and shows the resulting view on target exactly once,
// after the fetch has completed. An empty traceURL leaves target untouched.
// The only error returned is the target's own.
func (v *Viewer) Mount(ctx context.Context, target Target, traceURL string) error {
	if traceURL == "" {
		return nil
	}
	view := v.Load(ctx, traceURL)
	if v.observer != nil {
		v.observer(view.State)
	}
	return target.Show(view)
}
