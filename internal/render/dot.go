package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOT converts the view to a left-to-right Graphviz chain. Every box gets its
// own vertex so revisited nodes show up once per visit.
func DOT(view View) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lot {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")

	if view.State != StateReady {
		fmt.Fprintf(&buf, "  message [shape=plaintext, style=\"\", label=%q];\n", view.Message)
		buf.WriteString("}\n")
		return buf.String()
	}

	buf.WriteString("\n")
	for i, box := range view.Row.Boxes {
		fmt.Fprintf(&buf, "  n%d [label=%q];\n", i, box.Name+"\n"+box.Type)
	}
	if len(view.Row.Boxes) > 1 {
		buf.WriteString("\n")
	}
	for i := 1; i < len(view.Row.Boxes); i++ {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", i-1, i)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders the view through Graphviz.
func SVG(ctx context.Context, view View) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(DOT(view)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
