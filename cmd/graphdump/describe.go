package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/entquery/nestedwrite/querygraph"
)

// describeTable renders g as a column-aligned, colorized table: one row
// per node, then its outgoing edges indented underneath — the same
// information querygraph.Graph.Describe prints, dressed up the way a
// developer console report (column widths computed from the widest cell,
// padded with go-runewidth so box-drawing stays aligned even with the
// wide node labels this package's Node.String() produces) is usually
// presented. Falls back to plain text when color is false.
func describeTable(w io.Writer, g *querygraph.Graph, useColor bool) {
	nodeLabel, edgeLabel, expectLabel := noColor, noColor, noColor
	if useColor {
		nodeLabel = func(s string) string { return color.FgCyan.Render(s) }
		edgeLabel = func(s string) string { return color.FgYellow.Render(s) }
		expectLabel = func(s string) string { return color.FgRed.Render(s) }
	}

	width := 0
	for _, ref := range g.Nodes() {
		if w := runewidth.StringWidth(g.Node(ref).String()); w > width {
			width = w
		}
	}

	for _, ref := range g.Nodes() {
		n := g.Node(ref)
		label := n.String()
		pad := strings.Repeat(" ", width-runewidth.StringWidth(label))
		fmt.Fprintf(w, "%s  %s%s\n", shortID(ref), nodeLabel(label), pad)
		for _, e := range g.Out(ref) {
			line := fmt.Sprintf("    %s -> %s", edgeLabel(e.Kind.String()), shortID(e.To))
			if e.Kind == querygraph.ProjectedDataSink {
				line += fmt.Sprintf("  [%v into %s]", e.Projection.Names(), e.Sink.Slot)
				if e.Expectation != nil {
					line += "  " + expectLabel(fmt.Sprintf("expect=%v", e.Expectation.Kind))
				}
			}
			fmt.Fprintln(w, line)
		}
	}
}

func noColor(s string) string { return s }

func shortID(r querygraph.NodeRef) string {
	s := r.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
