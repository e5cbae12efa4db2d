package main

import (
	"fmt"
	"io"

	"github.com/entquery/nestedwrite/querygraph"
)

// writeDOT renders g as Graphviz DOT, the `dot` subcommand's sole job —
// a convenience the `build` subcommand's plain Describe dump doesn't
// replace, since a graph much past a handful of nodes reads better laid
// out than listed.
func writeDOT(w io.Writer, g *querygraph.Graph) {
	fmt.Fprintln(w, "digraph QueryGraph {")
	fmt.Fprintln(w, "  rankdir=TB;")
	fmt.Fprintln(w, "  node [shape=box, fontname=monospace];")

	for _, ref := range g.Nodes() {
		n := g.Node(ref)
		fmt.Fprintf(w, "  %q [label=%q%s];\n", ref.String(), n.String(), shapeFor(n))
	}
	for _, ref := range g.Nodes() {
		for _, e := range g.Out(ref) {
			label := e.Kind.String()
			if e.Kind == querygraph.ProjectedDataSink {
				label = fmt.Sprintf("%s\\n%v -> %s", label, e.Projection.Names(), e.Sink.Slot)
				if e.Expectation != nil {
					label += fmt.Sprintf("\\nexpect=%v", e.Expectation.Kind)
				}
			}
			style := ""
			if e.Kind == querygraph.Then || e.Kind == querygraph.Else {
				style = ", style=dashed"
			}
			fmt.Fprintf(w, "  %q -> %q [label=%q%s];\n", ref.String(), e.To.String(), label, style)
		}
	}
	fmt.Fprintln(w, "}")
}

func shapeFor(n *querygraph.Node) string {
	switch n.Kind {
	case querygraph.FlowNode:
		return ", shape=diamond"
	case querygraph.ComputationNode:
		return ", shape=hexagon"
	default:
		return ""
	}
}
