package querygraph

import (
	"fmt"
	"io"
)

// Describe writes a human-readable dump of the graph's nodes and edges to
// w, the way entc/gen.Graph.Describe(io.Writer) renders a generated entity
// graph. Nothing in this module calls it; cmd/graphdump renders the same
// information through its own describeTable.
func (g *Graph) Describe(w io.Writer) {
	for _, ref := range g.order {
		n := g.nodes[ref]
		fmt.Fprintf(w, "%s  %s\n", shortRef(ref), n.String())
		for _, e := range g.out[ref] {
			fmt.Fprintf(w, "    --%s--> %s", e.Kind, shortRef(e.To))
			if e.Kind == ProjectedDataSink {
				fmt.Fprintf(w, "  [%s into %s]", e.Projection.Names(), e.Sink.Slot)
				if e.Expectation != nil {
					fmt.Fprintf(w, " expect=%v", e.Expectation.Kind)
				}
			}
			fmt.Fprintln(w)
		}
	}
}

func shortRef(r NodeRef) string {
	s := r.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
