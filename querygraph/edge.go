package querygraph

import "github.com/entquery/nestedwrite/schema"

// EdgeKind is the type of dependency an edge declares (spec §3).
type EdgeKind int

const (
	ExecutionOrder EdgeKind = iota
	ProjectedDataSink
	Then
	Else
)

func (k EdgeKind) String() string {
	switch k {
	case ExecutionOrder:
		return "ExecutionOrder"
	case ProjectedDataSink:
		return "ProjectedDataSink"
	case Then:
		return "Then"
	case Else:
		return "Else"
	default:
		return "Unknown"
	}
}

// Edge connects two nodes with a typed dependency. Between any ordered pair
// (A,B) at most one edge of a given Kind exists (spec §3).
type Edge struct {
	From, To NodeRef
	Kind     EdgeKind

	// Projection/Sink/Expectation are only set when Kind ==
	// ProjectedDataSink.
	Projection  schema.Selection
	Sink        Sink
	Expectation *Expectation
}

type edgeKey struct {
	from, to NodeRef
	kind     EdgeKind
}
