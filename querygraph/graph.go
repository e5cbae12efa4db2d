// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package querygraph

import (
	"fmt"

	"github.com/entquery/nestedwrite/schema"
)

// Graph is the directed graph of nodes and typed dependency edges the
// nested write builder constructs. Nodes and edges are owned by the graph;
// it is built bottom-up by recursive descent and is not mutated after the
// builder returns to the top-level caller (spec §3).
type Graph struct {
	nodes map[NodeRef]*Node
	order []NodeRef // insertion order, for Describe and for the
	// round-trip isomorphism property (spec §8 invariant 5)

	out  map[NodeRef][]*Edge
	in   map[NodeRef][]*Edge
	seen map[edgeKey]struct{}

	// swapTargets records nodes marked via Mark as the legitimate
	// destination of a back-edge (see HasCycle and SPEC_FULL.md §7 for the
	// design decision this implements).
	swapTargets map[NodeRef]bool
}

// NewGraph returns an empty QueryGraph.
func NewGraph() *Graph {
	return &Graph{
		nodes:       make(map[NodeRef]*Node),
		out:         make(map[NodeRef][]*Edge),
		in:          make(map[NodeRef][]*Edge),
		seen:        make(map[edgeKey]struct{}),
		swapTargets: make(map[NodeRef]bool),
	}
}

func (g *Graph) addNode(n *Node) NodeRef {
	n.ID = newNodeRef()
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return n.ID
}

// CreateQueryNode creates a Query(Read|Create|Update|UpdateMany|Delete|
// DeleteMany) node.
func (g *Graph) CreateQueryNode(op QueryOperation, model *schema.Model, projection schema.Selection, filter any, label string) NodeRef {
	return g.addNode(&Node{
		Kind:  QueryNode,
		label: label,
		Query: &QueryNodeData{
			Operation:  op,
			Model:      model,
			Projection: projection,
			Filter:     filter,
			WriteArgs:  make(map[string]any),
		},
	})
}

// CreateIfNonEmptyNode creates a Flow(IfNonEmpty) node, initial state
// Unresolved (spec §4.8).
func (g *Graph) CreateIfNonEmptyNode(label string) NodeRef {
	return g.addNode(&Node{
		Kind:  FlowNode,
		label: label,
		Flow:  &FlowNodeData{Op: FlowIfNonEmpty, State: IfUnresolved},
	})
}

// CreateReturnNode creates a Flow(Return) node.
func (g *Graph) CreateReturnNode(label string) NodeRef {
	return g.addNode(&Node{
		Kind:  FlowNode,
		label: label,
		Flow:  &FlowNodeData{Op: FlowReturn},
	})
}

// CreateDiffNode creates a Computation(Diff) node.
func (g *Graph) CreateDiffNode(label string) NodeRef {
	return g.addNode(&Node{
		Kind:  ComputationNode,
		label: label,
		Comp:  &CompNodeData{Op: CompDiff},
	})
}

// Node returns the node behind ref. Panics if ref is unknown to this
// graph — a programmer error, the same class as entc/gen's expect/check.
func (g *Graph) Node(ref NodeRef) *Node {
	n, ok := g.nodes[ref]
	if !ok {
		panic(fmt.Sprintf("querygraph: unknown node %s", ref))
	}
	return n
}

// Mark records that target was derived from parent and may legitimately be
// revisited by a later edge that would otherwise close a cycle back
// through parent — the "swap parent" mechanism of spec §9. See
// SPEC_FULL.md §7 for the exact cycle-detection semantics this enables.
func (g *Graph) Mark(parent, target NodeRef) {
	// Either node may end up on the receiving end of the later back-edge,
	// depending on which topology subroutine calls Mark, so both are
	// exempted from the cycle check.
	g.swapTargets[parent] = true
	g.swapTargets[target] = true
}

// CreateEdge adds a typed dependency edge from -> to. It enforces that at
// most one edge of a given Kind exists between an ordered pair (spec §3),
// and that IfNonEmpty nodes accumulate exactly one Then and one Else
// successor (spec §4.8) — both are structural/programmer-error
// invariants, so violations return a descriptive error the caller can
// choose to treat as fatal rather than a panic, except the single-Then/
// single-Else cardinality violation, which panics immediately: a builder
// that tries to wire a second Then (or Else) onto the same if-node has a
// bug no caller can recover from, mirroring entc/gen's expect/check.
func (g *Graph) CreateEdge(from, to NodeRef, kind EdgeKind, opts ...EdgeOption) (*Edge, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("querygraph: create edge: zero-value NodeRef (%s -> %s)", from, to)
	}
	if _, ok := g.nodes[from]; !ok {
		return nil, fmt.Errorf("querygraph: create edge: unknown source node %s", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return nil, fmt.Errorf("querygraph: create edge: unknown target node %s", to)
	}
	key := edgeKey{from: from, to: to, kind: kind}
	if _, dup := g.seen[key]; dup {
		return nil, fmt.Errorf("querygraph: duplicate %s edge between %s and %s", kind, from, to)
	}

	if kind == Then || kind == Else {
		src := g.Node(from)
		if src.Kind != FlowNode || src.Flow.Op != FlowIfNonEmpty {
			panic(fmt.Sprintf("querygraph: %s edge must originate from an IfNonEmpty node", kind))
		}
		for _, e := range g.out[from] {
			if e.Kind == kind {
				panic(fmt.Sprintf("querygraph: IfNonEmpty node %s already has a %s successor", from, kind))
			}
		}
	}

	e := &Edge{From: from, To: to, Kind: kind}
	for _, opt := range opts {
		opt(e)
	}

	if !g.wouldCycleCheckOK(from, to) {
		return nil, fmt.Errorf("querygraph: edge %s -> %s would introduce a data cycle", from, to)
	}

	g.seen[key] = struct{}{}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return e, nil
}

// EdgeOption configures an edge created via CreateEdge.
type EdgeOption func(*Edge)

// WithProjection sets the projection carried by a ProjectedDataSink edge.
func WithProjection(s schema.Selection) EdgeOption {
	return func(e *Edge) { e.Projection = s }
}

// WithSink sets the sink carried by a ProjectedDataSink edge.
func WithSink(sink Sink) EdgeOption {
	return func(e *Edge) { e.Sink = sink }
}

// WithExpectation attaches an optional row-count expectation to a
// ProjectedDataSink edge.
func WithExpectation(exp *Expectation) EdgeOption {
	return func(e *Edge) { e.Expectation = exp }
}

// wouldCycleCheckOK performs a lightweight, local check before accepting a
// brand-new edge: does `to` already have a path back to `from`? If so, the
// new edge closes a cycle — tolerated only when `to` is itself a
// registered swap target (see HasCycle/Mark).
func (g *Graph) wouldCycleCheckOK(from, to NodeRef) bool {
	if !g.hasPath(to, from) {
		return true
	}
	return g.swapTargets[to]
}

func (g *Graph) hasPath(from, to NodeRef) bool {
	visited := make(map[NodeRef]bool)
	var dfs func(n NodeRef) bool
	dfs = func(n NodeRef) bool {
		if n == to {
			return true
		}
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, e := range g.out[n] {
			if dfs(e.To) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

// HasCycle reports whether the graph, after exempting back-edges into
// Mark-ed swap targets, contains a real cycle. See SPEC_FULL.md §7 for the
// rationale: the one-to-one/one-to-many parent-inlined topologies
// legitimately re-enter the parent node after a read/if chain that
// causally followed it, which looks like a cycle in the raw edge set but
// is not one, because the re-entry represents a later, logically distinct
// write the executor performs only once its predecessors have run.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)
	color := make(map[NodeRef]int, len(g.order))
	exempted := make(map[NodeRef]bool)

	var dfs func(n NodeRef) bool
	dfs = func(n NodeRef) bool {
		color[n] = gray
		for _, e := range g.out[n] {
			switch color[e.To] {
			case white:
				if dfs(e.To) {
					return true
				}
			case gray:
				if g.swapTargets[e.To] && !exempted[e.To] {
					exempted[e.To] = true
					continue
				}
				return true
			}
		}
		color[n] = black
		return false
	}

	for _, ref := range g.order {
		if color[ref] == white {
			if dfs(ref) {
				return true
			}
		}
	}
	return false
}

// TopoWalk returns a topological order over the graph's nodes (Kahn's
// algorithm), failing only if HasCycle would report a real, unexempted
// cycle. Nodes on a cycle that HasCycle exempts through Mark never reach
// in-degree zero, so they are left out of the returned order without an
// error. Never called by the builder itself; provided for tests.
func (g *Graph) TopoWalk() ([]NodeRef, error) {
	if g.HasCycle() {
		return nil, fmt.Errorf("querygraph: graph contains a cycle")
	}
	indegree := make(map[NodeRef]int, len(g.order))
	for _, ref := range g.order {
		indegree[ref] = 0
	}
	for _, edges := range g.out {
		for _, e := range edges {
			indegree[e.To]++
		}
	}
	var queue []NodeRef
	for _, ref := range g.order {
		if indegree[ref] == 0 {
			queue = append(queue, ref)
		}
	}
	var result []NodeRef
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)
		for _, e := range g.out[n] {
			indegree[e.To]--
			if indegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}
	return result, nil
}

// IndependentOf reports whether there is no path between a and b in either
// direction — the condition under which an external executor may run them
// in parallel (spec §5).
func (g *Graph) IndependentOf(a, b NodeRef) bool {
	return !g.hasPath(a, b) && !g.hasPath(b, a)
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []NodeRef {
	out := make([]NodeRef, len(g.order))
	copy(out, g.order)
	return out
}

// Out returns the outgoing edges of n, in creation order.
func (g *Graph) Out(n NodeRef) []*Edge {
	return g.out[n]
}

// In returns the incoming edges of n, in creation order.
func (g *Graph) In(n NodeRef) []*Edge {
	return g.in[n]
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.order) }
