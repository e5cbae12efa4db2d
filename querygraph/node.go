// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package querygraph is the directed graph of typed nodes and typed
// dependency edges the nested write builder constructs. It supports
// marking, cycle detection and a topological walk; an external executor
// later walks the finished graph honoring edge types (spec §3).
package querygraph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/entquery/nestedwrite/schema"
)

// NodeRef is an opaque handle to a node, stable for the lifetime of the
// graph (spec §3).
type NodeRef struct{ id uuid.UUID }

func (r NodeRef) String() string { return r.id.String() }

// IsZero reports whether r is the zero NodeRef (never returned by the
// Graph.Create*Node methods; useful as a "not set" sentinel in builder code).
func (r NodeRef) IsZero() bool { return r.id == uuid.Nil }

func newNodeRef() NodeRef { return NodeRef{id: uuid.New()} }

// NodeKind is one of Query, Flow or Computation, matching
// original_source's Node::Query(..)/Node::Flow(..)/Node::Computation(..)
// exactly (see SPEC_FULL.md §7 on why Diff is a ComputationNode, not a
// FlowNode, despite spec.md's prose suggesting otherwise in one place).
type NodeKind int

const (
	QueryNode NodeKind = iota
	FlowNode
	ComputationNode
)

// QueryOperation is the write/read shape of a QueryNode.
type QueryOperation int

const (
	OpRead QueryOperation = iota
	OpCreate
	OpCreateMany
	OpUpdate
	OpUpdateMany
	OpDelete
	OpDeleteMany
)

func (o QueryOperation) String() string {
	switch o {
	case OpRead:
		return "Read"
	case OpCreate:
		return "Create"
	case OpCreateMany:
		return "CreateMany"
	case OpUpdate:
		return "Update"
	case OpUpdateMany:
		return "UpdateMany"
	case OpDelete:
		return "Delete"
	case OpDeleteMany:
		return "DeleteMany"
	default:
		return "Unknown"
	}
}

// FlowOp is the kind of control-flow node.
type FlowOp int

const (
	FlowIfNonEmpty FlowOp = iota
	FlowReturn
)

// IfState is the §4.8 state machine for an IfNonEmpty node.
type IfState int

const (
	IfUnresolved IfState = iota
	IfThen
	IfElse
)

// CompOp is the kind of computation node. Diff is the only one this spec
// names (§4.2).
type CompOp int

const (
	CompDiff CompOp = iota
)

// QueryNodeData is the payload of a QueryNode.
type QueryNodeData struct {
	Operation  QueryOperation
	Model      *schema.Model
	Projection schema.Selection
	Filter     any // opaque filter handed to the (external) executor

	// WriteArgs accumulates values bound onto this node via incoming
	// ExactlyOneWriteArgs sinks. Keyed by linking field name.
	WriteArgs map[string]any
}

// FlowNodeData is the payload of a FlowNode.
type FlowNodeData struct {
	Op    FlowOp
	State IfState // only meaningful when Op == FlowIfNonEmpty

	// ReturnValues buffers the union of All(ReturnInput) contributions at
	// activation time, for Op == FlowReturn (spec §4.8 "Return: stateless
	// buffer").
	ReturnValues []map[string]any
}

// CompNodeData is the payload of a ComputationNode.
type CompNodeData struct {
	Op CompOp
}

// Node is one vertex of the QueryGraph.
type Node struct {
	ID   NodeRef
	Kind NodeKind

	Query *QueryNodeData
	Flow  *FlowNodeData
	Comp  *CompNodeData

	// label is a short human-readable tag used by Describe; it carries no
	// semantic weight.
	label string
}

func (n *Node) String() string {
	switch n.Kind {
	case QueryNode:
		return fmt.Sprintf("%s(%s %s)", n.label, n.Query.Operation, n.Query.Model.Name)
	case FlowNode:
		if n.Flow.Op == FlowIfNonEmpty {
			return fmt.Sprintf("%s(If %s)", n.label, n.Flow.State)
		}
		return fmt.Sprintf("%s(Return)", n.label)
	case ComputationNode:
		return fmt.Sprintf("%s(Diff)", n.label)
	default:
		return n.label
	}
}

func (s IfState) String() string {
	switch s {
	case IfThen:
		return "Then"
	case IfElse:
		return "Else"
	default:
		return "Unresolved"
	}
}
