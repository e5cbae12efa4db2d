package querygraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entquery/nestedwrite/schema"
)

func demoModel(name string) *schema.Model {
	return &schema.Model{Name: name, PrimaryIdentifier: []*schema.Field{{Name: "id", Type: schema.KindInt}}}
}

func TestGraphRejectsDuplicateEdgeKind(t *testing.T) {
	g := NewGraph()
	a := g.CreateQueryNode(OpRead, demoModel("A"), schema.Selection{}, nil, "a")
	b := g.CreateQueryNode(OpRead, demoModel("B"), schema.Selection{}, nil, "b")

	_, err := g.CreateEdge(a, b, ExecutionOrder)
	require.NoError(t, err)
	_, err = g.CreateEdge(a, b, ExecutionOrder)
	assert.Error(t, err)
}

func TestIfNodeExactlyOneThenOneElse(t *testing.T) {
	g := NewGraph()
	ifNode := g.CreateIfNonEmptyNode("if")
	thenNode := g.CreateQueryNode(OpUpdate, demoModel("A"), schema.Selection{}, nil, "then")
	elseNode := g.CreateQueryNode(OpCreate, demoModel("A"), schema.Selection{}, nil, "else")

	_, err := g.CreateEdge(ifNode, thenNode, Then)
	require.NoError(t, err)
	_, err = g.CreateEdge(ifNode, elseNode, Else)
	require.NoError(t, err)

	other := g.CreateQueryNode(OpCreate, demoModel("A"), schema.Selection{}, nil, "other")
	assert.Panics(t, func() {
		_, _ = g.CreateEdge(ifNode, other, Then)
	})
}

func TestHasCycleDetectsRealCycles(t *testing.T) {
	g := NewGraph()
	a := g.CreateQueryNode(OpRead, demoModel("A"), schema.Selection{}, nil, "a")
	b := g.CreateQueryNode(OpRead, demoModel("B"), schema.Selection{}, nil, "b")
	c := g.CreateQueryNode(OpRead, demoModel("C"), schema.Selection{}, nil, "c")

	_, err := g.CreateEdge(a, b, ExecutionOrder)
	require.NoError(t, err)
	_, err = g.CreateEdge(b, c, ExecutionOrder)
	require.NoError(t, err)
	assert.False(t, g.HasCycle())

	_, err = g.CreateEdge(c, a, ExecutionOrder)
	assert.Error(t, err, "an unexempted cycle must be rejected at CreateEdge time")
}

func TestMarkExemptsSwapParentCycle(t *testing.T) {
	// Models the one-to-one/one-to-many parent-inlined shape: parent ->
	// read -> if -> parent, where the final edge re-enters parent as a
	// later, logically distinct write.
	g := NewGraph()
	parent := g.CreateQueryNode(OpUpdate, demoModel("Parent"), schema.Selection{}, nil, "parent")
	read := g.CreateQueryNode(OpRead, demoModel("Child"), schema.Selection{}, nil, "read")
	ifNode := g.CreateIfNonEmptyNode("if")

	g.Mark(parent, read)

	_, err := g.CreateEdge(parent, read, ExecutionOrder)
	require.NoError(t, err)
	_, err = g.CreateEdge(read, ifNode, ProjectedDataSink, WithSink(All(SlotIfInput)))
	require.NoError(t, err)

	_, err = g.CreateEdge(ifNode, parent, ExecutionOrder)
	require.NoError(t, err, "marked swap-parent re-entry must be tolerated")
	assert.False(t, g.HasCycle())
}

func TestTopoWalkOrdersDependencies(t *testing.T) {
	g := NewGraph()
	a := g.CreateQueryNode(OpRead, demoModel("A"), schema.Selection{}, nil, "a")
	b := g.CreateQueryNode(OpRead, demoModel("B"), schema.Selection{}, nil, "b")
	_, err := g.CreateEdge(a, b, ExecutionOrder)
	require.NoError(t, err)

	order, err := g.TopoWalk()
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, a, order[0])
	assert.Equal(t, b, order[1])
}

func TestCreateEdgeRejectsZeroNodeRef(t *testing.T) {
	g := NewGraph()
	a := g.CreateQueryNode(OpRead, demoModel("A"), schema.Selection{}, nil, "a")

	_, err := g.CreateEdge(NodeRef{}, a, ExecutionOrder)
	assert.Error(t, err)
	_, err = g.CreateEdge(a, NodeRef{}, ExecutionOrder)
	assert.Error(t, err)
}

func TestIndependentOfParallelBranches(t *testing.T) {
	g := NewGraph()
	root := g.CreateQueryNode(OpRead, demoModel("A"), schema.Selection{}, nil, "root")
	branch1 := g.CreateQueryNode(OpCreate, demoModel("B"), schema.Selection{}, nil, "b1")
	branch2 := g.CreateQueryNode(OpCreate, demoModel("C"), schema.Selection{}, nil, "b2")
	_, err := g.CreateEdge(root, branch1, ExecutionOrder)
	require.NoError(t, err)
	_, err = g.CreateEdge(root, branch2, ExecutionOrder)
	require.NoError(t, err)

	assert.True(t, g.IndependentOf(branch1, branch2))
	assert.False(t, g.IndependentOf(root, branch1))
}
