package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// handleOneToMany dispatches on which side of a one-to-many relation is
// inlined (spec §4.1 routing table: §4.4 parent-inlined, §4.5
// child-inlined), mirroring connect_or_create_nested.rs's
// handle_one_to_many.
func handleOneToMany(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	if rf.IsInlined() {
		return oneToManyInlinedParent(g, sch, parent, rf, v, child, o)
	}
	return oneToManyInlinedChild(g, sch, parent, rf, v, child, o)
}

// oneToManyInlinedParent builds spec §4.4's shape: the parent is the many
// side and stores the FK, so only one child may be referenced.
//
//	R -All(IfInput)-> I
//	I -Then-> Return(existing), fed by R
//	I -Else-> Cc -> Return(created)
//	I -ExactlyOneWriteArgs(parent_link, UpdateOrCreateArgs)-> P
//
// expectation = nil because the Return branch guarantees exactly one row by
// construction (spec §4.4). Grounded on one_to_many_inlined_parent, whose
// parent -> read edge is Mark-ed as a legitimate swap-parent re-entry (the
// if-node's data edge back into parent is a later, distinct write, not a
// cycle — see querygraph.Graph.Mark and SPEC_FULL.md §7).
func oneToManyInlinedParent(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	// Only one child may be referenced on this side. coerceValues enforces
	// singleton arity only for one-to-one relations, so several list
	// entries can arrive here; only the last is honored (parity with the
	// original's `values.pop()`).
	item := values[len(values)-1]

	m, err := input.AsMap(item)
	if err != nil {
		return invalidInput("%v", err)
	}
	filter, err := extractUniqueFilter(m)
	if err != nil {
		return err
	}
	createMap, err := extractCreateMap(m)
	if err != nil {
		return err
	}

	childLink := rf.RelatedField().LinkingFields
	parentLink := rf.LinkingFields

	readNode := readByFilter(g, child, schema.NewSelection(childLink...), filter, "read-"+child.Name)
	g.Mark(parent, readNode)
	if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
		return err
	}

	ifNode := ifNonEmpty(g, "if-"+child.Name)
	createNode, err := createRecordNode(g, sch, child, createMap, o, "create-"+child.Name)
	if err != nil {
		return err
	}
	returnExisting := returnValues(g, "return-existing-"+child.Name)
	returnCreate := returnValues(g, "return-create-"+child.Name)

	if _, err := g.CreateEdge(readNode, ifNode, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotIfInput)),
		querygraph.WithProjection(schema.NewSelection(primaryIdentifierFor(o, child)...))); err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, returnExisting, querygraph.Then); err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
		return err
	}
	parentSink, err := exactlyOneWriteArgsSink(o, parentLink, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, parent, querygraph.ProjectedDataSink,
		querygraph.WithSink(parentSink),
		querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
		return err
	}
	if _, err := g.CreateEdge(readNode, returnExisting, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotReturnInput)),
		querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
		return err
	}
	if _, err := g.CreateEdge(createNode, returnCreate, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotReturnInput)),
		querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
		return err
	}
	return nil
}

// oneToManyInlinedChild builds spec §4.5's shape, repeated per element: the
// child is the many side and stores the FK, so any number of children may
// be referenced.
//
//	R -All(IfInput)-> I
//	I -Then-> update child placeholder, P supplies its linking values as
//	          child's FK via ExactlyOneWriteArgs(child_fk, UpdateOrCreateArgs),
//	          NonEmptyRows("update inlined relation")
//	I -Else-> create child, same sink shape, "create inlined relation"
func oneToManyInlinedChild(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}

	parentLink := rf.LinkingFields
	childLink := rf.RelatedField().LinkingFields

	for _, item := range values {
		m, err := input.AsMap(item)
		if err != nil {
			return invalidInput("%v", err)
		}
		filter, err := extractUniqueFilter(m)
		if err != nil {
			return err
		}
		createMap, err := extractCreateMap(m)
		if err != nil {
			return err
		}

		readNode := readByFilter(g, child, schema.NewSelection(childLink...), filter, "read-"+child.Name)
		ifNode := ifNonEmpty(g, "if-"+child.Name)
		updateChild := updatePlaceholder(g, child, filter, "update-"+child.Name)
		createNode, err := createRecordNode(g, sch, child, createMap, o, "create-"+child.Name)
		if err != nil {
			return err
		}

		if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, updateChild, querygraph.Then); err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
			return err
		}
		if _, err := g.CreateEdge(readNode, ifNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(querygraph.All(querygraph.SlotIfInput)),
			querygraph.WithProjection(schema.NewSelection(primaryIdentifierFor(o, child)...))); err != nil {
			return err
		}

		childLinkSink, err := exactlyOneWriteArgsSink(o, childLink, querygraph.SlotUpdateOrCreateArgs)
		if err != nil {
			return err
		}

		createViolation := querygraph.Violation{Model: child, Relation: rf.Relation, DependentOperation: "create inlined relation", ParentOperation: "connectOrCreate"}
		if _, err := g.CreateEdge(parent, createNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(childLinkSink),
			querygraph.WithProjection(schema.NewSelection(parentLink...)),
			querygraph.WithExpectation(querygraph.NonEmptyExpectation(createViolation))); err != nil {
			return err
		}

		updateViolation := querygraph.Violation{Model: child, Relation: rf.Relation, DependentOperation: "update inlined relation", ParentOperation: "connectOrCreate"}
		if _, err := g.CreateEdge(parent, updateChild, querygraph.ProjectedDataSink,
			querygraph.WithSink(childLinkSink),
			querygraph.WithProjection(schema.NewSelection(parentLink...)),
			querygraph.WithExpectation(querygraph.NonEmptyExpectation(updateViolation))); err != nil {
			return err
		}
	}
	return nil
}
