package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// handleOneToOne extracts the single {where, create} pair a one-to-one
// connectOrCreate directive carries (coerceValues already enforced exactly
// one element, scenario S5) and dispatches on which side is inlined (spec
// §4.1: §4.6 parent-inlined, §4.7 child-inlined), mirroring
// connect_or_create_nested.rs's handle_one_to_one.
func handleOneToOne(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}
	m, err := input.AsMap(values[0])
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

	if rf.IsInlined() {
		return oneToOneInlinedParent(g, sch, parent, rf, filter, createMap, child, o)
	}
	return oneToOneInlinedChild(g, sch, parent, rf, filter, createMap, child, o)
}

// oneToOneInlinedParent builds spec §4.6's shape. For every parent: look
// up the child; if found, run the existing-1:1-related-model check against
// the found child's current parent (failing if that side is required). If
// not found, create the child. Non-create parent: additionally run the same
// check against the parent's own current child, then bind the link via a
// separate update_parent node — the check must run between the if-branch
// and the parent write, so we cannot inject directly into parent itself.
// Create parent: skip the check on the parent's own current child (a
// record being created cannot already have a linked child) and inject the
// link directly into parent.
//
// Grounded on one_to_one_inlined_parent; the parent -> read edge is
// Mark-ed, exactly as in oneToManyInlinedParent, because the if-node's data
// edge (or, in the non-create case, the ExecutionOrder edge into the
// update_parent chain) re-enters parent as a later, distinct write.
func oneToOneInlinedParent(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, filter any, createMap *input.Map, child *schema.Model, o *options) error {
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

	readExParent, err := insertExisting1to1RelatedModelChecks(g, readNode, rf.RelatedField(), o)
	if err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, readExParent, querygraph.Then); err != nil {
		return err
	}
	if _, err := g.CreateEdge(readExParent, returnExisting, querygraph.ExecutionOrder); err != nil {
		return err
	}
	if _, err := g.CreateEdge(readNode, returnExisting, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotReturnInput)),
		querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
		return err
	}

	if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
		return err
	}
	if _, err := g.CreateEdge(createNode, returnCreate, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotReturnInput)),
		querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
		return err
	}

	parentLinkSink, err := exactlyOneWriteArgsSink(o, parentLink, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return err
	}

	if nodeIsCreate(g, parent) {
		if _, err := g.CreateEdge(ifNode, parent, querygraph.ProjectedDataSink,
			querygraph.WithSink(parentLinkSink),
			querygraph.WithProjection(schema.NewSelection(childLink...))); err != nil {
			return err
		}
		return nil
	}

	if _, err := g.CreateEdge(ifNode, parent, querygraph.ExecutionOrder); err != nil {
		return err
	}
	if _, err := insertExisting1to1RelatedModelChecks(g, parent, rf, o); err != nil {
		return err
	}

	updateViolation := querygraph.Violation{Model: child, Relation: rf.Relation, DependentOperation: "update inlined relation", ParentOperation: "connectOrCreate"}
	updateParent := updatePlaceholder(g, rf.Owner, nil, "update-parent-"+rf.Owner.Name)
	if _, err := g.CreateEdge(parent, updateParent, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.ExactlyOne(querygraph.SlotUpdateManyRecordsSelectors)),
		querygraph.WithProjection(schema.NewSelection(primaryIdentifierFor(o, rf.Owner)...)),
		querygraph.WithExpectation(querygraph.NonEmptyExpectation(updateViolation))); err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, updateParent, querygraph.ProjectedDataSink,
		querygraph.WithSink(parentLinkSink),
		querygraph.WithProjection(schema.NewSelection(childLink...)),
		querygraph.WithExpectation(querygraph.NonEmptyExpectation(updateViolation))); err != nil {
		return err
	}
	return nil
}

// oneToOneInlinedChild builds spec §4.7's three-phase shape: read new
// child; if found, go to the rewire branch, else create the child and bind
// the parent link directly. On non-create parents, the rewire branch also
// reads the parent's current (old) child, computes diff(new, old), and when
// non-empty (replacing a different child) nulls the old child's FK via
// update_old_child — failing EmptyRows if the opposite side is required.
// Finally the new child is updated to link to the parent. On create
// parents the old-child read/diff/disconnect sub-graph is omitted entirely
// (a record being created cannot already have a child).
func oneToOneInlinedChild(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, filter any, createMap *input.Map, child *schema.Model, o *options) error {
	childModelID := schema.NewSelection(primaryIdentifierFor(o, child)...)
	parentLink := rf.LinkingFields
	childLink := rf.RelatedField().LinkingFields
	childRF := rf.RelatedField()

	readNewChild := readByFilter(g, child, schema.NewSelection(childLink...), filter, "read-new-"+child.Name)
	if _, err := g.CreateEdge(parent, readNewChild, querygraph.ExecutionOrder); err != nil {
		return err
	}

	ifNode := ifNonEmpty(g, "if-"+child.Name)
	createNode, err := createRecordNode(g, sch, child, createMap, o, "create-"+child.Name)
	if err != nil {
		return err
	}
	if _, err := g.CreateEdge(readNewChild, ifNode, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotIfInput)), querygraph.WithProjection(childModelID)); err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
		return err
	}

	childLinkSink, err := exactlyOneWriteArgsSink(o, childLink, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return err
	}

	updateNewChild := updatePlaceholder(g, child, nil, "update-new-"+child.Name)
	findRecordsViolation := querygraph.Violation{Model: rf.Owner, Relation: rf.Relation, DependentOperation: "find records", ParentOperation: "connectOrCreate"}
	if _, err := g.CreateEdge(parent, updateNewChild, querygraph.ProjectedDataSink,
		querygraph.WithSink(childLinkSink),
		querygraph.WithProjection(schema.NewSelection(parentLink...)),
		querygraph.WithExpectation(querygraph.NonEmptyExpectation(findRecordsViolation))); err != nil {
		return err
	}

	createInlinedViolation := querygraph.Violation{Model: rf.Owner, Relation: rf.Relation, DependentOperation: "create inlined relation", ParentOperation: "connectOrCreate"}
	if _, err := g.CreateEdge(parent, createNode, querygraph.ProjectedDataSink,
		querygraph.WithSink(childLinkSink),
		querygraph.WithProjection(schema.NewSelection(parentLink...)),
		querygraph.WithExpectation(querygraph.NonEmptyExpectation(createInlinedViolation))); err != nil {
		return err
	}

	if _, err := g.CreateEdge(readNewChild, updateNewChild, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.ExactlyOne(querygraph.SlotUpdateManyRecordsSelectors)),
		querygraph.WithProjection(childModelID),
		querygraph.WithExpectation(querygraph.NonEmptyExpectation(findRecordsViolation))); err != nil {
		return err
	}

	if nodeIsCreate(g, parent) {
		// A create can't have a previous child connected; the relation
		// being inlined on the child means overriding its FK automatically
		// disconnects whatever it used to point to, and the parent ->
		// old-child relationship can never be required (spec §4.7).
		if _, err := g.CreateEdge(ifNode, updateNewChild, querygraph.Then); err != nil {
			return err
		}
		return nil
	}

	readOldChild, err := insertFindChildrenByParentNode(g, parent, rf, "read-old-"+child.Name, o)
	if err != nil {
		return err
	}
	if _, err := g.CreateEdge(ifNode, readOldChild, querygraph.Then); err != nil {
		return err
	}

	diff := diffNode(g, "diff-"+child.Name)
	if _, err := g.CreateEdge(readNewChild, diff, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotLeftSideDiffInput)), querygraph.WithProjection(childModelID)); err != nil {
		return err
	}
	if _, err := g.CreateEdge(readOldChild, diff, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotRightSideDiffInput)), querygraph.WithProjection(childModelID)); err != nil {
		return err
	}

	diffIf := ifNonEmpty(g, "if-replacing-"+child.Name)
	if _, err := g.CreateEdge(diff, diffIf, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotIfInput)), querygraph.WithProjection(childModelID)); err != nil {
		return err
	}

	var disconnectExpectation *querygraph.Expectation
	if childRF.Required {
		disconnectExpectation = querygraph.EmptyExpectation(querygraph.Violation{
			Model: child, Relation: rf.Relation, DependentOperation: "disconnect old child", ParentOperation: "connectOrCreate",
		})
	}
	updateOldChild := updatePlaceholderWithArgs(g, child, nil, nullLinkingArgs(childLink), "update-old-"+child.Name)
	if _, err := g.CreateEdge(readOldChild, updateOldChild, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.AtMostOne(querygraph.SlotUpdateManyRecordsSelectors)),
		querygraph.WithProjection(childModelID),
		querygraph.WithExpectation(disconnectExpectation)); err != nil {
		return err
	}
	if _, err := g.CreateEdge(diffIf, updateOldChild, querygraph.Then); err != nil {
		return err
	}
	if _, err := g.CreateEdge(diffIf, returnValues(g, "noop-"+child.Name), querygraph.Else); err != nil {
		return err
	}
	if _, err := g.CreateEdge(updateOldChild, updateNewChild, querygraph.ExecutionOrder); err != nil {
		return err
	}
	return nil
}

// nullLinkingArgs builds a write-args map nulling every named linking
// field, the way WriteArgs::from_result(SelectionResult::from(&child_link))
// seeds the old-child disconnect's write args in connect_or_create_nested.rs.
func nullLinkingArgs(fields []*schema.Field) map[string]any {
	args := make(map[string]any, len(fields))
	for _, f := range fields {
		args[f.Name] = nil
	}
	return args
}
