package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// dispatchCreate builds the `create` nested directive: the same shape as
// connectOrCreate's Else (create) branch alone, with no read and no
// if-node (spec §8 bullet 1 of SPEC_FULL.md). The child/parent linking
// edge reuses the identical ExactlyOneWriteArgs + expectation shape the
// Else branches of oneToManyInlinedChild/oneToOneInlinedChild use.
func dispatchCreate(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}
	for _, item := range values {
		createMap, err := input.AsMap(item)
		if err != nil {
			return invalidInput("%v", err)
		}
		createNode, err := createRecordNode(g, sch, child, createMap, o, "create-"+child.Name)
		if err != nil {
			return err
		}
		if err := bindCreatedChild(g, parent, rf, createNode, child, o); err != nil {
			return err
		}
	}
	return nil
}

// bindCreatedChild wires a freshly created child into its relation,
// choosing the inlining side the same way the §8.2–§8.6 topology
// subroutines do. dispatchCreate, dispatchConnect, dispatchUpsert and
// dispatchSet share it; the connectOrCreate subroutines build the same
// edge shape inline behind their If node.
func bindCreatedChild(g *querygraph.Graph, parent querygraph.NodeRef, rf *schema.RelationField, childNode querygraph.NodeRef, child *schema.Model, o *options) error {
	rel := rf.Relation
	switch {
	case rel.IsManyToMany():
		_, err := connectRecordsNode(g, parent, childNode, rf, "connect-created-"+child.Name, o)
		return err
	case rel.IsOneToMany():
		if rf.IsInlined() {
			// Parent is the many side: the parent's own FK is bound from
			// the created child's linking values.
			childLink := rf.RelatedField().LinkingFields
			sink, err := exactlyOneWriteArgsSink(o, rf.LinkingFields, querygraph.SlotUpdateOrCreateArgs)
			if err != nil {
				return err
			}
			_, err = g.CreateEdge(childNode, parent, querygraph.ProjectedDataSink,
				querygraph.WithSink(sink),
				querygraph.WithProjection(schema.NewSelection(childLink...)))
			return err
		}
		parentLink := rf.LinkingFields
		childLink := rf.RelatedField().LinkingFields
		sink, err := exactlyOneWriteArgsSink(o, childLink, querygraph.SlotUpdateOrCreateArgs)
		if err != nil {
			return err
		}
		v := querygraph.Violation{Model: child, Relation: rel, DependentOperation: "create inlined relation", ParentOperation: "create"}
		_, err = g.CreateEdge(parent, childNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(sink),
			querygraph.WithProjection(schema.NewSelection(parentLink...)),
			querygraph.WithExpectation(querygraph.NonEmptyExpectation(v)))
		return err
	default: // OneToOne
		childLink := rf.RelatedField().LinkingFields
		parentLink := rf.LinkingFields
		if rf.IsInlined() {
			sink, err := exactlyOneWriteArgsSink(o, parentLink, querygraph.SlotUpdateOrCreateArgs)
			if err != nil {
				return err
			}
			_, err = g.CreateEdge(childNode, parent, querygraph.ProjectedDataSink,
				querygraph.WithSink(sink),
				querygraph.WithProjection(schema.NewSelection(childLink...)))
			return err
		}
		sink, err := exactlyOneWriteArgsSink(o, childLink, querygraph.SlotUpdateOrCreateArgs)
		if err != nil {
			return err
		}
		v := querygraph.Violation{Model: child, Relation: rel, DependentOperation: "create inlined relation", ParentOperation: "create"}
		_, err = g.CreateEdge(parent, childNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(sink),
			querygraph.WithProjection(schema.NewSelection(parentLink...)),
			querygraph.WithExpectation(querygraph.NonEmptyExpectation(v)))
		return err
	}
}

// dispatchConnect builds the `connect` nested directive: the same shape as
// connectOrCreate's Then (connect-existing) branch alone — a single read
// node plus, for m:n, connectRecordsNode, or for 1:1/1:n, the
// ExactlyOneWriteArgs wiring bindCreatedChild builds. The read's own
// result carries no row-count expectation; a NonEmptyRows expectation is
// attached only on the child-inlined shapes, on the edge from parent.
func dispatchConnect(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}
	for _, item := range values {
		filter, err := input.AsMap(item)
		if err != nil {
			return invalidInput("%v", err)
		}
		readNode := readByFilter(g, child, schema.NewSelection(primaryIdentifierFor(o, child)...), filter, "read-connect-"+child.Name)
		if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		if err := bindCreatedChild(g, parent, rf, readNode, child, o); err != nil {
			return err
		}
	}
	return nil
}

// dispatchDisconnect builds the existing/ex-side update-to-null subgraph
// alone, with an EmptyRows expectation on the opposite-required side,
// exactly as oneToOneInlinedChild's old-child disconnect does. Only
// meaningful for relations where the enclosing model's side is optional
// (spec: disconnecting a required side is a structural ImpossibleConstraint).
func dispatchDisconnect(g *querygraph.Graph, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	if rf.Required {
		return impossibleConstraint("cannot disconnect required relation %q", rf.Name)
	}
	rel := rf.Relation
	switch {
	case rel.IsManyToMany():
		pivotNode := g.CreateQueryNode(querygraph.OpDelete, pivotModel(rel), schema.Selection{}, nil, "disconnect-pivot-"+child.Name)
		_, err := g.CreateEdge(parent, pivotNode, querygraph.ExecutionOrder)
		return err
	case rel.IsOneToMany() && !rf.IsInlined():
		childLink := rf.RelatedField().LinkingFields
		updateChild := updatePlaceholderWithArgs(g, child, nil, nullLinkingArgs(childLink), "disconnect-"+child.Name)
		var expectation *querygraph.Expectation
		if rf.RelatedField().Required {
			expectation = querygraph.EmptyExpectation(querygraph.Violation{Model: child, Relation: rel, DependentOperation: "disconnect", ParentOperation: "disconnect"})
		}
		_, err := g.CreateEdge(parent, updateChild, querygraph.ProjectedDataSink,
			querygraph.WithSink(querygraph.AtMostOne(querygraph.SlotUpdateManyRecordsSelectors)),
			querygraph.WithExpectation(expectation))
		return err
	case rel.IsOneToOne() && !rf.IsInlined():
		childLink := rf.RelatedField().LinkingFields
		readOld, err := insertFindChildrenByParentNode(g, parent, rf, "read-old-"+child.Name, o)
		if err != nil {
			return err
		}
		updateChild := updatePlaceholderWithArgs(g, child, nil, nullLinkingArgs(childLink), "disconnect-"+child.Name)
		violation := querygraph.Violation{Model: child, Relation: rel, DependentOperation: "disconnect", ParentOperation: "disconnect"}
		var expectation *querygraph.Expectation
		if rf.RelatedField().Required {
			expectation = querygraph.EmptyExpectation(violation)
		}
		_, err = g.CreateEdge(readOld, updateChild, querygraph.ProjectedDataSink,
			querygraph.WithSink(querygraph.AtMostOne(querygraph.SlotUpdateManyRecordsSelectors)),
			querygraph.WithExpectation(expectation))
		return err
	default:
		// Inlined-on-parent sides disconnect by nulling the parent's own
		// FK, which belongs to the enclosing update node, not a subgraph
		// BuildNested constructs here — nothing further to build.
		return nil
	}
}

// dispatchDelete builds a Delete QueryNode for the related record, ordered
// after parent by an ExecutionOrder edge, since the related record itself
// is removed rather than unlinked; for m:n a pivot-row Delete follows it.
// Unlike dispatchDisconnect it performs no required-side check and attaches
// no expectation.
func dispatchDelete(g *querygraph.Graph, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model) error {
	rel := rf.Relation
	deleteNode := g.CreateQueryNode(querygraph.OpDelete, child, schema.Selection{}, nil, "delete-"+child.Name)
	if rel.IsManyToMany() {
		if _, err := g.CreateEdge(parent, deleteNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		pivotNode := g.CreateQueryNode(querygraph.OpDelete, pivotModel(rel), schema.Selection{}, nil, "delete-pivot-"+child.Name)
		_, err := g.CreateEdge(deleteNode, pivotNode, querygraph.ExecutionOrder)
		return err
	}
	_, err := g.CreateEdge(parent, deleteNode, querygraph.ExecutionOrder)
	return err
}

// dispatchUpsert builds the identical graph shape to connectOrCreate
// (read -> if -> {update-existing | create}) except the Then branch is an
// Update targeting the found row with the upsert's update payload instead
// of a no-op connect, grounded on the same read_id_infallible +
// Flow::if_non_empty skeleton connectOrCreate uses.
func dispatchUpsert(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	values, err := coerceValues(rf, v)
	if err != nil {
		return err
	}
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
		updateVal, ok := m.Directive(input.KeyUpdate)
		if !ok {
			return invalidInput("upsert missing required %q", input.KeyUpdate)
		}
		updateMap, err := input.AsMap(updateVal)
		if err != nil {
			return invalidInput("%v", err)
		}

		readNode := readByFilter(g, child, schema.NewSelection(primaryIdentifierFor(o, child)...), filter, "read-upsert-"+child.Name)
		if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		ifNode := ifNonEmpty(g, "if-upsert-"+child.Name)
		if _, err := g.CreateEdge(readNode, ifNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(querygraph.All(querygraph.SlotIfInput))); err != nil {
			return err
		}

		updateNode := updatePlaceholder(g, child, filter, "update-upsert-"+child.Name)
		for _, key := range updateMap.Keys() {
			if f, ok := child.Field(key); ok {
				if f.IsID() {
					return impossibleConstraint("upsert update payload for %s cannot set identifier field %q", child.Name, key)
				}
				val, _ := updateMap.Take(key)
				sc, err := input.AsScalar(val)
				if err != nil {
					return invalidInput("%v", err)
				}
				g.Node(updateNode).Query.WriteArgs[f.Name] = sc.Raw
			}
		}

		createNode, err := createRecordNode(g, sch, child, createMap, o, "create-upsert-"+child.Name)
		if err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, updateNode, querygraph.Then); err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
			return err
		}
		if err := bindCreatedChild(g, parent, rf, createNode, child, o); err != nil {
			return err
		}
	}
	return nil
}

// dispatchCreateMany/dispatchUpdateMany/dispatchDeleteMany build a single
// CreateMany/UpdateMany/DeleteMany QueryNode — no per-row If, no
// read-before-write, matching the "many" verbs' lack of per-row existence
// checks in the original engine. CreateMany is fed the parent's linking
// values; UpdateMany/DeleteMany are only ordered after parent by an
// ExecutionOrder edge.
func dispatchCreateMany(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	items, err := input.CoerceToList(v)
	if err != nil {
		return invalidInput("%v", err)
	}
	node := g.CreateQueryNode(querygraph.OpCreateMany, child, schema.Selection{}, nil, "createMany-"+child.Name)
	for i, item := range items {
		createMap, err := input.AsMap(item)
		if err != nil {
			return invalidInput("createMany[%d]: %v", i, err)
		}
		for _, key := range createMap.Keys() {
			if f, ok := child.Field(key); ok {
				val, _ := createMap.Take(key)
				sc, err := input.AsScalar(val)
				if err != nil {
					return invalidInput("%v", err)
				}
				g.Node(node).Query.WriteArgs[f.Name] = sc.Raw
			}
		}
	}
	childLink := rf.RelatedField().LinkingFields
	parentLink := rf.LinkingFields
	sink, err := exactlyOneWriteArgsSink(o, childLink, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return err
	}
	_, err = g.CreateEdge(parent, node, querygraph.ProjectedDataSink,
		querygraph.WithSink(sink),
		querygraph.WithProjection(schema.NewSelection(parentLink...)))
	return err
}

func dispatchUpdateMany(g *querygraph.Graph, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model) error {
	filter, err := input.AsMap(v)
	if err != nil {
		return invalidInput("%v", err)
	}
	node := g.CreateQueryNode(querygraph.OpUpdateMany, child, schema.Selection{}, filter, "updateMany-"+child.Name)
	_, err = g.CreateEdge(parent, node, querygraph.ExecutionOrder)
	return err
}

func dispatchDeleteMany(g *querygraph.Graph, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model) error {
	filter, err := input.AsMap(v)
	if err != nil {
		return invalidInput("%v", err)
	}
	node := g.CreateQueryNode(querygraph.OpDeleteMany, child, schema.Selection{}, filter, "deleteMany-"+child.Name)
	_, err = g.CreateEdge(parent, node, querygraph.ExecutionOrder)
	return err
}

// dispatchSet connects each child named in the given list to parent, with
// the same read + bindCreatedChild wiring as dispatchConnect. It builds no
// step that disconnects children already linked to parent.
func dispatchSet(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	items, err := input.CoerceToList(v)
	if err != nil {
		return invalidInput("%v", err)
	}
	for _, item := range items {
		filter, err := input.AsMap(item)
		if err != nil {
			return invalidInput("%v", err)
		}
		readNode := readByFilter(g, child, schema.NewSelection(primaryIdentifierFor(o, child)...), filter, "read-set-"+child.Name)
		if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		if err := bindCreatedChild(g, parent, rf, readNode, child, o); err != nil {
			return err
		}
	}
	return nil
}
