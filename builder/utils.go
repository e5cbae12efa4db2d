package builder

import (
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// primaryIdentifierFor projects model's identifier the way o.cfg.ShardAware
// says to: the shard-augmented identifier when the caller opted in, the
// bare primary identifier otherwise. Every call site that used to reach
// past options straight for Model.ShardAwarePrimaryIdentifier goes through
// here instead, so config.BuilderConfig.ShardAware is the one place that
// decision is made.
func primaryIdentifierFor(o *options, model *schema.Model) []*schema.Field {
	if o.cfg != nil && o.cfg.ShardAware {
		return model.ShardAwarePrimaryIdentifier()
	}
	return model.PrimaryIdentifier
}

// mixedNullability reports whether fields mixes nullable and non-nullable
// columns — the shape spec §9's multi-field-linking open question singles
// out as ambiguous (a nullable-and-absent column alongside required ones
// makes "the link" neither fully present nor fully absent).
func mixedNullability(fields []*schema.Field) bool {
	if len(fields) < 2 {
		return false
	}
	nullable, notNullable := false, false
	for _, f := range fields {
		if f.Nullable {
			nullable = true
		} else {
			notNullable = true
		}
	}
	return nullable && notNullable
}

// exactlyOneWriteArgsSink builds the ExactlyOneWriteArgs sink used at every
// linking edge, consulting o.cfg.StrictNullableLinking first: a multi-field
// linking set that mixes nullable and required columns is rejected as
// InvalidInput rather than silently built into a sink no executor could
// satisfy consistently (spec §9, resolved fail-closed, default true).
func exactlyOneWriteArgsSink(o *options, linkingFields []*schema.Field, slot string) (querygraph.Sink, error) {
	if o.cfg != nil && o.cfg.StrictNullableLinking && mixedNullability(linkingFields) {
		return querygraph.Sink{}, invalidInput("linking fields mix nullable and required columns")
	}
	return querygraph.ExactlyOneWriteArgs(linkingFields, slot), nil
}

// readByFilter is read_id_infallible's equivalent: a Read node projected to
// projection, filtered by filter. Empty results flow downstream as empty,
// never as an error (spec §4.2).
func readByFilter(g *querygraph.Graph, model *schema.Model, projection schema.Selection, filter any, label string) querygraph.NodeRef {
	return g.CreateQueryNode(querygraph.OpRead, model, projection, filter, label)
}

// updatePlaceholder is update_records_node_placeholder's equivalent: an
// Update node whose write-args are populated entirely by incoming
// ExactlyOneWriteArgs sinks.
func updatePlaceholder(g *querygraph.Graph, model *schema.Model, filter any, label string) querygraph.NodeRef {
	return g.CreateQueryNode(querygraph.OpUpdate, model, schema.Selection{}, filter, label)
}

// updatePlaceholderWithArgs is update_records_node_placeholder_with_args's
// equivalent: same as updatePlaceholder, but pre-seeded with args (used by
// the disconnect-on-replace step, which already knows it is only ever
// nulling the linking columns).
func updatePlaceholderWithArgs(g *querygraph.Graph, model *schema.Model, filter any, args map[string]any, label string) querygraph.NodeRef {
	ref := g.CreateQueryNode(querygraph.OpUpdate, model, schema.Selection{}, filter, label)
	n := g.Node(ref)
	for k, v := range args {
		n.Query.WriteArgs[k] = v
	}
	return ref
}

// ifNonEmpty is Flow::if_non_empty()'s equivalent.
func ifNonEmpty(g *querygraph.Graph, label string) querygraph.NodeRef {
	return g.CreateIfNonEmptyNode(label)
}

// returnValues is Flow::Return(Vec::new())'s equivalent.
func returnValues(g *querygraph.Graph, label string) querygraph.NodeRef {
	return g.CreateReturnNode(label)
}

// diffNode is Computation::empty_diff_left_to_right()'s equivalent.
func diffNode(g *querygraph.Graph, label string) querygraph.NodeRef {
	return g.CreateDiffNode(label)
}

// nodeIsCreate is node_is_create's equivalent: true iff node is a Create
// QueryNode, the signal §4.6/§4.7 use to skip the existing-record-check
// half of their topology (a record being created in the same operation
// cannot already have an existing opposite-side link).
func nodeIsCreate(g *querygraph.Graph, node querygraph.NodeRef) bool {
	n := g.Node(node)
	return n.Kind == querygraph.QueryNode && n.Query.Operation == querygraph.OpCreate
}

// insertExisting1to1RelatedModelChecks builds the "existing 1:1 related
// model check" sub-graph that §4.6/§4.7 both reference (the `[1]`/`[2]`
// annotations in connect_or_create_nested.rs's one_to_one_inlined_parent
// diagram, whose own utils module wasn't part of the retrieved source —
// this is a from-scratch, documented completion of it): read the record
// currently linked via opposite's foreign key off of src, and if one is
// found, disconnect it by nulling opposite's linking columns. When
// opposite.Required, finding an existing linked record at all is itself the
// constraint violation (the relation would be orphaned with no permitted
// fix), so the disconnecting write's incoming edge carries an EmptyRows
// expectation rather than being allowed to run.
//
// Returns the read node, so the caller can chain further ExecutionOrder
// edges off of it exactly where connect_or_create_nested.rs does.
func insertExisting1to1RelatedModelChecks(g *querygraph.Graph, src querygraph.NodeRef, opposite *schema.RelationField, o *options) (querygraph.NodeRef, error) {
	related := opposite.RelatedModel
	readEx := readByFilter(g, related, schema.NewSelection(primaryIdentifierFor(o, related)...), nil, "read-ex-"+related.Name)
	if _, err := g.CreateEdge(src, readEx, querygraph.ExecutionOrder); err != nil {
		return querygraph.NodeRef{}, err
	}
	if !opposite.IsInlined() {
		return readEx, nil
	}

	ifExisting := ifNonEmpty(g, "if-ex-"+related.Name)
	if _, err := g.CreateEdge(readEx, ifExisting, querygraph.ProjectedDataSink,
		querygraph.WithSink(querygraph.All(querygraph.SlotIfInput))); err != nil {
		return querygraph.NodeRef{}, err
	}

	violation := querygraph.Violation{
		Model:              related,
		Relation:           opposite.Relation,
		DependentOperation: "disconnect existing related record",
		ParentOperation:    "connectOrCreate",
	}
	var expectation *querygraph.Expectation
	if opposite.Required {
		expectation = querygraph.EmptyExpectation(violation)
	}

	sink, err := exactlyOneWriteArgsSink(o, opposite.LinkingFields, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return querygraph.NodeRef{}, err
	}
	updateEx := updatePlaceholder(g, related, nil, "disconnect-ex-"+related.Name)
	if _, err := g.CreateEdge(ifExisting, updateEx, querygraph.ProjectedDataSink,
		querygraph.WithSink(sink),
		querygraph.WithExpectation(expectation)); err != nil {
		return querygraph.NodeRef{}, err
	}
	if _, err := g.CreateEdge(ifExisting, updateEx, querygraph.Then); err != nil {
		return querygraph.NodeRef{}, err
	}
	// A not-found related record needs no disconnect; Else is an empty
	// terminal branch (return_values with nothing piped into it).
	if _, err := g.CreateEdge(ifExisting, returnValues(g, "noop-"+related.Name), querygraph.Else); err != nil {
		return querygraph.NodeRef{}, err
	}
	return readEx, nil
}

// insertFindChildrenByParentNode is insert_find_children_by_parent_node's
// equivalent: reads the child(ren) currently linked to parentNode through
// rf's related field, for the §4.7 rewire branch's "read old child" step.
func insertFindChildrenByParentNode(g *querygraph.Graph, parentNode querygraph.NodeRef, rf *schema.RelationField, label string, o *options) (querygraph.NodeRef, error) {
	related := rf.RelatedModel
	readOld := readByFilter(g, related, schema.NewSelection(primaryIdentifierFor(o, related)...), nil, label)
	if _, err := g.CreateEdge(parentNode, readOld, querygraph.ExecutionOrder); err != nil {
		return querygraph.NodeRef{}, err
	}
	return readOld, nil
}

// pivotModel synthesizes a lightweight, schema-external *schema.Model
// describing a many-to-many relation's join table, used only as the
// target of connectRecordsNode's write node — the pivot table itself is
// never part of the caller-supplied Schema.
func pivotModel(rel *schema.Relation) *schema.Model {
	fields := make([]*schema.Field, len(rel.PivotColumns))
	for i, name := range rel.PivotColumns {
		fields[i] = &schema.Field{Name: name, Type: schema.KindInt}
	}
	return &schema.Model{Name: rel.PivotTable, Fields: fields}
}

// connectRecordsNode is connect_records_node's equivalent: an m:n pivot
// insert fed by both sides' linking values via ExactlyOneWriteArgs sinks.
func connectRecordsNode(g *querygraph.Graph, parentNode, childNode querygraph.NodeRef, rf *schema.RelationField, label string, o *options) (querygraph.NodeRef, error) {
	rel := rf.Relation
	pivot := pivotModel(rel)
	node := g.CreateQueryNode(querygraph.OpCreate, pivot, schema.Selection{}, nil, label)

	parentLinking := primaryIdentifierFor(o, rf.Owner)
	childLinking := primaryIdentifierFor(o, rf.RelatedModel)
	parentCol, childCol := pivot.Fields[0], pivot.Fields[1]
	if rf.Relation.SideB == rf {
		parentCol, childCol = pivot.Fields[1], pivot.Fields[0]
	}

	parentSink, err := exactlyOneWriteArgsSink(o, []*schema.Field{parentCol}, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return querygraph.NodeRef{}, err
	}
	if _, err := g.CreateEdge(parentNode, node, querygraph.ProjectedDataSink,
		querygraph.WithSink(parentSink),
		querygraph.WithProjection(schema.NewSelection(parentLinking...))); err != nil {
		return querygraph.NodeRef{}, err
	}
	childSink, err := exactlyOneWriteArgsSink(o, []*schema.Field{childCol}, querygraph.SlotUpdateOrCreateArgs)
	if err != nil {
		return querygraph.NodeRef{}, err
	}
	if _, err := g.CreateEdge(childNode, node, querygraph.ProjectedDataSink,
		querygraph.WithSink(childSink),
		querygraph.WithProjection(schema.NewSelection(childLinking...))); err != nil {
		return querygraph.NodeRef{}, err
	}
	return node, nil
}
