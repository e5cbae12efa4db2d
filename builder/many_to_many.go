package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// handleManyToMany builds the many-to-many connect-or-create shape (spec
// §4.3, grounded on connect_or_create_nested.rs's handle_many_to_many):
//
//	P -exec-> R -All(IfInput)-> I
//	I -Then-> Cx (connect pivot row to the found child)
//	I -Else-> Cc (create child) -> Cn (connect pivot row to the created child)
//
// One such shape is built per element of values; an empty list short-
// circuits by emitting nothing (spec §4.3 edge case).
func handleManyToMany(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
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

		childID := primaryIdentifierFor(o, child)
		readNode := readByFilter(g, child, schema.NewSelection(childID...), filter, "read-"+child.Name)
		createNode, err := createRecordNode(g, sch, child, createMap, o, "create-"+child.Name)
		if err != nil {
			return err
		}
		ifNode := ifNonEmpty(g, "if-"+child.Name)

		connectExisting, err := connectRecordsNode(g, parent, readNode, rf, "connect-existing-"+child.Name, o)
		if err != nil {
			return err
		}
		// connect-created's dependency on createNode is already wired by
		// connectRecordsNode's own ProjectedDataSink edges; it is reached
		// transitively once the Else branch runs createNode, so its node
		// ref needs no further use here.
		if _, err := connectRecordsNode(g, parent, createNode, rf, "connect-created-"+child.Name, o); err != nil {
			return err
		}

		if _, err := g.CreateEdge(parent, readNode, querygraph.ExecutionOrder); err != nil {
			return err
		}
		if _, err := g.CreateEdge(readNode, ifNode, querygraph.ProjectedDataSink,
			querygraph.WithSink(querygraph.All(querygraph.SlotIfInput)),
			querygraph.WithProjection(schema.NewSelection(childID...))); err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, connectExisting, querygraph.Then); err != nil {
			return err
		}
		if _, err := g.CreateEdge(ifNode, createNode, querygraph.Else); err != nil {
			return err
		}
	}
	return nil
}
