package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// createRecordNode is create::create_record_node's equivalent: builds a
// Create QueryNode for model, binding createMap's scalar entries directly
// into the node's WriteArgs and recursing into BuildNested for any entry
// that names one of model's own relation fields — a nested create payload
// may itself carry further nested writes (spec §6's "each nested directive
// dispatches to a per-verb builder" applies transitively, one level of
// create at a time).
func createRecordNode(g *querygraph.Graph, sch *schema.Schema, model *schema.Model, createMap *input.Map, opts *options, label string) (querygraph.NodeRef, error) {
	node := g.CreateQueryNode(querygraph.OpCreate, model, schema.Selection{}, nil, label)
	n := g.Node(node)

	for _, key := range createMap.Keys() {
		if f, ok := model.Field(key); ok {
			v, _ := createMap.Take(key)
			sc, err := input.AsScalar(v)
			if err != nil {
				return querygraph.NodeRef{}, wrapError(InvalidInput, err, "field %q on %s", key, model.Name)
			}
			if f.IsReadOnly() {
				return querygraph.NodeRef{}, impossibleConstraint("field %q on %s is relation-owned and cannot be set directly", key, model.Name)
			}
			n.Query.WriteArgs[key] = sc.Raw
			continue
		}
		if rf, ok := model.RelationField(key); ok {
			v, _ := createMap.Take(key)
			if err := BuildNested(g, sch, node, rf, v, rf.RelatedModel, withOptions(opts)...); err != nil {
				return querygraph.NodeRef{}, err
			}
			continue
		}
		return querygraph.NodeRef{}, unknownField(key)
	}
	return node, nil
}

// withOptions re-threads an already-resolved options bundle through a
// recursive BuildNested call without re-resolving defaults.
func withOptions(o *options) []Option {
	return []Option{WithLogger(o.log), WithConfig(o.cfg)}
}
