package builder

import (
	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// BuildNested is the single exported entry point (spec §4.1). It coerces
// directive to a map, rejects any key outside the closed directive set, and
// dispatches each recognized key it finds to the matching per-verb builder.
// Any downstream error is returned unchanged and the caller discards the
// partially built graph (spec §4.1, §4.9) — BuildNested never partially
// commits anything a caller could observe after an error.
func BuildNested(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, directive input.Value, child *schema.Model, opts ...Option) error {
	o := resolveOptions(opts...)
	m, err := input.AsMap(directive)
	if err != nil {
		return wrapError(InvalidInput, err, "nested directive for relation %q", rf.Name)
	}

	log := o.log.WithRelation(rf.Relation.Name, child.Name)
	log.Debugw("dispatch relation", "kind", rf.Relation.Kind.String(), "inlined", rf.IsInlined())

	for _, key := range m.Keys() {
		if !input.IsRecognizedKey(key) {
			return unknownField(key)
		}
	}

	if v, ok := m.Directive(input.KeyConnectOrCreate); ok {
		if err := dispatchConnectOrCreate(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyCreate); ok {
		if err := dispatchCreate(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyConnect); ok {
		if err := dispatchConnect(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyUpsert); ok {
		if err := dispatchUpsert(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyDisconnect); ok {
		if err := dispatchDisconnect(g, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyDelete); ok {
		if err := dispatchDelete(g, parent, rf, v, child); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyCreateMany); ok {
		if err := dispatchCreateMany(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyUpdateMany); ok {
		if err := dispatchUpdateMany(g, parent, rf, v, child); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeyDeleteMany); ok {
		if err := dispatchDeleteMany(g, parent, rf, v, child); err != nil {
			return err
		}
	}
	if v, ok := m.Directive(input.KeySet); ok {
		if err := dispatchSet(g, sch, parent, rf, v, child, o); err != nil {
			return err
		}
	}
	return nil
}

// dispatchConnectOrCreate implements the §4.1 routing table for
// connectOrCreate, the primary, fully-built verb (§4.3–§4.7, grounded
// line-for-line on connect_or_create_nested.rs).
func dispatchConnectOrCreate(g *querygraph.Graph, sch *schema.Schema, parent querygraph.NodeRef, rf *schema.RelationField, v input.Value, child *schema.Model, o *options) error {
	rel := rf.Relation
	switch {
	case rel.IsManyToMany():
		return handleManyToMany(g, sch, parent, rf, v, child, o)
	case rel.IsOneToMany():
		return handleOneToMany(g, sch, parent, rf, v, child, o)
	default:
		return handleOneToOne(g, sch, parent, rf, v, child, o)
	}
}

// coerceValues applies §4.1's input coercion: a single map becomes a
// singleton list for many-sided relations; for one-to-one relations
// exactly one element is required.
func coerceValues(rf *schema.RelationField, v input.Value) ([]input.Value, error) {
	if rf.Relation.IsOneToOne() {
		single, err := input.CoerceToSingle(v)
		if err != nil {
			return nil, wrapError(InvalidInput, err, "relation %q", rf.Name)
		}
		return []input.Value{single}, nil
	}
	items, err := input.CoerceToList(v)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "relation %q", rf.Name)
	}
	return items, nil
}

// extractUniqueFilter pulls the `where` sub-key out of m, coerced to a
// *input.Map, the way extract_unique_filter reads a ParsedInputMap's where
// clause in connect_or_create_nested.rs. The filter itself stays opaque to
// the builder (spec §3 "filter any") — only its presence/shape is checked.
func extractUniqueFilter(m *input.Map) (any, error) {
	v, ok := m.Directive(input.KeyWhere)
	if !ok {
		return nil, invalidInput("missing required %q", input.KeyWhere)
	}
	where, err := input.AsMap(v)
	if err != nil {
		return nil, invalidInput("%q: %v", input.KeyWhere, err)
	}
	return where, nil
}

// extractCreateMap pulls the `create` sub-key out of m.
func extractCreateMap(m *input.Map) (*input.Map, error) {
	v, ok := m.Directive(input.KeyCreate)
	if !ok {
		return nil, invalidInput("missing required %q", input.KeyCreate)
	}
	return input.AsMap(v)
}
