// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

// Model is a named entity with an ordered primary identifier and a list of
// relation fields. Models are reference-shared between relations and are
// never mutated by the nested write builder (see builder.BuildNested).
type Model struct {
	Name              string
	PrimaryIdentifier []*Field
	Fields            []*Field
	RelationFields    []*RelationField

	// shardKeys augment PrimaryIdentifier when the target store is sharded.
	// The builder treats the result as opaque (spec glossary: "shard-aware
	// primary identifier").
	shardKeys []*Field
}

// ShardAwarePrimaryIdentifier returns the primary identifier augmented with
// shard-key columns when the model's schema was built with sharding enabled.
// The nested write builder treats the result as an opaque projection and
// never inspects individual columns.
func (m *Model) ShardAwarePrimaryIdentifier() []*Field {
	if len(m.shardKeys) == 0 {
		return m.PrimaryIdentifier
	}
	out := make([]*Field, 0, len(m.PrimaryIdentifier)+len(m.shardKeys))
	out = append(out, m.PrimaryIdentifier...)
	out = append(out, m.shardKeys...)
	return out
}

// RelationField looks up one of the model's relation fields by name.
func (m *Model) RelationField(name string) (*RelationField, bool) {
	for _, rf := range m.RelationFields {
		if rf.Name == name {
			return rf, true
		}
	}
	return nil, false
}

// Field looks up one of the model's scalar fields by name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	for _, f := range m.PrimaryIdentifier {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Schema is the fully resolved, immutable set of models produced by Builder.
// It is the "validated schema" the builder dispatcher consumes (spec §1).
type Schema struct {
	Models []*Model
}

// Model looks up a model by name.
func (s *Schema) Model(name string) (*Model, bool) {
	for _, m := range s.Models {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}
