// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

import "fmt"

// RelationSpec describes one relation to be resolved by Builder.Build. It
// mirrors the information a validated PSL schema would already carry (the
// PSL validator itself is an external collaborator, out of scope here) —
// the cardinality of each side is given explicitly, and Build derives the
// relation Kind and the inlined side from it the same way
// entc/gen.Graph.resolve derives a relation's Kind from the uniqueness of
// its two edges.
type RelationSpec struct {
	Name string

	ModelA        string
	FieldA        string
	RequiredA     bool
	UniqueA       bool
	LinkingFieldsA []string // only meaningful if this side ends up inlined

	ModelB        string
	FieldB        string
	RequiredB     bool
	UniqueB       bool
	LinkingFieldsB []string // only meaningful if this side ends up inlined

	// InlinedOn must be set when both sides are unique (a one-to-one
	// relation); cardinality alone cannot tell us which side holds the
	// foreign key, the same way a PSL one-to-one relation must name the
	// `fields`/`references` side explicitly. Ignored for one-to-many and
	// many-to-many relations, where the inlined side is derived.
	InlinedOn Side

	// PivotTable/PivotColumns override the default many-to-many join table
	// naming (<ModelA>_<ModelB> by SideA/SideB order).
	PivotTable   string
	PivotColumns []string
}

// Builder resolves a set of models and relation specs into an immutable
// Schema. It mirrors entc/gen.Graph's two-pass construction: models are
// registered first, then relations are resolved against them.
type Builder struct {
	models   map[string]*Model
	order    []string
	relSpecs []RelationSpec
	err      error
}

// NewBuilder returns an empty schema Builder.
func NewBuilder() *Builder {
	return &Builder{models: make(map[string]*Model)}
}

// AddModel registers a model with its primary identifier and scalar fields.
// AddModel must be called for every model referenced by a later AddRelation
// call.
func (b *Builder) AddModel(name string, primaryIdentifier []*Field, fields []*Field) *Model {
	if _, ok := b.models[name]; ok {
		b.err = joinErr(b.err, fmt.Errorf("schema: duplicate model %q", name))
		return b.models[name]
	}
	m := &Model{Name: name, PrimaryIdentifier: primaryIdentifier, Fields: fields}
	for _, f := range m.PrimaryIdentifier {
		f.owner = m
	}
	for _, f := range m.Fields {
		f.owner = m
	}
	b.models[name] = m
	b.order = append(b.order, name)
	return m
}

// EnableSharding augments model's primary identifier with shard-key columns
// for ShardAwarePrimaryIdentifier.
func (b *Builder) EnableSharding(model string, shardKeys ...*Field) {
	m, ok := b.models[model]
	if !ok {
		b.err = joinErr(b.err, fmt.Errorf("schema: unknown model %q for sharding", model))
		return
	}
	for _, f := range shardKeys {
		f.owner = m
	}
	m.shardKeys = append(m.shardKeys, shardKeys...)
}

// AddRelation queues a relation between two already-registered models for
// resolution during Build.
func (b *Builder) AddRelation(spec RelationSpec) {
	b.relSpecs = append(b.relSpecs, spec)
}

// Build resolves every queued relation and returns the finished Schema. It
// fails if a model reference is missing or if an inlined side is missing
// linking fields. A one-to-one relation that leaves InlinedOn unset is
// resolved as inlined on SideA (the zero Side).
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, spec := range b.relSpecs {
		if err := b.resolve(spec); err != nil {
			return nil, err
		}
	}
	schema := &Schema{}
	for _, name := range b.order {
		schema.Models = append(schema.Models, b.models[name])
	}
	return schema, nil
}

// resolve derives Kind, InlinedSide and LinkingFields for one relation spec
// and attaches the two RelationField endpoints to their owning models.
//
// Derivation rules (adapted from entc/gen.Graph.resolve's unique/unique
// switch, generalized from Go-struct-tag codegen to our RelationField
// model):
//
//	unique(A) && unique(B)   -> OneToOne, inlined side given explicitly
//	unique(A) && !unique(B)  -> OneToMany, A's field points to exactly one
//	                            B, so A holds the FK
//	!unique(A) && unique(B)  -> OneToMany, B's field points to exactly one
//	                            A, so B holds the FK
//	!unique(A) && !unique(B) -> ManyToMany, no inlining, pivot table
func (b *Builder) resolve(spec RelationSpec) error {
	modelA, ok := b.models[spec.ModelA]
	if !ok {
		return fmt.Errorf("schema: relation %q references unknown model %q", spec.Name, spec.ModelA)
	}
	modelB, ok := b.models[spec.ModelB]
	if !ok {
		return fmt.Errorf("schema: relation %q references unknown model %q", spec.Name, spec.ModelB)
	}

	rel := &Relation{Name: spec.Name}
	fieldA := &RelationField{Name: spec.FieldA, Owner: modelA, RelatedModel: modelB, Relation: rel, Required: spec.RequiredA, Unique: spec.UniqueA}
	fieldB := &RelationField{Name: spec.FieldB, Owner: modelB, RelatedModel: modelA, Relation: rel, Required: spec.RequiredB, Unique: spec.UniqueB}
	rel.SideA, rel.SideB = fieldA, fieldB

	switch a, bb := spec.UniqueA, spec.UniqueB; {
	case a && bb:
		rel.Kind = OneToOne
		rel.InlinedSide = spec.InlinedOn
	case !a && bb:
		rel.Kind = OneToMany
		rel.InlinedSide = SideB
	case a && !bb:
		rel.Kind = OneToMany
		rel.InlinedSide = SideA
	default:
		rel.Kind = ManyToMany
	}

	if rel.Kind == ManyToMany {
		rel.PivotTable = spec.PivotTable
		if rel.PivotTable == "" {
			rel.PivotTable = spec.ModelA + "_" + spec.ModelB
		}
		rel.PivotColumns = spec.PivotColumns
		if len(rel.PivotColumns) == 0 {
			rel.PivotColumns = []string{spec.ModelA + "_id", spec.ModelB + "_id"}
		}
		fieldB.LinkingFields = modelB.PrimaryIdentifier
		fieldA.LinkingFields = modelA.PrimaryIdentifier
	} else {
		inlinedField, refField := fieldA, fieldB
		inlinedNames, refModel := spec.LinkingFieldsA, modelB
		if rel.InlinedSide == SideB {
			inlinedField, refField = fieldB, fieldA
			inlinedNames, refModel = spec.LinkingFieldsB, modelA
		}
		inlinedField.inlined = true
		if len(inlinedNames) == 0 {
			return fmt.Errorf("schema: relation %q: inlined side %q is missing linking fields", spec.Name, inlinedField.Name)
		}
		linking := make([]*Field, 0, len(inlinedNames))
		for _, fname := range inlinedNames {
			f, ok := inlinedField.Owner.Field(fname)
			if !ok {
				return fmt.Errorf("schema: relation %q: linking field %q not found on model %q", spec.Name, fname, inlinedField.Owner.Name)
			}
			linking = append(linking, f)
		}
		inlinedField.LinkingFields = linking
		refField.LinkingFields = refModel.PrimaryIdentifier
	}

	modelA.RelationFields = append(modelA.RelationFields, fieldA)
	modelB.RelationFields = append(modelB.RelationFields, fieldB)
	return nil
}

func joinErr(a, b error) error {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return fmt.Errorf("%w; %w", a, b)
}
