// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

// RelationKind is the cardinality of a Relation between two models.
type RelationKind int

const (
	Unk RelationKind = iota
	OneToOne
	OneToMany
	ManyToMany
)

func (k RelationKind) String() string {
	switch k {
	case OneToOne:
		return "OneToOne"
	case OneToMany:
		return "OneToMany"
	case ManyToMany:
		return "ManyToMany"
	default:
		return "Unk"
	}
}

// Side identifies one endpoint of a Relation.
type Side int

const (
	SideA Side = iota
	SideB
)

// Relation is an undirected link between two models. One side is "inlined"
// (holds the foreign key) for every non-many-to-many relation; the choice is
// immutable once Build has resolved it.
type Relation struct {
	Name        string
	Kind        RelationKind
	SideA       *RelationField
	SideB       *RelationField
	InlinedSide Side // meaningless when Kind == ManyToMany

	// PivotTable names the join table for a many-to-many relation.
	PivotTable string
	// PivotColumns names the two FK columns of the join table, one per side,
	// in SideA/SideB order.
	PivotColumns []string
}

// IsManyToMany reports whether the relation is many-to-many.
func (r *Relation) IsManyToMany() bool { return r.Kind == ManyToMany }

// IsOneToMany reports whether the relation is one-to-many.
func (r *Relation) IsOneToMany() bool { return r.Kind == OneToMany }

// IsOneToOne reports whether the relation is one-to-one.
func (r *Relation) IsOneToOne() bool { return r.Kind == OneToOne }

// RelationField is one endpoint of a Relation, owned by a Model.
type RelationField struct {
	Name         string
	Owner        *Model
	RelatedModel *Model
	Relation     *Relation

	// LinkingFields are the scalar columns participating on this side. On
	// the inlined side these are the foreign-key columns; on the opposite
	// side they are the referenced columns (normally the related model's
	// primary identifier).
	LinkingFields []*Field

	Required bool // this side requires a counterpart to exist
	Unique   bool // this side has cardinality "one"

	inlined bool // this side physically stores the foreign key
}

// IsInlined reports whether this side of the relation holds the foreign key.
func (rf *RelationField) IsInlined() bool { return rf.inlined }

// RelatedField returns the opposite endpoint of the relation.
func (rf *RelationField) RelatedField() *RelationField {
	if rf.Relation.SideA == rf {
		return rf.Relation.SideB
	}
	return rf.Relation.SideA
}
