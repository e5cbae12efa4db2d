// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package schema is the immutable view of models, fields and relations that
// the nested write query-graph builder consumes. Nothing in this package is
// ever mutated once a Schema has been built.
package schema

import "fmt"

// ScalarKind is the closed union of primitive value types a Field can hold.
type ScalarKind int

const (
	KindNull ScalarKind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindDecimal
	KindString
	KindBytes
	KindDateTime
	KindEnum
	KindUUID
	KindJSON
)

func (k ScalarKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindBigInt:
		return "BigInt"
	case KindFloat:
		return "Float"
	case KindDecimal:
		return "Decimal"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindDateTime:
		return "DateTime"
	case KindEnum:
		return "Enum"
	case KindUUID:
		return "UUID"
	case KindJSON:
		return "JSON"
	default:
		return fmt.Sprintf("ScalarKind(%d)", int(k))
	}
}

// Field is a named scalar column on a Model.
type Field struct {
	Name     string
	Type     ScalarKind
	Nullable bool

	// owner is set once the field is attached to a Model; it lets IsReadOnly
	// walk back to the relation fields that might claim this column as a
	// linking field, the way query-structure/src/field/scalar.rs's
	// ScalarField.is_read_only walks relation_fields() on its model.
	owner *Model
}

// IsReadOnly reports whether this field backs the linking columns of one of
// its model's relation fields, i.e. it is a foreign key the nested-write
// builder owns and a plain `set` write must not clobber directly.
func (f *Field) IsReadOnly() bool {
	if f.owner == nil {
		return false
	}
	for _, rf := range f.owner.RelationFields {
		if !rf.IsInlined() {
			continue
		}
		for _, lf := range rf.LinkingFields {
			if lf == f {
				return true
			}
		}
	}
	return false
}

// IsID reports whether the field participates in its model's primary
// identifier.
func (f *Field) IsID() bool {
	if f.owner == nil {
		return false
	}
	for _, pk := range f.owner.PrimaryIdentifier {
		if pk == f {
			return true
		}
	}
	return false
}
