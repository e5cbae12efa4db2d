// Copyright 2019-present Facebook Inc. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package schema

// Selection is an ordered, named tuple of scalar values projected from a
// row. It is how a read/create/update node's projection is described, and
// how a ProjectedDataSinkDependency edge names what travels along it.
type Selection struct {
	Fields []*Field
}

// NewSelection builds a Selection from the given fields, preserving order.
func NewSelection(fields ...*Field) Selection {
	return Selection{Fields: fields}
}

// Names returns the field names in the selection, in order.
func (s Selection) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Equal reports whether two selections reference the same fields in the
// same order — used by the builder to assert that an ExactlyOneWriteArgs
// edge's linking fields exactly match a relation's FK columns (spec §8,
// invariant 3).
func (s Selection) Equal(o Selection) bool {
	if len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i] != o.Fields[i] {
			return false
		}
	}
	return true
}
