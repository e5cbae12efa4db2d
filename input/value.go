// Package input is the tagged tree of user-supplied write/read arguments the
// nested write builder descends over: maps, lists and scalar primitives. The
// tree is consumed destructively as the builder walks it (spec §5 — "no
// aliasing occurs").
package input

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// ScalarKind is the closed union of primitive value types from spec §6.
type ScalarKind int

const (
	Null ScalarKind = iota
	Bool
	Int
	BigInt
	Float
	Decimal
	String
	Bytes
	DateTime
	Enum
	UUID
	JSON
)

// Value is implemented by Map, List and Scalar — the three node shapes a
// parsed input tree can take.
type Value interface {
	isValue()
}

// Scalar wraps one primitive value.
type Scalar struct {
	Kind ScalarKind
	Raw  any
}

func (Scalar) isValue() {}

// List is an ordered sequence of values.
type List struct {
	Items []Value
}

func (List) isValue() {}

// Map is an ordered tree of (field name, Value) entries — the data model
// explicitly calls for insertion order to be preserved, so Map is backed by
// an orderedmap.OrderedMap rather than a plain Go map.
type Map struct {
	entries *orderedmap.OrderedMap[string, Value]
}

func (*Map) isValue() {}

// NewMap returns an empty, ordered input Map.
func NewMap() *Map {
	return &Map{entries: orderedmap.NewOrderedMap[string, Value]()}
}

// Set inserts or replaces the value at key, preserving first-insertion
// order for existing keys.
func (m *Map) Set(key string, v Value) {
	m.entries.Set(key, v)
}

// Get returns the value at key without removing it.
func (m *Map) Get(key string) (Value, bool) {
	return m.entries.Get(key)
}

// Take removes and returns the entry at key, the way
// ParsedInputMap::swap_remove is used throughout
// connect_or_create_nested.rs — once taken, the key can no longer be read
// from this map, which is how the builder enforces that the input tree is
// consumed, not aliased, as it descends.
func (m *Map) Take(key string) (Value, bool) {
	v, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	m.entries.Delete(key)
	return v, true
}

// Has reports whether key is still present.
func (m *Map) Has(key string) bool {
	_, ok := m.entries.Get(key)
	return ok
}

// Keys returns the remaining keys in insertion order.
func (m *Map) Keys() []string {
	return m.entries.Keys()
}

// Len returns the number of remaining entries.
func (m *Map) Len() int {
	return m.entries.Len()
}

// Directive returns the value stored under one of the closed-set directive
// keys (KeyWhere, KeyCreate, ...), removing it from the map. It is the
// primary way topology subroutines pull `where`/`create`/... sub-values out
// of a nested directive.
func (m *Map) Directive(key string) (Value, bool) {
	if !IsRecognizedKey(key) {
		return nil, false
	}
	return m.Take(key)
}

// String implements fmt.Stringer for diagnostics (never used to render
// user-facing error text — that remains an external renderer's job).
func (m *Map) String() string {
	return fmt.Sprintf("Map(%v)", m.Keys())
}
