package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOrderPreserved(t *testing.T) {
	m := NewMap()
	m.Set("where", Scalar{Kind: Int, Raw: 1})
	m.Set("create", Scalar{Kind: String, Raw: "x"})
	assert.Equal(t, []string{"where", "create"}, m.Keys())
}

func TestMapTakeRemovesEntry(t *testing.T) {
	m := NewMap()
	m.Set("where", Scalar{Kind: Int, Raw: 1})
	v, ok := m.Take("where")
	require.True(t, ok)
	assert.Equal(t, Scalar{Kind: Int, Raw: 1}, v)
	assert.False(t, m.Has("where"))
	_, ok = m.Take("where")
	assert.False(t, ok)
}

func TestDirectiveRejectsUnknownKey(t *testing.T) {
	m := NewMap()
	m.Set("whereTypo", Scalar{Kind: Int, Raw: 1})
	_, ok := m.Directive("whereTypo")
	assert.False(t, ok)
	assert.True(t, m.Has("whereTypo"), "unrecognized keys are left untouched for the caller to report")
}

func TestCoerceToListSingletonMap(t *testing.T) {
	m := NewMap()
	items, err := CoerceToList(m)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Same(t, m, items[0])
}

func TestCoerceToSingleArity(t *testing.T) {
	list := List{Items: []Value{NewMap(), NewMap()}}
	_, err := CoerceToSingle(list)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected exactly one entry")
}
