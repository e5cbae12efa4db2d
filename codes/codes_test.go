package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/entquery/nestedwrite/querygraph"
)

func TestTranslate(t *testing.T) {
	v := querygraph.Violation{DependentOperation: "connectOrCreate"}

	assert.Equal(t, P2025, Translate(v, querygraph.NonEmptyRows))
	assert.Equal(t, P2014, Translate(v, querygraph.EmptyRows))
}
