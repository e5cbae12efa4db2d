package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBuilderConfig(t *testing.T) {
	cfg := DefaultBuilderConfig()
	assert.True(t, cfg.StrictNullableLinking)
	assert.False(t, cfg.ShardAware)
}
