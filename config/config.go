// Package config loads the builder's ambient configuration: the handful of
// flags BuildNested actually consults, plus the dev-CLI's own settings.
// Mirrors entc/gen.Config in shape (a plain struct consulted by the
// generator) and goarchive's internal/config in loading mechanics (viper,
// YAML).
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// BuilderConfig holds the flags BuildNested consults while constructing a
// graph.
type BuilderConfig struct {
	// StrictNullableLinking treats mixed nullability across a multi-field
	// linking set as a structural error rather than silently tolerating it
	// (§9 Open Question: decided true-by-default, see DESIGN.md).
	StrictNullableLinking bool `mapstructure:"strict_nullable_linking"`

	// ShardAware controls whether Model.ShardAwarePrimaryIdentifier
	// includes shard-key columns when the builder projects a model's
	// identifier.
	ShardAware bool `mapstructure:"shard_aware"`
}

// GraphDumpConfig holds cmd/graphdump's own settings — which schema/input
// fixtures to load and how to render them. It embeds BuilderConfig so a
// single config file drives both the core builder and the dev CLI.
type GraphDumpConfig struct {
	BuilderConfig `mapstructure:",squash"`

	SchemaFile string `mapstructure:"schema_file"`
	InputFile  string `mapstructure:"input_file"`
	Color      bool   `mapstructure:"color"`
}

// DefaultBuilderConfig returns the builder's defaults: strict nullable
// linking on, shard-awareness off.
func DefaultBuilderConfig() *BuilderConfig {
	return &BuilderConfig{StrictNullableLinking: true, ShardAware: false}
}

// Load reads a YAML config file at path into a GraphDumpConfig, starting
// from defaults and overlaying whatever the file sets — the way
// goarchive's config.Load layers a parsed YAML file over DefaultConfig().
func Load(path string) (*GraphDumpConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &GraphDumpConfig{BuilderConfig: *DefaultBuilderConfig()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
