package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/schema"
)

// inputFixture names the parent the nested directive hangs off of: which
// model, which operation is already underway on it (create or update), and
// which of its relation fields the directive targets.
type inputFixture struct {
	ParentModel     string `yaml:"parent_model"`
	ParentOperation string `yaml:"parent_operation"`
	RelationField   string `yaml:"relation_field"`
	Directive       any    `yaml:"directive"`
}

func loadInputFixture(path string) (*inputFixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphdump: read input fixture: %w", err)
	}
	var fx inputFixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("graphdump: parse input fixture: %w", err)
	}
	return &fx, nil
}

// toInputValue converts a generically-decoded YAML value into the tagged
// input.Value tree BuildNested consumes — a plain developer convenience,
// not something the core package depends on (a real caller's parser
// produces this tree directly from wire JSON).
func toInputValue(v any) (input.Value, error) {
	switch t := v.(type) {
	case map[string]any:
		m := input.NewMap()
		for k, val := range t {
			iv, err := toInputValue(val)
			if err != nil {
				return nil, err
			}
			m.Set(k, iv)
		}
		return m, nil
	case []any:
		items := make([]input.Value, len(t))
		for i, val := range t {
			iv, err := toInputValue(val)
			if err != nil {
				return nil, err
			}
			items[i] = iv
		}
		return input.List{Items: items}, nil
	case nil:
		return input.Scalar{Kind: input.Null, Raw: nil}, nil
	case bool:
		return input.Scalar{Kind: input.Bool, Raw: t}, nil
	case int:
		return input.Scalar{Kind: input.Int, Raw: t}, nil
	case int64:
		return input.Scalar{Kind: input.Int, Raw: t}, nil
	case float64:
		return input.Scalar{Kind: input.Float, Raw: t}, nil
	case string:
		return input.Scalar{Kind: input.String, Raw: t}, nil
	default:
		return nil, fmt.Errorf("graphdump: unsupported fixture value %T", v)
	}
}

func findParentModel(sch *schema.Schema, name string) (*schema.Model, error) {
	m, ok := sch.Model(name)
	if !ok {
		return nil, fmt.Errorf("graphdump: unknown parent model %q", name)
	}
	return m, nil
}
