package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/entquery/nestedwrite/schema"
)

// schemaFixture is the on-disk YAML shape for a toy schema fed to `build`
// and `dot`. It is a developer convenience only — not a schema DSL the
// core package knows anything about; loading it just drives
// schema.Builder the way a real caller's PSL-derived loader would.
type schemaFixture struct {
	Models    []modelFixture    `yaml:"models"`
	Relations []relationFixture `yaml:"relations"`
}

type fieldFixture struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type modelFixture struct {
	Name      string         `yaml:"name"`
	ID        []fieldFixture `yaml:"id"`
	Fields    []fieldFixture `yaml:"fields"`
	ShardKeys []fieldFixture `yaml:"shard_keys"`
}

type relationSideFixture struct {
	Model    string   `yaml:"model"`
	Field    string   `yaml:"field"`
	Required bool     `yaml:"required"`
	Unique   bool     `yaml:"unique"`
	Linking  []string `yaml:"linking"`
}

type relationFixture struct {
	Name         string              `yaml:"name"`
	A            relationSideFixture `yaml:"a"`
	B            relationSideFixture `yaml:"b"`
	InlinedOn    string              `yaml:"inlined_on"` // "a" or "b"; one-to-one only
	PivotTable   string              `yaml:"pivot_table"`
	PivotColumns []string            `yaml:"pivot_columns"`
}

func loadSchemaFixture(path string) (*schema.Schema, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphdump: read schema fixture: %w", err)
	}
	var fx schemaFixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("graphdump: parse schema fixture: %w", err)
	}
	return buildSchema(fx)
}

func buildSchema(fx schemaFixture) (*schema.Schema, error) {
	b := schema.NewBuilder()
	for _, m := range fx.Models {
		id := toFields(m.ID)
		fields := toFields(m.Fields)
		b.AddModel(m.Name, id, fields)
		if len(m.ShardKeys) > 0 {
			b.EnableSharding(m.Name, toFields(m.ShardKeys)...)
		}
	}
	for _, r := range fx.Relations {
		spec := schema.RelationSpec{
			Name:           r.Name,
			ModelA:         r.A.Model,
			FieldA:         r.A.Field,
			RequiredA:      r.A.Required,
			UniqueA:        r.A.Unique,
			LinkingFieldsA: r.A.Linking,
			ModelB:         r.B.Model,
			FieldB:         r.B.Field,
			RequiredB:      r.B.Required,
			UniqueB:        r.B.Unique,
			LinkingFieldsB: r.B.Linking,
			PivotTable:     r.PivotTable,
			PivotColumns:   r.PivotColumns,
		}
		if r.InlinedOn == "b" {
			spec.InlinedOn = schema.SideB
		}
		b.AddRelation(spec)
	}
	return b.Build()
}

func toFields(in []fieldFixture) []*schema.Field {
	out := make([]*schema.Field, len(in))
	for i, f := range in {
		out[i] = &schema.Field{Name: f.Name, Type: parseScalarKind(f.Type)}
	}
	return out
}

func parseScalarKind(t string) schema.ScalarKind {
	switch t {
	case "int":
		return schema.KindInt
	case "bigint":
		return schema.KindBigInt
	case "float":
		return schema.KindFloat
	case "decimal":
		return schema.KindDecimal
	case "bool":
		return schema.KindBool
	case "bytes":
		return schema.KindBytes
	case "datetime":
		return schema.KindDateTime
	case "enum":
		return schema.KindEnum
	case "uuid":
		return schema.KindUUID
	case "json":
		return schema.KindJSON
	default:
		return schema.KindString
	}
}
