// Command graphdump is a developer tool for inspecting the graph
// BuildNested produces against a toy YAML schema and nested-write fixture.
// It never executes the graph and is not the schema/migration CLI; that
// surface stays out of scope (see SPEC_FULL.md).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entquery/nestedwrite/builder"
	"github.com/entquery/nestedwrite/config"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
	"github.com/entquery/nestedwrite/telemetry"
)

var (
	cfgFile  string
	logLevel string
)

func main() {
	root := &cobra.Command{
		Use:   "graphdump",
		Short: "Build and inspect nested-write query graphs from fixture files",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a graphdump YAML config (schema_file, input_file, color)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "telemetry log level (debug, info, warn, error)")

	root.AddCommand(buildCmd(), dotCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the graph described by the configured fixtures and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, g, err := runFixture()
			if err != nil {
				return err
			}
			describeTable(os.Stdout, g, cfg.Color)
			return nil
		},
	}
}

func dotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot",
		Short: "Build the graph described by the configured fixtures and emit Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := runFixture()
			if err != nil {
				return err
			}
			writeDOT(os.Stdout, g)
			return nil
		},
	}
}

// runFixture loads config.Load's own GraphDumpConfig, then the schema and
// nested-write fixtures it names, builds a single parent node and runs
// BuildNested once against the named relation field.
func runFixture() (*config.GraphDumpConfig, *querygraph.Graph, error) {
	if cfgFile == "" {
		return nil, nil, fmt.Errorf("graphdump: --config is required")
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	sch, err := loadSchemaFixture(cfg.SchemaFile)
	if err != nil {
		return nil, nil, err
	}
	fx, err := loadInputFixture(cfg.InputFile)
	if err != nil {
		return nil, nil, err
	}
	parent, err := findParentModel(sch, fx.ParentModel)
	if err != nil {
		return nil, nil, err
	}
	rf, ok := parent.RelationField(fx.RelationField)
	if !ok {
		return nil, nil, fmt.Errorf("graphdump: %s has no relation field %q", parent.Name, fx.RelationField)
	}
	directive, err := toInputValue(fx.Directive)
	if err != nil {
		return nil, nil, err
	}

	g := querygraph.NewGraph()
	op := querygraph.OpUpdate
	if fx.ParentOperation == "create" {
		op = querygraph.OpCreate
	}

	log := telemetry.New(logLevel)
	defer log.Sync()

	parentRef := g.CreateQueryNode(op, parent, schema.NewSelection(parent.ShardAwarePrimaryIdentifier()...), nil, "parent-"+parent.Name)
	if err := builder.BuildNested(g, sch, parentRef, rf, directive, rf.RelatedModel,
		builder.WithLogger(log), builder.WithConfig(&cfg.BuilderConfig)); err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}
