package builder

import (
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

// CheckLinkingFieldsInvariant walks every node of g and asserts spec §8
// invariant 3: every ExactlyOneWriteArgs edge binds write args under a
// column set that is, somewhere in sch, the actual set of linking fields of
// an inlined relation field — never an arbitrary or synthesized set of
// columns. Nodes whose model carries no relation fields at all (a
// synthesized many-to-many pivot table, chiefly) are exempt, since a pivot
// write's columns are never meant to equal any model's own FK set.
//
// Every topology subroutine builds its ExactlyOneWriteArgs sinks straight
// from a *schema.RelationField's own LinkingFields, so this always holds by
// construction; it exists as a build-time self-check a caller can run after
// BuildNested returns, the way entc/gen's graph validation re-walks a
// generated graph rather than trusting each step in isolation.
func CheckLinkingFieldsInvariant(g *querygraph.Graph, sch *schema.Schema) error {
	for _, ref := range g.Nodes() {
		n := g.Node(ref)
		if n.Kind != querygraph.QueryNode || len(n.Query.Model.RelationFields) == 0 {
			continue
		}
		for _, e := range g.In(ref) {
			if e.Kind != querygraph.ProjectedDataSink || e.Sink.Kind != querygraph.SinkExactlyOneWriteArgs {
				continue
			}
			got := schema.NewSelection(e.Sink.LinkingFields...)
			if !anyInlinedRelationMatches(sch, got) {
				return invalidInput("write-args bound on %s don't match any relation's linking fields", n.Query.Model.Name)
			}
		}
	}
	return nil
}

func anyInlinedRelationMatches(sch *schema.Schema, got schema.Selection) bool {
	for _, m := range sch.Models {
		for _, rf := range m.RelationFields {
			if rf.IsInlined() && got.Equal(schema.NewSelection(rf.LinkingFields...)) {
				return true
			}
		}
	}
	return false
}
