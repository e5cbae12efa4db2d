package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entquery/nestedwrite/input"
	"github.com/entquery/nestedwrite/querygraph"
	"github.com/entquery/nestedwrite/schema"
)

func intField(name string) *schema.Field { return &schema.Field{Name: name, Type: schema.KindInt} }
func strField(name string) *schema.Field { return &schema.Field{Name: name, Type: schema.KindString} }

// oneToManySchema builds Author (one) <-> Book (many, FK on Book), the
// fixture scenario S1-S3 in spec §8 are phrased against.
func oneToManySchema(t *testing.T) (*schema.Schema, *schema.Model, *schema.RelationField) {
	t.Helper()
	b := schema.NewBuilder()
	b.AddModel("Author", []*schema.Field{intField("id")}, nil)
	b.AddModel("Book", []*schema.Field{intField("id")}, []*schema.Field{strField("title"), intField("authorId")})
	b.AddRelation(schema.RelationSpec{
		Name: "AuthorBooks",
		ModelA: "Author", FieldA: "books", RequiredA: false, UniqueA: false,
		ModelB: "Book", FieldB: "author", RequiredB: true, UniqueB: true,
		LinkingFieldsB: []string{"authorId"},
	})
	sch, err := b.Build()
	require.NoError(t, err)
	author, ok := sch.Model("Author")
	require.True(t, ok)
	rf, ok := author.RelationField("books")
	require.True(t, ok)
	return sch, author, rf
}

// oneToOneSchema builds Person <-> Passport, FK inlined on Person.
func oneToOneSchema(t *testing.T) (*schema.Schema, *schema.Model, *schema.RelationField) {
	t.Helper()
	b := schema.NewBuilder()
	b.AddModel("Person", []*schema.Field{intField("id")}, []*schema.Field{intField("passportId")})
	b.AddModel("Passport", []*schema.Field{intField("id")}, []*schema.Field{strField("number")})
	b.AddRelation(schema.RelationSpec{
		Name: "PersonPassport",
		ModelA: "Person", FieldA: "passport", RequiredA: false, UniqueA: true,
		ModelB: "Passport", FieldB: "owner", RequiredB: false, UniqueB: true,
		InlinedOn:      schema.SideA,
		LinkingFieldsA: []string{"passportId"},
	})
	sch, err := b.Build()
	require.NoError(t, err)
	person, ok := sch.Model("Person")
	require.True(t, ok)
	rf, ok := person.RelationField("passport")
	require.True(t, ok)
	return sch, person, rf
}

// manyToManySchema builds Post <-> Tag.
func manyToManySchema(t *testing.T) (*schema.Schema, *schema.Model, *schema.RelationField) {
	t.Helper()
	b := schema.NewBuilder()
	b.AddModel("Post", []*schema.Field{intField("id")}, nil)
	b.AddModel("Tag", []*schema.Field{intField("id")}, []*schema.Field{strField("name")})
	b.AddRelation(schema.RelationSpec{
		Name: "PostTags",
		ModelA: "Post", FieldA: "tags", RequiredA: false, UniqueA: false,
		ModelB: "Tag", FieldB: "posts", RequiredB: false, UniqueB: false,
	})
	sch, err := b.Build()
	require.NoError(t, err)
	post, ok := sch.Model("Post")
	require.True(t, ok)
	rf, ok := post.RelationField("tags")
	require.True(t, ok)
	return sch, post, rf
}

func whereCreateDirective(whereKey, whereVal, createField, createVal string) *input.Map {
	where := input.NewMap()
	where.Set(whereKey, input.Scalar{Kind: input.String, Raw: whereVal})
	create := input.NewMap()
	create.Set(createField, input.Scalar{Kind: input.String, Raw: createVal})
	directive := input.NewMap()
	directive.Set(input.KeyWhere, where)
	directive.Set(input.KeyCreate, create)
	return directive
}

// Invariant 1 (spec §8): a successfully built graph is acyclic, modulo the
// documented Mark exemption.
func TestBuildNestedConnectOrCreateOneToManyIsAcyclic(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, author, schema.Selection{}, nil, "create-author")

	directive := input.NewMap()
	list := input.List{Items: []input.Value{whereCreateDirective("title", "Go", "title", "Go")}}
	directive.Set(input.KeyConnectOrCreate, list)

	child, _ := sch.Model("Book")
	err := BuildNested(g, sch, parent, rf, directive, child)
	require.NoError(t, err)
	assert.False(t, g.HasCycle())

	order, err := g.TopoWalk()
	require.NoError(t, err)
	assert.Len(t, order, g.Len())
}

// Scenario: oneToManyInlinedChild must carry a NonEmptyRows expectation on
// both edges from parent into the Then (update) and Else (create) child
// writes (spec §4.5).
func TestOneToManyInlinedChildExpectations(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpUpdate, author, schema.Selection{}, nil, "update-author")

	directive := input.NewMap()
	directive.Set(input.KeyConnectOrCreate, input.List{Items: []input.Value{
		whereCreateDirective("title", "Go", "title", "Go"),
	}})

	child, _ := sch.Model("Book")
	require.NoError(t, BuildNested(g, sch, parent, rf, directive, child))

	var sawNonEmpty int
	for _, e := range g.Out(parent) {
		if e.Kind == querygraph.ProjectedDataSink && e.Expectation != nil && e.Expectation.Kind == querygraph.NonEmptyRows {
			sawNonEmpty++
		}
	}
	assert.Equal(t, 2, sawNonEmpty, "both create and update write-back edges must assert NonEmptyRows")
}

// Scenario S5 (spec §8): a one-to-one connectOrCreate directive carrying
// more than one element is a structural InvalidInput.
func TestOneToOneArityViolation(t *testing.T) {
	sch, person, rf := oneToOneSchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, person, schema.Selection{}, nil, "create-person")

	directive := input.NewMap()
	directive.Set(input.KeyConnectOrCreate, input.List{Items: []input.Value{
		whereCreateDirective("number", "A1", "number", "A1"),
		whereCreateDirective("number", "B2", "number", "B2"),
	}})

	passport, _ := sch.Model("Passport")
	err := BuildNested(g, sch, parent, rf, directive, passport)
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, string(InvalidInput), be.Code())
}

// Scenario (spec §4.1): a directive key outside the closed set fails
// structurally, before any graph node is built.
func TestUnrecognizedDirectiveKeyFails(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, author, schema.Selection{}, nil, "create-author")

	directive := input.NewMap()
	directive.Set("frobnicate", input.NewMap())

	child, _ := sch.Model("Book")
	err := BuildNested(g, sch, parent, rf, directive, child)
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, string(UnknownField), be.Code())
}

// Many-to-many connectOrCreate wires the pivot table from both branches
// (spec §4.3): one pivot Create node per branch (two per value), each fed
// by both parent and child via ExactlyOneWriteArgs.
func TestManyToManyConnectOrCreateWiresPivot(t *testing.T) {
	sch, post, rf := manyToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, post, schema.Selection{}, nil, "create-post")

	directive := input.NewMap()
	directive.Set(input.KeyConnectOrCreate, input.List{Items: []input.Value{
		whereCreateDirective("name", "go", "name", "go"),
	}})

	tag, _ := sch.Model("Tag")
	require.NoError(t, BuildNested(g, sch, parent, rf, directive, tag))

	var pivotCreates int
	for _, n := range g.Nodes() {
		node := g.Node(n)
		if node.Kind == querygraph.QueryNode && node.Query.Operation == querygraph.OpCreate && node.Query.Model.Name == "Post_Tag" {
			pivotCreates++
		}
	}
	assert.Equal(t, 2, pivotCreates, "one pivot Create for the Then branch, one for the Else branch")
	assert.False(t, g.HasCycle())
}

// dispatchDisconnect refuses to build anything for a required relation
// (spec §4.9's ImpossibleConstraint class).
func TestDisconnectRequiredRelationFails(t *testing.T) {
	sch := mustRequiredOneToOne(t)
	g := querygraph.NewGraph()
	person, _ := sch.Model("Person")
	rf, _ := person.RelationField("passport")
	parent := g.CreateQueryNode(querygraph.OpUpdate, person, schema.Selection{}, nil, "update-person")

	directive := input.NewMap()
	directive.Set(input.KeyDisconnect, input.Scalar{Kind: input.Bool, Raw: true})

	passport, _ := sch.Model("Passport")
	err := BuildNested(g, sch, parent, rf, directive, passport)
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, string(ImpossibleConstraint), be.Code())
}

func mustRequiredOneToOne(t *testing.T) *schema.Schema {
	t.Helper()
	b := schema.NewBuilder()
	b.AddModel("Person", []*schema.Field{intField("id")}, []*schema.Field{intField("passportId")})
	b.AddModel("Passport", []*schema.Field{intField("id")}, nil)
	b.AddRelation(schema.RelationSpec{
		Name: "PersonPassport",
		ModelA: "Person", FieldA: "passport", RequiredA: true, UniqueA: true,
		ModelB: "Passport", FieldB: "owner", RequiredB: false, UniqueB: true,
		InlinedOn:      schema.SideA,
		LinkingFieldsA: []string{"passportId"},
	})
	sch, err := b.Build()
	require.NoError(t, err)
	return sch
}

// dispatchCreateMany builds exactly one CreateMany node fed directly from
// parent, with no per-row If (spec §8's "many" verbs bullet).
func TestCreateManyBuildsSingleNode(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, author, schema.Selection{}, nil, "create-author")

	rows := input.List{Items: []input.Value{
		mapOf("title", "Go"),
		mapOf("title", "Rust"),
	}}
	directive := input.NewMap()
	directive.Set(input.KeyCreateMany, rows)

	child, _ := sch.Model("Book")
	require.NoError(t, BuildNested(g, sch, parent, rf, directive, child))

	var createManyNodes int
	for _, n := range g.Nodes() {
		node := g.Node(n)
		if node.Kind == querygraph.QueryNode && node.Query.Operation == querygraph.OpCreateMany {
			createManyNodes++
		}
	}
	assert.Equal(t, 1, createManyNodes)
	assert.False(t, g.HasCycle())
}

func mapOf(field, val string) *input.Map {
	m := input.NewMap()
	m.Set(field, input.Scalar{Kind: input.String, Raw: val})
	return m
}

// Invariant 3 (spec §8): every ExactlyOneWriteArgs edge's linking fields
// must equal an actual inlined relation's FK columns, for both the
// one-to-many and many-to-many topologies.
func TestCheckLinkingFieldsInvariantHoldsAcrossTopologies(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, author, schema.Selection{}, nil, "create-author")

	directive := input.NewMap()
	directive.Set(input.KeyConnectOrCreate, input.List{Items: []input.Value{
		whereCreateDirective("title", "Go", "title", "Go"),
	}})

	child, _ := sch.Model("Book")
	require.NoError(t, BuildNested(g, sch, parent, rf, directive, child))
	assert.NoError(t, CheckLinkingFieldsInvariant(g, sch))

	sch2, post, rf2 := manyToManySchema(t)
	g2 := querygraph.NewGraph()
	parent2 := g2.CreateQueryNode(querygraph.OpCreate, post, schema.Selection{}, nil, "create-post")
	directive2 := input.NewMap()
	directive2.Set(input.KeyConnectOrCreate, input.List{Items: []input.Value{
		whereCreateDirective("name", "go", "name", "go"),
	}})
	tag, _ := sch2.Model("Tag")
	require.NoError(t, BuildNested(g2, sch2, parent2, rf2, directive2, tag))
	assert.NoError(t, CheckLinkingFieldsInvariant(g2, sch2))
}

// dispatchUpsert must reject an update payload that tries to set the
// target's own identifier field (spec §8: the builder owns identity
// columns, the same way IsReadOnly protects relation-owned columns).
func TestUpsertUpdatePayloadCannotSetID(t *testing.T) {
	sch, author, rf := oneToManySchema(t)
	g := querygraph.NewGraph()
	parent := g.CreateQueryNode(querygraph.OpCreate, author, schema.Selection{}, nil, "create-author")

	where := input.NewMap()
	where.Set("title", input.Scalar{Kind: input.String, Raw: "Go"})
	create := input.NewMap()
	create.Set("title", input.Scalar{Kind: input.String, Raw: "Go"})
	update := input.NewMap()
	update.Set("id", input.Scalar{Kind: input.Int, Raw: "7"})

	upsertList := input.NewMap()
	upsertList.Set(input.KeyWhere, where)
	upsertList.Set(input.KeyCreate, create)
	upsertList.Set(input.KeyUpdate, update)
	outer := input.NewMap()
	outer.Set(input.KeyUpsert, input.List{Items: []input.Value{upsertList}})

	child, _ := sch.Model("Book")
	err := BuildNested(g, sch, parent, rf, outer, child)
	require.Error(t, err)
	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, string(ImpossibleConstraint), be.Code())
}
