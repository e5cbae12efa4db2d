package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intField(name string) *Field { return &Field{Name: name, Type: KindInt} }
func strField(name string) *Field { return &Field{Name: name, Type: KindString} }

func TestBuilderOneToMany(t *testing.T) {
	t.Run("inlined on many side", func(t *testing.T) {
		t.Parallel()
		b := NewBuilder()
		b.AddModel("Author", []*Field{intField("id")}, nil)
		b.AddModel("Book", []*Field{intField("id")}, []*Field{strField("authorId")})
		b.AddRelation(RelationSpec{
			Name: "AuthorBooks",
			ModelA: "Author", FieldA: "books", RequiredA: false, UniqueA: false,
			ModelB: "Book", FieldB: "author", RequiredB: true, UniqueB: true,
			LinkingFieldsB: []string{"authorId"},
		})
		sch, err := b.Build()
		require.NoError(t, err)

		author, ok := sch.Model("Author")
		require.True(t, ok)
		books, ok := author.RelationField("books")
		require.True(t, ok)
		assert.True(t, books.Relation.IsOneToMany())
		assert.False(t, books.IsInlined())

		book, ok := sch.Model("Book")
		require.True(t, ok)
		authorField, ok := book.RelationField("author")
		require.True(t, ok)
		assert.True(t, authorField.IsInlined())
		require.Len(t, authorField.LinkingFields, 1)
		assert.Equal(t, "authorId", authorField.LinkingFields[0].Name)
		assert.True(t, authorField.LinkingFields[0].IsReadOnly())
		assert.Same(t, books, authorField.RelatedField())
	})
}

func TestBuilderOneToOneRequiresInlinedSide(t *testing.T) {
	b := NewBuilder()
	b.AddModel("Person", []*Field{intField("id")}, []*Field{strField("passportId")})
	b.AddModel("Passport", []*Field{intField("id")}, nil)
	b.AddRelation(RelationSpec{
		Name: "PersonPassport",
		ModelA: "Person", FieldA: "passport", RequiredA: false, UniqueA: true,
		ModelB: "Passport", FieldB: "owner", RequiredB: false, UniqueB: true,
		InlinedOn: SideA,
		LinkingFieldsA: []string{"passportId"},
	})
	sch, err := b.Build()
	require.NoError(t, err)

	person, _ := sch.Model("Person")
	passportField, _ := person.RelationField("passport")
	assert.True(t, passportField.Relation.IsOneToOne())
	assert.True(t, passportField.IsInlined())
}

func TestBuilderManyToMany(t *testing.T) {
	b := NewBuilder()
	b.AddModel("Post", []*Field{intField("id")}, nil)
	b.AddModel("Tag", []*Field{intField("id")}, []*Field{strField("name")})
	b.AddRelation(RelationSpec{
		Name: "PostTags",
		ModelA: "Post", FieldA: "tags", RequiredA: false, UniqueA: false,
		ModelB: "Tag", FieldB: "posts", RequiredB: false, UniqueB: false,
	})
	sch, err := b.Build()
	require.NoError(t, err)

	post, _ := sch.Model("Post")
	tags, _ := post.RelationField("tags")
	assert.True(t, tags.Relation.IsManyToMany())
	assert.Equal(t, "Post_Tag", tags.Relation.PivotTable)
	assert.False(t, tags.IsInlined())
}

func TestBuilderMissingModelFails(t *testing.T) {
	b := NewBuilder()
	b.AddModel("Post", []*Field{intField("id")}, nil)
	b.AddRelation(RelationSpec{Name: "Broken", ModelA: "Post", ModelB: "Ghost"})
	_, err := b.Build()
	assert.Error(t, err)
}
