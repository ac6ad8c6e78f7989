package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/builder"
	"github.com/shyptr/nitrogql/internal/extresolver"
	"github.com/shyptr/nitrogql/typesystem"
)

func TestBuildSeedsBuiltinScalarsAndDirectives(t *testing.T) {
	reg := errors.NewRegistry()
	schema := builder.Build(reg, &extresolver.Document{})

	for _, name := range []string{"Int", "Float", "String", "Boolean", "ID"} {
		_, ok := schema.Lookup(name)
		assert.True(t, ok, "expected builtin scalar %s", name)
	}
	for _, name := range []string{"include", "skip", "deprecated"} {
		assert.Contains(t, schema.Directives, name)
	}
}

func TestBuildConstructsObjectWithFields(t *testing.T) {
	reg := errors.NewRegistry()
	doc := &extresolver.Document{
		Definitions: []*ast.Definition{{
			Name: "User",
			Kind: ast.Object,
			Fields: ast.FieldList{
				{Name: "id", Type: ast.NonNullNamedType("ID", nil)},
				{Name: "name", Type: ast.NamedType("String", nil)},
			},
		}},
	}

	schema := builder.Build(reg, doc)
	named, ok := schema.Lookup("User")
	require.True(t, ok)
	obj, ok := named.(*typesystem.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "name"}, obj.FieldOrder)
	assert.True(t, obj.Fields["id"].Type.NonNull)
	assert.False(t, obj.Fields["name"].Type.NonNull)
}

func TestBuildRootsFromExplicitSchemaBlock(t *testing.T) {
	reg := errors.NewRegistry()
	doc := &extresolver.Document{
		Schema: &ast.SchemaDefinition{
			OperationTypes: []*ast.OperationTypeDefinition{
				{Operation: ast.Query, Type: "RootQuery"},
				{Operation: ast.Mutation, Type: "RootMutation"},
			},
		},
	}

	schema := builder.Build(reg, doc)
	assert.True(t, schema.Roots.Explicit)
	assert.Equal(t, "RootQuery", schema.Roots.Query)
	assert.Equal(t, "RootMutation", schema.Roots.Mutation)
	assert.Empty(t, schema.Roots.Subscription)
}

func TestBuildRootsFallBackToConventionalNames(t *testing.T) {
	reg := errors.NewRegistry()
	doc := &extresolver.Document{
		Definitions: []*ast.Definition{
			{Name: "Query", Kind: ast.Object},
			{Name: "Mutation", Kind: ast.Object},
		},
	}

	schema := builder.Build(reg, doc)
	assert.False(t, schema.Roots.Explicit)
	assert.Equal(t, "Query", schema.Roots.Query)
	assert.Equal(t, "Mutation", schema.Roots.Mutation)
}

func TestBuildNeverFailsOnDanglingInterfaceReference(t *testing.T) {
	reg := errors.NewRegistry()
	doc := &extresolver.Document{
		Definitions: []*ast.Definition{{
			Name:       "User",
			Kind:       ast.Object,
			Interfaces: []string{"Node"}, // Node is never defined
		}},
	}

	schema := builder.Build(reg, doc)
	named, ok := schema.Lookup("User")
	require.True(t, ok)
	obj := named.(*typesystem.Object)
	require.Len(t, obj.Implements, 1)
	assert.Equal(t, "Node", obj.Implements[0].Name)

	_, ok = schema.Lookup("Node")
	assert.False(t, ok, "dangling reference must not synthesize a placeholder type")
}
