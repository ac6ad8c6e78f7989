package extresolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/extresolver"
)

func TestResolveMergesExtensionIntoBase(t *testing.T) {
	reg := errors.NewRegistry()
	base := &ast.Definition{Name: "User", Kind: ast.Object, Fields: ast.FieldList{{Name: "id"}}}
	ext := &ast.Definition{Name: "User", Fields: ast.FieldList{{Name: "email"}}}

	doc := &ast.SchemaDocument{
		Definitions: []*ast.Definition{base},
		Extensions:  []*ast.Definition{ext},
	}

	merged, errs := extresolver.Resolve(reg, doc)
	require.Empty(t, errs)
	require.Len(t, merged.Definitions, 1)

	fieldNames := make([]string, len(merged.Definitions[0].Fields))
	for i, f := range merged.Definitions[0].Fields {
		fieldNames[i] = f.Name
	}
	assert.Equal(t, []string{"id", "email"}, fieldNames)
}

func TestResolveDuplicateDefinitionReportsAndKeepsFirst(t *testing.T) {
	reg := errors.NewRegistry()
	first := &ast.Definition{Name: "User", Kind: ast.Object, Fields: ast.FieldList{{Name: "id"}}}
	second := &ast.Definition{Name: "User", Kind: ast.Object, Fields: ast.FieldList{{Name: "name"}}}

	doc := &ast.SchemaDocument{Definitions: []*ast.Definition{first, second}}

	merged, errs := extresolver.Resolve(reg, doc)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.DuplicateDefinition, errs[0].Kind)
	require.Len(t, merged.Definitions, 1)
	assert.Equal(t, "id", merged.Definitions[0].Fields[0].Name)
}

func TestResolveExtensionWithoutBaseReportsError(t *testing.T) {
	reg := errors.NewRegistry()
	ext := &ast.Definition{Name: "Ghost", Fields: ast.FieldList{{Name: "id"}}}

	doc := &ast.SchemaDocument{Extensions: []*ast.Definition{ext}}

	merged, errs := extresolver.Resolve(reg, doc)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.ExtensionWithoutBase, errs[0].Kind)
	assert.Empty(t, merged.Definitions)
}

func TestResolveDoesNotMutateOriginalAST(t *testing.T) {
	reg := errors.NewRegistry()
	base := &ast.Definition{Name: "User", Kind: ast.Object, Fields: ast.FieldList{{Name: "id"}}}
	ext := &ast.Definition{Name: "User", Fields: ast.FieldList{{Name: "email"}}}
	doc := &ast.SchemaDocument{Definitions: []*ast.Definition{base}, Extensions: []*ast.Definition{ext}}

	_, errs := extresolver.Resolve(reg, doc)
	require.Empty(t, errs)

	assert.Len(t, base.Fields, 1, "original base definition must not be mutated by the merge")
}

func TestResolveMergesSchemaExtension(t *testing.T) {
	reg := errors.NewRegistry()
	doc := &ast.SchemaDocument{
		Schema: []*ast.SchemaDefinition{{
			OperationTypes: []*ast.OperationTypeDefinition{{Operation: ast.Query, Type: "Query"}},
		}},
		SchemaExtension: []*ast.SchemaDefinition{{
			OperationTypes: []*ast.OperationTypeDefinition{{Operation: ast.Mutation, Type: "Mutation"}},
		}},
	}

	merged, errs := extresolver.Resolve(reg, doc)
	require.Empty(t, errs)
	require.NotNil(t, merged.Schema)
	assert.Len(t, merged.Schema.OperationTypes, 2)
}
