package astconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/astconv"
	"github.com/shyptr/nitrogql/typesystem"
)

func TestTypeRefConvertsListAndNonNullWrapping(t *testing.T) {
	reg := errors.NewRegistry()
	t1 := ast.NonNullNamedType("String", nil)
	listType := ast.NonNullListType(t1, nil)

	ref := astconv.TypeRef(reg, listType)
	require.NotNil(t, ref.Elem)
	assert.True(t, ref.NonNull)
	assert.True(t, ref.Elem.NonNull)
	assert.Equal(t, "String", ref.Elem.Named)
}

func TestTypeRefNilInputIsZeroValue(t *testing.T) {
	reg := errors.NewRegistry()
	assert.Equal(t, typesystem.TypeRef{}, astconv.TypeRef(reg, nil))
}

func TestValueConvertsVariableReference(t *testing.T) {
	reg := errors.NewRegistry()
	v := &ast.Value{Kind: ast.Variable, Raw: "id"}
	converted := astconv.Value(reg, v)
	require.NotNil(t, converted)
	assert.Equal(t, typesystem.ValueVariable, converted.Kind)
	assert.Equal(t, "id", converted.VariableRef)
}

func TestValueConvertsListOfInts(t *testing.T) {
	reg := errors.NewRegistry()
	v := &ast.Value{
		Kind: ast.ListValue,
		Children: ast.ChildValueList{
			{Value: &ast.Value{Kind: ast.IntValue, Raw: "1"}},
			{Value: &ast.Value{Kind: ast.IntValue, Raw: "2"}},
		},
	}
	converted := astconv.Value(reg, v)
	require.Len(t, converted.List, 2)
	assert.Equal(t, "1", converted.List[0].Raw)
}

func TestDeprecationExtractsReasonArgument(t *testing.T) {
	directives := ast.DirectiveList{{
		Name: "deprecated",
		Arguments: ast.ArgumentList{{
			Name:  "reason",
			Value: &ast.Value{Kind: ast.StringValue, Raw: "use newField instead"},
		}},
	}}
	dep := astconv.Deprecation(directives)
	require.NotNil(t, dep)
	assert.Equal(t, "use newField instead", dep.Reason)
}

func TestDeprecationDefaultsReasonWhenOmitted(t *testing.T) {
	directives := ast.DirectiveList{{Name: "deprecated"}}
	dep := astconv.Deprecation(directives)
	require.NotNil(t, dep)
	assert.Equal(t, "No longer supported", dep.Reason)
}

func TestDeprecationNilWhenDirectiveAbsent(t *testing.T) {
	assert.Nil(t, astconv.Deprecation(ast.DirectiveList{}))
}

func TestAppliedDirectivesRetainsNameAndPosition(t *testing.T) {
	reg := errors.NewRegistry()
	directives := ast.DirectiveList{
		{Name: "d", Position: &ast.Position{Line: 2}},
	}
	applied := astconv.AppliedDirectives(reg, directives)
	require.Len(t, applied, 1)
	assert.Equal(t, "d", applied[0].Name)
}

func TestAppliedDirectivesNilWhenEmpty(t *testing.T) {
	assert.Nil(t, astconv.AppliedDirectives(errors.NewRegistry(), ast.DirectiveList{}))
}
