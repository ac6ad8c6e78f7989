package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/checker"
	"github.com/shyptr/nitrogql/typesystem"
)

func baseSchema() *typesystem.Schema {
	scalars, directives := typesystem.Builtins()
	s := &typesystem.Schema{
		Types:      map[string]typesystem.NamedType{},
		Directives: directives,
	}
	for name, sc := range scalars {
		s.Types[name] = sc
		s.TypeOrder = append(s.TypeOrder, name)
	}
	return s
}

func TestCheckSchemaRejectsReservedName(t *testing.T) {
	s := baseSchema()
	s.Types["__Bad"] = &typesystem.Object{Name: "__Bad", Position: errors.Position{Line: 1}}
	s.TypeOrder = append(s.TypeOrder, "__Bad")

	errs := checker.CheckSchema(s)
	require.NotEmpty(t, errs)
	assert.Equal(t, errors.UnderscoreUnderscoreReserved, errs[0].Kind)
}

func TestCheckSchemaDetectsNonObjectUnionMember(t *testing.T) {
	s := baseSchema()
	s.Types["Scalarish"] = &typesystem.Scalar{Name: "Scalarish"}
	s.TypeOrder = append(s.TypeOrder, "Scalarish")
	s.Types["Result"] = &typesystem.Union{
		Name:    "Result",
		Members: []typesystem.NamedRef{{Name: "Scalarish", Position: errors.Position{Line: 2}}},
	}
	s.TypeOrder = append(s.TypeOrder, "Result")

	errs := checker.CheckSchema(s)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.NonObjectUnionMember, errs[0].Kind)
}

func TestCheckSchemaDetectsDuplicateEnumValue(t *testing.T) {
	s := baseSchema()
	s.Types["Color"] = &typesystem.Enum{
		Name: "Color",
		Values: map[string]*typesystem.EnumValue{
			"RED": {Name: "RED", Position: errors.Position{Line: 1}},
		},
		ValueOrder: []string{"RED", "RED"},
	}
	s.TypeOrder = append(s.TypeOrder, "Color")

	errs := checker.CheckSchema(s)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.DuplicatedName, errs[0].Kind)
}

func TestCheckSchemaInterfaceCannotImplementItself(t *testing.T) {
	s := baseSchema()
	s.Types["Node"] = &typesystem.Interface{
		Name:       "Node",
		Implements: []typesystem.NamedRef{{Name: "Node", Position: errors.Position{Line: 3}}},
	}
	s.TypeOrder = append(s.TypeOrder, "Node")

	errs := checker.CheckSchema(s)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == errors.InterfaceImplementsItself {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCheckSchemaRequiresInterfaceFieldImplementation(t *testing.T) {
	s := baseSchema()
	s.Types["Node"] = &typesystem.Interface{
		Name: "Node",
		Fields: map[string]*typesystem.Field{
			"id": {Name: "id", Type: typesystem.TypeRef{Named: "ID", NonNull: true}},
		},
		FieldOrder: []string{"id"},
	}
	s.TypeOrder = append(s.TypeOrder, "Node")
	s.Types["User"] = &typesystem.Object{
		Name:       "User",
		Fields:     map[string]*typesystem.Field{},
		Implements: []typesystem.NamedRef{{Name: "Node", Position: errors.Position{Line: 5}}},
	}
	s.TypeOrder = append(s.TypeOrder, "User")

	errs := checker.CheckSchema(s)
	require.NotEmpty(t, errs)
	assert.Equal(t, errors.InterfaceFieldNotImplemented, errs[0].Kind)
}

func TestCheckSchemaDetectsDirectiveRecursionThroughFieldApplication(t *testing.T) {
	// directive @d(x: T!) on INPUT_FIELD_DEFINITION
	// input T { y: Int! @d(x: {y: 0}) }
	s := baseSchema()
	s.Directives["d"] = &typesystem.DirectiveDefinition{
		Name:     "d",
		Position: errors.Position{Line: 1},
		Arguments: []*typesystem.InputValue{
			{Name: "x", Type: typesystem.TypeRef{Named: "T", NonNull: true}},
		},
		Locations: []string{"INPUT_FIELD_DEFINITION"},
	}
	s.Types["T"] = &typesystem.InputObject{
		Name: "T",
		Fields: map[string]*typesystem.InputValue{
			"y": {
				Name:       "y",
				Type:       typesystem.TypeRef{Named: "Int", NonNull: true},
				Directives: []typesystem.AppliedDirective{{Name: "d", Position: errors.Position{Line: 2}}},
			},
		},
		FieldOrder: []string{"y"},
	}
	s.TypeOrder = append(s.TypeOrder, "T")

	errs := checker.CheckSchema(s)
	require.NotEmpty(t, errs)
	found := false
	for _, e := range errs {
		if e.Kind == errors.RecursingDirective {
			found = true
		}
	}
	assert.True(t, found, "expected RecursingDirective for @d reaching itself through T.y")
}

func TestCheckSchemaAcceptsCovariantInterfaceImplementation(t *testing.T) {
	s := baseSchema()
	s.Types["Node"] = &typesystem.Interface{
		Name: "Node",
		Fields: map[string]*typesystem.Field{
			"id": {Name: "id", Type: typesystem.TypeRef{Named: "ID", NonNull: true}},
		},
		FieldOrder: []string{"id"},
	}
	s.TypeOrder = append(s.TypeOrder, "Node")
	s.Types["User"] = &typesystem.Object{
		Name: "User",
		Fields: map[string]*typesystem.Field{
			"id": {Name: "id", Type: typesystem.TypeRef{Named: "ID", NonNull: true}},
		},
		FieldOrder: []string{"id"},
		Implements: []typesystem.NamedRef{{Name: "Node", Position: errors.Position{Line: 5}}},
	}
	s.TypeOrder = append(s.TypeOrder, "User")

	errs := checker.CheckSchema(s)
	assert.Empty(t, errs)
}
