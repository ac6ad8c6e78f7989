package typesystem

import "github.com/shyptr/nitrogql/errors"

// builtinScalarNames lists the scalars synthesized by generate_builtins
// (§3 Lifecycle).
var builtinScalarNames = []string{"Int", "Float", "String", "Boolean", "ID"}

// Builtins returns the synthetic scalars and directives every schema is
// seeded with by internal/builder before the user's definitions are added:
// Int, Float, String, Boolean, ID, and @include/@skip/@deprecated.
// All of their positions are errors.BuiltinPosition so they compare equal
// across runs (§3 "Source position").
func Builtins() (scalars map[string]*Scalar, directives map[string]*DirectiveDefinition) {
	scalars = make(map[string]*Scalar, len(builtinScalarNames))
	for _, name := range builtinScalarNames {
		scalars[name] = &Scalar{Name: name, Position: errors.BuiltinPosition}
	}

	boolArg := func(name string) *InputValue {
		return &InputValue{
			Name:     name,
			Position: errors.BuiltinPosition,
			Type: TypeRef{
				Named:    "Boolean",
				NonNull:  true,
				Position: errors.BuiltinPosition,
			},
		}
	}

	directives = map[string]*DirectiveDefinition{
		"include": {
			Name:      "include",
			Position:  errors.BuiltinPosition,
			Arguments: []*InputValue{boolArg("if")},
			Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		},
		"skip": {
			Name:      "skip",
			Position:  errors.BuiltinPosition,
			Arguments: []*InputValue{boolArg("if")},
			Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
		},
		"deprecated": {
			Name:     "deprecated",
			Position: errors.BuiltinPosition,
			Arguments: []*InputValue{{
				Name:     "reason",
				Position: errors.BuiltinPosition,
				Type:     TypeRef{Named: "String", Position: errors.BuiltinPosition},
				Default:  &Value{Kind: ValueString, Raw: "No longer supported", Position: errors.BuiltinPosition},
			}},
			Locations: []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
		},
	}
	return scalars, directives
}

// TypenameField is the synthetic __typename meta-field every Object,
// Interface, and Union selection may reference (§4.7 "Direct fields").
func TypenameField() *Field {
	return &Field{
		Name:     "__typename",
		Position: errors.BuiltinPosition,
		Type: TypeRef{
			Named:    "String",
			NonNull:  true,
			Position: errors.BuiltinPosition,
		},
	}
}

// IsBuiltinScalar reports whether name is one of the five synthesized
// scalars.
func IsBuiltinScalar(name string) bool {
	for _, n := range builtinScalarNames {
		if n == name {
			return true
		}
	}
	return false
}
