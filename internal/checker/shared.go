// Package checker implements the schema checker (C6, §4.5) and the
// operation checker (C7, §4.6-4.7), sharing the directive/argument/value
// validation sub-procedures between both so schema-level and
// operation-level nodes validate against one value-coercion routine.
package checker

import (
	"fmt"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/typesystem"
)

// VariableScope looks up a declared variable's type by name, for check_value
// (§4.5) when validating a value that may reference an operation variable.
// A nil VariableScope means "no variables are in scope" (schema-level
// checks never have variables).
type VariableScope interface {
	Lookup(name string) (typesystem.TypeRef, bool)
}

// DirectiveSite is what check_directives (§4.5) validates a list of
// directive applications against.
type DirectiveSite struct {
	Directives []AppliedDirective
	Location   string
}

// AppliedDirective is a directive application abstracted away from
// gqlparser's ast.Directive so checker can be exercised with synthetic
// fixtures in tests without constructing a full AST.
type AppliedDirective struct {
	Name      string
	Arguments []AppliedArgument
	Position  errors.Position
}

// AppliedArgument is one `name: value` pair of an applied directive, field
// selection, or input object literal.
type AppliedArgument struct {
	Name     string
	Value    *typesystem.Value
	Position errors.Position
}

// checkDirectives implements check_directives(D, location_tag, variables?)
// from §4.5: unknown lookup, location mismatch, non-repeatable repetition,
// argument validation.
func checkDirectives(schema *typesystem.Schema, site DirectiveSite, vars VariableScope, errs errors.Errors) errors.Errors {
	seen := make(map[string]int)
	for _, app := range site.Directives {
		def, ok := schema.Directives[app.Name]
		if !ok {
			errs = errs.Add(errors.UnknownDirective, app.Position,
				fmt.Sprintf("unknown directive %q", app.Name))
			continue
		}
		if !containsString(def.Locations, site.Location) {
			errs = errs.Add(errors.DirectiveLocationNotAllowed, app.Position,
				fmt.Sprintf("directive %q is not allowed on %s", app.Name, site.Location))
		}
		seen[app.Name]++
		if seen[app.Name] > 1 && !def.Repeatable {
			errs = errs.Add(errors.RepeatedDirective, app.Position,
				fmt.Sprintf("directive %q is not repeatable", app.Name))
		}
		errs = checkArguments(schema, app.Arguments, def.Arguments, app.Position, vars, errs)
	}
	return errs
}

// checkArguments implements check_arguments(args?, defs, variables?) from
// §4.5.
func checkArguments(schema *typesystem.Schema, args []AppliedArgument, defs []*typesystem.InputValue, sitePos errors.Position, vars VariableScope, errs errors.Errors) errors.Errors {
	if len(args) == 0 && len(defs) == 0 {
		return errs
	}
	if len(args) > 0 && len(defs) == 0 {
		return errs.Add(errors.ArgumentsNotNeeded, sitePos, "no arguments are defined at this site")
	}

	byName := make(map[string]AppliedArgument, len(args))
	for _, a := range args {
		byName[a.Name] = a
	}

	for _, def := range defs {
		provided, ok := byName[def.Name]
		if !ok {
			if def.Type.NonNull && def.Default == nil {
				errs = errs.Add(errors.RequiredArgumentNotSpecified, sitePos,
					fmt.Sprintf("required argument %q not specified", def.Name))
			}
			continue
		}
		errs = checkValue(schema, provided.Value, def.Type, vars, errs)
	}

	for _, a := range args {
		if !hasInputValue(defs, a.Name) {
			errs = errs.Add(errors.UnknownArgument, a.Position, fmt.Sprintf("unknown argument %q", a.Name))
		}
	}
	return errs
}

func hasInputValue(defs []*typesystem.InputValue, name string) bool {
	for _, d := range defs {
		if d.Name == name {
			return true
		}
	}
	return false
}

// checkValue implements check_value(value, expected_type, variables?) from
// §4.5.
func checkValue(schema *typesystem.Schema, v *typesystem.Value, expected typesystem.TypeRef, vars VariableScope, errs errors.Errors) errors.Errors {
	if v == nil {
		return errs
	}

	if v.Kind == typesystem.ValueVariable {
		if vars == nil {
			errs = errs.Add(errors.UnknownVariable, v.Position, fmt.Sprintf("unknown variable %q", v.VariableRef))
			return errs
		}
		declared, ok := vars.Lookup(v.VariableRef)
		if !ok {
			return errs.Add(errors.UnknownVariable, v.Position, fmt.Sprintf("unknown variable %q", v.VariableRef))
		}
		declaredType := schema.Resolve(declared)
		expectedType := schema.Resolve(expected)
		if declaredType == nil || expectedType == nil {
			return errs
		}
		if !typesystem.AreTypesCompatible(declaredType, expectedType) {
			errs = errs.Add(errors.TypeMismatch, v.Position,
				fmt.Sprintf("variable %q of type %s is not assignable to %s", v.VariableRef, declared, expected))
		}
		return errs
	}

	if v.Kind == typesystem.ValueNull {
		if expected.NonNull {
			return errs.Add(errors.TypeMismatch, v.Position, fmt.Sprintf("null is not assignable to %s", expected))
		}
		return errs
	}

	if expected.Elem != nil {
		if v.Kind != typesystem.ValueList {
			// A non-list literal against a list type is a coercion
			// GraphQL permits (single value -> one-element list), so the
			// value is checked against the element type.
			return checkValue(schema, v, *expected.Elem, vars, errs)
		}
		for _, elem := range v.List {
			errs = checkValue(schema, elem, *expected.Elem, vars, errs)
		}
		return errs
	}

	named, ok := schema.Lookup(expected.Named)
	if !ok {
		// Dangling type reference; the schema checker already reports this
		// independently. Suppress a cascade here.
		return errs
	}

	switch t := named.(type) {
	case *typesystem.Scalar:
		return checkScalarValue(t, v, errs)
	case *typesystem.Enum:
		if v.Kind != typesystem.ValueEnum || !hasEnumValue(t, v.Raw) {
			return errs.Add(errors.UnknownEnumMember, v.Position, fmt.Sprintf("%q is not a member of enum %s", v.Raw, t.Name))
		}
		return errs
	case *typesystem.InputObject:
		return checkInputObjectValue(schema, t, v, vars, errs)
	default:
		// Object/Interface/Union are not input types (§4.5).
		return errs.Add(errors.TypeMismatch, v.Position, fmt.Sprintf("%s is not an input type", expected.Named))
	}
}

func checkScalarValue(t *typesystem.Scalar, v *typesystem.Value, errs errors.Errors) errors.Errors {
	if typesystem.IsBuiltinScalar(t.Name) {
		switch t.Name {
		case "Boolean":
			if v.Kind != typesystem.ValueBoolean {
				return errs.Add(errors.ArgumentTypeMismatch, v.Position, "expected a boolean value")
			}
		case "Int":
			if v.Kind != typesystem.ValueInt {
				return errs.Add(errors.ArgumentTypeMismatch, v.Position, "expected an integer value")
			}
		case "Float":
			if v.Kind != typesystem.ValueInt && v.Kind != typesystem.ValueFloat {
				return errs.Add(errors.ArgumentTypeMismatch, v.Position, "expected a float value")
			}
		case "String", "ID":
			if v.Kind != typesystem.ValueString && !(t.Name == "ID" && v.Kind == typesystem.ValueInt) {
				return errs.Add(errors.ArgumentTypeMismatch, v.Position, fmt.Sprintf("expected a %s value", t.Name))
			}
		}
		return errs
	}
	// Custom scalars accept any value. No warning is emitted for them, here
	// or elsewhere (see DESIGN.md).
	return errs
}

func checkInputObjectValue(schema *typesystem.Schema, t *typesystem.InputObject, v *typesystem.Value, vars VariableScope, errs errors.Errors) errors.Errors {
	if v.Kind != typesystem.ValueObject {
		return errs.Add(errors.ArgumentTypeMismatch, v.Position, fmt.Sprintf("expected an object literal for %s", t.Name))
	}
	for _, name := range t.FieldOrder {
		field := t.Fields[name]
		provided, ok := v.Object[name]
		if !ok {
			if field.Type.NonNull && field.Default == nil {
				errs = errs.Add(errors.RequiredFieldNotSpecified, v.Position,
					fmt.Sprintf("required field %q of %s not specified", name, t.Name))
			}
			continue
		}
		errs = checkValue(schema, provided, field.Type, vars, errs)
	}
	for _, name := range v.ObjectOrder {
		if _, ok := t.Fields[name]; !ok {
			errs = errs.Add(errors.UnknownArgument, v.Position, fmt.Sprintf("unknown field %q on %s", name, t.Name))
		}
	}
	return errs
}

func hasEnumValue(e *typesystem.Enum, name string) bool {
	_, ok := e.Values[name]
	return ok
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
