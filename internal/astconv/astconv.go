// Package astconv converts gqlparser/v2/ast nodes (the external AST, C1)
// into typesystem's linked TypeRef/Value shapes. Both the builder (C4) and
// the checkers (C6/C7) need the same translation, so it lives in one place
// instead of being duplicated at each call site.
package astconv

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/typesystem"
)

// TypeRef converts a gqlparser *ast.Type into a typesystem.TypeRef. A nil
// input returns the zero TypeRef.
func TypeRef(reg *errors.Registry, t *ast.Type) typesystem.TypeRef {
	if t == nil {
		return typesystem.TypeRef{}
	}
	ref := typesystem.TypeRef{
		NonNull:  t.NonNull,
		Position: reg.Position(t.Position),
	}
	if t.Elem != nil {
		elem := TypeRef(reg, t.Elem)
		ref.Elem = &elem
	} else {
		ref.Named = t.NamedType
	}
	return ref
}

// Value converts a gqlparser *ast.Value literal/variable into a
// typesystem.Value. Variables are preserved as ValueVariable so that
// check_value (§4.5) can resolve them against the active variable
// definitions at the point of use.
func Value(reg *errors.Registry, v *ast.Value) *typesystem.Value {
	if v == nil {
		return nil
	}
	pos := reg.Position(v.Position)
	switch v.Kind {
	case ast.Variable:
		return &typesystem.Value{Kind: typesystem.ValueVariable, VariableRef: v.Raw, Position: pos}
	case ast.IntValue:
		return &typesystem.Value{Kind: typesystem.ValueInt, Raw: v.Raw, Position: pos}
	case ast.FloatValue:
		return &typesystem.Value{Kind: typesystem.ValueFloat, Raw: v.Raw, Position: pos}
	case ast.StringValue, ast.BlockValue:
		return &typesystem.Value{Kind: typesystem.ValueString, Raw: v.Raw, Position: pos}
	case ast.BooleanValue:
		return &typesystem.Value{Kind: typesystem.ValueBoolean, Boolean: v.Raw == "true", Position: pos}
	case ast.NullValue:
		return &typesystem.Value{Kind: typesystem.ValueNull, Position: pos}
	case ast.EnumValue:
		return &typesystem.Value{Kind: typesystem.ValueEnum, Raw: v.Raw, Position: pos}
	case ast.ListValue:
		out := &typesystem.Value{Kind: typesystem.ValueList, Position: pos}
		for _, c := range v.Children {
			out.List = append(out.List, Value(reg, c.Value))
		}
		return out
	case ast.ObjectValue:
		out := &typesystem.Value{
			Kind:     typesystem.ValueObject,
			Object:   make(map[string]*typesystem.Value, len(v.Children)),
			Position: pos,
		}
		for _, c := range v.Children {
			out.Object[c.Name] = Value(reg, c.Value)
			out.ObjectOrder = append(out.ObjectOrder, c.Name)
		}
		return out
	default:
		return &typesystem.Value{Kind: typesystem.ValueNull, Position: pos}
	}
}

// InputValues converts an ast.ArgumentDefinitionList (field and directive
// arguments in gqlparser's AST; input-object fields are an ast.FieldList and
// are converted by internal/builder) into
// []*typesystem.InputValue, without resolving the referenced types — that
// happens lazily via typesystem.Schema.Resolve.
func InputValues(reg *errors.Registry, defs ast.ArgumentDefinitionList) []*typesystem.InputValue {
	out := make([]*typesystem.InputValue, 0, len(defs))
	for _, d := range defs {
		iv := &typesystem.InputValue{
			Name:        d.Name,
			Description: d.Description,
			Position:    reg.Position(d.Position),
			Type:        TypeRef(reg, d.Type),
			Default:     Value(reg, d.DefaultValue),
			Directives:  AppliedDirectives(reg, d.Directives),
		}
		if dep := Deprecation(d.Directives); dep != nil {
			iv.Deprecation = dep
		}
		out = append(out, iv)
	}
	return out
}

// AppliedDirectives converts an ast.DirectiveList into the linked
// AppliedDirective form, retaining every application verbatim (not just the
// effects, like Deprecation, that get extracted from specific directives
// elsewhere) so later passes can walk applications directly.
func AppliedDirectives(reg *errors.Registry, directives ast.DirectiveList) []typesystem.AppliedDirective {
	if len(directives) == 0 {
		return nil
	}
	out := make([]typesystem.AppliedDirective, len(directives))
	for i, d := range directives {
		out[i] = typesystem.AppliedDirective{Name: d.Name, Position: reg.Position(d.Position)}
	}
	return out
}

// Deprecation extracts a @deprecated(reason: ...) directive application, if
// present, per §3's Field/EnumValue/InputValue "deprecation?" field.
func Deprecation(directives ast.DirectiveList) *typesystem.Deprecation {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return &typesystem.Deprecation{Reason: reason}
}
