// Package builder implements the AST -> type-system builder (C4, §4.2): it
// converts a merged extresolver.Document into a *typesystem.Schema, resolving
// every named reference lazily and synthesizing RootTypes when no explicit
// schema block is present.
//
// It never fails on a dangling reference: the checker (internal/checker)
// diagnoses those later with a precise position, keeping "construct the
// model" and "validate the model" as separate passes.
package builder

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/astconv"
	"github.com/shyptr/nitrogql/internal/extresolver"
	"github.com/shyptr/nitrogql/typesystem"
)

// Build constructs the linked type-system model from a merged document. The
// returned Schema always has a non-nil Types/Directives map, even when doc is
// empty of user-declared types.
func Build(reg *errors.Registry, doc *extresolver.Document) *typesystem.Schema {
	schema := &typesystem.Schema{
		Types:      make(map[string]typesystem.NamedType),
		Directives: make(map[string]*typesystem.DirectiveDefinition),
	}

	scalars, directives := typesystem.Builtins()
	for name, s := range scalars {
		schema.Types[name] = s
		schema.TypeOrder = append(schema.TypeOrder, name)
	}
	for name, d := range directives {
		schema.Directives[name] = d
	}

	for _, def := range doc.Definitions {
		if _, exists := schema.Types[def.Name]; exists {
			// A user type shadowing a builtin scalar name. No stage
			// reports this; the builder keeps the user's definition so
			// later stages see one coherent model.
		}
		named := buildNamedType(reg, def)
		if named == nil {
			continue
		}
		if _, exists := schema.Types[def.Name]; !exists {
			schema.TypeOrder = append(schema.TypeOrder, def.Name)
		}
		schema.Types[def.Name] = named
	}

	for _, dd := range doc.Directives {
		schema.Directives[dd.Name] = &typesystem.DirectiveDefinition{
			Name:        dd.Name,
			Description: dd.Description,
			Position:    reg.Position(dd.Position),
			Arguments:   astconv.InputValues(reg, dd.Arguments),
			Locations:   directiveLocations(dd.Locations),
			Repeatable:  dd.IsRepeatable,
		}
	}

	schema.Roots = buildRoots(reg, doc, schema)

	return schema
}

func directiveLocations(locs []ast.DirectiveLocation) []string {
	out := make([]string, len(locs))
	for i, l := range locs {
		out[i] = string(l)
	}
	return out
}

func buildNamedType(reg *errors.Registry, def *ast.Definition) typesystem.NamedType {
	pos := reg.Position(def.Position)
	switch def.Kind {
	case ast.Scalar:
		return &typesystem.Scalar{Name: def.Name, Description: def.Description, Position: pos}
	case ast.Object:
		return &typesystem.Object{
			Name:        def.Name,
			Description: def.Description,
			Position:    pos,
			Fields:      buildFields(reg, def.Fields),
			FieldOrder:  fieldOrder(def.Fields),
			Implements:  namedRefs(reg, def.Interfaces, def.Position),
		}
	case ast.Interface:
		return &typesystem.Interface{
			Name:        def.Name,
			Description: def.Description,
			Position:    pos,
			Fields:      buildFields(reg, def.Fields),
			FieldOrder:  fieldOrder(def.Fields),
			Implements:  namedRefs(reg, def.Interfaces, def.Position),
		}
	case ast.Union:
		return &typesystem.Union{
			Name:        def.Name,
			Description: def.Description,
			Position:    pos,
			Members:     namedRefs(reg, def.Types, def.Position),
		}
	case ast.Enum:
		values := make(map[string]*typesystem.EnumValue, len(def.EnumValues))
		order := make([]string, 0, len(def.EnumValues))
		for _, ev := range def.EnumValues {
			values[ev.Name] = &typesystem.EnumValue{
				Name:        ev.Name,
				Description: ev.Description,
				Position:    reg.Position(ev.Position),
				Deprecation: astconv.Deprecation(ev.Directives),
			}
			order = append(order, ev.Name)
		}
		return &typesystem.Enum{Name: def.Name, Description: def.Description, Position: pos, Values: values, ValueOrder: order}
	case ast.InputObject:
		fields := make(map[string]*typesystem.InputValue, len(def.Fields))
		order := make([]string, 0, len(def.Fields))
		for _, f := range def.Fields {
			fields[f.Name] = &typesystem.InputValue{
				Name:        f.Name,
				Description: f.Description,
				Position:    reg.Position(f.Position),
				Type:        astconv.TypeRef(reg, f.Type),
				Default:     astconv.Value(reg, f.DefaultValue),
				Deprecation: astconv.Deprecation(f.Directives),
				Directives:  astconv.AppliedDirectives(reg, f.Directives),
			}
			order = append(order, f.Name)
		}
		return &typesystem.InputObject{Name: def.Name, Description: def.Description, Position: pos, Fields: fields, FieldOrder: order}
	default:
		return nil
	}
}

func buildFields(reg *errors.Registry, defs ast.FieldList) map[string]*typesystem.Field {
	out := make(map[string]*typesystem.Field, len(defs))
	for _, f := range defs {
		out[f.Name] = &typesystem.Field{
			Name:        f.Name,
			Description: f.Description,
			Position:    reg.Position(f.Position),
			Arguments:   astconv.InputValues(reg, f.Arguments),
			Type:        astconv.TypeRef(reg, f.Type),
			Deprecation: astconv.Deprecation(f.Directives),
		}
	}
	return out
}

func fieldOrder(defs ast.FieldList) []string {
	out := make([]string, len(defs))
	for i, f := range defs {
		out[i] = f.Name
	}
	return out
}

func namedRefs(reg *errors.Registry, names []string, pos *ast.Position) []typesystem.NamedRef {
	out := make([]typesystem.NamedRef, len(names))
	for i, n := range names {
		out[i] = typesystem.NamedRef{Name: n, Position: reg.Position(pos)}
	}
	return out
}

// buildRoots synthesizes RootTypes per §4.2: an explicit `schema { ... }`
// block wins outright; otherwise the conventional Query/Mutation/Subscription
// names are used if those types exist, with a Builtin position.
func buildRoots(reg *errors.Registry, doc *extresolver.Document, schema *typesystem.Schema) typesystem.RootTypes {
	if doc.Schema != nil {
		roots := typesystem.RootTypes{Position: reg.Position(doc.Schema.Position), Explicit: true}
		for _, ot := range doc.Schema.OperationTypes {
			switch ot.Operation {
			case ast.Query:
				roots.Query = ot.Type
			case ast.Mutation:
				roots.Mutation = ot.Type
			case ast.Subscription:
				roots.Subscription = ot.Type
			}
		}
		return roots
	}

	roots := typesystem.RootTypes{Position: errors.BuiltinPosition}
	if isObject(schema, "Query") {
		roots.Query = "Query"
	}
	if isObject(schema, "Mutation") {
		roots.Mutation = "Mutation"
	}
	if isObject(schema, "Subscription") {
		roots.Subscription = "Subscription"
	}
	return roots
}

func isObject(schema *typesystem.Schema, name string) bool {
	t, ok := schema.Types[name]
	if !ok {
		return false
	}
	_, ok = t.(*typesystem.Object)
	return ok
}
