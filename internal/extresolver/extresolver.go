// Package extresolver implements the extension resolver (C3, §4.1): it
// merges `extend` fragments into their base definitions before the AST is
// handed to the builder. gqlparser's own loader does this merge internally
// and throws the merged-away information on the floor; this package
// performs the merge explicitly so the core controls the merge rules and
// can diagnose DuplicateDefinition / ExtensionWithoutBase itself (§4.1).
package extresolver

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
)

// Document is the merged TypeSystemDocument (§4.1's output): one
// *ast.Definition per distinct type name, with all matching extensions
// folded in, plus a merged schema definition (if any) and the accumulated
// directive definitions.
type Document struct {
	Schema      *ast.SchemaDefinition // nil if no explicit schema block
	Definitions []*ast.Definition     // one merged Definition per type name
	Directives  []*ast.DirectiveDefinition
}

// Resolve merges extensions into bases. It never fails outright: duplicate
// bases and baseless extensions are reported as errors.Errors but merging
// continues for every other group, matching §9's "error accumulation" rule
// that one failure must not abort sibling work.
func Resolve(reg *errors.Registry, doc *ast.SchemaDocument) (*Document, errors.Errors) {
	var errs errors.Errors
	out := &Document{}

	out.Directives = append(out.Directives, doc.Directives...)

	bases := make(map[string]*ast.Definition)
	order := make([]string, 0, len(doc.Definitions))
	for _, def := range doc.Definitions {
		if existing, ok := bases[def.Name]; ok {
			errs = errs.Add(errors.DuplicateDefinition, reg.Position(def.Position),
				fmt.Sprintf("duplicate definition of type %q", def.Name),
				errors.MakeNote(reg.Position(existing.Position), errors.NoteDefinitionPosition, "first defined here"))
			continue
		}
		bases[def.Name] = cloneDefinition(def)
		order = append(order, def.Name)
	}

	for _, ext := range doc.Extensions {
		base, ok := bases[ext.Name]
		if !ok {
			errs = errs.Add(errors.ExtensionWithoutBase, reg.Position(ext.Position),
				fmt.Sprintf("type %q has no base definition to extend", ext.Name))
			continue
		}
		mergeInto(base, ext)
	}

	out.Definitions = make([]*ast.Definition, 0, len(order))
	for _, name := range order {
		out.Definitions = append(out.Definitions, bases[name])
	}

	if len(doc.Schema) > 1 {
		for _, s := range doc.Schema[1:] {
			errs = errs.Add(errors.DuplicateDefinition, reg.Position(s.Position),
				"duplicate schema definition",
				errors.MakeNote(reg.Position(doc.Schema[0].Position), errors.NoteDefinitionPosition, "first defined here"))
		}
	}
	if len(doc.Schema) > 0 {
		merged := cloneSchemaDefinition(doc.Schema[0])
		for _, ext := range doc.SchemaExtension {
			mergeSchemaInto(merged, ext)
		}
		out.Schema = merged
	} else if len(doc.SchemaExtension) > 0 {
		for _, ext := range doc.SchemaExtension {
			errs = errs.Add(errors.ExtensionWithoutBase, reg.Position(ext.Position),
				"schema extension has no base schema definition to extend")
		}
	}

	return out, errs
}

// mergeInto folds ext's field/value/member/interface lists, and its
// directive applications, into base, in source order after base's own
// entries (§4.1 "Merge rules"). base's description and position are left
// untouched: "Descriptions are taken from the base only" / "The position of
// the merged definition is the base's position."
func mergeInto(base, ext *ast.Definition) {
	base.Directives = append(base.Directives, ext.Directives...)
	base.Fields = append(base.Fields, ext.Fields...)
	base.Interfaces = append(base.Interfaces, ext.Interfaces...)
	base.Types = append(base.Types, ext.Types...)
	base.EnumValues = append(base.EnumValues, ext.EnumValues...)
}

func mergeSchemaInto(base, ext *ast.SchemaDefinition) {
	base.Directives = append(base.Directives, ext.Directives...)
	base.OperationTypes = append(base.OperationTypes, ext.OperationTypes...)
}

// cloneDefinition makes a shallow copy so that mergeInto's append calls
// never mutate the original parsed AST node shared by other readers (§3
// "Ownership model": the AST is borrowed immutably downstream).
func cloneDefinition(def *ast.Definition) *ast.Definition {
	clone := *def
	clone.Directives = append(ast.DirectiveList{}, def.Directives...)
	clone.Fields = append(ast.FieldList{}, def.Fields...)
	clone.Interfaces = append([]string{}, def.Interfaces...)
	clone.Types = append([]string{}, def.Types...)
	clone.EnumValues = append(ast.EnumValueList{}, def.EnumValues...)
	return &clone
}

func cloneSchemaDefinition(def *ast.SchemaDefinition) *ast.SchemaDefinition {
	clone := *def
	clone.Directives = append(ast.DirectiveList{}, def.Directives...)
	clone.OperationTypes = append([]*ast.OperationTypeDefinition{}, def.OperationTypes...)
	return &clone
}
