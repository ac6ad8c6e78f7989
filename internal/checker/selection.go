package checker

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/typesystem"
)

// walker implements the operation checker's selection-set walker (§4.7):
// given a scope type and a selection set it resolves each selection,
// recursing with the unwrapped target type as the new scope.
// internal/shape does its own traversal and does not use it.
type walker struct {
	reg       *errors.Registry
	schema    *typesystem.Schema
	fragments map[string]*ast.FragmentDefinition
	vars      variableScope
}

// directFields returns the field set a scope type exposes to selections
// (§4.7: Object/Interface fields plus __typename; Union only __typename).
func directFields(schema *typesystem.Schema, scope typesystem.NamedType) map[string]*typesystem.Field {
	out := map[string]*typesystem.Field{"__typename": typesystem.TypenameField()}
	switch t := scope.(type) {
	case *typesystem.Object:
		for name, f := range t.Fields {
			out[name] = f
		}
	case *typesystem.Interface:
		for name, f := range t.Fields {
			out[name] = f
		}
	}
	return out
}

func (w *walker) walkSelectionSet(scope typesystem.NamedType, set ast.SelectionSet, visited map[string]bool, errs errors.Errors) errors.Errors {
	fields := directFields(w.schema, scope)
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			errs = w.walkField(scope, fields, s, visited, errs)
		case *ast.FragmentSpread:
			errs = w.walkFragmentSpread(scope, s, visited, errs)
		case *ast.InlineFragment:
			errs = w.walkInlineFragment(scope, s, visited, errs)
		}
	}
	return errs
}

func (w *walker) walkField(scope typesystem.NamedType, fields map[string]*typesystem.Field, sel *ast.Field, visited map[string]bool, errs errors.Errors) errors.Errors {
	def, ok := fields[sel.Name]
	if !ok {
		errs = errs.Add(errors.FieldNotFound, w.reg.Position(sel.Position),
			fmt.Sprintf("field %q not found on type %q", sel.Name, scope.TypeName()),
			errors.MakeNote(typePosition(scope), errors.NoteDefinitionPosition, fmt.Sprintf("%q defined here", scope.TypeName())))
		return errs
	}

	errs = checkDirectives(w.schema, DirectiveSite{Directives: convertDirectives(w.reg, sel.Directives), Location: string(ast.LocationField)}, w.vars, errs)
	errs = checkArguments(w.schema, convertArguments(w.reg, sel.Arguments), def.Arguments, w.reg.Position(sel.Position), w.vars, errs)

	fieldType := w.schema.Resolve(def.Type)
	if fieldType == nil {
		return errs
	}
	isComposite := typesystem.IsComposite(fieldType)
	hasSubSelection := len(sel.SelectionSet) > 0
	if isComposite && !hasSubSelection {
		return errs.Add(errors.MustSpecifySelectionSet, w.reg.Position(sel.Position),
			fmt.Sprintf("field %q of composite type must have a selection set", sel.Name))
	}
	if !isComposite && hasSubSelection {
		return errs.Add(errors.SelectionOnInvalidType, w.reg.Position(sel.Position),
			fmt.Sprintf("field %q is a leaf type and may not have a selection set", sel.Name))
	}
	if !hasSubSelection {
		return errs
	}

	next := typesystem.Unwrap(fieldType)
	if next == nil {
		return errs
	}
	return w.walkSelectionSet(next, sel.SelectionSet, visited, errs)
}

func (w *walker) walkFragmentSpread(scope typesystem.NamedType, sel *ast.FragmentSpread, visited map[string]bool, errs errors.Errors) errors.Errors {
	errs = checkDirectives(w.schema, DirectiveSite{Directives: convertDirectives(w.reg, sel.Directives), Location: string(ast.LocationFragmentSpread)}, w.vars, errs)

	if visited[sel.Name] {
		return errs.Add(errors.RecursingFragmentSpread, w.reg.Position(sel.Position),
			fmt.Sprintf("fragment %q spreads itself", sel.Name))
	}
	frag, ok := w.fragments[sel.Name]
	if !ok {
		return errs.Add(errors.UnknownFragment, w.reg.Position(sel.Position), fmt.Sprintf("unknown fragment %q", sel.Name))
	}
	cond, ok := w.schema.Lookup(frag.TypeCondition)
	if !ok {
		return errs.Add(errors.UnknownType, w.reg.Position(frag.Position), fmt.Sprintf("unknown type %q", frag.TypeCondition))
	}
	condNamed, ok := cond.(typesystem.NamedType)
	if !ok || !typesystem.IsComposite(cond) {
		return errs
	}
	if !FragmentCompatible(w.schema, scope, condNamed) {
		return errs.Add(errors.FragmentConditionNeverMatches, w.reg.Position(sel.Position),
			fmt.Sprintf("fragment %q's condition %q can never match scope %q", sel.Name, frag.TypeCondition, scope.TypeName()))
	}

	nextVisited := make(map[string]bool, len(visited)+1)
	for k := range visited {
		nextVisited[k] = true
	}
	nextVisited[sel.Name] = true
	return w.walkSelectionSet(condNamed, frag.SelectionSet, nextVisited, errs)
}

func (w *walker) walkInlineFragment(scope typesystem.NamedType, sel *ast.InlineFragment, visited map[string]bool, errs errors.Errors) errors.Errors {
	errs = checkDirectives(w.schema, DirectiveSite{Directives: convertDirectives(w.reg, sel.Directives), Location: string(ast.LocationInlineFragment)}, w.vars, errs)

	if sel.TypeCondition == "" {
		return w.walkSelectionSet(scope, sel.SelectionSet, visited, errs)
	}
	cond, ok := w.schema.Lookup(sel.TypeCondition)
	if !ok {
		return errs.Add(errors.UnknownType, w.reg.Position(sel.Position), fmt.Sprintf("unknown type %q", sel.TypeCondition))
	}
	condNamed, ok := cond.(typesystem.NamedType)
	if !ok || !typesystem.IsComposite(cond) {
		return errs
	}
	if !FragmentCompatible(w.schema, scope, condNamed) {
		return errs.Add(errors.FragmentConditionNeverMatches, w.reg.Position(sel.Position),
			fmt.Sprintf("inline fragment's condition %q can never match scope %q", sel.TypeCondition, scope.TypeName()))
	}
	return w.walkSelectionSet(condNamed, sel.SelectionSet, visited, errs)
}

// FragmentCompatible implements §4.7's fragment-compatibility predicate: a
// 3x3 table over {Object, Interface, Union} for (scope S, condition C).
func FragmentCompatible(schema *typesystem.Schema, s, c typesystem.NamedType) bool {
	switch sv := s.(type) {
	case *typesystem.Object:
		switch cv := c.(type) {
		case *typesystem.Object:
			return sv.Name == cv.Name
		case *typesystem.Interface:
			return objectImplements(sv, cv.Name)
		case *typesystem.Union:
			return unionHasMember(cv, sv.Name)
		}
	case *typesystem.Interface:
		switch cv := c.(type) {
		case *typesystem.Object:
			return objectImplements(cv, sv.Name)
		case *typesystem.Interface:
			return anyObjectImplementsBoth(schema, sv.Name, cv.Name)
		case *typesystem.Union:
			return anyUnionMemberImplements(schema, cv, sv.Name)
		}
	case *typesystem.Union:
		switch cv := c.(type) {
		case *typesystem.Object:
			return unionHasMember(sv, cv.Name)
		case *typesystem.Interface:
			return anyUnionMemberImplements(schema, sv, cv.Name)
		case *typesystem.Union:
			return unionsIntersect(sv, cv)
		}
	}
	return false
}

func anyObjectImplementsBoth(schema *typesystem.Schema, a, b string) bool {
	for _, name := range schema.TypeOrder {
		obj, ok := schema.Types[name].(*typesystem.Object)
		if !ok {
			continue
		}
		if objectImplements(obj, a) && objectImplements(obj, b) {
			return true
		}
	}
	return false
}

func anyUnionMemberImplements(schema *typesystem.Schema, u *typesystem.Union, ifaceName string) bool {
	for _, ref := range u.Members {
		t, ok := schema.Lookup(ref.Name)
		if !ok {
			continue
		}
		if obj, ok := t.(*typesystem.Object); ok && objectImplements(obj, ifaceName) {
			return true
		}
	}
	return false
}

func unionsIntersect(a, b *typesystem.Union) bool {
	names := make(map[string]bool, len(a.Members))
	for _, ref := range a.Members {
		names[ref.Name] = true
	}
	for _, ref := range b.Members {
		if names[ref.Name] {
			return true
		}
	}
	return false
}
