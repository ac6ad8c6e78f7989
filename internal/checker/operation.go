package checker

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/astconv"
	"github.com/shyptr/nitrogql/typesystem"
)

// variableScope adapts a flat name->TypeRef map, built once per operation
// from its VariableDefinitions, to the VariableScope interface that
// shared.go uses.
type variableScope map[string]typesystem.TypeRef

func (v variableScope) Lookup(name string) (typesystem.TypeRef, bool) {
	t, ok := v[name]
	return t, ok
}

// CheckOperations implements the operation checker (C7, §4.6-4.7) over a
// flattened operation document (post internal/importresolver). It returns
// the accumulated diagnostics; callers that also need the derived shapes
// run internal/shape separately against the same inputs.
func CheckOperations(reg *errors.Registry, schema *typesystem.Schema, doc *ast.QueryDocument) errors.Errors {
	var errs errors.Errors

	errs = checkUniqueOperationNames(reg, doc.Operations, errs)
	errs = checkUniqueFragmentNames(reg, doc.Fragments, errs)

	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, f := range doc.Fragments {
		fragments[f.Name] = f
	}

	for _, frag := range doc.Fragments {
		cond, ok := schema.Lookup(frag.TypeCondition)
		if !ok {
			errs = errs.Add(errors.UnknownType, reg.Position(frag.Position),
				fmt.Sprintf("fragment %q targets unknown type %q", frag.Name, frag.TypeCondition))
			continue
		}
		if !typesystem.IsComposite(cond) {
			errs = errs.Add(errors.InvalidFragmentTarget, reg.Position(frag.Position),
				fmt.Sprintf("fragment %q cannot target non-composite type %q", frag.Name, frag.TypeCondition))
		}
	}

	for _, op := range doc.Operations {
		errs = checkOperation(reg, schema, op, fragments, errs)
	}

	return errs
}

func checkUniqueOperationNames(reg *errors.Registry, ops ast.OperationList, errs errors.Errors) errors.Errors {
	named := make(map[string]*ast.OperationDefinition)
	unnamedCount := 0
	for _, op := range ops {
		if op.Name == "" {
			unnamedCount++
			continue
		}
		if existing, ok := named[op.Name]; ok {
			errs = errs.Add(errors.DuplicateOperationName, reg.Position(op.Position),
				fmt.Sprintf("duplicate operation name %q", op.Name),
				errors.MakeNote(reg.Position(existing.Position), errors.NoteAnotherDefinitionPos, "first defined here"))
			continue
		}
		named[op.Name] = op
	}
	if unnamedCount > 0 && (unnamedCount > 1 || len(named) > 0) {
		for _, op := range ops {
			if op.Name == "" {
				errs = errs.Add(errors.UnnamedOperationMustBeSingle, reg.Position(op.Position),
					"an unnamed operation is only allowed if it is the document's only operation")
			}
		}
	}
	return errs
}

func checkUniqueFragmentNames(reg *errors.Registry, frags ast.FragmentDefinitionList, errs errors.Errors) errors.Errors {
	seen := make(map[string]*ast.FragmentDefinition)
	for _, f := range frags {
		if existing, ok := seen[f.Name]; ok {
			errs = errs.Add(errors.DuplicateFragmentName, reg.Position(f.Position),
				fmt.Sprintf("duplicate fragment name %q", f.Name),
				errors.MakeNote(reg.Position(existing.Position), errors.NoteAnotherDefinitionPos, "first defined here"))
			continue
		}
		seen[f.Name] = f
	}
	return errs
}

func checkOperation(reg *errors.Registry, schema *typesystem.Schema, op *ast.OperationDefinition, fragments map[string]*ast.FragmentDefinition, errs errors.Errors) errors.Errors {
	rootName, ok := rootTypeName(schema, op.Operation)
	if !ok {
		if schema.Roots.Explicit {
			errs = errs.Add(errors.NoRootType, reg.Position(op.Position),
				fmt.Sprintf("schema has no root type for %s operations", op.Operation),
				errors.MakeNote(schema.Roots.Position, errors.NoteRootTypesDefinedHere, "schema defined here"))
		} else {
			errs = errs.Add(errors.UnknownType, reg.Position(op.Position),
				fmt.Sprintf("no conventional root type for %s operations", op.Operation))
		}
		return errs
	}
	rootType, ok := schema.Lookup(rootName)
	if !ok {
		return errs.Add(errors.UnknownType, reg.Position(op.Position), fmt.Sprintf("root type %q is undefined", rootName))
	}

	vars := buildVariableScope(reg, op.VariableDefinitions)
	errs = checkVariableDefinitions(reg, schema, op.VariableDefinitions, errs)

	loc := string(operationLocation(op.Operation))
	errs = checkDirectives(schema, DirectiveSite{Directives: convertDirectives(reg, op.Directives), Location: loc}, vars, errs)

	if op.Operation == ast.Subscription {
		count := countTopLevelFields(op.SelectionSet, fragments)
		if count != 1 {
			errs = errs.Add(errors.SubscriptionMustHaveExactlyOneField, reg.Position(op.Position),
				"a subscription's selection set must contain exactly one top-level field after inlining fragments")
		}
	}

	w := &walker{reg: reg, schema: schema, fragments: fragments, vars: vars}
	errs = w.walkSelectionSet(rootType, op.SelectionSet, map[string]bool{}, errs)
	return errs
}

func rootTypeName(schema *typesystem.Schema, op ast.Operation) (string, bool) {
	switch op {
	case ast.Query:
		if schema.Roots.Query != "" {
			return schema.Roots.Query, true
		}
	case ast.Mutation:
		if schema.Roots.Mutation != "" {
			return schema.Roots.Mutation, true
		}
	case ast.Subscription:
		if schema.Roots.Subscription != "" {
			return schema.Roots.Subscription, true
		}
	}
	return "", false
}

func operationLocation(op ast.Operation) ast.DirectiveLocation {
	switch op {
	case ast.Mutation:
		return ast.LocationMutation
	case ast.Subscription:
		return ast.LocationSubscription
	default:
		return ast.LocationQuery
	}
}

func buildVariableScope(reg *errors.Registry, defs ast.VariableDefinitionList) variableScope {
	scope := make(variableScope, len(defs))
	for _, d := range defs {
		scope[d.Variable] = astconv.TypeRef(reg, d.Type)
	}
	return scope
}

func checkVariableDefinitions(reg *errors.Registry, schema *typesystem.Schema, defs ast.VariableDefinitionList, errs errors.Errors) errors.Errors {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if seen[d.Variable] {
			errs = errs.Add(errors.DuplicatedName, reg.Position(d.Position), fmt.Sprintf("duplicate variable %q", d.Variable))
			continue
		}
		seen[d.Variable] = true
		ref := astconv.TypeRef(reg, d.Type)
		resolved := schema.Resolve(ref)
		if resolved != nil && !typesystem.IsInputType(resolved) {
			errs = errs.Add(errors.NoInputType, reg.Position(d.Position),
				fmt.Sprintf("variable %q must have an input type", d.Variable))
		}
	}
	return errs
}

// countTopLevelFields inlines fragment spreads/inline fragments (without
// re-validating them) purely to count top-level fields for the subscription
// constraint (§4.6 step 4).
func countTopLevelFields(set ast.SelectionSet, fragments map[string]*ast.FragmentDefinition) int {
	return countTopLevelFieldsVisited(set, fragments, map[string]bool{})
}

func countTopLevelFieldsVisited(set ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visited map[string]bool) int {
	count := 0
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			count++
		case *ast.InlineFragment:
			count += countTopLevelFieldsVisited(s.SelectionSet, fragments, visited)
		case *ast.FragmentSpread:
			if visited[s.Name] {
				continue
			}
			visited[s.Name] = true
			if frag, ok := fragments[s.Name]; ok {
				count += countTopLevelFieldsVisited(frag.SelectionSet, fragments, visited)
			}
		}
	}
	return count
}

func convertDirectives(reg *errors.Registry, directives ast.DirectiveList) []AppliedDirective {
	out := make([]AppliedDirective, len(directives))
	for i, d := range directives {
		out[i] = AppliedDirective{
			Name:      d.Name,
			Position:  reg.Position(d.Position),
			Arguments: convertArguments(reg, d.Arguments),
		}
	}
	return out
}

func convertArguments(reg *errors.Registry, args ast.ArgumentList) []AppliedArgument {
	out := make([]AppliedArgument, len(args))
	for i, a := range args {
		out[i] = AppliedArgument{
			Name:     a.Name,
			Value:    astconv.Value(reg, a.Value),
			Position: reg.Position(a.Position),
		}
	}
	return out
}
