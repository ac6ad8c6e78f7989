// Package shape implements the selection-set shape deriver (C8, §4.8): for
// each accepted operation/fragment selection set, it computes the
// structural shape of the data a client observes, branching over
// Object/Interface/Union polymorphism and folding literal @skip/@include
// directives.
//
// The deriver assumes its input already passed internal/checker — it does
// not re-validate field existence or argument types, trusting the
// already-validated selection set.
package shape

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/astconv"
	"github.com/shyptr/nitrogql/typesystem"
)

// Shape is the closed sum of derived result shapes (§4.8).
type Shape interface{ isShape() }

// Object is a single branch's field set, in selection order.
type Object struct {
	Fields []Field
}

func (*Object) isShape() {}

// Field is one entry of an Object shape.
type Field struct {
	Name     string
	Shape    Shape
	Optional bool // set when a conditional directive makes the field absent on some branch
}

// Branches is the union, across the scope's possible concrete types, of
// each branch's Object shape (§4.8 "the shape of S in scope T is the union
// across B of the per-branch shapes").
type Branches struct {
	ByTypename map[string]*Object
	Order      []string
}

func (*Branches) isShape() {}

// StringLiteral is the derived shape of a __typename selection: the literal
// name of the branch's concrete type.
type StringLiteral struct{ Value string }

func (*StringLiteral) isShape() {}

// Named is a leaf reference to a scalar or enum type, resolved to a target
// language type by emit/internal/scalarmap.
type Named struct{ TypeName string }

func (*Named) isShape() {}

// List wraps a Shape in list-of-T.
type List struct{ Of Shape }

func (*List) isShape() {}

// Nullable wraps a Shape in T-or-null, mirroring a declared nullable
// GraphQL type.
type Nullable struct{ Of Shape }

func (*Nullable) isShape() {}

// Variable is one entry of an operation's derived Variables type (§4.8
// "Variables type derivation").
type Variable struct {
	Name     string
	Shape    Shape
	Optional bool // allow_undefined_as_optional_input, see SPEC_FULL.md
}

// Options configures derivation knobs named in §4.8/§6.
type Options struct {
	AllowUndefinedAsOptionalInput bool
}

// deriver holds the read-only context shared by every recursive call.
type deriver struct {
	reg       *errors.Registry
	schema    *typesystem.Schema
	fragments map[string]*ast.FragmentDefinition
	opts      Options
}

// DeriveOperation computes an operation's result shape and its Variables
// entries.
func DeriveOperation(reg *errors.Registry, schema *typesystem.Schema, op *ast.OperationDefinition, fragments map[string]*ast.FragmentDefinition, opts Options) (Shape, []Variable) {
	d := &deriver{reg: reg, schema: schema, fragments: fragments, opts: opts}

	rootName := rootTypeNameFor(schema, op.Operation)
	scope, _ := schema.Lookup(rootName)

	result := d.deriveSelectionSet(scope, op.SelectionSet, map[string]bool{})

	vars := make([]Variable, 0, len(op.VariableDefinitions))
	for _, v := range op.VariableDefinitions {
		ref := astconv.TypeRef(reg, v.Type)
		vshape := d.shapeFromTypeRef(ref)
		vars = append(vars, Variable{
			Name:     v.Variable,
			Shape:    vshape,
			Optional: opts.AllowUndefinedAsOptionalInput && !ref.NonNull,
		})
	}
	return result, vars
}

func rootTypeNameFor(schema *typesystem.Schema, op ast.Operation) string {
	switch op {
	case ast.Mutation:
		return schema.Roots.Mutation
	case ast.Subscription:
		return schema.Roots.Subscription
	default:
		return schema.Roots.Query
	}
}

// shapeFromTypeRef derives the leaf/list/nullable wrapping for a type
// reference without a selection set (used for variable types).
func (d *deriver) shapeFromTypeRef(ref typesystem.TypeRef) Shape {
	var s Shape
	if ref.Elem != nil {
		s = &List{Of: d.shapeFromTypeRef(*ref.Elem)}
	} else {
		s = &Named{TypeName: ref.Named}
	}
	if !ref.NonNull {
		s = &Nullable{Of: s}
	}
	return s
}

// branches returns branches(T) from §4.8.
func (d *deriver) branches(scope typesystem.NamedType) []*typesystem.Object {
	switch t := scope.(type) {
	case *typesystem.Object:
		return []*typesystem.Object{t}
	case *typesystem.Interface:
		var out []*typesystem.Object
		for _, name := range d.schema.TypeOrder {
			if obj, ok := d.schema.Types[name].(*typesystem.Object); ok && objectImplementsRef(obj, t.Name) {
				out = append(out, obj)
			}
		}
		return out
	case *typesystem.Union:
		var out []*typesystem.Object
		for _, ref := range t.Members {
			if obj, ok := d.schema.Lookup(ref.Name); ok {
				if o, ok := obj.(*typesystem.Object); ok {
					out = append(out, o)
				}
			}
		}
		return out
	default:
		return nil
	}
}

func objectImplementsRef(o *typesystem.Object, name string) bool {
	for _, ref := range o.Implements {
		if ref.Name == name {
			return true
		}
	}
	return false
}

// deriveSelectionSet implements §4.8 in full: compute each branch's Object
// shape, then union them. When there is exactly one branch (the scope is an
// Object, the overwhelmingly common case) the union degenerates to that
// branch's Object shape directly instead of a singleton Branches wrapper.
func (d *deriver) deriveSelectionSet(scope typesystem.NamedType, set ast.SelectionSet, visited map[string]bool) Shape {
	branchTypes := d.branches(scope)
	if len(branchTypes) == 0 {
		return &Object{}
	}

	byTypename := make(map[string]*Object, len(branchTypes))
	order := make([]string, 0, len(branchTypes))
	for _, b := range branchTypes {
		byTypename[b.Name] = d.deriveBranch(b, set, visited)
		order = append(order, b.Name)
	}

	if len(order) == 1 {
		return byTypename[order[0]]
	}
	return &Branches{ByTypename: byTypename, Order: order}
}

// deriveBranch builds one branch B's object shape: every field selection
// whose type condition matches B, plus the inlined contributions of
// matching fragment spreads/inline fragments.
func (d *deriver) deriveBranch(branch *typesystem.Object, set ast.SelectionSet, visited map[string]bool) *Object {
	obj := &Object{}
	d.collectFields(branch, set, visited, obj)
	return obj
}

func (d *deriver) collectFields(branch *typesystem.Object, set ast.SelectionSet, visited map[string]bool, into *Object) {
	fields := directFieldsOf(branch)
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			d.collectField(branch, fields, s, visited, into)
		case *ast.FragmentSpread:
			d.collectFragmentSpread(branch, s, visited, into)
		case *ast.InlineFragment:
			d.collectInlineFragment(branch, s, visited, into)
		}
	}
}

func (d *deriver) collectField(branch *typesystem.Object, fields map[string]*typesystem.Field, sel *ast.Field, visited map[string]bool, into *Object) {
	included, optional := skipIncludeOutcome(sel.Directives)
	if !included {
		return
	}
	outputName := sel.Alias
	if outputName == "" {
		outputName = sel.Name
	}

	var fieldShape Shape
	if sel.Name == "__typename" {
		fieldShape = &StringLiteral{Value: branch.Name}
	} else {
		def, ok := fields[sel.Name]
		if !ok {
			return
		}
		fieldShape = d.deriveField(def, sel, visited)
	}
	into.Fields = append(into.Fields, Field{Name: outputName, Shape: fieldShape, Optional: optional})
}

func (d *deriver) deriveField(def *typesystem.Field, sel *ast.Field, visited map[string]bool) Shape {
	ref := def.Type
	return d.wrapRef(ref, func(namedRef typesystem.TypeRef) Shape {
		if len(sel.SelectionSet) == 0 {
			return &Named{TypeName: namedRef.Named}
		}
		target := d.schema.Resolve(namedRef)
		named := typesystem.Unwrap(target)
		if named == nil {
			return &Object{}
		}
		return d.deriveSelectionSet(named, sel.SelectionSet, visited)
	})
}

// wrapRef mirrors the wrapping of ref (List/NonNull -> Shape List/Nullable)
// around whatever leaf the callback derives for the innermost named
// reference, per §4.8 "wrap the result in list/nullable wrappers mirroring
// the declared type's wrappers".
func (d *deriver) wrapRef(ref typesystem.TypeRef, leaf func(typesystem.TypeRef) Shape) Shape {
	var s Shape
	if ref.Elem != nil {
		s = &List{Of: d.wrapRef(*ref.Elem, leaf)}
	} else {
		s = leaf(ref)
	}
	if !ref.NonNull {
		s = &Nullable{Of: s}
	}
	return s
}

func (d *deriver) collectFragmentSpread(branch *typesystem.Object, sel *ast.FragmentSpread, visited map[string]bool, into *Object) {
	if visited[sel.Name] {
		return
	}
	frag, ok := d.fragments[sel.Name]
	if !ok {
		return
	}
	cond, ok := d.schema.Lookup(frag.TypeCondition)
	if !ok {
		return
	}
	condNamed, ok := cond.(typesystem.NamedType)
	if !ok || !matchesBranch(d.schema, condNamed, branch) {
		return
	}
	nextVisited := copyVisited(visited)
	nextVisited[sel.Name] = true
	d.collectFields(branch, frag.SelectionSet, nextVisited, into)
}

func (d *deriver) collectInlineFragment(branch *typesystem.Object, sel *ast.InlineFragment, visited map[string]bool, into *Object) {
	if sel.TypeCondition != "" {
		cond, ok := d.schema.Lookup(sel.TypeCondition)
		if !ok {
			return
		}
		condNamed, ok := cond.(typesystem.NamedType)
		if !ok || !matchesBranch(d.schema, condNamed, branch) {
			return
		}
	}
	d.collectFields(branch, sel.SelectionSet, visited, into)
}

func copyVisited(visited map[string]bool) map[string]bool {
	out := make(map[string]bool, len(visited)+1)
	for k := range visited {
		out[k] = true
	}
	return out
}

// matchesBranch reports whether branch B (always an Object, per
// d.branches) matches condition type C under the fragment-compatibility
// predicate, specialized to an Object scope (§4.7's "Object" row).
func matchesBranch(schema *typesystem.Schema, cond typesystem.NamedType, branch *typesystem.Object) bool {
	switch c := cond.(type) {
	case *typesystem.Object:
		return c.Name == branch.Name
	case *typesystem.Interface:
		return objectImplementsRef(branch, c.Name)
	case *typesystem.Union:
		for _, ref := range c.Members {
			if ref.Name == branch.Name {
				return true
			}
		}
	}
	return false
}

func directFieldsOf(o *typesystem.Object) map[string]*typesystem.Field {
	out := map[string]*typesystem.Field{"__typename": typesystem.TypenameField()}
	for name, f := range o.Fields {
		out[name] = f
	}
	return out
}

// skipIncludeOutcome evaluates literal @skip/@include combinations (§4.8).
// When either flag is non-literal (a variable), the field is kept with
// Optional=true rather than split into a present/absent union at the
// enclosing object: every concrete @skip/@include use resolves to an
// optional field on the generated type, so the two shapes are equivalent
// in the cases this deriver sees. See DESIGN.md.
func skipIncludeOutcome(directives ast.DirectiveList) (included bool, optional bool) {
	included = true
	for _, d := range directives {
		switch d.Name {
		case "skip":
			arg := d.Arguments.ForName("if")
			if arg == nil || arg.Value == nil {
				continue
			}
			if arg.Value.Kind == ast.BooleanValue {
				if arg.Value.Raw == "true" {
					included = false
				}
			} else {
				optional = true
			}
		case "include":
			arg := d.Arguments.ForName("if")
			if arg == nil || arg.Value == nil {
				continue
			}
			if arg.Value.Kind == ast.BooleanValue {
				if arg.Value.Raw == "false" {
					included = false
				}
			} else {
				optional = true
			}
		}
	}
	return included, optional
}
