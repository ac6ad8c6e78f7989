// Package typesystem is the linked, name-keyed view of a GraphQL schema
// (§3 "Type-system model (C2)"). It is built once from the merged AST by
// internal/builder and is immutable for the remainder of the process
// (§3 Lifecycle, §5).
//
// Back-references (object -> implemented interfaces, union -> members) are
// name-keyed lookups through Schema.Types rather than owning pointers, per
// §9's design note: two Object values never point at each other directly.
package typesystem

import "github.com/shyptr/nitrogql/errors"

// Type is the sum of every type-system value a Named reference can resolve
// to, plus the List/NonNull wrappers: a closed sum expressed as a small
// interface with an unexported marker method, generalized from a
// code-first builder to a name-keyed linked model.
type Type interface {
	String() string
	isType()
}

// NamedType is a Type that owns a name and participates in Schema.Types.
type NamedType interface {
	Type
	TypeName() string
	TypeDescription() string
}

// Deprecation records a @deprecated directive application.
type Deprecation struct {
	Reason string
}

// AppliedDirective is a directive application retained as-is (name and use
// site), for checks that need to observe the application itself rather than
// an effect already extracted from it (e.g. Deprecation).
type AppliedDirective struct {
	Name     string
	Position errors.Position
}

// Scalar is a leaf type. Built-in scalars (Int, Float, String, Boolean, ID)
// are synthesized by Builtins(); custom scalars accept any value in
// check_value (§4.5), and no warning is emitted for them.
type Scalar struct {
	Name        string
	Description string
	Position    errors.Position
}

func (t *Scalar) String() string            { return t.Name }
func (t *Scalar) TypeName() string          { return t.Name }
func (t *Scalar) TypeDescription() string   { return t.Description }
func (*Scalar) isType()                     {}

// Object is an output type implementing zero or more interfaces.
type Object struct {
	Name        string
	Description string
	Position    errors.Position
	Fields      map[string]*Field
	FieldOrder  []string
	Implements  []NamedRef
}

func (t *Object) String() string          { return t.Name }
func (t *Object) TypeName() string        { return t.Name }
func (t *Object) TypeDescription() string { return t.Description }
func (*Object) isType()                   {}

// Interface is an output type other types may implement (§4.5 covariance
// rules enforce the relationship; this struct stores the declared side
// only).
type Interface struct {
	Name        string
	Description string
	Position    errors.Position
	Fields      map[string]*Field
	FieldOrder  []string
	Implements  []NamedRef // interfaces this interface itself implements
}

func (t *Interface) String() string          { return t.Name }
func (t *Interface) TypeName() string        { return t.Name }
func (t *Interface) TypeDescription() string { return t.Description }
func (*Interface) isType()                   {}

// Union is an output type whose value is one of a fixed set of Objects.
type Union struct {
	Name        string
	Description string
	Position    errors.Position
	Members     []NamedRef // must each resolve to an Object, checked by C6
}

func (t *Union) String() string          { return t.Name }
func (t *Union) TypeName() string        { return t.Name }
func (t *Union) TypeDescription() string { return t.Description }
func (*Union) isType()                   {}

// EnumValue is one member of an Enum.
type EnumValue struct {
	Name        string
	Description string
	Position    errors.Position
	Deprecation *Deprecation
}

// Enum is a leaf type whose values are one of a fixed set of names.
type Enum struct {
	Name        string
	Description string
	Position    errors.Position
	Values      map[string]*EnumValue
	ValueOrder  []string
}

func (t *Enum) String() string          { return t.Name }
func (t *Enum) TypeName() string        { return t.Name }
func (t *Enum) TypeDescription() string { return t.Description }
func (*Enum) isType()                   {}

// InputObject is an input-only type: a structured collection of
// InputValues, accepted as argument/variable values.
type InputObject struct {
	Name        string
	Description string
	Position    errors.Position
	Fields      map[string]*InputValue
	FieldOrder  []string
}

func (t *InputObject) String() string          { return t.Name }
func (t *InputObject) TypeName() string        { return t.Name }
func (t *InputObject) TypeDescription() string { return t.Description }
func (*InputObject) isType()                   {}

// List wraps a Type in list-of-T.
type List struct{ Of Type }

func (t *List) String() string { return "[" + t.Of.String() + "]" }
func (*List) isType()          {}

// NonNull wraps a Type in T!; NonNull never wraps another NonNull (§3
// invariant): TypeRef carries non-null as a flag, and Schema.Resolve adds at
// most one NonNull per wrapping level.
type NonNull struct{ Of Type }

func (t *NonNull) String() string { return t.Of.String() + "!" }
func (*NonNull) isType()          {}

var (
	_ NamedType = (*Scalar)(nil)
	_ NamedType = (*Object)(nil)
	_ NamedType = (*Interface)(nil)
	_ NamedType = (*Union)(nil)
	_ NamedType = (*Enum)(nil)
	_ NamedType = (*InputObject)(nil)
	_ Type      = (*List)(nil)
	_ Type      = (*NonNull)(nil)
)

// NamedRef is a reference to another named type, carrying the source
// position of the reference itself (not of the referenced definition) so
// that a dangling reference can be diagnosed with a caret at the use site
// (§3 "Every reference to another type is stored as a name carrying a
// source position").
type NamedRef struct {
	Name     string
	Position errors.Position
}

// Field is a field of an Object or Interface.
type Field struct {
	Name        string
	Description string
	Position    errors.Position
	Arguments   []*InputValue
	Type        TypeRef
	Deprecation *Deprecation
}

// InputValue is an argument of a Field/Directive, or a field of an
// InputObject.
type InputValue struct {
	Name        string
	Description string
	Position    errors.Position
	Type        TypeRef
	Default     *Value
	Deprecation *Deprecation
	Directives  []AppliedDirective
}

// TypeRef is a possibly-wrapped reference to a named type: the named part
// is resolved lazily by name (§4.2), the wrapping (List/NonNull) is known
// immediately from the AST shape.
type TypeRef struct {
	Named    string // empty when Elem != nil
	Elem     *TypeRef
	NonNull  bool
	Position errors.Position
}

func (t TypeRef) String() string {
	var s string
	if t.Elem != nil {
		s = "[" + t.Elem.String() + "]"
	} else {
		s = t.Named
	}
	if t.NonNull {
		s += "!"
	}
	return s
}

// InnermostName returns the named type at the bottom of any List/NonNull
// wrapping.
func (t TypeRef) InnermostName() string {
	for t.Elem != nil {
		t = *t.Elem
	}
	return t.Named
}

// DirectiveDefinition mirrors gqlparser's ast.DirectiveDefinition, linked.
type DirectiveDefinition struct {
	Name        string
	Description string
	Position    errors.Position
	Arguments   []*InputValue
	Locations   []string
	Repeatable  bool
}

// RootTypes names the Query/Mutation/Subscription operation roots (§3).
// Position is Builtin when no explicit `schema { ... }` definition was
// given (§4.2).
type RootTypes struct {
	Query        string
	Mutation     string
	Subscription string
	Position     errors.Position
	Explicit     bool
}

// Schema is the complete linked type-system model (§3).
type Schema struct {
	Types      map[string]NamedType
	TypeOrder  []string
	Directives map[string]*DirectiveDefinition
	Roots      RootTypes
}

// Lookup resolves a named type, returning (nil, false) for a dangling
// reference. Callers diagnose the dangling case themselves (§4.2: the
// builder never fails on it).
func (s *Schema) Lookup(name string) (NamedType, bool) {
	t, ok := s.Types[name]
	return t, ok
}

// Resolve turns a TypeRef into a concrete Type, looking up the innermost
// Named reference in Schema.Types. Returns nil if the reference is
// dangling; callers that need the position use ref.Position /
// ref.InnermostName() directly since the Type sum has no back-pointer to
// the unresolved name.
func (s *Schema) Resolve(ref TypeRef) Type {
	if ref.Elem != nil {
		inner := s.Resolve(*ref.Elem)
		if inner == nil {
			return nil
		}
		var t Type = &List{Of: inner}
		if ref.NonNull {
			t = &NonNull{Of: t}
		}
		return t
	}
	named, ok := s.Types[ref.Named]
	if !ok {
		return nil
	}
	var t Type = named
	if ref.NonNull {
		t = &NonNull{Of: t}
	}
	return t
}

// Unwrap strips List/NonNull wrappers and returns the NamedType underneath,
// or nil if the innermost type is a dangling reference.
func Unwrap(t Type) NamedType {
	for {
		switch v := t.(type) {
		case NamedType:
			return v
		case *List:
			t = v.Of
		case *NonNull:
			t = v.Of
		default:
			return nil
		}
	}
}

// IsInputType classifies a type per the GLOSSARY: scalars and enums are
// both; input objects are input-only; objects/interfaces/unions are
// output-only.
func IsInputType(t Type) bool {
	switch v := Unwrap(t).(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	case nil:
		return false
	default:
		_ = v
		return false
	}
}

// IsOutputType classifies a type per the GLOSSARY.
func IsOutputType(t Type) bool {
	switch Unwrap(t).(type) {
	case *Scalar, *Enum, *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

// IsComposite reports whether t is Object/Interface/Union (the scope types
// a selection set may be evaluated against, §4.7).
func IsComposite(t Type) bool {
	switch Unwrap(t).(type) {
	case *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

// AreTypesCompatible implements §4.5's assignability predicate used by
// check_value for variable references.
func AreTypesCompatible(a, b Type) bool {
	bn, bNonNull := b.(*NonNull)
	if bNonNull {
		an, aNonNull := a.(*NonNull)
		if aNonNull {
			return AreTypesCompatible(an.Of, bn.Of)
		}
		return false
	}
	if an, aNonNull := a.(*NonNull); aNonNull {
		a = an.Of
	}
	al, aList := a.(*List)
	bl, bList := b.(*List)
	if aList != bList {
		return false
	}
	if aList {
		return AreTypesCompatible(al.Of, bl.Of)
	}
	aNamed, aOk := a.(NamedType)
	bNamed, bOk := b.(NamedType)
	if !aOk || !bOk {
		return false
	}
	return aNamed.TypeName() == bNamed.TypeName()
}

// Value is the linked counterpart of gqlparser's ast.Value: either a
// literal payload (scalar/enum/list/object) or a VariableRef, kept
// independent from the AST so the builder can normalize default values
// once instead of re-walking ast.Value at every use site.
type Value struct {
	Kind        ValueKind
	Raw         string // int/float/string/enum payload
	Boolean     bool
	List        []*Value
	Object      map[string]*Value
	ObjectOrder []string
	VariableRef string
	Position    errors.Position
}

// ValueKind is the closed sum of literal/variable value shapes (§3).
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueString
	ValueBoolean
	ValueNull
	ValueEnum
	ValueList
	ValueObject
	ValueVariable
)
