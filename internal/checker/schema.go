package checker

import (
	"fmt"
	"strings"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/typesystem"
)

// CheckSchema implements the schema checker (C6, §4.5): a single pass over
// every named type and directive definition in schema.
func CheckSchema(schema *typesystem.Schema) errors.Errors {
	var errs errors.Errors

	for _, name := range schema.TypeOrder {
		t := schema.Types[name]
		errs = checkReservedName(t.TypeName(), typePosition(t), errs)
		switch v := t.(type) {
		case *typesystem.Object:
			errs = checkFieldsOwner(schema, v.Name, v.Fields, v.FieldOrder, errs)
			errs = checkImplements(schema, v.Name, v.Fields, v.Implements, errs)
		case *typesystem.Interface:
			errs = checkFieldsOwner(schema, v.Name, v.Fields, v.FieldOrder, errs)
			errs = checkImplements(schema, v.Name, v.Fields, v.Implements, errs)
			errs = checkInterfaceNoSelfImplement(v, errs)
		case *typesystem.Union:
			errs = checkUnion(schema, v, errs)
		case *typesystem.Enum:
			errs = checkEnum(v, errs)
		case *typesystem.InputObject:
			errs = checkInputObject(schema, v, errs)
		}
	}

	for _, name := range directiveOrder(schema) {
		errs = checkReservedName(name, schema.Directives[name].Position, errs)
	}
	errs = checkDirectiveRecursion(schema, errs)

	return errs
}

func directiveOrder(schema *typesystem.Schema) []string {
	names := make([]string, 0, len(schema.Directives))
	for n := range schema.Directives {
		names = append(names, n)
	}
	return names
}

func typePosition(t typesystem.NamedType) errors.Position {
	switch v := t.(type) {
	case *typesystem.Scalar:
		return v.Position
	case *typesystem.Object:
		return v.Position
	case *typesystem.Interface:
		return v.Position
	case *typesystem.Union:
		return v.Position
	case *typesystem.Enum:
		return v.Position
	case *typesystem.InputObject:
		return v.Position
	default:
		return errors.BuiltinPosition
	}
}

func checkReservedName(name string, pos errors.Position, errs errors.Errors) errors.Errors {
	if strings.HasPrefix(name, "__") {
		return errs.Add(errors.UnderscoreUnderscoreReserved, pos,
			fmt.Sprintf("name %q may not begin with \"__\"; it is reserved", name))
	}
	return errs
}

func checkFieldsOwner(schema *typesystem.Schema, owner string, fields map[string]*typesystem.Field, order []string, errs errors.Errors) errors.Errors {
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		f := fields[name]
		errs = checkReservedName(f.Name, f.Position, errs)

		resolved := schema.Resolve(f.Type)
		if resolved != nil && !typesystem.IsOutputType(resolved) {
			errs = errs.Add(errors.NoOutputType, f.Position,
				fmt.Sprintf("field %q of %s must have an output type", f.Name, owner))
		}

		argSeen := make(map[string]bool, len(f.Arguments))
		for _, arg := range f.Arguments {
			if argSeen[arg.Name] {
				errs = errs.Add(errors.DuplicatedName, arg.Position,
					fmt.Sprintf("duplicate argument %q on field %s.%s", arg.Name, owner, f.Name))
				continue
			}
			argSeen[arg.Name] = true
			argResolved := schema.Resolve(arg.Type)
			if argResolved != nil && !typesystem.IsInputType(argResolved) {
				errs = errs.Add(errors.NoInputType, arg.Position,
					fmt.Sprintf("argument %q of %s.%s must have an input type", arg.Name, owner, f.Name))
			}
		}
	}
	return errs
}

// checkImplements enforces §4.5's interface-implementation covariance rule.
func checkImplements(schema *typesystem.Schema, owner string, fields map[string]*typesystem.Field, implements []typesystem.NamedRef, errs errors.Errors) errors.Errors {
	for _, ref := range implements {
		iface, ok := lookupInterface(schema, ref.Name)
		if !ok {
			errs = errs.Add(errors.UnknownType, ref.Position,
				fmt.Sprintf("%q does not resolve to an interface", ref.Name))
			continue
		}
		for _, ifName := range iface.FieldOrder {
			ifField := iface.Fields[ifName]
			implField, ok := fields[ifName]
			if !ok {
				errs = errs.Add(errors.InterfaceFieldNotImplemented, typePositionForOwner(schema, owner),
					fmt.Sprintf("%s does not implement field %q of interface %s", owner, ifName, iface.Name),
					errors.MakeNote(ifField.Position, errors.NoteDefinitionPosition, "interface field defined here"))
				continue
			}
			errs = checkFieldCovariance(schema, owner, iface.Name, ifField, implField, errs)
		}
	}
	return errs
}

func typePositionForOwner(schema *typesystem.Schema, owner string) errors.Position {
	if t, ok := schema.Types[owner]; ok {
		return typePosition(t)
	}
	return errors.BuiltinPosition
}

func lookupInterface(schema *typesystem.Schema, name string) (*typesystem.Interface, bool) {
	t, ok := schema.Lookup(name)
	if !ok {
		return nil, false
	}
	iface, ok := t.(*typesystem.Interface)
	return iface, ok
}

func checkFieldCovariance(schema *typesystem.Schema, owner, ifaceName string, ifField, implField *typesystem.Field, errs errors.Errors) errors.Errors {
	ifType := schema.Resolve(ifField.Type)
	implType := schema.Resolve(implField.Type)
	if ifType != nil && implType != nil && !isCovariant(schema, implType, ifType) {
		errs = errs.Add(errors.FieldTypeMismatchWithInterface, implField.Position,
			fmt.Sprintf("field %s.%s type %s is not a subtype of interface %s's %s",
				owner, implField.Name, implField.Type, ifaceName, ifField.Type))
	}

	for _, ifArg := range ifField.Arguments {
		implArg := findArgument(implField.Arguments, ifArg.Name)
		if implArg == nil {
			errs = errs.Add(errors.InterfaceArgumentNotImplemented, implField.Position,
				fmt.Sprintf("field %s.%s is missing argument %q required by interface %s",
					owner, implField.Name, ifArg.Name, ifaceName))
			continue
		}
		if implArg.Type.String() != ifArg.Type.String() {
			errs = errs.Add(errors.ArgumentTypeMismatchWithInterface, implArg.Position,
				fmt.Sprintf("argument %q of %s.%s must have type %s to match interface %s",
					ifArg.Name, owner, implField.Name, ifArg.Type, ifaceName))
		}
	}
	for _, implArg := range implField.Arguments {
		if findArgument(ifField.Arguments, implArg.Name) == nil && implArg.Type.NonNull {
			errs = errs.Add(errors.ArgumentTypeNonNullAgainstInterface, implArg.Position,
				fmt.Sprintf("additional argument %q of %s.%s must be nullable since it is not declared on interface %s",
					implArg.Name, owner, implField.Name, ifaceName))
		}
	}
	return errs
}

func findArgument(args []*typesystem.InputValue, name string) *typesystem.InputValue {
	for _, a := range args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// isCovariant reports whether impl is a GraphQL-sense subtype of iface:
// identical named type, or an object/interface/union implementing/being a
// member relationship, preserving NonNull/List wrapping structurally.
func isCovariant(schema *typesystem.Schema, impl, iface typesystem.Type) bool {
	implNN, implIsNN := impl.(*typesystem.NonNull)
	ifaceNN, ifaceIsNN := iface.(*typesystem.NonNull)
	if ifaceIsNN {
		if !implIsNN {
			return false
		}
		return isCovariant(schema, implNN.Of, ifaceNN.Of)
	}
	if implIsNN {
		impl = implNN.Of
	}

	implList, implIsList := impl.(*typesystem.List)
	ifaceList, ifaceIsList := iface.(*typesystem.List)
	if implIsList != ifaceIsList {
		return false
	}
	if implIsList {
		return isCovariant(schema, implList.Of, ifaceList.Of)
	}

	implNamed, ok1 := impl.(typesystem.NamedType)
	ifaceNamed, ok2 := iface.(typesystem.NamedType)
	if !ok1 || !ok2 {
		return false
	}
	if implNamed.TypeName() == ifaceNamed.TypeName() {
		return true
	}
	switch ifn := ifaceNamed.(type) {
	case *typesystem.Interface:
		if obj, ok := implNamed.(*typesystem.Object); ok {
			return objectImplements(obj, ifn.Name)
		}
		if iface2, ok := implNamed.(*typesystem.Interface); ok {
			return interfaceImplements(iface2, ifn.Name)
		}
	case *typesystem.Union:
		if obj, ok := implNamed.(*typesystem.Object); ok {
			return unionHasMember(ifn, obj.Name)
		}
	}
	return false
}

func objectImplements(o *typesystem.Object, name string) bool {
	for _, ref := range o.Implements {
		if ref.Name == name {
			return true
		}
	}
	return false
}

func interfaceImplements(i *typesystem.Interface, name string) bool {
	for _, ref := range i.Implements {
		if ref.Name == name {
			return true
		}
	}
	return false
}

func unionHasMember(u *typesystem.Union, name string) bool {
	for _, ref := range u.Members {
		if ref.Name == name {
			return true
		}
	}
	return false
}

func checkInterfaceNoSelfImplement(i *typesystem.Interface, errs errors.Errors) errors.Errors {
	for _, ref := range i.Implements {
		if ref.Name == i.Name {
			errs = errs.Add(errors.InterfaceImplementsItself, ref.Position,
				fmt.Sprintf("interface %q may not implement itself", i.Name))
		}
	}
	return errs
}

func checkUnion(schema *typesystem.Schema, u *typesystem.Union, errs errors.Errors) errors.Errors {
	seen := make(map[string]bool, len(u.Members))
	for _, ref := range u.Members {
		if seen[ref.Name] {
			errs = errs.Add(errors.DuplicatedName, ref.Position,
				fmt.Sprintf("duplicate union member %q", ref.Name))
			continue
		}
		seen[ref.Name] = true
		t, ok := schema.Lookup(ref.Name)
		if !ok {
			errs = errs.Add(errors.UnknownType, ref.Position, fmt.Sprintf("unknown type %q", ref.Name))
			continue
		}
		if _, ok := t.(*typesystem.Object); !ok {
			errs = errs.Add(errors.NonObjectUnionMember, ref.Position,
				fmt.Sprintf("union member %q must be an object type", ref.Name))
		}
	}
	return errs
}

func checkEnum(e *typesystem.Enum, errs errors.Errors) errors.Errors {
	seen := make(map[string]bool, len(e.ValueOrder))
	for _, name := range e.ValueOrder {
		if seen[name] {
			errs = errs.Add(errors.DuplicatedName, e.Values[name].Position,
				fmt.Sprintf("duplicate enum value %q", name))
			continue
		}
		seen[name] = true
	}
	return errs
}

func checkInputObject(schema *typesystem.Schema, io *typesystem.InputObject, errs errors.Errors) errors.Errors {
	seen := make(map[string]bool, len(io.FieldOrder))
	for _, name := range io.FieldOrder {
		if seen[name] {
			errs = errs.Add(errors.DuplicatedName, io.Fields[name].Position,
				fmt.Sprintf("duplicate field %q on input object %s", name, io.Name))
			continue
		}
		seen[name] = true
		f := io.Fields[name]
		resolved := schema.Resolve(f.Type)
		if resolved != nil && !typesystem.IsInputType(resolved) {
			errs = errs.Add(errors.NoInputType, f.Position,
				fmt.Sprintf("field %q of input object %s must have an input type", name, io.Name))
		}
	}
	return errs
}

// checkDirectiveRecursion implements §4.5's directive-recursion check: a
// directive's argument types, and the types those reference, must not
// transitively lead to an application of the directive being defined.
func checkDirectiveRecursion(schema *typesystem.Schema, errs errors.Errors) errors.Errors {
	for _, name := range directiveOrder(schema) {
		def := schema.Directives[name]
		visited := map[string]bool{}
		if directiveReachesItself(schema, def, def.Arguments, visited) {
			errs = errs.Add(errors.RecursingDirective, def.Position,
				fmt.Sprintf("directive %q recursively references itself through its argument types", name))
		}
	}
	return errs
}

func directiveReachesItself(schema *typesystem.Schema, target *typesystem.DirectiveDefinition, args []*typesystem.InputValue, visited map[string]bool) bool {
	for _, arg := range args {
		name := arg.Type.InnermostName()
		if name == "" || visited[name] {
			continue
		}
		visited[name] = true
		t, ok := schema.Lookup(name)
		if !ok {
			continue
		}
		io, ok := t.(*typesystem.InputObject)
		if !ok {
			continue
		}
		for _, fieldName := range io.FieldOrder {
			field := io.Fields[fieldName]
			if hasDirectiveApplication(field, target.Name) {
				return true
			}
		}
		fieldValues := make([]*typesystem.InputValue, 0, len(io.FieldOrder))
		for _, fieldName := range io.FieldOrder {
			fieldValues = append(fieldValues, io.Fields[fieldName])
		}
		if directiveReachesItself(schema, target, fieldValues, visited) {
			return true
		}
	}
	return false
}

// hasDirectiveApplication reports whether field carries an application of
// the directive named name, closing the cycle a directive's own argument
// types can reach through an input-object field it is applied to.
func hasDirectiveApplication(field *typesystem.InputValue, name string) bool {
	for _, d := range field.Directives {
		if d.Name == name {
			return true
		}
	}
	return false
}
