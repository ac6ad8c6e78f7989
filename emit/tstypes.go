// Package emit implements the schema/operation artifact emitter (C11,
// §3 SPEC_FULL §4 SUPPLEMENTED FEATURES): it renders the derived shapes from
// internal/shape (and the linked schema from typesystem) into TypeScript
// source text, grounded on the tsType family in
// jzeiders/graphql-go-gen's typescript-operations plugin.
package emit

import (
	"fmt"
	"strings"
)

// tsType is the render-only TypeScript type-expression sum, independent of
// internal/shape.Shape so the emitter can introduce artifact-only
// constructs (string literals, scalar target codes) without growing the
// analysis-facing Shape type.
type tsType interface {
	Render(indent string) string
}

type tsPrimitive struct{ Code string }

func (p *tsPrimitive) Render(string) string { return p.Code }

type tsStringLiteral struct{ Value string }

func (l *tsStringLiteral) Render(string) string { return fmt.Sprintf("'%s'", l.Value) }

type tsNullable struct{ Inner tsType }

func (n *tsNullable) Render(indent string) string { return n.Inner.Render(indent) + " | null" }

type tsArray struct{ Elem tsType }

func (a *tsArray) Render(indent string) string { return fmt.Sprintf("Array<%s>", a.Elem.Render(indent)) }

type tsUnion struct{ Options []tsType }

func (u *tsUnion) Render(indent string) string {
	parts := make([]string, len(u.Options))
	for i, opt := range u.Options {
		parts[i] = opt.Render(indent)
	}
	return strings.Join(parts, " | ")
}

type tsField struct {
	Name     string
	Optional bool
	Type     tsType
}

func (f *tsField) Render(indent string) string {
	var sb strings.Builder
	sb.WriteString(indent)
	sb.WriteString(f.Name)
	if f.Optional {
		sb.WriteString("?")
	}
	sb.WriteString(": ")
	sb.WriteString(f.Type.Render(indent))
	sb.WriteString(";")
	return sb.String()
}

type tsObject struct{ Fields []*tsField }

func (o *tsObject) Render(indent string) string {
	if len(o.Fields) == 0 {
		return "{}"
	}
	inner := indent + "  "
	parts := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		parts[i] = f.Render(inner)
	}
	return "{\n" + strings.Join(parts, "\n") + "\n" + indent + "}"
}
