package emit

import (
	"fmt"
	"strings"

	"github.com/shyptr/nitrogql/config"
	"github.com/shyptr/nitrogql/internal/scalarmap"
	"github.com/shyptr/nitrogql/typesystem"
)

// SchemaArtifact is the rendered TypeScript source for the combined schema
// (§1's "emit, for the combined schema, a representation of every named
// type"; written to generate.schemaOutput).
type SchemaArtifact struct {
	Source string
}

// RenderSchema renders one TypeScript type alias or enum per named type in
// schema other than scalars, plus a `Scalars` mapping object when
// cfg.Generate.ExportScalarTypes is set (§4 SUPPLEMENTED FEATURES). Scalars
// get no declaration of their own; without that flag they are not rendered.
func RenderSchema(schema *typesystem.Schema, cfg *config.Config) SchemaArtifact {
	var sb strings.Builder

	if cfg.Generate.ExportScalarTypes {
		sb.WriteString(renderScalarsMapping(schema, cfg))
		sb.WriteString("\n\n")
	}

	for _, name := range schema.TypeOrder {
		t := schema.Types[name]
		switch v := t.(type) {
		case *typesystem.Scalar:
			continue // only listed in the Scalars mapping, never its own alias
		case *typesystem.Object:
			sb.WriteString(renderObjectLike(v.Name, v.Fields, v.FieldOrder, cfg))
		case *typesystem.Interface:
			sb.WriteString(renderObjectLike(v.Name, v.Fields, v.FieldOrder, cfg))
		case *typesystem.Union:
			sb.WriteString(renderUnion(v))
		case *typesystem.Enum:
			sb.WriteString(renderEnum(v))
		case *typesystem.InputObject:
			sb.WriteString(renderInputObject(v, cfg))
		}
		sb.WriteString("\n\n")
	}

	return SchemaArtifact{Source: strings.TrimRight(sb.String(), "\n") + "\n"}
}

func renderScalarsMapping(schema *typesystem.Schema, cfg *config.Config) string {
	var sb strings.Builder
	sb.WriteString("export type Scalars = {\n")
	for _, name := range schema.TypeOrder {
		if _, ok := schema.Types[name].(*typesystem.Scalar); !ok {
			continue
		}
		input := scalarmap.Map(cfg.Generate.ScalarTypes, name, scalarmap.ResolverInput)
		output := scalarmap.Map(cfg.Generate.ScalarTypes, name, scalarmap.ResolverOutput)
		fmt.Fprintf(&sb, "  %s: { input: %s; output: %s };\n", name, input, output)
	}
	sb.WriteString("};")
	return sb.String()
}

func renderObjectLike(name string, fields map[string]*typesystem.Field, order []string, cfg *config.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export type %s = {\n", name)
	fmt.Fprintf(&sb, "  __typename: '%s';\n", name)
	for _, fname := range order {
		f := fields[fname]
		if dep := f.Deprecation; dep != nil {
			fmt.Fprintf(&sb, "  /** @deprecated %s */\n", dep.Reason)
		}
		fmt.Fprintf(&sb, "  %s: %s;\n", fname, typeRefToTs(f.Type, cfg, scalarmap.ResolverOutput))
	}
	sb.WriteString("};")
	return sb.String()
}

func renderUnion(u *typesystem.Union) string {
	if len(u.Members) == 0 {
		return fmt.Sprintf("export type %s = never;", u.Name)
	}
	names := make([]string, len(u.Members))
	for i, m := range u.Members {
		names[i] = m.Name
	}
	return fmt.Sprintf("export type %s = %s;", u.Name, strings.Join(names, " | "))
}

func renderEnum(e *typesystem.Enum) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export enum %s {\n", e.Name)
	for _, name := range e.ValueOrder {
		v := e.Values[name]
		if dep := v.Deprecation; dep != nil {
			fmt.Fprintf(&sb, "  /** @deprecated %s */\n", dep.Reason)
		}
		fmt.Fprintf(&sb, "  %s = '%s',\n", name, name)
	}
	sb.WriteString("}")
	return sb.String()
}

func renderInputObject(io *typesystem.InputObject, cfg *config.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export type %s = {\n", io.Name)
	for _, name := range io.FieldOrder {
		f := io.Fields[name]
		optional := !f.Type.NonNull
		fmt.Fprintf(&sb, "  %s%s: %s;\n", name, ifStr(optional, "?"), typeRefToTs(f.Type, cfg, scalarmap.ResolverInput))
	}
	sb.WriteString("};")
	return sb.String()
}

func ifStr(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}

func typeRefToTs(ref typesystem.TypeRef, cfg *config.Config, site scalarmap.Site) tsType {
	var t tsType
	if ref.Elem != nil {
		t = &tsArray{Elem: typeRefToTs(*ref.Elem, cfg, site)}
	} else {
		t = &tsPrimitive{Code: scalarLeafOrName(ref.Named, cfg, site)}
	}
	if !ref.NonNull {
		t = &tsNullable{Inner: t}
	}
	return t
}

func scalarLeafOrName(name string, cfg *config.Config, site scalarmap.Site) string {
	if typesystem.IsBuiltinScalar(name) || hasScalarOverride(cfg, name) {
		return scalarmap.Map(cfg.Generate.ScalarTypes, name, site)
	}
	return name
}

func hasScalarOverride(cfg *config.Config, name string) bool {
	_, ok := cfg.Generate.ScalarTypes[name]
	return ok
}
