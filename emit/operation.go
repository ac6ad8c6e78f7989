package emit

import (
	"fmt"
	"strings"

	"github.com/shyptr/nitrogql/config"
	"github.com/shyptr/nitrogql/internal/scalarmap"
	"github.com/shyptr/nitrogql/internal/shape"
)

// OperationArtifact is the rendered TypeScript source for one operation
// document (§1's "emit, for each operation document, a typed artifact").
type OperationArtifact struct {
	ResultTypeName    string
	VariablesTypeName string
	Source            string
}

// RenderOperation renders an operation's result type, variables type, and
// (depending on cfg.Generate.Mode) an embedded raw-document constant
// (§4 SUPPLEMENTED FEATURES "Loader mode raw-document embedding").
func RenderOperation(operationName, rawSource string, result shape.Shape, variables []shape.Variable, cfg *config.Config) OperationArtifact {
	resultName := OperationTypeName(operationName, cfg.Generate.Name.OperationResultTypeSuffix)
	variablesName := VariablesTypeName(operationName, cfg.Generate.Name.VariablesTypeSuffix)

	var sb strings.Builder
	fmt.Fprintf(&sb, "export type %s = %s;\n\n", variablesName, renderVariablesType(variables, cfg))
	fmt.Fprintf(&sb, "export type %s = %s;\n", resultName, shapeToTsType(result, cfg, scalarmap.OperationOutput).Render(""))

	if cfg.Generate.Mode.EmbedsDocument() {
		fmt.Fprintf(&sb, "\nexport const %sDocument = %s;\n", strings.ToLower(resultName[:1])+resultName[1:], rawDocumentLiteral(rawSource))
	}

	return OperationArtifact{ResultTypeName: resultName, VariablesTypeName: variablesName, Source: sb.String()}
}

func rawDocumentLiteral(raw string) string {
	escaped := strings.ReplaceAll(raw, "`", "\\`")
	return "`" + escaped + "`"
}

func renderVariablesType(variables []shape.Variable, cfg *config.Config) string {
	if len(variables) == 0 {
		return "{ [key: string]: never }"
	}
	fields := make([]*tsField, len(variables))
	for i, v := range variables {
		fields[i] = &tsField{Name: v.Name, Optional: v.Optional, Type: shapeToTsType(v.Shape, cfg, scalarmap.OperationInput)}
	}
	return (&tsObject{Fields: fields}).Render("")
}

// shapeToTsType converts a derived shape.Shape into the artifact-only
// tsType rendering sum, resolving scalar leaves through
// internal/scalarmap at the given usage site.
func shapeToTsType(s shape.Shape, cfg *config.Config, site scalarmap.Site) tsType {
	switch v := s.(type) {
	case *shape.Named:
		return &tsPrimitive{Code: scalarmap.Map(cfg.Generate.ScalarTypes, v.TypeName, site)}
	case *shape.StringLiteral:
		return &tsStringLiteral{Value: v.Value}
	case *shape.List:
		return &tsArray{Elem: shapeToTsType(v.Of, cfg, site)}
	case *shape.Nullable:
		return &tsNullable{Inner: shapeToTsType(v.Of, cfg, site)}
	case *shape.Object:
		return objectToTsType(v, cfg, site)
	case *shape.Branches:
		options := make([]tsType, len(v.Order))
		for i, name := range v.Order {
			options[i] = objectToTsType(v.ByTypename[name], cfg, site)
		}
		return &tsUnion{Options: options}
	default:
		return &tsPrimitive{Code: "unknown"}
	}
}

func objectToTsType(o *shape.Object, cfg *config.Config, site scalarmap.Site) tsType {
	fields := make([]*tsField, len(o.Fields))
	for i, f := range o.Fields {
		fields[i] = &tsField{Name: f.Name, Optional: f.Optional, Type: shapeToTsType(f.Shape, cfg, site)}
	}
	return &tsObject{Fields: fields}
}
