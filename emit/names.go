package emit

import "github.com/iancoleman/strcase"

// OperationTypeName derives the PascalCase result-type name for an
// operation, applying generate.name.operationResultTypeSuffix (§4
// SUPPLEMENTED FEATURES), the way jzeiders/graphql-go-gen's
// base.ToPascalCase feeds a "Query"/"Mutation"/"Subscription" suffix.
func OperationTypeName(operationName, resultSuffix string) string {
	return strcase.ToCamel(operationName) + resultSuffix
}

// VariablesTypeName derives the PascalCase variables-type name, applying
// generate.name.variablesTypeSuffix (default "Variables").
func VariablesTypeName(operationName, variablesSuffix string) string {
	return strcase.ToCamel(operationName) + variablesSuffix
}

// FragmentTypeName derives the PascalCase type name for a named fragment.
func FragmentTypeName(fragmentName string) string {
	return strcase.ToCamel(fragmentName) + "Fragment"
}
