// Package scalarmap resolves generate.scalarTypes (§6) into the concrete
// target-language type string for a given scalar name and usage site,
// expanding the {send, receive} shorthand into the four-way
// {resolverInput, resolverOutput, operationInput, operationOutput} record
// the emitter actually consults.
package scalarmap

import "github.com/shyptr/nitrogql/config"

// Site names one of the four usage sites a scalar mapping may distinguish.
type Site int

const (
	ResolverInput Site = iota
	ResolverOutput
	OperationInput
	OperationOutput
)

// defaultScalarTargets are the built-in scalar's default TypeScript
// mappings when no generate.scalarTypes override applies.
var defaultScalarTargets = map[string]string{
	"Int":     "number",
	"Float":   "number",
	"String":  "string",
	"Boolean": "boolean",
	"ID":      "string",
}

// Map resolves the target type string for scalar name at site, consulting
// cfg's overrides, falling back to the built-in defaults, and finally to
// `unknown` for an unmapped custom scalar.
func Map(cfg map[string]config.ScalarTypeConfig, name string, site Site) string {
	if override, ok := cfg[name]; ok {
		if override.Flat != "" {
			return override.Flat
		}
		switch site {
		case ResolverInput:
			if override.ResolverInput != "" {
				return override.ResolverInput
			}
			if override.Send != "" {
				return override.Send
			}
		case ResolverOutput:
			if override.ResolverOutput != "" {
				return override.ResolverOutput
			}
			if override.Receive != "" {
				return override.Receive
			}
		case OperationInput:
			if override.OperationInput != "" {
				return override.OperationInput
			}
			if override.Send != "" {
				return override.Send
			}
		case OperationOutput:
			if override.OperationOutput != "" {
				return override.OperationOutput
			}
			if override.Receive != "" {
				return override.Receive
			}
		}
	}
	if target, ok := defaultScalarTargets[name]; ok {
		return target
	}
	return "unknown"
}
