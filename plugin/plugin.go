// Package plugin defines the rewrite-hook surface (C9, §4.9): pure,
// deterministic transforms composed left-to-right over the schema and the
// derived shapes the emitter walks: a small ordered chain of hooks, but
// per §4.9, every hook here is a total function with no hidden state —
// there is no request context or execution-time behavior to thread through.
package plugin

import (
	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/shape"
	"github.com/shyptr/nitrogql/typesystem"
)

// ResolverOutputTypes is the per-type-name map of shapes the emitter
// renders for schema-side resolver output (the map transform_resolver_
// output_types rewrites).
type ResolverOutputTypes map[string]shape.Shape

// Plugin is the closed hook surface from §4.9. Every method is optional:
// implementations may embed Base and override only what they need.
type Plugin interface {
	// SchemaAddition returns source text appended to the schema before
	// parsing, typically declaring plugin-specific directives.
	SchemaAddition() string
	// CheckSchema runs additional schema-level validation.
	CheckSchema(schema *typesystem.Schema) errors.Errors
	// TransformResolverOutputTypes rewrites the per-type shapes the
	// emitter will output for the schema artifact.
	TransformResolverOutputTypes(schema *typesystem.Schema, types ResolverOutputTypes) ResolverOutputTypes
	// TransformDocumentForResolvers rewrites the schema document the
	// emitter walks; returning nil leaves the document unchanged.
	TransformDocumentForResolvers(schema *typesystem.Schema) *typesystem.Schema
}

// Base is an embeddable no-op implementation so a Plugin need only
// override the hooks it cares about.
type Base struct{}

func (Base) SchemaAddition() string { return "" }
func (Base) CheckSchema(*typesystem.Schema) errors.Errors { return nil }
func (Base) TransformResolverOutputTypes(_ *typesystem.Schema, types ResolverOutputTypes) ResolverOutputTypes {
	return types
}
func (Base) TransformDocumentForResolvers(*typesystem.Schema) *typesystem.Schema { return nil }

var _ Plugin = Base{}

// Chain composes plugins left-to-right (§4.9 "Plugins are composed
// left-to-right").
type Chain []Plugin

// SchemaAddition concatenates every plugin's addition in order.
func (c Chain) SchemaAddition() string {
	var out string
	for _, p := range c {
		out += p.SchemaAddition()
	}
	return out
}

// CheckSchema runs every plugin's check and accumulates all diagnostics.
func (c Chain) CheckSchema(schema *typesystem.Schema) errors.Errors {
	var errs errors.Errors
	for _, p := range c {
		errs = append(errs, p.CheckSchema(schema)...)
	}
	return errs
}

// TransformResolverOutputTypes threads types through each plugin in order.
func (c Chain) TransformResolverOutputTypes(schema *typesystem.Schema, types ResolverOutputTypes) ResolverOutputTypes {
	for _, p := range c {
		types = p.TransformResolverOutputTypes(schema, types)
	}
	return types
}

// TransformDocumentForResolvers threads the schema through each plugin,
// keeping the last non-nil rewrite.
func (c Chain) TransformDocumentForResolvers(schema *typesystem.Schema) *typesystem.Schema {
	for _, p := range c {
		if rewritten := p.TransformDocumentForResolvers(schema); rewritten != nil {
			schema = rewritten
		}
	}
	return schema
}
