package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/plugin"
	"github.com/shyptr/nitrogql/typesystem"
)

type addsDirective struct {
	plugin.Base
	text string
}

func (a addsDirective) SchemaAddition() string { return a.text }

type rejectsEverything struct {
	plugin.Base
	kind errors.Kind
}

func (r rejectsEverything) CheckSchema(*typesystem.Schema) errors.Errors {
	return errors.Errors{}.Add(r.kind, errors.BuiltinPosition, "rejected by plugin")
}

func TestBaseIsANoOp(t *testing.T) {
	b := plugin.Base{}
	assert.Equal(t, "", b.SchemaAddition())
	assert.Empty(t, b.CheckSchema(nil))
	types := plugin.ResolverOutputTypes{"User": nil}
	assert.Equal(t, types, b.TransformResolverOutputTypes(nil, types))
	assert.Nil(t, b.TransformDocumentForResolvers(nil))
}

func TestChainConcatenatesSchemaAdditionsInOrder(t *testing.T) {
	chain := plugin.Chain{
		addsDirective{text: "directive @a on FIELD\n"},
		addsDirective{text: "directive @b on FIELD\n"},
	}
	assert.Equal(t, "directive @a on FIELD\ndirective @b on FIELD\n", chain.SchemaAddition())
}

func TestChainAccumulatesCheckSchemaAcrossPlugins(t *testing.T) {
	chain := plugin.Chain{
		rejectsEverything{kind: errors.UnknownType},
		rejectsEverything{kind: errors.FieldNotFound},
	}
	errs := chain.CheckSchema(nil)
	require.Len(t, errs, 2)
	assert.Equal(t, errors.UnknownType, errs[0].Kind)
	assert.Equal(t, errors.FieldNotFound, errs[1].Kind)
}

func TestChainKeepsLastNonNilDocumentRewrite(t *testing.T) {
	first := &typesystem.Schema{TypeOrder: []string{"First"}}
	second := &typesystem.Schema{TypeOrder: []string{"Second"}}

	chain := plugin.Chain{
		rewritesTo{schema: first},
		plugin.Base{},
		rewritesTo{schema: second},
	}
	result := chain.TransformDocumentForResolvers(&typesystem.Schema{TypeOrder: []string{"Original"}})
	assert.Same(t, second, result)
}

type rewritesTo struct {
	plugin.Base
	schema *typesystem.Schema
}

func (r rewritesTo) TransformDocumentForResolvers(*typesystem.Schema) *typesystem.Schema {
	return r.schema
}
