package emit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyptr/nitrogql/config"
	"github.com/shyptr/nitrogql/emit"
	"github.com/shyptr/nitrogql/internal/shape"
)

func TestRenderOperationProducesVariablesAndResultTypes(t *testing.T) {
	cfg := &config.Config{Generate: config.Generate{Name: config.DefaultNameSuffixes()}}
	result := &shape.Object{Fields: []shape.Field{
		{Name: "id", Shape: &shape.Named{TypeName: "ID"}},
		{Name: "name", Shape: &shape.Nullable{Of: &shape.Named{TypeName: "String"}}, Optional: false},
	}}
	vars := []shape.Variable{{Name: "id", Shape: &shape.Named{TypeName: "ID"}}}

	artifact := emit.RenderOperation("getUser", "query getUser { me { id name } }", result, vars, cfg)

	assert.Equal(t, "GetUserVariables", artifact.VariablesTypeName)
	assert.Equal(t, "GetUser", artifact.ResultTypeName)
	assert.Contains(t, artifact.Source, "export type GetUserVariables")
	assert.Contains(t, artifact.Source, "export type GetUser")
	assert.Contains(t, artifact.Source, "id: string;")
}

func TestRenderOperationEmbedsRawDocumentInLoaderMode(t *testing.T) {
	cfg := &config.Config{Generate: config.Generate{Name: config.DefaultNameSuffixes(), Mode: config.ModeWithLoaderTS5}}
	artifact := emit.RenderOperation("getUser", "query getUser { me { id } }", &shape.Object{}, nil, cfg)
	assert.Contains(t, artifact.Source, "Document = `query getUser { me { id } }`;")
}

func TestRenderOperationOmitsDocumentInStandaloneMode(t *testing.T) {
	cfg := &config.Config{Generate: config.Generate{Name: config.DefaultNameSuffixes(), Mode: config.ModeStandaloneTS4}}
	artifact := emit.RenderOperation("getUser", "query getUser { me { id } }", &shape.Object{}, nil, cfg)
	assert.NotContains(t, artifact.Source, "Document =")
}

func TestRenderOperationEmptyVariablesIsNeverRecord(t *testing.T) {
	cfg := &config.Config{Generate: config.Generate{Name: config.DefaultNameSuffixes()}}
	artifact := emit.RenderOperation("getUser", "", &shape.Object{}, nil, cfg)
	require.Contains(t, artifact.Source, "{ [key: string]: never }")
}
