package importresolver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/importresolver"
	"github.com/shyptr/nitrogql/internal/log"
)

func TestParseImportsWildcard(t *testing.T) {
	body := "#import *, \"./fragments.graphql\"\nquery Q { id }"
	imports := importresolver.ParseImports(errors.NewRegistry(), 0, body)
	require.Len(t, imports, 1)
	assert.True(t, imports[0].Target.Wildcard)
	assert.Equal(t, "./fragments.graphql", imports[0].Path)
}

func TestParseImportsExplicitNamesWithFrom(t *testing.T) {
	body := "#import UserFields, PostFields from \"./fragments.graphql\"\nquery Q { id }"
	imports := importresolver.ParseImports(errors.NewRegistry(), 0, body)
	require.Len(t, imports, 1)
	assert.False(t, imports[0].Target.Wildcard)
	assert.Equal(t, []string{"UserFields", "PostFields"}, imports[0].Target.Names)
}

func TestParseImportsStopsAtFirstExecutableLine(t *testing.T) {
	body := "query Q { id }\n#import *, \"./late.graphql\""
	imports := importresolver.ParseImports(errors.NewRegistry(), 0, body)
	assert.Empty(t, imports, "import lines after the first executable definition must be ignored")
}

func TestParseImportsMultipleLines(t *testing.T) {
	body := "#import A, \"./a.graphql\"\n#import B, \"./b.graphql\"\nquery Q { id }"
	imports := importresolver.ParseImports(errors.NewRegistry(), 0, body)
	require.Len(t, imports, 2)
	assert.Equal(t, "./a.graphql", imports[0].Path)
	assert.Equal(t, "./b.graphql", imports[1].Path)
}

type fakeResolver struct {
	sources map[string]*importresolver.Source
}

func (f *fakeResolver) Resolve(fromPath, path string) (string, *importresolver.Source, error) {
	canonical := path
	src, ok := f.sources[path]
	if !ok {
		return "", nil, fmt.Errorf("no such fragment file %q", path)
	}
	return canonical, src, nil
}

func TestFlattenAppliesTargetFilterAndBreaksCycles(t *testing.T) {
	reg := errors.NewRegistry()

	shared := &importresolver.Source{
		Document: &ast.QueryDocument{
			Fragments: ast.FragmentDefinitionList{
				{Name: "UserFields"},
				{Name: "PostFields"},
			},
		},
		Imports: []importresolver.Import{
			{Target: importresolver.ImportTarget{Wildcard: true}, Path: "root.graphql"}, // cycle back to root
		},
	}

	root := &importresolver.Source{
		Document: &ast.QueryDocument{
			Operations: ast.OperationList{{Name: "Q"}},
		},
		Imports: []importresolver.Import{
			{Target: importresolver.ImportTarget{Names: []string{"UserFields"}}, Path: "shared.graphql"},
		},
	}

	resolver := &fakeResolver{sources: map[string]*importresolver.Source{
		"shared.graphql": shared,
		"root.graphql":   root,
	}}

	flattened, errs := importresolver.Flatten(reg, log.Nop(), resolver, "root.graphql", root)
	require.Empty(t, errs)
	require.Len(t, flattened.Fragments, 1, "only the explicitly named fragment should be pulled in")
	assert.Equal(t, "UserFields", flattened.Fragments[0].Name)
}

func TestFlattenReportsUnresolvableImportAsFileNotFound(t *testing.T) {
	reg := errors.NewRegistry()
	root := &importresolver.Source{
		Document: &ast.QueryDocument{},
		Imports: []importresolver.Import{
			{Target: importresolver.ImportTarget{Wildcard: true}, Path: "missing.graphql", Position: errors.BuiltinPosition},
		},
	}
	resolver := &fakeResolver{sources: map[string]*importresolver.Source{}}

	_, errs := importresolver.Flatten(reg, log.Nop(), resolver, "root.graphql", root)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.FileNotFound, errs[0].Kind)
}
