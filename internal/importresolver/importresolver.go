// Package importresolver implements the operation #import resolver (C5,
// §4.3): it flattens a root operation document and its transitively imported
// fragment files into one document, walking import declarations the way a
// preprocessor walks includes, generalized to cross-file fragment imports
// instead of a single buffer.
package importresolver

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/log"
)

// ImportTarget is either a wildcard ("*") or an explicit fragment-name list.
type ImportTarget struct {
	Wildcard bool
	Names    []string
}

// Import is one `#import TARGETS, "PATH"` (or `... from "PATH"`) directive.
type Import struct {
	Target   ImportTarget
	Path     string
	Position errors.Position
}

// Source bundles a parsed operation document with the import lines that
// preceded its first executable definition (§6 "Operation imports").
type Source struct {
	Document *ast.QueryDocument
	Imports  []Import
}

// Resolver maps a canonical path (resolved relative to the importing file)
// to its parsed Source. Implementations live outside the core (driver-level
// file I/O, §1 Non-goals); the core only consumes this capability.
type Resolver interface {
	Resolve(fromPath, path string) (canonicalPath string, src *Source, err error)
}

// Flatten runs the depth-first import traversal from §4.3 starting at
// rootPath/root, appending every reachable fragment definition (subject to
// each import's target filter) to the root document's definition list.
// Cycles are broken by the visited set; re-visiting a path is a no-op.
func Flatten(reg *errors.Registry, logger log.Logger, resolver Resolver, rootPath string, root *Source) (*ast.QueryDocument, errors.Errors) {
	var errs errors.Errors
	visited := map[string]bool{rootPath: true}

	out := &ast.QueryDocument{
		Operations: append(ast.OperationList{}, root.Document.Operations...),
		Fragments:  append(ast.FragmentDefinitionList{}, root.Document.Fragments...),
	}

	var walk func(fromPath string, src *Source)
	walk = func(fromPath string, src *Source) {
		for _, imp := range src.Imports {
			canonical, imported, err := resolver.Resolve(fromPath, imp.Path)
			if err != nil {
				errs = errs.Add(errors.FileNotFound, imp.Position,
					fmt.Sprintf("cannot resolve import %q: %v", imp.Path, err))
				continue
			}
			if visited[canonical] {
				logger.Debugw("import cycle broken", "path", canonical)
				continue
			}
			visited[canonical] = true

			for _, frag := range imported.Document.Fragments {
				if !importMatches(imp.Target, frag.Name) {
					continue
				}
				out.Fragments = append(out.Fragments, frag)
			}

			// Recurse into the newly visited document's own imports before
			// processing this source's remaining imports (§4.3 "Recurse
			// into imports of the newly visited document before processing
			// its siblings").
			walk(canonical, imported)
		}
	}

	walk(rootPath, root)

	return out, errs
}

func importMatches(target ImportTarget, name string) bool {
	if target.Wildcard {
		return true
	}
	for _, n := range target.Names {
		if n == name {
			return true
		}
	}
	return false
}

// importLineRE-free hand parser: matches
//
//	#import Foo, Bar, "./path.graphql"
//	#import Foo, Bar from "./path.graphql"
//	#import *, "./path.graphql"
//
// A small hand-rolled scanner is used instead of regexp so that malformed
// lines fail closed (are simply not recognized as imports) rather than
// partially matching.
func parseImportLine(line string, reg *errors.Registry, pos errors.Position) (Import, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#"))
	if !strings.HasPrefix(line, "import") {
		return Import{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "import"))

	quote := strings.LastIndex(rest, "\"")
	if quote < 0 {
		return Import{}, false
	}
	openQuote := strings.LastIndex(rest[:quote], "\"")
	if openQuote < 0 {
		return Import{}, false
	}
	path := rest[openQuote+1 : quote]
	head := strings.TrimSpace(rest[:openQuote])
	head = strings.TrimSuffix(head, "from")
	head = strings.TrimSuffix(strings.TrimSpace(head), ",")
	head = strings.TrimSpace(head)

	if head == "*" {
		return Import{Target: ImportTarget{Wildcard: true}, Path: path, Position: pos}, true
	}
	var names []string
	for _, n := range strings.Split(head, ",") {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	return Import{Target: ImportTarget{Names: names}, Path: path, Position: pos}, true
}

// ParseImports scans a raw operation-file buffer for leading `#import` comment
// lines (§6: "Multiple import lines may appear; they must precede the first
// executable definition in the file"). It stops at the first non-comment,
// non-blank line.
func ParseImports(reg *errors.Registry, fileIndex errors.FileIndex, body string) []Import {
	var imports []Import
	lines := strings.Split(body, "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}
		pos := errors.Position{FileIndex: fileIndex, Line: i + 1, Column: 1}
		if imp, ok := parseImportLine(line, reg, pos); ok {
			imports = append(imports, imp)
			continue
		}
		// A non-import comment line; keep scanning for more imports.
	}
	return imports
}
