// Command nitrogql is the CLI driver (ambient stack, out-of-core per §1):
// file discovery, config loading, and output writing live here; everything
// analytical is delegated to the core packages. Subcommand dispatch is a
// thin composition root using github.com/urfave/cli/v2 for flag/subcommand
// parsing, the way graphql-go-tools' federation example wires its own CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/shyptr/nitrogql/config"
	"github.com/shyptr/nitrogql/emit"
	nitroerrors "github.com/shyptr/nitrogql/errors"
	"github.com/shyptr/nitrogql/internal/builder"
	"github.com/shyptr/nitrogql/internal/checker"
	"github.com/shyptr/nitrogql/internal/extresolver"
	"github.com/shyptr/nitrogql/internal/log"
	"github.com/shyptr/nitrogql/internal/shape"
	"github.com/shyptr/nitrogql/typesystem"
)

func main() {
	app := &cli.App{
		Name:  "nitrogql",
		Usage: "validate GraphQL schemas/operations and generate typed TypeScript artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "graphql.config.yaml"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Commands: []*cli.Command{
			{Name: "check", Usage: "validate schema and operations without emitting artifacts", Action: runCheck},
			{Name: "generate", Usage: "validate and emit typed TypeScript artifacts", Action: runGenerate},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, log.Logger, error) {
	logger, err := log.New(c.Bool("verbose"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "building logger")
	}
	data, err := os.ReadFile(c.String("config"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading config file")
	}
	cfg, err := config.Load(data)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing config file")
	}
	return cfg, logger, nil
}

// readGlobs expands the glob patterns of a §6 config key into gqlparser
// *ast.Source values, concatenated in deterministic (sorted-per-pattern)
// order. Glob expansion is explicitly a collaborator concern (§1 Non-goals
// name it as out of the core); filepath.Glob is the standard-library
// equivalent since no pack example wires a third-party globbing library for
// this purpose (see DESIGN.md).
func readGlobs(patterns []string) ([]*ast.Source, error) {
	var sources []*ast.Source
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding glob %q", pattern)
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %q", path)
			}
			sources = append(sources, &ast.Source{Name: path, Input: string(data)})
		}
	}
	return sources, nil
}

func runCheck(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger.Infow("checking", "schema", cfg.Schema, "operations", cfg.Operations)

	_, _, _, diagnostics, err := analyze(cfg)
	if err != nil {
		return err
	}
	if len(diagnostics) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.Error())
		return cli.Exit("validation failed", 1)
	}
	fmt.Println("ok")
	return nil
}

func runGenerate(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger.Infow("generating", "mode", cfg.Generate.Mode)

	reg, schema, opDoc, diagnostics, err := analyze(cfg)
	if err != nil {
		return err
	}
	if len(diagnostics) > 0 {
		fmt.Fprintln(os.Stderr, diagnostics.Error())
		return cli.Exit("validation failed", 1)
	}

	schemaArtifact := emit.RenderSchema(schema, cfg)
	if cfg.Generate.SchemaOutput != "" {
		if err := os.WriteFile(cfg.Generate.SchemaOutput, []byte(schemaArtifact.Source), 0o644); err != nil {
			return errors.Wrap(err, "writing schema artifact")
		}
	}

	fragments := make(map[string]*ast.FragmentDefinition, len(opDoc.Fragments))
	for _, f := range opDoc.Fragments {
		fragments[f.Name] = f
	}
	opts := shape.Options{AllowUndefinedAsOptionalInput: cfg.Generate.AllowUndefinedAsOptionalInput}
	for _, op := range opDoc.Operations {
		if op.Name == "" {
			continue
		}
		result, vars := shape.DeriveOperation(reg, schema, op, fragments, opts)
		rawSource := ""
		if op.Position != nil && op.Position.Src != nil {
			rawSource = op.Position.Src.Input
		}
		artifact := emit.RenderOperation(op.Name, rawSource, result, vars, cfg)
		fmt.Println(artifact.Source)
	}

	return nil
}

// analyze runs C3-C7 against the files named by cfg.Schema/cfg.Operations:
// extension resolution, the builder, and both checkers, returning every
// accumulated diagnostic in pipeline order (schema errors, then operation
// errors, per §5 "Ordering").
func analyze(cfg *config.Config) (*nitroerrors.Registry, *typesystem.Schema, *ast.QueryDocument, nitroerrors.Errors, error) {
	reg := nitroerrors.NewRegistry()

	schemaSources, err := readGlobs(cfg.Schema)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	schemaDoc := &ast.SchemaDocument{}
	for _, src := range schemaSources {
		part, gqlErr := parser.ParseSchema(src)
		if gqlErr != nil {
			return nil, nil, nil, nil, errors.Wrap(gqlErr, "parsing schema")
		}
		schemaDoc.Schema = append(schemaDoc.Schema, part.Schema...)
		schemaDoc.SchemaExtension = append(schemaDoc.SchemaExtension, part.SchemaExtension...)
		schemaDoc.Directives = append(schemaDoc.Directives, part.Directives...)
		schemaDoc.Definitions = append(schemaDoc.Definitions, part.Definitions...)
		schemaDoc.Extensions = append(schemaDoc.Extensions, part.Extensions...)
	}

	merged, extErrs := extresolver.Resolve(reg, schemaDoc)
	schema := builder.Build(reg, merged)
	schemaErrs := checker.CheckSchema(schema)

	opSources, err := readGlobs(cfg.Operations)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	opDoc := &ast.QueryDocument{}
	for _, src := range opSources {
		part, gqlErr := parser.ParseQuery(src)
		if gqlErr != nil {
			return nil, nil, nil, nil, errors.Wrap(gqlErr, "parsing operations")
		}
		opDoc.Operations = append(opDoc.Operations, part.Operations...)
		opDoc.Fragments = append(opDoc.Fragments, part.Fragments...)
	}
	opErrs := checker.CheckOperations(reg, schema, opDoc)

	var all nitroerrors.Errors
	all = append(all, extErrs...)
	all = append(all, schemaErrs...)
	all = append(all, opErrs...)
	return reg, schema, opDoc, all, nil
}
