// Package config implements the recognized configuration surface (§6):
// schema/operation globs and the generate.* knobs, loaded from YAML using
// gopkg.in/yaml.v2.
package config

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Mode is generate.mode from §6: controls whether operation artifacts embed
// the raw document text. The emitter does not choose a file extension by
// mode.
type Mode string

const (
	ModeWithLoaderTS5  Mode = "with-loader-ts-5.0"
	ModeWithLoaderTS4  Mode = "with-loader-ts-4.0"
	ModeStandaloneTS4  Mode = "standalone-ts-4.0"
)

// EmbedsDocument reports whether this mode embeds the raw operation source
// text as a runtime value (§4 SUPPLEMENTED FEATURES, "Loader mode raw
// document embedding").
func (m Mode) EmbedsDocument() bool {
	return m == ModeWithLoaderTS5 || m == ModeWithLoaderTS4
}

// NameSuffixes configures generate.name.* (§4 SUPPLEMENTED FEATURES).
type NameSuffixes struct {
	VariablesTypeSuffix     string `yaml:"variablesTypeSuffix"`
	OperationResultTypeSuffix string `yaml:"operationResultTypeSuffix"`
}

// DefaultNameSuffixes matches the original's TypePrinterOptions defaults.
func DefaultNameSuffixes() NameSuffixes {
	return NameSuffixes{VariablesTypeSuffix: "Variables", OperationResultTypeSuffix: ""}
}

// ScalarTypeConfig is one entry of generate.scalarTypes: either a bare
// target-type string, or a per-usage-site record (§6).
type ScalarTypeConfig struct {
	// Flat is set when the YAML value was a plain string.
	Flat string
	// Send/Receive is the {send, receive} shorthand record.
	Send    string
	Receive string
	// ResolverInput/ResolverOutput/OperationInput/OperationOutput is the
	// fully-expanded per-usage-site record.
	ResolverInput   string
	ResolverOutput  string
	OperationInput  string
	OperationOutput string
}

func (s *ScalarTypeConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var flat string
	if err := unmarshal(&flat); err == nil {
		s.Flat = flat
		return nil
	}
	var record struct {
		Send            string `yaml:"send"`
		Receive         string `yaml:"receive"`
		ResolverInput   string `yaml:"resolverInput"`
		ResolverOutput  string `yaml:"resolverOutput"`
		OperationInput  string `yaml:"operationInput"`
		OperationOutput string `yaml:"operationOutput"`
	}
	if err := unmarshal(&record); err != nil {
		return err
	}
	s.Send, s.Receive = record.Send, record.Receive
	s.ResolverInput, s.ResolverOutput = record.ResolverInput, record.ResolverOutput
	s.OperationInput, s.OperationOutput = record.OperationInput, record.OperationOutput
	return nil
}

// Generate is the generate.* config block.
type Generate struct {
	Mode                          Mode                        `yaml:"mode"`
	SchemaOutput                  string                      `yaml:"schemaOutput"`
	ScalarTypes                   map[string]ScalarTypeConfig `yaml:"scalarTypes"`
	Name                          NameSuffixes                `yaml:"name"`
	AllowUndefinedAsOptionalInput bool                        `yaml:"allowUndefinedAsOptionalInput"`
	ExportScalarTypes             bool                        `yaml:"exportScalarTypes"`
}

// Config is the complete recognized configuration surface (§6).
type Config struct {
	Schema     []string `yaml:"schema"`
	Operations []string `yaml:"operations"`
	Generate   Generate `yaml:"generate"`
}

// Load parses a YAML config buffer and fills in documented defaults (§6 /
// §4 SUPPLEMENTED FEATURES).
func Load(data []byte) (*Config, error) {
	cfg := &Config{Generate: Generate{Name: DefaultNameSuffixes(), Mode: ModeStandaloneTS4}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if cfg.Generate.Name.VariablesTypeSuffix == "" && cfg.Generate.Name.OperationResultTypeSuffix == "" {
		cfg.Generate.Name = DefaultNameSuffixes()
	}
	return cfg, nil
}
