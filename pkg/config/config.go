// Package config loads and validates the YAML run configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Input source kinds.
const (
	InputOpenAPI    = "openapi"
	InputJSONSchema = "jsonschema"
	InputJSONData   = "json"
)

// Config represents the complete configuration for a generation run.
type Config struct {
	// Input names the source document and how to interpret it.
	Input Input `yaml:"input"`
	// Targets lists the output renderers to run.
	Targets []Target `yaml:"targets"`
	// StrictComposition makes merge-all property clashes fatal instead of
	// resolving them later-member-wins.
	StrictComposition bool `yaml:"strictComposition"`
}

// Input names a source document.
type Input struct {
	// Kind is one of "openapi", "jsonschema", "json".
	Kind string `yaml:"kind"`
	// Path is a local file path or, for OpenAPI inputs, an HTTP(S) URL.
	Path string `yaml:"path"`
	// RootName names the root declaration for jsonschema and json inputs.
	RootName string `yaml:"rootName"`
}

// Target represents configuration for a single output renderer.
type Target struct {
	Type   string `yaml:"type"`
	OutDir string `yaml:"outDir"`
	// PackageName is used by renderers that emit a named unit.
	PackageName string `yaml:"packageName"`
	// WithValidation toggles emission of constraint annotations where the
	// renderer supports them.
	WithValidation bool `yaml:"withValidation"`
	// Header is prepended verbatim to every generated file.
	Header string `yaml:"header"`
}

var inputKinds = map[string]bool{
	InputOpenAPI:    true,
	InputJSONSchema: true,
	InputJSONData:   true,
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.absolutize()
	return &cfg, nil
}

// Validate checks required fields and enumerated values.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return errors.New("config.input.path is required")
	}
	if !inputKinds[c.Input.Kind] {
		return fmt.Errorf("config.input.kind %q is not one of openapi, jsonschema, json", c.Input.Kind)
	}
	if len(c.Targets) == 0 {
		return errors.New("config.targets must list at least one renderer")
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Type == "" || t.OutDir == "" {
			return fmt.Errorf("targets[%d] missing required fields (type, outDir)", i)
		}
	}
	return nil
}

func (c *Config) absolutize() {
	for i := range c.Targets {
		t := &c.Targets[i]
		if !filepath.IsAbs(t.OutDir) {
			abs, _ := filepath.Abs(t.OutDir)
			t.OutDir = abs
		}
	}
	// Do not absolutize when the input is an HTTP(S) URL.
	if u, err := url.Parse(c.Input.Path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return
	}
	if !filepath.IsAbs(c.Input.Path) {
		abs, _ := filepath.Abs(c.Input.Path)
		c.Input.Path = abs
	}
}
