package generator

import (
	"path/filepath"

	"github.com/blimu-dev/typegen/pkg/config"
	"github.com/blimu-dev/typegen/pkg/generator/jsonschema"
	"github.com/blimu-dev/typegen/pkg/generator/typescript"
)

// DefaultService creates a generator service with the built-in renderers
// registered.
func DefaultService() *Service {
	registry := NewRegistry()
	registry.Register(typescript.New())
	registry.Register(jsonschema.New())
	return NewService(registry)
}

// GenerateTypesOptions contains options for the convenience GenerateTypes
// function.
type GenerateTypesOptions struct {
	// ConfigPath is the path to the configuration file (optional).
	ConfigPath string

	// Fallback options when no config file is provided.
	InputKind   string // "openapi", "jsonschema", or "json"
	InputPath   string // Input file or, for OpenAPI, an HTTP(S) URL
	RootName    string // Root type name for schema and data inputs
	Type        string // Renderer type (e.g., "typescript")
	OutDir      string // Output directory
	PackageName string // Base name for generated files
}

// GenerateTypes is a convenience function for running generation with minimal
// configuration.
func GenerateTypes(opts GenerateTypesOptions) error {
	return DefaultService().Generate(GenerateOptions{
		ConfigPath: opts.ConfigPath,
		Fallback: FallbackOptions{
			InputKind:   opts.InputKind,
			InputPath:   opts.InputPath,
			RootName:    opts.RootName,
			Type:        opts.Type,
			OutDir:      opts.OutDir,
			PackageName: opts.PackageName,
		},
	})
}

// GenerateTypeScriptTypes is a convenience function specifically for
// TypeScript output from an OpenAPI document.
func GenerateTypeScriptTypes(spec, outDir, packageName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}
	return GenerateTypes(GenerateTypesOptions{
		InputKind:   config.InputOpenAPI,
		InputPath:   spec,
		Type:        "typescript",
		OutDir:      absOutDir,
		PackageName: packageName,
	})
}

// GenerateFromConfigFile is a convenience function for generating from a
// config file.
func GenerateFromConfigFile(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return DefaultService().GenerateFromConfig(cfg)
}
