// Package typegen turns schema-bearing inputs — OpenAPI specifications,
// standalone JSON Schema documents, and raw JSON data samples — into a
// reference-resolved, cycle-safe, deterministically ordered type graph, and
// renders that graph as TypeScript declarations or a JSON Schema document.
//
// Quick Start:
//
//	import "github.com/blimu-dev/typegen"
//
//	// Generate TypeScript declarations from an OpenAPI document
//	err := typegen.GenerateTypeScriptTypes(
//		"https://petstore3.swagger.io/api/v3/openapi.json",
//		"./generated",
//		"petstore",
//	)
//
// For direct access to the pipeline — ingestion adapters, graph
// construction, renderers — see the ingest, graph, and generator packages.
package typegen

import (
	"github.com/blimu-dev/typegen/pkg/generator"
)

// GenerateTypeScriptTypes generates a TypeScript declaration file from an
// OpenAPI specification.
//
// Parameters:
//   - spec: path to an OpenAPI document or an HTTP(S) URL
//   - outDir: output directory for the generated file
//   - packageName: base name of the generated file (packageName + ".ts")
func GenerateTypeScriptTypes(spec, outDir, packageName string) error {
	return generator.GenerateTypeScriptTypes(spec, outDir, packageName)
}

// Generate runs generation with full configuration options.
//
// Example:
//
//	err := typegen.Generate(typegen.Options{
//		InputKind: "json",
//		InputPath: "./sample.json",
//		RootName:  "Invoice",
//		Type:      "typescript",
//		OutDir:    "./generated",
//	})
func Generate(opts Options) error {
	return generator.GenerateTypes(generator.GenerateTypesOptions{
		ConfigPath:  opts.ConfigPath,
		InputKind:   opts.InputKind,
		InputPath:   opts.InputPath,
		RootName:    opts.RootName,
		Type:        opts.Type,
		OutDir:      opts.OutDir,
		PackageName: opts.PackageName,
	})
}

// Options contains options for the convenience Generate function.
type Options struct {
	// ConfigPath is the path to a YAML configuration file (optional).
	ConfigPath string

	// Fallback options when no config file is provided.
	InputKind   string // "openapi", "jsonschema", or "json"
	InputPath   string // Input file or, for OpenAPI, an HTTP(S) URL
	RootName    string // Root type name for schema and data inputs
	Type        string // Renderer type (e.g., "typescript")
	OutDir      string // Output directory
	PackageName string // Base name for generated files
}

// GenerateFromConfig generates outputs from a YAML configuration file.
func GenerateFromConfig(configPath string) error {
	return generator.GenerateFromConfigFile(configPath)
}
