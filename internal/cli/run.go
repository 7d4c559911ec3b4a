// Package cli wires command-line parameters into the generator service.
package cli

import (
	"errors"

	"github.com/blimu-dev/typegen/pkg/config"
	"github.com/blimu-dev/typegen/pkg/generator"
	"github.com/blimu-dev/typegen/pkg/ingest"
)

// RunGenerateParams carry the generate command's flags.
type RunGenerateParams struct {
	ConfigPath string

	// Input flags; exactly one must be set when no config file is given.
	FromOpenAPI    string
	FromJSONSchema string
	FromJSONData   string

	RootName    string
	Type        string
	OutDir      string
	PackageName string
}

// RunGenerate executes a generation run from CLI flags.
func RunGenerate(p RunGenerateParams) error {
	service := generator.DefaultService()

	if p.ConfigPath != "" {
		if p.FromOpenAPI != "" || p.FromJSONSchema != "" || p.FromJSONData != "" {
			return errors.New("--config cannot be combined with input flags")
		}
		return service.Generate(generator.GenerateOptions{ConfigPath: p.ConfigPath})
	}

	kind, path, err := pickInput(p)
	if err != nil {
		return err
	}
	if p.OutDir == "" {
		return errors.New("--out is required")
	}
	typ := p.Type
	if typ == "" {
		typ = "typescript"
	}

	return service.Generate(generator.GenerateOptions{
		Fallback: generator.FallbackOptions{
			InputKind:   kind,
			InputPath:   path,
			RootName:    p.RootName,
			Type:        typ,
			OutDir:      p.OutDir,
			PackageName: p.PackageName,
		},
	})
}

// pickInput enforces that exactly one input flag was given.
func pickInput(p RunGenerateParams) (kind, path string, err error) {
	set := 0
	if p.FromOpenAPI != "" {
		set++
		kind, path = config.InputOpenAPI, p.FromOpenAPI
	}
	if p.FromJSONSchema != "" {
		set++
		kind, path = config.InputJSONSchema, p.FromJSONSchema
	}
	if p.FromJSONData != "" {
		set++
		kind, path = config.InputJSONData, p.FromJSONData
	}
	if set != 1 {
		return "", "", errors.New("exactly one of --from-openapi, --from-json-schema, --from-json must be provided")
	}
	return kind, path, nil
}

// RunValidate loads and validates an OpenAPI document without generating.
func RunValidate(input string) error {
	return ingest.ValidateOpenAPI(input)
}
