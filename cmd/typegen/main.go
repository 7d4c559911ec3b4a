package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	cli "github.com/blimu-dev/typegen/internal/cli"
)

func main() {
	root := &cobra.Command{
		Use:   "typegen",
		Short: "Generate type declarations from OpenAPI specs, JSON Schemas, or JSON samples",
	}

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var configPath string
	var fromOpenAPI string
	var fromJSONSchema string
	var fromJSONData string
	var rootName string
	var typ string
	var outDir string
	var packageName string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate output files from an input document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cli.RunGenerateParams{
				ConfigPath:     configPath,
				FromOpenAPI:    fromOpenAPI,
				FromJSONSchema: fromJSONSchema,
				FromJSONData:   fromJSONData,
				RootName:       rootName,
				Type:           typ,
				OutDir:         outDir,
				PackageName:    packageName,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to typegen.yaml config")
	// Fallback single-target flags
	cmd.Flags().StringVar(&fromOpenAPI, "from-openapi", "", "OpenAPI spec file or HTTP(S) URL")
	cmd.Flags().StringVar(&fromJSONSchema, "from-json-schema", "", "JSON Schema document file")
	cmd.Flags().StringVar(&fromJSONData, "from-json", "", "Raw JSON data sample file")
	cmd.Flags().StringVar(&rootName, "root", "", "Root type name for schema and data inputs")
	cmd.Flags().StringVar(&typ, "type", "typescript", "Output type (typescript, jsonschema)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&packageName, "package-name", "", "Base name for generated files")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI spec",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI spec file (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
