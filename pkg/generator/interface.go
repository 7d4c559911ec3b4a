// Package generator dispatches a finished type graph to output renderers and
// writes their files to disk.
package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blimu-dev/typegen/pkg/config"
	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ingest"
	"github.com/blimu-dev/typegen/pkg/ir"
)

// Renderer defines the interface for output renderers.
type Renderer interface {
	// Render produces the output files for a generation context. Renderers
	// never touch the filesystem; the service writes the returned files.
	Render(ctx *ir.GenerationContext) ([]ir.File, error)
	// Type returns the type identifier for this renderer (e.g., "typescript").
	Type() string
}

// Registry manages available renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates a new renderer registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

// Register adds a renderer to the registry.
func (r *Registry) Register(ren Renderer) {
	r.renderers[ren.Type()] = ren
}

// Get retrieves a renderer by type.
func (r *Registry) Get(renType string) (Renderer, bool) {
	ren, exists := r.renderers[renType]
	return ren, exists
}

// AvailableTypes returns all registered renderer types.
func (r *Registry) AvailableTypes() []string {
	types := make([]string, 0, len(r.renderers))
	for t := range r.renderers {
		types = append(types, t)
	}
	return types
}

// GenerateOptions contains options for a generation run.
type GenerateOptions struct {
	ConfigPath string
	Fallback   FallbackOptions
}

// FallbackOptions describe a single-target run when no config file is given.
type FallbackOptions struct {
	InputKind   string
	InputPath   string
	RootName    string
	Type        string
	OutDir      string
	PackageName string
}

// Service provides high-level generation functionality.
type Service struct {
	registry *Registry
}

// NewService creates a generator service with a custom registry.
func NewService(registry *Registry) *Service {
	return &Service{registry: registry}
}

// Generate runs generation based on the provided options.
func (s *Service) Generate(opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		if opts.Fallback.InputKind == "" || opts.Fallback.InputPath == "" ||
			opts.Fallback.Type == "" || opts.Fallback.OutDir == "" {
			return fmt.Errorf("either a config path or all fallback options must be provided")
		}
		cfg = &config.Config{
			Input: config.Input{
				Kind:     opts.Fallback.InputKind,
				Path:     opts.Fallback.InputPath,
				RootName: opts.Fallback.RootName,
			},
			Targets: []config.Target{
				{
					Type:        opts.Fallback.Type,
					OutDir:      opts.Fallback.OutDir,
					PackageName: opts.Fallback.PackageName,
				},
			},
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	} else {
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
	}

	return s.GenerateFromConfig(cfg)
}

// GenerateFromConfig ingests the input, builds the type graph once, and runs
// every configured target against it.
func (s *Service) GenerateFromConfig(cfg *config.Config) error {
	doc, err := loadDocument(cfg.Input)
	if err != nil {
		return err
	}

	typeGraph, operations, err := graph.Build(doc, graph.Options{
		StrictComposition: cfg.StrictComposition,
	})
	if err != nil {
		return err
	}

	for _, target := range cfg.Targets {
		renderer, exists := s.registry.Get(target.Type)
		if !exists {
			return fmt.Errorf("unsupported target type: %s", target.Type)
		}

		files, err := renderer.Render(&ir.GenerationContext{
			Graph:      typeGraph,
			Operations: operations,
			Config: ir.RenderConfig{
				PackageName:    target.PackageName,
				WithValidation: target.WithValidation,
				Header:         target.Header,
			},
		})
		if err != nil {
			return err
		}

		if err := writeFiles(target.OutDir, files); err != nil {
			return fmt.Errorf("write output for target %s: %w", target.Type, err)
		}
	}
	return nil
}

// GetRegistry returns the renderer registry.
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// loadDocument dispatches to the ingestion adapter named by the input kind.
func loadDocument(in config.Input) (*ir.Document, error) {
	switch in.Kind {
	case config.InputOpenAPI:
		doc, err := ingest.LoadOpenAPI(in.Path)
		if err != nil {
			return nil, err
		}
		return ingest.FromOpenAPI(doc)
	case config.InputJSONSchema:
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, err
		}
		return ingest.FromJSONSchema(data, in.RootName)
	case config.InputJSONData:
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, err
		}
		return ingest.FromJSONData(data, in.RootName)
	default:
		return nil, fmt.Errorf("unsupported input kind: %s", in.Kind)
	}
}

func writeFiles(outDir string, files []ir.File) error {
	for _, f := range files {
		path := filepath.Join(outDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
