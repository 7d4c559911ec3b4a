package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typegen.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
input:
  kind: jsonschema
  path: ./schema.json
  rootName: Invoice
targets:
  - type: typescript
    outDir: ./out
    packageName: models
  - type: jsonschema
    outDir: ./out
strictComposition: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Input.Kind != InputJSONSchema || cfg.Input.RootName != "Invoice" {
		t.Errorf("input = %+v", cfg.Input)
	}
	if !cfg.StrictComposition {
		t.Errorf("strictComposition flag lost")
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("targets = %+v", cfg.Targets)
	}
	if !filepath.IsAbs(cfg.Targets[0].OutDir) || !filepath.IsAbs(cfg.Input.Path) {
		t.Errorf("relative paths were not absolutized: %+v", cfg)
	}
}

func TestLoadKeepsURLInput(t *testing.T) {
	path := writeConfig(t, `
input:
  kind: openapi
  path: https://example.com/openapi.json
targets:
  - type: typescript
    outDir: ./out
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Input.Path != "https://example.com/openapi.json" {
		t.Errorf("URL input was rewritten: %q", cfg.Input.Path)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing path", "input:\n  kind: json\ntargets:\n  - type: typescript\n    outDir: ./out\n"},
		{"bad kind", "input:\n  kind: xml\n  path: ./x\ntargets:\n  - type: typescript\n    outDir: ./out\n"},
		{"no targets", "input:\n  kind: json\n  path: ./x\n"},
		{"target missing outDir", "input:\n  kind: json\n  path: ./x\ntargets:\n  - type: typescript\n"},
	}

	for _, test := range tests {
		path := writeConfig(t, test.content)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: Load accepted an invalid config", test.name)
		}
	}
}
