package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(input, []byte(`{"orders": [{"sku": "a", "qty": 1}], "total": 9.5}`), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	err := DefaultService().Generate(GenerateOptions{
		Fallback: FallbackOptions{
			InputKind: "json",
			InputPath: input,
			RootName:  "Invoice",
			Type:      "typescript",
			OutDir:    outDir,
		},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(outDir, "types.ts"))
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	for _, want := range []string{
		"export interface Order {",
		"sku: string;",
		"qty: number;",
		"export interface Invoice {",
		"orders: Array<Order>;",
		"total: number;",
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("output missing %q:\n%s", want, content)
		}
	}
}

func TestServiceRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(input, []byte(`{"a": 1}`), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	err := DefaultService().Generate(GenerateOptions{
		Fallback: FallbackOptions{
			InputKind: "json",
			InputPath: input,
			Type:      "cobol",
			OutDir:    filepath.Join(dir, "out"),
		},
	})
	if err == nil || !strings.Contains(err.Error(), "unsupported target type") {
		t.Fatalf("error = %v, expected unsupported target type", err)
	}
}

func TestServiceRequiresCompleteFallback(t *testing.T) {
	err := DefaultService().Generate(GenerateOptions{})
	if err == nil {
		t.Fatalf("Generate accepted empty options")
	}
}
