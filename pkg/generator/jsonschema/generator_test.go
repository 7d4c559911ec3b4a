package jsonschema

import (
	"strings"
	"testing"

	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ingest"
	"github.com/blimu-dev/typegen/pkg/ir"
)

const sourceSchema = `{
    "$defs": {
        "Address": {
            "type": "object",
            "properties": {
                "street": {"type": "string", "minLength": 1},
                "city": {"type": "string"}
            },
            "required": ["street", "city"]
        },
        "Person": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "nickname": {"type": ["string", "null"]},
                "address": {"$ref": "#/$defs/Address"},
                "friends": {
                    "type": "array",
                    "items": {"$ref": "#/$defs/Person"}
                }
            },
            "required": ["name", "address"]
        }
    },
    "$ref": "#/$defs/Person"
}`

func buildFromSchema(t *testing.T, data []byte) *ir.GenerationContext {
	t.Helper()
	doc, err := ingest.FromJSONSchema(data, "Root")
	if err != nil {
		t.Fatalf("FromJSONSchema returned error: %v", err)
	}
	g, ops, err := graph.Build(doc, graph.Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return &ir.GenerationContext{Graph: g, Operations: ops}
}

func TestRenderEmissionOrder(t *testing.T) {
	ctx := buildFromSchema(t, []byte(sourceSchema))
	files, err := New().Render(ctx)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(files) != 1 || files[0].Path != "schema.json" {
		t.Fatalf("files = %+v, expected a single schema.json", files)
	}

	content := files[0].Content
	// Address has no dependencies and must be emitted before Person.
	if strings.Index(content, `"Address"`) > strings.Index(content, `"Person"`) {
		t.Errorf("dependency Address emitted after Person")
	}
	if !strings.Contains(content, `"$ref": "#/$defs/Address"`) {
		t.Errorf("reference not rendered as a $defs pointer:\n%s", content)
	}
}

func TestRenderReingestRoundTrip(t *testing.T) {
	ctx := buildFromSchema(t, []byte(sourceSchema))
	files, err := New().Render(ctx)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	// Feeding the output back through the pipeline must reproduce the same
	// graph: same names, same order, same required sets.
	doc, err := ingest.FromJSONSchema([]byte(files[0].Content), "Reingested")
	if err != nil {
		t.Fatalf("re-ingest returned error: %v", err)
	}
	g2, _, err := graph.Build(doc, graph.Options{})
	if err != nil {
		t.Fatalf("re-ingest Build returned error: %v", err)
	}

	if len(g2.Order) != len(ctx.Graph.Order) {
		t.Fatalf("node count changed after round trip: %v vs %v", ctx.Graph.Order, g2.Order)
	}
	for i, name := range ctx.Graph.Order {
		if g2.Order[i] != name {
			t.Fatalf("order drifted after round trip: %v vs %v", ctx.Graph.Order, g2.Order)
		}
		first, _ := ctx.Graph.Lookup(name)
		second, _ := g2.Lookup(name)
		if first.Node.Kind != second.Node.Kind {
			t.Errorf("%s changed kind: %s vs %s", name, first.Node.Kind, second.Node.Kind)
		}
		if len(first.Node.Properties) != len(second.Node.Properties) {
			t.Errorf("%s changed property count", name)
			continue
		}
		for j := range first.Node.Properties {
			a, b := first.Node.Properties[j], second.Node.Properties[j]
			if a.Name != b.Name || a.Required != b.Required {
				t.Errorf("%s property %s drifted: %+v vs %+v", name, a.Name, a, b)
			}
		}
	}
}

func TestRenderHeaderComment(t *testing.T) {
	ctx := buildFromSchema(t, []byte(`{"type": "object", "properties": {"x": {"type": "string"}}}`))
	ctx.Config.Header = "generated for tests"
	files, err := New().Render(ctx)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.HasPrefix(files[0].Content, "/* generated for tests */") {
		t.Errorf("header missing:\n%s", files[0].Content)
	}

	// The ingester strips the block comment again.
	if _, err := ingest.FromJSONSchema([]byte(files[0].Content), "Root"); err != nil {
		t.Errorf("output with header failed to re-ingest: %v", err)
	}
}
