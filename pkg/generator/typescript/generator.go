// Package typescript renders a type graph as TypeScript type declarations.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/typegen/pkg/ir"
)

//go:embed templates/*
var templatesFS embed.FS

// Generator renders TypeScript declaration files.
type Generator struct{}

// New creates a new TypeScript renderer.
func New() *Generator {
	return &Generator{}
}

// Type returns the renderer type identifier.
func (g *Generator) Type() string {
	return "typescript"
}

// Render produces a single .ts file declaring every named type in emission
// order, so forward references only occur inside recursive components.
func (g *Generator) Render(ctx *ir.GenerationContext) ([]ir.File, error) {
	types := make([]*ir.NamedType, 0, len(ctx.Graph.Order))
	for _, name := range ctx.Graph.Order {
		named, ok := ctx.Graph.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("emission order names unknown type %q", name)
		}
		types = append(types, named)
	}

	funcMap := template.FuncMap{
		"tsType":      nodeToTSType,
		"quoteProp":   quotePropertyName,
		"isInterface": isInterface,
	}
	for k, v := range sprig.FuncMap() {
		funcMap[k] = v
	}

	content, err := renderTemplate("types.ts.gotmpl", funcMap, map[string]any{
		"Header": ctx.Config.Header,
		"Types":  types,
	})
	if err != nil {
		return nil, err
	}

	fileName := ctx.Config.PackageName
	if fileName == "" {
		fileName = "types"
	}
	return []ir.File{{Path: fileName + ".ts", Content: content}}, nil
}

func renderTemplate(name string, funcMap template.FuncMap, data map[string]any) (string, error) {
	raw, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// isInterface reports whether a named type renders as an interface
// declaration rather than a type alias.
func isInterface(named *ir.NamedType) bool {
	n := named.Node
	return n.Kind == ir.KindObject && !n.Nullable && n.Additional == nil
}
