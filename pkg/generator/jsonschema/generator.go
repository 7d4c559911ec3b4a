// Package jsonschema renders a type graph back into a standalone JSON Schema
// document with one $defs entry per named type, in emission order.
package jsonschema

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/blimu-dev/typegen/pkg/ir"
)

const schemaDialect = "http://json-schema.org/draft-07/schema#"

// Generator renders JSON Schema documents.
type Generator struct{}

// New creates a new JSON Schema renderer.
func New() *Generator {
	return &Generator{}
}

// Type returns the renderer type identifier.
func (g *Generator) Type() string {
	return "jsonschema"
}

// Render produces a single schema.json containing every named type.
func (g *Generator) Render(ctx *ir.GenerationContext) ([]ir.File, error) {
	defs := newObject()
	for _, name := range ctx.Graph.Order {
		named, ok := ctx.Graph.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("emission order names unknown type %q", name)
		}
		defs.set(name, schemaOf(named.Node))
	}

	doc := newObject()
	doc.set("$schema", schemaDialect)
	doc.set("$defs", defs)

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	content := string(out) + "\n"
	if ctx.Config.Header != "" {
		// JSON has no comment syntax of its own; the block form is what the
		// schema ingester knows to strip back out.
		content = "/* " + ctx.Config.Header + " */\n" + content
	}
	return []ir.File{{Path: "schema.json", Content: content}}, nil
}

// schemaOf converts one type node into its schema representation.
func schemaOf(n *ir.TypeNode) any {
	if n == nil {
		return newObject()
	}
	switch n.Kind {
	case ir.KindRef:
		o := newObject()
		o.set("$ref", "#/$defs/"+n.Ref)
		return o
	case ir.KindString, ir.KindInteger, ir.KindNumber, ir.KindBoolean:
		o := newObject()
		setType(o, typeName(n.Kind), n.Nullable)
		setConstraints(o, n.Constraints)
		return o
	case ir.KindNull:
		o := newObject()
		o.set("type", "null")
		return o
	case ir.KindEnum:
		o := newObject()
		if base := typeName(n.EnumBase); base != "" {
			setType(o, base, n.Nullable)
		}
		o.set("enum", n.Enum)
		return o
	case ir.KindArray:
		o := newObject()
		setType(o, "array", n.Nullable)
		o.set("items", schemaOf(n.Items))
		setConstraints(o, n.Constraints)
		return o
	case ir.KindMap:
		o := newObject()
		setType(o, "object", n.Nullable)
		o.set("additionalProperties", schemaOf(n.Additional))
		return o
	case ir.KindObject:
		o := newObject()
		setType(o, "object", n.Nullable)
		if len(n.Properties) > 0 {
			props := newObject()
			required := []string{}
			for _, f := range n.Properties {
				props.set(f.Name, schemaOf(f.Node))
				if f.Required {
					required = append(required, f.Name)
				}
			}
			o.set("properties", props)
			if len(required) > 0 {
				o.set("required", required)
			}
		}
		if n.Additional != nil {
			o.set("additionalProperties", schemaOf(n.Additional))
		} else if n.NoExtra {
			o.set("additionalProperties", false)
		}
		if n.Discriminator != nil {
			o.set("discriminator", discriminatorOf(n.Discriminator))
		}
		return o
	case ir.KindUnion:
		o := newObject()
		variants := make([]any, 0, len(n.Variants))
		for _, v := range n.Variants {
			variants = append(variants, schemaOf(v))
		}
		o.set(string(n.Union), variants)
		if n.Nullable {
			o.set("nullable", true)
		}
		if n.Discriminator != nil {
			o.set("discriminator", discriminatorOf(n.Discriminator))
		}
		return o
	default:
		return newObject()
	}
}

func discriminatorOf(d *ir.Discriminator) *object {
	o := newObject()
	o.set("propertyName", d.PropertyName)
	if len(d.Mapping) > 0 {
		o.set("mapping", d.Mapping)
	}
	return o
}

// setType writes the "type" keyword, using the list form to carry
// nullability.
func setType(o *object, name string, nullable bool) {
	if nullable {
		o.set("type", []string{name, "null"})
		return
	}
	o.set("type", name)
}

func setConstraints(o *object, c ir.Constraints) {
	if c.Minimum != nil {
		o.set("minimum", *c.Minimum)
	}
	if c.Maximum != nil {
		o.set("maximum", *c.Maximum)
	}
	if c.MinLength != nil {
		o.set("minLength", *c.MinLength)
	}
	if c.MaxLength != nil {
		o.set("maxLength", *c.MaxLength)
	}
	if c.MinItems != nil {
		o.set("minItems", *c.MinItems)
	}
	if c.MaxItems != nil {
		o.set("maxItems", *c.MaxItems)
	}
	if c.Pattern != "" {
		o.set("pattern", c.Pattern)
	}
	if c.Format != "" {
		o.set("format", c.Format)
	}
}

func typeName(k ir.Kind) string {
	switch k {
	case ir.KindString:
		return "string"
	case ir.KindInteger:
		return "integer"
	case ir.KindNumber:
		return "number"
	case ir.KindBoolean:
		return "boolean"
	default:
		return ""
	}
}

// object is a JSON object that marshals its keys in insertion order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: map[string]any{}}
}

func (o *object) set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// MarshalJSON implements json.Marshaler.
func (o *object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
