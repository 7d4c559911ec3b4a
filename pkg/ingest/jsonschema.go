package ingest

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ir"
)

// FromJSONSchema maps a standalone JSON Schema document into an unresolved
// ir.Document. $defs/definitions entries become declarations in document
// order and the root schema becomes a declaration under rootName (suffixed
// deterministically if a def already owns that name). Parsing goes through
// yaml.Node so property order survives; JSON is a YAML subset.
func FromJSONSchema(data []byte, rootName string) (*ir.Document, error) {
	if rootName == "" {
		rootName = "Root"
	}
	data = []byte(stripJSONComments(string(data)))

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, graph.Errorf(graph.InvalidInputDocument, "", "parse schema document: %v", err)
	}
	doc := unwrapDocument(&root)
	if doc == nil || doc.Kind != yaml.MappingNode {
		return nil, graph.Errorf(graph.InvalidInputDocument, "", "schema document root is not an object")
	}

	out := &ir.Document{}
	namer := graph.NewNamer()

	for _, defsKey := range []string{"$defs", "definitions"} {
		defs := mapValue(doc, defsKey)
		if defs == nil || defs.Kind != yaml.MappingNode {
			continue
		}
		for i := 0; i+1 < len(defs.Content); i += 2 {
			name := defs.Content[i].Value
			if _, err := namer.Claim(name); err != nil {
				return nil, err
			}
			node, err := schemaNode(defs.Content[i+1], "#/"+defsKey+"/"+name)
			if err != nil {
				return nil, err
			}
			out.Decls = append(out.Decls, ir.Decl{Name: name, Node: node, Origin: ir.OriginExplicit})
		}
	}

	// A document that only hoists definitions, with no shape of its own,
	// declares nothing at the root; rendering and re-ingesting such a
	// document must not grow the graph.
	if hasSchemaKeywords(doc) {
		claimed, err := namer.Claim(rootName)
		if err != nil {
			return nil, err
		}
		rootSchema, err := schemaNode(doc, "#")
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, ir.Decl{Name: claimed, Node: rootSchema, Origin: ir.OriginExplicit})
	}
	return out, nil
}

var schemaKeywords = []string{
	"$ref", "type", "properties", "allOf", "oneOf", "anyOf",
	"enum", "items", "additionalProperties",
}

func hasSchemaKeywords(n *yaml.Node) bool {
	for _, k := range schemaKeywords {
		if mapValue(n, k) != nil {
			return true
		}
	}
	return false
}

// unwrapDocument returns the top-level mapping of a parsed document.
func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		return n.Content[0]
	}
	return n
}

// mapValue returns the value node for key in a mapping, or nil.
func mapValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// schemaNode converts one JSON Schema object into an unresolved TypeNode.
func schemaNode(n *yaml.Node, path string) (*ir.TypeNode, error) {
	if n == nil {
		return &ir.TypeNode{Kind: ir.KindUnknown}, nil
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		// "true" / "false" schemas: anything / nothing. Both degrade to
		// unknown; the constraint is not representable in the node set.
		return &ir.TypeNode{Kind: ir.KindUnknown}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, graph.Errorf(graph.InvalidInputDocument, path, "schema fragment is not an object")
	}

	if ref := mapValue(n, "$ref"); ref != nil {
		return &ir.TypeNode{Kind: ir.KindRef, Ref: ref.Value}, nil
	}

	typeNames, nullable, err := typeOf(n, path)
	if err != nil {
		return nil, err
	}
	typeName := ""
	if len(typeNames) > 0 {
		typeName = typeNames[0]
	}
	if flag := mapValue(n, "nullable"); flag != nil && flag.Value == "true" {
		nullable = true
	}

	for _, comp := range []struct {
		key  string
		mode ir.UnionMode
	}{{"oneOf", ir.UnionExactlyOne}, {"anyOf", ir.UnionAnyOf}} {
		members := mapValue(n, comp.key)
		if members == nil {
			continue
		}
		if members.Kind != yaml.SequenceNode {
			return nil, graph.Errorf(graph.InvalidInputDocument, path+"/"+comp.key, "%s is not a list", comp.key)
		}
		variants := make([]*ir.TypeNode, 0, len(members.Content))
		for i, m := range members.Content {
			v, err := schemaNode(m, path+"/"+comp.key+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		return &ir.TypeNode{
			Kind:          ir.KindUnion,
			Union:         comp.mode,
			Variants:      variants,
			Nullable:      nullable,
			Discriminator: discriminatorOf(n),
		}, nil
	}

	if members := mapValue(n, "allOf"); members != nil {
		if members.Kind != yaml.SequenceNode {
			return nil, graph.Errorf(graph.InvalidInputDocument, path+"/allOf", "allOf is not a list")
		}
		all := make([]*ir.TypeNode, 0, len(members.Content))
		for i, m := range members.Content {
			v, err := schemaNode(m, path+"/allOf/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			all = append(all, v)
		}
		node := &ir.TypeNode{Kind: ir.KindObject, AllOf: all, Nullable: nullable}
		if node.Properties, err = fieldsOf(n, path); err != nil {
			return nil, err
		}
		return node, nil
	}

	if enum := mapValue(n, "enum"); enum != nil && enum.Kind == yaml.SequenceNode {
		values := make([]any, 0, len(enum.Content))
		base := ir.KindUnknown
		for _, v := range enum.Content {
			values = append(values, scalarValue(v))
			if base == ir.KindUnknown {
				base = scalarKind(v)
			}
		}
		if typeName != "" {
			base = primitiveKind(typeName)
		}
		return &ir.TypeNode{Kind: ir.KindEnum, Enum: values, EnumBase: base, Nullable: nullable}, nil
	}

	// A list form with several non-null entries means the value takes any of
	// those shapes; each entry keeps the surrounding keywords that apply to it.
	if len(typeNames) > 1 {
		variants := make([]*ir.TypeNode, 0, len(typeNames))
		for _, name := range typeNames {
			v, err := typedNode(n, name, false, path)
			if err != nil {
				return nil, err
			}
			variants = append(variants, v)
		}
		return &ir.TypeNode{Kind: ir.KindUnion, Union: ir.UnionAnyOf, Variants: variants, Nullable: nullable}, nil
	}
	return typedNode(n, typeName, nullable, path)
}

// typedNode converts a schema object for one concrete value of the "type"
// keyword.
func typedNode(n *yaml.Node, typeName string, nullable bool, path string) (*ir.TypeNode, error) {
	constraints := constraintsOf(n)
	switch typeName {
	case "string", "integer", "number", "boolean":
		return &ir.TypeNode{Kind: primitiveKind(typeName), Nullable: nullable, Constraints: constraints}, nil
	case "null":
		return &ir.TypeNode{Kind: ir.KindNull, Nullable: true}, nil
	case "array":
		items, err := schemaNode(mapValue(n, "items"), path+"/items")
		if err != nil {
			return nil, err
		}
		return &ir.TypeNode{Kind: ir.KindArray, Items: items, Nullable: nullable, Constraints: constraints}, nil
	case "object", "":
		node := &ir.TypeNode{Kind: ir.KindObject, Nullable: nullable, Constraints: constraints, Discriminator: discriminatorOf(n)}
		fields, err := fieldsOf(n, path)
		if err != nil {
			return nil, err
		}
		node.Properties = fields
		if typeName == "" && len(node.Properties) == 0 {
			return &ir.TypeNode{Kind: ir.KindUnknown, Nullable: nullable}, nil
		}
		switch extra := mapValue(n, "additionalProperties"); {
		case extra == nil:
		case extra.Kind == yaml.ScalarNode && extra.Value == "false":
			node.NoExtra = true
		case extra.Kind == yaml.MappingNode:
			add, err := schemaNode(extra, path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			node.Additional = add
		}
		return node, nil
	default:
		return &ir.TypeNode{Kind: ir.KindUnknown, Nullable: nullable}, nil
	}
}

// typeOf reads the "type" keyword, handling both the single-string form and
// the list form. A "null" entry in the list marks nullability; the remaining
// entries are returned in document order.
func typeOf(n *yaml.Node, path string) ([]string, bool, error) {
	t := mapValue(n, "type")
	if t == nil {
		return nil, false, nil
	}
	switch t.Kind {
	case yaml.ScalarNode:
		return []string{t.Value}, false, nil
	case yaml.SequenceNode:
		nullable := false
		names := make([]string, 0, len(t.Content))
		for _, v := range t.Content {
			if v.Value == "null" {
				nullable = true
				continue
			}
			names = append(names, v.Value)
		}
		if len(names) == 0 {
			names = []string{"null"}
		}
		return names, nullable, nil
	default:
		return nil, false, graph.Errorf(graph.InvalidInputDocument, path+"/type", "type is neither a string nor a list")
	}
}

func fieldsOf(n *yaml.Node, path string) ([]ir.Field, error) {
	props := mapValue(n, "properties")
	if props == nil || props.Kind != yaml.MappingNode {
		return nil, nil
	}
	required := map[string]bool{}
	if req := mapValue(n, "required"); req != nil && req.Kind == yaml.SequenceNode {
		for _, v := range req.Content {
			required[v.Value] = true
		}
	}
	fields := make([]ir.Field, 0, len(props.Content)/2)
	for i := 0; i+1 < len(props.Content); i += 2 {
		name := props.Content[i].Value
		node, err := schemaNode(props.Content[i+1], path+"/properties/"+name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ir.Field{Name: name, Node: node, Required: required[name]})
	}
	return fields, nil
}

func discriminatorOf(n *yaml.Node) *ir.Discriminator {
	d := mapValue(n, "discriminator")
	if d == nil || d.Kind != yaml.MappingNode {
		return nil
	}
	prop := mapValue(d, "propertyName")
	if prop == nil {
		return nil
	}
	out := &ir.Discriminator{PropertyName: prop.Value}
	if mapping := mapValue(d, "mapping"); mapping != nil && mapping.Kind == yaml.MappingNode {
		out.Mapping = make(map[string]string, len(mapping.Content)/2)
		for i := 0; i+1 < len(mapping.Content); i += 2 {
			out.Mapping[mapping.Content[i].Value] = mapping.Content[i+1].Value
		}
	}
	return out
}

func constraintsOf(n *yaml.Node) ir.Constraints {
	var c ir.Constraints
	if v := mapValue(n, "minimum"); v != nil {
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			c.Minimum = &f
		}
	}
	if v := mapValue(n, "maximum"); v != nil {
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			c.Maximum = &f
		}
	}
	c.MinLength = intConstraint(n, "minLength")
	c.MaxLength = intConstraint(n, "maxLength")
	c.MinItems = intConstraint(n, "minItems")
	c.MaxItems = intConstraint(n, "maxItems")
	if v := mapValue(n, "pattern"); v != nil {
		c.Pattern = v.Value
	}
	if v := mapValue(n, "format"); v != nil {
		c.Format = v.Value
	}
	return c
}

func intConstraint(n *yaml.Node, key string) *int {
	v := mapValue(n, key)
	if v == nil {
		return nil
	}
	if i, err := strconv.Atoi(v.Value); err == nil {
		return &i
	}
	return nil
}

func primitiveKind(typeName string) ir.Kind {
	switch typeName {
	case "string":
		return ir.KindString
	case "integer":
		return ir.KindInteger
	case "number":
		return ir.KindNumber
	case "boolean":
		return ir.KindBoolean
	default:
		return ir.KindUnknown
	}
}

func scalarKind(v *yaml.Node) ir.Kind {
	switch v.Tag {
	case "!!str":
		return ir.KindString
	case "!!int":
		return ir.KindInteger
	case "!!float":
		return ir.KindNumber
	case "!!bool":
		return ir.KindBoolean
	default:
		return ir.KindUnknown
	}
}

func scalarValue(v *yaml.Node) any {
	switch v.Tag {
	case "!!int":
		if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return i
		}
	case "!!float":
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
	case "!!bool":
		return v.Value == "true"
	case "!!null":
		return nil
	}
	return v.Value
}

// stripJSONComments removes /* ... */ comments that some schema emitters
// leave in their output.
func stripJSONComments(content string) string {
	var b strings.Builder
	for i := 0; i < len(content); {
		if i+1 < len(content) && content[i] == '/' && content[i+1] == '*' {
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				break
			}
			i += 2 + end + 2
			for i < len(content) && (content[i] == ' ' || content[i] == '\n' || content[i] == '\t' || content[i] == '\r') {
				i++
			}
			continue
		}
		b.WriteByte(content[i])
		i++
	}
	return b.String()
}
