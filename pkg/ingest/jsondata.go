package ingest

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ir"
	"github.com/blimu-dev/typegen/pkg/utils"
)

// FromJSONData infers a type document from a raw JSON (or YAML) data sample.
// Objects become named declarations, structurally identical objects share a
// single declaration, and arrays of objects are unified into one element
// shape: keys present in every sibling are required, keys present in only
// some are optional. Numeric literals written without a fractional part
// infer as integers; string formats are never guessed.
func FromJSONData(data []byte, rootName string) (*ir.Document, error) {
	if rootName == "" {
		rootName = "Root"
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, graph.Errorf(graph.InvalidInputDocument, "", "parse data sample: %v", err)
	}
	value := unwrapDocument(&root)
	if value == nil || value.Kind == 0 {
		return nil, graph.Errorf(graph.InvalidInputDocument, "", "data sample is empty")
	}

	inf := &inferrer{
		namer: graph.NewNamer(),
		doc:   &ir.Document{},
		memo:  map[string]string{},
	}

	// The root object is declared under the caller's name rather than being
	// hoisted through the memo, so the entry point is always present even
	// when an identical shape appears again deeper in the sample.
	name, err := inf.namer.Claim(rootName)
	if err != nil {
		return nil, err
	}
	var node *ir.TypeNode
	if value.Kind == yaml.MappingNode {
		node, err = inf.inferObject(value, "$")
	} else {
		node, err = inf.infer(value, rootName, "$")
	}
	if err != nil {
		return nil, err
	}
	inf.doc.Decls = append(inf.doc.Decls, ir.Decl{Name: name, Node: node, Origin: ir.OriginInferred})
	return inf.doc, nil
}

type inferrer struct {
	namer *graph.Namer
	doc   *ir.Document
	memo  map[string]string // structure signature -> declaration name
}

// infer converts one data value into a TypeNode. nameHint seeds the
// declaration name when the value is an object that gets hoisted.
func (inf *inferrer) infer(n *yaml.Node, nameHint, path string) (*ir.TypeNode, error) {
	switch n.Kind {
	case yaml.MappingNode:
		node, err := inf.inferObject(n, path)
		if err != nil {
			return nil, err
		}
		name, err := inf.declare(node, nameHint)
		if err != nil {
			return nil, err
		}
		return &ir.TypeNode{Kind: ir.KindRef, Ref: name}, nil
	case yaml.SequenceNode:
		return inf.inferArray(n, nameHint, path)
	case yaml.ScalarNode:
		return scalarNode(n), nil
	default:
		return &ir.TypeNode{Kind: ir.KindUnknown}, nil
	}
}

func (inf *inferrer) inferObject(n *yaml.Node, path string) (*ir.TypeNode, error) {
	node := &ir.TypeNode{Kind: ir.KindObject}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		hint := utils.ToPascalCase(key)
		child, err := inf.infer(n.Content[i+1], hint, path+"."+key)
		if err != nil {
			return nil, err
		}
		required := true
		if child.Nullable && child.Kind == ir.KindNull {
			// A bare null value says nothing about the type; keep the field
			// but mark it optional and unconstrained.
			child = &ir.TypeNode{Kind: ir.KindUnknown, Nullable: true}
			required = false
		}
		node.Properties = append(node.Properties, ir.Field{Name: key, Node: child, Required: required})
	}
	return node, nil
}

func (inf *inferrer) inferArray(n *yaml.Node, nameHint, path string) (*ir.TypeNode, error) {
	if len(n.Content) == 0 {
		return &ir.TypeNode{Kind: ir.KindArray, Items: &ir.TypeNode{Kind: ir.KindUnknown}}, nil
	}

	// Objects unify into one element shape before being hoisted; everything
	// else infers per element and unifies afterwards.
	allObjects := true
	for _, el := range n.Content {
		if el.Kind != yaml.MappingNode {
			allObjects = false
			break
		}
	}
	if allObjects {
		shape, err := inf.unifyObjects(n.Content, path)
		if err != nil {
			return nil, err
		}
		name, err := inf.declare(shape, elementName(nameHint))
		if err != nil {
			return nil, err
		}
		return &ir.TypeNode{Kind: ir.KindArray, Items: &ir.TypeNode{Kind: ir.KindRef, Ref: name}}, nil
	}

	items := make([]*ir.TypeNode, 0, len(n.Content))
	for i, el := range n.Content {
		item, err := inf.infer(el, elementName(nameHint), path+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	unified, err := unifyNodes(items, path)
	if err != nil {
		return nil, err
	}
	return &ir.TypeNode{Kind: ir.KindArray, Items: unified}, nil
}

// elementName derives the declaration name for an array's element type from
// the array's own name: "Orders" -> "Order", "Data" -> "DataItem".
func elementName(hint string) string {
	if s := utils.Singularize(hint); s != hint {
		return s
	}
	return hint + "Item"
}

// unifyObjects merges sibling object samples into one shape. A key present
// in every sibling is required; a key present in only some is optional.
func (inf *inferrer) unifyObjects(siblings []*yaml.Node, path string) (*ir.TypeNode, error) {
	type slot struct {
		nodes []*ir.TypeNode
		seen  int
	}
	order := []string{}
	slots := map[string]*slot{}

	for si, obj := range siblings {
		for i := 0; i+1 < len(obj.Content); i += 2 {
			key := obj.Content[i].Value
			s, ok := slots[key]
			if !ok {
				s = &slot{}
				slots[key] = s
				order = append(order, key)
			}
			child, err := inf.infer(obj.Content[i+1], utils.ToPascalCase(key), path+"["+strconv.Itoa(si)+"]."+key)
			if err != nil {
				return nil, err
			}
			s.nodes = append(s.nodes, child)
			s.seen++
		}
	}

	node := &ir.TypeNode{Kind: ir.KindObject}
	for _, key := range order {
		s := slots[key]
		unified, err := unifyNodes(s.nodes, path+"."+key)
		if err != nil {
			return nil, err
		}
		node.Properties = append(node.Properties, ir.Field{
			Name:     key,
			Node:     unified,
			Required: s.seen == len(siblings) && !unified.Nullable,
		})
	}
	return node, nil
}

// unifyNodes folds sibling samples of one value position into a single node.
// Disagreeing primitive kinds widen to a union; disagreeing composite kinds
// are ambiguous and abort the run.
func unifyNodes(nodes []*ir.TypeNode, path string) (*ir.TypeNode, error) {
	nullable := false
	kept := nodes[:0]
	for _, n := range nodes {
		if n.Kind == ir.KindNull || (n.Kind == ir.KindUnknown && n.Nullable) {
			nullable = true
			continue
		}
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		return &ir.TypeNode{Kind: ir.KindUnknown, Nullable: true}, nil
	}

	result := kept[0]
	for _, n := range kept[1:] {
		merged, err := unifyPair(result, n, path)
		if err != nil {
			return nil, err
		}
		result = merged
	}
	if nullable {
		clone := *result
		clone.Nullable = true
		result = &clone
	}
	return result, nil
}

func unifyPair(a, b *ir.TypeNode, path string) (*ir.TypeNode, error) {
	if a.Kind == b.Kind {
		switch a.Kind {
		case ir.KindRef:
			if a.Ref == b.Ref {
				return a, nil
			}
			return nil, graph.Errorf(graph.AmbiguousInference, path,
				"sibling objects infer incompatible shapes %s and %s", a.Ref, b.Ref)
		case ir.KindArray:
			items, err := unifyPair(a.Items, b.Items, path+"[]")
			if err != nil {
				return nil, err
			}
			return &ir.TypeNode{Kind: ir.KindArray, Items: items}, nil
		default:
			return a, nil
		}
	}

	// An unknown sample (empty array element, explicit null) defers to the
	// informative sibling.
	if a.Kind == ir.KindUnknown {
		return b, nil
	}
	if b.Kind == ir.KindUnknown {
		return a, nil
	}

	// Integer literals widen to number when a fractional sibling appears.
	if isNumeric(a.Kind) && isNumeric(b.Kind) {
		return &ir.TypeNode{Kind: ir.KindNumber}, nil
	}

	if isPrimitive(a.Kind) && isPrimitive(b.Kind) {
		return &ir.TypeNode{
			Kind:     ir.KindUnion,
			Union:    ir.UnionAnyOf,
			Variants: []*ir.TypeNode{a, b},
		}, nil
	}

	return nil, graph.Errorf(graph.AmbiguousInference, path,
		"sibling values disagree on composite kind: %s vs %s", a.Kind, b.Kind)
}

func isNumeric(k ir.Kind) bool {
	return k == ir.KindInteger || k == ir.KindNumber
}

func isPrimitive(k ir.Kind) bool {
	switch k {
	case ir.KindString, ir.KindInteger, ir.KindNumber, ir.KindBoolean:
		return true
	}
	return false
}

// declare registers an inferred object shape under a name, reusing the
// existing declaration when a structurally identical shape was seen before.
func (inf *inferrer) declare(node *ir.TypeNode, nameHint string) (string, error) {
	sig := signature(node)
	if name, ok := inf.memo[sig]; ok {
		return name, nil
	}
	if nameHint == "" {
		nameHint = "Item"
	}
	name, err := inf.namer.Claim(nameHint)
	if err != nil {
		return "", err
	}
	inf.memo[sig] = name
	inf.doc.Decls = append(inf.doc.Decls, ir.Decl{Name: name, Node: node, Origin: ir.OriginInferred})
	return name, nil
}

// signature renders a canonical structural fingerprint of a node, used to
// deduplicate identical inferred shapes.
func signature(n *ir.TypeNode) string {
	if n == nil {
		return "?"
	}
	var b strings.Builder
	writeSignature(&b, n)
	return b.String()
}

func writeSignature(b *strings.Builder, n *ir.TypeNode) {
	b.WriteString(string(n.Kind))
	if n.Nullable {
		b.WriteString("|null")
	}
	switch n.Kind {
	case ir.KindObject:
		b.WriteByte('{')
		// Signature ignores declaration order so field permutations of the
		// same shape still deduplicate.
		fields := append([]ir.Field(nil), n.Properties...)
		sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
		for _, f := range fields {
			b.WriteString(f.Name)
			if !f.Required {
				b.WriteByte('?')
			}
			b.WriteByte(':')
			writeSignature(b, f.Node)
			b.WriteByte(',')
		}
		b.WriteByte('}')
	case ir.KindArray:
		b.WriteByte('[')
		writeSignature(b, n.Items)
		b.WriteByte(']')
	case ir.KindUnion:
		b.WriteByte('(')
		for _, v := range n.Variants {
			writeSignature(b, v)
			b.WriteByte('|')
		}
		b.WriteByte(')')
	case ir.KindRef:
		b.WriteByte('@')
		b.WriteString(n.Ref)
	}
}

// scalarNode classifies a scalar sample by its YAML resolution tag, which
// preserves the literal form: 1 is an integer, 1.0 is a number.
func scalarNode(n *yaml.Node) *ir.TypeNode {
	switch n.Tag {
	case "!!int":
		return &ir.TypeNode{Kind: ir.KindInteger}
	case "!!float":
		return &ir.TypeNode{Kind: ir.KindNumber}
	case "!!bool":
		return &ir.TypeNode{Kind: ir.KindBoolean}
	case "!!null":
		return &ir.TypeNode{Kind: ir.KindNull, Nullable: true}
	default:
		return &ir.TypeNode{Kind: ir.KindString}
	}
}
