package graph

import (
	"strconv"
	"strings"

	"github.com/blimu-dev/typegen/pkg/ir"
)

// Pointer prefixes accepted by the resolver. JSON Schema refs are mapped to
// the same namespace as OpenAPI component refs so a single memo covers both.
var refPrefixes = []string{
	"#/components/schemas/",
	"#/$defs/",
	"#/definitions/",
}

// TargetName extracts the canonical type name a pointer addresses.
func TargetName(pointer string) string {
	for _, p := range refPrefixes {
		if rest, ok := strings.CutPrefix(pointer, p); ok {
			return rest
		}
	}
	if i := strings.LastIndex(pointer, "/"); i >= 0 {
		return pointer[i+1:]
	}
	return pointer
}

const (
	colorWhite = iota
	colorGray
	colorBlack
)

// resolution is the resolver's working state and result: canonical names in
// first-discovery order and the pointer memo that guarantees two pointers to
// the same target yield the same NamedType.
type resolution struct {
	doc   *ir.Document
	types map[string]*ir.NamedType
	// order lists names by first discovery, roots in declaration order.
	order []string
	// discovery is the index of each name in order.
	discovery map[string]int
	// memo caches pointer -> canonical name.
	memo  map[string]string
	color map[string]int
}

// resolve walks every root (all declarations, then operation-referenced
// nodes), rewrites pointer refs to canonical names, and fails on the first
// pointer with no declared target. The three-color walk records back-edges
// instead of recursing, so self- and mutually-referential declarations
// terminate.
func resolve(doc *ir.Document) (*resolution, error) {
	r := &resolution{
		doc:       doc,
		types:     make(map[string]*ir.NamedType, len(doc.Decls)),
		discovery: make(map[string]int),
		memo:      make(map[string]string),
		color:     make(map[string]int),
	}
	for i := range doc.Decls {
		d := &doc.Decls[i]
		if _, dup := r.types[d.Name]; dup {
			return nil, Errorf(NameCollision, d.Name, "type %q declared twice", d.Name)
		}
		r.types[d.Name] = &ir.NamedType{Name: d.Name, Node: d.Node, Origin: d.Origin}
	}
	for i := range doc.Decls {
		if err := r.visit(doc.Decls[i].Name); err != nil {
			return nil, err
		}
	}
	for i := range doc.Operations {
		op := &doc.Operations[i]
		base := op.Method + " " + op.Path
		for _, params := range [][]ir.Param{op.PathParams, op.QueryParams, op.HeaderParams} {
			for _, p := range params {
				if err := r.walk(p.Type, base+"/parameters/"+p.Name); err != nil {
					return nil, err
				}
			}
		}
		if err := r.walk(op.RequestBody, base+"/requestBody"); err != nil {
			return nil, err
		}
		for _, resp := range op.Responses {
			if err := r.walk(resp.Type, base+"/responses/"+resp.Status); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *resolution) visit(name string) error {
	switch r.color[name] {
	case colorGray, colorBlack:
		return nil
	}
	r.color[name] = colorGray
	r.discovery[name] = len(r.order)
	r.order = append(r.order, name)
	if err := r.walk(r.types[name].Node, name); err != nil {
		return err
	}
	r.color[name] = colorBlack
	return nil
}

// walk rewrites refs under n and recurses into newly discovered targets.
// path is the breadcrumb from the current root to n.
func (r *resolution) walk(n *ir.TypeNode, path string) error {
	if n == nil {
		return nil
	}
	if n.Kind == ir.KindRef {
		name, ok := r.memo[n.Ref]
		if !ok {
			name = TargetName(n.Ref)
			if _, declared := r.types[name]; !declared {
				return Errorf(UnresolvedReference, path, "pointer %q has no declared target", n.Ref)
			}
			r.memo[n.Ref] = name
		}
		n.Ref = name
		// A gray target is a back-edge; recursion stops here.
		if r.color[name] == colorWhite {
			return r.visit(name)
		}
		return nil
	}
	for _, f := range n.Properties {
		if err := r.walk(f.Node, path+"/properties/"+f.Name); err != nil {
			return err
		}
	}
	if err := r.walk(n.Additional, path+"/additionalProperties"); err != nil {
		return err
	}
	if err := r.walk(n.Items, path+"/items"); err != nil {
		return err
	}
	for i, v := range n.Variants {
		if err := r.walk(v, path+"/"+string(n.Union)+"/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	for i, m := range n.AllOf {
		if err := r.walk(m, path+"/allOf/"+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}
