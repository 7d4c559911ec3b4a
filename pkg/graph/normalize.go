package graph

import (
	"github.com/blimu-dev/typegen/pkg/ir"
)

// normalizer canonicalizes composition constructs after resolution: merge-all
// members are flattened into one object shape, exactly-one-of/any-of become
// unions, null variants and nullable flags collapse to Nullable=true, and
// property-less objects with typed extras become maps.
type normalizer struct {
	types map[string]*ir.NamedType
	// strict turns merge-all property clashes into CompositionConflict
	// instead of applying the later-member-wins rule.
	strict bool
	color  map[string]int
}

func normalize(r *resolution, strict bool) error {
	n := &normalizer{types: r.types, strict: strict, color: make(map[string]int)}
	for _, name := range r.order {
		if err := n.named(name); err != nil {
			return err
		}
	}
	// Operation payloads are graph nodes too: inline parameter, request body
	// and response shapes canonicalize under the same rules as declarations.
	for i := range r.doc.Operations {
		op := &r.doc.Operations[i]
		base := op.Method + " " + op.Path
		for _, params := range [][]ir.Param{op.PathParams, op.QueryParams, op.HeaderParams} {
			for j := range params {
				node, err := n.node(params[j].Type, base+"/parameters/"+params[j].Name)
				if err != nil {
					return err
				}
				params[j].Type = node
			}
		}
		body, err := n.node(op.RequestBody, base+"/requestBody")
		if err != nil {
			return err
		}
		op.RequestBody = body
		for j := range op.Responses {
			resp, err := n.node(op.Responses[j].Type, base+"/responses/"+op.Responses[j].Status)
			if err != nil {
				return err
			}
			op.Responses[j].Type = resp
		}
	}
	return nil
}

func (nz *normalizer) named(name string) error {
	switch nz.color[name] {
	case colorBlack:
		return nil
	case colorGray:
		// merge-all cannot be flattened through itself
		return Errorf(CompositionConflict, name, "type %q participates in a merge-all cycle", name)
	}
	nz.color[name] = colorGray
	t := nz.types[name]
	node, err := nz.node(t.Node, name)
	if err != nil {
		return err
	}
	t.Node = node
	nz.color[name] = colorBlack
	return nil
}

func (nz *normalizer) node(n *ir.TypeNode, path string) (*ir.TypeNode, error) {
	if n == nil {
		return nil, nil
	}
	var err error
	for i := range n.Properties {
		if n.Properties[i].Node, err = nz.node(n.Properties[i].Node, path+"/properties/"+n.Properties[i].Name); err != nil {
			return nil, err
		}
	}
	if n.Additional, err = nz.node(n.Additional, path+"/additionalProperties"); err != nil {
		return nil, err
	}
	if n.Items, err = nz.node(n.Items, path+"/items"); err != nil {
		return nil, err
	}
	for i := range n.Variants {
		if n.Variants[i], err = nz.node(n.Variants[i], path+"/variants"); err != nil {
			return nil, err
		}
	}
	for i := range n.AllOf {
		if n.AllOf[i], err = nz.node(n.AllOf[i], path+"/allOf"); err != nil {
			return nil, err
		}
	}

	if len(n.AllOf) > 0 {
		return nz.mergeAll(n, path)
	}
	if n.Kind == ir.KindUnion {
		return nz.union(n), nil
	}
	if n.Kind == ir.KindObject && len(n.Properties) == 0 && n.Additional != nil {
		return &ir.TypeNode{
			Kind:        ir.KindMap,
			Nullable:    n.Nullable,
			Constraints: n.Constraints,
			Additional:  n.Additional,
		}, nil
	}
	return n, nil
}

// mergeAll flattens merge-all members into a single object shape. Property
// maps are unioned in member order; required markers are unioned; on a type
// clash for one property the later member's declaration wins unless strict
// composition is enabled.
func (nz *normalizer) mergeAll(n *ir.TypeNode, path string) (*ir.TypeNode, error) {
	// A lone reference member with no local shape stays a reference.
	if len(n.AllOf) == 1 && n.AllOf[0].Kind == ir.KindRef && len(n.Properties) == 0 {
		out := *n.AllOf[0]
		out.Nullable = out.Nullable || n.Nullable
		if out.Discriminator == nil {
			out.Discriminator = n.Discriminator
		}
		return &out, nil
	}

	out := &ir.TypeNode{
		Kind:          ir.KindObject,
		Nullable:      n.Nullable,
		Constraints:   n.Constraints,
		Discriminator: n.Discriminator,
		NoExtra:       n.NoExtra,
	}
	index := map[string]int{}
	merge := func(obj *ir.TypeNode) error {
		for _, f := range obj.Properties {
			if i, seen := index[f.Name]; seen {
				prev := out.Properties[i]
				if nz.strict && prev.Node != nil && f.Node != nil && prev.Node.Kind != f.Node.Kind {
					return Errorf(CompositionConflict, path+"/properties/"+f.Name,
						"property %q declared as %s and %s", f.Name, prev.Node.Kind, f.Node.Kind)
				}
				out.Properties[i] = ir.Field{
					Name:     f.Name,
					Node:     f.Node,
					Required: prev.Required || f.Required,
				}
				continue
			}
			index[f.Name] = len(out.Properties)
			out.Properties = append(out.Properties, f)
		}
		if obj.Additional != nil {
			out.Additional = obj.Additional
		}
		out.NoExtra = out.NoExtra || obj.NoExtra
		return nil
	}

	members := append(append([]*ir.TypeNode{}, n.AllOf...), nil)
	// Local properties declared next to allOf merge last, as the final member.
	members[len(members)-1] = &ir.TypeNode{Kind: ir.KindObject, Properties: n.Properties, Additional: n.Additional}
	for _, m := range members {
		obj, err := nz.deref(m, path)
		if err != nil {
			return nil, err
		}
		if obj == nil {
			continue
		}
		if err := merge(obj); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// deref resolves a merge-all member to its object shape, flattening the
// target first when it has not been normalized yet. Non-object members are
// rejected in strict mode and skipped otherwise.
func (nz *normalizer) deref(m *ir.TypeNode, path string) (*ir.TypeNode, error) {
	if m == nil {
		return nil, nil
	}
	// Follow reference chains; lone-reference merge-alls normalize into
	// plain refs, so a member may be several hops from its object shape.
	for m.Kind == ir.KindRef {
		if err := nz.named(m.Ref); err != nil {
			return nil, err
		}
		m = nz.types[m.Ref].Node
	}
	if m.Kind != ir.KindObject {
		if nz.strict {
			return nil, Errorf(CompositionConflict, path, "merge-all member is %s, not an object", m.Kind)
		}
		return nil, nil
	}
	return m, nil
}

// union canonicalizes a oneOf/anyOf node: null variants collapse into the
// nullable flag and single-variant unions collapse into the variant itself.
// No discriminant is ever inferred; only a declared one is kept.
func (nz *normalizer) union(n *ir.TypeNode) *ir.TypeNode {
	variants := n.Variants[:0]
	nullable := n.Nullable
	for _, v := range n.Variants {
		if v.Kind == ir.KindNull {
			nullable = true
			continue
		}
		variants = append(variants, v)
	}
	if len(variants) == 1 {
		out := *variants[0]
		out.Nullable = out.Nullable || nullable
		return &out
	}
	n.Variants = variants
	n.Nullable = nullable
	return n
}
