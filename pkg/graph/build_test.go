package graph

import (
	"strings"
	"testing"

	"github.com/blimu-dev/typegen/pkg/ir"
)

func ref(pointer string) *ir.TypeNode {
	return &ir.TypeNode{Kind: ir.KindRef, Ref: pointer}
}

func prim(k ir.Kind) *ir.TypeNode {
	return &ir.TypeNode{Kind: k}
}

func obj(fields ...ir.Field) *ir.TypeNode {
	return &ir.TypeNode{Kind: ir.KindObject, Properties: fields}
}

func field(name string, node *ir.TypeNode, required bool) ir.Field {
	return ir.Field{Name: name, Node: node, Required: required}
}

func TestBuildRejectsEmptyDocument(t *testing.T) {
	for _, doc := range []*ir.Document{nil, {}} {
		_, _, err := Build(doc, Options{})
		if KindOf(err) != InvalidInputDocument {
			t.Errorf("Build(%v) error = %v, expected invalid-input-document", doc, err)
		}
	}
}

func TestBuildUnresolvedPointer(t *testing.T) {
	doc := &ir.Document{Decls: []ir.Decl{
		{Name: "Order", Node: obj(
			field("customer", ref("#/components/schemas/Customer"), true),
		), Origin: ir.OriginExplicit},
	}}

	_, _, err := Build(doc, Options{})
	if KindOf(err) != UnresolvedReference {
		t.Fatalf("Build error = %v, expected unresolved-reference", err)
	}
	if !strings.Contains(err.Error(), "#/components/schemas/Customer") {
		t.Errorf("error %q does not name the dangling pointer", err.Error())
	}
	if !strings.Contains(err.Error(), "Order/properties/customer") {
		t.Errorf("error %q does not carry the breadcrumb path", err.Error())
	}
}

func TestBuildDuplicateDeclaration(t *testing.T) {
	doc := &ir.Document{Decls: []ir.Decl{
		{Name: "Pet", Node: obj(), Origin: ir.OriginExplicit},
		{Name: "Pet", Node: obj(), Origin: ir.OriginExplicit},
	}}
	_, _, err := Build(doc, Options{})
	if KindOf(err) != NameCollision {
		t.Fatalf("Build error = %v, expected name-collision", err)
	}
}

func TestBuildSelfReferenceTerminates(t *testing.T) {
	doc := &ir.Document{Decls: []ir.Decl{
		{Name: "Node", Node: obj(
			field("value", prim(ir.KindString), true),
			field("next", ref("#/$defs/Node"), false),
		), Origin: ir.OriginExplicit},
	}}

	g, _, err := Build(doc, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if !g.Recursive("Node") {
		t.Errorf("self-referential type not reported recursive")
	}
	named, _ := g.Lookup("Node")
	if got := named.Node.Properties[1].Node.Ref; got != "Node" {
		t.Errorf("self pointer resolved to %q, expected canonical name Node", got)
	}
}

func TestBuildMutualRecursionOneComponent(t *testing.T) {
	doc := &ir.Document{Decls: []ir.Decl{
		{Name: "Employee", Node: obj(
			field("manager", ref("#/components/schemas/Manager"), false),
		), Origin: ir.OriginExplicit},
		{Name: "Manager", Node: obj(
			field("reports", &ir.TypeNode{Kind: ir.KindArray, Items: ref("#/components/schemas/Employee")}, true),
		), Origin: ir.OriginExplicit},
	}}

	g, _, err := Build(doc, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if g.ComponentOf("Employee") != g.ComponentOf("Manager") {
		t.Fatalf("mutually recursive types split across components")
	}
	comp := g.Components[g.ComponentOf("Employee")]
	if len(comp) != 2 || comp[0] != "Employee" || comp[1] != "Manager" {
		t.Errorf("component = %v, expected [Employee Manager] in discovery order", comp)
	}
	if !g.Recursive("Manager") {
		t.Errorf("component member not reported recursive")
	}
}

func TestBuildTopologicalOrder(t *testing.T) {
	// Category depends on nothing, Pet on Category, Shelf on Pet.
	doc := func() *ir.Document {
		return &ir.Document{Decls: []ir.Decl{
			{Name: "Shelf", Node: obj(
				field("pets", &ir.TypeNode{Kind: ir.KindArray, Items: ref("#/components/schemas/Pet")}, true),
			), Origin: ir.OriginExplicit},
			{Name: "Pet", Node: obj(
				field("category", ref("#/components/schemas/Category"), false),
			), Origin: ir.OriginExplicit},
			{Name: "Category", Node: obj(
				field("name", prim(ir.KindString), true),
			), Origin: ir.OriginExplicit},
		}}
	}

	g, _, err := Build(doc(), Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	pos := map[string]int{}
	for i, name := range g.Order {
		pos[name] = i
	}
	for name, named := range g.Types {
		for _, dep := range named.Refs {
			if g.ComponentOf(dep) != g.ComponentOf(name) && pos[dep] > pos[name] {
				t.Errorf("dependency %s emitted after dependent %s: order %v", dep, name, g.Order)
			}
		}
	}

	// Same input again: order must be byte-for-byte identical.
	g2, _, err := Build(doc(), Options{})
	if err != nil {
		t.Fatalf("second Build returned error: %v", err)
	}
	if len(g.Order) != len(g2.Order) {
		t.Fatalf("order length differs between runs")
	}
	for i := range g.Order {
		if g.Order[i] != g2.Order[i] {
			t.Fatalf("order differs between runs: %v vs %v", g.Order, g2.Order)
		}
	}
}

func TestBuildPointerMemoSharesTarget(t *testing.T) {
	doc := &ir.Document{Decls: []ir.Decl{
		{Name: "Pair", Node: obj(
			field("first", ref("#/$defs/Coin"), true),
			field("second", ref("#/definitions/Coin"), true),
		), Origin: ir.OriginExplicit},
		{Name: "Coin", Node: obj(field("face", prim(ir.KindString), true)), Origin: ir.OriginExplicit},
	}}

	g, _, err := Build(doc, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	pair, _ := g.Lookup("Pair")
	for _, f := range pair.Node.Properties {
		if f.Node.Ref != "Coin" {
			t.Errorf("property %s resolved to %q, expected Coin", f.Name, f.Node.Ref)
		}
	}
	if refs := pair.Refs; len(refs) != 1 || refs[0] != "Coin" {
		t.Errorf("Pair.Refs = %v, expected single deduplicated edge to Coin", refs)
	}
}

func TestBuildOperationsOnlyDocument(t *testing.T) {
	// A spec whose payloads are all inline primitives declares no named
	// types, yet its operations are perfectly usable.
	doc := &ir.Document{Operations: []ir.Operation{{
		Method:    "GET",
		Path:      "/ping",
		Responses: []ir.Response{{Status: "200", Type: prim(ir.KindString)}},
	}}}

	g, ops, err := Build(doc, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(g.Order) != 0 {
		t.Errorf("graph order = %v, expected no named types", g.Order)
	}
	if len(ops) != 1 || ops[0].Name != "getPing" {
		t.Fatalf("operations = %+v, expected the single derived getPing", ops)
	}
	if resp := ops[0].Responses[0].Type; resp == nil || resp.Kind != ir.KindString {
		t.Errorf("200 response = %+v, expected string", resp)
	}
}
