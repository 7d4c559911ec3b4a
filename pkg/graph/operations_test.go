package graph

import (
	"testing"

	"github.com/blimu-dev/typegen/pkg/ir"
)

func TestDeriveMethodName(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{"GET", "/pets", "getPets"},
		{"GET", "/pets/{petId}", "getPetsByPetId"},
		{"POST", "/stores/{storeId}/orders", "postStoresByStoreIdOrders"},
		{"DELETE", "/users/{id}", "deleteUsersById"},
		{"GET", "/", "get"},
	}

	for _, test := range tests {
		result := deriveMethodName(test.method, test.path)
		if result != test.expected {
			t.Errorf("deriveMethodName(%q, %q) = %q, expected %q", test.method, test.path, result, test.expected)
		}
	}
}

func TestExtractOperations(t *testing.T) {
	doc := &ir.Document{
		Decls: []ir.Decl{
			{Name: "Pet", Node: obj(field("name", prim(ir.KindString), true)), Origin: ir.OriginExplicit},
		},
		Operations: []ir.Operation{
			{
				Method: "POST",
				Path:   "/pets",
				Name:   "create_pet",
				Tags:   []string{"pets"},
				QueryParams: []ir.Param{
					{Name: "verbose", Location: ir.InQuery},
					{Name: "dryRun", Location: ir.InQuery},
				},
				RequestBody: ref("#/components/schemas/Pet"),
				Responses: []ir.Response{
					{Status: "404", Type: nil},
					{Status: "201", Type: ref("#/components/schemas/Pet")},
				},
			},
			{
				Method: "GET",
				Path:   "/pets",
			},
		},
	}

	_, ops, err := Build(doc, Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, expected 2", len(ops))
	}

	// Same path: methods sort alphabetically, GET first.
	if ops[0].Method != "GET" || ops[1].Method != "POST" {
		t.Fatalf("operation order = %s, %s; expected GET then POST", ops[0].Method, ops[1].Method)
	}

	get, post := ops[0], ops[1]
	if get.Name != "getPets" {
		t.Errorf("derived name = %q, expected getPets", get.Name)
	}
	if !get.Ungrouped {
		t.Errorf("untagged operation not flagged ungrouped")
	}
	if post.Name != "createPet" {
		t.Errorf("operation id not camel-cased: %q", post.Name)
	}
	if post.Ungrouped {
		t.Errorf("tagged operation flagged ungrouped")
	}
	if post.QueryParams[0].Name != "dryRun" || post.QueryParams[1].Name != "verbose" {
		t.Errorf("query params not sorted by name: %+v", post.QueryParams)
	}
	if post.Responses[0].Status != "201" || post.Responses[1].Status != "404" {
		t.Errorf("responses not sorted by status: %+v", post.Responses)
	}
	if post.Responses[1].Type != nil {
		t.Errorf("bodyless response must keep the nil empty marker")
	}
	if post.RequestBody.Ref != "Pet" {
		t.Errorf("request body pointer resolved to %q, expected Pet", post.RequestBody.Ref)
	}
}

func TestOperationDanglingPointer(t *testing.T) {
	doc := &ir.Document{
		Decls: []ir.Decl{
			{Name: "Pet", Node: obj(), Origin: ir.OriginExplicit},
		},
		Operations: []ir.Operation{
			{
				Method:     "GET",
				Path:       "/pets/{petId}",
				PathParams: []ir.Param{{Name: "petId", Location: ir.InPath, Type: ref("#/components/schemas/PetId")}},
			},
		},
	}

	_, _, err := Build(doc, Options{})
	if KindOf(err) != UnresolvedReference {
		t.Fatalf("Build error = %v, expected unresolved-reference", err)
	}
}

func TestTargetName(t *testing.T) {
	tests := []struct {
		pointer  string
		expected string
	}{
		{"#/components/schemas/Pet", "Pet"},
		{"#/$defs/Order", "Order"},
		{"#/definitions/Legacy", "Legacy"},
		{"Inline", "Inline"},
	}
	for _, test := range tests {
		if got := TargetName(test.pointer); got != test.expected {
			t.Errorf("TargetName(%q) = %q, expected %q", test.pointer, got, test.expected)
		}
	}
}

func TestNamerClaim(t *testing.T) {
	n := NewNamer()
	tests := []struct {
		base     string
		expected string
	}{
		{"Pet", "Pet"},
		{"Pet", "Pet2"},
		{"Pet", "Pet3"},
		{"", "Type"},
		{"", "Type2"},
	}
	for _, test := range tests {
		got, err := n.Claim(test.base)
		if err != nil {
			t.Fatalf("Claim(%q) returned error: %v", test.base, err)
		}
		if got != test.expected {
			t.Errorf("Claim(%q) = %q, expected %q", test.base, got, test.expected)
		}
	}
	if !n.Taken("Pet2") {
		t.Errorf("Taken(Pet2) = false after claiming it")
	}
}
