package ingest

import (
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ir"
)

const petSpec = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
      responses:
        '200':
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [name]
              properties:
                name:
                  type: string
      responses:
        '201':
          description: created
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '204':
          description: no content
components:
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
          minLength: 1
        tag:
          type: string
          nullable: true
`

func loadPetDocument(t *testing.T) *ir.Document {
	t.Helper()
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData([]byte(petSpec))
	if err != nil {
		t.Fatalf("LoadFromData returned error: %v", err)
	}
	doc, err := FromOpenAPI(spec)
	if err != nil {
		t.Fatalf("FromOpenAPI returned error: %v", err)
	}
	return doc
}

func TestOpenAPIComponentsBecomeDecls(t *testing.T) {
	doc := loadPetDocument(t)

	pet := declByName(t, doc, "Pet")
	if pet.Origin != ir.OriginExplicit {
		t.Errorf("component origin = %s, expected explicit", pet.Origin)
	}
	// Properties come out name-sorted: id, name, tag.
	props := pet.Node.Properties
	if len(props) != 3 || props[0].Name != "id" || props[1].Name != "name" || props[2].Name != "tag" {
		t.Fatalf("properties = %+v, expected id, name, tag", props)
	}
	if !props[0].Required || !props[1].Required || props[2].Required {
		t.Errorf("required markers wrong: %+v", props)
	}
	if props[0].Node.Constraints.Format != "int64" {
		t.Errorf("format lost: %+v", props[0].Node.Constraints)
	}
	if props[1].Node.Constraints.MinLength == nil || *props[1].Node.Constraints.MinLength != 1 {
		t.Errorf("minLength lost: %+v", props[1].Node.Constraints)
	}
	if !props[2].Node.Nullable {
		t.Errorf("nullable flag lost on tag")
	}
}

func TestOpenAPIInlineBodyHoisted(t *testing.T) {
	doc := loadPetDocument(t)

	hoisted := declByName(t, doc, "CreatePetRequest")
	if hoisted.Node.Kind != ir.KindObject || hoisted.Node.Properties[0].Name != "name" {
		t.Errorf("hoisted body = %+v, expected the inline object shape", hoisted.Node)
	}

	for _, op := range doc.Operations {
		if op.Name != "createPet" {
			continue
		}
		if op.RequestBody == nil || op.RequestBody.Kind != ir.KindRef || op.RequestBody.Ref != "CreatePetRequest" {
			t.Errorf("request body = %+v, expected a reference to the hoisted declaration", op.RequestBody)
		}
	}
}

func TestOpenAPIOperationsThroughBuild(t *testing.T) {
	doc := loadPetDocument(t)

	g, ops, err := graph.Build(doc, graph.Options{})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("got %d operations, expected 2", len(ops))
	}

	var created *ir.Operation
	for i := range ops {
		if ops[i].Name == "createPet" {
			created = &ops[i]
		}
	}
	if created == nil {
		t.Fatalf("createPet missing from %v", ops)
	}
	if len(created.Responses) != 2 {
		t.Fatalf("responses = %+v, expected 201 and 204", created.Responses)
	}
	if created.Responses[0].Status != "201" || created.Responses[0].Type.Ref != "Pet" {
		t.Errorf("201 response = %+v, expected resolved Pet reference", created.Responses[0])
	}
	if created.Responses[1].Status != "204" || created.Responses[1].Type != nil {
		t.Errorf("204 response = %+v, expected the nil empty marker", created.Responses[1])
	}

	if _, ok := g.Lookup("CreatePetRequest"); !ok {
		t.Errorf("hoisted declaration missing from graph: %v", g.Order)
	}
}
