// Package ingest translates the three supported source formats — OpenAPI
// interface specifications, standalone JSON Schema documents, and raw JSON
// data samples — into the unresolved node trees of the shared ir vocabulary.
// Cross-references are left as raw pointer strings; resolution is the graph
// package's job.
package ingest

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/typegen/pkg/graph"
	"github.com/blimu-dev/typegen/pkg/ir"
	"github.com/blimu-dev/typegen/pkg/utils"
)

// FromOpenAPI maps an OpenAPI document into an unresolved ir.Document:
// component schemas become declarations (sorted by name for determinism) and
// every route becomes a raw operation entry. Inline request-body objects are
// hoisted into named declarations so renderers can refer to them.
func FromOpenAPI(doc *openapi3.T) (*ir.Document, error) {
	out := &ir.Document{}
	namer := graph.NewNamer()

	if doc.Components != nil && doc.Components.Schemas != nil {
		names := make([]string, 0, len(doc.Components.Schemas))
		for name := range doc.Components.Schemas {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := namer.Claim(name); err != nil {
				return nil, err
			}
		}
		for _, name := range names {
			out.Decls = append(out.Decls, ir.Decl{
				Name:   name,
				Node:   schemaRefToNode(doc.Components.Schemas[name]),
				Origin: ir.OriginExplicit,
			})
		}
	}

	if doc.Paths != nil {
		paths := make([]string, 0, doc.Paths.Len())
		for path := range doc.Paths.Map() {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			item := doc.Paths.Value(path)
			for _, entry := range pathOperations(item) {
				if entry.op == nil {
					continue
				}
				op, err := convertOperation(entry.method, path, entry.op, namer, out)
				if err != nil {
					return nil, err
				}
				out.Operations = append(out.Operations, op)
			}
		}
	}
	return out, nil
}

type methodOperation struct {
	method string
	op     *openapi3.Operation
}

func pathOperations(item *openapi3.PathItem) []methodOperation {
	return []methodOperation{
		{"GET", item.Get}, {"POST", item.Post}, {"PUT", item.Put},
		{"PATCH", item.Patch}, {"DELETE", item.Delete},
		{"OPTIONS", item.Options}, {"HEAD", item.Head}, {"TRACE", item.Trace},
	}
}

func convertOperation(method, path string, op *openapi3.Operation, namer *graph.Namer, out *ir.Document) (ir.Operation, error) {
	result := ir.Operation{
		Method:      method,
		Path:        path,
		Name:        op.OperationID,
		Tags:        append([]string(nil), op.Tags...),
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}

	for _, pr := range op.Parameters {
		if pr == nil || pr.Value == nil {
			continue
		}
		p := pr.Value
		param := ir.Param{Name: p.Name, Required: p.Required, Type: schemaRefToNode(p.Schema)}
		switch p.In {
		case openapi3.ParameterInPath:
			param.Location = ir.InPath
			result.PathParams = append(result.PathParams, param)
		case openapi3.ParameterInQuery:
			param.Location = ir.InQuery
			result.QueryParams = append(result.QueryParams, param)
		case openapi3.ParameterInHeader:
			param.Location = ir.InHeader
			result.HeaderParams = append(result.HeaderParams, param)
		}
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		body, err := requestBodyNode(method, path, op, namer, out)
		if err != nil {
			return ir.Operation{}, err
		}
		result.RequestBody = body
	}

	if op.Responses != nil {
		statuses := make([]string, 0, op.Responses.Len())
		for status := range op.Responses.Map() {
			statuses = append(statuses, status)
		}
		sort.Strings(statuses)
		for _, status := range statuses {
			rr := op.Responses.Value(status)
			if rr == nil || rr.Value == nil {
				continue
			}
			result.Responses = append(result.Responses, ir.Response{
				Status: status,
				Type:   responseNode(rr.Value),
			})
		}
	}
	return result, nil
}

// requestBodyNode picks a media type (JSON preferred) and hoists inline
// object bodies into a named declaration, replacing them with a reference.
func requestBodyNode(method, path string, op *openapi3.Operation, namer *graph.Namer, out *ir.Document) (*ir.TypeNode, error) {
	rb := op.RequestBody.Value
	sr := pickMedia(rb.Content)
	if sr == nil {
		return nil, nil
	}
	node := schemaRefToNode(sr)
	if node.Kind != ir.KindObject || len(node.Properties) == 0 {
		return node, nil
	}
	base := op.OperationID
	if base == "" {
		base = op.Summary
	}
	if base == "" {
		base = method + " " + path
	}
	name, err := namer.Claim(utils.ToPascalCase(base) + "Request")
	if err != nil {
		return nil, err
	}
	out.Decls = append(out.Decls, ir.Decl{Name: name, Node: node, Origin: ir.OriginExplicit})
	return &ir.TypeNode{Kind: ir.KindRef, Ref: name}, nil
}

// responseNode returns the payload node for a response, or nil — the empty
// marker — when the response declares no content schema.
func responseNode(resp *openapi3.Response) *ir.TypeNode {
	sr := pickMedia(resp.Content)
	if sr == nil {
		return nil
	}
	return schemaRefToNode(sr)
}

// pickMedia prefers application/json, then the alphabetically first media
// type that carries a schema.
func pickMedia(content openapi3.Content) *openapi3.SchemaRef {
	if content == nil {
		return nil
	}
	if media, ok := content["application/json"]; ok && media.Schema != nil {
		return media.Schema
	}
	types := make([]string, 0, len(content))
	for ct := range content {
		types = append(types, ct)
	}
	sort.Strings(types)
	for _, ct := range types {
		if media := content[ct]; media.Schema != nil {
			return media.Schema
		}
	}
	return nil
}

// schemaRefToNode converts an OpenAPI schema reference into an unresolved
// TypeNode. $ref pointers are preserved verbatim for the resolver.
func schemaRefToNode(sr *openapi3.SchemaRef) *ir.TypeNode {
	if sr == nil {
		return &ir.TypeNode{Kind: ir.KindUnknown}
	}
	if sr.Ref != "" {
		return &ir.TypeNode{Kind: ir.KindRef, Ref: sr.Ref}
	}
	if sr.Value == nil {
		return &ir.TypeNode{Kind: ir.KindUnknown}
	}
	s := sr.Value

	nullable := s.Nullable || (s.Type != nil && s.Type.Includes(openapi3.TypeNull))

	var disc *ir.Discriminator
	if s.Discriminator != nil {
		disc = &ir.Discriminator{PropertyName: s.Discriminator.PropertyName, Mapping: s.Discriminator.Mapping}
	}

	if len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		mode := ir.UnionExactlyOne
		members := s.OneOf
		if len(members) == 0 {
			mode = ir.UnionAnyOf
			members = s.AnyOf
		}
		variants := make([]*ir.TypeNode, 0, len(members))
		for _, sub := range members {
			variants = append(variants, schemaRefToNode(sub))
		}
		return &ir.TypeNode{Kind: ir.KindUnion, Union: mode, Variants: variants, Nullable: nullable, Discriminator: disc}
	}
	if len(s.AllOf) > 0 {
		members := make([]*ir.TypeNode, 0, len(s.AllOf))
		for _, sub := range s.AllOf {
			members = append(members, schemaRefToNode(sub))
		}
		node := &ir.TypeNode{Kind: ir.KindObject, AllOf: members, Nullable: nullable, Discriminator: disc}
		node.Properties = objectFields(s)
		return node
	}

	if len(s.Enum) > 0 {
		return &ir.TypeNode{
			Kind:     ir.KindEnum,
			Enum:     append([]any(nil), s.Enum...),
			EnumBase: enumBaseKind(s),
			Nullable: nullable,
		}
	}

	constraints := extractConstraints(s)
	if s.Type != nil {
		switch {
		case s.Type.Includes(openapi3.TypeString):
			return &ir.TypeNode{Kind: ir.KindString, Nullable: nullable, Constraints: constraints}
		case s.Type.Includes(openapi3.TypeInteger):
			return &ir.TypeNode{Kind: ir.KindInteger, Nullable: nullable, Constraints: constraints}
		case s.Type.Includes(openapi3.TypeNumber):
			return &ir.TypeNode{Kind: ir.KindNumber, Nullable: nullable, Constraints: constraints}
		case s.Type.Includes(openapi3.TypeBoolean):
			return &ir.TypeNode{Kind: ir.KindBoolean, Nullable: nullable, Constraints: constraints}
		case s.Type.Is(openapi3.TypeNull):
			return &ir.TypeNode{Kind: ir.KindNull, Nullable: true}
		case s.Type.Includes(openapi3.TypeArray):
			return &ir.TypeNode{Kind: ir.KindArray, Items: schemaRefToNode(s.Items), Nullable: nullable, Constraints: constraints}
		case s.Type.Includes(openapi3.TypeObject):
			node := &ir.TypeNode{Kind: ir.KindObject, Nullable: nullable, Discriminator: disc, Constraints: constraints}
			node.Properties = objectFields(s)
			if s.AdditionalProperties.Schema != nil {
				node.Additional = schemaRefToNode(s.AdditionalProperties.Schema)
			}
			if s.AdditionalProperties.Has != nil && !*s.AdditionalProperties.Has {
				node.NoExtra = true
			}
			return node
		}
	}
	return &ir.TypeNode{Kind: ir.KindUnknown, Nullable: nullable}
}

// objectFields converts properties in sorted-name order; kin-openapi stores
// them in a Go map, so document order is already lost by the time we see it.
func objectFields(s *openapi3.Schema) []ir.Field {
	if len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for n := range s.Properties {
		names = append(names, n)
	}
	sort.Strings(names)
	fields := make([]ir.Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, ir.Field{
			Name:     n,
			Node:     schemaRefToNode(s.Properties[n]),
			Required: contains(s.Required, n),
		})
	}
	return fields
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func enumBaseKind(s *openapi3.Schema) ir.Kind {
	if s.Type != nil {
		switch {
		case s.Type.Includes(openapi3.TypeString):
			return ir.KindString
		case s.Type.Includes(openapi3.TypeInteger):
			return ir.KindInteger
		case s.Type.Includes(openapi3.TypeNumber):
			return ir.KindNumber
		case s.Type.Includes(openapi3.TypeBoolean):
			return ir.KindBoolean
		}
	}
	if len(s.Enum) > 0 {
		switch s.Enum[0].(type) {
		case string:
			return ir.KindString
		case int, int32, int64:
			return ir.KindInteger
		case float32, float64:
			return ir.KindNumber
		case bool:
			return ir.KindBoolean
		}
	}
	return ir.KindUnknown
}

func extractConstraints(s *openapi3.Schema) ir.Constraints {
	var c ir.Constraints
	c.Minimum = s.Min
	c.Maximum = s.Max
	if s.MinLength > 0 {
		v := int(s.MinLength)
		c.MinLength = &v
	}
	if s.MaxLength != nil {
		v := int(*s.MaxLength)
		c.MaxLength = &v
	}
	if s.MinItems > 0 {
		v := int(s.MinItems)
		c.MinItems = &v
	}
	if s.MaxItems != nil {
		v := int(*s.MaxItems)
		c.MaxItems = &v
	}
	c.Pattern = s.Pattern
	c.Format = s.Format
	return c
}
