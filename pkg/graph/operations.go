package graph

import (
	"sort"
	"strings"

	"github.com/blimu-dev/typegen/pkg/ir"
	"github.com/blimu-dev/typegen/pkg/utils"
)

// extractOperations finalizes the route entries of an interface-specification
// document: derives method names, flags entries without a grouping tag, and
// fixes a deterministic order. The operations reference graph nodes resolved
// earlier in the run and never copy them.
func extractOperations(doc *ir.Document) []ir.Operation {
	ops := make([]ir.Operation, len(doc.Operations))
	copy(ops, doc.Operations)
	for i := range ops {
		op := &ops[i]
		if op.Name == "" {
			op.Name = deriveMethodName(op.Method, op.Path)
		} else {
			op.Name = utils.ToCamelCase(op.Name)
		}
		op.Ungrouped = len(op.Tags) == 0
		sortParams(op.PathParams)
		sortParams(op.QueryParams)
		sortParams(op.HeaderParams)
		sort.Slice(op.Responses, func(a, b int) bool { return op.Responses[a].Status < op.Responses[b].Status })
	}
	sort.Slice(ops, func(a, b int) bool {
		if ops[a].Path == ops[b].Path {
			return ops[a].Method < ops[b].Method
		}
		return ops[a].Path < ops[b].Path
	})
	return ops
}

func sortParams(params []ir.Param) {
	sort.Slice(params, func(i, j int) bool { return params[i].Name < params[j].Name })
}

// deriveMethodName synthesizes a method name from the route when the source
// declares no operation id: "GET /pets/{petId}" -> "getPetsByPetId".
func deriveMethodName(method, path string) string {
	parts := []string{strings.ToLower(method)}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			parts = append(parts, "by", strings.Trim(seg, "{}"))
			continue
		}
		parts = append(parts, seg)
	}
	return utils.ToCamelCase(strings.Join(parts, " "))
}
