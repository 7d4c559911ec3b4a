package typescript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blimu-dev/typegen/pkg/ir"
)

// nodeToTSType renders a type node as a TypeScript type expression.
func nodeToTSType(n *ir.TypeNode) string {
	if n == nil {
		return "unknown"
	}
	// Base type string without nullability; append null later
	var t string
	switch n.Kind {
	case ir.KindString:
		if n.Constraints.Format == "binary" {
			t = "Blob"
		} else {
			t = "string"
		}
	case ir.KindInteger, ir.KindNumber:
		t = "number"
	case ir.KindBoolean:
		t = "boolean"
	case ir.KindNull:
		t = "null"
	case ir.KindRef:
		if n.Ref != "" {
			t = n.Ref
		} else {
			t = "unknown"
		}
	case ir.KindArray:
		inner := nodeToTSType(n.Items)
		// Wrap unions in parentheses inside Array<>
		if strings.Contains(inner, " | ") || strings.Contains(inner, " & ") {
			inner = "(" + inner + ")"
		}
		t = "Array<" + inner + ">"
	case ir.KindUnion:
		parts := make([]string, 0, len(n.Variants))
		for _, v := range n.Variants {
			parts = append(parts, nodeToTSType(v))
		}
		t = strings.Join(parts, " | ")
	case ir.KindEnum:
		parts := make([]string, 0, len(n.Enum))
		for _, v := range n.Enum {
			parts = append(parts, enumLiteral(v))
		}
		t = strings.Join(parts, " | ")
	case ir.KindMap:
		t = "Record<string, " + nodeToTSType(n.Additional) + ">"
	case ir.KindObject:
		if len(n.Properties) == 0 {
			t = "Record<string, unknown>"
		} else {
			// Inline object shape for rare cases; nested ones should be refs
			parts := make([]string, 0, len(n.Properties))
			for _, f := range n.Properties {
				ft := nodeToTSType(f.Node)
				if f.Required {
					parts = append(parts, quotePropertyName(f.Name)+": "+ft)
				} else {
					parts = append(parts, quotePropertyName(f.Name)+"?: "+ft)
				}
			}
			t = "{" + strings.Join(parts, "; ") + "}"
		}
	default:
		t = "unknown"
	}
	if n.Nullable && t != "null" {
		t += " | null"
	}
	return t
}

func enumLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", val)
	}
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// quotePropertyName quotes a property name unless it is a valid identifier.
func quotePropertyName(name string) string {
	if identifierRe.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}
