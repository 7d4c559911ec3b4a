// Package graph turns the unresolved node trees produced by the ingestion
// adapters into a finished, reference-resolved, deterministically ordered
// type graph.
//
// The pipeline is synchronous and all-or-nothing: Build either returns one
// complete, internally consistent TypeGraph or a classified error with a
// breadcrumb path; partial graphs are never exposed.
package graph

import (
	"github.com/blimu-dev/typegen/pkg/ir"
)

// Options tune resolution behavior.
type Options struct {
	// StrictComposition makes merge-all property clashes fatal
	// (CompositionConflict) instead of resolving them later-member-wins.
	StrictComposition bool
}

// Build resolves, normalizes, partitions and orders a document into a frozen
// TypeGraph plus the extracted operation list (empty unless the input was an
// interface specification).
func Build(doc *ir.Document, opts Options) (*ir.TypeGraph, []ir.Operation, error) {
	if doc == nil || (len(doc.Decls) == 0 && len(doc.Operations) == 0) {
		return nil, nil, Errorf(InvalidInputDocument, "", "document declares no types or operations")
	}

	r, err := resolve(doc)
	if err != nil {
		return nil, nil, err
	}
	if err := normalize(r, opts.StrictComposition); err != nil {
		return nil, nil, err
	}
	collectRefs(r.types, r.order)

	components := stronglyConnected(r.types, r.order, r.discovery)
	order := topoOrder(r.types, components, r.discovery)

	// Components re-listed in emission order.
	compOf := make(map[string]int, len(r.types))
	for i, comp := range components {
		for _, name := range comp {
			compOf[name] = i
		}
	}
	ordered := make([][]string, 0, len(components))
	emitted := make(map[int]bool, len(components))
	for _, name := range order {
		if i := compOf[name]; !emitted[i] {
			emitted[i] = true
			ordered = append(ordered, components[i])
		}
	}

	g := ir.NewTypeGraph(order, r.types, ordered)
	return g, extractOperations(doc), nil
}
