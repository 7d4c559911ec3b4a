package graph

import (
	"github.com/blimu-dev/typegen/pkg/ir"
)

// collectRefs records, for every named type, the canonical names it
// references in first-seen order. Runs after normalization so merged-in
// properties contribute their edges to the merging type.
func collectRefs(types map[string]*ir.NamedType, order []string) {
	for _, name := range order {
		t := types[name]
		seen := map[string]bool{}
		t.Refs = t.Refs[:0]
		var walk func(n *ir.TypeNode)
		walk = func(n *ir.TypeNode) {
			if n == nil {
				return
			}
			if n.Kind == ir.KindRef {
				if !seen[n.Ref] {
					seen[n.Ref] = true
					t.Refs = append(t.Refs, n.Ref)
				}
				return
			}
			for _, f := range n.Properties {
				walk(f.Node)
			}
			walk(n.Additional)
			walk(n.Items)
			for _, v := range n.Variants {
				walk(v)
			}
			for _, m := range n.AllOf {
				walk(m)
			}
		}
		walk(t.Node)
	}
}

// tarjan partitions the reference graph into strongly connected components.
// Vertices are visited in first-discovery order, and members inside each
// component are reported by first-discovery index, so the partition is
// independent of source-map iteration order.
type tarjanState struct {
	types     map[string]*ir.NamedType
	discovery map[string]int
	index     map[string]int
	lowlink   map[string]int
	onStack   map[string]bool
	stack     []string
	next      int
	out       [][]string
}

func stronglyConnected(types map[string]*ir.NamedType, order []string, discovery map[string]int) [][]string {
	s := &tarjanState{
		types:     types,
		discovery: discovery,
		index:     make(map[string]int, len(types)),
		lowlink:   make(map[string]int, len(types)),
		onStack:   make(map[string]bool, len(types)),
	}
	for _, name := range order {
		if _, visited := s.index[name]; !visited {
			s.connect(name)
		}
	}
	for _, comp := range s.out {
		sortByDiscovery(comp, discovery)
	}
	return s.out
}

func (s *tarjanState) connect(v string) {
	s.index[v] = s.next
	s.lowlink[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.types[v].Refs {
		if _, visited := s.index[w]; !visited {
			s.connect(w)
			if s.lowlink[w] < s.lowlink[v] {
				s.lowlink[v] = s.lowlink[w]
			}
		} else if s.onStack[w] {
			if s.index[w] < s.lowlink[v] {
				s.lowlink[v] = s.index[w]
			}
		}
	}

	if s.lowlink[v] == s.index[v] {
		var comp []string
		for {
			w := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		s.out = append(s.out, comp)
	}
}

func sortByDiscovery(names []string, discovery map[string]int) {
	// insertion sort; components are small
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && discovery[names[j]] < discovery[names[j-1]]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
