package graph

import (
	"container/heap"

	"github.com/blimu-dev/typegen/pkg/ir"
)

// topoOrder runs Kahn's algorithm over the SCC-condensed DAG and returns the
// emission sequence: component members (already in first-discovery order)
// concatenated so that every out-of-component dependency precedes its
// dependents. Zero-in-degree ties break on the component's earliest
// discovery index, which makes the order stable across runs.
func topoOrder(types map[string]*ir.NamedType, components [][]string, discovery map[string]int) []string {
	compOf := make(map[string]int, len(types))
	for i, comp := range components {
		for _, name := range comp {
			compOf[name] = i
		}
	}

	rank := make([]int, len(components))
	for i, comp := range components {
		rank[i] = discovery[comp[0]]
	}

	dependents := make([][]int, len(components))
	inDegree := make([]int, len(components))
	seen := make(map[[2]int]bool)
	for i, comp := range components {
		for _, name := range comp {
			for _, ref := range types[name].Refs {
				j := compOf[ref]
				if j == i || seen[[2]int{j, i}] {
					continue
				}
				seen[[2]int{j, i}] = true
				dependents[j] = append(dependents[j], i)
				inDegree[i]++
			}
		}
	}

	ready := &compHeap{rank: rank}
	for i := range components {
		if inDegree[i] == 0 {
			heap.Push(ready, i)
		}
	}

	var order []string
	for ready.Len() > 0 {
		i := heap.Pop(ready).(int)
		order = append(order, components[i]...)
		for _, j := range dependents[i] {
			inDegree[j]--
			if inDegree[j] == 0 {
				heap.Push(ready, j)
			}
		}
	}
	return order
}

// compHeap is a min-heap of component indices keyed by discovery rank.
type compHeap struct {
	items []int
	rank  []int
}

func (h *compHeap) Len() int           { return len(h.items) }
func (h *compHeap) Less(i, j int) bool { return h.rank[h.items[i]] < h.rank[h.items[j]] }
func (h *compHeap) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *compHeap) Push(x any)         { h.items = append(h.items, x.(int)) }
func (h *compHeap) Pop() any {
	last := len(h.items) - 1
	x := h.items[last]
	h.items = h.items[:last]
	return x
}
