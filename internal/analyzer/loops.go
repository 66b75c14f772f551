package analyzer

import "sort"

// Loop is one natural loop, identified by its head index. Parent is the
// next outer loop, nil for top-level loops.
type Loop struct {
	Head   int
	Parent *Loop
}

// LoopGraph maps every index to the innermost natural loop containing
// it. Loops are discovered from back edges (edges whose target
// dominates their source); membership is collected by walking
// predecessors backwards from each back-edge source to the head.
// Irreducible regions cannot occur in the supported inputs; each loop
// has the single entry its head provides.
type LoopGraph struct {
	innermost []*Loop
}

// NewLoopGraph computes the loop nesting forest of an indexed graph
func NewLoopGraph(gi *GraphIndexer) *LoopGraph {
	return &LoopGraph{innermost: buildLoopForest(gi.in, gi.out)}
}

// LoopAt returns the innermost loop containing the given index, or nil
// when the index is not part of any loop.
func (lg *LoopGraph) LoopAt(index int) *Loop {
	return lg.innermost[index]
}

// buildLoopForest computes per-node innermost loops over an adjacency
// numbered so that dominators precede the nodes they dominate (any
// reverse postorder qualifies). Node 0 is the entry.
func buildLoopForest(in, out [][]int) []*Loop {
	sz := len(in)
	innermost := make([]*Loop, sz)
	if sz == 0 {
		return innermost
	}

	idom := computeDominators(in)
	dominates := func(a, b int) bool {
		for b != a && b > 0 {
			b = idom[b]
		}
		return b == a
	}

	// Group loop members by head. Membership is the backwards-reachable
	// set from each back-edge source, stopping at the head; the head
	// belongs to its own loop.
	members := make(map[int]map[int]bool)
	var heads []int
	for node := 0; node < sz; node++ {
		for _, succ := range out[node] {
			if succ > node || !dominates(succ, node) {
				continue
			}
			head := succ
			if members[head] == nil {
				members[head] = map[int]bool{head: true}
				heads = append(heads, head)
			}
			collectLoopMembers(in, head, node, members[head])
		}
	}

	// Outer loops first, so that when an inner head is processed its
	// innermost slot already holds the enclosing loop.
	sort.Slice(heads, func(i, j int) bool {
		return len(members[heads[i]]) > len(members[heads[j]])
	})
	for _, head := range heads {
		loop := &Loop{Head: head, Parent: innermost[head]}
		for node := range members[head] {
			innermost[node] = loop
		}
	}
	return innermost
}

// collectLoopMembers walks predecessor edges up from a back-edge source
// until the head, adding every visited node to the member set.
func collectLoopMembers(in [][]int, head, node int, set map[int]bool) {
	if set[node] {
		return
	}
	set[node] = true
	for _, pred := range in[node] {
		collectLoopMembers(in, head, pred, set)
	}
}

// computeDominators returns the immediate dominator of every node via
// iterative intersection. Requires the dominator-precedes numbering
// buildLoopForest documents. idom[0] == 0.
func computeDominators(in [][]int) []int {
	sz := len(in)
	idom := make([]int, sz)
	for i := range idom {
		idom[i] = -1
	}
	idom[0] = 0

	intersect := func(a, b int) int {
		for a != b {
			for a > b {
				a = idom[a]
			}
			for b > a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		for node := 1; node < sz; node++ {
			newIdom := -1
			for _, pred := range in[node] {
				if idom[pred] == -1 {
					continue
				}
				if newIdom == -1 {
					newIdom = pred
				} else {
					newIdom = intersect(newIdom, pred)
				}
			}
			if newIdom != -1 && idom[node] != newIdom {
				idom[node] = newIdom
				changed = true
			}
		}
	}
	return idom
}
