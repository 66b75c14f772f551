package analyzer

import "sort"

// GraphIndexer assigns every reachable basic block a contiguous index
// such that dominators precede the blocks they dominate and the body
// of every natural loop occupies a contiguous index range immediately
// following its head. Unreachable blocks receive no index.
type GraphIndexer struct {
	cfg     *CFG
	order   []int       // index -> block ID
	indexOf map[int]int // block ID -> index
	in      [][]int     // index -> predecessor indexes
	out     [][]int     // index -> successor indexes
}

// NewGraphIndexer computes the index assignment for a CFG
func NewGraphIndexer(cfg *CFG) *GraphIndexer {
	gi := &GraphIndexer{
		cfg:     cfg,
		indexOf: make(map[int]int, cfg.Size()),
	}

	rpo := reversePostorder(cfg)
	in, out := adjacency(cfg, rpo)

	// A plain reverse postorder keeps dominators first but may
	// interleave loop members with blocks outside the loop. Regroup by
	// sorting on the chain of enclosing loop heads, outermost first:
	// members of a loop then share a key prefix and pack together
	// right behind their head, while order inside each group is
	// unchanged.
	innermost := buildLoopForest(in, out)
	keys := make([][]int, len(rpo))
	for idx := range rpo {
		var chain []int
		for loop := innermost[idx]; loop != nil; loop = loop.Parent {
			chain = append(chain, loop.Head)
		}
		key := make([]int, 0, len(chain)+1)
		for i := len(chain) - 1; i >= 0; i-- {
			key = append(key, chain[i])
		}
		keys[idx] = append(key, idx)
	}
	perm := make([]int, len(rpo))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return lessIntSlice(keys[perm[a]], keys[perm[b]])
	})

	gi.order = make([]int, len(rpo))
	for idx, old := range perm {
		id := rpo[old]
		gi.order[idx] = id
		gi.indexOf[id] = idx
	}
	gi.in, gi.out = adjacency(cfg, gi.order)
	return gi
}

func reversePostorder(cfg *CFG) []int {
	postorder := make([]int, 0, cfg.Size())
	visited := make(map[int]bool, cfg.Size())
	var visit func(bb *BasicBlock)
	visit = func(bb *BasicBlock) {
		if visited[bb.ID] {
			return
		}
		visited[bb.ID] = true
		for i := len(bb.Successors) - 1; i >= 0; i-- {
			visit(bb.Successors[i].To)
		}
		postorder = append(postorder, bb.ID)
	}
	visit(cfg.Entry)

	order := make([]int, len(postorder))
	for i := range postorder {
		order[i] = postorder[len(postorder)-1-i]
	}
	return order
}

func adjacency(cfg *CFG, order []int) (in, out [][]int) {
	indexOf := make(map[int]int, len(order))
	for idx, id := range order {
		indexOf[id] = idx
	}
	in = make([][]int, len(order))
	out = make([][]int, len(order))
	for idx, id := range order {
		for _, edge := range cfg.Blocks[id].Successors {
			succ, ok := indexOf[edge.To.ID]
			if !ok {
				continue
			}
			out[idx] = append(out[idx], succ)
			in[succ] = append(in[succ], idx)
		}
	}
	return in, out
}

func lessIntSlice(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Size returns the number of indexed blocks
func (gi *GraphIndexer) Size() int {
	return len(gi.order)
}

// BlockAt maps an index back to its block ID, or -1 when the index is
// out of range.
func (gi *GraphIndexer) BlockAt(index int) int {
	if index < 0 || index >= len(gi.order) {
		return -1
	}
	return gi.order[index]
}

// IndexOf maps a block ID to its index, or -1 for unreachable blocks
func (gi *GraphIndexer) IndexOf(blockID int) int {
	index, ok := gi.indexOf[blockID]
	if !ok {
		return -1
	}
	return index
}

// IncomingEdges returns the predecessor indexes of the block at index
func (gi *GraphIndexer) IncomingEdges(index int) []int {
	return gi.in[index]
}

// OutgoingEdges returns the successor indexes of the block at index
func (gi *GraphIndexer) OutgoingEdges(index int) []int {
	return gi.out[index]
}
