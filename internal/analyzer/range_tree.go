package analyzer

import "fmt"

// Range is a half-open interval [Start, End) over the index space
type Range struct {
	Start int
	End   int
}

// Contains reports whether other lies entirely within r
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Overlaps reports whether the two ranges share any index
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// RangeTreeNode wraps one range inside the nesting tree. Children are
// ordered by increasing start and linked through Next.
type RangeTreeNode struct {
	rng        Range
	parent     *RangeTreeNode
	firstChild *RangeTreeNode
	next       *RangeTreeNode
}

// Start returns the inclusive start of the node's range
func (n *RangeTreeNode) Start() int { return n.rng.Start }

// End returns the exclusive end of the node's range
func (n *RangeTreeNode) End() int { return n.rng.End }

// Parent returns the enclosing node, nil for the root
func (n *RangeTreeNode) Parent() *RangeTreeNode { return n.parent }

// FirstChild returns the leftmost child, nil for leaves
func (n *RangeTreeNode) FirstChild() *RangeTreeNode { return n.firstChild }

// Next returns the node's right sibling, nil for the last child
func (n *RangeTreeNode) Next() *RangeTreeNode { return n.next }

// RangeTree organizes a set of ranges into a tree ordered by strict
// interval containment. Any two inserted ranges must either be disjoint
// or nest completely; a partial overlap indicates a malformed input
// graph and panics. Inserting a range twice is a no-op.
type RangeTree struct {
	root *RangeTreeNode
}

// NewRangeTree builds a tree whose virtual root spans [0, size) and
// inserts every given range.
func NewRangeTree(size int, ranges []Range) *RangeTree {
	tree := &RangeTree{
		root: &RangeTreeNode{rng: Range{Start: 0, End: size}},
	}
	for _, rng := range ranges {
		tree.insert(rng)
	}
	return tree
}

// Root returns the virtual root node
func (t *RangeTree) Root() *RangeTreeNode {
	return t.root
}

func (t *RangeTree) insert(rng Range) {
	node := t.root
	if !node.rng.Contains(rng) {
		panic(fmt.Sprintf("range [%d,%d) exceeds tree bounds [%d,%d)",
			rng.Start, rng.End, node.rng.Start, node.rng.End))
	}

descend:
	for {
		for child := node.firstChild; child != nil; child = child.next {
			if child.rng == rng {
				return
			}
			if child.rng.Contains(rng) {
				node = child
				continue descend
			}
			if child.rng.Overlaps(rng) && !rng.Contains(child.rng) {
				panic(fmt.Sprintf("range [%d,%d) partially overlaps [%d,%d)",
					rng.Start, rng.End, child.rng.Start, child.rng.End))
			}
		}
		break
	}

	// Splice the new node into node's child list, adopting any existing
	// children that the new range swallows. Children stay ordered by
	// increasing start.
	added := &RangeTreeNode{rng: rng, parent: node}
	var adoptedTail *RangeTreeNode
	link := &node.firstChild
	for *link != nil && (*link).rng.Start < rng.Start {
		link = &(*link).next
	}
	for *link != nil && rng.Contains((*link).rng) {
		child := *link
		*link = child.next
		child.parent = added
		child.next = nil
		if adoptedTail == nil {
			added.firstChild = child
		} else {
			adoptedTail.next = child
		}
		adoptedTail = child
	}
	added.next = *link
	*link = added
}

// Ranges returns every inserted range in depth-first, increasing-start
// order. Intended for diagnostics and tests.
func (t *RangeTree) Ranges() []Range {
	var result []Range
	var walk func(n *RangeTreeNode)
	walk = func(n *RangeTreeNode) {
		for child := n.firstChild; child != nil; child = child.next {
			result = append(result, child.rng)
			walk(child)
		}
	}
	walk(t.root)
	return result
}
