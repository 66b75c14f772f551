package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/unflat/internal/ir"
)

// EdgeType represents the type of edge between basic blocks
type EdgeType int

const (
	// EdgeNormal represents unconditional or fall-through flow
	EdgeNormal EdgeType = iota
	// EdgeCondTrue represents the taken branch of a condition
	EdgeCondTrue
	// EdgeCondFalse represents the not-taken branch of a condition
	EdgeCondFalse
)

// String returns string representation of EdgeType
func (e EdgeType) String() string {
	switch e {
	case EdgeNormal:
		return "normal"
	case EdgeCondTrue:
		return "true"
	case EdgeCondFalse:
		return "false"
	default:
		return "unknown"
	}
}

// Edge represents a directed edge between two basic blocks
type Edge struct {
	From *BasicBlock
	To   *BasicBlock
	Type EdgeType
}

// BasicBlock is a node of the control flow graph. It wraps one ir.Block
// and carries the graph connectivity.
type BasicBlock struct {
	// ID is the block's identifier from the input program
	ID int

	// Block is the underlying instruction sequence
	Block *ir.Block

	// Predecessors are edges from blocks that can flow into this block
	Predecessors []*Edge

	// Successors are edges to blocks this block can flow to
	Successors []*Edge
}

// AddSuccessor adds an outgoing edge to another block
func (bb *BasicBlock) AddSuccessor(to *BasicBlock, edgeType EdgeType) *Edge {
	edge := &Edge{
		From: bb,
		To:   to,
		Type: edgeType,
	}
	bb.Successors = append(bb.Successors, edge)
	to.Predecessors = append(to.Predecessors, edge)
	return edge
}

// String returns a string representation of the basic block
func (bb *BasicBlock) String() string {
	return fmt.Sprintf("[bb%d: %d insns]", bb.ID, len(bb.Block.Instructions))
}

// CFG represents a control flow graph over a method's basic blocks
type CFG struct {
	// Entry is the entry point of the graph
	Entry *BasicBlock

	// Blocks contains all blocks in the graph, indexed by ID
	Blocks map[int]*BasicBlock

	// Name is the name of the CFG (e.g., method name)
	Name string
}

// BuildCFG derives the control flow graph of a program. The first block
// in program order is the entry. Edges come from each block's
// terminator; a block without one falls through to the next block in
// program order.
func BuildCFG(name string, program *ir.Program) (*CFG, error) {
	if program == nil || len(program.Blocks) == 0 {
		return nil, fmt.Errorf("cannot build CFG from empty program")
	}

	cfg := &CFG{
		Name:   name,
		Blocks: make(map[int]*BasicBlock, len(program.Blocks)),
	}
	for _, block := range program.Blocks {
		cfg.Blocks[block.ID] = &BasicBlock{ID: block.ID, Block: block}
	}
	cfg.Entry = cfg.Blocks[program.Blocks[0].ID]

	for i, block := range program.Blocks {
		from := cfg.Blocks[block.ID]
		term := block.Terminator()
		if term == nil {
			if i == len(program.Blocks)-1 {
				return nil, fmt.Errorf("%s: block %d falls off the end of the program", name, block.ID)
			}
			from.AddSuccessor(cfg.Blocks[program.Blocks[i+1].ID], EdgeNormal)
			continue
		}
		switch term.Op {
		case ir.OpJump:
			from.AddSuccessor(cfg.Blocks[term.Target], EdgeNormal)
		case ir.OpBranch:
			from.AddSuccessor(cfg.Blocks[term.Then], EdgeCondTrue)
			from.AddSuccessor(cfg.Blocks[term.Else], EdgeCondFalse)
		case ir.OpReturn:
			// no successors
		}
	}
	return cfg, nil
}

// GetBlock retrieves a block by its ID
func (cfg *CFG) GetBlock(id int) *BasicBlock {
	return cfg.Blocks[id]
}

// Size returns the number of blocks in the graph
func (cfg *CFG) Size() int {
	return len(cfg.Blocks)
}

// FallthroughSuccessor returns the target of the block's single normal
// outgoing edge, or nil when the block ends in a branch or return.
func (cfg *CFG) FallthroughSuccessor(bb *BasicBlock) *BasicBlock {
	if len(bb.Successors) != 1 || bb.Successors[0].Type != EdgeNormal {
		return nil
	}
	return bb.Successors[0].To
}

// CFGVisitor defines the interface for visiting CFG nodes
type CFGVisitor interface {
	// VisitBlock is called for each basic block
	// Returns false to stop traversal
	VisitBlock(block *BasicBlock) bool

	// VisitEdge is called for each edge
	// Returns false to stop traversal
	VisitEdge(edge *Edge) bool
}

// Walk performs a depth-first traversal of the CFG
func (cfg *CFG) Walk(visitor CFGVisitor) {
	if cfg.Entry == nil {
		return
	}

	visited := make(map[int]bool)
	cfg.walkBlock(cfg.Entry, visitor, visited)
}

// walkBlock recursively visits blocks in depth-first order
func (cfg *CFG) walkBlock(block *BasicBlock, visitor CFGVisitor, visited map[int]bool) {
	if block == nil || visited[block.ID] {
		return
	}

	visited[block.ID] = true

	if !visitor.VisitBlock(block) {
		return
	}

	for _, edge := range block.Successors {
		if !visitor.VisitEdge(edge) {
			return
		}
		cfg.walkBlock(edge.To, visitor, visited)
	}
}

// String returns a string representation of the CFG
func (cfg *CFG) String() string {
	return fmt.Sprintf("CFG(%s): %d blocks", cfg.Name, cfg.Size())
}
