package decompiler

import (
	"fmt"

	"github.com/ludo-technologies/unflat/internal/analyzer"
	"github.com/ludo-technologies/unflat/internal/ir"
)

// statementGenerator translates one basic block's instructions into
// statement fragments. Control transfers resolve against the block map
// the structuring pass maintains: a jump to the logical next index is a
// fallthrough and emits nothing, a jump to a while head becomes a
// continue, anything else becomes a labeled break.
type statementGenerator struct {
	cfg      *analyzer.CFG
	indexer  *analyzer.GraphIndexer
	blockMap []*scope
	next     int
}

func newStatementGenerator(cfg *analyzer.CFG, indexer *analyzer.GraphIndexer, blockMap []*scope) *statementGenerator {
	return &statementGenerator{
		cfg:      cfg,
		indexer:  indexer,
		blockMap: blockMap,
	}
}

// translate renders the block's instructions given the logical next
// index supplied by the structuring pass.
func (g *statementGenerator) translate(block *analyzer.BasicBlock, next int) []*Statement {
	g.next = next
	var statements []*Statement
	for i := range block.Block.Instructions {
		insn := &block.Block.Instructions[i]
		switch insn.Op {
		case ir.OpAssign, ir.OpEval:
			statements = append(statements, NewSimple(insn.Text))
		case ir.OpJump:
			statements = append(statements, g.exit(insn.Target)...)
		case ir.OpBranch:
			statements = append(statements, NewCond(insn.Cond, g.exit(insn.Then), g.exit(insn.Else)))
		case ir.OpReturn:
			statements = append(statements, NewReturn(insn.Value))
		}
	}
	if block.Block.Terminator() == nil {
		statements = append(statements, g.exit(g.cfg.FallthroughSuccessor(block).ID)...)
	}
	return statements
}

// exit resolves a control transfer to the block with the given ID. A
// missing block-map entry means the upstream graph broke the nesting
// contract; that is a logic fault, not a recoverable condition.
func (g *statementGenerator) exit(target int) []*Statement {
	if g.indexer.IndexOf(target) == g.next {
		return nil
	}
	sc := g.blockMap[target]
	if sc == nil {
		panic(fmt.Sprintf("no enclosing statement for jump to block %d", target))
	}
	if sc.statement.Kind == StmtWhile && sc.start == g.indexer.IndexOf(target) {
		return []*Statement{NewContinue(sc.statement.ID)}
	}
	return []*Statement{NewBreak(sc.statement.ID)}
}
