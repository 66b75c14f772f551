package decompiler

// Optimizer post-processes a reconstructed statement tree. Every pass
// preserves control-flow semantics, and running the optimizer on its
// own output changes nothing.
type Optimizer struct{}

// NewOptimizer creates an optimizer
func NewOptimizer() *Optimizer {
	return &Optimizer{}
}

// Optimize simplifies the body of a regular method node in place.
// Native nodes pass through untouched.
func (o *Optimizer) Optimize(node *MethodNode) {
	if node.Native || node.Body == nil {
		return
	}
	refs := make(map[string]int)
	countLabelRefs(node.Body, refs)
	node.Body.Body = o.simplifyBody(node.Body.Body, refs)
}

// simplifyBody rewrites one statement list bottom-up:
//   - nested sequentials are spliced into their parent
//   - a block whose label nothing references is replaced by its body
//   - a loop body's trailing continue targeting that same loop is
//     dropped; the loop wraps around anyway
func (o *Optimizer) simplifyBody(body []*Statement, refs map[string]int) []*Statement {
	result := make([]*Statement, 0, len(body))
	for _, stmt := range body {
		switch stmt.Kind {
		case StmtSequential:
			result = append(result, o.simplifyBody(stmt.Body, refs)...)
		case StmtBlock:
			stmt.Body = o.simplifyBody(stmt.Body, refs)
			if refs[stmt.ID] == 0 {
				result = append(result, stmt.Body...)
			} else {
				result = append(result, stmt)
			}
		case StmtWhile:
			stmt.Body = o.simplifyBody(stmt.Body, refs)
			if n := len(stmt.Body); n > 0 {
				last := stmt.Body[n-1]
				if last.Kind == StmtContinue && last.Target == stmt.ID {
					stmt.Body = stmt.Body[:n-1]
					refs[stmt.ID]--
				}
			}
			result = append(result, stmt)
		case StmtCond:
			stmt.Then = o.simplifyBody(stmt.Then, refs)
			stmt.Else = o.simplifyBody(stmt.Else, refs)
			result = append(result, stmt)
		default:
			result = append(result, stmt)
		}
	}
	return result
}

// countLabelRefs counts break/continue references per scope label
func countLabelRefs(stmt *Statement, refs map[string]int) {
	switch stmt.Kind {
	case StmtBreak, StmtContinue:
		refs[stmt.Target]++
	}
	for _, child := range stmt.Body {
		countLabelRefs(child, refs)
	}
	for _, child := range stmt.Then {
		countLabelRefs(child, refs)
	}
	for _, child := range stmt.Else {
		countLabelRefs(child, refs)
	}
}
