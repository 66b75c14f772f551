package decompiler

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/analyzer"
	"github.com/ludo-technologies/unflat/internal/ir"
)

// ClassNode is the structured output for one class
type ClassNode struct {
	Name       string        `json:"name" yaml:"name"`
	Parent     string        `json:"parent,omitempty" yaml:"parent,omitempty"`
	Interfaces []string      `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Fields     []*FieldNode  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods    []*MethodNode `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// FieldNode is the structured output for one field
type FieldNode struct {
	Name      string        `json:"name" yaml:"name"`
	Type      string        `json:"type" yaml:"type"`
	Initial   string        `json:"initial,omitempty" yaml:"initial,omitempty"`
	Modifiers []ir.Modifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// MethodNode is the structured output for one method: either a native
// node wrapping a resolved generator, or a regular node wrapping the
// reconstructed statement tree.
type MethodNode struct {
	Name          string        `json:"name" yaml:"name"`
	Modifiers     []ir.Modifier `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Native        bool          `json:"native,omitempty" yaml:"native,omitempty"`
	GeneratorID   string        `json:"generator,omitempty" yaml:"generator,omitempty"`
	Generator     Generator     `json:"-" yaml:"-"`
	VariableCount int           `json:"variables,omitempty" yaml:"variables,omitempty"`
	Body          *Statement    `json:"body,omitempty" yaml:"body,omitempty"`
}

// Decompiler reconstructs structured control flow for whole classes.
// It holds only immutable collaborators; every method decompilation
// owns its working state exclusively, so independent methods may be
// processed in parallel.
type Decompiler struct {
	classSource ir.ClassSource
	generators  *GeneratorRegistry
	maxWorkers  int
	logger      *log.Logger
}

// NewDecompiler creates a decompiler over the given class source
func NewDecompiler(classSource ir.ClassSource, generators *GeneratorRegistry) *Decompiler {
	if generators == nil {
		generators = NewGeneratorRegistry()
	}
	return &Decompiler{
		classSource: classSource,
		generators:  generators,
		maxWorkers:  1,
	}
}

// SetMaxWorkers bounds the number of methods decompiled concurrently
// within one class. Values below 1 mean no limit.
func (d *Decompiler) SetMaxWorkers(n int) {
	d.maxWorkers = n
}

// SetLogger sets an optional logger for progress reporting
func (d *Decompiler) SetLogger(logger *log.Logger) {
	d.logger = logger
}

// logf logs a message if a logger is set
func (d *Decompiler) logf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Printf("decompiler: "+format, args...)
	}
}

// DecompileClasses decompiles the named classes plus every supertype
// and interface they reach, supertypes and interfaces strictly before
// the classes that mention them. A missing class aborts the whole
// batch.
func (d *Decompiler) DecompileClasses(ctx context.Context, classNames []string) ([]*ClassNode, error) {
	var sequence []string
	visited := make(map[string]bool)
	for _, className := range classNames {
		if err := d.orderClasses(className, visited, &sequence); err != nil {
			return nil, err
		}
	}
	result := make([]*ClassNode, 0, len(sequence))
	for _, className := range sequence {
		cls, _ := d.classSource.ClassByName(className)
		node, err := d.DecompileClass(ctx, cls)
		if err != nil {
			return nil, err
		}
		result = append(result, node)
	}
	return result, nil
}

// orderClasses appends className and its ancestry to order in
// dependency-first sequence, cycle-safe through the visited set.
func (d *Decompiler) orderClasses(className string, visited map[string]bool, order *[]string) error {
	if visited[className] {
		return nil
	}
	visited[className] = true
	cls, ok := d.classSource.ClassByName(className)
	if !ok {
		return domain.NewClassNotFoundError(className)
	}
	if cls.Parent != "" {
		if err := d.orderClasses(cls.Parent, visited, order); err != nil {
			return err
		}
	}
	for _, iface := range cls.Interfaces {
		if err := d.orderClasses(iface, visited, order); err != nil {
			return err
		}
	}
	*order = append(*order, className)
	return nil
}

// DecompileClass decompiles every concrete method of one class.
// Methods are independent, so they run in parallel under the
// configured worker limit; the first failure cancels the rest.
func (d *Decompiler) DecompileClass(ctx context.Context, cls *ir.Class) (*ClassNode, error) {
	d.logf("decompiling class %s", cls.Name)
	clsNode := &ClassNode{
		Name:       cls.Name,
		Parent:     cls.Parent,
		Interfaces: cls.Interfaces,
	}
	for _, field := range cls.Fields {
		clsNode.Fields = append(clsNode.Fields, &FieldNode{
			Name:      field.Name,
			Type:      field.Type,
			Initial:   field.Initial,
			Modifiers: mapModifiers(field.Modifiers),
		})
	}

	var methods []*ir.Method
	for _, method := range cls.Methods {
		if method.HasModifier(ir.ModAbstract) {
			continue
		}
		methods = append(methods, method)
	}

	nodes := make([]*MethodNode, len(methods))
	group, ctx := errgroup.WithContext(ctx)
	if d.maxWorkers > 0 {
		group.SetLimit(d.maxWorkers)
	}
	for i, method := range methods {
		i, method := i, method // per-iteration copy for pre-Go 1.22 loop semantics
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			node, err := d.DecompileMethod(cls, method)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	clsNode.Methods = nodes
	return clsNode, nil
}

// DecompileMethod decompiles a single method
func (d *Decompiler) DecompileMethod(cls *ir.Class, method *ir.Method) (*MethodNode, error) {
	if method.HasModifier(ir.ModNative) {
		return d.decompileNative(cls, method)
	}
	return d.decompileRegular(cls, method)
}

// decompileNative resolves the method's declared generator. A missing
// declaration or an unknown generator ID fails the decompilation.
func (d *Decompiler) decompileNative(cls *ir.Class, method *ir.Method) (*MethodNode, error) {
	generatorID, ok := method.Annotations[ir.GeneratedByAnnotation]
	if !ok {
		return nil, domain.NewNativeGeneratorError(fmt.Sprintf(
			"method %s.%s is native, but no %s annotation found",
			cls.Name, method.Name, ir.GeneratedByAnnotation))
	}
	generator, ok := d.generators.Resolve(generatorID)
	if !ok {
		return nil, domain.NewNativeGeneratorError(fmt.Sprintf(
			"unknown generator %s for native method %s.%s",
			generatorID, cls.Name, method.Name))
	}
	return &MethodNode{
		Name:        method.Name,
		Modifiers:   mapModifiers(method.Modifiers),
		Native:      true,
		GeneratorID: generatorID,
		Generator:   generator,
	}, nil
}

// decompileRegular runs the structuring pass over the method's control
// flow graph and post-processes the result.
func (d *Decompiler) decompileRegular(cls *ir.Class, method *ir.Method) (*MethodNode, error) {
	cfg, err := analyzer.BuildCFG(cls.Name+"."+method.Name, method.Program)
	if err != nil {
		return nil, domain.NewDecompileError(fmt.Sprintf("method %s.%s", cls.Name, method.Name), err)
	}
	indexer := analyzer.NewGraphIndexer(cfg)
	st := newStructurer(method.Program, cfg, indexer, analyzer.NewLoopGraph(indexer))
	node := &MethodNode{
		Name:          method.Name,
		Modifiers:     mapModifiers(method.Modifiers),
		VariableCount: method.Program.VariableCount,
		Body:          st.assemble(),
	}
	NewOptimizer().Optimize(node)
	return node, nil
}

// mapModifiers keeps the modifiers that survive into output nodes
func mapModifiers(modifiers []ir.Modifier) []ir.Modifier {
	var result []ir.Modifier
	for _, mod := range modifiers {
		if mod == ir.ModStatic || mod == ir.ModFinal {
			result = append(result, mod)
		}
	}
	return result
}

// scope pairs an open scoped statement with the index range during
// which it stays on the stack. The statement is appended to its
// parent's body when the scope opens; popping mutates nothing.
type scope struct {
	statement *Statement
	start     int
	end       int
}

// structurer is the working state of one structuring pass. Created
// fresh per method and discarded afterwards; nothing escapes the call.
type structurer struct {
	program   *ir.Program
	cfg       *analyzer.CFG
	indexer   *analyzer.GraphIndexer
	loopGraph *analyzer.LoopGraph

	// loops[i] is the head index of the innermost loop containing i,
	// -1 outside loops; loopExits[h] is one past the last index of the
	// loop headed at h, size+1 when h heads no loop
	loops     []int
	loopExits []int

	codeTree *analyzer.RangeTree

	// blockMap maps an original block ID to the scope a control edge
	// targeting that block should reference
	blockMap []*scope

	lastBlockID int
	currentNode *analyzer.RangeTreeNode
	parentNode  *analyzer.RangeTreeNode
}

func newStructurer(program *ir.Program, cfg *analyzer.CFG, indexer *analyzer.GraphIndexer, loopGraph *analyzer.LoopGraph) *structurer {
	st := &structurer{
		program:     program,
		cfg:         cfg,
		indexer:     indexer,
		loopGraph:   loopGraph,
		blockMap:    make([]*scope, program.MaxBlockID()+1),
		lastBlockID: 1,
	}
	st.computeRanges()
	return st
}

// computeRanges derives the set of index ranges that need a structured
// scope: loop bodies and forward-jump label scopes.
func (st *structurer) computeRanges() {
	sz := st.indexer.Size()

	// Find where each loop ends. Indexes grow monotonically and loop
	// membership is visited in nesting order, so the final value for a
	// head is one past the last index belonging to its loop.
	loopExits := make([]int, sz)
	for i := range loopExits {
		loopExits[i] = sz + 1
	}
	for node := 0; node < sz; node++ {
		for loop := st.loopGraph.LoopAt(node); loop != nil; loop = loop.Parent {
			loopExits[loop.Head] = node + 1
		}
	}

	// For each node find the head of the innermost loop it belongs to
	loops := make([]int, sz)
	for i := range loops {
		loops[i] = -1
	}
	for head := 0; head < sz; head++ {
		end := loopExits[head]
		if end > sz {
			continue
		}
		for node := head + 1; node < end; node++ {
			loops[node] = head
		}
	}

	var ranges []analyzer.Range
	for node := 0; node < sz; node++ {
		if loopExits[node] <= sz {
			ranges = append(ranges, analyzer.Range{Start: node, End: loopExits[node]})
		}
		start := sz
		for _, prev := range st.indexer.IncomingEdges(node) {
			if prev < start {
				start = prev
			}
		}
		// Some predecessor jumps in from far enough back that the code
		// before node needs a labeled scope ending right here. The
		// strict `node - 1` bound keeps adjacent blocks unwrapped.
		if start < node-1 {
			ranges = append(ranges, analyzer.Range{Start: start, End: node})
		}
	}
	st.codeTree = analyzer.NewRangeTree(sz+1, ranges)
	st.loopExits = loopExits
	st.loops = loops
}

// assemble is the single left-to-right pass over the index space. It
// opens and closes scopes as dictated by the range tree and interleaves
// each block's translated statements into the innermost open scope.
func (st *structurer) assemble() *Statement {
	rootStmt := NewBlock()
	rootStmt.ID = "root"
	stack := []*scope{{statement: rootStmt, start: -1, end: -1}}

	generator := newStatementGenerator(st.cfg, st.indexer, st.blockMap)
	st.parentNode = st.codeTree.Root()
	st.currentNode = st.parentNode.FirstChild()

	sz := st.indexer.Size()
	for i := 0; i < sz; i++ {
		top := stack[len(stack)-1]
		for top.end == i {
			stack = stack[:len(stack)-1]
			top = stack[len(stack)-1]
		}
		for st.parentNode.End() == i {
			st.currentNode = st.parentNode.Next()
			st.parentNode = st.parentNode.Parent()
		}
		for _, opened := range st.createScopes(i) {
			top.statement.Body = append(top.statement.Body, opened.statement)
			stack = append(stack, opened)
			top = opened
		}

		next := i + 1
		if head := st.loops[i]; head != -1 && st.loopExits[head] == next {
			// Last body block of its loop: linear advance would leave
			// the loop, so the logical successor is the head and the
			// wrap-around edge becomes the loop's implicit continuation.
			next = head
		}
		block := st.cfg.GetBlock(st.indexer.BlockAt(i))
		top.statement.Body = append(top.statement.Body, generator.translate(block, next)...)
	}
	return NewSequential(rootStmt.Body...)
}

// createScopes opens every range-tree scope starting at the given
// index, innermost last, and registers each in the block map.
func (st *structurer) createScopes(start int) []*scope {
	var result []*scope
	for st.currentNode != nil && st.currentNode.Start() == start {
		end := st.currentNode.End()
		var statement *Statement
		if st.loopExits[start] == end {
			statement = NewWhile()
		} else {
			statement = NewBlock()
		}
		opened := &scope{statement: statement, start: start, end: end}
		result = append(result, opened)

		// A while registration takes priority at its end index: loop
		// continuation labels must not be shadowed by a forward block
		// that happens to end at the same place.
		if mapped := st.indexer.BlockAt(end); mapped >= 0 {
			if existing := st.blockMap[mapped]; existing == nil || existing.statement.Kind != StmtWhile {
				st.blockMap[mapped] = opened
			}
		}
		if statement.Kind == StmtWhile {
			st.blockMap[st.indexer.BlockAt(start)] = opened
		}

		st.parentNode = st.currentNode
		st.currentNode = st.currentNode.FirstChild()
	}
	for _, opened := range result {
		opened.statement.ID = fmt.Sprintf("block%d", st.lastBlockID)
		st.lastBlockID++
	}
	return result
}
