package ir

import "fmt"

// Modifier represents a declaration modifier on a class member
type Modifier string

const (
	ModStatic   Modifier = "static"
	ModAbstract Modifier = "abstract"
	ModNative   Modifier = "native"
	ModFinal    Modifier = "final"
)

// GeneratedByAnnotation names the generator responsible for a native
// method's body. Its value is a generator ID known to the registry.
const GeneratedByAnnotation = "unflat.GeneratedBy"

// Op identifies the kind of an instruction
type Op string

const (
	// OpAssign stores the result of an expression into a variable
	OpAssign Op = "assign"
	// OpEval evaluates an expression for its side effects
	OpEval Op = "eval"
	// OpJump transfers control to another block unconditionally
	OpJump Op = "jump"
	// OpBranch transfers control to one of two blocks depending on a condition
	OpBranch Op = "branch"
	// OpReturn leaves the method, optionally yielding a value
	OpReturn Op = "return"
)

// Instruction is a single operation inside a basic block. Expression
// operands are carried as opaque rendered text; the structuring pass
// only interprets control transfers.
type Instruction struct {
	Op Op `yaml:"op" json:"op"`

	// Text is the rendered form of an assign/eval instruction
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// Target is the destination block of a jump
	Target int `yaml:"target,omitempty" json:"target,omitempty"`

	// Cond, Then and Else describe a two-way branch
	Cond string `yaml:"cond,omitempty" json:"cond,omitempty"`
	Then int    `yaml:"then,omitempty" json:"then,omitempty"`
	Else int    `yaml:"else,omitempty" json:"else,omitempty"`

	// Value is the optional return operand
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
}

// IsTerminator reports whether the instruction ends its basic block
func (in *Instruction) IsTerminator() bool {
	switch in.Op {
	case OpJump, OpBranch, OpReturn:
		return true
	}
	return false
}

// Block is a basic block: a straight-line instruction sequence with a
// single entry and, when the last instruction is a terminator, an
// explicit exit. A block without a terminator falls through to the next
// block in program order.
type Block struct {
	ID           int           `yaml:"id" json:"id"`
	Instructions []Instruction `yaml:"instructions" json:"instructions"`
}

// Terminator returns the block's final instruction if it is a control
// transfer, or nil when the block falls through.
func (b *Block) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := &b.Instructions[len(b.Instructions)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// Program is the instruction-level body of a method
type Program struct {
	Blocks        []*Block `yaml:"blocks" json:"blocks"`
	VariableCount int      `yaml:"variables" json:"variables"`

	byID map[int]*Block
}

// BlockAt retrieves a block by its ID
func (p *Program) BlockAt(id int) *Block {
	if p.byID == nil {
		p.byID = make(map[int]*Block, len(p.Blocks))
		for _, b := range p.Blocks {
			p.byID[b.ID] = b
		}
	}
	return p.byID[id]
}

// BlockCount returns the number of basic blocks in the program
func (p *Program) BlockCount() int {
	return len(p.Blocks)
}

// MaxBlockID returns the largest block ID in the program, or -1 when
// the program has no blocks.
func (p *Program) MaxBlockID() int {
	max := -1
	for _, b := range p.Blocks {
		if b.ID > max {
			max = b.ID
		}
	}
	return max
}

// Method is a single method definition
type Method struct {
	Name        string            `yaml:"name" json:"name"`
	Modifiers   []Modifier        `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	Program     *Program          `yaml:"program,omitempty" json:"program,omitempty"`
}

// HasModifier reports whether the method carries the given modifier
func (m *Method) HasModifier(mod Modifier) bool {
	for _, have := range m.Modifiers {
		if have == mod {
			return true
		}
	}
	return false
}

// Field is a single field definition
type Field struct {
	Name      string     `yaml:"name" json:"name"`
	Type      string     `yaml:"type" json:"type"`
	Initial   string     `yaml:"initial,omitempty" json:"initial,omitempty"`
	Modifiers []Modifier `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// Class is a single class definition
type Class struct {
	Name       string    `yaml:"name" json:"name"`
	Parent     string    `yaml:"parent,omitempty" json:"parent,omitempty"`
	Interfaces []string  `yaml:"interfaces,omitempty" json:"interfaces,omitempty"`
	Fields     []*Field  `yaml:"fields,omitempty" json:"fields,omitempty"`
	Methods    []*Method `yaml:"methods,omitempty" json:"methods,omitempty"`
}

// ClassSource resolves class names to definitions
type ClassSource interface {
	// ClassByName returns the class definition, or false when unknown
	ClassByName(name string) (*Class, bool)
}

// MapClassSource is an in-memory ClassSource backed by a map
type MapClassSource map[string]*Class

// ClassByName implements ClassSource
func (s MapClassSource) ClassByName(name string) (*Class, bool) {
	cls, ok := s[name]
	return cls, ok
}

// Add registers a class, replacing any previous definition with the same name
func (s MapClassSource) Add(cls *Class) {
	s[cls.Name] = cls
}

// Merge copies every class from other into s. It fails on a duplicate
// class name so that conflicting input files surface early.
func (s MapClassSource) Merge(other MapClassSource) error {
	for name, cls := range other {
		if _, exists := s[name]; exists {
			return fmt.Errorf("duplicate class definition: %s", name)
		}
		s[name] = cls
	}
	return nil
}
