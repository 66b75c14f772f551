package decompiler

// StatementKind discriminates the closed set of statement variants.
// Consumers dispatch on the kind, never on concrete types.
type StatementKind string

const (
	// StmtSequential is a flat ordered statement list; used only for a
	// method's top-level result
	StmtSequential StatementKind = "sequential"
	// StmtBlock is a labeled forward-exit scope: a break targeting its
	// label resumes right past its end
	StmtBlock StatementKind = "block"
	// StmtWhile is a labeled loop scope: its start is the continue
	// target, its end the break target
	StmtWhile StatementKind = "while"
	// StmtSimple is one translated non-control instruction
	StmtSimple StatementKind = "simple"
	// StmtCond is a two-way conditional with translated arms
	StmtCond StatementKind = "if"
	// StmtBreak leaves the labeled scope named by Target
	StmtBreak StatementKind = "break"
	// StmtContinue restarts the labeled loop named by Target
	StmtContinue StatementKind = "continue"
	// StmtReturn leaves the method
	StmtReturn StatementKind = "return"
)

// Statement is one node of the structured output tree. The scoped kinds
// (Sequential, Block, While) share ID and Body; the remaining kinds use
// the fields their constructors set and leave the rest zero.
type Statement struct {
	Kind StatementKind `json:"kind" yaml:"kind"`

	// ID labels a scoped statement so break/continue can reference it
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Body holds the ordered children of a scoped statement
	Body []*Statement `json:"body,omitempty" yaml:"body,omitempty"`

	// Text is the rendered form of a simple statement
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Cond, Then and Else describe a conditional
	Cond string       `json:"cond,omitempty" yaml:"cond,omitempty"`
	Then []*Statement `json:"then,omitempty" yaml:"then,omitempty"`
	Else []*Statement `json:"else,omitempty" yaml:"else,omitempty"`

	// Target names the scope a break or continue refers to
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	// Value is the optional return operand
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewSequential creates a flat statement list
func NewSequential(body ...*Statement) *Statement {
	return &Statement{Kind: StmtSequential, Body: body}
}

// NewBlock creates an empty labeled block scope
func NewBlock() *Statement {
	return &Statement{Kind: StmtBlock}
}

// NewWhile creates an empty labeled loop scope
func NewWhile() *Statement {
	return &Statement{Kind: StmtWhile}
}

// NewSimple creates a simple statement from rendered text
func NewSimple(text string) *Statement {
	return &Statement{Kind: StmtSimple, Text: text}
}

// NewCond creates a conditional statement
func NewCond(cond string, then, els []*Statement) *Statement {
	return &Statement{Kind: StmtCond, Cond: cond, Then: then, Else: els}
}

// NewBreak creates a break targeting the given scope label
func NewBreak(target string) *Statement {
	return &Statement{Kind: StmtBreak, Target: target}
}

// NewContinue creates a continue targeting the given loop label
func NewContinue(target string) *Statement {
	return &Statement{Kind: StmtContinue, Target: target}
}

// NewReturn creates a return statement with an optional value
func NewReturn(value string) *Statement {
	return &Statement{Kind: StmtReturn, Value: value}
}

// IsScoped reports whether the statement owns a labeled body
func (s *Statement) IsScoped() bool {
	switch s.Kind {
	case StmtSequential, StmtBlock, StmtWhile:
		return true
	}
	return false
}
