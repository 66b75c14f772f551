package ir

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the top-level structure of a .uir.yaml input file
type Document struct {
	Classes []*Class `yaml:"classes"`
}

// ParseDocument decodes a class-definition document from YAML bytes
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed class document: %w", err)
	}
	for _, cls := range doc.Classes {
		if cls.Name == "" {
			return nil, fmt.Errorf("class definition without a name")
		}
		for _, method := range cls.Methods {
			if err := validateMethod(cls.Name, method); err != nil {
				return nil, err
			}
		}
	}
	return &doc, nil
}

// LoadFile reads and decodes a single .uir.yaml file
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Source builds a class source from the document's classes
func (d *Document) Source() MapClassSource {
	source := make(MapClassSource, len(d.Classes))
	for _, cls := range d.Classes {
		source.Add(cls)
	}
	return source
}

func validateMethod(className string, method *Method) error {
	if method.Name == "" {
		return fmt.Errorf("class %s: method without a name", className)
	}
	if method.HasModifier(ModNative) || method.HasModifier(ModAbstract) {
		return nil
	}
	if method.Program == nil || len(method.Program.Blocks) == 0 {
		return fmt.Errorf("class %s: method %s has no body", className, method.Name)
	}
	seen := make(map[int]bool, len(method.Program.Blocks))
	for _, block := range method.Program.Blocks {
		if seen[block.ID] {
			return fmt.Errorf("class %s: method %s: duplicate block %d", className, method.Name, block.ID)
		}
		seen[block.ID] = true
	}
	for _, block := range method.Program.Blocks {
		for i := range block.Instructions {
			insn := &block.Instructions[i]
			if err := validateInstruction(seen, insn); err != nil {
				return fmt.Errorf("class %s: method %s: block %d: %w", className, method.Name, block.ID, err)
			}
			if insn.IsTerminator() && i != len(block.Instructions)-1 {
				return fmt.Errorf("class %s: method %s: block %d: %s not at end of block",
					className, method.Name, block.ID, insn.Op)
			}
		}
	}
	return nil
}

func validateInstruction(blocks map[int]bool, insn *Instruction) error {
	switch insn.Op {
	case OpAssign, OpEval:
		if insn.Text == "" {
			return fmt.Errorf("%s without text", insn.Op)
		}
	case OpJump:
		if !blocks[insn.Target] {
			return fmt.Errorf("jump to unknown block %d", insn.Target)
		}
	case OpBranch:
		if insn.Cond == "" {
			return fmt.Errorf("branch without condition")
		}
		if !blocks[insn.Then] {
			return fmt.Errorf("branch to unknown block %d", insn.Then)
		}
		if !blocks[insn.Else] {
			return fmt.Errorf("branch to unknown block %d", insn.Else)
		}
	case OpReturn:
		// value is optional
	default:
		return fmt.Errorf("unknown op %q", insn.Op)
	}
	return nil
}
