package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/unflat/domain"
	"github.com/ludo-technologies/unflat/internal/constants"
	"github.com/ludo-technologies/unflat/internal/decompiler"
)

// OutputFormatterImpl renders decompiled class nodes
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter service
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format renders the classes in the requested format
func (f *OutputFormatterImpl) Format(classes []*decompiler.ClassNode, format domain.OutputFormat) (string, error) {
	switch format {
	case domain.OutputFormatText:
		return f.formatText(classes)
	case domain.OutputFormatJSON:
		return f.formatJSON(classes)
	case domain.OutputFormatYAML:
		return f.formatYAML(classes)
	case domain.OutputFormatDOT:
		return f.formatDOT(classes)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write renders the classes and writes them to the writer
func (f *OutputFormatterImpl) Write(classes []*decompiler.ClassNode, format domain.OutputFormat, writer io.Writer) error {
	output, err := f.Format(classes, format)
	if err != nil {
		return err
	}

	if _, err := writer.Write([]byte(output)); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// formatText renders classes as indented pseudo-source
func (f *OutputFormatterImpl) formatText(classes []*decompiler.ClassNode) (string, error) {
	var builder strings.Builder
	for i, cls := range classes {
		if i > 0 {
			builder.WriteString("\n")
		}
		f.writeClass(&builder, cls)
	}
	return builder.String(), nil
}

func (f *OutputFormatterImpl) writeClass(builder *strings.Builder, cls *decompiler.ClassNode) {
	builder.WriteString("class " + cls.Name)
	if cls.Parent != "" {
		builder.WriteString(" extends " + cls.Parent)
	}
	if len(cls.Interfaces) > 0 {
		builder.WriteString(" implements " + strings.Join(cls.Interfaces, ", "))
	}
	builder.WriteString(" {\n")

	for _, field := range cls.Fields {
		builder.WriteString(constants.DefaultIndent)
		for _, mod := range field.Modifiers {
			builder.WriteString(string(mod) + " ")
		}
		fmt.Fprintf(builder, "field %s: %s", field.Name, field.Type)
		if field.Initial != "" {
			builder.WriteString(" = " + field.Initial)
		}
		builder.WriteString("\n")
	}

	for _, method := range cls.Methods {
		builder.WriteString("\n")
		f.writeMethod(builder, method)
	}
	builder.WriteString("}\n")
}

func (f *OutputFormatterImpl) writeMethod(builder *strings.Builder, method *decompiler.MethodNode) {
	builder.WriteString(constants.DefaultIndent)
	for _, mod := range method.Modifiers {
		builder.WriteString(string(mod) + " ")
	}
	if method.Native {
		fmt.Fprintf(builder, "native method %s [generator %s]\n", method.Name, method.GeneratorID)
		return
	}
	fmt.Fprintf(builder, "method %s {\n", method.Name)
	for _, stmt := range method.Body.Body {
		f.writeStatement(builder, stmt, 2)
	}
	builder.WriteString(constants.DefaultIndent + "}\n")
}

func (f *OutputFormatterImpl) writeStatement(builder *strings.Builder, stmt *decompiler.Statement, depth int) {
	indent := strings.Repeat(constants.DefaultIndent, depth)
	switch stmt.Kind {
	case decompiler.StmtSequential:
		for _, child := range stmt.Body {
			f.writeStatement(builder, child, depth)
		}
	case decompiler.StmtBlock:
		builder.WriteString(indent + stmt.ID + ": {\n")
		for _, child := range stmt.Body {
			f.writeStatement(builder, child, depth+1)
		}
		builder.WriteString(indent + "}\n")
	case decompiler.StmtWhile:
		builder.WriteString(indent + stmt.ID + ": while (true) {\n")
		for _, child := range stmt.Body {
			f.writeStatement(builder, child, depth+1)
		}
		builder.WriteString(indent + "}\n")
	case decompiler.StmtCond:
		builder.WriteString(indent + "if (" + stmt.Cond + ") {\n")
		for _, child := range stmt.Then {
			f.writeStatement(builder, child, depth+1)
		}
		if len(stmt.Else) > 0 {
			builder.WriteString(indent + "} else {\n")
			for _, child := range stmt.Else {
				f.writeStatement(builder, child, depth+1)
			}
		}
		builder.WriteString(indent + "}\n")
	case decompiler.StmtBreak:
		builder.WriteString(indent + "break " + stmt.Target + "\n")
	case decompiler.StmtContinue:
		builder.WriteString(indent + "continue " + stmt.Target + "\n")
	case decompiler.StmtReturn:
		if stmt.Value != "" {
			builder.WriteString(indent + "return " + stmt.Value + "\n")
		} else {
			builder.WriteString(indent + "return\n")
		}
	default:
		builder.WriteString(indent + stmt.Text + "\n")
	}
}

// formatJSON renders classes as indented JSON
func (f *OutputFormatterImpl) formatJSON(classes []*decompiler.ClassNode) (string, error) {
	data, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data) + "\n", nil
}

// formatYAML renders classes as YAML
func (f *OutputFormatterImpl) formatYAML(classes []*decompiler.ClassNode) (string, error) {
	data, err := yaml.Marshal(classes)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// formatDOT renders the scope nesting of every method as a DOT digraph
func (f *OutputFormatterImpl) formatDOT(classes []*decompiler.ClassNode) (string, error) {
	var builder strings.Builder
	builder.WriteString("digraph scopes {\n")
	builder.WriteString("  node [shape=box];\n")
	for _, cls := range classes {
		for _, method := range cls.Methods {
			if method.Native || method.Body == nil {
				continue
			}
			root := fmt.Sprintf("%s.%s", cls.Name, method.Name)
			fmt.Fprintf(&builder, "  %q [label=%q, shape=ellipse];\n", root, root)
			f.writeDOTScopes(&builder, root, method.Body)
		}
	}
	builder.WriteString("}\n")
	return builder.String(), nil
}

func (f *OutputFormatterImpl) writeDOTScopes(builder *strings.Builder, parent string, stmt *decompiler.Statement) {
	children := [][]*decompiler.Statement{stmt.Body, stmt.Then, stmt.Else}
	for _, list := range children {
		for _, child := range list {
			node := parent
			if child.IsScoped() && child.Kind != decompiler.StmtSequential {
				node = parent + "/" + child.ID
				label := fmt.Sprintf("%s %s", child.Kind, child.ID)
				fmt.Fprintf(builder, "  %q [label=%q];\n", node, label)
				fmt.Fprintf(builder, "  %q -> %q;\n", parent, node)
			}
			f.writeDOTScopes(builder, node, child)
		}
	}
}
