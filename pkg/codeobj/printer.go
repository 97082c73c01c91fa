package codeobj

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes code objects as source text
type Printer struct {
	w      io.Writer
	indent string
}

// NewPrinterIndent creates a printer that writes nested blocks with the
// given indent unit in place of Indent
func NewPrinterIndent(w io.Writer, indent string) *Printer {
	return &Printer{w: w, indent: indent}
}

// PrintNode writes the node's lines, one per output line. A bare signature
// is written as a declaration.
func (p *Printer) PrintNode(n Node) {
	lines := n.Lines()
	if sig, ok := n.(FuncSig); ok {
		lines = []string{AsString(sig) + ";"}
	}
	for _, l := range p.reindent(lines) {
		fmt.Fprintln(p.w, l)
	}
}

// PrintNodes writes each node separated by a blank line
func (p *Printer) PrintNodes(nodes []Node) {
	for i, n := range nodes {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.PrintNode(n)
	}
}

// PrintClass writes a class declaration holding the member declarations of
// the given functions. Free functions are skipped.
func (p *Printer) PrintClass(name, base string, members []Node) {
	if base != "" {
		fmt.Fprintf(p.w, "class %s : public %s\n", name, base)
	} else {
		fmt.Fprintf(p.w, "class %s\n", name)
	}
	fmt.Fprintln(p.w, "{")
	fmt.Fprintln(p.w, "public:")
	for _, m := range members {
		switch f := m.(type) {
		case MemberFunction:
			fmt.Fprintf(p.w, "%s%s\n", p.indent, f.Declaration())
		case VirtualMemberFunction:
			fmt.Fprintf(p.w, "%s%s\n", p.indent, f.Declaration())
		}
	}
	fmt.Fprintln(p.w, "};")
}

// reindent swaps the default indent unit for the printer's own
func (p *Printer) reindent(lines []string) []string {
	if p.indent == Indent {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		depth := 0
		for strings.HasPrefix(l, Indent) {
			l = l[len(Indent):]
			depth++
		}
		out[i] = strings.Repeat(p.indent, depth) + l
	}
	return out
}
