// Package names recovers the identifier underlying an expression and
// resolves it to the argument it was declared as.
package names

import "github.com/raymyers/ralph-cpp/pkg/codeobj"

// Lookup resolves names to declared arguments. *convpack.Pack satisfies it.
type Lookup interface {
	CppArgForCppName(name string) (codeobj.Arg, bool)
	CppArgForCName(cname string) (codeobj.ArgSlot, bool)
}

// ExtractName returns the identifier an expression refers to. Unary
// operations, keyword expressions and parentheses are unwrapped. Literals
// return their text, which need not be an identifier. Nodes with no
// identifiable name return "".
func ExtractName(n codeobj.Node) string {
	switch n := n.(type) {
	case codeobj.Literal:
		return n.Value
	case codeobj.Arg:
		return n.Name
	case codeobj.StructArg:
		return n.Name
	case codeobj.VariableDeclaration:
		return n.Variable.Name
	case codeobj.DirectInitDeclaration:
		return n.Variable.Name
	case codeobj.ArrayAccess:
		return ExtractName(n.Name)
	case codeobj.StructMemberAccess:
		return n.Name
	case codeobj.ValueDeclarationReference:
		return n.Value
	case codeobj.UnaryOperation:
		return ExtractName(n.Operand)
	case codeobj.UnaryExpression:
		return ExtractName(n.Expression)
	case codeobj.ParenExpression:
		return ExtractName(n.Expression)
	}
	return ""
}

// ToCppArg resolves the name of n to its C++ argument. The name is looked
// up as an already converted C++ name first, then as a C name. A C name
// marked deleted resolves to nothing.
func ToCppArg(n codeobj.Node, lookup Lookup) (codeobj.Arg, bool) {
	name := ExtractName(n)
	if name == "" {
		return codeobj.Arg{}, false
	}
	if a, ok := lookup.CppArgForCppName(name); ok {
		return a, true
	}
	if slot, ok := lookup.CppArgForCName(name); ok {
		return slot.Arg()
	}
	return codeobj.Arg{}, false
}
