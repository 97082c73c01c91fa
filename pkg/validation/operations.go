package validation

import (
	"strconv"
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/names"
)

// ValidateUnaryOperation drops dereference and address-of from operands
// that are containers or references
func (Default) ValidateUnaryOperation(c, cpp codeobj.UnaryOperation, pack *convpack.Pack) (codeobj.Node, error) {
	switch cpp.Op.Value {
	case "*", "&":
		a, ok := names.ToCppArg(cpp.Operand, pack)
		if !ok {
			return cpp, nil
		}
		if pack.IsContainer(a) || a.Spec.IsReference() {
			pack.Logger().Debug("stripping ["+cpp.Op.Value+"]", "operand", codeobj.AsString(cpp.Operand), "arg", codeobj.AsString(a))
			return cpp.Operand, nil
		}
	case "!":
		// !strcmp(a, b) tests for equality, which the rewritten call already expresses
		if isCall(c.Operand, "strcmp") && !isCall(cpp.Operand, "strcmp") {
			return cpp.Operand, nil
		}
	}
	return cpp, nil
}

// ValidateBinaryOperation rewrites the C idioms around buffers, lengths
// and string comparison
func (d Default) ValidateBinaryOperation(c, cpp codeobj.BinaryOperation, pack *convpack.Pack) (codeobj.Node, error) {
	if cname, ok := sizeofIdiom(c); ok {
		if access, ok := pack.CNameToContainerLength(cname); ok {
			pack.Logger().Debug("sizeof idiom", "c", cname, "cpp", codeobj.AsString(access))
			return access, nil
		}
	}

	// a rewritten strcmp leaves its comparison against zero behind
	if isCall(c.Left, "strcmp") && !isCall(cpp.Left, "strcmp") {
		pack.Logger().Debug("removed strcmp return value comparison", "op", cpp.Op.Value, "right", codeobj.AsString(cpp.Right))
		if eq, ok := cpp.Left.(codeobj.BinaryOperation); ok && cpp.Op.Value == "!=" && eq.Op.Value == "==" {
			eq.Op = codeobj.Operation{Value: "!="}
			return eq, nil
		}
		return cpp.Left, nil
	}

	if !cpp.Op.IsAssignment() {
		if left, ok := cpp.Left.(codeobj.StructMemberAccess); ok && left.MemberName() == "size()" &&
			cpp.Op.Value == "==" && codeobj.AsString(cpp.Right) == "0" {
			return left.WithMemberName("empty()"), nil
		}
		return cpp, nil
	}
	if left, ok := cpp.Left.(codeobj.StructMemberAccess); ok && left.MemberName() == "size()" {
		return d.resizeContainer(left, cpp, pack), nil
	}
	return d.assignToContainer(cpp, pack), nil
}

// resizeContainer turns an assignment to container.size() into clear() or
// resize(). Mutating a const container is refused.
func (Default) resizeContainer(left codeobj.StructMemberAccess, cpp codeobj.BinaryOperation, pack *convpack.Pack) codeobj.Node {
	value := codeobj.AsString(cpp.Right)
	var call string
	switch {
	case cpp.Op.Value == "=" && value == "0":
		call = "clear()"
	case cpp.Op.Value == "=":
		call = "resize(" + value + ")"
	case cpp.Op.Value == "+=" || cpp.Op.Value == "-=":
		call = "resize(" + codeobj.AsString(left) + " " + cpp.Op.Value[:1] + " " + value + ")"
	default:
		return cpp
	}
	rewritten := left.WithMemberName(call)

	if a, ok := names.ToCppArg(left, pack); ok && a.Spec.IsConst() {
		pack.Logger().Debug("const container", "arg", codeobj.AsString(a))
		return codeobj.AsCommentedOut(rewritten, ReasonConstMutation)
	}
	return rewritten
}

// assignToContainer stores a scalar assigned to a container in its first
// element. The assignment is kept whole when the value is itself a container.
func (Default) assignToContainer(cpp codeobj.BinaryOperation, pack *convpack.Pack) codeobj.Node {
	if cpp.Op.Value != "=" {
		return cpp
	}
	a, ok := names.ToCppArg(cpp.Left, pack)
	if !ok || !pack.IsContainer(a) || !isScalarValue(cpp.Right, pack) {
		return cpp
	}

	var element codeobj.Node
	switch left := cpp.Left.(type) {
	case codeobj.ValueDeclarationReference:
		element = codeobj.ArrayAccess{Name: left, Index: codeobj.Literal{Value: "0"}}
	case codeobj.StructMemberAccess:
		if left.Member != nil || left.Index != "" {
			return cpp
		}
		element = left.WithIndex("[0]")
	default:
		return cpp
	}
	pack.Logger().Debug("assigning scalar to container, using first element", "container", a.Name, "value", codeobj.AsString(cpp.Right))
	return codeobj.BinaryOperation{Left: element, Op: cpp.Op, Right: cpp.Right}
}

// isScalarValue decides whether an assigned value is a single element.
// Calls with no known signature follow the pack's unknown-call policy.
func isScalarValue(n codeobj.Node, pack *convpack.Pack) bool {
	if isNumber(codeobj.AsString(n)) {
		return true
	}
	if call, ok := n.(codeobj.FunctionCall); ok {
		container, known := pack.CallReturnsContainer(call.Name)
		if !known {
			return pack.Policy() == convpack.FavorScalar
		}
		return !container
	}
	if a, ok := names.ToCppArg(n, pack); ok {
		return !pack.IsContainer(a)
	}
	return true
}

func isNumber(s string) bool {
	s = strings.TrimRight(s, "uUlL")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		_, err := strconv.ParseInt(s, 0, 64)
		return err == nil
	}
	_, err := strconv.ParseFloat(strings.TrimRight(s, "fF"), 64)
	return err == nil
}

// ValidateCondition handles a strcmp used directly as a condition. The call
// is true when the strings differ, which the rewritten == has to invert.
func (Default) ValidateCondition(c, cpp codeobj.Node, pack *convpack.Pack) (codeobj.Node, error) {
	eq, ok := cpp.(codeobj.BinaryOperation)
	if !isCall(c, "strcmp") || !ok || eq.Op.Value != "==" {
		return cpp, nil
	}
	pack.Logger().Debug("strcmp as condition", "c", codeobj.AsString(c))
	eq.Op = codeobj.Operation{Value: "!="}
	return eq, nil
}

func isCall(n codeobj.Node, name string) bool {
	call, ok := n.(codeobj.FunctionCall)
	return ok && call.Name == name
}

// sizeofIdiom matches sizeof(x)/sizeof(*x) and sizeof(x)/sizeof(x[0]) and
// returns the name of x
func sizeofIdiom(b codeobj.BinaryOperation) (string, bool) {
	if b.Op.Value != "/" {
		return "", false
	}
	whole, ok := sizeofOperand(b.Left)
	if !ok {
		return "", false
	}
	ref, ok := whole.(codeobj.ValueDeclarationReference)
	if !ok {
		return "", false
	}
	elem, ok := sizeofOperand(b.Right)
	if !ok {
		return "", false
	}
	switch e := elem.(type) {
	case codeobj.UnaryOperation:
		if e.Op.Value == "*" && !e.Postfix && codeobj.Equal(e.Operand, ref) {
			return ref.Value, true
		}
	case codeobj.ArrayAccess:
		if codeobj.Equal(e.Name, ref) && codeobj.AsString(e.Index) == "0" {
			return ref.Value, true
		}
	}
	return "", false
}

func sizeofOperand(n codeobj.Node) (codeobj.Node, bool) {
	u, ok := n.(codeobj.UnaryExpression)
	if !ok || u.Keyword != "sizeof" {
		return nil, false
	}
	x := u.Expression
	for {
		p, ok := x.(codeobj.ParenExpression)
		if !ok {
			return x, true
		}
		x = p.Expression
	}
}
