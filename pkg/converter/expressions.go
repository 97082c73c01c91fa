package converter

import (
	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

func (c *Converter) convertLiteral(n codeobj.Literal, pack *convpack.Pack) (codeobj.Node, error) {
	if v, ok := pack.TransformValue(n.Value); ok {
		return codeobj.Literal{Value: v}, nil
	}
	return n, nil
}

func (c *Converter) convertBinaryOperation(n codeobj.BinaryOperation, pack *convpack.Pack) (codeobj.Node, error) {
	left, err := c.Convert(n.Left, pack)
	if err != nil {
		return nil, err
	}
	right, err := c.Convert(n.Right, pack)
	if err != nil {
		return nil, err
	}
	if unusable(left, right) {
		return removed(n, pack), nil
	}
	op, err := c.Convert(n.Op, pack)
	if err != nil {
		return nil, err
	}
	cpp, err := codeobj.NewBinaryOperation(left, codeobj.AsString(op), right)
	if err != nil {
		return nil, err
	}
	return c.validator.ValidateBinaryOperation(n, cpp, pack)
}

func (c *Converter) convertUnaryOperation(n codeobj.UnaryOperation, pack *convpack.Pack) (codeobj.Node, error) {
	operand, err := c.Convert(n.Operand, pack)
	if err != nil {
		return nil, err
	}
	if unusable(operand) {
		return removed(n, pack), nil
	}
	cpp := codeobj.UnaryOperation{Op: n.Op, Operand: operand, Postfix: n.Postfix}
	return c.validator.ValidateUnaryOperation(n, cpp, pack)
}

func (c *Converter) convertUnaryExpression(n codeobj.UnaryExpression, pack *convpack.Pack) (codeobj.Node, error) {
	expr, err := c.Convert(n.Expression, pack)
	if err != nil {
		return nil, err
	}
	if unusable(expr) {
		return removed(n, pack), nil
	}
	return codeobj.NewUnaryExpression(n.Keyword, expr)
}

func (c *Converter) convertParenExpression(n codeobj.ParenExpression, pack *convpack.Pack) (codeobj.Node, error) {
	expr, err := c.Convert(n.Expression, pack)
	if err != nil {
		return nil, err
	}
	if unusable(expr) {
		return removed(n, pack), nil
	}
	cpp, err := codeobj.NewParenExpression(expr)
	if err != nil {
		return nil, err
	}
	return c.validator.ValidateParenExpression(n, cpp, pack)
}

func (c *Converter) convertConditionalOperation(n codeobj.ConditionalOperation, pack *convpack.Pack) (codeobj.Node, error) {
	parts, err := c.convertAll([]codeobj.Node{n.Cond, n.True, n.False}, pack)
	if err != nil {
		return nil, err
	}
	if unusable(parts...) {
		return removed(n, pack), nil
	}
	return codeobj.NewConditionalOperation(parts[0], parts[1], parts[2])
}

func (c *Converter) convertArrayAccess(n codeobj.ArrayAccess, pack *convpack.Pack) (codeobj.Node, error) {
	name, err := c.Convert(n.Name, pack)
	if err != nil {
		return nil, err
	}
	index, err := c.Convert(n.Index, pack)
	if err != nil {
		return nil, err
	}
	if unusable(name, index) {
		return removed(n, pack), nil
	}
	return codeobj.NewArrayAccess(name, index)
}

// convertStructMemberAccess renames the root of the chain. Member names
// are fields of the C struct and are kept.
func (c *Converter) convertStructMemberAccess(n codeobj.StructMemberAccess, pack *convpack.Pack) (codeobj.Node, error) {
	slot, ok := pack.CppArgForCName(n.Name)
	if !ok {
		return n, nil
	}
	a, present := slot.Arg()
	if !present {
		return codeobj.Elided{}, nil
	}
	cpp := n
	cpp.Name = a.Name
	if cpp.Access == "" && cpp.Member != nil && cpp.Member.Access == "->" && a.Spec.IsReference() {
		// a pointer that became a reference is accessed with "."
		m := *cpp.Member
		m.Access = "."
		cpp.Member = &m
	}
	return cpp, nil
}

// convertValueDeclarationReference resolves a name: a C length replaced by
// a container size, then a registered C name, then a symbolic constant
func (c *Converter) convertValueDeclarationReference(n codeobj.ValueDeclarationReference, pack *convpack.Pack) (codeobj.Node, error) {
	if container, ok := pack.ContainerLengthFor(n.Value); ok {
		return convpack.ContainerLengthAccess(container.Name), nil
	}
	if slot, ok := pack.CppArgForCName(n.Value); ok {
		a, present := slot.Arg()
		if !present {
			return codeobj.Elided{}, nil
		}
		return codeobj.ValueDeclarationReference{Value: a.Name}, nil
	}
	if v, ok := pack.TransformValue(n.Value); ok {
		return codeobj.ValueDeclarationReference{Value: v}, nil
	}
	return n, nil
}

// convertFunctionCall keeps elided arguments in position so the validation
// hook can align them with the C++ signature. Any that remain afterwards
// comment the call out.
func (c *Converter) convertFunctionCall(n codeobj.FunctionCall, pack *convpack.Pack) (codeobj.Node, error) {
	args, err := c.convertAll(n.Args, pack)
	if err != nil {
		return nil, err
	}
	name := n.Name
	if m, ok := pack.MappingForCFuncName(n.Name); ok {
		name = m.Cpp.Name
	}
	cpp := codeobj.FunctionCall{Name: name, Args: args}
	validated, err := c.validator.ValidateFunctionCall(n, cpp, pack)
	if err != nil {
		return nil, err
	}
	switch v := validated.(type) {
	case codeobj.FunctionCall:
		if unusable(v.Args...) {
			return removed(n, pack), nil
		}
	case codeobj.BinaryOperation:
		if unusable(v.Left, v.Right) {
			return removed(n, pack), nil
		}
	}
	return validated, nil
}
