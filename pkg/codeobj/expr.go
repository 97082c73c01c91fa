package codeobj

import "strings"

// Literal is a literal value: a number, string, character or bare token
type Literal struct {
	Value string
}

// Operation is an operator token, as used by unary and binary operations
type Operation struct {
	Value string
}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

// IsAssignment reports whether the operator is a plain or compound assignment
func (o Operation) IsAssignment() bool {
	return assignmentOps[o.Value]
}

// BinaryOperation is: Left Op Right
type BinaryOperation struct {
	Left  Node
	Op    Operation
	Right Node
}

// NewBinaryOperation creates a BinaryOperation, rejecting missing operands
func NewBinaryOperation(left Node, op string, right Node) (BinaryOperation, error) {
	if err := requireNode("BinaryOperation", "left operand", left); err != nil {
		return BinaryOperation{}, err
	}
	if err := requireNode("BinaryOperation", "right operand", right); err != nil {
		return BinaryOperation{}, err
	}
	return BinaryOperation{Left: left, Op: Operation{Value: op}, Right: right}, nil
}

// UnaryOperation is a prefix (*x, &x, !x, ++x) or postfix (x++) operation
type UnaryOperation struct {
	Op      Operation
	Operand Node
	Postfix bool
}

// NewUnaryOperation creates a prefix UnaryOperation
func NewUnaryOperation(op string, operand Node) (UnaryOperation, error) {
	if err := requireNode("UnaryOperation", "operand", operand); err != nil {
		return UnaryOperation{}, err
	}
	return UnaryOperation{Op: Operation{Value: op}, Operand: operand}, nil
}

// UnaryExpression is a keyword applied to an expression: sizeof(x)
type UnaryExpression struct {
	Keyword    string
	Expression Node
}

// NewUnaryExpression creates a UnaryExpression
func NewUnaryExpression(keyword string, expr Node) (UnaryExpression, error) {
	if err := requireNode("UnaryExpression", "expression", expr); err != nil {
		return UnaryExpression{}, err
	}
	return UnaryExpression{Keyword: keyword, Expression: expr}, nil
}

// ParenExpression is a parenthesized expression
type ParenExpression struct {
	Expression Node
}

// NewParenExpression creates a ParenExpression
func NewParenExpression(expr Node) (ParenExpression, error) {
	if err := requireNode("ParenExpression", "expression", expr); err != nil {
		return ParenExpression{}, err
	}
	return ParenExpression{Expression: expr}, nil
}

// ConditionalOperation is the ternary operation: Cond ? True : False
type ConditionalOperation struct {
	Cond  Node
	True  Node
	False Node
}

// NewConditionalOperation creates a ConditionalOperation
func NewConditionalOperation(cond, t, f Node) (ConditionalOperation, error) {
	if err := requireNode("ConditionalOperation", "bool expression", cond); err != nil {
		return ConditionalOperation{}, err
	}
	if err := requireNode("ConditionalOperation", "true expression", t); err != nil {
		return ConditionalOperation{}, err
	}
	if err := requireNode("ConditionalOperation", "false expression", f); err != nil {
		return ConditionalOperation{}, err
	}
	return ConditionalOperation{Cond: cond, True: t, False: f}, nil
}

// ArrayAccess is: Name[Index]
type ArrayAccess struct {
	Name  Node
	Index Node
}

// NewArrayAccess creates an ArrayAccess
func NewArrayAccess(name, index Node) (ArrayAccess, error) {
	if err := requireNode("ArrayAccess", "name", name); err != nil {
		return ArrayAccess{}, err
	}
	if err := requireNode("ArrayAccess", "index", index); err != nil {
		return ArrayAccess{}, err
	}
	return ArrayAccess{Name: name, Index: index}, nil
}

// StructMemberAccess is a chain of member accesses rooted at a named value:
// self->values[0], buf.size(). Method calls are modelled as members whose
// name carries the call, e.g. "resize(n)".
type StructMemberAccess struct {
	Access string // "." or "->" for members; "" for the root
	Name   string
	Index  string // optional subscript, e.g. "[0]"
	Member *StructMemberAccess
}

// MemberAccess builds name.member (or name->member when access is "->")
func MemberAccess(name, access, member string) StructMemberAccess {
	return StructMemberAccess{Name: name, Member: &StructMemberAccess{Access: access, Name: member}}
}

// MemberName returns the name of the first member, or "" when there is none
func (s StructMemberAccess) MemberName() string {
	if s.Member == nil {
		return ""
	}
	return s.Member.Name
}

// WithMemberName returns a copy whose first member is renamed
func (s StructMemberAccess) WithMemberName(name string) StructMemberAccess {
	if s.Member == nil {
		return s
	}
	m := *s.Member
	m.Name = name
	s.Member = &m
	return s
}

// WithIndex returns a copy with a subscript on the root name
func (s StructMemberAccess) WithIndex(index string) StructMemberAccess {
	s.Index = index
	return s
}

func (s StructMemberAccess) render() string {
	var b strings.Builder
	b.WriteString(s.Access)
	b.WriteString(s.Name)
	b.WriteString(s.Index)
	if s.Member != nil {
		b.WriteString(s.Member.render())
	}
	return b.String()
}

// ValueDeclarationReference is a reference to a declared value by name
type ValueDeclarationReference struct {
	Value string
}

// FunctionCall is: Name(Args...)
type FunctionCall struct {
	Name string
	Args []Node
}

// NewFunctionCall creates a FunctionCall, rejecting missing arguments
func NewFunctionCall(name string, args []Node) (FunctionCall, error) {
	for _, a := range args {
		if err := requireNode("FunctionCall", "argument", a); err != nil {
			return FunctionCall{}, err
		}
	}
	return FunctionCall{Name: name, Args: args}, nil
}

func (l Literal) Lines() []string   { return []string{l.Value} }
func (o Operation) Lines() []string { return []string{o.Value} }

func (b BinaryOperation) Lines() []string {
	return []string{stripSemicolon(AsString(b.Left)) + " " + b.Op.Value + " " + stripSemicolon(AsString(b.Right))}
}

func (u UnaryOperation) Lines() []string {
	operand := stripSemicolon(AsString(u.Operand))
	if u.Postfix {
		return []string{operand + u.Op.Value}
	}
	return []string{u.Op.Value + operand}
}

func (u UnaryExpression) Lines() []string {
	expr := stripSemicolon(AsString(u.Expression))
	if _, ok := u.Expression.(ParenExpression); ok {
		return []string{u.Keyword + expr}
	}
	return []string{u.Keyword + " " + expr}
}

func (p ParenExpression) Lines() []string {
	return []string{"(" + stripSemicolon(AsString(p.Expression)) + ")"}
}

func (c ConditionalOperation) Lines() []string {
	var lines []string
	lines = append(lines, c.Cond.Lines()...)
	lines = append(lines, "?")
	lines = append(lines, c.True.Lines()...)
	lines = append(lines, ":")
	lines = append(lines, c.False.Lines()...)
	return lines
}

func (a ArrayAccess) Lines() []string {
	return []string{stripSemicolon(AsString(a.Name)) + "[" + stripSemicolon(AsString(a.Index)) + "]"}
}

func (s StructMemberAccess) Lines() []string { return []string{s.render()} }

func (v ValueDeclarationReference) Lines() []string { return []string{v.Value} }

func (f FunctionCall) Lines() []string {
	args := make([]string, 0, len(f.Args))
	for _, a := range f.Args {
		if _, elided := a.(Elided); elided {
			continue
		}
		args = append(args, stripSemicolon(AsString(a)))
	}
	return []string{f.Name + "(" + strings.Join(args, ", ") + ")"}
}

func (Literal) implCodeObject()                   {}
func (Operation) implCodeObject()                 {}
func (BinaryOperation) implCodeObject()           {}
func (UnaryOperation) implCodeObject()            {}
func (UnaryExpression) implCodeObject()           {}
func (ParenExpression) implCodeObject()           {}
func (ConditionalOperation) implCodeObject()      {}
func (ArrayAccess) implCodeObject()               {}
func (StructMemberAccess) implCodeObject()        {}
func (ValueDeclarationReference) implCodeObject() {}
func (FunctionCall) implCodeObject()              {}
