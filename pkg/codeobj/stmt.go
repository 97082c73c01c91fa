package codeobj

import "strings"

// VariableDeclaration is: Variable [= Value];
type VariableDeclaration struct {
	Variable Arg
	Value    Node // nil when there is no initializer
}

// NewVariableDeclaration creates a VariableDeclaration. value may be nil.
func NewVariableDeclaration(variable Arg, value Node) VariableDeclaration {
	return VariableDeclaration{Variable: variable, Value: value}
}

// DirectInitDeclaration is a declaration initialized by constructor call:
// T name(args...); or, braced, T name{args...};
type DirectInitDeclaration struct {
	Variable Arg
	Args     []Node
	Braced   bool
}

// ReturnStatement is: return [Expression];
type ReturnStatement struct {
	Expression Node // nil for a bare return
}

// ExpressionStatement is an expression evaluated for its effect: Expression;
type ExpressionStatement struct {
	Expression Node
}

// NewExpressionStatement creates an ExpressionStatement
func NewExpressionStatement(expr Node) (ExpressionStatement, error) {
	if err := requireNode("ExpressionStatement", "expression", expr); err != nil {
		return ExpressionStatement{}, err
	}
	return ExpressionStatement{Expression: expr}, nil
}

// CompoundStatement is a brace-delimited sequence of statements
type CompoundStatement struct {
	Statements []Node
}

// NewCompoundStatement creates a CompoundStatement, rejecting missing statements
func NewCompoundStatement(stmts []Node) (CompoundStatement, error) {
	for _, s := range stmts {
		if err := requireNode("CompoundStatement", "statement", s); err != nil {
			return CompoundStatement{}, err
		}
	}
	return CompoundStatement{Statements: stmts}, nil
}

// IfStatement is: if (Cond) Then [else Else]
type IfStatement struct {
	Cond Node
	Then Node
	Else Node // nil when there is no else branch
}

// NewIfStatement creates an IfStatement. els may be nil.
func NewIfStatement(cond, then, els Node) (IfStatement, error) {
	if err := requireNode("IfStatement", "condition", cond); err != nil {
		return IfStatement{}, err
	}
	if err := requireNode("IfStatement", "then branch", then); err != nil {
		return IfStatement{}, err
	}
	return IfStatement{Cond: cond, Then: then, Else: els}, nil
}

// WhileStatement is: while (Cond) Body
type WhileStatement struct {
	Cond Node
	Body Node
}

// DoStatement is: do Body while (Cond);
type DoStatement struct {
	Body Node
	Cond Node
}

// ForStatement is: for (Init; Cond; Step) Body. Init is a declaration or
// an expression statement; any of the three clauses may be nil.
type ForStatement struct {
	Init Node
	Cond Node
	Step Node
	Body Node
}

// NewWhileStatement creates a WhileStatement
func NewWhileStatement(cond, body Node) (WhileStatement, error) {
	if err := requireNode("WhileStatement", "condition", cond); err != nil {
		return WhileStatement{}, err
	}
	if err := requireNode("WhileStatement", "body", body); err != nil {
		return WhileStatement{}, err
	}
	return WhileStatement{Cond: cond, Body: body}, nil
}

// NewDoStatement creates a DoStatement
func NewDoStatement(body, cond Node) (DoStatement, error) {
	if err := requireNode("DoStatement", "condition", cond); err != nil {
		return DoStatement{}, err
	}
	if err := requireNode("DoStatement", "body", body); err != nil {
		return DoStatement{}, err
	}
	return DoStatement{Body: body, Cond: cond}, nil
}

// NewForStatement creates a ForStatement. init, cond and step may be nil.
func NewForStatement(init, cond, step, body Node) (ForStatement, error) {
	if err := requireNode("ForStatement", "body", body); err != nil {
		return ForStatement{}, err
	}
	return ForStatement{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// SwitchCase is one label of a switch and the statements under it. A nil
// Value is the default label.
type SwitchCase struct {
	Value      Node
	Statements []Node
}

// SwitchStatement is: switch (Expr) { case ...: ... }
type SwitchStatement struct {
	Expr  Node
	Cases []SwitchCase
}

// NewSwitchStatement creates a SwitchStatement
func NewSwitchStatement(expr Node, cases []SwitchCase) (SwitchStatement, error) {
	if err := requireNode("SwitchStatement", "expression", expr); err != nil {
		return SwitchStatement{}, err
	}
	for _, cs := range cases {
		for _, s := range cs.Statements {
			if err := requireNode("SwitchStatement", "statement", s); err != nil {
				return SwitchStatement{}, err
			}
		}
	}
	return SwitchStatement{Expr: expr, Cases: cases}, nil
}

// JumpStatement is break; or continue;
type JumpStatement struct {
	Keyword string
}

// RawStatement is a body fragment kept as text because it is not modelled as nodes
type RawStatement struct {
	Text string
}

// CommentedOut replaces code that could not be converted safely. It keeps the
// rendering of the original so the output stays reviewable.
type CommentedOut struct {
	Code   []string
	Reason string
}

// AsCommentedOut comments out a node with a reason
func AsCommentedOut(n Node, reason string) CommentedOut {
	var code []string
	if n != nil {
		code = n.Lines()
	}
	return CommentedOut{Code: code, Reason: reason}
}

// Elided is the result of converting a reference to something with no C++
// counterpart. Any node holding an Elided child must itself be commented out.
type Elided struct{}

// IsElided reports whether n is the elided placeholder
func IsElided(n Node) bool {
	_, ok := n.(Elided)
	return ok
}

func (v VariableDeclaration) Lines() []string {
	decl := AsString(v.Variable)
	if v.Value == nil {
		return []string{decl + ";"}
	}
	return []string{decl + " = " + stripSemicolon(AsString(v.Value)) + ";"}
}

func (d DirectInitDeclaration) Lines() []string {
	args := make([]string, len(d.Args))
	for i, a := range d.Args {
		args[i] = stripSemicolon(AsString(a))
	}
	if d.Braced {
		return []string{AsString(d.Variable) + "{" + strings.Join(args, ", ") + "};"}
	}
	return []string{AsString(d.Variable) + "(" + strings.Join(args, ", ") + ");"}
}

func (r ReturnStatement) Lines() []string {
	if r.Expression == nil {
		return []string{"return;"}
	}
	return []string{"return " + stripSemicolon(AsString(r.Expression)) + ";"}
}

func (e ExpressionStatement) Lines() []string {
	if c, ok := e.Expression.(CommentedOut); ok {
		lines := c.Lines()
		if len(lines) > 0 && !strings.HasSuffix(lines[len(lines)-1], ";") {
			lines[len(lines)-1] += ";"
		}
		return lines
	}
	return []string{stripSemicolon(AsString(e.Expression)) + ";"}
}

func (c CompoundStatement) Lines() []string {
	lines := []string{"{"}
	for _, s := range c.Statements {
		lines = append(lines, indentLines(s.Lines(), Indent)...)
	}
	return append(lines, "}")
}

func (i IfStatement) Lines() []string {
	lines := []string{"if (" + stripSemicolon(AsString(i.Cond)) + ")"}
	lines = append(lines, branchLines(i.Then)...)
	if i.Else != nil {
		if nested, ok := i.Else.(IfStatement); ok {
			elseIf := nested.Lines()
			elseIf[0] = "else " + elseIf[0]
			return append(lines, elseIf...)
		}
		lines = append(lines, "else")
		lines = append(lines, branchLines(i.Else)...)
	}
	return lines
}

func branchLines(n Node) []string {
	if _, ok := n.(CompoundStatement); ok {
		return n.Lines()
	}
	return indentLines(n.Lines(), Indent)
}

func (w WhileStatement) Lines() []string {
	return append([]string{"while (" + stripSemicolon(AsString(w.Cond)) + ")"}, branchLines(w.Body)...)
}

func (d DoStatement) Lines() []string {
	lines := append([]string{"do"}, branchLines(d.Body)...)
	return append(lines, "while ("+stripSemicolon(AsString(d.Cond))+");")
}

func (f ForStatement) Lines() []string {
	clause := func(n Node) string {
		if n == nil {
			return ""
		}
		return stripSemicolon(AsString(n))
	}
	head := "for (" + clause(f.Init) + "; " + clause(f.Cond) + "; " + clause(f.Step) + ")"
	return append([]string{head}, branchLines(f.Body)...)
}

func (s SwitchStatement) Lines() []string {
	lines := []string{"switch (" + stripSemicolon(AsString(s.Expr)) + ")", "{"}
	for _, cs := range s.Cases {
		if cs.Value == nil {
			lines = append(lines, "default:")
		} else {
			lines = append(lines, "case "+stripSemicolon(AsString(cs.Value))+":")
		}
		for _, st := range cs.Statements {
			lines = append(lines, indentLines(st.Lines(), Indent)...)
		}
	}
	return append(lines, "}")
}

func (j JumpStatement) Lines() []string { return []string{j.Keyword + ";"} }

func (r RawStatement) Lines() []string { return strings.Split(r.Text, "\n") }

func (c CommentedOut) Lines() []string {
	if len(c.Code) == 0 {
		return []string{"// [" + c.Reason + "]"}
	}
	lines := make([]string, len(c.Code))
	for i, l := range c.Code {
		if i == 0 {
			lines[i] = "// [" + c.Reason + "] " + l
			continue
		}
		lines[i] = "// " + l
	}
	return lines
}

func (Elided) Lines() []string { return nil }

func (VariableDeclaration) implCodeObject()   {}
func (DirectInitDeclaration) implCodeObject() {}
func (ReturnStatement) implCodeObject()       {}
func (ExpressionStatement) implCodeObject()   {}
func (CompoundStatement) implCodeObject()     {}
func (IfStatement) implCodeObject()           {}
func (WhileStatement) implCodeObject()        {}
func (DoStatement) implCodeObject()           {}
func (ForStatement) implCodeObject()          {}
func (SwitchStatement) implCodeObject()       {}
func (JumpStatement) implCodeObject()         {}
func (RawStatement) implCodeObject()          {}
func (CommentedOut) implCodeObject()          {}
func (Elided) implCodeObject()                {}
