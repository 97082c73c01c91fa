package converter

import (
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/lexer"
)

// convertVariableDeclaration registers the declared name before returning,
// so statements after it resolve the C++ variable
func (c *Converter) convertVariableDeclaration(n codeobj.VariableDeclaration, pack *convpack.Pack) (codeobj.Node, error) {
	variable := c.convertArg(n.Variable, pack)
	cppVar, ok := variable.(codeobj.Arg)
	if !ok {
		pack.MarkDeleted(n.Variable.Name)
		return codeobj.AsCommentedOut(n, ReasonInvalidVariable), nil
	}

	value, err := c.Convert(n.Value, pack)
	if err != nil {
		return nil, err
	}
	if value != nil && unusable(value) {
		pack.MarkDeleted(n.Variable.Name)
		return removed(n, pack), nil
	}
	pack.RegisterLocal(n.Variable, codeobj.Present(cppVar))
	return c.validator.ValidateVariableDeclaration(n, codeobj.NewVariableDeclaration(cppVar, value), pack)
}

func (c *Converter) convertDirectInitDeclaration(n codeobj.DirectInitDeclaration, pack *convpack.Pack) (codeobj.Node, error) {
	variable := c.convertArg(n.Variable, pack)
	cppVar, ok := variable.(codeobj.Arg)
	if !ok {
		pack.MarkDeleted(n.Variable.Name)
		return codeobj.AsCommentedOut(n, ReasonInvalidVariable), nil
	}
	args, err := c.convertAll(n.Args, pack)
	if err != nil {
		return nil, err
	}
	if unusable(args...) {
		pack.MarkDeleted(n.Variable.Name)
		return removed(n, pack), nil
	}
	pack.RegisterLocal(n.Variable, codeobj.Present(cppVar))
	return codeobj.DirectInitDeclaration{Variable: cppVar, Args: args, Braced: n.Braced}, nil
}

func (c *Converter) convertReturnStatement(n codeobj.ReturnStatement, pack *convpack.Pack) (codeobj.Node, error) {
	expr, err := c.Convert(n.Expression, pack)
	if err != nil {
		return nil, err
	}
	if expr != nil && unusable(expr) {
		return removed(n, pack), nil
	}
	return c.validator.ValidateReturnStatement(n, codeobj.ReturnStatement{Expression: expr}, pack)
}

func (c *Converter) convertExpressionStatement(n codeobj.ExpressionStatement, pack *convpack.Pack) (codeobj.Node, error) {
	expr, err := c.Convert(n.Expression, pack)
	if err != nil {
		return nil, err
	}
	switch expr.(type) {
	case codeobj.Elided:
		return removed(n, pack), nil
	case codeobj.CommentedOut:
		// the expression statement keeps its terminator after the comment
		return codeobj.ExpressionStatement{Expression: expr}, nil
	}
	return codeobj.NewExpressionStatement(expr)
}

// convertCompoundStatement converts a nested block. Names declared in it
// go out of scope at its end.
func (c *Converter) convertCompoundStatement(n codeobj.CompoundStatement, pack *convpack.Pack) (codeobj.Node, error) {
	defer pack.EnterScope()()
	stmts, err := c.convertStatements(n.Statements, pack)
	if err != nil {
		return nil, err
	}
	return codeobj.NewCompoundStatement(stmts)
}

// convertStatements converts the statements of a body in source order.
// Elided statements are dropped.
func (c *Converter) convertStatements(stmts []codeobj.Node, pack *convpack.Pack) ([]codeobj.Node, error) {
	out := make([]codeobj.Node, 0, len(stmts))
	for _, s := range stmts {
		cpp, err := c.Convert(s, pack)
		if err != nil {
			return nil, err
		}
		if cpp == nil || codeobj.IsElided(cpp) {
			continue
		}
		out = append(out, cpp)
	}
	return out, nil
}

// convertCondition converts the controlling expression of an if or a loop
func (c *Converter) convertCondition(n codeobj.Node, pack *convpack.Pack) (codeobj.Node, error) {
	cond, err := c.Convert(n, pack)
	if err != nil || unusable(cond) {
		return cond, err
	}
	return c.validator.ValidateCondition(n, cond, pack)
}

// convertBody converts the statement under a loop. A body that converts
// to nothing becomes an empty block.
func (c *Converter) convertBody(n codeobj.Node, pack *convpack.Pack) (codeobj.Node, error) {
	body, err := c.Convert(n, pack)
	if err != nil {
		return nil, err
	}
	if body == nil || codeobj.IsElided(body) {
		return codeobj.CompoundStatement{}, nil
	}
	return body, nil
}

func (c *Converter) convertIfStatement(n codeobj.IfStatement, pack *convpack.Pack) (codeobj.Node, error) {
	cond, err := c.convertCondition(n.Cond, pack)
	if err != nil {
		return nil, err
	}
	if unusable(cond) {
		return removed(n, pack), nil
	}
	then, err := c.Convert(n.Then, pack)
	if err != nil {
		return nil, err
	}
	els, err := c.Convert(n.Else, pack)
	if err != nil {
		return nil, err
	}
	if codeobj.IsElided(then) {
		then = codeobj.CompoundStatement{}
	}
	if codeobj.IsElided(els) {
		els = nil
	}
	return codeobj.NewIfStatement(cond, then, els)
}

func (c *Converter) convertWhileStatement(n codeobj.WhileStatement, pack *convpack.Pack) (codeobj.Node, error) {
	cond, err := c.convertCondition(n.Cond, pack)
	if err != nil {
		return nil, err
	}
	if unusable(cond) {
		return removed(n, pack), nil
	}
	body, err := c.convertBody(n.Body, pack)
	if err != nil {
		return nil, err
	}
	return codeobj.NewWhileStatement(cond, body)
}

func (c *Converter) convertDoStatement(n codeobj.DoStatement, pack *convpack.Pack) (codeobj.Node, error) {
	body, err := c.convertBody(n.Body, pack)
	if err != nil {
		return nil, err
	}
	cond, err := c.convertCondition(n.Cond, pack)
	if err != nil {
		return nil, err
	}
	if unusable(cond) {
		return removed(n, pack), nil
	}
	return codeobj.NewDoStatement(body, cond)
}

// convertForStatement converts the clauses in order. A variable declared
// by the init clause is scoped to the loop.
func (c *Converter) convertForStatement(n codeobj.ForStatement, pack *convpack.Pack) (codeobj.Node, error) {
	defer pack.EnterScope()()

	init, err := c.Convert(n.Init, pack)
	if err != nil {
		return nil, err
	}
	var cond codeobj.Node
	if n.Cond != nil {
		if cond, err = c.convertCondition(n.Cond, pack); err != nil {
			return nil, err
		}
	}
	step, err := c.Convert(n.Step, pack)
	if err != nil {
		return nil, err
	}
	if unusable(init, cond, step) {
		return removed(n, pack), nil
	}
	body, err := c.convertBody(n.Body, pack)
	if err != nil {
		return nil, err
	}
	return codeobj.NewForStatement(init, cond, step, body)
}

// convertSwitchStatement converts the switch expression, each case value
// and the statements under each label
func (c *Converter) convertSwitchStatement(n codeobj.SwitchStatement, pack *convpack.Pack) (codeobj.Node, error) {
	expr, err := c.Convert(n.Expr, pack)
	if err != nil {
		return nil, err
	}
	if unusable(expr) {
		return removed(n, pack), nil
	}
	cases := make([]codeobj.SwitchCase, len(n.Cases))
	for i, cs := range n.Cases {
		value, err := c.Convert(cs.Value, pack)
		if err != nil {
			return nil, err
		}
		if unusable(value) {
			return removed(n, pack), nil
		}
		stmts, err := c.convertStatements(cs.Statements, pack)
		if err != nil {
			return nil, err
		}
		cases[i] = codeobj.SwitchCase{Value: value, Statements: stmts}
	}
	return codeobj.NewSwitchStatement(expr, cases)
}

func (c *Converter) convertRawStatement(n codeobj.RawStatement, pack *convpack.Pack) (codeobj.Node, error) {
	text, ok := renameRaw(n.Text, pack)
	if !ok {
		return removed(n, pack), nil
	}
	if c.textPass != nil {
		text = c.textPass(text)
	}
	if text != n.Text {
		pack.Logger().Debug("rewrote raw statement", "c", n.Text, "cpp", text)
	}
	return codeobj.RawStatement{Text: text}, nil
}

// renameRaw swaps registered C names in raw text for their C++ names. Member
// names after . or -> are left alone. It reports false when the text uses a
// deleted name.
func renameRaw(text string, pack *convpack.Pack) (string, bool) {
	var b strings.Builder
	last, prev := 0, lexer.TokenEOF
	for _, tok := range lexer.Tokenize(text) {
		if tok.Type == lexer.TokenIdent && prev != lexer.TokenDot && prev != lexer.TokenArrow {
			if slot, found := pack.CppArgForCName(tok.Literal); found {
				a, present := slot.Arg()
				if !present {
					return text, false
				}
				if a.Name != tok.Literal {
					b.WriteString(text[last:tok.Offset])
					b.WriteString(a.Name)
					last = tok.Offset + len(tok.Literal)
				}
			}
		}
		prev = tok.Type
	}
	b.WriteString(text[last:])
	return b.String(), true
}
