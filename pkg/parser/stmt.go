package parser

import (
	"fmt"
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/lexer"
)

// ParseStatements parses statements until the end of input. A statement
// that does not parse is kept as a RawStatement holding its source text;
// its error remains available from Errors.
func (p *Parser) ParseStatements() []codeobj.Node {
	var stmts []codeobj.Node
	for !p.curTokenIs(lexer.TokenEOF) {
		stmts = append(stmts, p.parseStatementRecover()...)
	}
	return stmts
}

func (p *Parser) parseStatementRecover() []codeobj.Node {
	start, nerr := p.pos, len(p.errors)
	stmts := p.parseStatement()
	if len(p.errors) == nerr {
		return stmts
	}
	p.pos = start
	return []codeobj.Node{p.parseRaw()}
}

// parseStatement returns the statements for one source statement. A
// declaration with several declarators yields one node per declarator.
func (p *Parser) parseStatement() []codeobj.Node {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenSemicolon:
		p.nextToken()
		return nil
	case lexer.TokenLBrace:
		return one(p.parseBlock())
	case lexer.TokenReturn:
		return one(p.parseReturnStatement())
	case lexer.TokenIf:
		return one(p.parseIfStatement())
	case lexer.TokenTypedef:
		return one(p.parseTypedef())
	case lexer.TokenStruct:
		if p.peekTokenIs(lexer.TokenIdent) && p.peekAt(2).Type == lexer.TokenLBrace {
			p.nextToken()
			name := p.cur().Literal
			p.nextToken()
			s := p.parseStructBody(name)
			if s == nil || !p.expectEnd() {
				return nil
			}
			return one(*s)
		}
	case lexer.TokenIdent:
		switch tok.Literal {
		case "while":
			return one(p.parseWhileStatement())
		case "do":
			return one(p.parseDoStatement())
		case "for":
			return one(p.parseForStatement())
		case "switch":
			return one(p.parseSwitchStatement())
		case "break", "continue":
			p.nextToken()
			if !p.expectEnd() {
				return nil
			}
			return one(codeobj.JumpStatement{Keyword: tok.Literal})
		}
		if rawKeywords[tok.Literal] {
			return one(p.parseRaw())
		}
		if p.peekTokenIs(lexer.TokenColon) {
			// label
			p.nextToken()
			p.nextToken()
			return one(codeobj.RawStatement{Text: tok.Literal + ":"})
		}
	}

	if p.isDeclarationStart() {
		return p.parseDeclaration()
	}
	return one(p.parseExpressionStatement())
}

func one(n codeobj.Node) []codeobj.Node {
	if n == nil {
		return nil
	}
	return []codeobj.Node{n}
}

// single folds the statements of a branch into one node
func single(stmts []codeobj.Node) codeobj.Node {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return codeobj.CompoundStatement{Statements: stmts}
}

func (p *Parser) parseBlock() codeobj.Node {
	p.nextToken() // consume '{'

	var items []codeobj.Node
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		nerr := len(p.errors)
		items = append(items, p.parseStatement()...)
		if len(p.errors) > nerr {
			return nil
		}
	}
	if !p.expect(lexer.TokenRBrace) {
		return nil
	}
	block, err := codeobj.NewCompoundStatement(items)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return block
}

func (p *Parser) parseReturnStatement() codeobj.Node {
	p.nextToken() // consume 'return'

	var expr codeobj.Node
	if !p.curTokenIs(lexer.TokenSemicolon) && !p.curTokenIs(lexer.TokenEOF) {
		if expr = p.ParseExpression(); expr == nil {
			return nil
		}
	}
	if !p.expectEnd() {
		return nil
	}
	return codeobj.ReturnStatement{Expression: expr}
}

func (p *Parser) parseIfStatement() codeobj.Node {
	p.nextToken() // consume 'if'
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.ParseExpression()
	if cond == nil || !p.expect(lexer.TokenRParen) {
		return nil
	}

	nerr := len(p.errors)
	then := single(p.parseStatement())
	if len(p.errors) > nerr {
		return nil
	}

	var els codeobj.Node
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken()
		els = single(p.parseStatement())
		if len(p.errors) > nerr {
			return nil
		}
	}

	ifs, err := codeobj.NewIfStatement(cond, then, els)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return ifs
}

// parseCondition parses a parenthesized controlling expression
func (p *Parser) parseCondition() codeobj.Node {
	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.ParseExpression()
	if cond == nil || !p.expect(lexer.TokenRParen) {
		return nil
	}
	return cond
}

// parseBody parses the statement under a loop. An error inside it fails
// the whole loop.
func (p *Parser) parseBody() codeobj.Node {
	nerr := len(p.errors)
	body := single(p.parseStatement())
	if len(p.errors) > nerr {
		return nil
	}
	return body
}

func (p *Parser) parseWhileStatement() codeobj.Node {
	p.nextToken() // consume 'while'
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	body := p.parseBody()
	if body == nil {
		return nil
	}
	w, err := codeobj.NewWhileStatement(cond, body)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return w
}

func (p *Parser) parseDoStatement() codeobj.Node {
	p.nextToken() // consume 'do'
	body := p.parseBody()
	if body == nil {
		return nil
	}
	if !p.curTokenIs(lexer.TokenIdent) || p.cur().Literal != "while" {
		p.addError(fmt.Sprintf("expected while after do body, got %s", p.cur().Type))
		return nil
	}
	p.nextToken()
	cond := p.parseCondition()
	if cond == nil || !p.expectEnd() {
		return nil
	}
	d, err := codeobj.NewDoStatement(body, cond)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return d
}

// parseForStatement parses "for (init; cond; step) body". The init clause
// is a declaration of one variable or an expression.
func (p *Parser) parseForStatement() codeobj.Node {
	p.nextToken() // consume 'for'
	if !p.expect(lexer.TokenLParen) {
		return nil
	}

	var init codeobj.Node
	switch {
	case p.curTokenIs(lexer.TokenSemicolon):
		p.nextToken()
	case p.isDeclarationStart():
		decls := p.parseDeclaration()
		if len(decls) != 1 {
			if decls != nil {
				p.addError("for loop declares more than one variable")
			}
			return nil
		}
		init = decls[0]
	default:
		if init = p.ParseExpression(); init == nil || !p.expect(lexer.TokenSemicolon) {
			return nil
		}
	}

	var cond, step codeobj.Node
	if !p.curTokenIs(lexer.TokenSemicolon) {
		if cond = p.ParseExpression(); cond == nil {
			return nil
		}
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	if !p.curTokenIs(lexer.TokenRParen) {
		if step = p.ParseExpression(); step == nil {
			return nil
		}
	}
	if !p.expect(lexer.TokenRParen) {
		return nil
	}

	body := p.parseBody()
	if body == nil {
		return nil
	}
	f, err := codeobj.NewForStatement(init, cond, step, body)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return f
}

// parseSwitchStatement parses a switch whose body is a sequence of case
// and default labels, each followed by its statements
func (p *Parser) parseSwitchStatement() codeobj.Node {
	p.nextToken() // consume 'switch'
	expr := p.parseCondition()
	if expr == nil || !p.expect(lexer.TokenLBrace) {
		return nil
	}

	var cases []codeobj.SwitchCase
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		tok := p.cur()
		if tok.Type == lexer.TokenIdent && (tok.Literal == "case" || tok.Literal == "default") {
			p.nextToken()
			var value codeobj.Node
			if tok.Literal == "case" {
				if value = p.ParseExpression(); value == nil {
					return nil
				}
			}
			if !p.expect(lexer.TokenColon) {
				return nil
			}
			cases = append(cases, codeobj.SwitchCase{Value: value})
			continue
		}
		if len(cases) == 0 {
			p.addError("statement before the first case label")
			return nil
		}
		nerr := len(p.errors)
		stmts := p.parseStatement()
		if len(p.errors) > nerr {
			return nil
		}
		last := &cases[len(cases)-1]
		last.Statements = append(last.Statements, stmts...)
	}
	if !p.expect(lexer.TokenRBrace) {
		return nil
	}

	s, err := codeobj.NewSwitchStatement(expr, cases)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return s
}

func (p *Parser) parseExpressionStatement() codeobj.Node {
	expr := p.ParseExpression()
	if expr == nil || !p.expectEnd() {
		return nil
	}
	stmt, err := codeobj.NewExpressionStatement(expr)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return stmt
}

// isDeclarationStart reports whether a declaration begins at the cursor:
// a type followed by a declarator name and then one of ; = [ , (
func (p *Parser) isDeclarationStart() bool {
	return p.speculate(func() bool {
		if _, ok := p.parseDeclSpec(); !ok {
			return false
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			return false
		}
		p.nextToken()
		switch p.cur().Type {
		case lexer.TokenSemicolon, lexer.TokenAssign, lexer.TokenLBracket,
			lexer.TokenComma, lexer.TokenLParen, lexer.TokenEOF:
			return true
		}
		return false
	})
}

func (p *Parser) parseDeclaration() []codeobj.Node {
	base, ok := p.parseDeclSpec()
	if !ok {
		return nil
	}

	var decls []codeobj.Node
	spec := base
	for {
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected declarator name, got %s", p.cur().Type))
			return nil
		}
		name := p.cur().Literal
		p.nextToken()
		p.parseArrayDims(&spec)
		variable := codeobj.NewArg(spec, name)

		switch p.cur().Type {
		case lexer.TokenAssign:
			p.nextToken()
			value := p.parseAssignment()
			if value == nil {
				return nil
			}
			decls = append(decls, codeobj.NewVariableDeclaration(variable, value))
		case lexer.TokenLParen:
			p.nextToken()
			var args []codeobj.Node
			for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
				arg := p.parseAssignment()
				if arg == nil {
					return nil
				}
				args = append(args, arg)
				if !p.curTokenIs(lexer.TokenComma) {
					break
				}
				p.nextToken()
			}
			if !p.expect(lexer.TokenRParen) {
				return nil
			}
			decls = append(decls, codeobj.DirectInitDeclaration{Variable: variable, Args: args})
		default:
			decls = append(decls, codeobj.NewVariableDeclaration(variable, nil))
		}

		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
		// each further declarator carries its own pointer qualifier: char *a, b;
		spec = base
		spec.Pointer = ""
		p.parsePointer(&spec)
	}

	if !p.expectEnd() {
		return nil
	}
	return decls
}

// parseTypedef parses "typedef T Name;" and "typedef struct [Tag] { ... } Name;".
// The new name is registered as a type for the rest of the input.
func (p *Parser) parseTypedef() codeobj.Node {
	p.nextToken() // consume 'typedef'

	if p.curTokenIs(lexer.TokenStruct) &&
		(p.peekTokenIs(lexer.TokenLBrace) || (p.peekTokenIs(lexer.TokenIdent) && p.peekAt(2).Type == lexer.TokenLBrace)) {
		p.nextToken()
		if p.curTokenIs(lexer.TokenIdent) {
			p.nextToken()
		}
		s := p.parseStructBody("")
		if s == nil {
			return nil
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected typedef name, got %s", p.cur().Type))
			return nil
		}
		s.Name = p.cur().Literal
		p.nextToken()
		if !p.expectEnd() {
			return nil
		}
		p.AddTypedef(s.Name)
		return *s
	}

	spec, ok := p.parseDeclSpec()
	if !ok {
		return nil
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected typedef name, got %s", p.cur().Type))
		return nil
	}
	name := p.cur().Literal
	p.nextToken()
	if !p.expectEnd() {
		return nil
	}
	p.AddTypedef(name)
	return codeobj.Typedef{Spec: spec, Name: name}
}

// parseStructBody parses "{ members }" at the cursor
func (p *Parser) parseStructBody(name string) *codeobj.StructArg {
	if !p.expect(lexer.TokenLBrace) {
		return nil
	}
	s := &codeobj.StructArg{Name: name}
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		base, ok := p.parseDeclSpec()
		if !ok {
			return nil
		}
		spec := base
		for {
			if !p.curTokenIs(lexer.TokenIdent) {
				p.addError(fmt.Sprintf("expected member name, got %s", p.cur().Type))
				return nil
			}
			member := p.cur().Literal
			p.nextToken()
			p.parseArrayDims(&spec)
			s.Members = append(s.Members, codeobj.NewArg(spec, member))
			if !p.curTokenIs(lexer.TokenComma) {
				break
			}
			p.nextToken()
			spec = base
			spec.Pointer = ""
			p.parsePointer(&spec)
		}
		if !p.expect(lexer.TokenSemicolon) {
			return nil
		}
	}
	if !p.expect(lexer.TokenRBrace) {
		return nil
	}
	return s
}

// parseRaw consumes one statement without modelling it and returns its
// source text. Bodies in braces are consumed whole; a do loop takes its
// trailing while clause with it.
func (p *Parser) parseRaw() codeobj.Node {
	startTok := p.cur()
	isDo := startTok.Type == lexer.TokenIdent && startTok.Literal == "do"
	p.skipStatement()
	if isDo && p.curTokenIs(lexer.TokenIdent) && p.cur().Literal == "while" {
		p.skipStatement()
	}
	end := len(p.src)
	if !p.curTokenIs(lexer.TokenEOF) {
		end = p.cur().Offset
	}
	return codeobj.RawStatement{Text: strings.TrimSpace(p.src[startTok.Offset:end])}
}

func (p *Parser) skipStatement() {
	depth := 0
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.cur().Type {
		case lexer.TokenLParen, lexer.TokenLBracket, lexer.TokenLBrace:
			depth++
		case lexer.TokenRParen, lexer.TokenRBracket:
			depth--
		case lexer.TokenRBrace:
			depth--
			if depth <= 0 {
				p.nextToken()
				return
			}
		case lexer.TokenSemicolon:
			if depth <= 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}
