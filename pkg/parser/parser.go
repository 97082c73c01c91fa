// Package parser implements a recursive descent parser for the C fragments
// the conversion engine consumes: declaration specifiers, function
// signatures and the statements of an already-extracted function body.
package parser

import (
	"fmt"
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/lexer"
)

// defaultTypedefs are type names that may appear without a preceding
// keyword, so casts and declarations using them are recognised.
var defaultTypedefs = []string{
	"size_t", "ssize_t", "off_t", "FILE",
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"grib_handle", "grib_context", "grib_accessor", "grib_arguments",
	"grib_buffer", "grib_iarray", "grib_darray", "grib_sarray",
	"grib_action", "grib_section", "grib_expression",
}

// statement keywords that the node model does not represent; such
// statements are kept as raw text
var rawKeywords = map[string]bool{
	"goto": true, "case": true, "default": true,
}

// Parser parses C fragments into code objects
type Parser struct {
	src      string
	toks     []lexer.Token
	pos      int
	errors   []string
	typedefs map[string]bool // typedef names in scope
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		src:      l.Source(),
		typedefs: make(map[string]bool),
	}
	for {
		tok := l.NextToken()
		p.toks = append(p.toks, tok)
		if tok.Type == lexer.TokenEOF {
			break
		}
	}
	for _, name := range defaultTypedefs {
		p.typedefs[name] = true
	}
	return p
}

// AddTypedef registers a type name so later fragments may use it in casts
func (p *Parser) AddTypedef(name string) {
	p.typedefs[name] = true
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	tok := p.cur()
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s", tok.Line, tok.Column, msg))
}

func (p *Parser) cur() lexer.Token { return p.peekAt(0) }

func (p *Parser) peekAt(n int) lexer.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekAt(1).Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.cur().Type))
	return false
}

// expectEnd accepts a statement terminator, or the end of a fragment that omits it
func (p *Parser) expectEnd() bool {
	if p.curTokenIs(lexer.TokenEOF) {
		return true
	}
	return p.expect(lexer.TokenSemicolon)
}

// speculate runs fn and rewinds the parser, keeping only fn's verdict
func (p *Parser) speculate(fn func() bool) bool {
	pos, nerr := p.pos, len(p.errors)
	ok := fn()
	p.pos, p.errors = pos, p.errors[:nerr]
	return ok
}

// ----------------------------------------------------------------------------
// Declaration specifiers and signatures

// ParseDeclSpec parses a declaration specifier: "static const char*",
// "std::vector<long> const&", "unsigned char[10]".
func (p *Parser) ParseDeclSpec() codeobj.DeclSpec {
	spec, _ := p.parseDeclSpec()
	p.parseArrayDims(&spec)
	return spec
}

func (p *Parser) parseDeclSpec() (codeobj.DeclSpec, bool) {
	var spec codeobj.DeclSpec
	var words []string

loop:
	for {
		tok := p.cur()
		switch {
		case tok.Type.IsStorageClass() && tok.Type != lexer.TokenTypedef:
			spec.StorageClass = tok.Literal
			p.nextToken()
		case tok.Type == lexer.TokenConst:
			spec.ConstQualifier = "const"
			p.nextToken()
		case tok.Type == lexer.TokenVolatile || tok.Type == lexer.TokenRestrict:
			p.nextToken()
		case tok.Type.IsBuiltinType():
			words = append(words, tok.Literal)
			p.nextToken()
		case tok.Type == lexer.TokenStruct || tok.Type == lexer.TokenUnion || tok.Type == lexer.TokenEnum:
			if len(words) > 0 || !p.peekTokenIs(lexer.TokenIdent) {
				break loop
			}
			words = append(words, tok.Literal+" "+p.peekAt(1).Literal)
			p.nextToken()
			p.nextToken()
		case (tok.Type == lexer.TokenIdent || tok.Type == lexer.TokenScope) && len(words) == 0:
			words = append(words, p.parseQualifiedName(true))
		default:
			break loop
		}
	}

	if len(words) == 0 {
		p.addError(fmt.Sprintf("expected type specifier, got %s", p.cur().Type))
		return spec, false
	}
	spec.Type = strings.Join(words, " ")
	p.parsePointer(&spec)
	return spec, true
}

func (p *Parser) parsePointer(spec *codeobj.DeclSpec) {
	for {
		switch p.cur().Type {
		case lexer.TokenStar, lexer.TokenAmpersand, lexer.TokenAnd:
			spec.Pointer += p.cur().Literal
			p.nextToken()
		case lexer.TokenConst:
			// "char* const p": the pointer itself is const, which has no
			// bearing on the conversion
			p.nextToken()
		default:
			return
		}
	}
}

// parseArrayDims moves any [N] declarators into the specifier's qualifier
func (p *Parser) parseArrayDims(spec *codeobj.DeclSpec) {
	if !p.curTokenIs(lexer.TokenLBracket) {
		return
	}
	if spec.Pointer != "" {
		spec.Type += spec.Pointer
		spec.Pointer = ""
	}
	for p.curTokenIs(lexer.TokenLBracket) {
		start := p.pos
		p.skipBalanced(lexer.TokenLBracket, lexer.TokenRBracket)
		spec.Pointer += joinTokens(p.toks[start:p.pos])
	}
}

// parseQualifiedName parses std::vector<unsigned char>, GribStatus::SUCCESS, ns::T<A, B>::U.
// Template argument lists are only recognised in type context.
func (p *Parser) parseQualifiedName(inType bool) string {
	var b strings.Builder
	for {
		if p.curTokenIs(lexer.TokenScope) {
			b.WriteString("::")
			p.nextToken()
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			break
		}
		b.WriteString(p.cur().Literal)
		p.nextToken()
		if inType && p.curTokenIs(lexer.TokenLt) && p.templateCloses() {
			start := p.pos
			p.skipTemplate()
			b.WriteString(joinTokens(p.toks[start:p.pos]))
		}
		if !p.curTokenIs(lexer.TokenScope) || !p.peekTokenIs(lexer.TokenIdent) {
			break
		}
	}
	return b.String()
}

// templateCloses reports whether the < at the cursor opens a template
// argument list that closes before the end of the statement
func (p *Parser) templateCloses() bool {
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case lexer.TokenLt:
			depth++
		case lexer.TokenGt:
			depth--
		case lexer.TokenShr:
			depth -= 2
		case lexer.TokenIdent, lexer.TokenScope, lexer.TokenComma, lexer.TokenStar,
			lexer.TokenAmpersand, lexer.TokenConst, lexer.TokenInt:
		default:
			if !p.toks[i].Type.IsBuiltinType() {
				return false
			}
		}
		if depth <= 0 {
			return true
		}
	}
	return false
}

func (p *Parser) skipTemplate() {
	depth := 0
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.cur().Type {
		case lexer.TokenLt:
			depth++
		case lexer.TokenGt:
			depth--
		case lexer.TokenShr:
			depth -= 2
		}
		p.nextToken()
		if depth <= 0 {
			return
		}
	}
}

// ParseArg parses one signature argument. NONE marks an elided position.
func (p *Parser) ParseArg() codeobj.ArgSlot {
	if p.curTokenIs(lexer.TokenIdent) && p.cur().Literal == "NONE" {
		next := p.peekAt(1).Type
		if next == lexer.TokenEOF || next == lexer.TokenComma || next == lexer.TokenRParen {
			p.nextToken()
			return codeobj.ElidedSlot()
		}
	}
	spec, ok := p.parseDeclSpec()
	if !ok {
		return codeobj.ElidedSlot()
	}
	name := ""
	if p.curTokenIs(lexer.TokenIdent) {
		name = p.cur().Literal
		p.nextToken()
	}
	p.parseArrayDims(&spec)
	return codeobj.Present(codeobj.NewArg(spec, name))
}

// ParseFuncSig parses a function signature:
// "static int unpack_long(grib_accessor* a, long* val, size_t* len)",
// "GribStatus unpack(std::vector<long>& values) const".
func (p *Parser) ParseFuncSig() codeobj.FuncSig {
	var sig codeobj.FuncSig
	spec, ok := p.parseDeclSpec()
	if !ok {
		return sig
	}

	// Constructor and destructor signatures have no return type
	if p.curTokenIs(lexer.TokenLParen) && spec.Pointer == "" && spec.StorageClass == "" {
		sig.Name = spec.Type
	} else {
		sig.ReturnType = spec
		if p.curTokenIs(lexer.TokenTilde) {
			p.nextToken()
			sig.Name = "~"
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected function name, got %s", p.cur().Type))
			return sig
		}
		sig.Name += p.parseQualifiedName(false)
	}

	if !p.expect(lexer.TokenLParen) {
		return sig
	}
	if p.curTokenIs(lexer.TokenVoid) && p.peekTokenIs(lexer.TokenRParen) {
		p.nextToken()
	}
	for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
		nerr := len(p.errors)
		sig.Args = append(sig.Args, p.ParseArg())
		if len(p.errors) > nerr {
			return sig
		}
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.nextToken()
	}
	if !p.expect(lexer.TokenRParen) {
		return sig
	}
	if p.curTokenIs(lexer.TokenConst) {
		sig.Const = true
		p.nextToken()
	}
	return sig
}

// ----------------------------------------------------------------------------
// Expressions

// ParseExpression parses a full expression, including assignment
func (p *Parser) ParseExpression() codeobj.Node {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() codeobj.Node {
	left := p.parseConditional()
	if left == nil || !p.cur().Type.IsAssignment() {
		return left
	}
	op := p.cur().Literal
	p.nextToken()
	right := p.parseAssignment()
	return p.binary(left, op, right)
}

func (p *Parser) parseConditional() codeobj.Node {
	cond := p.parseBinary(0)
	if cond == nil || !p.curTokenIs(lexer.TokenQuestion) {
		return cond
	}
	p.nextToken()
	t := p.parseAssignment()
	if !p.expect(lexer.TokenColon) {
		return nil
	}
	f := p.parseConditional()
	n, err := codeobj.NewConditionalOperation(cond, t, f)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return n
}

// parseBinary parses a binary expression with minimum precedence prec
// by precedence climbing. All binary operators are left associative.
func (p *Parser) parseBinary(prec int) codeobj.Node {
	x := p.parseUnary()
	for x != nil {
		oprec := p.cur().Type.Precedence()
		if oprec <= prec {
			return x
		}
		op := p.cur().Literal
		p.nextToken()
		y := p.parseBinary(oprec)
		x = p.binary(x, op, y)
	}
	return nil
}

func (p *Parser) binary(left codeobj.Node, op string, right codeobj.Node) codeobj.Node {
	n, err := codeobj.NewBinaryOperation(left, op, right)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return n
}

func (p *Parser) unary(op string, operand codeobj.Node) codeobj.Node {
	n, err := codeobj.NewUnaryOperation(op, operand)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return n
}

func (p *Parser) parseUnary() codeobj.Node {
	switch p.cur().Type {
	case lexer.TokenStar, lexer.TokenAmpersand, lexer.TokenNot, lexer.TokenMinus,
		lexer.TokenPlus, lexer.TokenTilde, lexer.TokenIncrement, lexer.TokenDecrement:
		op := p.cur().Literal
		p.nextToken()
		return p.unary(op, p.parseUnary())

	case lexer.TokenSizeof:
		p.nextToken()
		var operand codeobj.Node
		if p.curTokenIs(lexer.TokenLParen) && p.isTypeNameAt(p.pos+1) {
			p.nextToken()
			spec := p.ParseDeclSpec()
			if !p.expect(lexer.TokenRParen) {
				return nil
			}
			operand = codeobj.ParenExpression{Expression: codeobj.Literal{Value: spec.String()}}
		} else {
			operand = p.parseUnary()
		}
		n, err := codeobj.NewUnaryExpression("sizeof", operand)
		if err != nil {
			p.addError(err.Error())
			return nil
		}
		return n

	case lexer.TokenLParen:
		if p.isCast() {
			p.nextToken()
			spec := p.ParseDeclSpec()
			if !p.expect(lexer.TokenRParen) {
				return nil
			}
			return p.unary("("+spec.String()+")", p.parseUnary())
		}
	}
	return p.parsePostfix()
}

// isTypeNameAt reports whether the token at i starts a type name
func (p *Parser) isTypeNameAt(i int) bool {
	if i >= len(p.toks) {
		return false
	}
	tok := p.toks[i]
	switch {
	case tok.Type.IsBuiltinType(), tok.Type == lexer.TokenConst, tok.Type == lexer.TokenVolatile,
		tok.Type == lexer.TokenStruct, tok.Type == lexer.TokenUnion, tok.Type == lexer.TokenEnum:
		return true
	case tok.Type == lexer.TokenIdent:
		return p.typedefs[tok.Literal]
	}
	return false
}

// isCast reports whether the ( at the cursor opens a cast: (long), (grib_accessor_bit*)
func (p *Parser) isCast() bool {
	if p.isTypeNameAt(p.pos + 1) {
		return true
	}
	if p.peekAt(1).Type != lexer.TokenIdent || p.peekAt(2).Type != lexer.TokenStar {
		return false
	}
	i := p.pos + 2
	for i < len(p.toks) && p.toks[i].Type == lexer.TokenStar {
		i++
	}
	return i < len(p.toks) && p.toks[i].Type == lexer.TokenRParen
}

func (p *Parser) parsePostfix() codeobj.Node {
	x := p.parsePrimary()
	for x != nil {
		switch p.cur().Type {
		case lexer.TokenLParen:
			x = p.parseCall(x)
		case lexer.TokenLBracket:
			p.nextToken()
			index := p.ParseExpression()
			if !p.expect(lexer.TokenRBracket) {
				return nil
			}
			x = p.index(x, index)
		case lexer.TokenDot, lexer.TokenArrow:
			access := p.cur().Literal
			p.nextToken()
			if !p.curTokenIs(lexer.TokenIdent) {
				p.addError(fmt.Sprintf("expected member name, got %s", p.cur().Type))
				return nil
			}
			x = memberOf(x, access, p.cur().Literal)
			p.nextToken()
		case lexer.TokenIncrement, lexer.TokenDecrement:
			x = codeobj.UnaryOperation{Op: codeobj.Operation{Value: p.cur().Literal}, Operand: x, Postfix: true}
			p.nextToken()
		default:
			return x
		}
	}
	return nil
}

func (p *Parser) parseCall(callee codeobj.Node) codeobj.Node {
	p.nextToken() // consume '('
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

	// A method call on a member chain folds into the member name: buf.size()
	if m, ok := callee.(codeobj.StructMemberAccess); ok && m.Member != nil {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = codeobj.AsString(a)
		}
		return editLastMember(m, func(last *codeobj.StructMemberAccess) {
			last.Name += "(" + strings.Join(parts, ", ") + ")"
		})
	}

	call, err := codeobj.NewFunctionCall(codeobj.AsString(callee), args)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return call
}

func (p *Parser) index(x, index codeobj.Node) codeobj.Node {
	if index == nil {
		return nil
	}
	if m, ok := x.(codeobj.StructMemberAccess); ok {
		return editLastMember(m, func(last *codeobj.StructMemberAccess) {
			last.Index += "[" + codeobj.AsString(index) + "]"
		})
	}
	n, err := codeobj.NewArrayAccess(x, index)
	if err != nil {
		p.addError(err.Error())
		return nil
	}
	return n
}

// memberOf extends x with a member access
func memberOf(x codeobj.Node, access, name string) codeobj.StructMemberAccess {
	member := codeobj.StructMemberAccess{Access: access, Name: name}
	switch v := x.(type) {
	case codeobj.StructMemberAccess:
		return editLastMember(v, func(last *codeobj.StructMemberAccess) {
			last.Member = &member
		})
	case codeobj.ValueDeclarationReference:
		return codeobj.StructMemberAccess{Name: v.Value, Member: &member}
	case codeobj.ArrayAccess:
		if ref, ok := v.Name.(codeobj.ValueDeclarationReference); ok {
			return codeobj.StructMemberAccess{Name: ref.Value, Index: "[" + codeobj.AsString(v.Index) + "]", Member: &member}
		}
	}
	return codeobj.StructMemberAccess{Name: codeobj.AsString(x), Member: &member}
}

// editLastMember returns a copy of m with fn applied to the deepest element of the chain
func editLastMember(m codeobj.StructMemberAccess, fn func(last *codeobj.StructMemberAccess)) codeobj.StructMemberAccess {
	if m.Member == nil {
		fn(&m)
		return m
	}
	child := editLastMember(*m.Member, fn)
	m.Member = &child
	return m
}

func (p *Parser) parsePrimary() codeobj.Node {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenIdent, lexer.TokenScope:
		return codeobj.ValueDeclarationReference{Value: p.parseQualifiedName(false)}

	case lexer.TokenInt, lexer.TokenFloat, lexer.TokenChar:
		p.nextToken()
		return codeobj.Literal{Value: tokenText(tok)}

	case lexer.TokenString:
		// adjacent string literals concatenate
		var parts []string
		for p.curTokenIs(lexer.TokenString) {
			parts = append(parts, p.cur().Literal)
			p.nextToken()
		}
		return codeobj.Literal{Value: `"` + strings.Join(parts, "") + `"`}

	case lexer.TokenLParen:
		p.nextToken()
		x := p.ParseExpression()
		if x == nil || !p.expect(lexer.TokenRParen) {
			return nil
		}
		return codeobj.ParenExpression{Expression: x}

	case lexer.TokenLBrace:
		start := p.pos
		p.skipBalanced(lexer.TokenLBrace, lexer.TokenRBrace)
		return codeobj.Literal{Value: joinTokens(p.toks[start:p.pos])}
	}

	p.addError(fmt.Sprintf("expected expression, got %s", tok.Type))
	return nil
}

// skipBalanced consumes an open token through its matching close token
func (p *Parser) skipBalanced(open, close lexer.TokenType) {
	depth := 0
	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.cur().Type {
		case open:
			depth++
		case close:
			depth--
		}
		p.nextToken()
		if depth == 0 {
			return
		}
	}
	p.addError(fmt.Sprintf("unterminated %s", open))
}

// tokenText returns the source spelling of a token
func tokenText(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenString:
		return `"` + tok.Literal + `"`
	case lexer.TokenChar:
		return "'" + tok.Literal + "'"
	}
	return tok.Literal
}

func isWordToken(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenIdent, lexer.TokenInt, lexer.TokenFloat, lexer.TokenString, lexer.TokenChar:
		return true
	}
	return t >= lexer.TokenInt_ && t <= lexer.TokenBool
}

// joinTokens renders a token run with C spacing: words separated by a
// space, a space after each comma, punctuation otherwise tight.
func joinTokens(toks []lexer.Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 {
			prev := toks[i-1].Type
			if prev == lexer.TokenComma || (isWordToken(prev) && isWordToken(tok.Type)) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tokenText(tok))
	}
	return b.String()
}
