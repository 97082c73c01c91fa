package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/lexer"
)

// ErrSyntax is wrapped by every SyntaxError
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a fragment that did not parse
type SyntaxError struct {
	Input    string
	Messages []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, strings.Join(e.Messages, "; "))
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Signature tables repeat the same few specifiers many times, so parsed
// specifiers are memoized. Entries never expire.
var declSpecCache = cache.New(-1, -1)

func fromString[T any](input string, parse func(p *Parser) T) (T, error) {
	p := New(lexer.New(input))
	v := parse(p)
	if !p.curTokenIs(lexer.TokenEOF) && len(p.errors) == 0 {
		p.addError(fmt.Sprintf("unexpected %s after fragment", p.cur().Type))
	}
	if len(p.errors) > 0 {
		var zero T
		return zero, &SyntaxError{Input: input, Messages: p.errors}
	}
	return v, nil
}

// DeclSpecFromString parses a declaration specifier such as "const char*"
func DeclSpecFromString(input string) (codeobj.DeclSpec, error) {
	if v, ok := declSpecCache.Get(input); ok {
		return v.(codeobj.DeclSpec), nil
	}
	spec, err := fromString(input, (*Parser).ParseDeclSpec)
	if err != nil {
		return codeobj.DeclSpec{}, err
	}
	declSpecCache.Set(input, spec, -1)
	return spec, nil
}

// MustDeclSpec is like DeclSpecFromString but panics on error. It is meant
// for specifiers written in Go source.
func MustDeclSpec(input string) codeobj.DeclSpec {
	spec, err := DeclSpecFromString(input)
	if err != nil {
		panic(err)
	}
	return spec
}

// ArgFromString parses one argument: "char* result", "size_t*", "NONE"
func ArgFromString(input string) (codeobj.ArgSlot, error) {
	return fromString(input, (*Parser).ParseArg)
}

// MustArg is like ArgFromString but panics on error or on an elided slot
func MustArg(input string) codeobj.Arg {
	slot, err := ArgFromString(input)
	if err != nil {
		panic(err)
	}
	a, ok := slot.Arg()
	if !ok {
		panic(fmt.Sprintf("parser: %q is an elided slot", input))
	}
	return a
}

// FuncSigFromString parses a function signature
func FuncSigFromString(input string) (codeobj.FuncSig, error) {
	return fromString(input, (*Parser).ParseFuncSig)
}

// MustFuncSig is like FuncSigFromString but panics on error
func MustFuncSig(input string) codeobj.FuncSig {
	sig, err := FuncSigFromString(input)
	if err != nil {
		panic(err)
	}
	return sig
}

// ExpressionFromString parses a single expression
func ExpressionFromString(input string) (codeobj.Node, error) {
	return fromString(input, (*Parser).ParseExpression)
}

// StatementsFromString parses a body fragment. Unparseable statements come
// back as RawStatement nodes alongside an error describing them; the
// returned nodes are usable either way.
func StatementsFromString(input string, typedefs ...string) ([]codeobj.Node, error) {
	p := New(lexer.New(input))
	for _, t := range typedefs {
		p.AddTypedef(t)
	}
	stmts := p.ParseStatements()
	if len(p.errors) > 0 {
		return stmts, &SyntaxError{Input: input, Messages: p.errors}
	}
	return stmts, nil
}
