// Package converter converts a C code object tree into a C++ one. Each
// node kind has one converter. A converter first converts the children it
// owns and assembles a node of the same shape, then hands the C node and
// the assembled node to the matching validation hook.
package converter

import (
	"errors"
	"fmt"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/validation"
)

// ErrUnhandledNode is returned for a node kind with no converter
var ErrUnhandledNode = errors.New("no converter for node kind")

// Reasons carried by commented-out output
const (
	ReasonInvalidVariable = "Removed invalid variable"
	ReasonDeletedValue    = "Removed - uses a value with no C++ representation"
)

// Converter dispatches nodes to their converters
type Converter struct {
	validator validation.Validator
	textPass  func(string) string
}

// Option configures a Converter
type Option func(*Converter)

// WithTextPass sets the rewrite applied to the text of statements that are
// kept as raw text
func WithTextPass(fn func(string) string) Option {
	return func(c *Converter) { c.textPass = fn }
}

// New creates a Converter using the given validation hooks
func New(v validation.Validator, opts ...Option) *Converter {
	c := &Converter{validator: v}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converts one node. A nil node converts to nil.
func (c *Converter) Convert(n codeobj.Node, pack *convpack.Pack) (codeobj.Node, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil

	// expressions
	case codeobj.Literal:
		return c.convertLiteral(n, pack)
	case codeobj.Operation:
		return c.validator.ValidateOperation(n, n, pack)
	case codeobj.BinaryOperation:
		return c.convertBinaryOperation(n, pack)
	case codeobj.UnaryOperation:
		return c.convertUnaryOperation(n, pack)
	case codeobj.UnaryExpression:
		return c.convertUnaryExpression(n, pack)
	case codeobj.ParenExpression:
		return c.convertParenExpression(n, pack)
	case codeobj.ConditionalOperation:
		return c.convertConditionalOperation(n, pack)
	case codeobj.ArrayAccess:
		return c.convertArrayAccess(n, pack)
	case codeobj.StructMemberAccess:
		return c.convertStructMemberAccess(n, pack)
	case codeobj.ValueDeclarationReference:
		return c.convertValueDeclarationReference(n, pack)
	case codeobj.FunctionCall:
		return c.convertFunctionCall(n, pack)

	// statements
	case codeobj.VariableDeclaration:
		return c.convertVariableDeclaration(n, pack)
	case codeobj.DirectInitDeclaration:
		return c.convertDirectInitDeclaration(n, pack)
	case codeobj.ReturnStatement:
		return c.convertReturnStatement(n, pack)
	case codeobj.ExpressionStatement:
		return c.convertExpressionStatement(n, pack)
	case codeobj.CompoundStatement:
		return c.convertCompoundStatement(n, pack)
	case codeobj.IfStatement:
		return c.convertIfStatement(n, pack)
	case codeobj.WhileStatement:
		return c.convertWhileStatement(n, pack)
	case codeobj.DoStatement:
		return c.convertDoStatement(n, pack)
	case codeobj.ForStatement:
		return c.convertForStatement(n, pack)
	case codeobj.SwitchStatement:
		return c.convertSwitchStatement(n, pack)
	case codeobj.JumpStatement:
		return n, nil
	case codeobj.RawStatement:
		return c.convertRawStatement(n, pack)
	case codeobj.CommentedOut, codeobj.Elided:
		return n, nil

	// declarations
	case codeobj.Arg:
		return c.convertArg(n, pack), nil
	case codeobj.FuncSig:
		m, err := c.mappingFor(n, pack)
		if err != nil {
			return nil, err
		}
		if pack.IsMemberMapping(n.Name) {
			// declared by the class instead
			return codeobj.Elided{}, nil
		}
		return m.Cpp, nil
	case codeobj.Function:
		return c.convertFunction(n.Sig, n.Body, pack)
	case codeobj.MemberFunction:
		return c.convertFunction(n.Sig, n.Body, pack)
	case codeobj.VirtualMemberFunction:
		return c.convertFunction(n.Sig, n.Body, pack)
	case codeobj.StructArg:
		return c.convertStructArg(n, pack), nil
	case codeobj.Typedef:
		return c.convertTypedef(n, pack)
	}
	return nil, fmt.Errorf("%s: %w", codeobj.KindName(n), ErrUnhandledNode)
}

// convertAll converts nodes in order, stopping at the first error
func (c *Converter) convertAll(nodes []codeobj.Node, pack *convpack.Pack) ([]codeobj.Node, error) {
	out := make([]codeobj.Node, 0, len(nodes))
	for _, n := range nodes {
		cpp, err := c.Convert(n, pack)
		if err != nil {
			return nil, err
		}
		out = append(out, cpp)
	}
	return out, nil
}

// unusable reports whether a converted child cannot be embedded in its
// parent: it was elided, or has already been commented out
func unusable(nodes ...codeobj.Node) bool {
	for _, n := range nodes {
		switch n.(type) {
		case codeobj.Elided, codeobj.CommentedOut:
			return true
		}
	}
	return false
}

// removed comments out the C node in place of a conversion that has an
// unusable child
func removed(c codeobj.Node, pack *convpack.Pack) codeobj.CommentedOut {
	pack.Logger().Debug("commenting out", "kind", codeobj.KindName(c), "c", codeobj.AsString(c))
	return codeobj.AsCommentedOut(c, ReasonDeletedValue)
}
