// Package validation holds the hooks that patch a structurally converted
// node into valid C++. Each hook receives the original C node, the
// converted node and the unit's pack, and returns the final node. Hooks
// only read the pack.
package validation

import (
	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

// Validator is the set of hooks the converter calls after the structural
// phase, one per node category
type Validator interface {
	ValidateFunctionCall(c, cpp codeobj.FunctionCall, pack *convpack.Pack) (codeobj.Node, error)
	ValidateUnaryOperation(c, cpp codeobj.UnaryOperation, pack *convpack.Pack) (codeobj.Node, error)
	ValidateBinaryOperation(c, cpp codeobj.BinaryOperation, pack *convpack.Pack) (codeobj.Node, error)
	ValidateVariableDeclaration(c, cpp codeobj.VariableDeclaration, pack *convpack.Pack) (codeobj.Node, error)
	ValidateParenExpression(c, cpp codeobj.ParenExpression, pack *convpack.Pack) (codeobj.Node, error)
	ValidateReturnStatement(c, cpp codeobj.ReturnStatement, pack *convpack.Pack) (codeobj.Node, error)
	ValidateOperation(c, cpp codeobj.Operation, pack *convpack.Pack) (codeobj.Node, error)
	// ValidateCondition sees the controlling expression of an if or a loop
	ValidateCondition(c, cpp codeobj.Node, pack *convpack.Pack) (codeobj.Node, error)
}

// Reason texts used by the default hooks
const (
	ReasonConstMutation  = "Removing - conversion requires mutable operation on const type"
	ReasonElidedArgument = "Removed - argument has no C++ representation"
	ReasonMissingArgs    = "Removed - call has fewer arguments than its C++ signature"
)

// Default implements the hooks for code that is not specific to any
// accessor class. Embed it to override individual hooks.
type Default struct{}

var _ Validator = Default{}

func (Default) ValidateParenExpression(_, cpp codeobj.ParenExpression, _ *convpack.Pack) (codeobj.Node, error) {
	return cpp, nil
}

func (Default) ValidateReturnStatement(_, cpp codeobj.ReturnStatement, _ *convpack.Pack) (codeobj.Node, error) {
	return cpp, nil
}

func (Default) ValidateOperation(_, cpp codeobj.Operation, _ *convpack.Pack) (codeobj.Node, error) {
	return cpp, nil
}
