package validation

import (
	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/names"
)

// ValidateFunctionCall rebuilds a mapped call against its C++ signature and
// rewrites the C string functions that have no mapping
func (d Default) ValidateFunctionCall(c, cpp codeobj.FunctionCall, pack *convpack.Pack) (codeobj.Node, error) {
	if m, ok := pack.MappingForCFuncName(c.Name); ok {
		return d.rebuildCall(cpp, m, pack), nil
	}

	switch c.Name {
	case "strcmp":
		if len(cpp.Args) == 2 {
			pack.Logger().Debug("replaced strcmp", "call", codeobj.AsString(c))
			return codeobj.NewBinaryOperation(cpp.Args[0], "==", cpp.Args[1])
		}
	case "strcpy":
		if len(cpp.Args) == 2 {
			return codeobj.NewBinaryOperation(cpp.Args[0], "=", cpp.Args[1])
		}
	case "strcat":
		if len(cpp.Args) == 2 {
			return codeobj.NewBinaryOperation(cpp.Args[0], "+=", cpp.Args[1])
		}
	case "strlen":
		if len(cpp.Args) == 1 {
			if a, ok := names.ToCppArg(cpp.Args[0], pack); ok && pack.IsContainer(a) {
				return convpack.ContainerLengthAccess(a.Name), nil
			}
		}
	}
	return cpp, nil
}

// rebuildCall lays the converted arguments out over the C++ signature. An
// elided slot drops the argument at that position, so the call's arity is
// the number of present slots. A call missing a present slot's argument is
// commented out.
func (d Default) rebuildCall(cpp codeobj.FunctionCall, m convpack.FuncSigMapping, pack *convpack.Pack) codeobj.Node {
	var args []codeobj.Node
	for i, slot := range m.Cpp.Args {
		target, present := slot.Arg()
		if !present {
			continue
		}
		if i >= len(cpp.Args) {
			pack.Logger().Warn("call has fewer arguments than its mapping", "call", codeobj.AsString(cpp), "mapping", m.String())
			return codeobj.AsCommentedOut(cpp, ReasonMissingArgs)
		}
		arg := cpp.Args[i]
		if codeobj.IsElided(arg) {
			return codeobj.AsCommentedOut(cpp, ReasonElidedArgument)
		}
		args = append(args, d.validateCallArg(arg, target, pack))
	}
	return codeobj.FunctionCall{Name: m.Cpp.Name, Args: args}
}

// validateCallArg strips an address-of from an argument unless the
// parameter is a raw pointer. Nothing is called by address after conversion.
func (Default) validateCallArg(arg codeobj.Node, target codeobj.Arg, pack *convpack.Pack) codeobj.Node {
	u, ok := arg.(codeobj.UnaryOperation)
	if !ok || u.Op.Value != "&" || u.Postfix || target.Spec.IsPointer() {
		return arg
	}
	pack.Logger().Debug("stripping [&] from call argument", "arg", codeobj.AsString(arg), "target", codeobj.AsString(target))
	return u.Operand
}
