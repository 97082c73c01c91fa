package validation

import (
	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

// ValidateVariableDeclaration initializes container declarations. A C
// array becomes a container constructed with the array's size; a NULL
// pointer becomes an empty container.
func (Default) ValidateVariableDeclaration(c, cpp codeobj.VariableDeclaration, pack *convpack.Pack) (codeobj.Node, error) {
	if !pack.IsContainer(cpp.Variable) {
		return cpp, nil
	}

	value := codeobj.AsString(cpp.Value)
	if (cpp.Value == nil || value == "{}") && c.Variable.Spec.IsArrayType() {
		size := c.Variable.Spec.ArraySize()
		if size == "" {
			return codeobj.NewVariableDeclaration(cpp.Variable, codeobj.Literal{Value: "{}"}), nil
		}
		pack.Logger().Debug("sizing container from C array", "var", cpp.Variable.Name, "size", size)
		return codeobj.DirectInitDeclaration{
			Variable: cpp.Variable,
			Args:     []codeobj.Node{codeobj.Literal{Value: size}, codeobj.Literal{Value: "{}"}},
		}, nil
	}
	if value == "NULL" {
		pack.Logger().Debug("changing NULL initializer to {}", "var", cpp.Variable.Name)
		return codeobj.NewVariableDeclaration(cpp.Variable, codeobj.Literal{Value: "{}"}), nil
	}
	return cpp, nil
}
