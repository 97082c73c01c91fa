package accessor

import (
	"regexp"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/gribapi"
	"github.com/raymyers/ralph-cpp/pkg/validation"
)

// StatusType is the C++ type accessor functions report errors with
const StatusType = "GribStatus"

// statusVars are the locals that conventionally hold a function's status
var statusVars = map[string]bool{"err": true, "ret": true}

var integerPattern = regexp.MustCompile(`^-?\d+$`)

// Validation extends the default hooks with the GribStatus conventions of
// accessor code
type Validation struct {
	validation.Default
}

var _ validation.Validator = Validation{}

// ValidateReturnStatement wraps integer results of functions returning
// GribStatus: return 0; -> return GribStatus{0};
func (v Validation) ValidateReturnStatement(c, cpp codeobj.ReturnStatement, pack *convpack.Pack) (codeobj.Node, error) {
	n, err := v.Default.ValidateReturnStatement(c, cpp, pack)
	if err != nil || !returnsStatus(pack) {
		return n, err
	}
	ret, ok := n.(codeobj.ReturnStatement)
	if !ok || ret.Expression == nil {
		return n, nil
	}
	value := codeobj.AsString(ret.Expression)
	if !integerPattern.MatchString(value) {
		return ret, nil
	}
	pack.Logger().Debug("updated return value to GribStatus", "value", value)
	return codeobj.ReturnStatement{Expression: codeobj.Literal{Value: StatusType + "{" + value + "}"}}, nil
}

// ValidateVariableDeclaration gives the status local of a function
// returning GribStatus the GribStatus type:
//
//	int err = 0;              -> GribStatus err{GribStatus::SUCCESS};
//	int err = GRIB_NOT_FOUND; -> GribStatus err{GribStatus::NOT_FOUND};
//	int ret = unpack(...);    -> GribStatus ret = unpack(...);
func (v Validation) ValidateVariableDeclaration(c, cpp codeobj.VariableDeclaration, pack *convpack.Pack) (codeobj.Node, error) {
	n, err := v.Default.ValidateVariableDeclaration(c, cpp, pack)
	if err != nil || !returnsStatus(pack) {
		return n, err
	}
	decl, ok := n.(codeobj.VariableDeclaration)
	if !ok || !statusVars[decl.Variable.Name] || decl.Variable.Spec.Type != "int" || decl.Variable.Spec.Pointer != "" {
		return n, nil
	}
	status := decl.Variable.WithSpec(codeobj.DeclSpec{Type: StatusType})

	switch value := decl.Value.(type) {
	case nil:
		return n, nil
	case codeobj.FunctionCall:
		sig, known := pack.CppFuncSigForCppName(value.Name)
		if !known || sig.ReturnType.Type != StatusType {
			return n, nil
		}
		pack.Logger().Debug("status assigned via function", "var", status.Name, "call", value.Name)
		return codeobj.NewVariableDeclaration(status, value), nil
	default:
		init := codeobj.AsString(value)
		switch {
		case init == "0":
			init = StatusType + "::SUCCESS"
		case integerPattern.MatchString(init):
			init = StatusType + "{" + init + "}"
		case !gribapi.IsStatus(init):
			return n, nil
		}
		pack.Logger().Debug("status assigned to value", "var", status.Name, "value", init)
		return codeobj.DirectInitDeclaration{
			Variable: status,
			Args:     []codeobj.Node{codeobj.Literal{Value: init}},
			Braced:   true,
		}, nil
	}
}

func returnsStatus(pack *convpack.Pack) bool {
	m := pack.CurrentMapping()
	return m != nil && m.Cpp.ReturnType.Type == StatusType
}
