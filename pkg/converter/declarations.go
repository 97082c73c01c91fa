package converter

import (
	"fmt"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/naming"
)

// convertArg converts a declared argument or variable. A custom transform
// wins over the type tables. Names registered earlier are not consulted: a
// declaration always introduces its own type. An arg whose type has no C++
// representation converts to Elided.
func (c *Converter) convertArg(n codeobj.Arg, pack *convpack.Pack) codeobj.Node {
	if a, ok := pack.CustomArgTransform(n); ok {
		a.FuncArg = n.FuncArg
		return a
	}
	spec, deleted := pack.CppType(n.Spec)
	if deleted {
		pack.Logger().Debug("arg type deleted", "arg", codeobj.AsString(n))
		return codeobj.Elided{}
	}
	return codeobj.Arg{Spec: spec, Name: naming.ToCamel(n.Name), FuncArg: n.FuncArg}
}

// mappingFor returns the mapping for a C signature. A signature with no
// mapping gets one built from its converted args, which is added to the
// pack so call sites later in the unit use it.
func (c *Converter) mappingFor(sig codeobj.FuncSig, pack *convpack.Pack) (convpack.FuncSigMapping, error) {
	if m, ok := pack.MappingForCFuncName(sig.Name); ok {
		return m, nil
	}

	// arg names of the previous function must not leak into this signature
	pack.BeginFunction(sig, nil)

	ret := codeobj.DeclSpec{Type: "void"}
	if sig.ReturnType.Type != "" {
		spec, deleted := pack.CppType(sig.ReturnType)
		if !deleted {
			ret = spec
		}
	}
	cpp := codeobj.FuncSig{ReturnType: ret, Name: naming.FunctionName(sig.Name), Const: sig.Const}
	for _, slot := range sig.Args {
		a, ok := slot.Arg()
		if !ok {
			cpp.Args = append(cpp.Args, codeobj.ElidedSlot())
			continue
		}
		if converted, ok := c.convertArg(a.AsFuncArg(), pack).(codeobj.Arg); ok {
			cpp.Args = append(cpp.Args, codeobj.Present(converted))
		} else {
			cpp.Args = append(cpp.Args, codeobj.ElidedSlot())
		}
	}

	m := convpack.FuncSigMapping{C: sig, Cpp: cpp}
	if err := pack.AddMapping(m); err != nil {
		return m, fmt.Errorf("discover %s: %w", sig.Name, err)
	}
	pack.Logger().Debug("discovered mapping", "mapping", m.String())
	return m, nil
}

// convertFunction converts a function definition. Functions mapped to a
// member of the unit's class become member functions.
func (c *Converter) convertFunction(sig codeobj.FuncSig, body codeobj.CompoundStatement, pack *convpack.Pack) (codeobj.Node, error) {
	m, err := c.mappingFor(sig, pack)
	if err != nil {
		return nil, err
	}
	pack.BeginFunction(sig, &m)

	stmts, err := c.convertStatements(body.Statements, pack)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sig.Name, err)
	}
	cppBody, err := codeobj.NewCompoundStatement(stmts)
	if err != nil {
		return nil, err
	}

	if !pack.IsMemberMapping(sig.Name) {
		return codeobj.Function{Sig: m.Cpp, Body: cppBody}, nil
	}
	if m.Virtual {
		return codeobj.VirtualMemberFunction{ClassName: pack.ClassName(), Sig: m.Cpp, Body: cppBody}, nil
	}
	return codeobj.MemberFunction{ClassName: pack.ClassName(), Sig: m.Cpp, Body: cppBody}, nil
}

// convertStructArg registers the struct under its C++ name, so later
// declarations of the struct type convert to it
func (c *Converter) convertStructArg(n codeobj.StructArg, pack *convpack.Pack) codeobj.Node {
	name := naming.ToPascal(n.Name)
	if n.Name != "" {
		pack.RegisterType(n.Name, codeobj.DeclSpec{Type: name})
		pack.RegisterType("struct "+n.Name, codeobj.DeclSpec{Type: name})
	}
	cpp := codeobj.StructArg{Name: name}
	for _, member := range n.Members {
		spec, deleted := pack.CppType(member.Spec)
		if deleted {
			continue
		}
		cpp.Members = append(cpp.Members, codeobj.Arg{Spec: spec, Name: naming.ToCamel(member.Name)})
	}
	return cpp
}

func (c *Converter) convertTypedef(n codeobj.Typedef, pack *convpack.Pack) (codeobj.Node, error) {
	spec, deleted := pack.CppType(n.Spec)
	if deleted {
		pack.Logger().Debug("typedef of deleted type", "typedef", codeobj.AsString(n))
		return codeobj.Elided{}, nil
	}
	name := naming.ToPascal(n.Name)
	pack.RegisterType(n.Name, codeobj.DeclSpec{Type: name})
	return codeobj.Typedef{Spec: spec, Name: name, Using: true}, nil
}
