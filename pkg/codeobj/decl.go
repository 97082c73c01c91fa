package codeobj

import "strings"

// FuncSig is a function signature. Args are slots so that two signatures
// (C and C++) can be aligned position by position even where one side has
// no counterpart.
type FuncSig struct {
	ReturnType DeclSpec
	Name       string
	Args       []ArgSlot
	Const      bool // trailing const on a member function
}

// NewFuncSig creates a FuncSig whose args are all present
func NewFuncSig(ret DeclSpec, name string, args ...Arg) FuncSig {
	slots := make([]ArgSlot, len(args))
	for i, a := range args {
		slots[i] = Present(a)
	}
	return FuncSig{ReturnType: ret, Name: name, Args: slots}
}

// PresentArgs returns the args that are not elided, in order
func (f FuncSig) PresentArgs() []Arg {
	var out []Arg
	for _, s := range f.Args {
		if a, ok := s.Arg(); ok {
			out = append(out, a)
		}
	}
	return out
}

// ArgAt returns the arg at position i and whether it is present
func (f FuncSig) ArgAt(i int) (Arg, bool) {
	if i < 0 || i >= len(f.Args) {
		return Arg{}, false
	}
	return f.Args[i].Arg()
}

// WithName returns a copy of the signature with a different name
func (f FuncSig) WithName(name string) FuncSig {
	f.Name = name
	return f
}

func (f FuncSig) argList() string {
	parts := make([]string, 0, len(f.Args))
	for _, a := range f.PresentArgs() {
		parts = append(parts, AsString(a.AsFuncArg()))
	}
	return strings.Join(parts, ", ")
}

func (f FuncSig) render(qualifiedName string) string {
	s := strings.TrimSpace(f.ReturnType.String()+" "+qualifiedName) + "(" + f.argList() + ")"
	if f.Const {
		s += " const"
	}
	return s
}

func (f FuncSig) Lines() []string { return []string{f.render(f.Name)} }

// Function is a free function definition
type Function struct {
	Sig  FuncSig
	Body CompoundStatement
}

// MemberFunction is a non-virtual member function of ClassName
type MemberFunction struct {
	ClassName string
	Sig       FuncSig
	Body      CompoundStatement
}

// VirtualMemberFunction is a virtual member function overriding a base class member
type VirtualMemberFunction struct {
	ClassName string
	Sig       FuncSig
	Body      CompoundStatement
}

// Declaration renders the in-class declaration: "GribStatus unpack(long& value) const;"
func (m MemberFunction) Declaration() string {
	return m.Sig.render(m.Sig.Name) + ";"
}

// Declaration renders the in-class declaration with an override specifier
func (m VirtualMemberFunction) Declaration() string {
	return m.Sig.render(m.Sig.Name) + " override;"
}

func definitionLines(head string, body CompoundStatement) []string {
	return append([]string{head}, body.Lines()...)
}

func (f Function) Lines() []string { return definitionLines(f.Sig.render(f.Sig.Name), f.Body) }

func (m MemberFunction) Lines() []string {
	return definitionLines(m.Sig.render(qualify(m.ClassName, m.Sig.Name)), m.Body)
}

func (m VirtualMemberFunction) Lines() []string {
	return definitionLines(m.Sig.render(qualify(m.ClassName, m.Sig.Name)), m.Body)
}

func qualify(class, name string) string {
	if class == "" {
		return name
	}
	return class + "::" + name
}

// StructArg is an aggregate declaration: struct Name { Members... };
type StructArg struct {
	Name    string
	Members []Arg
}

func (s StructArg) Lines() []string {
	lines := []string{"struct " + s.Name, "{"}
	for _, m := range s.Members {
		lines = append(lines, Indent+AsString(m)+";")
	}
	return append(lines, "};")
}

// Typedef introduces an alias for a type. Using selects the C++ alias form.
type Typedef struct {
	Spec  DeclSpec
	Name  string
	Using bool
}

func (t Typedef) Lines() []string {
	if t.Using {
		return []string{"using " + t.Name + " = " + t.Spec.String() + ";"}
	}
	return []string{"typedef " + t.Spec.String() + " " + t.Name + ";"}
}

func (FuncSig) implCodeObject()               {}
func (Function) implCodeObject()              {}
func (MemberFunction) implCodeObject()        {}
func (VirtualMemberFunction) implCodeObject() {}
func (StructArg) implCodeObject()             {}
func (Typedef) implCodeObject()               {}
