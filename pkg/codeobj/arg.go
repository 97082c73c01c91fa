package codeobj

import "strings"

// DeclSpec is a declaration specifier: storage class, const qualifier, type
// and the pointer, reference or array qualifier that follows the type.
type DeclSpec struct {
	StorageClass   string // static, extern, ...
	ConstQualifier string // "const" or ""
	Type           string // unsigned char, std::vector<long>, grib_handle
	Pointer        string // *, **, &, [], [10]
}

// String renders the specifier with the qualifier attached to the type: "const char*"
func (d DeclSpec) String() string {
	var parts []string
	if d.StorageClass != "" {
		parts = append(parts, d.StorageClass)
	}
	if d.ConstQualifier != "" {
		parts = append(parts, d.ConstQualifier)
	}
	if d.Type != "" || d.Pointer != "" {
		parts = append(parts, d.Type+d.Pointer)
	}
	return strings.Join(parts, " ")
}

// IsArrayType reports whether the qualifier is an array declarator
func (d DeclSpec) IsArrayType() bool {
	return strings.HasPrefix(d.Pointer, "[")
}

// ArraySize returns the declared size of an array type ("" when unsized)
func (d DeclSpec) ArraySize() string {
	if !d.IsArrayType() {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(d.Pointer, "["), "]")
}

// IsConst reports whether the specifier is const-qualified
func (d DeclSpec) IsConst() bool {
	return d.ConstQualifier == "const"
}

// IsReference reports whether the specifier declares a reference
func (d DeclSpec) IsReference() bool {
	return strings.HasSuffix(d.Pointer, "&")
}

// IsPointer reports whether the specifier declares a raw pointer
func (d DeclSpec) IsPointer() bool {
	return strings.HasSuffix(d.Pointer, "*")
}

// FullType returns the type with its qualifier and no storage class or const: "char*"
func (d DeclSpec) FullType() string {
	return d.Type + d.Pointer
}

// Arg is a declaration specifier plus an optional name. An Arg without a
// name is a type-only slot, used when matching signatures.
type Arg struct {
	Spec DeclSpec
	Name string
	// FuncArg marks an argument of a function signature, where arrays decay to pointers
	FuncArg bool
}

// ArgKey identifies an Arg structurally for use as a map key
type ArgKey struct {
	Spec DeclSpec
	Name string
}

// NewArg creates an Arg
func NewArg(spec DeclSpec, name string) Arg {
	return Arg{Spec: spec, Name: name}
}

// Key returns the structural identity of the arg (FuncArg is not part of it)
func (a Arg) Key() ArgKey {
	return ArgKey{Spec: a.Spec, Name: a.Name}
}

// AsFuncArg returns a copy marked as a function signature argument
func (a Arg) AsFuncArg() Arg {
	a.FuncArg = true
	return a
}

// WithName returns a copy with a different name
func (a Arg) WithName(name string) Arg {
	a.Name = name
	return a
}

// WithSpec returns a copy with a different declaration specifier
func (a Arg) WithSpec(spec DeclSpec) Arg {
	a.Spec = spec
	return a
}

func (a Arg) Lines() []string {
	if a.Spec.IsArrayType() {
		base := a.Spec
		base.Pointer = ""
		if a.FuncArg {
			return []string{strings.TrimSpace(base.String() + "* " + a.Name)}
		}
		return []string{strings.TrimSpace(base.String()+" "+a.Name) + a.Spec.Pointer}
	}
	return []string{strings.TrimSpace(a.Spec.String() + " " + a.Name)}
}

// ArgSlot is one position of a signature argument list: either a present
// Arg or an elided position with no counterpart on the other side.
type ArgSlot struct {
	arg     Arg
	present bool
}

// Present wraps an Arg as a filled slot
func Present(a Arg) ArgSlot {
	return ArgSlot{arg: a, present: true}
}

// ElidedSlot returns a slot with no argument
func ElidedSlot() ArgSlot {
	return ArgSlot{}
}

// Arg returns the slot's argument and whether it is present
func (s ArgSlot) Arg() (Arg, bool) {
	return s.arg, s.present
}

// IsElided reports whether the slot holds no argument
func (s ArgSlot) IsElided() bool {
	return !s.present
}

func (s ArgSlot) String() string {
	if !s.present {
		return "<elided>"
	}
	return AsString(s.arg)
}

func (Arg) implCodeObject() {}
