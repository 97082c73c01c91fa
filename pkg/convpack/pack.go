package convpack

import (
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
)

// UnknownCallPolicy decides how the result of a call with no known C++
// signature is treated when it is assigned to a container
type UnknownCallPolicy int

const (
	// FavorScalar treats unknown calls as returning a single value, which is
	// stored in the container's first element
	FavorScalar UnknownCallPolicy = iota
	// FavorContainer treats unknown calls as returning a whole container
	FavorContainer
)

func (p UnknownCallPolicy) String() string {
	if p == FavorContainer {
		return "favor_container"
	}
	return "favor_scalar"
}

// ParseUnknownCallPolicy parses "favor_scalar" or "favor_container"
func ParseUnknownCallPolicy(s string) (UnknownCallPolicy, error) {
	switch s {
	case "", "favor_scalar":
		return FavorScalar, nil
	case "favor_container":
		return FavorContainer, nil
	}
	return FavorScalar, fmt.Errorf("unknown call policy %q", s)
}

// AllFunctions is the custom arg transform discriminator that applies to
// every function of a unit
const AllFunctions = "ALL"

// Pack is the conversion context of one translation unit. It is owned by
// the single pass converting that unit and must not be shared.
type Pack struct {
	tables *Tables
	logger *slog.Logger
	policy UnknownCallPolicy
	class  string

	locals     map[string]codeobj.ArgSlot // C name -> C++ slot, per function
	globals    map[string]codeobj.ArgSlot
	cppLocals  map[string]codeobj.Arg // C++ name -> C++ arg, per function
	cppGlobals map[string]codeobj.Arg
	lengths    map[string]codeobj.Arg // C length name -> C++ container, per function

	types      map[string]codeobj.DeclSpec // unit typedefs and structs
	deleted    map[string]bool             // unit types with no C++ representation
	overrides  map[string]FuncSigMapping
	discovered map[string]FuncSigMapping
	customArgs map[string]map[codeobj.ArgKey]codeobj.Arg

	current  *FuncSigMapping
	function string // C name of the function being converted
}

// Option configures a Pack
type Option func(*Pack)

// WithLogger sets the logger for conversion decisions
func WithLogger(l *slog.Logger) Option {
	return func(p *Pack) { p.logger = l }
}

// WithClass sets the C++ class that member functions of the unit belong to
func WithClass(name string) Option {
	return func(p *Pack) { p.class = name }
}

// WithPolicy sets the unknown-call policy
func WithPolicy(policy UnknownCallPolicy) Option {
	return func(p *Pack) { p.policy = policy }
}

// New creates the context for one unit backed by shared tables
func New(tables *Tables, opts ...Option) *Pack {
	p := &Pack{
		tables:     tables,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		locals:     make(map[string]codeobj.ArgSlot),
		globals:    make(map[string]codeobj.ArgSlot),
		cppLocals:  make(map[string]codeobj.Arg),
		cppGlobals: make(map[string]codeobj.Arg),
		lengths:    make(map[string]codeobj.Arg),
		types:      make(map[string]codeobj.DeclSpec),
		deleted:    make(map[string]bool),
		overrides:  make(map[string]FuncSigMapping),
		discovered: make(map[string]FuncSigMapping),
		customArgs: make(map[string]map[codeobj.ArgKey]codeobj.Arg),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Logger returns the pack's logger
func (p *Pack) Logger() *slog.Logger { return p.logger }

// Tables returns the shared tables
func (p *Pack) Tables() *Tables { return p.tables }

// ClassName returns the C++ class name, or "" for a unit of free functions
func (p *Pack) ClassName() string { return p.class }

// Policy returns the unknown-call policy
func (p *Pack) Policy() UnknownCallPolicy { return p.policy }

// ----------------------------------------------------------------------------
// Names

// RegisterLocal records the C++ counterpart of a C local or argument. An
// elided slot marks the C name as deleted.
func (p *Pack) RegisterLocal(c codeobj.Arg, cpp codeobj.ArgSlot) {
	p.locals[c.Name] = cpp
	delete(p.lengths, c.Name)
	if a, ok := cpp.Arg(); ok && a.Name != "" {
		p.cppLocals[a.Name] = a
	}
	p.logger.Debug("register local", "c", codeobj.AsString(c), "cpp", cpp.String())
}

// RegisterGlobal records the C++ counterpart of a unit-level C name
func (p *Pack) RegisterGlobal(c codeobj.Arg, cpp codeobj.ArgSlot) {
	p.globals[c.Name] = cpp
	if a, ok := cpp.Arg(); ok && a.Name != "" {
		p.cppGlobals[a.Name] = a
	}
}

// MarkDeleted records that a C name has no valid C++ representation in the
// current scope; all code referencing it is removed. A global of the same
// name is only shadowed.
func (p *Pack) MarkDeleted(cname string) {
	p.locals[cname] = codeobj.ElidedSlot()
	delete(p.lengths, cname)
	p.logger.Debug("mark deleted", "c", cname)
}

// EnterScope opens a block scope. The returned func closes it, dropping
// the names registered or deleted inside the block.
func (p *Pack) EnterScope() (leave func()) {
	locals, cppLocals := maps.Clone(p.locals), maps.Clone(p.cppLocals)
	return func() {
		p.locals, p.cppLocals = locals, cppLocals
	}
}

// CppArgForCName returns the C++ slot registered for a C name. An elided
// slot means the name was deleted.
func (p *Pack) CppArgForCName(cname string) (codeobj.ArgSlot, bool) {
	if s, ok := p.locals[cname]; ok {
		return s, true
	}
	s, ok := p.globals[cname]
	return s, ok
}

// CppArgForCppName returns the C++ arg registered under a C++ name
func (p *Pack) CppArgForCppName(name string) (codeobj.Arg, bool) {
	if a, ok := p.cppLocals[name]; ok {
		return a, true
	}
	a, ok := p.cppGlobals[name]
	return a, ok
}

// ----------------------------------------------------------------------------
// Containers

// IsContainerType reports whether a C++ type is a container
func (p *Pack) IsContainerType(cpptype string) bool {
	return p.tables.IsContainerType(cpptype)
}

// IsContainer reports whether an arg has a container type
func (p *Pack) IsContainer(a codeobj.Arg) bool {
	return p.IsContainerType(a.Spec.Type)
}

// BindContainerLength records that a C length variable is now expressed by
// the size of a C++ container
func (p *Pack) BindContainerLength(clength string, container codeobj.Arg) {
	p.lengths[clength] = container
	p.logger.Debug("bind container length", "c", clength, "container", container.Name)
}

// ContainerLengthFor returns the container whose size replaces a C length variable
func (p *Pack) ContainerLengthFor(clength string) (codeobj.Arg, bool) {
	a, ok := p.lengths[clength]
	return a, ok
}

// ContainerLengthAccess returns name.size()
func ContainerLengthAccess(name string) codeobj.StructMemberAccess {
	return codeobj.MemberAccess(name, ".", "size()")
}

// CNameToContainerLength returns the size access for the container a C
// name converts to, if it converts to a container
func (p *Pack) CNameToContainerLength(cname string) (codeobj.StructMemberAccess, bool) {
	slot, ok := p.CppArgForCName(cname)
	if !ok {
		if a, found := p.CppArgForCppName(cname); found {
			slot, ok = codeobj.Present(a), true
		}
	}
	if !ok {
		return codeobj.StructMemberAccess{}, false
	}
	a, present := slot.Arg()
	if !present || !p.IsContainer(a) {
		return codeobj.StructMemberAccess{}, false
	}
	return ContainerLengthAccess(a.Name), true
}

// ----------------------------------------------------------------------------
// Signatures

// AddClassOverride registers a mapping specific to this unit's class. It
// takes precedence over the shared member table.
func (p *Pack) AddClassOverride(m FuncSigMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	p.overrides[m.C.Name] = m
	return nil
}

// AddMapping registers a mapping discovered while converting the unit
func (p *Pack) AddMapping(m FuncSigMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	p.discovered[m.C.Name] = m
	return nil
}

// MappingForCFuncName resolves a C function name: class override first,
// then the shared member table, then mappings discovered in this unit,
// then the static tables
func (p *Pack) MappingForCFuncName(cname string) (FuncSigMapping, bool) {
	if m, ok := p.overrides[cname]; ok {
		return m, true
	}
	if p.class != "" {
		if m, ok := p.tables.Member(cname); ok {
			return m, true
		}
	}
	if m, ok := p.discovered[cname]; ok {
		return m, true
	}
	return p.tables.Static(cname)
}

// IsMemberMapping reports whether a C function maps to a member of the unit's class
func (p *Pack) IsMemberMapping(cname string) bool {
	if p.class == "" {
		return false
	}
	if _, ok := p.overrides[cname]; ok {
		return true
	}
	_, ok := p.tables.Member(cname)
	return ok
}

// CppFuncSigForCppName finds a C++ signature by its C++ name
func (p *Pack) CppFuncSigForCppName(name string) (codeobj.FuncSig, bool) {
	for _, set := range []map[string]FuncSigMapping{p.overrides, p.discovered} {
		for _, m := range set {
			if m.Cpp.Name == name {
				return m.Cpp, true
			}
		}
	}
	var sig codeobj.FuncSig
	found := false
	p.tables.eachMapping(func(m FuncSigMapping) bool {
		if m.Cpp.Name == name {
			sig, found = m.Cpp, true
			return false
		}
		return true
	})
	return sig, found
}

// CallReturnsContainer reports whether a C++ function returns a container.
// known is false when no signature is registered for it.
func (p *Pack) CallReturnsContainer(cppname string) (container, known bool) {
	sig, ok := p.CppFuncSigForCppName(cppname)
	if !ok {
		return false, false
	}
	return p.IsContainerType(sig.ReturnType.Type), true
}

// ----------------------------------------------------------------------------
// Arg transforms

// AddCustomArgTransform registers a replacement C++ arg for a C arg.
// discriminator is AllFunctions or the C name of one function.
func (p *Pack) AddCustomArgTransform(discriminator string, c, cpp codeobj.Arg) {
	set, ok := p.customArgs[discriminator]
	if !ok {
		set = make(map[codeobj.ArgKey]codeobj.Arg)
		p.customArgs[discriminator] = set
	}
	set[c.Key()] = cpp
}

// CustomArgTransform returns the replacement for a C arg, preferring one
// registered for the current function over one for all functions
func (p *Pack) CustomArgTransform(c codeobj.Arg) (codeobj.Arg, bool) {
	for _, d := range []string{p.function, AllFunctions} {
		if set, ok := p.customArgs[d]; ok {
			if a, ok := set[c.Key()]; ok {
				return a, true
			}
		}
	}
	return codeobj.Arg{}, false
}

// ----------------------------------------------------------------------------
// Types

// RegisterType records the C++ type for a type name declared in the unit
func (p *Pack) RegisterType(cname string, cpp codeobj.DeclSpec) {
	p.types[cname] = cpp
}

// DeleteType marks a type name of the unit as having no C++ representation
func (p *Pack) DeleteType(cname string) {
	p.deleted[cname] = true
}

// CppType converts a C specifier. deleted is true when the type has no
// C++ representation.
func (p *Pack) CppType(c codeobj.DeclSpec) (spec codeobj.DeclSpec, deleted bool) {
	if p.deleted[c.Type] {
		return codeobj.DeclSpec{}, true
	}
	if t, ok := p.types[c.Type]; ok {
		spec = c
		spec.Type = t.Type
		if t.Pointer != "" {
			spec.Pointer = t.Pointer
		}
		return spec, false
	}
	tt, ok := p.tables.TypeFor(c)
	if !ok {
		return c, false
	}
	if tt.Deleted {
		return codeobj.DeclSpec{}, true
	}
	spec = tt.Cpp
	if spec.StorageClass == "" {
		spec.StorageClass = c.StorageClass
	}
	if spec.ConstQualifier == "" {
		spec.ConstQualifier = c.ConstQualifier
	}
	return spec, false
}

// TransformValue converts a C symbolic constant
func (p *Pack) TransformValue(cvalue string) (string, bool) {
	return p.tables.TransformValue(cvalue)
}

// ----------------------------------------------------------------------------
// Function scope

// BeginFunction starts a new function scope. Locals from the previous
// function are forgotten. With a mapping, each C argument is registered
// against the C++ slot at the same position and the C length argument is
// bound to the C++ container.
func (p *Pack) BeginFunction(c codeobj.FuncSig, mapping *FuncSigMapping) {
	clear(p.locals)
	clear(p.cppLocals)
	clear(p.lengths)
	p.current = mapping
	p.function = c.Name

	if mapping == nil {
		return
	}
	for i, slot := range c.Args {
		carg, ok := slot.Arg()
		if !ok || i >= len(mapping.Cpp.Args) {
			continue
		}
		p.RegisterLocal(carg, mapping.Cpp.Args[i])
	}

	idx := mapping.Indexes
	if idx == nil || idx.CppContainer == NoIndex {
		return
	}
	container, ok := mapping.Cpp.ArgAt(idx.CppContainer)
	if !ok {
		return
	}
	if idx.CBuffer != NoIndex && idx.CBuffer != idx.CppContainer {
		if cbuf, ok := c.ArgAt(idx.CBuffer); ok {
			p.RegisterLocal(cbuf, codeobj.Present(container))
		}
	}
	if idx.CLength != NoIndex {
		if clen, ok := c.ArgAt(idx.CLength); ok {
			p.BindContainerLength(clen.Name, container)
		}
	}
}

// CurrentMapping returns the mapping of the function being converted, or nil
func (p *Pack) CurrentMapping() *FuncSigMapping { return p.current }

// CurrentFunction returns the C name of the function being converted
func (p *Pack) CurrentFunction() string { return p.function }
