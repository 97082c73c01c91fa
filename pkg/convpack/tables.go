package convpack

import (
	"fmt"
	"strings"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
)

// TypeTransform is the C++ replacement for a C type. A deleted type has no
// C++ representation; values of that type are dropped from the output.
type TypeTransform struct {
	Cpp     codeobj.DeclSpec
	Deleted bool
}

// ValueTransformer converts C symbolic constants to their C++ spelling
type ValueTransformer interface {
	TransformValue(cvalue string) (string, bool)
}

// Tables are the signature and type tables shared by every unit of a run.
// They are filled before conversion starts and only read afterwards, so a
// single Tables may back packs converting units concurrently.
type Tables struct {
	static            map[string]FuncSigMapping
	members           map[string]FuncSigMapping
	types             map[string]TypeTransform
	values            ValueTransformer
	containerPrefixes []string
}

// DefaultContainerPrefixes are the C++ types treated as containers
var DefaultContainerPrefixes = []string{"std::string", "std::vector", "std::array", "AccessorDataPointer"}

// NewTables creates empty tables that treat DefaultContainerPrefixes as containers
func NewTables() *Tables {
	return &Tables{
		static:            make(map[string]FuncSigMapping),
		members:           make(map[string]FuncSigMapping),
		types:             make(map[string]TypeTransform),
		containerPrefixes: DefaultContainerPrefixes,
	}
}

// AddStatic registers a free function mapping keyed by its C name
func (t *Tables) AddStatic(m FuncSigMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	t.static[m.C.Name] = m
	return nil
}

// AddMember registers a shared member function mapping keyed by its C name
func (t *Tables) AddMember(m FuncSigMapping) error {
	if err := m.Validate(); err != nil {
		return err
	}
	t.members[m.C.Name] = m
	return nil
}

// AddType registers a type transform. key is a C type with its qualifier
// ("char*"), an unsized array form ("unsigned char[]") or a bare type ("grib_handle").
func (t *Tables) AddType(key string, tt TypeTransform) {
	t.types[key] = tt
}

// SetValueTransformer sets the transformer for C symbolic constants
func (t *Tables) SetValueTransformer(v ValueTransformer) {
	t.values = v
}

// SetContainerPrefixes replaces the set of C++ container type prefixes
func (t *Tables) SetContainerPrefixes(prefixes []string) {
	t.containerPrefixes = prefixes
}

// Static returns the free function mapping for a C name
func (t *Tables) Static(cname string) (FuncSigMapping, bool) {
	m, ok := t.static[cname]
	return m, ok
}

// Member returns the shared member mapping for a C name
func (t *Tables) Member(cname string) (FuncSigMapping, bool) {
	m, ok := t.members[cname]
	return m, ok
}

// Counts reports the number of static, member and type entries
func (t *Tables) Counts() (static, members, types int) {
	return len(t.static), len(t.members), len(t.types)
}

// IsContainerType reports whether a C++ type is a container
func (t *Tables) IsContainerType(cpptype string) bool {
	for _, p := range t.containerPrefixes {
		if cpptype == p || strings.HasPrefix(cpptype, p+"<") {
			return true
		}
	}
	return false
}

// TypeFor looks up the transform for a C specifier. An exact match on type
// and qualifier replaces both; a bare type match keeps the C qualifier.
func (t *Tables) TypeFor(c codeobj.DeclSpec) (TypeTransform, bool) {
	if tt, ok := t.types[c.Type+c.Pointer]; ok {
		return tt, true
	}
	if c.IsArrayType() {
		if tt, ok := t.types[c.Type+"[]"]; ok {
			return tt, true
		}
	}
	if tt, ok := t.types[c.Type]; ok {
		if !tt.Deleted {
			tt.Cpp.Pointer = c.Pointer
		}
		return tt, true
	}
	return TypeTransform{}, false
}

// TransformValue converts a C constant using the configured transformer
func (t *Tables) TransformValue(cvalue string) (string, bool) {
	if t.values == nil {
		return "", false
	}
	return t.values.TransformValue(cvalue)
}

func (t *Tables) eachMapping(fn func(FuncSigMapping) bool) {
	for _, m := range t.members {
		if !fn(m) {
			return
		}
	}
	for _, m := range t.static {
		if !fn(m) {
			return
		}
	}
}

func (t *Tables) String() string {
	s, m, ty := t.Counts()
	return fmt.Sprintf("tables(static=%d members=%d types=%d)", s, m, ty)
}
