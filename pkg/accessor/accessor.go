// Package accessor sets up the conversion of one GRIB accessor class: the
// member functions every class shares, the specifics of individual
// classes and the validation hooks for accessor code.
package accessor

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/converter"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/gribapi"
	"github.com/raymyers/ralph-cpp/pkg/naming"
	"github.com/raymyers/ralph-cpp/pkg/parser"
	"github.com/raymyers/ralph-cpp/pkg/sigtable"
)

//go:embed data/*.yaml
var dataFS embed.FS

// BaseClass is the C++ class accessor classes derive from unless their
// specifics name another
const BaseClass = "AccessorData"

// Lifecycle placeholders in the member table, renamed per class
const (
	constructorName = "Constructor"
	destructorName  = "Destructor"
)

// ArgTransform replaces a C arg with a C++ arg in one function, or in
// every function when Function is convpack.AllFunctions
type ArgTransform struct {
	Function string `yaml:"function"`
	C        string `yaml:"c"`
	Cpp      string `yaml:"cpp"`
}

// Specific is what a single accessor class needs beyond the shared tables
type Specific struct {
	Base          string                  `yaml:"base,omitempty"`
	ArgTransforms []ArgTransform          `yaml:"arg_transforms,omitempty"`
	Overrides     []sigtable.MappingEntry `yaml:"overrides,omitempty"`
}

type classesFile struct {
	Classes map[string]Specific `yaml:"classes"`
}

var loadClasses = sync.OnceValues(func() (map[string]Specific, error) {
	data, err := dataFS.ReadFile("data/classes.yaml")
	if err != nil {
		return nil, err
	}
	var f classesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("classes.yaml: %w", err)
	}
	return f.Classes, nil
})

// SpecificFor returns the specifics of a C accessor class. A class with
// none gets an empty Specific.
func SpecificFor(cname string) (Specific, error) {
	classes, err := loadClasses()
	if err != nil {
		return Specific{}, err
	}
	return classes[trimClassPrefix(cname)], nil
}

// AddMembers adds the shared member function table to t
func AddMembers(t *convpack.Tables) error {
	f, err := Members()
	if err != nil {
		return err
	}
	return f.Apply(t)
}

// Members returns the shared member function table, for layering with
// sigtable.Load ahead of user table files
func Members() (*sigtable.File, error) {
	data, err := dataFS.ReadFile("data/members.yaml")
	if err != nil {
		return nil, err
	}
	return sigtable.Decode(data)
}

// Unit converts the declarations of one accessor class
type Unit struct {
	CName     string // C class name: bit, grib_accessor_class_bit
	ClassName string // C++ class name: BitData
	Base      string
	Pack      *convpack.Pack
	Converter *converter.Converter
}

// NewUnit prepares the conversion of the C accessor class cname. tables
// must already hold the shared member table. Pack options (logger, policy)
// are passed through; the class is set from cname.
func NewUnit(tables *convpack.Tables, cname string, opts ...convpack.Option) (*Unit, error) {
	spec, err := SpecificFor(cname)
	if err != nil {
		return nil, err
	}
	u := &Unit{
		CName:     cname,
		ClassName: naming.ClassName(cname),
		Base:      spec.Base,
		Converter: converter.New(Validation{}, converter.WithTextPass(gribapi.ConvertText)),
	}
	if u.Base == "" {
		u.Base = BaseClass
	}
	u.Pack = convpack.New(tables, append(opts, convpack.WithClass(u.ClassName))...)

	// self is the C struct of the class; its contents become class members
	u.Pack.DeleteType("grib_accessor_" + trimClassPrefix(cname))

	if err := u.addLifecycle(tables); err != nil {
		return nil, err
	}
	for i, o := range spec.Overrides {
		m, err := o.Mapping()
		if err == nil {
			err = u.Pack.AddClassOverride(m)
		}
		if err != nil {
			return nil, fmt.Errorf("%s overrides[%d]: %w", cname, i, err)
		}
	}
	for i, tr := range spec.ArgTransforms {
		c, cerr := parser.ArgFromString(tr.C)
		cpp, cpperr := parser.ArgFromString(tr.Cpp)
		ca, cok := c.Arg()
		cppa, cppok := cpp.Arg()
		if cerr != nil || cpperr != nil || !cok || !cppok {
			return nil, fmt.Errorf("%s arg_transforms[%d]: %q -> %q: %w", cname, i, tr.C, tr.Cpp, sigtable.ErrBadEntry)
		}
		u.Pack.AddCustomArgTransform(tr.Function, ca, cppa)
	}
	return u, nil
}

// addLifecycle gives the constructor and destructor the class's name
func (u *Unit) addLifecycle(tables *convpack.Tables) error {
	for _, cname := range []string{"init", "destroy"} {
		m, ok := tables.Member(cname)
		if !ok {
			continue
		}
		switch m.Cpp.Name {
		case constructorName:
			m.Cpp = m.Cpp.WithName(u.ClassName)
		case destructorName:
			m.Cpp = m.Cpp.WithName("~" + u.ClassName)
		default:
			continue
		}
		m.Cpp.ReturnType = codeobj.DeclSpec{}
		if err := u.Pack.AddClassOverride(m); err != nil {
			return err
		}
	}
	return nil
}

// Convert converts the unit's declarations
func (u *Unit) Convert(decls []codeobj.Node) ([]codeobj.Node, []converter.Diagnostic) {
	u.Pack.Logger().Info("converting accessor", "c", u.CName, "class", u.ClassName, "base", u.Base)
	return u.Converter.ConvertUnit(decls, u.Pack)
}

func trimClassPrefix(cname string) string {
	for _, prefix := range []string{"grib_accessor_class_", "grib_accessor_"} {
		if rest, ok := strings.CutPrefix(cname, prefix); ok && rest != "" {
			return rest
		}
	}
	return cname
}
