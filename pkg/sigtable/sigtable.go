// Package sigtable loads signature mapping and type tables from YAML.
//
// A table file has three optional sections:
//
//	static:
//	  - c: "int grib_get_long(grib_handle* h, const char* name, long* val)"
//	    cpp: "GribStatus unpackLongHelper(NONE, AccessorName const& name, long& value)"
//	members:
//	  - c: "int unpack_long(grib_accessor* a, long* val, size_t* len)"
//	    cpp: "GribStatus unpack(NONE, std::vector<long>& values, NONE) const"
//	    indexes: [1, 2, 1]
//	    virtual: true
//	types:
//	  - c: "char*"
//	    cpp: "std::string"
//	  - c: "grib_handle"
//	    deleted: true
//
// The built-in tables are embedded; extra files can be layered on top.
package sigtable

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/gribapi"
	"github.com/raymyers/ralph-cpp/pkg/parser"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Built-in table files
const (
	TypesFile  = "data/types.yaml"
	StaticFile = "data/static.yaml"
	StubsFile  = "data/stubs.yaml"
)

// ErrBadEntry is returned for a table entry that cannot be turned into a
// mapping or type transform
var ErrBadEntry = errors.New("bad table entry")

// MappingEntry is one signature mapping as written in a table file
type MappingEntry struct {
	C       string `yaml:"c"`
	Cpp     string `yaml:"cpp"`
	Indexes []int  `yaml:"indexes,omitempty"` // C buffer, C length, C++ container
	Virtual bool   `yaml:"virtual,omitempty"`
}

// TypeEntry is one type transform as written in a table file
type TypeEntry struct {
	C       string `yaml:"c"`
	Cpp     string `yaml:"cpp,omitempty"`
	Deleted bool   `yaml:"deleted,omitempty"`
}

// File is a decoded table file
type File struct {
	Static  []MappingEntry `yaml:"static"`
	Members []MappingEntry `yaml:"members"`
	Types   []TypeEntry    `yaml:"types"`
}

// Decode parses a table file
func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode table: %w", err)
	}
	return &f, nil
}

// LoadFile reads and decodes a table file from disk
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadEmbedded decodes one of the built-in table files
func LoadEmbedded(name string) (*File, error) {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}

// Mapping parses the entry's signatures into a mapping
func (e MappingEntry) Mapping() (convpack.FuncSigMapping, error) {
	c, err := parser.FuncSigFromString(e.C)
	if err != nil {
		return convpack.FuncSigMapping{}, fmt.Errorf("%q: %w", e.C, err)
	}
	cpp, err := parser.FuncSigFromString(e.Cpp)
	if err != nil {
		return convpack.FuncSigMapping{}, fmt.Errorf("%q: %w", e.Cpp, err)
	}
	m := convpack.FuncSigMapping{C: c, Cpp: cpp, Virtual: e.Virtual}
	switch len(e.Indexes) {
	case 0:
	case 3:
		m.Indexes = convpack.NewArgIndexes(e.Indexes[0], e.Indexes[1], e.Indexes[2])
	default:
		return m, fmt.Errorf("%s: want 3 indexes, got %d: %w", c.Name, len(e.Indexes), ErrBadEntry)
	}
	return m, m.Validate()
}

// Transform converts the entry into a table key and transform. The key is
// normalized the way Tables.TypeFor looks types up, so "const char *"
// and "char*" name the same entry.
func (e TypeEntry) Transform() (string, convpack.TypeTransform, error) {
	c, err := parser.DeclSpecFromString(e.C)
	if err != nil {
		return "", convpack.TypeTransform{}, fmt.Errorf("%q: %w", e.C, err)
	}
	key := c.Type + c.Pointer
	if e.Deleted {
		return key, convpack.TypeTransform{Deleted: true}, nil
	}
	if e.Cpp == "" {
		return "", convpack.TypeTransform{}, fmt.Errorf("%s: no C++ type: %w", key, ErrBadEntry)
	}
	cpp, err := parser.DeclSpecFromString(e.Cpp)
	if err != nil {
		return "", convpack.TypeTransform{}, fmt.Errorf("%q: %w", e.Cpp, err)
	}
	return key, convpack.TypeTransform{Cpp: cpp}, nil
}

// Apply adds every entry of the file to the tables. Later entries replace
// earlier ones with the same key.
func (f *File) Apply(t *convpack.Tables) error {
	var errs []error
	for i, e := range f.Types {
		key, tt, err := e.Transform()
		if err != nil {
			errs = append(errs, fmt.Errorf("types[%d]: %w", i, err))
			continue
		}
		t.AddType(key, tt)
	}
	add := func(section string, entries []MappingEntry, fn func(convpack.FuncSigMapping) error) {
		for i, e := range entries {
			m, err := e.Mapping()
			if err == nil {
				err = fn(m)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", section, i, err))
			}
		}
	}
	add("static", f.Static, t.AddStatic)
	add("members", f.Members, t.AddMember)
	return errors.Join(errs...)
}

// Options select which tables Load builds
type Options struct {
	Stubs      bool     // include the stub free-function table
	Extra      []string // further table files, applied in order
	Containers []string // container type prefixes; nil keeps the defaults
}

// Load builds tables from the built-in files and any extra files. GRIB
// constants are converted with the gribapi transformer.
func Load(opts Options, extra ...*File) (*convpack.Tables, error) {
	t := convpack.NewTables()
	t.SetValueTransformer(gribapi.Transformer{})
	if opts.Containers != nil {
		t.SetContainerPrefixes(opts.Containers)
	}

	names := []string{TypesFile, StaticFile}
	if opts.Stubs {
		names = append(names, StubsFile)
	}
	var files []*File
	for _, name := range names {
		f, err := LoadEmbedded(name)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	files = append(files, extra...)
	for _, path := range opts.Extra {
		f, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for _, f := range files {
		if err := f.Apply(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}
