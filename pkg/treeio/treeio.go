// Package treeio reads the input unit of a conversion. A unit is a YAML
// document produced by the C front end: one accessor source file split
// into top-level declarations, each carried as source fragments.
//
//	file: grib_accessor_class_bit.cc
//	class: bit
//	typedefs: [grib_accessor_bit]
//	declarations:
//	  - kind: decl
//	    text: "typedef long offset_t;"
//	  - kind: prototype
//	    sig: "static int helper(long v)"
//	  - kind: function
//	    sig: "static int unpack_long(grib_accessor* a, long* val, size_t* len)"
//	    body: |
//	      *len = 0;
//	      return GRIB_SUCCESS;
package treeio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/parser"
)

// Declaration kinds
const (
	KindFunction  = "function"  // definition: sig and body
	KindPrototype = "prototype" // declaration only: sig
	KindDecl      = "decl"      // any other top-level text: typedefs, structs, variables
)

// ErrUnknownKind is returned for a declaration whose kind is not one of the
// Kind constants
var ErrUnknownKind = errors.New("unknown declaration kind")

// Declaration is one top-level declaration of a unit
type Declaration struct {
	Kind string `yaml:"kind"`
	Sig  string `yaml:"sig,omitempty"`
	Body string `yaml:"body,omitempty"`
	Text string `yaml:"text,omitempty"`
	Line int    `yaml:"line,omitempty"` // first line in the C file
}

// Unit is the decoded input document
type Unit struct {
	File         string        `yaml:"file"`
	Class        string        `yaml:"class,omitempty"` // C accessor class; empty for free functions
	Typedefs     []string      `yaml:"typedefs,omitempty"`
	Declarations []Declaration `yaml:"declarations"`
}

// Decode reads a unit document
func Decode(r io.Reader) (*Unit, error) {
	var u Unit
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode unit: %w", err)
	}
	return &u, nil
}

// LoadFile reads a unit document from disk
func LoadFile(path string) (*Unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	u, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// ParseError locates a fragment that did not parse cleanly
type ParseError struct {
	Index int // declaration index
	Line  int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("declaration %d (line %d): %v", e.Index, e.Line, e.Err)
	}
	return fmt.Sprintf("declaration %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Nodes parses the unit's declarations into C code objects in source
// order. Names typedef'd by earlier declarations are types for later ones.
// Statements the parser could not model are kept as raw statements, so the
// nodes are usable even when an error is returned; the error joins every
// ParseError.
func (u *Unit) Nodes() ([]codeobj.Node, error) {
	typedefs := append([]string(nil), u.Typedefs...)
	var nodes []codeobj.Node
	var errs []error
	fail := func(i int, d Declaration, err error) {
		errs = append(errs, &ParseError{Index: i, Line: d.Line, Err: err})
	}

	for i, d := range u.Declarations {
		switch d.Kind {
		case KindFunction, KindPrototype:
			sig, err := parser.FuncSigFromString(d.Sig)
			if err != nil {
				fail(i, d, err)
				continue
			}
			if d.Kind == KindPrototype {
				nodes = append(nodes, sig)
				continue
			}
			stmts, err := parser.StatementsFromString(d.Body, typedefs...)
			if err != nil {
				fail(i, d, err)
			}
			nodes = append(nodes, codeobj.Function{Sig: sig, Body: codeobj.CompoundStatement{Statements: stmts}})
		case KindDecl:
			stmts, err := parser.StatementsFromString(d.Text, typedefs...)
			if err != nil {
				fail(i, d, err)
			}
			for _, s := range stmts {
				switch s := s.(type) {
				case codeobj.Typedef:
					typedefs = append(typedefs, s.Name)
				case codeobj.StructArg:
					typedefs = append(typedefs, s.Name)
				}
			}
			nodes = append(nodes, stmts...)
		default:
			fail(i, d, fmt.Errorf("%q: %w", d.Kind, ErrUnknownKind))
		}
	}
	return nodes, errors.Join(errs...)
}
