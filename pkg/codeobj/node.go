// Package codeobj defines the code objects shared by the C input tree and
// the C++ output tree. Code objects are immutable values: a rewritten node
// is a new value, never an in-place edit.
package codeobj

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Node is the interface for all code objects
type Node interface {
	// Lines renders the node as an ordered sequence of source lines
	Lines() []string
	implCodeObject()
}

// AsString renders a node as a single line
func AsString(n Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(n.Lines(), " ")
}

// Equal reports whether two nodes are structurally identical
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}

// ErrNilChild is wrapped by every ConstructionError
var ErrNilChild = errors.New("child is not a code object")

// ConstructionError reports a node built from a missing child
type ConstructionError struct {
	Kind  string // node kind being constructed
	Field string // offending field
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s: %s must be a code object", e.Kind, e.Field)
}

func (e *ConstructionError) Unwrap() error {
	return ErrNilChild
}

func requireNode(kind, field string, n Node) error {
	if n == nil {
		return &ConstructionError{Kind: kind, Field: field}
	}
	if v := reflect.ValueOf(n); v.Kind() == reflect.Pointer && v.IsNil() {
		return &ConstructionError{Kind: kind, Field: field}
	}
	return nil
}

// KindName returns a short human-readable name for a node's variant
func KindName(n Node) string {
	if n == nil {
		return "nil"
	}
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func stripSemicolon(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ";")
}

func indentLines(lines []string, prefix string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			out[i] = l
			continue
		}
		out[i] = prefix + l
	}
	return out
}

// Indent is the prefix applied to each nesting level of a compound statement
var Indent = "    "
