// Package convpack holds the knowledge a conversion consults: signature
// mappings, type transforms and the per-unit name registry.
package convpack

import (
	"errors"
	"fmt"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
)

// NoIndex marks an ArgIndexes position as absent
const NoIndex = -1

// ArgIndexes records where a C buffer and its length sit in a C signature,
// and where the container that replaces both sits in the C++ signature.
type ArgIndexes struct {
	CBuffer      int
	CLength      int
	CppContainer int
}

// NewArgIndexes creates an ArgIndexes. Use NoIndex for absent positions.
func NewArgIndexes(cbuffer, clength, cppContainer int) *ArgIndexes {
	return &ArgIndexes{CBuffer: cbuffer, CLength: clength, CppContainer: cppContainer}
}

// ErrMisalignedMapping is returned for a mapping whose C and C++ argument
// lists differ in length, or whose indexes point outside them
var ErrMisalignedMapping = errors.New("misaligned signature mapping")

// FuncSigMapping pairs a C signature with its C++ replacement. Both
// argument lists have the same length; positions with no counterpart are
// elided slots.
type FuncSigMapping struct {
	C       codeobj.FuncSig
	Cpp     codeobj.FuncSig
	Indexes *ArgIndexes
	Virtual bool // the C++ function overrides a base class member
}

// Validate checks that the mapping is positionally aligned
func (m FuncSigMapping) Validate() error {
	if len(m.C.Args) != len(m.Cpp.Args) {
		return fmt.Errorf("%s -> %s: %d C args, %d C++ args: %w",
			m.C.Name, m.Cpp.Name, len(m.C.Args), len(m.Cpp.Args), ErrMisalignedMapping)
	}
	if m.Indexes == nil {
		return nil
	}
	for _, idx := range []int{m.Indexes.CBuffer, m.Indexes.CLength, m.Indexes.CppContainer} {
		if idx != NoIndex && (idx < 0 || idx >= len(m.C.Args)) {
			return fmt.Errorf("%s: index %d out of range: %w", m.C.Name, idx, ErrMisalignedMapping)
		}
	}
	return nil
}

func (m FuncSigMapping) String() string {
	return codeobj.AsString(m.C) + " -> " + codeobj.AsString(m.Cpp)
}
