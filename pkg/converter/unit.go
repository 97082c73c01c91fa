package converter

import (
	"fmt"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
)

// ReasonConversionFailed prefixes the placeholder left for a declaration
// that failed to convert
const ReasonConversionFailed = "Conversion failed"

// Diagnostic reports a top-level declaration that could not be converted
type Diagnostic struct {
	Index int    // position of the declaration in the unit
	Kind  string // node kind of the declaration
	Name  string // function or type name, when there is one
	Err   error
}

func (d Diagnostic) Error() string {
	if d.Name != "" {
		return fmt.Sprintf("declaration %d (%s %s): %v", d.Index, d.Kind, d.Name, d.Err)
	}
	return fmt.Sprintf("declaration %d (%s): %v", d.Index, d.Kind, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// ConvertUnit converts the top-level declarations of one translation unit
// in source order. Function signatures are resolved first so calls to
// functions defined later in the unit are mapped. A declaration that fails
// is replaced by a commented-out placeholder and reported; the rest of the
// unit is still converted.
func (c *Converter) ConvertUnit(decls []codeobj.Node, pack *convpack.Pack) ([]codeobj.Node, []Diagnostic) {
	var diags []Diagnostic
	for i, d := range decls {
		sig, ok := signatureOf(d)
		if !ok {
			continue
		}
		if _, err := c.mappingFor(sig, pack); err != nil {
			diags = append(diags, Diagnostic{Index: i, Kind: codeobj.KindName(d), Name: sig.Name, Err: err})
		}
	}

	out := make([]codeobj.Node, 0, len(decls))
	for i, d := range decls {
		cpp, err := c.convertDeclaration(d, pack)
		if err != nil {
			diag := Diagnostic{Index: i, Kind: codeobj.KindName(d), Err: err}
			if sig, ok := signatureOf(d); ok {
				diag.Name = sig.Name
			}
			pack.Logger().Warn("declaration not converted", "index", i, "kind", diag.Kind, "error", err)
			diags = append(diags, diag)
			out = append(out, codeobj.AsCommentedOut(d, ReasonConversionFailed+": "+err.Error()))
			continue
		}
		if v, ok := declaredVariable(d); ok {
			// unit-level variables stay visible in every function
			if slot, found := pack.CppArgForCName(v.Name); found {
				pack.RegisterGlobal(v, slot)
			}
		}
		if cpp == nil || codeobj.IsElided(cpp) {
			continue
		}
		out = append(out, cpp)
	}
	return out, diags
}

// convertDeclaration converts one declaration, turning a panic into an error
// so that it stays contained to the declaration
func (c *Converter) convertDeclaration(d codeobj.Node, pack *convpack.Pack) (cpp codeobj.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return c.Convert(d, pack)
}

func declaredVariable(d codeobj.Node) (codeobj.Arg, bool) {
	switch d := d.(type) {
	case codeobj.VariableDeclaration:
		return d.Variable, true
	case codeobj.DirectInitDeclaration:
		return d.Variable, true
	}
	return codeobj.Arg{}, false
}

func signatureOf(d codeobj.Node) (codeobj.FuncSig, bool) {
	switch d := d.(type) {
	case codeobj.Function:
		return d.Sig, true
	case codeobj.MemberFunction:
		return d.Sig, true
	case codeobj.VirtualMemberFunction:
		return d.Sig, true
	case codeobj.FuncSig:
		return d, true
	}
	return codeobj.FuncSig{}, false
}
