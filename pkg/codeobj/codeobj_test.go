package codeobj

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ref(name string) ValueDeclarationReference { return ValueDeclarationReference{Value: name} }

func TestArgRendering(t *testing.T) {
	tests := []struct {
		name string
		arg  Arg
		want string
	}{
		{"pointer", NewArg(DeclSpec{Type: "char", Pointer: "*"}, "buf"), "char* buf"},
		{"const ref", NewArg(DeclSpec{ConstQualifier: "const", Type: "std::string", Pointer: "&"}, "value"), "const std::string& value"},
		{"static", NewArg(DeclSpec{StorageClass: "static", Type: "long"}, "count"), "static long count"},
		{"array", NewArg(DeclSpec{Type: "unsigned char", Pointer: "[10]"}, "data"), "unsigned char data[10]"},
		{"array func arg", NewArg(DeclSpec{Type: "double", Pointer: "[]"}, "vals").AsFuncArg(), "double* vals"},
		{"type only", NewArg(DeclSpec{Type: "size_t", Pointer: "*"}, ""), "size_t*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AsString(tt.arg))
		})
	}
}

func TestDeclSpecPredicates(t *testing.T) {
	arr := DeclSpec{Type: "long", Pointer: "[8]"}
	assert.True(t, arr.IsArrayType())
	assert.Equal(t, "8", arr.ArraySize())
	assert.False(t, arr.IsPointer())

	ref := DeclSpec{ConstQualifier: "const", Type: "std::vector<long>", Pointer: "&"}
	assert.True(t, ref.IsReference())
	assert.True(t, ref.IsConst())
	assert.Equal(t, "std::vector<long>&", ref.FullType())
}

func TestArgSlot(t *testing.T) {
	a := NewArg(DeclSpec{Type: "long"}, "x")
	got, ok := Present(a).Arg()
	require.True(t, ok)
	assert.Equal(t, a, got)
	assert.True(t, ElidedSlot().IsElided())
	assert.Equal(t, "<elided>", ElidedSlot().String())
}

func TestExpressionRendering(t *testing.T) {
	deref, err := NewUnaryOperation("*", ref("len"))
	require.NoError(t, err)
	assign, err := NewBinaryOperation(deref, "=", Literal{Value: "0"})
	require.NoError(t, err)
	assert.Equal(t, "*len = 0", AsString(assign))

	paren, err := NewParenExpression(ref("buf"))
	require.NoError(t, err)
	size, err := NewUnaryExpression("sizeof", paren)
	require.NoError(t, err)
	assert.Equal(t, "sizeof(buf)", AsString(size))

	call, err := NewFunctionCall("foo", []Node{ref("a"), Elided{}, Literal{Value: "1"}})
	require.NoError(t, err)
	assert.Equal(t, "foo(a, 1)", AsString(call))

	cond, err := NewConditionalOperation(ref("ok"), Literal{Value: "1"}, Literal{Value: "2"})
	require.NoError(t, err)
	assert.Equal(t, "ok ? 1 : 2", AsString(cond))

	idx, err := NewArrayAccess(ref("v"), Literal{Value: "0"})
	require.NoError(t, err)
	assert.Equal(t, "v[0]", AsString(idx))

	post := UnaryOperation{Op: Operation{Value: "++"}, Operand: ref("i"), Postfix: true}
	assert.Equal(t, "i++", AsString(post))
}

func TestStructMemberAccess(t *testing.T) {
	m := MemberAccess("buf", ".", "size()")
	assert.Equal(t, "buf.size()", AsString(m))
	assert.Equal(t, "size()", m.MemberName())
	assert.Equal(t, "buf.clear()", AsString(m.WithMemberName("clear()")))
	assert.Equal(t, "self->values[0]", AsString(MemberAccess("self", "->", "values").WithMemberName("values[0]")))
	assert.Equal(t, "vals[0]", AsString(StructMemberAccess{Name: "vals"}.WithIndex("[0]")))
}

func TestConstructionRejectsMissingChild(t *testing.T) {
	_, err := NewBinaryOperation(nil, "=", Literal{Value: "1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilChild))

	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "BinaryOperation", ce.Kind)

	var typedNil *CompoundStatement
	_, err = NewIfStatement(ref("x"), typedNil, nil)
	assert.ErrorIs(t, err, ErrNilChild)

	_, err = NewFunctionCall("f", []Node{nil})
	assert.ErrorIs(t, err, ErrNilChild)
}

func TestStatementRendering(t *testing.T) {
	decl := NewVariableDeclaration(NewArg(DeclSpec{Type: "int"}, "err"), Literal{Value: "0"})
	assert.Equal(t, []string{"int err = 0;"}, decl.Lines())

	bare := NewVariableDeclaration(NewArg(DeclSpec{Type: "long"}, "count"), nil)
	assert.Equal(t, []string{"long count;"}, bare.Lines())

	direct := DirectInitDeclaration{
		Variable: NewArg(DeclSpec{Type: "std::vector<unsigned char>"}, "data"),
		Args:     []Node{Literal{Value: "10"}, Literal{Value: "{}"}},
	}
	assert.Equal(t, []string{"std::vector<unsigned char> data(10, {});"}, direct.Lines())

	assert.Equal(t, []string{"return;"}, ReturnStatement{}.Lines())
	assert.Equal(t, []string{"return x;"}, ReturnStatement{Expression: ref("x")}.Lines())
}

func TestCompoundAndIf(t *testing.T) {
	ret := ReturnStatement{Expression: Literal{Value: "0"}}
	body, err := NewCompoundStatement([]Node{ret})
	require.NoError(t, err)
	assert.Equal(t, []string{"{", "    return 0;", "}"}, body.Lines())

	ifs, err := NewIfStatement(ref("err"), ReturnStatement{Expression: ref("err")}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"if (err)", "    return err;"}, ifs.Lines())

	nested, err := NewIfStatement(ref("a"), body, ifs)
	require.NoError(t, err)
	lines := nested.Lines()
	assert.Equal(t, "if (a)", lines[0])
	assert.Equal(t, "else if (err)", lines[4])
}

func TestCommentedOut(t *testing.T) {
	stmt, err := NewExpressionStatement(ref("x"))
	require.NoError(t, err)
	c := AsCommentedOut(stmt, "Removed invalid variable")
	assert.Equal(t, []string{"// [Removed invalid variable] x;"}, c.Lines())

	body, err := NewCompoundStatement([]Node{stmt})
	require.NoError(t, err)
	multi := AsCommentedOut(body, "r")
	assert.Equal(t, []string{"// [r] {", "//     x;", "// }"}, multi.Lines())

	assert.True(t, IsElided(Elided{}))
	assert.Nil(t, Elided{}.Lines())
}

func TestFunctionRendering(t *testing.T) {
	sig := FuncSig{
		ReturnType: DeclSpec{Type: "GribStatus"},
		Name:       "unpack",
		Args: []ArgSlot{
			ElidedSlot(),
			Present(NewArg(DeclSpec{Type: "std::vector<long>", Pointer: "&"}, "values")),
			ElidedSlot(),
		},
		Const: true,
	}
	assert.Equal(t, "GribStatus unpack(std::vector<long>& values) const", AsString(sig))

	body, err := NewCompoundStatement([]Node{ReturnStatement{Expression: Literal{Value: "GribStatus::SUCCESS"}}})
	require.NoError(t, err)

	m := MemberFunction{ClassName: "BitData", Sig: sig, Body: body}
	assert.Equal(t, "GribStatus BitData::unpack(std::vector<long>& values) const", m.Lines()[0])
	assert.Equal(t, "GribStatus unpack(std::vector<long>& values) const;", m.Declaration())

	v := VirtualMemberFunction{ClassName: "BitData", Sig: sig, Body: body}
	assert.Equal(t, "GribStatus unpack(std::vector<long>& values) const override;", v.Declaration())

	f := Function{Sig: NewFuncSig(DeclSpec{StorageClass: "static", Type: "int"}, "helper"), Body: body}
	assert.Equal(t, "static int helper()", f.Lines()[0])
}

func TestStructAndTypedef(t *testing.T) {
	s := StructArg{Name: "table", Members: []Arg{NewArg(DeclSpec{Type: "long"}, "count")}}
	assert.Equal(t, []string{"struct table", "{", "    long count;", "};"}, s.Lines())

	assert.Equal(t, "typedef unsigned long ulong;", AsString(Typedef{Spec: DeclSpec{Type: "unsigned long"}, Name: "ulong"}))
	assert.Equal(t, "using ulong = unsigned long;", AsString(Typedef{Spec: DeclSpec{Type: "unsigned long"}, Name: "ulong", Using: true}))
}

func TestEqualAndKind(t *testing.T) {
	a, _ := NewBinaryOperation(ref("a"), "==", ref("b"))
	b, _ := NewBinaryOperation(ref("a"), "==", ref("b"))
	assert.True(t, Equal(a, b))
	assert.Equal(t, "BinaryOperation", KindName(a))
	assert.Equal(t, "nil", KindName(nil))
}

func TestPrinter(t *testing.T) {
	body, err := NewCompoundStatement([]Node{ReturnStatement{Expression: Literal{Value: "0"}}})
	require.NoError(t, err)
	f := MemberFunction{ClassName: "AData", Sig: NewFuncSig(DeclSpec{Type: "int"}, "run"), Body: body}

	var buf bytes.Buffer
	NewPrinterIndent(&buf, "\t").PrintNode(f)
	assert.Equal(t, "int AData::run()\n{\n\treturn 0;\n}\n", buf.String())

	buf.Reset()
	NewPrinterIndent(&buf, Indent).PrintClass("AData", "AccessorData", []Node{f, Literal{Value: "ignored"}})
	assert.Equal(t, "class AData : public AccessorData\n{\npublic:\n    int run();\n};\n", buf.String())
}
