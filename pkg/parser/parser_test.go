package parser

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/lexer"
)

// TestSpec represents a test case from parse.yaml
type TestSpec struct {
	Name     string `yaml:"name"`
	Fragment string `yaml:"fragment"` // declspec, arg, funcsig, expr or stmts
	Input    string `yaml:"input"`
	Kind     string `yaml:"kind,omitempty"`
	Want     string `yaml:"want"`
}

// TestFile represents the parse.yaml file structure
type TestFile struct {
	Tests []TestSpec `yaml:"tests"`
}

// normalize collapses the indentation that multi-line nodes carry
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestParseYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/parse.yaml")
	if err != nil {
		t.Fatalf("failed to read parse.yaml: %v", err)
	}

	var testFile TestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse parse.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			var got string
			var node codeobj.Node

			switch tc.Fragment {
			case "declspec":
				spec, err := DeclSpecFromString(tc.Input)
				require.NoError(t, err)
				got = spec.String()
			case "arg":
				slot, err := ArgFromString(tc.Input)
				require.NoError(t, err)
				got = slot.String()
			case "funcsig":
				sig, err := FuncSigFromString(tc.Input)
				require.NoError(t, err)
				got = codeobj.AsString(sig)
			case "expr":
				node, err = ExpressionFromString(tc.Input)
				require.NoError(t, err)
				got = codeobj.AsString(node)
			case "stmts":
				stmts, err := StatementsFromString(tc.Input)
				require.NoError(t, err)
				require.Len(t, stmts, 1)
				node = stmts[0]
				got = codeobj.AsString(node)
			default:
				t.Fatalf("unknown fragment kind %q", tc.Fragment)
			}

			if tc.Kind != "" {
				assert.Equal(t, tc.Kind, codeobj.KindName(node))
			}
			assert.Equal(t, tc.Want, normalize(got))
		})
	}
}

func TestDeclSpecFields(t *testing.T) {
	spec, err := DeclSpecFromString("static const unsigned char*")
	require.NoError(t, err)
	assert.Equal(t, codeobj.DeclSpec{StorageClass: "static", ConstQualifier: "const", Type: "unsigned char", Pointer: "*"}, spec)

	arr, err := DeclSpecFromString("long[8]")
	require.NoError(t, err)
	assert.True(t, arr.IsArrayType())
	assert.Equal(t, "8", arr.ArraySize())

	// second lookup is served from the memo and must be identical
	again, err := DeclSpecFromString("long[8]")
	require.NoError(t, err)
	assert.Equal(t, arr, again)
}

func TestFuncSigSlots(t *testing.T) {
	sig := MustFuncSig("GribStatus getStepHumanReadable(NONE, std::string& result, NONE)")
	require.Len(t, sig.Args, 3)
	assert.True(t, sig.Args[0].IsElided())
	assert.True(t, sig.Args[2].IsElided())
	result, ok := sig.ArgAt(1)
	require.True(t, ok)
	assert.Equal(t, "result", result.Name)
	assert.Equal(t, "std::string", result.Spec.Type)
	assert.Equal(t, "&", result.Spec.Pointer)
	assert.Equal(t, "GribStatus", sig.ReturnType.Type)

	m := MustFuncSig("long valueCount() const")
	assert.True(t, m.Const)
	assert.Empty(t, m.Args)
}

func TestExpressionShapes(t *testing.T) {
	n, err := ExpressionFromString("sizeof(x)/sizeof(x[0])")
	require.NoError(t, err)
	bin, ok := n.(codeobj.BinaryOperation)
	require.True(t, ok)
	assert.Equal(t, "/", bin.Op.Value)
	right, ok := bin.Right.(codeobj.UnaryExpression)
	require.True(t, ok)
	paren, ok := right.Expression.(codeobj.ParenExpression)
	require.True(t, ok)
	_, ok = paren.Expression.(codeobj.ArrayAccess)
	assert.True(t, ok)

	n, err = ExpressionFromString("&len")
	require.NoError(t, err)
	u, ok := n.(codeobj.UnaryOperation)
	require.True(t, ok)
	assert.Equal(t, "&", u.Op.Value)
	assert.Equal(t, codeobj.ValueDeclarationReference{Value: "len"}, u.Operand)

	n, err = ExpressionFromString("self->v[0].x")
	require.NoError(t, err)
	assert.Equal(t, "self->v[0].x", codeobj.AsString(n))

	n, err = ExpressionFromString("GribStatus::SUCCESS")
	require.NoError(t, err)
	assert.Equal(t, codeobj.ValueDeclarationReference{Value: "GribStatus::SUCCESS"}, n)
}

func TestComparisonIsNotTemplate(t *testing.T) {
	stmts, err := StatementsFromString("if (x < 0 || y > 10) return 1;")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	ifs, ok := stmts[0].(codeobj.IfStatement)
	require.True(t, ok)
	assert.Equal(t, "x < 0 || y > 10", codeobj.AsString(ifs.Cond))
}

func TestMultipleDeclarators(t *testing.T) {
	stmts, err := StatementsFromString("char *a, b;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "char* a;", codeobj.AsString(stmts[0]))
	assert.Equal(t, "char b;", codeobj.AsString(stmts[1]))
}

func TestTypedefRegistersName(t *testing.T) {
	stmts, err := StatementsFromString("typedef long offset; x = (offset)y;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "x = (offset)y;", codeobj.AsString(stmts[1]))

	stmt, ok := stmts[1].(codeobj.ExpressionStatement)
	require.True(t, ok)
	bin := stmt.Expression.(codeobj.BinaryOperation)
	cast, ok := bin.Right.(codeobj.UnaryOperation)
	require.True(t, ok)
	assert.Equal(t, "(offset)", cast.Op.Value)
}

func TestRecoveryKeepsRawText(t *testing.T) {
	stmts, err := StatementsFromString("x = ;\ny = 1;")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
	require.Len(t, stmts, 2)
	assert.Equal(t, codeobj.RawStatement{Text: "x = ;"}, stmts[0])
	assert.Equal(t, "y = 1;", codeobj.AsString(stmts[1]))
}

func TestDoWhile(t *testing.T) {
	stmts, err := StatementsFromString("do { n--; } while (n > 0); x = n;")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	loop, ok := stmts[0].(codeobj.DoStatement)
	require.True(t, ok, "got %s", codeobj.KindName(stmts[0]))
	assert.Equal(t, "n > 0", codeobj.AsString(loop.Cond))
	assert.Equal(t, []string{"do", "{", "    n--;", "}", "while (n > 0);"}, loop.Lines())
}

func TestForClauses(t *testing.T) {
	stmts, err := StatementsFromString("for (;;) { break; }")
	require.NoError(t, err)
	loop := stmts[0].(codeobj.ForStatement)
	assert.Nil(t, loop.Init)
	assert.Nil(t, loop.Cond)
	assert.Nil(t, loop.Step)

	stmts, err = StatementsFromString("for (long i = 0; i < n; i++) total += i;")
	require.NoError(t, err)
	loop = stmts[0].(codeobj.ForStatement)
	assert.Equal(t, "VariableDeclaration", codeobj.KindName(loop.Init))
}

func TestSwitchCases(t *testing.T) {
	stmts, err := StatementsFromString(`switch (type) {
		case GRIB_TYPE_LONG: n = 1; break;
		case GRIB_TYPE_DOUBLE:
		default: n = 0;
	}`)
	require.NoError(t, err)
	sw, ok := stmts[0].(codeobj.SwitchStatement)
	require.True(t, ok, "got %s", codeobj.KindName(stmts[0]))
	require.Len(t, sw.Cases, 3)
	assert.Len(t, sw.Cases[0].Statements, 2)
	assert.Empty(t, sw.Cases[1].Statements)
	assert.Nil(t, sw.Cases[2].Value)
}

func TestUnmodelledStatementsKeptRaw(t *testing.T) {
	stmts, err := StatementsFromString("goto cleanup;")
	require.NoError(t, err)
	assert.Equal(t, codeobj.RawStatement{Text: "goto cleanup;"}, stmts[0])

	// a statement before the first label does not parse as a switch
	stmts, err = StatementsFromString("switch (x) { n = 1; }")
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Equal(t, codeobj.RawStatement{Text: "switch (x) { n = 1; }"}, stmts[0])
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{"", "int (", "grib_handle* h extra"}
	for _, input := range tests {
		_, err := FuncSigFromString(input)
		assert.ErrorIs(t, err, ErrSyntax, "input %q", input)
	}
	_, err := ExpressionFromString("a +")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestParserErrorsHavePosition(t *testing.T) {
	p := New(lexer.New("return"))
	p.ParseExpression()
	require.NotEmpty(t, p.Errors())
	assert.Contains(t, p.Errors()[0], "line 1, col")
}
