package converter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raymyers/ralph-cpp/pkg/codeobj"
	"github.com/raymyers/ralph-cpp/pkg/convpack"
	"github.com/raymyers/ralph-cpp/pkg/gribapi"
	"github.com/raymyers/ralph-cpp/pkg/parser"
	"github.com/raymyers/ralph-cpp/pkg/validation"
)

func newTables(t *testing.T) *convpack.Tables {
	t.Helper()
	tables := convpack.NewTables()
	tables.AddType("char*", convpack.TypeTransform{Cpp: parser.MustDeclSpec("std::string")})
	tables.AddType("char[]", convpack.TypeTransform{Cpp: parser.MustDeclSpec("std::string")})
	tables.AddType("unsigned char[]", convpack.TypeTransform{Cpp: parser.MustDeclSpec("std::vector<unsigned char>")})
	for _, deleted := range []string{"grib_handle", "grib_context", "grib_accessor"} {
		tables.AddType(deleted, convpack.TypeTransform{Deleted: true})
	}
	tables.SetValueTransformer(gribapi.Transformer{})

	require.NoError(t, tables.AddStatic(convpack.FuncSigMapping{
		C:       parser.MustFuncSig("int get_step_human_readable(grib_handle* h, char* result, size_t* length)"),
		Cpp:     parser.MustFuncSig("GribStatus getStepHumanReadable(NONE, std::string& result, NONE)"),
		Indexes: convpack.NewArgIndexes(1, 2, 1),
	}))
	require.NoError(t, tables.AddMember(convpack.FuncSigMapping{
		C:       parser.MustFuncSig("int unpack_long(grib_accessor* a, long* val, size_t* len)"),
		Cpp:     parser.MustFuncSig("GribStatus unpack(NONE, std::vector<long>& values, NONE) const"),
		Indexes: convpack.NewArgIndexes(1, 2, 1),
	}))
	require.NoError(t, tables.AddMember(convpack.FuncSigMapping{
		C:       parser.MustFuncSig("int pack_long(grib_accessor* a, const long* val, size_t* len)"),
		Cpp:     parser.MustFuncSig("GribStatus pack(NONE, const std::vector<long>& values, NONE)"),
		Indexes: convpack.NewArgIndexes(1, 2, 1),
	}))
	return tables
}

func function(t *testing.T, sig, body string) codeobj.Function {
	t.Helper()
	stmts, err := parser.StatementsFromString(body)
	require.NoError(t, err)
	return codeobj.Function{Sig: parser.MustFuncSig(sig), Body: codeobj.CompoundStatement{Statements: stmts}}
}

func render(n codeobj.Node) string {
	return strings.Join(n.Lines(), "\n")
}

func TestPassThroughIsIdentity(t *testing.T) {
	inputs := []string{
		"x = y + 1;",
		"if (a < b) c++; else d--;",
		"return (x * 2);",
		"z = flag ? 1 : 0;",
		"arr[i] = f(a, b);",
		"p->next = q;",
		"n = sizeof(long);",
		"{ long k = -1; k += 2; }",
	}
	conv := New(validation.Default{})
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			pack := convpack.New(newTables(t))
			stmts, err := parser.StatementsFromString(input)
			require.NoError(t, err)
			require.Len(t, stmts, 1)
			got, err := conv.Convert(stmts[0], pack)
			require.NoError(t, err)
			assert.Equal(t, codeobj.AsString(stmts[0]), codeobj.AsString(got))
		})
	}
}

func TestCallSiteElision(t *testing.T) {
	fn := function(t, "static int format_step(grib_handle* h)", `
		char buf[64];
		size_t slen = 64;
		int err = 0;
		err = get_step_human_readable(h, buf, &slen);
		return err;`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, `static int formatStep()
{
    std::string buf(64, {});
    size_t slen = 64;
    int err = 0;
    err = getStepHumanReadable(buf);
    return err;
}`, render(got))
}

func TestContainerLengthInMemberFunction(t *testing.T) {
	fn := function(t, "static int unpack_long(grib_accessor* a, long* val, size_t* len)", `
		long n = sizeof(val)/sizeof(val[0]);
		if (*len < n) {
			*len = n;
			return GRIB_ARRAY_TOO_SMALL;
		}
		val[0] = 1;
		*len = 0;
		return GRIB_SUCCESS;`)

	pack := convpack.New(newTables(t), convpack.WithClass("BitData"))
	got, err := New(validation.Default{}).Convert(fn, pack)
	require.NoError(t, err)
	member, ok := got.(codeobj.MemberFunction)
	require.True(t, ok, "got %s", codeobj.KindName(got))
	assert.Equal(t, "GribStatus unpack(std::vector<long>& values) const;", member.Declaration())
	assert.Equal(t, `GribStatus BitData::unpack(std::vector<long>& values) const
{
    long n = values.size();
    if (values.size() < n)
    {
        values.resize(n);
        return GribStatus::ARRAY_TOO_SMALL;
    }
    values[0] = 1;
    values.clear();
    return GribStatus::SUCCESS;
}`, render(got))
}

func TestConstContainerIsNotMutated(t *testing.T) {
	fn := function(t, "static int pack_long(grib_accessor* a, const long* val, size_t* len)", `
		*len = 0;
		return GRIB_SUCCESS;`)

	pack := convpack.New(newTables(t), convpack.WithClass("BitData"))
	got, err := New(validation.Default{}).Convert(fn, pack)
	require.NoError(t, err)
	body := got.(codeobj.MemberFunction).Body
	require.Len(t, body.Statements, 2)
	assert.Equal(t, "// ["+validation.ReasonConstMutation+"] values.clear();", codeobj.AsString(body.Statements[0]))
}

func TestDeletedValuesAreCommentedOut(t *testing.T) {
	fn := function(t, "static void dump_it(grib_accessor* a)", `
		grib_handle* h = grib_handle_of_accessor(a);
		grib_context_free(h->context, buf);
		other(buf);`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, `static void dumpIt()
{
    // [Removed invalid variable] grib_handle* h = grib_handle_of_accessor(a);
    // [`+ReasonDeletedValue+`] grib_context_free(h->context, buf);
    other(buf);
}`, render(got))
}

func TestArrayDeclarationSizing(t *testing.T) {
	stmts, err := parser.StatementsFromString("unsigned char data[10];")
	require.NoError(t, err)
	got, err := New(validation.Default{}).Convert(stmts[0], convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, "std::vector<unsigned char> data(10, {});", codeobj.AsString(got))
}

func TestLaterDeclarationsSeeEarlierOnes(t *testing.T) {
	fn := function(t, "static void use_buffer()", `
		char* name_buf = NULL;
		name_buf = other;`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	body := got.(codeobj.Function).Body
	assert.Equal(t, "std::string nameBuf = {};", codeobj.AsString(body.Statements[0]))
	assert.Equal(t, "nameBuf[0] = other;", codeobj.AsString(body.Statements[1]))
}

func TestConvertUnitResolvesLaterFunctions(t *testing.T) {
	decls := []codeobj.Node{
		function(t, "static void caller(grib_accessor* a)", "helper_fn(a, 5);"),
		function(t, "static int helper_fn(grib_accessor* a, long v)", "return v;"),
	}
	out, diags := New(validation.Default{}).ConvertUnit(decls, convpack.New(newTables(t)))
	require.Empty(t, diags)
	require.Len(t, out, 2)
	assert.Equal(t, "static void caller()\n{\n    helperFn(5);\n}", render(out[0]))
	assert.Equal(t, "static int helperFn(long v)\n{\n    return v;\n}", render(out[1]))
}

var errBoom = errors.New("boom")

type failingReturns struct {
	validation.Default
}

func (failingReturns) ValidateReturnStatement(_, _ codeobj.ReturnStatement, _ *convpack.Pack) (codeobj.Node, error) {
	return nil, errBoom
}

func TestConvertUnitContainsFailures(t *testing.T) {
	decls := []codeobj.Node{
		function(t, "static int broken()", "return 1;"),
		codeobj.Typedef{Spec: parser.MustDeclSpec("long"), Name: "offset_t"},
	}
	out, diags := New(failingReturns{}).ConvertUnit(decls, convpack.New(newTables(t)))
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], errBoom)
	assert.Equal(t, 0, diags[0].Index)
	assert.Equal(t, "broken", diags[0].Name)

	require.Len(t, out, 2)
	placeholder, ok := out[0].(codeobj.CommentedOut)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(placeholder.Reason, ReasonConversionFailed))
	assert.Equal(t, "using OffsetT = long;", codeobj.AsString(out[1]))
}

func TestTypeDeclarations(t *testing.T) {
	conv := New(validation.Default{})
	pack := convpack.New(newTables(t))

	entry := codeobj.StructArg{Name: "table_entry", Members: []codeobj.Arg{
		parser.MustArg("long value_count"),
		parser.MustArg("grib_handle* h"),
	}}
	got, err := conv.Convert(entry, pack)
	require.NoError(t, err)
	assert.Equal(t, []string{"struct TableEntry", "{", "    long valueCount;", "};"}, got.Lines())

	decl := codeobj.NewVariableDeclaration(
		codeobj.Arg{Spec: codeobj.DeclSpec{Type: "table_entry", Pointer: "*"}, Name: "e"},
		codeobj.ValueDeclarationReference{Value: "NULL"})
	got, err = conv.Convert(decl, pack)
	require.NoError(t, err)
	assert.Equal(t, "TableEntry* e = NULL;", codeobj.AsString(got))

	got, err = conv.Convert(codeobj.Typedef{Spec: parser.MustDeclSpec("grib_handle*"), Name: "handle_t"}, pack)
	require.NoError(t, err)
	assert.True(t, codeobj.IsElided(got))
}

func TestValueTransforms(t *testing.T) {
	stmts, err := parser.StatementsFromString("flags = GRIB_ACCESSOR_FLAG_READ_ONLY | GRIB_ACCESSOR_FLAG_DUMP;")
	require.NoError(t, err)
	got, err := New(validation.Default{}).Convert(stmts[0], convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, "flags = toInt(GribAccessorFlag::READ_ONLY) | toInt(GribAccessorFlag::DUMP);", codeobj.AsString(got))
}

func TestRawStatementUsesRegisteredNames(t *testing.T) {
	pack := convpack.New(newTables(t))
	pack.RegisterLocal(parser.MustArg("long* val"), codeobj.Present(parser.MustArg("std::vector<long>& values")))
	pack.MarkDeleted("len")
	conv := New(validation.Default{})

	got, err := conv.Convert(codeobj.RawStatement{Text: "goto done; val = self->val;"}, pack)
	require.NoError(t, err)
	assert.Equal(t, "goto done; values = self->val;", codeobj.AsString(got))

	got, err = conv.Convert(codeobj.RawStatement{Text: "goto fail; *len = 0;"}, pack)
	require.NoError(t, err)
	assert.IsType(t, codeobj.CommentedOut{}, got)
}

func TestRawStatementTextPass(t *testing.T) {
	raw := codeobj.RawStatement{Text: "do { err = GRIB_SUCCESS; } while (0);"}
	pack := convpack.New(newTables(t))

	got, err := New(validation.Default{}).Convert(raw, pack)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = New(validation.Default{}, WithTextPass(gribapi.ConvertText)).Convert(raw, pack)
	require.NoError(t, err)
	assert.Equal(t, "do { err = GribStatus::SUCCESS; } while (0);", codeobj.AsString(got))
}

func TestUnitLevelVariablesAreGlobal(t *testing.T) {
	stmts, err := parser.StatementsFromString("static char* default_name = NULL;")
	require.NoError(t, err)
	decls := append(stmts,
		function(t, "static void first()", "long x = 1;"),
		function(t, "static void second()", "default_name = other;"),
	)
	out, diags := New(validation.Default{}).ConvertUnit(decls, convpack.New(newTables(t)))
	require.Empty(t, diags)
	require.Len(t, out, 3)
	assert.Equal(t, "static std::string defaultName = {};", codeobj.AsString(out[0]))
	assert.Equal(t, "static void second()\n{\n    defaultName[0] = other;\n}", render(out[2]))
}

func TestMemberPrototypesAreDropped(t *testing.T) {
	decls := []codeobj.Node{
		parser.MustFuncSig("static int unpack_long(grib_accessor* a, long* val, size_t* len)"),
		parser.MustFuncSig("static int helper_fn(long v)"),
	}
	out, diags := New(validation.Default{}).ConvertUnit(decls, convpack.New(newTables(t), convpack.WithClass("BitData")))
	require.Empty(t, diags)
	require.Len(t, out, 1)
	assert.Equal(t, "static int helperFn(long v)", codeobj.AsString(out[0]))
}

func TestLocalShadowsGlobal(t *testing.T) {
	stmts, err := parser.StatementsFromString("static long count = 0;")
	require.NoError(t, err)
	decls := append(stmts,
		function(t, "static void first()", "char* count = NULL;"),
		function(t, "static void second()", "count = 5;"),
	)
	out, diags := New(validation.Default{}).ConvertUnit(decls, convpack.New(newTables(t)))
	require.Empty(t, diags)
	require.Len(t, out, 3)
	assert.Equal(t, "static long count = 0;", codeobj.AsString(out[0]))
	assert.Equal(t, "static void first()\n{\n    std::string count = {};\n}", render(out[1]))
	assert.Equal(t, "static void second()\n{\n    count = 5;\n}", render(out[2]))
}

func TestBlockScopedRedeclaration(t *testing.T) {
	fn := function(t, "static void blocks()", `
		{ char name[8]; }
		{ long name = 3; name = 4; }
		name = 5;`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	body := got.(codeobj.Function).Body
	require.Len(t, body.Statements, 3)

	first := body.Statements[0].(codeobj.CompoundStatement)
	assert.Equal(t, "std::string name(8, {});", codeobj.AsString(first.Statements[0]))
	second := body.Statements[1].(codeobj.CompoundStatement)
	require.Len(t, second.Statements, 2)
	assert.Equal(t, "long name = 3;", codeobj.AsString(second.Statements[0]))
	assert.Equal(t, "name = 4;", codeobj.AsString(second.Statements[1]))
	// out of both blocks the name is unknown again and passes through
	assert.Equal(t, "name = 5;", codeobj.AsString(body.Statements[2]))
}

func TestLoopsConvertTheirChildren(t *testing.T) {
	fn := function(t, "static int unpack_long(grib_accessor* a, long* val, size_t* len)", `
		long i = 0;
		for (i = 0; i < *len; i++) val[i] = 0;
		while (i > 0) {
			i--;
		}
		do { val[i] = 1; } while (i < *len);
		return GRIB_SUCCESS;`)

	pack := convpack.New(newTables(t), convpack.WithClass("BitData"))
	got, err := New(validation.Default{}).Convert(fn, pack)
	require.NoError(t, err)
	assert.Equal(t, `GribStatus BitData::unpack(std::vector<long>& values) const
{
    long i = 0;
    for (i = 0; i < values.size(); i++)
        values[i] = 0;
    while (i > 0)
    {
        i--;
    }
    do
    {
        values[i] = 1;
    }
    while (i < values.size());
    return GribStatus::SUCCESS;
}`, render(got))
}

func TestLoopVariableIsScopedToLoop(t *testing.T) {
	fn := function(t, "static void scan()", `
		for (char buf[4]; ; ) { buf = other; break; }
		buf = other;`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, `static void scan()
{
    for (std::string buf(4, {}); ; )
    {
        buf[0] = other;
        break;
    }
    buf = other;
}`, render(got))
}

func TestLoopWithDeletedValueIsCommentedOut(t *testing.T) {
	fn := function(t, "static void walk(grib_accessor* a)", `
		grib_handle* h = grib_handle_of_accessor(a);
		while (h->loader) step();`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	body := got.(codeobj.Function).Body
	require.Len(t, body.Statements, 2)
	commented, ok := body.Statements[1].(codeobj.CommentedOut)
	require.True(t, ok, "got %s", codeobj.KindName(body.Statements[1]))
	assert.Equal(t, ReasonDeletedValue, commented.Reason)
}

func TestSwitchCaseValues(t *testing.T) {
	fn := function(t, "static long width(long type)", `
		switch (type) {
		case GRIB_TYPE_LONG:
			return 8;
		default:
			return 0;
		}`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	assert.Equal(t, `static long width(long type)
{
    switch (type)
    {
    case GribType::LONG:
        return 8;
    default:
        return 0;
    }
}`, render(got))
}

func TestTruthyStrcmpCondition(t *testing.T) {
	fn := function(t, "static int differs(const char* a, const char* b)", `
		if (strcmp(a, b)) return 1;
		return 0;`)

	got, err := New(validation.Default{}).Convert(fn, convpack.New(newTables(t)))
	require.NoError(t, err)
	body := got.(codeobj.Function).Body
	assert.Equal(t, []string{"if (a != b)", "    return 1;"}, body.Statements[0].Lines())
}
