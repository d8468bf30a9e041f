package pythonparser

import (
	"bytes"
	"fmt"
	"go/token"
	"strings"
	"testing"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonscanner"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var opts = Options{}

var recoverOpts = Options{ErrorMode: Recover}

func assertParse(t *testing.T, expected string, src string) {
	t.Log(src)
	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)
	assertAST(t, expected, mod)
}

func assertParseExpr(t *testing.T, expected string, src string) {
	t.Log(src)
	expr, err := ParseExpr(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)
	require.NotNil(t, expr)

	assert.EqualValues(t, 0, expr.Begin())
	assert.EqualValues(t, len(strings.TrimSpace(src)), expr.End())

	assertAST(t, expected, expr)
}

type nestingResult struct {
	violations []string
}

type nestingVerifier struct {
	result      *nestingResult
	parentBegin token.Pos
	parentEnd   token.Pos
}

func (p *nestingVerifier) Visit(n pythonast.Node) pythonast.Visitor {
	if n == nil {
		return nil
	}
	if n.Begin() < p.parentBegin || n.End() > p.parentEnd {
		msg := fmt.Sprintf("error at %T (%d...%d)", n, n.Begin(), n.End())
		p.result.violations = append(p.result.violations, msg)
	}
	return &nestingVerifier{p.result, n.Begin(), n.End()}
}

// assertNesting checks that the Begin and End of each node fully encloses the Begin and End of each of its children
func assertNesting(t *testing.T, node pythonast.Node) {
	var result nestingResult
	verifier := nestingVerifier{&result, node.Begin(), node.End()}
	pythonast.Walk(&verifier, node)
	if len(result.violations) > 0 {
		msg := strings.Join(result.violations, "\n")
		var buf bytes.Buffer
		pythonast.PrintPositions(node, &buf, "\t")
		t.Errorf("Nesting violations:\n%s\n%s", msg, buf.String())
	}
}

func assertAST(t *testing.T, expected string, node pythonast.Node) {
	var buf bytes.Buffer
	pythonast.Print(node, &buf, "\t")
	actual := buf.String()

	expected = strings.TrimSpace(expected)
	actual = strings.TrimSpace(actual)

	if actual != expected {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(expected, actual, false)
		t.Errorf("syntax tree mismatch (-expected +actual):\n%s\n\nactual:\n%s", dmp.DiffPrettyText(diffs), actual)
	}

	assertNesting(t, node)
}

func TestCallPositionalArgs(t *testing.T) {
	src := `foo(a, b)`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
			Argument
				NameExpr[a]
			Argument
				NameExpr[b]
`
	assertParse(t, expected, src)
}

func TestCallNoArgs(t *testing.T) {
	src := `foo()`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
`
	assertParse(t, expected, src)
}

func TestCallTrailingComma(t *testing.T) {
	src := `foo(a,)`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
			Argument
				NameExpr[a]
`
	assertParse(t, expected, src)
}

func TestCallArgsKeepSourceOrder(t *testing.T) {
	src := `foo(a, b=1, *c, d, **e)`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
			Argument
				NameExpr[a]
			Argument
				NameExpr[b]
				NumberExpr[1]
			Argument[*]
				NameExpr[c]
			Argument
				NameExpr[d]
			Argument[**]
				NameExpr[e]
`
	assertParse(t, expected, src)

	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)

	call := mod.Body[0].(*pythonast.ExprStmt).Value.(*pythonast.CallExpr)
	require.Len(t, call.Args, 5)

	stars := make([]int, 0, len(call.Args))
	for _, arg := range call.Args {
		stars = append(stars, arg.Stars())
	}
	assert.Equal(t, []int{0, 0, 1, 0, 2}, stars)

	kw := call.Args[1]
	require.NotNil(t, kw.Name)
	assert.Equal(t, "b", kw.Name.Ident.Literal)
	assert.EqualValues(t, 7, kw.Begin())
	assert.EqualValues(t, 10, kw.End())

	assert.EqualValues(t, 12, call.Args[2].Begin())
	assert.EqualValues(t, 14, call.Args[2].End())
}

func TestCallStarLiteral(t *testing.T) {
	src := `foo(*[1, 2], **{"x": 3})`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
			Argument[*]
				ListExpr
					NumberExpr[1]
					NumberExpr[2]
			Argument[**]
				DictExpr
					KeyValuePair
						StringExpr["x"]
						NumberExpr[3]
`
	assertParse(t, expected, src)
}

func TestCallGeneratorArg(t *testing.T) {
	src := `foo(x for x in y)`

	expected := `
Module
	ExprStmt
		CallExpr
			NameExpr[foo]
			Argument
				ComprehensionExpr[generator]
					NameExpr[x]
					Generator
						NameExpr[x]
						NameExpr[y]
`
	assertParse(t, expected, src)
}

func TestCallInvalidKeyword(t *testing.T) {
	_, err := Parse(kitectx.Background(), []byte(`foo(a.b=1)`), opts)
	assert.Error(t, err)
}

func TestAttributeCall(t *testing.T) {
	src := `a.b.c(d)`

	expected := `
Module
	ExprStmt
		CallExpr
			AttributeExpr[c]
				AttributeExpr[b]
					NameExpr[a]
			Argument
				NameExpr[d]
`
	assertParse(t, expected, src)
}

func TestFunctionDefParameters(t *testing.T) {
	src := `def foo(a, b=1, *args, c, d=2, **kwargs): pass`

	expected := `
Module
	FunctionDefStmt
		NameExpr[foo]
		Parameter
			NameExpr[a]
		Parameter
			NameExpr[b]
			NumberExpr[1]
		Parameter[*]
			NameExpr[args]
		Parameter
			NameExpr[c]
		Parameter
			NameExpr[d]
			NumberExpr[2]
		Parameter[**]
			NameExpr[kwargs]
		PassStmt
`
	assertParse(t, expected, src)
}

func TestFunctionDefBareStar(t *testing.T) {
	src := `def foo(a, *, b): pass`

	expected := `
Module
	FunctionDefStmt
		NameExpr[foo]
		Parameter
			NameExpr[a]
		Parameter[*]
		Parameter
			NameExpr[b]
		PassStmt
`
	assertParse(t, expected, src)

	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)

	fn := mod.Body[0].(*pythonast.FunctionDefStmt)
	require.Len(t, fn.Parameters, 3)
	assert.Nil(t, fn.Parameters[1].Name)
	assert.Equal(t, 1, fn.Parameters[1].Stars())
}

func TestFunctionDefTupleParameter(t *testing.T) {
	src := `def foo((a, (b, c)), d): pass`

	expected := `
Module
	FunctionDefStmt
		NameExpr[foo]
		Parameter
			TupleExpr
				NameExpr[a]
				TupleExpr
					NameExpr[b]
					NameExpr[c]
		Parameter
			NameExpr[d]
		PassStmt
`
	assertParse(t, expected, src)
}

func TestFunctionDefAnnotations(t *testing.T) {
	src := `def foo(a: int = 1, *args: str) -> bool: pass`

	expected := `
Module
	FunctionDefStmt
		NameExpr[foo]
		Parameter
			NameExpr[a]
			NameExpr[int]
			NumberExpr[1]
		Parameter[*]
			NameExpr[args]
			NameExpr[str]
		NameExpr[bool]
		PassStmt
`
	assertParse(t, expected, src)
}

func TestFunctionDefKwargsMustBeLast(t *testing.T) {
	_, err := Parse(kitectx.Background(), []byte(`def foo(**kw, a): pass`), opts)
	assert.Error(t, err)

	_, err = Parse(kitectx.Background(), []byte(`def foo(*a, *b): pass`), opts)
	assert.Error(t, err)
}

func TestDecorators(t *testing.T) {
	src := `
@staticmethod
@foo.bar(1)
def f():
    pass
`

	expected := `
Module
	FunctionDefStmt
		NameExpr[staticmethod]
		CallExpr
			AttributeExpr[bar]
				NameExpr[foo]
			Argument
				NumberExpr[1]
		NameExpr[f]
		PassStmt
`
	assertParse(t, expected, src)
}

func TestAsyncFunctionDef(t *testing.T) {
	src := `
async def foo():
    await bar()
`

	expected := `
Module
	FunctionDefStmt
		NameExpr[foo]
		ExprStmt
			AwaitExpr
				CallExpr
					NameExpr[bar]
`
	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)
	assertAST(t, expected, mod)

	fn := mod.Body[0].(*pythonast.FunctionDefStmt)
	require.NotNil(t, fn.Async)
	assert.Equal(t, pythonscanner.Async, fn.Async.Token)
}

func TestClassDef(t *testing.T) {
	src := `
class Foo(Bar, metaclass=Meta):
    def __init__(self):
        pass
`

	expected := `
Module
	ClassDefStmt
		NameExpr[Foo]
		Argument
			NameExpr[Bar]
		Argument
			NameExpr[metaclass]
			NameExpr[Meta]
		FunctionDefStmt
			NameExpr[__init__]
			Parameter
				NameExpr[self]
			PassStmt
`
	assertParse(t, expected, src)
}

func TestClassDefEmptyBases(t *testing.T) {
	src := `class Foo(): pass`

	expected := `
Module
	ClassDefStmt
		NameExpr[Foo]
		PassStmt
`
	assertParse(t, expected, src)
}

func TestAssignChain(t *testing.T) {
	src := `a = b = f(x)`

	expected := `
Module
	AssignStmt
		NameExpr[a]
		NameExpr[b]
		CallExpr
			NameExpr[f]
			Argument
				NameExpr[x]
`
	assertParse(t, expected, src)
}

func TestAnnotatedAssign(t *testing.T) {
	src := `
x: int = 1
y: str
`

	expected := `
Module
	AssignStmt
		NameExpr[x]
		NameExpr[int]
		NumberExpr[1]
	AssignStmt
		NameExpr[y]
		NameExpr[str]
`
	assertParse(t, expected, src)

	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)
	assert.Nil(t, mod.Body[1].(*pythonast.AssignStmt).Value)
}

func TestAugAssign(t *testing.T) {
	src := `a += 1`

	expected := `
Module
	AugAssignStmt[+=]
		NameExpr[a]
		NumberExpr[1]
`
	assertParse(t, expected, src)
}

func TestTupleAssign(t *testing.T) {
	src := `a, b = b, a`

	expected := `
Module
	AssignStmt
		TupleExpr
			NameExpr[a]
			NameExpr[b]
		TupleExpr
			NameExpr[b]
			NameExpr[a]
`
	assertParse(t, expected, src)
}

func TestBinaryExprLeftAssociative(t *testing.T) {
	src := `a - b - c`

	expected := `
BinaryExpr[-]
	BinaryExpr[-]
		NameExpr[a]
		NameExpr[b]
	NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestPowerRightAssociative(t *testing.T) {
	src := `a ** b ** c`

	expected := `
BinaryExpr[**]
	NameExpr[a]
	BinaryExpr[**]
		NameExpr[b]
		NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestPrecedence(t *testing.T) {
	src := `a + b * -c`

	expected := `
BinaryExpr[+]
	NameExpr[a]
	BinaryExpr[*]
		NameExpr[b]
		UnaryExpr[-]
			NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestComparisonOperators(t *testing.T) {
	src := `a not in b is not c`

	expected := `
BinaryExpr[is not]
	BinaryExpr[not in]
		NameExpr[a]
		NameExpr[b]
	NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestBooleanOperators(t *testing.T) {
	src := `not a and b or c`

	expected := `
BinaryExpr[or]
	BinaryExpr[and]
		UnaryExpr[not]
			NameExpr[a]
		NameExpr[b]
	NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestIfExpr(t *testing.T) {
	src := `a if b else c`

	expected := `
IfExpr
	NameExpr[a]
	NameExpr[b]
	NameExpr[c]
`
	assertParseExpr(t, expected, src)
}

func TestListComprehension(t *testing.T) {
	src := `[x for x in y if x]`

	expected := `
ComprehensionExpr[list]
	NameExpr[x]
	Generator
		NameExpr[x]
		NameExpr[y]
		NameExpr[x]
`
	assertParseExpr(t, expected, src)
}

func TestDictComprehension(t *testing.T) {
	src := `{k: v for k, v in items}`

	expected := `
ComprehensionExpr[dict]
	NameExpr[k]
	NameExpr[v]
	Generator
		TupleExpr
			NameExpr[k]
			NameExpr[v]
		NameExpr[items]
`
	assertParseExpr(t, expected, src)
}

func TestDictUnpacking(t *testing.T) {
	src := `{a: 1, **b}`

	expected := `
DictExpr
	KeyValuePair
		NameExpr[a]
		NumberExpr[1]
	KeyValuePair
		NameExpr[b]
`
	assertParseExpr(t, expected, src)
}

func TestSetExpr(t *testing.T) {
	src := `{a, b}`

	expected := `
SetExpr
	NameExpr[a]
	NameExpr[b]
`
	assertParseExpr(t, expected, src)
}

func TestParenthesized(t *testing.T) {
	// redundant parentheses are dropped, so the name keeps its own position
	expr, err := ParseExpr(kitectx.Background(), []byte(`(a)`), opts)
	require.NoError(t, err)
	require.IsType(t, &pythonast.NameExpr{}, expr)
	assert.EqualValues(t, 1, expr.Begin())

	assertParseExpr(t, "TupleExpr\n\tNameExpr[a]", `(a,)`)
	assertParseExpr(t, `TupleExpr`, `()`)
}

func TestIndexAndSlice(t *testing.T) {
	src := `a[1, 2:3]`

	expected := `
IndexExpr
	NameExpr[a]
	TupleExpr
		NumberExpr[1]
		SliceExpr
			NumberExpr[2]
			NumberExpr[3]
`
	assertParseExpr(t, expected, src)
}

func TestLambda(t *testing.T) {
	src := `lambda x, *y: x`

	expected := `
LambdaExpr
	Parameter
		NameExpr[x]
	Parameter[*]
		NameExpr[y]
	NameExpr[x]
`
	assertParseExpr(t, expected, src)
}

func TestCompoundStatements(t *testing.T) {
	src := `
if a:
    b
elif c:
    d
else:
    e
for x in y:
    continue
while z:
    break
`

	expected := `
Module
	IfStmt
		Branch
			NameExpr[a]
			ExprStmt
				NameExpr[b]
		Branch
			NameExpr[c]
			ExprStmt
				NameExpr[d]
		ExprStmt
			NameExpr[e]
	ForStmt
		NameExpr[x]
		NameExpr[y]
		ContinueStmt
	WhileStmt
		NameExpr[z]
		BreakStmt
`
	assertParse(t, expected, src)
}

func TestTryStmt(t *testing.T) {
	src := `
try:
    a
except ValueError as e:
    b
finally:
    c
`

	expected := `
Module
	TryStmt
		ExprStmt
			NameExpr[a]
		ExceptClause
			NameExpr[ValueError]
			NameExpr[e]
			ExprStmt
				NameExpr[b]
		ExprStmt
			NameExpr[c]
`
	assertParse(t, expected, src)
}

func TestImports(t *testing.T) {
	src := `
import os.path as p
from foo.bar import baz, ham as spam
`

	expected := `
Module
	ImportNameStmt
		DottedAsName
			DottedExpr
				NameExpr[os]
				NameExpr[path]
			NameExpr[p]
	ImportFromStmt
		DottedExpr
			NameExpr[foo]
			NameExpr[bar]
		ImportAsName
			NameExpr[baz]
		ImportAsName
			NameExpr[ham]
			NameExpr[spam]
`
	assertParse(t, expected, src)
}

func TestReturnYield(t *testing.T) {
	src := `
def f():
    yield from g()
    return a, b
`

	expected := `
Module
	FunctionDefStmt
		NameExpr[f]
		ExprStmt
			YieldExpr
				CallExpr
					NameExpr[g]
		ReturnStmt
			TupleExpr
				NameExpr[a]
				NameExpr[b]
`
	assertParse(t, expected, src)
}

func TestRecoverBadStmt(t *testing.T) {
	src := "x = = 1\ny = 2\n"

	mod, err := Parse(kitectx.Background(), []byte(src), recoverOpts)
	require.Error(t, err)
	require.NotNil(t, mod)
	require.Len(t, mod.Body, 2)

	assert.IsType(t, &pythonast.BadStmt{}, mod.Body[0])
	assert.IsType(t, &pythonast.AssignStmt{}, mod.Body[1])
}

func TestRecoverUnexpectedIndent(t *testing.T) {
	src := "a\n    b\nc\n"

	mod, err := Parse(kitectx.Background(), []byte(src), recoverOpts)
	require.Error(t, err)
	require.NotNil(t, mod)
	require.Len(t, mod.Body, 3)

	assert.IsType(t, &pythonast.ExprStmt{}, mod.Body[0])
	assert.IsType(t, &pythonast.BadStmt{}, mod.Body[1])
	assert.IsType(t, &pythonast.ExprStmt{}, mod.Body[2])
}

func TestFailFast(t *testing.T) {
	mod, err := Parse(kitectx.Background(), []byte("x = = 1\ny = 2\n"), opts)
	require.Error(t, err)
	assert.Nil(t, mod)
	assert.Contains(t, err.Error(), "expected")
}

func TestParseStatement(t *testing.T) {
	stmt, err := ParseStatement(kitectx.Background(), []byte("def f(): pass\n"), opts)
	require.NoError(t, err)
	assert.IsType(t, &pythonast.FunctionDefStmt{}, stmt)

	stmt, err = ParseStatement(kitectx.Background(), []byte("a = 1"), opts)
	require.NoError(t, err)
	assert.IsType(t, &pythonast.AssignStmt{}, stmt)

	_, err = ParseStatement(kitectx.Background(), []byte("a; b"), opts)
	assert.Error(t, err)
}

func TestParseExpr(t *testing.T) {
	src := `foo(a)[0].b`

	expected := `
AttributeExpr[b]
	IndexExpr
		CallExpr
			NameExpr[foo]
			Argument
				NameExpr[a]
		NumberExpr[0]
`
	assertParseExpr(t, expected, src)

	_, err := ParseExpr(kitectx.Background(), []byte(`a b`), recoverOpts)
	assert.Error(t, err)
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	traceOpts := Options{Trace: true, TraceWriter: &buf}

	_, err := Parse(kitectx.Background(), []byte(`foo(a)`), traceOpts)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "CallExprAfterFunc")
}

func TestScopeTable(t *testing.T) {
	src := `
class A(B):
    x = 1
    def f(self, y=x):
        return y
`
	mod, err := Parse(kitectx.Background(), []byte(src), opts)
	require.NoError(t, err)

	class := mod.Body[0].(*pythonast.ClassDefStmt)
	fn := class.Body[1].(*pythonast.FunctionDefStmt)
	ret := fn.Body[0].(*pythonast.ReturnStmt)

	scopes := pythonast.ConstructScopeTable(mod)

	assert.Equal(t, pythonast.Scope(mod), scopes[class.Name])
	assert.Equal(t, pythonast.Scope(mod), scopes[class.Args[0].Value])
	assert.Equal(t, pythonast.Scope(class), scopes[class.Body[0].(*pythonast.AssignStmt).Targets[0]])
	assert.Equal(t, pythonast.Scope(class), scopes[fn.Name])
	assert.Equal(t, pythonast.Scope(fn), scopes[fn.Parameters[0].Name])
	assert.Equal(t, pythonast.Scope(class), scopes[fn.Parameters[1].Default])
	assert.Equal(t, pythonast.Scope(fn), scopes[ret.Value])

	parents := pythonast.ConstructParentTable(mod, pythonast.CountNodes(mod))
	assert.Equal(t, pythonast.Scope(fn), pythonast.EnclosingScope(ret.Value, parents))
	assert.Equal(t, pythonast.Scope(class), pythonast.EnclosingScope(fn, parents))
	assert.Equal(t, pythonast.Scope(mod), pythonast.EnclosingScope(class, parents))
}
