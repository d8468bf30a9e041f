package pythoncall

import (
	"testing"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonparser"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImplicitArgumentCount(t *testing.T) {
	a := newClass("A")
	plain := &pythontype.Function{Name: "f", Params: parameters("x")}
	m := method(a, "m", "self", "x")
	s := method(a, "s", "x")
	s.Modifier = pythontype.StaticMethod
	c := method(a, "c", "cls", "x")
	c.Modifier = pythontype.ClassMethod
	nw := method(a, "__new__", "cls")
	init := method(a, "__init__", "self")
	star := method(a, "v", "*args")

	type tc struct {
		fn                    *pythontype.Function
		ctor, byInst, byClass bool
		expected              int
	}
	cases := []tc{
		{fn: plain, expected: 0},
		{fn: plain, byInst: true, expected: 1},
		{fn: m, byInst: true, expected: 1},
		{fn: m, byClass: true, expected: 0},
		{fn: s, byInst: true, expected: 0},
		{fn: s, byClass: true, expected: 0},
		{fn: c, byClass: true, expected: 1},
		{fn: c, byInst: true, expected: 1},
		{fn: nw, ctor: true, byInst: true, expected: 1},
		{fn: nw, byInst: true, expected: 0},
		{fn: nw, byClass: true, expected: 0},
		{fn: init, expected: 1},
		{fn: init, byInst: true, expected: 1},
		{fn: init, byClass: true, expected: 0},
		{fn: star, byInst: true, expected: 0},
	}
	for i, tt := range cases {
		actual := implicitArgumentCount(tt.fn, tt.fn.Modifier, tt.ctor, tt.byInst, tt.byClass)
		assert.Equal(t, tt.expected, actual, "case %d: %s", i, tt.fn.QualifiedName())
	}
}

type calleeFixture struct {
	r      *fakeResolver
	a      *pythontype.Class
	init   *pythontype.Function
	m      *pythontype.Function
	static *pythontype.Function
	class  *pythontype.Function
}

func newCalleeFixture() calleeFixture {
	r := newFakeResolver()
	a := newClass("A", r.builtins["object"].(*pythontype.Class))
	f := calleeFixture{
		r:      r,
		a:      a,
		init:   method(a, "__init__", "self", "x"),
		m:      method(a, "m", "self", "x"),
		static: method(a, "s", "x"),
		class:  method(a, "c", "cls", "x"),
	}
	f.static.Modifier = pythontype.StaticMethod
	f.class.Modifier = pythontype.ClassMethod

	r.refs["A"] = []pythontype.Value{a}
	r.types["A"] = a
	r.types["a"] = pythontype.Instance{Class: a}
	for _, q := range []string{"a", "A"} {
		r.refs[q+".m"] = []pythontype.Value{f.m}
		r.refs[q+".s"] = []pythontype.Value{f.static}
		r.refs[q+".c"] = []pythontype.Value{f.class}
	}
	return f
}

func TestResolveCalleeConstructor(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	call := parseCallExpr(t, "A(1)")

	mc := ResolveCallee(ctx, f.r, call, ResolveContext{}, 0)
	require.NotNil(t, mc)
	assert.Equal(t, f.init, mc.Callable)
	assert.Equal(t, 1, mc.ImplicitOffset)

	m := MapArguments(ctx, f.r, call, ResolveContext{}, 0)
	assert.Equal(t, map[string][]string{"x": {"1"}}, bound(m))
	assert.Empty(t, m.UnmappedParameters)

	assert.Equal(t, f.a, ResolveCalleeClass(ctx, f.r, call))
	assert.Equal(t, f.init, ResolveCalleeFunction(ctx, f.r, call, ResolveContext{}))
}

func TestResolveCalleeMethods(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()

	type tc struct {
		src      string
		callable *pythontype.Function
		offset   int
		bound    map[string][]string
	}
	cases := []tc{
		{"a.m(1)", f.m, 1, map[string][]string{"x": {"1"}}},
		{"A.m(a, 1)", f.m, 0, map[string][]string{"self": {"a"}, "x": {"1"}}},
		{"a.s(1)", f.static, 0, map[string][]string{"x": {"1"}}},
		{"A.s(1)", f.static, 0, map[string][]string{"x": {"1"}}},
		{"a.c(1)", f.class, 1, map[string][]string{"x": {"1"}}},
		{"A.c(1)", f.class, 1, map[string][]string{"x": {"1"}}},
	}
	for _, c := range cases {
		call := parseCallExpr(t, c.src)
		mc := ResolveCallee(ctx, f.r, call, ResolveContext{}, 0)
		require.NotNil(t, mc, c.src)
		assert.Equal(t, c.callable, mc.Callable, c.src)
		assert.Equal(t, c.offset, mc.ImplicitOffset, c.src)

		m := MapArguments(ctx, f.r, call, ResolveContext{}, 0)
		assert.Equal(t, c.bound, bound(m), c.src)
		assert.Empty(t, m.UnmappedParameters, c.src)
		assert.Empty(t, m.UnmappedArguments, c.src)
	}
}

func TestResolveCalleeOffset(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	call := parseCallExpr(t, "a.m(1)")

	mc := ResolveCallee(ctx, f.r, call, ResolveContext{}, 1)
	require.NotNil(t, mc)
	assert.Equal(t, 2, mc.ImplicitOffset)

	mc = ResolveCallee(ctx, f.r, call, ResolveContext{}, -5)
	require.NotNil(t, mc)
	assert.Equal(t, 0, mc.ImplicitOffset)
}

func TestResolveCalleeAmbiguous(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	f.r.refs["g"] = []pythontype.Value{
		&pythontype.Function{Name: "g"},
		&pythontype.Function{Name: "g"},
	}
	call := parseCallExpr(t, "g(1)")

	assert.Nil(t, ResolveCallee(ctx, f.r, call, ResolveContext{}, 0))
	assert.Nil(t, MapArguments(ctx, f.r, call, ResolveContext{}, 0).Callee)

	problems, _ := Diagnose(ctx, f.r, call, ResolveContext{})
	require.Len(t, problems, 1)
	assert.Equal(t, AmbiguousCallee, problems[0].Kind)
}

func TestResolveCalleeBoundMethod(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	f.r.follows["bm"] = Followed{Element: pythontype.BoundMethod{Func: f.m, Receiver: pythontype.Instance{Class: f.a}}}

	mc := ResolveCallee(ctx, f.r, parseCallExpr(t, "bm(1)"), ResolveContext{}, 0)
	require.NotNil(t, mc)
	assert.Equal(t, f.m, mc.Callable)
	assert.Equal(t, 1, mc.ImplicitOffset)
}

func TestResolveCalleeImplicit(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	call := parseCallExpr(t, "x.m(1)")
	f.r.follows["x.m"] = Followed{Element: f.m, Qualifiers: []pythonast.Expr{call.Func.(*pythonast.AttributeExpr).Value}, Implicit: true}

	mc := ResolveCallee(ctx, f.r, call, ResolveContext{AllowImplicits: true}, 0)
	require.NotNil(t, mc)
	assert.True(t, mc.Implicit)
	// a qualifier of unknown type counts as an instance
	assert.Equal(t, 1, mc.ImplicitOffset)
}

func TestResolveCalleeModuleQualifier(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	fn := &pythontype.Function{Name: "f", Params: parameters("x")}
	f.r.refs["mod.f"] = []pythontype.Value{fn}
	f.r.types["mod"] = pythontype.NewModule("mod", pythontype.Python3)

	mc := ResolveCallee(ctx, f.r, parseCallExpr(t, "mod.f(1)"), ResolveContext{}, 0)
	require.NotNil(t, mc)
	assert.Equal(t, 0, mc.ImplicitOffset)
}

func TestResolveCalleeWrappedModifier(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	wrapped := method(f.a, "helper", "x")
	f.r.refs["helper"] = []pythontype.Value{wrapped}

	call := parseCallExpr(t, "a.w(1)")
	wrapping := parseCallExpr(t, "staticmethod(helper)")
	f.r.follows["a.w"] = Followed{
		Element:    pythontype.Expression{Expr: wrapping},
		Qualifiers: []pythonast.Expr{call.Func.(*pythonast.AttributeExpr).Value},
	}

	mc := ResolveCallee(ctx, f.r, call, ResolveContext{}, 0)
	require.NotNil(t, mc)
	assert.Equal(t, wrapped, mc.Callable)
	assert.Equal(t, pythontype.StaticMethod, mc.Modifier)
	assert.Equal(t, 0, mc.ImplicitOffset)

	assert.Equal(t, wrapped, ResolveCalleeFunction(ctx, f.r, call, ResolveContext{}))
}

func TestInterpretAsModifierWrappingCall(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	helper := method(f.a, "helper", "cls")
	f.r.refs["helper"] = []pythontype.Value{helper}

	fn, mod := InterpretAsModifierWrappingCall(ctx, f.r, parseCallExpr(t, "classmethod(helper)"))
	assert.Equal(t, helper, fn)
	assert.Equal(t, pythontype.ClassMethod, mod)

	fn, _ = InterpretAsModifierWrappingCall(ctx, f.r, parseCallExpr(t, "classmethod(helper, helper)"))
	assert.Nil(t, fn)

	fn, _ = InterpretAsModifierWrappingCall(ctx, f.r, parseCallExpr(t, "classmethod(1)"))
	assert.Nil(t, fn)

	fn, _ = InterpretAsModifierWrappingCall(ctx, f.r, parseCallExpr(t, "wrap(helper)"))
	assert.Nil(t, fn)

	// a shadowed builtin is not a modifier
	f.r.refs["classmethod"] = []pythontype.Value{&pythontype.Function{Name: "classmethod"}}
	fn, _ = InterpretAsModifierWrappingCall(ctx, f.r, parseCallExpr(t, "classmethod(helper)"))
	assert.Nil(t, fn)
}

func TestResolveCalleeProperty(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	prop := method(f.a, "p", "self")
	prop.Property = true
	g := &pythontype.Function{Name: "g", Params: parameters("y")}
	f.r.refs["a.p"] = []pythontype.Value{prop}
	f.r.returns[prop] = g

	mc := ResolveCallee(ctx, f.r, parseCallExpr(t, "a.p(1)"), ResolveContext{}, 0)
	require.NotNil(t, mc)
	assert.Equal(t, g, mc.Callable)
	assert.Equal(t, 0, mc.ImplicitOffset)

	f.r.returns[prop] = pythontype.Instance{Class: f.a}
	assert.Nil(t, ResolveCallee(ctx, f.r, parseCallExpr(t, "a.p(1)"), ResolveContext{}, 0))
}

func TestResolveCalleeLambda(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	call := parseCallExpr(t, "(lambda x, y=2: x)(1)")

	m := MapArguments(ctx, f.r, call, ResolveContext{}, 0)
	require.NotNil(t, m.Callee)
	assert.Equal(t, "<lambda>", m.Callee.Callable.Name)
	assert.Equal(t, map[string][]string{"x": {"1"}}, bound(m))
	assert.Empty(t, m.UnmappedParameters)
}

func TestResolveCalleeUnknown(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()

	assert.Nil(t, ResolveCallee(ctx, f.r, parseCallExpr(t, "unknown(1)"), ResolveContext{}, 0))
	assert.Nil(t, ResolveCalleeClass(ctx, f.r, parseCallExpr(t, "unknown(1)")))
	assert.Nil(t, ResolveCalleeFunction(ctx, f.r, parseCallExpr(t, "unknown(1)"), ResolveContext{}))

	problems, _ := Diagnose(ctx, f.r, parseCallExpr(t, "unknown(1)"), ResolveContext{})
	require.Len(t, problems, 1)
	assert.Equal(t, UnresolvedCallee, problems[0].Kind)
}

func TestDiagnose(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()

	problems, m := Diagnose(ctx, f.r, parseCallExpr(t, "a.m(1, 2, k=3)"), ResolveContext{})
	require.NotNil(t, m.Callee)
	require.Len(t, problems, 2)
	assert.Equal(t, UnexpectedArgument, problems[0].Kind)
	assert.Equal(t, UnexpectedArgument, problems[1].Kind)

	problems, _ = Diagnose(ctx, f.r, parseCallExpr(t, "a.m()"), ResolveContext{})
	require.Len(t, problems, 1)
	assert.Equal(t, MissingArgument, problems[0].Kind)
	assert.Equal(t, "parameter 'x' of A.m is unfilled", problems[0].Message)

	problems, _ = Diagnose(ctx, f.r, parseCallExpr(t, "a.m(1)"), ResolveContext{})
	assert.Empty(t, problems)
}

func TestImplicitArgumentCountForReference(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()

	ref, err := pythonparser.ParseExpr(ctx, []byte("a.m"), pythonparser.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ImplicitArgumentCount(ctx, f.r, ref, f.m))

	ref, err = pythonparser.ParseExpr(ctx, []byte("A.m"), pythonparser.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, ImplicitArgumentCount(ctx, f.r, ref, f.m))

	assert.Equal(t, 0, ImplicitArgumentCount(ctx, f.r, ref, nil))
}

func TestImplicitArgumentCountInDecorator(t *testing.T) {
	f := newCalleeFixture()
	ctx := kitectx.Background()
	src := "@deco\ndef g(): pass\n\n@factory(x)\ndef h(): pass\n"
	mod, err := pythonparser.Parse(ctx, []byte(src), pythonparser.Options{})
	require.NoError(t, err)
	f.r.parents = pythonast.ConstructParentTable(mod, pythonast.CountNodes(mod))

	deco := &pythontype.Function{Name: "deco", Params: parameters("fn")}

	g := mod.Body[0].(*pythonast.FunctionDefStmt)
	assert.Equal(t, 1, ImplicitArgumentCount(ctx, f.r, g.Decorators[0], deco))

	h := mod.Body[1].(*pythonast.FunctionDefStmt)
	factoryCall := h.Decorators[0].(*pythonast.CallExpr)
	assert.Equal(t, 1, ImplicitArgumentCount(ctx, f.r, factoryCall.Func, deco))
	// arguments of a decorator call are not part of its callee
	assert.Equal(t, 0, ImplicitArgumentCount(ctx, f.r, factoryCall.Args[0].Value, deco))
}
