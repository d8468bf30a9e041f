package pythonstatic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOfLiterals(t *testing.T) {
	cases := []struct {
		expr     string
		expected string
	}{
		{"1", "instance:int"},
		{"1.5", "instance:float"},
		{"1j", "instance:complex"},
		{`"s"`, "instance:str"},
		{`b"s"`, "instance:bytes"},
		{"[1]", "instance:list"},
		{"(1, 2)", "instance:tuple"},
		{"{}", "instance:dict"},
		{"{1}", "instance:set"},
		{"{1: 2}", "instance:dict"},
		{"[x for x in y]", "instance:list"},
		{"{x for x in y}", "instance:set"},
		{"{x: 1 for x in y}", "instance:dict"},
		{"None", "None"},
		{"True", "instance:bool"},
		{"not y", "instance:bool"},
		{"1 < 2", "instance:bool"},
		{"y is not None", "instance:bool"},
		{`"a" + "b"`, "instance:str"},
		{"-1", "instance:int"},
	}

	var lines []string
	for i, c := range cases {
		lines = append(lines, fmt.Sprintf("v%d = %s", i, c.expr))
	}
	a := analyze(t, strings.Join(lines, "\n")+"\n")
	ctx := kitectx.Background()

	for i, c := range cases {
		typ := a.TypeOf(ctx, assigned(t, a, fmt.Sprintf("v%d", i)))
		require.NotNil(t, typ, c.expr)
		assert.Equal(t, c.expected, typ.String(), c.expr)
	}
}

func TestTypeOfUnknown(t *testing.T) {
	src := `
u0 = y
u1 = 1 + "a"
u2 = f(1)
x = x
u3 = x
`
	a := analyze(t, src)
	ctx := kitectx.Background()
	for i := 0; i < 4; i++ {
		assert.Nil(t, a.TypeOf(ctx, assigned(t, a, fmt.Sprintf("u%d", i))))
	}
}

func TestTypeOfBytesPython2(t *testing.T) {
	a := analyzeWith(t, "v = b\"s\"\n", Options{Version: pythontype.Python2})
	assert.Equal(t, "instance:str", a.TypeOf(kitectx.Background(), assigned(t, a, "v")).String())
}

func TestTypeOfConditional(t *testing.T) {
	src := `
v = 1 if y else "a"
w = y or 1
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	assert.Len(t, pythontype.Disjuncts(a.TypeOf(ctx, assigned(t, a, "v"))), 2)
	assert.Equal(t, "instance:int", a.TypeOf(ctx, assigned(t, a, "w")).String())
}

func TestTypeOfMembers(t *testing.T) {
	src := `
class A(object):
    def __init__(self):
        self.x = 1

    def m(self):
        return self

    @classmethod
    def c(cls):
        return cls

    @staticmethod
    def s():
        return 1

    @property
    def p(self):
        return "a"

a = A()
ax = a.x
am = a.m
ap = a.p
as_ = a.s
cm = A.m
`
	a := analyze(t, src)
	ctx := kitectx.Background()
	cls := class(t, a, "A")

	assert.Equal(t, pythontype.Instance{Class: cls}, a.TypeOf(ctx, assigned(t, a, "a")))
	assert.Equal(t, "instance:int", a.TypeOf(ctx, assigned(t, a, "ax")).String())
	assert.Equal(t, "instance:str", a.TypeOf(ctx, assigned(t, a, "ap")).String())

	bound, ok := a.TypeOf(ctx, assigned(t, a, "am")).(pythontype.BoundMethod)
	require.True(t, ok)
	assert.Equal(t, function(t, a, "A.m"), bound.Func)
	assert.Equal(t, pythontype.Instance{Class: cls}, bound.Receiver)

	assert.Equal(t, function(t, a, "A.s"), a.TypeOf(ctx, assigned(t, a, "as_")))
	assert.Equal(t, function(t, a, "A.m"), a.TypeOf(ctx, assigned(t, a, "cm")))

	assert.Equal(t, pythontype.Instance{Class: cls}, a.ReturnType(ctx, function(t, a, "A.m"), nil))
	assert.Equal(t, cls, a.ReturnType(ctx, function(t, a, "A.c"), nil))
	assert.Equal(t, "instance:int", a.ReturnType(ctx, function(t, a, "A.s"), nil).String())
}

func TestTypeOfParameters(t *testing.T) {
	src := `
class A(object):
    def __new__(cls): pass

def f(a: int, b="s", *args, **kwargs):
    return a, b, args, kwargs

def g(x: Unknown = 1.5):
    return x
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	f := function(t, a, "f")
	var types []string
	for i := range f.Params {
		p := &pythontype.Param{Func: f, Index: i, Node: f.Params[i]}
		types = append(types, a.paramType(ctx, p).String())
	}
	assert.Equal(t, []string{"instance:int", "instance:str", "instance:tuple", "instance:dict"}, types)

	assert.Equal(t, "instance:float", a.ReturnType(ctx, function(t, a, "g"), nil).String())

	nw := function(t, a, "A.__new__")
	cls := a.paramType(ctx, &pythontype.Param{Func: nw, Index: 0, Node: nw.Params[0]})
	assert.Equal(t, class(t, a, "A"), cls)
}

func TestReturnType(t *testing.T) {
	src := `
def f(x):
    if x:
        return 1
    return "a"

def g(): pass

def h() -> int: pass

def k():
    yield 1

def r():
    return r()

def n():
    def inner():
        return 1
    return

l = lambda: 1.5
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	assert.Len(t, pythontype.Disjuncts(a.ReturnType(ctx, function(t, a, "f"), nil)), 2)
	assert.Equal(t, pythontype.None, a.ReturnType(ctx, function(t, a, "g"), nil))
	assert.Equal(t, "instance:int", a.ReturnType(ctx, function(t, a, "h"), nil).String())
	assert.Nil(t, a.ReturnType(ctx, function(t, a, "k"), nil))
	assert.Nil(t, a.ReturnType(ctx, function(t, a, "r"), nil))
	assert.Equal(t, pythontype.None, a.ReturnType(ctx, function(t, a, "n"), nil))
	assert.Nil(t, a.ReturnType(ctx, nil, nil))

	lambda, ok := a.TypeOf(ctx, assigned(t, a, "l")).(*pythontype.Function)
	require.True(t, ok)
	assert.Equal(t, "instance:float", a.ReturnType(ctx, lambda, nil).String())
}

func TestReturnTypeBuiltins(t *testing.T) {
	a := analyze(t, "\n")
	ctx := kitectx.Background()

	fn := a.Builtin("len").(*pythontype.Function)
	assert.Equal(t, "instance:int", a.ReturnType(ctx, fn, nil).String())

	fn = a.Builtin("print").(*pythontype.Function)
	assert.Equal(t, pythontype.None, a.ReturnType(ctx, fn, nil))

	// builtins without an annotation have an unknown result
	fn = a.Builtin("abs").(*pythontype.Function)
	assert.Nil(t, a.ReturnType(ctx, fn, nil))
}

func TestCallTypes(t *testing.T) {
	src := `
class A(object):
    def __init__(self, x): pass

class B(A): pass

class C(object):
    def __call__(self) -> str: pass

def make():
    return A(1)

b = B(1)
t = type(b)
n = len("abc")
s = ",".join([])
m = make()
c = C()()
e = ValueError("x")
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	assert.Equal(t, pythontype.Instance{Class: class(t, a, "B")}, a.TypeOf(ctx, assigned(t, a, "b")))
	assert.Equal(t, class(t, a, "B"), a.TypeOf(ctx, assigned(t, a, "t")))
	assert.Equal(t, "instance:int", a.TypeOf(ctx, assigned(t, a, "n")).String())
	assert.Equal(t, "instance:str", a.TypeOf(ctx, assigned(t, a, "s")).String())
	assert.Equal(t, pythontype.Instance{Class: class(t, a, "A")}, a.TypeOf(ctx, assigned(t, a, "m")))
	assert.Equal(t, "instance:str", a.TypeOf(ctx, assigned(t, a, "c")).String())
	assert.Equal(t, "instance:ValueError", a.TypeOf(ctx, assigned(t, a, "e")).String())
}

func TestCallTypeSuper(t *testing.T) {
	src := `
class A(object):
    def m(self):
        return 1

class B(A):
    def m(self):
        return super().m()

    def explicit(self):
        return super(B, self)

    def implicit(self):
        return super()
`
	a := analyze(t, src)
	ctx := kitectx.Background()
	instA := pythontype.Instance{Class: class(t, a, "A")}

	assert.Equal(t, "instance:int", a.ReturnType(ctx, function(t, a, "B.m"), nil).String())
	assert.Equal(t, instA, a.ReturnType(ctx, function(t, a, "B.explicit"), nil))
	assert.Equal(t, instA, a.ReturnType(ctx, function(t, a, "B.implicit"), nil))
}

func TestCallTypeSuperPython2(t *testing.T) {
	src := `
class A(object): pass

class B(A):
    def implicit(self):
        return super()
`
	a := analyzeWith(t, src, Options{Version: pythontype.Python2})

	// the zero argument form is a plain call of the super constructor
	typ := a.ReturnType(kitectx.Background(), function(t, a, "B.implicit"), nil)
	assert.Equal(t, "instance:super", typ.String())
}
