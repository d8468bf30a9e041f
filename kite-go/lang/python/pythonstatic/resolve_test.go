package pythonstatic

import (
	"testing"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefinitions(t *testing.T) {
	src := `
def f(): pass
class A: pass
x = 1
f
A
x
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	vals := a.Resolve(ctx, findExpr(t, a, src, "f"))
	require.Len(t, vals, 1)
	assert.Equal(t, function(t, a, "f"), vals[0])

	vals = a.Resolve(ctx, findExpr(t, a, src, "A"))
	require.Len(t, vals, 1)
	assert.Equal(t, class(t, a, "A"), vals[0])

	vals = a.Resolve(ctx, findExpr(t, a, src, "x"))
	require.Len(t, vals, 1)
	expr, ok := vals[0].(pythontype.Expression)
	require.True(t, ok)
	assert.IsType(t, &pythonast.NumberExpr{}, expr.Expr)
}

func TestResolveRedefinition(t *testing.T) {
	src := `
def f(): pass
def f(x): pass
f()
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, "f()").Func)
	require.Len(t, vals, 1)
	assert.Equal(t, a.Functions[a.AST.Body[1].(*pythonast.FunctionDefStmt)], vals[0])
}

func TestResolveConditionalDefinition(t *testing.T) {
	src := `
def f(): pass
if cond:
    def f(x): pass
f()
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, "f()").Func)
	assert.Len(t, vals, 2)
}

func TestResolveBeforeRebinding(t *testing.T) {
	src := `
x = 1
print(x)
x = "a"
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, "print(x)").Args[0].Value)
	require.Len(t, vals, 1)
	expr, ok := vals[0].(pythontype.Expression)
	require.True(t, ok)
	assert.IsType(t, &pythonast.NumberExpr{}, expr.Expr)
}

func TestResolveLaterDefinitionFromFunction(t *testing.T) {
	src := `
def g():
    return h()

def h(): pass
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, "h()").Func)
	require.Len(t, vals, 1)
	assert.Equal(t, function(t, a, "h"), vals[0])
}

func TestResolveClassScopeHiddenFromMethods(t *testing.T) {
	src := `
x = 1
class A(object):
    x = "a"
    y = x
    def m(self):
        return x
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	assert.Equal(t, "instance:int", a.ReturnType(ctx, function(t, a, "A.m"), nil).String())

	y, ok := class(t, a, "A").Members["y"].(pythontype.Expression)
	require.True(t, ok)
	assert.Equal(t, "instance:str", a.TypeOf(ctx, y.Expr).String())
}

func TestResolveGlobal(t *testing.T) {
	src := `
def f():
    global g
    g = 1

def k():
    return g
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	vals := a.Resolve(ctx, findExpr(t, a, src, "g"))
	require.Len(t, vals, 1)
	assert.Equal(t, "instance:int", a.ReturnType(ctx, function(t, a, "k"), nil).String())
}

func TestResolveParameters(t *testing.T) {
	src := `
def f(a, b=1):
    return b

l = lambda y: y
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	vals := a.Resolve(ctx, findExpr(t, a, src, "b"))
	require.Len(t, vals, 1)
	p, ok := vals[0].(*pythontype.Param)
	require.True(t, ok)
	assert.Equal(t, 1, p.Index)
	assert.Equal(t, function(t, a, "f"), p.Func)

	vals = a.Resolve(ctx, findExpr(t, a, src, "y"))
	require.Len(t, vals, 1)
	p, ok = vals[0].(*pythontype.Param)
	require.True(t, ok)
	assert.Nil(t, p.Func)
}

func TestResolveComprehensionTarget(t *testing.T) {
	src := `
x = "outer"
ys = [x for x in range(3)]
`
	a := analyze(t, src)
	comp := assigned(t, a, "ys").(*pythonast.ComprehensionExpr)

	vals := a.Resolve(kitectx.Background(), comp.Value)
	assert.Empty(t, vals)
}

func TestResolveBuiltins(t *testing.T) {
	src := `
len("a")
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, `len("a")`).Func)
	require.Len(t, vals, 1)
	fn, ok := vals[0].(*pythontype.Function)
	require.True(t, ok)
	assert.True(t, fn.Builtin)
	assert.Equal(t, "len", fn.Name)
}

func TestResolveShadowedBuiltin(t *testing.T) {
	src := `
def len(x): pass
len(1)
`
	a := analyze(t, src)
	vals := a.Resolve(kitectx.Background(), findCall(t, a, src, "len(1)").Func)
	require.Len(t, vals, 1)
	fn, ok := vals[0].(*pythontype.Function)
	require.True(t, ok)
	assert.False(t, fn.Builtin)
}

func TestResolveImports(t *testing.T) {
	src := `
import os.path
import numpy as np
from collections import OrderedDict
os.path
np
OrderedDict
`
	a := analyze(t, src)
	ctx := kitectx.Background()

	vals := a.Resolve(ctx, findExpr(t, a, src, "os.path"))
	require.Len(t, vals, 1)
	assert.Equal(t, "module:os.path", vals[0].String())

	vals = a.Resolve(ctx, findExpr(t, a, src, "np"))
	require.Len(t, vals, 1)
	assert.Equal(t, "module:numpy", vals[0].String())

	assert.Empty(t, a.Resolve(ctx, findExpr(t, a, src, "OrderedDict")))
}

func TestResolveAttributes(t *testing.T) {
	src := `
class A(object):
    def __init__(self):
        self.x = 1
    def m(self): pass

a = A()
a.m
a.x
A.m
`
	a := analyze(t, src)
	ctx := kitectx.Background()
	m := function(t, a, "A.m")

	assert.Equal(t, []pythontype.Value{m}, a.Resolve(ctx, findExpr(t, a, src, "a.m")))
	assert.Equal(t, []pythontype.Value{m}, a.Resolve(ctx, findExpr(t, a, src, "A.m")))

	vals := a.Resolve(ctx, findExpr(t, a, src, "a.x"))
	require.Len(t, vals, 1)
	assert.IsType(t, pythontype.Expression{}, vals[0])
}

func TestFollowAssignments(t *testing.T) {
	src := `
class A(object):
    def m(self): pass

a = A()
g = a.m
h = g
h()
`
	a := analyze(t, src)
	followed := a.FollowAssignments(kitectx.Background(), findCall(t, a, src, "h()").Func, pythoncall.ResolveContext{})

	assert.Equal(t, function(t, a, "A.m"), followed.Element)
	require.Len(t, followed.Qualifiers, 1)
	assert.Equal(t, "a", nodeText(src, followed.Qualifiers[0]))
	assert.False(t, followed.Implicit)
}

func TestFollowAssignmentsStopsAtValues(t *testing.T) {
	src := `
x = f(1)
y = x
y()
`
	a := analyze(t, src)
	followed := a.FollowAssignments(kitectx.Background(), findCall(t, a, src, "y()").Func, pythoncall.ResolveContext{})

	expr, ok := followed.Element.(pythontype.Expression)
	require.True(t, ok)
	assert.Equal(t, "f(1)", nodeText(src, expr.Expr))
}

func TestFollowAssignmentsCycle(t *testing.T) {
	src := `
a = b
b = a
a()
`
	a := analyze(t, src)
	followed := a.FollowAssignments(kitectx.Background(), findCall(t, a, src, "a()").Func, pythoncall.ResolveContext{})
	assert.Nil(t, followed.Element)
}

func TestFollowAssignmentsImplicit(t *testing.T) {
	src := `
class A(object):
    def unique(self, x): pass
    def shared(self): pass

class B(object):
    def shared(self): pass

def f(o):
    o.unique(1)
    o.shared()
`
	a := analyze(t, src)
	ctx := kitectx.Background()
	unique := findExpr(t, a, src, "o.unique")

	followed := a.FollowAssignments(ctx, unique, pythoncall.ResolveContext{})
	assert.Nil(t, followed.Element)

	followed = a.FollowAssignments(ctx, unique, pythoncall.ResolveContext{AllowImplicits: true})
	assert.Equal(t, function(t, a, "A.unique"), followed.Element)
	assert.True(t, followed.Implicit)

	followed = a.FollowAssignments(ctx, findExpr(t, a, src, "o.shared"), pythoncall.ResolveContext{AllowImplicits: true})
	assert.Nil(t, followed.Element)
}
