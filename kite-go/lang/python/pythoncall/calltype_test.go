package pythoncall

import (
	"testing"

	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTypeConstructor(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	object := r.builtins["object"].(*pythontype.Class)

	a := newClass("A", object)
	init := method(a, "__init__", "self")
	r.returns[init] = pythontype.None
	r.refs["A"] = []pythontype.Value{a}
	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, parseCallExpr(t, "A()")))

	// the constructor of object is inherited
	b := newClass("B", object)
	r.refs["B"] = []pythontype.Value{b}
	assert.Equal(t, pythontype.Instance{Class: b}, CallType(ctx, r, parseCallExpr(t, "B()")))

	// __new__ may return anything
	c := newClass("C", object)
	method(c, "__new__", "cls")
	r.refs["C"] = []pythontype.Value{c}
	typ := CallType(ctx, r, parseCallExpr(t, "C()"))
	assert.True(t, pythontype.IsWeak(typ))
	assert.Equal(t, "(instance:C | ?)", typ.String())

	// an explicit call to __init__ through the class
	r.refs["A.__init__"] = []pythontype.Value{init}
	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, parseCallExpr(t, "A.__init__(x)")))
}

func TestCallTypeFunction(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	a := newClass("A")

	f := &pythontype.Function{Name: "f"}
	r.refs["f"] = []pythontype.Value{f}
	assert.Nil(t, CallType(ctx, r, parseCallExpr(t, "f()")))

	r.returns[f] = pythontype.Instance{Class: a}
	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, parseCallExpr(t, "f()")))

	g := &pythontype.Function{Name: "g"}
	r.returns[g] = pythontype.None
	r.refs["h"] = []pythontype.Value{f, g}
	typ := CallType(ctx, r, parseCallExpr(t, "h()"))
	assert.True(t, pythontype.Equal(pythontype.UniteNoCtx(pythontype.Instance{Class: a}, pythontype.None), typ))

	// a target with an unknown result makes the union weak
	k := &pythontype.Function{Name: "k"}
	r.refs["h"] = []pythontype.Value{f, k}
	typ = CallType(ctx, r, parseCallExpr(t, "h()"))
	assert.True(t, pythontype.IsWeak(typ))

	// targets that are not callable do not contribute
	r.refs["x"] = []pythontype.Value{pythontype.Expression{}}
	assert.Nil(t, CallType(ctx, r, parseCallExpr(t, "x()")))
}

func TestCallTypeCallableInstance(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	a := newClass("A")
	k := newClass("K")
	call := method(k, "__call__", "self")
	r.returns[call] = pythontype.Instance{Class: a}

	factory := &pythontype.Function{Name: "factory"}
	r.returns[factory] = pythontype.Instance{Class: k}
	r.refs["factory"] = []pythontype.Value{factory}

	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, parseCallExpr(t, "factory()()")))

	// instances without __call__ cannot be called
	r.returns[factory] = pythontype.Instance{Class: a}
	assert.Nil(t, CallType(ctx, r, parseCallExpr(t, "factory()()")))
}

func TestCallTypeSuperWithArguments(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	object := r.builtins["object"].(*pythontype.Class)
	a := newClass("A", object)
	b := newClass("B", object)
	c := newClass("C", a, b)
	d := newClass("D", c)
	r.refs["C"] = []pythontype.Value{c}

	// super(C, self) with self an instance of C: the direct superclasses
	r.types["self"] = pythontype.Instance{Class: c}
	typ := CallType(ctx, r, parseCallExpr(t, "super(C, self)"))
	assert.True(t, pythontype.Equal(pythontype.UniteNoCtx(pythontype.Instance{Class: a}, pythontype.Instance{Class: b}), typ))

	// super(C, self) with self an instance of a subclass: the next class in the mro
	r.types["self"] = pythontype.Instance{Class: d}
	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, parseCallExpr(t, "super(C, self)")))

	// super(C, cls) in a class method
	r.types["cls"] = c
	typ = CallType(ctx, r, parseCallExpr(t, "super(C, cls)"))
	assert.Len(t, pythontype.Disjuncts(typ), 2)

	// unrelated second argument
	r.types["other"] = pythontype.Instance{Class: a}
	assert.Nil(t, CallType(ctx, r, parseCallExpr(t, "super(C, other)")))
}

func TestCallTypeSuperOfClassAttribute(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	object := r.builtins["object"].(*pythontype.Class)
	a := newClass("A", object)
	b := newClass("B", a)

	call := parseCallExpr(t, "super(self.__class__, self)")
	r.classes[call] = b
	r.refs["self"] = []pythontype.Value{&pythontype.Param{Index: 0}}
	r.types["self"] = pythontype.Instance{Class: b}

	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, call))
}

func TestCallTypeSuperNoArguments(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	object := r.builtins["object"].(*pythontype.Class)
	a := newClass("A", object)
	b := newClass("B", a)

	call := parseCallExpr(t, "super()")
	r.classes[call] = b
	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, call))

	// python 2 requires explicit arguments, so this is just an instance of super
	r.level = pythontype.Python2
	super := r.builtins["super"].(*pythontype.Class)
	assert.Equal(t, pythontype.Instance{Class: super}, CallType(ctx, r, call))
}

func TestCallTypeShadowedSuper(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	fake := &pythontype.Function{Name: "super"}
	r.returns[fake] = pythontype.None
	r.refs["super"] = []pythontype.Value{fake}

	call := parseCallExpr(t, "super()")
	r.classes[call] = newClass("B", newClass("A"))
	assert.Equal(t, pythontype.Value(pythontype.None), CallType(ctx, r, call))
}

func TestCallTypeType(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	a := newClass("A")
	r.types["x"] = pythontype.Instance{Class: a}

	assert.Equal(t, pythontype.Value(a), CallType(ctx, r, parseCallExpr(t, "type(x)")))
	assert.Nil(t, CallType(ctx, r, parseCallExpr(t, "type(unknown)")))

	// the type of a class is left to the normal rules
	r.types["A"] = a
	typ := r.builtins["type"].(*pythontype.Class)
	assert.Equal(t, pythontype.Instance{Class: typ}, CallType(ctx, r, parseCallExpr(t, "type(A)")))
}

func TestCallTypeReentrant(t *testing.T) {
	r := newFakeResolver()
	ctx := kitectx.Background()
	a := newClass("A")
	r.refs["A"] = []pythontype.Value{a}

	call := parseCallExpr(t, "A()")
	require.True(t, r.stack.MayEvaluate(call))
	assert.Nil(t, CallType(ctx, r, call))
	r.stack.Evaluated(call)

	assert.Equal(t, pythontype.Instance{Class: a}, CallType(ctx, r, call))
	assert.Equal(t, 0, r.stack.Depth())
}
