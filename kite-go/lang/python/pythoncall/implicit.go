package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// implicitArgumentCount gets the number of leading parameters of the callable
// that are filled in by python rather than by the caller: "self" for calls
// through an instance or constructor calls, "cls" for class methods.
func implicitArgumentCount(fn *pythontype.Function, modifier pythontype.Modifier, isConstructorCall, isByInstance, isByClass bool) int {
	var count int

	firstIsArgsOrKwargs := false
	if len(fn.Params) > 0 {
		first := fn.Params[0]
		firstIsArgsOrKwargs = first.Stars() > 0 && first.Name != nil
	}
	if !firstIsArgsOrKwargs && (isByInstance || isConstructorCall) {
		count++
	}

	if !fn.AsMethod() {
		return count
	}

	switch {
	case fn.Name == "__new__":
		if isConstructorCall {
			return 1
		}
		return 0
	case fn.Name == "__init__" && !isByInstance && !isByClass:
		// A.__init__(self, ...) with an explicit receiver from outside the hierarchy
		return 1
	}

	switch modifier {
	case pythontype.StaticMethod:
		if isByInstance && count > 0 {
			count--
		}
	case pythontype.ClassMethod:
		if !isByInstance {
			count++
		}
	}
	return count
}

// ImplicitArgumentCount gets the number of implicit leading arguments of fn
// when it is called through the reference. References in the callee of a
// decorator always get one implicit argument, the decorated definition.
func ImplicitArgumentCount(ctx kitectx.Context, r Resolver, ref pythonast.Expr, fn *pythontype.Function) int {
	ctx.CheckAbort()

	if fn == nil {
		return 0
	}
	if inDecoratorCallee(r, ref) {
		return 1
	}

	followed := r.FollowAssignments(ctx, ref, ResolveContext{})
	byInstance := isQualifiedByInstance(ctx, r, fn, followed.Qualifiers)
	// by class and by instance deliberately share the instance test here
	return implicitArgumentCount(fn, fn.Modifier, false, byInstance, byInstance)
}

// inDecoratorCallee returns true if the expression is part of the callee of
// a decorator, e.g. "deco" in "@deco" or "@deco(1)"
func inDecoratorCallee(r Resolver, expr pythonast.Expr) bool {
	var path []pythonast.Node
	var node pythonast.Node = expr
	for node != nil {
		var decorators []pythonast.Expr
		switch parent := r.Parent(node).(type) {
		case *pythonast.FunctionDefStmt:
			decorators = parent.Decorators
		case *pythonast.ClassDefStmt:
			decorators = parent.Decorators
		case pythonast.Stmt, nil:
			return false
		default:
			path = append(path, node)
			node = parent
			continue
		}

		for _, dec := range decorators {
			if pythonast.Node(dec) != node {
				continue
			}
			callee := dec
			if call, ok := dec.(*pythonast.CallExpr); ok {
				callee = call.Func
			}
			for _, n := range append(path, node) {
				if n == pythonast.Node(callee) {
					return true
				}
			}
		}
		return false
	}
	return false
}

// isQualifiedByInstance returns true if a method is accessed through an
// instance of its class. Unqualified methods count as accessed through an
// instance, as do qualifiers of unknown type.
func isQualifiedByInstance(ctx kitectx.Context, r Resolver, fn *pythontype.Function, qualifiers []pythonast.Expr) bool {
	if fn.Class == nil {
		return false
	}
	if len(qualifiers) == 0 {
		return true
	}
	for _, q := range qualifiers {
		if q == nil || isQualifiedByClass(ctx, r, fn, q) {
			continue
		}
		if _, isModule := r.TypeOf(ctx, q).(*pythontype.Module); isModule {
			continue
		}
		return true
	}
	return false
}

// isQualifiedByClass returns true if the qualifier evaluates to a class that
// is related by inheritance to the class that defines the method.
func isQualifiedByClass(ctx kitectx.Context, r Resolver, fn *pythontype.Function, qualifier pythonast.Expr) bool {
	cls, ok := r.TypeOf(ctx, qualifier).(*pythontype.Class)
	if !ok || fn.Class == nil {
		return false
	}
	return cls.IsSubclass(fn.Class) || fn.Class.IsSubclass(cls)
}
