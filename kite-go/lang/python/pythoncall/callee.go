package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// MarkedCallee is the callable a call resolves to, along with how the call
// passes implicit arguments to it
type MarkedCallee struct {
	Callable *pythontype.Function
	Modifier pythontype.Modifier
	// ImplicitOffset is the number of leading parameters that callers do not
	// pass explicitly
	ImplicitOffset int
	// Implicit is true if the callee was found through an implicit lookup
	Implicit bool
}

// ResolveCallee resolves the callee of a call. The offset is added to the
// number of implicit arguments. The result is nil if the callee cannot be
// resolved to a callable, or if it resolves to more than one candidate.
func ResolveCallee(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, rctx ResolveContext, offset int) *MarkedCallee {
	ctx.CheckAbort()

	if call == nil || call.Func == nil {
		return nil
	}
	callee := call.Func
	if len(r.Resolve(ctx, callee)) > 1 {
		return nil
	}

	var followed Followed
	if isReference(callee) {
		followed = r.FollowAssignments(ctx, callee, rctx)
	} else {
		followed.Element = expressionValue(r, callee)
	}
	resolved := followed.Element

	var isConstructorCall bool
	wrappedModifier := pythontype.NoModifier
	switch v := resolved.(type) {
	case *pythontype.Class:
		resolved = nil
		if init := v.FindInitOrNew(); init != nil {
			resolved = init
		}
		isConstructorCall = true
	case pythontype.Expression:
		if inner, ok := v.Expr.(*pythonast.CallExpr); ok {
			if fn, modifier := InterpretAsModifierWrappingCall(ctx, r, inner); fn != nil {
				resolved = fn
				wrappedModifier = modifier
			}
		}
	}

	if fn, ok := resolved.(*pythontype.Function); ok && fn.Property && isQualifiedByInstance(ctx, r, fn, followed.Qualifiers) {
		resolved = nil
		switch rt := r.ReturnType(ctx, fn, nil).(type) {
		case *pythontype.Function:
			resolved = rt
		case pythontype.BoundMethod:
			resolved = rt
		}
	}

	var fn *pythontype.Function
	var isBound bool
	switch v := resolved.(type) {
	case *pythontype.Function:
		fn = v
	case pythontype.BoundMethod:
		fn = v.Func
		isBound = true
	}
	if fn == nil {
		return nil
	}

	modifier := fn.Modifier
	if modifier == pythontype.NoModifier {
		modifier = wrappedModifier
	}

	qualifiers := followed.Qualifiers
	isByInstance := isConstructorCall || isQualifiedByInstance(ctx, r, fn, qualifiers) || isBound
	var isByClass bool
	if n := len(qualifiers); n > 0 && qualifiers[n-1] != nil {
		isByClass = isQualifiedByClass(ctx, r, fn, qualifiers[n-1])
	}

	offset += implicitArgumentCount(fn, modifier, isConstructorCall, isByInstance, isByClass)
	if offset < 0 {
		offset = 0
	}
	return &MarkedCallee{
		Callable:       fn,
		Modifier:       modifier,
		ImplicitOffset: offset,
		Implicit:       followed.Implicit,
	}
}

// InterpretAsModifierWrappingCall recognizes calls of the form
// "staticmethod(f)" and "classmethod(f)" where the callee is the builtin and
// f is a function, returning the wrapped function and the modifier.
func InterpretAsModifierWrappingCall(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr) (*pythontype.Function, pythontype.Modifier) {
	var modifier pythontype.Modifier
	switch {
	case IsCalleeText(call, "classmethod"):
		modifier = pythontype.ClassMethod
	case IsCalleeText(call, "staticmethod"):
		modifier = pythontype.StaticMethod
	default:
		return nil, pythontype.NoModifier
	}
	if !isBuiltinCallee(ctx, r, call.Func, modifier.String()) {
		return nil, pythontype.NoModifier
	}

	if len(call.Args) != 1 {
		return nil, pythontype.NoModifier
	}
	arg := call.Args[0]
	if arg.Stars() != 0 || arg.Name != nil || !isReference(arg.Value) {
		return nil, pythontype.NoModifier
	}
	fn, ok := resolveOne(ctx, r, arg.Value).(*pythontype.Function)
	if !ok {
		return nil, pythontype.NoModifier
	}
	return fn, modifier
}

// isBuiltinCallee returns true if the callee resolves to the named builtin
// class, or to its constructor
func isBuiltinCallee(ctx kitectx.Context, r Resolver, callee pythonast.Expr, name string) bool {
	builtin := r.Builtin(name)
	if builtin == nil {
		return false
	}
	resolved := resolveOne(ctx, r, callee)
	if resolved == nil {
		return false
	}
	if pythontype.Equal(resolved, builtin) {
		return true
	}
	if cls, ok := builtin.(*pythontype.Class); ok {
		if init := cls.FindInitOrNew(); init != nil && resolved == pythontype.Value(init) {
			return true
		}
	}
	return false
}

// ResolveCalleeClass gets the class whose constructor or method is called,
// or nil if the callee is not a class or method
func ResolveCalleeClass(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr) *pythontype.Class {
	ctx.CheckAbort()

	var resolved pythontype.Value
	if isReference(call.Func) {
		resolved = r.FollowAssignments(ctx, call.Func, ResolveContext{}).Element
	} else {
		resolved = expressionValue(r, call.Func)
	}

	switch v := resolved.(type) {
	case *pythontype.Class:
		return v
	case *pythontype.Function:
		return v.Class
	case pythontype.BoundMethod:
		return v.Func.Class
	}
	return nil
}

// ResolveCalleeFunction gets the function a call invokes: the constructor for
// calls to classes, and the wrapped function for modifier wrapping calls.
func ResolveCalleeFunction(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, rctx ResolveContext) *pythontype.Function {
	ctx.CheckAbort()

	var resolved pythontype.Value
	if isReference(call.Func) {
		resolved = r.FollowAssignments(ctx, call.Func, rctx).Element
	} else {
		resolved = expressionValue(r, call.Func)
	}

	switch v := resolved.(type) {
	case *pythontype.Class:
		return v.FindInitOrNew()
	case *pythontype.Function:
		return v
	case pythontype.BoundMethod:
		return v.Func
	case pythontype.Expression:
		if inner, ok := v.Expr.(*pythonast.CallExpr); ok {
			fn, _ := InterpretAsModifierWrappingCall(ctx, r, inner)
			return fn
		}
	}
	return nil
}

// expressionValue gets the value of a callee that is not a reference
func expressionValue(r Resolver, expr pythonast.Expr) pythontype.Value {
	switch expr := expr.(type) {
	case *pythonast.LambdaExpr:
		var mod *pythontype.Module
		if fn := r.EnclosingFunction(expr); fn != nil {
			mod = fn.Module
		}
		return pythontype.NewLambda(expr, mod)
	case nil:
		return nil
	default:
		return pythontype.Expression{Expr: expr}
	}
}
