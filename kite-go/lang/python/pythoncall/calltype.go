package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// CallType infers the type of the result of a call, or nil if it is unknown.
// Calls to super and type are handled specially. A call that is
// reentered while its own type is being inferred evaluates to nil.
func CallType(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr) pythontype.Value {
	ctx.CheckAbort()

	stack := r.EvalStack()
	if !stack.MayEvaluate(call) {
		return nil
	}
	defer stack.Evaluated(call)

	callee := call.Func
	if isReference(callee) {
		switch calleeText(callee) {
		case "super":
			if t, defined := superCallType(ctx, r, call); defined {
				return t
			}
		case "type":
			if len(call.Args) == 1 {
				switch t := r.TypeOf(ctx, call.Args[0].Value).(type) {
				case pythontype.Instance:
					if t.Class != nil {
						return t.Class
					}
				case *pythontype.Class:
					// type(C) for a class C is its metaclass, which is not modeled
				default:
					return nil
				}
			}
		}

		var members []pythontype.Value
		var contributed bool
		for _, target := range r.Resolve(ctx, callee) {
			if target == nil {
				continue
			}
			if t, ok := callTargetReturnType(ctx, r, call, target); ok {
				members = append(members, t)
				contributed = true
			}
		}
		if contributed {
			return uniteMembers(ctx, members)
		}
	}

	if callee == nil {
		return nil
	}
	return callTypeOf(ctx, r, call, r.TypeOf(ctx, callee))
}

// callTargetReturnType gets the result of calling one of the definitions a
// callee resolves to. The second result is false if the target is not
// callable, which is distinct from a callable whose result is unknown.
func callTargetReturnType(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, target pythontype.Value) (pythontype.Value, bool) {
	var cls *pythontype.Class
	var init *pythontype.Function
	switch t := target.(type) {
	case *pythontype.Class:
		cls = t
		init = t.FindInitOrNew()
	case *pythontype.Function:
		if t.Name == "__init__" {
			init = t
			cls = t.Class
		}
	}

	if init != nil {
		t := r.ReturnType(ctx, init, call)
		if cls != nil && init.Class != cls {
			// inherited constructor
			return pythontype.Instance{Class: cls}, true
		}
		if t != nil && t.Kind() != pythontype.NoneKind {
			return t, true
		}
		if cls != nil && t == nil {
			if nw := cls.FindMethod("__new__"); nw != nil && !nw.Builtin {
				return pythontype.WeakUnite(ctx, pythontype.Instance{Class: cls}), true
			}
		}
	}
	if cls != nil {
		return pythontype.Instance{Class: cls}, true
	}

	switch t := target.(type) {
	case *pythontype.Function:
		return r.ReturnType(ctx, t, call), true
	case pythontype.BoundMethod:
		return r.ReturnType(ctx, t.Func, call), true
	}
	return nil, false
}

// callTypeOf gets the result of calling a value of the given type
func callTypeOf(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, typ pythontype.Value) pythontype.Value {
	switch t := typ.(type) {
	case *pythontype.Function, *pythontype.Class, pythontype.BoundMethod:
		v, _ := callTargetReturnType(ctx, r, call, t)
		return v
	case pythontype.Instance:
		if t.Class == nil {
			return nil
		}
		if fn := t.Class.FindMethod("__call__"); fn != nil {
			return r.ReturnType(ctx, fn, call)
		}
	case pythontype.Union:
		var members []pythontype.Value
		for _, c := range t.Constituents {
			members = append(members, callTypeOf(ctx, r, call, c))
		}
		if t.Weak {
			members = append(members, nil)
		}
		return uniteMembers(ctx, members)
	}
	return nil
}

// uniteMembers unites the results of calling several targets. A target with
// an unknown result makes the union weak.
func uniteMembers(ctx kitectx.Context, members []pythontype.Value) pythontype.Value {
	var known []pythontype.Value
	var unknown bool
	for _, m := range members {
		if m == nil {
			unknown = true
			continue
		}
		known = append(known, m)
	}
	if unknown {
		return pythontype.WeakUnite(ctx, known...)
	}
	return pythontype.Unite(ctx, known...)
}

// superCallType infers the type of a call to the builtin super. The second
// result is false if the call is not one of the recognized forms.
func superCallType(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr) (pythontype.Value, bool) {
	if !isSuper(ctx, r, call.Func) {
		return nil, false
	}

	containingClass := r.EnclosingClass(call)
	if len(call.Args) > 1 {
		first := call.Args[0].Value
		if !isReference(first) {
			return nil, false
		}
		if attr, ok := first.(*pythonast.AttributeExpr); ok && attr.Attribute.Literal == "__class__" {
			// super(self.__class__, self)
			if p, ok := resolveOne(ctx, r, attr.Value).(*pythontype.Param); ok && p.Index == 0 {
				return superForArguments(ctx, r, containingClass, call.Args[1].Value), true
			}
		}
		if cls, ok := resolveOne(ctx, r, first).(*pythontype.Class); ok && cls.IsNewStyle(r.LanguageLevel()) {
			return superForArguments(ctx, r, cls, call.Args[1].Value), true
		}
		return nil, false
	}

	if r.LanguageLevel() >= pythontype.Python3 && containingClass != nil {
		return superClassUnion(ctx, containingClass), true
	}
	return nil, false
}

// isSuper returns true if the callee resolves to the builtin super or its
// constructor
func isSuper(ctx kitectx.Context, r Resolver, callee pythonast.Expr) bool {
	super, _ := r.Builtin("super").(*pythontype.Class)
	if super == nil {
		return false
	}
	switch v := resolveOne(ctx, r, callee).(type) {
	case *pythontype.Class:
		return v == super
	case *pythontype.Function:
		return v.Class == super
	}
	return false
}

// superForArguments infers super(first, second), where second must be an
// instance or subclass of first
func superForArguments(ctx kitectx.Context, r Resolver, first *pythontype.Class, second pythonast.Expr) pythontype.Value {
	if first == nil || second == nil {
		return nil
	}

	var secondClass *pythontype.Class
	switch t := r.TypeOf(ctx, second).(type) {
	case pythontype.Instance:
		secondClass = t.Class
	case *pythontype.Class:
		secondClass = t
	}
	if secondClass == nil {
		return nil
	}

	if secondClass == first {
		return superClassUnion(ctx, first)
	}
	if secondClass.IsSubclass(first) {
		if ancestors := first.Ancestors(); len(ancestors) > 0 {
			return pythontype.Instance{Class: ancestors[0]}
		}
	}
	return nil
}

// superClassUnion gets the union of instances of the direct superclasses
func superClassUnion(ctx kitectx.Context, cls *pythontype.Class) pythontype.Value {
	supers := cls.SuperClasses()
	switch len(supers) {
	case 0:
		return nil
	case 1:
		return pythontype.Instance{Class: supers[0]}
	}
	var members []pythontype.Value
	for _, s := range supers {
		members = append(members, pythontype.Instance{Class: s})
	}
	return pythontype.Unite(ctx, members...)
}
