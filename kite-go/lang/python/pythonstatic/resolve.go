package pythonstatic

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// maxFollowDepth bounds the number of assignments followed from a reference
const maxFollowDepth = 10

// Resolve gets the definitions that a name or attribute reference may refer
// to. More than one result means the reference is ambiguous.
func (a *Analysis) Resolve(ctx kitectx.Context, expr pythonast.Expr) []pythontype.Value {
	ctx.CheckAbort()

	o := a.owner(expr)
	if o == nil {
		return nil
	}
	switch expr := expr.(type) {
	case *pythonast.NameExpr:
		return o.resolveName(ctx, expr)
	case *pythonast.AttributeExpr:
		return o.resolveAttribute(ctx, expr)
	}
	return nil
}

func (a *Analysis) resolveName(ctx kitectx.Context, name *pythonast.NameExpr) []pythontype.Value {
	s := a.scopeOf(name)
	if s == nil {
		return nil
	}
	id := name.Ident.Literal
	if found := s.lookup(id); found != nil {
		return values(reaching(found.bindings[id], name.Begin(), found == s))
	}
	if a.builtins != nil {
		if v := a.builtins.Module.Members[id]; v != nil {
			return []pythontype.Value{v}
		}
	}
	return nil
}

func (a *Analysis) resolveAttribute(ctx kitectx.Context, attr *pythonast.AttributeExpr) []pythontype.Value {
	var out []pythontype.Value
	for _, t := range pythontype.Disjuncts(a.TypeOf(ctx, attr.Value)) {
		out = appendUnique(out, attributeOf(t, attr.Attribute.Literal))
	}
	return out
}

// attributeOf looks up an attribute of a value
func attributeOf(v pythontype.Value, name string) pythontype.Value {
	switch v := v.(type) {
	case *pythontype.Class:
		member, _ := v.Lookup(name)
		return member
	case pythontype.Instance:
		return v.Attr(name)
	case *pythontype.Module:
		return v.Members[name]
	}
	return nil
}

// FollowAssignments follows a reference through assignments whose value is
// another reference, until it reaches a definition or some other value. The
// qualifiers of the attribute references along the way are recorded in order.
func (a *Analysis) FollowAssignments(ctx kitectx.Context, expr pythonast.Expr, rctx pythoncall.ResolveContext) pythoncall.Followed {
	ctx.CheckAbort()

	var followed pythoncall.Followed
	ctx.WithCallLimit(maxFollowDepth, func(ctx kitectx.CallContext) error {
		followed = a.follow(ctx, expr, rctx)
		return nil
	})
	return followed
}

func (a *Analysis) follow(ctx kitectx.CallContext, expr pythonast.Expr, rctx pythoncall.ResolveContext) pythoncall.Followed {
	var f pythoncall.Followed
	for !ctx.AtCallLimit() {
		o := a.owner(expr)
		if o == nil {
			return f
		}

		var vals []pythontype.Value
		switch e := expr.(type) {
		case *pythonast.NameExpr:
			vals = o.resolveName(ctx.Context, e)
		case *pythonast.AttributeExpr:
			f.Qualifiers = append(f.Qualifiers, e.Value)
			vals = o.resolveAttribute(ctx.Context, e)
			if len(vals) == 0 && rctx.AllowImplicits {
				if v := o.implicitAttribute(ctx.Context, e); v != nil {
					vals = []pythontype.Value{v}
					f.Implicit = true
				}
			}
		default:
			return f
		}

		if len(vals) == 0 {
			return f
		}
		if e, ok := vals[0].(pythontype.Expression); ok && isReference(e.Expr) {
			expr = e.Expr
			ctx = ctx.Call()
			continue
		}
		f.Element = vals[0]
		return f
	}
	return f
}

// implicitAttribute resolves an attribute of a qualifier whose type is unknown
// by looking the name up in every class of the module. Only a unique match
// resolves.
func (a *Analysis) implicitAttribute(ctx kitectx.Context, attr *pythonast.AttributeExpr) pythontype.Value {
	if a.TypeOf(ctx, attr.Value) != nil {
		return nil
	}
	var found []pythontype.Value
	for _, cls := range a.classOrder {
		if v, ok := cls.Members[attr.Attribute.Literal]; ok {
			found = appendUnique(found, v)
		}
	}
	if len(found) != 1 {
		return nil
	}
	return found[0]
}

func isReference(expr pythonast.Expr) bool {
	switch expr.(type) {
	case *pythonast.NameExpr, *pythonast.AttributeExpr:
		return true
	}
	return false
}
