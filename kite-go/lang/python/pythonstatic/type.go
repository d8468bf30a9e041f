package pythonstatic

import (
	"strings"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonscanner"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// TypeOf infers the type of an expression, or nil if it is unknown. An
// expression whose type depends on itself is unknown.
func (a *Analysis) TypeOf(ctx kitectx.Context, expr pythonast.Expr) pythontype.Value {
	ctx.CheckAbort()

	o := a.owner(expr)
	if o == nil {
		return nil
	}
	if o.evaluating[expr] {
		return nil
	}
	o.evaluating[expr] = true
	defer delete(o.evaluating, expr)
	return o.typeOf(ctx, expr)
}

func (a *Analysis) typeOf(ctx kitectx.Context, expr pythonast.Expr) pythontype.Value {
	switch e := expr.(type) {
	case *pythonast.NameExpr:
		if v, ok := a.constant(e); ok {
			return v
		}
		var types []pythontype.Value
		for _, v := range a.resolveName(ctx, e) {
			types = append(types, a.valueType(ctx, v))
		}
		return pythontype.Unite(ctx, types...)

	case *pythonast.AttributeExpr:
		var types []pythontype.Value
		for _, recv := range pythontype.Disjuncts(a.TypeOf(ctx, e.Value)) {
			if member := attributeOf(recv, e.Attribute.Literal); member != nil {
				types = append(types, a.memberType(ctx, recv, member))
			}
		}
		return pythontype.Unite(ctx, types...)

	case *pythonast.CallExpr:
		return pythoncall.CallType(ctx, a, e)

	case *pythonast.NumberExpr:
		switch e.Number.Token {
		case pythonscanner.Float:
			return a.builtinInstance("float")
		case pythonscanner.Imag:
			return a.builtinInstance("complex")
		default:
			return a.builtinInstance("int")
		}

	case *pythonast.StringExpr:
		if a.opts.Version >= pythontype.Python3 && len(e.Strings) > 0 && isBytesLiteral(e.Strings[0].Literal) {
			return a.builtinInstance("bytes")
		}
		return a.builtinInstance("str")

	case *pythonast.ListExpr:
		return a.builtinInstance("list")
	case *pythonast.TupleExpr:
		return a.builtinInstance("tuple")
	case *pythonast.DictExpr:
		return a.builtinInstance("dict")
	case *pythonast.SetExpr:
		return a.builtinInstance("set")

	case *pythonast.ComprehensionExpr:
		switch e.Kind {
		case pythonast.ListComprehension:
			return a.builtinInstance("list")
		case pythonast.SetComprehension:
			return a.builtinInstance("set")
		case pythonast.DictComprehension:
			return a.builtinInstance("dict")
		}

	case *pythonast.LambdaExpr:
		if fn := a.Lambdas[e]; fn != nil {
			return fn
		}

	case *pythonast.IfExpr:
		return pythontype.Unite(ctx, a.TypeOf(ctx, e.Body), a.TypeOf(ctx, e.Else))

	case *pythonast.UnaryExpr:
		if e.Op.Token == pythonscanner.Not {
			return a.builtinInstance("bool")
		}
		return a.TypeOf(ctx, e.Value)

	case *pythonast.BinaryExpr:
		return a.binaryType(ctx, e)
	}
	return nil
}

// constant gets the value of None, True and False where the module does not rebind them
func (a *Analysis) constant(name *pythonast.NameExpr) (pythontype.Value, bool) {
	switch name.Ident.Literal {
	case "None", "True", "False":
	default:
		return nil, false
	}
	if s := a.scopeOf(name); s != nil && s.lookup(name.Ident.Literal) != nil {
		return nil, false
	}
	if name.Ident.Literal == "None" {
		return pythontype.None, true
	}
	return a.builtinInstance("bool"), true
}

func (a *Analysis) binaryType(ctx kitectx.Context, e *pythonast.BinaryExpr) pythontype.Value {
	switch e.Op.Token {
	case pythonscanner.Eq, pythonscanner.Ne, pythonscanner.Lg, pythonscanner.Lt, pythonscanner.Gt,
		pythonscanner.Le, pythonscanner.Ge, pythonscanner.In, pythonscanner.Is:
		return a.builtinInstance("bool")
	case pythonscanner.And, pythonscanner.Or:
		return pythontype.Unite(ctx, a.TypeOf(ctx, e.Left), a.TypeOf(ctx, e.Right))
	}

	// arithmetic on two operands of the same builtin type, e.g. str + str
	left, ok := a.TypeOf(ctx, e.Left).(pythontype.Instance)
	if !ok || left.Class == nil || !left.Class.Builtin {
		return nil
	}
	if right, ok := a.TypeOf(ctx, e.Right).(pythontype.Instance); ok && right.Class == left.Class {
		return left
	}
	return nil
}

func isBytesLiteral(lit string) bool {
	prefix := strings.ToLower(lit)
	if i := strings.IndexAny(prefix, `'"`); i >= 0 {
		prefix = prefix[:i]
	}
	return strings.Contains(prefix, "b")
}

// valueType gets the type of a value that a reference resolves to.
// Definitions are their own types.
func (a *Analysis) valueType(ctx kitectx.Context, v pythontype.Value) pythontype.Value {
	switch v := v.(type) {
	case *pythontype.Param:
		return a.paramType(ctx, v)
	case pythontype.Expression:
		return a.TypeOf(ctx, v.Expr)
	}
	return v
}

// memberType gets the type of an attribute of a receiver. Plain methods
// accessed through an instance are bound to it, and properties evaluate to
// the result of their getter.
func (a *Analysis) memberType(ctx kitectx.Context, recv, member pythontype.Value) pythontype.Value {
	fn, ok := member.(*pythontype.Function)
	if !ok {
		return a.valueType(ctx, member)
	}
	inst, ok := recv.(pythontype.Instance)
	switch {
	case !ok:
		return fn
	case fn.Property:
		return a.ReturnType(ctx, fn, nil)
	case fn.Modifier == pythontype.NoModifier && fn.Class != nil:
		return pythontype.BoundMethod{Func: fn, Receiver: inst}
	}
	return fn
}

// paramType infers the type of a parameter: the receiver of a method, a
// container, or the type given by the annotation or the default value
func (a *Analysis) paramType(ctx kitectx.Context, p *pythontype.Param) pythontype.Value {
	fn := p.Func
	if fn != nil && fn.Class != nil && p.Index == 0 && p.Node.Stars() == 0 {
		switch {
		case fn.Modifier == pythontype.StaticMethod:
		case fn.Modifier == pythontype.ClassMethod || fn.Name == "__new__":
			return fn.Class
		default:
			return pythontype.Instance{Class: fn.Class}
		}
	}

	switch p.Node.Stars() {
	case 1:
		return a.builtinInstance("tuple")
	case 2:
		return a.builtinInstance("dict")
	}
	if p.Node.Annotation != nil {
		if t := a.annotationType(ctx, p.Node.Annotation); t != nil {
			return t
		}
	}
	if p.Node.Default != nil {
		return a.TypeOf(ctx, p.Node.Default)
	}
	return nil
}

// annotationType gets the type denoted by an annotation: instances of a class,
// or None
func (a *Analysis) annotationType(ctx kitectx.Context, ann pythonast.Expr) pythontype.Value {
	switch t := a.TypeOf(ctx, ann).(type) {
	case *pythontype.Class:
		return pythontype.Instance{Class: t}
	case pythontype.NoneType:
		return t
	}
	return nil
}

// ReturnType infers the result of calling a function: the declared return
// annotation when it names a class, otherwise the union of the types of its
// return statements. A function without a value return returns None. The
// result of a builtin function without an annotation is unknown.
func (a *Analysis) ReturnType(ctx kitectx.Context, fn *pythontype.Function, call *pythonast.CallExpr) pythontype.Value {
	ctx.CheckAbort()

	if fn == nil {
		return nil
	}
	o := a.functionOwner(fn)
	if o == nil {
		return nil
	}
	if o.returning[fn] {
		return nil
	}
	o.returning[fn] = true
	defer delete(o.returning, fn)
	return o.returnType(ctx, fn)
}

func (a *Analysis) returnType(ctx kitectx.Context, fn *pythontype.Function) pythontype.Value {
	switch {
	case fn.Lambda != nil:
		return a.TypeOf(ctx, fn.Lambda.Body)
	case fn.Def == nil:
		return nil
	}

	if fn.Def.Annotation != nil {
		if t := a.annotationType(ctx, fn.Def.Annotation); t != nil {
			return t
		}
	}
	if fn.Builtin {
		return nil
	}

	returns, generator := collectReturns(fn.Def.Body)
	if generator {
		return nil
	}
	var types []pythontype.Value
	var hasValue bool
	for _, r := range returns {
		if pythonast.IsNil(r.Value) {
			types = append(types, pythontype.None)
			continue
		}
		hasValue = true
		types = append(types, a.TypeOf(ctx, r.Value))
	}
	if !hasValue {
		return pythontype.None
	}
	return pythontype.Unite(ctx, types...)
}

// collectReturns finds the return statements of a function body, not counting
// those of nested functions and classes, and whether the body yields
func collectReturns(body []pythonast.Stmt) ([]*pythonast.ReturnStmt, bool) {
	var returns []*pythonast.ReturnStmt
	var generator bool
	for _, stmt := range body {
		pythonast.Inspect(stmt, func(n pythonast.Node) bool {
			switch n := n.(type) {
			case *pythonast.FunctionDefStmt, *pythonast.ClassDefStmt, *pythonast.LambdaExpr:
				return false
			case *pythonast.ReturnStmt:
				returns = append(returns, n)
			case *pythonast.YieldExpr:
				generator = true
			}
			return true
		})
	}
	return returns, generator
}
