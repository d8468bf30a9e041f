package pythonstatic

import (
	"go/token"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// binder walks a module once, creating the functions, classes and lambdas it
// defines and recording where each name is bound
type binder struct {
	// we violate the standard guideline of not storing ctx in another object to avoid threading this everywhere
	ctx kitectx.Context
	a   *Analysis
}

func (b *binder) module(mod *pythonast.Module) *scope {
	s := newScope(moduleScope, nil)
	b.a.scopes[mod] = s
	b.stmts(s, mod.Body, false)
	return s
}

// stmts binds the names in a block. Blocks that may not run, such as the
// branches of an if statement or the body of a loop, bind conditionally.
func (b *binder) stmts(s *scope, stmts []pythonast.Stmt, cond bool) {
	for _, stmt := range stmts {
		b.stmt(s, stmt, cond)
	}
}

func (b *binder) stmt(s *scope, stmt pythonast.Stmt, cond bool) {
	b.ctx.CheckAbort()

	switch stmt := stmt.(type) {
	case *pythonast.FunctionDefStmt:
		b.exprs(s, stmt.Decorators...)
		b.exprs(s, stmt.Annotation)
		for _, p := range stmt.Parameters {
			b.exprs(s, p.Annotation, p.Default)
		}
		fn := b.function(s, stmt)
		b.bind(s, stmt.Name, fn, stmt.End(), cond)

	case *pythonast.ClassDefStmt:
		b.exprs(s, stmt.Decorators...)
		for _, arg := range stmt.Args {
			b.exprs(s, arg.Value)
		}
		cls := b.class(s, stmt)
		b.bind(s, stmt.Name, cls, stmt.End(), cond)

	case *pythonast.AssignStmt:
		b.exprs(s, stmt.Annotation, stmt.Value)
		if pythonast.IsNil(stmt.Value) {
			// a bare annotation binds nothing
			break
		}
		for _, t := range stmt.Targets {
			b.target(s, t, stmt.Value, stmt.End(), cond)
		}

	case *pythonast.AugAssignStmt:
		b.exprs(s, stmt.Target, stmt.Value)

	case *pythonast.ForStmt:
		b.exprs(s, stmt.Iterable)
		b.target(s, stmt.Target, nil, nodeEnd(stmt.Target), true)
		b.stmts(s, stmt.Body, true)
		b.stmts(s, stmt.Else, true)

	case *pythonast.WhileStmt:
		b.exprs(s, stmt.Condition)
		b.stmts(s, stmt.Body, true)
		b.stmts(s, stmt.Else, true)

	case *pythonast.IfStmt:
		for _, branch := range stmt.Branches {
			b.exprs(s, branch.Condition)
			b.stmts(s, branch.Body, true)
		}
		b.stmts(s, stmt.Else, true)

	case *pythonast.TryStmt:
		b.stmts(s, stmt.Body, true)
		for _, h := range stmt.Handlers {
			b.exprs(s, h.Type)
			b.target(s, h.Target, nil, nodeEnd(h.Target), true)
			b.stmts(s, h.Body, true)
		}
		b.stmts(s, stmt.Else, true)
		b.stmts(s, stmt.Finally, cond)

	case *pythonast.WithStmt:
		for _, item := range stmt.Items {
			b.exprs(s, item.Value)
			b.target(s, item.Target, nil, nodeEnd(item.Target), cond)
		}
		b.stmts(s, stmt.Body, cond)

	case *pythonast.ImportNameStmt:
		for _, clause := range stmt.Names {
			b.importName(s, clause, cond)
		}

	case *pythonast.ImportFromStmt:
		for _, clause := range stmt.Names {
			name := clause.Internal
			if name == nil {
				name = clause.External
			}
			b.bind(s, name, nil, clause.End(), cond)
		}

	case *pythonast.GlobalStmt:
		for _, name := range stmt.Names {
			s.globals[name.Ident.Literal] = true
		}

	case *pythonast.NonLocalStmt:
		for _, name := range stmt.Names {
			s.nonlocals[name.Ident.Literal] = true
		}

	case *pythonast.ExprStmt:
		b.exprs(s, stmt.Value)
	case *pythonast.ReturnStmt:
		b.exprs(s, stmt.Value)
	case *pythonast.DelStmt:
		b.exprs(s, stmt.Targets...)
	case *pythonast.RaiseStmt:
		b.exprs(s, stmt.Type, stmt.From)
	case *pythonast.AssertStmt:
		b.exprs(s, stmt.Condition, stmt.Message)
	}
}

// bind records a binding of a name in the scope that assignments to it from s target
func (b *binder) bind(s *scope, name *pythonast.NameExpr, value pythontype.Value, pos token.Pos, cond bool) {
	if name == nil || name.Ident == nil {
		return
	}
	id := name.Ident.Literal
	t := s.target(id)
	t.bindings[id] = append(t.bindings[id], &binding{
		value:       value,
		pos:         pos,
		conditional: cond,
	})
}

// target binds the names in an assignment target. The value is nil when the
// assigned value is unknown, e.g. for loop targets.
func (b *binder) target(s *scope, expr pythonast.Expr, value pythonast.Expr, pos token.Pos, cond bool) {
	switch t := expr.(type) {
	case *pythonast.NameExpr:
		b.bind(s, t, b.assigned(value), pos, cond)
	case *pythonast.TupleExpr:
		b.targets(s, t.Elts, value, pos, cond)
	case *pythonast.ListExpr:
		b.targets(s, t.Values, value, pos, cond)
	case *pythonast.StarExpr:
		b.target(s, t.Value, nil, pos, cond)
	case *pythonast.AttributeExpr:
		b.exprs(s, t.Value)
		b.attribute(s, t, value)
	case *pythonast.IndexExpr:
		b.exprs(s, t.Value, t.Index)
	}
}

// targets binds a destructuring assignment, pairing the elements with those
// of a tuple or list display of the same length
func (b *binder) targets(s *scope, elts []pythonast.Expr, value pythonast.Expr, pos token.Pos, cond bool) {
	var values []pythonast.Expr
	switch v := value.(type) {
	case *pythonast.TupleExpr:
		values = v.Elts
	case *pythonast.ListExpr:
		values = v.Values
	}
	for i, e := range elts {
		var v pythonast.Expr
		if len(values) == len(elts) {
			v = values[i]
		}
		b.target(s, e, v, pos, cond)
	}
}

// assigned gets the value bound by assigning an expression
func (b *binder) assigned(value pythonast.Expr) pythontype.Value {
	switch v := value.(type) {
	case nil:
		return nil
	case *pythonast.LambdaExpr:
		if fn := b.a.Lambdas[v]; fn != nil {
			return fn
		}
	}
	return pythontype.Expression{Expr: value}
}

// attribute records "self.x = value" in a method as an instance attribute of
// the method's class
func (b *binder) attribute(s *scope, attr *pythonast.AttributeExpr, value pythonast.Expr) {
	if value == nil || s.kind != functionScope || s.function == nil {
		return
	}
	fn := s.function
	if fn.Class == nil || fn.Modifier != pythontype.NoModifier || len(fn.Params) == 0 {
		return
	}
	self, ok := fn.Params[0].Name.(*pythonast.NameExpr)
	if !ok || fn.Params[0].Stars() > 0 {
		return
	}
	if q, ok := attr.Value.(*pythonast.NameExpr); !ok || q.Ident.Literal != self.Ident.Literal {
		return
	}
	if _, seen := fn.Class.Attrs[attr.Attribute.Literal]; !seen {
		fn.Class.Attrs[attr.Attribute.Literal] = b.assigned(value)
	}
}

func (b *binder) function(s *scope, stmt *pythonast.FunctionDefStmt) *pythontype.Function {
	fn := &pythontype.Function{
		Def:     stmt,
		Params:  stmt.Parameters,
		Module:  b.a.Module,
		Builtin: b.a.isBuiltins,
	}
	if stmt.Name != nil {
		fn.Name = stmt.Name.Ident.Literal
	}
	if s.kind == classScope {
		fn.Class = s.class
	}
	fn.Modifier, fn.Property = functionBinding(stmt)
	b.a.Functions[stmt] = fn

	fs := newScope(functionScope, s)
	fs.function = fn
	b.a.scopes[stmt] = fs
	b.params(fs, fn, stmt.Parameters)
	b.stmts(fs, stmt.Body, false)
	return fn
}

func (b *binder) lambda(s *scope, expr *pythonast.LambdaExpr) {
	fn := pythontype.NewLambda(expr, b.a.Module)
	fn.Builtin = b.a.isBuiltins
	b.a.Lambdas[expr] = fn

	for _, p := range expr.Parameters {
		b.exprs(s, p.Annotation, p.Default)
	}
	ls := newScope(functionScope, s)
	ls.function = fn
	b.a.scopes[expr] = ls
	b.params(ls, nil, expr.Parameters)
	b.exprs(ls, expr.Body)
}

// params binds the parameters of a function, or of a lambda when fn is nil.
// The names inside a destructuring parameter all refer to that parameter.
func (b *binder) params(s *scope, fn *pythontype.Function, params []*pythonast.Parameter) {
	for i, p := range params {
		param := &pythontype.Param{Func: fn, Index: i, Node: p}
		var bindNames func(pythonast.Expr)
		bindNames = func(e pythonast.Expr) {
			switch e := e.(type) {
			case *pythonast.NameExpr:
				b.bind(s, e, param, p.Begin(), false)
			case *pythonast.TupleExpr:
				for _, elt := range e.Elts {
					bindNames(elt)
				}
			}
		}
		bindNames(p.Name)
	}
}

func (b *binder) class(s *scope, stmt *pythonast.ClassDefStmt) *pythontype.Class {
	var name string
	if stmt.Name != nil {
		name = stmt.Name.Ident.Literal
	}
	cls := pythontype.NewClass(name, stmt, b.a.Module)
	cls.Builtin = b.a.isBuiltins
	b.a.Classes[stmt] = cls
	b.a.classOrder = append(b.a.classOrder, cls)

	cs := newScope(classScope, s)
	cs.class = cls
	b.a.scopes[stmt] = cs
	b.stmts(cs, stmt.Body, false)

	for member, bs := range cs.bindings {
		cls.Members[member] = bs[len(bs)-1].value
	}
	return cls
}

func (b *binder) comprehension(s *scope, expr *pythonast.ComprehensionExpr) {
	cs := newScope(comprehensionScope, s)
	b.a.scopes[expr] = cs
	for _, g := range expr.Generators {
		b.exprs(cs, g.Iterable)
		b.target(cs, g.Target, nil, nodeEnd(g.Target), false)
		b.exprs(cs, g.Filters...)
	}
	b.exprs(cs, expr.Key, expr.Value)
}

// importName binds "import a.b.c" to the module a, of which a.b is a member,
// and "import a.b.c as d" to the module a.b.c
func (b *binder) importName(s *scope, clause *pythonast.DottedAsName, cond bool) {
	parts := dottedParts(clause.External)
	if len(parts) == 0 {
		return
	}
	if clause.Internal != nil {
		b.bind(s, clause.Internal, b.a.importedModule(parts), clause.End(), cond)
		return
	}
	for i := 1; i < len(parts); i++ {
		parent := b.a.importedModule(parts[:i])
		parent.Members[parts[i]] = b.a.importedModule(parts[:i+1])
	}
	b.bind(s, clause.External.Names[0], b.a.importedModule(parts[:1]), clause.End(), cond)
}

// exprs finds the lambdas and comprehensions in some expressions, which
// introduce scopes of their own
func (b *binder) exprs(s *scope, exprs ...pythonast.Expr) {
	for _, e := range exprs {
		if pythonast.IsNil(e) {
			continue
		}
		pythonast.Inspect(e, func(n pythonast.Node) bool {
			switch n := n.(type) {
			case *pythonast.LambdaExpr:
				b.lambda(s, n)
				return false
			case *pythonast.ComprehensionExpr:
				b.comprehension(s, n)
				return false
			}
			return true
		})
	}
}

// resolveBases sets the bases of every class in the module. Only names are
// followed here: looking up attributes would compute the ancestors of
// classes whose bases are not known yet.
func (a *Analysis) resolveBases(ctx kitectx.Context) {
	ctx.CheckAbort()

	object, _ := a.Builtin("object").(*pythontype.Class)
	for _, cls := range a.classOrder {
		var declared bool
		for _, arg := range cls.Def.Args {
			if arg.Name != nil || arg.Stars() > 0 {
				// metaclass and other keywords
				continue
			}
			declared = true
			if base, ok := a.followName(ctx, arg.Value).(*pythontype.Class); ok && base != cls {
				cls.Bases = append(cls.Bases, base)
			}
		}
		if !declared && a.opts.Version >= pythontype.Python3 && object != nil && cls != object {
			cls.Bases = []*pythontype.Class{object}
		}
	}
}

// followName follows a name through assignments of other names
func (a *Analysis) followName(ctx kitectx.Context, expr pythonast.Expr) pythontype.Value {
	ctx.CheckAbort()

	for i := 0; i < maxFollowDepth; i++ {
		name, ok := expr.(*pythonast.NameExpr)
		if !ok {
			return nil
		}
		o := a.owner(name)
		if o == nil {
			return nil
		}
		vals := o.resolveName(ctx, name)
		if len(vals) != 1 {
			return nil
		}
		e, ok := vals[0].(pythontype.Expression)
		if !ok {
			return vals[0]
		}
		expr = e.Expr
	}
	return nil
}

// nodeEnd gets the end of a node that may be nil
func nodeEnd(n pythonast.Node) token.Pos {
	if pythonast.IsNil(n) {
		return 0
	}
	return n.End()
}
