package pythonstatic

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythoncall"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// DefaultOptions are the default options for Analyze
var DefaultOptions = Options{
	Version: pythontype.Python3,
	Name:    "__main__",
}

// Options represents the options for the analysis of a module
type Options struct {
	// Version is the language level of the module, python 3 if unset
	Version pythontype.Version
	// AllowImplicits permits resolving an attribute of an unknown qualifier by
	// looking the attribute up across every class in the module
	AllowImplicits bool
	// Name is the name given to the analyzed module
	Name string
}

// Analysis represents the functions, classes and lambdas defined in a module,
// together with the scopes in which their names are bound. It implements
// pythoncall.Resolver over the module and the builtins. An Analysis caches
// intermediate results, so it must not be used from several goroutines.
type Analysis struct {
	AST       *pythonast.Module
	Module    *pythontype.Module
	Classes   map[*pythonast.ClassDefStmt]*pythontype.Class
	Functions map[*pythonast.FunctionDefStmt]*pythontype.Function
	Lambdas   map[*pythonast.LambdaExpr]*pythontype.Function
	Imports   []ImportPath

	opts       Options
	isBuiltins bool
	builtins   *Analysis

	parents    map[pythonast.Node]pythonast.Node
	exprScopes map[pythonast.Expr]pythonast.Scope
	scopes     map[pythonast.Scope]*scope
	classOrder []*pythontype.Class
	modules    map[string]*pythontype.Module

	stack      *pythoncall.EvalStack
	evaluating map[pythonast.Expr]bool
	returning  map[*pythontype.Function]bool
}

var _ pythoncall.Resolver = (*Analysis)(nil)

// Analyze binds the names defined in a module and returns an Analysis that
// answers resolution queries about the module's expressions.
func Analyze(ctx kitectx.Context, mod *pythonast.Module, opts Options) *Analysis {
	ctx.CheckAbort()

	if mod == nil {
		mod = &pythonast.Module{}
	}
	if opts.Version == 0 {
		opts.Version = DefaultOptions.Version
	}
	if opts.Name == "" {
		opts.Name = DefaultOptions.Name
	}

	a := newAnalysis(mod, opts)
	a.builtins = loadBuiltins(ctx, opts.Version)
	a.analyze(ctx)
	return a
}

func newAnalysis(mod *pythonast.Module, opts Options) *Analysis {
	return &Analysis{
		AST:        mod,
		Module:     pythontype.NewModule(opts.Name, opts.Version),
		Classes:    make(map[*pythonast.ClassDefStmt]*pythontype.Class),
		Functions:  make(map[*pythonast.FunctionDefStmt]*pythontype.Function),
		Lambdas:    make(map[*pythonast.LambdaExpr]*pythontype.Function),
		opts:       opts,
		parents:    pythonast.ConstructParentTable(mod, pythonast.CountNodes(mod)),
		exprScopes: pythonast.ConstructScopeTable(mod),
		scopes:     make(map[pythonast.Scope]*scope),
		modules:    make(map[string]*pythontype.Module),
		stack:      pythoncall.NewEvalStack(),
		evaluating: make(map[pythonast.Expr]bool),
		returning:  make(map[*pythontype.Function]bool),
	}
}

// analyze collects the bindings of every scope, then resolves base classes
// once every class is known. The module members are filled first so that the
// builtins can find object while resolving their own bases.
func (a *Analysis) analyze(ctx kitectx.Context) {
	ctx.CheckAbort()

	b := &binder{ctx: ctx, a: a}
	root := b.module(a.AST)
	for name, bs := range root.bindings {
		if vals := values(lastUnconditional(bs)); len(vals) == 1 {
			a.Module.Members[name] = vals[0]
		}
	}
	a.resolveBases(ctx)
	a.Imports = FindImports(ctx, a.opts.Name, a.AST)

	if a.isBuiltins {
		// compute every ancestor list up front; nothing mutates the builtins afterwards
		for _, cls := range a.classOrder {
			cls.Ancestors()
		}
	}
}

// Calls gets every call expression in the module, in source order
func (a *Analysis) Calls() []*pythonast.CallExpr {
	var calls []*pythonast.CallExpr
	pythonast.Inspect(a.AST, func(n pythonast.Node) bool {
		if call, ok := n.(*pythonast.CallExpr); ok {
			calls = append(calls, call)
		}
		return true
	})
	return calls
}

// owner gets the analysis whose syntax tree contains the node, which is either
// this analysis or its builtins
func (a *Analysis) owner(node pythonast.Node) *Analysis {
	if pythonast.IsNil(node) {
		return nil
	}
	if node == pythonast.Node(a.AST) {
		return a
	}
	if _, ok := a.parents[node]; ok {
		return a
	}
	if a.builtins != nil {
		return a.builtins.owner(node)
	}
	return nil
}

// functionOwner gets the analysis in which a function was defined
func (a *Analysis) functionOwner(fn *pythontype.Function) *Analysis {
	switch {
	case fn.Def != nil:
		return a.owner(fn.Def)
	case fn.Lambda != nil:
		return a.owner(fn.Lambda)
	case fn.Module == a.Module:
		return a
	case a.builtins != nil:
		return a.builtins.functionOwner(fn)
	}
	return nil
}

// EnclosingClass gets the class whose definition contains the node, or nil
func (a *Analysis) EnclosingClass(node pythonast.Node) *pythontype.Class {
	o := a.owner(node)
	if o == nil {
		return nil
	}
	for n := o.parents[node]; !pythonast.IsNil(n); n = o.parents[n] {
		if def, ok := n.(*pythonast.ClassDefStmt); ok {
			return o.Classes[def]
		}
	}
	return nil
}

// EnclosingFunction gets the function or lambda whose definition contains the node, or nil
func (a *Analysis) EnclosingFunction(node pythonast.Node) *pythontype.Function {
	o := a.owner(node)
	if o == nil {
		return nil
	}
	for n := o.parents[node]; !pythonast.IsNil(n); n = o.parents[n] {
		switch n := n.(type) {
		case *pythonast.FunctionDefStmt:
			return o.Functions[n]
		case *pythonast.LambdaExpr:
			return o.Lambdas[n]
		}
	}
	return nil
}

// Parent gets the parent of a node in the syntax tree
func (a *Analysis) Parent(node pythonast.Node) pythonast.Node {
	if o := a.owner(node); o != nil {
		return o.parents[node]
	}
	return nil
}

// Builtin looks up a member of the builtins module
func (a *Analysis) Builtin(name string) pythontype.Value {
	if a.builtins != nil {
		return a.builtins.Builtin(name)
	}
	return a.Module.Members[name]
}

// LanguageLevel gets the python version of the module
func (a *Analysis) LanguageLevel() pythontype.Version {
	return a.opts.Version
}

// EvalStack gets the stack that guards call evaluation against reentrancy
func (a *Analysis) EvalStack() *pythoncall.EvalStack {
	return a.stack
}

// builtinInstance gets an instance of a builtin class, or nil if the builtins
// do not define the class
func (a *Analysis) builtinInstance(name string) pythontype.Value {
	if cls, ok := a.Builtin(name).(*pythontype.Class); ok {
		return pythontype.Instance{Class: cls}
	}
	return nil
}
