package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// ResolveContext controls how references are followed through assignments
type ResolveContext struct {
	// AllowImplicits permits resolution of attributes on qualifiers whose
	// type is unknown, by looking the attribute name up across all classes.
	AllowImplicits bool
}

// Followed is the result of following a reference through assignments
type Followed struct {
	// Element is the definition or value the reference ends up at, or nil
	Element pythontype.Value
	// Qualifiers are the expressions that qualified the reference along the
	// way, e.g. the "a" in "a.f", in the order they were encountered
	Qualifiers []pythonast.Expr
	// Implicit is true if the resolution relied on an implicit lookup
	Implicit bool
}

// Resolver provides name resolution and type inference for the module that
// contains the calls being analyzed.
type Resolver interface {
	// Resolve returns the top-priority candidates that a reference may bind to.
	// Expressions that are not references resolve to nothing.
	Resolve(ctx kitectx.Context, expr pythonast.Expr) []pythontype.Value

	// FollowAssignments follows a reference through chains of assignments
	FollowAssignments(ctx kitectx.Context, expr pythonast.Expr, rctx ResolveContext) Followed

	// TypeOf infers the type of an expression, or nil if it is unknown
	TypeOf(ctx kitectx.Context, expr pythonast.Expr) pythontype.Value

	// ReturnType infers the result of calling fn, or nil if it is unknown. The
	// call is nil when the function is not evaluated for a particular call site.
	ReturnType(ctx kitectx.Context, fn *pythontype.Function, call *pythonast.CallExpr) pythontype.Value

	// EnclosingClass gets the class whose body contains the node, or nil
	EnclosingClass(node pythonast.Node) *pythontype.Class

	// EnclosingFunction gets the function whose body contains the node, or nil
	EnclosingFunction(node pythonast.Node) *pythontype.Function

	// Parent gets the parent of a node in the syntax tree
	Parent(node pythonast.Node) pythonast.Node

	// Builtin looks up a member of the builtins module
	Builtin(name string) pythontype.Value

	// LanguageLevel gets the python version of the module
	LanguageLevel() pythontype.Version

	// EvalStack gets the stack used to guard call evaluation against reentrancy
	EvalStack() *EvalStack
}

// EvalStack tracks the calls whose types are currently being evaluated, so
// that recursive inference through the same call site terminates.
type EvalStack struct {
	calls map[*pythonast.CallExpr]struct{}
}

// NewEvalStack creates an empty evaluation stack
func NewEvalStack() *EvalStack {
	return &EvalStack{calls: make(map[*pythonast.CallExpr]struct{})}
}

// MayEvaluate registers the call and returns true if it is not already
// being evaluated. Each successful call must be paired with Evaluated.
func (s *EvalStack) MayEvaluate(call *pythonast.CallExpr) bool {
	if _, found := s.calls[call]; found {
		return false
	}
	s.calls[call] = struct{}{}
	return true
}

// Evaluated removes the call from the stack
func (s *EvalStack) Evaluated(call *pythonast.CallExpr) {
	delete(s.calls, call)
}

// Depth gets the number of calls being evaluated
func (s *EvalStack) Depth() int {
	return len(s.calls)
}

// resolveOne returns the single candidate of a reference, or nil when it is
// unresolved or ambiguous
func resolveOne(ctx kitectx.Context, r Resolver, expr pythonast.Expr) pythontype.Value {
	if vals := r.Resolve(ctx, expr); len(vals) == 1 {
		return vals[0]
	}
	return nil
}

func isReference(expr pythonast.Expr) bool {
	switch expr.(type) {
	case *pythonast.NameExpr, *pythonast.AttributeExpr:
		return true
	}
	return false
}
