package pythoncall

import (
	"fmt"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// ProblemKind classifies the problems found when mapping a call
type ProblemKind int

const (
	// UnresolvedCallee indicates the callee is not a known callable
	UnresolvedCallee ProblemKind = iota
	// AmbiguousCallee indicates the callee resolves to several definitions
	AmbiguousCallee
	// MissingArgument indicates a required parameter receives no argument
	MissingArgument
	// UnexpectedArgument indicates an argument no parameter accepts
	UnexpectedArgument
)

// String gets a string representation of the problem kind
func (k ProblemKind) String() string {
	switch k {
	case UnresolvedCallee:
		return "unresolved_callee"
	case AmbiguousCallee:
		return "ambiguous_callee"
	case MissingArgument:
		return "missing_argument"
	case UnexpectedArgument:
		return "unexpected_argument"
	default:
		return fmt.Sprintf("invalid(%d)", int(k))
	}
}

// Problem is an issue with a call site
type Problem struct {
	Kind ProblemKind
	// Node is the call for callee problems, the argument for unexpected
	// arguments, and the call for missing arguments
	Node    pythonast.Node
	Message string
}

// Diagnose maps the arguments of a call and reports problems with it
func Diagnose(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, rctx ResolveContext) ([]Problem, *Mapping) {
	ctx.CheckAbort()

	if n := len(r.Resolve(ctx, call.Func)); n > 1 {
		return []Problem{{
			Kind:    AmbiguousCallee,
			Node:    call,
			Message: fmt.Sprintf("callee resolves to %d definitions", n),
		}}, &Mapping{Call: call}
	}

	m := MapArguments(ctx, r, call, rctx, 0)
	if m.Callee == nil {
		return []Problem{{
			Kind:    UnresolvedCallee,
			Node:    call,
			Message: "callee is not a known callable",
		}}, m
	}

	var problems []Problem
	name := m.Callee.Callable.QualifiedName()
	for _, p := range m.UnmappedParameters {
		problems = append(problems, Problem{
			Kind:    MissingArgument,
			Node:    call,
			Message: fmt.Sprintf("parameter '%s' of %s is unfilled", p, name),
		})
	}
	for _, a := range m.UnmappedArguments {
		problems = append(problems, Problem{
			Kind:    UnexpectedArgument,
			Node:    a.Node,
			Message: fmt.Sprintf("unexpected argument to %s", name),
		})
	}
	return problems, m
}
