package pythoncall

import (
	"strings"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
)

// ArgumentKind classifies the arguments at a call site
type ArgumentKind int

const (
	// Positional is a plain argument, e.g. "x" in "f(x)"
	Positional ArgumentKind = iota
	// Keyword is a named argument, e.g. "k=x" in "f(k=x)"
	Keyword
	// VariadicPositional is an unpacked iterable, e.g. "*xs" in "f(*xs)"
	VariadicPositional
	// VariadicKeyword is an unpacked mapping, e.g. "**kw" in "f(**kw)"
	VariadicKeyword
)

// String gets a string representation of the argument kind
func (k ArgumentKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Keyword:
		return "keyword"
	case VariadicPositional:
		return "variadic_positional"
	case VariadicKeyword:
		return "variadic_keyword"
	default:
		return "invalid"
	}
}

// Argument is an argument at a call site, or an element of a sequence
// literal that is unpacked into the call, e.g. each of "1, 2" in "f(*[1, 2])".
type Argument struct {
	Kind    ArgumentKind
	Keyword string // Keyword is the parameter name of a keyword argument
	// Node is the *pythonast.Argument for arguments written at the call site,
	// or the element expression for components of an unpacked literal
	Node      pythonast.Node
	Value     pythonast.Expr
	Component bool
}

// ClassifyArguments classifies each argument of a call, in source order
func ClassifyArguments(args []*pythonast.Argument) []*Argument {
	out := make([]*Argument, 0, len(args))
	for _, arg := range args {
		a := &Argument{Node: arg, Value: arg.Value}
		switch {
		case arg.Stars() == 1:
			a.Kind = VariadicPositional
		case arg.Stars() == 2:
			a.Kind = VariadicKeyword
		case arg.Name != nil:
			a.Kind = Keyword
			a.Keyword = arg.Name.Ident.Literal
		default:
			a.Kind = Positional
		}
		out = append(out, a)
	}
	return out
}

// components gets the arguments that an unpacked sequence literal expands to
func components(a *Argument) []*Argument {
	elts, ok := sequenceElements(a.Value)
	if !ok {
		return nil
	}
	out := make([]*Argument, 0, len(elts))
	for _, elt := range elts {
		out = append(out, &Argument{Kind: Positional, Node: elt, Value: elt, Component: true})
	}
	return out
}

// sequenceElements gets the elements of a tuple, list or set literal
func sequenceElements(expr pythonast.Expr) ([]pythonast.Expr, bool) {
	switch expr := expr.(type) {
	case *pythonast.TupleExpr:
		return expr.Elts, true
	case *pythonast.ListExpr:
		return expr.Values, true
	case *pythonast.SetExpr:
		return expr.Values, true
	}
	return nil, false
}

// KeywordArgument gets the value of the keyword argument with the given
// name, or nil
func KeywordArgument(call *pythonast.CallExpr, name string) pythonast.Expr {
	for _, arg := range call.Args {
		if arg.Stars() == 0 && arg.Name != nil && arg.Name.Ident.Literal == name {
			return arg.Value
		}
	}
	return nil
}

// ArgumentValue gets the value passed for a parameter identified by
// position and name: a keyword argument with the name takes precedence over a
// positional argument at the index. A negative index or empty name is ignored.
func ArgumentValue(call *pythonast.CallExpr, index int, name string) pythonast.Expr {
	if name != "" {
		if v := KeywordArgument(call, name); v != nil {
			return v
		}
	}
	if index < 0 || index >= len(call.Args) {
		return nil
	}
	if arg := call.Args[index]; arg.Stars() == 0 && arg.Name == nil {
		return arg.Value
	}
	return nil
}

// IsCalleeText returns true if the callee is a reference whose referenced
// name, i.e. the last component of a dotted name, is one of names.
func IsCalleeText(call *pythonast.CallExpr, names ...string) bool {
	name := referencedName(call.Func)
	if name == "" {
		return false
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// IsCallee returns true if the callee is written as one of the dotted names
func IsCallee(call *pythonast.CallExpr, qualifiedNames ...string) bool {
	text := calleeText(call.Func)
	if text == "" {
		return false
	}
	for _, n := range qualifiedNames {
		if n == text {
			return true
		}
	}
	return false
}

func referencedName(expr pythonast.Expr) string {
	switch expr := expr.(type) {
	case *pythonast.NameExpr:
		return expr.Ident.Literal
	case *pythonast.AttributeExpr:
		return expr.Attribute.Literal
	}
	return ""
}

// calleeText gets the dotted text of a reference, or the empty string for
// other expressions
func calleeText(expr pythonast.Expr) string {
	var parts []string
	for {
		switch e := expr.(type) {
		case *pythonast.NameExpr:
			parts = append(parts, e.Ident.Literal)
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			return strings.Join(parts, ".")
		case *pythonast.AttributeExpr:
			parts = append(parts, e.Attribute.Literal)
			expr = e.Value
		default:
			return ""
		}
	}
}
