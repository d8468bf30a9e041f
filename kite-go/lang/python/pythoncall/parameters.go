package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
)

// ParameterKind classifies the parameters of a function
type ParameterKind int

const (
	// NamedParam is an ordinary named parameter, e.g. "x" or "x=1"
	NamedParam ParameterKind = iota
	// TupleParam is a python 2 destructuring parameter, e.g. "(a, b)"
	TupleParam
	// PositionalContainer collects extra positional arguments, e.g. "*args"
	PositionalContainer
	// KeywordContainer collects extra keyword arguments, e.g. "**kwargs"
	KeywordContainer
	// SingleStar is the bare "*" after which parameters are keyword-only
	SingleStar
	// UnknownParam is a parameter declared with an unsupported expression
	UnknownParam
)

// String gets a string representation of the parameter kind
func (k ParameterKind) String() string {
	switch k {
	case NamedParam:
		return "named"
	case TupleParam:
		return "tuple"
	case PositionalContainer:
		return "positional_container"
	case KeywordContainer:
		return "keyword_container"
	case SingleStar:
		return "single_star"
	default:
		return "unknown"
	}
}

// Parameter is a declared parameter, or a component of a tuple parameter
type Parameter struct {
	Kind ParameterKind
	Name string // Name is empty for tuple parameters and the bare star
	// Node is the *pythonast.Parameter for declared parameters, and the name
	// or tuple expression for components of tuple parameters
	Node pythonast.Node
	// Decl is the declared parameter, which for components is the enclosing
	// top-level tuple parameter
	Decl       *pythonast.Parameter
	HasDefault bool
	Contents   []*Parameter // Contents are the components of a tuple parameter
}

// String gets a representation of the parameter as declared
func (p *Parameter) String() string {
	switch p.Kind {
	case PositionalContainer:
		return "*" + p.Name
	case KeywordContainer:
		return "**" + p.Name
	case SingleStar:
		return "*"
	case TupleParam:
		s := "("
		for i, c := range p.Contents {
			if i > 0 {
				s += ", "
			}
			s += c.String()
		}
		return s + ")"
	default:
		return p.Name
	}
}

// ClassifyParameters classifies the declared parameters of a function
func ClassifyParameters(params []*pythonast.Parameter) []*Parameter {
	out := make([]*Parameter, 0, len(params))
	for _, param := range params {
		p := &Parameter{Node: param, Decl: param, HasDefault: param.Default != nil}
		name, _ := param.Name.(*pythonast.NameExpr)
		switch {
		case param.Stars() == 1 && param.Name == nil:
			p.Kind = SingleStar
		case param.Stars() == 1 && name != nil:
			p.Kind = PositionalContainer
			p.Name = name.Ident.Literal
		case param.Stars() == 2 && name != nil:
			p.Kind = KeywordContainer
			p.Name = name.Ident.Literal
		case param.Stars() == 0 && name != nil:
			p.Kind = NamedParam
			p.Name = name.Ident.Literal
		default:
			if tuple, ok := param.Name.(*pythonast.TupleExpr); ok && param.Stars() == 0 {
				p.Kind = TupleParam
				p.Contents = tupleContents(param, tuple)
			} else {
				p.Kind = UnknownParam
			}
		}
		out = append(out, p)
	}
	return out
}

func tupleContents(decl *pythonast.Parameter, tuple *pythonast.TupleExpr) []*Parameter {
	var out []*Parameter
	for _, elt := range tuple.Elts {
		p := &Parameter{Node: elt, Decl: decl}
		switch elt := elt.(type) {
		case *pythonast.NameExpr:
			p.Kind = NamedParam
			p.Name = elt.Ident.Literal
		case *pythonast.TupleExpr:
			p.Kind = TupleParam
			p.Contents = tupleContents(decl, elt)
		default:
			p.Kind = UnknownParam
		}
		out = append(out, p)
	}
	return out
}
