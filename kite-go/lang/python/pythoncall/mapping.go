package pythoncall

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// Binding associates an argument with the parameter it is passed to
type Binding struct {
	Argument  *Argument
	Parameter *Parameter
}

// Mapping describes how the arguments of a call are passed to the
// parameters of its callee
type Mapping struct {
	Call   *pythonast.CallExpr
	Callee *MarkedCallee // Callee is nil if the call could not be resolved

	// Bindings lists mapped arguments in the order in which they were mapped.
	// Arguments passed to containers such as *args appear once per argument.
	Bindings []Binding
	// TupleBindings lists the arguments passed to tuple parameters
	TupleBindings []Binding

	// UnmappedParameters are the parameters without a default value that
	// receive nothing from the call
	UnmappedParameters []*Parameter
	// UnmappedArguments are the arguments no parameter accepts
	UnmappedArguments []*Argument

	// VariadicPositionalParameters are the parameters that may be filled from
	// an unpacked iterable argument
	VariadicPositionalParameters []*Parameter
	// VariadicKeywordParameters are the parameters that may be filled from an
	// unpacked mapping argument
	VariadicKeywordParameters []*Parameter
}

// ParameterFor gets the parameter that an argument is mapped to. The node is
// either a *pythonast.Argument of the call, or an element of a starred
// sequence literal.
func (m *Mapping) ParameterFor(node pythonast.Node) *Parameter {
	for _, b := range m.Bindings {
		if b.Argument.Node == node {
			return b.Parameter
		}
	}
	return nil
}

// ArgumentsFor gets the arguments mapped to a parameter
func (m *Mapping) ArgumentsFor(param *Parameter) []*Argument {
	var out []*Argument
	for _, b := range m.Bindings {
		if b.Parameter == param {
			out = append(out, b.Argument)
		}
	}
	return out
}

// ParameterNamed gets the mapped parameter with the given name
func (m *Mapping) ParameterNamed(name string) *Parameter {
	for _, b := range m.Bindings {
		if b.Parameter.Name == name {
			return b.Parameter
		}
	}
	return nil
}

func (m *Mapping) bind(arg *Argument, param *Parameter) {
	for i := range m.Bindings {
		if m.Bindings[i].Argument == arg {
			m.Bindings[i].Parameter = param
			return
		}
	}
	m.Bindings = append(m.Bindings, Binding{Argument: arg, Parameter: param})
}

// MapArguments resolves the callee of a call and maps the call's arguments onto
// its parameters, skipping the implicit leading parameters. The offset is
// added to the number of implicit parameters, as in ResolveCallee. The mapping
// is empty when the callee cannot be resolved.
func MapArguments(ctx kitectx.Context, r Resolver, call *pythonast.CallExpr, rctx ResolveContext, offset int) *Mapping {
	ctx.CheckAbort()

	m := &Mapping{Call: call}
	if call == nil {
		return m
	}
	callee := ResolveCallee(ctx, r, call, rctx, offset)
	if callee == nil {
		return m
	}

	params := callee.Callable.Params
	if callee.ImplicitOffset < len(params) {
		params = params[callee.ImplicitOffset:]
	} else {
		params = nil
	}
	m.Callee = callee
	analyzeArguments(m, ClassifyArguments(call.Args), ClassifyParameters(params))
	return m
}

// MapArgumentList maps an explicit list of arguments onto an explicit list of
// parameters, with no implicit arguments.
func MapArgumentList(args []*pythonast.Argument, params []*pythonast.Parameter) *Mapping {
	m := &Mapping{}
	analyzeArguments(m, ClassifyArguments(args), ClassifyParameters(params))
	return m
}

// analyzeArguments matches arguments to parameters the way the python
// interpreter binds them, recording what could not be matched.
func analyzeArguments(m *Mapping, arguments []*Argument, parameters []*Parameter) {
	var positional, keywords, variadicPositional, variadicKeyword, allPositional []*Argument

	var seenNonPositional bool
	for _, arg := range arguments {
		switch arg.Kind {
		case Positional:
			// positional arguments after keyword or star arguments are a
			// syntax error and take no part in the mapping
			if !seenNonPositional {
				positional = append(positional, arg)
			}
		case Keyword:
			seenNonPositional = true
			keywords = append(keywords, arg)
		case VariadicPositional:
			seenNonPositional = true
			if isSequenceLiteral(arg.Value) {
				allPositional = append(allPositional, components(arg)...)
			} else {
				variadicPositional = append(variadicPositional, arg)
			}
		case VariadicKeyword:
			seenNonPositional = true
			variadicKeyword = append(variadicKeyword, arg)
		}
	}
	allPositional = append(positional, allPositional...)

	var seenSingleStar, mappedVariadicArgumentsToParameters bool
	for _, param := range parameters {
		switch {
		case param.Kind == PositionalContainer:
			for _, arg := range allPositional {
				m.bind(arg, param)
			}
			if len(variadicPositional) == 1 {
				m.bind(variadicPositional[0], param)
			}
			allPositional = nil
			variadicPositional = nil

		case param.Kind == KeywordContainer:
			for _, arg := range keywords {
				m.bind(arg, param)
			}
			if len(variadicKeyword) == 1 {
				m.bind(variadicKeyword[0], param)
			}
			keywords = nil
			variadicKeyword = nil

		case seenSingleStar && param.Kind == NamedParam:
			if arg, rest := removeKeyword(keywords, param.Name); arg != nil {
				m.bind(arg, param)
				keywords = rest
			} else if len(variadicKeyword) == 0 {
				if !param.HasDefault {
					m.UnmappedParameters = append(m.UnmappedParameters, param)
				}
			} else {
				m.VariadicKeywordParameters = append(m.VariadicKeywordParameters, param)
			}

		case param.Kind == NamedParam:
			if len(allPositional) == 0 {
				if arg, rest := removeKeyword(keywords, param.Name); arg != nil {
					m.bind(arg, param)
					keywords = rest
				} else if len(variadicPositional) == 0 && len(variadicKeyword) == 0 && !param.HasDefault {
					m.UnmappedParameters = append(m.UnmappedParameters, param)
				} else {
					if len(variadicPositional) > 0 {
						m.VariadicPositionalParameters = append(m.VariadicPositionalParameters, param)
					}
					if len(variadicKeyword) > 0 {
						m.VariadicKeywordParameters = append(m.VariadicKeywordParameters, param)
					}
					mappedVariadicArgumentsToParameters = true
				}
			} else {
				arg := allPositional[0]
				allPositional = allPositional[1:]
				m.bind(arg, param)
				if arg.Component {
					m.VariadicPositionalParameters = append(m.VariadicPositionalParameters, param)
				}
			}

		case param.Kind == TupleParam:
			if len(allPositional) > 0 {
				arg := allPositional[0]
				allPositional = allPositional[1:]
				m.TupleBindings = append(m.TupleBindings, Binding{Argument: arg, Parameter: param})
				mapComponentsOfTupleParameter(m, arg, param)
			} else if len(variadicPositional) == 0 {
				if !param.HasDefault {
					m.UnmappedParameters = append(m.UnmappedParameters, param)
				}
			} else {
				mappedVariadicArgumentsToParameters = true
			}

		case param.Kind == SingleStar:
			seenSingleStar = true

		default:
			if !param.HasDefault {
				m.UnmappedParameters = append(m.UnmappedParameters, param)
			}
		}
	}

	if mappedVariadicArgumentsToParameters {
		variadicPositional = nil
		variadicKeyword = nil
	}

	m.UnmappedArguments = append(m.UnmappedArguments, allPositional...)
	m.UnmappedArguments = append(m.UnmappedArguments, keywords...)
	m.UnmappedArguments = append(m.UnmappedArguments, variadicPositional...)
	m.UnmappedArguments = append(m.UnmappedArguments, variadicKeyword...)
}

// mapComponentsOfTupleParameter maps the elements of a sequence literal
// passed to a tuple parameter onto its components. Arguments of any other
// form cannot be destructured statically.
func mapComponentsOfTupleParameter(m *Mapping, arg *Argument, param *Parameter) {
	elts, ok := sequenceElements(arg.Value)
	if !ok {
		return
	}

	for i, sub := range param.Contents {
		if i >= len(elts) {
			m.UnmappedParameters = append(m.UnmappedParameters, sub)
			continue
		}
		elt := &Argument{Kind: Positional, Node: elts[i], Value: elts[i], Component: true}
		switch sub.Kind {
		case NamedParam:
			m.bind(elt, sub)
		case TupleParam:
			mapComponentsOfTupleParameter(m, elt, sub)
		default:
			m.UnmappedArguments = append(m.UnmappedArguments, elt)
		}
	}
	for _, elt := range elts[min(len(param.Contents), len(elts)):] {
		m.UnmappedArguments = append(m.UnmappedArguments, &Argument{Kind: Positional, Node: elt, Value: elt, Component: true})
	}
}

func removeKeyword(keywords []*Argument, name string) (*Argument, []*Argument) {
	if name == "" {
		return nil, keywords
	}
	for i, arg := range keywords {
		if arg.Keyword == name {
			rest := append(append([]*Argument(nil), keywords[:i]...), keywords[i+1:]...)
			return arg, rest
		}
	}
	return nil, keywords
}

func isSequenceLiteral(expr pythonast.Expr) bool {
	_, ok := sequenceElements(expr)
	return ok
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
