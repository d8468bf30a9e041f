package pythonstatic

import (
	"go/token"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
)

type scopeKind int

const (
	moduleScope scopeKind = iota
	classScope
	functionScope
	comprehensionScope
)

// binding is a single place at which a name is bound
type binding struct {
	// value is nil when nothing is known about the bound value, e.g. for loop
	// targets and names imported from other modules
	value pythontype.Value
	// pos is the offset after which references observe the binding
	pos         token.Pos
	conditional bool
}

// scope holds the bindings made in a module, class body, function body,
// lambda or comprehension, with each name's bindings in source order
type scope struct {
	kind      scopeKind
	parent    *scope
	bindings  map[string][]*binding
	globals   map[string]bool
	nonlocals map[string]bool
	class     *pythontype.Class    // set for class scopes
	function  *pythontype.Function // set for function and lambda scopes
}

func newScope(kind scopeKind, parent *scope) *scope {
	return &scope{
		kind:      kind,
		parent:    parent,
		bindings:  make(map[string][]*binding),
		globals:   make(map[string]bool),
		nonlocals: make(map[string]bool),
	}
}

func (s *scope) root() *scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// target gets the scope in which an assignment to name from s binds, taking
// global and nonlocal declarations into account
func (s *scope) target(name string) *scope {
	switch {
	case s.globals[name]:
		return s.root()
	case s.nonlocals[name]:
		for p := s.parent; p != nil; p = p.parent {
			if p.kind == functionScope {
				return p
			}
		}
	}
	return s
}

// lookup finds the scope that binds a reference to name made from s, or nil if
// the module does not bind the name. Class scopes are only visible to
// references made directly in the class body.
func (s *scope) lookup(name string) *scope {
	if s.globals[name] {
		if r := s.root(); len(r.bindings[name]) > 0 {
			return r
		}
		return nil
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur != s && cur.kind == classScope {
			continue
		}
		if len(cur.bindings[name]) > 0 {
			return cur
		}
	}
	return nil
}

// reaching gets the bindings that a reference at pos may observe. A reference
// made in the binding scope observes the last unconditional binding before it
// and the conditional bindings between that one and the reference. References
// from nested scopes, and references that precede every binding, observe the
// last unconditional binding and every conditional binding after it.
func reaching(bs []*binding, pos token.Pos, local bool) []*binding {
	if local {
		var before []*binding
		for _, b := range bs {
			if b.pos <= pos {
				before = append(before, b)
			}
		}
		if len(before) > 0 {
			return lastUnconditional(before)
		}
	}
	return lastUnconditional(bs)
}

func lastUnconditional(bs []*binding) []*binding {
	for i := len(bs) - 1; i >= 0; i-- {
		if !bs[i].conditional {
			return bs[i:]
		}
	}
	return bs
}

// values gets the distinct known values of some bindings
func values(bs []*binding) []pythontype.Value {
	var out []pythontype.Value
	for _, b := range bs {
		out = appendUnique(out, b.value)
	}
	return out
}

func appendUnique(vals []pythontype.Value, v pythontype.Value) []pythontype.Value {
	if v == nil {
		return vals
	}
	for _, w := range vals {
		if pythontype.Equal(v, w) {
			return vals
		}
	}
	return append(vals, v)
}

// scopeOf gets the scope in which resolution of a reference begins
func (a *Analysis) scopeOf(expr pythonast.Expr) *scope {
	s, ok := a.exprScopes[expr]
	if !ok {
		return nil
	}
	return a.scopes[s]
}
