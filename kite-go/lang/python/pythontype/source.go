package pythontype

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
)

// Modifier describes how a method is wrapped: by the staticmethod or
// classmethod decorators, or by a call to those builtins.
type Modifier int

const (
	// NoModifier indicates a plain function or method
	NoModifier Modifier = iota
	// StaticMethod indicates a method wrapped by staticmethod
	StaticMethod
	// ClassMethod indicates a method wrapped by classmethod
	ClassMethod
)

// String gets the name of the decorator for this modifier
func (m Modifier) String() string {
	switch m {
	case StaticMethod:
		return "staticmethod"
	case ClassMethod:
		return "classmethod"
	default:
		return ""
	}
}

// Function represents a python function defined in source, including
// functions of the builtins stub.
type Function struct {
	Name     string
	Def      *pythonast.FunctionDefStmt
	Lambda   *pythonast.LambdaExpr // Lambda is set instead of Def for lambda expressions
	Params   []*pythonast.Parameter
	Class    *Class  // Class is the class in whose body this function was defined, or nil
	Module   *Module // Module is the module in which this function was defined
	Modifier Modifier
	Property bool // Property is true if the function is decorated with property
	Builtin  bool
}

// NewLambda creates a function for a lambda expression
func NewLambda(lambda *pythonast.LambdaExpr, mod *Module) *Function {
	return &Function{
		Name:   "<lambda>",
		Lambda: lambda,
		Params: lambda.Parameters,
		Module: mod,
	}
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v *Function) Kind() Kind { return FunctionKind }

// String returns a string representation of a function
func (v *Function) String() string {
	return "func:" + v.QualifiedName()
}

// AsMethod returns true if the function is defined directly in a class body
func (v *Function) AsMethod() bool {
	return v.Class != nil
}

// QualifiedName gets the dotted name of the function within its module
func (v *Function) QualifiedName() string {
	if v.Class != nil {
		return v.Class.Name + "." + v.Name
	}
	return v.Name
}

// Class represents a python class defined in source
type Class struct {
	Name    string
	Def     *pythonast.ClassDefStmt
	Bases   []*Class         // Bases are the resolved classes in the base list, in declaration order
	Members map[string]Value // Members are bound in the class body
	Attrs   map[string]Value // Attrs are assigned through a receiver in methods, e.g. self.x = ...
	Module  *Module
	Builtin bool

	mro   []*Class
	state mroState
}

type mroState int

const (
	mroPending mroState = iota
	mroComputing
	mroDone
)

// NewClass creates a class with empty member tables
func NewClass(name string, def *pythonast.ClassDefStmt, mod *Module) *Class {
	return &Class{
		Name:    name,
		Def:     def,
		Members: make(map[string]Value),
		Attrs:   make(map[string]Value),
		Module:  mod,
	}
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v *Class) Kind() Kind { return TypeKind }

// String returns a string representation of a class
func (v *Class) String() string {
	return "class:" + v.Name
}

// SuperClasses gets the declared direct base classes
func (v *Class) SuperClasses() []*Class {
	return v.Bases
}

// MRO gets the method resolution order of the class, starting with the class itself
func (v *Class) MRO() []*Class {
	return append([]*Class{v}, v.Ancestors()...)
}

// Ancestors gets all base classes in method resolution order, not including
// the class itself. The C3 linearization is used; hierarchies for which it
// does not exist fall back to a depth-first, left-to-right order. The result
// is computed on first use, so the bases must be set by then. Ancestors is
// not safe for concurrent first use.
func (v *Class) Ancestors() []*Class {
	switch v.state {
	case mroDone:
		return v.mro
	case mroComputing:
		// cyclic hierarchy
		return nil
	}

	v.state = mroComputing
	mro, ok := linearize(v)
	if !ok {
		mro = depthFirst(v)
	}
	v.mro = mro
	v.state = mroDone
	return v.mro
}

// linearize computes the C3 linearization of the ancestors of c
func linearize(c *Class) ([]*Class, bool) {
	var seqs [][]*Class
	for _, b := range c.Bases {
		if b == c || b.state == mroComputing {
			return nil, false
		}
		seqs = append(seqs, b.MRO())
	}
	seqs = append(seqs, append([]*Class(nil), c.Bases...))
	return merge(seqs)
}

func merge(seqs [][]*Class) ([]*Class, bool) {
	var out []*Class
	for {
		var nonempty [][]*Class
		for _, s := range seqs {
			if len(s) > 0 {
				nonempty = append(nonempty, s)
			}
		}
		seqs = nonempty
		if len(seqs) == 0 {
			return out, true
		}

		var head *Class
		for _, s := range seqs {
			if !inTail(s[0], seqs) {
				head = s[0]
				break
			}
		}
		if head == nil {
			return nil, false
		}

		out = append(out, head)
		for i, s := range seqs {
			if s[0] == head {
				seqs[i] = s[1:]
			}
		}
	}
}

func inTail(c *Class, seqs [][]*Class) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == c {
				return true
			}
		}
	}
	return false
}

func depthFirst(c *Class) []*Class {
	seen := map[*Class]bool{c: true}
	var out []*Class
	var visit func(*Class)
	visit = func(x *Class) {
		for _, b := range x.Bases {
			if seen[b] {
				continue
			}
			seen[b] = true
			out = append(out, b)
			visit(b)
		}
	}
	visit(c)
	return out
}

// IsSubclass returns true if v is c or derives from c
func (v *Class) IsSubclass(c *Class) bool {
	if v == c {
		return true
	}
	for _, a := range v.Ancestors() {
		if a == c {
			return true
		}
	}
	return false
}

// Lookup finds a member through the method resolution order, returning
// the member and the class that defines it.
func (v *Class) Lookup(name string) (Value, *Class) {
	for _, c := range v.MRO() {
		if val, ok := c.Members[name]; ok {
			return val, c
		}
	}
	return nil, nil
}

// FindMethod finds a function member through the method resolution order
func (v *Class) FindMethod(name string) *Function {
	val, _ := v.Lookup(name)
	f, _ := val.(*Function)
	return f
}

// FindInitOrNew finds the constructor of a class: the first __init__ or
// __new__ through the method resolution order, preferring __init__ when a
// class defines both. The constructors of the builtin object are only
// returned when nothing else defines one.
func (v *Class) FindInitOrNew() *Function {
	var fallback *Function
	for _, c := range v.MRO() {
		init, _ := c.Members["__init__"].(*Function)
		if init == nil {
			init, _ = c.Members["__new__"].(*Function)
		}
		if init == nil {
			continue
		}
		if c.IsObject() {
			fallback = init
			continue
		}
		return init
	}
	return fallback
}

// IsObject returns true for the builtin object class
func (v *Class) IsObject() bool {
	return v.Builtin && v.Name == "object"
}

// IsNewStyle returns true if the class derives from object. All classes are
// new-style in python 3.
func (v *Class) IsNewStyle(version Version) bool {
	if version >= Python3 || v.IsObject() {
		return true
	}
	for _, a := range v.Ancestors() {
		if a.IsObject() || (a.Builtin && a.Name == "type") {
			return true
		}
	}
	return false
}

// Module represents a python module
type Module struct {
	Name    string
	Members map[string]Value
	Version Version
}

// NewModule creates a module with an empty member table
func NewModule(name string, version Version) *Module {
	return &Module{
		Name:    name,
		Members: make(map[string]Value),
		Version: version,
	}
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v *Module) Kind() Kind { return ModuleKind }

// String returns a string representation of a module
func (v *Module) String() string {
	return "module:" + v.Name
}
