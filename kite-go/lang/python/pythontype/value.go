package pythontype

import (
	"fmt"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
)

// Kind is the most meta of all the meta levels we use to describe values in
// python. It distinguishes the things that a reference can resolve to, including
// things that are not directly representable as python values, such as unions.
type Kind int

const (
	// UnknownKind indicates a python value about which we know nothing
	UnknownKind Kind = iota
	// FunctionKind indicates a python function or method
	FunctionKind
	// TypeKind indicates a class definition
	TypeKind
	// InstanceKind indicates an instance of some class
	InstanceKind
	// ModuleKind indicates a python module
	ModuleKind
	// UnionKind indicates a value that is a union of several possible values
	UnionKind
	// NoneKind indicates the None singleton
	NoneKind
	// ParamKind indicates a function or lambda parameter
	ParamKind
	// ExprKind indicates an assigned value that is not itself a reference
	ExprKind
	// BoundKind indicates a function bound to a receiver
	BoundKind
)

// String gets a string representation of this kind
func (k Kind) String() string {
	switch k {
	case UnknownKind:
		return "unknown"
	case FunctionKind:
		return "function"
	case TypeKind:
		return "type"
	case InstanceKind:
		return "instance"
	case ModuleKind:
		return "module"
	case UnionKind:
		return "union"
	case NoneKind:
		return "none"
	case ParamKind:
		return "param"
	case ExprKind:
		return "expr"
	case BoundKind:
		return "bound"
	default:
		return fmt.Sprintf("invalid(%d)", k)
	}
}

// Value represents something a python reference or expression might evaluate
// to: a definition (function, class, module, parameter), an instance of a
// class, or a disjunction of those.
type Value interface {
	// Kind categorizes this value as function/type/module/instance/union/etc
	Kind() Kind
	// String gets a short, human readable representation of this value
	String() string
}

// Version is a python language level
type Version int

const (
	// Python2 is the python 2.x language level
	Python2 Version = 2
	// Python3 is the python 3.x language level
	Python3 Version = 3
)

// String gets a string representation of this version
func (v Version) String() string {
	return fmt.Sprintf("python%d", int(v))
}

// Instance represents an instance of a class
type Instance struct {
	Class *Class
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v Instance) Kind() Kind { return InstanceKind }

// String provides a string representation of this value
func (v Instance) String() string {
	if v.Class == nil {
		return "instance:?"
	}
	return "instance:" + v.Class.Name
}

// Attr looks up an attribute on the instance: attributes assigned through
// a receiver take precedence over class members.
func (v Instance) Attr(name string) Value {
	if v.Class == nil {
		return nil
	}
	for _, c := range v.Class.MRO() {
		if val, ok := c.Attrs[name]; ok {
			return val
		}
	}
	val, _ := v.Class.Lookup(name)
	return val
}

// NoneType is the type of the None singleton
type NoneType struct{}

// None is the python None value
var None = NoneType{}

// Kind categorizes this value as function/type/module/instance/union/etc
func (NoneType) Kind() Kind { return NoneKind }

// String provides a string representation of this value
func (NoneType) String() string { return "None" }

// Param represents a parameter of a function or lambda. Func is nil for lambdas.
type Param struct {
	Func  *Function
	Index int
	Node  *pythonast.Parameter
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v *Param) Kind() Kind { return ParamKind }

// String provides a string representation of this value
func (v *Param) String() string {
	name := "?"
	if n, ok := v.Node.Name.(*pythonast.NameExpr); ok {
		name = n.Ident.Literal
	}
	if v.Func == nil {
		return "param:" + name
	}
	return "param:" + v.Func.QualifiedName() + "." + name
}

// Expression is an assigned value that is not a reference to another
// definition, e.g. the right hand side of "x = classmethod(f)" or "y = 1"
type Expression struct {
	Expr pythonast.Expr
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v Expression) Kind() Kind { return ExprKind }

// String provides a string representation of this value
func (v Expression) String() string {
	return "expr:" + pythonast.String(v.Expr)
}

// BoundMethod is a function accessed through an instance
type BoundMethod struct {
	Func     *Function
	Receiver Value
}

// Kind categorizes this value as function/type/module/instance/union/etc
func (v BoundMethod) Kind() Kind { return BoundKind }

// String provides a string representation of this value
func (v BoundMethod) String() string {
	return fmt.Sprintf("bound:%s(%v)", v.Func.QualifiedName(), v.Receiver)
}

// Equal determines whether two values are the same. Definitions are compared
// by identity, instances by class, and unions by their sets of constituents.
func Equal(u, v Value) bool {
	if u == nil || v == nil {
		return u == nil && v == nil
	}
	switch u := u.(type) {
	case Union:
		w, ok := v.(Union)
		if !ok || u.Weak != w.Weak || len(u.Constituents) != len(w.Constituents) {
			return false
		}
	outer:
		for _, ui := range u.Constituents {
			for _, wi := range w.Constituents {
				if Equal(ui, wi) {
					continue outer
				}
			}
			return false
		}
		return true
	case BoundMethod:
		w, ok := v.(BoundMethod)
		return ok && u.Func == w.Func && Equal(u.Receiver, w.Receiver)
	}
	switch v.(type) {
	case Union, BoundMethod:
		return false
	}
	return u == v
}
