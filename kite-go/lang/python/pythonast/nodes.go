package pythonast

import (
	"go/token"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonscanner"
)

// Node is the interface implemented by all syntax tree nodes
type Node interface {
	Begin() token.Pos
	End() token.Pos
	// children calls visit once for each non-nil child of the node, in source order
	children(visit childFunc)
}

// Expr is the interface implemented by all expression nodes
type Expr interface {
	Node
	iExpr()
}

// Stmt is the interface implemented by all statement nodes
type Stmt interface {
	Node
	iStmt()
}

// Scope is implemented by the nodes that introduce a lexical scope in which
// names are bound
type Scope interface {
	Node
	iScope()
}

type childFunc func(child Node, field string)

func (f childFunc) node(n Node, field string) {
	if !IsNil(n) {
		f(n, field)
	}
}

func (f childFunc) exprs(es []Expr, field string) {
	for _, e := range es {
		f.node(e, field)
	}
}

func (f childFunc) stmts(ss []Stmt, field string) {
	for _, s := range ss {
		f.node(s, field)
	}
}

func wordBegin(w *pythonscanner.Word, fallback token.Pos) token.Pos {
	if w == nil {
		return fallback
	}
	return w.Begin
}

func wordEnd(w *pythonscanner.Word, fallback token.Pos) token.Pos {
	if w == nil {
		return fallback
	}
	return w.End
}

func nodeBegin(n Node, fallback token.Pos) token.Pos {
	if IsNil(n) {
		return fallback
	}
	return n.Begin()
}

func nodeEnd(n Node, fallback token.Pos) token.Pos {
	if IsNil(n) {
		return fallback
	}
	return n.End()
}

func bodyEnd(body []Stmt, fallback token.Pos) token.Pos {
	if len(body) == 0 {
		return fallback
	}
	return nodeEnd(body[len(body)-1], fallback)
}

// -- Expressions

// BadExpr represents a region of source that could not be parsed as an expression
type BadExpr struct {
	From, To token.Pos
}

// NameExpr is an identifier
type NameExpr struct {
	Ident *pythonscanner.Word
}

// EllipsisExpr is the literal "..."
type EllipsisExpr struct {
	From, To token.Pos
}

// NumberExpr is a numeric literal
type NumberExpr struct {
	Number *pythonscanner.Word
}

// StringExpr is one or more adjacent string literals
type StringExpr struct {
	Strings []*pythonscanner.Word
}

// AttributeExpr is "Value.Attribute"
type AttributeExpr struct {
	Value     Expr
	Dot       *pythonscanner.Word
	Attribute *pythonscanner.Word
}

// CallExpr is "Func(Args...)". Args are kept in source order.
type CallExpr struct {
	Func       Expr
	LeftParen  *pythonscanner.Word
	Args       []*Argument
	RightParen *pythonscanner.Word
}

// Argument is a single argument at a call site or in a class definition's base list.
// Name is set for keyword arguments, Star is set for "*x" and "**x".
type Argument struct {
	Star   *pythonscanner.Word
	Name   *NameExpr
	Equals *pythonscanner.Word
	Value  Expr
}

// Stars returns 1 for "*x", 2 for "**x" and 0 otherwise
func (a *Argument) Stars() int {
	switch {
	case a.Star == nil:
		return 0
	case a.Star.Token == pythonscanner.Pow:
		return 2
	default:
		return 1
	}
}

// IndexExpr is "Value[Index]"; slices and multiple subscripts appear as
// SliceExpr and TupleExpr indices.
type IndexExpr struct {
	Value      Expr
	LeftBrack  *pythonscanner.Word
	Index      Expr
	RightBrack *pythonscanner.Word
}

// SliceExpr is "Lower:Upper:Step" inside a subscript
type SliceExpr struct {
	From, To token.Pos
	Lower    Expr
	Upper    Expr
	Step     Expr
}

// TupleExpr is a comma separated sequence of expressions, optionally parenthesized
type TupleExpr struct {
	LeftParen  *pythonscanner.Word
	Elts       []Expr
	RightParen *pythonscanner.Word
}

// ListExpr is "[Values...]"
type ListExpr struct {
	LeftBrack  *pythonscanner.Word
	Values     []Expr
	RightBrack *pythonscanner.Word
}

// SetExpr is "{Values...}"
type SetExpr struct {
	LeftBrace  *pythonscanner.Word
	Values     []Expr
	RightBrace *pythonscanner.Word
}

// DictExpr is "{Key: Value, ...}"
type DictExpr struct {
	LeftBrace  *pythonscanner.Word
	Items      []*KeyValuePair
	RightBrace *pythonscanner.Word
}

// KeyValuePair is a single dict item. Key is nil for "**Value".
type KeyValuePair struct {
	Key   Expr
	Value Expr
}

// StarExpr is "*Value" in an assignment target or a display
type StarExpr struct {
	Star  *pythonscanner.Word
	Value Expr
}

// UnaryExpr is "Op Value"
type UnaryExpr struct {
	Op    *pythonscanner.Word
	Value Expr
}

// BinaryExpr covers arithmetic, boolean and comparison operators. Compound
// comparisons such as "not in" have a single Op word with the full literal.
type BinaryExpr struct {
	Left  Expr
	Op    *pythonscanner.Word
	Right Expr
}

// IfExpr is "Body if Condition else Else"
type IfExpr struct {
	Body      Expr
	Condition Expr
	Else      Expr
}

// LambdaExpr is "lambda Parameters: Body"
type LambdaExpr struct {
	Lambda     *pythonscanner.Word
	Parameters []*Parameter
	Body       Expr
}

// ComprehensionKind distinguishes list, set, dict and generator comprehensions
type ComprehensionKind int

const (
	// GeneratorComprehension is "(Value for ...)"
	GeneratorComprehension ComprehensionKind = iota
	// ListComprehension is "[Value for ...]"
	ListComprehension
	// SetComprehension is "{Value for ...}"
	SetComprehension
	// DictComprehension is "{Key: Value for ...}"
	DictComprehension
)

// ComprehensionExpr is a list, set, dict or generator comprehension
type ComprehensionExpr struct {
	Kind       ComprehensionKind
	Open       *pythonscanner.Word
	Key        Expr
	Value      Expr
	Generators []*Generator
	Close      *pythonscanner.Word
}

// Generator is "for Target in Iterable if Filters..." inside a comprehension
type Generator struct {
	For      *pythonscanner.Word
	Target   Expr
	Iterable Expr
	Filters  []Expr
}

// YieldExpr is "yield Value" or "yield from Value"
type YieldExpr struct {
	Yield *pythonscanner.Word
	From  bool
	Value Expr
}

// AwaitExpr is "await Value"
type AwaitExpr struct {
	Await *pythonscanner.Word
	Value Expr
}

// DottedExpr is a dotted name in an import statement
type DottedExpr struct {
	Names []*NameExpr
}

// Parameter is a declared parameter of a function or lambda.
// Name is a *NameExpr, a *TupleExpr of names for a destructuring parameter,
// or nil for the bare "*" marker. Star is set for "*args" and "**kwargs".
type Parameter struct {
	Star       *pythonscanner.Word
	Name       Expr
	Annotation Expr
	Default    Expr
}

// Stars returns 1 for "*args" or the bare "*", 2 for "**kwargs" and 0 otherwise
func (p *Parameter) Stars() int {
	switch {
	case p.Star == nil:
		return 0
	case p.Star.Token == pythonscanner.Pow:
		return 2
	default:
		return 1
	}
}

// -- Statements

// BadStmt represents a region of source that could not be parsed as a statement
type BadStmt struct {
	From, To token.Pos
}

// ExprStmt is an expression evaluated for its side effects
type ExprStmt struct {
	Value Expr
}

// AssignStmt is "Targets[0] = Targets[1] = ... = Value" or an annotated
// assignment "Target: Annotation = Value" where Value may be nil.
type AssignStmt struct {
	Targets    []Expr
	Annotation Expr
	Value      Expr
}

// AugAssignStmt is "Target Op= Value"
type AugAssignStmt struct {
	Target Expr
	Op     *pythonscanner.Word
	Value  Expr
}

// ReturnStmt is "return Value"
type ReturnStmt struct {
	Return *pythonscanner.Word
	Value  Expr
}

// PassStmt is "pass"
type PassStmt struct {
	Pass *pythonscanner.Word
}

// BreakStmt is "break"
type BreakStmt struct {
	Break *pythonscanner.Word
}

// ContinueStmt is "continue"
type ContinueStmt struct {
	Continue *pythonscanner.Word
}

// DelStmt is "del Targets..."
type DelStmt struct {
	Del     *pythonscanner.Word
	Targets []Expr
}

// RaiseStmt is "raise Type from From"
type RaiseStmt struct {
	Raise *pythonscanner.Word
	Type  Expr
	From  Expr
}

// GlobalStmt is "global Names..."
type GlobalStmt struct {
	Global *pythonscanner.Word
	Names  []*NameExpr
}

// NonLocalStmt is "nonlocal Names..."
type NonLocalStmt struct {
	NonLocal *pythonscanner.Word
	Names    []*NameExpr
}

// AssertStmt is "assert Condition, Message"
type AssertStmt struct {
	Assert    *pythonscanner.Word
	Condition Expr
	Message   Expr
}

// DottedAsName is "a.b.c as d" in an import statement
type DottedAsName struct {
	External *DottedExpr
	Internal *NameExpr
}

// ImportNameStmt is "import a.b as c, d"
type ImportNameStmt struct {
	Import *pythonscanner.Word
	Names  []*DottedAsName
}

// ImportAsName is "a as b" in a from-import
type ImportAsName struct {
	External *NameExpr
	Internal *NameExpr
}

// ImportFromStmt is "from ..Package import Names" or "from Package import *"
type ImportFromStmt struct {
	From     *pythonscanner.Word
	Dots     int
	Package  *DottedExpr
	Names    []*ImportAsName
	Wildcard *pythonscanner.Word
	To       token.Pos
}

// Branch is a single "if" or "elif" clause
type Branch struct {
	Condition Expr
	Body      []Stmt
}

// IfStmt is "if ...: elif ...: else: ..."
type IfStmt struct {
	If       *pythonscanner.Word
	Branches []*Branch
	Else     []Stmt
}

// WhileStmt is "while Condition: Body else: Else"
type WhileStmt struct {
	While     *pythonscanner.Word
	Condition Expr
	Body      []Stmt
	Else      []Stmt
}

// ForStmt is "for Target in Iterable: Body else: Else"
type ForStmt struct {
	Async    *pythonscanner.Word
	For      *pythonscanner.Word
	Target   Expr
	Iterable Expr
	Body     []Stmt
	Else     []Stmt
}

// ExceptClause is "except Type as Target: Body"
type ExceptClause struct {
	Except *pythonscanner.Word
	Type   Expr
	Target Expr
	Body   []Stmt
}

// TryStmt is "try: Body except...: else: Else finally: Finally"
type TryStmt struct {
	Try      *pythonscanner.Word
	Body     []Stmt
	Handlers []*ExceptClause
	Else     []Stmt
	Finally  []Stmt
}

// WithItem is "Value as Target" in a with statement
type WithItem struct {
	Value  Expr
	Target Expr
}

// WithStmt is "with Items...: Body"
type WithStmt struct {
	Async *pythonscanner.Word
	With  *pythonscanner.Word
	Items []*WithItem
	Body  []Stmt
}

// FunctionDefStmt is a (possibly decorated) function definition
type FunctionDefStmt struct {
	Decorators []Expr
	Async      *pythonscanner.Word
	Def        *pythonscanner.Word
	Name       *NameExpr
	Parameters []*Parameter
	Annotation Expr
	Body       []Stmt
}

// ClassDefStmt is a (possibly decorated) class definition
type ClassDefStmt struct {
	Decorators []Expr
	Class      *pythonscanner.Word
	Name       *NameExpr
	Args       []*Argument
	Body       []Stmt
}

// Module is the root of a syntax tree
type Module struct {
	Body []Stmt
}

// -- marker methods

func (*BadExpr) iExpr()           {}
func (*NameExpr) iExpr()          {}
func (*EllipsisExpr) iExpr()      {}
func (*NumberExpr) iExpr()        {}
func (*StringExpr) iExpr()        {}
func (*AttributeExpr) iExpr()     {}
func (*CallExpr) iExpr()          {}
func (*IndexExpr) iExpr()         {}
func (*SliceExpr) iExpr()         {}
func (*TupleExpr) iExpr()         {}
func (*ListExpr) iExpr()          {}
func (*SetExpr) iExpr()           {}
func (*DictExpr) iExpr()          {}
func (*StarExpr) iExpr()          {}
func (*UnaryExpr) iExpr()         {}
func (*BinaryExpr) iExpr()        {}
func (*IfExpr) iExpr()            {}
func (*LambdaExpr) iExpr()        {}
func (*ComprehensionExpr) iExpr() {}
func (*YieldExpr) iExpr()         {}
func (*AwaitExpr) iExpr()         {}
func (*DottedExpr) iExpr()        {}

func (*BadStmt) iStmt()         {}
func (*ExprStmt) iStmt()        {}
func (*AssignStmt) iStmt()      {}
func (*AugAssignStmt) iStmt()   {}
func (*ReturnStmt) iStmt()      {}
func (*PassStmt) iStmt()        {}
func (*BreakStmt) iStmt()       {}
func (*ContinueStmt) iStmt()    {}
func (*DelStmt) iStmt()         {}
func (*RaiseStmt) iStmt()       {}
func (*GlobalStmt) iStmt()      {}
func (*NonLocalStmt) iStmt()    {}
func (*AssertStmt) iStmt()      {}
func (*ImportNameStmt) iStmt()  {}
func (*ImportFromStmt) iStmt()  {}
func (*IfStmt) iStmt()          {}
func (*WhileStmt) iStmt()       {}
func (*ForStmt) iStmt()         {}
func (*TryStmt) iStmt()         {}
func (*WithStmt) iStmt()        {}
func (*FunctionDefStmt) iStmt() {}
func (*ClassDefStmt) iStmt()    {}

func (*Module) iScope()            {}
func (*ClassDefStmt) iScope()      {}
func (*FunctionDefStmt) iScope()   {}
func (*LambdaExpr) iScope()        {}
func (*ComprehensionExpr) iScope() {}
