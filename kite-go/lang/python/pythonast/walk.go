package pythonast

import "reflect"

// IsNil returns true if n is nil or a typed nil pointer
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// An EdgeVisitor's VisitEdge method is invoked for each edge encountered by
// WalkEdges. The root is visited with a nil parent. If the result visitor w is
// not nil, WalkEdges visits each child with w, followed by w.VisitEdge(node, nil, "").
type EdgeVisitor interface {
	VisitEdge(parent, child Node, field string) (w EdgeVisitor)
}

// WalkEdges traverses an AST in depth-first order, reporting the field of the
// parent through which each child was reached.
func WalkEdges(v EdgeVisitor, root Node) {
	walkEdge(v, nil, root, "")
}

func walkEdge(v EdgeVisitor, parent, node Node, field string) {
	if IsNil(node) {
		return
	}
	w := v.VisitEdge(parent, node, field)
	if w == nil {
		return
	}
	node.children(func(child Node, field string) {
		walkEdge(w, node, child, field)
	})
	w.VisitEdge(node, nil, "")
}

type edgeInspector func(parent, child Node, field string) bool

func (f edgeInspector) VisitEdge(parent, child Node, field string) EdgeVisitor {
	if f(parent, child, field) {
		return f
	}
	return nil
}

// InspectEdges traverses an AST in depth-first order, calling f for each edge.
// If f returns true, InspectEdges recurses into the child, then calls f(child, nil, "").
func InspectEdges(root Node, f func(parent, child Node, field string) bool) {
	WalkEdges(edgeInspector(f), root)
}

type walker struct {
	v Visitor
}

func (w walker) VisitEdge(parent, child Node, field string) EdgeVisitor {
	if child == nil {
		w.v.Visit(nil)
		return nil
	}
	if next := w.v.Visit(child); next != nil {
		return walker{next}
	}
	return nil
}

// Walk traverses an AST in depth-first order: it calls v.Visit(node), and if the
// returned visitor is non-nil, walks each child of node with it, then calls Visit(nil).
func Walk(v Visitor, root Node) {
	WalkEdges(walker{v}, root)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: it calls f(node), and if f
// returns true, recurses into each child followed by a call of f(nil).
func Inspect(root Node, f func(Node) bool) {
	Walk(inspector(f), root)
}

// -- children

func (n *BadExpr) children(childFunc)      {}
func (n *NameExpr) children(childFunc)     {}
func (n *EllipsisExpr) children(childFunc) {}
func (n *NumberExpr) children(childFunc)   {}
func (n *StringExpr) children(childFunc)   {}

func (n *AttributeExpr) children(f childFunc) {
	f.node(n.Value, "Value")
}

func (n *CallExpr) children(f childFunc) {
	f.node(n.Func, "Func")
	for _, arg := range n.Args {
		f.node(arg, "Args")
	}
}

func (n *Argument) children(f childFunc) {
	f.node(n.Name, "Name")
	f.node(n.Value, "Value")
}

func (n *IndexExpr) children(f childFunc) {
	f.node(n.Value, "Value")
	f.node(n.Index, "Index")
}

func (n *SliceExpr) children(f childFunc) {
	f.node(n.Lower, "Lower")
	f.node(n.Upper, "Upper")
	f.node(n.Step, "Step")
}

func (n *TupleExpr) children(f childFunc) { f.exprs(n.Elts, "Elts") }
func (n *ListExpr) children(f childFunc)  { f.exprs(n.Values, "Values") }
func (n *SetExpr) children(f childFunc)   { f.exprs(n.Values, "Values") }

func (n *DictExpr) children(f childFunc) {
	for _, item := range n.Items {
		f.node(item, "Items")
	}
}

func (n *KeyValuePair) children(f childFunc) {
	f.node(n.Key, "Key")
	f.node(n.Value, "Value")
}

func (n *StarExpr) children(f childFunc)  { f.node(n.Value, "Value") }
func (n *UnaryExpr) children(f childFunc) { f.node(n.Value, "Value") }

func (n *BinaryExpr) children(f childFunc) {
	f.node(n.Left, "Left")
	f.node(n.Right, "Right")
}

func (n *IfExpr) children(f childFunc) {
	f.node(n.Body, "Body")
	f.node(n.Condition, "Condition")
	f.node(n.Else, "Else")
}

func (n *LambdaExpr) children(f childFunc) {
	for _, p := range n.Parameters {
		f.node(p, "Parameters")
	}
	f.node(n.Body, "Body")
}

func (n *ComprehensionExpr) children(f childFunc) {
	f.node(n.Key, "Key")
	f.node(n.Value, "Value")
	for _, g := range n.Generators {
		f.node(g, "Generators")
	}
}

func (n *Generator) children(f childFunc) {
	f.node(n.Target, "Target")
	f.node(n.Iterable, "Iterable")
	f.exprs(n.Filters, "Filters")
}

func (n *YieldExpr) children(f childFunc) { f.node(n.Value, "Value") }
func (n *AwaitExpr) children(f childFunc) { f.node(n.Value, "Value") }

func (n *DottedExpr) children(f childFunc) {
	for _, name := range n.Names {
		f.node(name, "Names")
	}
}

func (n *Parameter) children(f childFunc) {
	f.node(n.Name, "Name")
	f.node(n.Annotation, "Annotation")
	f.node(n.Default, "Default")
}

func (n *BadStmt) children(childFunc)      {}
func (n *PassStmt) children(childFunc)     {}
func (n *BreakStmt) children(childFunc)    {}
func (n *ContinueStmt) children(childFunc) {}

func (n *ExprStmt) children(f childFunc) { f.node(n.Value, "Value") }

func (n *AssignStmt) children(f childFunc) {
	f.exprs(n.Targets, "Targets")
	f.node(n.Annotation, "Annotation")
	f.node(n.Value, "Value")
}

func (n *AugAssignStmt) children(f childFunc) {
	f.node(n.Target, "Target")
	f.node(n.Value, "Value")
}

func (n *ReturnStmt) children(f childFunc) { f.node(n.Value, "Value") }
func (n *DelStmt) children(f childFunc)    { f.exprs(n.Targets, "Targets") }

func (n *RaiseStmt) children(f childFunc) {
	f.node(n.Type, "Type")
	f.node(n.From, "From")
}

func (n *GlobalStmt) children(f childFunc) {
	for _, name := range n.Names {
		f.node(name, "Names")
	}
}

func (n *NonLocalStmt) children(f childFunc) {
	for _, name := range n.Names {
		f.node(name, "Names")
	}
}

func (n *AssertStmt) children(f childFunc) {
	f.node(n.Condition, "Condition")
	f.node(n.Message, "Message")
}

func (n *DottedAsName) children(f childFunc) {
	f.node(n.External, "External")
	f.node(n.Internal, "Internal")
}

func (n *ImportNameStmt) children(f childFunc) {
	for _, name := range n.Names {
		f.node(name, "Names")
	}
}

func (n *ImportAsName) children(f childFunc) {
	f.node(n.External, "External")
	f.node(n.Internal, "Internal")
}

func (n *ImportFromStmt) children(f childFunc) {
	f.node(n.Package, "Package")
	for _, name := range n.Names {
		f.node(name, "Names")
	}
}

func (n *Branch) children(f childFunc) {
	f.node(n.Condition, "Condition")
	f.stmts(n.Body, "Body")
}

func (n *IfStmt) children(f childFunc) {
	for _, b := range n.Branches {
		f.node(b, "Branches")
	}
	f.stmts(n.Else, "Else")
}

func (n *WhileStmt) children(f childFunc) {
	f.node(n.Condition, "Condition")
	f.stmts(n.Body, "Body")
	f.stmts(n.Else, "Else")
}

func (n *ForStmt) children(f childFunc) {
	f.node(n.Target, "Target")
	f.node(n.Iterable, "Iterable")
	f.stmts(n.Body, "Body")
	f.stmts(n.Else, "Else")
}

func (n *ExceptClause) children(f childFunc) {
	f.node(n.Type, "Type")
	f.node(n.Target, "Target")
	f.stmts(n.Body, "Body")
}

func (n *TryStmt) children(f childFunc) {
	f.stmts(n.Body, "Body")
	for _, h := range n.Handlers {
		f.node(h, "Handlers")
	}
	f.stmts(n.Else, "Else")
	f.stmts(n.Finally, "Finally")
}

func (n *WithItem) children(f childFunc) {
	f.node(n.Value, "Value")
	f.node(n.Target, "Target")
}

func (n *WithStmt) children(f childFunc) {
	for _, item := range n.Items {
		f.node(item, "Items")
	}
	f.stmts(n.Body, "Body")
}

func (n *FunctionDefStmt) children(f childFunc) {
	f.exprs(n.Decorators, "Decorators")
	f.node(n.Name, "Name")
	for _, p := range n.Parameters {
		f.node(p, "Parameters")
	}
	f.node(n.Annotation, "Annotation")
	f.stmts(n.Body, "Body")
}

func (n *ClassDefStmt) children(f childFunc) {
	f.exprs(n.Decorators, "Decorators")
	f.node(n.Name, "Name")
	for _, arg := range n.Args {
		f.node(arg, "Args")
	}
	f.stmts(n.Body, "Body")
}

func (n *Module) children(f childFunc) { f.stmts(n.Body, "Body") }
