package pythonast

import "fmt"

// CountNodes counts the number of nodes in an AST
func CountNodes(node Node) int {
	var count int
	InspectEdges(node, func(parent, child Node, field string) bool {
		if !IsNil(child) {
			count++
		}
		return true
	})
	return count
}

// ConstructParentTable creates a map from nodes to their parents.
// Nodecount is the number of nodes in the AST, which is used to pre-allocate
// the map. This parameter can be set to zero, in which case the map will grow
// automatically, but note that this will incur additional heap allocations.
func ConstructParentTable(node Node, nodecount int) map[Node]Node {
	parents := make(map[Node]Node, nodecount)
	InspectEdges(node, func(parent, child Node, field string) bool {
		if !IsNil(parent) && !IsNil(child) {
			parents[child] = parent
		}
		return true
	})
	return parents
}

type stmtTableVisitor struct {
	out  map[Expr]Stmt
	stmt Stmt
}

// Visit implements EdgeVisitor
func (v stmtTableVisitor) VisitEdge(parent, node Node, field string) (w EdgeVisitor) {
	if IsNil(node) {
		return nil
	}
	if stmt, ok := node.(Stmt); ok {
		return stmtTableVisitor{v.out, stmt}
	}
	if expr, ok := node.(Expr); ok && v.stmt != nil {
		v.out[expr] = v.stmt
	}
	return v
}

// ConstructStmtTable creates a map from expressions to the most deeply
// nested statement contain them.
// Nodecount is the number of nodes in the AST, which is used to pre-allocate
// the map. This parameter can be set to zero, in which case the map will grow
// automatically, but note that this will incur additional heap allocations.
func ConstructStmtTable(node Node, nodecount int) map[Expr]Stmt {
	out := make(map[Expr]Stmt, nodecount)
	WalkEdges(stmtTableVisitor{out, nil}, node)
	return out
}

// ConstructScopeTable creates a map from expressions to the deepest containing lexical scope,
// in which name resolution would begin.
//
// Decorators, base classes, the function name, its return annotation and the
// annotations and defaults of its parameters are resolved in the scope that
// contains the definition. Comprehensions get their own scope, as in python 3.
func ConstructScopeTable(mod *Module) map[Expr]Scope {
	temp := make(map[Node]Scope)
	out := make(map[Expr]Scope)

	InspectEdges(mod, func(parent, child Node, field string) bool {
		if parent == nil {
			temp[mod] = mod
			return true
		}
		if child == nil {
			return false
		}

		var current Scope
		switch parent := parent.(type) {
		case *ClassDefStmt:
			switch field {
			case "Body":
				current = parent
			case "Name", "Args", "Decorators":
				current = temp[parent]
			default:
				panic(fmt.Errorf("unhandled class def field %s", field))
			}
		case *FunctionDefStmt:
			switch field {
			case "Name", "Decorators", "Annotation":
				current = temp[parent]
			case "Parameters", "Body":
				current = parent
			default:
				panic(fmt.Errorf("unhandled function def field %s", field))
			}
		case *LambdaExpr, *ComprehensionExpr, *Module:
			current = parent.(Scope)
		case *Parameter:
			switch field {
			case "Annotation", "Default":
				// the parameter itself is mapped to the function (or lambda)
				// scope, so step out once more
				current = temp[temp[parent]]
			case "Name":
				current = temp[parent]
			default:
				panic(fmt.Errorf("unhandled field %s for %T", field, parent))
			}
		default:
			current = temp[parent]
		}

		temp[child] = current
		if expr, ok := child.(Expr); ok {
			out[expr] = current
		}
		return true
	})
	return out
}

// EnclosingScope returns the deepest Module, ClassDefStmt, FunctionDefStmt,
// LambdaExpr or ComprehensionExpr that strictly contains node, according to
// the given parent table, or nil if there is none.
func EnclosingScope(node Node, parents map[Node]Node) Scope {
	for n := parents[node]; !IsNil(n); n = parents[n] {
		if s, ok := n.(Scope); ok {
			return s
		}
	}
	return nil
}
