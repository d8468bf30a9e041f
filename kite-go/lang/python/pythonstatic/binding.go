package pythonstatic

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
)

// functionBinding determines whether a function is a static method/class method by
// looking for the "@staticmethod" and "@classmethod" decorators, and whether it is a
// property. This is a heuristic because it is possible to redefine these symbols, or
// even to implement custom versions.
func functionBinding(stmt *pythonast.FunctionDefStmt) (pythontype.Modifier, bool) {
	modifier := pythontype.NoModifier
	var property bool
	for _, dec := range stmt.Decorators {
		switch dottedName(dec) {
		case "classmethod":
			modifier = pythontype.ClassMethod
		case "staticmethod":
			modifier = pythontype.StaticMethod
		case "property", "abstractproperty", "abc.abstractproperty", "cached_property", "functools.cached_property":
			property = true
		}
	}
	return modifier, property
}

// dottedName gets the text of a name or a chain of attributes on a name, or
// the empty string for any other expression
func dottedName(expr pythonast.Expr) string {
	switch expr := expr.(type) {
	case *pythonast.NameExpr:
		return expr.Ident.Literal
	case *pythonast.AttributeExpr:
		if base := dottedName(expr.Value); base != "" {
			return base + "." + expr.Attribute.Literal
		}
	}
	return ""
}
