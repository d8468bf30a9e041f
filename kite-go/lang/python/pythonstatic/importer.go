package pythonstatic

import (
	"strings"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// ImportPath represents an import path
type ImportPath struct {
	// Origin is the name of the module containing the described import
	Origin string
	// RelativeDots is a count of the number of initial dots in an `from _ import` statement
	// e.g. from ...foo import bar has RelativeDots: 3
	RelativeDots int
	// Path is the imported dotted path for import statements;
	// for `from _ import` statements, it is the path mentioned between the `from` and `import`
	Path []string
	// Extract is the name mentioned after the `import` in an `from _ import` statement
	// it is empty for wildcard (`*`) imports or simple import statements
	Extract string
}

// String gets the import as it would be written in source
func (p ImportPath) String() string {
	path := strings.Repeat(".", p.RelativeDots) + strings.Join(p.Path, ".")
	if p.Extract != "" {
		return "from " + path + " import " + p.Extract
	}
	return "import " + path
}

func dottedParts(expr *pythonast.DottedExpr) []string {
	if expr == nil {
		return nil
	}
	var parts []string
	for _, name := range expr.Names {
		parts = append(parts, name.Ident.Literal)
	}
	return parts
}

// FindImports finds the import statements in a syntax tree
func FindImports(ctx kitectx.Context, origin string, ast *pythonast.Module) []ImportPath {
	ctx.CheckAbort()

	var imports []ImportPath
	pythonast.Inspect(ast, func(n pythonast.Node) bool {
		ctx.CheckAbort()

		if _, isexpr := n.(pythonast.Expr); isexpr {
			// we will not find import statements inside expressions
			return false
		}

		switch stmt := n.(type) {
		case *pythonast.ImportNameStmt:
			for _, clause := range stmt.Names {
				imports = append(imports, ImportPath{
					Origin: origin,
					Path:   dottedParts(clause.External),
				})
			}

		case *pythonast.ImportFromStmt:
			if stmt.Wildcard != nil {
				// `from foo import *`
				imports = append(imports, ImportPath{
					Origin:       origin,
					RelativeDots: stmt.Dots,
					Path:         dottedParts(stmt.Package),
				})
				break
			}

			for _, clause := range stmt.Names {
				imports = append(imports, ImportPath{
					Origin:       origin,
					RelativeDots: stmt.Dots,
					Path:         dottedParts(stmt.Package),
					Extract:      clause.External.Ident.Literal,
				})
			}
		}
		return true
	})
	return imports
}

// importedModule gets the placeholder for an external module. Nothing is known
// about the members of external modules, but every import of the same path
// binds the same value.
func (a *Analysis) importedModule(parts []string) *pythontype.Module {
	name := strings.Join(parts, ".")
	if mod, ok := a.modules[name]; ok {
		return mod
	}
	mod := pythontype.NewModule(name, a.opts.Version)
	a.modules[name] = mod
	return mod
}
