// Package pythontreesitter builds pythonast syntax trees from the concrete syntax
// trees produced by the tree-sitter python grammar. It is an alternative front
// end to pythonparser: the trees it returns can be analyzed by pythonstatic and
// mapped by pythoncall in the same way.
package pythontreesitter

import (
	"go/token"
	"strings"

	sitter "github.com/kiteco/go-tree-sitter"
	"github.com/kiteco/go-tree-sitter/python"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	"github.com/kiteco/pycall/kite-go/lang/python/pythonscanner"
	"github.com/kiteco/pycall/kite-golib/errors"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// operators maps the source text of each operator to its token
var operators = make(map[string]pythonscanner.Token)

func init() {
	for tok := pythonscanner.Token(0); tok < 256; tok++ {
		if tok.IsOperator() {
			operators[tok.String()] = tok
		}
	}
}

func tokenFor(lit string) pythonscanner.Token {
	if tok, ok := operators[lit]; ok {
		return tok
	}
	return pythonscanner.Lookup(lit)
}

// Parse converts the tree-sitter parse of src to a pythonast module. Regions
// that tree-sitter could not parse become BadStmt or BadExpr nodes; in that case
// the module is returned along with an error giving the first such region.
func Parse(ctx kitectx.Context, src []byte) (*pythonast.Module, error) {
	ctx.CheckAbort()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree := parser.Parse(src)
	defer tree.Close()
	root := tree.RootNode()

	c := &converter{ctx: ctx, src: src, firstError: -1}
	mod := &pythonast.Module{Body: c.block(root)}

	if root.HasError() {
		if c.firstError < 0 {
			c.firstError = int(root.StartByte())
		}
		return mod, errors.Errorf("syntax error at offset %d", c.firstError)
	}
	return mod, nil
}

type converter struct {
	// the context is stored here to avoid threading it through every conversion
	ctx        kitectx.Context
	src        []byte
	firstError int
}

func children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// childOfType gets the first child of n with the given type
func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for _, child := range children(n) {
		if child.Type() == typ {
			return child
		}
	}
	return nil
}

// punctuation is skipped when collecting the operands of a node
var punctuation = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	",": true, ":": true, ";": true, "comment": true,
}

// operands gets the children of n that are not punctuation or one of the given keywords
func operands(n *sitter.Node, keywords ...string) []*sitter.Node {
	var out []*sitter.Node
outer:
	for _, child := range children(n) {
		typ := child.Type()
		if punctuation[typ] {
			continue
		}
		for _, kw := range keywords {
			if typ == kw {
				continue outer
			}
		}
		out = append(out, child)
	}
	return out
}

func hasComma(n *sitter.Node) bool {
	return childOfType(n, ",") != nil
}

func (c *converter) report(n *sitter.Node) {
	if c.firstError < 0 {
		c.firstError = int(n.StartByte())
	}
}

func (c *converter) wordAs(n *sitter.Node, tok pythonscanner.Token) *pythonscanner.Word {
	if n == nil {
		return nil
	}
	return &pythonscanner.Word{
		Token:   tok,
		Begin:   token.Pos(n.StartByte()),
		End:     token.Pos(n.EndByte()),
		Literal: n.Content(c.src),
	}
}

func (c *converter) word(n *sitter.Node) *pythonscanner.Word {
	if n == nil {
		return nil
	}
	return c.wordAs(n, tokenFor(n.Content(c.src)))
}

func (c *converter) name(n *sitter.Node) *pythonast.NameExpr {
	if n == nil {
		return nil
	}
	return &pythonast.NameExpr{Ident: c.wordAs(n, pythonscanner.Ident)}
}

func (c *converter) names(n *sitter.Node) []*pythonast.NameExpr {
	var out []*pythonast.NameExpr
	for _, child := range children(n) {
		if child.Type() == "identifier" {
			out = append(out, c.name(child))
		}
	}
	return out
}

func (c *converter) dotted(n *sitter.Node) *pythonast.DottedExpr {
	if n == nil {
		return nil
	}
	if n.Type() != "dotted_name" {
		return &pythonast.DottedExpr{Names: []*pythonast.NameExpr{c.name(n)}}
	}
	return &pythonast.DottedExpr{Names: c.names(n)}
}

// dottedValue converts a dotted name to a chain of attribute expressions
func (c *converter) dottedValue(n *sitter.Node) pythonast.Expr {
	var value pythonast.Expr
	var dot *pythonscanner.Word
	for _, child := range children(n) {
		switch child.Type() {
		case ".":
			dot = c.word(child)
		case "identifier":
			if value == nil {
				value = c.name(child)
				continue
			}
			value = &pythonast.AttributeExpr{
				Value:     value,
				Dot:       dot,
				Attribute: c.wordAs(child, pythonscanner.Ident),
			}
		}
	}
	return value
}

// -- statements

func (c *converter) block(n *sitter.Node) []pythonast.Stmt {
	var stmts []pythonast.Stmt
	for _, child := range children(n) {
		c.ctx.CheckAbort()
		if stmt := c.stmt(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// body gets the statements of the block below a compound statement or clause
func (c *converter) body(n *sitter.Node) []pythonast.Stmt {
	if n == nil {
		return nil
	}
	if b := n.ChildByFieldName("body"); b != nil {
		return c.block(b)
	}
	return c.block(childOfType(n, "block"))
}

func (c *converter) badStmt(n *sitter.Node) *pythonast.BadStmt {
	c.report(n)
	return &pythonast.BadStmt{From: token.Pos(n.StartByte()), To: token.Pos(n.EndByte())}
}

func (c *converter) stmt(n *sitter.Node) pythonast.Stmt {
	switch n.Type() {
	case "expression_statement":
		return c.exprStmt(n)
	case "return_statement":
		return &pythonast.ReturnStmt{
			Return: c.word(n.Child(0)),
			Value:  c.exprList(n, operands(n, "return")),
		}
	case "pass_statement":
		return &pythonast.PassStmt{Pass: c.word(n)}
	case "break_statement":
		return &pythonast.BreakStmt{Break: c.word(n)}
	case "continue_statement":
		return &pythonast.ContinueStmt{Continue: c.word(n)}
	case "delete_statement":
		return &pythonast.DelStmt{Del: c.word(n.Child(0)), Targets: c.flatten(operands(n, "del"))}
	case "raise_statement":
		return c.raiseStmt(n)
	case "global_statement":
		return &pythonast.GlobalStmt{Global: c.word(n.Child(0)), Names: c.names(n)}
	case "nonlocal_statement":
		return &pythonast.NonLocalStmt{NonLocal: c.word(n.Child(0)), Names: c.names(n)}
	case "assert_statement":
		stmt := &pythonast.AssertStmt{Assert: c.word(n.Child(0))}
		exprs := operands(n, "assert")
		if len(exprs) > 0 {
			stmt.Condition = c.expr(exprs[0])
		}
		if len(exprs) > 1 {
			stmt.Message = c.expr(exprs[1])
		}
		return stmt
	case "print_statement":
		return c.printStmt(n)
	case "import_statement":
		return c.importNameStmt(n)
	case "import_from_statement", "future_import_statement":
		return c.importFromStmt(n)
	case "if_statement":
		return c.ifStmt(n)
	case "for_statement":
		return c.forStmt(n)
	case "while_statement":
		return &pythonast.WhileStmt{
			While:     c.word(n.Child(0)),
			Condition: c.expr(n.ChildByFieldName("condition")),
			Body:      c.body(n),
			Else:      c.body(childOfType(n, "else_clause")),
		}
	case "try_statement":
		return c.tryStmt(n)
	case "with_statement":
		return c.withStmt(n)
	case "function_definition":
		return c.functionDef(n)
	case "class_definition":
		return c.classDef(n)
	case "decorated_definition":
		return c.decoratedDef(n)
	case "ERROR", "exec_statement":
		return c.badStmt(n)
	}
	return nil
}

func (c *converter) exprStmt(n *sitter.Node) pythonast.Stmt {
	exprs := operands(n)
	if len(exprs) == 1 {
		switch exprs[0].Type() {
		case "assignment":
			return c.assignment(exprs[0])
		case "augmented_assignment":
			left := exprs[0].ChildByFieldName("left")
			return &pythonast.AugAssignStmt{
				Target: c.expr(left),
				Op:     c.word(exprs[0].ChildByFieldName("operator")),
				Value:  c.expr(exprs[0].ChildByFieldName("right")),
			}
		}
	}
	return &pythonast.ExprStmt{Value: c.exprList(n, exprs)}
}

// assignment flattens a chain "a = b = c" into one statement whose value is the last item
func (c *converter) assignment(n *sitter.Node) *pythonast.AssignStmt {
	stmt := &pythonast.AssignStmt{}
	for cur := n; cur != nil; {
		stmt.Targets = append(stmt.Targets, c.expr(cur.ChildByFieldName("left")))
		if typ := cur.ChildByFieldName("type"); typ != nil && stmt.Annotation == nil {
			stmt.Annotation = c.expr(typ)
		}
		right := cur.ChildByFieldName("right")
		switch {
		case right == nil:
			cur = nil
		case right.Type() == "assignment":
			cur = right
		default:
			stmt.Value = c.expr(right)
			cur = nil
		}
	}
	return stmt
}

func (c *converter) raiseStmt(n *sitter.Node) *pythonast.RaiseStmt {
	stmt := &pythonast.RaiseStmt{Raise: c.word(n.Child(0))}
	var seenFrom bool
	for _, child := range operands(n, "raise") {
		switch {
		case child.Type() == "from":
			seenFrom = true
		case seenFrom:
			stmt.From = c.expr(child)
		case stmt.Type == nil:
			stmt.Type = c.expr(child)
		}
	}
	return stmt
}

// printStmt represents the python 2 print statement as a call of print
func (c *converter) printStmt(n *sitter.Node) pythonast.Stmt {
	call := &pythonast.CallExpr{Func: c.name(n.Child(0))}
	for _, child := range operands(n, "print", "chevron") {
		call.Args = append(call.Args, &pythonast.Argument{Value: c.expr(child)})
	}
	return &pythonast.ExprStmt{Value: call}
}

func (c *converter) importNameStmt(n *sitter.Node) *pythonast.ImportNameStmt {
	stmt := &pythonast.ImportNameStmt{Import: c.word(n.Child(0))}
	for _, child := range children(n) {
		switch child.Type() {
		case "dotted_name":
			stmt.Names = append(stmt.Names, &pythonast.DottedAsName{External: c.dotted(child)})
		case "aliased_import":
			stmt.Names = append(stmt.Names, &pythonast.DottedAsName{
				External: c.dotted(child.ChildByFieldName("name")),
				Internal: c.name(child.ChildByFieldName("alias")),
			})
		}
	}
	return stmt
}

func (c *converter) importFromStmt(n *sitter.Node) *pythonast.ImportFromStmt {
	stmt := &pythonast.ImportFromStmt{}
	var seenImport bool
	for _, child := range children(n) {
		end := token.Pos(child.EndByte())
		switch child.Type() {
		case "from":
			stmt.From = c.word(child)
		case "import":
			seenImport = true
			stmt.To = end
		case "__future__":
			stmt.Package = &pythonast.DottedExpr{Names: []*pythonast.NameExpr{c.name(child)}}
		case "relative_import":
			for _, part := range children(child) {
				switch part.Type() {
				case "import_prefix":
					stmt.Dots = strings.Count(part.Content(c.src), ".")
				case "dotted_name":
					stmt.Package = c.dotted(part)
				}
			}
		case "dotted_name":
			if !seenImport {
				stmt.Package = c.dotted(child)
				continue
			}
			stmt.Names = append(stmt.Names, &pythonast.ImportAsName{External: c.name(child)})
			stmt.To = end
		case "aliased_import":
			stmt.Names = append(stmt.Names, &pythonast.ImportAsName{
				External: c.name(child.ChildByFieldName("name")),
				Internal: c.name(child.ChildByFieldName("alias")),
			})
			stmt.To = end
		case "wildcard_import":
			stmt.Wildcard = c.wordAs(child, pythonscanner.Mul)
			stmt.To = end
		case ")":
			stmt.To = end
		}
	}
	return stmt
}

func (c *converter) ifStmt(n *sitter.Node) *pythonast.IfStmt {
	stmt := &pythonast.IfStmt{
		If: c.word(n.Child(0)),
		Branches: []*pythonast.Branch{{
			Condition: c.expr(n.ChildByFieldName("condition")),
			Body:      c.block(n.ChildByFieldName("consequence")),
		}},
	}
	for _, child := range children(n) {
		switch child.Type() {
		case "elif_clause":
			stmt.Branches = append(stmt.Branches, &pythonast.Branch{
				Condition: c.expr(child.ChildByFieldName("condition")),
				Body:      c.block(child.ChildByFieldName("consequence")),
			})
		case "else_clause":
			stmt.Else = c.body(child)
		}
	}
	return stmt
}

func (c *converter) forStmt(n *sitter.Node) *pythonast.ForStmt {
	stmt := &pythonast.ForStmt{
		Target:   c.expr(n.ChildByFieldName("left")),
		Iterable: c.expr(n.ChildByFieldName("right")),
		Body:     c.body(n),
		Else:     c.body(childOfType(n, "else_clause")),
	}
	for _, child := range children(n) {
		switch child.Type() {
		case "async":
			stmt.Async = c.word(child)
		case "for":
			stmt.For = c.word(child)
		}
	}
	return stmt
}

func (c *converter) tryStmt(n *sitter.Node) *pythonast.TryStmt {
	stmt := &pythonast.TryStmt{Try: c.word(n.Child(0)), Body: c.body(n)}
	for _, child := range children(n) {
		switch child.Type() {
		case "except_clause":
			stmt.Handlers = append(stmt.Handlers, c.exceptClause(child))
		case "else_clause":
			stmt.Else = c.body(child)
		case "finally_clause":
			stmt.Finally = c.body(child)
		}
	}
	return stmt
}

func (c *converter) exceptClause(n *sitter.Node) *pythonast.ExceptClause {
	clause := &pythonast.ExceptClause{Except: c.word(n.Child(0)), Body: c.body(n)}
	var exprs []*sitter.Node
	for _, child := range operands(n, "except", "as", "block") {
		if child.Type() == "as_pattern" {
			exprs = append(exprs, operands(child, "as")...)
			continue
		}
		exprs = append(exprs, child)
	}
	if len(exprs) > 0 {
		clause.Type = c.expr(exprs[0])
	}
	if len(exprs) > 1 {
		clause.Target = c.expr(exprs[len(exprs)-1])
	}
	return clause
}

func (c *converter) withStmt(n *sitter.Node) *pythonast.WithStmt {
	stmt := &pythonast.WithStmt{Body: c.body(n)}
	var items func(n *sitter.Node)
	items = func(n *sitter.Node) {
		for _, child := range children(n) {
			switch child.Type() {
			case "async":
				stmt.Async = c.word(child)
			case "with":
				stmt.With = c.word(child)
			case "with_clause":
				items(child)
			case "with_item":
				stmt.Items = append(stmt.Items, c.withItem(child))
			}
		}
	}
	items(n)
	return stmt
}

func (c *converter) withItem(n *sitter.Node) *pythonast.WithItem {
	value := n.ChildByFieldName("value")
	if value != nil && value.Type() == "as_pattern" {
		parts := operands(value, "as")
		item := &pythonast.WithItem{Value: c.expr(parts[0])}
		if len(parts) > 1 {
			item.Target = c.expr(parts[len(parts)-1])
		}
		return item
	}
	item := &pythonast.WithItem{Value: c.expr(value)}
	if alias := n.ChildByFieldName("alias"); alias != nil {
		item.Target = c.expr(alias)
	}
	return item
}

func (c *converter) functionDef(n *sitter.Node) *pythonast.FunctionDefStmt {
	def := &pythonast.FunctionDefStmt{
		Name:       c.name(n.ChildByFieldName("name")),
		Parameters: c.params(n.ChildByFieldName("parameters")),
		Body:       c.body(n),
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		def.Annotation = c.expr(ret)
	}
	for _, child := range children(n) {
		switch child.Type() {
		case "async":
			def.Async = c.word(child)
		case "def":
			def.Def = c.word(child)
		}
	}
	return def
}

func (c *converter) classDef(n *sitter.Node) *pythonast.ClassDefStmt {
	def := &pythonast.ClassDefStmt{
		Class: c.word(n.Child(0)),
		Name:  c.name(n.ChildByFieldName("name")),
		Body:  c.body(n),
	}
	if bases := n.ChildByFieldName("superclasses"); bases != nil {
		_, def.Args, _ = c.arguments(bases)
	}
	return def
}

func (c *converter) decoratedDef(n *sitter.Node) pythonast.Stmt {
	var decorators []pythonast.Expr
	for _, child := range children(n) {
		if child.Type() == "decorator" {
			decorators = append(decorators, c.decorator(child))
		}
	}

	def := n.ChildByFieldName("definition")
	if def == nil {
		return c.badStmt(n)
	}
	switch def.Type() {
	case "function_definition":
		fn := c.functionDef(def)
		fn.Decorators = decorators
		return fn
	case "class_definition":
		cls := c.classDef(def)
		cls.Decorators = decorators
		return cls
	}
	return c.badStmt(n)
}

// decorator handles both "@" followed by an expression and the older form of
// a dotted name followed by an optional argument list
func (c *converter) decorator(n *sitter.Node) pythonast.Expr {
	var dec pythonast.Expr
	for _, child := range children(n) {
		switch child.Type() {
		case "@", "comment":
		case "dotted_name":
			dec = c.dottedValue(child)
		case "argument_list":
			call := &pythonast.CallExpr{Func: dec}
			call.LeftParen, call.Args, call.RightParen = c.arguments(child)
			dec = call
		default:
			if dec == nil {
				dec = c.expr(child)
			}
		}
	}
	return dec
}

// -- parameters and arguments

func (c *converter) params(n *sitter.Node) []*pythonast.Parameter {
	var params []*pythonast.Parameter
	for _, child := range children(n) {
		if p := c.param(child); p != nil {
			params = append(params, p)
		}
	}
	return params
}

func (c *converter) param(n *sitter.Node) *pythonast.Parameter {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "keyword_identifier":
		return &pythonast.Parameter{Name: c.name(n)}
	case "tuple", "tuple_pattern":
		return &pythonast.Parameter{Name: c.expr(n)}
	case "default_parameter":
		p := c.param(n.ChildByFieldName("name"))
		if p != nil {
			p.Default = c.expr(n.ChildByFieldName("value"))
		}
		return p
	case "typed_parameter":
		var p *pythonast.Parameter
		if parts := operands(n, "type"); len(parts) > 0 {
			p = c.param(parts[0])
		}
		if p != nil {
			p.Annotation = c.expr(n.ChildByFieldName("type"))
		}
		return p
	case "typed_default_parameter":
		p := c.param(n.ChildByFieldName("name"))
		if p != nil {
			p.Annotation = c.expr(n.ChildByFieldName("type"))
			p.Default = c.expr(n.ChildByFieldName("value"))
		}
		return p
	case "list_splat", "list_splat_pattern", "dictionary_splat", "dictionary_splat_pattern":
		name := childOfType(n, "identifier")
		if name == nil {
			// a bare "*" separating the keyword-only parameters
			return &pythonast.Parameter{Star: c.wordAs(n, pythonscanner.Mul)}
		}
		return &pythonast.Parameter{Star: c.word(n.Child(0)), Name: c.name(name)}
	case "*", "keyword_separator":
		return &pythonast.Parameter{Star: c.wordAs(n, pythonscanner.Mul)}
	case "ERROR":
		c.report(n)
	}
	return nil
}

func (c *converter) arguments(n *sitter.Node) (lparen *pythonscanner.Word, args []*pythonast.Argument, rparen *pythonscanner.Word) {
	for _, child := range children(n) {
		switch child.Type() {
		case "(":
			lparen = c.word(child)
		case ")":
			rparen = c.word(child)
		case ",", "comment":
		case "keyword_argument":
			args = append(args, &pythonast.Argument{
				Name:   c.name(child.ChildByFieldName("name")),
				Equals: c.word(childOfType(child, "=")),
				Value:  c.expr(child.ChildByFieldName("value")),
			})
		case "list_splat", "dictionary_splat":
			args = append(args, &pythonast.Argument{
				Star:  c.word(child.Child(0)),
				Value: c.expr(child.Child(int(child.ChildCount()) - 1)),
			})
		default:
			args = append(args, &pythonast.Argument{Value: c.expr(child)})
		}
	}
	return
}

// -- expressions

func (c *converter) badExpr(n *sitter.Node) *pythonast.BadExpr {
	c.report(n)
	return &pythonast.BadExpr{From: token.Pos(n.StartByte()), To: token.Pos(n.EndByte())}
}

// flatten converts a list of expressions, expanding bare expression lists
func (c *converter) flatten(nodes []*sitter.Node) []pythonast.Expr {
	var exprs []pythonast.Expr
	for _, n := range nodes {
		switch n.Type() {
		case "expression_list", "pattern_list", "variables":
			exprs = append(exprs, c.flatten(operands(n))...)
		default:
			exprs = append(exprs, c.expr(n))
		}
	}
	return exprs
}

// exprList converts the operands of parent to a single expression, which is a
// tuple if there is more than one or if parent has a trailing comma
func (c *converter) exprList(parent *sitter.Node, nodes []*sitter.Node) pythonast.Expr {
	switch {
	case len(nodes) == 0:
		return nil
	case len(nodes) == 1 && !hasComma(parent):
		return c.expr(nodes[0])
	}
	return &pythonast.TupleExpr{Elts: c.flatten(nodes)}
}

func numberToken(n *sitter.Node, lit string) pythonscanner.Token {
	lower := strings.ToLower(lit)
	switch {
	case strings.HasSuffix(lower, "j"):
		return pythonscanner.Imag
	case strings.HasSuffix(lower, "l"):
		return pythonscanner.Long
	case n.Type() == "float":
		return pythonscanner.Float
	}
	return pythonscanner.Int
}

func (c *converter) expr(n *sitter.Node) pythonast.Expr {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "identifier", "keyword_identifier", "true", "false", "none":
		return c.name(n)

	case "integer", "float":
		return &pythonast.NumberExpr{Number: c.wordAs(n, numberToken(n, n.Content(c.src)))}

	case "string":
		return &pythonast.StringExpr{Strings: []*pythonscanner.Word{c.wordAs(n, pythonscanner.String)}}

	case "concatenated_string":
		str := &pythonast.StringExpr{}
		for _, child := range children(n) {
			if child.Type() == "string" {
				str.Strings = append(str.Strings, c.wordAs(child, pythonscanner.String))
			}
		}
		return str

	case "ellipsis":
		return &pythonast.EllipsisExpr{From: token.Pos(n.StartByte()), To: token.Pos(n.EndByte())}

	case "type":
		if parts := operands(n); len(parts) > 0 {
			return c.expr(parts[0])
		}

	case "parenthesized_expression":
		if parts := operands(n); len(parts) == 1 {
			return c.expr(parts[0])
		}

	case "attribute":
		return &pythonast.AttributeExpr{
			Value:     c.expr(n.ChildByFieldName("object")),
			Dot:       c.word(childOfType(n, ".")),
			Attribute: c.wordAs(n.ChildByFieldName("attribute"), pythonscanner.Ident),
		}

	case "call":
		return c.call(n)

	case "subscript":
		return c.subscript(n)

	case "slice":
		return c.slice(n)

	case "expression_list", "pattern_list", "variables":
		// the grammar wraps every right hand side and target list, so a
		// single operand without a comma is the operand itself
		if parts := operands(n); len(parts) == 1 && !hasComma(n) {
			return c.expr(parts[0])
		}
		return &pythonast.TupleExpr{Elts: c.flatten(operands(n))}

	case "tuple", "tuple_pattern":
		tuple := &pythonast.TupleExpr{Elts: c.flatten(operands(n))}
		if open := childOfType(n, "("); open != nil {
			tuple.LeftParen = c.word(open)
			tuple.RightParen = c.word(childOfType(n, ")"))
		}
		return tuple

	case "list", "list_pattern":
		return &pythonast.ListExpr{
			LeftBrack:  c.word(childOfType(n, "[")),
			Values:     c.flatten(operands(n)),
			RightBrack: c.word(childOfType(n, "]")),
		}

	case "set":
		return &pythonast.SetExpr{
			LeftBrace:  c.word(childOfType(n, "{")),
			Values:     c.flatten(operands(n)),
			RightBrace: c.word(childOfType(n, "}")),
		}

	case "dictionary":
		dict := &pythonast.DictExpr{
			LeftBrace:  c.word(childOfType(n, "{")),
			RightBrace: c.word(childOfType(n, "}")),
		}
		for _, child := range operands(n) {
			switch child.Type() {
			case "pair":
				dict.Items = append(dict.Items, &pythonast.KeyValuePair{
					Key:   c.expr(child.ChildByFieldName("key")),
					Value: c.expr(child.ChildByFieldName("value")),
				})
			case "dictionary_splat":
				dict.Items = append(dict.Items, &pythonast.KeyValuePair{
					Value: c.expr(child.Child(int(child.ChildCount()) - 1)),
				})
			}
		}
		return dict

	case "list_splat", "list_splat_pattern", "dictionary_splat":
		return &pythonast.StarExpr{
			Star:  c.word(n.Child(0)),
			Value: c.expr(n.Child(int(n.ChildCount()) - 1)),
		}

	case "list_comprehension":
		return c.comprehension(n, pythonast.ListComprehension)
	case "set_comprehension":
		return c.comprehension(n, pythonast.SetComprehension)
	case "dictionary_comprehension":
		return c.comprehension(n, pythonast.DictComprehension)
	case "generator_expression":
		return c.comprehension(n, pythonast.GeneratorComprehension)

	case "binary_operator", "boolean_operator":
		return &pythonast.BinaryExpr{
			Left:  c.expr(n.ChildByFieldName("left")),
			Op:    c.word(n.ChildByFieldName("operator")),
			Right: c.expr(n.ChildByFieldName("right")),
		}

	case "comparison_operator":
		return c.comparison(n)

	case "not_operator":
		return &pythonast.UnaryExpr{
			Op:    c.word(n.Child(0)),
			Value: c.expr(n.ChildByFieldName("argument")),
		}

	case "unary_operator":
		return &pythonast.UnaryExpr{
			Op:    c.word(n.ChildByFieldName("operator")),
			Value: c.expr(n.ChildByFieldName("argument")),
		}

	case "conditional_expression":
		if parts := operands(n, "if", "else"); len(parts) == 3 {
			return &pythonast.IfExpr{
				Body:      c.expr(parts[0]),
				Condition: c.expr(parts[1]),
				Else:      c.expr(parts[2]),
			}
		}

	case "lambda":
		return &pythonast.LambdaExpr{
			Lambda:     c.word(n.Child(0)),
			Parameters: c.params(n.ChildByFieldName("parameters")),
			Body:       c.expr(n.ChildByFieldName("body")),
		}

	case "yield":
		yield := &pythonast.YieldExpr{Yield: c.word(n.Child(0))}
		parts := operands(n, "yield")
		if len(parts) > 0 && parts[0].Type() == "from" {
			yield.From = true
			parts = parts[1:]
		}
		yield.Value = c.exprList(n, parts)
		return yield

	case "await":
		parts := operands(n, "await")
		if len(parts) > 0 {
			return &pythonast.AwaitExpr{Await: c.word(n.Child(0)), Value: c.expr(parts[0])}
		}
	}

	return c.badExpr(n)
}

func (c *converter) call(n *sitter.Node) *pythonast.CallExpr {
	call := &pythonast.CallExpr{Func: c.expr(n.ChildByFieldName("function"))}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return call
	}
	if args.Type() == "generator_expression" {
		// "f(x for x in y)": the parens of the generator are those of the call
		gen := c.comprehension(args, pythonast.GeneratorComprehension)
		call.LeftParen, call.RightParen = gen.Open, gen.Close
		gen.Open, gen.Close = nil, nil
		call.Args = []*pythonast.Argument{{Value: gen}}
		return call
	}
	call.LeftParen, call.Args, call.RightParen = c.arguments(args)
	return call
}

func (c *converter) subscript(n *sitter.Node) *pythonast.IndexExpr {
	index := &pythonast.IndexExpr{Value: c.expr(n.ChildByFieldName("value"))}
	var items []*sitter.Node
	var open bool
	for _, child := range children(n) {
		switch child.Type() {
		case "[":
			index.LeftBrack = c.word(child)
			open = true
		case "]":
			index.RightBrack = c.word(child)
		case ",", "comment":
		default:
			if open {
				items = append(items, child)
			}
		}
	}

	switch {
	case len(items) == 1 && !hasComma(n):
		index.Index = c.expr(items[0])
	case len(items) > 0:
		index.Index = &pythonast.TupleExpr{Elts: c.flatten(items)}
	}
	return index
}

func (c *converter) slice(n *sitter.Node) *pythonast.SliceExpr {
	slice := &pythonast.SliceExpr{From: token.Pos(n.StartByte()), To: token.Pos(n.EndByte())}
	var colons int
	for _, child := range children(n) {
		if child.Type() == ":" {
			colons++
			continue
		}
		switch colons {
		case 0:
			slice.Lower = c.expr(child)
		case 1:
			slice.Upper = c.expr(child)
		default:
			slice.Step = c.expr(child)
		}
	}
	return slice
}

// comparison builds a left associated chain of binary expressions. The two word
// operators "not in" and "is not" are merged into a single word.
func (c *converter) comparison(n *sitter.Node) pythonast.Expr {
	var left pythonast.Expr
	var op *pythonscanner.Word
	for _, child := range children(n) {
		switch child.Type() {
		case "<", ">", "==", "!=", "<>", "<=", ">=", "in", "not", "is":
			w := c.word(child)
			if op == nil {
				op = w
				continue
			}
			// the second word of "not in" or "is not"
			merged := &pythonscanner.Word{Token: op.Token, Begin: op.Begin, End: w.End}
			if op.Token == pythonscanner.Not {
				merged.Token = pythonscanner.In
			}
			merged.Literal = op.Literal + " " + w.Literal
			op = merged
		case "comment":
		default:
			right := c.expr(child)
			if left == nil {
				left = right
				continue
			}
			left = &pythonast.BinaryExpr{Left: left, Op: op, Right: right}
			op = nil
		}
	}
	return left
}

func (c *converter) comprehension(n *sitter.Node, kind pythonast.ComprehensionKind) *pythonast.ComprehensionExpr {
	comp := &pythonast.ComprehensionExpr{Kind: kind}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "pair" {
			comp.Key = c.expr(body.ChildByFieldName("key"))
			comp.Value = c.expr(body.ChildByFieldName("value"))
		} else {
			comp.Value = c.expr(body)
		}
	}

	var clauses func(n *sitter.Node)
	clauses = func(n *sitter.Node) {
		for _, child := range children(n) {
			switch child.Type() {
			case "(", "[", "{":
				comp.Open = c.word(child)
			case ")", "]", "}":
				comp.Close = c.word(child)
			case "for_in_clause":
				comp.Generators = append(comp.Generators, c.generator(child))
			case "if_clause":
				if len(comp.Generators) == 0 {
					c.report(child)
					continue
				}
				last := comp.Generators[len(comp.Generators)-1]
				if parts := operands(child, "if"); len(parts) > 0 {
					last.Filters = append(last.Filters, c.expr(parts[0]))
				}
			case "comprehension_clauses":
				clauses(child)
			}
		}
	}
	clauses(n)
	return comp
}

func (c *converter) generator(n *sitter.Node) *pythonast.Generator {
	gen := &pythonast.Generator{}
	var targets, iterables []*sitter.Node
	var seenIn, targetComma bool
	for _, child := range children(n) {
		switch child.Type() {
		case "async", "comment":
		case "for":
			gen.For = c.word(child)
		case "in":
			seenIn = true
		case ",":
			if !seenIn {
				targetComma = true
			}
		default:
			if seenIn {
				iterables = append(iterables, child)
			} else {
				targets = append(targets, child)
			}
		}
	}

	if len(targets) == 1 && !targetComma {
		gen.Target = c.expr(targets[0])
	} else if len(targets) > 0 {
		gen.Target = &pythonast.TupleExpr{Elts: c.flatten(targets)}
	}
	if len(iterables) == 1 {
		gen.Iterable = c.expr(iterables[0])
	} else if len(iterables) > 1 {
		gen.Iterable = &pythonast.TupleExpr{Elts: c.flatten(iterables)}
	}
	return gen
}
