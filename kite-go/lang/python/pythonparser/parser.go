package pythonparser

import (
	"fmt"
	"go/token"
	"io"
	"os"
	"strings"

	"github.com/kiteco/pycall/kite-go/lang/python/pythonast"
	pyscan "github.com/kiteco/pycall/kite-go/lang/python/pythonscanner"
	"github.com/kiteco/pycall/kite-golib/errors"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

const (
	maxRecoverCount = 10
)

// ErrorMode determines how the parser behaves when
// a parser error is encountered.
type ErrorMode int

const (
	// FailFast causes the parser to return on the first error.
	// In this mode the returned AST is guaranteed to be either nil or contain only
	// valid AST nodes, e.g no BadStmt nodes.
	FailFast ErrorMode = iota

	// Recover causes the parser to sync to the next valid
	// statement on error and continue parsing.
	// In this mode the returned AST may contain BadStmt nodes.
	Recover
)

var (
	errMaxRecover = errors.New("max num recoveries")
	errWrongToken = errors.New("unexpected token")
)

// Options represents configuration for parsing
type Options struct {
	Trace       bool           // Trace determines whether the parse tree is printed to TraceWriter
	MaxDepth    int            // MaxDepth is a threshold on the parse tree depth (only has effect if Trace=true)
	ErrorMode   ErrorMode      // ErrorMode determines what happens when there is a parse error
	TraceWriter io.Writer      // TraceWriter receives tracing output, defaults to stdout
	ScanOptions pyscan.Options // ScanOptions contains options for the lexer
}

type parser struct {
	// we violate the standard guideline of not storing ctx in another object to avoid threading this everywhere
	ctx kitectx.Context

	lexer pyscan.Lexer
	word  *pyscan.Word
	prev  *pyscan.Word
	opts  Options

	// for error recovery
	recoverCount int
	recoverPos   token.Pos

	// tracing
	indent int

	errs errors.Errors
}

func newParser(ctx kitectx.Context, lexer pyscan.Lexer, opts Options) *parser {
	ctx.CheckAbort()

	if opts.TraceWriter == nil {
		opts.TraceWriter = os.Stdout
	}
	p := &parser{
		ctx:   ctx,
		lexer: lexer,
		opts:  opts,
	}
	p.next()
	return p
}

func (p *parser) printTrace(a ...interface{}) {
	const dots = ". . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . . "
	fmt.Fprintf(p.opts.TraceWriter, "%9d: ", p.word.Begin)
	i := 2 * p.indent
	for i > len(dots) {
		fmt.Fprint(p.opts.TraceWriter, dots)
		i -= len(dots)
	}
	fmt.Fprint(p.opts.TraceWriter, dots[:i])
	fmt.Fprintln(p.opts.TraceWriter, a...)
}

func trace(p *parser, msg string) *parser {
	p.printTrace(msg, "(")
	p.indent++
	if p.opts.MaxDepth > 0 && p.indent > p.opts.MaxDepth {
		panic("maximum depth exceeded")
	}
	return p
}

// Usage pattern: defer un(trace(p, "..."))
func un(p *parser) {
	p.indent--
	p.printTrace(")")
}

// recoverStmt recovers from an error in parsing a statement
func (p *parser) recoverStmt(begin token.Pos, ex interface{}) *pythonast.BadStmt {
	if ex == nil {
		return nil
	}
	if ex != errWrongToken || p.opts.ErrorMode == FailFast {
		panic(ex)
	}
	p.syncStmt()
	return &pythonast.BadStmt{
		From: begin,
		To:   p.word.Begin,
	}
}

// recoverParse must be passed the result of recover() by the deferred function
func (p *parser) recoverParse(ex interface{}, err *error) {
	if ex != nil {
		switch ex {
		case errMaxRecover, errWrongToken:
		default:
			panic(ex)
		}
	}
	if p.errs != nil {
		*err = p.errs
	}
}

// next moves the lexer forward to the next non-comment token
func (p *parser) next() {
	p.ctx.CheckAbort()

	if p.opts.Trace && p.word != nil {
		p.printTrace(" -", p.word.String())
	}
	p.prev = p.word
	p.word = p.lexer.Next()
	for p.word.Token == pyscan.Comment || p.word.Token == pyscan.Magic {
		p.word = p.lexer.Next()
	}
}

// error adds an error to the list and unwinds to the nearest statement
func (p *parser) error(pos token.Pos, msg string) {
	if p.opts.Trace {
		p.printTrace("**", "ERROR:", msg)
	}
	p.errs = errors.Append(p.errs, pyscan.PosError{Pos: pos, Msg: msg})
	panic(errWrongToken)
}

func (p *parser) errorExpected(pos token.Pos, expected string) {
	p.error(pos, fmt.Sprintf("expected '%s' (got '%s')", expected, p.word.String()))
}

func tokenStrings(toks []pyscan.Token) []string {
	var s []string
	for _, tok := range toks {
		s = append(s, tok.String())
	}
	return s
}

// expect raises an error if the current token is not tok,
// this method always removes a token from the stream or panics.
func (p *parser) expect(tok ...pyscan.Token) *pyscan.Word {
	word := p.word
	if !p.at(tok...) {
		p.errorExpected(p.word.Begin, strings.Join(tokenStrings(tok), " or "))
	}
	p.next()
	return word
}

// at returns true if the current token is one of toks, without consuming it
func (p *parser) at(toks ...pyscan.Token) bool {
	for _, tok := range toks {
		if p.word.Token == tok {
			return true
		}
	}
	return false
}

// take consumes the current token if it is one of toks, otherwise it returns nil
func (p *parser) take(toks ...pyscan.Token) *pyscan.Word {
	cur := p.word
	if p.at(toks...) {
		p.next()
		return cur
	}
	return nil
}

func (p *parser) has(toks ...pyscan.Token) bool {
	return p.take(toks...) != nil
}

// atTest returns true if the current token could begin an expression
func (p *parser) atTest() bool {
	return p.at(
		pyscan.Ident,
		pyscan.Int,
		pyscan.Long,
		pyscan.Float,
		pyscan.Imag,
		pyscan.String,
		pyscan.Add,
		pyscan.Sub,
		pyscan.BitNot,
		pyscan.Lparen,
		pyscan.Lbrack,
		pyscan.Lbrace,
		pyscan.Not,
		pyscan.Lambda,
		pyscan.Period,
		pyscan.Await)
}

// atElement is atTest plus the star of an unpacking expression
func (p *parser) atElement() bool {
	return p.at(pyscan.Mul) || p.atTest()
}

// syncStmt advances to the next statement.
// Used for synchronization after an error.
func (p *parser) syncStmt() {
	if p.opts.Trace {
		defer un(trace(p, "<syncstmt>"))
	}

	// check how many recoveries we have made with no progress
	if p.word.Begin == p.recoverPos {
		if p.recoverCount >= maxRecoverCount {
			panic(errMaxRecover)
		}
		p.recoverCount++
	} else {
		p.recoverCount = 0
		p.recoverPos = p.word.Begin
	}

	for {
		switch p.word.Token {
		case pyscan.EOF, pyscan.Dedent, pyscan.Indent:
			return
		case pyscan.NewLine:
			p.next()
			return
		}
		p.next()
	}
}

// -- atoms

func (p *parser) parseName() *pythonast.NameExpr {
	if p.opts.Trace {
		defer un(trace(p, "Name"))
	}
	return &pythonast.NameExpr{Ident: p.expect(pyscan.Ident)}
}

func (p *parser) parseDottedExpr() *pythonast.DottedExpr {
	if p.opts.Trace {
		defer un(trace(p, "DottedExpr"))
	}

	names := []*pythonast.NameExpr{p.parseName()}
	for p.has(pyscan.Period) {
		names = append(names, p.parseName())
	}
	return &pythonast.DottedExpr{Names: names}
}

func (p *parser) parseStringLiteral() *pythonast.StringExpr {
	strs := []*pyscan.Word{p.expect(pyscan.String)}
	for s := p.take(pyscan.String); s != nil; s = p.take(pyscan.String) {
		strs = append(strs, s)
	}
	return &pythonast.StringExpr{Strings: strs}
}

func (p *parser) parseEllipsis() *pythonast.EllipsisExpr {
	first := p.expect(pyscan.Period)
	p.expect(pyscan.Period)
	last := p.expect(pyscan.Period)
	return &pythonast.EllipsisExpr{From: first.Begin, To: last.End}
}

// Parse a generator of the form "for a in b if c"
func (p *parser) parseGenerator() *pythonast.Generator {
	if p.opts.Trace {
		defer un(trace(p, "Generator"))
	}

	p.take(pyscan.Async)
	forTok := p.expect(pyscan.For)
	target := p.parseTargetList()
	p.expect(pyscan.In)
	iterable := p.parseOrExpr()

	var filters []pythonast.Expr
	for p.has(pyscan.If) {
		filters = append(filters, p.parseOrExprOrLambda())
	}

	return &pythonast.Generator{
		For:      forTok,
		Target:   target,
		Iterable: iterable,
		Filters:  filters,
	}
}

func (p *parser) parseGeneratorChain() []*pythonast.Generator {
	generators := []*pythonast.Generator{p.parseGenerator()}
	for p.at(pyscan.For, pyscan.Async) {
		generators = append(generators, p.parseGenerator())
	}
	return generators
}

// parseElement parses a test expression or a "*x" unpacking
func (p *parser) parseElement() pythonast.Expr {
	if star := p.take(pyscan.Mul); star != nil {
		return &pythonast.StarExpr{Star: star, Value: p.parseExpr()}
	}
	return p.parseTestExpr()
}

// parseElements continues a comma separated display after its first element,
// returning whether any comma was seen.
func (p *parser) parseElements(first pythonast.Expr) ([]pythonast.Expr, bool) {
	values := []pythonast.Expr{first}
	var comma bool
	for p.has(pyscan.Comma) {
		comma = true
		if !p.atElement() {
			break
		}
		values = append(values, p.parseElement())
	}
	return values, comma
}

// Parse a list literal or a list comprehension
//   []
//   [1, 2, 3]
//   [x+1 for x in y if z]
func (p *parser) parseListMaker() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "ListMaker"))
	}

	lbrack := p.expect(pyscan.Lbrack)
	if rbrack := p.take(pyscan.Rbrack); rbrack != nil {
		return &pythonast.ListExpr{LeftBrack: lbrack, RightBrack: rbrack}
	}

	value := p.parseElement()
	if p.at(pyscan.For, pyscan.Async) {
		generators := p.parseGeneratorChain()
		return &pythonast.ComprehensionExpr{
			Kind:       pythonast.ListComprehension,
			Open:       lbrack,
			Value:      value,
			Generators: generators,
			Close:      p.expect(pyscan.Rbrack),
		}
	}

	values, _ := p.parseElements(value)
	return &pythonast.ListExpr{
		LeftBrack:  lbrack,
		Values:     values,
		RightBrack: p.expect(pyscan.Rbrack),
	}
}

// Parse a dict or set literal or comprehension
//   {}
//   {a, b, c}
//   {a for x in y}
//   {foo: bar, **ham}
//   {foo: bar for foo in xyz}
func (p *parser) parseDictOrSetMaker() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "DictOrSetMaker"))
	}

	lbrace := p.expect(pyscan.Lbrace)
	if rbrace := p.take(pyscan.Rbrace); rbrace != nil {
		return &pythonast.DictExpr{LeftBrace: lbrace, RightBrace: rbrace}
	}

	var first *pythonast.KeyValuePair
	if p.has(pyscan.Pow) {
		first = &pythonast.KeyValuePair{Value: p.parseExpr()}
	} else {
		value := p.parseElement()
		if p.at(pyscan.For, pyscan.Async) {
			generators := p.parseGeneratorChain()
			return &pythonast.ComprehensionExpr{
				Kind:       pythonast.SetComprehension,
				Open:       lbrace,
				Value:      value,
				Generators: generators,
				Close:      p.expect(pyscan.Rbrace),
			}
		}
		if !p.has(pyscan.Colon) {
			values, _ := p.parseElements(value)
			return &pythonast.SetExpr{
				LeftBrace:  lbrace,
				Values:     values,
				RightBrace: p.expect(pyscan.Rbrace),
			}
		}
		first = &pythonast.KeyValuePair{Key: value, Value: p.parseTestExpr()}
		if p.at(pyscan.For, pyscan.Async) {
			generators := p.parseGeneratorChain()
			return &pythonast.ComprehensionExpr{
				Kind:       pythonast.DictComprehension,
				Open:       lbrace,
				Key:        first.Key,
				Value:      first.Value,
				Generators: generators,
				Close:      p.expect(pyscan.Rbrace),
			}
		}
	}

	items := []*pythonast.KeyValuePair{first}
	for p.has(pyscan.Comma) && (p.atTest() || p.at(pyscan.Pow)) {
		if p.has(pyscan.Pow) {
			items = append(items, &pythonast.KeyValuePair{Value: p.parseExpr()})
			continue
		}
		key := p.parseTestExpr()
		p.expect(pyscan.Colon)
		items = append(items, &pythonast.KeyValuePair{Key: key, Value: p.parseTestExpr()})
	}
	return &pythonast.DictExpr{
		LeftBrace:  lbrace,
		Items:      items,
		RightBrace: p.expect(pyscan.Rbrace),
	}
}

// Parse the contents of a parenthesized expression after the left paren.
// Redundant parentheses are not represented in the tree: "(x)" is just x.
func (p *parser) parseParenthesized(lparen *pyscan.Word) pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Parenthesized"))
	}

	if rparen := p.take(pyscan.Rparen); rparen != nil {
		return &pythonast.TupleExpr{LeftParen: lparen, RightParen: rparen}
	}
	if p.at(pyscan.Yield) {
		expr := p.parseYieldExpr()
		p.expect(pyscan.Rparen)
		return expr
	}

	value := p.parseElement()
	if p.at(pyscan.For, pyscan.Async) {
		generators := p.parseGeneratorChain()
		return &pythonast.ComprehensionExpr{
			Kind:       pythonast.GeneratorComprehension,
			Open:       lparen,
			Value:      value,
			Generators: generators,
			Close:      p.expect(pyscan.Rparen),
		}
	}

	values, comma := p.parseElements(value)
	rparen := p.expect(pyscan.Rparen)
	if !comma {
		return value
	}
	return &pythonast.TupleExpr{
		LeftParen:  lparen,
		Elts:       values,
		RightParen: rparen,
	}
}

func (p *parser) parseYieldExpr() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "YieldExpr"))
	}

	yield := p.expect(pyscan.Yield)
	if p.has(pyscan.From) {
		return &pythonast.YieldExpr{Yield: yield, From: true, Value: p.parseTestExpr()}
	}
	var value pythonast.Expr
	if p.atElement() {
		value = p.parseTestList()
	}
	return &pythonast.YieldExpr{Yield: yield, Value: value}
}

func (p *parser) parseAtomExpr() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Atom"))
	}

	switch p.word.Token {
	case pyscan.Lparen:
		lparen := p.word
		p.next()
		return p.parseParenthesized(lparen)
	case pyscan.Lbrack:
		return p.parseListMaker()
	case pyscan.Lbrace:
		return p.parseDictOrSetMaker()
	case pyscan.Ident:
		return p.parseName()
	case pyscan.Int, pyscan.Long, pyscan.Float, pyscan.Imag:
		return &pythonast.NumberExpr{Number: p.expect(p.word.Token)}
	case pyscan.String:
		return p.parseStringLiteral()
	case pyscan.Period:
		return p.parseEllipsis()
	}

	p.errorExpected(p.word.Begin, "atom")
	return nil
}

// -- trailers

// Parse a call given that the function being called has already been consumed, e.g.:
//   ()
//   (x, y+1, z=3, *foo, ham=spam, **bar)
func (p *parser) parseCallExprAfterFunc(fun pythonast.Expr) *pythonast.CallExpr {
	if p.opts.Trace {
		defer un(trace(p, "CallExprAfterFunc"))
	}

	lparen := p.expect(pyscan.Lparen)
	var args []*pythonast.Argument
	if !p.at(pyscan.Rparen) {
		args = p.parseArgumentList()
	}
	return &pythonast.CallExpr{
		Func:       fun,
		LeftParen:  lparen,
		Args:       args,
		RightParen: p.expect(pyscan.Rparen),
	}
}

// Parse an argument in a function call or class base list, e.g.:
//   foo
//   foo=bar
//   *foo
//   **foo
//   a+1 for a in foo    [only as the sole argument]
func (p *parser) parseArgument() *pythonast.Argument {
	if p.opts.Trace {
		defer un(trace(p, "Argument"))
	}

	if star := p.take(pyscan.Mul, pyscan.Pow); star != nil {
		return &pythonast.Argument{Star: star, Value: p.parseTestExpr()}
	}

	value := p.parseTestExpr()
	if p.at(pyscan.Assign) {
		name, ok := value.(*pythonast.NameExpr)
		if !ok {
			// the keyword must be a plain name; report it as a missing comma
			// since the error is seen at the "=" sign
			p.errorExpected(value.Begin(), "comma")
		}
		equals := p.expect(pyscan.Assign)
		return &pythonast.Argument{Name: name, Equals: equals, Value: p.parseTestExpr()}
	}
	if p.at(pyscan.For, pyscan.Async) {
		value = &pythonast.ComprehensionExpr{
			Kind:       pythonast.GeneratorComprehension,
			Value:      value,
			Generators: p.parseGeneratorChain(),
		}
	}
	return &pythonast.Argument{Value: value}
}

// Parse the arguments of a call in source order. Ordering rules between
// positional, keyword and star arguments are not enforced here.
func (p *parser) parseArgumentList() []*pythonast.Argument {
	if p.opts.Trace {
		defer un(trace(p, "ArgumentList"))
	}

	args := []*pythonast.Argument{p.parseArgument()}
	for p.has(pyscan.Comma) && (p.at(pyscan.Mul, pyscan.Pow) || p.atTest()) {
		args = append(args, p.parseArgument())
	}
	return args
}

// Parse a subscript, e.g.:
//   x
//   x:y
//   ::step
//   ...
func (p *parser) parseSubscript() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Subscript"))
	}

	begin := p.word.Begin
	var lower, upper, step pythonast.Expr
	if !p.at(pyscan.Colon) {
		lower = p.parseElement()
		if !p.at(pyscan.Colon) {
			return lower
		}
	}

	colon := p.expect(pyscan.Colon)
	end := colon.End
	if p.atTest() {
		upper = p.parseTestExpr()
		end = upper.End()
	}
	if second := p.take(pyscan.Colon); second != nil {
		end = second.End
		if p.atTest() {
			step = p.parseTestExpr()
			end = step.End()
		}
	}
	return &pythonast.SliceExpr{
		From:  begin,
		To:    end,
		Lower: lower,
		Upper: upper,
		Step:  step,
	}
}

func (p *parser) atSubscript() bool {
	return p.at(pyscan.Colon) || p.atElement()
}

// Parse an index expr given that the object being indexed has already been consumed.
// Multiple subscripts are represented as a TupleExpr index.
func (p *parser) parseIndexExprAfterValue(value pythonast.Expr) *pythonast.IndexExpr {
	if p.opts.Trace {
		defer un(trace(p, "IndexExprAfterValue"))
	}

	lbrack := p.expect(pyscan.Lbrack)
	index := p.parseSubscript()
	if p.at(pyscan.Comma) {
		elts := []pythonast.Expr{index}
		for p.has(pyscan.Comma) && p.atSubscript() {
			elts = append(elts, p.parseSubscript())
		}
		index = &pythonast.TupleExpr{Elts: elts}
	}
	return &pythonast.IndexExpr{
		Value:      value,
		LeftBrack:  lbrack,
		Index:      index,
		RightBrack: p.expect(pyscan.Rbrack),
	}
}

func (p *parser) parseAttributeExprAfterValue(value pythonast.Expr) *pythonast.AttributeExpr {
	dot := p.expect(pyscan.Period)
	return &pythonast.AttributeExpr{
		Value:     value,
		Dot:       dot,
		Attribute: p.expect(pyscan.Ident),
	}
}

// -- operators

func (p *parser) parsePowerExpr() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "PowerExpr"))
	}

	await := p.take(pyscan.Await)

	left := p.parseAtomExpr()
	for p.at(pyscan.Lparen, pyscan.Lbrack, pyscan.Period) {
		switch p.word.Token {
		case pyscan.Lparen:
			left = p.parseCallExprAfterFunc(left)
		case pyscan.Lbrack:
			left = p.parseIndexExprAfterValue(left)
		case pyscan.Period:
			left = p.parseAttributeExprAfterValue(left)
		}
	}

	if await != nil {
		left = &pythonast.AwaitExpr{Await: await, Value: left}
	}

	if op := p.take(pyscan.Pow); op != nil {
		// right associative
		return &pythonast.BinaryExpr{Left: left, Op: op, Right: p.parseFactorExpr()}
	}
	return left
}

func (p *parser) parseFactorExpr() pythonast.Expr {
	if op := p.take(pyscan.Add, pyscan.Sub, pyscan.BitNot); op != nil {
		return &pythonast.UnaryExpr{Op: op, Value: p.parseFactorExpr()}
	}
	return p.parsePowerExpr()
}

type exprParser func() pythonast.Expr

// parseBinaryExpr parses a left-associative chain of operands separated by toks
func (p *parser) parseBinaryExpr(parseOperand exprParser, toks ...pyscan.Token) pythonast.Expr {
	left := parseOperand()
	for {
		op := p.take(toks...)
		if op == nil {
			return left
		}
		left = &pythonast.BinaryExpr{Left: left, Op: op, Right: parseOperand()}
	}
}

func (p *parser) parseTermExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseFactorExpr, pyscan.Mul, pyscan.Div, pyscan.Pct, pyscan.Truediv, pyscan.At)
}

func (p *parser) parseArithmeticExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseTermExpr, pyscan.Add, pyscan.Sub)
}

func (p *parser) parseShiftExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseArithmeticExpr, pyscan.BitLshift, pyscan.BitRshift)
}

func (p *parser) parseBitAndExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseShiftExpr, pyscan.BitAnd)
}

func (p *parser) parseBitXorExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseBitAndExpr, pyscan.BitXor)
}

// Parse an "expr" node in the python grammar. Confusingly, this is not actually a fully general
// expression but is instead one of:
//   "a OP b"       where OP can be + - * / % | ^ & but NOT "and" "or"
//   "(EXPR)"       where EXPR is a fully general "test" expression
//   "foo(...)"
func (p *parser) parseExpr() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Expr"))
	}
	return p.parseBinaryExpr(p.parseBitXorExpr, pyscan.BitOr)
}

// tryComparisonOp consumes a comparison operator, or returns nil without consuming anything.
// "not in" and "is not" are returned as a single word spanning both keywords.
func (p *parser) tryComparisonOp() *pyscan.Word {
	if op := p.take(pyscan.Not); op != nil {
		in := p.expect(pyscan.In)
		return &pyscan.Word{Token: pyscan.In, Begin: op.Begin, End: in.End, Literal: "not in"}
	}
	if op := p.take(pyscan.Is); op != nil {
		if not := p.take(pyscan.Not); not != nil {
			return &pyscan.Word{Token: pyscan.Is, Begin: op.Begin, End: not.End, Literal: "is not"}
		}
		return op
	}
	return p.take(pyscan.Lt, pyscan.Gt, pyscan.Eq, pyscan.Ge, pyscan.Le, pyscan.Lg, pyscan.Ne, pyscan.In)
}

func (p *parser) parseComparison() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Comparison"))
	}

	left := p.parseExpr()
	for {
		op := p.tryComparisonOp()
		if op == nil {
			return left
		}
		left = &pythonast.BinaryExpr{Left: left, Op: op, Right: p.parseExpr()}
	}
}

func (p *parser) parseNotExpr() pythonast.Expr {
	if op := p.take(pyscan.Not); op != nil {
		return &pythonast.UnaryExpr{Op: op, Value: p.parseNotExpr()}
	}
	return p.parseComparison()
}

func (p *parser) parseAndExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseNotExpr, pyscan.And)
}

func (p *parser) parseOrExpr() pythonast.Expr {
	return p.parseBinaryExpr(p.parseAndExpr, pyscan.Or)
}

// parseOrExprOrLambda is used for comprehension filters, which may be lambdas
// but not conditional expressions
func (p *parser) parseOrExprOrLambda() pythonast.Expr {
	if p.at(pyscan.Lambda) {
		return p.parseLambdaExpr()
	}
	return p.parseOrExpr()
}

func (p *parser) parseLambdaExpr() *pythonast.LambdaExpr {
	if p.opts.Trace {
		defer un(trace(p, "LambdaExpr"))
	}

	lambda := p.expect(pyscan.Lambda)
	params := p.parseParameterList(false)
	p.expect(pyscan.Colon)
	return &pythonast.LambdaExpr{
		Lambda:     lambda,
		Parameters: params,
		Body:       p.parseTestExpr(),
	}
}

// Parse a general expression. This is different to "parseExpr" because this function can
// also accommodate expressions like:
//  - lambda foo: bar
//  - a if b else c
//  - ham [and|or] spam
//  - not foo
func (p *parser) parseTestExpr() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "TestExpr"))
	}

	if p.at(pyscan.Lambda) {
		return p.parseLambdaExpr()
	}

	expr := p.parseOrExpr()
	if p.has(pyscan.If) {
		condition := p.parseOrExpr()
		p.expect(pyscan.Else)
		return &pythonast.IfExpr{
			Body:      expr,
			Condition: condition,
			Else:      p.parseTestExpr(),
		}
	}
	return expr
}

// Parse a comma separated list of expressions; a trailing or separating comma makes a TupleExpr
func (p *parser) parseTestList() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "TestList"))
	}

	values, comma := p.parseElements(p.parseElement())
	if !comma {
		return values[0]
	}
	return &pythonast.TupleExpr{Elts: values}
}

// Parse the target of a for loop or comprehension, e.g. "a", "a, b", "(a, b), *c"
func (p *parser) parseTargetList() pythonast.Expr {
	var first pythonast.Expr
	if star := p.take(pyscan.Mul); star != nil {
		first = &pythonast.StarExpr{Star: star, Value: p.parseExpr()}
	} else {
		first = p.parseExpr()
	}

	targets := []pythonast.Expr{first}
	var comma bool
	for p.has(pyscan.Comma) {
		comma = true
		if !p.at(pyscan.Mul) && !p.atTest() {
			break
		}
		if star := p.take(pyscan.Mul); star != nil {
			targets = append(targets, &pythonast.StarExpr{Star: star, Value: p.parseExpr()})
		} else {
			targets = append(targets, p.parseExpr())
		}
	}
	if !comma {
		return first
	}
	return &pythonast.TupleExpr{Elts: targets}
}

// -- parameters

// Parse a parameter name, which might be a nested tuple of names in python 2, e.g.:
//    a
//    (x, y, z)
//    (x, (y, z), (ham, spam))
func (p *parser) parseParameterName() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "ParameterName"))
	}

	lparen := p.take(pyscan.Lparen)
	if lparen == nil {
		return p.parseName()
	}

	elts := []pythonast.Expr{p.parseParameterName()}
	for p.has(pyscan.Comma) && p.at(pyscan.Ident, pyscan.Lparen) {
		elts = append(elts, p.parseParameterName())
	}
	return &pythonast.TupleExpr{
		LeftParen:  lparen,
		Elts:       elts,
		RightParen: p.expect(pyscan.Rparen),
	}
}

// Optionally parse a type annotation (a colon followed by an expression)
func (p *parser) parseAnnotation() pythonast.Expr {
	if p.has(pyscan.Colon) {
		return p.parseTestExpr()
	}
	return nil
}

// Parse a parameter list in declaration order. This is used in the following places:
//  - in function definitions, where annotations=true
//  - in lambda definitions, where annotations=false
// Examples:
//   a, b=1, *args, **kwargs
//   a, *b, c, d               [keyword-only args only in python 3]
//   a, b:foo()=0, c,          [annotations only in python 3]
//   a, *, b                   [bare star only in python 3]
//   (a, b), c                 [tuple parameters only in python 2]
//   <EMPTY>
func (p *parser) parseParameterList(annotations bool) []*pythonast.Parameter {
	if p.opts.Trace {
		defer un(trace(p, "ParameterList"))
	}

	var params []*pythonast.Parameter
	var seenStar, seenKwargs bool
	for p.at(pyscan.Ident, pyscan.Lparen, pyscan.Mul, pyscan.Pow) {
		if seenKwargs {
			p.error(p.word.Begin, "parameter cannot appear after **kwargs")
		}

		param := &pythonast.Parameter{}
		switch {
		case p.at(pyscan.Mul):
			if seenStar {
				p.error(p.word.Begin, "multiple *args not permitted")
			}
			seenStar = true
			param.Star = p.expect(pyscan.Mul)
			if p.at(pyscan.Ident) {
				param.Name = p.parseName()
			}
		case p.at(pyscan.Pow):
			seenKwargs = true
			param.Star = p.expect(pyscan.Pow)
			param.Name = p.parseName()
		default:
			param.Name = p.parseParameterName()
		}

		if annotations && param.Name != nil {
			if _, isTuple := param.Name.(*pythonast.TupleExpr); !isTuple {
				param.Annotation = p.parseAnnotation()
			}
		}
		if param.Star == nil && p.has(pyscan.Assign) {
			param.Default = p.parseTestExpr()
		}

		params = append(params, param)
		if !p.has(pyscan.Comma) {
			break
		}
	}
	return params
}

// -- simple statements

func (p *parser) parseExprStmt() pythonast.Stmt {
	if p.opts.Trace {
		defer un(trace(p, "ExprStmt"))
	}

	lhs := p.parseTestList()
	var annotation pythonast.Expr
	if _, ok := lhs.(*pythonast.TupleExpr); !ok {
		// a single target may be annotated
		annotation = p.parseAnnotation()
	}

	if p.at(pyscan.Assign) {
		// "a = b = c = d": the value is the last item, the rest are targets
		items := []pythonast.Expr{lhs}
		for p.has(pyscan.Assign) {
			if p.at(pyscan.Yield) {
				items = append(items, p.parseYieldExpr())
			} else {
				items = append(items, p.parseTestList())
			}
		}
		if annotation != nil && len(items) > 2 {
			p.error(items[2].Begin(), "annotations not allowed in chained assignments")
		}
		return &pythonast.AssignStmt{
			Targets:    items[:len(items)-1],
			Annotation: annotation,
			Value:      items[len(items)-1],
		}
	}

	if op := p.take(pyscan.AddAssign,
		pyscan.SubAssign,
		pyscan.MulAssign,
		pyscan.DivAssign,
		pyscan.PctAssign,
		pyscan.BitAndAssign,
		pyscan.BitOrAssign,
		pyscan.BitXorAssign,
		pyscan.BitLshiftAssign,
		pyscan.BitRshiftAssign,
		pyscan.PowAssign,
		pyscan.TruedivAssign); op != nil {
		if _, ok := lhs.(*pythonast.TupleExpr); ok {
			p.error(op.Begin, "illegal target for augmented assignment")
		}
		var rhs pythonast.Expr
		if p.at(pyscan.Yield) {
			rhs = p.parseYieldExpr()
		} else {
			rhs = p.parseTestList()
		}
		return &pythonast.AugAssignStmt{Target: lhs, Op: op, Value: rhs}
	}

	if annotation != nil {
		// an uninitialized variable annotation "foo: bar"
		return &pythonast.AssignStmt{
			Targets:    []pythonast.Expr{lhs},
			Annotation: annotation,
		}
	}

	return &pythonast.ExprStmt{Value: lhs}
}

func (p *parser) parseExprList() []pythonast.Expr {
	exprs := []pythonast.Expr{p.parseElement()}
	for p.has(pyscan.Comma) && p.atElement() {
		exprs = append(exprs, p.parseElement())
	}
	return exprs
}

func (p *parser) parseImportNameStmt() *pythonast.ImportNameStmt {
	if p.opts.Trace {
		defer un(trace(p, "ImportNameStmt"))
	}

	stmt := &pythonast.ImportNameStmt{Import: p.expect(pyscan.Import)}
	for {
		name := &pythonast.DottedAsName{External: p.parseDottedExpr()}
		if p.has(pyscan.As) {
			name.Internal = p.parseName()
		}
		stmt.Names = append(stmt.Names, name)
		if !p.has(pyscan.Comma) {
			return stmt
		}
	}
}

// Parse a from-import, e.g.:
//   from a.b import c as d, e
//   from .. import (f, g,)
//   from x import *
func (p *parser) parseImportFromStmt() *pythonast.ImportFromStmt {
	if p.opts.Trace {
		defer un(trace(p, "ImportFromStmt"))
	}

	stmt := &pythonast.ImportFromStmt{From: p.expect(pyscan.From)}
	for p.has(pyscan.Period) {
		stmt.Dots++
	}
	if p.at(pyscan.Ident) {
		stmt.Package = p.parseDottedExpr()
	} else if stmt.Dots == 0 {
		p.errorExpected(p.word.Begin, "package")
	}

	imp := p.expect(pyscan.Import)
	if star := p.take(pyscan.Mul); star != nil {
		stmt.Wildcard = star
		stmt.To = star.End
		return stmt
	}

	lparen := p.take(pyscan.Lparen)
	stmt.To = imp.End
	for p.at(pyscan.Ident) {
		name := &pythonast.ImportAsName{External: p.parseName()}
		if p.has(pyscan.As) {
			name.Internal = p.parseName()
		}
		stmt.Names = append(stmt.Names, name)
		stmt.To = name.End()
		if !p.has(pyscan.Comma) {
			break
		}
	}
	if len(stmt.Names) == 0 {
		p.errorExpected(p.word.Begin, "import name")
	}
	if lparen != nil {
		stmt.To = p.expect(pyscan.Rparen).End
	}
	return stmt
}

func (p *parser) parseNames() []*pythonast.NameExpr {
	names := []*pythonast.NameExpr{p.parseName()}
	for p.has(pyscan.Comma) {
		names = append(names, p.parseName())
	}
	return names
}

func (p *parser) parseRaiseStmt() *pythonast.RaiseStmt {
	stmt := &pythonast.RaiseStmt{Raise: p.expect(pyscan.Raise)}
	if !p.atTest() {
		return stmt
	}
	stmt.Type = p.parseTestExpr()
	if p.has(pyscan.From) {
		stmt.From = p.parseTestExpr()
	} else if p.has(pyscan.Comma) {
		// python 2: "raise E, message"
		stmt.From = p.parseTestExpr()
		p.has(pyscan.Comma)
		if p.atTest() {
			p.parseTestExpr()
		}
	}
	return stmt
}

func (p *parser) parseSmallStmt() pythonast.Stmt {
	if p.opts.Trace {
		defer un(trace(p, "SmallStmt"))
	}

	switch p.word.Token {
	case pyscan.Del:
		return &pythonast.DelStmt{Del: p.expect(pyscan.Del), Targets: p.parseExprList()}
	case pyscan.Pass:
		return &pythonast.PassStmt{Pass: p.expect(pyscan.Pass)}
	case pyscan.Break:
		return &pythonast.BreakStmt{Break: p.expect(pyscan.Break)}
	case pyscan.Continue:
		return &pythonast.ContinueStmt{Continue: p.expect(pyscan.Continue)}
	case pyscan.Import:
		return p.parseImportNameStmt()
	case pyscan.From:
		return p.parseImportFromStmt()
	case pyscan.Global:
		return &pythonast.GlobalStmt{Global: p.expect(pyscan.Global), Names: p.parseNames()}
	case pyscan.NonLocal:
		return &pythonast.NonLocalStmt{NonLocal: p.expect(pyscan.NonLocal), Names: p.parseNames()}
	case pyscan.Assert:
		stmt := &pythonast.AssertStmt{Assert: p.expect(pyscan.Assert), Condition: p.parseTestExpr()}
		if p.has(pyscan.Comma) {
			stmt.Message = p.parseTestExpr()
		}
		return stmt
	case pyscan.Return:
		stmt := &pythonast.ReturnStmt{Return: p.expect(pyscan.Return)}
		if p.atElement() {
			stmt.Value = p.parseTestList()
		}
		return stmt
	case pyscan.Raise:
		return p.parseRaiseStmt()
	case pyscan.Yield:
		return &pythonast.ExprStmt{Value: p.parseYieldExpr()}
	}

	if !p.atElement() {
		p.errorExpected(p.word.Begin, "statement")
	}
	return p.parseExprStmt()
}

// Parse a simple statement, e.g. "foo(); a += b; return a"
func (p *parser) parseSimpleStmt() (stmts []pythonast.Stmt) {
	if p.opts.Trace {
		defer un(trace(p, "SimpleStmt"))
	}

	begin := p.word.Begin
	defer func() {
		if bad := p.recoverStmt(begin, recover()); bad != nil {
			stmts = []pythonast.Stmt{bad}
		}
	}()

	stmts = []pythonast.Stmt{p.parseSmallStmt()}
	for p.has(pyscan.Semicolon) && !p.at(pyscan.NewLine, pyscan.EOF) {
		stmts = append(stmts, p.parseSmallStmt())
	}
	if !p.at(pyscan.EOF) {
		p.expect(pyscan.NewLine)
	}
	return stmts
}

// -- compound statements

// Parse an indented block or a simple statement on the same line
func (p *parser) parseSuite() []pythonast.Stmt {
	if p.opts.Trace {
		defer un(trace(p, "Suite"))
	}

	if !p.has(pyscan.NewLine) {
		return p.parseSimpleStmt()
	}
	p.expect(pyscan.Indent)
	var stmts []pythonast.Stmt
	for !p.has(pyscan.Dedent) && !p.at(pyscan.EOF) {
		if p.has(pyscan.NewLine) {
			continue
		}
		stmts = append(stmts, p.parseStmt()...)
	}
	return stmts
}

func (p *parser) parseElse() []pythonast.Stmt {
	if p.has(pyscan.Else) {
		p.expect(pyscan.Colon)
		return p.parseSuite()
	}
	return nil
}

func (p *parser) parseIfStmt() *pythonast.IfStmt {
	if p.opts.Trace {
		defer un(trace(p, "IfStmt"))
	}

	stmt := &pythonast.IfStmt{If: p.expect(pyscan.If)}
	for {
		condition := p.parseTestExpr()
		p.expect(pyscan.Colon)
		stmt.Branches = append(stmt.Branches, &pythonast.Branch{
			Condition: condition,
			Body:      p.parseSuite(),
		})
		if !p.has(pyscan.Elif) {
			break
		}
	}
	stmt.Else = p.parseElse()
	return stmt
}

func (p *parser) parseWhileStmt() *pythonast.WhileStmt {
	stmt := &pythonast.WhileStmt{While: p.expect(pyscan.While)}
	stmt.Condition = p.parseTestExpr()
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()
	stmt.Else = p.parseElse()
	return stmt
}

func (p *parser) parseForStmt(async *pyscan.Word) *pythonast.ForStmt {
	if p.opts.Trace {
		defer un(trace(p, "ForStmt"))
	}

	stmt := &pythonast.ForStmt{Async: async, For: p.expect(pyscan.For)}
	stmt.Target = p.parseTargetList()
	p.expect(pyscan.In)
	stmt.Iterable = p.parseTestList()
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()
	stmt.Else = p.parseElse()
	return stmt
}

func (p *parser) parseTryStmt() *pythonast.TryStmt {
	if p.opts.Trace {
		defer un(trace(p, "TryStmt"))
	}

	stmt := &pythonast.TryStmt{Try: p.expect(pyscan.Try)}
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()

	for p.at(pyscan.Except) {
		clause := &pythonast.ExceptClause{Except: p.expect(pyscan.Except)}
		if p.atTest() {
			clause.Type = p.parseTestExpr()
			// "as" in python 3, a comma in python 2
			if p.has(pyscan.As, pyscan.Comma) {
				clause.Target = p.parseExpr()
			}
		}
		p.expect(pyscan.Colon)
		clause.Body = p.parseSuite()
		stmt.Handlers = append(stmt.Handlers, clause)
	}

	stmt.Else = p.parseElse()
	if p.has(pyscan.Finally) {
		p.expect(pyscan.Colon)
		stmt.Finally = p.parseSuite()
	}
	if len(stmt.Handlers) == 0 && stmt.Finally == nil {
		p.errorExpected(p.word.Begin, "except or finally")
	}
	return stmt
}

func (p *parser) parseWithStmt(async *pyscan.Word) *pythonast.WithStmt {
	if p.opts.Trace {
		defer un(trace(p, "WithStmt"))
	}

	stmt := &pythonast.WithStmt{Async: async, With: p.expect(pyscan.With)}
	for {
		item := &pythonast.WithItem{Value: p.parseTestExpr()}
		if p.has(pyscan.As) {
			item.Target = p.parseExpr()
		}
		stmt.Items = append(stmt.Items, item)
		if !p.has(pyscan.Comma) {
			break
		}
	}
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()
	return stmt
}

// Parse a function definition, e.g. "def foo(a, b=1, *x): return 1"
func (p *parser) parseFunctionDef(async *pyscan.Word) *pythonast.FunctionDefStmt {
	if p.opts.Trace {
		defer un(trace(p, "FunctionDef"))
	}

	stmt := &pythonast.FunctionDefStmt{Async: async, Def: p.expect(pyscan.Def)}
	stmt.Name = p.parseName()
	p.expect(pyscan.Lparen)
	stmt.Parameters = p.parseParameterList(true)
	p.expect(pyscan.Rparen)
	if p.has(pyscan.Arrow) {
		stmt.Annotation = p.parseTestExpr()
	}
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()
	return stmt
}

// Parse a class definition, e.g. "class Foo(Bar, metaclass=Meta): pass"
func (p *parser) parseClassDef() *pythonast.ClassDefStmt {
	if p.opts.Trace {
		defer un(trace(p, "ClassDef"))
	}

	stmt := &pythonast.ClassDefStmt{Class: p.expect(pyscan.Class)}
	stmt.Name = p.parseName()
	if p.has(pyscan.Lparen) {
		if !p.at(pyscan.Rparen) {
			stmt.Args = p.parseArgumentList()
		}
		p.expect(pyscan.Rparen)
	}
	p.expect(pyscan.Colon)
	stmt.Body = p.parseSuite()
	return stmt
}

// Parse an async statement, e.g. "async def foo(): pass"
func (p *parser) parseAsyncStmt(funcOnly bool) pythonast.Stmt {
	async := p.expect(pyscan.Async)
	switch {
	case p.at(pyscan.Def):
		return p.parseFunctionDef(async)
	case !funcOnly && p.at(pyscan.For):
		return p.parseForStmt(async)
	case !funcOnly && p.at(pyscan.With):
		return p.parseWithStmt(async)
	}
	p.errorExpected(p.word.Begin, "def, for or with")
	return nil
}

// Parse a decorator, e.g. "@foo.bar(baz)". Dotted names become nested AttributeExprs.
func (p *parser) parseDecorator() pythonast.Expr {
	if p.opts.Trace {
		defer un(trace(p, "Decorator"))
	}

	p.expect(pyscan.At)
	var dec pythonast.Expr = p.parseName()
	for p.at(pyscan.Period) {
		dec = p.parseAttributeExprAfterValue(dec)
	}
	if p.at(pyscan.Lparen) {
		dec = p.parseCallExprAfterFunc(dec)
	}
	p.expect(pyscan.NewLine)
	return dec
}

// Parse a decorated statement, e.g.:
//   @foo
//   def bar(): pass
func (p *parser) parseDecoratedStmt() pythonast.Stmt {
	if p.opts.Trace {
		defer un(trace(p, "DecoratedStmt"))
	}

	decorators := []pythonast.Expr{p.parseDecorator()}
	for p.at(pyscan.At) {
		decorators = append(decorators, p.parseDecorator())
	}

	switch p.word.Token {
	case pyscan.Async:
		decl := p.parseAsyncStmt(true)
		decl.(*pythonast.FunctionDefStmt).Decorators = decorators
		return decl
	case pyscan.Def:
		decl := p.parseFunctionDef(nil)
		decl.Decorators = decorators
		return decl
	case pyscan.Class:
		decl := p.parseClassDef()
		decl.Decorators = decorators
		return decl
	}
	p.errorExpected(p.word.Begin, "function or class def")
	return nil
}

func (p *parser) parseCompoundStmt() (stmt pythonast.Stmt) {
	if p.opts.Trace {
		defer un(trace(p, "CompoundStmt"))
	}

	begin := p.word.Begin
	defer func() {
		if bad := p.recoverStmt(begin, recover()); bad != nil {
			stmt = bad
		}
	}()

	switch p.word.Token {
	case pyscan.If:
		return p.parseIfStmt()
	case pyscan.While:
		return p.parseWhileStmt()
	case pyscan.For:
		return p.parseForStmt(nil)
	case pyscan.Try:
		return p.parseTryStmt()
	case pyscan.With:
		return p.parseWithStmt(nil)
	case pyscan.Def:
		return p.parseFunctionDef(nil)
	case pyscan.Class:
		return p.parseClassDef()
	case pyscan.At:
		return p.parseDecoratedStmt()
	case pyscan.Async:
		return p.parseAsyncStmt(false)
	}
	p.errorExpected(p.word.Begin, "statement")
	return nil
}

func (p *parser) atCompoundStmt() bool {
	return p.at(pyscan.If, pyscan.While, pyscan.For, pyscan.Try, pyscan.With,
		pyscan.Def, pyscan.Class, pyscan.At, pyscan.Async)
}

func (p *parser) parseStmt() []pythonast.Stmt {
	if p.opts.Trace {
		defer un(trace(p, "Stmt"))
	}

	if p.at(pyscan.Indent) {
		// an unexpected indent: skip the whole block
		begin := p.word.Begin
		p.errs = errors.Append(p.errs, pyscan.PosError{Pos: begin, Msg: "unexpected indent"})
		if p.opts.ErrorMode == FailFast {
			panic(errWrongToken)
		}
		for depth := 0; ; {
			if p.at(pyscan.EOF) {
				break
			}
			if p.at(pyscan.Indent) {
				depth++
			} else if p.at(pyscan.Dedent) {
				depth--
			}
			p.next()
			if depth == 0 {
				break
			}
		}
		return []pythonast.Stmt{&pythonast.BadStmt{From: begin, To: p.word.Begin}}
	}

	if p.atCompoundStmt() {
		return []pythonast.Stmt{p.parseCompoundStmt()}
	}
	return p.parseSimpleStmt()
}

func (p *parser) parseModule() *pythonast.Module {
	if p.opts.Trace {
		defer un(trace(p, "Module"))
	}

	mod := &pythonast.Module{}
	for !p.at(pyscan.EOF) {
		if p.has(pyscan.NewLine) || p.has(pyscan.Dedent) {
			continue
		}
		mod.Body = append(mod.Body, p.parseStmt()...)
	}
	return mod
}

// -- entry points

func parse(ctx kitectx.Context, src []byte, opts Options) (mod *pythonast.Module, err error) {
	ctx.CheckAbort()

	lexer := pyscan.NewStreamLexer(src, opts.ScanOptions)
	p := newParser(ctx, lexer, opts)

	defer func() {
		ex := recover()
		// lexical errors are reported along with syntax errors
		p.errs = errors.Append(p.errs, lexer.Errs())
		p.recoverParse(ex, &err)
		if err != nil && opts.ErrorMode == FailFast {
			mod = nil
		}
	}()

	return p.parseModule(), nil
}

// Parse translates a python source file to a syntax tree. Results are cached by
// the contents of the file and the error mode.
func Parse(ctx kitectx.Context, src []byte, opts Options) (*pythonast.Module, error) {
	ctx.CheckAbort()

	if entry, ok := getCachedParse(src, opts); ok {
		return entry.mod, entry.err
	}

	mod, err := parse(ctx, src, opts)
	if !opts.Trace {
		cacheParse(src, opts, mod, err)
	}
	return mod, err
}

// ParseStatement parses a single statement, which must be followed by EOF
func ParseStatement(ctx kitectx.Context, src []byte, opts Options) (stmt pythonast.Stmt, err error) {
	ctx.CheckAbort()

	lexer := pyscan.NewStreamLexer(src, opts.ScanOptions)
	p := newParser(ctx, lexer, opts)
	defer func() {
		p.recoverParse(recover(), &err)
	}()

	if p.atCompoundStmt() {
		stmt = p.parseCompoundStmt()
	} else {
		stmts := p.parseSimpleStmt()
		if len(stmts) != 1 {
			p.error(p.word.Begin, "expected a single statement")
		}
		stmt = stmts[0]
	}
	for p.has(pyscan.NewLine) {
	}
	p.expect(pyscan.EOF)
	return stmt, nil
}

// ParseExpr parses a single expression, which must be followed by EOF
func ParseExpr(ctx kitectx.Context, src []byte, opts Options) (expr pythonast.Expr, err error) {
	ctx.CheckAbort()

	opts.ErrorMode = FailFast
	lexer := pyscan.NewStreamLexer(src, opts.ScanOptions)
	p := newParser(ctx, lexer, opts)
	defer func() {
		p.recoverParse(recover(), &err)
	}()

	expr = p.parseTestList()
	p.has(pyscan.NewLine)
	p.expect(pyscan.EOF)
	return expr, nil
}
