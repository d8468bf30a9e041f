package pythonscanner

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var Name = Ident

func assertTokens(t *testing.T, src string, expected ...Token) []Word {
	t.Log(src)
	words, err := Lex([]byte(src), Options{})
	require.NoError(t, err)

	var actual []string
	for _, w := range words {
		actual = append(actual, w.Token.String())
		assert.True(t, w.Valid(), "invalid word %v", w)
	}
	var exp []string
	for _, tok := range expected {
		exp = append(exp, tok.String())
	}
	assert.Equal(t, exp, actual)
	return words
}

func TestLexer_SingleLine(t *testing.T) {
	assertTokens(t, `foo(bar)`, Name, Lparen, Name, Rparen, NewLine, EOF)
}

func TestLexer_Empty(t *testing.T) {
	assertTokens(t, ``, EOF)
	assertTokens(t, "\n\n", EOF)
}

func TestLexer_Indents(t *testing.T) {
	src := `
if foo:
   bar
   baz 456
`
	assertTokens(t, src, If, Name, Colon, NewLine, Indent, Name, NewLine, Name, Int, NewLine, Dedent, EOF)
}

func TestLexer_Indents_NoFinalNewline(t *testing.T) {
	src := `
if foo:
   bar`
	assertTokens(t, src, If, Name, Colon, NewLine, Indent, Name, NewLine, Dedent, EOF)
}

func TestLexer_Dedents(t *testing.T) {
	src := `
def f():
    if x:
        y
z
`
	assertTokens(t, src,
		Def, Name, Lparen, Rparen, Colon, NewLine,
		Indent, If, Name, Colon, NewLine,
		Indent, Name, NewLine,
		Dedent, Dedent, Name, NewLine, EOF)
}

func TestLexer_EmptyLine(t *testing.T) {
	src := `
if foo:
   bar

   baz
`
	assertTokens(t, src, If, Name, Colon, NewLine, Indent, Name, NewLine, Name, NewLine, Dedent, EOF)
}

func TestLexer_EmptyLineWithComment(t *testing.T) {
	src := `
if foo:
   bar
# comment
   baz
`
	assertTokens(t, src, If, Name, Colon, NewLine, Indent, Name, Comment, NewLine, Name, NewLine, Dedent, EOF)
}

func TestLexer_Parens(t *testing.T) {
	src := `
foo(a,
    b)
bar
`
	assertTokens(t, src, Name, Lparen, Name, Comma, Name, Rparen, NewLine, Name, NewLine, EOF)
}

func TestLexer_LineContinuations(t *testing.T) {
	src := "x = 1 + \\\n    2\n"
	assertTokens(t, src, Name, Assign, Int, Add, Int, NewLine, EOF)
}

func TestLexer_MissingParen(t *testing.T) {
	src := `
foo(a,
def bar(): pass
`
	words, err := Lex([]byte(src), Options{})
	require.Error(t, err)
	assert.Equal(t, EOF, words[len(words)-1].Token)
}

func TestLexer_BadIndentationLevel(t *testing.T) {
	src := `
if a:
    b
  c
`
	words, err := Lex([]byte(src), Options{})
	require.Error(t, err)

	var indents, dedents int
	for _, w := range words {
		switch w.Token {
		case Indent:
			indents++
		case Dedent:
			dedents++
		}
	}
	assert.Equal(t, indents, dedents)
}

func TestLexer_Positions(t *testing.T) {
	words := assertTokens(t, "foo.bar(1)\n", Name, Period, Name, Lparen, Int, Rparen, NewLine, EOF)

	assert.Equal(t, Word{Token: Ident, Begin: 0, End: 3, Literal: "foo"}, words[0])
	assert.Equal(t, Word{Token: Period, Begin: 3, End: 4}, words[1])
	assert.Equal(t, Word{Token: Ident, Begin: 4, End: 7, Literal: "bar"}, words[2])
	assert.Equal(t, Word{Token: Int, Begin: 8, End: 9, Literal: "1"}, words[4])
	assert.Equal(t, token.Pos(10), words[6].Begin)
}

func TestLexNoBreakWhiteSpace(t *testing.T) {
	assertTokens(t, "x =\u00a01\n", Name, Assign, Int, NewLine, EOF)
}

func TestCarriageReturnLinefeed(t *testing.T) {
	assertTokens(t, "if a:\r\n    b\r\nc\r\n", If, Name, Colon, NewLine, Indent, Name, NewLine, Dedent, Name, NewLine, EOF)
}

func TestIllegalCharacters(t *testing.T) {
	words, err := Lex([]byte("a $ b\n"), Options{})
	require.Error(t, err)
	require.True(t, len(words) > 2)
	assert.Equal(t, Illegal, words[1].Token)
}

func TestLexerRepeatsEOF(t *testing.T) {
	lexer := NewStreamLexer([]byte("a"), DefaultOptions)
	var last *Word
	for i := 0; i < 6; i++ {
		last = lexer.Next()
	}
	assert.Equal(t, EOF, last.Token)
}
