package pythonscanner

import (
	"fmt"
	"go/token"
)

// Token is the set of lexical tokens of the Python programming language
type Token int

// The list of tokens
const (
	// Special tokens
	Illegal Token = iota
	EOF
	Comment
	NewLine
	Indent
	Dedent
	LineContinuation
	Magic
	BadToken
	Cursor

	literalBegin
	Ident
	Int
	Long
	Float
	Imag
	String
	literalEnd

	operatorBegin
	Add     // +
	Sub     // -
	Mul     // *
	Pow     // **
	Div     // /
	Truediv // //
	Pct     // %
	At      // @

	BitAnd    // &
	BitOr     // |
	BitXor    // ^
	BitNot    // ~
	BitLshift // <<
	BitRshift // >>

	AddAssign       // +=
	SubAssign       // -=
	MulAssign       // *=
	PowAssign       // **=
	DivAssign       // /=
	TruedivAssign   // //=
	PctAssign       // %=
	BitAndAssign    // &=
	BitOrAssign     // |=
	BitXorAssign    // ^=
	BitLshiftAssign // <<=
	BitRshiftAssign // >>=

	Eq // ==
	Ne // !=
	Lg // <>
	Lt // <
	Gt // >
	Le // <=
	Ge // >=

	Assign    // =
	Lparen    // (
	Rparen    // )
	Lbrack    // [
	Rbrack    // ]
	Lbrace    // {
	Rbrace    // }
	Comma     // ,
	Colon     // :
	Period    // .
	Semicolon // ;
	Backtick  // `
	Arrow     // ->
	operatorEnd

	keywordBegin
	And
	As
	Assert
	Async
	Await
	Break
	Class
	Continue
	Def
	Del
	Elif
	Else
	Except
	Finally
	For
	From
	Global
	If
	Import
	In
	Is
	Lambda
	NonLocal
	Not
	Or
	Pass
	Raise
	Return
	Try
	While
	With
	Yield
	keywordEnd
)

var tokens = [...]string{
	Illegal:          "Illegal",
	EOF:              "EOF",
	Comment:          "Comment",
	NewLine:          "NewLine",
	Indent:           "Indent",
	Dedent:           "Dedent",
	LineContinuation: "LineContinuation",
	Magic:            "Magic",
	BadToken:         "BadToken",
	Cursor:           "Cursor",

	Ident:  "Ident",
	Int:    "Int",
	Long:   "Long",
	Float:  "Float",
	Imag:   "Imag",
	String: "String",

	Add:     "+",
	Sub:     "-",
	Mul:     "*",
	Pow:     "**",
	Div:     "/",
	Truediv: "//",
	Pct:     "%",
	At:      "@",

	BitAnd:    "&",
	BitOr:     "|",
	BitXor:    "^",
	BitNot:    "~",
	BitLshift: "<<",
	BitRshift: ">>",

	AddAssign:       "+=",
	SubAssign:       "-=",
	MulAssign:       "*=",
	PowAssign:       "**=",
	DivAssign:       "/=",
	TruedivAssign:   "//=",
	PctAssign:       "%=",
	BitAndAssign:    "&=",
	BitOrAssign:     "|=",
	BitXorAssign:    "^=",
	BitLshiftAssign: "<<=",
	BitRshiftAssign: ">>=",

	Eq: "==",
	Ne: "!=",
	Lg: "<>",
	Lt: "<",
	Gt: ">",
	Le: "<=",
	Ge: ">=",

	Assign:    "=",
	Lparen:    "(",
	Rparen:    ")",
	Lbrack:    "[",
	Rbrack:    "]",
	Lbrace:    "{",
	Rbrace:    "}",
	Comma:     ",",
	Colon:     ":",
	Period:    ".",
	Semicolon: ";",
	Backtick:  "`",
	Arrow:     "->",

	And:      "and",
	As:       "as",
	Assert:   "assert",
	Async:    "async",
	Await:    "await",
	Break:    "break",
	Class:    "class",
	Continue: "continue",
	Def:      "def",
	Del:      "del",
	Elif:     "elif",
	Else:     "else",
	Except:   "except",
	Finally:  "finally",
	For:      "for",
	From:     "from",
	Global:   "global",
	If:       "if",
	Import:   "import",
	In:       "in",
	Is:       "is",
	Lambda:   "lambda",
	NonLocal: "nonlocal",
	Not:      "not",
	Or:       "or",
	Pass:     "pass",
	Raise:    "raise",
	Return:   "return",
	Try:      "try",
	While:    "while",
	With:     "with",
	Yield:    "yield",
}

// String returns the string corresponding to the token tok.
// For operators, delimiters, and keywords the string is the actual
// character sequence (e.g., for the token Add, the string is "+").
func (tok Token) String() string {
	s := ""
	if 0 <= tok && tok < Token(len(tokens)) {
		s = tokens[tok]
	}
	if s == "" {
		s = fmt.Sprintf("token(%d)", int(tok))
	}
	return s
}

// Keywords maps keyword literals to their tokens. print and exec are scanned as
// identifiers so that they can be used as names in python 3.
var Keywords map[string]Token

func init() {
	Keywords = make(map[string]Token)
	for i := keywordBegin + 1; i < keywordEnd; i++ {
		Keywords[tokens[i]] = i
	}
}

// Lookup maps an identifier to its keyword token or Ident (if not a keyword).
func Lookup(ident string) Token {
	if tok, isKeyword := Keywords[ident]; isKeyword {
		return tok
	}
	return Ident
}

// IsLiteral returns true for tokens corresponding to identifiers
// and basic type literals; it returns false otherwise.
func (tok Token) IsLiteral() bool { return literalBegin < tok && tok < literalEnd }

// IsOperator returns true for tokens corresponding to operators and
// delimiters; it returns false otherwise.
func (tok Token) IsOperator() bool { return operatorBegin < tok && tok < operatorEnd }

// IsKeyword returns true for tokens corresponding to keywords;
// it returns false otherwise.
func (tok Token) IsKeyword() bool { return keywordBegin < tok && tok < keywordEnd }

// IsWhitespace returns true for tokens that only carry layout
func (tok Token) IsWhitespace() bool {
	return tok == NewLine || tok == Indent || tok == Dedent || tok == LineContinuation
}

// PosError is an error with an associated offset into the source
type PosError struct {
	Pos token.Pos
	Msg string
}

// Error implements error
func (e PosError) Error() string {
	return fmt.Sprintf("%d: %s", e.Pos, e.Msg)
}
