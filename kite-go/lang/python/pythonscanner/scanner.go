package pythonscanner

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kiteco/pycall/kite-golib/errors"
)

// Options represents configuration for the scanner
type Options struct {
	ScanComments bool
	ScanNewLines bool
	// KeepEOFIndent keeps the indentation of the last line when the source ends
	// without a trailing newline
	KeepEOFIndent bool
	Label         string // Label is the filename for error reporting
}

// DefaultOptions is an Options object with default values.
var DefaultOptions = Options{
	ScanNewLines: true,
}

// A Scanner holds the scanner's internal state while processing a given text.
type Scanner struct {
	src  []byte
	opts Options

	ch       rune // current character
	offset   int  // character offset
	rdOffset int  // reading offset (position after current character)

	// Errs accumulates errors encountered while scanning
	Errs errors.Errors
}

// Word represents a token together with its position and literal content
type Word struct {
	Token   Token
	Begin   token.Pos
	End     token.Pos
	Literal string
}

// String gets a string representation of a lexical symbol
func (w Word) String() string {
	switch {
	case w.Token.IsLiteral():
		s := w.Token.String()
		if len(w.Literal) > 50 || strings.Contains(w.Literal, "\n") {
			return s + fmt.Sprintf("[%d chars]", len(w.Literal))
		}
		return s + "[" + w.Literal + "]"
	case w.Token.IsOperator(), w.Token.IsKeyword():
		return `"` + w.Token.String() + `"`
	case w.Token == Illegal:
		return w.Token.String() + "[" + w.Literal + "]"
	default:
		return w.Token.String()
	}
}

// Valid checks if the Word is valid; it is intended for use in testing
func (w Word) Valid() bool {
	if w.Begin > w.End {
		return false
	}
	if canHaveLiteral(w.Token) {
		return true
	}
	return w.Literal == ""
}

func canHaveLiteral(tok Token) bool {
	return tok.IsWhitespace() || tok.IsLiteral() || tok == Comment || tok == Illegal || tok == BadToken || tok == Magic
}

// NewScanner creates a scanner positioned at the beginning of src.
// Calls to Scan will track encountered errors in the Errs field.
func NewScanner(src []byte, opts Options) *Scanner {
	s := &Scanner{
		src:  src,
		opts: opts,
		ch:   ' ',
	}

	s.next()
	if s.ch == bom {
		s.next() // ignore Bom at file beginning
	}
	return s
}

const bom = 0xFeff // byte order mark, only permitted as very first character

// Read the next Unicode char into s.ch; s.ch < 0 means end-of-file.
func (s *Scanner) next() {
	if s.rdOffset >= len(s.src) {
		s.offset = len(s.src)
		s.ch = -1
		return
	}

	s.offset = s.rdOffset
	r, w := rune(s.src[s.rdOffset]), 1
	switch {
	case r == 0:
		s.error(s.offset, "illegal character Nul")
	case r >= utf8.RuneSelf:
		r, w = utf8.DecodeRune(s.src[s.rdOffset:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.offset, "illegal Utf-8 encoding")
		} else if r == bom && s.offset > 0 {
			s.error(s.offset, "illegal byte order mark")
		}
	}
	s.rdOffset += w
	s.ch = r
}

// peek returns the byte following the current character without advancing
func (s *Scanner) peek() byte {
	if s.rdOffset < len(s.src) {
		return s.src[s.rdOffset]
	}
	return 0
}

func (s *Scanner) error(offs int, msg string) {
	s.Errs = errors.Append(s.Errs, PosError{token.Pos(offs), msg})
}

// IsLetter checks if the given rune may start an identifier
func IsLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch >= utf8.RuneSelf && unicode.IsLetter(ch)
}

// IsDigit checks if the given rune is a decimal digit
func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9' || ch >= utf8.RuneSelf && unicode.IsDigit(ch)
}

// IsValidIdent returns true if s is a syntactically valid identifier
func IsValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !IsLetter(r) {
			return false
		}
		if !IsLetter(r) && !IsDigit(r) {
			return false
		}
	}
	return Lookup(s) == Ident
}

func isStringPrefix(s string) bool {
	// valid prefixes are at most two characters, e.g. rb"..." or u'...'
	if len(s) != 1 && len(s) != 2 {
		return false
	}
	for _, ch := range s {
		switch ch {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		default:
			return false
		}
	}
	return true
}

func digitVal(ch rune) int {
	switch {
	case '0' <= ch && ch <= '9':
		return int(ch - '0')
	case 'a' <= ch && ch <= 'f':
		return int(ch - 'a' + 10)
	case 'A' <= ch && ch <= 'F':
		return int(ch - 'A' + 10)
	}
	return 16 // larger than any legal digit val
}

func (s *Scanner) scanComment() string {
	// initial '#' already consumed
	offs := s.offset - 1
	for s.ch != '\n' && s.ch != '\r' && s.ch >= 0 {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanIdentifier() string {
	offs := s.offset
	for IsLetter(s.ch) || IsDigit(s.ch) {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanMantissa(base int) {
	for digitVal(s.ch) < base || s.ch == '_' {
		s.next()
	}
}

func (s *Scanner) scanNumber(seenDecimalPoint bool) (Token, string) {
	offs := s.offset
	tok := Int

	if seenDecimalPoint {
		offs--
		tok = Float
		s.scanMantissa(10)
		return s.scanExponent(offs, tok)
	}

	if s.ch == '0' {
		s.next()
		switch s.ch {
		case 'x', 'X':
			s.next()
			s.scanMantissa(16)
			if s.offset-offs <= 2 {
				s.error(offs, "illegal hexadecimal number")
			}
			return s.scanLong(offs, tok)
		case 'o', 'O':
			s.next()
			s.scanMantissa(8)
			return s.scanLong(offs, tok)
		case 'b', 'B':
			s.next()
			s.scanMantissa(2)
			return s.scanLong(offs, tok)
		}
	}

	s.scanMantissa(10)
	if s.ch == '.' {
		tok = Float
		s.next()
		s.scanMantissa(10)
	}
	return s.scanExponent(offs, tok)
}

func (s *Scanner) scanExponent(offs int, tok Token) (Token, string) {
	if s.ch == 'e' || s.ch == 'E' {
		tok = Float
		s.next()
		if s.ch == '-' || s.ch == '+' {
			s.next()
		}
		s.scanMantissa(10)
	}
	if s.ch == 'j' || s.ch == 'J' {
		tok = Imag
		s.next()
	}
	return s.scanLong(offs, tok)
}

func (s *Scanner) scanLong(offs int, tok Token) (Token, string) {
	if tok == Int && (s.ch == 'l' || s.ch == 'L') {
		tok = Long
		s.next()
	}
	return tok, string(s.src[offs:s.offset])
}

// scanString scans a string literal whose opening quote was already consumed.
// offs is the offset of the first character of the literal, including any prefix.
func (s *Scanner) scanString(offs int, quote rune) string {
	if s.ch == quote {
		s.next()
		// two quotes: either an empty string or the start of a triple-quoted string
		if s.ch != quote {
			return string(s.src[offs:s.offset])
		}
		s.next()
		return s.scanMultiLineString(offs, quote)
	}

	for {
		ch := s.ch
		if ch == '\n' || ch < 0 {
			s.error(offs, "string literal not terminated")
			break
		}
		s.next()
		if ch == quote {
			break
		}
		if ch == '\\' {
			// skip the escaped character, quotes and backslashes included
			s.next()
		}
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanMultiLineString(offs int, quote rune) string {
	var numQuotes int
	for {
		ch := s.ch
		if ch < 0 {
			s.error(offs, "multi-line string literal not terminated")
			break
		}
		s.next()
		if ch == quote {
			numQuotes++
			if numQuotes == 3 {
				break
			}
			continue
		}
		numQuotes = 0
		if ch == '\\' {
			s.next()
		}
	}
	return string(s.src[offs:s.offset])
}

func (s *Scanner) scanWhitespace() string {
	offs := s.offset
	// ' ' -> no break whitespace
	for s.ch == ' ' || s.ch == '\t' || s.ch == '\f' || s.ch == '\v' || s.ch == ' ' {
		s.next()
	}
	return string(s.src[offs:s.offset])
}

// Helper functions for scanning multi-byte tokens such as >> += >>= .
// If the next character is '=' the result is tok1 (or tok3 after ch2),
// otherwise tok0, or tok2 if the next character was ch2.

func (s *Scanner) switch2(tok0, tok1 Token) Token {
	if s.ch == '=' {
		s.next()
		return tok1
	}
	return tok0
}

func (s *Scanner) switch4(tok0, tok1 Token, ch2 rune, tok2, tok3 Token) Token {
	if s.ch == '=' {
		s.next()
		return tok1
	}
	if s.ch == ch2 {
		s.next()
		if s.ch == '=' {
			s.next()
			return tok3
		}
		return tok2
	}
	return tok0
}

// Scan scans the next token and returns its position, the token, and its
// literal string if applicable. The end of the source is indicated by EOF.
//
// NewLine tokens carry the indentation that follows them as their literal.
// Errors do not stop scanning; check s.Errs after the last token.
func (s *Scanner) Scan() (begin, end token.Pos, tok Token, lit string) {
rescan:
	s.scanWhitespace()

	begin = token.Pos(s.offset)

	switch ch := s.ch; {
	case IsLetter(ch):
		lit = s.scanIdentifier()
		if isStringPrefix(lit) && (s.ch == '"' || s.ch == '\'') {
			quote := s.ch
			s.next()
			lit = s.scanString(int(begin), quote)
			tok = String
		} else {
			tok = Lookup(lit)
			if !canHaveLiteral(tok) {
				lit = ""
			}
		}
	case '0' <= ch && ch <= '9':
		tok, lit = s.scanNumber(false)
	default:
		s.next() // always make progress
		switch ch {
		case -1:
			tok = EOF
		case '\\':
			if s.ch != '\r' && s.ch != '\n' {
				s.error(int(begin), "backslash not followed by newline")
				tok, lit = Illegal, `"\\"`
				break
			}
			tok = LineContinuation
			if s.ch == '\r' {
				s.next()
			}
			if s.ch == '\n' {
				s.next()
			}
			if !s.opts.ScanNewLines {
				goto rescan
			}
		case '\n', '\r':
			tok = NewLine
			// \r\n and \n\r are each treated as a single line ending
			if (ch == '\r' && s.ch == '\n') || (ch == '\n' && s.ch == '\r') {
				s.next()
			}
			lit = s.scanWhitespace()
			if !s.opts.ScanNewLines {
				goto rescan
			}
		case '"', '\'':
			tok = String
			lit = s.scanString(int(begin), ch)
		case '#':
			tok = Comment
			lit = s.scanComment()
			if !s.opts.ScanComments {
				goto rescan
			}
		case '.':
			if '0' <= s.ch && s.ch <= '9' {
				tok, lit = s.scanNumber(true)
			} else {
				tok = Period
			}
		case ',':
			tok = Comma
		case ';':
			tok = Semicolon
		case '(':
			tok = Lparen
		case ')':
			tok = Rparen
		case '[':
			tok = Lbrack
		case ']':
			tok = Rbrack
		case '{':
			tok = Lbrace
		case '}':
			tok = Rbrace
		case '@':
			tok = At
		case '`':
			tok = Backtick
		case ':':
			tok = Colon
		case '+':
			tok = s.switch2(Add, AddAssign)
		case '-':
			if s.ch == '>' {
				s.next()
				tok = Arrow
			} else {
				tok = s.switch2(Sub, SubAssign)
			}
		case '*':
			tok = s.switch4(Mul, MulAssign, '*', Pow, PowAssign)
		case '/':
			tok = s.switch4(Div, DivAssign, '/', Truediv, TruedivAssign)
		case '<':
			if s.ch == '>' {
				s.next()
				tok = Lg
			} else {
				tok = s.switch4(Lt, Le, '<', BitLshift, BitLshiftAssign)
			}
		case '>':
			tok = s.switch4(Gt, Ge, '>', BitRshift, BitRshiftAssign)
		case '%':
			tok = s.switch2(Pct, PctAssign)
		case '=':
			tok = s.switch2(Assign, Eq)
		case '&':
			tok = s.switch2(BitAnd, BitAndAssign)
		case '|':
			tok = s.switch2(BitOr, BitOrAssign)
		case '^':
			tok = s.switch2(BitXor, BitXorAssign)
		case '~':
			tok = BitNot
		case '!':
			if s.ch == '=' {
				s.next()
				tok = Ne
			} else {
				s.error(int(begin), "'!' not allowed outside '!='")
				tok, lit = Illegal, `"!"`
			}
		default:
			// next reports unexpected Boms - don't repeat
			if ch != bom {
				s.error(int(begin), fmt.Sprintf("illegal character %#U", ch))
			}
			tok = Illegal
			lit = fmt.Sprintf("%q", ch)
		}
	}

	end = token.Pos(s.offset)
	return
}

// Scan extracts all tokens from the buffer without indentation processing.
// Even if there is an error, a token stream is returned, possibly containing Illegal tokens.
func Scan(buf []byte) ([]Word, error) {
	scanner := NewScanner(buf, Options{
		ScanComments: true,
		ScanNewLines: true,
	})
	var words []Word
	for {
		begin, end, tok, lit := scanner.Scan()
		words = append(words, Word{
			Begin:   begin,
			End:     end,
			Token:   tok,
			Literal: lit,
		})
		if tok == EOF {
			break
		}
	}
	if scanner.Errs == nil {
		return words, nil
	}
	return words, scanner.Errs
}
