package pythonscanner

import (
	"fmt"
	"go/token"

	"github.com/kiteco/pycall/kite-golib/errors"
)

// Lex converts a byte array to an array of lexical elements, including the
// synthesized NewLine, Indent and Dedent tokens. The final word is always EOF.
// NOTE: the lexer expects `buf` to be UTF8 encoded
func Lex(buf []byte, opts Options) ([]Word, error) {
	opts.ScanComments = true

	lexer := NewStreamLexer(buf, opts)
	var words []Word
	for len(words) == 0 || words[len(words)-1].Token != EOF {
		words = append(words, *lexer.Next())
	}
	return words, lexer.Errs()
}

// Lexer extracts words from python source
type Lexer interface {
	Next() *Word
}

// StreamLexer extracts words from python source, tracking indentation
type StreamLexer struct {
	scanner *Scanner
	opts    Options

	parenDepth int
	indents    []int
	queue      []Word

	curIndent    string
	needsNewline bool
	hasFirst     bool
	done         bool

	errs errors.Errors
}

// NewStreamLexer constructs a lexer that will return tokens from the provided file
// NOTE: the lexer expects `buf` to be UTF8 encoded
func NewStreamLexer(src []byte, opts Options) *StreamLexer {
	opts.ScanNewLines = true
	return &StreamLexer{
		opts:    opts,
		scanner: NewScanner(src, opts),
	}
}

// Errs returns the scanning and indentation errors encountered so far
func (l *StreamLexer) Errs() error {
	errs := errors.Append(nil, l.scanner.Errs)
	errs = errors.Append(errs, l.errs)
	if errs == nil {
		return nil
	}
	return errs
}

func (l *StreamLexer) error(offs int, msg string) {
	l.errs = errors.Append(l.errs, PosError{token.Pos(offs), msg})
}

func (l *StreamLexer) level() int {
	if len(l.indents) == 0 {
		return 0
	}
	return l.indents[len(l.indents)-1]
}

// indentLevel computes an indentation level from an indentation string;
// tabs advance to the next multiple of eight.
func (l *StreamLexer) indentLevel(s string) int {
	var level int
	for _, c := range s {
		switch c {
		case ' ', '\u00a0':
			level++
		case '\t':
			level += 8 - (level % 8)
		default:
			// count it as a single column so that processing can continue
			level++
			l.error(l.scanner.offset, fmt.Sprintf("invalid character %q within indentation whitespace", c))
		}
	}
	return level
}

// queueIndents pushes Indent or Dedent words for the transition to the given level
func (l *StreamLexer) queueIndents(cur int, pos token.Pos) {
	last := l.level()
	switch {
	case cur == last:
	case cur > last:
		l.indents = append(l.indents, cur)
		l.queue = append(l.queue, Word{Begin: pos, End: pos, Token: Indent})
	default:
		for l.level() > cur {
			l.indents = l.indents[:len(l.indents)-1]
			l.queue = append(l.queue, Word{Begin: pos, End: pos, Token: Dedent})
		}
		if l.level() != cur {
			l.error(int(pos), "invalid indentation level")
			// re-open the level so indents and dedents stay balanced
			l.indents = append(l.indents, cur)
			l.queue = l.queue[:len(l.queue)-1]
		}
	}
}

func (l *StreamLexer) pop() *Word {
	w := l.queue[0]
	l.queue = l.queue[1:]
	return &w
}

// Next gets the next lexical token. Once EOF has been returned, every
// subsequent call returns EOF again.
func (l *StreamLexer) Next() *Word {
	if len(l.queue) > 0 {
		return l.pop()
	}
	if l.done {
		pos := token.Pos(len(l.scanner.src))
		return &Word{Begin: pos, End: pos, Token: EOF}
	}

	nlBegin, nlEnd := token.Pos(-1), token.Pos(-1)
	for {
		begin, end, tok, lit := l.scanner.Scan()
		word := Word{Begin: begin, End: end, Token: tok, Literal: lit}

		switch tok {
		case Lparen, Lbrace, Lbrack:
			l.parenDepth++
		case Rparen, Rbrace, Rbrack:
			if l.parenDepth > 0 {
				l.parenDepth--
			}
		case Class, Def, Del, Pass, Raise, Import, Break, Continue,
			Assert, Except, Finally, Global, Try, While, Semicolon, NonLocal:
			// these cannot appear inside brackets, so assume one was left open
			if l.parenDepth != 0 {
				l.error(int(begin), fmt.Sprintf("invalid keyword in parenthesized region: %s", tok.String()))
				l.parenDepth = 0
			}
		}

		switch tok {
		case Comment, Magic:
			return &word

		case LineContinuation:
			continue

		case NewLine:
			l.curIndent = lit
			if l.parenDepth == 0 {
				// consecutive newlines collapse into a single NewLine word
				l.needsNewline = true
			}
			if nlBegin == -1 {
				nlBegin = begin
			}
			nlEnd = end
			continue

		case EOF:
			l.done = true
			if l.hasFirst {
				if nlBegin == -1 {
					nlBegin, nlEnd = begin, begin
				}
				cur := 0
				if l.opts.KeepEOFIndent {
					cur = l.indentLevel(l.curIndent)
				}
				l.queue = append(l.queue, Word{Begin: nlBegin, End: nlEnd, Token: NewLine})
				l.queueIndents(cur, begin)
				l.queue = append(l.queue, word)
				return l.pop()
			}
			return &word
		}

		// A pending newline is emitted ahead of the current word, followed by
		// any Indent or Dedent words the new indentation calls for.
		if l.needsNewline && l.hasFirst {
			l.queue = append(l.queue, Word{Begin: nlBegin, End: nlEnd, Token: NewLine})
			l.queueIndents(l.indentLevel(l.curIndent), begin)
			l.queue = append(l.queue, word)
			l.needsNewline = false
			return l.pop()
		}
		l.needsNewline = false
		l.hasFirst = true
		return &word
	}
}
