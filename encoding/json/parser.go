package json

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/jsonchunk/internal/debug"
	"github.com/arnodel/jsonchunk/internal/scanner"
	"github.com/arnodel/jsonchunk/token"
)

// What the parser expects to read next.
type expectation uint8

const (
	expectValue1 expectation = iota // a value or ']' (first item of an array)
	expectValue
	expectKey1 // a key or '}' (first entry of an object)
	expectKey
	expectColon
	expectArrayStop  // ',' or ']'
	expectObjectStop // ',' or '}'
	expectDone       // whitespace after a top-level value
	expectString     // inside a string value
	expectKeyVal     // inside a key

	// Numbers, following -?(0|[1-9]\d*)(\.\d+)?([eE][-+]?\d+)?
	expectNumberStart     // first digit after '-'
	expectNumberDigit     // more integer digits
	expectNumberFraction  // optional '.' or exponent
	expectNumberFracStart // first fraction digit
	expectNumberFracDigit // more fraction digits
	expectNumberExponent  // optional exponent
	expectNumberExpSign   // optional exponent sign
	expectNumberExpStart  // first exponent digit
	expectNumberExpDigit  // more exponent digits
)

type parent uint8

const (
	parentNone parent = iota
	parentObject
	parentArray
)

// A Parser turns JSON text arriving in chunks of any size into tokens.
//
// Push feeds the next chunk and returns the tokens that can be produced from
// the input seen so far.  When the input ends in the middle of a construct
// the parser suspends and resumes on the next call.  Finish signals the end
// of input: trailing constructs that were ambiguous (e.g. a number that could
// have had more digits) are resolved and an incomplete document is an error.
//
// A Parser must not be used concurrently.  After an error, every call returns
// that error.
type Parser struct {
	opts Options
	buf  scanner.Buffer

	expect expectation
	parent parent
	stack  []parent

	// Accumulates the key, string or number being packed
	acc strings.Builder

	// A number has no closing delimiter of its own, so it stays open until
	// something that cannot continue it is read.
	openNumber bool

	// High surrogate from a \u escape waiting for its low half, or 0
	surrogate rune

	finished bool
	err      error
	toks     []token.Token
}

// NewParser returns a parser with the given options applied over
// DefaultOptions.
func NewParser(opts ...Option) *Parser {
	p := &Parser{opts: ApplyOptions(opts...)}
	if p.opts.JSONStreaming {
		p.expect = expectDone
	} else {
		p.expect = expectValue
	}
	return p
}

// Options returns the resolved options of the parser.
func (p *Parser) Options() Options {
	return p.opts
}

// Push feeds a chunk of input to the parser and returns the tokens it
// completes.  Chunks may be cut anywhere, including inside a multi-byte
// character.
func (p *Parser) Push(chunk string) ([]token.Token, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.finished {
		return nil, ErrFinished
	}
	p.buf.Feed(chunk)
	return p.run()
}

// PushBytes is like Push but takes a byte slice, which is copied.
func (p *Parser) PushBytes(chunk []byte) ([]token.Token, error) {
	return p.Push(string(chunk))
}

// Finish signals the end of input and returns the last tokens.  It fails if
// the input is not a complete document.
func (p *Parser) Finish() ([]token.Token, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.finished = true
	return p.run()
}

// Depth is the number of objects and arrays currently open.
func (p *Parser) Depth() int {
	if p.parent == parentNone {
		return 0
	}
	return len(p.stack)
}

func (p *Parser) run() ([]token.Token, error) {
	err := p.step()
	if err == nil && p.finished {
		if p.expect != expectDone {
			err = p.fail("unexpected end of input")
		} else {
			p.closeNumber()
		}
	}
	p.buf.Compact()
	toks := p.toks
	p.toks = nil
	if err != nil {
		p.err = err
	}
	return toks, err
}

// step drives the state machine as far as the buffered input allows.  It
// returns nil when it needs more input (or, after Finish, when the input is
// exhausted).
func (p *Parser) step() error {
	for {
		rest := p.buf.Rest()
		switch p.expect {

		case expectValue, expectValue1:
			if rest == "" {
				if p.finished {
					return p.fail("expected a value")
				}
				return p.suspend()
			}
			c := rest[0]
			switch {
			case scanner.IsSpace(c):
				p.buf.Advance(scanner.SpaceLen(rest))
			case c == '"':
				if p.opts.StreamStrings {
					p.emit(token.New(token.StartString))
				}
				p.expect = expectString
				p.buf.Advance(1)
			case c == '{':
				p.emit(token.New(token.StartObject))
				p.push(parentObject)
				p.expect = expectKey1
				p.buf.Advance(1)
			case c == '[':
				p.emit(token.New(token.StartArray))
				p.push(parentArray)
				p.expect = expectValue1
				p.buf.Advance(1)
			case c == ']':
				if p.expect != expectValue1 {
					return p.fail("expected a value")
				}
				p.emit(token.New(token.EndArray))
				p.pop()
				p.buf.Advance(1)
			case c == '-':
				p.startNumber()
				p.numberChunk(rest[:1])
				p.expect = expectNumberStart
				p.buf.Advance(1)
			case c == '0':
				p.startNumber()
				p.numberChunk(rest[:1])
				p.expect = expectNumberFraction
				p.buf.Advance(1)
			case scanner.IsDigit(c):
				n := 1 + scanner.DigitLen(rest[1:])
				p.startNumber()
				p.numberChunk(rest[:n])
				p.expect = expectNumberDigit
				p.buf.Advance(n)
			case c == 't' || c == 'f' || c == 'n':
				ok, err := p.literal(rest)
				if err != nil {
					return err
				}
				if !ok {
					return p.suspend()
				}
			default:
				return p.fail("expected a value")
			}

		case expectKey1, expectKey:
			if rest == "" {
				if p.finished {
					return p.fail("expected an object key")
				}
				return p.suspend()
			}
			c := rest[0]
			switch {
			case scanner.IsSpace(c):
				p.buf.Advance(scanner.SpaceLen(rest))
			case c == '"':
				if p.opts.StreamKeys {
					p.emit(token.New(token.StartKey))
				}
				p.expect = expectKeyVal
				p.buf.Advance(1)
			case c == '}' && p.expect == expectKey1:
				p.emit(token.New(token.EndObject))
				p.pop()
				p.buf.Advance(1)
			default:
				return p.fail("expected an object key")
			}

		case expectColon:
			if rest == "" {
				if p.finished {
					return p.fail("expected ':'")
				}
				return p.suspend()
			}
			c := rest[0]
			switch {
			case scanner.IsSpace(c):
				p.buf.Advance(scanner.SpaceLen(rest))
			case c == ':':
				p.expect = expectValue
				p.buf.Advance(1)
			default:
				return p.fail("expected ':'")
			}

		case expectArrayStop, expectObjectStop:
			closer, expected := byte(']'), "expected ',' or ']'"
			if p.expect == expectObjectStop {
				closer, expected = '}', "expected ',' or '}'"
			}
			if rest == "" {
				if p.finished {
					return p.fail(expected)
				}
				return p.suspend()
			}
			c := rest[0]
			switch {
			case scanner.IsSpace(c):
				p.closeNumber()
				p.buf.Advance(scanner.SpaceLen(rest))
			case c == ',':
				p.closeNumber()
				if p.expect == expectArrayStop {
					p.expect = expectValue
				} else {
					p.expect = expectKey
				}
				p.buf.Advance(1)
			case c == closer:
				p.closeNumber()
				if c == ']' {
					p.emit(token.New(token.EndArray))
				} else {
					p.emit(token.New(token.EndObject))
				}
				p.pop()
				p.buf.Advance(1)
			default:
				return p.fail(expected)
			}

		case expectDone:
			if rest == "" {
				return p.suspend()
			}
			if scanner.IsSpace(rest[0]) {
				p.closeNumber()
				p.buf.Advance(scanner.SpaceLen(rest))
				continue
			}
			if !p.opts.JSONStreaming {
				return p.fail("unexpected character after top-level value")
			}
			p.closeNumber()
			p.expect = expectValue

		case expectString, expectKeyVal:
			if rest == "" {
				if p.finished {
					return p.fail("unterminated string")
				}
				return p.suspend()
			}
			c := rest[0]
			switch {
			case c == '"':
				p.endString()
				p.buf.Advance(1)
			case c == '\\':
				n, err := p.escape(rest)
				if err != nil {
					return err
				}
				if n == 0 {
					return p.suspend()
				}
				p.buf.Advance(n)
			case scanner.IsCtrl(c):
				return p.fail("invalid control character in string")
			default:
				n := literalRunLen(rest)
				if n == len(rest) && !p.finished {
					// Do not split a multi-byte character across chunks
					n = fullRunesLen(rest)
					if n == 0 {
						return p.suspend()
					}
				}
				p.flushSurrogate()
				p.stringChunk(rest[:n])
				p.buf.Advance(n)
			}

		case expectNumberStart, expectNumberFracStart, expectNumberExpStart:
			var expected string
			switch p.expect {
			case expectNumberStart:
				expected = "expected a digit"
			case expectNumberFracStart:
				expected = "expected a fractional part of a number"
			default:
				expected = "expected an exponent value of a number"
			}
			if rest == "" {
				if p.finished {
					return p.fail(expected)
				}
				return p.suspend()
			}
			c := rest[0]
			if !scanner.IsDigit(c) {
				return p.fail(expected)
			}
			n := 1
			switch {
			case p.expect == expectNumberFracStart:
				p.expect = expectNumberFracDigit
			case p.expect == expectNumberExpStart:
				p.expect = expectNumberExpDigit
			case c == '0':
				p.expect = expectNumberFraction
			default:
				n += scanner.DigitLen(rest[1:])
				p.expect = expectNumberDigit
			}
			p.numberChunk(rest[:n])
			p.buf.Advance(n)

		case expectNumberDigit, expectNumberFracDigit, expectNumberExpDigit:
			if n := scanner.DigitLen(rest); n > 0 {
				p.numberChunk(rest[:n])
				p.buf.Advance(n)
				continue
			}
			if rest == "" && !p.finished {
				return p.suspend()
			}
			switch p.expect {
			case expectNumberDigit:
				p.expect = expectNumberFraction
			case expectNumberFracDigit:
				p.expect = expectNumberExponent
			default:
				p.expect = p.expected()
			}

		case expectNumberFraction, expectNumberExponent:
			if rest == "" && !p.finished {
				return p.suspend()
			}
			switch {
			case rest != "" && rest[0] == '.' && p.expect == expectNumberFraction:
				p.numberChunk(rest[:1])
				p.expect = expectNumberFracStart
				p.buf.Advance(1)
			case rest != "" && (rest[0] == 'e' || rest[0] == 'E'):
				p.numberChunk(rest[:1])
				p.expect = expectNumberExpSign
				p.buf.Advance(1)
			default:
				p.expect = p.expected()
			}

		case expectNumberExpSign:
			if rest == "" {
				if p.finished {
					return p.fail("expected an exponent value of a number")
				}
				return p.suspend()
			}
			if rest[0] == '-' || rest[0] == '+' {
				p.numberChunk(rest[:1])
				p.buf.Advance(1)
			}
			p.expect = expectNumberExpStart

		default:
			panic(fmt.Sprintf("json: invalid parser state %d", p.expect))
		}
	}
}

// literal reads true, false or null.  It reports false with no error when
// more input is needed to decide.
func (p *Parser) literal(rest string) (bool, error) {
	var lit string
	var tok token.Token
	switch rest[0] {
	case 't':
		lit, tok = "true", token.TrueToken
	case 'f':
		lit, tok = "false", token.FalseToken
	default:
		lit, tok = "null", token.NullToken
	}
	n := len(lit)
	if len(rest) < n {
		if !p.finished && strings.HasPrefix(lit, rest) {
			return false, nil
		}
		return false, p.fail("expected a value")
	}
	if rest[:n] != lit {
		return false, p.fail("expected a value")
	}
	if len(rest) == n && !p.finished {
		// The literal may be the prefix of a longer word
		return false, nil
	}
	if len(rest) > n && scanner.IsAlnum(rest[n]) {
		return false, p.fail("expected a value")
	}
	p.emit(tok)
	p.expect = p.expected()
	p.buf.Advance(n)
	return true, nil
}

// escape reads an escape sequence in a string.  It returns the number of
// bytes read, 0 meaning that more input is needed.
func (p *Parser) escape(rest string) (int, error) {
	if len(rest) < 2 {
		if p.finished {
			return 0, p.fail("unterminated escape sequence")
		}
		return 0, nil
	}
	var text string
	switch rest[1] {
	case '"', '\\', '/':
		text = rest[1:2]
	case 'b':
		text = "\b"
	case 'f':
		text = "\f"
	case 'n':
		text = "\n"
	case 'r':
		text = "\r"
	case 't':
		text = "\t"
	case 'u':
		for i := 2; i < 6; i++ {
			if i >= len(rest) {
				if p.finished {
					return 0, p.fail("unterminated escape sequence")
				}
				return 0, nil
			}
			if !scanner.IsHex(rest[i]) {
				return 0, p.fail("invalid \\u escape sequence")
			}
		}
		code, _ := strconv.ParseUint(rest[2:6], 16, 32)
		p.codepoint(rune(code))
		return 6, nil
	default:
		return 0, p.fail("invalid escape sequence")
	}
	p.flushSurrogate()
	p.stringChunk(text)
	return 2, nil
}

// codepoint adds a codepoint read from a \u escape, pairing surrogates.
func (p *Parser) codepoint(r rune) {
	switch {
	case !utf16.IsSurrogate(r):
		p.flushSurrogate()
		p.stringChunk(string(r))
	case r < 0xDC00:
		p.flushSurrogate()
		p.surrogate = r
	case p.surrogate != 0:
		p.stringChunk(string(utf16.DecodeRune(p.surrogate, r)))
		p.surrogate = 0
	default:
		p.stringChunk(string(utf8.RuneError))
	}
}

// flushSurrogate outputs a high surrogate that was not followed by a low one.
func (p *Parser) flushSurrogate() {
	if p.surrogate != 0 {
		p.surrogate = 0
		p.stringChunk(string(utf8.RuneError))
	}
}

func (p *Parser) stringChunk(text string) {
	stream, pack := p.opts.StreamStrings, p.opts.PackStrings
	if p.expect == expectKeyVal {
		stream, pack = p.opts.StreamKeys, p.opts.PackKeys
	}
	if stream {
		p.emit(token.WithValue(token.StringChunk, text))
	}
	if pack {
		p.acc.WriteString(text)
	}
}

func (p *Parser) endString() {
	p.flushSurrogate()
	if p.expect == expectKeyVal {
		if p.opts.StreamKeys {
			p.emit(token.New(token.EndKey))
		}
		if p.opts.PackKeys {
			p.emit(token.WithValue(token.KeyValue, p.acc.String()))
		}
		p.expect = expectColon
	} else {
		if p.opts.StreamStrings {
			p.emit(token.New(token.EndString))
		}
		if p.opts.PackStrings {
			p.emit(token.WithValue(token.StringValue, p.acc.String()))
		}
		p.expect = p.expected()
	}
	p.acc.Reset()
}

func (p *Parser) startNumber() {
	p.openNumber = true
	if p.opts.StreamNumbers {
		p.emit(token.New(token.StartNumber))
	}
}

func (p *Parser) numberChunk(text string) {
	if p.opts.StreamNumbers {
		p.emit(token.WithValue(token.NumberChunk, text))
	}
	if p.opts.PackNumbers {
		p.acc.WriteString(text)
	}
}

func (p *Parser) closeNumber() {
	if !p.openNumber {
		return
	}
	p.openNumber = false
	if p.opts.StreamNumbers {
		p.emit(token.New(token.EndNumber))
	}
	if p.opts.PackNumbers {
		p.emit(token.WithValue(token.NumberValue, p.acc.String()))
	}
	p.acc.Reset()
}

func (p *Parser) push(par parent) {
	p.stack = append(p.stack, p.parent)
	p.parent = par
}

func (p *Parser) pop() {
	n := len(p.stack) - 1
	p.parent = p.stack[n]
	p.stack = p.stack[:n]
	p.expect = p.expected()
}

// expected is what follows a complete value, depending on its parent.
func (p *Parser) expected() expectation {
	switch p.parent {
	case parentObject:
		return expectObjectStop
	case parentArray:
		return expectArrayStop
	default:
		return expectDone
	}
}

func (p *Parser) emit(tok token.Token) {
	p.toks = append(p.toks, tok)
}

func (p *Parser) suspend() error {
	if debug.On && !p.finished {
		debug.Printf("parser suspended at offset %d in state %d with %d bytes pending", p.buf.Pos().Offset, p.expect, p.buf.Len())
	}
	return nil
}

func (p *Parser) fail(expected string) error {
	pos := p.buf.Pos()
	got := "<EOF>"
	if rest := p.buf.Rest(); rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		got = strconv.QuoteRune(r)
	}
	return &SyntaxError{
		Offset: pos.Offset,
		Line:   pos.Line + 1,
		Column: pos.Col + 1,
		Msg:    fmt.Sprintf("%s, got %s", expected, got),
	}
}

// literalRunLen is the length of the run of string characters at the start of
// s that need no unescaping.
func literalRunLen(s string) int {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == '"' || c == '\\' || scanner.IsCtrl(c) {
			return i
		}
	}
	return len(s)
}

// fullRunesLen is the length of s without an incomplete utf-8 sequence at
// its end.
func fullRunesLen(s string) int {
	for i := len(s) - 1; i >= 0 && i >= len(s)-utf8.UTFMax; i-- {
		if utf8.RuneStart(s[i]) {
			if utf8.FullRuneInString(s[i:]) {
				return len(s)
			}
			return i
		}
	}
	return len(s)
}
