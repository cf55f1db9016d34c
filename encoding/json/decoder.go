package json

import (
	"errors"
	"io"

	"github.com/arnodel/jsonchunk/token"
)

// Size of the blocks a Decoder reads from its input.
const blockSize = 8192

// A Decoder reads JSON input from an io.Reader and streams it into a token
// stream.  The input is read in blocks which are pushed into a Parser as
// they arrive, so memory use does not depend on the size of the input.
type Decoder struct {
	in     io.Reader
	parser *Parser
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a Decoder reading from in, with a Parser configured
// with opts.
func NewDecoder(in io.Reader, opts ...Option) *Decoder {
	return &Decoder{
		in:     in,
		parser: NewParser(opts...),
	}
}

// Produce reads the whole input and sends its tokens to out.  It returns an
// error if reading fails or the input is not valid JSON, after sending the
// tokens that were produced before the error.
func (d *Decoder) Produce(out chan<- token.Token) error {
	buf := make([]byte, blockSize)
	for {
		n, err := d.in.Read(buf)
		if n > 0 {
			toks, perr := d.parser.PushBytes(buf[:n])
			send(out, toks)
			if perr != nil {
				return perr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	toks, err := d.parser.Finish()
	send(out, toks)
	return err
}

func send(out chan<- token.Token, toks []token.Token) {
	for _, tok := range toks {
		out <- tok
	}
}

// Tokenize parses the whole of s and returns its tokens.
func Tokenize(s string, opts ...Option) ([]token.Token, error) {
	p := NewParser(opts...)
	toks, err := p.Push(s)
	if err != nil {
		return toks, err
	}
	more, err := p.Finish()
	return append(toks, more...), err
}
