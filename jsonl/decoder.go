package jsonl

import (
	"errors"
	"io"

	"github.com/tidwall/gjson"

	"github.com/arnodel/jsonchunk/encoding/json"
	"github.com/arnodel/jsonchunk/token"
)

const blockSize = 8192

// A Decoder reads JSON Lines and streams the values as tokens, as a
// json.Decoder configured with the same options and JSON streaming would:
// object keys keep their order and numbers their text.
type Decoder struct {
	in     io.Reader
	opts   json.Options
	parser Parser
}

var _ token.StreamSource = &Decoder{}

// NewDecoder returns a Decoder reading from in.  The options control which
// tokens encode the values.
func NewDecoder(in io.Reader, opts ...json.Option) *Decoder {
	return &Decoder{in: in, opts: json.ApplyOptions(opts...)}
}

// Produce reads the whole input and sends the tokens of each value to out.
func (d *Decoder) Produce(out chan<- token.Token) error {
	buf := make([]byte, blockSize)
	for {
		n, err := d.in.Read(buf)
		if n > 0 {
			lines, perr := d.parser.push(string(buf[:n]))
			d.send(out, lines)
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
	lines, err := d.parser.finish()
	d.send(out, lines)
	return err
}

func (d *Decoder) send(out chan<- token.Token, lines []gjson.Result) {
	for _, line := range lines {
		e := lineEncoder{opts: d.opts}
		e.value(line)
		for _, tok := range e.toks {
			out <- tok
		}
	}
}

// A lineEncoder turns a parsed line into tokens.
type lineEncoder struct {
	opts json.Options
	toks []token.Token
}

func (e *lineEncoder) value(r gjson.Result) {
	switch r.Type {
	case gjson.Null:
		e.put(token.NullToken)
	case gjson.False:
		e.put(token.FalseToken)
	case gjson.True:
		e.put(token.TrueToken)
	case gjson.Number:
		e.text(token.StartNumber, r.Raw, e.opts.StreamNumbers, e.opts.PackNumbers)
	case gjson.String:
		e.text(token.StartString, r.Str, e.opts.StreamStrings, e.opts.PackStrings)
	case gjson.JSON:
		if r.IsArray() {
			e.put(token.New(token.StartArray))
			r.ForEach(func(_, v gjson.Result) bool {
				e.value(v)
				return true
			})
			e.put(token.New(token.EndArray))
			return
		}
		e.put(token.New(token.StartObject))
		r.ForEach(func(k, v gjson.Result) bool {
			e.text(token.StartKey, k.Str, e.opts.StreamKeys, e.opts.PackKeys)
			e.value(v)
			return true
		})
		e.put(token.New(token.EndObject))
	}
}

func (e *lineEncoder) text(start token.Kind, text string, stream, pack bool) {
	end := start.Closer()
	if stream {
		chunk := token.StringChunk
		if start == token.StartNumber {
			chunk = token.NumberChunk
		}
		e.put(token.New(start))
		if text != "" {
			e.put(token.WithValue(chunk, text))
		}
		e.put(token.New(end))
	}
	if pack {
		e.put(token.WithValue(end.Packed(), text))
	}
}

func (e *lineEncoder) put(tok token.Token) {
	e.toks = append(e.toks, tok)
}
