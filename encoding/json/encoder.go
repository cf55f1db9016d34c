package json

import (
	"bytes"
	stdjson "encoding/json"
	"fmt"

	"github.com/arnodel/jsonchunk/internal/format"
	"github.com/arnodel/jsonchunk/token"
)

// An Encoder writes a token stream as JSON text using the given Printer for
// layout.  It accepts any stream a Parser can produce: fragments are written
// as they arrive, and a packed token following the fragments of the same
// value is skipped.
//
// Top-level values are written one per line, unless MakeArray is set in which
// case they are written as the items of one array.
//
// The stream is assumed to be well nested; the Encoder may panic otherwise.
type Encoder struct {
	format.Printer
	*format.Colorizer

	// MakeArray wraps the top-level values into an array.
	MakeArray bool

	stack   []frame
	trailer token.Kind
	inText  bool // writing the fragments of a key or string
	docs    int
	opened  bool // MakeArray has written '['
}

type frame struct {
	kind  token.Kind // StartObject or StartArray
	count int
}

var _ token.StreamSink = &Encoder{}
var _ token.WriteStream = &Encoder{}

// Consume writes the JSON stream encoded in the given channel.  An error is
// returned if the Printer could not write, typically because the output is a
// closed pipe.
func (e *Encoder) Consume(stream <-chan token.Token) (err error) {
	defer format.CatchPrinterError(&err)
	for tok := range stream {
		e.Put(tok)
	}
	e.close()
	return nil
}

// Encode writes toks followed by the end of the output.
func (e *Encoder) Encode(toks []token.Token) (err error) {
	defer format.CatchPrinterError(&err)
	for _, tok := range toks {
		e.Put(tok)
	}
	e.close()
	return nil
}

// Close ends the output.  It is only needed when tokens are written with Put.
func (e *Encoder) Close() (err error) {
	defer format.CatchPrinterError(&err)
	e.close()
	return nil
}

// Put writes one token.  It panics with a *format.PrinterError if writing
// fails, see format.CatchPrinterError.
func (e *Encoder) Put(tok token.Token) {
	if e.trailer != token.Invalid {
		trailer := e.trailer
		e.trailer = token.Invalid
		if tok.Kind == trailer {
			return
		}
	}
	switch tok.Kind {
	case token.StartObject, token.StartArray:
		e.beginValue()
		e.PrintBytes(openBytes(tok.Kind))
		e.stack = append(e.stack, frame{kind: tok.Kind})
	case token.EndObject, token.EndArray:
		n := len(e.stack) - 1
		if e.stack[n].count > 0 {
			e.Dedent()
		}
		e.stack = e.stack[:n]
		e.PrintBytes(closeBytes(tok.Kind))
		e.endValue()
	case token.StartKey:
		e.beginKey()
		e.Colorizer.StartKey(e.Printer)
		e.PrintBytes(quoteBytes)
		e.inText = true
	case token.EndKey:
		e.PrintBytes(quoteBytes)
		e.Colorizer.End(e.Printer)
		e.PrintBytes(keyValueSeparatorBytes)
		e.inText = false
		e.trailer = token.KeyValue
	case token.KeyValue:
		e.beginKey()
		e.Colorizer.PrintKey(e.Printer, quote(tok.Text()))
		e.PrintBytes(keyValueSeparatorBytes)
	case token.StartString:
		e.beginValue()
		e.Colorizer.StartScalar(e.Printer, format.String)
		e.PrintBytes(quoteBytes)
		e.inText = true
	case token.EndString:
		e.PrintBytes(quoteBytes)
		e.Colorizer.End(e.Printer)
		e.inText = false
		e.trailer = token.StringValue
		e.endValue()
	case token.StartNumber:
		e.beginValue()
		e.Colorizer.StartScalar(e.Printer, format.Number)
	case token.EndNumber:
		e.Colorizer.End(e.Printer)
		e.trailer = token.NumberValue
		e.endValue()
	case token.StringChunk:
		if e.inText {
			b := quote(tok.Text())
			e.PrintBytes(b[1 : len(b)-1])
		} else {
			e.PrintBytes([]byte(tok.Text()))
		}
	case token.NumberChunk:
		e.PrintBytes([]byte(tok.Text()))
	case token.StringValue:
		e.scalar(format.String, quote(tok.Text()))
	case token.NumberValue:
		e.scalar(format.Number, []byte(tok.Text()))
	case token.NullValue:
		e.scalar(format.Null, nullBytes)
	case token.TrueValue:
		e.scalar(format.Boolean, trueBytes)
	case token.FalseValue:
		e.scalar(format.Boolean, falseBytes)
	default:
		panic(fmt.Sprintf("json: cannot encode token %s", tok))
	}
}

func (e *Encoder) scalar(t format.ScalarType, b []byte) {
	e.beginValue()
	e.Colorizer.PrintScalar(e.Printer, t, b)
	e.endValue()
}

// beginValue writes what comes before a value: an item separator in an
// array, nothing after a key, a document separator at the top level.
func (e *Encoder) beginValue() {
	if len(e.stack) == 0 {
		if !e.MakeArray {
			return
		}
		if !e.opened {
			e.PrintBytes(openArrayBytes)
			e.opened = true
		}
		e.item(&e.docs)
		return
	}
	if f := &e.stack[len(e.stack)-1]; f.kind == token.StartArray {
		e.item(&f.count)
	}
}

func (e *Encoder) beginKey() {
	e.item(&e.stack[len(e.stack)-1].count)
}

func (e *Encoder) item(count *int) {
	if *count > 0 {
		e.PrintBytes(itemSeparatorBytes)
		e.NewLine()
	} else {
		e.Indent()
	}
	*count++
}

// endValue finishes a top-level value.
func (e *Encoder) endValue() {
	if len(e.stack) > 0 || e.MakeArray {
		return
	}
	e.docs++
	e.PrintBytes(newLineBytes)
	e.flush()
}

func (e *Encoder) close() {
	if !e.MakeArray {
		e.flush()
		return
	}
	if !e.opened {
		e.PrintBytes(openArrayBytes)
		e.opened = true
	} else if e.docs > 0 {
		e.Dedent()
	}
	e.PrintBytes(closeArrayBytes)
	e.PrintBytes(newLineBytes)
	e.flush()
}

func (e *Encoder) flush() {
	if f, ok := e.Printer.(interface{ Flush() }); ok {
		f.Flush()
	}
	if r, ok := e.Printer.(interface{ Reset() }); ok && len(e.stack) == 0 && !e.MakeArray {
		r.Reset()
	}
}

// quote returns the JSON string literal for s.
func quote(s string) []byte {
	var buf bytes.Buffer
	enc := stdjson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		panic(err)
	}
	return bytes.TrimSuffix(buf.Bytes(), newLineBytes)
}

func openBytes(k token.Kind) []byte {
	if k == token.StartObject {
		return openObjectBytes
	}
	return openArrayBytes
}

func closeBytes(k token.Kind) []byte {
	if k == token.EndObject {
		return closeObjectBytes
	}
	return closeArrayBytes
}

var (
	openObjectBytes        = []byte("{")
	closeObjectBytes       = []byte("}")
	openArrayBytes         = []byte("[")
	closeArrayBytes        = []byte("]")
	quoteBytes             = []byte(`"`)
	itemSeparatorBytes     = []byte(",")
	keyValueSeparatorBytes = []byte(": ")
	newLineBytes           = []byte("\n")
	nullBytes              = []byte("null")
	trueBytes              = []byte("true")
	falseBytes             = []byte("false")
)
