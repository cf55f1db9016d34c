package jsonl

import (
	stdjson "encoding/json"
	"io"
)

// A Writer writes values one per line.
type Writer struct {
	enc *stdjson.Encoder
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	enc := stdjson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// Write writes v on a line of its own.
func (w *Writer) Write(v any) error {
	return w.enc.Encode(v)
}
