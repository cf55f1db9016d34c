package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/op/go-logging"

	"github.com/arnodel/jsonchunk/encoding/json"
	"github.com/arnodel/jsonchunk/internal/format"
	"github.com/arnodel/jsonchunk/jsonl"
	"github.com/arnodel/jsonchunk/token"
	"github.com/arnodel/jsonchunk/transform"
)

// source returns the token source for the input format.
func (a *app) source() (token.StreamSource, error) {
	opts := a.settings.parserOptions()
	switch a.settings.Input {
	case "json":
		return json.NewDecoder(a.in, opts...), nil
	case "jsonl":
		return jsonl.NewDecoder(a.in, opts...), nil
	default:
		return nil, fmt.Errorf("invalid input format: %q (use json or jsonl)", a.settings.Input)
	}
}

// stream starts reading the input.  The returned function reports the error
// the source stopped with, if any; it must only be called once the stream is
// drained.  At DEBUG level every token read is logged.
func (a *app) stream() (<-chan token.Token, func() error, error) {
	src, err := a.source()
	if err != nil {
		return nil, nil, err
	}
	var srcErr error
	stream := token.StartStream(src, func(err error) {
		srcErr = err
	})
	if a.level == logging.DEBUG {
		stream = token.TransformStream(stream, transform.TraceStream{})
	}
	return stream, func() error { return srcErr }, nil
}

// run reads the input, passes it through the transformers and writes the
// result as JSON.
func (a *app) run(transformers ...token.StreamTransformer) error {
	encoder, out, err := a.encoder()
	if err != nil {
		return err
	}
	stream, srcErr, err := a.stream()
	if err != nil {
		return err
	}
	if n := a.settings.MaxDepth; n > 0 {
		transformers = append(transformers, &transform.MaxDepthFilter{MaxDepth: n})
	}
	for _, transformer := range transformers {
		stream = token.TransformStream(stream, transformer)
	}
	if err := token.ConsumeStream(stream, encoder); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return err
	}
	return srcErr()
}

func (a *app) encoder() (*json.Encoder, *bufio.Writer, error) {
	colorizer, err := a.colorizer()
	if err != nil {
		return nil, nil, err
	}
	w := a.out
	if colorizer != nil {
		if f, ok := w.(*os.File); ok {
			w = colorable.NewColorable(f)
		}
	}
	out := bufio.NewWriter(w)

	indentSize := a.settings.Indent
	if a.settings.Compact {
		indentSize = -1
	}
	printer := &format.DefaultPrinter{
		Writer:     out,
		IndentSize: indentSize,
	}

	// If we are writing to a terminal, flush after each value so user gets feedback early.
	if isTerminal(a.out) {
		printer.Flusher = out
	}

	return &json.Encoder{
		Printer:   printer,
		Colorizer: colorizer,
		MakeArray: a.settings.MakeArray,
	}, out, nil
}

func (a *app) colorizer() (*format.Colorizer, error) {
	switch a.settings.Color {
	case "always":
		return &defaultColorizer, nil
	case "never":
		return nil, nil
	case "auto":
		if isTerminal(a.out) {
			return &defaultColorizer, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid --color value: %q (use auto, always, or never)", a.settings.Color)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Green  = []byte("\033[32m")
	Yellow = []byte("\033[33m")
	White  = []byte("\033[37m")

	DimWhite = []byte("\033[37;2m")

	BrightBlue = []byte("\033[34;1m")
)

var defaultColorizer = format.Colorizer{
	ScalarColorCodes: [4][]byte{DimWhite, Yellow, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}
