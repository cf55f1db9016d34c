package format

import (
	"fmt"
	"io"
)

// The Printer interface is used to output JSON text with some layout.
//
// Indent() starts a new line at an increased indentation level
// Dedent() starts a new line at a decreased indentation level
// NewLine() starts a new line at the current indentation level
// PrintBytes() outputs bytes at the current position
//
// Writing errors are exceptional and the only sensible outcome is to stop
// writing, so the methods do not return an error.  Implementations panic with
// a *PrinterError instead, which can be turned back into an error with
//
//	func printingFunction(p Printer) (err error) {
//	    defer CatchPrinterError(&err)
//	    return doSomePrinting(p)
//	}
type Printer interface {
	Indent()
	Dedent()
	NewLine()
	PrintBytes([]byte)
}

// CatchPrinterError captures panics caused by a Printer failing to write.
// Other panics are propagated.
func CatchPrinterError(err *error) {
	if r := recover(); r != nil {
		perr, ok := r.(*PrinterError)
		if !ok {
			panic(r)
		}
		*err = perr
	}
}

// A PrinterError wraps an error that occurred while a Printer was writing.
type PrinterError struct {
	Err error
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer error: %s", e.Err)
}

func (e *PrinterError) Unwrap() error {
	return e.Err
}

// A Flusher can push buffered output to its destination.
type Flusher interface {
	Flush() error
}

// DefaultPrinter implements Printer over an io.Writer, using IndentSize
// spaces per indentation level.
//
// If IndentSize is negative, NewLine does nothing so the output is all on one
// line.  If IndentSize is 0 there are new lines but no indentation.
//
// If Flusher is set, Flush passes through to it.  Callers flush after each
// top-level value so a terminal sees it as soon as it is complete.
type DefaultPrinter struct {
	io.Writer
	IndentSize int
	Flusher    Flusher

	indentLevel int
}

var _ Printer = &DefaultPrinter{}

// NewLine outputs '\n' followed by spaces for the current indentation level.
func (p *DefaultPrinter) NewLine() {
	if p.IndentSize < 0 {
		return
	}
	p.write([]byte{'\n'})
	if n := p.IndentSize * p.indentLevel; n > 0 {
		p.write(spaces(n))
	}
}

// Indent increments the indentation level and calls NewLine.
func (p *DefaultPrinter) Indent() {
	p.indentLevel++
	p.NewLine()
}

// Dedent decrements the indentation level and calls NewLine.
func (p *DefaultPrinter) Dedent() {
	p.indentLevel--
	p.NewLine()
}

// PrintBytes writes b verbatim.
func (p *DefaultPrinter) PrintBytes(b []byte) {
	p.write(b)
}

// Flush flushes the Flusher if there is one.
func (p *DefaultPrinter) Flush() {
	if p.Flusher == nil {
		return
	}
	if err := p.Flusher.Flush(); err != nil {
		panic(&PrinterError{Err: err})
	}
}

// Reset sets the indentation level back to 0.
func (p *DefaultPrinter) Reset() {
	p.indentLevel = 0
}

func (p *DefaultPrinter) write(b []byte) {
	if _, err := p.Write(b); err != nil {
		panic(&PrinterError{Err: err})
	}
}

var spaceBytes = []byte("                                ")

func spaces(n int) []byte {
	if n <= len(spaceBytes) {
		return spaceBytes[:n]
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return b
}
