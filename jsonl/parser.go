// Package jsonl reads and writes JSON Lines: one JSON value per line.
//
// Lines are small compared to the whole input, so each one is decoded as a
// unit rather than incrementally.
package jsonl

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/arnodel/jsonchunk/assembler"
)

// A Parser splits text arriving in chunks into lines and decodes each
// non-blank line as a JSON value.  Items are keyed by their position among
// the values of the input.
type Parser struct {
	buf    strings.Builder
	line   int // lines completed so far
	count  int
	err    error
	closed bool
}

// Push feeds a chunk of text and returns the values of the lines it
// completes.
func (p *Parser) Push(chunk string) ([]assembler.Item, error) {
	lines, err := p.push(chunk)
	return p.items(lines), err
}

// Finish signals the end of input and returns the value of the last line if
// it was not terminated by a new line.
func (p *Parser) Finish() ([]assembler.Item, error) {
	lines, err := p.finish()
	return p.items(lines), err
}

func (p *Parser) items(lines []gjson.Result) []assembler.Item {
	var items []assembler.Item
	for _, line := range lines {
		items = append(items, assembler.Item{Key: p.count, Value: line.Value()})
		p.count++
	}
	return items
}

// push is Push returning the parsed lines, which keep the text of numbers
// and the order of object keys.
func (p *Parser) push(chunk string) ([]gjson.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.closed {
		return nil, fmt.Errorf("jsonl: input pushed after end of input")
	}
	var lines []gjson.Result
	for {
		i := strings.IndexByte(chunk, '\n')
		if i < 0 {
			p.buf.WriteString(chunk)
			return lines, nil
		}
		p.buf.WriteString(chunk[:i])
		chunk = chunk[i+1:]
		line, ok, err := p.endLine()
		if err != nil {
			return lines, err
		}
		if ok {
			lines = append(lines, line)
		}
	}
}

func (p *Parser) finish() ([]gjson.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.closed = true
	line, ok, err := p.endLine()
	if err != nil || !ok {
		return nil, err
	}
	return []gjson.Result{line}, nil
}

func (p *Parser) endLine() (gjson.Result, bool, error) {
	p.line++
	text := strings.TrimSpace(p.buf.String())
	p.buf.Reset()
	if text == "" {
		return gjson.Result{}, false, nil
	}
	if !gjson.Valid(text) {
		p.err = fmt.Errorf("jsonl: invalid JSON on line %d", p.line)
		return gjson.Result{}, false, p.err
	}
	return gjson.Parse(text), true, nil
}
