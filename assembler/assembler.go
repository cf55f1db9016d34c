// Package assembler folds token streams back into in-memory values and
// turns in-memory values into token streams.
package assembler

import (
	stdjson "encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arnodel/jsonchunk/token"
)

// An Assembler builds values out of a token stream.  Objects become
// map[string]any, arrays []any, strings string, numbers float64 (or
// json.Number if UseNumber is set), booleans bool and null nil.
//
// The stream may contain fragments, packed tokens or both.  When a value is
// complete, Done returns true and Value returns it.  Putting more tokens
// starts the next value.
type Assembler struct {
	UseNumber bool

	frames  []frame
	text    strings.Builder
	inText  token.Kind // StartKey, StartString or StartNumber when in a streamed scalar
	trailer token.Kind

	value any
	done  bool
}

type frame struct {
	obj map[string]any
	arr []any
	key string
}

// Put adds a token to the value being built.  It returns an error if the
// token cannot occur at this point.
func (a *Assembler) Put(tok token.Token) error {
	_, err := a.put(tok)
	return err
}

// Done is true when a whole value has been read.
func (a *Assembler) Done() bool {
	return a.done
}

// Value returns the last complete value.
func (a *Assembler) Value() any {
	return a.value
}

// Depth is the number of containers currently open.
func (a *Assembler) Depth() int {
	return len(a.frames)
}

// busy is true if the assembler is inside a value.
func (a *Assembler) busy() bool {
	return len(a.frames) > 0 || a.inText != token.Invalid
}

// put adds a token and reports whether it completed a value.
func (a *Assembler) put(tok token.Token) (bool, error) {
	if a.trailer != token.Invalid {
		trailer := a.trailer
		a.trailer = token.Invalid
		if tok.Kind == trailer {
			return false, nil
		}
	}
	if a.inText != token.Invalid {
		return a.putText(tok)
	}
	switch tok.Kind {
	case token.StartObject:
		a.start()
		a.frames = append(a.frames, frame{obj: map[string]any{}})
	case token.StartArray:
		a.start()
		a.frames = append(a.frames, frame{arr: []any{}})
	case token.EndObject, token.EndArray:
		n := len(a.frames) - 1
		if n < 0 || (tok.Kind == token.EndObject) != (a.frames[n].obj != nil) {
			return false, a.unexpected(tok)
		}
		f := a.frames[n]
		a.frames = a.frames[:n]
		if f.obj != nil {
			return a.add(f.obj), nil
		}
		return a.add(f.arr), nil
	case token.StartKey:
		if !a.inObject() {
			return false, a.unexpected(tok)
		}
		a.inText = token.StartKey
		a.text.Reset()
	case token.KeyValue:
		if !a.inObject() {
			return false, a.unexpected(tok)
		}
		a.frames[len(a.frames)-1].key = tok.Text()
	case token.StartString, token.StartNumber:
		a.start()
		a.inText = tok.Kind
		a.text.Reset()
	case token.StringValue:
		a.start()
		return a.add(tok.Text()), nil
	case token.NumberValue:
		a.start()
		v, err := a.number(tok.Text())
		if err != nil {
			return false, err
		}
		return a.add(v), nil
	case token.NullValue:
		a.start()
		return a.add(nil), nil
	case token.TrueValue:
		a.start()
		return a.add(true), nil
	case token.FalseValue:
		a.start()
		return a.add(false), nil
	default:
		return false, a.unexpected(tok)
	}
	return false, nil
}

func (a *Assembler) putText(tok token.Token) (bool, error) {
	switch tok.Kind {
	case token.StringChunk, token.NumberChunk:
		a.text.WriteString(tok.Text())
		return false, nil
	case a.inText.Closer():
	default:
		return false, a.unexpected(tok)
	}
	kind := a.inText
	a.inText = token.Invalid
	a.trailer = tok.Kind.Packed()
	switch kind {
	case token.StartKey:
		a.frames[len(a.frames)-1].key = a.text.String()
		return false, nil
	case token.StartString:
		return a.add(a.text.String()), nil
	default:
		v, err := a.number(a.text.String())
		if err != nil {
			return false, err
		}
		return a.add(v), nil
	}
}

// start is called when a value starts.
func (a *Assembler) start() {
	if len(a.frames) == 0 {
		a.done = false
	}
}

func (a *Assembler) add(v any) bool {
	n := len(a.frames) - 1
	if n < 0 {
		a.value = v
		a.done = true
		return true
	}
	f := &a.frames[n]
	if f.obj != nil {
		f.obj[f.key] = v
	} else {
		f.arr = append(f.arr, v)
	}
	return false
}

func (a *Assembler) inObject() bool {
	n := len(a.frames)
	return n > 0 && a.frames[n-1].obj != nil
}

func (a *Assembler) number(text string) (any, error) {
	if a.UseNumber {
		return stdjson.Number(text), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("assembler: invalid number %q: %w", text, err)
	}
	return f, nil
}

func (a *Assembler) unexpected(tok token.Token) error {
	return fmt.Errorf("assembler: unexpected token %s", tok)
}
