package assembler

import (
	"fmt"
	"strings"

	"github.com/arnodel/jsonchunk/token"
)

// An Item is a value produced by a Streamer, with its key: the index of an
// array element, the name of an object entry or the position of a top-level
// value in the stream.
type Item struct {
	Key   any
	Value any
}

type streamerKind uint8

const (
	arrayStreamer streamerKind = iota
	objectStreamer
	valueStreamer
)

// A Streamer assembles the values of a token stream at a given level as they
// are completed, so that a large document can be processed one piece at a
// time.
type Streamer struct {
	kind streamerKind
	asm  Assembler

	inside  bool // in the top-level container
	count   int
	key     strings.Builder
	inKey   bool
	trailer token.Kind
}

// NewArrayStreamer returns a Streamer producing the elements of top-level
// arrays, keyed by their index.  A top-level value that is not an array is
// an error.
func NewArrayStreamer(useNumber bool) *Streamer {
	return newStreamer(arrayStreamer, useNumber)
}

// NewObjectStreamer returns a Streamer producing the entries of top-level
// objects, keyed by their name.  A top-level value that is not an object is
// an error.
func NewObjectStreamer(useNumber bool) *Streamer {
	return newStreamer(objectStreamer, useNumber)
}

// NewValueStreamer returns a Streamer producing each top-level value, keyed
// by its position in the stream.
func NewValueStreamer(useNumber bool) *Streamer {
	return newStreamer(valueStreamer, useNumber)
}

func newStreamer(kind streamerKind, useNumber bool) *Streamer {
	s := &Streamer{kind: kind}
	s.asm.UseNumber = useNumber
	return s
}

// Put processes a token.  It returns an item and true when the token
// completes one.
func (s *Streamer) Put(tok token.Token) (Item, bool, error) {
	if s.kind == valueStreamer {
		return s.putValue(tok)
	}
	if s.trailer != token.Invalid {
		trailer := s.trailer
		s.trailer = token.Invalid
		if tok.Kind == trailer {
			return Item{}, false, nil
		}
	}
	if !s.inside {
		return Item{}, false, s.enter(tok)
	}
	if s.asm.busy() || s.asm.trailer == tok.Kind {
		return s.putValue(tok)
	}
	switch tok.Kind {
	case token.EndArray, token.EndObject:
		s.inside = false
		return Item{}, false, nil
	case token.StartKey:
		s.inKey = true
		s.key.Reset()
		return Item{}, false, nil
	case token.StringChunk:
		if s.inKey {
			s.key.WriteString(tok.Text())
			return Item{}, false, nil
		}
	case token.EndKey:
		s.inKey = false
		s.trailer = token.KeyValue
		return Item{}, false, nil
	case token.KeyValue:
		s.key.Reset()
		s.key.WriteString(tok.Text())
		return Item{}, false, nil
	}
	return s.putValue(tok)
}

func (s *Streamer) enter(tok token.Token) error {
	want := token.StartArray
	if s.kind == objectStreamer {
		want = token.StartObject
	}
	if tok.Kind != want {
		return fmt.Errorf("assembler: top-level value should start with %s, got %s", want, tok)
	}
	s.inside = true
	s.count = 0
	return nil
}

func (s *Streamer) putValue(tok token.Token) (Item, bool, error) {
	completed, err := s.asm.put(tok)
	if err != nil || !completed {
		return Item{}, false, err
	}
	var key any = s.count
	if s.kind == objectStreamer {
		key = s.key.String()
	}
	s.count++
	return Item{Key: key, Value: s.asm.Value()}, true, nil
}
