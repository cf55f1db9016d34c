package transform

import "github.com/arnodel/jsonchunk/token"

// A Writer sends the tokens of a Filter to its output and keeps track of the
// containers that are open in the output.  Transitions use it to emit tokens.
type Writer struct {
	out token.WriteStream

	// Open containers in the output.  Each entry holds the last key or index
	// written in its container, as in a Path.
	stack Path

	streamKeys bool
	packKeys   bool
}

// Put writes tok verbatim.
func (w *Writer) Put(tok token.Token) {
	w.out.Put(tok)
}

// Depth is the number of containers open in the output.
func (w *Writer) Depth() int {
	return len(w.stack)
}

// Sync emits the smallest sequence of tokens that moves the output from its
// current position to path, so that the next token written is the value at
// path.  Containers of the current position that are not on path are closed,
// containers of path that are not open are opened and the keys leading to
// path are written.
//
// Each call places a new value.  Syncing again to a position that already
// holds a value, as a repeated key in an object does, writes its key again.
//
// Sync(nil) closes every open container.
func (w *Writer) Sync(path Path) {
	last := w.stack
	n := commonPrefixLen(last, path)

	// Close containers below the common part
	for i := len(last) - 1; i > n; i-- {
		w.close(last[i])
	}

	if n < len(last) && n < len(path) {
		// Same container, move to the new position
		w.moveTo(path[n])
		n++
	} else {
		if n < len(last) {
			w.close(last[n])
		}
		if n > 0 {
			// The position at n-1 is used already
			w.moveTo(path[n-1])
		}
	}

	// Open new containers
	for _, e := range path[n:] {
		switch e.Kind {
		case Index:
			if e.Index >= 0 {
				w.Put(token.New(token.StartArray))
			}
		case Key:
			w.Put(token.New(token.StartObject))
			w.key(e.Key)
		}
	}

	w.stack = append(w.stack[:0], path...)
}

// moveTo writes what precedes the value at e in its container.
func (w *Writer) moveTo(e PathEntry) {
	if e.Kind == Key {
		w.key(e.Key)
	}
}

// open records that a container was opened at the current position.
func (w *Writer) open(tok token.Token) {
	if tok.Kind == token.StartArray {
		w.stack = append(w.stack, IndexEntry(-1))
	} else {
		w.stack = append(w.stack, PendingEntry())
	}
}

// closeTo closes the containers of the output deeper than depth, so that the
// closing token of the container at depth can be written.
func (w *Writer) closeTo(depth int) {
	for i := len(w.stack) - 1; i >= depth; i-- {
		w.close(w.stack[i])
	}
	if len(w.stack) > depth {
		w.stack = w.stack[:depth]
	}
}

// pop records that the innermost open container was closed.
func (w *Writer) pop() {
	if n := len(w.stack); n > 0 {
		w.stack = w.stack[:n-1]
	}
}

func (w *Writer) close(e PathEntry) {
	if e.IsArray() {
		w.Put(token.New(token.EndArray))
	} else {
		w.Put(token.New(token.EndObject))
	}
}

func (w *Writer) key(k string) {
	if w.streamKeys {
		w.Put(token.New(token.StartKey))
		w.Put(token.WithValue(token.StringChunk, k))
		w.Put(token.New(token.EndKey))
	}
	if w.packKeys {
		w.Put(token.WithValue(token.KeyValue, k))
	}
}
