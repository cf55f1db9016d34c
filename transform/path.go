package transform

import (
	"strconv"
	"strings"

	"github.com/arnodel/jsonchunk/token"
)

// EntryKind tells what a PathEntry holds.
type EntryKind uint8

const (
	// PendingKey is the entry of an object whose first key has not been
	// read yet.
	PendingKey EntryKind = iota

	// Key is the entry of an object, holding the last key read and the
	// number of keys read before it in that object.
	Key

	// Index is the entry of an array, holding the index of the current
	// element.  It is -1 before the first element.
	Index
)

// A PathEntry locates a value inside its parent container.
//
// Seq tells apart the entries of an object that repeat a key: it counts the
// keys read before this one in the object.  It is not part of the text of a
// path, so matchers see repeated keys as the same path.
type PathEntry struct {
	Kind  EntryKind
	Key   string
	Index int
	Seq   int
}

// KeyEntry returns the entry for the value at key k in an object.
func KeyEntry(k string) PathEntry {
	return PathEntry{Kind: Key, Key: k}
}

// IndexEntry returns the entry for the value at index i in an array.
func IndexEntry(i int) PathEntry {
	return PathEntry{Kind: Index, Index: i}
}

// PendingEntry returns the entry of an object before its first key.
func PendingEntry() PathEntry {
	return PathEntry{Kind: PendingKey}
}

// IsArray is true if the entry belongs to an array.
func (e PathEntry) IsArray() bool {
	return e.Kind == Index
}

func (e PathEntry) String() string {
	switch e.Kind {
	case Key:
		return e.Key
	case Index:
		return strconv.Itoa(e.Index)
	default:
		return ""
	}
}

// A Path is the sequence of keys and indices leading from the top level to a
// value.  The path of a top-level value is empty.
type Path []PathEntry

// Join returns the entries of the path joined with sep, e.g. "a.0.b".
func (p Path) Join(sep string) string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(e.String())
	}
	return b.String()
}

func (p Path) String() string {
	return p.Join(DefaultSeparator)
}

// Clone returns a copy of p that does not share its storage.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// commonPrefixLen returns the length of the longest common prefix of p and q.
func commonPrefixLen(p, q Path) int {
	n := 0
	for n < len(p) && n < len(q) && p[n] == q[n] {
		n++
	}
	return n
}

// A pathTracker follows the path of the current token in a token stream.
//
// Tokens are observed in two steps: enter before the token is considered, so
// the path is that of the value the token belongs to, and leave after, which
// pushes or pops a level for tokens that open or close a container.
type pathTracker struct {
	path  Path
	inKey bool
	key   strings.Builder
}

// enter updates the path for tok before it is considered.
func (t *pathTracker) enter(tok token.Token) {
	switch tok.Kind {
	case token.StartObject, token.StartArray, token.StartString, token.StartNumber,
		token.StringValue, token.NumberValue, token.NullValue, token.TrueValue, token.FalseValue:
		if n := len(t.path); n > 0 && t.path[n-1].Kind == Index {
			t.path[n-1].Index++
		}
	case token.StartKey:
		t.inKey = true
		t.key.Reset()
	case token.StringChunk:
		if t.inKey {
			t.key.WriteString(tok.Text())
		}
	case token.EndKey:
		t.inKey = false
		t.setKey(t.key.String())
	case token.KeyValue:
		t.setKey(tok.Text())
	}
}

// leave updates the path after tok was considered.
func (t *pathTracker) leave(tok token.Token) {
	switch tok.Kind {
	case token.StartObject:
		t.path = append(t.path, PendingEntry())
	case token.StartArray:
		t.path = append(t.path, IndexEntry(-1))
	case token.EndObject, token.EndArray:
		t.path = t.path[:len(t.path)-1]
	}
}

func (t *pathTracker) setKey(k string) {
	n := len(t.path)
	if n == 0 {
		return
	}
	e := KeyEntry(k)
	if last := t.path[n-1]; last.Kind == Key {
		e.Seq = last.Seq + 1
	}
	t.path[n-1] = e
}
