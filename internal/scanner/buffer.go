package scanner

// Pos locates a point in the input.  Line and Col are 0-based, Col counts
// code points.  Offset is the number of bytes before that point.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

// A Buffer accumulates text fed to it in chunks and has a scan cursor
// pointing at the first byte not yet consumed.  Consumed text is only
// dropped when Compact is called, so the cursor can be moved forward in
// several steps while the consumed prefix is still in memory.
//
// The Buffer only does bookkeeping: it never looks at the contents except to
// keep track of line and column numbers.
type Buffer struct {
	buf string

	// Position of the cursor in buf
	// 0 <= index <= len(buf)
	index int

	// Position of the cursor in the whole input
	pos Pos
}

// Feed appends text to the buffer.
func (b *Buffer) Feed(text string) {
	if text == "" {
		return
	}
	if b.buf == "" {
		b.buf = text
	} else {
		b.buf += text
	}
}

// Rest returns the text that has not been consumed yet.
func (b *Buffer) Rest() string {
	return b.buf[b.index:]
}

// Len is the number of bytes that have not been consumed yet.
func (b *Buffer) Len() int {
	return len(b.buf) - b.index
}

// Advance moves the cursor n bytes forward.  It panics if fewer than n bytes
// are available.
func (b *Buffer) Advance(n int) {
	if n > b.Len() {
		panic("scanner: advance past end of buffer")
	}
	for i := b.index; i < b.index+n; i++ {
		c := b.buf[i]
		switch {
		case c == '\n':
			b.pos.Line++
			b.pos.Col = 0
		case c < 0x80 || c >= 0xC0:
			// First byte of an utf8-encoded codepoint
			b.pos.Col++
		}
	}
	b.index += n
	b.pos.Offset += n
}

// Compact drops the consumed prefix of the buffer.
func (b *Buffer) Compact() {
	if b.index == 0 {
		return
	}
	if b.index == len(b.buf) {
		b.buf = ""
	} else {
		b.buf = b.buf[b.index:]
	}
	b.index = 0
}

// Pos returns the position of the cursor.
func (b *Buffer) Pos() Pos {
	return b.pos
}
