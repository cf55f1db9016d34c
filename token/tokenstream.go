package token

type ReadStream interface {
	Next() (Token, bool)
}

type WriteStream interface {
	Put(Token)
}

type ChannelReadStream <-chan Token

var _ ReadStream = make(ChannelReadStream)

func (r ChannelReadStream) Next() (Token, bool) {
	tok, ok := <-r
	return tok, ok
}

type SliceReadStream struct {
	toks []Token
}

var _ ReadStream = &SliceReadStream{}

func NewSliceReadStream(toks []Token) *SliceReadStream {
	return &SliceReadStream{toks: toks}
}

func (r *SliceReadStream) Next() (tok Token, ok bool) {
	if len(r.toks) > 0 {
		tok, ok = r.toks[0], true
		r.toks = r.toks[1:]
	}
	return
}

type ChannelWriteStream chan<- Token

var _ WriteStream = make(ChannelWriteStream)

func (w ChannelWriteStream) Put(tok Token) {
	w <- tok
}

// WriteFunc adapts a function to the WriteStream interface.
type WriteFunc func(Token)

var _ WriteStream = WriteFunc(nil)

func (f WriteFunc) Put(tok Token) {
	f(tok)
}

type AccumulatorStream struct {
	toks []Token
}

var _ WriteStream = &AccumulatorStream{}

func NewAccumulatorStream() *AccumulatorStream {
	return &AccumulatorStream{}
}

func (w *AccumulatorStream) Put(tok Token) {
	w.toks = append(w.toks, tok)
}

func (w *AccumulatorStream) GetTokens() []Token {
	return w.toks
}

// Reset empties the accumulator, keeping its storage.
func (w *AccumulatorStream) Reset() {
	w.toks = w.toks[:0]
}

// PutAll writes toks to w in order.
func PutAll(w WriteStream, toks []Token) {
	for _, tok := range toks {
		w.Put(tok)
	}
}
