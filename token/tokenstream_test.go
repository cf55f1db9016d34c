package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertNext(t *testing.T, r ReadStream, expected Token, expectedOk bool) {
	t.Helper()
	next, ok := r.Next()
	require.Equal(t, expectedOk, ok)
	require.Equal(t, expected, next)
}

func TestSliceReadStream(t *testing.T) {
	toks := []Token{New(StartArray), TrueToken, New(EndArray)}
	r := NewSliceReadStream(toks)
	for _, tok := range toks {
		assertNext(t, r, tok, true)
	}
	assertNext(t, r, Token{}, false)
	assertNext(t, r, Token{}, false)
}

func TestAccumulatorStream(t *testing.T) {
	acc := NewAccumulatorStream()
	PutAll(acc, []Token{NullToken, FalseToken})
	assert.Equal(t, []Token{NullToken, FalseToken}, acc.GetTokens())
	acc.Reset()
	assert.Empty(t, acc.GetTokens())
}

func TestBatch(t *testing.T) {
	in := make(chan Token)
	go func() {
		defer close(in)
		for i := 0; i < 5; i++ {
			in <- NullToken
		}
	}()
	var sizes []int
	for batch := range Batch(in, 2) {
		sizes = append(sizes, len(batch))
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

type upperTransformer struct{}

func (upperTransformer) Transform(in <-chan Token, out WriteStream) {
	for tok := range in {
		if tok.Kind == TrueValue {
			tok = FalseToken
		}
		out.Put(tok)
	}
}

func TestTransformStream(t *testing.T) {
	in := make(chan Token)
	go func() {
		defer close(in)
		in <- New(StartArray)
		in <- TrueToken
		in <- New(EndArray)
	}()
	got := Collect(TransformStream(in, upperTransformer{}))
	assert.Equal(t, []Token{New(StartArray), FalseToken, New(EndArray)}, got)
}

func TestChannelStreams(t *testing.T) {
	ch := make(chan Token, 2)
	w := ChannelWriteStream(ch)
	w.Put(TrueToken)
	w.Put(NullToken)
	close(ch)

	r := ChannelReadStream(ch)
	assertNext(t, r, TrueToken, true)
	assertNext(t, r, NullToken, true)
	assertNext(t, r, Token{}, false)
}

func TestWriteFunc(t *testing.T) {
	var kinds []Kind
	w := WriteFunc(func(tok Token) {
		kinds = append(kinds, tok.Kind)
	})
	PutAll(w, []Token{New(StartObject), WithValue(KeyValue, "a"), NullToken, New(EndObject)})
	assert.Equal(t, []Kind{StartObject, KeyValue, NullValue, EndObject}, kinds)
}
