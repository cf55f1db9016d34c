package json

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arnodel/jsonchunk/token"
)

func tk(kind token.Kind) token.Token { return token.New(kind) }

func kv(s string) token.Token { return token.WithValue(token.KeyValue, s) }
func sv(s string) token.Token { return token.WithValue(token.StringValue, s) }
func nv(s string) token.Token { return token.WithValue(token.NumberValue, s) }
func sc(s string) token.Token { return token.WithValue(token.StringChunk, s) }
func nc(s string) token.Token { return token.WithValue(token.NumberChunk, s) }

var (
	so = tk(token.StartObject)
	eo = tk(token.EndObject)
	sa = tk(token.StartArray)
	ea = tk(token.EndArray)
	sk = tk(token.StartKey)
	ek = tk(token.EndKey)
	ss = tk(token.StartString)
	es = tk(token.EndString)
	sn = tk(token.StartNumber)
	en = tk(token.EndNumber)
)

// parseChunks pushes each chunk into a new parser, then finishes it.
func parseChunks(chunks []string, opts ...Option) ([]token.Token, error) {
	p := NewParser(opts...)
	var all []token.Token
	for _, chunk := range chunks {
		toks, err := p.Push(chunk)
		all = append(all, toks...)
		if err != nil {
			return all, err
		}
	}
	toks, err := p.Finish()
	return append(all, toks...), err
}

// splitAt cuts s at the given byte offsets, which must be increasing.
func splitAt(s string, cuts ...int) []string {
	var chunks []string
	last := 0
	for _, c := range cuts {
		chunks = append(chunks, s[last:c])
		last = c
	}
	return append(chunks, s[last:])
}

// merge joins consecutive fragments of the same kind, so that token streams
// produced from differently split inputs can be compared.
func merge(toks []token.Token) []token.Token {
	var merged []token.Token
	for _, tok := range toks {
		if n := len(merged); n > 0 && (tok.Kind == token.StringChunk || tok.Kind == token.NumberChunk) && merged[n-1].Kind == tok.Kind {
			merged[n-1].Value = merged[n-1].Text() + tok.Text()
			continue
		}
		merged = append(merged, tok)
	}
	return merged
}

// optionCombinations returns every combination of pack and stream options
// that leaves something to emit for each kind of value.
func optionCombinations() [][]Option {
	var combs [][]Option
	for i := 0; i < 1<<6; i++ {
		b := func(n int) bool { return i&(1<<n) != 0 }
		combs = append(combs, []Option{
			WithPackKeys(b(0)), WithPackStrings(b(1)), WithPackNumbers(b(2)),
			WithStreamKeys(b(3)), WithStreamStrings(b(4)), WithStreamNumbers(b(5)),
		})
	}
	return combs
}

func mustTokenize(t *testing.T, s string, opts ...Option) []token.Token {
	t.Helper()
	toks, err := Tokenize(s, opts...)
	require.NoError(t, err, "tokenizing %q", s)
	return toks
}
