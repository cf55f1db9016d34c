package transform

import (
	"github.com/op/go-logging"

	"github.com/arnodel/jsonchunk/token"
)

var log = logging.MustGetLogger("transform")

// MaxDepthFilter is a Transformer that truncates the stream to a given depth.
// Containers which are more deeply nested than MaxDepth are emptied.
//
// E.g.
//
//	[1, 2, {"x": [3, 4], "y": 2}]
//
// At MaxDepth=0:
//
//	[]
//
// At MaxDepth=1
//
//	[1, 2, {}]
//
// At MaxDepth=2
//
//	[1, 2, {"x": [], "y": 2}]
type MaxDepthFilter struct {
	MaxDepth int
}

// Transform implements the MaxDepthFilter transform.
func (f *MaxDepthFilter) Transform(in <-chan token.Token, out token.WriteStream) {
	NewIgnore(MaxDepth(f.MaxDepth)).Transform(in, out)
}

// JoinStream turns a stream of values into a JSON array
//
// E.g.
//
//	1 2 3          -> [1, 2, 3]
//	[1, 2, 3]      -> [[1, 2, 3]]
//	<empty stream> -> []
type JoinStream struct{}

// Transform implements the JoinStream transform
func (f JoinStream) Transform(in <-chan token.Token, out token.WriteStream) {
	out.Put(token.New(token.StartArray))
	for tok := range in {
		out.Put(tok)
	}
	out.Put(token.New(token.EndArray))
}

// TraceStream logs all the tokens at debug level and sends them on
// unchanged.  It's useful for debugging streams.
type TraceStream struct{}

// Transform implements the TraceStream transform
func (t TraceStream) Transform(in <-chan token.Token, out token.WriteStream) {
	n := 0
	for tok := range in {
		log.Debugf("token %d: %s", n, tok)
		out.Put(tok)
		n++
	}
}
