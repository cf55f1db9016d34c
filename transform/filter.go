package transform

import (
	"github.com/arnodel/jsonchunk/internal/debug"
	"github.com/arnodel/jsonchunk/token"
)

// DefaultSeparator joins path entries for matchers that work on text.
const DefaultSeparator = "."

// A Transition is run when a Filter matches a value.  It is given the path of
// the value and the token that starts it, and may write tokens with w (after
// calling w.Sync(path) to move the output to the right position).  It returns
// true if the matched value should be written out.  The path is a copy the
// Transition may keep.
type Transition func(w *Writer, path Path, tok token.Token) (keep bool)

type filterState uint8

const (
	stateCheck  filterState = iota // looking for matches
	stateAccept                    // inside a matched value
	statePass                      // no more matching
)

// A Filter selects values in a token stream according to their path and
// transforms the stream with a Transition when a value is matched.
//
// Values that are not matched are dropped, or written out if the filter was
// built with passRest.  In both cases the output is kept well nested: the
// Transition moves the output to the position of each matched value with
// Writer.Sync, and Flush closes what remains open at the end.
//
// Filters are not safe for concurrent use.
type Filter struct {
	matcher    Matcher
	transition Transition
	passRest   bool
	opts       filterOptions

	tracker pathTracker
	writer  Writer
	state   filterState

	// Inside a value being passed or skipped whole
	depth     int
	keepValue bool
	matched   bool // the value was matched, as opposed to passed through

	// Packed token expected after the end of a streamed value
	trailer     token.Kind
	keepTrailer bool

	// Top-level values seen, and the one of the last match
	docs     int
	matchDoc int
	anyMatch bool
}

var _ token.StreamTransformer = &Filter{}

// NewFilter returns a Filter running transition on values matched by m.  If
// passRest is true, values that are not matched are written out.
func NewFilter(m Matcher, transition Transition, passRest bool, opts ...Option) *Filter {
	o := defaultFilterOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Filter{
		matcher:    m,
		transition: transition,
		passRest:   passRest,
		opts:       o,
		writer: Writer{
			streamKeys: o.streamKeys,
			packKeys:   o.packKeys,
		},
	}
}

// Transform implements token.StreamTransformer.
func (f *Filter) Transform(in <-chan token.Token, out token.WriteStream) {
	for tok := range in {
		f.Put(out, tok)
	}
	f.Flush(out)
}

// Put processes one token, writing the resulting tokens to out.
func (f *Filter) Put(out token.WriteStream, tok token.Token) {
	f.writer.out = out

	if f.trailer != token.Invalid {
		trailer, keep := f.trailer, f.keepTrailer
		f.trailer = token.Invalid
		if tok.Kind == trailer {
			if keep {
				out.Put(tok)
			}
			return
		}
	}

	f.tracker.enter(tok)
	if f.state == stateAccept {
		f.accept(tok)
	} else {
		f.check(tok)
	}
	f.tracker.leave(tok)

	if packed := tok.Kind.Packed(); packed != token.Invalid {
		f.trailer = packed
	}
}

// Flush closes the containers that are still open in the output.  It should
// be called at the end of the stream.
func (f *Filter) Flush(out token.WriteStream) {
	f.writer.out = out
	f.writer.Sync(nil)
}

func (f *Filter) accept(tok token.Token) {
	if f.keepValue {
		f.writer.Put(tok)
	}
	switch {
	case tok.Kind.IsStart():
		f.depth++
	case tok.Kind.IsEnd():
		f.depth--
	}
	if tok.Kind.IsEnd() {
		f.keepTrailer = f.keepValue
	}
	if f.depth > 0 {
		return
	}
	if f.matched && f.opts.once {
		f.state = statePass
	} else {
		f.state = stateCheck
	}
}

func (f *Filter) check(tok token.Token) {
	path := f.tracker.path
	checkable := isCheckable(tok.Kind)
	if checkable && len(path) == 0 {
		f.docs++
	}
	if checkable && f.state == stateCheck && f.matcher.Match(path, tok, f.opts.separator) {
		f.match(path, tok)
		return
	}
	if !f.passRest {
		f.keepTrailer = false
		return
	}
	switch tok.Kind {
	case token.StartObject, token.StartArray:
		f.writer.Sync(path)
		f.writer.Put(tok)
		f.writer.open(tok)
	case token.EndObject, token.EndArray:
		f.writer.closeTo(len(path))
		f.writer.Put(tok)
		f.writer.pop()
	case token.StartString, token.StartNumber:
		f.writer.Sync(path)
		f.startValue(tok, true, false)
	case token.StringValue, token.NumberValue, token.NullValue, token.TrueValue, token.FalseValue:
		f.writer.Sync(path)
		f.writer.Put(tok)
	default:
		// Keys are written by Sync when a value needs them
		f.keepTrailer = false
	}
}

func (f *Filter) match(path Path, tok token.Token) {
	if debug.On {
		debug.Printf("filter matched %s at %q", tok, path.Join(f.opts.separator))
	}
	if f.anyMatch && f.matchDoc != f.docs {
		// Do not merge matches from different top-level values
		f.writer.Sync(nil)
	}
	f.anyMatch = true
	f.matchDoc = f.docs

	keep := f.transition(&f.writer, path.Clone(), tok)
	if tok.Kind.IsStart() {
		f.startValue(tok, keep, true)
		return
	}
	if keep {
		f.writer.Put(tok)
	}
	if f.opts.once {
		f.state = statePass
	}
}

// startValue enters a value that is passed through or skipped whole.
func (f *Filter) startValue(tok token.Token, keep, matched bool) {
	if keep {
		f.writer.Put(tok)
	}
	f.state = stateAccept
	f.depth = 1
	f.keepValue = keep
	f.matched = matched
}

// isCheckable is true for the tokens that start a value.
func isCheckable(k token.Kind) bool {
	switch k {
	case token.StartObject, token.StartArray, token.StartString, token.StartNumber,
		token.StringValue, token.NumberValue, token.NullValue, token.TrueValue, token.FalseValue:
		return true
	}
	return false
}

type filterOptions struct {
	separator  string
	once       bool
	streamKeys bool
	packKeys   bool
}

func defaultFilterOptions() filterOptions {
	return filterOptions{
		separator:  DefaultSeparator,
		streamKeys: true,
		packKeys:   true,
	}
}

// An Option configures a Filter.
type Option func(*filterOptions)

// WithSeparator sets the separator used to join paths for matchers that work
// on text, such as PathPrefix and PathPattern.
func WithSeparator(sep string) Option {
	return func(o *filterOptions) { o.separator = sep }
}

// WithOnce stops matching after the first match.
func WithOnce() Option {
	return func(o *filterOptions) { o.once = true }
}

// WithStreamKeys sets whether keys written by the filter are streamed
// (startKey, stringChunk, endKey).
func WithStreamKeys(b bool) Option {
	return func(o *filterOptions) { o.streamKeys = b }
}

// WithPackKeys sets whether keys written by the filter are packed (keyValue).
func WithPackKeys(b bool) Option {
	return func(o *filterOptions) { o.packKeys = b }
}
