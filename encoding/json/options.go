package json

// Options control which tokens a Parser emits.
//
// For keys, strings and numbers, streaming means emitting the start token,
// fragment tokens as the input is read and the end token.  Packing means
// emitting one token carrying the whole value once it is complete.  Both may
// be on.  If packing is off for a kind, streaming is forced on for that kind
// so values are not lost.
type Options struct {
	PackKeys    bool
	PackStrings bool
	PackNumbers bool

	StreamKeys    bool
	StreamStrings bool
	StreamNumbers bool

	// JSONStreaming accepts a sequence of top-level values instead of
	// exactly one.
	JSONStreaming bool
}

// An Option modifies Options.
type Option func(*Options)

// DefaultOptions has every pack and stream option on and JSON streaming off.
func DefaultOptions() Options {
	return Options{
		PackKeys:      true,
		PackStrings:   true,
		PackNumbers:   true,
		StreamKeys:    true,
		StreamStrings: true,
		StreamNumbers: true,
	}
}

// ApplyOptions applies opts over the default options and resolves them.
func ApplyOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()
	return o
}

func (o *Options) resolve() {
	if !o.PackKeys {
		o.StreamKeys = true
	}
	if !o.PackStrings {
		o.StreamStrings = true
	}
	if !o.PackNumbers {
		o.StreamNumbers = true
	}
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		*o = opts
	}
}

// WithPackValues sets PackKeys, PackStrings and PackNumbers.
func WithPackValues(b bool) Option {
	return func(o *Options) {
		o.PackKeys = b
		o.PackStrings = b
		o.PackNumbers = b
	}
}

// WithStreamValues sets StreamKeys, StreamStrings and StreamNumbers.
func WithStreamValues(b bool) Option {
	return func(o *Options) {
		o.StreamKeys = b
		o.StreamStrings = b
		o.StreamNumbers = b
	}
}

func WithPackKeys(b bool) Option {
	return func(o *Options) { o.PackKeys = b }
}

func WithPackStrings(b bool) Option {
	return func(o *Options) { o.PackStrings = b }
}

func WithPackNumbers(b bool) Option {
	return func(o *Options) { o.PackNumbers = b }
}

func WithStreamKeys(b bool) Option {
	return func(o *Options) { o.StreamKeys = b }
}

func WithStreamStrings(b bool) Option {
	return func(o *Options) { o.StreamStrings = b }
}

func WithStreamNumbers(b bool) Option {
	return func(o *Options) { o.StreamNumbers = b }
}

// WithJSONStreaming allows several top-level values in the input.
func WithJSONStreaming(b bool) Option {
	return func(o *Options) { o.JSONStreaming = b }
}
