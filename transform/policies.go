package transform

import "github.com/arnodel/jsonchunk/token"

// NewPick returns a Filter that keeps only the values matched by m,
// together with the containers and keys leading to them.
func NewPick(m Matcher, opts ...Option) *Filter {
	return NewFilter(m, pick, false, opts...)
}

// NewIgnore returns a Filter that removes the values matched by m.
func NewIgnore(m Matcher, opts ...Option) *Filter {
	return NewFilter(m, ignore, true, opts...)
}

// NewReplace returns a Filter that replaces the values matched by m with the
// tokens returned by r.  If r returns no tokens, the value is removed.  A nil
// r replaces values with null.
func NewReplace(m Matcher, r Replacement, opts ...Option) *Filter {
	if r == nil {
		r = StaticReplacement(token.NullToken)
	}
	return NewFilter(m, replace(r), true, opts...)
}

// A Replacement gives the tokens that replace the value at path, which starts
// with tok.  The tokens must encode zero or one complete value.  The path is
// not changed by the Filter afterwards, so it may be kept.
type Replacement func(path Path, tok token.Token) []token.Token

// StaticReplacement replaces every value with the same tokens.
func StaticReplacement(toks ...token.Token) Replacement {
	return func(Path, token.Token) []token.Token {
		return toks
	}
}

func pick(w *Writer, path Path, tok token.Token) bool {
	w.Sync(path)
	return true
}

func ignore(w *Writer, path Path, tok token.Token) bool {
	return false
}

func replace(r Replacement) Transition {
	return func(w *Writer, path Path, tok token.Token) bool {
		toks := r(path, tok)
		if len(toks) > 0 {
			w.Sync(path)
			for _, t := range toks {
				w.Put(t)
			}
		}
		return false
	}
}
