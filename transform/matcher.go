package transform

import (
	"regexp"
	"strings"

	"github.com/arnodel/jsonchunk/token"
)

// A Matcher decides which values a Filter matches.  It is given the path of
// the value, the token that starts it and the separator the Filter was
// configured with.
//
// The path is updated in place as the Filter reads on, so it is only valid
// during the call.  Use Path.Clone to keep it.
type Matcher interface {
	Match(path Path, tok token.Token, sep string) bool
}

// A Predicate is a Matcher that does not use the separator.
type Predicate func(path Path, tok token.Token) bool

var _ Matcher = Predicate(nil)

// Match implements Matcher.
func (p Predicate) Match(path Path, tok token.Token, sep string) bool {
	return p(path, tok)
}

// PathPrefix matches the value whose joined path is the string and every
// value below it.
type PathPrefix string

var _ Matcher = PathPrefix("")

// Match implements Matcher.
func (p PathPrefix) Match(path Path, tok token.Token, sep string) bool {
	joined := path.Join(sep)
	prefix := string(p)
	return joined == prefix || strings.HasPrefix(joined, prefix+sep)
}

// PathPattern returns a Matcher that matches values whose joined path
// matches re.
func PathPattern(re *regexp.Regexp) Matcher {
	return patternMatcher{re: re}
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(path Path, tok token.Token, sep string) bool {
	return m.re.MatchString(path.Join(sep))
}

// MaxDepth matches values nested more deeply than depth (top-level values
// have depth 0).
func MaxDepth(depth int) Predicate {
	return func(path Path, tok token.Token) bool {
		return len(path) > depth
	}
}
