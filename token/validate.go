package token

import "fmt"

// A Validator checks that a token stream is well nested: every start token is
// matched by the corresponding end token in LIFO order, fragments only occur
// inside the value they belong to, and nothing is left open at the end.
//
// It does not check JSON grammar beyond nesting (e.g. that keys and values
// alternate inside an object).
type Validator struct {
	stack []Kind
	count int
}

var _ WriteStream = (*Validator)(nil)

// Check feeds tok to the validator, returning an error the first time the
// stream is found to be badly nested.
func (v *Validator) Check(tok Token) error {
	v.count++
	k := tok.Kind
	switch {
	case k.IsStart():
		if top := v.top(); top == StartKey || top == StartString || top == StartNumber {
			return v.errorf(tok, "%s inside %s", k, top)
		}
		v.stack = append(v.stack, k)
	case k.IsEnd():
		top := v.top()
		if top.Closer() != k {
			if top == Invalid {
				return v.errorf(tok, "unexpected %s", k)
			}
			return v.errorf(tok, "%s does not close %s", k, top)
		}
		v.stack = v.stack[:len(v.stack)-1]
	case k == StringChunk:
		if top := v.top(); top != StartString && top != StartKey {
			return v.errorf(tok, "%s outside of a string or key", k)
		}
	case k == NumberChunk:
		if v.top() != StartNumber {
			return v.errorf(tok, "%s outside of a number", k)
		}
	case k.IsPacked():
		if top := v.top(); top == StartKey || top == StartString || top == StartNumber {
			return v.errorf(tok, "%s inside %s", k, top)
		}
	default:
		return v.errorf(tok, "invalid token")
	}
	return nil
}

// Put implements WriteStream.  It panics if the stream is badly nested, use
// Check to get an error instead.
func (v *Validator) Put(tok Token) {
	if err := v.Check(tok); err != nil {
		panic(err)
	}
}

// Done reports an error if some composite is still open.
func (v *Validator) Done() error {
	if len(v.stack) > 0 {
		return fmt.Errorf("unbalanced stream: %d composite(s) left open, innermost %s", len(v.stack), v.top())
	}
	return nil
}

// Depth is the number of composites currently open.
func (v *Validator) Depth() int {
	return len(v.stack)
}

func (v *Validator) top() Kind {
	if len(v.stack) == 0 {
		return Invalid
	}
	return v.stack[len(v.stack)-1]
}

func (v *Validator) errorf(tok Token, format string, args ...any) error {
	return fmt.Errorf("unbalanced stream at token %d (%s): %s", v.count, tok, fmt.Sprintf(format, args...))
}

// Validate checks a whole slice of tokens.
func Validate(toks []Token) error {
	var v Validator
	for _, tok := range toks {
		if err := v.Check(tok); err != nil {
			return err
		}
	}
	return v.Done()
}
