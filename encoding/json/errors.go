package json

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError with errors.Is.
var ErrSyntax = errors.New("syntax error")

// ErrFinished is returned when input is pushed after Finish.
var ErrFinished = errors.New("input pushed after end of input")

// A SyntaxError reports invalid input.  Line and Column are 1-based, Column
// counts code points.  Offset is the 0-based byte offset in the whole input.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s", e.Line, e.Column, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
