package parser

import (
	"fmt"
	"gloom/internal/token"
)

const (
	// ValueExpected is the Expected kind reported when no value could start
	// at the current token.
	ValueExpected token.TokenType = "VALUE"
	// ArgumentExpected is reported when a message send is followed by
	// something that is neither a named parameter nor an operator.
	ArgumentExpected token.TokenType = "ARGUMENT"
)

// ParseError describes why a statement could not be parsed.
type ParseError struct {
	Expected token.TokenType
	Actual   token.TokenType
	Literal  string
	Position int
	Line     int
	Column   int
	Reason   string
}

func (e *ParseError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("[%3d:%2d] %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("[%3d:%2d] expected %s, got %s (%q) instead",
		e.Line, e.Column, e.Expected, e.Actual, e.Literal)
}
