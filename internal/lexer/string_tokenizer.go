package lexer

import (
	"gloom/internal/token"
	"log/slog"
)

type StringTokenizer struct {
	lexer *Lexer
	quote rune
}

func NewStringTokenizer(lexer *Lexer, quote rune) *StringTokenizer {
	return &StringTokenizer{lexer: lexer, quote: quote}
}

func (s *StringTokenizer) NextToken() token.Token {
	startPosition := s.lexer.position

	s.lexer.readChar() // consume the opening quote
	start := s.lexer.position

	for !s.lexer.atEOF() && s.lexer.ch != s.quote {
		s.lexer.readChar()
	}

	literal := s.lexer.input[start:s.lexer.position]
	if s.lexer.atEOF() {
		// end of input closes an open string
		slog.Debug("unterminated string literal",
			slog.Int("position", startPosition),
			slog.String("quote", string(s.quote)))
	} else {
		s.lexer.readChar() // consume the closing quote
	}

	s.lexer.switchMode(NewGeneralTokenizer(s.lexer))

	return token.Token{
		Type:     token.STRING,
		Literal:  literal,
		Position: startPosition,
	}
}
