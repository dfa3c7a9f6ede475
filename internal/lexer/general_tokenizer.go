package lexer

import (
	"gloom/internal/token"
)

type GeneralTokenizer struct {
	lexer *Lexer
}

func NewGeneralTokenizer(lexer *Lexer) *GeneralTokenizer {
	return &GeneralTokenizer{lexer: lexer}
}

func (g *GeneralTokenizer) NextToken() token.Token {
	var tok token.Token

	g.lexer.skipWhitespace()

	startPosition := g.lexer.position

	if g.lexer.atEOF() {
		return token.Token{Type: token.EOF, Literal: "", Position: startPosition}
	}

	switch g.lexer.ch {
	case '(':
		tok = newToken(token.LPAREN, g.lexer.ch, startPosition)
	case ')':
		tok = newToken(token.RPAREN, g.lexer.ch, startPosition)
	case '+':
		tok = newToken(token.PLUS, g.lexer.ch, startPosition)
	case '-':
		tok = newToken(token.MINUS, g.lexer.ch, startPosition)
	case '*':
		tok = newToken(token.ASTERISK, g.lexer.ch, startPosition)
	case '/':
		tok = newToken(token.SLASH, g.lexer.ch, startPosition)
	case '%':
		tok = newToken(token.PERCENT, g.lexer.ch, startPosition)
	case ',':
		tok = newToken(token.COMMA, g.lexer.ch, startPosition)
	case '#':
		tok = newToken(token.HASH, g.lexer.ch, startPosition)
	case '.':
		if isDigit(g.lexer.peekChar()) {
			return token.Token{Type: token.NUMBER, Literal: g.lexer.readNumber(), Position: startPosition}
		}
		tok = newToken(token.PERIOD, g.lexer.ch, startPosition)
	case ':':
		g.lexer.readChar() // consume the ':'
		return token.Token{Type: token.NAMED_PARAMETER, Literal: g.lexer.readIdentifier(), Position: startPosition}
	case '\'', '"':
		g.lexer.switchMode(NewStringTokenizer(g.lexer, g.lexer.ch))
		return g.lexer.currentMode.NextToken()
	default:
		switch {
		case isDigit(g.lexer.ch):
			return token.Token{Type: token.NUMBER, Literal: g.lexer.readNumber(), Position: startPosition}
		case g.lexer.ch == 't' && g.lexer.hasKeyword("true"),
			g.lexer.ch == 'f' && g.lexer.hasKeyword("false"):
			return token.Token{Type: token.BOOLEAN, Literal: g.lexer.readIdentifier(), Position: startPosition}
		case isLetter(g.lexer.ch):
			return token.Token{Type: token.OBJECT, Literal: g.lexer.readIdentifier(), Position: startPosition}
		default:
			// stray characters still name an object, the lexer never fails
			tok = newToken(token.OBJECT, g.lexer.ch, startPosition)
		}
	}

	g.lexer.readChar()
	return tok
}
