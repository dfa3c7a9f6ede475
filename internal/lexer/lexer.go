package lexer

import (
	"gloom/internal/token"
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input        string
	position     int       // current byte position in input (points to start of current rune)
	readPosition int       // next byte position in input (start of next rune)
	ch           rune      // current rune under examination; 0 means EOF
	currentMode  Tokenizer // Current tokenizer strategy
}

type Tokenizer interface {
	NextToken() token.Token
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.switchMode(NewGeneralTokenizer(l))
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns every token up to, but not
// including, the EOF marker.
func Tokenize(input string) []token.Token {
	l := New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) switchMode(mode Tokenizer) {
	l.currentMode = mode
}

func (l *Lexer) NextToken() token.Token {
	return l.currentMode.NextToken()
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && unicode.IsSpace(l.ch) {
		l.readChar()
	}
}

// readChar advances by one UTF-8 rune, updating byte positions
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

// peekChar returns the next rune without advancing; returns 0 at EOF
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// hasKeyword reports whether word starts at the cursor and is not the prefix
// of a longer identifier.
func (l *Lexer) hasKeyword(word string) bool {
	end := l.position + len(word)
	if end > len(l.input) || l.input[l.position:end] != word {
		return false
	}
	if end == len(l.input) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(l.input[end:])
	return !isIdentifierChar(next)
}

// readIdentifier returns the substring (bytes) covering the identifier runes
func (l *Lexer) readIdentifier() string {
	start := l.position
	for !l.atEOF() && isIdentifierChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber consumes digits and decimal points; a point is only taken when a
// digit follows it so that `6.0.` still ends its statement.
func (l *Lexer) readNumber() string {
	start := l.position
	for !l.atEOF() {
		if isDigit(l.ch) {
			l.readChar()
			continue
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			l.readChar()
			continue
		}
		break
	}
	return l.input[start:l.position]
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierChar(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}

func newToken(tokenType token.TokenType, ch rune, position int) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Position: position}
}
