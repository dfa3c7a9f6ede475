package token

type TokenType string

const (
	EOF = "EOF"

	// Identifiers + literals
	OBJECT          = "OBJECT"          // Everything, x, hub
	NAMED_PARAMETER = "NAMED_PARAMETER" // :foo
	NUMBER          = "NUMBER"          // 3.14
	STRING          = "STRING"          // 'foobar'
	BOOLEAN         = "BOOLEAN"         // true

	// Binary operators
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	COMMA    = ","

	// Delimiters
	PERIOD = "."
	HASH   = "#"
	LPAREN = "("
	RPAREN = ")"
)

type Token struct {
	Type     TokenType
	Literal  string
	Position int // the src index of the token
}

var operators = map[TokenType]bool{
	PLUS:     true,
	MINUS:    true,
	ASTERISK: true,
	SLASH:    true,
	PERCENT:  true,
	COMMA:    true,
}

// IsOperator reports whether t is one of the binary message symbols.
func IsOperator(t TokenType) bool {
	return operators[t]
}

// StartsArgument reports whether a token of type t begins a message argument.
func StartsArgument(t TokenType) bool {
	return t == NAMED_PARAMETER || IsOperator(t)
}

// StartsValue reports whether a token of type t can begin a value expression.
func StartsValue(t TokenType) bool {
	switch t {
	case NUMBER, STRING, BOOLEAN, OBJECT, HASH, LPAREN:
		return true
	}
	return false
}
