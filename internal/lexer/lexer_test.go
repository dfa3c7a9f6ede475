package lexer

import (
	"gloom/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `:listen.
((1 + 2) * 3) :print.
:set x :to 5.
:set y :to x :at 6.0.
:set z :to #(1 2 'three' #(4.0 5)).
1 - .5 / 2 % 3 , 4.
truest false true.
"double" @`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.NAMED_PARAMETER, "listen"},
		{token.PERIOD, "."},

		{token.LPAREN, "("},
		{token.LPAREN, "("},
		{token.NUMBER, "1"},
		{token.PLUS, "+"},
		{token.NUMBER, "2"},
		{token.RPAREN, ")"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "3"},
		{token.RPAREN, ")"},
		{token.NAMED_PARAMETER, "print"},
		{token.PERIOD, "."},

		{token.NAMED_PARAMETER, "set"},
		{token.OBJECT, "x"},
		{token.NAMED_PARAMETER, "to"},
		{token.NUMBER, "5"},
		{token.PERIOD, "."},

		{token.NAMED_PARAMETER, "set"},
		{token.OBJECT, "y"},
		{token.NAMED_PARAMETER, "to"},
		{token.OBJECT, "x"},
		{token.NAMED_PARAMETER, "at"},
		{token.NUMBER, "6.0"},
		{token.PERIOD, "."},

		{token.NAMED_PARAMETER, "set"},
		{token.OBJECT, "z"},
		{token.NAMED_PARAMETER, "to"},
		{token.HASH, "#"},
		{token.LPAREN, "("},
		{token.NUMBER, "1"},
		{token.NUMBER, "2"},
		{token.STRING, "three"},
		{token.HASH, "#"},
		{token.LPAREN, "("},
		{token.NUMBER, "4.0"},
		{token.NUMBER, "5"},
		{token.RPAREN, ")"},
		{token.RPAREN, ")"},
		{token.PERIOD, "."},

		{token.NUMBER, "1"},
		{token.MINUS, "-"},
		{token.NUMBER, ".5"},
		{token.SLASH, "/"},
		{token.NUMBER, "2"},
		{token.PERCENT, "%"},
		{token.NUMBER, "3"},
		{token.COMMA, ","},
		{token.NUMBER, "4"},
		{token.PERIOD, "."},

		{token.OBJECT, "truest"},
		{token.BOOLEAN, "false"},
		{token.BOOLEAN, "true"},
		{token.PERIOD, "."},

		{token.STRING, "double"},
		{token.OBJECT, "@"},

		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q '%q', got=%q: '%q'",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenizeSingleString(t *testing.T) {
	tokens := Tokenize(`'hello'`)

	if len(tokens) != 1 {
		t.Fatalf("expected exactly one token, got %d: %v", len(tokens), tokens)
	}
	if tokens[0].Type != token.STRING {
		t.Fatalf("tokentype wrong. expected=%q, got=%q", token.STRING, tokens[0].Type)
	}
	if tokens[0].Literal != "hello" {
		t.Fatalf("literal wrong. expected=%q, got=%q", "hello", tokens[0].Literal)
	}
}

func TestUnterminatedStringEndsAtEOF(t *testing.T) {
	tokens := Tokenize(`x :print 'never closed`)

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}
	last := tokens[2]
	if last.Type != token.STRING || last.Literal != "never closed" {
		t.Fatalf("expected STRING %q, got %q: %q", "never closed", last.Type, last.Literal)
	}
}

func TestMismatchedQuotesStayInString(t *testing.T) {
	tokens := Tokenize(`'it"s'`)

	if len(tokens) != 1 || tokens[0].Literal != `it"s` {
		t.Fatalf("expected a single string token %q, got %v", `it"s`, tokens)
	}
}

func TestTokenPositions(t *testing.T) {
	input := "  x :at 12."

	expected := []int{2, 4, 8, 10}

	tokens := Tokenize(input)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, pos := range expected {
		if tokens[i].Position != pos {
			t.Errorf("tokens[%d] (%q) - position wrong. expected=%d, got=%d",
				i, tokens[i].Literal, pos, tokens[i].Position)
		}
	}
}

func TestPeekDoesNotMoveCursor(t *testing.T) {
	l := New("ab")

	before := l.position
	first := l.peekChar()
	second := l.peekChar()

	if l.position != before {
		t.Fatalf("peekChar moved the cursor from %d to %d", before, l.position)
	}
	if first != 'b' || second != 'b' {
		t.Fatalf("expected peekChar to return 'b' twice, got %q and %q", first, second)
	}
}

func TestEmptyInput(t *testing.T) {
	if tokens := Tokenize("   \n\t "); len(tokens) != 0 {
		t.Fatalf("expected no tokens for blank input, got %v", tokens)
	}

	l := New("")
	for i := 0; i < 3; i++ {
		if tok := l.NextToken(); tok.Type != token.EOF {
			t.Fatalf("call %d: expected EOF, got %q", i, tok.Type)
		}
	}
}

func TestNamedParameterWithoutName(t *testing.T) {
	tokens := Tokenize(": 1")

	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %v", tokens)
	}
	if tokens[0].Type != token.NAMED_PARAMETER || tokens[0].Literal != "" {
		t.Fatalf("expected empty NAMED_PARAMETER, got %q: %q", tokens[0].Type, tokens[0].Literal)
	}
}
