package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `mut five = 5
mut ten = 10

mut add = fn(x, y) {
  return x + y
}

mut result = add(five, ten)
-/*5
5 < 10 > 5

if (5 < 10) {
	return true
} else {
	return false
}

10 == 10
"foobar"
"foo bar"
[1, 2]
{"key": "value"}
while (x < 3) { mut x = x + 1 }
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{MUT, "mut"},
		{IDENT, "five"},
		{ASSIGN, "="},
		{INT, "5"},
		{MUT, "mut"},
		{IDENT, "ten"},
		{ASSIGN, "="},
		{INT, "10"},
		{MUT, "mut"},
		{IDENT, "add"},
		{ASSIGN, "="},
		{FUNCTION, "fn"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COMMA, ","},
		{IDENT, "y"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{IDENT, "x"},
		{PLUS, "+"},
		{IDENT, "y"},
		{RBRACE, "}"},
		{MUT, "mut"},
		{IDENT, "result"},
		{ASSIGN, "="},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "five"},
		{COMMA, ","},
		{IDENT, "ten"},
		{RPAREN, ")"},
		{MINUS, "-"},
		{SLASH, "/"},
		{ASTERISK, "*"},
		{INT, "5"},
		{INT, "5"},
		{LT, "<"},
		{INT, "10"},
		{GT, ">"},
		{INT, "5"},
		{IF, "if"},
		{LPAREN, "("},
		{INT, "5"},
		{LT, "<"},
		{INT, "10"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{TRUE, "true"},
		{RBRACE, "}"},
		{ELSE, "else"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{FALSE, "false"},
		{RBRACE, "}"},
		{INT, "10"},
		{EQ, "=="},
		{INT, "10"},
		{STRING, "foobar"},
		{STRING, "foo bar"},
		{LBRACKET, "["},
		{INT, "1"},
		{COMMA, ","},
		{INT, "2"},
		{RBRACKET, "]"},
		{LBRACE, "{"},
		{STRING, "key"},
		{COLON, ":"},
		{STRING, "value"},
		{RBRACE, "}"},
		{WHILE, "while"},
		{LPAREN, "("},
		{IDENT, "x"},
		{LT, "<"},
		{INT, "3"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{MUT, "mut"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{IDENT, "x"},
		{PLUS, "+"},
		{INT, "1"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "mut x = 1\nmut y = 2"

	l := New(input)

	tests := []struct {
		literal string
		line    int
		column  int
	}{
		{"mut", 1, 1},
		{"x", 1, 5},
		{"=", 1, 7},
		{"1", 1, 9},
		{"mut", 2, 1},
		{"y", 2, 5},
		{"=", 2, 7},
		{"2", 2, 9},
	}

	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
		if tok.Line != tt.line {
			t.Errorf("tests[%d] - line wrong for %q. expected=%d, got=%d", i, tt.literal, tt.line, tok.Line)
		}
		if tok.Column != tt.column {
			t.Errorf("tests[%d] - column wrong for %q. expected=%d, got=%d", i, tt.literal, tt.column, tok.Column)
		}
	}
}

func TestLineComments(t *testing.T) {
	input := `// leading comment
mut x = 1 // trailing comment
// another
mut y = 2`

	l := New(input)

	expected := []struct {
		typ     TokenType
		literal string
	}{
		{MUT, "mut"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "1"},
		{MUT, "mut"},
		{IDENT, "y"},
		{ASSIGN, "="},
		{INT, "2"},
		{EOF, ""},
	}

	for i, tt := range expected {
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - expected (%q, %q), got (%q, %q)",
				i, tt.typ, tt.literal, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"no closing quote`)

	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q (literal %q)", tok.Type, tok.Literal)
	}
	if tok.Literal != "unterminated string literal" {
		t.Errorf("unexpected literal: %q", tok.Literal)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("mut x = 1 @")

	var tok Token
	for {
		tok = l.NextToken()
		if tok.Type == ILLEGAL || tok.Type == EOF {
			break
		}
	}

	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token, got %q", tok.Type)
	}
	if tok.Literal != "@" {
		t.Errorf("unexpected literal: %q", tok.Literal)
	}
}
