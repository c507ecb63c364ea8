package lexer

import (
	"math"
	"testing"

	"github.com/tangzhangming/jscheck/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `+ - * / % = == === != !== < <= > >= && || ! ( ) { } [ ] , . ; : ? ~ & | ^ << >> >>>`

	expected := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.EQ, token.STRICT_EQ, token.NE, token.STRICT_NE,
		token.LT, token.LE, token.GT, token.GE,
		token.AND, token.OR, token.NOT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.COMMA, token.DOT, token.SEMICOLON, token.COLON, token.QUESTION,
		token.BIT_NOT, token.BIT_AND, token.BIT_OR, token.BIT_XOR,
		token.LEFT_SHIFT, token.RIGHT_SHIFT, token.UNSIGNED_RIGHT_SHIFT,
		token.EOF,
	}

	l := New(input, "test.js")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerAssignOperators(t *testing.T) {
	input := `+= -= *= /= %= &= |= ^= <<= >>= >>>= ++ --`
	expected := []token.TokenType{
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN,
		token.PERCENT_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN,
		token.SHL_ASSIGN, token.SHR_ASSIGN, token.USHR_ASSIGN,
		token.INCREMENT, token.DECREMENT, token.EOF,
	}

	tokens := New(input, "test.js").ScanTokens()
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
		if i < len(expected)-1 && !token.IsAssign(tok.Type) && tok.Type != token.INCREMENT && tok.Type != token.DECREMENT {
			t.Errorf("token[%d] %s should be an assignment operator", i, tok.Type)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `var let const function class extends constructor static final deprecated
	public protected private if else switch case default for while do break continue return
	try catch finally throw new typeof instanceof in true false null this super`

	expected := []token.TokenType{
		token.VAR, token.LET, token.CONST, token.FUNCTION, token.CLASS, token.EXTENDS,
		token.CONSTRUCTOR, token.STATIC, token.FINAL, token.DEPRECATED,
		token.PUBLIC, token.PROTECTED, token.PRIVATE,
		token.IF, token.ELSE, token.SWITCH, token.CASE, token.DEFAULT,
		token.FOR, token.WHILE, token.DO, token.BREAK, token.CONTINUE, token.RETURN,
		token.TRY, token.CATCH, token.FINALLY, token.THROW,
		token.NEW, token.TYPEOF, token.INSTANCEOF, token.IN,
		token.TRUE, token.FALSE, token.NULL, token.THIS, token.SUPER,
		token.EOF,
	}

	tokens := New(input, "test.js").ScanTokens()
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s (literal: %s)",
				i, tok.Type, expected[i], tok.Literal)
		}
		if tok.Type != token.EOF && !token.IsKeyword(tok.Type) {
			t.Errorf("token[%d] %s should be a keyword", i, tok.Type)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	tokens := New(`int String $el _private café`, "test.js").ScanTokens()
	want := []string{"int", "String", "$el", "_private", "café"}
	if len(tokens) != len(want)+1 {
		t.Fatalf("expected %d tokens, got %d", len(want)+1, len(tokens))
	}
	for i, lit := range want {
		if tokens[i].Type != token.IDENT || tokens[i].Literal != lit {
			t.Errorf("token[%d]: got %s %q, want IDENT %q", i, tokens[i].Type, tokens[i].Literal, lit)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input   string
		tokType token.TokenType
		value   interface{}
	}{
		{"123", token.INT, int64(123)},
		{"0", token.INT, int64(0)},
		{"0xFF", token.INT, int64(255)},
		{"0xFFFFFFFF", token.INT, int64(-1)},
		{"10L", token.LONG, int64(10)},
		{"0x10L", token.LONG, int64(16)},
		{"3.14", token.DOUBLE, 3.14},
		{".5", token.DOUBLE, 0.5},
		{"1e10", token.DOUBLE, 1e10},
		{"2.5e-3", token.DOUBLE, 2.5e-3},
		{"2d", token.DOUBLE, 2.0},
		{"1.5f", token.FLOAT, 1.5},
		{"3F", token.FLOAT, 3.0},
	}

	for _, tt := range tests {
		tokens := New(tt.input, "test.js").ScanTokens()
		if len(tokens) != 2 {
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != tt.tokType {
			t.Errorf("input %q: type mismatch: got %s, want %s", tt.input, tok.Type, tt.tokType)
		}
		if tok.Value != tt.value {
			t.Errorf("input %q: value mismatch: got %v, want %v", tt.input, tok.Value, tt.value)
		}
		if tok.Literal != tt.input {
			t.Errorf("input %q: literal mismatch: got %q", tt.input, tok.Literal)
		}
	}
}

func TestLexerIntegerOverflow(t *testing.T) {
	l := New("4294967296", "test.js")
	l.ScanTokens()
	if !l.HasErrors() {
		t.Fatal("expected an out-of-range error for an int literal wider than 32 bits")
	}
}

func TestLexerMinimumMagnitude(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		value int64
	}{
		{"2147483648", token.INT, 1 << 31},
		{"9223372036854775808L", token.LONG, math.MinInt64},
	}
	for _, tt := range tests {
		l := New(tt.input, "test.js")
		tokens := l.ScanTokens()
		if l.HasErrors() {
			t.Errorf("input %q: range check belongs to the parser, got %v", tt.input, l.Errors())
			continue
		}
		tok := tokens[0]
		if tok.Type != tt.typ || tok.Value != tt.value || !tok.IsMinMagnitude() {
			t.Errorf("input %q: unexpected token %v (%v)", tt.input, tok, tok.Value)
		}
	}

	for _, input := range []string{"2147483649", "9223372036854775809L"} {
		l := New(input, "test.js")
		l.ScanTokens()
		if !l.HasErrors() {
			t.Errorf("input %q: expected an out-of-range error", input)
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'world'`, "world"},
		{`"hello\nworld"`, "hello\nworld"},
		{`"tab\there"`, "tab\there"},
		{`"quote\"here"`, `quote"here`},
		{`"AB"`, "AB"},
	}

	for _, tt := range tests {
		tokens := New(tt.input, "test.js").ScanTokens()
		if len(tokens) != 2 {
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}
		tok := tokens[0]
		if tok.Type != token.STRING {
			t.Errorf("input %q: type mismatch: got %s, want STRING", tt.input, tok.Type)
		}
		if tok.Value.(string) != tt.expected {
			t.Errorf("input %q: value mismatch: got %q, want %q", tt.input, tok.Value, tt.expected)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New("\"abc\nx", "test.js")
	tokens := l.ScanTokens()
	if !l.HasErrors() {
		t.Fatal("expected an error")
	}
	if tokens[0].Type != token.ILLEGAL {
		t.Errorf("expected ILLEGAL token, got %s", tokens[0].Type)
	}
}

func TestLexerComments(t *testing.T) {
	input := `
	// single line comment
	a = 1;
	/* block
	   comment */
	b = 2;
	`
	tokens := New(input, "test.js").ScanTokens()

	expected := []token.TokenType{
		token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.IDENT, token.ASSIGN, token.INT, token.SEMICOLON,
		token.EOF,
	}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}

	if tokens[0].Preceding != "single line comment" {
		t.Errorf("preceding comment: got %q", tokens[0].Preceding)
	}
	if tokens[4].Preceding == "" {
		t.Error("block comment should be attached to the following token")
	}
	if tokens[1].Preceding != "" {
		t.Errorf("comment must be attached only once, got %q", tokens[1].Preceding)
	}
}

func TestLexerPositions(t *testing.T) {
	input := "var x\n  = 10;"
	tokens := New(input, "test.js").ScanTokens()

	tests := []struct {
		line, column, offset int
	}{
		{1, 1, 0},  // var
		{1, 5, 4},  // x
		{2, 3, 8},  // =
		{2, 5, 10}, // 10
		{2, 7, 12}, // ;
	}
	for i, tt := range tests {
		pos := tokens[i].Pos
		if pos.Line != tt.line || pos.Column != tt.column || pos.Offset != tt.offset {
			t.Errorf("token[%d] %s: got %d:%d@%d, want %d:%d@%d",
				i, tokens[i].Literal, pos.Line, pos.Column, pos.Offset, tt.line, tt.column, tt.offset)
		}
	}
}
