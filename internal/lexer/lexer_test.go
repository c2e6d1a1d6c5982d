package lexer

import (
	"testing"

	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/token"
)

func lexAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			return toks
		}
	}
}

func TestOperatorsAndPunctuation(t *testing.T) {
	toks := lexAll(t, "x := y[1] ** 2; a :=: b")
	want := []token.TokenType{
		token.IDENT, token.ASSIGN, token.IDENT, token.LBRACK, token.INTLIT,
		token.RBRACK, token.UP, token.INTLIT, token.SEMICOLON,
		token.IDENT, token.IS, token.IDENT, token.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: %s %q, want %s", i, toks[i].Type, toks[i].Lexeme, w)
		}
	}
}

func TestNumberDenotations(t *testing.T) {
	cases := []struct {
		src  string
		want token.TokenType
	}{
		{"42", token.INTLIT},
		{"3.14", token.REALLIT},
		{"1e6", token.REALLIT},
		{"2.5e-3", token.REALLIT},
		{"2r1010", token.BITSLIT},
		{"16rff", token.BITSLIT},
	}
	for _, c := range cases {
		toks := lexAll(t, c.src)
		if toks[0].Type != c.want || toks[0].Lexeme != c.src {
			t.Errorf("%q lexed as %s %q, want %s", c.src, toks[0].Type, toks[0].Lexeme, c.want)
		}
	}
}

func TestCharDenotation(t *testing.T) {
	toks := lexAll(t, `"a"`)
	if toks[0].Type != token.CHARLIT || toks[0].Lexeme != "a" {
		t.Fatalf("char denotation lexed as %s %q", toks[0].Type, toks[0].Lexeme)
	}
	toks = lexAll(t, `""""`)
	if toks[0].Type != token.CHARLIT || toks[0].Lexeme != `"` {
		t.Errorf("doubled quote lexed as %s %q", toks[0].Type, toks[0].Lexeme)
	}
}

func TestBoldWordsVersusIdentifiers(t *testing.T) {
	toks := lexAll(t, "IF cond THEN x FI")
	want := []token.TokenType{token.IF, token.IDENT, token.THEN, token.IDENT, token.FI, token.EOF}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: %s, want %s", i, toks[i].Type, w)
		}
	}

	toks = lexAll(t, "a OVER b MOD c")
	if toks[1].Type != token.OP || toks[1].Lexeme != "OVER" {
		t.Errorf("OVER lexed as %s %q", toks[1].Type, toks[1].Lexeme)
	}
	if toks[3].Type != token.OP || toks[3].Lexeme != "MOD" {
		t.Errorf("MOD lexed as %s %q", toks[3].Type, toks[3].Lexeme)
	}
}

func TestComments(t *testing.T) {
	toks := lexAll(t, "1 # a hash comment # + CO a bold comment CO 2")
	want := []token.TokenType{token.INTLIT, token.PLUS, token.INTLIT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestPositions(t *testing.T) {
	toks := lexAll(t, "a\n  b")
	if toks[0].Line != 1 || toks[0].Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", toks[0].Line, toks[0].Column)
	}
	if toks[1].Line != 2 || toks[1].Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", toks[1].Line, toks[1].Column)
	}
}

func TestProcessorReportsIllegalInput(t *testing.T) {
	ctx := pipeline.NewPipelineContext("x := 1 ? 2")
	(&LexerProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 {
		t.Fatalf("no diagnostic for illegal character")
	}
	if ctx.Errors[0].Code != "P001" {
		t.Errorf("diagnostic code %s, want P001", ctx.Errors[0].Code)
	}
}
