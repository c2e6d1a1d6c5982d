package prettyprinter

import (
	"testing"

	"github.com/a68go/a68go/internal/analyzer"
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/parser"
	"github.com/a68go/a68go/internal/pipeline"
)

func analyze(t *testing.T, src string) *ast.Node {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	(&lexer.LexerProcessor{}).Process(ctx)
	(&parser.ParserProcessor{}).Process(ctx)
	(&analyzer.AnalyzerProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("frontend %q: %v", src, ctx.Errors[0])
	}
	return ctx.AstRoot
}

// The echo above every emitted unit should read like the program it came
// from: printing an analyzed unit gives back its source form.
func TestEchoRoundTrip(t *testing.T) {
	sources := []string{
		"2 + 3 * 4",
		"(2 + 3) * 4",
		"2 - 3 - 4",
		"2 - (3 - 4)",
		"ABS (2 - 3)",
		"TRUE AND FALSE",
		"IF TRUE THEN 1 ELSE 2 FI",
		"CASE 2 IN 10, 20 OUT 0 ESAC",
		"FOR k FROM 2 BY 2 TO 8 DO SKIP OD",
		"(1; 2)",
		"(1, 2, 3)",
		"REAL (1)",
	}
	p := NewCodePrinter()
	for _, src := range sources {
		if got := p.Print(analyze(t, src)); got != src {
			t.Errorf("Print = %q, want %q", got, src)
		}
	}
}

func TestCoercionsStayInvisible(t *testing.T) {
	p := NewCodePrinter()
	root := analyze(t, "BEGIN INT x; x + 1 END")
	// the analyzer wrapped x in a dereference; the echo must not show it
	if got := p.Print(root.List[1]); got != "x + 1" {
		t.Errorf("Print = %q", got)
	}
}

func TestStatementForms(t *testing.T) {
	cases := []struct {
		src  string
		i    int
		want string
	}{
		{"BEGIN [1:5] INT x; INT i; x[i + 1] := 0 END", 2, "x[i + 1] := 0"},
		{"BEGIN COMPL z; re OF z := 1.0 END", 1, "re OF z := 1.0"},
		{"BEGIN INT x; x :/=: NIL END", 1, "x :/=: NIL"},
		{"BEGIN INT x; x :=: x END", 1, "x :=: x"},
	}
	p := NewCodePrinter()
	for _, c := range cases {
		root := analyze(t, c.src)
		if got := p.Print(root.List[c.i]); got != c.want {
			t.Errorf("Print(%q phrase %d) = %q, want %q", c.src, c.i, got, c.want)
		}
	}
}

func TestDenotationForms(t *testing.T) {
	cases := []struct{ src, want string }{
		{"TRUE", "TRUE"},
		{"FALSE", "FALSE"},
		{"16rff", "16rff"},
		{`"a"`, `"a"`},
		{"3.14", "3.14"},
	}
	p := NewCodePrinter()
	for _, c := range cases {
		if got := p.Print(analyze(t, c.src)); got != c.want {
			t.Errorf("Print(%s) = %q, want %q", c.src, got, c.want)
		}
	}
}

func TestDeclarationsInClauses(t *testing.T) {
	p := NewCodePrinter()
	root := analyze(t, "BEGIN INT x; x END")
	if got := p.Print(root); got != "(INT x; x)" {
		t.Errorf("Print = %q", got)
	}
	root = analyze(t, "BEGIN INT c = 6; c END")
	if got := p.Print(root); got != "(INT c = 6; c)" {
		t.Errorf("Print = %q", got)
	}
}
