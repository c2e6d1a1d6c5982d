package unitc

import (
	"strings"
	"testing"

	"github.com/a68go/a68go/internal/analyzer"
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/parser"
	"github.com/a68go/a68go/internal/pipeline"
)

// analyze runs the frontend over a source string and returns the annotated
// program root.
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

func countOccurrences(s, sub string) int {
	return strings.Count(s, sub)
}
