package backend

import (
	"bytes"
	"strings"
	"testing"

	"github.com/a68go/a68go/internal/analyzer"
	"github.com/a68go/a68go/internal/genie"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/parser"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/rt"
	"github.com/a68go/a68go/internal/unitc"
)

// frontend runs lexing, parsing and analysis over a source string.
func frontend(t *testing.T, src string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	(&lexer.LexerProcessor{}).Process(ctx)
	(&parser.ParserProcessor{}).Process(ctx)
	(&analyzer.AnalyzerProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("frontend %q: %v", src, ctx.Errors[0])
	}
	return ctx
}

func TestBackendsAgree(t *testing.T) {
	programs := []string{
		"print(2 + 3 * 4)",
		"BEGIN INT s := 0; FOR k TO 5 DO s := s + k OD; print(s) END",
		"BEGIN [1:4] INT x; FOR k TO 4 DO x[k] := k * k OD; print(x[3] + x[4]) END",
		"BEGIN PROC sq = (INT n) INT: n * n; print(sq(7)) END",
		"BEGIN INT n := 1; WHILE n < 100 DO n := n * 3 OD; print(n) END",
	}
	for _, src := range programs {
		unitc.ResetDenotationMemo()

		var plain bytes.Buffer
		tw := &TreeWalkBackend{Out: &plain}
		if _, err := tw.Run(frontend(t, src)); err != nil {
			t.Fatalf("tree-walk %q: %v", src, err)
		}

		var opt bytes.Buffer
		ob := &OptimizingBackend{Out: &opt}
		if _, err := ob.Run(frontend(t, src)); err != nil {
			t.Fatalf("optimizing %q: %v", src, err)
		}

		if plain.String() != opt.String() {
			t.Errorf("%q: tree-walk printed %q, optimizing printed %q",
				src, plain.String(), opt.String())
		}
	}
}

func TestOptimizingPopulatesContext(t *testing.T) {
	unitc.ResetDenotationMemo()
	ctx := frontend(t, "BEGIN INT x; x := 2 + 3 END")
	ob := &OptimizingBackend{Out: &bytes.Buffer{}}
	if _, err := ob.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(ctx.CompiledUnits) == 0 {
		t.Fatalf("no compiled units recorded")
	}
	if !strings.Contains(string(ctx.EmittedSource), "package units") {
		t.Errorf("emitted source not captured:\n%s", ctx.EmittedSource)
	}
}

func TestOptimizingRefusalLeavesContextEmpty(t *testing.T) {
	unitc.ResetDenotationMemo()
	ctx := frontend(t, "SKIP")
	ob := &OptimizingBackend{Out: &bytes.Buffer{}}
	if _, err := ob.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if ctx.EmittedSource != nil || ctx.CompiledUnits != nil {
		t.Errorf("refused program left %q, %v", ctx.EmittedSource, ctx.CompiledUnits)
	}
}

type countingMemo struct {
	gets, puts int
	m          map[string]string
}

func (c *countingMemo) Get(sig string) (string, bool) {
	c.gets++
	name, ok := c.m[sig]
	return name, ok
}

func (c *countingMemo) Put(sig, name string) {
	c.puts++
	c.m[sig] = name
}

func TestOptimizingUsesInjectedMemo(t *testing.T) {
	memo := &countingMemo{m: map[string]string{}}
	ob := &OptimizingBackend{Out: &bytes.Buffer{}, Memo: memo}
	if _, err := ob.Run(frontend(t, "42")); err != nil {
		t.Fatalf("run: %v", err)
	}
	if memo.gets == 0 || memo.puts == 0 {
		t.Errorf("injected memo unused: %d gets, %d puts", memo.gets, memo.puts)
	}
}

func TestDispatchRunsLinkedUnits(t *testing.T) {
	defer rt.ResetRegistry()
	unitc.ResetDenotationMemo()

	root := frontend(t, "2 + 3").AstRoot
	d := unitc.NewDriver(rt.NewStack())
	d.CompileProgram(root)
	name := root.CompiledName()
	if name == "" {
		t.Fatalf("formula not compiled")
	}

	// stand in for the linked unit: the observable result is whatever the
	// registered function pushes
	rt.Register(name, func(f *rt.Frame, s *rt.Stack) {
		s.PushInt(99)
	})

	g := genie.New()
	g.Out = &bytes.Buffer{}
	g.Dispatch = true
	v, err := g.Run(root)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v != rt.IntVal(99) {
		t.Errorf("dispatched unit yielded %v, want 99", v)
	}
}

func TestDispatchFallsBackWhenUnlinked(t *testing.T) {
	defer rt.ResetRegistry()
	unitc.ResetDenotationMemo()

	root := frontend(t, "2 + 3").AstRoot
	d := unitc.NewDriver(rt.NewStack())
	d.CompileProgram(root)

	g := genie.New()
	g.Out = &bytes.Buffer{}
	g.Dispatch = true
	v, err := g.Run(root)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v != rt.IntVal(5) {
		t.Errorf("unlinked unit yielded %v, want interpreted 5", v)
	}
}

func TestExecutionProcessorConvertsFaults(t *testing.T) {
	ctx := frontend(t, "1 OVER 0")
	p := NewExecutionProcessor(&TreeWalkBackend{Out: &bytes.Buffer{}})
	p.Process(ctx)
	if len(ctx.Errors) != 1 {
		t.Fatalf("%d errors, want 1", len(ctx.Errors))
	}
	if !strings.Contains(ctx.Errors[0].Error(), "division by zero") {
		t.Errorf("error %q", ctx.Errors[0].Error())
	}
}

func TestExecutionProcessorSkipsFailedFrontend(t *testing.T) {
	ctx := pipeline.NewPipelineContext("IF x THEN")
	(&lexer.LexerProcessor{}).Process(ctx)
	(&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 {
		t.Fatalf("broken program produced no frontend errors")
	}
	before := len(ctx.Errors)
	p := NewExecutionProcessor(&TreeWalkBackend{Out: &bytes.Buffer{}})
	p.Process(ctx)
	if len(ctx.Errors) != before {
		t.Errorf("execution ran despite frontend errors")
	}
}

func TestBackendNames(t *testing.T) {
	if NewTreeWalk().Name() != "tree-walk" {
		t.Errorf("tree-walk name %q", NewTreeWalk().Name())
	}
	if NewOptimizing().Name() != "optimizing" {
		t.Errorf("optimizing name %q", NewOptimizing().Name())
	}
}
