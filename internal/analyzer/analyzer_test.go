package analyzer

import (
	"testing"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/parser"
	"github.com/a68go/a68go/internal/pipeline"
)

func analyze(t *testing.T, src string) *ast.Node {
	t.Helper()
	ctx := analyzeCtx(t, src)
	if len(ctx.Errors) > 0 {
		t.Fatalf("analyze %q: %v", src, ctx.Errors[0])
	}
	return ctx.AstRoot
}

func analyzeCtx(t *testing.T, src string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	(&lexer.LexerProcessor{}).Process(ctx)
	(&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse %q: %v", src, ctx.Errors[0])
	}
	(&AnalyzerProcessor{}).Process(ctx)
	return ctx
}

func analyzeErrors(t *testing.T, src string) []string {
	t.Helper()
	ctx := analyzeCtx(t, src)
	var msgs []string
	for _, e := range ctx.Errors {
		msgs = append(msgs, e.Error())
	}
	if len(msgs) == 0 {
		t.Fatalf("analyze %q: expected a diagnostic", src)
	}
	return msgs
}

func TestResolutionAndSlots(t *testing.T) {
	root := analyze(t, "BEGIN INT x := 1; INT y := 2; x + y END")
	if root.Slots != 2 {
		t.Fatalf("program frame has %d slots, want 2", root.Slots)
	}
	sum := root.List[2]
	left := sum.Left
	// variables are dereferenced in operand position
	if left.Kind != ast.KindDereference {
		t.Fatalf("operand is %s, want dereference", left.Kind)
	}
	x := left.Sub
	if x.Decl == nil || x.Level != 0 || x.Offset != 0 {
		t.Errorf("x resolved to level %d offset %d", x.Level, x.Offset)
	}
	y := sum.Right.Sub
	if y.Offset != 1 {
		t.Errorf("y at offset %d, want 1", y.Offset)
	}
}

func TestVariableModeIsReference(t *testing.T) {
	root := analyze(t, "BEGIN INT x; x := 3 END")
	asg := root.List[1]
	dst := asg.Left
	if dst.Mode.Class != mode.REF || dst.Mode.To.Class != mode.INT {
		t.Fatalf("destination mode %s, want REF INT", dst.Mode)
	}
	if asg.Mode.Class != mode.VOID {
		t.Errorf("assignment mode %s, want VOID", asg.Mode)
	}
}

func TestWideningInsertion(t *testing.T) {
	root := analyze(t, "BEGIN REAL r; r := 1 END")
	src := root.List[1].Right
	if src.Kind != ast.KindCast || src.Mode.Class != mode.REAL {
		t.Fatalf("INT source not widened: %s %s", src.Kind, src.Mode)
	}
	if src.Sub.Kind != ast.KindDenotation {
		t.Errorf("widening wraps %s", src.Sub.Kind)
	}
}

func TestFormulaBalancing(t *testing.T) {
	n := analyze(t, "1.5 + 2")
	if n.Mode.Class != mode.REAL {
		t.Fatalf("REAL + INT has mode %s", n.Mode)
	}
	if n.Right.Kind != ast.KindCast {
		t.Errorf("INT operand not widened, got %s", n.Right.Kind)
	}
}

func TestComparisonYieldsBool(t *testing.T) {
	n := analyze(t, "1 < 2")
	if n.Mode.Class != mode.BOOL {
		t.Errorf("comparison mode %s", n.Mode)
	}
}

func TestProcScopesOwnFrames(t *testing.T) {
	root := analyze(t, "BEGIN INT a := 1; PROC f = (INT n) INT: n + a; f(2) END")
	f := root.List[1]
	if f.Slots != 1 {
		t.Errorf("proc frame has %d slots, want 1", f.Slots)
	}
	body := f.BodyPart
	n := body.Left
	if n.Kind != ast.KindIdentifier || n.Level != 0 {
		t.Errorf("parameter use at level %d", n.Level)
	}
	aUse := body.Right.Sub
	if aUse.Level != 1 {
		t.Errorf("outer variable use at level %d, want 1", aUse.Level)
	}
}

func TestIdentityBinding(t *testing.T) {
	root := analyze(t, "BEGIN INT c = 41; c + 1 END")
	use := root.List[1].Left
	if use.Kind != ast.KindIdentifier {
		t.Fatalf("identity-bound use is %s", use.Kind)
	}
	if use.Binding == nil || use.Binding.Kind != ast.KindDenotation {
		t.Errorf("binding not recorded")
	}
	if use.Mode.Class != mode.INT {
		t.Errorf("identity-bound mode %s, want INT", use.Mode)
	}
}

func TestStandardPrelude(t *testing.T) {
	n := analyze(t, "pi")
	if n.StdName != "pi" || n.Mode.Class != mode.REAL {
		t.Errorf("pi: std %q mode %s", n.StdName, n.Mode)
	}
	call := analyze(t, "sqrt(2.0)")
	if call.Sub.StdName != "sqrt" || call.Mode.Class != mode.REAL {
		t.Errorf("sqrt call: std %q mode %s", call.Sub.StdName, call.Mode)
	}
	// INT argument widens to the REAL parameter
	call = analyze(t, "sqrt(2)")
	if call.List[0].Kind != ast.KindCast {
		t.Errorf("sqrt(2) argument is %s, want widening cast", call.List[0].Kind)
	}
}

func TestSliceModes(t *testing.T) {
	root := analyze(t, "BEGIN [1:5] INT x; x[2] END")
	tail := root.List[1]
	if tail.Kind != ast.KindDereference {
		t.Fatalf("slice in the clause tail is %s, want dereference", tail.Kind)
	}
	sl := tail.Sub
	if sl.Mode.Class != mode.REF || sl.Mode.To.Class != mode.INT {
		t.Fatalf("slice of a row variable has mode %s, want REF INT", sl.Mode)
	}
	root = analyze(t, "BEGIN [1:5] INT x; INT v; v := x[2] END")
	src := root.List[2].Right
	if src.Kind != ast.KindDereference {
		t.Errorf("slice in value position is %s, want dereference", src.Kind)
	}
}

func TestSelectionModes(t *testing.T) {
	root := analyze(t, "BEGIN COMPL z; re OF z := 1.0; re OF z END")
	store := root.List[1].Left
	if store.Mode.Class != mode.REF || store.Mode.To.Class != mode.REAL {
		t.Errorf("selection destination mode %s", store.Mode)
	}
}

func TestLoopVariableScope(t *testing.T) {
	root := analyze(t, "BEGIN INT s := 0; FOR k TO 3 DO s := s + k OD END")
	loop := root.List[1]
	if loop.LoopVar.Offset != 1 {
		t.Errorf("loop counter at offset %d, want 1", loop.LoopVar.Offset)
	}
	body := loop.BodyPart
	k := body.Right.Right
	if k.Kind != ast.KindIdentifier || k.Mode.Class != mode.INT || k.Level != 0 {
		t.Errorf("counter use: %s mode %s level %d", k.Kind, k.Mode, k.Level)
	}
}

func TestConditionalBalancing(t *testing.T) {
	n := analyze(t, "BEGIN BOOL b := TRUE; IF b THEN 1 ELSE 2.5 FI END")
	cond := n.List[1]
	if cond.Mode.Class != mode.REAL {
		t.Fatalf("balanced conditional mode %s, want REAL", cond.Mode)
	}
	if cond.ThenPart.Kind != ast.KindCast {
		t.Errorf("INT arm not widened")
	}

	n = analyze(t, "BEGIN BOOL b := TRUE; IF b THEN 1 FI END")
	if n.List[1].Mode.Class != mode.INT {
		t.Errorf("conditional without ELSE has mode %s, want the THEN mode", n.List[1].Mode)
	}
}

func TestClauseTailYieldsValue(t *testing.T) {
	root := analyze(t, "BEGIN INT x := 1; x := x + 41; x END")
	if root.Mode.Class != mode.INT {
		t.Fatalf("program mode %s, want INT", root.Mode)
	}
	tail := root.List[len(root.List)-1]
	if tail.Kind != ast.KindDereference {
		t.Errorf("variable tail is %s, want dereference", tail.Kind)
	}

	// a void tail stays as it is
	root = analyze(t, "BEGIN INT x; x := 1 END")
	if root.Mode.Class != mode.VOID {
		t.Errorf("program mode %s, want VOID", root.Mode)
	}
}

func TestCastOperandStaysBare(t *testing.T) {
	n := analyze(t, "REAL (1)")
	if n.Kind != ast.KindCast || n.Mode.Class != mode.REAL {
		t.Fatalf("cast analyzed as %s %s", n.Kind, n.Mode)
	}
	if n.Sub.Kind != ast.KindDenotation {
		t.Errorf("cast operand is %s, want the bare denotation", n.Sub.Kind)
	}

	n = analyze(t, "COMPL (1.5)")
	if n.Sub.Kind != ast.KindDenotation {
		t.Errorf("COMPL cast operand is %s, want the bare denotation", n.Sub.Kind)
	}
}

func TestStableIDs(t *testing.T) {
	root := analyze(t, "1 + 2")
	seen := map[int]bool{}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.ID == 0 {
			t.Errorf("%s has no id", n.Kind)
		}
		if seen[n.ID] {
			t.Errorf("duplicate id %d", n.ID)
		}
		seen[n.ID] = true
		walk(n.Left)
		walk(n.Right)
	}
	walk(root)
}

func TestDiagnostics(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"nope + 1", "unknown identifier"},
		{"BEGIN BOOL b; b := 1 END", "cannot assign"},
		{"1 := 2", "non-reference"},
		{"BEGIN [1:5] INT x; x[1, 2] END", "subscripts for"},
		{"IF 1 THEN 2 FI", "needs BOOL"},
		{"BEGIN INT x; x(1) END", "non-procedure"},
		{"BEGIN COMPL z; foo OF z END", "no field"},
	}
	for _, c := range cases {
		msgs := analyzeErrors(t, c.src)
		found := false
		for _, m := range msgs {
			if contains(m, c.want) {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: diagnostics %v lack %q", c.src, msgs, c.want)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
