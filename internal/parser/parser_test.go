package parser

import (
	"testing"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/lexer"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/pipeline"
)

func parse(t *testing.T, src string) *ast.Node {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	(&lexer.LexerProcessor{}).Process(ctx)
	(&ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse %q: %v", src, ctx.Errors[0])
	}
	if ctx.AstRoot == nil {
		t.Fatalf("parse %q: no tree", src)
	}
	return ctx.AstRoot
}

func parseError(t *testing.T, src string) {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	(&lexer.LexerProcessor{}).Process(ctx)
	(&ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) == 0 {
		t.Fatalf("parse %q: expected a diagnostic", src)
	}
}

func TestOperatorPriorities(t *testing.T) {
	// 2 + 3 * 4 parses as 2 + (3 * 4)
	n := parse(t, "2 + 3 * 4")
	if n.Kind != ast.KindFormula || n.Text != "+" {
		t.Fatalf("root is %s %q, want formula +", n.Kind, n.Text)
	}
	if n.Right.Kind != ast.KindFormula || n.Right.Text != "*" {
		t.Errorf("right operand is %s %q, want formula *", n.Right.Kind, n.Right.Text)
	}

	// left association: 10 - 3 - 4 parses as (10 - 3) - 4
	n = parse(t, "10 - 3 - 4")
	if n.Text != "-" || n.Left.Kind != ast.KindFormula || n.Left.Text != "-" {
		t.Errorf("subtraction does not associate left")
	}

	// OVER binds like *
	n = parse(t, "1 + 6 OVER 2")
	if n.Text != "+" || n.Right.Text != "OVER" {
		t.Errorf("OVER priority wrong: root %q right %q", n.Text, n.Right.Text)
	}
}

func TestMonadicBindsTighterThanDyadic(t *testing.T) {
	n := parse(t, "-2 + 3")
	if n.Kind != ast.KindFormula || n.Text != "+" {
		t.Fatalf("root is %s %q", n.Kind, n.Text)
	}
	if n.Left.Kind != ast.KindMonadicFormula || n.Left.Text != "-" {
		t.Errorf("left operand is %s, want monadic -", n.Left.Kind)
	}
}

func TestAssignmentAssociatesRight(t *testing.T) {
	n := parse(t, "a := b := 1")
	if n.Kind != ast.KindAssignment {
		t.Fatalf("root is %s", n.Kind)
	}
	if n.Right.Kind != ast.KindAssignment {
		t.Errorf("right side is %s, want nested assignment", n.Right.Kind)
	}
}

func TestIdentityRelation(t *testing.T) {
	n := parse(t, "a :=: b")
	if n.Kind != ast.KindIdentityRelation || n.Text != "IS" {
		t.Fatalf("got %s %q", n.Kind, n.Text)
	}
	n = parse(t, "a :/=: NIL")
	if n.Kind != ast.KindIdentityRelation || n.Text != "ISNT" {
		t.Fatalf("got %s %q", n.Kind, n.Text)
	}
	if n.Right.Kind != ast.KindNil {
		t.Errorf("right operand is %s, want nil", n.Right.Kind)
	}
}

func TestDeclarations(t *testing.T) {
	root := parse(t, "BEGIN INT x := 1; REAL y; INT c = 3; x END")
	if root.Kind != ast.KindClosedClause || len(root.List) != 4 {
		t.Fatalf("root is %s with %d phrases", root.Kind, len(root.List))
	}
	x, y, c := root.List[0], root.List[1], root.List[2]
	if x.Kind != ast.KindVariableDeclaration || x.Text != "x" || x.Sub == nil {
		t.Errorf("first phrase: %s %q", x.Kind, x.Text)
	}
	if y.Kind != ast.KindVariableDeclaration || y.Sub != nil {
		t.Errorf("uninitialized declaration has an initializer")
	}
	if c.Kind != ast.KindIdentityDeclaration || c.Text != "c" {
		t.Errorf("third phrase: %s %q", c.Kind, c.Text)
	}
}

func TestMultipleDeclarersSplit(t *testing.T) {
	root := parse(t, "BEGIN INT i, j; i END")
	decls := root.List[0]
	if decls.Kind != ast.KindClosedClause || len(decls.List) != 2 {
		t.Fatalf("shared-mode declaration did not split: %s", decls.Kind)
	}
	for _, d := range decls.List {
		if d.Kind != ast.KindVariableDeclaration {
			t.Errorf("split produced %s", d.Kind)
		}
	}
}

func TestRowDeclaration(t *testing.T) {
	root := parse(t, "BEGIN [1:10] INT x; x END")
	d := root.List[0]
	if d.Kind != ast.KindVariableDeclaration || d.Mode.Class != mode.ROW {
		t.Fatalf("row declaration parsed as %s mode %s", d.Kind, d.Mode)
	}
	if len(d.List) != 2 {
		t.Errorf("bounds list has %d units, want 2", len(d.List))
	}
}

func TestProcDeclaration(t *testing.T) {
	root := parse(t, "BEGIN PROC inc = (INT n) INT: n + 1; inc(1) END")
	d := root.List[0]
	if d.Kind != ast.KindProcDeclaration || d.Text != "inc" {
		t.Fatalf("got %s %q", d.Kind, d.Text)
	}
	if len(d.List) != 1 || d.List[0].Kind != ast.KindParameter {
		t.Fatalf("parameters: %d", len(d.List))
	}
	if d.Mode.Class != mode.PROC || d.Mode.Ret.Class != mode.INT {
		t.Errorf("proc mode %s", d.Mode)
	}
	if d.BodyPart == nil || d.BodyPart.Kind != ast.KindFormula {
		t.Errorf("body missing or wrong kind")
	}
}

func TestConditionalWithElif(t *testing.T) {
	n := parse(t, "IF a THEN 1 ELIF b THEN 2 ELSE 3 FI")
	if n.Kind != ast.KindConditionalClause {
		t.Fatalf("root is %s", n.Kind)
	}
	nested := n.ElsePart
	if nested == nil || nested.Kind != ast.KindConditionalClause {
		t.Fatalf("ELIF did not nest")
	}
	if nested.ElsePart == nil {
		t.Errorf("inner conditional lost its ELSE")
	}

	n = parse(t, "IF a THEN 1 FI")
	if n.ElsePart != nil {
		t.Errorf("omitted ELSE produced an else part")
	}
}

func TestCaseClause(t *testing.T) {
	n := parse(t, "CASE k IN 10, 20, 30 OUT 0 ESAC")
	if n.Kind != ast.KindCaseClause || len(n.List) != 3 || n.ElsePart == nil {
		t.Fatalf("case: %s, %d alternatives, out %v", n.Kind, len(n.List), n.ElsePart != nil)
	}
}

func TestLoopParts(t *testing.T) {
	n := parse(t, "FOR k FROM 2 BY 3 TO 11 WHILE k < 9 DO x := k OD")
	if n.Kind != ast.KindLoopClause {
		t.Fatalf("root is %s", n.Kind)
	}
	if n.LoopVar == nil || n.LoopVar.Text != "k" {
		t.Errorf("loop variable missing")
	}
	for name, part := range map[string]*ast.Node{
		"from": n.FromPart, "by": n.ByPart, "to": n.ToPart,
		"while": n.WhilePart, "body": n.BodyPart,
	} {
		if part == nil {
			t.Errorf("%s part missing", name)
		}
	}

	n = parse(t, "TO 5 DO SKIP OD")
	if n.LoopVar != nil || n.FromPart != nil || n.ToPart == nil {
		t.Errorf("TO-only loop parsed wrong")
	}
}

func TestEnclosedClauses(t *testing.T) {
	n := parse(t, "(1, 2, 3)")
	if n.Kind != ast.KindCollateralClause || len(n.List) != 3 {
		t.Fatalf("collateral: %s with %d members", n.Kind, len(n.List))
	}

	n = parse(t, "(1; 2; 3)")
	if n.Kind != ast.KindClosedClause || len(n.List) != 3 {
		t.Fatalf("closed: %s with %d units", n.Kind, len(n.List))
	}

	// a single parenthesized unit collapses
	n = parse(t, "(1 + 2)")
	if n.Kind != ast.KindFormula {
		t.Errorf("parenthesized formula is %s", n.Kind)
	}
}

func TestCastVersusDeclaration(t *testing.T) {
	n := parse(t, "REAL (1)")
	if n.Kind != ast.KindCast || n.Mode.Class != mode.REAL {
		t.Fatalf("cast parsed as %s", n.Kind)
	}
	root := parse(t, "BEGIN REAL r; r END")
	if root.List[0].Kind != ast.KindVariableDeclaration {
		t.Errorf("declaration parsed as %s", root.List[0].Kind)
	}
}

func TestSliceAndTrimmer(t *testing.T) {
	n := parse(t, "x[i, j + 1]")
	if n.Kind != ast.KindSlice || len(n.List) != 2 {
		t.Fatalf("slice: %s with %d indexes", n.Kind, len(n.List))
	}

	n = parse(t, "x[2:5]")
	if n.List[0].Kind != ast.KindTrimmer {
		t.Errorf("trimmer index parsed as %s", n.List[0].Kind)
	}
}

func TestSelection(t *testing.T) {
	n := parse(t, "re OF z")
	if n.Kind != ast.KindSelection || n.Text != "re" {
		t.Fatalf("selection: %s %q", n.Kind, n.Text)
	}
}

func TestParseErrors(t *testing.T) {
	parseError(t, "IF a THEN 1")   // missing FI
	parseError(t, "x := ")         // missing source
	parseError(t, "[1:10 INT x")   // missing bracket
	parseError(t, "PROC f = INT:") // missing body
}
