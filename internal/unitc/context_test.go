package unitc

import (
	"strings"
	"testing"

	"github.com/a68go/a68go/internal/config"
)

func TestBookingLookupByPhase(t *testing.T) {
	c := NewCompilerContext()
	c.Book(bookTemp, PhaseDeclare, "k", "t0")
	if _, ok := c.Lookup(bookTemp, "k", PhaseExecute); ok {
		t.Errorf("declare-phase booking satisfied an execute-phase lookup")
	}
	if info, ok := c.Lookup(bookTemp, "k", PhaseDeclare); !ok || info != "t0" {
		t.Errorf("declare lookup = %q (%v)", info, ok)
	}

	c.Book(bookTemp, PhaseExecute, "k", "t1")
	if info, ok := c.Lookup(bookTemp, "k", PhaseExecute); !ok || info != "t1" {
		t.Errorf("execute lookup = %q (%v), want most recent t1", info, ok)
	}
}

func TestBookingActionsDoNotMix(t *testing.T) {
	c := NewCompilerContext()
	c.Book(bookSlice, PhaseExecute, "k", "r0 x1")
	if _, ok := c.Lookup(bookCall, "k", PhaseExecute); ok {
		t.Errorf("slice booking satisfied a call lookup")
	}
}

func TestClearDropsOnlyValueBookings(t *testing.T) {
	c := NewCompilerContext()
	c.Book(bookTemp, PhaseDeclare, "decl", "t0")
	c.Book(bookSlice, PhaseExecute, "slice", "r0 x1")
	c.Book(bookTemp, PhaseExecute, "val", "t2")
	c.Clear()
	if c.Entries() != 1 {
		t.Fatalf("%d entries after clear, want 1", c.Entries())
	}
	if _, ok := c.Lookup(bookTemp, "decl", PhaseDeclare); !ok {
		t.Errorf("declare-phase booking lost on clear")
	}
	if _, ok := c.Lookup(bookSlice, "slice", PhaseExecute); ok {
		t.Errorf("execute-phase booking survived clear")
	}
}

func TestBookingCapacityDegradesToMiss(t *testing.T) {
	c := NewCompilerContext()
	for i := 0; i < config.BookingCapacity; i++ {
		c.Book(bookTemp, PhaseExecute, "k"+string(rune('a'+i%26))+string(rune('0'+i%10)), "t")
	}
	if c.Entries() != config.BookingCapacity {
		t.Fatalf("%d entries, want %d", c.Entries(), config.BookingCapacity)
	}
	c.Book(bookTemp, PhaseExecute, "overflow", "t")
	if c.Entries() != config.BookingCapacity {
		t.Errorf("booking past capacity grew the table")
	}
	if _, ok := c.Lookup(bookTemp, "overflow", PhaseExecute); ok {
		t.Errorf("booking past capacity is visible")
	}
}

func TestNamedTempsSurviveCapacity(t *testing.T) {
	c := NewCompilerContext()
	for i := 0; i < config.BookingCapacity; i++ {
		c.Book(bookTemp, PhaseExecute, "filler", "t")
	}
	first := c.NamedTemps("slice-key", [2]string{"r", "*rt.Row"}, [2]string{"x", "int"})
	if len(first) != 2 {
		t.Fatalf("minted %d temps, want 2", len(first))
	}
	again := c.NamedTemps("slice-key")
	if first[0] != again[0] || first[1] != again[1] {
		t.Errorf("name resolution changed past capacity: %v then %v", first, again)
	}
}

func TestNewTempNamesAreFresh(t *testing.T) {
	c := NewCompilerContext()
	a := c.NewTemp("t")
	b := c.NewTemp("t")
	r := c.NewTemp("r")
	if a == b || a == r || b == r {
		t.Errorf("temp names collide: %s %s %s", a, b, r)
	}
}

func TestDeclareDeduplicates(t *testing.T) {
	c := NewCompilerContext()
	c.Declare("t0", "int64")
	c.Declare("t0", "int64")
	c.Declare("r0", "*rt.Row")
	out := c.Render("_f", "")
	if strings.Count(out, "var t0 int64") != 1 {
		t.Errorf("duplicate declaration emitted:\n%s", out)
	}
	if !strings.Contains(out, "var r0 *rt.Row") {
		t.Errorf("declaration missing:\n%s", out)
	}
}

func TestRenderShape(t *testing.T) {
	c := NewCompilerContext()
	c.Declare("t0", "int64")
	c.Line("t0 = 1")
	c.Line("if t0 > 0 {")
	c.Indent()
	c.Line("t0 = 2")
	c.Outdent()
	c.Line("}")
	out := c.Render("_formula_7", "1 + 2")

	want := "// 1 + 2\n" +
		"func _formula_7(f *rt.Frame, s *rt.Stack) {\n" +
		"\tvar t0 int64\n" +
		"\tt0 = 1\n" +
		"\tif t0 > 0 {\n" +
		"\t\tt0 = 2\n" +
		"\t}\n" +
		"}\n"
	if out != want {
		t.Errorf("rendered unit:\n%s\nwant:\n%s", out, want)
	}
}

func TestPhaseNames(t *testing.T) {
	names := map[Phase]string{
		PhaseDeclare: "DECLARE",
		PhaseExecute: "EXECUTE",
		PhaseYield:   "YIELD",
		PhasePush:    "PUSH",
	}
	for p, want := range names {
		if p.String() != want {
			t.Errorf("%d.String() = %q, want %q", p, p.String(), want)
		}
	}
}
