package unitc

import (
	"strconv"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
)

// Clause emission. Each clause clears value bookings on every arm boundary:
// a temporary computed on one control-flow path must never satisfy a lookup
// on another.

func (e *Emitter) declareConditional(n *ast.Node) {
	e.Declare(n.Cond)
	e.Declare(n.ThenPart)
	if n.ElsePart != nil {
		e.Declare(n.ElsePart)
	}
	if n.Mode.Class != mode.VOID && n.Mode.IsFoldable() {
		e.ctx.NamedTemps(valueKey(n), [2]string{"t", goType(n.Mode)})
	}
}

func (e *Emitter) executeConditional(n *ast.Node) {
	void := n.Mode.Class == mode.VOID
	key := valueKey(n)
	if !void {
		if _, done := e.ctx.Lookup(bookTemp, key, PhaseExecute); done {
			return
		}
	}

	e.Execute(n.Cond)
	cond := e.Yield(n.Cond)

	if n.ElsePart == nil && !void {
		// A value-yielding conditional without an alternative: the
		// condition is still evaluated, but the THEN value stands whatever
		// it says. Kept for compatibility with the original translator.
		tmp := e.ctx.NamedTemps(key)[0]
		e.ctx.Line("_ = %s", cond)
		e.ctx.Clear()
		e.Execute(n.ThenPart)
		e.ctx.Line("%s = %s", tmp, e.Yield(n.ThenPart))
		e.ctx.Clear()
		e.ctx.Book(bookTemp, PhaseExecute, key, tmp)
		return
	}

	e.ctx.Line("if %s {", cond)
	e.ctx.Indent()
	e.ctx.Clear()
	e.Execute(n.ThenPart)
	e.armResult(n, n.ThenPart)
	e.ctx.Outdent()
	e.ctx.Clear()
	if n.ElsePart != nil {
		e.ctx.Line("} else {")
		e.ctx.Indent()
		e.Execute(n.ElsePart)
		e.armResult(n, n.ElsePart)
		e.ctx.Outdent()
		e.ctx.Clear()
	}
	e.ctx.Line("}")
	if !void {
		e.ctx.Book(bookTemp, PhaseExecute, key, e.ctx.NamedTemps(valueKey(n))[0])
	}
}

// armResult finishes one arm: assign the clause temporary, or discard a
// value the void clause has no use for.
func (e *Emitter) armResult(clause, arm *ast.Node) {
	y := e.Yield(arm)
	if y == "" {
		return
	}
	if clause.Mode.Class == mode.VOID {
		e.ctx.Line("_ = %s", y)
		return
	}
	e.ctx.Line("%s = %s", e.ctx.NamedTemps(valueKey(clause))[0], y)
}

func (e *Emitter) declareCase(n *ast.Node) {
	e.Declare(n.Cond)
	for _, alt := range n.List {
		e.Declare(alt)
	}
	if n.ElsePart != nil {
		e.Declare(n.ElsePart)
	}
	if n.Mode.Class != mode.VOID && n.Mode.IsFoldable() {
		e.ctx.NamedTemps(valueKey(n), [2]string{"t", goType(n.Mode)})
	}
}

func (e *Emitter) executeCase(n *ast.Node) {
	void := n.Mode.Class == mode.VOID
	key := valueKey(n)
	if !void {
		if _, done := e.ctx.Lookup(bookTemp, key, PhaseExecute); done {
			return
		}
	}

	e.Execute(n.Cond)
	e.ctx.Line("switch %s {", e.Yield(n.Cond))
	for i, alt := range n.List {
		e.ctx.Line("case %d:", i+1)
		e.ctx.Indent()
		e.ctx.Clear()
		e.Execute(alt)
		e.armResult(n, alt)
		e.ctx.Outdent()
	}
	if n.ElsePart != nil {
		e.ctx.Line("default:")
		e.ctx.Indent()
		e.ctx.Clear()
		e.Execute(n.ElsePart)
		e.armResult(n, n.ElsePart)
		e.ctx.Outdent()
	}
	e.ctx.Line("}")
	e.ctx.Clear()
	if !void {
		e.ctx.Book(bookTemp, PhaseExecute, key, e.ctx.NamedTemps(key)[0])
	}
}

func (e *Emitter) declareLoop(n *ast.Node) {
	e.Declare(n.FromPart)
	if n.ByPart != nil {
		e.Declare(n.ByPart)
		e.ctx.NamedTemps("loopby#"+strconv.Itoa(n.ID), [2]string{"b", "int64"})
	}
	if n.ToPart != nil {
		e.Declare(n.ToPart)
		e.ctx.NamedTemps("loopto#"+strconv.Itoa(n.ID), [2]string{"u", "int64"})
	}
	if n.WhilePart != nil {
		e.Declare(n.WhilePart)
	}
	e.Declare(n.BodyPart)
}

func (e *Emitter) executeLoop(n *ast.Node) {
	e.Execute(n.FromPart)
	from := "int64(1)"
	if n.FromPart != nil {
		from = "int64(" + e.Yield(n.FromPart) + ")"
	}
	by := ""
	if n.ByPart != nil {
		e.Execute(n.ByPart)
		by = e.ctx.NamedTemps("loopby#" + strconv.Itoa(n.ID))[0]
		e.ctx.Line("%s = %s", by, e.Yield(n.ByPart))
	}
	to := ""
	if n.ToPart != nil {
		e.Execute(n.ToPart)
		to = e.ctx.NamedTemps("loopto#" + strconv.Itoa(n.ID))[0]
		e.ctx.Line("%s = %s", to, e.Yield(n.ToPart))
	}

	k := e.ctx.NewTemp("k")
	step := "1"
	if by != "" {
		step = by
	}
	e.ctx.Line("for %s := %s; ; %s += %s {", k, from, k, step)
	e.ctx.Indent()
	if to != "" {
		if by != "" {
			e.ctx.Line("if (%s >= 0 && %s > %s) || (%s < 0 && %s < %s) {", by, k, to, by, k, to)
		} else {
			e.ctx.Line("if %s > %s {", k, to)
		}
		e.ctx.Indent()
		e.ctx.Line("break")
		e.ctx.Outdent()
		e.ctx.Line("}")
	}
	if n.LoopVar != nil {
		e.ctx.Line("f.SetInt(0, %d, %s)", n.LoopVar.Offset, k)
	}
	e.ctx.Clear()
	if n.WhilePart != nil {
		e.Execute(n.WhilePart)
		e.ctx.Line("if !(%s) {", e.Yield(n.WhilePart))
		e.ctx.Indent()
		e.ctx.Line("break")
		e.ctx.Outdent()
		e.ctx.Line("}")
	}
	e.Execute(n.BodyPart)
	if y := e.Yield(n.BodyPart); y != "" && n.BodyPart.Mode != nil && n.BodyPart.Mode.Class != mode.VOID {
		e.ctx.Line("_ = %s", y)
	}
	e.ctx.Outdent()
	e.ctx.Line("}")
	e.ctx.Clear()
}

func (e *Emitter) executeCollateral(n *ast.Node) {
	key := rowKey(n)
	if _, done := e.ctx.Lookup(bookTemp, key, PhaseExecute); done {
		return
	}
	for _, m := range n.List {
		e.Execute(m)
	}
	w := e.ctx.NamedTemps(key)[0]
	e.ctx.Line("%s = rt.NewRow(1, %d)", w, len(n.List))
	for i, m := range n.List {
		e.ctx.Line("%s.Elems[%d] = %s", w, i, wrapValue(e.Yield(m), m.Mode))
	}
	e.ctx.Book(bookTemp, PhaseExecute, key, w)
}
