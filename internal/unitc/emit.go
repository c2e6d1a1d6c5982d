package unitc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
)

// Emitter renders one basic unit as a Go function body, in four phases:
// DECLARE allocates and registers temporaries, EXECUTE emits statements
// computing them, YIELD renders the unit's value as a side-effect-free
// expression over those temporaries, and PUSH leaves the value on the
// shared stack. Phases always run in that order, once each, per unit.
type Emitter struct {
	ctx  *CompilerContext
	cls  *Classifier
	fold *Folder
}

func NewEmitter(ctx *CompilerContext, cls *Classifier, fold *Folder) *Emitter {
	return &Emitter{ctx: ctx, cls: cls, fold: fold}
}

func pos(n *ast.Node) [2]int {
	return [2]int{n.Tok.Line, n.Tok.Column}
}

// constant folds n when possible, rendering the folded value as a literal.
func (e *Emitter) constant(n *ast.Node) (string, bool) {
	if v, ok := e.fold.Fold(n); ok {
		return literal(v), true
	}
	return "", false
}

// Declare walks the unit and registers every temporary its execution needs.
func (e *Emitter) Declare(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindDenotation, ast.KindNil, ast.KindSkip, ast.KindIdentifier,
		ast.KindIdentityRelation, ast.KindSelection:
		// no temporaries

	case ast.KindDereference:
		e.Declare(n.Sub)

	case ast.KindFormula:
		e.Declare(n.Left)
		e.Declare(n.Right)

	case ast.KindMonadicFormula, ast.KindCast:
		e.Declare(n.Sub)

	case ast.KindSlice:
		for _, ix := range n.List {
			e.Declare(ix)
		}
		e.ctx.NamedTemps(sliceKey(n), [2]string{"r", "*rt.Row"}, [2]string{"x", "int"})

	case ast.KindCall:
		for _, a := range n.List {
			e.Declare(a)
		}
		if n.Sub.StdName != "" {
			return
		}
		specs := [][2]string{{"q", "*rt.Proc"}, {"g", "*rt.Frame"}}
		if ret := n.Sub.Mode.Ret; ret != nil && ret.Class != mode.VOID {
			specs = append(specs, [2]string{"t", goType(ret)})
		}
		e.ctx.NamedTemps(callKey(n), specs...)

	case ast.KindCollateralClause:
		for _, m := range n.List {
			e.Declare(m)
		}
		e.ctx.NamedTemps(rowKey(n), [2]string{"w", "*rt.Row"})

	case ast.KindClosedClause:
		if len(n.List) == 1 {
			e.Declare(n.List[0])
		}

	case ast.KindConditionalClause:
		e.declareConditional(n)

	case ast.KindCaseClause:
		e.declareCase(n)

	case ast.KindLoopClause:
		e.declareLoop(n)

	case ast.KindAssignment:
		e.Declare(n.Left)
		e.Declare(n.Right)
	}
}

// Execute emits the statements computing every temporary of the unit.
func (e *Emitter) Execute(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindDenotation, ast.KindNil, ast.KindSkip, ast.KindIdentifier,
		ast.KindIdentityRelation, ast.KindSelection:
		// pure

	case ast.KindDereference:
		e.Execute(n.Sub)

	case ast.KindFormula:
		e.Execute(n.Left)
		e.Execute(n.Right)

	case ast.KindMonadicFormula, ast.KindCast:
		e.Execute(n.Sub)

	case ast.KindSlice:
		e.executeSlice(n)

	case ast.KindCall:
		e.executeCall(n)

	case ast.KindCollateralClause:
		e.executeCollateral(n)

	case ast.KindClosedClause:
		if len(n.List) == 1 {
			e.Execute(n.List[0])
		}

	case ast.KindConditionalClause:
		e.executeConditional(n)

	case ast.KindCaseClause:
		e.executeCase(n)

	case ast.KindLoopClause:
		e.executeLoop(n)

	case ast.KindAssignment:
		e.executeAssignment(n)
	}
}

// Yield renders the unit's value as an expression. Constant units fold to
// literals; everything else composes fragments over temporaries and frame
// accessors. Void units yield the empty fragment.
func (e *Emitter) Yield(n *ast.Node) string {
	if n == nil {
		return ""
	}
	if lit, ok := e.constant(n); ok {
		return lit
	}

	switch n.Kind {
	case ast.KindDenotation:
		return literal(denotationValue(n))

	case ast.KindIdentifier:
		return e.identYield(n)

	case ast.KindDereference:
		return e.derefYield(n)

	case ast.KindFormula:
		fr, _ := dyadicFragment(n)
		return fr.render(pos(n), e.Yield(n.Left), e.Yield(n.Right))

	case ast.KindMonadicFormula:
		fr, _ := monadicFragment(n)
		return fr.render(pos(n), e.Yield(n.Sub))

	case ast.KindCall:
		return e.callYield(n)

	case ast.KindSlice:
		return e.sliceYield(n)

	case ast.KindSelection:
		return e.selectionYield(n)

	case ast.KindClosedClause:
		if len(n.List) == 1 {
			return e.Yield(n.List[0])
		}

	case ast.KindCollateralClause:
		return e.ctx.NamedTemps(rowKey(n))[0]

	case ast.KindConditionalClause, ast.KindCaseClause:
		if n.Mode.Class == mode.VOID {
			return ""
		}
		return e.ctx.NamedTemps(valueKey(n))[0]

	case ast.KindIdentityRelation:
		expr := fmt.Sprintf("rt.SameRef(%s, %s)", e.refYield(n.Left), e.refYield(n.Right))
		if n.Text == "ISNT" {
			expr = "!" + expr
		}
		return expr

	case ast.KindCast:
		return e.castYield(n)
	}

	return ""
}

// Push leaves the unit's yielded value on the shared stack. This is the
// top-level phase: exactly one push per compiled unit, matching what the
// interpreter's dispatch pops.
func (e *Emitter) Push(n *ast.Node) {
	y := e.Yield(n)
	if y == "" || n.Mode == nil || n.Mode.Class == mode.VOID {
		e.ctx.Line("s.PushVoid()")
		return
	}
	switch n.Mode.Class {
	case mode.INT:
		e.ctx.Line("s.PushInt(%s)", y)
	case mode.REAL:
		e.ctx.Line("s.PushReal(%s)", y)
	case mode.BOOL:
		e.ctx.Line("s.PushBool(%s)", y)
	case mode.CHAR:
		e.ctx.Line("s.PushChar(%s)", y)
	case mode.BITS:
		e.ctx.Line("s.PushBits(%s)", y)
	default:
		// COMPL, ROW and REF fragments already are rt values
		e.ctx.Line("s.Push(%s)", y)
	}
}

// hasUserCall reports whether the subtree performs a user-procedure call.
// Two textually equal subtrees that call user code may yield different
// values, so their temporaries and bookings must never be shared.
func hasUserCall(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindCall && n.Sub != nil && n.Sub.StdName == "" {
		return true
	}
	for _, ch := range []*ast.Node{n.Left, n.Right, n.Sub, n.Cond, n.ThenPart,
		n.ElsePart, n.FromPart, n.ByPart, n.ToPart, n.WhilePart, n.BodyPart} {
		if hasUserCall(ch) {
			return true
		}
	}
	for _, ch := range n.List {
		if hasUserCall(ch) {
			return true
		}
	}
	return false
}

func callKey(n *ast.Node) string {
	return "call#" + strconv.Itoa(n.ID)
}

// valueKey names a clause's value temporary. Structural keys let equal
// call-free clauses share one computation; a call-bearing clause keys on
// its node id instead.
func valueKey(n *ast.Node) string {
	if hasUserCall(n) {
		return "val#" + strconv.Itoa(n.ID)
	}
	return "val:" + n.Signature()
}

func sliceKey(n *ast.Node) string {
	if hasUserCall(n) {
		return "slice#" + strconv.Itoa(n.ID)
	}
	return n.Signature()
}

func rowKey(n *ast.Node) string {
	if hasUserCall(n) {
		return "row#" + strconv.Itoa(n.ID)
	}
	return n.Signature()
}

func (e *Emitter) identYield(n *ast.Node) string {
	if n.StdName != "" {
		return stdConstTable[n.StdName].frag
	}
	m := n.Mode
	switch {
	case m.IsPrimitive():
		return fmt.Sprintf("f.Get%s(%d, %d)", accessorSuffix(m), n.Level, n.Offset)
	case m.Class == mode.COMPL:
		return fmt.Sprintf("rt.AsCompl(f.Get(%d, %d))", n.Level, n.Offset)
	case m.Class == mode.ROW:
		return fmt.Sprintf("f.GetRow(%d, %d)", n.Level, n.Offset)
	}
	return ""
}

func (e *Emitter) derefYield(n *ast.Node) string {
	sub := n.Sub
	switch sub.Kind {
	case ast.KindIdentifier:
		m := n.Mode
		switch {
		case m.IsPrimitive():
			return fmt.Sprintf("f.Get%s(%d, %d)", accessorSuffix(m), sub.Level, sub.Offset)
		case m.Class == mode.COMPL:
			return fmt.Sprintf("rt.AsCompl(f.Get(%d, %d))", sub.Level, sub.Offset)
		case m.Class == mode.ROW:
			return fmt.Sprintf("f.GetRow(%d, %d)", sub.Level, sub.Offset)
		}
	case ast.KindSlice:
		return e.sliceYield(sub)
	case ast.KindSelection:
		return e.selectionYield(sub)
	}
	return ""
}

// rowExpr renders the row value behind a slice or selection subject, which
// the classifier guarantees is a named object.
func rowExpr(sub *ast.Node) string {
	id := sub
	if sub.Kind == ast.KindDereference {
		id = sub.Sub
	}
	return fmt.Sprintf("f.GetRow(%d, %d)", id.Level, id.Offset)
}

func subjectIdent(sub *ast.Node) *ast.Node {
	if sub.Kind == ast.KindDereference {
		return sub.Sub
	}
	return sub
}

func (e *Emitter) executeSlice(n *ast.Node) {
	key := sliceKey(n)
	if _, done := e.ctx.Lookup(bookSlice, key, PhaseExecute); done {
		return
	}
	for _, ix := range n.List {
		e.Execute(ix)
	}
	names := e.ctx.NamedTemps(key, [2]string{"r", "*rt.Row"}, [2]string{"x", "int"})
	r, x := names[0], names[1]

	subs := make([]string, len(n.List))
	for i, ix := range n.List {
		subs[i] = e.Yield(ix)
	}
	p := pos(n)
	e.ctx.Line("%s = %s", r, rowExpr(n.Sub))
	e.ctx.Line("%s = %s.Flat(%d, %d, %s)", x, r, p[0], p[1], strings.Join(subs, ", "))
	e.ctx.Book(bookSlice, PhaseExecute, key, r+" "+x)
}

func (e *Emitter) sliceYield(n *ast.Node) string {
	names := e.ctx.NamedTemps(sliceKey(n), [2]string{"r", "*rt.Row"}, [2]string{"x", "int"})
	elem := n.Mode.Deref()
	return unwrapValue(fmt.Sprintf("%s.Elems[%s]", names[0], names[1]), elem)
}

func (e *Emitter) selectionYield(n *ast.Node) string {
	id := subjectIdent(n.Sub)
	field := "Re"
	if n.Text == "im" {
		field = "Im"
	}
	return fmt.Sprintf("rt.AsCompl(f.Get(%d, %d)).%s", id.Level, id.Offset, field)
}

func (e *Emitter) executeCall(n *ast.Node) {
	callee := n.Sub
	key := callKey(n)
	if callee.StdName == "" {
		if _, done := e.ctx.Lookup(bookCall, key, PhaseExecute); done {
			return
		}
	}
	for _, a := range n.List {
		e.Execute(a)
	}
	if callee.StdName != "" {
		return
	}
	names := e.ctx.NamedTemps(key)
	q, g := names[0], names[1]
	res := ""
	if len(names) > 2 {
		res = names[2]
	}

	// the ordinary call protocol: fetch the procedure, open its frame,
	// marshal the arguments, dispatch the body, close the frame
	e.ctx.Line("%s = rt.AsProc(f.Get(%d, %d))", q, callee.Level, callee.Offset)
	e.ctx.Line("%s = rt.OpenFrame(%s.Outer, %s.Slots)", g, q, q)
	for i, a := range n.List {
		e.ctx.Line("%s.Slots[%d] = %s", g, i, wrapValue(e.Yield(a), a.Mode))
	}
	if res != "" {
		e.ctx.Line("%s = %s", res, unwrapValue(fmt.Sprintf("rt.CallUnit(%s, %s)", q, g), n.Mode))
	} else {
		e.ctx.Line("rt.CallUnit(%s, %s)", q, g)
	}
	e.ctx.Line("rt.CloseFrame(%s)", g)

	// the body may have stored anywhere; booked values are stale
	e.ctx.Clear()
	e.ctx.Book(bookCall, PhaseExecute, key, strings.Join(names, " "))
}

func (e *Emitter) callYield(n *ast.Node) string {
	callee := n.Sub
	if callee.StdName != "" {
		fr := stdProcTable[callee.StdName]
		return fr.render(pos(n), e.Yield(n.List[0]))
	}
	names := e.ctx.NamedTemps(callKey(n))
	return names[len(names)-1]
}

func (e *Emitter) castYield(n *ast.Node) string {
	inner := e.Yield(n.Sub)
	from := n.Sub.Mode
	switch {
	case n.Mode.Class == mode.REAL && from.Class == mode.INT:
		return "float64(" + inner + ")"
	case n.Mode.Class == mode.COMPL && from.Class == mode.REAL:
		return "rt.ComplVal{Re: " + inner + "}"
	}
	return inner
}

// refYield renders an identity-relation operand as a reference expression.
func (e *Emitter) refYield(n *ast.Node) string {
	if n.Kind == ast.KindNil {
		return "(*rt.Ref)(nil)"
	}
	return fmt.Sprintf("f.Loc(%d, %d)", n.Level, n.Offset)
}

func (e *Emitter) executeAssignment(n *ast.Node) {
	dst, src := n.Left, n.Right
	if dst.Kind == ast.KindSlice {
		e.Execute(dst)
	}
	e.Execute(src)

	switch dst.Kind {
	case ast.KindIdentifier:
		to := dst.Mode.To
		if to.IsPrimitive() {
			e.ctx.Line("f.Set%s(%d, %d, %s)", accessorSuffix(to), dst.Level, dst.Offset, e.Yield(src))
		} else {
			e.ctx.Line("f.Set(%d, %d, %s)", dst.Level, dst.Offset, wrapValue(e.Yield(src), to))
		}

	case ast.KindSlice:
		names := e.ctx.NamedTemps(sliceKey(dst))
		e.ctx.Line("%s.Elems[%s] = %s", names[0], names[1], wrapValue(e.Yield(src), dst.Mode.To))

	case ast.KindSelection:
		id := subjectIdent(dst.Sub)
		e.ctx.Line("rt.FieldRef(f.Loc(%d, %d), %q).Store(rt.RealVal(%s))",
			id.Level, id.Offset, dst.Text, e.Yield(src))
	}

	// the stored cell may feed any booked computation
	e.ctx.Clear()
}
