package analyzer

import (
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/pipeline"
)

// unit annotates one node and its subtree. Coercion wrappers (dereference,
// widening) are inserted by reassigning child links; the parser's structure
// is otherwise never mutated.
func (a *Analyzer) unit(n *ast.Node) {
	if n == nil {
		return
	}
	a.id(n)

	switch n.Kind {
	case ast.KindDenotation:
		// mode decoded by the parser

	case ast.KindNil:
		n.Mode = mode.NewRef(mode.Void)

	case ast.KindSkip:
		n.Mode = mode.Void

	case ast.KindIdentifier:
		a.identifier(n)

	case ast.KindFormula:
		a.unit(n.Left)
		a.unit(n.Right)
		n.Left = a.deref(n.Left)
		n.Right = a.deref(n.Right)
		a.dyadic(n)

	case ast.KindMonadicFormula:
		a.unit(n.Sub)
		n.Sub = a.deref(n.Sub)
		a.monadic(n)

	case ast.KindCall:
		a.call(n)

	case ast.KindSlice:
		a.slice(n)

	case ast.KindSelection:
		a.selection(n)

	case ast.KindClosedClause:
		a.pushScope(false)
		n.Mode = mode.Void
		for _, phrase := range n.List {
			a.unit(phrase)
		}
		if len(n.List) > 0 {
			last := n.List[len(n.List)-1]
			if last.IsStatement() && last.Mode != nil {
				// the clause yields the tail's value, so a variable tail
				// is read through a dereference
				last = a.deref(last)
				n.List[len(n.List)-1] = last
				n.Mode = last.Mode
			}
		}
		a.popScope()

	case ast.KindCollateralClause:
		var elem *mode.Mode
		for i, m := range n.List {
			a.unit(m)
			n.List[i] = a.deref(m)
		}
		for _, m := range n.List {
			if m.Mode == nil {
				return
			}
			if elem == nil {
				elem = m.Mode
			} else if !mode.Equivalent(elem, m.Mode) {
				if elem.Class == mode.REAL && m.Mode.Class == mode.INT {
					continue // widened below
				}
				if elem.Class == mode.INT && m.Mode.Class == mode.REAL {
					elem = mode.Real
					continue
				}
				a.errorf(m, diagnostics.ErrA003, "mixed modes in collateral clause")
				return
			}
		}
		if elem != nil && elem.Class == mode.REAL {
			for i, m := range n.List {
				if m.Mode.Class == mode.INT {
					n.List[i] = a.widen(m)
				}
			}
		}
		if elem == nil {
			elem = mode.Void
		}
		n.Mode = mode.NewRow(elem, 1)

	case ast.KindConditionalClause:
		a.unit(n.Cond)
		n.Cond = a.deref(n.Cond)
		a.requireBool(n.Cond, "conditional")
		a.unit(n.ThenPart)
		n.ThenPart = a.deref(n.ThenPart)
		if n.ElsePart == nil {
			// no alternative: the clause takes the THEN part's mode
			n.Mode = n.ThenPart.Mode
			return
		}
		a.unit(n.ElsePart)
		n.ElsePart = a.deref(n.ElsePart)
		n.Mode = a.balance(n, n.ThenPart, n.ElsePart)

	case ast.KindCaseClause:
		a.unit(n.Cond)
		n.Cond = a.coerce(n.Cond, mode.Int)
		if n.Cond.Mode != nil && n.Cond.Mode.Class != mode.INT {
			a.errorf(n.Cond, diagnostics.ErrA003, "case selector must be INT, found %s", n.Cond.Mode.String())
		}
		common := (*mode.Mode)(nil)
		for i, alt := range n.List {
			a.unit(alt)
			n.List[i] = a.deref(alt)
			common = balanced(common, n.List[i].Mode)
		}
		if n.ElsePart != nil {
			a.unit(n.ElsePart)
			n.ElsePart = a.deref(n.ElsePart)
			common = balanced(common, n.ElsePart.Mode)
		}
		if common == nil {
			common = mode.Void
		}
		n.Mode = common

	case ast.KindLoopClause:
		a.unit(n.FromPart)
		a.unit(n.ByPart)
		a.unit(n.ToPart)
		n.FromPart = a.coerceIntPart(n.FromPart)
		n.ByPart = a.coerceIntPart(n.ByPart)
		n.ToPart = a.coerceIntPart(n.ToPart)
		a.pushScope(false)
		if n.LoopVar != nil {
			a.id(n.LoopVar)
			n.LoopVar.Mode = mode.Int
			n.LoopVar.Decl = n.LoopVar
			a.declare(n.LoopVar)
		}
		if n.WhilePart != nil {
			a.unit(n.WhilePart)
			n.WhilePart = a.deref(n.WhilePart)
			a.requireBool(n.WhilePart, "while part")
		}
		a.unit(n.BodyPart)
		a.popScope()
		n.Mode = mode.Void

	case ast.KindAssignment:
		a.unit(n.Left)
		if n.Left.Mode != nil && n.Left.Mode.Class != mode.REF {
			a.errorf(n.Left, diagnostics.ErrA003, "cannot assign to a non-reference")
			return
		}
		a.unit(n.Right)
		if n.Left.Mode != nil {
			n.Right = a.coerce(n.Right, n.Left.Mode.To)
			if n.Right.Mode != nil && !mode.Equivalent(n.Right.Mode, n.Left.Mode.To) {
				a.errorf(n, diagnostics.ErrA003, "cannot assign %s to REF %s",
					n.Right.Mode.String(), n.Left.Mode.To.String())
			}
		}
		n.Mode = mode.Void

	case ast.KindIdentityRelation:
		a.unit(n.Left)
		a.unit(n.Right)
		for _, side := range []*ast.Node{n.Left, n.Right} {
			if side.Kind == ast.KindNil {
				continue
			}
			if side.Mode == nil || side.Mode.Class != mode.REF {
				a.errorf(side, diagnostics.ErrA003, "identity relation needs references")
			}
		}
		n.Mode = mode.Bool

	case ast.KindCast:
		// the cast itself performs the conversion; wrapping the operand in
		// a widening cast as well would duplicate it
		a.unit(n.Sub)
		n.Sub = a.deref(n.Sub)
		if n.Sub != nil && n.Sub.Mode != nil && !castable(n.Sub.Mode, n.Mode) {
			a.errorf(n, diagnostics.ErrA003, "cannot cast %s to %s", n.Sub.Mode.String(), n.Mode.String())
		}

	case ast.KindVariableDeclaration:
		for i, b := range n.List {
			a.unit(b)
			n.List[i] = a.coerce(b, mode.Int)
		}
		if n.Sub != nil {
			a.unit(n.Sub)
			n.Sub = a.coerce(n.Sub, n.Mode)
		}
		a.declare(n)

	case ast.KindIdentityDeclaration:
		a.unit(n.Sub)
		n.Sub = a.coerce(n.Sub, n.Mode)
		if n.Sub != nil && n.Sub.Mode != nil && !mode.Equivalent(n.Sub.Mode, n.Mode) {
			a.errorf(n, diagnostics.ErrA003, "identity declaration of %s from %s",
				n.Mode.String(), n.Sub.Mode.String())
		}
		a.declare(n)

	case ast.KindProcDeclaration:
		a.declare(n) // visible in its own body
		a.pushScope(true)
		for _, p := range n.List {
			a.id(p)
			a.declare(p)
		}
		a.unit(n.BodyPart)
		if n.Mode.Ret != nil && n.Mode.Ret.Class != mode.VOID {
			n.BodyPart = a.coerce(n.BodyPart, n.Mode.Ret)
		}
		n.Slots = *a.scopes[len(a.scopes)-1].slots
		a.popScope()

	case ast.KindTrimmer:
		// analyzed by slice handling
	}
}

func (a *Analyzer) identifier(n *ast.Node) {
	decl, distance := a.resolve(n.Text)
	if decl != nil {
		n.Decl = decl
		n.Level = distance
		n.Offset = decl.Offset
		n.Mode = declMode(decl)
		if decl.Kind == ast.KindIdentityDeclaration {
			n.Binding = decl.Sub
		}
		return
	}
	if m, ok := stdConstants[n.Text]; ok {
		n.StdName = n.Text
		n.Mode = m
		return
	}
	if m, ok := stdProcs[n.Text]; ok {
		n.StdName = n.Text
		n.Mode = m
		return
	}
	a.errorf(n, diagnostics.ErrA001, "unknown identifier %q", n.Text)
}

func (a *Analyzer) call(n *ast.Node) {
	a.unit(n.Sub)
	callee := n.Sub
	if callee.Mode == nil {
		return
	}
	if callee.Mode.Class != mode.PROC {
		a.errorf(callee, diagnostics.ErrA003, "calling a non-procedure of mode %s", callee.Mode.String())
		return
	}
	if callee.Kind == ast.KindIdentifier && callee.StdName == "print" {
		for i, arg := range n.List {
			a.unit(arg)
			n.List[i] = a.deref(arg)
		}
		n.Mode = mode.Void
		return
	}
	params := callee.Mode.Params
	if len(n.List) != len(params) {
		a.errorf(n, diagnostics.ErrA004, "%d arguments for %d parameters", len(n.List), len(params))
		return
	}
	for i, arg := range n.List {
		a.unit(arg)
		n.List[i] = a.coerce(arg, params[i])
		if n.List[i].Mode != nil && !mode.Equivalent(n.List[i].Mode, params[i]) {
			a.errorf(arg, diagnostics.ErrA003, "argument %d has mode %s, wanted %s",
				i+1, n.List[i].Mode.String(), params[i].String())
		}
	}
	if callee.Mode.Ret != nil {
		n.Mode = callee.Mode.Ret
	} else {
		n.Mode = mode.Void
	}
}

func (a *Analyzer) slice(n *ast.Node) {
	a.unit(n.Sub)
	sub := n.Sub
	if sub.Mode == nil {
		return
	}
	rowMode := sub.Mode.Deref()
	if rowMode.Class != mode.ROW {
		a.errorf(sub, diagnostics.ErrA003, "indexing a non-row of mode %s", sub.Mode.String())
		return
	}
	trimmed := false
	for i, ix := range n.List {
		if ix.Kind == ast.KindTrimmer {
			trimmed = true
			a.id(ix)
			if ix.Left != nil {
				a.unit(ix.Left)
				ix.Left = a.coerce(ix.Left, mode.Int)
			}
			if ix.Right != nil {
				a.unit(ix.Right)
				ix.Right = a.coerce(ix.Right, mode.Int)
			}
			continue
		}
		a.unit(ix)
		n.List[i] = a.coerce(ix, mode.Int)
		if n.List[i].Mode != nil && n.List[i].Mode.Class != mode.INT {
			a.errorf(ix, diagnostics.ErrA003, "subscript must be INT, found %s", n.List[i].Mode.String())
		}
	}
	if trimmed {
		n.Mode = sub.Mode // a trimmed slice keeps a row mode; never basic
		return
	}
	if len(n.List) != rowMode.Dims {
		a.errorf(n, diagnostics.ErrA004, "%d subscripts for %d dimensions", len(n.List), rowMode.Dims)
		return
	}
	if sub.Mode.Class == mode.REF {
		n.Mode = mode.NewRef(rowMode.Elem)
	} else {
		n.Mode = rowMode.Elem
	}
}

func (a *Analyzer) selection(n *ast.Node) {
	a.unit(n.Sub)
	sub := n.Sub
	if sub.Mode == nil {
		return
	}
	base := sub.Mode.Deref()
	if base.Class != mode.COMPL {
		a.errorf(sub, diagnostics.ErrA003, "selection from mode %s", sub.Mode.String())
		return
	}
	if n.Text != "re" && n.Text != "im" {
		a.errorf(n, diagnostics.ErrA004, "COMPL has no field %q", n.Text)
		return
	}
	if sub.Mode.Class == mode.REF {
		n.Mode = mode.NewRef(mode.Real)
	} else {
		n.Mode = mode.Real
	}
}

func (a *Analyzer) requireBool(n *ast.Node, where string) {
	if n != nil && n.Mode != nil && n.Mode.Class != mode.BOOL {
		a.errorf(n, diagnostics.ErrA003, "%s needs BOOL, found %s", where, n.Mode.String())
	}
}

func (a *Analyzer) coerceIntPart(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	c := a.coerce(n, mode.Int)
	if c.Mode != nil && c.Mode.Class != mode.INT {
		a.errorf(n, diagnostics.ErrA003, "loop part must be INT, found %s", c.Mode.String())
	}
	return c
}

// balance computes the mode of a two-armed choice, widening an INT arm
// against a REAL arm.
func (a *Analyzer) balance(n, then, els *ast.Node) *mode.Mode {
	tm, em := then.Mode, els.Mode
	if tm == nil || em == nil {
		return mode.Void
	}
	if mode.Equivalent(tm, em) {
		return tm
	}
	if tm.Class == mode.INT && em.Class == mode.REAL {
		n.ThenPart = a.widen(then)
		return mode.Real
	}
	if tm.Class == mode.REAL && em.Class == mode.INT {
		n.ElsePart = a.widen(els)
		return mode.Real
	}
	return mode.Void
}

// castable reports whether an explicit cast accepts an operand of mode
// from: identity, INT to REAL, or REAL to COMPL.
func castable(from, to *mode.Mode) bool {
	if mode.Equivalent(from, to) {
		return true
	}
	if to.Class == mode.REAL && from.Class == mode.INT {
		return true
	}
	return to.Class == mode.COMPL && from.Class == mode.REAL
}

func balanced(acc, m *mode.Mode) *mode.Mode {
	if m == nil {
		return acc
	}
	if acc == nil || mode.Equivalent(acc, m) {
		return m
	}
	return mode.Void
}

// AnalyzerProcessor adapts the analyzer to the pipeline.
type AnalyzerProcessor struct{}

func (p *AnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}
	a := New(ctx)
	a.Run(ctx.AstRoot)
	return ctx
}
