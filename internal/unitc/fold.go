package unitc

import (
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/rt"
)

// Folder evaluates constant units at compile time. It computes on the
// shared evaluation stack in an isolated sub-computation: the stack pointer
// is saved on entry and restored on every exit path, success or fault.
//
// A domain fault during folding (1 OVER 0 and friends) does not abort
// compilation: the expression is marked unfoldable, the diagnostic (the
// same one execution would produce) is kept for inspection, and the unit
// is compiled unfolded so the fault surfaces at run time.
type Folder struct {
	stack *rt.Stack

	folded map[int]rt.Value
	failed map[int]*diagnostics.DiagnosticError
}

func NewFolder(stack *rt.Stack) *Folder {
	return &Folder{
		stack:  stack,
		folded: map[int]rt.Value{},
		failed: map[int]*diagnostics.DiagnosticError{},
	}
}

// notFoldable aborts an evaluation that turned out not to be constant
// after all. It is recovered inside Fold, never seen by callers.
type notFoldable struct{}

// IsConstant reports whether n is built entirely from denotations,
// recognized standard constants, identity-bound constants and foldable
// operators. The visiting set breaks binding cycles.
func (fo *Folder) IsConstant(n *ast.Node) bool {
	return fo.isConst(n, map[int]bool{})
}

func (fo *Folder) isConst(n *ast.Node, visiting map[int]bool) bool {
	if n == nil || n.Mode == nil {
		return false
	}
	if _, bad := fo.failed[n.ID]; bad {
		return false
	}

	switch n.Kind {
	case ast.KindDenotation:
		return n.Mode.IsFoldable()

	case ast.KindIdentifier:
		if n.StdName != "" {
			_, ok := stdConstTable[n.StdName]
			return ok
		}
		if n.Binding == nil || n.Decl == nil {
			return false
		}
		if visiting[n.Decl.ID] {
			return false
		}
		visiting[n.Decl.ID] = true
		ok := fo.isConst(n.Binding, visiting)
		delete(visiting, n.Decl.ID)
		return ok

	case ast.KindFormula:
		return fo.isConst(n.Left, visiting) && fo.isConst(n.Right, visiting)

	case ast.KindMonadicFormula:
		return fo.isConst(n.Sub, visiting)

	case ast.KindCast:
		return n.Mode.IsFoldable() && fo.isConst(n.Sub, visiting)

	case ast.KindCall:
		callee := n.Sub
		if callee == nil || callee.Kind != ast.KindIdentifier || callee.StdName == "" {
			return false
		}
		if _, ok := stdProcTable[callee.StdName]; !ok {
			return false
		}
		return len(n.List) == 1 && fo.isConst(n.List[0], visiting)

	case ast.KindClosedClause:
		return len(n.List) == 1 && n.List[0].IsStatement() && fo.isConst(n.List[0], visiting)
	}

	return false
}

// Fold evaluates a constant unit. ok is false when the unit is not
// constant or when folding faulted; in the latter case Fault reports the
// recorded diagnostic.
func (fo *Folder) Fold(n *ast.Node) (v rt.Value, ok bool) {
	if v, hit := fo.folded[n.ID]; hit {
		return v, true
	}
	if !fo.IsConstant(n) {
		return nil, false
	}

	sp := fo.stack.Sp()
	defer fo.stack.Restore(sp)
	defer func() {
		if r := recover(); r != nil {
			if fault, isFault := r.(*rt.Fault); isFault {
				fo.failed[n.ID] = fault.Diagnostic()
				v, ok = nil, false
				return
			}
			if _, isAbort := r.(notFoldable); isAbort {
				v, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	v = fo.eval(n)
	fo.folded[n.ID] = v
	return v, true
}

// Fault returns the diagnostic a failed fold of n recorded, if any.
func (fo *Folder) Fault(n *ast.Node) *diagnostics.DiagnosticError {
	return fo.failed[n.ID]
}

// eval computes a constant unit's value through the shared stack, using
// the same value-level operator application the genie uses, so a folded
// result is indistinguishable from an executed one.
func (fo *Folder) eval(n *ast.Node) rt.Value {
	switch n.Kind {
	case ast.KindDenotation:
		return denotationValue(n)

	case ast.KindIdentifier:
		if n.StdName != "" {
			return stdConstTable[n.StdName].value
		}
		return fo.eval(n.Binding)

	case ast.KindFormula:
		fo.stack.Push(fo.eval(n.Left))
		fo.stack.Push(fo.eval(n.Right))
		r := fo.stack.Pop()
		l := fo.stack.Pop()
		v, ok := rt.Dyadic(n.Text, l, r, n.Tok.Line, n.Tok.Column)
		if !ok {
			panic(notFoldable{})
		}
		return v

	case ast.KindMonadicFormula:
		fo.stack.Push(fo.eval(n.Sub))
		v, ok := rt.Monadic(n.Text, fo.stack.Pop(), n.Tok.Line, n.Tok.Column)
		if !ok {
			panic(notFoldable{})
		}
		return v

	case ast.KindCast:
		fo.stack.Push(fo.eval(n.Sub))
		v := fo.stack.Pop()
		switch n.Mode.Class {
		case mode.REAL:
			if iv, isInt := v.(rt.IntVal); isInt {
				return rt.RealVal(float64(iv))
			}
		case mode.COMPL:
			if rv, isReal := v.(rt.RealVal); isReal {
				return rt.ComplVal{Re: float64(rv)}
			}
		}
		return v

	case ast.KindCall:
		fo.stack.Push(fo.eval(n.List[0]))
		x := float64(fo.stack.Pop().(rt.RealVal))
		y, ok := rt.StdMath(n.Sub.StdName, x, n.Tok.Line, n.Tok.Column)
		if !ok {
			panic(notFoldable{})
		}
		return rt.RealVal(y)

	case ast.KindClosedClause:
		return fo.eval(n.List[0])
	}

	panic(notFoldable{})
}

func denotationValue(n *ast.Node) rt.Value {
	switch n.Mode.Class {
	case mode.INT:
		return rt.IntVal(n.IntVal)
	case mode.REAL:
		return rt.RealVal(n.RealVal)
	case mode.BOOL:
		return rt.BoolVal(n.BoolVal)
	case mode.CHAR:
		return rt.CharVal(n.CharVal)
	case mode.BITS:
		return rt.BitsVal(n.BitsVal)
	}
	panic(notFoldable{})
}
