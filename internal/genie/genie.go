package genie

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/rt"
)

// Genie is the tree-walking evaluator. One genie owns one evaluation stack;
// the constant evaluator borrows that stack for isolated sub-computations,
// which is why the stack pointer discipline matters.
type Genie struct {
	Stack *rt.Stack
	Out   io.Writer

	// Dispatch enables the compiled-unit fast path: before interpreting a
	// node generically the genie consults the unit registry through the
	// node's compiled-name annotation. This is the optimizer's only
	// coupling point into execution.
	Dispatch bool

	global *rt.Frame
}

func New() *Genie {
	g := &Genie{Stack: rt.NewStack(), Out: os.Stdout}
	// compiled call sequences dispatch procedure bodies back through here
	rt.UnitRunner = func(n *ast.Node, f *rt.Frame) rt.Value {
		return g.EvalUnit(n, f)
	}
	return g
}

// Run evaluates a program root and converts faults into diagnostics.
func (g *Genie) Run(root *ast.Node) (result rt.Value, err *diagnostics.DiagnosticError) {
	g.global = rt.OpenFrame(nil, root.Slots)
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*rt.Fault); ok {
				result, err = nil, f.Diagnostic()
				return
			}
			panic(r)
		}
	}()
	result = g.EvalUnit(root, g.global)
	return result, nil
}

// GlobalFrame exposes the program frame, for tests and for the constant
// evaluator's isolated sub-computations.
func (g *Genie) GlobalFrame() *rt.Frame { return g.global }

// EvalUnit evaluates one unit in a frame. It may panic with *rt.Fault;
// Run recovers at the program boundary.
func (g *Genie) EvalUnit(n *ast.Node, f *rt.Frame) rt.Value {
	if g.Dispatch {
		if name := n.CompiledRep().CompiledName(); name != "" {
			if fn, ok := rt.Lookup(name); ok {
				fn(f, g.Stack)
				return g.Stack.Pop()
			}
		}
	}

	switch n.Kind {
	case ast.KindDenotation:
		return denotationValue(n)

	case ast.KindNil:
		return (*rt.Ref)(nil)

	case ast.KindSkip:
		return rt.VoidVal{}

	case ast.KindIdentifier:
		return g.identifier(n, f)

	case ast.KindDereference:
		ref := g.ref(n.Sub, f)
		if ref == nil {
			rt.Raise(n.Tok.Line, n.Tok.Column, "NIL access")
		}
		return ref.Fetch()

	case ast.KindFormula:
		return g.dyadic(n, f)

	case ast.KindMonadicFormula:
		return g.monadic(n, f)

	case ast.KindCall:
		return g.call(n, f)

	case ast.KindSlice:
		return g.slice(n, f)

	case ast.KindSelection:
		ref := g.ref(n, f)
		if n.Mode != nil && n.Mode.Class == mode.REF {
			return ref
		}
		return ref.Fetch()

	case ast.KindClosedClause:
		var last rt.Value = rt.VoidVal{}
		for _, phrase := range n.List {
			if phrase.IsStatement() {
				last = g.EvalUnit(phrase, f)
			} else {
				g.elaborate(phrase, f)
				last = rt.VoidVal{}
			}
		}
		return last

	case ast.KindCollateralClause:
		row := rt.NewRow(1, int64(len(n.List)))
		for i, m := range n.List {
			row.Elems[i] = g.EvalUnit(m, f)
		}
		return row

	case ast.KindConditionalClause:
		cond := g.EvalUnit(n.Cond, f).(rt.BoolVal)
		if cond {
			return g.EvalUnit(n.ThenPart, f)
		}
		if n.ElsePart != nil {
			return g.EvalUnit(n.ElsePart, f)
		}
		return rt.VoidVal{}

	case ast.KindCaseClause:
		sel := int64(g.EvalUnit(n.Cond, f).(rt.IntVal))
		if sel >= 1 && sel <= int64(len(n.List)) {
			return g.EvalUnit(n.List[sel-1], f)
		}
		if n.ElsePart != nil {
			return g.EvalUnit(n.ElsePart, f)
		}
		return rt.VoidVal{}

	case ast.KindLoopClause:
		return g.loop(n, f)

	case ast.KindAssignment:
		ref := g.ref(n.Left, f)
		if ref == nil {
			rt.Raise(n.Tok.Line, n.Tok.Column, "assignment through NIL")
		}
		ref.Store(g.EvalUnit(n.Right, f))
		return rt.VoidVal{}

	case ast.KindIdentityRelation:
		l := g.refOrNil(n.Left, f)
		r := g.refOrNil(n.Right, f)
		same := rt.SameRef(l, r)
		if n.Text == "ISNT" {
			same = !same
		}
		return rt.BoolVal(same)

	case ast.KindCast:
		return g.cast(n, f)
	}

	panic(fmt.Sprintf("internal: genie cannot evaluate %s", n.Kind))
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
	panic("internal: denotation of mode " + n.Mode.String())
}

func (g *Genie) identifier(n *ast.Node, f *rt.Frame) rt.Value {
	if n.StdName != "" {
		switch n.StdName {
		case "pi":
			return rt.RealVal(math.Pi)
		case "maxint":
			return rt.IntVal(math.MaxInt64)
		case "maxreal":
			return rt.RealVal(math.MaxFloat64)
		case "smallreal":
			return rt.RealVal(2.220446049250313e-16)
		}
		// standard procedures are only meaningful in call position
		rt.Raise(n.Tok.Line, n.Tok.Column, "standard procedure used as value")
	}
	if n.Decl == nil {
		rt.Raise(n.Tok.Line, n.Tok.Column, "unresolved identifier "+n.Text)
	}
	switch n.Decl.Kind {
	case ast.KindVariableDeclaration:
		return f.Loc(n.Level, n.Offset)
	default:
		return f.Get(n.Level, n.Offset)
	}
}

// ref evaluates a destination-shaped unit to a reference.
func (g *Genie) ref(n *ast.Node, f *rt.Frame) *rt.Ref {
	switch n.Kind {
	case ast.KindIdentifier:
		if n.Decl != nil && n.Decl.Kind == ast.KindVariableDeclaration {
			return f.Loc(n.Level, n.Offset)
		}
		v := g.identifier(n, f)
		ref, ok := v.(*rt.Ref)
		if !ok {
			rt.Raise(n.Tok.Line, n.Tok.Column, "not a reference: "+n.Text)
		}
		return ref
	case ast.KindSlice:
		return g.sliceRef(n, f)
	case ast.KindSelection:
		base := g.ref(n.Sub, f)
		r := *base
		r.Field = n.Text
		return &r
	case ast.KindDereference:
		inner := g.ref(n.Sub, f)
		if inner == nil {
			rt.Raise(n.Tok.Line, n.Tok.Column, "NIL access")
		}
		ref, ok := inner.Fetch().(*rt.Ref)
		if !ok {
			rt.Raise(n.Tok.Line, n.Tok.Column, "dereference of non-reference")
		}
		return ref
	}
	v := g.EvalUnit(n, f)
	ref, ok := v.(*rt.Ref)
	if !ok {
		rt.Raise(n.Tok.Line, n.Tok.Column, "unit does not yield a reference")
	}
	return ref
}

func (g *Genie) refOrNil(n *ast.Node, f *rt.Frame) *rt.Ref {
	if n.Kind == ast.KindNil {
		return nil
	}
	return g.ref(n, f)
}

func (g *Genie) slice(n *ast.Node, f *rt.Frame) rt.Value {
	ref := g.sliceRef(n, f)
	if n.Mode != nil && n.Mode.Class == mode.REF {
		return ref
	}
	return ref.Fetch()
}

func (g *Genie) sliceRef(n *ast.Node, f *rt.Frame) *rt.Ref {
	subject := g.EvalUnit(n.Sub, f)
	var row *rt.Row
	switch s := subject.(type) {
	case *rt.Ref:
		if s == nil {
			rt.Raise(n.Tok.Line, n.Tok.Column, "NIL access")
		}
		row = s.Fetch().(*rt.Row)
	case *rt.Row:
		row = s
	default:
		rt.Raise(n.Tok.Line, n.Tok.Column, "indexing a non-row")
	}
	subs := make([]int64, len(n.List))
	for i, ix := range n.List {
		if ix.Kind == ast.KindTrimmer {
			rt.Raise(ix.Tok.Line, ix.Tok.Column, "trimming is not supported here")
		}
		subs[i] = int64(g.EvalUnit(ix, f).(rt.IntVal))
	}
	return row.Elem(n.Tok.Line, n.Tok.Column, subs...)
}

func (g *Genie) loop(n *ast.Node, f *rt.Frame) rt.Value {
	from := int64(1)
	by := int64(1)
	hasTo := false
	var to int64
	if n.FromPart != nil {
		from = int64(g.EvalUnit(n.FromPart, f).(rt.IntVal))
	}
	if n.ByPart != nil {
		by = int64(g.EvalUnit(n.ByPart, f).(rt.IntVal))
	}
	if n.ToPart != nil {
		hasTo = true
		to = int64(g.EvalUnit(n.ToPart, f).(rt.IntVal))
	}
	for i := from; ; i += by {
		if hasTo && ((by >= 0 && i > to) || (by < 0 && i < to)) {
			break
		}
		if n.LoopVar != nil {
			f.Set(0, n.LoopVar.Offset, rt.IntVal(i))
		}
		if n.WhilePart != nil {
			if !bool(g.EvalUnit(n.WhilePart, f).(rt.BoolVal)) {
				break
			}
		}
		g.EvalUnit(n.BodyPart, f)
		if !hasTo && n.WhilePart == nil && n.ToPart == nil {
			// DO body OD with no termination would spin forever; the
			// subset has no GOTO to leave it, so refuse at run time.
			rt.Raise(n.Tok.Line, n.Tok.Column, "loop without TO or WHILE part")
		}
	}
	return rt.VoidVal{}
}

func (g *Genie) cast(n *ast.Node, f *rt.Frame) rt.Value {
	v := g.EvalUnit(n.Sub, f)
	switch n.Mode.Class {
	case mode.REAL:
		if iv, ok := v.(rt.IntVal); ok {
			return rt.RealVal(float64(iv))
		}
		return v
	case mode.COMPL:
		if rv, ok := v.(rt.RealVal); ok {
			return rt.ComplVal{Re: float64(rv)}
		}
		return v
	}
	return v
}

// elaborate executes a declaration.
func (g *Genie) elaborate(n *ast.Node, f *rt.Frame) {
	switch n.Kind {
	case ast.KindVariableDeclaration:
		if len(n.List) > 0 { // row variable: allocate from bounds
			bounds := make([]int64, len(n.List))
			for i, b := range n.List {
				bounds[i] = int64(g.EvalUnit(b, f).(rt.IntVal))
			}
			f.Set(0, n.Offset, rt.NewRow(bounds...))
			return
		}
		if n.Sub != nil {
			f.Set(0, n.Offset, g.EvalUnit(n.Sub, f))
		}
	case ast.KindIdentityDeclaration:
		f.Set(0, n.Offset, g.EvalUnit(n.Sub, f))
	case ast.KindProcDeclaration:
		f.Set(0, n.Offset, &rt.Proc{
			Name:   n.Text,
			Params: len(n.List),
			Slots:  n.Slots,
			Ret:    n.Mode.Ret,
			Body:   n.BodyPart,
			Outer:  f,
		})
	}
}
