package genie

import (
	"fmt"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/rt"
)

func (g *Genie) dyadic(n *ast.Node, f *rt.Frame) rt.Value {
	l := g.EvalUnit(n.Left, f)
	r := g.EvalUnit(n.Right, f)
	v, ok := rt.Dyadic(n.Text, l, r, n.Tok.Line, n.Tok.Column)
	if !ok {
		panic(fmt.Sprintf("internal: dyadic %s on %s, %s", n.Text, l.Type(), r.Type()))
	}
	return v
}

func (g *Genie) monadic(n *ast.Node, f *rt.Frame) rt.Value {
	o := g.EvalUnit(n.Sub, f)
	v, ok := rt.Monadic(n.Text, o, n.Tok.Line, n.Tok.Column)
	if !ok {
		panic(fmt.Sprintf("internal: monadic %s on %s", n.Text, o.Type()))
	}
	return v
}

func (g *Genie) call(n *ast.Node, f *rt.Frame) rt.Value {
	callee := n.Sub
	if callee.Kind == ast.KindIdentifier && callee.StdName != "" {
		return g.stdCall(callee.StdName, n, f)
	}

	pv := g.EvalUnit(callee, f)
	proc, ok := pv.(*rt.Proc)
	if !ok {
		rt.Raise(n.Tok.Line, n.Tok.Column, "calling a non-procedure")
	}

	// Arguments are marshalled into the fresh frame before the body runs;
	// compiled call sequences emit exactly this shape.
	args := make([]rt.Value, len(n.List))
	for i, a := range n.List {
		args[i] = g.EvalUnit(a, f)
	}
	frame := rt.OpenFrame(proc.Outer, proc.Slots)
	copy(frame.Slots, args)
	result := g.EvalUnit(proc.Body, frame)
	rt.CloseFrame(frame)
	return result
}

func (g *Genie) stdCall(name string, n *ast.Node, f *rt.Frame) rt.Value {
	if name == "print" {
		for _, a := range n.List {
			fmt.Fprint(g.Out, g.EvalUnit(a, f).Inspect())
		}
		return rt.VoidVal{}
	}
	x := float64(g.EvalUnit(n.List[0], f).(rt.RealVal))
	y, ok := rt.StdMath(name, x, n.Tok.Line, n.Tok.Column)
	if !ok {
		panic("internal: unknown standard procedure " + name)
	}
	return rt.RealVal(y)
}
