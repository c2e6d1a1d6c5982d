package unitc

import (
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
)

// Classifier decides whether a unit is basic: simple enough to translate
// directly instead of interpreting. Classification is pure and reads only
// the analyzed tree, so results are memoized per node.
type Classifier struct {
	memo map[*ast.Node]bool
}

func NewClassifier() *Classifier {
	return &Classifier{memo: map[*ast.Node]bool{}}
}

// Basic reports whether n is a basic unit.
func (c *Classifier) Basic(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if b, ok := c.memo[n]; ok {
		return b
	}
	b := c.classify(n)
	c.memo[n] = b
	return b
}

func (c *Classifier) classify(n *ast.Node) bool {
	if n.Mode == nil {
		return false
	}

	switch n.Kind {
	case ast.KindDenotation:
		return n.Mode.IsFoldable()

	case ast.KindIdentifier:
		if n.StdName != "" {
			_, isConst := stdConstTable[n.StdName]
			return isConst
		}
		// a value-yielding identifier: identity binding, parameter or loop
		// counter; variables reach values through a dereference
		return n.Decl != nil && n.Mode.IsFoldable()

	case ast.KindDereference:
		switch n.Sub.Kind {
		case ast.KindIdentifier:
			if n.Sub.Decl == nil {
				return false
			}
			return n.Mode.IsFoldable() || (n.Mode.Class == mode.ROW && n.Mode.Elem.IsPrimitive())
		case ast.KindSlice, ast.KindSelection:
			return c.Basic(n.Sub) && n.Mode.IsFoldable()
		}
		return false

	case ast.KindFormula:
		if _, ok := dyadicFragment(n); !ok {
			return false
		}
		return c.Basic(n.Left) && c.Basic(n.Right)

	case ast.KindMonadicFormula:
		if _, ok := monadicFragment(n); !ok {
			return false
		}
		return c.Basic(n.Sub)

	case ast.KindCall:
		return c.basicCall(n)

	case ast.KindSlice:
		return c.basicSlice(n)

	case ast.KindSelection:
		return c.basicSubject(n.Sub, mode.COMPL)

	case ast.KindClosedClause:
		// a closed clause is basic only when it is a single basic unit;
		// declarations need frame elaboration and stay with the interpreter
		return len(n.List) == 1 && n.List[0].IsStatement() && c.Basic(n.List[0])

	case ast.KindCollateralClause:
		if n.Mode.Class != mode.ROW || !n.Mode.Elem.IsPrimitive() {
			return false
		}
		for _, m := range n.List {
			if !c.Basic(m) {
				return false
			}
		}
		return len(n.List) > 0

	case ast.KindConditionalClause:
		if !c.Basic(n.Cond) || !c.Basic(n.ThenPart) {
			return false
		}
		if n.ElsePart != nil && !c.Basic(n.ElsePart) {
			return false
		}
		return n.Mode.Class == mode.VOID || n.Mode.IsFoldable()

	case ast.KindCaseClause:
		if !c.Basic(n.Cond) {
			return false
		}
		for _, alt := range n.List {
			if !c.Basic(alt) {
				return false
			}
		}
		if n.ElsePart != nil && !c.Basic(n.ElsePart) {
			return false
		}
		if n.Mode.Class == mode.VOID {
			return true
		}
		// a value case without an OUT part yields EMPTY for an uncovered
		// selector; a clause temporary cannot carry that, so the
		// interpreter keeps it
		return n.ElsePart != nil && n.Mode.IsFoldable()

	case ast.KindLoopClause:
		// an unbounded loop is an interpreter matter
		if n.ToPart == nil && n.WhilePart == nil {
			return false
		}
		for _, part := range []*ast.Node{n.FromPart, n.ByPart, n.ToPart, n.WhilePart} {
			if part != nil && !c.Basic(part) {
				return false
			}
		}
		return c.Basic(n.BodyPart)

	case ast.KindAssignment:
		return c.basicDestination(n.Left) && c.Basic(n.Right)

	case ast.KindIdentityRelation:
		return c.basicRefOperand(n.Left) && c.basicRefOperand(n.Right)

	case ast.KindCast:
		return n.Mode.IsFoldable() && c.Basic(n.Sub)
	}

	return false
}

// basicCall admits calls whose callee is a named procedure: either a
// standard mathematical procedure or a user procedure over primitive
// parameters. Transput procedures are never basic.
func (c *Classifier) basicCall(n *ast.Node) bool {
	callee := n.Sub
	if callee.Kind != ast.KindIdentifier {
		return false
	}
	if callee.StdName != "" {
		if _, ok := stdProcTable[callee.StdName]; !ok {
			return false
		}
		return len(n.List) == 1 && c.Basic(n.List[0])
	}
	if callee.Mode == nil || callee.Mode.Class != mode.PROC {
		return false
	}
	for _, p := range callee.Mode.Params {
		if !p.IsPrimitive() && !p.IsStructOfPrimitives() {
			return false
		}
	}
	ret := callee.Mode.Ret
	if ret != nil && ret.Class != mode.VOID && !ret.IsFoldable() {
		return false
	}
	for _, a := range n.List {
		if !c.Basic(a) {
			return false
		}
	}
	return true
}

// basicSlice admits subscripted access to a named row of primitives with
// INT subscripts for every dimension. Trimmers keep a row mode and are
// never basic.
func (c *Classifier) basicSlice(n *ast.Node) bool {
	if !c.basicSubject(n.Sub, mode.ROW) {
		return false
	}
	rowMode := n.Sub.Mode.Deref()
	if rowMode.Class != mode.ROW || !rowMode.Elem.IsPrimitive() {
		return false
	}
	if len(n.List) != rowMode.Dims {
		return false
	}
	for _, ix := range n.List {
		if ix.Kind == ast.KindTrimmer {
			return false
		}
		if ix.Mode == nil || ix.Mode.Class != mode.INT || !c.Basic(ix) {
			return false
		}
	}
	return true
}

// basicSubject requires the subject of a slice or selection to be a named
// object, directly or through one dereference.
func (c *Classifier) basicSubject(sub *ast.Node, want mode.Class) bool {
	if sub == nil || sub.Mode == nil {
		return false
	}
	ident := sub
	if sub.Kind == ast.KindDereference {
		ident = sub.Sub
	}
	if ident.Kind != ast.KindIdentifier || ident.Decl == nil {
		return false
	}
	return sub.Mode.Deref().Class == want
}

// basicDestination admits the three destination shapes the emitter can
// store through: a variable, an element of a named row, or a field of a
// named COMPL variable.
func (c *Classifier) basicDestination(dst *ast.Node) bool {
	if dst == nil || dst.Mode == nil || dst.Mode.Class != mode.REF {
		return false
	}
	if !dst.Mode.To.IsPrimitive() && !dst.Mode.To.IsStructOfPrimitives() {
		return false
	}
	switch dst.Kind {
	case ast.KindIdentifier:
		// only a variable's slot holds its value directly; a REF bound by
		// identity names another slot and must be stored through
		return dst.Decl != nil && dst.Decl.Kind == ast.KindVariableDeclaration
	case ast.KindSlice:
		return c.basicSlice(dst)
	case ast.KindSelection:
		return c.basicSubject(dst.Sub, mode.COMPL)
	}
	return false
}

// basicRefOperand admits NIL and named references in identity relations.
func (c *Classifier) basicRefOperand(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindNil {
		return true
	}
	return n.Kind == ast.KindIdentifier && n.Decl != nil &&
		n.Decl.Kind == ast.KindVariableDeclaration &&
		n.Mode != nil && n.Mode.Class == mode.REF
}
