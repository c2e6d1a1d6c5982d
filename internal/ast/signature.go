package ast

import (
	"strconv"
	"strings"
)

// Signature renders a canonical deep-structural key for a subtree. Two nodes
// with equal signatures compute the same value from the same storage, which
// is exactly the equivalence the booking/CSE table needs: deep equality, not
// pointer equality.
func (n *Node) Signature() string {
	var b strings.Builder
	n.sig(&b)
	return b.String()
}

func (n *Node) sig(b *strings.Builder) {
	if n == nil {
		b.WriteString("_")
		return
	}
	switch n.Kind {
	case KindDenotation:
		b.WriteString("den:")
		b.WriteString(n.Mode.String())
		b.WriteString(":")
		b.WriteString(n.Text)
	case KindNil:
		b.WriteString("nil")
	case KindSkip:
		b.WriteString("skip")
	case KindIdentifier:
		// Identifiers are keyed by declaration site, not by spelling: the
		// same name in two scopes is two different cells.
		b.WriteString("id:")
		b.WriteString(n.Text)
		b.WriteString("@")
		b.WriteString(strconv.Itoa(n.Level))
		b.WriteString(".")
		b.WriteString(strconv.Itoa(n.Offset))
	case KindFormula:
		b.WriteString("f:")
		b.WriteString(n.Text)
		b.WriteString("(")
		n.Left.sig(b)
		b.WriteString(",")
		n.Right.sig(b)
		b.WriteString(")")
	case KindMonadicFormula:
		b.WriteString("m:")
		b.WriteString(n.Text)
		b.WriteString("(")
		n.Sub.sig(b)
		b.WriteString(")")
	case KindCall:
		b.WriteString("call(")
		n.Sub.sig(b)
		for _, a := range n.List {
			b.WriteString(",")
			a.sig(b)
		}
		b.WriteString(")")
	case KindSlice:
		b.WriteString("slice(")
		n.Sub.sig(b)
		b.WriteString(";")
		for i, ix := range n.List {
			if i > 0 {
				b.WriteString(",")
			}
			ix.sig(b)
		}
		b.WriteString(")")
	case KindSelection:
		b.WriteString("sel:")
		b.WriteString(n.Text)
		b.WriteString("(")
		n.Sub.sig(b)
		b.WriteString(")")
	case KindDereference:
		b.WriteString("deref(")
		n.Sub.sig(b)
		b.WriteString(")")
	case KindCast:
		b.WriteString("cast:")
		b.WriteString(n.Mode.String())
		b.WriteString("(")
		n.Sub.sig(b)
		b.WriteString(")")
	case KindAssignment:
		b.WriteString("asg(")
		n.Left.sig(b)
		b.WriteString(":=")
		n.Right.sig(b)
		b.WriteString(")")
	case KindIdentityRelation:
		b.WriteString("idrel:")
		b.WriteString(n.Text)
		b.WriteString("(")
		n.Left.sig(b)
		b.WriteString(",")
		n.Right.sig(b)
		b.WriteString(")")
	case KindConditionalClause:
		b.WriteString("cond(")
		n.Cond.sig(b)
		b.WriteString("|")
		n.ThenPart.sig(b)
		b.WriteString("|")
		n.ElsePart.sig(b)
		b.WriteString(")")
	default:
		// Clauses with internal control flow never share bookings; give
		// each occurrence a unique key so CSE cannot merge them.
		b.WriteString(n.Kind.String())
		b.WriteString("#")
		b.WriteString(strconv.Itoa(n.ID))
	}
}

// StructurallyEqual reports deep structural equality of two subtrees.
func StructurallyEqual(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Signature() == b.Signature()
}
