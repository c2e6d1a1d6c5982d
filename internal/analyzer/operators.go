package analyzer

import (
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
)

// dyadic computes the result mode of a dyadic formula and inserts widening
// casts where the standard operators require it. Operands are already
// dereferenced.
func (a *Analyzer) dyadic(n *ast.Node) {
	lm, rm := n.Left.Mode, n.Right.Mode
	if lm == nil || rm == nil {
		return
	}

	fail := func() {
		a.errorf(n, diagnostics.ErrA004, "operator %s undefined for %s, %s",
			n.Text, lm.String(), rm.String())
	}

	numeric := func() (left, right *mode.Mode, ok bool) {
		switch {
		case lm.Class == mode.COMPL || rm.Class == mode.COMPL:
			n.Left = a.coerce(n.Left, mode.Compl)
			n.Right = a.coerce(n.Right, mode.Compl)
			if n.Left.Mode.Class != mode.COMPL || n.Right.Mode.Class != mode.COMPL {
				return nil, nil, false
			}
			return mode.Compl, mode.Compl, true
		case lm.Class == mode.REAL || rm.Class == mode.REAL:
			n.Left = a.coerce(n.Left, mode.Real)
			n.Right = a.coerce(n.Right, mode.Real)
			if n.Left.Mode.Class != mode.REAL || n.Right.Mode.Class != mode.REAL {
				return nil, nil, false
			}
			return mode.Real, mode.Real, true
		case lm.Class == mode.INT && rm.Class == mode.INT:
			return mode.Int, mode.Int, true
		}
		return nil, nil, false
	}

	switch n.Text {
	case "+", "-", "*":
		l, _, ok := numeric()
		if !ok {
			fail()
			return
		}
		n.Mode = l

	case "/":
		l, _, ok := numeric()
		if !ok {
			fail()
			return
		}
		if l.Class == mode.INT {
			n.Mode = mode.Real // INT / INT yields REAL
		} else {
			n.Mode = l
		}

	case "OVER", "MOD":
		if lm.Class != mode.INT || rm.Class != mode.INT {
			fail()
			return
		}
		n.Mode = mode.Int

	case "**":
		if rm.Class != mode.INT {
			fail()
			return
		}
		switch lm.Class {
		case mode.INT:
			n.Mode = mode.Int
		case mode.REAL:
			n.Mode = mode.Real
		default:
			fail()
		}

	case "<", "<=", ">", ">=":
		if lm.Class == mode.CHAR && rm.Class == mode.CHAR {
			n.Mode = mode.Bool
			return
		}
		if _, _, ok := numeric(); !ok || n.Left.Mode.Class == mode.COMPL {
			fail()
			return
		}
		n.Mode = mode.Bool

	case "=", "/=":
		if lm.Class == rm.Class && lm.IsFoldable() {
			n.Mode = mode.Bool
			return
		}
		if _, _, ok := numeric(); !ok {
			fail()
			return
		}
		n.Mode = mode.Bool

	case "AND", "OR":
		switch {
		case lm.Class == mode.BOOL && rm.Class == mode.BOOL:
			n.Mode = mode.Bool
		case lm.Class == mode.BITS && rm.Class == mode.BITS:
			n.Mode = mode.Bits
		default:
			fail()
		}

	case "ELEM":
		if lm.Class != mode.INT || rm.Class != mode.BITS {
			fail()
			return
		}
		n.Mode = mode.Bool

	default:
		// a user-defined operator would land here; none exist in this
		// subset, so the formula keeps no mode and is never basic
		a.errorf(n, diagnostics.ErrA004, "unknown operator %s", n.Text)
	}
}

// monadic computes the result mode of a monadic formula.
func (a *Analyzer) monadic(n *ast.Node) {
	om := n.Sub.Mode
	if om == nil {
		return
	}

	fail := func() {
		a.errorf(n, diagnostics.ErrA004, "operator %s undefined for %s", n.Text, om.String())
	}

	switch n.Text {
	case "-", "+":
		switch om.Class {
		case mode.INT, mode.REAL, mode.COMPL:
			n.Mode = om
		default:
			fail()
		}
	case "ABS":
		switch om.Class {
		case mode.INT:
			n.Mode = mode.Int
		case mode.REAL:
			n.Mode = mode.Real
		case mode.COMPL:
			n.Mode = mode.Real
		default:
			fail()
		}
	case "ENTIER", "ROUND":
		if om.Class != mode.REAL {
			fail()
			return
		}
		n.Mode = mode.Int
	case "ODD":
		if om.Class != mode.INT {
			fail()
			return
		}
		n.Mode = mode.Bool
	case "SIGN":
		if om.Class != mode.INT && om.Class != mode.REAL {
			fail()
			return
		}
		n.Mode = mode.Int
	case "NOT":
		switch om.Class {
		case mode.BOOL:
			n.Mode = mode.Bool
		case mode.BITS:
			n.Mode = mode.Bits
		default:
			fail()
		}
	case "RE", "IM":
		if om.Class != mode.COMPL {
			fail()
			return
		}
		n.Mode = mode.Real
	case "UPB", "LWB":
		if om.Class != mode.ROW {
			fail()
			return
		}
		n.Mode = mode.Int
	default:
		a.errorf(n, diagnostics.ErrA004, "unknown operator %s", n.Text)
	}
}
