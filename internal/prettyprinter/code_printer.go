package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
)

// --- Code Printer (Output looks like source code) ---

// Dyadic priorities (higher = binds tighter), matching the parser.
var operatorPrecedence = map[string]int{
	"OR":   2,
	"AND":  3,
	"=":    4,
	"/=":   4,
	"<":    5,
	"<=":   5,
	">":    5,
	">=":   5,
	"+":    6,
	"-":    6,
	"*":    7,
	"/":    7,
	"OVER": 7,
	"MOD":  7,
	"ELEM": 7,
	"**":   8,
}

func getPrecedence(op string) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 9
}

// CodePrinter renders a unit back to source form. The unit compiler echoes
// the rendering above each emitted function so the translation unit can be
// read side by side with the program.
type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders one unit on a single line.
func (p *CodePrinter) Print(n *ast.Node) string {
	p.buf.Reset()
	p.unit(n, 0)
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) unit(n *ast.Node, outer int) {
	if n == nil {
		p.write("SKIP")
		return
	}
	switch n.Kind {
	case ast.KindDenotation:
		p.denotation(n)

	case ast.KindNil:
		p.write("NIL")

	case ast.KindSkip:
		p.write("SKIP")

	case ast.KindIdentifier:
		p.write(n.Text)

	case ast.KindDereference:
		// the coercion is implicit in source form
		p.unit(n.Sub, outer)

	case ast.KindFormula:
		prec := getPrecedence(n.Text)
		if prec < outer {
			p.write("(")
		}
		p.unit(n.Left, prec)
		p.write(" " + n.Text + " ")
		p.unit(n.Right, prec+1)
		if prec < outer {
			p.write(")")
		}

	case ast.KindMonadicFormula:
		p.write(n.Text)
		if isWordOperator(n.Text) {
			p.write(" ")
		}
		p.unit(n.Sub, 9)

	case ast.KindCall:
		p.unit(n.Sub, 9)
		p.write("(")
		p.list(n.List)
		p.write(")")

	case ast.KindSlice:
		p.unit(n.Sub, 9)
		p.write("[")
		p.list(n.List)
		p.write("]")

	case ast.KindTrimmer:
		p.unit(n.Left, 0)
		p.write(":")
		p.unit(n.Right, 0)

	case ast.KindSelection:
		p.write(n.Text + " OF ")
		p.unit(n.Sub, 9)

	case ast.KindClosedClause:
		p.write("(")
		for i, u := range n.List {
			if i > 0 {
				p.write("; ")
			}
			p.phrase(u)
		}
		p.write(")")

	case ast.KindCollateralClause:
		p.write("(")
		p.list(n.List)
		p.write(")")

	case ast.KindConditionalClause:
		p.write("IF ")
		p.unit(n.Cond, 0)
		p.write(" THEN ")
		p.unit(n.ThenPart, 0)
		if n.ElsePart != nil {
			p.write(" ELSE ")
			p.unit(n.ElsePart, 0)
		}
		p.write(" FI")

	case ast.KindCaseClause:
		p.write("CASE ")
		p.unit(n.Cond, 0)
		p.write(" IN ")
		p.list(n.List)
		if n.ElsePart != nil {
			p.write(" OUT ")
			p.unit(n.ElsePart, 0)
		}
		p.write(" ESAC")

	case ast.KindLoopClause:
		sep := ""
		if n.LoopVar != nil {
			p.write("FOR " + n.LoopVar.Text)
			sep = " "
		}
		if n.FromPart != nil {
			p.write(sep + "FROM ")
			p.unit(n.FromPart, 0)
			sep = " "
		}
		if n.ByPart != nil {
			p.write(sep + "BY ")
			p.unit(n.ByPart, 0)
			sep = " "
		}
		if n.ToPart != nil {
			p.write(sep + "TO ")
			p.unit(n.ToPart, 0)
			sep = " "
		}
		if n.WhilePart != nil {
			p.write(sep + "WHILE ")
			p.unit(n.WhilePart, 0)
			sep = " "
		}
		p.write(sep + "DO ")
		p.unit(n.BodyPart, 0)
		p.write(" OD")

	case ast.KindAssignment:
		p.unit(n.Left, 1)
		p.write(" := ")
		p.unit(n.Right, 1)

	case ast.KindIdentityRelation:
		p.unit(n.Left, 1)
		if n.Text == "ISNT" {
			p.write(" :/=: ")
		} else {
			p.write(" :=: ")
		}
		p.unit(n.Right, 1)

	case ast.KindCast:
		if n.Mode != nil {
			p.write(n.Mode.String() + " ")
		}
		p.write("(")
		p.unit(n.Sub, 0)
		p.write(")")

	default:
		p.write(strings.ToUpper(n.Kind.String()))
	}
}

func (p *CodePrinter) phrase(n *ast.Node) {
	switch n.Kind {
	case ast.KindVariableDeclaration:
		p.write(declMode(n) + " " + n.Text)
		if n.Sub != nil {
			p.write(" := ")
			p.unit(n.Sub, 1)
		}
	case ast.KindIdentityDeclaration:
		p.write(declMode(n) + " " + n.Text + " = ")
		p.unit(n.Sub, 1)
	case ast.KindProcDeclaration:
		p.write("PROC " + n.Text + " = ...")
	default:
		p.unit(n, 0)
	}
}

func (p *CodePrinter) list(units []*ast.Node) {
	for i, u := range units {
		if i > 0 {
			p.write(", ")
		}
		p.unit(u, 0)
	}
}

func (p *CodePrinter) denotation(n *ast.Node) {
	if n.Mode == nil {
		p.write(n.Text)
		return
	}
	switch n.Mode.Class {
	case mode.BOOL:
		if n.BoolVal {
			p.write("TRUE")
		} else {
			p.write("FALSE")
		}
	case mode.CHAR:
		p.write(`"` + string(n.CharVal) + `"`)
	case mode.BITS:
		p.write("16r" + strconv.FormatUint(n.BitsVal, 16))
	default:
		p.write(n.Text)
	}
}

func declMode(n *ast.Node) string {
	if n.Mode == nil {
		return "MODE?"
	}
	// a variable's declared mode is the referenced mode
	if n.Kind == ast.KindVariableDeclaration {
		return n.Mode.Deref().String()
	}
	return n.Mode.String()
}

func isWordOperator(op string) bool {
	for _, r := range op {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return len(op) > 0
}
