package unitc

import (
	"fmt"
	"strconv"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/rt"
)

// Translation tables. They are built once and never mutated: the classifier
// consults them to decide eligibility and the emitter consults them to
// render fragments, so the two can never disagree about what is compilable.

// fragment is one operator or procedure translation. The pattern is a
// format string over the operand fragments; needsPos appends the source
// position for checked operations that can fault.
type fragment struct {
	pattern  string
	needsPos bool
}

func (fr fragment) render(pos [2]int, operands ...string) string {
	args := make([]interface{}, 0, len(operands)+2)
	for _, o := range operands {
		args = append(args, o)
	}
	if fr.needsPos {
		args = append(args, pos[0], pos[1])
	}
	return fmt.Sprintf(fr.pattern, args...)
}

// dyadicKey identifies a dyadic translation by operator and operand class.
// The analyzer has already balanced the operands, so one class suffices
// except for the mixed-operand ELEM.
func dyadicKey(op string, cl mode.Class) string {
	return op + ":" + strconv.Itoa(int(cl))
}

var dyadicTable = map[string]fragment{
	dyadicKey("+", mode.INT):    {pattern: "(%s + %s)"},
	dyadicKey("-", mode.INT):    {pattern: "(%s - %s)"},
	dyadicKey("*", mode.INT):    {pattern: "(%s * %s)"},
	dyadicKey("/", mode.INT):    {pattern: "rt.DivInt(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("OVER", mode.INT): {pattern: "rt.OverInt(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("MOD", mode.INT):  {pattern: "rt.ModInt(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("**", mode.INT):   {pattern: "rt.PowInt(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("=", mode.INT):    {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.INT):   {pattern: "(%s != %s)"},
	dyadicKey("<", mode.INT):    {pattern: "(%s < %s)"},
	dyadicKey("<=", mode.INT):   {pattern: "(%s <= %s)"},
	dyadicKey(">", mode.INT):    {pattern: "(%s > %s)"},
	dyadicKey(">=", mode.INT):   {pattern: "(%s >= %s)"},

	dyadicKey("+", mode.REAL):  {pattern: "(%s + %s)"},
	dyadicKey("-", mode.REAL):  {pattern: "(%s - %s)"},
	dyadicKey("*", mode.REAL):  {pattern: "(%s * %s)"},
	dyadicKey("/", mode.REAL):  {pattern: "rt.DivReal(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("**", mode.REAL): {pattern: "rt.PowReal(%s, %s)"},
	dyadicKey("=", mode.REAL):  {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.REAL): {pattern: "(%s != %s)"},
	dyadicKey("<", mode.REAL):  {pattern: "(%s < %s)"},
	dyadicKey("<=", mode.REAL): {pattern: "(%s <= %s)"},
	dyadicKey(">", mode.REAL):  {pattern: "(%s > %s)"},
	dyadicKey(">=", mode.REAL): {pattern: "(%s >= %s)"},

	dyadicKey("AND", mode.BOOL): {pattern: "(%s && %s)"},
	dyadicKey("OR", mode.BOOL):  {pattern: "(%s || %s)"},
	dyadicKey("=", mode.BOOL):   {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.BOOL):  {pattern: "(%s != %s)"},

	dyadicKey("=", mode.CHAR):  {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.CHAR): {pattern: "(%s != %s)"},
	dyadicKey("<", mode.CHAR):  {pattern: "(%s < %s)"},
	dyadicKey("<=", mode.CHAR): {pattern: "(%s <= %s)"},
	dyadicKey(">", mode.CHAR):  {pattern: "(%s > %s)"},
	dyadicKey(">=", mode.CHAR): {pattern: "(%s >= %s)"},

	dyadicKey("AND", mode.BITS): {pattern: "(%s & %s)"},
	dyadicKey("OR", mode.BITS):  {pattern: "(%s | %s)"},
	dyadicKey("=", mode.BITS):   {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.BITS):  {pattern: "(%s != %s)"},

	dyadicKey("+", mode.COMPL):  {pattern: "rt.AddCompl(%s, %s)"},
	dyadicKey("-", mode.COMPL):  {pattern: "rt.SubCompl(%s, %s)"},
	dyadicKey("*", mode.COMPL):  {pattern: "rt.MulCompl(%s, %s)"},
	dyadicKey("/", mode.COMPL):  {pattern: "rt.DivCompl(%s, %s, %d, %d)", needsPos: true},
	dyadicKey("=", mode.COMPL):  {pattern: "(%s == %s)"},
	dyadicKey("/=", mode.COMPL): {pattern: "(%s != %s)"},

	// ELEM keys on its left (INT) operand
	dyadicKey("ELEM", mode.INT): {pattern: "rt.ElemBit(%s, %s, %d, %d)", needsPos: true},
}

var monadicTable = map[string]fragment{
	dyadicKey("+", mode.INT):   {pattern: "(+%s)"},
	dyadicKey("+", mode.REAL):  {pattern: "(+%s)"},
	dyadicKey("+", mode.COMPL): {pattern: "%s"},

	dyadicKey("-", mode.INT):   {pattern: "(-%s)"},
	dyadicKey("-", mode.REAL):  {pattern: "(-%s)"},
	dyadicKey("-", mode.COMPL): {pattern: "rt.NegCompl(%s)"},

	dyadicKey("ABS", mode.INT):   {pattern: "rt.AbsInt(%s)"},
	dyadicKey("ABS", mode.REAL):  {pattern: "math.Abs(%s)"},
	dyadicKey("ABS", mode.COMPL): {pattern: "rt.AbsCompl(%s)"},

	dyadicKey("ENTIER", mode.REAL): {pattern: "rt.Entier(%s)"},
	dyadicKey("ROUND", mode.REAL):  {pattern: "rt.RoundReal(%s)"},
	dyadicKey("ODD", mode.INT):     {pattern: "rt.OddInt(%s)"},
	dyadicKey("SIGN", mode.INT):    {pattern: "rt.SignInt(%s)"},
	dyadicKey("SIGN", mode.REAL):   {pattern: "rt.SignReal(%s)"},

	dyadicKey("NOT", mode.BOOL): {pattern: "(!%s)"},
	dyadicKey("NOT", mode.BITS): {pattern: "(^%s)"},

	dyadicKey("RE", mode.COMPL): {pattern: "(%s).Re"},
	dyadicKey("IM", mode.COMPL): {pattern: "(%s).Im"},

	dyadicKey("UPB", mode.ROW): {pattern: "(%s).Upb(1)"},
	dyadicKey("LWB", mode.ROW): {pattern: "(%s).Lwb(1)"},
}

// stdProcTable maps standard-prelude mathematical procedures to fragments
// over one REAL argument. print is deliberately absent: transput stays with
// the interpreter.
var stdProcTable = map[string]fragment{
	"sin":    {pattern: "math.Sin(%s)"},
	"cos":    {pattern: "math.Cos(%s)"},
	"tan":    {pattern: "math.Tan(%s)"},
	"exp":    {pattern: "math.Exp(%s)"},
	"arctan": {pattern: "math.Atan(%s)"},
	"ln":     {pattern: "rt.Ln(%s, %d, %d)", needsPos: true},
	"sqrt":   {pattern: "rt.Sqrt(%s, %d, %d)", needsPos: true},
}

// stdConstTable maps recognized standard constants to literal fragments and
// to their values for the constant evaluator.
var stdConstTable = map[string]struct {
	frag  string
	value rt.Value
}{
	"pi":        {frag: "math.Pi", value: rt.RealVal(3.141592653589793)},
	"maxint":    {frag: "int64(math.MaxInt64)", value: rt.IntVal(1<<63 - 1)},
	"maxreal":   {frag: "math.MaxFloat64", value: rt.RealVal(1.7976931348623157e+308)},
	"smallreal": {frag: "2.220446049250313e-16", value: rt.RealVal(2.220446049250313e-16)},
}

func dyadicFragment(n *ast.Node) (fragment, bool) {
	if n.Left == nil || n.Left.Mode == nil {
		return fragment{}, false
	}
	fr, ok := dyadicTable[dyadicKey(n.Text, n.Left.Mode.Class)]
	return fr, ok
}

func monadicFragment(n *ast.Node) (fragment, bool) {
	if n.Sub == nil || n.Sub.Mode == nil {
		return fragment{}, false
	}
	cl := n.Sub.Mode.Class
	if cl == mode.REF {
		cl = n.Sub.Mode.To.Class
	}
	fr, ok := monadicTable[dyadicKey(n.Text, cl)]
	return fr, ok
}

// goType renders the Go type a temporary of the given mode has.
func goType(m *mode.Mode) string {
	if m == nil {
		return ""
	}
	switch m.Class {
	case mode.INT:
		return "int64"
	case mode.REAL:
		return "float64"
	case mode.BOOL:
		return "bool"
	case mode.CHAR:
		return "rune"
	case mode.BITS:
		return "uint64"
	case mode.COMPL:
		return "rt.ComplVal"
	case mode.ROW:
		return "*rt.Row"
	case mode.REF:
		return "*rt.Ref"
	}
	return ""
}

// accessorSuffix picks the typed Frame accessor for a primitive mode.
func accessorSuffix(m *mode.Mode) string {
	switch m.Class {
	case mode.INT:
		return "Int"
	case mode.REAL:
		return "Real"
	case mode.BOOL:
		return "Bool"
	case mode.CHAR:
		return "Char"
	case mode.BITS:
		return "Bits"
	}
	return ""
}

// wrapValue lifts a machine-typed fragment into an rt.Value fragment.
func wrapValue(expr string, m *mode.Mode) string {
	switch m.Class {
	case mode.INT:
		return "rt.IntVal(" + expr + ")"
	case mode.REAL:
		return "rt.RealVal(" + expr + ")"
	case mode.BOOL:
		return "rt.BoolVal(" + expr + ")"
	case mode.CHAR:
		return "rt.CharVal(" + expr + ")"
	case mode.BITS:
		return "rt.BitsVal(" + expr + ")"
	}
	// COMPL, ROW and REF fragments already are rt values
	return expr
}

// unwrapValue narrows an rt.Value fragment back to its machine type.
func unwrapValue(expr string, m *mode.Mode) string {
	switch m.Class {
	case mode.INT:
		return "rt.AsInt(" + expr + ")"
	case mode.REAL:
		return "rt.AsReal(" + expr + ")"
	case mode.BOOL:
		return "rt.AsBool(" + expr + ")"
	case mode.CHAR:
		return "rt.AsChar(" + expr + ")"
	case mode.BITS:
		return "rt.AsBits(" + expr + ")"
	case mode.COMPL:
		return "rt.AsCompl(" + expr + ")"
	case mode.ROW:
		return "rt.AsRow(" + expr + ")"
	}
	return expr
}

// literal renders a folded value as a Go literal fragment.
func literal(v rt.Value) string {
	switch t := v.(type) {
	case rt.IntVal:
		return strconv.FormatInt(int64(t), 10)
	case rt.RealVal:
		return realLiteral(float64(t))
	case rt.BoolVal:
		if t {
			return "true"
		}
		return "false"
	case rt.CharVal:
		return strconv.QuoteRune(rune(t))
	case rt.BitsVal:
		return "0x" + strconv.FormatUint(uint64(t), 16)
	case rt.ComplVal:
		return fmt.Sprintf("rt.ComplVal{Re: %s, Im: %s}", realLiteral(t.Re), realLiteral(t.Im))
	}
	return ""
}

func realLiteral(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	// keep the literal unambiguously floating even for integral values
	if !containsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func containsAny(s, chars string) bool {
	for _, c := range s {
		for _, w := range chars {
			if c == w {
				return true
			}
		}
	}
	return false
}
