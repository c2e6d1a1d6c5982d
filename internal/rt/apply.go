package rt

import "math"

// Value-level application of the standard operators. The genie applies
// these after evaluating operand nodes; the constant evaluator applies them
// to already-folded values. One implementation, one set of fault messages.

// Dyadic applies a dyadic operator. ok is false when the operator is not
// defined for the operand values.
func Dyadic(op string, l, r Value, line, col int) (Value, bool) {
	switch lv := l.(type) {
	case IntVal:
		rv, isInt := r.(IntVal)
		if !isInt {
			break
		}
		a, b := int64(lv), int64(rv)
		switch op {
		case "+":
			return IntVal(a + b), true
		case "-":
			return IntVal(a - b), true
		case "*":
			return IntVal(a * b), true
		case "/":
			return RealVal(DivInt(a, b, line, col)), true
		case "OVER":
			return IntVal(OverInt(a, b, line, col)), true
		case "MOD":
			return IntVal(ModInt(a, b, line, col)), true
		case "**":
			return IntVal(PowInt(a, b, line, col)), true
		case "=":
			return BoolVal(a == b), true
		case "/=":
			return BoolVal(a != b), true
		case "<":
			return BoolVal(a < b), true
		case "<=":
			return BoolVal(a <= b), true
		case ">":
			return BoolVal(a > b), true
		case ">=":
			return BoolVal(a >= b), true
		}

	case RealVal:
		a := float64(lv)
		if op == "**" {
			if e, isInt := r.(IntVal); isInt {
				return RealVal(PowReal(a, int64(e))), true
			}
			break
		}
		rv, isReal := r.(RealVal)
		if !isReal {
			break
		}
		b := float64(rv)
		switch op {
		case "+":
			return RealVal(a + b), true
		case "-":
			return RealVal(a - b), true
		case "*":
			return RealVal(a * b), true
		case "/":
			return RealVal(DivReal(a, b, line, col)), true
		case "=":
			return BoolVal(a == b), true
		case "/=":
			return BoolVal(a != b), true
		case "<":
			return BoolVal(a < b), true
		case "<=":
			return BoolVal(a <= b), true
		case ">":
			return BoolVal(a > b), true
		case ">=":
			return BoolVal(a >= b), true
		}

	case BoolVal:
		rv, isBool := r.(BoolVal)
		if !isBool {
			break
		}
		switch op {
		case "AND":
			return BoolVal(bool(lv) && bool(rv)), true
		case "OR":
			return BoolVal(bool(lv) || bool(rv)), true
		case "=":
			return BoolVal(lv == rv), true
		case "/=":
			return BoolVal(lv != rv), true
		}

	case CharVal:
		rv, isChar := r.(CharVal)
		if !isChar {
			break
		}
		switch op {
		case "=":
			return BoolVal(lv == rv), true
		case "/=":
			return BoolVal(lv != rv), true
		case "<":
			return BoolVal(lv < rv), true
		case "<=":
			return BoolVal(lv <= rv), true
		case ">":
			return BoolVal(lv > rv), true
		case ">=":
			return BoolVal(lv >= rv), true
		}

	case BitsVal:
		rv, isBits := r.(BitsVal)
		if !isBits {
			break
		}
		switch op {
		case "AND":
			return BitsVal(lv & rv), true
		case "OR":
			return BitsVal(lv | rv), true
		case "=":
			return BoolVal(lv == rv), true
		case "/=":
			return BoolVal(lv != rv), true
		}

	case ComplVal:
		rv, isCompl := r.(ComplVal)
		if !isCompl {
			break
		}
		switch op {
		case "+":
			return AddCompl(lv, rv), true
		case "-":
			return SubCompl(lv, rv), true
		case "*":
			return MulCompl(lv, rv), true
		case "/":
			return DivCompl(lv, rv, line, col), true
		case "=":
			return BoolVal(lv == rv), true
		case "/=":
			return BoolVal(lv != rv), true
		}
	}

	// ELEM is the one mixed-operand dyadic
	if op == "ELEM" {
		bit, isInt := l.(IntVal)
		w, isBits := r.(BitsVal)
		if isInt && isBits {
			return BoolVal(ElemBit(int64(bit), uint64(w), line, col)), true
		}
	}
	return nil, false
}

// Monadic applies a monadic operator.
func Monadic(op string, v Value, line, col int) (Value, bool) {
	switch op {
	case "+":
		switch v.(type) {
		case IntVal, RealVal, ComplVal:
			return v, true
		}
	case "-":
		switch o := v.(type) {
		case IntVal:
			return IntVal(-int64(o)), true
		case RealVal:
			return RealVal(-float64(o)), true
		case ComplVal:
			return NegCompl(o), true
		}
	case "ABS":
		switch o := v.(type) {
		case IntVal:
			return IntVal(AbsInt(int64(o))), true
		case RealVal:
			return RealVal(math.Abs(float64(o))), true
		case ComplVal:
			return RealVal(AbsCompl(o)), true
		}
	case "ENTIER":
		if o, isReal := v.(RealVal); isReal {
			return IntVal(Entier(float64(o))), true
		}
	case "ROUND":
		if o, isReal := v.(RealVal); isReal {
			return IntVal(RoundReal(float64(o))), true
		}
	case "ODD":
		if o, isInt := v.(IntVal); isInt {
			return BoolVal(OddInt(int64(o))), true
		}
	case "SIGN":
		switch o := v.(type) {
		case IntVal:
			return IntVal(SignInt(int64(o))), true
		case RealVal:
			return IntVal(SignReal(float64(o))), true
		}
	case "NOT":
		switch o := v.(type) {
		case BoolVal:
			return BoolVal(!bool(o)), true
		case BitsVal:
			return BitsVal(^uint64(o)), true
		}
	case "RE":
		if o, isCompl := v.(ComplVal); isCompl {
			return RealVal(o.Re), true
		}
	case "IM":
		if o, isCompl := v.(ComplVal); isCompl {
			return RealVal(o.Im), true
		}
	case "UPB":
		if o, isRow := v.(*Row); isRow {
			return IntVal(o.Upb(1)), true
		}
	case "LWB":
		if o, isRow := v.(*Row); isRow {
			return IntVal(o.Lwb(1)), true
		}
	}
	return nil, false
}

// StdMath applies a standard-prelude mathematical procedure to its REAL
// argument. ok is false for unknown names.
func StdMath(name string, x float64, line, col int) (float64, bool) {
	switch name {
	case "sin":
		return math.Sin(x), true
	case "cos":
		return math.Cos(x), true
	case "tan":
		return math.Tan(x), true
	case "exp":
		return math.Exp(x), true
	case "arctan":
		return math.Atan(x), true
	case "ln":
		return Ln(x, line, col), true
	case "sqrt":
		return Sqrt(x, line, col), true
	}
	return 0, false
}

// ElemBit tests bit position (1 = most significant) of a BITS word.
func ElemBit(bit int64, w uint64, line, col int) bool {
	if bit < 1 || bit > 64 {
		Raise(line, col, "ELEM position out of range")
	}
	return w>>(64-bit)&1 == 1
}

// Paired-real arithmetic, shared by the genie and emitted fragments.

func AddCompl(a, b ComplVal) ComplVal {
	return ComplVal{Re: a.Re + b.Re, Im: a.Im + b.Im}
}

func SubCompl(a, b ComplVal) ComplVal {
	return ComplVal{Re: a.Re - b.Re, Im: a.Im - b.Im}
}

func MulCompl(a, b ComplVal) ComplVal {
	x := complex(a.Re, a.Im) * complex(b.Re, b.Im)
	return ComplVal{Re: real(x), Im: imag(x)}
}

func DivCompl(a, b ComplVal, line, col int) ComplVal {
	if b.Re == 0 && b.Im == 0 {
		Raise(line, col, "division by zero")
	}
	x := complex(a.Re, a.Im) / complex(b.Re, b.Im)
	return ComplVal{Re: real(x), Im: imag(x)}
}

func NegCompl(a ComplVal) ComplVal {
	return ComplVal{Re: -a.Re, Im: -a.Im}
}

func AbsCompl(a ComplVal) float64 {
	return math.Hypot(a.Re, a.Im)
}
