package rt

import (
	"math"

	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/token"
)

// Fault is a runtime fault raised by checked operations. The genie,
// constant folding and compiled units share these helpers, so the
// diagnostic for a fault is byte-identical however the faulting
// expression was executed.
type Fault struct {
	Line int
	Col  int
	Msg  string
}

func (f *Fault) Error() string { return f.Diagnostic().Error() }

// Diagnostic renders the fault as a positioned diagnostic.
func (f *Fault) Diagnostic() *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrR001,
		token.Token{Line: f.Line, Column: f.Col}, f.Msg)
}

// Raise aborts the current unit with a fault. Callers recover at the
// evaluation boundary.
func Raise(line, col int, msg string) {
	panic(&Fault{Line: line, Col: col, Msg: msg})
}

// Checked integer operations. a OVER b truncates toward zero; a MOD b is
// never negative (Revised Report semantics).

func OverInt(a, b int64, line, col int) int64 {
	if b == 0 {
		Raise(line, col, "division by zero")
	}
	return a / b
}

func ModInt(a, b int64, line, col int) int64 {
	if b == 0 {
		Raise(line, col, "division by zero")
	}
	m := a % b
	if m < 0 {
		if b > 0 {
			m += b
		} else {
			m -= b
		}
	}
	return m
}

// DivInt is INT / INT, which yields REAL.
func DivInt(a, b int64, line, col int) float64 {
	if b == 0 {
		Raise(line, col, "division by zero")
	}
	return float64(a) / float64(b)
}

func DivReal(a, b float64, line, col int) float64 {
	if b == 0 {
		Raise(line, col, "division by zero")
	}
	return a / b
}

// PowInt is INT ** INT with a non-negative exponent.
func PowInt(a, b int64, line, col int) int64 {
	if b < 0 {
		Raise(line, col, "negative exponent for INT power")
	}
	r := int64(1)
	for i := int64(0); i < b; i++ {
		r *= a
	}
	return r
}

func PowReal(a float64, b int64) float64 {
	return math.Pow(a, float64(b))
}

// Entier is the largest integer not exceeding x.
func Entier(x float64) int64 { return int64(math.Floor(x)) }

// RoundReal rounds half away from zero, as the standard prelude does.
func RoundReal(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}

func AbsInt(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

func SignInt(a int64) int64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

func SignReal(a float64) int64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

func OddInt(a int64) bool { return a&1 == 1 }

// Ln is checked: the logarithm of a non-positive REAL faults.
func Ln(x float64, line, col int) float64 {
	if x <= 0 {
		Raise(line, col, "ln of non-positive value")
	}
	return math.Log(x)
}

// Sqrt is checked: the square root of a negative REAL faults.
func Sqrt(x float64, line, col int) float64 {
	if x < 0 {
		Raise(line, col, "sqrt of negative value")
	}
	return math.Sqrt(x)
}
