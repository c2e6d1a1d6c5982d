package mode

import "strings"

// Class is the coarse classification of a mode. The unit compiler only ever
// distinguishes these shapes; finer structure lives in the Mode fields.
type Class int

const (
	VOID Class = iota
	INT
	REAL
	BOOL
	CHAR
	BITS
	COMPL // paired-real composite, a struct of primitives
	REF
	ROW
	PROC
	OTHER
)

// Mode is the resolved static type of a value or storage location. Modes are
// built by the analyzer and shared; they are never mutated after creation.
type Mode struct {
	Class  Class
	To     *Mode   // REF: the referenced mode
	Elem   *Mode   // ROW: the element mode
	Dims   int     // ROW: number of dimensions
	Params []*Mode // PROC: parameter modes
	Ret    *Mode   // PROC: return mode, nil for VOID
}

// Canonical primitive modes. Ref/Row/Proc modes are constructed per use.
var (
	Void  = &Mode{Class: VOID}
	Int   = &Mode{Class: INT}
	Real  = &Mode{Class: REAL}
	Bool  = &Mode{Class: BOOL}
	Char  = &Mode{Class: CHAR}
	Bits  = &Mode{Class: BITS}
	Compl = &Mode{Class: COMPL}
)

// NewRef builds REF m.
func NewRef(to *Mode) *Mode { return &Mode{Class: REF, To: to} }

// NewRow builds [dims] m.
func NewRow(elem *Mode, dims int) *Mode { return &Mode{Class: ROW, Elem: elem, Dims: dims} }

// NewProc builds PROC (params) ret.
func NewProc(params []*Mode, ret *Mode) *Mode {
	return &Mode{Class: PROC, Params: params, Ret: ret}
}

// IsPrimitive reports a fixed-size scalar mode.
func (m *Mode) IsPrimitive() bool {
	if m == nil {
		return false
	}
	switch m.Class {
	case INT, REAL, BOOL, CHAR, BITS:
		return true
	}
	return false
}

// IsStructOfPrimitives reports a composite whose fields are all primitive.
// COMPL (two reals) is the only such mode in this subset.
func (m *Mode) IsStructOfPrimitives() bool {
	return m != nil && m.Class == COMPL
}

// IsBasic reports whether the mode is simple enough for direct native
// translation: a primitive, a struct of primitives, a row of primitives, or
// a reference to a non-reference non-procedure basic mode.
func (m *Mode) IsBasic() bool {
	if m == nil {
		return false
	}
	switch m.Class {
	case INT, REAL, BOOL, CHAR, BITS, COMPL:
		return true
	case ROW:
		return m.Elem.IsPrimitive()
	case REF:
		t := m.To
		if t == nil || t.Class == REF || t.Class == PROC {
			return false
		}
		return t.IsBasic()
	}
	return false
}

// IsFoldable reports whether compile-time constants of this mode can be
// represented as emitted literals: primitives and paired-primitive
// composites.
func (m *Mode) IsFoldable() bool {
	return m.IsPrimitive() || m.IsStructOfPrimitives()
}

// Deref strips one REF, or returns the mode unchanged.
func (m *Mode) Deref() *Mode {
	if m != nil && m.Class == REF {
		return m.To
	}
	return m
}

// Equivalent reports structural mode equivalence.
func Equivalent(a, b *Mode) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Class != b.Class {
		return false
	}
	switch a.Class {
	case REF:
		return Equivalent(a.To, b.To)
	case ROW:
		return a.Dims == b.Dims && Equivalent(a.Elem, b.Elem)
	case PROC:
		if len(a.Params) != len(b.Params) || !Equivalent(a.Ret, b.Ret) {
			return false
		}
		for i := range a.Params {
			if !Equivalent(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (m *Mode) String() string {
	if m == nil {
		return "VOID"
	}
	switch m.Class {
	case VOID:
		return "VOID"
	case INT:
		return "INT"
	case REAL:
		return "REAL"
	case BOOL:
		return "BOOL"
	case CHAR:
		return "CHAR"
	case BITS:
		return "BITS"
	case COMPL:
		return "COMPL"
	case REF:
		return "REF " + m.To.String()
	case ROW:
		return "[" + strings.Repeat(",", m.Dims-1) + "] " + m.Elem.String()
	case PROC:
		parts := make([]string, len(m.Params))
		for i, p := range m.Params {
			parts[i] = p.String()
		}
		ret := "VOID"
		if m.Ret != nil {
			ret = m.Ret.String()
		}
		return "PROC (" + strings.Join(parts, ", ") + ") " + ret
	}
	return "MODE?"
}
