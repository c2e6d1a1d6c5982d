package rt

import (
	"fmt"
	"strconv"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/mode"
)

type ValueType string

const (
	INT_VAL   ValueType = "INT"
	REAL_VAL  ValueType = "REAL"
	BOOL_VAL  ValueType = "BOOL"
	CHAR_VAL  ValueType = "CHAR"
	BITS_VAL  ValueType = "BITS"
	COMPL_VAL ValueType = "COMPL"
	REF_VAL   ValueType = "REF"
	ROW_VAL   ValueType = "ROW"
	PROC_VAL  ValueType = "PROC"
	VOID_VAL  ValueType = "VOID"
)

// Value is one runtime value. The genie and compiled units exchange values
// only through frames and the shared evaluation stack, so the same model
// serves both.
type Value interface {
	Type() ValueType
	Inspect() string
}

type IntVal int64

func (v IntVal) Type() ValueType { return INT_VAL }
func (v IntVal) Inspect() string { return strconv.FormatInt(int64(v), 10) }

type RealVal float64

func (v RealVal) Type() ValueType { return REAL_VAL }
func (v RealVal) Inspect() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 64)
}

type BoolVal bool

func (v BoolVal) Type() ValueType { return BOOL_VAL }
func (v BoolVal) Inspect() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

type CharVal rune

func (v CharVal) Type() ValueType { return CHAR_VAL }
func (v CharVal) Inspect() string { return string(rune(v)) }

type BitsVal uint64

func (v BitsVal) Type() ValueType { return BITS_VAL }
func (v BitsVal) Inspect() string { return "16r" + strconv.FormatUint(uint64(v), 16) }

// ComplVal is a paired-real composite with fields re and im.
type ComplVal struct {
	Re, Im float64
}

func (v ComplVal) Type() ValueType { return COMPL_VAL }
func (v ComplVal) Inspect() string {
	return fmt.Sprintf("(%s I %s)", RealVal(v.Re).Inspect(), RealVal(v.Im).Inspect())
}

// VoidVal is the value of VOID units.
type VoidVal struct{}

func (v VoidVal) Type() ValueType { return VOID_VAL }
func (v VoidVal) Inspect() string { return "EMPTY" }

// Ref is a reference to a storage cell: a frame slot or a row element,
// optionally narrowed to one field of a COMPL cell.
type Ref struct {
	Frame *Frame
	Slot  int

	Row   *Row
	Index int // flat element index, valid when Row is non-nil

	Field string // "re" or "im" when the reference selects a COMPL field
}

func (r *Ref) Type() ValueType { return REF_VAL }
func (r *Ref) Inspect() string { return "REF" }

func (r *Ref) cell() Value {
	if r.Row != nil {
		return r.Row.Elems[r.Index]
	}
	return r.Frame.Slots[r.Slot]
}

func (r *Ref) setCell(v Value) {
	if r.Row != nil {
		r.Row.Elems[r.Index] = v
		return
	}
	r.Frame.Slots[r.Slot] = v
}

// Fetch reads the referenced cell.
func (r *Ref) Fetch() Value {
	v := r.cell()
	if r.Field != "" {
		c := v.(ComplVal)
		if r.Field == "re" {
			return RealVal(c.Re)
		}
		return RealVal(c.Im)
	}
	return v
}

// Store writes the referenced cell.
func (r *Ref) Store(v Value) {
	if r.Field != "" {
		c, _ := r.cell().(ComplVal)
		if r.Field == "re" {
			c.Re = float64(v.(RealVal))
		} else {
			c.Im = float64(v.(RealVal))
		}
		r.setCell(c)
		return
	}
	r.setCell(v)
}

// SameRef is the identity relation on references: the same cell, not the
// same reference value.
func SameRef(a, b *Ref) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Frame == b.Frame && a.Slot == b.Slot &&
		a.Row == b.Row && a.Index == b.Index && a.Field == b.Field
}

// NilRef is the NIL reference; Fetch/Store through it fault.
var NilRef = (*Ref)(nil)

// Proc is a user procedure value: its declaration carries the body, and
// Outer is the frame the body's free identifiers resolve against.
type Proc struct {
	Name   string
	Params int
	Slots  int // frame size of one activation
	Ret    *mode.Mode
	Body   *ast.Node
	Outer  *Frame
}

func (p *Proc) Type() ValueType { return PROC_VAL }
func (p *Proc) Inspect() string { return "PROC " + p.Name }
