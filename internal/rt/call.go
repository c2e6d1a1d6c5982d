package rt

import "github.com/a68go/a68go/internal/ast"

// UnitRunner is the interpreter's evaluation entry point, installed by the
// genie at construction. Compiled call sequences dispatch procedure bodies
// through it: compiled code accelerates calls but never bypasses the
// ordinary call protocol.
var UnitRunner func(n *ast.Node, f *Frame) Value

// CallUnit runs a procedure body in an already-opened, already-marshalled
// frame through the ordinary dispatch.
func CallUnit(p *Proc, f *Frame) Value {
	if UnitRunner == nil {
		panic("internal: no unit runner installed")
	}
	return UnitRunner(p.Body, f)
}

// FieldRef narrows a COMPL reference to one of its fields.
func FieldRef(r *Ref, field string) *Ref {
	nr := *r
	nr.Field = field
	return &nr
}

// Typed unwrappers used by emitted fragments around Value-producing calls.

func AsInt(v Value) int64      { return int64(v.(IntVal)) }
func AsReal(v Value) float64   { return float64(v.(RealVal)) }
func AsBool(v Value) bool      { return bool(v.(BoolVal)) }
func AsChar(v Value) rune      { return rune(v.(CharVal)) }
func AsBits(v Value) uint64    { return uint64(v.(BitsVal)) }
func AsCompl(v Value) ComplVal { return v.(ComplVal) }
func AsProc(v Value) *Proc     { return v.(*Proc) }
func AsRow(v Value) *Row       { return v.(*Row) }
