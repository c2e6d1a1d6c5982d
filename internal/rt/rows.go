package rt

import "fmt"

// Dim is one dimension of a row descriptor.
type Dim struct {
	Lower int64 // lower bound
	Upper int64 // upper bound
	Span  int64 // elements per step in this dimension
}

// Row is a multi-dimensional array: a descriptor over flat element storage.
// The flat index of element (i1, ..., in) is sum(ik * span k) - shift,
// which is the descriptor layout the emitter's slice code mirrors.
type Row struct {
	Dims  []Dim
	Shift int64
	Elems []Value
}

// NewRow allocates a row from bound pairs (lower1, upper1, lower2, ...).
// Elements are zero-initialized by the caller.
func NewRow(bounds ...int64) *Row {
	if len(bounds)%2 != 0 {
		panic("internal: odd bound list")
	}
	n := len(bounds) / 2
	r := &Row{Dims: make([]Dim, n)}
	size := int64(1)
	for k := n - 1; k >= 0; k-- {
		lo, up := bounds[2*k], bounds[2*k+1]
		extent := up - lo + 1
		if extent < 0 {
			extent = 0
		}
		r.Dims[k] = Dim{Lower: lo, Upper: up, Span: size}
		size *= extent
	}
	for k := range r.Dims {
		r.Shift += r.Dims[k].Lower * r.Dims[k].Span
	}
	r.Elems = make([]Value, size)
	return r
}

// Flat folds subscript values into the flat element index, checking each
// against its bounds. Both the genie and emitted slice code go through
// this, so bound faults are identical either way.
func (r *Row) Flat(line, col int, subs ...int64) int {
	if len(subs) != len(r.Dims) {
		Raise(line, col, fmt.Sprintf("%d subscripts for %d dimensions", len(subs), len(r.Dims)))
	}
	idx := int64(0)
	for k, s := range subs {
		d := r.Dims[k]
		if s < d.Lower || s > d.Upper {
			Raise(line, col, fmt.Sprintf("subscript %d out of bounds [%d:%d]", s, d.Lower, d.Upper))
		}
		idx += s * d.Span
	}
	return int(idx - r.Shift)
}

// Elem returns a reference to the element at the given subscripts.
func (r *Row) Elem(line, col int, subs ...int64) *Ref {
	return &Ref{Row: r, Index: r.Flat(line, col, subs...)}
}

// Upb and Lwb expose the bounds of one dimension (1-based, as in UPB/LWB).
func (r *Row) Upb(dim int) int64 { return r.Dims[dim-1].Upper }
func (r *Row) Lwb(dim int) int64 { return r.Dims[dim-1].Lower }

func (r *Row) Type() ValueType { return ROW_VAL }
func (r *Row) Inspect() string {
	s := "("
	for i, e := range r.Elems {
		if i > 0 {
			s += ", "
		}
		if e == nil {
			s += "SKIP"
		} else {
			s += e.Inspect()
		}
	}
	return s + ")"
}
