package rt

// Frame is one activation record: the storage for a scope or a procedure
// call. Frames chain through the static link, which identifier access
// follows Level steps up.
type Frame struct {
	Static *Frame
	Slots  []Value
}

// OpenFrame begins an activation with room for size slots. Compiled units
// accelerating a call go through OpenFrame/CloseFrame exactly like the
// genie does: compiled code never bypasses the call protocol.
func OpenFrame(static *Frame, size int) *Frame {
	return &Frame{Static: static, Slots: make([]Value, size)}
}

// CloseFrame ends an activation. The frame itself is garbage collected;
// this exists so compiled call sequences mirror the interpreter's protocol
// and so the protocol has a single place to grow bookkeeping.
func CloseFrame(f *Frame) {}

// Ancestor walks the static chain up the given number of levels.
func (f *Frame) Ancestor(levels int) *Frame {
	g := f
	for i := 0; i < levels; i++ {
		g = g.Static
	}
	return g
}

// Loc returns a reference to the slot at (levels up, slot).
func (f *Frame) Loc(levels, slot int) *Ref {
	return &Ref{Frame: f.Ancestor(levels), Slot: slot}
}

// Get fetches the value in the slot at (levels up, slot).
func (f *Frame) Get(levels, slot int) Value {
	return f.Ancestor(levels).Slots[slot]
}

// Set stores into the slot at (levels up, slot).
func (f *Frame) Set(levels, slot int, v Value) {
	f.Ancestor(levels).Slots[slot] = v
}

// Accessors used by emitted code. They unwrap the scalar payloads so
// generated fragments read and write machine values directly.

func (f *Frame) GetInt(levels, slot int) int64 {
	return int64(f.Get(levels, slot).(IntVal))
}

func (f *Frame) SetInt(levels, slot int, v int64) {
	f.Set(levels, slot, IntVal(v))
}

func (f *Frame) GetReal(levels, slot int) float64 {
	return float64(f.Get(levels, slot).(RealVal))
}

func (f *Frame) SetReal(levels, slot int, v float64) {
	f.Set(levels, slot, RealVal(v))
}

func (f *Frame) GetBool(levels, slot int) bool {
	return bool(f.Get(levels, slot).(BoolVal))
}

func (f *Frame) SetBool(levels, slot int, v bool) {
	f.Set(levels, slot, BoolVal(v))
}

func (f *Frame) GetChar(levels, slot int) rune {
	return rune(f.Get(levels, slot).(CharVal))
}

func (f *Frame) SetChar(levels, slot int, v rune) {
	f.Set(levels, slot, CharVal(v))
}

func (f *Frame) GetBits(levels, slot int) uint64 {
	return uint64(f.Get(levels, slot).(BitsVal))
}

func (f *Frame) SetBits(levels, slot int, v uint64) {
	f.Set(levels, slot, BitsVal(v))
}

// GetRow fetches the row value referenced by the slot at (levels, slot).
func (f *Frame) GetRow(levels, slot int) *Row {
	return f.Get(levels, slot).(*Row)
}
