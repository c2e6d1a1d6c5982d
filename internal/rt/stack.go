package rt

// Stack is the shared evaluation stack. The genie, compiled units and the
// constant evaluator all operate on the same stack, so any isolated
// sub-computation must leave the height exactly as it found it.
type Stack struct {
	vals []Value
}

func NewStack() *Stack {
	return &Stack{vals: make([]Value, 0, 64)}
}

func (s *Stack) Push(v Value) {
	s.vals = append(s.vals, v)
}

func (s *Stack) Pop() Value {
	v := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	return v
}

// Top peeks at the topmost value.
func (s *Stack) Top() Value {
	return s.vals[len(s.vals)-1]
}

// Sp returns the current stack pointer.
func (s *Stack) Sp() int { return len(s.vals) }

// Restore truncates the stack back to a saved pointer. Restoring to a
// higher pointer than the current height is a programmer error.
func (s *Stack) Restore(sp int) {
	if sp > len(s.vals) {
		panic("internal: stack restore above current height")
	}
	s.vals = s.vals[:sp]
}

// Push helpers used by emitted PUSH fragments.

func (s *Stack) PushInt(v int64)    { s.Push(IntVal(v)) }
func (s *Stack) PushReal(v float64) { s.Push(RealVal(v)) }
func (s *Stack) PushBool(v bool)    { s.Push(BoolVal(v)) }
func (s *Stack) PushChar(v rune)    { s.Push(CharVal(v)) }
func (s *Stack) PushBits(v uint64)  { s.Push(BitsVal(v)) }
func (s *Stack) PushVoid()          { s.Push(VoidVal{}) }
