package rt

// CompiledUnit is the callable form of one compiled statement. It computes
// side effects against the frame and leaves the unit's yielded value on the
// shared stack, exactly as the interpreter would.
type CompiledUnit func(f *Frame, s *Stack)

// registry maps unit names to linked code. It is populated by the external
// build/link collaborator (or by tests standing in for it) and consulted by
// the genie before interpreting any node generically.
var registry = map[string]CompiledUnit{}

// Register installs a linked unit under its emitted name.
func Register(name string, fn CompiledUnit) {
	registry[name] = fn
}

// Lookup returns the linked unit for a name, if any.
func Lookup(name string) (CompiledUnit, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// ResetRegistry clears all linked units.
func ResetRegistry() {
	registry = map[string]CompiledUnit{}
}
