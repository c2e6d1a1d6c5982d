package unitc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/a68go/a68go/internal/config"
)

// Phase is one of the four emission phases. Every specialized compiler runs
// them in this order; bookings record the phase a computed fragment has
// reached.
type Phase int

const (
	PhaseDeclare Phase = iota + 1
	PhaseExecute
	PhaseYield
	PhasePush
)

func (p Phase) String() string {
	switch p {
	case PhaseDeclare:
		return "DECLARE"
	case PhaseExecute:
		return "EXECUTE"
	case PhaseYield:
		return "YIELD"
	case PhasePush:
		return "PUSH"
	}
	return "PHASE?"
}

// bookAction is the kind of thing a booking records.
type bookAction int

const (
	bookSlice bookAction = iota + 1 // row and flat-index temporaries
	bookTemp                        // a value-carrying temporary
	bookCall                        // a completed call sequence
)

// booking is one entry of the common-subexpression table: a structural key,
// the temporaries holding the computed result, and the phase the
// computation has reached. Entries are append-only; lookup prefers the
// most recent entry.
type booking struct {
	action bookAction
	phase  Phase
	key    string
	info   string
	seq    int
}

// CompilerContext carries the per-unit emission state: the booking table,
// the declaration registry and the indented output cursor. One context
// compiles exactly one unit.
type CompilerContext struct {
	books []booking
	seq   int

	declared  map[string]bool
	declOrder []string
	declTypes map[string]string
	named     map[string][]string

	temps  int
	indent int
	body   bytes.Buffer
}

func NewCompilerContext() *CompilerContext {
	return &CompilerContext{
		declared:  map[string]bool{},
		declTypes: map[string]string{},
		named:     map[string][]string{},
		indent:    1,
	}
}

// Book records that the computation identified by key has reached the
// given phase, with info naming its temporaries. Past the capacity the
// table stops accepting entries and every later lookup misses; compilation
// degrades, it never fails.
func (c *CompilerContext) Book(action bookAction, phase Phase, key, info string) {
	if len(c.books) >= config.BookingCapacity {
		return
	}
	c.seq++
	c.books = append(c.books, booking{action: action, phase: phase, key: key, info: info, seq: c.seq})
}

// Lookup returns the temporaries of the most recent booking for key whose
// phase is at least the requested one.
func (c *CompilerContext) Lookup(action bookAction, key string, phase Phase) (string, bool) {
	for i := len(c.books) - 1; i >= 0; i-- {
		b := c.books[i]
		if b.action == action && b.key == key && b.phase >= phase {
			return b.info, true
		}
	}
	return "", false
}

// Clear drops every booking that has reached the execute phase. It runs at
// control-flow boundaries (conditional and case arms, loop bodies) and
// after stores: a value computed on one path must not be reused on
// another. Declare-phase bookings survive, since declared temporaries are
// function-scoped either way.
func (c *CompilerContext) Clear() {
	kept := c.books[:0]
	for _, b := range c.books {
		if b.phase < PhaseExecute {
			kept = append(kept, b)
		}
	}
	c.books = kept
}

// Entries reports the number of live bookings.
func (c *CompilerContext) Entries() int { return len(c.books) }

// NewTemp mints a fresh temporary name with the given prefix.
func (c *CompilerContext) NewTemp(prefix string) string {
	name := prefix + strconv.Itoa(c.temps)
	c.temps++
	return name
}

// Declare registers a var declaration for the unit being compiled.
// Duplicate registrations are dropped; the registry keeps first-use order.
func (c *CompilerContext) Declare(name, goType string) {
	if c.declared[name] {
		return
	}
	c.declared[name] = true
	c.declOrder = append(c.declOrder, name)
	c.declTypes[name] = goType
}

// NamedTemps returns the temporaries assigned to a structural key, minting
// and declaring them on first request. Unlike bookings, name assignment is
// unbounded: past booking capacity only reuse detection degrades, never
// name resolution.
func (c *CompilerContext) NamedTemps(key string, specs ...[2]string) []string {
	if names, ok := c.named[key]; ok {
		return names
	}
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = c.NewTemp(spec[0])
		c.Declare(names[i], spec[1])
	}
	c.named[key] = names
	return names
}

// Line writes one indented statement line to the unit body.
func (c *CompilerContext) Line(format string, args ...interface{}) {
	c.body.WriteString(strings.Repeat("\t", c.indent))
	fmt.Fprintf(&c.body, format, args...)
	c.body.WriteByte('\n')
}

// Indent and Outdent move the output cursor for nested blocks.
func (c *CompilerContext) Indent()  { c.indent++ }
func (c *CompilerContext) Outdent() { c.indent-- }

// Render assembles the complete unit function: echo comment, signature,
// deduplicated declarations, body.
func (c *CompilerContext) Render(name, echo string) string {
	var out bytes.Buffer
	if echo != "" {
		fmt.Fprintf(&out, "// %s\n", echo)
	}
	fmt.Fprintf(&out, "func %s(f *rt.Frame, s *rt.Stack) {\n", name)
	for _, d := range c.declOrder {
		fmt.Fprintf(&out, "\tvar %s %s\n", d, c.declTypes[d])
	}
	out.Write(c.body.Bytes())
	out.WriteString("}\n")
	return out.String()
}
