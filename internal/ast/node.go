package ast

import (
	"fmt"

	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/token"
)

// Kind enumerates the closed set of node kinds. Dispatch over kinds is
// always an exhaustive switch; adding a kind requires visiting every switch.
type Kind int

const (
	KindDenotation Kind = iota
	KindNil
	KindIdentifier
	KindFormula        // dyadic
	KindMonadicFormula // monadic
	KindCall
	KindSlice
	KindSelection
	KindDereference
	KindClosedClause
	KindCollateralClause
	KindConditionalClause
	KindCaseClause
	KindLoopClause
	KindAssignment
	KindIdentityRelation
	KindCast
	KindCodeClause
	KindSkip
	KindTrimmer // open-ended slice index l:u, never basic

	// Declaration kinds, consumed by the analyzer; the unit compiler never
	// compiles these directly.
	KindVariableDeclaration
	KindIdentityDeclaration
	KindProcDeclaration
	KindParameter
)

var kindNames = map[Kind]string{
	KindDenotation:        "denotation",
	KindNil:               "nil",
	KindIdentifier:        "identifier",
	KindFormula:           "formula",
	KindMonadicFormula:    "monadic formula",
	KindCall:              "call",
	KindSlice:             "slice",
	KindSelection:         "selection",
	KindDereference:       "dereference",
	KindClosedClause:      "closed clause",
	KindCollateralClause:  "collateral clause",
	KindConditionalClause: "conditional clause",
	KindCaseClause:        "case clause",
	KindLoopClause:        "loop clause",
	KindAssignment:        "assignment",
	KindIdentityRelation:  "identity relation",
	KindCast:              "cast",
	KindCodeClause:        "code clause",
	KindSkip:              "skip",
	KindTrimmer:           "trimmer",

	KindVariableDeclaration: "variable declaration",
	KindIdentityDeclaration: "identity declaration",
	KindProcDeclaration:     "procedure declaration",
	KindParameter:           "parameter",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is one syntax-tree construct. The parser builds nodes, the analyzer
// annotates Mode/ID/bindings, and from then on the tree is read-only except
// for the write-once compiled-name annotation set by the unit compiler.
type Node struct {
	Kind Kind
	Mode *mode.Mode
	ID   int // stable id, assigned by the analyzer
	Tok  token.Token

	// Text is the kind-dependent payload: denotation lexeme, identifier
	// name, formula operator symbol, selection field name, cast mode name.
	Text string

	// Decoded denotation values (valid per Mode.Class).
	IntVal  int64
	RealVal float64
	BoolVal bool
	CharVal rune
	BitsVal uint64

	// Structure. Which fields are populated depends on Kind:
	//   Formula:            Left, Right
	//   MonadicFormula:     Sub
	//   Call:               Sub (callee), List (arguments)
	//   Slice:              Sub (row), List (index units)
	//   Selection:          Sub (subject); Text (field)
	//   Dereference, Cast:  Sub
	//   ClosedClause:       List (serial units)
	//   CollateralClause:   List (members)
	//   ConditionalClause:  Cond, ThenPart, ElsePart (nil when omitted)
	//   CaseClause:         Cond (selector), List (alternatives), ElsePart (OUT)
	//   LoopClause:         LoopVar, FromPart, ByPart, ToPart, WhilePart, BodyPart
	//   Assignment:         Left (destination), Right (source)
	//   IdentityRelation:   Left, Right; Text ("IS"/"ISNT")
	//   VariableDeclaration: Text (name), Sub (initial unit, optional)
	//   IdentityDeclaration: Text (name), Sub (source unit)
	//   ProcDeclaration:    Text (name), List (parameters), BodyPart
	Left, Right *Node
	Sub         *Node
	List        []*Node
	Cond        *Node
	ThenPart    *Node
	ElsePart    *Node
	LoopVar     *Node
	FromPart    *Node
	ByPart      *Node
	ToPart      *Node
	WhilePart   *Node
	BodyPart    *Node

	// Identifier resolution, owned by the analyzer.
	Decl    *Node  // declaring node
	Binding *Node  // identity-declaration source unit, when constant-bound
	StdName string // standard-prelude key, when it denotes a standard item
	Level   int    // static nesting depth of the declaring frame
	Offset  int    // slot within the declaring frame
	Slots   int    // frame size; set on the program root and proc declarations

	compiledName string
	compiledRep  *Node
}

// SetCompiled records the unit name and representative node. The annotation
// is write-once; a second write with a different name is a programmer error
// in the driver.
func (n *Node) SetCompiled(name string, rep *Node) {
	if n.compiledName != "" && n.compiledName != name {
		panic(fmt.Sprintf("internal: node %d compiled twice (%s, %s)", n.ID, n.compiledName, name))
	}
	n.compiledName = name
	if rep != nil {
		n.compiledRep = rep
	}
}

// CompiledName returns the registered unit name, or "" when the node was
// never compiled.
func (n *Node) CompiledName() string { return n.compiledName }

// CompiledRep returns the representative node for CSE-aware sharing on
// repeated visits; it defaults to the node itself.
func (n *Node) CompiledRep() *Node {
	if n.compiledRep != nil {
		return n.compiledRep
	}
	return n
}

// IsStatement reports whether the node is statement-shaped: something the
// driver may wrap as a top-level compiled unit.
func (n *Node) IsStatement() bool {
	switch n.Kind {
	case KindVariableDeclaration, KindIdentityDeclaration, KindProcDeclaration, KindParameter:
		return false
	}
	return true
}
