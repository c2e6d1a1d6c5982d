package analyzer

import (
	"fmt"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/mode"
	"github.com/a68go/a68go/internal/pipeline"
)

// Analyzer resolves identifiers, computes modes, inserts dereference and
// widening nodes at coercion points, and assigns every node its stable id.
// After Process the tree is fully annotated and read-only downstream.
type Analyzer struct {
	ctx    *pipeline.PipelineContext
	scopes []*scope
	nextID int
}

type scope struct {
	names map[string]*ast.Node
	depth int  // static frame depth
	frame bool // true if this scope owns a frame (program root, proc body)
	slots *int // slot counter of the owning frame
}

// Standard-prelude items recognized without declaration. Constants fold;
// procedures carry their proc mode.
var stdConstants = map[string]*mode.Mode{
	"pi":        mode.Real,
	"maxint":    mode.Int,
	"maxreal":   mode.Real,
	"smallreal": mode.Real,
}

var stdProcs = map[string]*mode.Mode{
	"sin":    mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"cos":    mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"tan":    mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"exp":    mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"ln":     mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"sqrt":   mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"arctan": mode.NewProc([]*mode.Mode{mode.Real}, mode.Real),
	"print":  mode.NewProc(nil, mode.Void),
}

func New(ctx *pipeline.PipelineContext) *Analyzer {
	return &Analyzer{ctx: ctx}
}

func (a *Analyzer) errorf(n *ast.Node, code diagnostics.ErrorCode, format string, args ...interface{}) {
	a.ctx.Errors = append(a.ctx.Errors, diagnostics.NewError(code, n.Tok, fmt.Sprintf(format, args...)))
}

func (a *Analyzer) pushScope(ownFrame bool) {
	depth := 0
	var slots *int
	if len(a.scopes) > 0 {
		top := a.scopes[len(a.scopes)-1]
		depth = top.depth
		slots = top.slots
	}
	if ownFrame {
		if len(a.scopes) > 0 {
			depth++
		}
		slots = new(int)
	}
	a.scopes = append(a.scopes, &scope{names: map[string]*ast.Node{}, depth: depth, frame: ownFrame, slots: slots})
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *Analyzer) declare(decl *ast.Node) {
	top := a.scopes[len(a.scopes)-1]
	top.names[decl.Text] = decl
	decl.Level = top.depth
	decl.Offset = *top.slots
	*top.slots++
}

func (a *Analyzer) resolve(name string) (*ast.Node, int) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if decl, ok := a.scopes[i].names[name]; ok {
			cur := a.scopes[len(a.scopes)-1].depth
			return decl, cur - decl.Level
		}
	}
	return nil, 0
}

func (a *Analyzer) id(n *ast.Node) {
	a.nextID++
	n.ID = a.nextID
}

// Run analyzes the program root.
func (a *Analyzer) Run(root *ast.Node) {
	a.pushScope(true)
	a.unit(root)
	root.Slots = *a.scopes[0].slots
	a.popScope()
}

// declMode returns the mode an identifier bound by decl has at use sites.
func declMode(decl *ast.Node) *mode.Mode {
	switch decl.Kind {
	case ast.KindVariableDeclaration:
		if len(decl.List) > 0 {
			// row variable: the name refers to the row
			return mode.NewRef(decl.Mode)
		}
		return mode.NewRef(decl.Mode)
	case ast.KindIdentityDeclaration, ast.KindParameter:
		return decl.Mode
	case ast.KindProcDeclaration:
		return decl.Mode
	case ast.KindIdentifier: // loop variable
		return mode.Int
	}
	return mode.Void
}

// deref wraps n in a dereference when its mode is a reference.
func (a *Analyzer) deref(n *ast.Node) *ast.Node {
	if n == nil || n.Mode == nil || n.Mode.Class != mode.REF {
		return n
	}
	d := &ast.Node{Kind: ast.KindDereference, Tok: n.Tok, Sub: n, Mode: n.Mode.To}
	a.id(d)
	return d
}

// widen wraps an INT unit in a widening cast to REAL.
func (a *Analyzer) widen(n *ast.Node) *ast.Node {
	w := &ast.Node{Kind: ast.KindCast, Tok: n.Tok, Text: "REAL", Mode: mode.Real, Sub: n}
	a.id(w)
	return w
}

// coerce derefs and, when the context requires REAL and the unit is INT,
// widens.
func (a *Analyzer) coerce(n *ast.Node, want *mode.Mode) *ast.Node {
	n = a.deref(n)
	if n == nil || n.Mode == nil || want == nil {
		return n
	}
	if want.Class == mode.REAL && n.Mode.Class == mode.INT {
		return a.widen(n)
	}
	if want.Class == mode.COMPL && n.Mode.Class == mode.REAL {
		c := &ast.Node{Kind: ast.KindCast, Tok: n.Tok, Text: "COMPL", Mode: mode.Compl, Sub: n}
		a.id(c)
		return c
	}
	return n
}
