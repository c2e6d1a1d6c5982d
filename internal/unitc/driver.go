package unitc

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/config"
	"github.com/a68go/a68go/internal/prettyprinter"
	"github.com/a68go/a68go/internal/rt"
)

// Driver selects and compiles the basic units of a program. Each statement
// is tried against the specialized compilers in a fixed priority order;
// the first that matches owns the whole subtree, so an outer compiled unit
// is never shadowed by compiled fragments of its interior. Statements no
// compiler takes are left to the interpreter and their children are tried
// instead.
type Driver struct {
	cls     *Classifier
	fold    *Folder
	printer *prettyprinter.CodePrinter

	// Memo is the permanent table of compiled constant denotations: a
	// denotation unit structurally equal to one compiled earlier in the
	// process reuses the earlier unit instead of emitting a twin.
	Memo DenotationMemo

	units bytes.Buffer
	names []string

	// reps maps each unit name to the node whose compilation produced it,
	// so nodes reusing a memoized unit share one representative.
	reps map[string]*ast.Node
}

func NewDriver(stack *rt.Stack) *Driver {
	return &Driver{
		cls:     NewClassifier(),
		fold:    NewFolder(stack),
		printer: prettyprinter.NewCodePrinter(),
		Memo:    permDenotations,
		reps:    map[string]*ast.Node{},
	}
}

// Folder exposes the constant evaluator, for inspection of folding faults.
func (d *Driver) Folder() *Folder { return d.fold }

// roles, in match priority order.
var priorityOrder = []struct {
	role string
	kind ast.Kind
}{
	{"closed", ast.KindClosedClause},
	{"collateral", ast.KindCollateralClause},
	{"conditional", ast.KindConditionalClause},
	{"case", ast.KindCaseClause},
	{"loop", ast.KindLoopClause},
	{"call", ast.KindCall},
	{"assignment", ast.KindAssignment},
	{"formula", ast.KindFormula},
	{"formula", ast.KindMonadicFormula},
	{"cast", ast.KindCast},
	{"denotation", ast.KindDenotation},
	{"identifier", ast.KindIdentifier},
	{"deref", ast.KindDereference},
	{"idrel", ast.KindIdentityRelation},
}

// CompileProgram walks the analyzed tree and emits one translation unit
// holding every compiled statement. A program with nothing basic in it
// produces no output at all: refusing to compile is not an error.
func (d *Driver) CompileProgram(root *ast.Node) ([]byte, []string) {
	d.walk(root)
	if len(d.names) == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	out.WriteString("// Code generated by the a68 unit compiler. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n\n", config.EmitPackageName)
	out.WriteString("import (\n\t\"math\"\n\n\t\"github.com/a68go/a68go/internal/rt\"\n)\n\n")
	out.WriteString("var _ = math.Pi\n")
	out.Write(d.units.Bytes())
	out.WriteString("\nfunc init() {\n")
	for _, name := range d.names {
		fmt.Fprintf(&out, "\trt.Register(%q, %s)\n", name, name)
	}
	out.WriteString("}\n")
	return out.Bytes(), d.names
}

// Names lists the units emitted so far, in emission order.
func (d *Driver) Names() []string { return d.names }

func (d *Driver) walk(n *ast.Node) {
	if n == nil {
		return
	}
	if n.IsStatement() && d.CompileUnit(n) {
		return
	}
	d.walk(n.Left)
	d.walk(n.Right)
	d.walk(n.Sub)
	d.walk(n.Cond)
	d.walk(n.ThenPart)
	d.walk(n.ElsePart)
	d.walk(n.FromPart)
	d.walk(n.ByPart)
	d.walk(n.ToPart)
	d.walk(n.WhilePart)
	d.walk(n.BodyPart)
	for _, ch := range n.List {
		d.walk(ch)
	}
}

// CompileUnit compiles one statement if any specialized compiler takes it.
// Compilation is idempotent: a node already carrying a unit name is left
// alone.
func (d *Driver) CompileUnit(n *ast.Node) bool {
	if n.CompiledName() != "" {
		return true
	}
	for _, entry := range priorityOrder {
		if entry.kind != n.Kind {
			continue
		}
		if !d.cls.Basic(n) {
			return false
		}
		d.compile(n, entry.role)
		return true
	}
	return false
}

func (d *Driver) compile(n *ast.Node, role string) {
	if role == "denotation" {
		if name, ok := d.Memo.Get(n.Signature()); ok {
			n.SetCompiled(name, d.reps[name])
			return
		}
	}

	name := fmt.Sprintf("_%s_%d", role, n.ID)
	ctx := NewCompilerContext()
	em := NewEmitter(ctx, d.cls, d.fold)
	em.Declare(n)
	em.Execute(n)
	em.Push(n)

	d.units.WriteString("\n")
	d.units.WriteString(ctx.Render(name, d.printer.Print(n)))
	d.names = append(d.names, name)
	d.reps[name] = n
	n.SetCompiled(name, n)

	if role == "denotation" {
		d.Memo.Put(n.Signature(), name)
	}
}

// DenotationMemo is the permanent denotation table's interface. The
// default lives for the process; the object cache can stand in to persist
// it across runs.
type DenotationMemo interface {
	Get(sig string) (name string, ok bool)
	Put(sig, name string)
}

type memoryMemo struct {
	mu sync.Mutex
	m  map[string]string
}

func (mm *memoryMemo) Get(sig string) (string, bool) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	name, ok := mm.m[sig]
	return name, ok
}

func (mm *memoryMemo) Put(sig, name string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.m[sig] = name
}

var permDenotations = &memoryMemo{m: map[string]string{}}

// ResetDenotationMemo clears the process-wide denotation table.
func ResetDenotationMemo() {
	permDenotations.mu.Lock()
	defer permDenotations.mu.Unlock()
	permDenotations.m = map[string]string{}
}
