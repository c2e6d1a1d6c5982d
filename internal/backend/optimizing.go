package backend

import (
	"fmt"
	"io"
	"os"

	"github.com/a68go/a68go/internal/genie"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/rt"
	"github.com/a68go/a68go/internal/unitc"
)

// OptimizingBackend runs the selective unit compiler over the tree, then
// executes with compiled-unit dispatch enabled. Statements whose units were
// linked into the registry run as native code; everything else, including
// compiled units that were never linked, is interpreted. Either way the
// observable behavior is the interpreter's.
type OptimizingBackend struct {
	Out io.Writer

	// Memo overrides the driver's permanent denotation table, letting the
	// caller back it with the persistent object cache.
	Memo unitc.DenotationMemo
}

// NewOptimizing creates a new optimizing backend writing transput to stdout.
func NewOptimizing() *OptimizingBackend {
	return &OptimizingBackend{Out: os.Stdout}
}

// Run compiles the program's basic units and executes with dispatch.
func (b *OptimizingBackend) Run(ctx *pipeline.PipelineContext) (rt.Value, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no program to execute")
	}
	g := genie.New()
	g.Out = b.Out

	driver := unitc.NewDriver(g.Stack)
	if b.Memo != nil {
		driver.Memo = b.Memo
	}
	src, names := driver.CompileProgram(ctx.AstRoot)
	ctx.EmittedSource = src
	ctx.CompiledUnits = names

	g.Dispatch = true
	result, derr := g.Run(ctx.AstRoot)
	if derr != nil {
		return nil, derr
	}
	return result, nil
}

// Name returns the backend name.
func (b *OptimizingBackend) Name() string {
	return "optimizing"
}
