package backend

import (
	"fmt"
	"io"
	"os"

	"github.com/a68go/a68go/internal/genie"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/rt"
)

// TreeWalkBackend interprets the analyzed tree directly.
type TreeWalkBackend struct {
	Out io.Writer
}

// NewTreeWalk creates a new tree-walk backend writing transput to stdout.
func NewTreeWalk() *TreeWalkBackend {
	return &TreeWalkBackend{Out: os.Stdout}
}

// Run executes the program by tree-walk interpretation.
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (rt.Value, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no program to execute")
	}
	g := genie.New()
	g.Out = b.Out
	result, derr := g.Run(ctx.AstRoot)
	if derr != nil {
		return nil, derr
	}
	return result, nil
}

// Name returns the backend name.
func (b *TreeWalkBackend) Name() string {
	return "tree-walk"
}
