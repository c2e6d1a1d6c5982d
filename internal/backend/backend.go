// Package backend provides an interface for different execution backends.
// This allows switching between plain tree-walk interpretation and the
// optimizing path that compiles basic units first.
package backend

import (
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/rt"
)

// Backend is the interface for execution backends.
type Backend interface {
	// Run executes the program from the pipeline context and returns the
	// program's final value.
	Run(ctx *pipeline.PipelineContext) (rt.Value, error)

	// Name returns the backend name for display.
	Name() string
}
