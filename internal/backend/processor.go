package backend

import (
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/pipeline"
	"github.com/a68go/a68go/internal/token"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend.
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend.
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous stages failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	_, err := p.Backend.Run(ctx)
	if err != nil {
		if derr, ok := err.(*diagnostics.DiagnosticError); ok {
			ctx.Errors = append(ctx.Errors, derr)
		} else {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(
				diagnostics.ErrR001,
				token.Token{},
				err.Error(),
			))
		}
	}
	return ctx
}
