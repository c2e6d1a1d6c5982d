package pipeline

import (
	"github.com/a68go/a68go/internal/ast"
	"github.com/a68go/a68go/internal/diagnostics"
	"github.com/a68go/a68go/internal/token"
)

// Processor is one pipeline stage. Stages append diagnostics to the context
// rather than failing; a stage that finds errors already present may choose
// to pass the context through untouched.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries everything the stages hand to each other.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Node

	// Optimize gates the unit compiler. With it off, nothing in the
	// optimizer runs and the tree is interpreted as-is.
	Optimize bool

	// EmittedSource is the generated translation unit (prelude plus one
	// function per compiled unit), filled by the compile stage.
	EmittedSource []byte
	// CompiledUnits lists the emitted unit names in emission order.
	CompiledUnits []string

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}
