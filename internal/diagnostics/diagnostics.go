package diagnostics

import (
	"fmt"

	"github.com/a68go/a68go/internal/token"
)

// ErrorCode identifies a diagnostic class. The letter encodes the stage:
// P = parse, A = analysis, C = compilation, R = runtime.
type ErrorCode string

const (
	ErrP001 ErrorCode = "P001" // lexical error
	ErrP002 ErrorCode = "P002" // unexpected token
	ErrP006 ErrorCode = "P006" // malformed construct

	ErrA001 ErrorCode = "A001" // unknown identifier
	ErrA003 ErrorCode = "A003" // mode error
	ErrA004 ErrorCode = "A004" // operator/operand mismatch

	ErrC001 ErrorCode = "C001" // internal compiler error

	ErrR001 ErrorCode = "R001" // runtime fault
)

// DiagnosticError is a positioned, coded error. All stages report through
// this type so the CLI can render them uniformly.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

// NewError creates a diagnostic at the given token.
func NewError(code ErrorCode, tok token.Token, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Error() string {
	if e.Token.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// SameFault reports whether two diagnostics describe the same fault at the
// same source position. Constant folding uses this to assert that a folded
// fault is the one execution would raise.
func SameFault(a, b *DiagnosticError) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Code == b.Code && a.Message == b.Message &&
		a.Token.Line == b.Token.Line && a.Token.Column == b.Token.Column
}
