package errors

import "fmt"

// Code generation error codes (GEN600-699)
const (
	// ErrCodeGenFailed indicates a general code generation failure
	ErrCodeGenFailed ErrorCode = "GEN600"
	// ErrUnrenderableLiteral indicates a value with no literal form in the target language
	ErrUnrenderableLiteral ErrorCode = "GEN601"
)

// NewCodeGenFailed creates a GEN600 error
func NewCodeGenFailed(reason string) *CompilerError {
	return newError(
		ErrCodeGenFailed,
		"codegen_failed",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Code generation failed: %s", reason),
	).WithSuggestion("This is likely a generator bug - please report it")
}

// NewUnrenderableLiteral creates a GEN601 error
func NewUnrenderableLiteral(value any) *CompilerError {
	return newError(
		ErrUnrenderableLiteral,
		"unrenderable_literal",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Value of type %T has no TypeScript literal form", value),
	)
}
