package errors

import "fmt"

// Command line error codes (CLI900-999)
const (
	// ErrUsage indicates a wrong number of command line arguments
	ErrUsage ErrorCode = "CLI900"
)

// NewUsageError creates a CLI900 error
func NewUsageError(usage string, got int) *CompilerError {
	return newError(
		ErrUsage,
		"usage",
		CategoryUsage,
		SeverityError,
		fmt.Sprintf("usage: %s", usage),
	).WithExpected("1 argument").
		WithActual(fmt.Sprintf("%d argument(s)", got))
}
