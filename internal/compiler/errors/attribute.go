package errors

import "fmt"

// Type attribute error codes (ATR200-299)
const (
	// ErrSchemaExtensionType indicates an extension property holding a value of the wrong type
	ErrSchemaExtensionType ErrorCode = "ATR200"
	// ErrInconsistentDefault indicates unified types declaring different default values
	ErrInconsistentDefault ErrorCode = "ATR201"
)

// NewSchemaExtensionTypeError creates an ATR200 error. The reference names the
// fragment carrying the extension so the user can find it in the document.
func NewSchemaExtensionTypeError(ref, key, expected, actual string) *CompilerError {
	return newError(
		ErrSchemaExtensionType,
		"schema_extension_type",
		CategoryAttribute,
		SeverityError,
		fmt.Sprintf("Extension property %s at %s must be a %s", quote(key), ref, expected),
	).WithReference(ref).
		WithExpected(expected).
		WithActual(actual).
		WithSuggestion(fmt.Sprintf("Set %s to a %s value or remove it", quote(key), expected))
}

// NewInconsistentDefault creates an ATR201 error
func NewInconsistentDefault(first, other string) *CompilerError {
	return newError(
		ErrInconsistentDefault,
		"inconsistent_default",
		CategoryAttribute,
		SeverityError,
		fmt.Sprintf("Unified types declare different default values: %s and %s", first, other),
	).WithExpected(first).
		WithActual(other).
		WithSuggestion("Make the defaults of every merged schema agree, or remove all but one")
}
