package errors

import "fmt"

// Schema document error codes (SCH100-199)
const (
	// ErrInvalidDocument indicates a document that cannot be decoded
	ErrInvalidDocument ErrorCode = "SCH100"
	// ErrUnresolvedReference indicates a $ref that does not point into the document
	ErrUnresolvedReference ErrorCode = "SCH101"
	// ErrMetaSchemaViolation indicates a document rejected by its meta-schema
	ErrMetaSchemaViolation ErrorCode = "SCH102"
	// ErrUnsupportedConstruct indicates a schema keyword the generator cannot model
	ErrUnsupportedConstruct ErrorCode = "SCH103"
)

// NewInvalidDocument creates a SCH100 error
func NewInvalidDocument(source string, cause error) *CompilerError {
	return newError(
		ErrInvalidDocument,
		"invalid_document",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Cannot decode schema document %s: %v", quote(source), cause),
	).WithReference(source + "#").
		WithCause(cause).
		WithSuggestion("Check that the document is well-formed JSON or YAML")
}

// NewUnresolvedReference creates a SCH101 error
func NewUnresolvedReference(ref, target string) *CompilerError {
	return newError(
		ErrUnresolvedReference,
		"unresolved_reference",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Reference %s does not resolve to a schema in this document", quote(target)),
	).WithReference(ref).
		WithSuggestion("Only local references such as \"#/definitions/Name\" are supported")
}

// NewMetaSchemaViolation creates a SCH102 error
func NewMetaSchemaViolation(source string, cause error) *CompilerError {
	return newError(
		ErrMetaSchemaViolation,
		"meta_schema_violation",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Schema document %s is not a valid JSON Schema: %v", quote(source), cause),
	).WithReference(source + "#").
		WithCause(cause).
		WithSuggestion("Fix the document or disable validation with validate_schema: false")
}

// NewUnsupportedConstruct creates a SCH103 error
func NewUnsupportedConstruct(ref, construct string) *CompilerError {
	return newError(
		ErrUnsupportedConstruct,
		"unsupported_construct",
		CategorySchema,
		SeverityError,
		fmt.Sprintf("Schema construct %s is not supported", quote(construct)),
	).WithReference(ref)
}
