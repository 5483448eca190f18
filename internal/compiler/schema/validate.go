package schema

import (
	"github.com/santhosh-tekuri/jsonschema/v6"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
)

// resourceID names the document inside the validating compiler. Documents are
// validated one at a time, so a fixed id is enough.
const resourceID = "https://schemagen.invalid/schema.json"

// Validate checks the document against its meta-schema ("$schema", or draft 7
// when absent). Local references are resolved as part of the compilation, so
// a dangling "$ref" is reported here too.
func Validate(doc *Document) error {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	if err := compiler.AddResource(resourceID, Plain(doc.Root)); err != nil {
		return cerrors.NewMetaSchemaViolation(doc.Name, err)
	}
	if _, err := compiler.Compile(resourceID); err != nil {
		return cerrors.NewMetaSchemaViolation(doc.Name, err)
	}
	return nil
}
