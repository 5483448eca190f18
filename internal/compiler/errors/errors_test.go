package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestErrorCodeUniqueness(t *testing.T) {
	codes := make(map[ErrorCode]string)

	all := map[string][]ErrorCode{
		"schema":    {ErrInvalidDocument, ErrUnresolvedReference, ErrMetaSchemaViolation, ErrUnsupportedConstruct},
		"attribute": {ErrSchemaExtensionType, ErrInconsistentDefault},
		"codegen":   {ErrCodeGenFailed, ErrUnrenderableLiteral},
		"usage":     {ErrUsage},
	}

	for category, list := range all {
		for _, code := range list {
			if prev, exists := codes[code]; exists {
				t.Errorf("Duplicate error code %s (previously used for %s)", code, prev)
			}
			codes[code] = category
		}
	}
}

func TestSchemaExtensionTypeError(t *testing.T) {
	err := NewSchemaExtensionTypeError("player.json#/definitions/Player", "gameObject", "boolean", `"yes"`)

	if err.Code != ErrSchemaExtensionType {
		t.Errorf("Code = %s, want %s", err.Code, ErrSchemaExtensionType)
	}
	if err.Category != CategoryAttribute {
		t.Errorf("Category = %s, want %s", err.Category, CategoryAttribute)
	}
	if !strings.Contains(err.Error(), "player.json#/definitions/Player") {
		t.Errorf("Error() should name the reference, got %q", err.Error())
	}
	if err.Actual != `"yes"` {
		t.Errorf("Actual = %q", err.Actual)
	}
}

func TestInconsistentDefault(t *testing.T) {
	err := NewInconsistentDefault("5", "7")

	if err.Code != ErrInconsistentDefault {
		t.Errorf("Code = %s, want %s", err.Code, ErrInconsistentDefault)
	}
	if !strings.Contains(err.Message, "5") || !strings.Contains(err.Message, "7") {
		t.Errorf("Message should contain both values, got %q", err.Message)
	}
}

func TestHasCode(t *testing.T) {
	base := NewInconsistentDefault("1", "2")
	wrapped := fmt.Errorf("build graph: %w", base)

	if !HasCode(wrapped, ErrInconsistentDefault) {
		t.Error("HasCode should see through wrapping")
	}
	if HasCode(wrapped, ErrSchemaExtensionType) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(stderrors.New("plain"), ErrInconsistentDefault) {
		t.Error("HasCode matched a plain error")
	}
}

func TestLocate(t *testing.T) {
	err := NewInconsistentDefault("1", "2")
	wrapped := fmt.Errorf("merge: %w", err)

	if got := Locate(wrapped, "player.json#/properties/hp"); got != wrapped {
		t.Error("Locate should return the error it was given")
	}
	if err.Reference != "player.json#/properties/hp" {
		t.Errorf("Reference = %q", err.Reference)
	}

	// an existing reference is kept
	Locate(err, "player.json#/other")
	if err.Reference != "player.json#/properties/hp" {
		t.Errorf("Reference overwritten with %q", err.Reference)
	}

	plain := stderrors.New("plain")
	if Locate(plain, "x.json#") != plain {
		t.Error("plain errors pass through")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := NewInvalidDocument("a.json", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
}

func TestFormatError(t *testing.T) {
	err := NewSchemaExtensionTypeError("a.json#/properties/x", "gameObject", "boolean", "string")
	out := err.Format()

	for _, want := range []string{"Attribute Error", "ATR200", "--> a.json#/properties/x", "Expected: boolean", "Actual:   string"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatErrorList(t *testing.T) {
	list := ErrorList{
		NewInconsistentDefault("1", "2"),
		NewUnresolvedReference("a.json#/properties/b", "#/definitions/Missing"),
	}

	out := list.Error()
	if !strings.HasPrefix(out, "Generation failed with 2 error(s)") {
		t.Errorf("unexpected summary: %q", out)
	}
	if !list.HasErrors() {
		t.Error("HasErrors() = false, want true")
	}
	if ErrorList(nil).Error() != "no errors" {
		t.Error("empty list should format as \"no errors\"")
	}
}

func TestToJSON(t *testing.T) {
	err := NewUsageError("schemagen <schema-file>", 0)

	out, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON failed: %v", jerr)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["code"] != string(ErrUsage) {
		t.Errorf("code = %v, want %s", decoded["code"], ErrUsage)
	}
}
