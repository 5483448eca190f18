package schema

import (
	"net/url"
	"strconv"
	"strings"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
)

// Document is one decoded schema source.
type Document struct {
	// Name identifies the source in canonical references (usually its path)
	Name string
	// Root is the decoded top-level schema
	Root any
}

// Parse decodes raw into a Document named name
func Parse(name string, raw []byte) (*Document, error) {
	root, err := Decode(name, raw)
	if err != nil {
		return nil, cerrors.NewInvalidDocument(name, err)
	}
	return &Document{Name: name, Root: root}, nil
}

// Reference returns the canonical reference of the fragment at pointer
func (d *Document) Reference(pointer string) string {
	return d.Name + "#" + pointer
}

// Lookup returns the value at a JSON pointer ("" is the root)
func (d *Document) Lookup(pointer string) (any, bool) {
	if pointer == "" {
		return d.Root, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}
	cur := d.Root
	for _, raw := range strings.Split(pointer[1:], "/") {
		tok := unescapeToken(raw)
		switch t := cur.(type) {
		case *Object:
			v, ok := t.Get(tok)
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// ResolveRef resolves a local "$ref" value to the pointer and value it
// designates. from is the pointer of the fragment holding the reference.
func (d *Document) ResolveRef(from, ref string) (string, any, error) {
	if !strings.HasPrefix(ref, "#") {
		return "", nil, cerrors.NewUnresolvedReference(d.Reference(from), ref)
	}
	pointer, err := url.PathUnescape(ref[1:])
	if err != nil {
		return "", nil, cerrors.NewUnresolvedReference(d.Reference(from), ref)
	}
	v, ok := d.Lookup(pointer)
	if !ok {
		return "", nil, cerrors.NewUnresolvedReference(d.Reference(from), ref)
	}
	return pointer, v, nil
}

// Child appends an escaped reference token to a JSON pointer
func Child(pointer string, token string) string {
	return pointer + "/" + escapeToken(token)
}

// Index appends an array index to a JSON pointer
func Index(pointer string, i int) string {
	return pointer + "/" + strconv.Itoa(i)
}

// LastToken returns the unescaped last token of a pointer
func LastToken(pointer string) string {
	i := strings.LastIndexByte(pointer, '/')
	if i < 0 {
		return ""
	}
	return unescapeToken(pointer[i+1:])
}

func escapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

func unescapeToken(tok string) string {
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}
