package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/schema"
)

// Literal renders a decoded JSON value in TypeScript literal syntax.
// Objects keep their key order.
func Literal(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case string:
		return quoteString(v), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			lit, err := Literal(item)
			if err != nil {
				return "", err
			}
			parts[i] = lit
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *schema.Object:
		if v.Len() == 0 {
			return "{}", nil
		}
		parts := make([]string, 0, v.Len())
		for _, k := range v.Keys() {
			item, _ := v.Get(k)
			lit, err := Literal(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, fmt.Sprintf("%s: %s", propertyName(k), lit))
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	}
	return "", cerrors.NewUnrenderableLiteral(value)
}

// quoteString renders s as a double-quoted string literal
func quoteString(s string) string {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}
