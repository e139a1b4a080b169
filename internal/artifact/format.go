package artifact

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/launchbynttdata/launch-meta-gen/internal/domain/semtag"
)

const undefinedLiteral = "undefined"

// FormatValue renders v as a TypeScript literal: undefined for nil or missing
// values, a bracketed list for arrays, a quoted string for text, and the plain
// textual form otherwise.
func FormatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return undefinedLiteral
	case gjson.Result:
		return formatJSON(value)
	case semtag.Version:
		return FormatValue(value.Tuple())
	case string:
		return `"` + value + `"`
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return undefinedLiteral
		}
		return FormatValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return undefinedLiteral
		}
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, elementText(rv.Index(i).Interface()))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

// elementText is the text of one list element: strings are not quoted, nested
// lists are comma joined without spaces, and missing values are empty.
func elementText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case gjson.Result:
		return jsonElementText(value)
	case string:
		return value
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, elementText(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

func formatJSON(r gjson.Result) string {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return undefinedLiteral
	case r.IsArray():
		elements := r.Array()
		parts := make([]string, 0, len(elements))
		for _, el := range elements {
			parts = append(parts, jsonElementText(el))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case r.Type == gjson.String:
		return `"` + r.Str + `"`
	default:
		return r.Raw
	}
}

func jsonElementText(r gjson.Result) string {
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return ""
	case r.IsArray():
		elements := r.Array()
		parts := make([]string, 0, len(elements))
		for _, el := range elements {
			parts = append(parts, jsonElementText(el))
		}
		return strings.Join(parts, ",")
	case r.Type == gjson.String:
		return r.Str
	default:
		return r.Raw
	}
}
