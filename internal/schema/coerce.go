package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/splashpad/lesson-api/internal/sanitize"
)

// Coerce converts a decoded JSON value to the storage form declared by the
// field spec. It never fails hard: when a value cannot be parsed to its
// declared type the sanitized original is stored instead and fellBack is true,
// so the caller can report the fallback without rejecting the write.
func Coerce(fs FieldSpec, v any) (stored any, fellBack bool) {
	switch fs.Type {
	case FieldInteger, FieldRef:
		if n, ok := toInt64(v); ok {
			return n, false
		}
		return sanitize.Text(fmt.Sprint(v)), true

	case FieldBoolean:
		return toBool(v), false

	case FieldRefSet, FieldStringSet, FieldStringSeq:
		items, ok := v.([]any)
		if !ok {
			// A scalar where a sequence was expected: wrap it rather than drop it.
			return []any{coerceScalar(v)}, true
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, coerceScalar(item))
		}
		return out, false

	default:
		return coerceScalar(v), false
	}
}

// CoerceIDList converts a decoded JSON array of term ids (numbers or numeric
// strings) to an int64 slice, dropping elements that cannot be parsed.
func CoerceIDList(v any) []int64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		if n, ok := toInt64(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// coerceScalar normalizes one array element or freeform value: numbers stay
// numeric, everything else is sanitized text.
func coerceScalar(v any) any {
	if n, ok := toInt64(v); ok {
		// Numeric strings stay strings; only actual JSON numbers pass through.
		switch v.(type) {
		case float64, int, int64, json.Number:
			return n
		}
	}
	switch s := v.(type) {
	case string:
		return sanitize.Text(s)
	case bool:
		return s
	case nil:
		return nil
	default:
		return sanitize.Text(fmt.Sprint(v))
	}
}

// AsInt64 interprets a stored field value as an integer. Stored values arrive
// back from JSON decoding, so whole floats and numeric strings count.
func AsInt64(v any) (int64, bool) {
	return toInt64(v)
}

// AsBool interprets a stored field value as a boolean, treating absent and
// unparsable values as false.
func AsBool(v any) bool {
	return toBool(v)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case float64:
		return b != 0
	case int:
		return b != 0
	case int64:
		return b != 0
	default:
		return false
	}
}
