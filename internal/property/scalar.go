package property

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// BoolFrom converts a raw scalar into a bool pointer.
// It accepts bools and "true"/"false" style strings; anything else is unset.
func BoolFrom(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case *bool:
		if t == nil {
			return nil
		}
		b := *t
		return &b
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return nil
		}
		return &b
	}
	return nil
}

// Int64From converts a raw scalar into an int64 pointer.
// JSON numbers arrive as float64 and the GKE API encodes int64 fields as
// strings, so both are accepted as long as they hold an integral value.
func Int64From(v any) *int64 {
	var i int64
	switch t := v.(type) {
	case int:
		i = int64(t)
	case int32:
		i = int64(t)
	case int64:
		i = t
	case uint:
		i = int64(t)
	case uint32:
		i = int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return nil
		}
		i = int64(t)
	case float32:
		return Int64From(float64(t))
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return nil
		}
		i = int64(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return nil
		}
		i = n
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil
		}
		i = n
	case *int64:
		if t == nil {
			return nil
		}
		i = *t
	default:
		return nil
	}
	return &i
}

// StringFrom converts a raw scalar into a string pointer.
func StringFrom(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case *string:
		if t == nil {
			return nil
		}
		s := *t
		return &s
	case fmt.Stringer:
		s := t.String()
		return &s
	}
	return nil
}

// StringsFrom converts a raw list into a string slice. Non-string elements are
// skipped. An empty list is kept (set, but empty).
func StringsFrom(v any) []string {
	switch t := v.(type) {
	case []string:
		return append(make([]string, 0, len(t)), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// StringMapFrom converts a raw mapping into a map of strings. Scalar values
// that are not strings (YAML happily decodes `tier: 1` as an int) are
// formatted with fmt.
func StringMapFrom(v any) map[string]string {
	if t, ok := v.(map[string]string); ok {
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out
	}
	m, ok := mapping(v)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		switch s := val.(type) {
		case nil:
			continue
		case string:
			out[k] = s
		case bool, int, int64, float64, json.Number:
			out[k] = fmt.Sprint(s)
		}
	}
	return out
}

// mapping returns raw as a string keyed map.
func mapping(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case map[string]any:
		return t, t != nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = v
		}
		return out, true
	}
	return nil, false
}

// list returns raw as a slice of elements.
func list(raw any) ([]any, bool) {
	switch t := raw.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = t[i]
		}
		return out, true
	}
	return nil, false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
