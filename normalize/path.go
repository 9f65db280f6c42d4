package normalize

import "strconv"

// Dig walks decoded JSON through a mixed path of map keys (string) and slice
// indexes (int). It returns nil as soon as any link is missing or has the
// wrong shape, so optional vendor paths read as a single expression instead
// of a chain of guards.
func Dig(v any, path ...any) any {
	cur := v
	for _, step := range path {
		switch key := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[key]
		case int:
			s, ok := cur.([]any)
			if !ok || key < 0 || key >= len(s) {
				return nil
			}
			cur = s[key]
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// digString returns the string at path, or nil.
func digString(v any, path ...any) *string {
	if s, ok := Dig(v, path...).(string); ok {
		return &s
	}
	return nil
}

// digStringish accepts strings and JSON numbers; the vendor emits ids both
// ways.
func digStringish(v any, path ...any) *string {
	switch val := Dig(v, path...).(type) {
	case string:
		return &val
	case float64:
		s := strconv.FormatInt(int64(val), 10)
		return &s
	}
	return nil
}

// digSlice returns the slice at path, or nil.
func digSlice(v any, path ...any) []any {
	s, _ := Dig(v, path...).([]any)
	return s
}

// digStrings returns the string elements of the slice at path, skipping
// anything else.
func digStrings(v any, path ...any) []string {
	raw := digSlice(v, path...)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
