package repositories

import "time"

// Field coercion helpers for loosely-typed documents coming back from the
// store. Wrong-typed values coerce to zero values rather than erroring.

func strField(fields map[string]interface{}, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]interface{}, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func timeField(fields map[string]interface{}, key string) time.Time {
	t, _ := fields[key].(time.Time)
	return t
}

func strSliceField(fields map[string]interface{}, key string) []string {
	items, _ := fields[key].([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapField(fields map[string]interface{}, key string) map[string]interface{} {
	m, _ := fields[key].(map[string]interface{})
	return m
}
