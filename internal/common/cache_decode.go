package common

import "encoding/json"

// DecodeCached converts a cached value into T. The in-memory cache hands back
// the stored value as-is; redis hands back generic JSON (maps and slices), so
// that form is re-encoded into T.
func DecodeCached[T any](v interface{}) (T, bool) {
	var out T
	if v == nil {
		return out, false
	}
	if typed, ok := v.(T); ok {
		return typed, true
	}
	if typed, ok := v.(*T); ok && typed != nil {
		return *typed, true
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false
	}
	return out, true
}
