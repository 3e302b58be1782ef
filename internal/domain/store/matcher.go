package store

import (
	"encoding/json"
	"fmt"
)

// MatchDocument reports whether a JSON document satisfies every filter.
// Only string fields match; a missing field never matches.
func MatchDocument(doc []byte, filters []Filter) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false, fmt.Errorf("failed to decode document: %w", err)
	}

	for _, f := range filters {
		v, ok := fields[f.Field].(string)
		if !ok || v != f.Value {
			return false, nil
		}
	}
	return true, nil
}
