// Package overlay deep-merges decoded JSON documents.
package overlay

import "github.com/goliatone/go-jsonload/internal/clone"

// Merge composes documents ordered from strongest to weakest. Objects are
// merged key by key; any other value from a stronger layer replaces the
// weaker one, except null which lets the weaker value through. The result
// shares no memory with the inputs.
func Merge(layers ...any) any {
	if len(layers) == 0 {
		return nil
	}
	merged := clone.Value(layers[len(layers)-1])
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeValue(layers[i], merged)
	}
	return merged
}

func mergeValue(strong, weak any) any {
	switch s := strong.(type) {
	case nil:
		return clone.Value(weak)
	case map[string]any:
		w, _ := weak.(map[string]any)
		result := make(map[string]any, len(s)+len(w))
		for key, value := range w {
			result[key] = clone.Value(value)
		}
		for key, value := range s {
			if existing, ok := result[key]; ok {
				result[key] = mergeValue(value, existing)
				continue
			}
			result[key] = clone.Value(value)
		}
		return result
	default:
		return clone.Value(strong)
	}
}
