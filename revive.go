package jsonload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// parseJSON decodes exactly one JSON value from data, then applies reviver.
func parseJSON(data []byte, reviver Reviver) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("jsonload: parse: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("jsonload: parse: unexpected data after top-level value")
	}
	if reviver == nil {
		return value, nil
	}
	return revive(value, reviver), nil
}

// reviveValue re-serializes value and parses it again through reviver, so
// documents obtained by an importer see the same substitutions as a raw
// parse would produce.
func reviveValue(value any, reviver Reviver) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("jsonload: revive: %w", err)
	}
	return parseJSON(data, reviver)
}

func revive(root any, reviver Reviver) any {
	value, keep := reviveEntry("", root, reviver)
	if !keep {
		return nil
	}
	return value
}

// reviveEntry walks children before their parent. Object keys are visited in
// sorted order.
func reviveEntry(key string, value any, reviver Reviver) (any, bool) {
	switch node := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			replacement, keep := reviveEntry(k, node[k], reviver)
			if !keep {
				delete(node, k)
				continue
			}
			node[k] = replacement
		}
	case []any:
		for i, elem := range node {
			replacement, keep := reviveEntry(strconv.Itoa(i), elem, reviver)
			if !keep {
				replacement = nil
			}
			node[i] = replacement
		}
	}
	return reviver(key, value)
}
