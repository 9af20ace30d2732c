package httpheaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotObject is returned when header input is not a JSON object.
var ErrNotObject = errors.New("must be a JSON object")

// Parse decodes a JSON object of header names to string values. Names that
// differ only in case collapse into one entry; the name sorting last wins.
func Parse(raw string) (map[string]string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return nil, ErrNotObject
	}

	headers := make(map[string]string, len(obj))
	for _, name := range sortedKeys(obj) {
		value, ok := obj[name].(string)
		if !ok {
			return nil, fmt.Errorf("header %q must have a string value", name)
		}
		if strings.TrimSpace(name) == "" {
			return nil, errors.New("header names must not be empty")
		}
		headers = Set(headers, name, value)
	}
	return headers, nil
}

// Set writes a header value using case-insensitive key matching.
// If an equivalent key already exists with different casing, it is replaced.
func Set(headers map[string]string, name, value string) map[string]string {
	name = strings.TrimSpace(name)
	if name == "" {
		return headers
	}

	if headers == nil {
		headers = make(map[string]string, 1)
	}
	if existing, ok := lookupKeyFold(headers, name); ok && existing != name {
		delete(headers, existing)
	}
	headers[name] = value
	return headers
}

func sortedKeys[V any](src map[string]V) []string {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		li := strings.ToLower(strings.TrimSpace(keys[i]))
		lj := strings.ToLower(strings.TrimSpace(keys[j]))
		if li == lj {
			return keys[i] < keys[j]
		}
		return li < lj
	})
	return keys
}

func lookupKeyFold(headers map[string]string, name string) (string, bool) {
	for key := range headers {
		if strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(name)) {
			return key, true
		}
	}
	return "", false
}
