// Package formdata pulls lead fields out of third-party form payloads whose
// shape is not fixed. Builders post fields as top-level keys, under a
// "fields" object, or as a list of {label|name|key, value} records.
package formdata

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload is a decoded form submission.
type Payload map[string]any

// Parse decodes a request body. Bodies that are not a JSON object decode to
// an empty payload so that field validation reports what is missing.
func Parse(body []byte) Payload {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil || p == nil {
		return Payload{}
	}
	return p
}

// Stringify renders a decoded JSON value as form text. Missing and null
// values render as "".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// labelOf returns the lowercased label of a field list entry.
func labelOf(entry any) string {
	m, ok := entry.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"label", "name", "key"} {
		if v, ok := m[key]; ok && v != nil {
			return strings.ToLower(Stringify(v))
		}
	}
	return ""
}
