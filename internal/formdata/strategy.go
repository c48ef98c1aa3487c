package formdata

import (
	"strings"
)

// Strategy looks for the first of names in a payload. ok is false when the
// strategy found nothing and the next one should be tried.
type Strategy func(p Payload, names []string) (value any, ok bool)

// DefaultStrategies is the lookup order used for every form field.
var DefaultStrategies = []Strategy{DirectLookup, NestedFields, FieldList}

// fieldListPaths are checked in order; the first one holding an array wins.
var fieldListPaths = []func(p Payload) any{
	func(p Payload) any {
		if data, ok := p["data"].(map[string]any); ok {
			return data["fields"]
		}
		return nil
	},
	func(p Payload) any { return p["fieldsArray"] },
	func(p Payload) any { return p["data"] },
}

// DirectLookup matches top-level keys exactly.
func DirectLookup(p Payload, names []string) (any, bool) {
	return lookupKeys(p, names)
}

// NestedFields matches keys of a nested "fields" object exactly.
func NestedFields(p Payload, names []string) (any, bool) {
	fields, ok := p["fields"].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookupKeys(fields, names)
}

// FieldList scans an array of label/value records, comparing labels
// case-insensitively. A matching entry ends the scan even if its value is null.
func FieldList(p Payload, names []string) (any, bool) {
	entries := fieldList(p)
	if entries == nil {
		return nil, false
	}

	lower := make(map[string]bool, len(names))
	for _, n := range names {
		lower[strings.ToLower(n)] = true
	}

	for _, entry := range entries {
		if lower[labelOf(entry)] {
			if m, ok := entry.(map[string]any); ok {
				return m["value"], true
			}
		}
	}
	return nil, false
}

func fieldList(p Payload) []any {
	for _, path := range fieldListPaths {
		if arr, ok := path(p).([]any); ok {
			return arr
		}
	}
	return nil
}

func lookupKeys(m map[string]any, names []string) (any, bool) {
	for _, n := range names {
		if v, ok := m[n]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
