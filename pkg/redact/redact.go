// Package redact strips PHI from structured values before they reach a log
// sink. Keys are matched case-insensitively and ignoring punctuation, so
// "patientId", "patient_id" and "PatientID" are all treated the same.
package redact

import (
	"strings"
	"unicode"
)

const placeholder = "[REDACTED]"

var sensitiveKeys = map[string]struct{}{
	"patientid":   {},
	"name":        {},
	"firstname":   {},
	"lastname":    {},
	"fullname":    {},
	"dob":         {},
	"dateofbirth": {},
	"ssn":         {},
	"mrn":         {},
}

func normalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// IsSensitiveKey reports whether values under this key must not be logged.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[normalizeKey(key)]
	return ok
}

// Map returns a copy of fields with every sensitive value, at any depth,
// replaced by the redaction placeholder. The input is never modified.
func Map(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if IsSensitiveKey(key) {
			out[key] = placeholder
			continue
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return Map(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = redactValue(item)
		}
		return out
	default:
		return value
	}
}
