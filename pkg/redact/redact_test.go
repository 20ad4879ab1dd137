package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSensitiveKeysAreRedacted(t *testing.T) {
	out := Map(map[string]interface{}{
		"patientId": "p-123",
		"ssn":       "000-00-0000",
		"status":    200,
	})

	assert.Equal(t, "[REDACTED]", out["patientId"])
	assert.Equal(t, "[REDACTED]", out["ssn"])
	assert.Equal(t, 200, out["status"])
}

func TestKeyMatchingIgnoresCaseAndPunctuation(t *testing.T) {
	assert.True(t, IsSensitiveKey("PatientID"))
	assert.True(t, IsSensitiveKey("patient_id"))
	assert.True(t, IsSensitiveKey("date-of-birth"))
	assert.True(t, IsSensitiveKey("MRN"))
	assert.False(t, IsSensitiveKey("providerId"))
	assert.False(t, IsSensitiveKey("encounterType"))
}

func TestNestedValuesAreRedacted(t *testing.T) {
	out := Map(map[string]interface{}{
		"request": map[string]interface{}{
			"name": "Jane Doe",
			"meta": map[string]interface{}{
				"dob": "1990-01-01",
			},
		},
		"entries": []interface{}{
			map[string]interface{}{"patientId": "p-1", "action": "READ_ENCOUNTER"},
		},
	})

	request := out["request"].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", request["name"])
	assert.Equal(t, "[REDACTED]", request["meta"].(map[string]interface{})["dob"])

	entry := out["entries"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "[REDACTED]", entry["patientId"])
	assert.Equal(t, "READ_ENCOUNTER", entry["action"])
}

func TestInputIsNotModified(t *testing.T) {
	in := map[string]interface{}{"patientId": "p-123"}
	Map(in)
	assert.Equal(t, "p-123", in["patientId"])
}
