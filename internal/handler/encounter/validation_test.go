package encounter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
)

func TestValidateCreateRequestAcceptsFullBody(t *testing.T) {
	body := []byte(`{
		"patientId": "p1",
		"providerId": "d1",
		"encounterType": "visit",
		"encounterDate": "2026-02-25",
		"clinicalData": {"notes": "stable"}
	}`)

	input, appErr := validateCreateRequest(body)
	require.Nil(t, appErr)
	assert.Equal(t, "p1", input.PatientID)
	assert.Equal(t, "d1", input.ProviderID)
	assert.Equal(t, "visit", input.EncounterType)
	assert.Equal(t, time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC), input.EncounterDate)
	assert.JSONEq(t, `{"notes":"stable"}`, string(input.ClinicalData))
}

func TestValidateCreateRequestAcceptsDateTime(t *testing.T) {
	body := []byte(`{
		"patientId": "p1",
		"providerId": "d1",
		"encounterType": "visit",
		"encounterDate": "2026-02-25T08:30:00Z",
		"clinicalData": {}
	}`)

	input, appErr := validateCreateRequest(body)
	require.Nil(t, appErr)
	assert.Equal(t, time.Date(2026, 2, 25, 8, 30, 0, 0, time.UTC), input.EncounterDate)
}

func TestValidateCreateRequestFirstViolationWins(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		message string
	}{
		{"malformed JSON", `{"patientId":`, "body", "must be valid JSON"},
		{"non-object body", `[1,2,3]`, "body", "must be a JSON object"},
		{"missing clinicalData", `{"patientId":"p1"}`, "clinicalData", "is required"},
		{"clinicalData not object", `{"clinicalData":"notes"}`, "clinicalData", "must be an object"},
		{"clinicalData null", `{"clinicalData":null}`, "clinicalData", "must be an object"},
		{"missing patientId", `{"clinicalData":{}}`, "patientId", "is required"},
		{"patientId not string", `{"clinicalData":{},"patientId":7}`, "patientId", "must be a string"},
		{"missing providerId", `{"clinicalData":{},"patientId":"p1"}`, "providerId", "is required"},
		{
			"missing encounterType",
			`{"clinicalData":{},"patientId":"p1","providerId":"d1"}`,
			"encounterType", "is required",
		},
		{
			"missing encounterDate",
			`{"clinicalData":{},"patientId":"p1","providerId":"d1","encounterType":"visit"}`,
			"encounterDate", "is required",
		},
		{
			"unparseable encounterDate",
			`{"clinicalData":{},"patientId":"p1","providerId":"d1","encounterType":"visit","encounterDate":"25/02/2026"}`,
			"encounterDate", "must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SSZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := validateCreateRequest([]byte(tt.body))
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.ErrValidation, appErr.Code)
			assert.Equal(t, "Request validation failed", appErr.Message)
			require.Len(t, appErr.Details, 1)
			assert.Equal(t, tt.path, appErr.Details[0].Path)
			assert.Equal(t, tt.message, appErr.Details[0].Message)
		})
	}
}

func TestValidateCreateRequestOrderClinicalDataFirst(t *testing.T) {
	// Everything is wrong; clinicalData must be reported first.
	_, appErr := validateCreateRequest([]byte(`{"patientId":7,"encounterDate":"bad"}`))
	require.NotNil(t, appErr)
	require.Len(t, appErr.Details, 1)
	assert.Equal(t, "clinicalData", appErr.Details[0].Path)
}
