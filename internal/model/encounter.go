package model

import (
	"encoding/json"
	"time"
)

// EncounterMetadata records who created the encounter and when. CreatedAt
// equals UpdatedAt at creation time; no update operation exists.
type EncounterMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy"`
}

// Encounter is a single clinical visit/interaction record. ClinicalData is an
// arbitrary document, opaque to the service: stored and returned verbatim,
// never inspected.
type Encounter struct {
	EncounterID   string            `json:"encounterId"`
	PatientID     string            `json:"patientId"` // PHI
	ProviderID    string            `json:"providerId"`
	EncounterDate time.Time         `json:"encounterDate"`
	EncounterType string            `json:"encounterType"`
	ClinicalData  json.RawMessage   `json:"clinicalData"`
	Metadata      EncounterMetadata `json:"metadata"`
}

// CreateEncounterInput carries the validated fields of a create request.
type CreateEncounterInput struct {
	PatientID     string
	ProviderID    string
	EncounterDate time.Time
	EncounterType string
	ClinicalData  json.RawMessage
}
