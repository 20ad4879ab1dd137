package model

import "time"

// AuditAction enumerates the auditable operations.
type AuditAction string

const (
	AuditActionRead   AuditAction = "READ_ENCOUNTER"
	AuditActionCreate AuditAction = "CREATE_ENCOUNTER"
)

// AuditEntry is an append-only record of who accessed or created which
// encounter and when. Entries are never mutated or deleted. The entry carries
// the encounter id by value only; it contains no clinical data.
type AuditEntry struct {
	Timestamp   time.Time   `json:"timestamp"`
	Actor       string      `json:"actor"`
	Action      AuditAction `json:"action"`
	EncounterID string      `json:"encounterId"`
}
