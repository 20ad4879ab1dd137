package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/encounter-api/internal/model"
)

// ErrNotFound is returned by lookups for an absent record.
var ErrNotFound = errors.New("record not found")

// DefaultQueryLimit bounds encounter queries that do not ask for a limit.
const DefaultQueryLimit = 100

// EncounterFilters narrows an encounter query. Nil fields match everything;
// date bounds are inclusive. Limit and Offset paginate the filtered, sorted
// result set.
type EncounterFilters struct {
	PatientID     *string
	ProviderID    *string
	EncounterType *string
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Offset        int
}

// NewEncounterFilters returns filters with the default page size.
func NewEncounterFilters() *EncounterFilters {
	return &EncounterFilters{Limit: DefaultQueryLimit}
}

// AuditRange bounds an audit query by timestamp, inclusive on both ends.
// Nil bounds are open.
type AuditRange struct {
	From *time.Time
	To   *time.Time

	Limit  int
	Offset int
}

// NewAuditRange returns an open range with the default page size.
func NewAuditRange() *AuditRange {
	return &AuditRange{Limit: DefaultQueryLimit}
}

type (
	// EncounterRepository persists encounter records. Query results are sorted
	// ascending by encounter date, ties broken by encounter id.
	EncounterRepository interface {
		Create(ctx context.Context, encounter *model.Encounter) (*model.Encounter, error)
		GetByID(ctx context.Context, encounterID string) (*model.Encounter, error)
		Query(ctx context.Context, filters *EncounterFilters) ([]*model.Encounter, error)
	}

	// AuditRepository persists append-only audit entries. Query results are
	// sorted ascending by timestamp, ties broken by encounter id, then actor.
	AuditRepository interface {
		Append(ctx context.Context, entry *model.AuditEntry) error
		Query(ctx context.Context, rng *AuditRange) ([]*model.AuditEntry, error)
	}
)
