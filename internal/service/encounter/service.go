// Package encounter owns the business rules for encounter records: it is the
// only component that writes to the encounter or audit stores, and it pairs
// every successful read or write with exactly one audit entry.
package encounter

import (
	"context"

	"github.com/jwalitptl/encounter-api/internal/event"
	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
	"github.com/jwalitptl/encounter-api/pkg/clock"
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
	"github.com/jwalitptl/encounter-api/pkg/idgen"
	"github.com/jwalitptl/encounter-api/pkg/logger"
	"github.com/jwalitptl/encounter-api/pkg/metrics"
)

// Service orchestrates create/get/query operations over the encounter and
// audit stores. Each call is a single step: validate, act, audit, return.
type Service struct {
	encounters repository.EncounterRepository
	audit      repository.AuditRepository
	clock      clock.Clock
	ids        idgen.Generator
	events     event.Publisher
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// Option configures optional collaborators.
type Option func(*Service)

func WithEvents(publisher event.Publisher) Option {
	return func(s *Service) { s.events = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	encounters repository.EncounterRepository,
	audit repository.AuditRepository,
	clk clock.Clock,
	ids idgen.Generator,
	log *logger.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		encounters: encounters,
		audit:      audit,
		clock:      clk,
		ids:        ids,
		events:     event.NewNoopPublisher(),
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateEncounter persists a new encounter for actor and appends a
// CREATE_ENCOUNTER audit entry carrying the same timestamp as the record's
// metadata. The audit append happens only after a successful persist. Two
// identical calls are two independent creations; nothing is deduplicated.
func (s *Service) CreateEncounter(ctx context.Context, input *model.CreateEncounterInput, actor string) (*model.Encounter, *apperrors.AppError) {
	if actor == "" {
		return nil, apperrors.NewUnauthorized("Unauthorized")
	}

	now := s.clock.Now()
	encounter := &model.Encounter{
		EncounterID:   s.ids.NextID(),
		PatientID:     input.PatientID,
		ProviderID:    input.ProviderID,
		EncounterDate: input.EncounterDate,
		EncounterType: input.EncounterType,
		ClinicalData:  input.ClinicalData,
		Metadata: model.EncounterMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: actor,
		},
	}

	persisted, err := s.encounters.Create(ctx, encounter)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	if s.metrics != nil {
		s.metrics.EncountersCreated.Inc()
	}

	if appErr := s.appendAudit(ctx, &model.AuditEntry{
		Timestamp:   now,
		Actor:       actor,
		Action:      model.AuditActionCreate,
		EncounterID: persisted.EncounterID,
	}); appErr != nil {
		return nil, appErr
	}

	return persisted, nil
}

// GetEncounter returns the record for id and appends a READ_ENCOUNTER audit
// entry. A failed lookup appends nothing.
func (s *Service) GetEncounter(ctx context.Context, id, actor string) (*model.Encounter, *apperrors.AppError) {
	if actor == "" {
		return nil, apperrors.NewUnauthorized("Unauthorized")
	}

	found, err := s.encounters.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.NewNotFound("Encounter not found")
		}
		return nil, apperrors.NewInternal(err)
	}

	if appErr := s.appendAudit(ctx, &model.AuditEntry{
		Timestamp:   s.clock.Now(),
		Actor:       actor,
		Action:      model.AuditActionRead,
		EncounterID: found.EncounterID,
	}); appErr != nil {
		return nil, appErr
	}

	return found, nil
}

// QueryEncounters delegates to the store. List reads are not audited; only
// single-record reads are. Flagged for product review, preserved as is.
func (s *Service) QueryEncounters(ctx context.Context, filters *repository.EncounterFilters) ([]*model.Encounter, *apperrors.AppError) {
	encounters, err := s.encounters.Query(ctx, filters)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return encounters, nil
}

// QueryAudit delegates to the audit store. Reading the audit log is not
// itself audited.
func (s *Service) QueryAudit(ctx context.Context, rng *repository.AuditRange) ([]*model.AuditEntry, *apperrors.AppError) {
	entries, err := s.audit.Query(ctx, rng)
	if err != nil {
		return nil, apperrors.NewInternal(err)
	}
	return entries, nil
}

func (s *Service) appendAudit(ctx context.Context, entry *model.AuditEntry) *apperrors.AppError {
	if err := s.audit.Append(ctx, entry); err != nil {
		return apperrors.NewInternal(err)
	}
	if s.metrics != nil {
		s.metrics.AuditEntries.WithLabelValues(string(entry.Action)).Inc()
	}

	if err := s.events.PublishAuditEntry(ctx, entry); err != nil && s.log != nil {
		s.log.Warn("failed to publish audit entry", map[string]interface{}{
			"action":      string(entry.Action),
			"encounterId": entry.EncounterID,
		})
	}
	return nil
}
