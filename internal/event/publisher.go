// Package event publishes appended audit entries to an external channel for
// downstream ingestion (SIEM, compliance pipelines). Publishing is best
// effort: failures are logged by the caller and never fail the request.
package event

import (
	"context"

	"github.com/jwalitptl/encounter-api/internal/model"
)

type Publisher interface {
	PublishAuditEntry(ctx context.Context, entry *model.AuditEntry) error
	Close() error
}

// NoopPublisher drops every event. Default when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishAuditEntry(ctx context.Context, entry *model.AuditEntry) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
