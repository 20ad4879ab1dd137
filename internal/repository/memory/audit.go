package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
)

type auditRepository struct {
	mu      sync.RWMutex
	entries []model.AuditEntry
}

func NewAuditRepository() repository.AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return nil
}

func (r *auditRepository) Query(ctx context.Context, rng *repository.AuditRange) ([]*model.AuditEntry, error) {
	if rng == nil {
		rng = repository.NewAuditRange()
	}

	r.mu.RLock()
	out := make([]*model.AuditEntry, 0, len(r.entries))
	for i := range r.entries {
		entry := r.entries[i]
		if rng.From != nil && entry.Timestamp.Before(*rng.From) {
			continue
		}
		if rng.To != nil && entry.Timestamp.After(*rng.To) {
			continue
		}
		out = append(out, &entry)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		if out[i].EncounterID != out[j].EncounterID {
			return out[i].EncounterID < out[j].EncounterID
		}
		return out[i].Actor < out[j].Actor
	})

	return paginate(out, rng.Offset, rng.Limit), nil
}
