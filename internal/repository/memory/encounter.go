// Package memory provides mutex-guarded in-memory repositories. Each store
// has its own lock, held only for the duration of a single operation; a
// create and its audit append are separate critical sections.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
)

type encounterRepository struct {
	mu         sync.RWMutex
	encounters map[string]*model.Encounter
}

func NewEncounterRepository() repository.EncounterRepository {
	return &encounterRepository{
		encounters: make(map[string]*model.Encounter),
	}
}

func (r *encounterRepository) Create(ctx context.Context, encounter *model.Encounter) (*model.Encounter, error) {
	stored := *encounter
	r.mu.Lock()
	r.encounters[stored.EncounterID] = &stored
	r.mu.Unlock()

	persisted := stored
	return &persisted, nil
}

func (r *encounterRepository) GetByID(ctx context.Context, encounterID string) (*model.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.encounters[encounterID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *found
	return &out, nil
}

func (r *encounterRepository) Query(ctx context.Context, filters *repository.EncounterFilters) ([]*model.Encounter, error) {
	if filters == nil {
		filters = repository.NewEncounterFilters()
	}

	r.mu.RLock()
	matches := make([]*model.Encounter, 0, len(r.encounters))
	for _, encounter := range r.encounters {
		if matchesFilters(encounter, filters) {
			out := *encounter
			matches = append(matches, &out)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].EncounterDate.Equal(matches[j].EncounterDate) {
			return matches[i].EncounterDate.Before(matches[j].EncounterDate)
		}
		return matches[i].EncounterID < matches[j].EncounterID
	})

	return paginate(matches, filters.Offset, filters.Limit), nil
}

func matchesFilters(encounter *model.Encounter, filters *repository.EncounterFilters) bool {
	if filters == nil {
		return true
	}
	if filters.PatientID != nil && encounter.PatientID != *filters.PatientID {
		return false
	}
	if filters.ProviderID != nil && encounter.ProviderID != *filters.ProviderID {
		return false
	}
	if filters.EncounterType != nil && encounter.EncounterType != *filters.EncounterType {
		return false
	}
	if filters.DateFrom != nil && encounter.EncounterDate.Before(*filters.DateFrom) {
		return false
	}
	if filters.DateTo != nil && encounter.EncounterDate.After(*filters.DateTo) {
		return false
	}
	return true
}

func paginate[T any](matches []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matches) {
		return []T{}
	}
	end := len(matches)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return matches[offset:end]
}
