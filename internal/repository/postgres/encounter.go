package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
)

type encounterRepository struct {
	BaseRepository
}

func NewEncounterRepository(base BaseRepository) repository.EncounterRepository {
	return &encounterRepository{base}
}

type encounterRow struct {
	EncounterID   string          `db:"encounter_id"`
	PatientID     string          `db:"patient_id"`
	ProviderID    string          `db:"provider_id"`
	EncounterDate time.Time       `db:"encounter_date"`
	EncounterType string          `db:"encounter_type"`
	ClinicalData  json.RawMessage `db:"clinical_data"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CreatedBy     string          `db:"created_by"`
}

func (row *encounterRow) toModel() *model.Encounter {
	return &model.Encounter{
		EncounterID:   row.EncounterID,
		PatientID:     row.PatientID,
		ProviderID:    row.ProviderID,
		EncounterDate: row.EncounterDate.UTC(),
		EncounterType: row.EncounterType,
		ClinicalData:  row.ClinicalData,
		Metadata: model.EncounterMetadata{
			CreatedAt: row.CreatedAt.UTC(),
			UpdatedAt: row.UpdatedAt.UTC(),
			CreatedBy: row.CreatedBy,
		},
	}
}

func (r *encounterRepository) Create(ctx context.Context, encounter *model.Encounter) (*model.Encounter, error) {
	query := `
        INSERT INTO encounters (
            encounter_id, patient_id, provider_id, encounter_date,
            encounter_type, clinical_data, created_at, updated_at, created_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (encounter_id) DO UPDATE SET
            patient_id = EXCLUDED.patient_id,
            provider_id = EXCLUDED.provider_id,
            encounter_date = EXCLUDED.encounter_date,
            encounter_type = EXCLUDED.encounter_type,
            clinical_data = EXCLUDED.clinical_data,
            created_at = EXCLUDED.created_at,
            updated_at = EXCLUDED.updated_at,
            created_by = EXCLUDED.created_by
    `

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			encounter.EncounterID,
			encounter.PatientID,
			encounter.ProviderID,
			encounter.EncounterDate,
			encounter.EncounterType,
			encounter.ClinicalData,
			encounter.Metadata.CreatedAt,
			encounter.Metadata.UpdatedAt,
			encounter.Metadata.CreatedBy,
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create encounter: %w", err)
	}

	persisted := *encounter
	return &persisted, nil
}

func (r *encounterRepository) GetByID(ctx context.Context, encounterID string) (*model.Encounter, error) {
	query := `SELECT * FROM encounters WHERE encounter_id = $1`

	var row encounterRow
	if err := r.GetDB().GetContext(ctx, &row, query, encounterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get encounter: %w", err)
	}

	return row.toModel(), nil
}

func (r *encounterRepository) Query(ctx context.Context, filters *repository.EncounterFilters) ([]*model.Encounter, error) {
	if filters == nil {
		filters = repository.NewEncounterFilters()
	}

	query := `SELECT * FROM encounters WHERE 1=1`
	var args []interface{}

	if filters.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", len(args)+1)
		args = append(args, *filters.PatientID)
	}
	if filters.ProviderID != nil {
		query += fmt.Sprintf(" AND provider_id = $%d", len(args)+1)
		args = append(args, *filters.ProviderID)
	}
	if filters.EncounterType != nil {
		query += fmt.Sprintf(" AND encounter_type = $%d", len(args)+1)
		args = append(args, *filters.EncounterType)
	}
	if filters.DateFrom != nil {
		query += fmt.Sprintf(" AND encounter_date >= $%d", len(args)+1)
		args = append(args, *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query += fmt.Sprintf(" AND encounter_date <= $%d", len(args)+1)
		args = append(args, *filters.DateTo)
	}

	query += " ORDER BY encounter_date ASC, encounter_id ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	var rows []encounterRow
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query encounters: %w", err)
	}

	encounters := make([]*model.Encounter, 0, len(rows))
	for i := range rows {
		encounters = append(encounters, rows[i].toModel())
	}
	return encounters, nil
}
