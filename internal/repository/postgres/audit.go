package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
)

type auditRepository struct {
	BaseRepository
}

func NewAuditRepository(base BaseRepository) repository.AuditRepository {
	return &auditRepository{base}
}

type auditRow struct {
	Timestamp   time.Time `db:"timestamp"`
	Actor       string    `db:"actor"`
	Action      string    `db:"action"`
	EncounterID string    `db:"encounter_id"`
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AuditEntry) error {
	query := `
        INSERT INTO audit_entries (timestamp, actor, action, encounter_id)
        VALUES ($1, $2, $3, $4)
    `

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			entry.Timestamp,
			entry.Actor,
			string(entry.Action),
			entry.EncounterID,
		)
		return err
	})
}

func (r *auditRepository) Query(ctx context.Context, rng *repository.AuditRange) ([]*model.AuditEntry, error) {
	if rng == nil {
		rng = repository.NewAuditRange()
	}

	query := `SELECT * FROM audit_entries WHERE 1=1`
	var args []interface{}

	if rng.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", len(args)+1)
		args = append(args, *rng.From)
	}
	if rng.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", len(args)+1)
		args = append(args, *rng.To)
	}

	query += " ORDER BY timestamp ASC, encounter_id ASC, actor ASC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, rng.Limit, rng.Offset)

	var rows []auditRow
	if err := r.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}

	entries := make([]*model.AuditEntry, 0, len(rows))
	for i := range rows {
		entries = append(entries, &model.AuditEntry{
			Timestamp:   rows[i].Timestamp.UTC(),
			Actor:       rows[i].Actor,
			Action:      model.AuditAction(rows[i].Action),
			EncounterID: rows[i].EncounterID,
		})
	}
	return entries, nil
}
