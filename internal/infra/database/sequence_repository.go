package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

type SequenceRepository struct {
	DB *sql.DB
}

func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{DB: db}
}

func (r *SequenceRepository) Create(ctx context.Context, seq *entity.Sequence) error {
	stepsJSON, err := json.Marshal(seq.Steps)
	if err != nil {
		return err
	}
	settingsJSON, err := json.Marshal(seq.Settings)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sequences (id, name, description, sector, steps, settings, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7, $8)
	`

	_, err = r.DB.ExecContext(
		ctx,
		query,
		seq.ID,
		seq.Name,
		seq.Description,
		seq.Sector,
		stepsJSON,
		settingsJSON,
		seq.IsActive,
		seq.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao criar sequência: %w", err)
	}

	return nil
}

func (r *SequenceRepository) FindByID(ctx context.Context, id string) (*entity.Sequence, error) {
	query := `
		SELECT id, name, COALESCE(description, ''), COALESCE(sector, ''), steps, settings, is_active, created_at
		FROM sequences
		WHERE id = $1
	`

	var seq entity.Sequence
	var stepsRaw, settingsRaw []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&seq.ID,
		&seq.Name,
		&seq.Description,
		&seq.Sector,
		&stepsRaw,
		&settingsRaw,
		&seq.IsActive,
		&seq.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSequenceNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(stepsRaw, &seq.Steps); err != nil {
		return nil, fmt.Errorf("steps jsonb corrompido na sequência %s: %w", id, err)
	}
	if err := json.Unmarshal(settingsRaw, &seq.Settings); err != nil {
		return nil, fmt.Errorf("settings jsonb corrompido na sequência %s: %w", id, err)
	}

	return &seq, nil
}

// ListWithStats agrega os enrollments por status direto no SELECT; os
// contadores nunca são armazenados de forma redundante.
func (r *SequenceRepository) ListWithStats(ctx context.Context) ([]*entity.SequenceWithStats, error) {
	query := `
		SELECT s.id, s.name, COALESCE(s.description, ''), COALESCE(s.sector, ''),
		       s.steps, s.settings, s.is_active, s.created_at,
		       COUNT(e.id),
		       COUNT(e.id) FILTER (WHERE e.status = 'active'),
		       COUNT(e.id) FILTER (WHERE e.status = 'completed'),
		       COUNT(e.id) FILTER (WHERE e.status = 'paused')
		FROM sequences s
		LEFT JOIN enrollments e ON e.sequence_id = s.id
		GROUP BY s.id, s.name, s.description, s.sector, s.steps, s.settings, s.is_active, s.created_at
		ORDER BY s.created_at DESC
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.SequenceWithStats
	for rows.Next() {
		var item entity.SequenceWithStats
		var stepsRaw, settingsRaw []byte

		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Sector,
			&stepsRaw,
			&settingsRaw,
			&item.IsActive,
			&item.CreatedAt,
			&item.Stats.Enrolled,
			&item.Stats.Active,
			&item.Stats.Completed,
			&item.Stats.Paused,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(stepsRaw, &item.Steps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(settingsRaw, &item.Settings); err != nil {
			return nil, err
		}

		result = append(result, &item)
	}

	return result, rows.Err()
}
