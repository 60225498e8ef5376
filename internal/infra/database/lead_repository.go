package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, company, sector, city, state, country, revenue, employees, stage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			company   = EXCLUDED.company,
			sector    = COALESCE(NULLIF(EXCLUDED.sector, ''), leads.sector),
			city      = COALESCE(NULLIF(EXCLUDED.city, ''), leads.city),
			state     = COALESCE(NULLIF(EXCLUDED.state, ''), leads.state),
			country   = COALESCE(NULLIF(EXCLUDED.country, ''), leads.country),
			revenue   = COALESCE(NULLIF(EXCLUDED.revenue, ''), leads.revenue),
			employees = CASE WHEN EXCLUDED.employees > 0 THEN EXCLUDED.employees ELSE leads.employees END,
			updated_at = NOW()
		RETURNING created_at, updated_at, stage
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.Company,
		lead.Sector,
		lead.City,
		lead.State,
		lead.Country,
		lead.Revenue,
		lead.Employees,
		lead.Stage,
	).Scan(
		&lead.CreatedAt,
		&lead.UpdatedAt,
		&lead.Stage,
	)

	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, company, COALESCE(sector, ''), COALESCE(city, ''), COALESCE(state, ''),
		       COALESCE(country, ''), COALESCE(revenue, ''), COALESCE(employees, 0),
		       stage, COALESCE(enrichment, '{}'::jsonb), created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	var lead entity.Lead
	var enrichmentRaw []byte

	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.Company,
		&lead.Sector,
		&lead.City,
		&lead.State,
		&lead.Country,
		&lead.Revenue,
		&lead.Employees,
		&lead.Stage,
		&enrichmentRaw,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(enrichmentRaw, &lead.Enrichment); err != nil {
		return nil, fmt.Errorf("enrichment jsonb corrompido para lead %s: %w", id, err)
	}

	return &lead, nil
}

// FindByIDsWithPrimaryContact devolve os leads encontrados com seu contato
// primário (LEFT JOIN — lead sem primário vem com Primary nil). IDs que não
// existem simplesmente não aparecem no resultado.
func (r *LeadRepository) FindByIDsWithPrimaryContact(ctx context.Context, ids []string) ([]*entity.LeadWithContact, error) {
	query := `
		SELECT l.id, l.company, COALESCE(l.sector, ''), l.stage,
		       c.id, c.name, c.email, COALESCE(c.title, ''), COALESCE(c.linkedin_url, '')
		FROM leads l
		LEFT JOIN contacts c ON c.lead_id = l.id AND c.is_primary = TRUE
		WHERE l.id = ANY($1)
		ORDER BY l.created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*entity.LeadWithContact
	for rows.Next() {
		var lead entity.Lead
		var contactID, contactName, contactEmail, contactTitle, contactLinkedIn sql.NullString

		if err := rows.Scan(
			&lead.ID,
			&lead.Company,
			&lead.Sector,
			&lead.Stage,
			&contactID,
			&contactName,
			&contactEmail,
			&contactTitle,
			&contactLinkedIn,
		); err != nil {
			return nil, err
		}

		lc := &entity.LeadWithContact{Lead: &lead}
		if contactID.Valid {
			lc.Primary = &entity.Contact{
				ID:          contactID.String,
				LeadID:      lead.ID,
				Name:        contactName.String,
				Email:       contactEmail.String,
				Title:       contactTitle.String,
				LinkedInURL: contactLinkedIn.String,
				IsPrimary:   true,
			}
		}
		result = append(result, lc)
	}

	return result, rows.Err()
}

func (r *LeadRepository) UpdateStage(ctx context.Context, ids []string, stage string) error {
	query := `UPDATE leads SET stage = $1, updated_at = NOW() WHERE id = ANY($2)`
	_, err := r.DB.ExecContext(ctx, query, stage, pq.Array(ids))
	return err
}

// SaveEnrichment grava um artefato do cache tipado sem tocar nas outras
// chaves do jsonb.
func (r *LeadRepository) SaveEnrichment(ctx context.Context, leadID, key string, entry entity.EnrichmentEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	query := `
		UPDATE leads
		SET enrichment = jsonb_set(COALESCE(enrichment, '{}'::jsonb), ARRAY[$2], $3::jsonb),
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, leadID, key, raw)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
