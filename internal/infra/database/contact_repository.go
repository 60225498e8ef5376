package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

// UpsertPrimary grava o contato (chave natural: lead + email) e o promove a
// primário, rebaixando qualquer primário anterior do mesmo lead. As duas
// escritas andam juntas numa tx.
func (r *ContactRepository) UpsertPrimary(ctx context.Context, contact *entity.Contact) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE contacts SET is_primary = FALSE WHERE lead_id = $1 AND is_primary = TRUE`,
		contact.LeadID,
	)
	if err != nil {
		return fmt.Errorf("falha ao rebaixar primário anterior: %w", err)
	}

	query := `
		INSERT INTO contacts (id, lead_id, name, email, title, linkedin_url, is_primary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW())
		ON CONFLICT (lead_id, email)
		DO UPDATE SET
			name         = COALESCE(NULLIF(EXCLUDED.name, ''), contacts.name),
			title        = COALESCE(NULLIF(EXCLUDED.title, ''), contacts.title),
			linkedin_url = COALESCE(NULLIF(EXCLUDED.linkedin_url, ''), contacts.linkedin_url),
			is_primary   = TRUE
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		contact.ID,
		contact.LeadID,
		contact.Name,
		contact.Email,
		contact.Title,
		contact.LinkedInURL,
	).Scan(&contact.ID, &contact.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao gravar contato: %w", err)
	}
	contact.IsPrimary = true

	return tx.Commit()
}
