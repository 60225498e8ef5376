package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Contact é uma pessoa dentro da empresa do lead. Vários contatos por lead;
// só o primário é usado para outreach.
type Contact struct {
	ID          string    `json:"id"`
	LeadID      string    `json:"lead_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Title       string    `json:"title,omitempty"`
	LinkedInURL string    `json:"linkedin_url,omitempty"`
	IsPrimary   bool      `json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewContact(leadID, name, email string) (*Contact, error) {
	if leadID == "" {
		return nil, errors.New("lead_id é obrigatório")
	}
	if email == "" {
		return nil, errors.New("email é obrigatório")
	}

	return &Contact{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

type ContactRepositoryInterface interface {
	// UpsertPrimary grava o contato e o promove a primário do lead,
	// rebaixando qualquer primário anterior.
	UpsertPrimary(ctx context.Context, contact *Contact) error
}
