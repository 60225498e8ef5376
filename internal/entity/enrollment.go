package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrEnrollmentNotFound = errors.New("enrollment não encontrado")

// Enrollment statuses. completed é terminal; active ⇄ paused.
const (
	EnrollmentActive    = "active"
	EnrollmentPaused    = "paused"
	EnrollmentCompleted = "completed"
)

// Enrollment liga um lead a uma sequência e acompanha o progresso da
// cadência. No máximo um enrollment por par (sequence_id, lead_id) —
// garantido por unique constraint + insert com ON CONFLICT DO NOTHING.
type Enrollment struct {
	ID           string     `json:"id"`
	SequenceID   string     `json:"sequence_id"`
	LeadID       string     `json:"lead_id"`
	ContactID    string     `json:"contact_id"`
	CurrentStep  int        `json:"current_step"`
	Status       string     `json:"status"`
	NextActionAt time.Time  `json:"next_action_at"`
	LastActionAt *time.Time `json:"last_action_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func NewEnrollment(sequenceID, leadID, contactID string, firstActionAt time.Time) *Enrollment {
	return &Enrollment{
		ID:           uuid.New().String(),
		SequenceID:   sequenceID,
		LeadID:       leadID,
		ContactID:    contactID,
		CurrentStep:  0,
		Status:       EnrollmentActive,
		NextActionAt: firstActionAt,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

type EnrollmentRepositoryInterface interface {
	// BulkInsertIgnoreConflict insere todas as linhas num único statement
	// com ON CONFLICT (sequence_id, lead_id) DO NOTHING e devolve quantas
	// entraram de fato. Colisões são descartadas em silêncio.
	BulkInsertIgnoreConflict(ctx context.Context, rows []*Enrollment) (int, error)

	FindByID(ctx context.Context, id string) (*Enrollment, error)
	FindActiveByLead(ctx context.Context, leadID string) ([]*Enrollment, error)

	// FindDue devolve enrollments ativos vencidos, FIFO por created_at.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*Enrollment, error)

	// CountActionsSince conta ações executadas da sequência desde o
	// instante dado (para o rate cap diário).
	CountActionsSince(ctx context.Context, sequenceID string, since time.Time) (int, error)

	MarkStepSent(ctx context.Context, id string, nextStep int, nextActionAt, sentAt time.Time) error
	Complete(ctx context.Context, id string, sentAt time.Time) error
	SetStatus(ctx context.Context, id, status string) error
}
