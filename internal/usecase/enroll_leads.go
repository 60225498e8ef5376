package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

type EnrollLeadsInput struct {
	SequenceID string   `json:"sequence_id"`
	LeadIDs    []string `json:"lead_ids"`
}

type EnrollLeadsOutput struct {
	Enrolled   int `json:"enrolled"`
	Skipped    int `json:"skipped"`
	NoContacts int `json:"no_contacts"`
}

type EnrollLeadsUseCase struct {
	SequenceRepo   entity.SequenceRepositoryInterface
	LeadRepo       entity.LeadRepositoryInterface
	EnrollmentRepo entity.EnrollmentRepositoryInterface
	Now            func() time.Time
}

func NewEnrollLeadsUseCase(
	sequenceRepo entity.SequenceRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	enrollmentRepo entity.EnrollmentRepositoryInterface,
) *EnrollLeadsUseCase {
	return &EnrollLeadsUseCase{
		SequenceRepo:   sequenceRepo,
		LeadRepo:       leadRepo,
		EnrollmentRepo: enrollmentRepo,
		Now:            time.Now,
	}
}

// Execute matricula cada lead elegível exatamente uma vez na sequência.
// Lead elegível = existe no banco e tem contato primário. Re-enroll do
// mesmo par (sequence, lead) é no-op (conflito descartado no insert), então
// a chamada inteira é idempotente e pode ser retentada pelo caller.
func (uc *EnrollLeadsUseCase) Execute(ctx context.Context, input EnrollLeadsInput) (*EnrollLeadsOutput, error) {
	if validationErrors := ValidateEnrollLeadsInput(input); len(validationErrors) > 0 {
		return nil, validationDomainError(validationErrors)
	}

	seq, err := uc.SequenceRepo.FindByID(ctx, input.SequenceID)
	if err != nil {
		if errors.Is(err, entity.ErrSequenceNotFound) {
			return nil, &DomainError{
				Code:    CodeSequenceMissing,
				Message: "sequência não encontrada: " + input.SequenceID,
			}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load sequence: " + err.Error()}
	}

	// IDs que não existem no banco somem daqui em silêncio (entram só no
	// total de skipped, nunca como erro).
	found, err := uc.LeadRepo.FindByIDsWithPrimaryContact(ctx, input.LeadIDs)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "failed to load leads: " + err.Error()}
	}

	var enrollable []*entity.LeadWithContact
	for _, lc := range found {
		if lc.Enrollable() {
			enrollable = append(enrollable, lc)
		}
	}

	if len(enrollable) == 0 {
		return nil, &DomainError{
			Code:    CodeNoEligibleLeads,
			Message: "nenhum lead com contato primário para matricular",
		}
	}

	// Um único horário para o lote inteiro
	firstActionAt, err := FirstActionAt(uc.Now(), seq.Settings)
	if err != nil {
		return nil, err
	}

	rows := make([]*entity.Enrollment, 0, len(enrollable))
	stageIDs := make([]string, 0, len(enrollable))
	for _, lc := range enrollable {
		rows = append(rows, entity.NewEnrollment(seq.ID, lc.Lead.ID, lc.Primary.ID, firstActionAt))
		stageIDs = append(stageIDs, lc.Lead.ID)
	}

	// Insert primeiro, stage depois — mesma ordem do fluxo original, sem tx
	// SQL entre os dois. A compensação fica vazia de propósito: se o stage
	// falhar, retentar o enroll é seguro (insert é conflict-safe).
	var inserted int
	txn := NewTransaction()

	txn.AddOperation("insert_enrollments", func(ctx context.Context) error {
		var opErr error
		inserted, opErr = uc.EnrollmentRepo.BulkInsertIgnoreConflict(ctx, rows)
		return opErr
	})

	// Stage vira contacted para TODOS os elegíveis, inclusive os que já
	// estavam matriculados (colisão no insert não pula o update).
	txn.AddOperation("update_lead_stage", func(ctx context.Context) error {
		return uc.LeadRepo.UpdateStage(ctx, stageIDs, entity.StageContacted)
	})

	if err := txn.Execute(ctx); err != nil {
		return nil, &TechnicalError{
			Code:    CodeDatabase,
			Message: "failed to persist enrollments: " + err.Error(),
		}
	}

	middleware.RecordEnrollments(inserted)

	return &EnrollLeadsOutput{
		Enrolled:   inserted,
		Skipped:    len(input.LeadIDs) - inserted,
		NoContacts: len(found) - len(enrollable),
	}, nil
}
