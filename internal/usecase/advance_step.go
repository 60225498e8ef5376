package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
)

const dueBatchLimit = 100

// EmailEvent chega do webhook do provedor de email.
type EmailEvent struct {
	Type   string `json:"event"` // replied, bounced
	LeadID string `json:"lead_id"`
}

const (
	EmailEventReplied = "replied"
	EmailEventBounced = "bounced"
)

// AdvanceStepUseCase é a máquina de estados do enrollment:
// active → completed quando os steps acabam, active ⇄ paused por fora
// (reply/bounce conforme settings, ou pausa manual). completed é terminal.
type AdvanceStepUseCase struct {
	SequenceRepo   entity.SequenceRepositoryInterface
	LeadRepo       entity.LeadRepositoryInterface
	EnrollmentRepo entity.EnrollmentRepositoryInterface
	Producer       QueueProducerInterface
	Now            func() time.Time
}

func NewAdvanceStepUseCase(
	sequenceRepo entity.SequenceRepositoryInterface,
	leadRepo entity.LeadRepositoryInterface,
	enrollmentRepo entity.EnrollmentRepositoryInterface,
	producer QueueProducerInterface,
) *AdvanceStepUseCase {
	return &AdvanceStepUseCase{
		SequenceRepo:   sequenceRepo,
		LeadRepo:       leadRepo,
		EnrollmentRepo: enrollmentRepo,
		Producer:       producer,
		Now:            time.Now,
	}
}

// ExecuteDue processa enrollments ativos vencidos, FIFO por created_at.
// Para cada um: publica a ordem do step atual na fila e avança o ponteiro
// (ou completa, se era o último step). O cap diário da sequência é checado
// antes de cada publicação; quem passou do cap fica vencido e volta na
// próxima varredura — a ordem FIFO preserva a prioridade de quem esperou.
func (uc *AdvanceStepUseCase) ExecuteDue(ctx context.Context) (int, error) {
	now := uc.Now()

	due, err := uc.EnrollmentRepo.FindDue(ctx, now, dueBatchLimit)
	if err != nil {
		return 0, &TechnicalError{Code: CodeDatabase, Message: "failed to load due enrollments: " + err.Error()}
	}

	sequences := map[string]*entity.Sequence{}
	sentToday := map[string]int{}
	processed := 0

	for _, e := range due {
		seq, ok := sequences[e.SequenceID]
		if !ok {
			seq, err = uc.SequenceRepo.FindByID(ctx, e.SequenceID)
			if err != nil {
				log.Printf("⚠️ [CADENCE] Sequência %s não carregou: %v", e.SequenceID, err)
				continue
			}
			sequences[e.SequenceID] = seq

			count, err := uc.EnrollmentRepo.CountActionsSince(ctx, seq.ID, dayStart(now, seq.Settings))
			if err != nil {
				log.Printf("⚠️ [CADENCE] Contagem diária falhou para %s: %v", seq.ID, err)
				continue
			}
			sentToday[seq.ID] = count
		}

		if sentToday[seq.ID] >= seq.Settings.MaxPerDay {
			// Cota do dia esgotada; deixa para a próxima janela elegível.
			continue
		}

		if err := uc.advanceOne(ctx, e, seq, now); err != nil {
			log.Printf("⚠️ [CADENCE] Enrollment %s não avançou: %v", e.ID, err)
			continue
		}
		sentToday[seq.ID]++
		processed++
	}

	return processed, nil
}

func (uc *AdvanceStepUseCase) advanceOne(ctx context.Context, e *entity.Enrollment, seq *entity.Sequence, now time.Time) error {
	if e.CurrentStep < 0 || e.CurrentStep >= len(seq.Steps) {
		// Ponteiro fora da lista (sequência encolheu?); fecha o enrollment.
		return uc.EnrollmentRepo.Complete(ctx, e.ID, now)
	}
	step := seq.Steps[e.CurrentStep]

	leads, err := uc.LeadRepo.FindByIDsWithPrimaryContact(ctx, []string{e.LeadID})
	if err != nil {
		return err
	}
	if len(leads) == 0 || leads[0].Primary == nil {
		// Lead sumiu ou perdeu o contato primário depois do enroll
		return uc.EnrollmentRepo.SetStatus(ctx, e.ID, entity.EnrollmentPaused)
	}
	lead, contact := leads[0].Lead, leads[0].Primary

	payload := queue.StepActionPayload{
		EnrollmentID:    e.ID,
		SequenceID:      seq.ID,
		LeadID:          lead.ID,
		StepIndex:       e.CurrentStep,
		StepType:        step.Type,
		Company:         lead.Company,
		ContactName:     contact.Name,
		ContactEmail:    contact.Email,
		ContactLinkedIn: contact.LinkedInURL,
	}
	if err := uc.Producer.PublishStepAction(ctx, payload); err != nil {
		return err
	}

	next := e.CurrentStep + 1
	if next >= len(seq.Steps) {
		return uc.EnrollmentRepo.Complete(ctx, e.ID, now)
	}

	delta := seq.Steps[next].DelayDays - step.DelayDays
	nextAt, err := NextActionAt(now, delta, seq.Settings)
	if err != nil {
		return err
	}
	return uc.EnrollmentRepo.MarkStepSent(ctx, e.ID, next, nextAt, now)
}

// Pause suspende um enrollment ativo. completed é terminal.
func (uc *AdvanceStepUseCase) Pause(ctx context.Context, enrollmentID string) error {
	return uc.setStatusFrom(ctx, enrollmentID, entity.EnrollmentActive, entity.EnrollmentPaused)
}

// Resume reativa um enrollment pausado.
func (uc *AdvanceStepUseCase) Resume(ctx context.Context, enrollmentID string) error {
	return uc.setStatusFrom(ctx, enrollmentID, entity.EnrollmentPaused, entity.EnrollmentActive)
}

func (uc *AdvanceStepUseCase) setStatusFrom(ctx context.Context, id, from, to string) error {
	e, err := uc.EnrollmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrEnrollmentNotFound) {
			return &DomainError{Code: CodeLeadMissing, Message: "enrollment não encontrado: " + id}
		}
		return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}
	if e.Status == entity.EnrollmentCompleted {
		return &DomainError{Code: CodeTerminalState, Message: "enrollment já completou a sequência"}
	}
	if e.Status != from {
		// Transição redundante (já está no destino) é no-op
		if e.Status == to {
			return nil
		}
		return &DomainError{Code: CodeTerminalState, Message: "transição inválida: " + e.Status + " -> " + to}
	}
	if err := uc.EnrollmentRepo.SetStatus(ctx, id, to); err != nil {
		return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}
	return nil
}

// HandleEmailEvent aplica as stop conditions da sequência: reply pausa (e
// promove o lead para replied), bounce encerra. Settings desligadas = no-op.
func (uc *AdvanceStepUseCase) HandleEmailEvent(ctx context.Context, event EmailEvent) error {
	if event.Type != EmailEventReplied && event.Type != EmailEventBounced {
		return nil
	}
	middleware.RecordEmailEvent(event.Type)

	enrollments, err := uc.EnrollmentRepo.FindActiveByLead(ctx, event.LeadID)
	if err != nil {
		return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
	}

	for _, e := range enrollments {
		seq, err := uc.SequenceRepo.FindByID(ctx, e.SequenceID)
		if err != nil {
			log.Printf("⚠️ [EVENT] Sequência %s não carregou: %v", e.SequenceID, err)
			continue
		}

		switch event.Type {
		case EmailEventReplied:
			if !seq.Settings.StopOnReply {
				continue
			}
			if err := uc.EnrollmentRepo.SetStatus(ctx, e.ID, entity.EnrollmentPaused); err != nil {
				return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
			}
			if err := uc.LeadRepo.UpdateStage(ctx, []string{event.LeadID}, entity.StageReplied); err != nil {
				return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
			}

		case EmailEventBounced:
			if !seq.Settings.StopOnBounce {
				continue
			}
			if err := uc.EnrollmentRepo.Complete(ctx, e.ID, uc.Now()); err != nil {
				return &TechnicalError{Code: CodeDatabase, Message: err.Error()}
			}
		}
	}

	return nil
}

// dayStart é meia-noite de hoje no timezone da janela da sequência (o cap
// diário conta no fuso de envio, não em UTC).
func dayStart(now time.Time, settings entity.SequenceSettings) time.Time {
	loc := windowLocation(settings.SendingWindow)
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
