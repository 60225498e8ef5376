package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrSequenceNotFound = errors.New("sequência não encontrada")

// Step types (canais de outreach)
const (
	StepEmail           = "email"
	StepLinkedInConnect = "linkedin_connect"
	StepLinkedInMessage = "linkedin_message"
	StepCall            = "call"
)

// Step é uma ação da cadência: canal + offset em dias a partir do enroll.
type Step struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	DelayDays int    `json:"delay_days"`
}

type SendingWindow struct {
	StartHour int    `json:"start_hour"`
	EndHour   int    `json:"end_hour"`
	Timezone  string `json:"timezone"`
}

type SequenceSettings struct {
	SendingWindow SendingWindow `json:"sending_window"`
	SkipWeekends  bool          `json:"skip_weekends"`
	MaxPerDay     int           `json:"max_per_day"`
	StopOnReply   bool          `json:"stop_on_reply"`
	StopOnBounce  bool          `json:"stop_on_bounce"`
}

type Sequence struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Sector      string           `json:"sector,omitempty"`
	Steps       []Step           `json:"steps"`
	Settings    SequenceSettings `json:"settings"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
}

// DefaultSteps é a cadência padrão de 5 toques em ~1 semana útil.
func DefaultSteps() []Step {
	return []Step{
		{ID: uuid.New().String(), Type: StepEmail, DelayDays: 0},
		{ID: uuid.New().String(), Type: StepLinkedInConnect, DelayDays: 3},
		{ID: uuid.New().String(), Type: StepEmail, DelayDays: 4},
		{ID: uuid.New().String(), Type: StepLinkedInMessage, DelayDays: 5},
		{ID: uuid.New().String(), Type: StepEmail, DelayDays: 6},
	}
}

func DefaultSettings() SequenceSettings {
	return SequenceSettings{
		SendingWindow: SendingWindow{StartHour: 9, EndHour: 17, Timezone: "America/Sao_Paulo"},
		SkipWeekends:  true,
		MaxPerDay:     50,
		StopOnReply:   true,
		StopOnBounce:  true,
	}
}

// NewSequence aplica defaults quando steps/settings não vierem do caller.
// A ordem dos steps é significativa; delays não-decrescentes são
// responsabilidade do caller.
func NewSequence(name, description, sector string, steps []Step, settings *SequenceSettings) (*Sequence, error) {
	if len(steps) == 0 {
		steps = DefaultSteps()
	}
	s := DefaultSettings()
	if settings != nil {
		s = *settings
	}

	seq := &Sequence{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Sector:      sector,
		Steps:       steps,
		Settings:    s,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}

func (s *Sequence) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("sequence needs at least one step")
	}
	for i, step := range s.Steps {
		if step.DelayDays < 0 {
			return fmt.Errorf("step %d: delay_days must not be negative", i)
		}
		switch step.Type {
		case StepEmail, StepLinkedInConnect, StepLinkedInMessage, StepCall:
		default:
			return fmt.Errorf("step %d: unknown type %q", i, step.Type)
		}
	}
	if s.Settings.MaxPerDay <= 0 {
		return errors.New("settings.max_per_day must be positive")
	}
	if s.Settings.SendingWindow.StartHour < 0 || s.Settings.SendingWindow.StartHour > 23 {
		return errors.New("settings.sending_window.start_hour out of range")
	}
	return nil
}

// SequenceStats agrega enrollments por status. Calculado na leitura, nunca
// armazenado.
type SequenceStats struct {
	Enrolled  int `json:"enrolled"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Paused    int `json:"paused"`
}

type SequenceWithStats struct {
	Sequence
	Stats SequenceStats `json:"stats"`
}

type SequenceRepositoryInterface interface {
	Create(ctx context.Context, seq *Sequence) error
	FindByID(ctx context.Context, id string) (*Sequence, error)
	ListWithStats(ctx context.Context) ([]*SequenceWithStats, error)
}
