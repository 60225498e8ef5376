package usecase

import (
	"fmt"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// Aritmética de calendário comercial. Funções puras, sem estado.
// Dia útil = qualquer dia que não seja sábado nem domingo (sem feriados).

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AddBusinessDays avança n dias úteis a partir de start. n == 0 devolve
// start inalterado (NÃO pula para o próximo dia útil). Para n > 0, fins de
// semana não contam: sexta + 1 dia útil = segunda.
func AddBusinessDays(start time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, &DomainError{
			Code:    CodeInvalidArgument,
			Message: fmt.Sprintf("business day offset must not be negative, got %d", n),
		}
	}

	t := start
	for remaining := n; remaining > 0; {
		t = t.AddDate(0, 0, 1)
		if !isWeekend(t) {
			remaining--
		}
	}
	return t, nil
}

// windowLocation resolve o timezone da janela de envio. Timezone inválido
// ou vazio cai para UTC em vez de quebrar o agendamento.
func windowLocation(w entity.SendingWindow) *time.Location {
	if w.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// clampToWindowStart fixa o horário em StartHour:00:00 no timezone da
// janela, mantendo a data. O original cravava 9h local; aqui o 9 virou o
// default da janela e o valor configurado é respeitado.
func clampToWindowStart(t time.Time, w entity.SendingWindow) time.Time {
	loc := windowLocation(w)
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), w.StartHour, 0, 0, 0, loc)
}

// FirstActionAt calcula o primeiro horário de ação de um lote de
// enrollments: hoje (AddBusinessDays com n=0), no início da janela.
func FirstActionAt(now time.Time, settings entity.SequenceSettings) (time.Time, error) {
	day, err := AddBusinessDays(now, 0)
	if err != nil {
		return time.Time{}, err
	}
	return clampToWindowStart(day, settings.SendingWindow), nil
}

// NextActionAt calcula o horário do próximo step a partir de agora e do
// delta de dias entre steps. Delta negativo (sequência fora de ordem) é
// tratado como 0 para nunca agendar no passado. Com SkipWeekends o delta
// conta em dias úteis; sem, em dias corridos.
func NextActionAt(now time.Time, deltaDays int, settings entity.SequenceSettings) (time.Time, error) {
	if deltaDays < 0 {
		deltaDays = 0
	}

	var day time.Time
	if settings.SkipWeekends {
		var err error
		day, err = AddBusinessDays(now, deltaDays)
		if err != nil {
			return time.Time{}, err
		}
	} else {
		day = now.AddDate(0, 0, deltaDays)
	}
	return clampToWindowStart(day, settings.SendingWindow), nil
}
