package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-outreach/internal/entity"
)

// 2025-01-03 é uma sexta-feira
var friday = time.Date(2025, 1, 3, 15, 30, 0, 0, time.UTC)

func utcSettings(startHour int) entity.SequenceSettings {
	return entity.SequenceSettings{
		SendingWindow: entity.SendingWindow{StartHour: startHour, EndHour: 17, Timezone: "UTC"},
		SkipWeekends:  true,
		MaxPerDay:     50,
	}
}

func TestAddBusinessDays_ZeroReturnsStartUnchanged(t *testing.T) {
	// n=0 NÃO pula para o próximo dia útil, mesmo num sábado
	saturday := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)

	got, err := AddBusinessDays(saturday, 0)

	assert.NoError(t, err)
	assert.Equal(t, saturday, got)
}

func TestAddBusinessDays_FridayPlusOneIsMonday(t *testing.T) {
	got, err := AddBusinessDays(friday, 1)

	assert.NoError(t, err)
	assert.Equal(t, time.Monday, got.Weekday())
	assert.Equal(t, 6, got.Day()) // segunda 06/01
}

func TestAddBusinessDays_FridayPlusFiveIsNextFriday(t *testing.T) {
	got, err := AddBusinessDays(friday, 5)

	assert.NoError(t, err)
	assert.Equal(t, time.Friday, got.Weekday())
	assert.Equal(t, 10, got.Day()) // sexta 10/01
}

func TestAddBusinessDays_AlwaysLandsOnWeekday(t *testing.T) {
	for n := 1; n <= 30; n++ {
		got, err := AddBusinessDays(friday, n)

		assert.NoError(t, err)
		assert.NotEqual(t, time.Saturday, got.Weekday(), "n=%d", n)
		assert.NotEqual(t, time.Sunday, got.Weekday(), "n=%d", n)
	}
}

func TestAddBusinessDays_NegativeFails(t *testing.T) {
	_, err := AddBusinessDays(friday, -1)

	assert.Error(t, err)
	de, ok := err.(*DomainError)
	assert.True(t, ok)
	assert.Equal(t, CodeInvalidArgument, de.Code)
}

func TestFirstActionAt_ClampsToWindowStart(t *testing.T) {
	got, err := FirstActionAt(friday, utcSettings(9))

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 3, 9, 0, 0, 0, time.UTC), got)
}

func TestFirstActionAt_HonorsConfiguredStartHour(t *testing.T) {
	// O original cravava 9h; aqui a janela configurada manda
	got, err := FirstActionAt(friday, utcSettings(8))

	assert.NoError(t, err)
	assert.Equal(t, 8, got.Hour())
}

func TestNextActionAt_SkipsWeekend(t *testing.T) {
	got, err := NextActionAt(friday, 1, utcSettings(9))

	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), got)
}

func TestNextActionAt_CalendarDaysWhenWeekendsAllowed(t *testing.T) {
	settings := utcSettings(9)
	settings.SkipWeekends = false

	got, err := NextActionAt(friday, 1, settings)

	assert.NoError(t, err)
	assert.Equal(t, time.Saturday, got.Weekday())
	assert.Equal(t, 9, got.Hour())
}

func TestNextActionAt_NegativeDeltaClampsToToday(t *testing.T) {
	// Sequência com delays fora de ordem nunca agenda no passado
	got, err := NextActionAt(friday, -3, utcSettings(9))

	assert.NoError(t, err)
	assert.Equal(t, friday.Day(), got.Day())
	assert.Equal(t, 9, got.Hour())
}
