package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

// CadenceWorker varre enrollments vencidos e dispara os steps. É o único
// lugar que aciona o avanço da máquina de estados fora dos webhooks.
type CadenceWorker struct {
	advance      *usecase.AdvanceStepUseCase
	tickInterval time.Duration
}

func NewCadenceWorker(advance *usecase.AdvanceStepUseCase) *CadenceWorker {
	return &CadenceWorker{
		advance:      advance,
		tickInterval: 1 * time.Minute,
	}
}

func (w *CadenceWorker) Start(ctx context.Context) {
	log.Println("🕒 Cadence Worker iniciado (tick de 1min)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Cadence Worker encerrado")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *CadenceWorker) tick(ctx context.Context) {
	processed, err := w.advance.ExecuteDue(ctx)
	if err != nil {
		log.Printf("❌ [CADENCE] Varredura falhou: %v", err)
		return
	}
	if processed > 0 {
		log.Printf("🚀 [CADENCE] %d steps disparados", processed)
	}
}
