package usecase

import (
	"context"
	"encoding/json"

	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishStepAction(ctx context.Context, payload queue.StepActionPayload) error
}

// EnrichmentProvider é a API hospedada de pesquisa de empresa. O payload é
// opaco para o core; o cache tipado do lead guarda o timestamp.
type EnrichmentProvider interface {
	Research(ctx context.Context, company, sector string) (json.RawMessage, error)
}
