package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-outreach/internal/entity"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
)

// EmailSenderInterface é o canal de email (SMTP via gomail).
type EmailSenderInterface interface {
	SendStepEmail(to, contactName, company string, stepIndex int) error
}

// LinkedInSenderInterface é o canal de automação do LinkedIn.
type LinkedInSenderInterface interface {
	SendConnect(profileURL, note string) error
	SendMessage(profileURL, body string) error
}

// Worker consome as ordens de step e roteia pelo canal. 100% desacoplado do
// banco: tudo que precisa vem no payload.
type Worker struct {
	Channel  *amqp.Channel
	Email    EmailSenderInterface
	LinkedIn LinkedInSenderInterface
}

func NewWorker(ch *amqp.Channel, email EmailSenderInterface, linkedin LinkedInSenderInterface) *Worker {
	return &Worker{
		Channel:  ch,
		Email:    email,
		LinkedIn: linkedin,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload StepActionPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre (malformada). Rejeita sem requeue.
				d.Nack(false, false)
				continue
			}

			log.Printf("⚙️ [WORKER] Step %d (%s) para %s", payload.StepIndex, payload.StepType, payload.Company)

			if err := w.processMessage(context.Background(), payload); err != nil {
				log.Printf("❌ [WORKER] Erro no canal %s: %s", payload.StepType, err)
				middleware.RecordStepAction(payload.StepType, "error")
				// Falha de envio vai para a DLQ; o enrollment continua
				// vencido e a próxima varredura da cadência retenta.
				d.Nack(false, false)
			} else {
				middleware.RecordStepAction(payload.StepType, "sent")
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

func (w *Worker) processMessage(ctx context.Context, payload StepActionPayload) error {
	switch payload.StepType {
	case entity.StepEmail:
		return w.Email.SendStepEmail(payload.ContactEmail, payload.ContactName, payload.Company, payload.StepIndex)

	case entity.StepLinkedInConnect:
		note := "Olá " + payload.ContactName + ", vi o trabalho de vocês na " + payload.Company + " e gostaria de conectar."
		return w.LinkedIn.SendConnect(payload.ContactLinkedIn, note)

	case entity.StepLinkedInMessage:
		body := "Oi " + payload.ContactName + ", conseguiu ver meu último email sobre a " + payload.Company + "?"
		return w.LinkedIn.SendMessage(payload.ContactLinkedIn, body)

	case entity.StepCall:
		// Ligação é tarefa manual do SDR; só registra.
		log.Printf("📞 [WORKER] Tarefa de ligação: %s (%s)", payload.ContactName, payload.Company)
		return nil

	default:
		log.Printf("⚠️ Canal desconhecido: %s. Apenas logando.", payload.StepType)
		// ACK para não travar a fila com algo que não sabemos tratar
		return nil
	}
}
