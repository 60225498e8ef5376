package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StepActionPayload é a ordem de execução de um step, consumida pelo worker
// de canal. Carrega tudo que o sender precisa para não voltar ao banco.
type StepActionPayload struct {
	EnrollmentID string `json:"enrollment_id"`
	SequenceID   string `json:"sequence_id"`
	LeadID       string `json:"lead_id"`
	StepIndex    int    `json:"step_index"`
	StepType     string `json:"step_type"` // email, linkedin_connect, linkedin_message, call

	Company         string `json:"company"`
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email"`
	ContactLinkedIn string `json:"contact_linkedin,omitempty"`
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishStepAction(ctx context.Context, payload StepActionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
