package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// SendStepEmail envia o email de um step da cadência renderizando o
// template de outreach.
func (s *EmailSender) SendStepEmail(to, contactName, company string, stepIndex int) error {
	data := OutreachEmailData{
		ContactName: contactName,
		Company:     company,
		StepIndex:   stepIndex,
	}

	tmplPath := filepath.Join("templates", "outreach.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	subject := fmt.Sprintf("Uma pergunta rápida sobre a %s", company)
	if stepIndex > 0 {
		subject = fmt.Sprintf("Re: uma pergunta rápida sobre a %s", company)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
