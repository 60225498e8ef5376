package mail

type OutreachEmailData struct {
	ContactName string
	Company     string
	StepIndex   int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
