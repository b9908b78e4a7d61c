package mailing

import "context"

// ReportRenderer contrato mínimo del registro de reportes (lo implementa *report.Service).
type ReportRenderer interface {
	Render(ctx context.Context, companyID, reportName string, resIDs []string) (map[string][]byte, error)
}

// Attachment adjunto binario de un correo saliente.
type Attachment struct {
	Name    string
	Content []byte
}

// OutgoingMail correo listo para enviar.
type OutgoingMail struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// MailSender envía correos (SMTP en producción).
type MailSender interface {
	Send(ctx context.Context, mail OutgoingMail) error
}
