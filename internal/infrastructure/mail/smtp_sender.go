// Package mail envía los correos generados por mailing.Service.
package mail

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/l10n-ch-billing/internal/application/mailing"
	"github.com/jhoicas/l10n-ch-billing/pkg/config"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

var (
	_ mailing.MailSender = (*SMTPSender)(nil)
	_ mailing.MailSender = (*LogSender)(nil)
)

// SMTPSender envía por SMTP con gomail (STARTTLS cuando el servidor lo ofrece).
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el sender. cfg.From se usa si la plantilla no define remitente.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send abre una conexión por correo; el lote de envíos lo controla mailing.Service.
func (s *SMTPSender) Send(ctx context.Context, m mailing.OutgoingMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := NewMessage(m, s.from)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", m.To, err)
	}
	return nil
}

// NewMessage arma el mensaje MIME: cuerpo HTML y un adjunto por Attachment.
func NewMessage(m mailing.OutgoingMail, defaultFrom string) (*gomail.Message, error) {
	from := m.From
	if from == "" {
		from = defaultFrom
	}
	if from == "" || m.To == "" {
		return nil, fmt.Errorf("smtp: remitente y destinatario son obligatorios")
	}
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetHeader("From", from)
	msg.SetHeader("To", splitRecipients(m.To)...)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.Body)
	for _, a := range m.Attachments {
		content := a.Content
		msg.Attach(a.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return msg, nil
}

// splitRecipients admite "a@x.ch, b@y.ch" como en los campos email_to de las plantillas.
func splitRecipients(to string) []string {
	var out []string
	for _, r := range strings.Split(to, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// LogSender no envía nada: registra el correo. Se usa cuando SMTP_HOST está vacío.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender construye el sender de desarrollo.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send registra destinatario, asunto y adjuntos.
func (s *LogSender) Send(_ context.Context, m mailing.OutgoingMail) error {
	names := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		names = append(names, a.Name)
	}
	s.log.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Strs("attachments", names).
		Msg("correo no enviado: SMTP no configurado")
	return nil
}
