package mail_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/l10n-ch-billing/internal/application/mailing"
	"github.com/jhoicas/l10n-ch-billing/internal/infrastructure/mail"
	"github.com/jhoicas/l10n-ch-billing/pkg/logger"
)

func TestNewMessage(t *testing.T) {
	msg, err := mail.NewMessage(mailing.OutgoingMail{
		To:      "kunde@example.ch, buchhaltung@example.ch",
		Subject: "Rechnung INV/2024/0001",
		Body:    "<p>Guten Tag</p>",
		Attachments: []mailing.Attachment{
			{Name: "rechnung_INV_2024_0001_mit_einzahlungsschein.pdf", Content: []byte("%PDF-1.4")},
		},
	}, "billing@muster.ch")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "From: billing@muster.ch")
	assert.Contains(t, raw, "kunde@example.ch")
	assert.Contains(t, raw, "buchhaltung@example.ch")
	assert.Contains(t, raw, "rechnung_INV_2024_0001_mit_einzahlungsschein.pdf")
}

func TestNewMessage_RequiresAddresses(t *testing.T) {
	_, err := mail.NewMessage(mailing.OutgoingMail{To: "a@example.ch"}, "")
	assert.Error(t, err)
	_, err = mail.NewMessage(mailing.OutgoingMail{From: "b@example.ch"}, "")
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	s := mail.NewLogSender(logger.Nop())
	assert.NoError(t, s.Send(context.Background(), mailing.OutgoingMail{To: "a@example.ch"}))
}
