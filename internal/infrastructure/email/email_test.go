package email_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/email"
	"github.com/jhoicas/onboarding-api/pkg/config"
)

func TestBuildMessage_AdjuntoYAlternativaHTML(t *testing.T) {
	m := email.BuildMessage("billing@example.com", ports.EmailMessage{
		To:       []string{"cliente@example.com"},
		Subject:  "Factura INV/2025-26/00001",
		TextBody: "Adjuntamos su factura",
		HTMLBody: "<p>Adjuntamos su factura</p>",
		Attachments: []ports.Attachment{
			{FileName: "INV-2025-26-00001.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")},
		},
	})

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "To: cliente@example.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "INV-2025-26-00001.pdf")
	assert.Contains(t, raw, "application/pdf")
}

func TestLogSender_GuardaMensajes(t *testing.T) {
	s := email.NewLogSender(zerolog.Nop())
	require.NoError(t, s.Send(context.Background(), ports.EmailMessage{To: []string{"a@example.com"}, Subject: "hola"}))
	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hola", sent[0].Subject)
}

func TestNew_Drivers(t *testing.T) {
	s, err := email.New(config.EmailConfig{Driver: "log"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &email.LogSender{}, s)

	_, err = email.New(config.EmailConfig{Driver: "smtp"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = email.New(config.EmailConfig{Driver: "pigeon"}, zerolog.Nop())
	assert.Error(t, err)
}
