package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/notify"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

type recordingSender struct {
	sent []ports.EmailMessage
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg ports.EmailMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newNotifier(t *testing.T, s ports.EmailSender) *notify.Notifier {
	t.Helper()
	n, err := notify.New(s, "Onboarding", zerolog.Nop())
	require.NoError(t, err)
	return n
}

func TestInvoiceIssued_AdjuntaPDF(t *testing.T) {
	s := &recordingSender{}
	n := newNotifier(t, s)
	company := &entity.Company{ID: "c1", Name: "Acme", Email: "billing@acme.in"}
	inv := &entity.Invoice{Number: "INV/2025-26/00001", Currency: "INR", TotalAmount: decimal.NewFromInt(1180)}

	require.NoError(t, n.InvoiceIssued(context.Background(), company, inv, []byte("%PDF")))

	require.Len(t, s.sent, 1)
	msg := s.sent[0]
	assert.Equal(t, []string{"billing@acme.in"}, msg.To)
	assert.Contains(t, msg.HTMLBody, "INV/2025-26/00001")
	assert.Contains(t, msg.HTMLBody, "1180.00")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "INV-2025-26-00001.pdf", msg.Attachments[0].FileName)
}

func TestRenewalReminder_Singular(t *testing.T) {
	s := &recordingSender{}
	n := newNotifier(t, s)
	company := &entity.Company{ID: "c1", Name: "Acme", Email: "ops@acme.in"}

	require.NoError(t, n.RenewalReminder(context.Background(), company, 1, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Contains(t, s.sent[0].HTMLBody, "1 día")
	assert.Contains(t, s.sent[0].HTMLBody, "02/01/2026")
}

func TestSend_SinEmailFalla(t *testing.T) {
	n := newNotifier(t, &recordingSender{})
	err := n.Welcome(context.Background(), &entity.Company{ID: "c1"})
	assert.Error(t, err)
}

func TestSend_PropagaErrorDelSender(t *testing.T) {
	boom := errors.New("smtp caído")
	n := newNotifier(t, &recordingSender{err: boom})
	err := n.DocumentRejected(context.Background(),
		&entity.Company{ID: "c1", Email: "a@b.c"},
		&entity.Document{DocumentType: entity.DocTypeKYCPan, Version: 2}, "ilegible")
	assert.ErrorIs(t, err, boom)
}
