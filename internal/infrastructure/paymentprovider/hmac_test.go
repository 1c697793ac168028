package paymentprovider_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/paymentprovider"
)

const capturedBody = `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_123","order_id":"order_9","notes":{"company_id":"c1"}}}}}`

func TestHMAC_FirmaValida(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "", "")
	raw := []byte(capturedBody)

	ev, err := p.Parse(raw, p.Sign(raw))
	require.NoError(t, err)
	assert.True(t, ev.Relevant)
	assert.Equal(t, "payment.captured", ev.Type)
	assert.Equal(t, "pay_123", ev.ProviderPaymentID)
	assert.Equal(t, "order_9", ev.ProviderOrderID)
	assert.Equal(t, "c1", ev.CompanyID)
	assert.Equal(t, paymentprovider.DefaultSignatureHeader, p.SignatureHeader())
}

func TestHMAC_FirmaEnMayusculasSeAcepta(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "", "")
	raw := []byte(capturedBody)

	_, err := p.Parse(raw, strings.ToUpper(p.Sign(raw)))
	assert.NoError(t, err)
}

func TestHMAC_FirmaInvalida(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "", "")
	other := paymentprovider.NewHMACProvider("otro", "", "")
	raw := []byte(capturedBody)

	tests := []struct {
		name string
		raw  []byte
		sig  string
	}{
		{"sin firma", raw, ""},
		{"otro secreto", raw, other.Sign(raw)},
		{"cuerpo alterado", []byte(strings.Replace(capturedBody, "pay_123", "pay_999", 1)), p.Sign(raw)},
		{"cuerpo re-serializado", []byte(strings.ReplaceAll(capturedBody, ",", ", ")), p.Sign(raw)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.raw, tt.sig)
			assert.ErrorIs(t, err, domain.ErrInvalidSignature)
		})
	}
}

func TestHMAC_EventoNoRelevante(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "X-Sig", "")
	raw := []byte(`{"event":"refund.created","payload":{}}`)

	ev, err := p.Parse(raw, p.Sign(raw))
	require.NoError(t, err)
	assert.False(t, ev.Relevant)
	assert.Equal(t, "X-Sig", p.SignatureHeader())
}

func TestHMAC_JSONInvalidoConFirmaValida(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "", "")
	raw := []byte(`{no-json`)

	_, err := p.Parse(raw, p.Sign(raw))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHMAC_CreateLink(t *testing.T) {
	p := paymentprovider.NewHMACProvider("s3cr3t", "", "https://pay.example.com/l/")

	link, err := p.CreateLink(context.Background(), ports.PaymentLinkRequest{
		PaymentID: "p1", CompanyID: "c1", Amount: decimal.RequireFromString("1180"), Currency: "INR",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link.ProviderOrderID, "plink_"))

	u, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "pay.example.com", u.Host)
	assert.Equal(t, "1180.00", u.Query().Get("amount"))
	assert.Equal(t, link.ProviderOrderID, u.Query().Get("order_id"))

	_, err = paymentprovider.NewHMACProvider("s", "", "").CreateLink(context.Background(), ports.PaymentLinkRequest{})
	assert.Error(t, err)
}
