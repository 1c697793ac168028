// Package paymentprovider adaptadores de pasarela de pago y verificación de webhooks.
package paymentprovider

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/pkg/ids"
)

// DefaultSignatureHeader cabecera de firma estilo Razorpay.
const DefaultSignatureHeader = "X-Razorpay-Signature"

var hmacEvents = map[string]bool{
	"payment.captured":  true,
	"order.paid":        true,
	"payment_link.paid": true,
}

var (
	_ ports.WebhookVerifier = (*HMACProvider)(nil)
	_ ports.PaymentGateway  = (*HMACProvider)(nil)
)

// HMACProvider verifica webhooks firmados con hex(HMAC-SHA256(secret, body)).
// Los links de pago se generan localmente sobre LinkBaseURL.
type HMACProvider struct {
	secret      []byte
	header      string
	linkBaseURL string
}

func NewHMACProvider(secret, header, linkBaseURL string) *HMACProvider {
	if header == "" {
		header = DefaultSignatureHeader
	}
	return &HMACProvider{secret: []byte(secret), header: header, linkBaseURL: strings.TrimRight(linkBaseURL, "/")}
}

func (p *HMACProvider) SignatureHeader() string { return p.header }

// Sign firma raw con el secreto configurado (tests y herramientas).
func (p *HMACProvider) Sign(raw []byte) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write(raw)
	return hex.EncodeToString(mac.Sum(nil))
}

type hmacEnvelope struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string            `json:"id"`
				OrderID string            `json:"order_id"`
				Notes   map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		PaymentLink struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// Parse verifica la firma sobre los bytes exactos recibidos y luego decodifica.
func (p *HMACProvider) Parse(raw []byte, signature string) (*ports.WebhookEvent, error) {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if signature == "" || len(p.secret) == 0 {
		return nil, domain.ErrInvalidSignature
	}
	if !hmac.Equal([]byte(p.Sign(raw)), []byte(signature)) {
		return nil, domain.ErrInvalidSignature
	}

	var env hmacEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: cuerpo del webhook: %v", domain.ErrInvalidInput, err)
	}
	entity := env.Payload.Payment.Entity
	ev := &ports.WebhookEvent{
		ID:                env.ID,
		Type:              env.Event,
		ProviderPaymentID: entity.ID,
		ProviderOrderID:   entity.OrderID,
		CompanyID:         entity.Notes["company_id"],
		PaymentID:         entity.Notes["payment_id"],
		Relevant:          hmacEvents[env.Event],
	}
	if ev.ProviderOrderID == "" {
		ev.ProviderOrderID = env.Payload.PaymentLink.Entity.ID
	}
	return ev, nil
}

// CreateLink genera el link localmente; el id de orden es opaco.
func (p *HMACProvider) CreateLink(_ context.Context, req ports.PaymentLinkRequest) (*ports.PaymentLink, error) {
	if p.linkBaseURL == "" {
		return nil, fmt.Errorf("paymentprovider: PAYMENT_LINK_BASE_URL no configurado")
	}
	orderID := "plink_" + ids.NanoIDSize(14)
	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("payment_id", req.PaymentID)
	q.Set("company_id", req.CompanyID)
	q.Set("amount", req.Amount.StringFixed(2))
	q.Set("currency", req.Currency)
	return &ports.PaymentLink{URL: p.linkBaseURL + "?" + q.Encode(), ProviderOrderID: orderID}, nil
}
