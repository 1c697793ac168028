package paymentprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
)

// StripeSignatureHeader cabecera que Stripe envía con la firma.
const StripeSignatureHeader = "Stripe-Signature"

var (
	_ ports.WebhookVerifier = (*StripeProvider)(nil)
	_ ports.PaymentGateway  = (*StripeProvider)(nil)
)

// StripeProvider links de pago con Checkout Sessions y verificación de webhooks.
type StripeProvider struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeProvider(apiKey, webhookSecret, successURL, cancelURL string) *StripeProvider {
	if apiKey != "" {
		stripe.Key = apiKey
	}
	return &StripeProvider{webhookSecret: webhookSecret, successURL: successURL, cancelURL: cancelURL}
}

func (p *StripeProvider) SignatureHeader() string { return StripeSignatureHeader }

// Parse valida la firma con la librería de Stripe sobre los bytes crudos.
func (p *StripeProvider) Parse(raw []byte, signature string) (*ports.WebhookEvent, error) {
	if strings.TrimSpace(signature) == "" || p.webhookSecret == "" {
		return nil, domain.ErrInvalidSignature
	}
	event, err := webhook.ConstructEventWithOptions(raw, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, domain.ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: evento stripe: %v", domain.ErrInvalidInput, err)
	}

	ev := &ports.WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", domain.ErrInvalidInput, err)
		}
		// con métodos diferidos la sesión se completa sin cobro (payment_status=unpaid)
		ev.Relevant = cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
		ev.ProviderOrderID = cs.ID
		if cs.PaymentIntent != nil {
			ev.ProviderPaymentID = cs.PaymentIntent.ID
		}
		ev.CompanyID = cs.Metadata["company_id"]
		ev.PaymentID = cs.Metadata["payment_id"]
		if ev.PaymentID == "" {
			ev.PaymentID = cs.ClientReferenceID
		}
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: payment intent: %v", domain.ErrInvalidInput, err)
		}
		ev.Relevant = true
		ev.ProviderPaymentID = pi.ID
		ev.CompanyID = pi.Metadata["company_id"]
		ev.PaymentID = pi.Metadata["payment_id"]
	}
	return ev, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld)
}

// CreateLink crea una Checkout Session de pago único.
func (p *StripeProvider) CreateLink(_ context.Context, req ports.PaymentLinkRequest) (*ports.PaymentLink, error) {
	metadata := map[string]string{
		"company_id": req.CompanyID,
		"payment_id": req.PaymentID,
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.successURL),
		CancelURL:         stripe.String(p.cancelURL),
		ClientReferenceID: stripe.String(req.PaymentID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(req.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Description),
				},
				UnitAmount: stripe.Int64(MinorUnits(req.Amount)),
			},
			Quantity: stripe.Int64(1),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
		Metadata: metadata,
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	cs, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("paymentprovider: crear checkout session: %w", err)
	}
	return &ports.PaymentLink{URL: cs.URL, ProviderOrderID: cs.ID}, nil
}

// MinorUnits convierte 1180.50 en 118050 (paise).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
