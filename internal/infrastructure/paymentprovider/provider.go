package paymentprovider

import (
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/pkg/config"
)

// New construye la pasarela y el verificador según PAYMENT_PROVIDER.
// Ambos roles los cumple el mismo adaptador.
func New(cfg config.PaymentConfig) (ports.PaymentGateway, ports.WebhookVerifier, error) {
	switch cfg.Provider {
	case "stripe":
		p := NewStripeProvider(cfg.StripeSecretKey, cfg.WebhookSecret, cfg.SuccessURL, cfg.CancelURL)
		return p, p, nil
	case "hmac", "":
		p := NewHMACProvider(cfg.WebhookSecret, cfg.SignatureHeader, cfg.LinkBaseURL)
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("paymentprovider: proveedor desconocido %q", cfg.Provider)
	}
}
