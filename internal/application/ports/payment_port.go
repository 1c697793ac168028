package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentLinkRequest datos para crear un link de pago en el proveedor.
type PaymentLinkRequest struct {
	PaymentID   string
	CompanyID   string
	CompanyName string
	Email       string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// PaymentLink link creado por el proveedor.
type PaymentLink struct {
	URL             string
	ProviderOrderID string
}

// PaymentGateway crea links de pago.
type PaymentGateway interface {
	CreateLink(ctx context.Context, req PaymentLinkRequest) (*PaymentLink, error)
}

// WebhookEvent evento normalizado entregado por el proveedor.
type WebhookEvent struct {
	ID                string
	Type              string
	ProviderPaymentID string
	ProviderOrderID   string
	CompanyID         string // metadata del pago; se usa como respaldo para resolver el Payment
	PaymentID         string // id interno si el proveedor lo devuelve en metadata
	// Relevant indica que el tipo de evento está en la lista permitida.
	Relevant bool
}

// WebhookVerifier verifica la firma sobre los bytes exactos del cuerpo y decodifica el evento.
// Firma ausente o inválida devuelve domain.ErrInvalidSignature.
type WebhookVerifier interface {
	SignatureHeader() string
	Parse(rawBody []byte, signature string) (*WebhookEvent, error)
}
