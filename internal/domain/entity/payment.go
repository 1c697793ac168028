package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de un pago. PAID es terminal.
type PaymentStatus string

const (
	PaymentStatusCreated PaymentStatus = "CREATED"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Payment cobro de onboarding asociado a una empresa.
// ProviderPaymentID es nil hasta que el proveedor captura el pago; es la llave
// usada para deduplicar entregas del webhook.
type Payment struct {
	ID                string
	CompanyID         string
	Amount            decimal.Decimal // monto bruto (impuestos incluidos)
	Currency          string
	Description       string
	Status            PaymentStatus
	ProviderPaymentID *string
	ProviderOrderID   string // id de la sesión/orden creada en el proveedor
	PaymentLink       string
	PaidAt            *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsPaid informa si el pago ya fue marcado como pagado.
func (p *Payment) IsPaid() bool {
	return p != nil && p.Status == PaymentStatusPaid
}
