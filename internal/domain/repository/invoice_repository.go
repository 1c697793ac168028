package repository

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una factura para el pago.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*entity.Invoice, error)
	// UpdateDelivery persiste la llave del PDF y la fecha de envío por email.
	UpdateDelivery(ctx context.Context, id, pdfKey string, emailedAt *time.Time) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error)
}

// InvoiceSequenceRepository consecutivos de factura por año fiscal.
type InvoiceSequenceRepository interface {
	// NextValue incrementa y devuelve el consecutivo del año fiscal (crea la fila si no existe).
	NextValue(ctx context.Context, fiscalYear string) (int64, error)
}
