package billing

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn en una transacción con el consecutivo y las facturas.
// Si fn devuelve error se hace rollback y el consecutivo no se consume.
type InvoiceTxRunner interface {
	RunInvoicing(ctx context.Context, fn func(seq repository.InvoiceSequenceRepository, invoices repository.InvoiceRepository) error) error
}

// Seller datos del emisor que se imprimen en la factura.
type Seller struct {
	Name      string
	GSTIN     string
	StateCode string
	Address   string
}

// InvoiceDocument todo lo necesario para la representación gráfica.
type InvoiceDocument struct {
	Invoice     *entity.Invoice
	Company     *entity.Company
	Payment     *entity.Payment
	Seller      Seller
	GSTRate     string
	Description string
}

// InvoiceRenderer genera el PDF de una factura.
type InvoiceRenderer interface {
	Render(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceNotifier envía la factura al cliente.
type InvoiceNotifier interface {
	InvoiceIssued(ctx context.Context, c *entity.Company, inv *entity.Invoice, pdf []byte) error
}
