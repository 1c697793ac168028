package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura generada automáticamente, una sola vez, por cada pago PAID.
// La relación 1:1 con Payment se garantiza con un índice único sobre payment_id.
type Invoice struct {
	ID            string
	PaymentID     string
	CompanyID     string
	Number        string // PREFIJO/AÑO-FISCAL/consecutivo, ej: INV/2025-26/00042
	FiscalYear    string // año fiscal indio (abril-marzo), ej: 2025-26
	Sequence      int64
	IssuedAt      time.Time
	TaxableAmount decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	TotalAmount   decimal.Decimal
	Currency      string
	PlaceOfSupply string // código de estado del comprador
	PDFKey        string // llave en el object storage; vacía si el render falló
	EmailedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TaxTotal suma de los impuestos de la factura.
func (i *Invoice) TaxTotal() decimal.Decimal {
	return i.CGST.Add(i.SGST).Add(i.IGST)
}
