package dto

import "time"

// CreatePaymentRequest cobro de onboarding; amount en texto decimal ("1180.00").
type CreatePaymentRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description"`
}

// MarkPaidRequest marcado manual por un administrador.
type MarkPaidRequest struct {
	ProviderPaymentID string `json:"provider_payment_id"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID                string     `json:"id"`
	CompanyID         string     `json:"company_id"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	ProviderPaymentID string     `json:"provider_payment_id,omitempty"`
	PaymentLink       string     `json:"payment_link,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// InvoiceResponse salida de una factura.
type InvoiceResponse struct {
	ID            string     `json:"id"`
	PaymentID     string     `json:"payment_id"`
	CompanyID     string     `json:"company_id"`
	Number        string     `json:"number"`
	FiscalYear    string     `json:"fiscal_year"`
	IssuedAt      time.Time  `json:"issued_at"`
	TaxableAmount string     `json:"taxable_amount"`
	CGST          string     `json:"cgst"`
	SGST          string     `json:"sgst"`
	IGST          string     `json:"igst"`
	TotalAmount   string     `json:"total_amount"`
	Currency      string     `json:"currency"`
	PlaceOfSupply string     `json:"place_of_supply"`
	HasPDF        bool       `json:"has_pdf"`
	EmailedAt     *time.Time `json:"emailed_at,omitempty"`
}
