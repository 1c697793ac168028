package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository         = (*InvoiceRepo)(nil)
	_ repository.InvoiceSequenceRepository = (*SequenceRepo)(nil)
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, payment_id, company_id, number, fiscal_year, sequence, issued_at,
	taxable_amount, cgst, sgst, igst, total_amount, currency, place_of_supply,
	pdf_key, emailed_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var pdfKey *string
	err := row.Scan(
		&inv.ID, &inv.PaymentID, &inv.CompanyID, &inv.Number, &inv.FiscalYear, &inv.Sequence, &inv.IssuedAt,
		&inv.TaxableAmount, &inv.CGST, &inv.SGST, &inv.IGST, &inv.TotalAmount, &inv.Currency, &inv.PlaceOfSupply,
		&pdfKey, &inv.EmailedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.PDFKey = stringOrEmpty(pdfKey)
	return &inv, nil
}

// Create persiste la factura. El índice único de payment_id hace de guardia de idempotencia.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.PaymentID, invoice.CompanyID, invoice.Number, invoice.FiscalYear, invoice.Sequence,
		invoice.IssuedAt, invoice.TaxableAmount, invoice.CGST, invoice.SGST, invoice.IGST, invoice.TotalAmount,
		invoice.Currency, invoice.PlaceOfSupply, nullIfEmpty(invoice.PDFKey), invoice.EmailedAt,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByPaymentID factura asociada al pago, si existe.
func (r *InvoiceRepo) GetByPaymentID(ctx context.Context, paymentID string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE payment_id = $1`, paymentID)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// UpdateDelivery guarda la llave del PDF y la fecha de envío; un valor vacío no pisa el existente.
func (r *InvoiceRepo) UpdateDelivery(ctx context.Context, id, pdfKey string, emailedAt *time.Time) error {
	query := `
		UPDATE invoices
		   SET pdf_key    = COALESCE($2, pdf_key),
		       emailed_at = COALESCE($3, emailed_at),
		       updated_at = NOW()
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, nullIfEmpty(pdfKey), emailedAt)
	if err != nil {
		return fmt.Errorf("update invoice delivery: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany facturas de la empresa en orden de emisión.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 ORDER BY created_at ASC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// SequenceRepo consecutivos por año fiscal. Dentro de una tx el UPSERT bloquea la fila
// hasta el commit, así dos facturas nunca comparten número.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) NextValue(ctx context.Context, fiscalYear string) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (fiscal_year, last_value, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (fiscal_year)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, fiscalYear).Scan(&next); err != nil {
		return 0, fmt.Errorf("next invoice sequence %s: %w", fiscalYear, err)
	}
	return next, nil
}
