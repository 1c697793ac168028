// Package billing genera la factura GST de cada pago confirmado.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/gst"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/ids"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// Config numeración y tasa.
type Config struct {
	Prefix     string
	GSTRate    decimal.Decimal
	Seller     Seller
	PresignTTL time.Duration
}

// InvoiceService genera, reenvía y entrega facturas.
type InvoiceService struct {
	tx        InvoiceTxRunner
	invoices  repository.InvoiceRepository
	payments  repository.PaymentRepository
	companies repository.CompanyRepository
	renderer  InvoiceRenderer
	storage   ports.ObjectStorage
	notifier  InvoiceNotifier
	metrics   *metrics.Collector
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewInvoiceService construye el servicio inyectando todas sus dependencias.
func NewInvoiceService(
	tx InvoiceTxRunner,
	invoices repository.InvoiceRepository,
	payments repository.PaymentRepository,
	companies repository.CompanyRepository,
	renderer InvoiceRenderer,
	storage ports.ObjectStorage,
	notifier InvoiceNotifier,
	m *metrics.Collector,
	cfg Config,
	log zerolog.Logger,
) *InvoiceService {
	if cfg.Prefix == "" {
		cfg.Prefix = "INV"
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}
	return &InvoiceService{
		tx:        tx,
		invoices:  invoices,
		payments:  payments,
		companies: companies,
		renderer:  renderer,
		storage:   storage,
		notifier:  notifier,
		metrics:   m,
		cfg:       cfg,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (s *InvoiceService) WithClock(now func() time.Time) *InvoiceService {
	s.now = now
	return s
}

// GenerateForPayment crea la factura del pago si aún no existe y la entrega.
//
// Retorna:
//   - la factura existente, sin cambios, si el pago ya fue facturado.
//   - domain.ErrNotFound      si el pago o la empresa no existen.
//   - domain.ErrInvalidInput  si el pago no está PAID.
//   - error de render/storage (la factura queda creada, sin PDF).
func (s *InvoiceService) GenerateForPayment(ctx context.Context, paymentID string) (*entity.Invoice, error) {
	// ── 1. Idempotencia ───────────────────────────────────────────────────────
	existing, err := s.invoices.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("factura: buscar por pago: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	// ── 2. Pago y empresa ─────────────────────────────────────────────────────
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener pago: %w", err)
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if !payment.IsPaid() {
		return nil, fmt.Errorf("%w: el pago %s está en %s", domain.ErrInvalidInput, payment.ID, payment.Status)
	}
	company, err := s.companies.GetByID(ctx, payment.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	// ── 3. Impuestos ──────────────────────────────────────────────────────────
	split, err := gst.Split(payment.Amount, s.cfg.GSTRate, s.cfg.Seller.StateCode, company.StateCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	// ── 4. Numeración + inserción en la misma transacción ─────────────────────
	issuedAt := s.now()
	if payment.PaidAt != nil {
		issuedAt = payment.PaidAt.UTC()
	}
	fy := gst.FiscalYear(issuedAt)
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		PaymentID:     payment.ID,
		CompanyID:     company.ID,
		FiscalYear:    fy,
		IssuedAt:      issuedAt,
		TaxableAmount: split.Taxable,
		CGST:          split.CGST,
		SGST:          split.SGST,
		IGST:          split.IGST,
		TotalAmount:   split.Total,
		Currency:      payment.Currency,
		PlaceOfSupply: company.StateCode,
		CreatedAt:     s.now(),
		UpdatedAt:     s.now(),
	}
	err = s.tx.RunInvoicing(ctx, func(seq repository.InvoiceSequenceRepository, invoices repository.InvoiceRepository) error {
		n, err := seq.NextValue(ctx, fy)
		if err != nil {
			return fmt.Errorf("consecutivo: %w", err)
		}
		inv.Sequence = n
		inv.Number = FormatNumber(s.cfg.Prefix, fy, n)
		return invoices.Create(ctx, inv)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otro llamador facturó el mismo pago primero.
		winner, gerr := s.invoices.GetByPaymentID(ctx, paymentID)
		if gerr != nil {
			return nil, fmt.Errorf("factura: recargar tras duplicado: %w", gerr)
		}
		if winner != nil {
			return winner, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("factura: crear: %w", err)
	}

	kind := "cgst_sgst"
	if !split.IntraState {
		kind = "igst"
	}
	s.metrics.InvoiceGenerated(kind)
	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Str("payment_id", payment.ID).
		Str("total", inv.TotalAmount.StringFixed(2)).
		Msg("factura generada")

	// ── 5. PDF + storage + email ──────────────────────────────────────────────
	if err := s.deliver(ctx, inv, company, payment); err != nil {
		return inv, err
	}
	return inv, nil
}

// FormatNumber PREFIJO/AÑO-FISCAL/00001.
func FormatNumber(prefix, fiscalYear string, seq int64) string {
	return fmt.Sprintf("%s/%s/%05d", prefix, fiscalYear, seq)
}

// deliver renderiza, guarda y envía. Render y storage devuelven error; el email solo se registra.
func (s *InvoiceService) deliver(ctx context.Context, inv *entity.Invoice, company *entity.Company, payment *entity.Payment) error {
	pdf, err := s.renderer.Render(ctx, InvoiceDocument{
		Invoice:     inv,
		Company:     company,
		Payment:     payment,
		Seller:      s.cfg.Seller,
		GSTRate:     s.cfg.GSTRate.String(),
		Description: payment.Description,
	})
	if err != nil {
		return fmt.Errorf("factura: generar pdf: %w", err)
	}
	key := "invoices/" + inv.FiscalYear + "/" + ids.NanoID() + ".pdf"
	if err := s.storage.Put(ctx, key, "application/pdf", pdf); err != nil {
		return fmt.Errorf("factura: guardar pdf: %w", err)
	}
	if err := s.invoices.UpdateDelivery(ctx, inv.ID, key, nil); err != nil {
		return fmt.Errorf("factura: registrar pdf: %w", err)
	}
	inv.PDFKey = key

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.InvoiceIssued(ctx, company, inv, pdf); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo enviar la factura por email")
		return nil
	}
	sent := s.now()
	if err := s.invoices.UpdateDelivery(ctx, inv.ID, "", &sent); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo registrar el envío")
		return nil
	}
	inv.EmailedAt = &sent
	return nil
}

// Resend vuelve a generar el PDF, lo guarda y lo envía.
func (s *InvoiceService) Resend(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := s.Get(ctx, invoiceID, "")
	if err != nil {
		return nil, err
	}
	payment, err := s.payments.GetByID(ctx, inv.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener pago: %w", err)
	}
	company, err := s.companies.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener empresa: %w", err)
	}
	if payment == nil || company == nil {
		return nil, domain.ErrNotFound
	}
	if err := s.deliver(ctx, inv, company, payment); err != nil {
		return nil, err
	}
	return inv, nil
}

// Get con scopeCompanyID no vacío solo devuelve facturas de esa empresa.
func (s *InvoiceService) Get(ctx context.Context, id, scopeCompanyID string) (*entity.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("factura: obtener: %w", err)
	}
	if inv == nil || (scopeCompanyID != "" && inv.CompanyID != scopeCompanyID) {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *InvoiceService) GetByPayment(ctx context.Context, paymentID string) (*entity.Invoice, error) {
	inv, err := s.invoices.GetByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("factura: buscar por pago: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *InvoiceService) ListByCompany(ctx context.Context, companyID string) ([]*entity.Invoice, error) {
	return s.invoices.ListByCompany(ctx, companyID)
}

// DownloadURL URL GET firmada del PDF.
func (s *InvoiceService) DownloadURL(ctx context.Context, id, scopeCompanyID string) (string, error) {
	inv, err := s.Get(ctx, id, scopeCompanyID)
	if err != nil {
		return "", err
	}
	if inv.PDFKey == "" {
		return "", fmt.Errorf("%w: la factura %s aún no tiene PDF", domain.ErrNotFound, inv.Number)
	}
	url, err := s.storage.PresignDownload(ctx, inv.PDFKey, s.cfg.PresignTTL)
	if err != nil {
		return "", fmt.Errorf("factura: firmar descarga: %w", err)
	}
	return url, nil
}
