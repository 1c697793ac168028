// Package payments crea cobros de onboarding y procesa su confirmación
// (webhook del proveedor o marcado manual por un administrador).
package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// Invoicer genera la factura de un pago PAID.
type Invoicer interface {
	GenerateForPayment(ctx context.Context, paymentID string) (*entity.Invoice, error)
}

// LinkNotifier envía el link de pago al cliente.
type LinkNotifier interface {
	PaymentLink(ctx context.Context, c *entity.Company, p *entity.Payment) error
}

// CreatePaymentInput datos del cobro.
type CreatePaymentInput struct {
	CompanyID   string
	Amount      decimal.Decimal
	Description string
}

// Service casos de uso de pagos.
type Service struct {
	coord    *onboarding.Coordinator
	payments repository.PaymentRepository
	gateway  ports.PaymentGateway
	verifier ports.WebhookVerifier
	invoicer Invoicer
	notifier LinkNotifier
	metrics  *metrics.Collector
	currency string
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(
	coord *onboarding.Coordinator,
	payments repository.PaymentRepository,
	gateway ports.PaymentGateway,
	verifier ports.WebhookVerifier,
	invoicer Invoicer,
	notifier LinkNotifier,
	m *metrics.Collector,
	currency string,
	log zerolog.Logger,
) *Service {
	if currency == "" {
		currency = "INR"
	}
	return &Service{
		coord:    coord,
		payments: payments,
		gateway:  gateway,
		verifier: verifier,
		invoicer: invoicer,
		notifier: notifier,
		metrics:  m,
		currency: currency,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Etapas desde las que se puede emitir un link de pago.
var linkStages = []entity.Stage{
	entity.StageAdminCreated,
	entity.StagePendingDocuments,
	entity.StageUnderReview,
	entity.StagePaymentPending,
}

// CreatePayment crea el link en el proveedor, persiste el pago CREATED y mueve
// la empresa a PAYMENT_PENDING. El email con el link es best-effort.
func (s *Service) CreatePayment(ctx context.Context, in CreatePaymentInput) (*entity.Payment, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	company, err := s.coord.Load(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := onboarding.AssertNotActive(company); err != nil {
		return nil, err
	}
	if err := onboarding.AssertStage(company, linkStages, "no se puede emitir un link de pago"); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = "Onboarding " + company.Name
	}
	now := s.now()
	p := &entity.Payment{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Amount:      in.Amount.Round(2),
		Currency:    s.currency,
		Description: description,
		Status:      entity.PaymentStatusCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	link, err := s.gateway.CreateLink(ctx, ports.PaymentLinkRequest{
		PaymentID:   p.ID,
		CompanyID:   company.ID,
		CompanyName: company.Name,
		Email:       company.Email,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("crear link de pago: %w", err)
	}
	p.PaymentLink = link.URL
	p.ProviderOrderID = link.ProviderOrderID

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("registrar pago: %w", err)
	}
	if _, err := s.coord.OnPaymentLinkCreated(ctx, company.ID); err != nil {
		return p, err
	}
	s.log.Info().
		Str("payment_id", p.ID).
		Str("company_id", company.ID).
		Str("amount", p.Amount.StringFixed(2)).
		Msg("link de pago creado")

	if s.notifier != nil {
		if err := s.notifier.PaymentLink(ctx, company, p); err != nil {
			s.log.Warn().Err(err).Str("payment_id", p.ID).Msg("no se pudo enviar el link de pago")
		}
	}
	return p, nil
}

// MarkPaidManually respaldo del administrador cuando el webhook no llegó.
// Ejecuta los mismos pasos que el webhook tras resolver el pago.
func (s *Service) MarkPaidManually(ctx context.Context, paymentID, providerPaymentID string) (*entity.Payment, error) {
	p, err := s.Get(ctx, paymentID, "")
	if err != nil {
		return nil, err
	}
	if _, err := s.settle(ctx, p, strings.TrimSpace(providerPaymentID)); err != nil {
		return nil, err
	}
	return s.Get(ctx, paymentID, "")
}

// ReplayDownstream reintenta la confirmación de etapa y la factura de un pago
// PAID. A diferencia del webhook, los errores se devuelven al administrador.
func (s *Service) ReplayDownstream(ctx context.Context, paymentID string) (*entity.Invoice, error) {
	p, err := s.Get(ctx, paymentID, "")
	if err != nil {
		return nil, err
	}
	if !p.IsPaid() {
		return nil, fmt.Errorf("%w: el pago %s está en %s", domain.ErrInvalidInput, p.ID, p.Status)
	}
	if _, err := s.coord.OnPaymentConfirmed(ctx, p.CompanyID); err != nil {
		return nil, err
	}
	return s.invoicer.GenerateForPayment(ctx, p.ID)
}

// Get con scopeCompanyID no vacío solo devuelve pagos de esa empresa.
func (s *Service) Get(ctx context.Context, id, scopeCompanyID string) (*entity.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener pago: %w", err)
	}
	if p == nil || (scopeCompanyID != "" && p.CompanyID != scopeCompanyID) {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, companyID string) ([]*entity.Payment, error) {
	return s.payments.ListByCompany(ctx, companyID)
}
