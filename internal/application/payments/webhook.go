package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Resultados del webhook; también son la etiqueta "outcome" de la métrica.
const (
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeIgnored          = "ignored"
	OutcomeUnresolved       = "unresolved"
	OutcomeAlreadyPaid      = "already_paid"
	OutcomeRaceLost         = "race_lost"
	OutcomeProcessed        = "processed"
	OutcomeError            = "error"
)

// WebhookResult resumen de una entrega procesada.
type WebhookResult struct {
	Outcome   string `json:"outcome"`
	EventType string `json:"event_type,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
}

// SignatureHeader cabecera de la que el handler debe leer la firma.
func (s *Service) SignatureHeader() string {
	return s.verifier.SignatureHeader()
}

// Process pipeline del webhook:
//  1. firma sobre los bytes crudos (ErrInvalidSignature si falla)
//  2. eventos fuera de la lista permitida se reconocen sin efecto
//  3. resuelve el pago (id del proveedor, metadata, primer CREATED de la empresa)
//  4. PAID previo: éxito sin reprocesar
//  5. marcado compare-and-set; quien pierde la carrera responde éxito
//  6. confirmación de etapa y 7. factura: fallos solo se registran
func (s *Service) Process(ctx context.Context, raw []byte, signature string) (*WebhookResult, error) {
	ev, err := s.verifier.Parse(raw, signature)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			s.metrics.WebhookEvent(OutcomeInvalidSignature)
			s.log.Warn().Msg("webhook con firma inválida")
		} else {
			s.metrics.WebhookEvent(OutcomeError)
		}
		return nil, err
	}
	res := &WebhookResult{EventType: ev.Type}
	if !ev.Relevant {
		return s.finish(res, OutcomeIgnored), nil
	}

	p, err := s.resolve(ctx, ev.ProviderPaymentID, ev.PaymentID, ev.CompanyID)
	if err != nil {
		s.metrics.WebhookEvent(OutcomeError)
		return nil, err
	}
	if p == nil {
		s.log.Warn().
			Str("event", ev.Type).
			Str("provider_payment_id", ev.ProviderPaymentID).
			Str("company_id", ev.CompanyID).
			Msg("webhook sin pago asociado; se reconoce sin efecto")
		return s.finish(res, OutcomeUnresolved), nil
	}
	res.PaymentID = p.ID

	outcome, err := s.settle(ctx, p, ev.ProviderPaymentID)
	if err != nil {
		s.metrics.WebhookEvent(OutcomeError)
		return nil, err
	}
	return s.finish(res, outcome), nil
}

func (s *Service) finish(res *WebhookResult, outcome string) *WebhookResult {
	res.Outcome = outcome
	s.metrics.WebhookEvent(outcome)
	return res
}

func (s *Service) resolve(ctx context.Context, providerPaymentID, paymentID, companyID string) (*entity.Payment, error) {
	if providerPaymentID != "" {
		p, err := s.payments.GetByProviderPaymentID(ctx, providerPaymentID)
		if err != nil {
			return nil, fmt.Errorf("buscar pago por id del proveedor: %w", err)
		}
		if p != nil {
			return p, nil
		}
	}
	if paymentID != "" {
		p, err := s.payments.GetByID(ctx, paymentID)
		if err != nil {
			return nil, fmt.Errorf("buscar pago: %w", err)
		}
		if p != nil && (companyID == "" || p.CompanyID == companyID) {
			return p, nil
		}
	}
	if companyID != "" {
		p, err := s.payments.FirstCreatedByCompany(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("buscar pago pendiente de la empresa: %w", err)
		}
		return p, nil
	}
	return nil, nil
}

// settle pasos 4 a 7.
func (s *Service) settle(ctx context.Context, p *entity.Payment, providerPaymentID string) (string, error) {
	if p.IsPaid() {
		return OutcomeAlreadyPaid, nil
	}
	won, err := s.payments.MarkPaid(ctx, p.ID, providerPaymentID, s.now())
	if err != nil {
		return "", fmt.Errorf("marcar pago: %w", err)
	}
	if !won {
		return OutcomeRaceLost, nil
	}
	s.log.Info().Str("payment_id", p.ID).Str("company_id", p.CompanyID).Msg("pago confirmado")

	if _, err := s.coord.OnPaymentConfirmed(ctx, p.CompanyID); err != nil {
		s.log.Error().Err(err).Str("payment_id", p.ID).Str("company_id", p.CompanyID).
			Msg("pago marcado pero la etapa no avanzó")
	}
	if _, err := s.invoicer.GenerateForPayment(ctx, p.ID); err != nil {
		s.log.Error().Err(err).Str("payment_id", p.ID).Msg("pago marcado pero la factura falló")
	}
	return OutcomeProcessed, nil
}
