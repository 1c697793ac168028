package onboarding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// Motivos por los que una empresa no puede activarse.
const (
	ReasonStage          = "la empresa no está en FINAL_AGREEMENT_SHARED"
	ReasonPayment        = "no hay pagos confirmados"
	ReasonKYC            = "hay documentos KYC sin verificar"
	ReasonFinalAgreement = "falta el contrato final"
)

// Eligibility resultado de CanActivateCompany.
type Eligibility struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons"`
}

// WelcomeNotifier correo de bienvenida tras la activación.
type WelcomeNotifier interface {
	Welcome(ctx context.Context, company *entity.Company) error
}

// ActivationService evalúa las condiciones de activación y activa la empresa.
type ActivationService struct {
	coord     *Coordinator
	documents repository.DocumentRepository
	payments  repository.PaymentRepository
	notifier  WelcomeNotifier
	log       zerolog.Logger
}

func NewActivationService(coord *Coordinator, documents repository.DocumentRepository, payments repository.PaymentRepository, notifier WelcomeNotifier, log zerolog.Logger) *ActivationService {
	return &ActivationService{coord: coord, documents: documents, payments: payments, notifier: notifier, log: log}
}

// CanActivateCompany exige las cuatro condiciones: etapa FINAL_AGREEMENT_SHARED,
// al menos un pago PAID, la última versión de cada tipo KYC existente en VERIFIED
// y al menos un documento AGREEMENT_FINAL.
func (s *ActivationService) CanActivateCompany(ctx context.Context, companyID string) (*Eligibility, error) {
	company, err := s.coord.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(ctx, company)
}

func (s *ActivationService) evaluate(ctx context.Context, company *entity.Company) (*Eligibility, error) {
	el := &Eligibility{Reasons: []string{}}
	if company.Stage != entity.StageFinalAgreementShared {
		el.Reasons = append(el.Reasons, ReasonStage)
	}

	paid, err := s.payments.HasPaid(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("consultar pagos: %w", err)
	}
	if !paid {
		el.Reasons = append(el.Reasons, ReasonPayment)
	}

	docs, err := s.documents.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}
	hasFinal := false
	for docType, d := range entity.LatestByType(docs) {
		if docType.IsKYC() && d.Status != entity.DocStatusVerified {
			if !contains(el.Reasons, ReasonKYC) {
				el.Reasons = append(el.Reasons, ReasonKYC)
			}
		}
		if docType == entity.DocTypeAgreementFinal {
			hasFinal = true
		}
	}
	if !hasFinal {
		el.Reasons = append(el.Reasons, ReasonFinalAgreement)
	}
	el.Eligible = len(el.Reasons) == 0
	return el, nil
}

// Activate revalida la elegibilidad, activa vía el coordinador y envía la
// bienvenida sin afectar el resultado si el correo falla.
func (s *ActivationService) Activate(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := s.coord.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := AssertNotActive(company); err != nil {
		return nil, err
	}
	el, err := s.evaluate(ctx, company)
	if err != nil {
		return nil, err
	}
	if !el.Eligible {
		return nil, &ActivationError{Reasons: el.Reasons}
	}
	company, err = s.coord.ActivateCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.Welcome(ctx, company); err != nil {
			s.log.Warn().Err(err).Str("company_id", company.ID).Msg("no se pudo enviar la bienvenida")
		}
	}
	return company, nil
}

// ActivationError lleva los motivos; errors.Is(err, domain.ErrActivationNotAllowed) es true.
type ActivationError struct {
	Reasons []string
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrActivationNotAllowed, strings.Join(e.Reasons, "; "))
}

func (e *ActivationError) Is(target error) bool {
	return target == domain.ErrActivationNotAllowed
}

// ActivationReasons extrae los motivos de un error de activación, si los hay.
func ActivationReasons(err error) []string {
	var ae *ActivationError
	if errors.As(err, &ae) {
		return ae.Reasons
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
