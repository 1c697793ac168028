package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	graph "github.com/jhoicas/onboarding-api/internal/domain/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// ReviewNotifier correos al cliente tras una revisión desfavorable.
type ReviewNotifier interface {
	DocumentRejected(ctx context.Context, c *entity.Company, d *entity.Document, reason string) error
	DocumentPendingWithClient(ctx context.Context, c *entity.Company, d *entity.Document, reason string) error
}

// ReviewInput acción de revisión sobre un documento KYC.
type ReviewInput struct {
	DocumentID string
	CompanyID  string // si no está vacío, el documento debe pertenecer a esta empresa
	ReviewerID string
	Reason     string
}

// ReviewService sub-máquina de revisión de documentos KYC.
type ReviewService struct {
	coord     *onboarding.Coordinator
	documents repository.DocumentRepository
	notifier  ReviewNotifier
	metrics   *metrics.Collector
	log       zerolog.Logger
	now       func() time.Time
}

func NewReviewService(coord *onboarding.Coordinator, documents repository.DocumentRepository, notifier ReviewNotifier, m *metrics.Collector, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		coord:     coord,
		documents: documents,
		notifier:  notifier,
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var reviewStages = []entity.Stage{entity.StageKycInProgress, entity.StageKycReview}

// target valida las precondiciones comunes a las cuatro acciones.
func (s *ReviewService) target(ctx context.Context, in ReviewInput, to entity.DocumentStatus) (*entity.Document, *entity.Company, error) {
	doc, err := s.documents.GetByID(ctx, in.DocumentID)
	if err != nil {
		return nil, nil, fmt.Errorf("obtener documento: %w", err)
	}
	if doc == nil {
		return nil, nil, domain.ErrNotFound
	}
	if in.CompanyID != "" && doc.CompanyID != in.CompanyID {
		return nil, nil, fmt.Errorf("%w: el documento pertenece a otra empresa", domain.ErrInvalidReviewTarget)
	}
	if !doc.DocumentType.IsKYC() || doc.Owner != entity.OwnerClient {
		return nil, nil, fmt.Errorf("%w: solo se revisan documentos KYC del cliente", domain.ErrInvalidReviewTarget)
	}
	if !graph.CanChangeDocumentStatus(doc.Status, to) {
		return nil, nil, fmt.Errorf("%w: la versión %d ya está en %s", domain.ErrInvalidReviewTarget, doc.Version, doc.Status)
	}
	company, err := s.coord.Load(ctx, doc.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	if err := onboarding.AssertNotActive(company); err != nil {
		return nil, nil, err
	}
	if err := onboarding.AssertStage(company, reviewStages, "la empresa no está en revisión KYC"); err != nil {
		return nil, nil, err
	}
	return doc, company, nil
}

func (s *ReviewService) save(ctx context.Context, doc *entity.Document, status entity.DocumentStatus, reviewer string) error {
	now := s.now()
	doc.Status = status
	doc.ReviewedBy = reviewer
	doc.ReviewedAt = &now
	doc.UpdatedAt = now
	if err := s.documents.UpdateReview(ctx, doc); err != nil {
		return fmt.Errorf("guardar revisión: %w", err)
	}
	s.metrics.DocumentReview(strings.ToLower(string(status)))
	s.log.Info().
		Str("document_id", doc.ID).
		Str("company_id", doc.CompanyID).
		Str("status", string(status)).
		Str("reviewer", reviewer).
		Msg("documento revisado")
	return nil
}

// Approve marca VERIFIED; si todos los KYC vigentes quedan verificados y la
// empresa está en KYC_REVIEW, avanza a AGREEMENT_DRAFT_SHARED.
func (s *ReviewService) Approve(ctx context.Context, in ReviewInput) (*entity.Document, error) {
	doc, company, err := s.target(ctx, in, entity.DocStatusVerified)
	if err != nil {
		return nil, err
	}
	doc.ReviewNotes = strings.TrimSpace(in.Reason)
	if err := s.save(ctx, doc, entity.DocStatusVerified, in.ReviewerID); err != nil {
		return nil, err
	}
	if company.Stage != entity.StageKycReview {
		return doc, nil
	}
	done, err := s.allKycVerified(ctx, company.ID)
	if err != nil {
		return doc, err
	}
	if done {
		if _, err := s.coord.OnKycApproved(ctx, company.ID); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

// Reject exige motivo; devuelve la empresa a KYC_IN_PROGRESS y avisa al cliente.
func (s *ReviewService) Reject(ctx context.Context, in ReviewInput) (*entity.Document, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ErrReviewReasonRequired
	}
	doc, company, err := s.target(ctx, in, entity.DocStatusRejected)
	if err != nil {
		return nil, err
	}
	doc.RejectionReason = reason
	if err := s.save(ctx, doc, entity.DocStatusRejected, in.ReviewerID); err != nil {
		return nil, err
	}
	if _, err := s.coord.ReturnToKycInProgress(ctx, company.ID); err != nil {
		return doc, err
	}
	if s.notifier != nil {
		if err := s.notifier.DocumentRejected(ctx, company, doc, reason); err != nil {
			s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("no se pudo notificar el rechazo")
		}
	}
	return doc, nil
}

// PendingWithClient exige motivo; igual que Reject pero la versión sigue abierta.
func (s *ReviewService) PendingWithClient(ctx context.Context, in ReviewInput) (*entity.Document, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ErrReviewReasonRequired
	}
	doc, company, err := s.target(ctx, in, entity.DocStatusPendingWithClient)
	if err != nil {
		return nil, err
	}
	doc.ReviewNotes = reason
	if err := s.save(ctx, doc, entity.DocStatusPendingWithClient, in.ReviewerID); err != nil {
		return nil, err
	}
	if _, err := s.coord.ReturnToKycInProgress(ctx, company.ID); err != nil {
		return doc, err
	}
	if s.notifier != nil {
		if err := s.notifier.DocumentPendingWithClient(ctx, company, doc, reason); err != nil {
			s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("no se pudo notificar al cliente")
		}
	}
	return doc, nil
}

// PendingWithAdmin notas opcionales; lleva la empresa a KYC_REVIEW.
func (s *ReviewService) PendingWithAdmin(ctx context.Context, in ReviewInput) (*entity.Document, error) {
	doc, company, err := s.target(ctx, in, entity.DocStatusPendingWithAdmin)
	if err != nil {
		return nil, err
	}
	doc.ReviewNotes = strings.TrimSpace(in.Reason)
	if err := s.save(ctx, doc, entity.DocStatusPendingWithAdmin, in.ReviewerID); err != nil {
		return nil, err
	}
	if _, err := s.coord.MoveToKycReviewAfterUpload(ctx, company.ID); err != nil {
		return doc, err
	}
	return doc, nil
}

func (s *ReviewService) allKycVerified(ctx context.Context, companyID string) (bool, error) {
	docs, err := s.documents.ListByCompany(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("listar documentos: %w", err)
	}
	found := false
	for docType, d := range entity.LatestByType(docs) {
		if !docType.IsKYC() {
			continue
		}
		found = true
		if d.Status != entity.DocStatusVerified {
			return false, nil
		}
	}
	return found, nil
}
