// Package documents gestiona la subida de documentos y su efecto sobre la etapa
// de la empresa. La revisión de KYC vive en review.go.
package documents

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/ports"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/ids"
)

// ComplianceChecker puerto hacia el evaluador de cumplimiento.
type ComplianceChecker interface {
	IsCompliant(ctx context.Context, companyID string) (bool, []entity.DocumentType, error)
}

// UploadTicket URL firmada para que el cliente suba el archivo directamente al storage.
type UploadTicket struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// UploadInput confirmación de una subida ya realizada.
type UploadInput struct {
	CompanyID    string
	DocumentType entity.DocumentType
	Owner        entity.DocumentOwner
	FileName     string
	MimeType     string
	SizeBytes    int64
	StorageKey   string
	UploadedBy   string
}

// Service casos de uso de documentos.
type Service struct {
	coord      *onboarding.Coordinator
	documents  repository.DocumentRepository
	compliance ComplianceChecker
	storage    ports.ObjectStorage
	presignTTL time.Duration
	log        zerolog.Logger
}

func NewService(coord *onboarding.Coordinator, documents repository.DocumentRepository, compliance ComplianceChecker, storage ports.ObjectStorage, presignTTL time.Duration, log zerolog.Logger) *Service {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &Service{coord: coord, documents: documents, compliance: compliance, storage: storage, presignTTL: presignTTL, log: log}
}

// Etapas en las que se aceptan documentos KYC u OTHER antes del pago.
var prePaymentStages = []entity.Stage{
	entity.StageAdminCreated,
	entity.StagePendingDocuments,
	entity.StageDocumentsSubmitted,
	entity.StageUnderReview,
	entity.StagePaymentPending,
}

var kycStages = []entity.Stage{entity.StagePaymentConfirmed, entity.StageKycInProgress, entity.StageKycReview}

func keyPrefix(companyID string) string {
	return "companies/" + companyID + "/"
}

// PresignUpload genera la llave de almacenamiento y la URL PUT firmada.
func (s *Service) PresignUpload(ctx context.Context, companyID string, docType entity.DocumentType, fileName, contentType string) (*UploadTicket, error) {
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, docType)
	}
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("%w: file_name es obligatorio", domain.ErrInvalidInput)
	}
	company, err := s.coord.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := onboarding.AssertNotActive(company); err != nil {
		return nil, err
	}

	key := keyPrefix(companyID) + strings.ToLower(string(docType)) + "/" + ids.NanoID() + strings.ToLower(path.Ext(fileName))
	url, err := s.storage.PresignUpload(ctx, key, contentType, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("firmar subida: %w", err)
	}
	return &UploadTicket{StorageKey: key, UploadURL: url, ExpiresAt: time.Now().UTC().Add(s.presignTTL)}, nil
}

// ConfirmUpload registra la nueva versión del documento y mueve la etapa según su tipo.
// La etapa se valida antes de crear el documento para no dejar versiones huérfanas.
func (s *Service) ConfirmUpload(ctx context.Context, in UploadInput) (*entity.Document, error) {
	if err := validateUpload(in); err != nil {
		return nil, err
	}
	company, err := s.coord.Load(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := onboarding.AssertNotActive(company); err != nil {
		return nil, err
	}
	if err := s.checkUploadStage(ctx, company, in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &entity.Document{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		DocumentType: in.DocumentType,
		Owner:        in.Owner,
		Status:       entity.DocStatusUploaded,
		FileName:     in.FileName,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		StorageKey:   in.StorageKey,
		UploadedBy:   in.UploadedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("registrar documento: %w", err)
	}
	s.log.Info().
		Str("company_id", doc.CompanyID).
		Str("document_id", doc.ID).
		Str("type", string(doc.DocumentType)).
		Int("version", doc.Version).
		Msg("documento registrado")

	if err := s.applyStageEffect(ctx, company, doc); err != nil {
		return doc, err
	}
	return doc, nil
}

func validateUpload(in UploadInput) error {
	if !in.DocumentType.Valid() {
		return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, in.DocumentType)
	}
	if in.Owner != entity.OwnerClient && in.Owner != entity.OwnerAdmin {
		return fmt.Errorf("%w: owner %q", domain.ErrInvalidInput, in.Owner)
	}
	if !strings.HasPrefix(in.StorageKey, keyPrefix(in.CompanyID)) {
		return fmt.Errorf("%w: storage_key no pertenece a la empresa", domain.ErrInvalidInput)
	}
	switch in.DocumentType {
	case entity.DocTypeAgreementDraft, entity.DocTypeAgreementFinal:
		if in.Owner != entity.OwnerAdmin {
			return fmt.Errorf("%w: %s solo lo sube un administrador", domain.ErrForbidden, in.DocumentType)
		}
	case entity.DocTypeAgreementSigned:
		if in.Owner != entity.OwnerClient {
			return fmt.Errorf("%w: el contrato firmado lo sube el cliente", domain.ErrForbidden)
		}
	}
	return nil
}

func (s *Service) checkUploadStage(ctx context.Context, company *entity.Company, in UploadInput) error {
	switch {
	case in.DocumentType.IsKYC():
		allowed := append(append([]entity.Stage{}, prePaymentStages...), kycStages...)
		return onboarding.AssertStage(company, allowed, "documento KYC fuera de la etapa de KYC")
	case in.DocumentType == entity.DocTypeAgreementDraft:
		if err := onboarding.AssertStage(company, []entity.Stage{entity.StageKycReview, entity.StageAgreementDraftShared}, "borrador de contrato"); err != nil {
			return err
		}
		if company.Stage == entity.StageKycReview {
			return s.requireCompliance(ctx, company.ID)
		}
	case in.DocumentType == entity.DocTypeAgreementSigned:
		return onboarding.AssertStage(company, []entity.Stage{entity.StageAgreementDraftShared, entity.StageSignedAgreementReceived}, "contrato firmado")
	case in.DocumentType == entity.DocTypeAgreementFinal:
		return onboarding.AssertStage(company, []entity.Stage{entity.StageSignedAgreementReceived, entity.StageFinalAgreementShared}, "contrato final")
	}
	return nil
}

func (s *Service) applyStageEffect(ctx context.Context, company *entity.Company, doc *entity.Document) error {
	var err error
	switch {
	case doc.DocumentType.IsKYC():
		if contains(kycStages, company.Stage) {
			if _, err = s.coord.OnKycUploaded(ctx, company.ID); err == nil {
				_, err = s.coord.MoveToKycReviewAfterUpload(ctx, company.ID)
			}
		} else if company.Stage == entity.StagePendingDocuments && doc.Owner == entity.OwnerClient {
			_, err = s.coord.OnDocumentsSubmitted(ctx, company.ID)
		}
	case doc.DocumentType == entity.DocTypeAgreementDraft:
		if company.Stage == entity.StageKycReview {
			_, err = s.coord.OnKycApproved(ctx, company.ID)
		}
		if err == nil {
			_, err = s.coord.OnAgreementDraftShared(ctx, company.ID)
		}
	case doc.DocumentType == entity.DocTypeAgreementSigned:
		_, err = s.coord.OnSignedAgreementReceived(ctx, company.ID)
	case doc.DocumentType == entity.DocTypeAgreementFinal:
		if company.Stage == entity.StageSignedAgreementReceived {
			_, err = s.coord.OnFinalAgreementShared(ctx, company.ID)
		}
	case doc.DocumentType == entity.DocTypeOther && company.Stage == entity.StagePendingDocuments && doc.Owner == entity.OwnerClient:
		_, err = s.coord.OnDocumentsSubmitted(ctx, company.ID)
	}
	return err
}

func (s *Service) requireCompliance(ctx context.Context, companyID string) error {
	ok, missing, err := s.compliance.IsCompliant(ctx, companyID)
	if err != nil {
		return fmt.Errorf("evaluar cumplimiento: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrComplianceIncomplete, missing)
	}
	return nil
}

// CompleteKycReview acción de administrador: cierra la revisión KYC si la empresa cumple.
func (s *Service) CompleteKycReview(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := s.coord.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := onboarding.AssertNotActive(company); err != nil {
		return nil, err
	}
	if err := onboarding.AssertStage(company, []entity.Stage{entity.StageKycReview}, "la revisión KYC no está abierta"); err != nil {
		return nil, err
	}
	if err := s.requireCompliance(ctx, companyID); err != nil {
		return nil, err
	}
	return s.coord.OnKycApproved(ctx, companyID)
}

// List listado filtrable (administración).
func (s *Service) List(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Document, error) {
	return s.documents.List(ctx, filter)
}

// Get obtiene un documento; con scopeCompanyID no vacío, solo si pertenece a esa empresa.
func (s *Service) Get(ctx context.Context, id, scopeCompanyID string) (*entity.Document, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || (scopeCompanyID != "" && doc.CompanyID != scopeCompanyID) {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// DownloadURL URL GET firmada del archivo.
func (s *Service) DownloadURL(ctx context.Context, id, scopeCompanyID string) (string, error) {
	doc, err := s.Get(ctx, id, scopeCompanyID)
	if err != nil {
		return "", err
	}
	url, err := s.storage.PresignDownload(ctx, doc.StorageKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("firmar descarga: %w", err)
	}
	return url, nil
}

func contains(list []entity.Stage, s entity.Stage) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
