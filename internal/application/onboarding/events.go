package onboarding

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Tabla de eventos con nombre. Cada uno es idempotente: repetirlo cuando la
// empresa ya está en (o pasó) el destino no cambia nada ni devuelve error.
var (
	evPaymentLinkCreated = event{
		name:    "pago: link creado",
		allowed: []entity.Stage{entity.StageAdminCreated, entity.StagePendingDocuments, entity.StageUnderReview, entity.StagePaymentPending},
		path:    []entity.Stage{entity.StagePaymentPending},
	}
	// PAYMENT_CONFIRMED se acepta para completar una llamada que aplicó solo el primer salto.
	evPaymentConfirmed = event{
		name:    "pago confirmado",
		allowed: []entity.Stage{entity.StagePaymentPending, entity.StagePaymentConfirmed},
		path:    []entity.Stage{entity.StagePaymentConfirmed, entity.StageKycInProgress},
	}
	evKycUploaded = event{
		name:    "KYC subido",
		allowed: []entity.Stage{entity.StagePaymentConfirmed, entity.StageKycInProgress, entity.StageKycReview},
		path:    []entity.Stage{entity.StageKycInProgress},
	}
	evKycReview = event{
		name:    "KYC a revisión",
		allowed: []entity.Stage{entity.StageKycInProgress, entity.StageKycReview},
		path:    []entity.Stage{entity.StageKycReview},
	}
	evKycReturned = event{
		name:    "KYC devuelto al cliente",
		allowed: []entity.Stage{entity.StageKycInProgress, entity.StageKycReview},
		path:    []entity.Stage{entity.StageKycInProgress},
		rewind:  true,
	}
	evKycApproved = event{
		name:    "KYC aprobado",
		allowed: []entity.Stage{entity.StageKycReview},
		path:    []entity.Stage{entity.StageAgreementDraftShared},
	}
	evAgreementDraftShared = event{
		name:    "borrador de contrato compartido",
		allowed: []entity.Stage{entity.StageAgreementDraftShared},
		path:    []entity.Stage{entity.StageAgreementDraftShared},
	}
	evSignedAgreementReceived = event{
		name:    "contrato firmado recibido",
		allowed: []entity.Stage{entity.StageAgreementDraftShared, entity.StageSignedAgreementReceived},
		path:    []entity.Stage{entity.StageSignedAgreementReceived},
	}
	evFinalAgreementShared = event{
		name:    "contrato final compartido",
		allowed: []entity.Stage{entity.StageSignedAgreementReceived},
		path:    []entity.Stage{entity.StageFinalAgreementShared},
	}

	// ── camino previo al pago ──
	evDocumentsRequested = event{
		name:    "documentos solicitados",
		allowed: []entity.Stage{entity.StageAdminCreated},
		path:    []entity.Stage{entity.StagePendingDocuments},
	}
	evDocumentsSubmitted = event{
		name:    "documentos enviados",
		allowed: []entity.Stage{entity.StagePendingDocuments},
		path:    []entity.Stage{entity.StageDocumentsSubmitted},
	}
	evDocumentsReturned = event{
		name:    "documentos devueltos",
		allowed: []entity.Stage{entity.StageDocumentsSubmitted, entity.StageUnderReview},
		path:    []entity.Stage{entity.StagePendingDocuments},
		rewind:  true,
	}
	evReviewStarted = event{
		name:    "revisión iniciada",
		allowed: []entity.Stage{entity.StageDocumentsSubmitted},
		path:    []entity.Stage{entity.StageUnderReview},
	}
	evOnboardingCompleted = event{
		name:    "onboarding completado",
		allowed: []entity.Stage{entity.StageUnderReview},
		path:    []entity.Stage{entity.StageCompleted},
	}
	evReopened = event{
		name:    "onboarding reabierto",
		allowed: []entity.Stage{entity.StageRejected},
		path:    []entity.Stage{entity.StagePendingDocuments},
		rewind:  true,
	}
)

func (c *Coordinator) OnPaymentLinkCreated(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evPaymentLinkCreated)
}

// OnPaymentConfirmed PAYMENT_PENDING -> PAYMENT_CONFIRMED -> KYC_IN_PROGRESS.
func (c *Coordinator) OnPaymentConfirmed(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evPaymentConfirmed)
}

func (c *Coordinator) OnKycUploaded(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evKycUploaded)
}

func (c *Coordinator) MoveToKycReviewAfterUpload(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evKycReview)
}

// ReturnToKycInProgress retrocede KYC_REVIEW -> KYC_IN_PROGRESS tras un rechazo o pedido al cliente.
func (c *Coordinator) ReturnToKycInProgress(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evKycReturned)
}

func (c *Coordinator) OnKycApproved(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evKycApproved)
}

func (c *Coordinator) OnAgreementDraftShared(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evAgreementDraftShared)
}

func (c *Coordinator) OnSignedAgreementReceived(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evSignedAgreementReceived)
}

func (c *Coordinator) OnFinalAgreementShared(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evFinalAgreementShared)
}

func (c *Coordinator) OnDocumentsRequested(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evDocumentsRequested)
}

func (c *Coordinator) OnDocumentsSubmitted(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evDocumentsSubmitted)
}

// OnDocumentsReturned devuelve la empresa a PENDING_DOCUMENTS desde la revisión previa al pago.
func (c *Coordinator) OnDocumentsReturned(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evDocumentsReturned)
}

func (c *Coordinator) OnReviewStarted(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evReviewStarted)
}

func (c *Coordinator) OnOnboardingCompleted(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evOnboardingCompleted)
}

// ReopenOnboarding REJECTED -> PENDING_DOCUMENTS.
func (c *Coordinator) ReopenOnboarding(ctx context.Context, companyID string) (*entity.Company, error) {
	return c.apply(ctx, companyID, evReopened)
}
