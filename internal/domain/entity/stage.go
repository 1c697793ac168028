package entity

// Stage es la etapa de onboarding de una empresa.
type Stage string

// Etapas de onboarding. ACTIVE y COMPLETED son terminales.
const (
	StageAdminCreated            Stage = "ADMIN_CREATED"
	StagePaymentPending          Stage = "PAYMENT_PENDING"
	StagePendingDocuments        Stage = "PENDING_DOCUMENTS"
	StageDocumentsSubmitted      Stage = "DOCUMENTS_SUBMITTED"
	StageUnderReview             Stage = "UNDER_REVIEW"
	StagePaymentConfirmed        Stage = "PAYMENT_CONFIRMED"
	StageKycInProgress           Stage = "KYC_IN_PROGRESS"
	StageKycReview               Stage = "KYC_REVIEW"
	StageAgreementDraftShared    Stage = "AGREEMENT_DRAFT_SHARED"
	StageSignedAgreementReceived Stage = "SIGNED_AGREEMENT_RECEIVED"
	StageFinalAgreementShared    Stage = "FINAL_AGREEMENT_SHARED"
	StageActive                  Stage = "ACTIVE"
	StageCompleted               Stage = "COMPLETED"
	StageRejected                Stage = "REJECTED"
)

func (s Stage) String() string { return string(s) }
