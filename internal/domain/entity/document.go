package entity

import (
	"strings"
	"time"
)

// DocumentType etiqueta del documento. Todo tipo con prefijo "KYC_" es un subtipo KYC.
type DocumentType string

const (
	DocTypeKYCPan            DocumentType = "KYC_PAN"
	DocTypeKYCGSTCertificate DocumentType = "KYC_GST_CERTIFICATE"
	DocTypeKYCIncorporation  DocumentType = "KYC_INCORPORATION"
	DocTypeKYCAddressProof   DocumentType = "KYC_ADDRESS_PROOF"
	DocTypeKYCBankProof      DocumentType = "KYC_BANK_PROOF"
	DocTypeKYCDirectorID     DocumentType = "KYC_DIRECTOR_ID"
	DocTypeAgreementDraft    DocumentType = "AGREEMENT_DRAFT"
	DocTypeAgreementSigned   DocumentType = "AGREEMENT_SIGNED"
	DocTypeAgreementFinal    DocumentType = "AGREEMENT_FINAL"
	DocTypeOther             DocumentType = "OTHER"
)

const kycPrefix = "KYC_"

// IsKYC informa si el tipo es un subtipo KYC.
func (t DocumentType) IsKYC() bool {
	return strings.HasPrefix(string(t), kycPrefix) && len(t) > len(kycPrefix)
}

// Valid informa si el tipo es conocido (los KYC_* se aceptan de forma abierta).
func (t DocumentType) Valid() bool {
	switch t {
	case DocTypeAgreementDraft, DocTypeAgreementSigned, DocTypeAgreementFinal, DocTypeOther:
		return true
	}
	return t.IsKYC()
}

// DocumentStatus estado de revisión de un documento.
type DocumentStatus string

const (
	DocStatusUploaded          DocumentStatus = "UPLOADED"
	DocStatusReviewPending     DocumentStatus = "REVIEW_PENDING"
	DocStatusPendingWithClient DocumentStatus = "PENDING_WITH_CLIENT"
	DocStatusPendingWithAdmin  DocumentStatus = "PENDING_WITH_ADMIN"
	DocStatusVerified          DocumentStatus = "VERIFIED"
	DocStatusRejected          DocumentStatus = "REJECTED"
)

// DocumentOwner quién subió el documento.
type DocumentOwner string

const (
	OwnerClient DocumentOwner = "CLIENT"
	OwnerAdmin  DocumentOwner = "ADMIN"
)

// Document archivo asociado a una empresa. Nunca se elimina: una nueva subida
// del mismo tipo crea una versión mayor.
type Document struct {
	ID              string
	CompanyID       string
	DocumentType    DocumentType
	Owner           DocumentOwner
	Status          DocumentStatus
	Version         int // monotónica por (empresa, tipo)
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageKey      string
	RejectionReason string // obligatorio cuando Status == REJECTED
	ReviewNotes     string
	UploadedBy      string
	ReviewedBy      string
	ReviewedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// LatestByType devuelve, por cada tipo, el documento de mayor versión.
func LatestByType(docs []*Document) map[DocumentType]*Document {
	latest := make(map[DocumentType]*Document)
	for _, d := range docs {
		if cur, ok := latest[d.DocumentType]; !ok || d.Version > cur.Version {
			latest[d.DocumentType] = d
		}
	}
	return latest
}
