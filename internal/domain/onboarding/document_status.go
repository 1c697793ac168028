package onboarding

import "github.com/jhoicas/onboarding-api/internal/domain/entity"

var reviewOpen = []entity.DocumentStatus{
	entity.DocStatusReviewPending,
	entity.DocStatusPendingWithClient,
	entity.DocStatusPendingWithAdmin,
	entity.DocStatusVerified,
	entity.DocStatusRejected,
}

// documentStatusGraph transiciones de revisión por versión de documento.
// VERIFIED y REJECTED son finales: una nueva subida crea otra versión.
var documentStatusGraph = map[entity.DocumentStatus][]entity.DocumentStatus{
	entity.DocStatusUploaded:          reviewOpen,
	entity.DocStatusReviewPending:     reviewOpen,
	entity.DocStatusPendingWithClient: reviewOpen,
	entity.DocStatusPendingWithAdmin:  reviewOpen,
	entity.DocStatusVerified:          {},
	entity.DocStatusRejected:          {},
}

// CanChangeDocumentStatus informa si la revisión puede mover el documento de from a to.
// Repetir un estado pendiente (ej: PENDING_WITH_CLIENT dos veces) está permitido.
func CanChangeDocumentStatus(from, to entity.DocumentStatus) bool {
	for _, s := range documentStatusGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsFinalDocumentStatus informa si la versión ya no admite más revisiones.
func IsFinalDocumentStatus(s entity.DocumentStatus) bool {
	next, ok := documentStatusGraph[s]
	return ok && len(next) == 0
}
