package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// DocumentRepository puerto de persistencia de documentos. Los documentos no se borran.
type DocumentRepository interface {
	// Create asigna Version = max(versión de empresa+tipo) + 1 y persiste.
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// UpdateReview persiste Status, RejectionReason, ReviewNotes, ReviewedBy y ReviewedAt.
	UpdateReview(ctx context.Context, doc *entity.Document) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
}

// DocumentFilter filtros combinables del listado administrativo.
type DocumentFilter struct {
	CompanyID    string
	DocumentType entity.DocumentType
	Status       entity.DocumentStatus
	Owner        entity.DocumentOwner
	KYCOnly      bool
	LatestOnly   bool
	Limit        int
	Offset       int
}
