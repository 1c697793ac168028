package repository

import (
	"context"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// ComplianceRequirementRepository puerto de persistencia de requisitos de cumplimiento.
type ComplianceRequirementRepository interface {
	// Create devuelve domain.ErrDuplicate si el tipo de documento ya es requisito.
	Create(ctx context.Context, req *entity.ComplianceRequirement) error
	List(ctx context.Context) ([]*entity.ComplianceRequirement, error)
	GetByDocumentType(ctx context.Context, docType entity.DocumentType) (*entity.ComplianceRequirement, error)
	Delete(ctx context.Context, id string) error
}
