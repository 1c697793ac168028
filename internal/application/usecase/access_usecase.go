package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// AccessService decide si un usuario autenticado puede operar sobre una empresa.
// Es el único punto de la aplicación que conoce la regla de alcance por empresa.
type AccessService struct {
	companyRepo repository.CompanyRepository
}

// NewAccessService construye el servicio de alcance.
func NewAccessService(companyRepo repository.CompanyRepository) *AccessService {
	return &AccessService{companyRepo: companyRepo}
}

// CanAccess informa si el usuario (rol y empresa del token) puede operar sobre companyID.
// Los administradores acceden a cualquier empresa existente; los clientes solo a la suya.
// Devuelve false (sin error) si la empresa no existe.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *AccessService) CanAccess(ctx context.Context, role, userCompanyID, companyID string) (bool, error) {
	if companyID == "" {
		return false, fmt.Errorf("access: companyID es obligatorio")
	}
	if role != entity.RoleAdmin && userCompanyID != companyID {
		return false, nil
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return false, err
	}
	return company != nil, nil
}
