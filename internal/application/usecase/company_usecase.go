package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/gst"
	"github.com/jhoicas/onboarding-api/internal/domain/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
// No cambia la etapa: eso es exclusivo del coordinador de onboarding.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea una nueva empresa en ADMIN_CREATED. Devuelve domain.ErrDuplicate si el GSTIN ya existe.
// Sin state_code explícito, se toma de los dos primeros dígitos del GSTIN.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Email) == "" {
		return nil, domain.ErrInvalidInput
	}
	gstin := strings.ToUpper(strings.TrimSpace(in.GSTIN))
	if gstin != "" {
		existing, err := uc.repo.GetByGSTIN(ctx, gstin)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	stateCode := strings.TrimSpace(in.StateCode)
	if stateCode == "" {
		stateCode = gst.StateCodeFromGSTIN(gstin)
	}
	now := uc.now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		LegalName: strings.TrimSpace(in.LegalName),
		GSTIN:     gstin,
		StateCode: stateCode,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     strings.TrimSpace(in.Email),
		Stage:     entity.StageAdminCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return dto.FromCompany(company), nil
}

// GetByID obtiene una empresa por ID (nil si no existe).
func (uc *CompanyUseCase) GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return dto.FromCompany(company), nil
}

// Update modifica los datos de perfil. Un GSTIN nuevo no puede pertenecer a otra empresa.
func (uc *CompanyUseCase) Update(ctx context.Context, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		company.Name = strings.TrimSpace(*in.Name)
	}
	if in.LegalName != nil {
		company.LegalName = strings.TrimSpace(*in.LegalName)
	}
	if in.GSTIN != nil {
		gstin := strings.ToUpper(strings.TrimSpace(*in.GSTIN))
		if gstin != "" && gstin != company.GSTIN {
			other, err := uc.repo.GetByGSTIN(ctx, gstin)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != company.ID {
				return nil, domain.ErrDuplicate
			}
			if in.StateCode == nil {
				company.StateCode = gst.StateCodeFromGSTIN(gstin)
			}
		}
		company.GSTIN = gstin
	}
	if in.StateCode != nil {
		company.StateCode = strings.TrimSpace(*in.StateCode)
	}
	if in.Address != nil {
		company.Address = *in.Address
	}
	if in.Phone != nil {
		company.Phone = *in.Phone
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	company.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return dto.FromCompany(company), nil
}

// List lista empresas con paginación y filtro opcional por etapa.
func (uc *CompanyUseCase) List(ctx context.Context, stage string, limit, offset int) (*dto.CompanyListResponse, error) {
	filter := repository.CompanyFilter{Limit: limit, Offset: offset}
	if stage != "" {
		s, err := onboarding.ParseStage(stage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		filter.Stage = s
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.FromCompany(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
