package repository

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure. Update nunca escribe la etapa ni la
// fecha de activación: esos campos solo cambian vía CompanyStageStore.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByGSTIN(ctx context.Context, gstin string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, filter CompanyFilter) ([]*entity.Company, error)
	// ListRenewalCandidates empresas con fecha de renovación estrictamente posterior a after.
	ListRenewalCandidates(ctx context.Context, after time.Time) ([]*entity.Company, error)
}

// CompanyFilter filtros de listado de empresas.
type CompanyFilter struct {
	Stage  entity.Stage // vacío = todas
	Limit  int
	Offset int
}

// StageChange escritura atómica de etapa: se aplica solo si la etapa persistida sigue siendo From.
type StageChange struct {
	CompanyID   string
	From        entity.Stage
	To          entity.Stage
	ActivatedAt *time.Time // se fija junto con To == ACTIVE
	RenewalDate *time.Time // solo se escribe si la empresa aún no tiene una
	At          time.Time
}

// CompanyStageStore puerto de escritura de etapa, entregado únicamente al coordinador de onboarding.
type CompanyStageStore interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// CompareAndSetStage devuelve false si la etapa ya no era From (carrera perdida).
	CompareAndSetStage(ctx context.Context, change StageChange) (bool, error)
}
