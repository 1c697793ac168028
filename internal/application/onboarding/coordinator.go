// Package onboarding aplica el ciclo de vida de la empresa. El Coordinator es el
// único escritor de Company.Stage y Company.ActivationDate.
package onboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	graph "github.com/jhoicas/onboarding-api/internal/domain/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

const defaultRenewalPeriodDays = 365

// Coordinator valida cada cambio de etapa contra el grafo y lo persiste con
// compare-and-set sobre la etapa previa.
type Coordinator struct {
	stages            repository.CompanyStageStore
	metrics           *metrics.Collector
	log               zerolog.Logger
	now               func() time.Time
	renewalPeriodDays int
}

// Option configura el Coordinator.
type Option func(*Coordinator)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRenewalPeriod días de vigencia del contrato a partir de la activación.
func WithRenewalPeriod(days int) Option {
	return func(c *Coordinator) {
		if days > 0 {
			c.renewalPeriodDays = days
		}
	}
}

// NewCoordinator construye el coordinador. m puede ser nil.
func NewCoordinator(stages repository.CompanyStageStore, m *metrics.Collector, log zerolog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		stages:            stages,
		metrics:           m,
		log:               log,
		now:               func() time.Time { return time.Now().UTC() },
		renewalPeriodDays: defaultRenewalPeriodDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load obtiene la empresa o domain.ErrNotFound.
func (c *Coordinator) Load(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := c.stages.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// AssertStage falla con ErrStageMismatch si la etapa no está en allowed.
func AssertStage(company *entity.Company, allowed []entity.Stage, message string) error {
	for _, s := range allowed {
		if company.Stage == s {
			return nil
		}
	}
	if message == "" {
		message = fmt.Sprintf("se esperaba una de %v", allowed)
	}
	return fmt.Errorf("%w: %s (etapa actual %s)", domain.ErrStageMismatch, message, company.Stage)
}

// AssertNotActive falla con ErrOnboardingLocked si la empresa ya está activa.
func AssertNotActive(company *entity.Company) error {
	if company.Stage == entity.StageActive {
		return domain.ErrOnboardingLocked
	}
	return nil
}

// transition aplica un único salto del grafo y actualiza company en sitio.
func (c *Coordinator) transition(ctx context.Context, company *entity.Company, target entity.Stage) error {
	from := company.Stage
	if !graph.CanTransition(from, target) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, target)
	}
	now := c.now()
	change := repository.StageChange{
		CompanyID: company.ID,
		From:      from,
		To:        target,
		At:        now,
	}
	if target == entity.StageActive {
		change.ActivatedAt = &now
		if company.RenewalDate == nil {
			renewal := dateOnly(now).AddDate(0, 0, c.renewalPeriodDays)
			change.RenewalDate = &renewal
		}
	}
	ok, err := c.stages.CompareAndSetStage(ctx, change)
	if err != nil {
		return fmt.Errorf("persistir etapa: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: la etapa cambió concurrentemente (se esperaba %s)", domain.ErrStageMismatch, from)
	}

	company.Stage = target
	company.UpdatedAt = now
	if target == entity.StageActive {
		company.ActivationDate = change.ActivatedAt
		if change.RenewalDate != nil {
			company.RenewalDate = change.RenewalDate
		}
	}
	c.metrics.StageTransition(string(from), string(target))
	c.log.Info().
		Str("company_id", company.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("etapa de onboarding actualizada")
	return nil
}

// event describe un evento con nombre: desde qué etapas se acepta y qué saltos aplica.
// Los eventos de avance son no-op si la empresa ya alcanzó o superó el destino;
// los de retroceso (rewind) solo si ya está exactamente en él.
type event struct {
	name    string
	allowed []entity.Stage
	path    []entity.Stage
	rewind  bool
}

func (c *Coordinator) apply(ctx context.Context, companyID string, ev event) (*entity.Company, error) {
	company, err := c.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	target := ev.path[len(ev.path)-1]
	if ev.rewind {
		if company.Stage == target {
			return company, nil
		}
	} else if graph.AtOrPast(company.Stage, target) {
		return company, nil
	}
	if err := AssertStage(company, ev.allowed, ev.name); err != nil {
		return nil, err
	}
	for _, hop := range ev.path {
		if company.Stage == hop || (!ev.rewind && graph.AtOrPast(company.Stage, hop)) {
			continue
		}
		if err := c.transition(ctx, company, hop); err != nil {
			return nil, fmt.Errorf("%s: %w", ev.name, err)
		}
	}
	return company, nil
}

// manualStages etapas administrativas previas al pago. Los saltos de pago, KYC
// y contrato solo ocurren por su evento con nombre.
var manualStages = map[entity.Stage]bool{
	entity.StageAdminCreated:       true,
	entity.StagePendingDocuments:   true,
	entity.StageDocumentsSubmitted: true,
	entity.StageUnderReview:        true,
	entity.StageCompleted:          true,
	entity.StageRejected:           true,
}

func manualEdge(from, to entity.Stage) bool {
	if to == entity.StageRejected {
		return true
	}
	return manualStages[from] && manualStages[to] && to != entity.StageAdminCreated
}

// Advance aplica una transición manual de administrador validada contra el grafo.
// Solo cubre saltos administrativos previos al pago y el rechazo; la activación
// usa ActivateCompany.
func (c *Coordinator) Advance(ctx context.Context, companyID string, target entity.Stage) (*entity.Company, error) {
	company, err := c.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := AssertNotActive(company); err != nil {
		return nil, err
	}
	if target == entity.StageActive {
		return nil, domain.ErrActivationNotAllowed
	}
	if !manualEdge(company.Stage, target) {
		return nil, fmt.Errorf("%w: %s -> %s requiere su evento de negocio", domain.ErrInvalidTransition, company.Stage, target)
	}
	if err := c.transition(ctx, company, target); err != nil {
		return nil, err
	}
	return company, nil
}

// RejectOnboarding mueve a REJECTED desde cualquier etapa no terminal.
func (c *Coordinator) RejectOnboarding(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := c.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := AssertNotActive(company); err != nil {
		return nil, err
	}
	if company.Stage == entity.StageRejected {
		return company, nil
	}
	if err := c.transition(ctx, company, entity.StageRejected); err != nil {
		return nil, err
	}
	return company, nil
}

// ActivateCompany exige exactamente FINAL_AGREEMENT_SHARED y fija etapa, fecha
// de activación y (si falta) fecha de renovación en una sola escritura.
func (c *Coordinator) ActivateCompany(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := c.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Stage != entity.StageFinalAgreementShared {
		return nil, fmt.Errorf("%w: etapa actual %s", domain.ErrActivationNotAllowed, company.Stage)
	}
	if err := c.transition(ctx, company, entity.StageActive); err != nil {
		return nil, err
	}
	return company, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
