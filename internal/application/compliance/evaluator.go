// Package compliance compara los tipos de documento requeridos con los
// verificados de cada empresa. No guarda estado: se recalcula en cada llamada.
package compliance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// Status resultado de evaluar una empresa.
type Status struct {
	CompanyID   string                `json:"company_id"`
	Required    []entity.DocumentType `json:"required"`
	Approved    []entity.DocumentType `json:"approved"`
	Missing     []entity.DocumentType `json:"missing"`
	IsCompliant bool                  `json:"is_compliant"`
}

// Evaluator servicio de cumplimiento y administración de requisitos.
type Evaluator struct {
	requirements repository.ComplianceRequirementRepository
	documents    repository.DocumentRepository
	log          zerolog.Logger
}

func NewEvaluator(requirements repository.ComplianceRequirementRepository, documents repository.DocumentRepository, log zerolog.Logger) *Evaluator {
	return &Evaluator{requirements: requirements, documents: documents, log: log}
}

// Evaluate missing = requeridos - aprobados, en el orden de los requisitos.
// Aprobado es cualquier documento VERIFIED del tipo, sin importar la versión.
func (e *Evaluator) Evaluate(ctx context.Context, companyID string) (*Status, error) {
	reqs, err := e.requirements.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar requisitos: %w", err)
	}
	docs, err := e.documents.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar documentos: %w", err)
	}

	st := &Status{
		CompanyID: companyID,
		Required:  make([]entity.DocumentType, 0, len(reqs)),
		Approved:  []entity.DocumentType{},
		Missing:   []entity.DocumentType{},
	}
	approved := map[entity.DocumentType]bool{}
	for _, d := range docs {
		if d.Status == entity.DocStatusVerified && !approved[d.DocumentType] {
			approved[d.DocumentType] = true
			st.Approved = append(st.Approved, d.DocumentType)
		}
	}
	for _, r := range reqs {
		st.Required = append(st.Required, r.DocumentType)
		if !approved[r.DocumentType] {
			st.Missing = append(st.Missing, r.DocumentType)
		}
	}
	st.IsCompliant = len(st.Missing) == 0
	return st, nil
}

// IsCompliant atajo sobre Evaluate.
func (e *Evaluator) IsCompliant(ctx context.Context, companyID string) (bool, []entity.DocumentType, error) {
	st, err := e.Evaluate(ctx, companyID)
	if err != nil {
		return false, nil, err
	}
	return st.IsCompliant, st.Missing, nil
}

// AddRequirement agrega un tipo requerido; duplicado -> domain.ErrDuplicate.
func (e *Evaluator) AddRequirement(ctx context.Context, docType entity.DocumentType, description string) (*entity.ComplianceRequirement, error) {
	docType = entity.DocumentType(strings.ToUpper(strings.TrimSpace(string(docType))))
	if !docType.Valid() {
		return nil, fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, docType)
	}
	req := &entity.ComplianceRequirement{
		ID:           uuid.New().String(),
		DocumentType: docType,
		Description:  strings.TrimSpace(description),
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.requirements.Create(ctx, req); err != nil {
		return nil, err
	}
	e.log.Info().Str("document_type", string(docType)).Msg("requisito de cumplimiento agregado")
	return req, nil
}

func (e *Evaluator) ListRequirements(ctx context.Context) ([]*entity.ComplianceRequirement, error) {
	return e.requirements.List(ctx)
}

func (e *Evaluator) RemoveRequirement(ctx context.Context, id string) error {
	return e.requirements.Delete(ctx, id)
}
