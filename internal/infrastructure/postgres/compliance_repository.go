package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.ComplianceRequirementRepository = (*RequirementRepo)(nil)
	_ repository.RenewalReminderRepository       = (*ReminderRepo)(nil)
)

// RequirementRepo requisitos de cumplimiento.
type RequirementRepo struct {
	pool *pgxpool.Pool
}

func NewRequirementRepository(pool *pgxpool.Pool) *RequirementRepo {
	return &RequirementRepo{pool: pool}
}

func (r *RequirementRepo) Create(ctx context.Context, req *entity.ComplianceRequirement) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO compliance_requirements (id, document_type, description, created_at) VALUES ($1, $2, $3, $4)`,
		req.ID, req.DocumentType, req.Description, req.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert requirement: %w", err)
	}
	return nil
}

func (r *RequirementRepo) List(ctx context.Context) ([]*entity.ComplianceRequirement, error) {
	var list []*entity.ComplianceRequirement
	err := pgxscan.Select(ctx, r.pool, &list,
		`SELECT id, document_type, description, created_at FROM compliance_requirements ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return list, nil
}

func (r *RequirementRepo) GetByDocumentType(ctx context.Context, docType entity.DocumentType) (*entity.ComplianceRequirement, error) {
	var req entity.ComplianceRequirement
	err := pgxscan.Get(ctx, r.pool, &req,
		`SELECT id, document_type, description, created_at FROM compliance_requirements WHERE document_type = $1`, docType)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}
	return &req, nil
}

func (r *RequirementRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM compliance_requirements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReminderRepo registro de recordatorios de renovación enviados.
type ReminderRepo struct {
	pool *pgxpool.Pool
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepo {
	return &ReminderRepo{pool: pool}
}

func (r *ReminderRepo) Exists(ctx context.Context, companyID string, daysBefore int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM renewal_reminders WHERE company_id = $1 AND days_before = $2)`,
		companyID, daysBefore,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reminder: %w", err)
	}
	return exists, nil
}

func (r *ReminderRepo) Create(ctx context.Context, rem *entity.RenewalReminder) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO renewal_reminders (id, company_id, days_before, renewal_date, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		rem.ID, rem.CompanyID, rem.DaysBefore, rem.RenewalDate, rem.SentAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reminder: %w", err)
	}
	return nil
}
