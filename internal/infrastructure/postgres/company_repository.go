package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa los puertos de empresa y de etapa.
var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.CompanyStageStore = (*CompanyRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

const companyColumns = `id, name, legal_name, COALESCE(gstin, ''), state_code, email, phone, address,
	stage, activation_date, renewal_date, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.LegalName, &c.GSTIN, &c.StateCode, &c.Email, &c.Phone, &c.Address,
		&c.Stage, &c.ActivationDate, &c.RenewalDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, legal_name, gstin, state_code, email, phone, address,
		                       stage, activation_date, renewal_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.LegalName, nullIfEmpty(company.GSTIN), company.StateCode,
		company.Email, company.Phone, company.Address,
		company.Stage, company.ActivationDate, company.RenewalDate,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByGSTIN obtiene una empresa por GSTIN.
func (r *CompanyRepo) GetByGSTIN(ctx context.Context, gstin string) (*entity.Company, error) {
	c, err := scanCompany(r.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE gstin = $1`, gstin))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by GSTIN: %w", err)
	}
	return c, nil
}

// Update actualiza los datos de perfil. La etapa y las fechas de activación no se tocan.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `
		UPDATE companies
		   SET name = $2, legal_name = $3, gstin = $4, state_code = $5,
		       email = $6, phone = $7, address = $8, updated_at = $9
		 WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query,
		company.ID, company.Name, company.LegalName, nullIfEmpty(company.GSTIN), company.StateCode,
		company.Email, company.Phone, company.Address, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve empresas con paginación, opcionalmente filtradas por etapa.
func (r *CompanyRepo) List(ctx context.Context, f repository.CompanyFilter) ([]*entity.Company, error) {
	q := psql().Select(companyColumns).From("companies").OrderBy("created_at ASC")
	if f.Stage != "" {
		q = q.Where("stage = ?", f.Stage)
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list companies: %w", err)
	}
	return r.query(ctx, query, args...)
}

// ListRenewalCandidates empresas con renovación posterior a after.
func (r *CompanyRepo) ListRenewalCandidates(ctx context.Context, after time.Time) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + `
		FROM companies
		WHERE renewal_date IS NOT NULL AND renewal_date > $1
		ORDER BY created_at ASC`
	return r.query(ctx, query, after)
}

func (r *CompanyRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CompareAndSetStage escribe la etapa solo si la fila sigue en From.
// Sin filas afectadas se distingue entre empresa inexistente y carrera perdida.
func (r *CompanyRepo) CompareAndSetStage(ctx context.Context, ch repository.StageChange) (bool, error) {
	var activatedAt *time.Time
	if ch.To == entity.StageActive {
		activatedAt = ch.ActivatedAt
	}
	query := `
		UPDATE companies
		   SET stage = $3,
		       activation_date = $4,
		       renewal_date = CASE WHEN $3 = 'ACTIVE' THEN COALESCE(renewal_date, $5) ELSE renewal_date END,
		       updated_at = $6
		 WHERE id = $1 AND stage = $2`
	cmd, err := r.pool.Exec(ctx, query, ch.CompanyID, ch.From, ch.To, activatedAt, ch.RenewalDate, ch.At)
	if err != nil {
		return false, fmt.Errorf("set company stage: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return true, nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE id = $1)`, ch.CompanyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}
