package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

var paymentColumns = []string{
	"id", "company_id", "amount", "currency", "description", "status",
	"provider_payment_id", "provider_order_id", "payment_link", "paid_at",
	"created_at", "updated_at",
}

// PaymentRepo pagos sobre PostgreSQL.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query, args, err := psql().
		Insert("payments").
		Columns(paymentColumns...).
		Values(p.ID, p.CompanyID, p.Amount, p.Currency, p.Description, p.Status,
			p.ProviderPaymentID, p.ProviderOrderID, p.PaymentLink, p.PaidAt,
			p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert payment: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	return r.getOne(ctx, psql().Select(paymentColumns...).From("payments").Where(squirrel.Eq{"id": id}))
}

func (r *PaymentRepo) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*entity.Payment, error) {
	return r.getOne(ctx, psql().Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{"provider_payment_id": providerPaymentID}))
}

// FirstCreatedByCompany pago CREATED más antiguo de la empresa.
func (r *PaymentRepo) FirstCreatedByCompany(ctx context.Context, companyID string) (*entity.Payment, error) {
	return r.getOne(ctx, psql().Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{"company_id": companyID, "status": entity.PaymentStatusCreated}).
		OrderBy("created_at ASC").
		Limit(1))
}

func (r *PaymentRepo) getOne(ctx context.Context, b squirrel.SelectBuilder) (*entity.Payment, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get payment: %w", err)
	}
	var p entity.Payment
	if err := pgxscan.Get(ctx, r.pool, &p, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &p, nil
}

func (r *PaymentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Payment, error) {
	query, args, err := psql().Select(paymentColumns...).From("payments").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list payments: %w", err)
	}
	var list []*entity.Payment
	if err := pgxscan.Select(ctx, r.pool, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return list, nil
}

func (r *PaymentRepo) HasPaid(ctx context.Context, companyID string) (bool, error) {
	var paid bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payments WHERE company_id = $1 AND status = $2)`,
		companyID, entity.PaymentStatusPaid,
	).Scan(&paid)
	if err != nil {
		return false, fmt.Errorf("check paid: %w", err)
	}
	return paid, nil
}

// MarkPaid transición condicional a PAID: solo una llamada concurrente afecta la fila.
func (r *PaymentRepo) MarkPaid(ctx context.Context, id, providerPaymentID string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE payments
		   SET status = $2,
		       provider_payment_id = COALESCE($3, provider_payment_id),
		       paid_at = $4,
		       updated_at = $4
		 WHERE id = $1 AND status <> $2`
	cmd, err := r.pool.Exec(ctx, query, id, entity.PaymentStatusPaid, nullIfEmpty(providerPaymentID), paidAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, fmt.Errorf("provider payment id %s ya asignado: %w", providerPaymentID, err)
		}
		return false, fmt.Errorf("mark payment paid: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
