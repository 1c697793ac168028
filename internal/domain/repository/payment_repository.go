package repository

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// PaymentRepository puerto de persistencia de pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*entity.Payment, error)
	// FirstCreatedByCompany pago más antiguo en estado CREATED de la empresa.
	FirstCreatedByCompany(ctx context.Context, companyID string) (*entity.Payment, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Payment, error)
	HasPaid(ctx context.Context, companyID string) (bool, error)
	// MarkPaid pasa el pago a PAID solo si aún no lo estaba; false indica que otro llamador ganó.
	MarkPaid(ctx context.Context, id, providerPaymentID string, paidAt time.Time) (bool, error)
}
