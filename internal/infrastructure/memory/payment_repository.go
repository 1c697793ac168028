package memory

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	s *Store
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.payments[p.ID] = clonePayment(*p)
	return nil
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, nil
	}
	out := clonePayment(p)
	return &out, nil
}

func (r *PaymentRepo) GetByProviderPaymentID(_ context.Context, providerPaymentID string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.ProviderPaymentID != nil && *p.ProviderPaymentID == providerPaymentID {
			out := clonePayment(p)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepo) FirstCreatedByCompany(ctx context.Context, companyID string) (*entity.Payment, error) {
	list, err := r.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.Status == entity.PaymentStatusCreated {
			return p, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Payment
	for _, p := range r.s.payments {
		if p.CompanyID == companyID {
			out := clonePayment(p)
			list = append(list, &out)
		}
	}
	sortByCreated(list, func(p *entity.Payment) time.Time { return p.CreatedAt })
	return list, nil
}

func (r *PaymentRepo) HasPaid(_ context.Context, companyID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.payments {
		if p.CompanyID == companyID && p.Status == entity.PaymentStatusPaid {
			return true, nil
		}
	}
	return false, nil
}

// MarkPaid equivale a UPDATE ... WHERE status <> 'PAID'.
func (r *PaymentRepo) MarkPaid(_ context.Context, id, providerPaymentID string, paidAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status == entity.PaymentStatusPaid {
		return false, nil
	}
	p.Status = entity.PaymentStatusPaid
	p.PaidAt = &paidAt
	p.UpdatedAt = paidAt
	if providerPaymentID != "" {
		pid := providerPaymentID
		p.ProviderPaymentID = &pid
	}
	r.s.payments[id] = p
	return true, nil
}

func clonePayment(p entity.Payment) entity.Payment {
	if p.ProviderPaymentID != nil {
		v := *p.ProviderPaymentID
		p.ProviderPaymentID = &v
	}
	if p.PaidAt != nil {
		v := *p.PaidAt
		p.PaidAt = &v
	}
	return p
}
