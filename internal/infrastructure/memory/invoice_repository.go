package memory

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository         = (*InvoiceRepo)(nil)
	_ repository.InvoiceSequenceRepository = (*SequenceRepo)(nil)
)

type InvoiceRepo struct {
	s *Store
}

// Create respeta la unicidad por payment_id y por número.
func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.invoices {
		if cur.PaymentID == inv.PaymentID || cur.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetByPaymentID(_ context.Context, paymentID string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.invoices {
		if inv.PaymentID == paymentID {
			out := inv
			return &out, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) UpdateDelivery(_ context.Context, id, pdfKey string, emailedAt *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if pdfKey != "" {
		inv.PDFKey = pdfKey
	}
	if emailedAt != nil {
		inv.EmailedAt = emailedAt
	}
	inv.UpdatedAt = time.Now().UTC()
	r.s.invoices[id] = inv
	return nil
}

func (r *InvoiceRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID {
			inv := inv
			list = append(list, &inv)
		}
	}
	sortByCreated(list, func(i *entity.Invoice) time.Time { return i.CreatedAt })
	return list, nil
}

type SequenceRepo struct {
	s *Store
}

func (r *SequenceRepo) NextValue(_ context.Context, fiscalYear string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[fiscalYear]++
	return r.s.sequences[fiscalYear], nil
}

// TxRunner emula la transacción de facturación: serializa las llamadas y, si fn
// falla, restaura los consecutivos y elimina las facturas creadas por fn.
type TxRunner struct {
	s *Store
}

func (t *TxRunner) RunInvoicing(ctx context.Context, fn func(seq repository.InvoiceSequenceRepository, invoices repository.InvoiceRepository) error) error {
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.RLock()
	seqSnap := make(map[string]int64, len(t.s.sequences))
	for k, v := range t.s.sequences {
		seqSnap[k] = v
	}
	before := make(map[string]struct{}, len(t.s.invoices))
	for k := range t.s.invoices {
		before[k] = struct{}{}
	}
	t.s.mu.RUnlock()

	if err := fn(t.s.Sequences(), t.s.Invoices()); err != nil {
		// Solo se deshace lo insertado dentro de fn; las entregas de otras
		// facturas ocurren fuera de la transacción y se conservan.
		t.s.mu.Lock()
		t.s.sequences = seqSnap
		for k := range t.s.invoices {
			if _, ok := before[k]; !ok {
				delete(t.s.invoices, k)
			}
		}
		t.s.mu.Unlock()
		return err
	}
	return nil
}
