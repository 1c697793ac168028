package memory

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.CompanyStageStore = (*CompanyRepo)(nil)
)

// CompanyRepo empresas en memoria.
type CompanyRepo struct {
	s *Store
}

func (r *CompanyRepo) Create(_ context.Context, company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[company.ID]; ok {
		return domain.ErrDuplicate
	}
	if company.GSTIN != "" {
		for _, c := range r.s.companies {
			if c.GSTIN == company.GSTIN {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.companies[company.ID] = *company
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByGSTIN(_ context.Context, gstin string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.GSTIN == gstin {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}

// Update escribe solo los datos de perfil; la etapa y las fechas de activación se conservan.
func (r *CompanyRepo) Update(_ context.Context, company *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.companies[company.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name = company.Name
	cur.LegalName = company.LegalName
	cur.GSTIN = company.GSTIN
	cur.StateCode = company.StateCode
	cur.Email = company.Email
	cur.Phone = company.Phone
	cur.Address = company.Address
	cur.UpdatedAt = company.UpdatedAt
	r.s.companies[company.ID] = cur
	return nil
}

func (r *CompanyRepo) List(_ context.Context, f repository.CompanyFilter) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Company
	for _, c := range r.s.companies {
		if f.Stage != "" && c.Stage != f.Stage {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sortByCreated(list, func(c *entity.Company) time.Time { return c.CreatedAt })
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *CompanyRepo) ListRenewalCandidates(_ context.Context, after time.Time) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Company
	for _, c := range r.s.companies {
		if c.RenewalDate == nil || !c.RenewalDate.After(after) {
			continue
		}
		c := c
		list = append(list, &c)
	}
	sortByCreated(list, func(c *entity.Company) time.Time { return c.CreatedAt })
	return list, nil
}

// CompareAndSetStage aplica el cambio solo si la etapa guardada sigue siendo From.
func (r *CompanyRepo) CompareAndSetStage(_ context.Context, ch repository.StageChange) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[ch.CompanyID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if c.Stage != ch.From {
		return false, nil
	}
	c.Stage = ch.To
	if ch.To == entity.StageActive {
		c.ActivationDate = ch.ActivatedAt
		if c.RenewalDate == nil {
			c.RenewalDate = ch.RenewalDate
		}
	} else {
		c.ActivationDate = nil
	}
	c.UpdatedAt = ch.At
	r.s.companies[c.ID] = c
	return true, nil
}

// SetRenewalDate utilidad de siembra para dev y tests.
func (r *CompanyRepo) SetRenewalDate(id string, date *time.Time) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.companies[id]; ok {
		c.RenewalDate = date
		r.s.companies[id] = c
	}
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
