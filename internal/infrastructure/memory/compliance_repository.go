package memory

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var (
	_ repository.ComplianceRequirementRepository = (*RequirementRepo)(nil)
	_ repository.RenewalReminderRepository       = (*ReminderRepo)(nil)
)

type RequirementRepo struct {
	s *Store
}

func (r *RequirementRepo) Create(_ context.Context, req *entity.ComplianceRequirement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.requirements {
		if cur.DocumentType == req.DocumentType {
			return domain.ErrDuplicate
		}
	}
	r.s.requirements[req.ID] = *req
	return nil
}

func (r *RequirementRepo) List(_ context.Context) ([]*entity.ComplianceRequirement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.ComplianceRequirement, 0, len(r.s.requirements))
	for _, req := range r.s.requirements {
		req := req
		list = append(list, &req)
	}
	sortByCreated(list, func(c *entity.ComplianceRequirement) time.Time { return c.CreatedAt })
	return list, nil
}

func (r *RequirementRepo) GetByDocumentType(_ context.Context, docType entity.DocumentType) (*entity.ComplianceRequirement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, req := range r.s.requirements {
		if req.DocumentType == docType {
			out := req
			return &out, nil
		}
	}
	return nil, nil
}

func (r *RequirementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requirements[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.requirements, id)
	return nil
}

type ReminderRepo struct {
	s *Store
}

func reminderKey(companyID string, daysBefore int) string {
	return companyID + "|" + strconv.Itoa(daysBefore)
}

func (r *ReminderRepo) Exists(_ context.Context, companyID string, daysBefore int) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.reminders[reminderKey(companyID, daysBefore)]
	return ok, nil
}

func (r *ReminderRepo) Create(_ context.Context, rem *entity.RenewalReminder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := reminderKey(rem.CompanyID, rem.DaysBefore)
	if _, ok := r.s.reminders[k]; ok {
		return domain.ErrDuplicate
	}
	r.s.reminders[k] = *rem
	return nil
}

// Count número de recordatorios registrados (tests).
func (r *ReminderRepo) Count() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.reminders)
}
