package memory

import (
	"context"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

type DocumentRepo struct {
	s *Store
}

// Create asigna la siguiente versión para (empresa, tipo) bajo el mismo lock del insert.
func (r *DocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	maxVersion := 0
	for _, d := range r.s.documents {
		if d.CompanyID == doc.CompanyID && d.DocumentType == doc.DocumentType && d.Version > maxVersion {
			maxVersion = d.Version
		}
	}
	doc.Version = maxVersion + 1
	r.s.documents[doc.ID] = *doc
	return nil
}

func (r *DocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.documents[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DocumentRepo) UpdateReview(_ context.Context, doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.documents[doc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = doc.Status
	cur.RejectionReason = doc.RejectionReason
	cur.ReviewNotes = doc.ReviewNotes
	cur.ReviewedBy = doc.ReviewedBy
	cur.ReviewedAt = doc.ReviewedAt
	cur.UpdatedAt = doc.UpdatedAt
	r.s.documents[doc.ID] = cur
	return nil
}

func (r *DocumentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error) {
	return r.List(ctx, repository.DocumentFilter{CompanyID: companyID})
}

func (r *DocumentRepo) List(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Document
	for _, d := range r.s.documents {
		if f.CompanyID != "" && d.CompanyID != f.CompanyID {
			continue
		}
		if f.DocumentType != "" && d.DocumentType != f.DocumentType {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Owner != "" && d.Owner != f.Owner {
			continue
		}
		if f.KYCOnly && !d.DocumentType.IsKYC() {
			continue
		}
		d := d
		list = append(list, &d)
	}
	if f.LatestOnly {
		latest := make([]*entity.Document, 0, len(list))
		byKey := map[string]*entity.Document{}
		for _, d := range list {
			k := d.CompanyID + "|" + string(d.DocumentType)
			if cur, ok := byKey[k]; !ok || d.Version > cur.Version {
				byKey[k] = d
			}
		}
		for _, d := range byKey {
			latest = append(latest, d)
		}
		list = latest
	}
	sortByCreated(list, func(d *entity.Document) time.Time { return d.CreatedAt })
	return paginate(list, f.Limit, f.Offset), nil
}
