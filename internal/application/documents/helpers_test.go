package documents_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

var fixedNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

type stubCompliance struct {
	ok      bool
	missing []entity.DocumentType
}

func (s stubCompliance) IsCompliant(context.Context, string) (bool, []entity.DocumentType, error) {
	return s.ok, s.missing, nil
}

type recordingNotifier struct {
	rejected []string
	pending  []string
}

func (n *recordingNotifier) DocumentRejected(_ context.Context, _ *entity.Company, d *entity.Document, reason string) error {
	n.rejected = append(n.rejected, d.ID+":"+reason)
	return nil
}

func (n *recordingNotifier) DocumentPendingWithClient(_ context.Context, _ *entity.Company, d *entity.Document, reason string) error {
	n.pending = append(n.pending, d.ID+":"+reason)
	return nil
}

func newCoordinator(store *memory.Store) *onboarding.Coordinator {
	return onboarding.NewCoordinator(store.Stages(), metrics.New(), zerolog.Nop(),
		onboarding.WithClock(func() time.Time { return fixedNow }))
}

func seedCompany(t *testing.T, store *memory.Store, id string, stage entity.Stage) {
	t.Helper()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{
		ID: id, Name: "Empresa " + id, Email: id + "@example.com", StateCode: "29",
		Stage: stage, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}))
}

func seedDocument(t *testing.T, store *memory.Store, id, companyID string, docType entity.DocumentType, owner entity.DocumentOwner, status entity.DocumentStatus) *entity.Document {
	t.Helper()
	d := &entity.Document{
		ID: id, CompanyID: companyID, DocumentType: docType, Owner: owner, Status: status,
		FileName: "f.pdf", StorageKey: "companies/" + companyID + "/x/" + id + ".pdf",
		CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	require.NoError(t, store.Documents().Create(context.Background(), d))
	return d
}

func stageOf(t *testing.T, store *memory.Store, id string) entity.Stage {
	t.Helper()
	c, err := store.Companies().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.Stage
}
