package onboarding_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

var fixedNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func newCoordinator(t *testing.T, store *memory.Store) *onboarding.Coordinator {
	t.Helper()
	return onboarding.NewCoordinator(store.Stages(), metrics.New(), zerolog.Nop(),
		onboarding.WithClock(func() time.Time { return fixedNow }),
		onboarding.WithRenewalPeriod(365),
	)
}

func seedCompany(t *testing.T, store *memory.Store, id string, stage entity.Stage) {
	t.Helper()
	require.NoError(t, store.Companies().Create(context.Background(), &entity.Company{
		ID: id, Name: "Empresa " + id, Email: id + "@example.com", StateCode: "29",
		Stage: stage, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}))
}

func stageOf(t *testing.T, store *memory.Store, id string) entity.Stage {
	t.Helper()
	c, err := store.Companies().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.Stage
}

func TestOnPaymentConfirmed_DosSaltos(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StagePaymentPending)

	c, err := co.OnPaymentConfirmed(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageKycInProgress, c.Stage)
	assert.Equal(t, entity.StageKycInProgress, stageOf(t, store, "c1"))
}

func TestOnPaymentConfirmed_ReanudaDesdePaymentConfirmed(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StagePaymentConfirmed)

	c, err := co.OnPaymentConfirmed(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageKycInProgress, c.Stage)
}

func TestOnPaymentConfirmed_EtapaPreviaFalla(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageAdminCreated)

	_, err := co.OnPaymentConfirmed(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrStageMismatch)
	assert.Equal(t, entity.StageAdminCreated, stageOf(t, store, "c1"))
}

func TestOnKycUploaded_IdempotenteEnKycReview(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycReview)

	c, err := co.OnKycUploaded(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageKycReview, c.Stage, "ya pasó KYC_IN_PROGRESS: no-op")
}

func TestEventos_RepetirNoCambiaNada(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycInProgress)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := co.MoveToKycReviewAfterUpload(ctx, "c1")
		require.NoError(t, err)
	}
	assert.Equal(t, entity.StageKycReview, stageOf(t, store, "c1"))

	for i := 0; i < 2; i++ {
		_, err := co.OnKycApproved(ctx, "c1")
		require.NoError(t, err)
	}
	assert.Equal(t, entity.StageAgreementDraftShared, stageOf(t, store, "c1"))

	_, err := co.OnAgreementDraftShared(ctx, "c1")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := co.OnSignedAgreementReceived(ctx, "c1")
		require.NoError(t, err)
	}
	assert.Equal(t, entity.StageSignedAgreementReceived, stageOf(t, store, "c1"))
}

func TestReturnToKycInProgress_Retrocede(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycReview)
	ctx := context.Background()

	c, err := co.ReturnToKycInProgress(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageKycInProgress, c.Stage)

	c, err = co.ReturnToKycInProgress(ctx, "c1")
	require.NoError(t, err, "retroceder dos veces es idempotente")
	assert.Equal(t, entity.StageKycInProgress, c.Stage)
}

func TestOnKycApproved_ExigeKycReview(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycInProgress)

	_, err := co.OnKycApproved(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrStageMismatch)
}

func TestOnFinalAgreementShared_ExigeContratoFirmado(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageAgreementDraftShared)

	_, err := co.OnFinalAgreementShared(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrStageMismatch)
}

func TestActivateCompany_FijaFechas(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageFinalAgreementShared)

	c, err := co.ActivateCompany(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageActive, c.Stage)
	require.NotNil(t, c.ActivationDate)
	assert.True(t, c.ActivationDate.Equal(fixedNow))
	require.NotNil(t, c.RenewalDate)
	assert.Equal(t, "2026-06-10", c.RenewalDate.Format("2006-01-02"))

	persisted, err := store.Companies().GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageActive, persisted.Stage)
	assert.NotNil(t, persisted.ActivationDate)
}

func TestActivateCompany_OtraEtapaNoPermitida(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageSignedAgreementReceived)

	_, err := co.ActivateCompany(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrActivationNotAllowed)
	c, _ := store.Companies().GetByID(context.Background(), "c1")
	assert.Nil(t, c.ActivationDate)
}

func TestAdvance_RespetaElGrafo(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageAdminCreated)
	ctx := context.Background()

	_, err := co.Advance(ctx, "c1", entity.StageKycReview)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	c, err := co.Advance(ctx, "c1", entity.StagePendingDocuments)
	require.NoError(t, err)
	assert.Equal(t, entity.StagePendingDocuments, c.Stage)

	_, err = co.Advance(ctx, "c1", entity.StageActive)
	assert.ErrorIs(t, err, domain.ErrActivationNotAllowed)
}

func TestAdvance_NoSaltaEventosDeNegocio(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	ctx := context.Background()
	cases := []struct {
		name   string
		from   entity.Stage
		target entity.Stage
	}{
		{"revisión KYC sin cumplimiento", entity.StageKycReview, entity.StageAgreementDraftShared},
		{"pago sin pago registrado", entity.StagePaymentPending, entity.StagePaymentConfirmed},
		{"confirmado a KYC", entity.StagePaymentConfirmed, entity.StageKycInProgress},
		{"contrato firmado", entity.StageAgreementDraftShared, entity.StageSignedAgreementReceived},
		{"enlace de pago", entity.StageUnderReview, entity.StagePaymentPending},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id := fmt.Sprintf("c%d", i)
			seedCompany(t, store, id, tc.from)

			_, err := co.Advance(ctx, id, tc.target)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			assert.Equal(t, tc.from, stageOf(t, store, id))
		})
	}
}

func TestAdvance_RechazoDesdeCualquierEtapa(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycReview)

	c, err := co.Advance(context.Background(), "c1", entity.StageRejected)
	require.NoError(t, err)
	assert.Equal(t, entity.StageRejected, c.Stage)
}

func TestAdvance_EmpresaActivaBloqueada(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageActive)

	_, err := co.Advance(context.Background(), "c1", entity.StageRejected)
	assert.ErrorIs(t, err, domain.ErrOnboardingLocked)
	_, err = co.RejectOnboarding(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrOnboardingLocked)
}

func TestRejectYReopen(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageKycReview)
	ctx := context.Background()

	c, err := co.RejectOnboarding(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageRejected, c.Stage)

	c, err = co.ReopenOnboarding(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StagePendingDocuments, c.Stage)
}

func TestCaminoPrevioAlPago(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StageAdminCreated)
	ctx := context.Background()

	steps := []func(context.Context, string) (*entity.Company, error){
		co.OnDocumentsRequested, co.OnDocumentsSubmitted, co.OnReviewStarted, co.OnOnboardingCompleted,
	}
	for _, step := range steps {
		_, err := step(ctx, "c1")
		require.NoError(t, err)
	}
	assert.Equal(t, entity.StageCompleted, stageOf(t, store, "c1"))

	_, err := co.OnPaymentLinkCreated(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrStageMismatch, "COMPLETED es terminal")
}

func TestEmpresaInexistente(t *testing.T) {
	co := newCoordinator(t, memory.NewStore())
	_, err := co.OnKycUploaded(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOnPaymentConfirmed_Concurrente(t *testing.T) {
	store := memory.NewStore()
	co := newCoordinator(t, store)
	seedCompany(t, store, "c1", entity.StagePaymentPending)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Los perdedores pueden ver StageMismatch; la etapa final debe ser única.
			_, _ = co.OnPaymentConfirmed(context.Background(), "c1")
		}()
	}
	wg.Wait()

	_, err := co.OnPaymentConfirmed(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, entity.StageKycInProgress, stageOf(t, store, "c1"))
}
