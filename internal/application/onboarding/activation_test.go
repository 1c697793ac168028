package onboarding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
)

type welcomeRecorder struct {
	calls int
	err   error
}

func (w *welcomeRecorder) Welcome(context.Context, *entity.Company) error {
	w.calls++
	return w.err
}

// readyCompany deja una empresa que cumple las cuatro condiciones; cada opción rompe una.
func readyCompany(t *testing.T, store *memory.Store, breakCond string) {
	t.Helper()
	ctx := context.Background()
	stage := entity.StageFinalAgreementShared
	if breakCond == "stage" {
		stage = entity.StageSignedAgreementReceived
	}
	seedCompany(t, store, "c1", stage)

	if breakCond != "payment" {
		require.NoError(t, store.Payments().Create(ctx, &entity.Payment{
			ID: "p1", CompanyID: "c1", Amount: decimal.NewFromInt(1180), Currency: "INR",
			Status: entity.PaymentStatusCreated, CreatedAt: fixedNow,
		}))
		_, err := store.Payments().MarkPaid(ctx, "p1", "pay_1", fixedNow)
		require.NoError(t, err)
	}

	kyc := &entity.Document{ID: "d1", CompanyID: "c1", DocumentType: entity.DocTypeKYCPan, Owner: entity.OwnerClient, Status: entity.DocStatusVerified, CreatedAt: fixedNow}
	require.NoError(t, store.Documents().Create(ctx, kyc))
	if breakCond == "kyc" {
		// una versión más nueva sin verificar invalida la anterior
		require.NoError(t, store.Documents().Create(ctx, &entity.Document{
			ID: "d2", CompanyID: "c1", DocumentType: entity.DocTypeKYCPan, Owner: entity.OwnerClient, Status: entity.DocStatusUploaded, CreatedAt: fixedNow,
		}))
	}
	if breakCond != "final" {
		require.NoError(t, store.Documents().Create(ctx, &entity.Document{
			ID: "d3", CompanyID: "c1", DocumentType: entity.DocTypeAgreementFinal, Owner: entity.OwnerAdmin, Status: entity.DocStatusUploaded, CreatedAt: fixedNow,
		}))
	}
}

func newActivation(t *testing.T, store *memory.Store, w onboarding.WelcomeNotifier) *onboarding.ActivationService {
	return onboarding.NewActivationService(newCoordinator(t, store), store.Documents(), store.Payments(), w, zerolog.Nop())
}

func TestCanActivateCompany_CadaCondicionPorSeparado(t *testing.T) {
	cases := map[string]string{
		"stage":   onboarding.ReasonStage,
		"payment": onboarding.ReasonPayment,
		"kyc":     onboarding.ReasonKYC,
		"final":   onboarding.ReasonFinalAgreement,
	}
	for cond, reason := range cases {
		t.Run(cond, func(t *testing.T) {
			store := memory.NewStore()
			readyCompany(t, store, cond)

			el, err := newActivation(t, store, nil).CanActivateCompany(context.Background(), "c1")
			require.NoError(t, err)
			assert.False(t, el.Eligible)
			assert.Equal(t, []string{reason}, el.Reasons)
		})
	}
}

func TestCanActivateCompany_TodoCumplido(t *testing.T) {
	store := memory.NewStore()
	readyCompany(t, store, "")

	el, err := newActivation(t, store, nil).CanActivateCompany(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, el.Eligible)
	assert.Empty(t, el.Reasons)
}

func TestActivate_EnviaBienvenidaBestEffort(t *testing.T) {
	store := memory.NewStore()
	readyCompany(t, store, "")
	w := &welcomeRecorder{err: errors.New("smtp caído")}

	c, err := newActivation(t, store, w).Activate(context.Background(), "c1")
	require.NoError(t, err, "el fallo del correo no revierte la activación")
	assert.Equal(t, entity.StageActive, c.Stage)
	assert.Equal(t, 1, w.calls)
}

func TestActivate_NoElegibleDevuelveMotivos(t *testing.T) {
	store := memory.NewStore()
	readyCompany(t, store, "payment")

	_, err := newActivation(t, store, nil).Activate(context.Background(), "c1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrActivationNotAllowed))
	assert.Equal(t, []string{onboarding.ReasonPayment}, onboarding.ActivationReasons(err))
	assert.Equal(t, entity.StageFinalAgreementShared, stageOf(t, store, "c1"))
}

func TestActivate_YaActivaBloqueada(t *testing.T) {
	store := memory.NewStore()
	readyCompany(t, store, "")
	svc := newActivation(t, store, nil)
	_, err := svc.Activate(context.Background(), "c1")
	require.NoError(t, err)

	_, err = svc.Activate(context.Background(), "c1")
	assert.ErrorIs(t, err, domain.ErrOnboardingLocked)
}
