package compliance_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/onboarding-api/internal/application/compliance"
	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
)

func newEvaluator(store *memory.Store) *compliance.Evaluator {
	return compliance.NewEvaluator(store.Requirements(), store.Documents(), zerolog.Nop())
}

func addDoc(t *testing.T, store *memory.Store, id string, dt entity.DocumentType, st entity.DocumentStatus) {
	t.Helper()
	require.NoError(t, store.Documents().Create(context.Background(), &entity.Document{
		ID: id, CompanyID: "c1", DocumentType: dt, Owner: entity.OwnerClient, Status: st, CreatedAt: time.Now(),
	}))
}

func TestEvaluate_FaltaUnTipo(t *testing.T) {
	store := memory.NewStore()
	ev := newEvaluator(store)
	ctx := context.Background()
	_, err := ev.AddRequirement(ctx, entity.DocTypeKYCPan, "PAN")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = ev.AddRequirement(ctx, entity.DocTypeKYCGSTCertificate, "GST")
	require.NoError(t, err)

	addDoc(t, store, "d1", entity.DocTypeKYCPan, entity.DocStatusVerified)
	addDoc(t, store, "d2", entity.DocTypeKYCGSTCertificate, entity.DocStatusRejected)

	st, err := ev.Evaluate(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []entity.DocumentType{entity.DocTypeKYCGSTCertificate}, st.Missing)
	assert.False(t, st.IsCompliant)
	assert.Equal(t, []entity.DocumentType{entity.DocTypeKYCPan}, st.Approved)
}

func TestEvaluate_SinRequisitosCumple(t *testing.T) {
	ok, missing, err := newEvaluator(memory.NewStore()).IsCompliant(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, missing)
}

func TestEvaluate_CualquierVersionVerificadaCuenta(t *testing.T) {
	store := memory.NewStore()
	ev := newEvaluator(store)
	ctx := context.Background()
	_, err := ev.AddRequirement(ctx, entity.DocTypeKYCPan, "")
	require.NoError(t, err)
	addDoc(t, store, "d1", entity.DocTypeKYCPan, entity.DocStatusVerified)
	addDoc(t, store, "d2", entity.DocTypeKYCPan, entity.DocStatusUploaded)

	ok, _, err := ev.IsCompliant(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddRequirement_Validaciones(t *testing.T) {
	ev := newEvaluator(memory.NewStore())
	ctx := context.Background()

	_, err := ev.AddRequirement(ctx, "PASSPORT", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req, err := ev.AddRequirement(ctx, " kyc_pan ", "")
	require.NoError(t, err)
	assert.Equal(t, entity.DocTypeKYCPan, req.DocumentType)

	_, err = ev.AddRequirement(ctx, entity.DocTypeKYCPan, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, ev.RemoveRequirement(ctx, req.ID))
	assert.ErrorIs(t, ev.RemoveRequirement(ctx, req.ID), domain.ErrNotFound)
}

func TestImportRequirements_CSV(t *testing.T) {
	ev := newEvaluator(memory.NewStore())
	csv := "document_type,description\nKYC_PAN,PAN card\nKYC_PAN,repetido\nFOO,inválido\n\nKYC_BANK_PROOF,Cheque cancelado\n"

	rep, err := ev.ImportRequirements(context.Background(), strings.NewReader(csv), "")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Created)
	assert.Equal(t, 1, rep.Skipped)
	assert.Len(t, rep.Errors, 1)
}

func TestImportRequirements_Latin1(t *testing.T) {
	ev := newEvaluator(memory.NewStore())
	encoded, err := charmap.ISO8859_1.NewEncoder().String("KYC_ADDRESS_PROOF,Comprobante de dirección\n")
	require.NoError(t, err)

	rep, err := ev.ImportRequirements(context.Background(), bytes.NewBufferString(encoded), "latin1")
	require.NoError(t, err)
	require.Equal(t, 1, rep.Created)

	reqs, err := ev.ListRequirements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Comprobante de dirección", reqs[0].Description)
}
