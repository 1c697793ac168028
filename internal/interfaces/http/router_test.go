package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/billing"
	"github.com/jhoicas/onboarding-api/internal/application/compliance"
	"github.com/jhoicas/onboarding-api/internal/application/documents"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/notify"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/payments"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/email"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/paymentprovider"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/onboarding-api/internal/interfaces/http"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
	pkgjwt "github.com/jhoicas/onboarding-api/pkg/jwt"
)

const (
	companyA = "11111111-1111-1111-1111-111111111111"
	companyB = "22222222-2222-2222-2222-222222222222"
)

type pdfStub struct{}

func (pdfStub) Render(context.Context, billing.InvoiceDocument) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type server struct {
	app      *fiber.App
	store    *memory.Store
	provider *paymentprovider.HMACProvider
	authUC   *auth.AuthUseCase
}

func newServer(t *testing.T) *server {
	t.Helper()
	log := zerolog.Nop()
	store := memory.NewStore()
	m := metrics.New()
	provider := paymentprovider.NewHMACProvider("whsecret", "", "https://pay.example.com/l")
	objects := storage.NewMemoryStorage("test")
	notifier, err := notify.New(email.NewLogSender(log), "Onboarding", log)
	require.NoError(t, err)

	coord := onboarding.NewCoordinator(store.Stages(), m, log)
	evaluator := compliance.NewEvaluator(store.Requirements(), store.Documents(), log)
	invoices := billing.NewInvoiceService(store.TxRunner(), store.Invoices(), store.Payments(), store.Companies(),
		pdfStub{}, objects, notifier, m, billing.Config{
			Prefix:  "INV",
			GSTRate: decimal.NewFromInt(18),
			Seller:  billing.Seller{Name: "Proveedor", StateCode: "29"},
		}, log)
	authUC := auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   usecase.NewCompanyUseCase(store.Companies()),
		UserUC:      usecase.NewUserUseCase(store.Users()),
		Access:      usecase.NewAccessService(store.Companies()),
		Coordinator: coord,
		Activation:  onboarding.NewActivationService(coord, store.Documents(), store.Payments(), notifier, log),
		Documents:   documents.NewService(coord, store.Documents(), evaluator, objects, time.Minute, log),
		Review:      documents.NewReviewService(coord, store.Documents(), notifier, m, log),
		Compliance:  evaluator,
		Payments:    payments.NewService(coord, store.Payments(), provider, provider, invoices, notifier, m, "INR", log),
		Invoices:    invoices,
		Renewals:    renewal.NewScheduler(store.Companies(), store.Reminders(), notifier, m, nil, log),
		Metrics:     m,
		MetricsPath: "/metrics",
		JWTSecret:   testJWTSecret,
		Log:         log,
	})
	return &server{app: app, store: store, provider: provider, authUC: authUC}
}

func (s *server) company(t *testing.T, id string, stage entity.Stage) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, s.store.Companies().Create(context.Background(), &entity.Company{
		ID: id, Name: "Empresa " + id[:4], Email: id[:4] + "@example.com", StateCode: "29",
		Stage: stage, CreatedAt: now, UpdatedAt: now,
	}))
}

func (s *server) stage(t *testing.T, id string) entity.Stage {
	t.Helper()
	c, err := s.store.Companies().GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.Stage
}

func (s *server) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func token(t *testing.T, role, companyID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return tok
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_Health(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_MetricsExpuestas(t *testing.T) {
	s := newServer(t)
	s.do(t, http.MethodGet, "/health", "", nil).Body.Close()

	resp := s.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "onboarding_http_request_duration_seconds")
}

func TestRouter_LoginYAlcancePorEmpresa(t *testing.T) {
	s := newServer(t)
	s.company(t, companyA, entity.StageAdminCreated)
	s.company(t, companyB, entity.StageAdminCreated)
	_, err := s.authUC.RegisterUser(context.Background(), dto.RegisterRequest{
		Email: "cliente@example.com", Password: "secreto123", CompanyID: companyA, Role: entity.RoleClient,
	})
	require.NoError(t, err)

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "cliente@example.com", Password: "secreto123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	require.NotEmpty(t, login.Token)
	assert.Equal(t, companyA, login.User.CompanyID)

	own := s.do(t, http.MethodGet, "/api/companies/"+companyA, login.Token, nil)
	defer own.Body.Close()
	assert.Equal(t, http.StatusOK, own.StatusCode)

	other := s.do(t, http.MethodGet, "/api/companies/"+companyB, login.Token, nil)
	assert.Equal(t, http.StatusNotFound, other.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, other).Code)
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)
}

func TestRouter_ClienteNoPuedeCrearEmpresa(t *testing.T) {
	s := newServer(t)
	resp := s.do(t, http.MethodPost, "/api/companies", token(t, "client", companyA),
		dto.CreateCompanyRequest{Name: "X", Email: "x@example.com"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)
}

func TestRouter_AdminCreaEmpresaEnAdminCreated(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin", "")
	resp := s.do(t, http.MethodPost, "/api/companies", admin,
		dto.CreateCompanyRequest{Name: "Acme", Email: "acme@example.com", GSTIN: "29ABCDE1234F1Z5"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.CompanyResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Equal(t, string(entity.StageAdminCreated), out.Stage)
	assert.Equal(t, "29", out.StateCode)

	dup := s.do(t, http.MethodPost, "/api/companies", admin,
		dto.CreateCompanyRequest{Name: "Otra", Email: "otra@example.com", GSTIN: "29ABCDE1234F1Z5"})
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
	dup.Body.Close()
}

func TestRouter_IdentificadorMalformado(t *testing.T) {
	s := newServer(t)
	admin := token(t, "admin", "")
	for _, path := range []string{"/api/companies/no-es-uuid", "/api/documents/123", "/api/payments/abc", "/api/invoices/x"} {
		resp := s.do(t, http.MethodGet, path, admin, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code, path)
	}
}

func TestRouter_AvanceDeEtapa(t *testing.T) {
	s := newServer(t)
	s.company(t, companyA, entity.StageAdminCreated)
	admin := token(t, "admin", "")

	cases := []struct {
		name   string
		stage  string
		status int
		code   string
	}{
		{"etapa desconocida", "FOO", http.StatusBadRequest, "VALIDATION"},
		{"activar por esta vía", "ACTIVE", http.StatusBadRequest, "ACTIVATION_NOT_ALLOWED"},
		{"salto fuera del grafo", "KYC_REVIEW", http.StatusBadRequest, "INVALID_TRANSITION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.do(t, http.MethodPost, "/api/companies/"+companyA+"/stage", admin, dto.AdvanceStageRequest{Stage: tc.stage})
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}

	ok := s.do(t, http.MethodPost, "/api/companies/"+companyA+"/stage", admin, dto.AdvanceStageRequest{Stage: "PENDING_DOCUMENTS"})
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.Equal(t, entity.StagePendingDocuments, s.stage(t, companyA))
}

func TestRouter_ActivacionRechazadaConMotivos(t *testing.T) {
	s := newServer(t)
	s.company(t, companyA, entity.StageAdminCreated)

	resp := s.do(t, http.MethodPost, "/api/companies/"+companyA+"/activation", token(t, "admin", ""), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "ACTIVATION_NOT_ALLOWED", body.Code)
	assert.Contains(t, body.Reasons, onboarding.ReasonStage)
	assert.Contains(t, body.Reasons, onboarding.ReasonPayment)
}

func TestRouter_WebhookFirmaInvalida(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", bytes.NewReader([]byte(`{"event":"payment.captured"}`)))
	req.Header.Set(paymentprovider.DefaultSignatureHeader, "deadbeef")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_SIGNATURE", decodeError(t, resp).Code)
}

func TestRouter_WebhookConfirmaPagoYEtapa(t *testing.T) {
	s := newServer(t)
	s.company(t, companyA, entity.StagePaymentPending)
	now := time.Now().UTC()
	require.NoError(t, s.store.Payments().Create(context.Background(), &entity.Payment{
		ID: "pay-1", CompanyID: companyA, Amount: decimal.NewFromInt(1180), Currency: "INR",
		Status: entity.PaymentStatusCreated, CreatedAt: now, UpdatedAt: now,
	}))

	raw := []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_ext_1","notes":{"company_id":%q}}}}}`, companyA))
	send := func() payments.WebhookResult {
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", bytes.NewReader(raw))
		req.Header.Set(paymentprovider.DefaultSignatureHeader, s.provider.Sign(raw))
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out payments.WebhookResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	first := send()
	assert.Equal(t, payments.OutcomeProcessed, first.Outcome)
	assert.Equal(t, "pay-1", first.PaymentID)
	assert.Equal(t, entity.StageKycInProgress, s.stage(t, companyA))

	inv, err := s.store.Invoices().GetByPaymentID(context.Background(), "pay-1")
	require.NoError(t, err)
	require.NotNil(t, inv)

	second := send()
	assert.Equal(t, payments.OutcomeAlreadyPaid, second.Outcome)
}

func TestRouter_ImportarRequisitosCSV(t *testing.T) {
	s := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/compliance/requirements/import",
		bytes.NewReader([]byte("document_type,description\nKYC_PAN,PAN\nKYC_GST_CERTIFICATE,GST\n")))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token(t, "admin", ""))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rep compliance.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rep))
	assert.Equal(t, 2, rep.Created)
}

// brokenCompanies simula una falla de base de datos.
type brokenCompanies struct {
	repository.CompanyRepository
}

func (brokenCompanies) List(context.Context, repository.CompanyFilter) ([]*entity.Company, error) {
	return nil, errors.New(`ERROR: relation "companies" does not exist (SQLSTATE 42P01)`)
}

func TestRouter_ErrorInternoSinDetalle(t *testing.T) {
	var logs bytes.Buffer
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC: usecase.NewCompanyUseCase(brokenCompanies{}),
		JWTSecret: testJWTSecret,
		Log:       zerolog.New(&logs),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/companies", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, "admin", ""))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := decodeError(t, resp)
	assert.Equal(t, "INTERNAL", out.Code)
	assert.NotContains(t, out.Message, "SQLSTATE")
	assert.Contains(t, logs.String(), "SQLSTATE 42P01")
	assert.Contains(t, logs.String(), "/api/companies")
}
