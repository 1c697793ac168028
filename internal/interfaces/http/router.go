package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/rs/zerolog"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/billing"
	"github.com/jhoicas/onboarding-api/internal/application/compliance"
	"github.com/jhoicas/onboarding-api/internal/application/documents"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/payments"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	Access      *usecase.AccessService
	Coordinator *onboarding.Coordinator
	Activation  *onboarding.ActivationService
	Documents   *documents.Service
	Review      *documents.ReviewService
	Compliance  *compliance.Evaluator
	Payments    *payments.Service
	Invoices    *billing.InvoiceService
	Renewals    *renewal.Scheduler
	Metrics     *metrics.Collector
	MetricsPath string // vacío = sin endpoint de métricas
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(requestMetrics(deps.Metrics))
		if deps.MetricsPath != "" {
			app.Get(deps.MetricsPath, adaptor.HTTPHandler(deps.Metrics.Handler()))
		}
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", contextLogger(deps.Log))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleClient)
	validID := RequireUUIDParam("id")

	// Webhook del proveedor (público, firma sobre el cuerpo crudo)
	webhookHandler := NewWebhookHandler(deps.Payments, deps.Log)
	api.Post("/webhooks/payments", webhookHandler.Payments)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.UserUC)
	onboardingHandler := NewOnboardingHandler(deps.Coordinator, deps.Activation, deps.Documents)
	documentHandler := NewDocumentHandler(deps.Documents, deps.Review)
	paymentHandler := NewPaymentHandler(deps.Payments)
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	complianceHandler := NewComplianceHandler(deps.Compliance)
	renewalHandler := NewRenewalHandler(deps.Renewals)

	// Companies: listado y alta solo admin; el resto acotado a la empresa del cliente
	protected.Get("/companies", adminOnly, companyHandler.List)
	protected.Post("/companies", adminOnly, companyHandler.Create)

	company := protected.Group("/companies/:id", anyRole, validID, RequireCompanyAccess(deps.Access, deps.Log))
	company.Get("/", companyHandler.GetByID)
	company.Get("/compliance", complianceHandler.Status)
	company.Post("/documents/presign", documentHandler.Presign)
	company.Post("/documents", documentHandler.Confirm)
	company.Get("/documents", documentHandler.List)
	company.Get("/payments", paymentHandler.List)
	company.Get("/invoices", invoiceHandler.ListByCompany)

	company.Put("/", adminOnly, companyHandler.Update)
	company.Get("/users", adminOnly, companyHandler.ListUsers)
	company.Post("/stage", adminOnly, onboardingHandler.Advance)
	company.Get("/activation", adminOnly, onboardingHandler.Eligibility)
	company.Post("/activation", adminOnly, onboardingHandler.Activate)
	company.Post("/reject", adminOnly, onboardingHandler.Reject)
	company.Post("/reopen", adminOnly, onboardingHandler.Reopen)
	company.Post("/kyc/complete", adminOnly, onboardingHandler.CompleteKyc)
	company.Post("/payments", adminOnly, paymentHandler.Create)

	// Documents
	docs := protected.Group("/documents")
	docs.Get("/:id", anyRole, validID, documentHandler.Get)
	docs.Get("/:id/download", anyRole, validID, documentHandler.Download)
	docs.Post("/:id/approve", adminOnly, validID, documentHandler.Approve)
	docs.Post("/:id/reject", adminOnly, validID, documentHandler.Reject)
	docs.Post("/:id/pending-client", adminOnly, validID, documentHandler.PendingWithClient)
	docs.Post("/:id/pending-admin", adminOnly, validID, documentHandler.PendingWithAdmin)

	// Payments
	pays := protected.Group("/payments")
	pays.Get("/:id", anyRole, validID, paymentHandler.Get)
	pays.Post("/:id/mark-paid", adminOnly, validID, paymentHandler.MarkPaid)
	pays.Post("/:id/replay", adminOnly, validID, paymentHandler.Replay)

	// Invoices
	invoices := protected.Group("/invoices")
	invoices.Get("/:id", anyRole, validID, invoiceHandler.GetByID)
	invoices.Get("/:id/download", anyRole, validID, invoiceHandler.Download)
	invoices.Post("/:id/resend", adminOnly, validID, invoiceHandler.Resend)

	// Compliance requirements (admin)
	reqs := protected.Group("/compliance/requirements", adminOnly)
	reqs.Get("/", complianceHandler.ListRequirements)
	reqs.Post("/", complianceHandler.CreateRequirement)
	reqs.Post("/import", complianceHandler.ImportRequirements)
	reqs.Delete("/:id", validID, complianceHandler.DeleteRequirement)

	// Renewals (admin)
	protected.Post("/renewals/run", adminOnly, renewalHandler.Run)
}

// requestMetrics registra duración y estado por ruta registrada (no por path crudo).
func requestMetrics(m *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.ObserveHTTP(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start))
		return err
	}
}
