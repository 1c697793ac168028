// Package app arma el grafo de dependencias compartido por la API y la CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/onboarding-api/internal/application/auth"
	"github.com/jhoicas/onboarding-api/internal/application/billing"
	"github.com/jhoicas/onboarding-api/internal/application/compliance"
	"github.com/jhoicas/onboarding-api/internal/application/documents"
	"github.com/jhoicas/onboarding-api/internal/application/notify"
	"github.com/jhoicas/onboarding-api/internal/application/onboarding"
	"github.com/jhoicas/onboarding-api/internal/application/payments"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
	"github.com/jhoicas/onboarding-api/internal/application/usecase"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/email"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/memory"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/paymentprovider"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/pdf"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/postgres"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/storage"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

// Repositories puertos de persistencia ya resueltos (PostgreSQL o memoria).
type Repositories struct {
	Companies    repository.CompanyRepository
	Stages       repository.CompanyStageStore
	Users        repository.UserRepository
	Documents    repository.DocumentRepository
	Payments     repository.PaymentRepository
	Invoices     repository.InvoiceRepository
	Requirements repository.ComplianceRequirementRepository
	Reminders    repository.RenewalReminderRepository
	Tx           billing.InvoiceTxRunner
}

// Container servicios de aplicación listos para usar.
type Container struct {
	Config  *config.Config
	Repos   Repositories
	Metrics *metrics.Collector

	Auth        *auth.AuthUseCase
	Companies   *usecase.CompanyUseCase
	Users       *usecase.UserUseCase
	Access      *usecase.AccessService
	Coordinator *onboarding.Coordinator
	Activation  *onboarding.ActivationService
	Documents   *documents.Service
	Review      *documents.ReviewService
	Compliance  *compliance.Evaluator
	Payments    *payments.Service
	Invoices    *billing.InvoiceService
	Renewals    *renewal.Scheduler

	pool *pgxpool.Pool
}

// Build conecta almacenamiento, proveedores externos y servicios según cfg.
// Con APP_STORE=postgres aplica las migraciones pendientes antes de devolver.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg}
	if cfg.Metrics.Enabled {
		c.Metrics = metrics.New()
	}

	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		c.Repos = Repositories{
			Companies:    store.Companies(),
			Stages:       store.Stages(),
			Users:        store.Users(),
			Documents:    store.Documents(),
			Payments:     store.Payments(),
			Invoices:     store.Invoices(),
			Requirements: store.Requirements(),
			Reminders:    store.Reminders(),
			Tx:           store.TxRunner(),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.pool = pool
		applied, err := postgres.NewMigrator(pool).Migrate(ctx)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		if len(applied) > 0 {
			log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
		}
		store := postgres.NewStore(pool)
		c.Repos = Repositories{
			Companies:    store.Companies(),
			Stages:       store.Stages(),
			Users:        store.Users(),
			Documents:    store.Documents(),
			Payments:     store.Payments(),
			Invoices:     store.Invoices(),
			Requirements: store.Requirements(),
			Reminders:    store.Reminders(),
			Tx:           store.TxRunner(),
		}
	}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("object storage: %w", err)
	}
	sender, err := email.New(cfg.Email, log.Component("email"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("email: %w", err)
	}
	gateway, verifier, err := paymentprovider.New(cfg.Payment)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("proveedor de pagos: %w", err)
	}
	notifier, err := notify.New(sender, cfg.App.Name, log.Component("notify"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("plantillas de correo: %w", err)
	}
	gstRate, err := decimal.NewFromString(cfg.Invoice.GSTRate)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("INVOICE_GST_RATE %q: %w", cfg.Invoice.GSTRate, err)
	}

	r := c.Repos
	c.Coordinator = onboarding.NewCoordinator(r.Stages, c.Metrics, log.Component("onboarding"),
		onboarding.WithRenewalPeriod(cfg.Renewal.PeriodDays))
	c.Compliance = compliance.NewEvaluator(r.Requirements, r.Documents, log.Component("compliance"))
	c.Invoices = billing.NewInvoiceService(r.Tx, r.Invoices, r.Payments, r.Companies,
		pdf.NewMarotoInvoiceRenderer(), objects, notifier, c.Metrics, billing.Config{
			Prefix:  cfg.Invoice.Prefix,
			GSTRate: gstRate,
			Seller: billing.Seller{
				Name:      cfg.Invoice.SellerName,
				GSTIN:     cfg.Invoice.SellerGSTIN,
				StateCode: cfg.Invoice.SellerStateCode,
				Address:   cfg.Invoice.SellerAddress,
			},
			PresignTTL: cfg.Storage.PresignTTL,
		}, log.Component("billing"))
	c.Auth = auth.NewAuthUseCase(r.Users, r.Companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	c.Companies = usecase.NewCompanyUseCase(r.Companies)
	c.Users = usecase.NewUserUseCase(r.Users)
	c.Access = usecase.NewAccessService(r.Companies)
	c.Activation = onboarding.NewActivationService(c.Coordinator, r.Documents, r.Payments, notifier, log.Component("activation"))
	c.Documents = documents.NewService(c.Coordinator, r.Documents, c.Compliance, objects, cfg.Storage.PresignTTL, log.Component("documents"))
	c.Review = documents.NewReviewService(c.Coordinator, r.Documents, notifier, c.Metrics, log.Component("review"))
	c.Payments = payments.NewService(c.Coordinator, r.Payments, gateway, verifier, c.Invoices, notifier, c.Metrics,
		cfg.Payment.Currency, log.Component("payments"))
	c.Renewals = renewal.NewScheduler(r.Companies, r.Reminders, notifier, c.Metrics, cfg.Renewal.Thresholds, log.Component("renewal"))
	return c, nil
}

// Close libera el pool de base de datos si existe.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
