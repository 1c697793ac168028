package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/onboarding-api/internal/app"
	"github.com/jhoicas/onboarding-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/onboarding-api/internal/interfaces/http"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.App.Store).
		Str("payment_provider", cfg.Payment.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()
	c, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	server := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	server.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		server.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Onboarding API",
		}))
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	httpRouter.Router(server, httpRouter.RouterDeps{
		AuthUC:      c.Auth,
		CompanyUC:   c.Companies,
		UserUC:      c.Users,
		Access:      c.Access,
		Coordinator: c.Coordinator,
		Activation:  c.Activation,
		Documents:   c.Documents,
		Review:      c.Review,
		Compliance:  c.Compliance,
		Payments:    c.Payments,
		Invoices:    c.Invoices,
		Renewals:    c.Renewals,
		Metrics:     c.Metrics,
		MetricsPath: metricsPath,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
	})

	// Recordatorios de renovación diarios dentro del proceso
	cron := scheduler.New(log.Component("scheduler"), 10*time.Minute)
	if cfg.Renewal.Enabled {
		err := cron.Add("renewal-reminders", cfg.Renewal.Cron, func(ctx context.Context) error {
			rep, err := c.Renewals.RunToday(ctx)
			if err != nil {
				return err
			}
			log.Info().
				Str("date", rep.Date).
				Int("scanned", rep.Scanned).
				Int("sent", rep.Sent).
				Int("failed", rep.Failed).
				Msg("lote de renovaciones")
			return nil
		})
		if err != nil {
			log.Fatal().Err(err).Msg("programar recordatorios de renovación")
		}
		cron.Start()
	}

	go func() {
		if err := server.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cron.Stop(shutdownCtx)
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
