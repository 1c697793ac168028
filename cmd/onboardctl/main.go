// onboardctl tareas operativas del servicio de onboarding: recordatorios de
// renovación, reproceso de pagos, reenvío de facturas e importación de requisitos.
//
// Uso: go run ./cmd/onboardctl <comando> [flags]
// Lee la misma configuración (env / .env) que la API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/onboarding-api/internal/app"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
)

var Version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	log := logger.NewWithWriter(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "onboardctl",
	}, os.Stderr)

	build := func(ctx context.Context) (*app.Container, error) {
		return app.Build(ctx, cfg, log)
	}
	if err := newRootCmd(build, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
