package app_test

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/app"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("APP_STORE", "memory")
	v.Set("JWT_SECRET", "secreto-de-prueba")
	v.Set("PAYMENT_WEBHOOK_SECRET", "whsecret")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestBuild_MemoriaArmaTodosLosServicios(t *testing.T) {
	c, err := app.Build(context.Background(), memoryConfig(t), logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Metrics)
	assert.NotNil(t, c.Auth)
	assert.NotNil(t, c.Companies)
	assert.NotNil(t, c.Coordinator)
	assert.NotNil(t, c.Activation)
	assert.NotNil(t, c.Documents)
	assert.NotNil(t, c.Review)
	assert.NotNil(t, c.Compliance)
	assert.NotNil(t, c.Payments)
	assert.NotNil(t, c.Invoices)
	assert.NotNil(t, c.Renewals)
	assert.Equal(t, []int{30, 15, 7, 1}, c.Renewals.Thresholds())
}

func TestBuild_SinMetricasCuandoEstanDeshabilitadas(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Metrics.Enabled = false

	c, err := app.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer c.Close()
	assert.Nil(t, c.Metrics)
}

func TestBuild_TasaGSTInvalida(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Invoice.GSTRate = "dieciocho"

	_, err := app.Build(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVOICE_GST_RATE")
}

func TestBuild_AdminCreaEmpresaEIniciaSesion(t *testing.T) {
	ctx := context.Background()
	c, err := app.Build(ctx, memoryConfig(t), logger.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Auth.RegisterUser(ctx, dto.RegisterRequest{
		Email: "Admin@Example.com", Password: "supersecreta", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	login, err := c.Auth.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "supersecreta"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleAdmin, login.User.Role)

	company, err := c.Companies.Create(ctx, dto.CreateCompanyRequest{
		Name: "Acme", Email: "ops@acme.in", GSTIN: "29abcde1234f1z5",
	})
	require.NoError(t, err)
	assert.Equal(t, "29", company.StateCode)
	assert.Equal(t, string(entity.StageAdminCreated), string(company.Stage))
}
