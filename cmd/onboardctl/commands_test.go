package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/app"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
	"github.com/jhoicas/onboarding-api/pkg/config"
	"github.com/jhoicas/onboarding-api/pkg/logger"
)

// sharedContainer comparte un único store en memoria entre invocaciones.
func sharedContainer(t *testing.T) (*app.Container, builder) {
	t.Helper()
	v := viper.New()
	v.Set("APP_STORE", "memory")
	v.Set("JWT_SECRET", "secreto-cli")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	c, err := app.Build(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	return c, func(context.Context) (*app.Container, error) { return c, nil }
}

func run(t *testing.T, build builder, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(build, &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRequirementsImport_CreaYListaRequisitos(t *testing.T) {
	_, build := sharedContainer(t)
	path := filepath.Join(t.TempDir(), "req.csv")
	require.NoError(t, os.WriteFile(path, []byte("document_type,description\nKYC_PAN,PAN\nKYC_BANK_PROOF,Banco\nKYC_PAN,dup\n"), 0o600))

	out, err := run(t, build, "requirements", "import", path)
	require.NoError(t, err)
	var rep struct {
		Created int `json:"created"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 2, rep.Created)
	assert.Equal(t, 1, rep.Skipped)

	out, err = run(t, build, "requirements", "list")
	require.NoError(t, err)
	var list []dto.RequirementResponse
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	types := []string{list[0].DocumentType, list[1].DocumentType}
	assert.ElementsMatch(t, []string{"KYC_PAN", "KYC_BANK_PROOF"}, types)
}

func TestRequirementsImport_ArchivoInexistente(t *testing.T) {
	_, build := sharedContainer(t)
	_, err := run(t, build, "requirements", "import", filepath.Join(t.TempDir(), "no-existe.csv"))
	require.Error(t, err)
}

func TestRenewalsRun_FechaExplicita(t *testing.T) {
	_, build := sharedContainer(t)
	out, err := run(t, build, "renewals", "run", "--date", "2025-03-01")
	require.NoError(t, err)

	var rep renewal.BatchReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "2025-03-01", rep.Date)
	assert.Equal(t, 0, rep.Sent)
}

func TestRenewalsRun_FechaInvalida(t *testing.T) {
	_, build := sharedContainer(t)
	_, err := run(t, build, "renewals", "run", "--date", "01/03/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AAAA-MM-DD")
}

func TestUsersCreateAdmin_PermiteIniciarSesion(t *testing.T) {
	c, build := sharedContainer(t)
	out, err := run(t, build, "users", "create-admin", "--email", "root@example.com", "--password", "muysegura1")
	require.NoError(t, err)

	var u dto.UserResponse
	require.NoError(t, json.Unmarshal([]byte(out), &u))
	assert.Equal(t, "admin", u.Role)
	assert.Empty(t, u.CompanyID)

	_, err = c.Auth.Login(context.Background(), dto.LoginRequest{Email: "root@example.com", Password: "muysegura1"})
	require.NoError(t, err)
}

func TestUsersCreateAdmin_RequiereEmail(t *testing.T) {
	_, build := sharedContainer(t)
	_, err := run(t, build, "users", "create-admin", "--password", "muysegura1")
	require.Error(t, err)
}

func TestPaymentsMarkPaid_PagoInexistente(t *testing.T) {
	_, build := sharedContainer(t)
	_, err := run(t, build, "payments", "mark-paid", "33333333-3333-3333-3333-333333333333")
	require.Error(t, err)
}
