package storage_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/internal/infrastructure/storage"
	"github.com/jhoicas/onboarding-api/pkg/config"
)

func TestMemoryStorage_PutYPresign(t *testing.T) {
	st := storage.NewMemoryStorage("docs")
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "invoices/2025-26/a.pdf", "application/pdf", []byte("%PDF")))
	body, ok := st.Get("invoices/2025-26/a.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(body))

	u, err := st.PresignDownload(ctx, "invoices/2025-26/a.pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "memory://docs/invoices/2025-26/a.pdf?"))
	assert.Contains(t, u, "method=GET")
}

func TestNew_DriverDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}

func TestNew_MinioConstruyeSinRed(t *testing.T) {
	st, err := storage.NewMinioStorage(config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "b"})
	require.NoError(t, err)

	u, err := st.PresignUpload(context.Background(), "companies/c1/kyc_pan/x.pdf", "", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "companies/c1/kyc_pan/x.pdf")
	assert.Contains(t, u, "X-Amz-Signature")
}
