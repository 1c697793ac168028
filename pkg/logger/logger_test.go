package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/pkg/logger"
)

func TestComponent_AgregaCamposFijos(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "debug", Service: "onboarding"}, &buf)

	log := l.Component("webhook")
	log.Info().Str("payment_id", "p1").Msg("pago confirmado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "onboarding", entry["service"])
	assert.Equal(t, "webhook", entry["component"])
	assert.Equal(t, "p1", entry["payment_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_NivelDesconocidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(logger.Config{Env: "production", Level: "verbose"}, &buf)
	l.Debug().Msg("oculto")
	assert.Empty(t, buf.String())
}
