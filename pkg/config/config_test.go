package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/onboarding-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "hmac", cfg.Payment.Provider)
	assert.Equal(t, "X-Razorpay-Signature", cfg.Payment.SignatureHeader)
	assert.Equal(t, []int{30, 15, 7, 1}, cfg.Renewal.Thresholds)
	assert.Equal(t, "0 6 * * *", cfg.Renewal.Cron)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL)
	assert.Equal(t, "INV", cfg.Invoice.Prefix)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_LeeListasYDerivaEstadoDelGSTIN(t *testing.T) {
	v := viper.New()
	v.Set("RENEWAL_THRESHOLDS", "60, 30,7")
	v.Set("INVOICE_SELLER_GSTIN", "29ABCDE1234F1Z5")
	v.Set("PAYMENT_PROVIDER", "Stripe")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []int{60, 30, 7}, cfg.Renewal.Thresholds)
	assert.Equal(t, "29", cfg.Invoice.SellerStateCode)
	assert.Equal(t, "stripe", cfg.Payment.Provider)
}

func TestFromViper_RechazaProveedorDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("PAYMENT_PROVIDER", "paypal")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionExigeSecretoDeWebhook(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "onb", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/onb?sslmode=disable", db.DSN())
}
