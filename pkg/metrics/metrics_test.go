package metrics_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/onboarding-api/pkg/metrics"
)

func TestCollector_CuentaTransiciones(t *testing.T) {
	c := metrics.New()
	c.StageTransition("KYC_REVIEW", "AGREEMENT_DRAFT_SHARED")
	c.StageTransition("KYC_REVIEW", "AGREEMENT_DRAFT_SHARED")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.StageTransitions.WithLabelValues("KYC_REVIEW", "AGREEMENT_DRAFT_SHARED")))
}

func TestCollector_NilEsSeguro(t *testing.T) {
	var c *metrics.Collector
	assert.NotPanics(t, func() {
		c.WebhookEvent("processed")
		c.InvoiceGenerated("igst")
		c.Reminder("7", "sent")
		c.DocumentReview("approve")
	})
}

func TestHandler_ExponeMetricas(t *testing.T) {
	c := metrics.New()
	c.WebhookEvent("ignored")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `onboarding_payment_webhook_events_total{outcome="ignored"} 1`))
}
