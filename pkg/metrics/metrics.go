// Package metrics expone los contadores Prometheus del flujo de onboarding.
// Todos los métodos aceptan un receptor nil para que los servicios no dependan
// de que las métricas estén habilitadas.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "onboarding"

// Collector agrupa los vectores de métricas sobre un registry propio.
type Collector struct {
	registry *prometheus.Registry

	StageTransitions   *prometheus.CounterVec
	WebhookEvents      *prometheus.CounterVec
	InvoicesGenerated  *prometheus.CounterVec
	RemindersSent      *prometheus.CounterVec
	DocumentReviews    *prometheus.CounterVec
	HTTPRequestSeconds *prometheus.HistogramVec
}

// New crea el collector y registra además las métricas de runtime de Go.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		StageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_transitions_total",
			Help:      "Transiciones de etapa aplicadas por el coordinador",
		}, []string{"from", "to"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhook_events_total",
			Help:      "Entregas del webhook de pagos por resultado",
		}, []string{"outcome"}),
		InvoicesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_generated_total",
			Help:      "Facturas generadas por tipo de impuesto",
		}, []string{"tax_kind"}),
		RemindersSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renewal_reminders_total",
			Help:      "Recordatorios de renovación por umbral y resultado",
		}, []string{"days_before", "status"}),
		DocumentReviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_reviews_total",
			Help:      "Acciones de revisión de documentos",
		}, []string{"action"}),
		HTTPRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de las peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		c.StageTransitions,
		c.WebhookEvents,
		c.InvoicesGenerated,
		c.RemindersSent,
		c.DocumentReviews,
		c.HTTPRequestSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler sirve el formato de exposición de Prometheus.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry expone el registry (tests).
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) StageTransition(from, to string) {
	if c != nil {
		c.StageTransitions.WithLabelValues(from, to).Inc()
	}
}

func (c *Collector) WebhookEvent(outcome string) {
	if c != nil {
		c.WebhookEvents.WithLabelValues(outcome).Inc()
	}
}

func (c *Collector) InvoiceGenerated(taxKind string) {
	if c != nil {
		c.InvoicesGenerated.WithLabelValues(taxKind).Inc()
	}
}

func (c *Collector) Reminder(daysBefore, status string) {
	if c != nil {
		c.RemindersSent.WithLabelValues(daysBefore, status).Inc()
	}
}

func (c *Collector) DocumentReview(action string) {
	if c != nil {
		c.DocumentReviews.WithLabelValues(action).Inc()
	}
}

// ObserveHTTP registra la duración de una petición.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c != nil {
		c.HTTPRequestSeconds.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}
