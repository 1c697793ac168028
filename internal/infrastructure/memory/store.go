// Package memory implementa todos los puertos de persistencia en memoria.
// Se usa en modo desarrollo (APP_STORE=memory) y en los tests de aplicación.
// Respeta las mismas garantías atómicas que PostgreSQL: compare-and-set de etapa,
// marcado de pago condicional y unicidad de factura por pago y de recordatorio
// por (empresa, días).
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	companies    map[string]entity.Company
	users        map[string]entity.User
	documents    map[string]entity.Document
	payments     map[string]entity.Payment
	invoices     map[string]entity.Invoice
	sequences    map[string]int64
	requirements map[string]entity.ComplianceRequirement
	reminders    map[string]entity.RenewalReminder
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		companies:    make(map[string]entity.Company),
		users:        make(map[string]entity.User),
		documents:    make(map[string]entity.Document),
		payments:     make(map[string]entity.Payment),
		invoices:     make(map[string]entity.Invoice),
		sequences:    make(map[string]int64),
		requirements: make(map[string]entity.ComplianceRequirement),
		reminders:    make(map[string]entity.RenewalReminder),
	}
}

// Companies devuelve el repositorio de empresas.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// Stages devuelve el puerto de escritura de etapa.
func (s *Store) Stages() *CompanyRepo { return &CompanyRepo{s: s} }

func (s *Store) Users() *UserRepo               { return &UserRepo{s: s} }
func (s *Store) Documents() *DocumentRepo       { return &DocumentRepo{s: s} }
func (s *Store) Payments() *PaymentRepo         { return &PaymentRepo{s: s} }
func (s *Store) Invoices() *InvoiceRepo         { return &InvoiceRepo{s: s} }
func (s *Store) Sequences() *SequenceRepo       { return &SequenceRepo{s: s} }
func (s *Store) Requirements() *RequirementRepo { return &RequirementRepo{s: s} }
func (s *Store) Reminders() *ReminderRepo       { return &ReminderRepo{s: s} }
func (s *Store) TxRunner() *TxRunner            { return &TxRunner{s: s} }

func sortByCreated[T any](items []*T, created func(*T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return created(items[i]).Before(created(items[j]))
	})
}
