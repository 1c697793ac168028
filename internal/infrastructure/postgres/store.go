package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store agrupa los repositorios sobre un mismo pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Companies() *CompanyRepo        { return NewCompanyRepository(s.pool) }
func (s *Store) Stages() *CompanyRepo           { return NewCompanyRepository(s.pool) }
func (s *Store) Users() *UserRepo               { return NewUserRepository(s.pool) }
func (s *Store) Documents() *DocumentRepo       { return NewDocumentRepository(s.pool) }
func (s *Store) Payments() *PaymentRepo         { return NewPaymentRepository(s.pool) }
func (s *Store) Invoices() *InvoiceRepo         { return NewInvoiceRepository(s.pool) }
func (s *Store) Sequences() *SequenceRepo       { return NewSequenceRepository(s.pool) }
func (s *Store) Requirements() *RequirementRepo { return NewRequirementRepository(s.pool) }
func (s *Store) Reminders() *ReminderRepo       { return NewReminderRepository(s.pool) }
func (s *Store) TxRunner() *TxRunner            { return NewTxRunner(s.pool) }
