package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/onboarding-api/internal/domain"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
	"github.com/jhoicas/onboarding-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

const documentsTable = "documents"

var documentColumns = []string{
	"id", "company_id", "document_type", "owner", "status", "version",
	"file_name", "mime_type", "size_bytes", "storage_key",
	"rejection_reason", "review_notes", "uploaded_by", "reviewed_by", "reviewed_at",
	"created_at", "updated_at",
}

// maxVersionRetries reintentos cuando dos subidas concurrentes calculan la misma versión.
const maxVersionRetries = 3

// DocumentRepo documentos versionados sobre PostgreSQL.
type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

// Create calcula la versión en el mismo INSERT; ante colisión del índice único reintenta.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, company_id, document_type, owner, status, version,
		                       file_name, mime_type, size_bytes, storage_key,
		                       rejection_reason, review_notes, uploaded_by, reviewed_by, reviewed_at,
		                       created_at, updated_at)
		SELECT $1::uuid, $2::uuid, $3::text, $4::text, $5::text, COALESCE(MAX(version), 0) + 1,
		       $6::text, $7::text, $8::bigint, $9::text,
		       $10::text, $11::text, $12::text, $13::text, $14::timestamptz,
		       $15::timestamptz, $16::timestamptz
		  FROM documents
		 WHERE company_id = $2::uuid AND document_type = $3::text
		RETURNING version`

	var err error
	for attempt := 0; attempt < maxVersionRetries; attempt++ {
		var version int
		err = r.pool.QueryRow(ctx, query,
			doc.ID, doc.CompanyID, doc.DocumentType, doc.Owner, doc.Status,
			doc.FileName, doc.MimeType, doc.SizeBytes, doc.StorageKey,
			doc.RejectionReason, doc.ReviewNotes, doc.UploadedBy, doc.ReviewedBy, doc.ReviewedAt,
			doc.CreatedAt, doc.UpdatedAt,
		).Scan(&version)
		if err == nil {
			doc.Version = version
			return nil
		}
		if !isUniqueViolation(err) {
			break
		}
	}
	return fmt.Errorf("insert document: %w", err)
}

func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query, args, err := psql().
		Select(documentColumns...).
		From(documentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get document: %w", err)
	}

	var doc entity.Document
	if err := pgxscan.Get(ctx, r.pool, &doc, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// UpdateReview persiste solo los campos de revisión.
func (r *DocumentRepo) UpdateReview(ctx context.Context, doc *entity.Document) error {
	query, args, err := psql().
		Update(documentsTable).
		Set("status", doc.Status).
		Set("rejection_reason", doc.RejectionReason).
		Set("review_notes", doc.ReviewNotes).
		Set("reviewed_by", doc.ReviewedBy).
		Set("reviewed_at", doc.ReviewedAt).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update document: %w", err)
	}
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document review: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error) {
	return r.List(ctx, repository.DocumentFilter{CompanyID: companyID})
}

// List aplica los filtros y, con LatestOnly, conserva la mayor versión por (empresa, tipo)
// entre los documentos que pasaron el filtro.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	where := squirrel.And{}
	if f.CompanyID != "" {
		where = append(where, squirrel.Eq{"company_id": f.CompanyID})
	}
	if f.DocumentType != "" {
		where = append(where, squirrel.Eq{"document_type": f.DocumentType})
	}
	if f.Status != "" {
		where = append(where, squirrel.Eq{"status": f.Status})
	}
	if f.Owner != "" {
		where = append(where, squirrel.Eq{"owner": f.Owner})
	}
	if f.KYCOnly {
		where = append(where, squirrel.Like{"document_type": "KYC\\_%"}, squirrel.Gt{"length(document_type)": 4})
	}

	var q squirrel.SelectBuilder
	if f.LatestOnly {
		inner := psql().
			Select(documentColumns...).
			Options("DISTINCT ON (company_id, document_type)").
			From(documentsTable).
			Where(where).
			OrderBy("company_id", "document_type", "version DESC")
		q = psql().Select(documentColumns...).FromSelect(inner, "latest")
	} else {
		q = psql().Select(documentColumns...).From(documentsTable).Where(where)
	}
	q = q.OrderBy("created_at ASC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents: %w", err)
	}
	var docs []*entity.Document
	if err := pgxscan.Select(ctx, r.pool, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
