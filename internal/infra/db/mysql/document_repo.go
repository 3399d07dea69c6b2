package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/grantscope/docintake/internal/domain/documents"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Save insert/update Document record
func (r *DocumentRepository) Save(ctx context.Context, d *domain.Document) error {
	const q = `
INSERT INTO documents
(id, tenant_id, analyzed_at, file_name, file_type, content_length, backend, status,
 summary, document_type, key_entities, is_grant_related, confidence,
 view_url, artifact_url, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 summary=VALUES(summary), document_type=VALUES(document_type),
 key_entities=VALUES(key_entities), is_grant_related=VALUES(is_grant_related),
 confidence=VALUES(confidence),
 view_url=VALUES(view_url), artifact_url=VALUES(artifact_url),
 duration_ms=VALUES(duration_ms);
`
	tenant := stringOrDash(d.TenantID)
	status := stringOrDash(string(d.Status))
	analyzed := d.AnalyzedAt
	if analyzed.IsZero() {
		analyzed = time.Now()
	}
	entities, err := json.Marshal(d.Analysis.KeyEntities)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, q,
		d.ID, tenant, analyzed, d.FileName, d.FileType, d.ContentLength, d.Backend, status,
		d.Analysis.Summary, d.Analysis.DocumentType, entities,
		d.Analysis.IsGrantRelated, d.Analysis.Confidence,
		d.ViewURL, d.ArtifactURL, d.DurationMS,
	)
	return err
}

// Get by ID + Tenant
func (r *DocumentRepository) Get(ctx context.Context, tenant string, id domain.DocumentID) (*domain.Document, error) {
	const q = `
SELECT id, tenant_id, analyzed_at, file_name, file_type, content_length, backend, status,
       summary, document_type, key_entities, is_grant_related, confidence,
       view_url, artifact_url, duration_ms
FROM documents
WHERE tenant_id=? AND id=? LIMIT 1;
`
	return scanDocument(r.db.QueryRowContext(ctx, q, tenant, id))
}

// Latest documents per tenant
func (r *DocumentRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, analyzed_at, file_name, file_type, content_length, backend, status,
       summary, document_type, key_entities, is_grant_related, confidence,
       view_url, artifact_url, duration_ms
FROM documents
WHERE tenant_id=? ORDER BY analyzed_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Summary counts analyses since N days
func (r *DocumentRepository) Summary(ctx context.Context, tenant string, sinceDays int) (int, int, int, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_documents,
       COALESCE(SUM(is_grant_related),0)          AS grant_related,
       COALESCE(SUM(status='failed'),0)           AS failed
FROM documents
WHERE tenant_id=? AND analyzed_at >= ?;
`
	var total, related, failed int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&total, &related, &failed); err != nil {
		return 0, 0, 0, err
	}
	return total, related, failed, nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var d domain.Document
	var entities []byte
	if err := row.Scan(
		&d.ID, &d.TenantID, &d.AnalyzedAt, &d.FileName, &d.FileType, &d.ContentLength, &d.Backend, &d.Status,
		&d.Analysis.Summary, &d.Analysis.DocumentType, &entities,
		&d.Analysis.IsGrantRelated, &d.Analysis.Confidence,
		&d.ViewURL, &d.ArtifactURL, &d.DurationMS,
	); err != nil {
		return nil, err
	}
	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &d.Analysis.KeyEntities); err != nil {
			return nil, err
		}
	}
	return &d, nil
}
