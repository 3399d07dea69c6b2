package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	_ "github.com/lib/pq"

	domain "github.com/grantscope/docintake/internal/domain/documents"
)

type DocumentRepository struct{ db *sql.DB }

func NewDocumentRepository(db *sql.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

// Save insert/update Document record
func (r *DocumentRepository) Save(ctx context.Context, d *domain.Document) error {
	const q = `
INSERT INTO documents
(id, tenant_id, analyzed_at, file_name, file_type, content_length, backend, status,
 summary, document_type, key_entities, is_grant_related, confidence,
 view_url, artifact_url, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
        $9,$10,$11,$12,$13,
        $14,$15,$16)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 summary = EXCLUDED.summary,
 document_type = EXCLUDED.document_type,
 key_entities = EXCLUDED.key_entities,
 is_grant_related = EXCLUDED.is_grant_related,
 confidence = EXCLUDED.confidence,
 view_url = EXCLUDED.view_url,
 artifact_url = EXCLUDED.artifact_url,
 duration_ms = EXCLUDED.duration_ms;`

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
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
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
WHERE tenant_id=$1 ORDER BY analyzed_at DESC LIMIT $2;`
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
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN is_grant_related THEN 1 ELSE 0 END),0),
       COALESCE(SUM(CASE WHEN status='failed' THEN 1 ELSE 0 END),0)
FROM documents
WHERE tenant_id=$1 AND analyzed_at >= $2;`
	var total, related, failed int
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&total, &related, &failed); err != nil {
		return 0, 0, 0, err
	}
	return total, related, failed, nil
}

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

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
