package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *ContractRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082301)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS contracts (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	fields JSONB,
	metrics JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contracts_status ON contracts(status);
CREATE INDEX IF NOT EXISTS idx_contracts_created_at ON contracts(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ContractRepository) Create(ctx context.Context, doc *domain.ContractDocument) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO contracts (
	id, filename, mime_type, storage_path, status, error_message, confidence, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		doc.ID, doc.Filename, doc.MimeType, doc.StoragePath, string(doc.Status), doc.Error,
		doc.Confidence, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (*domain.ContractDocument, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, status, error_message, confidence, fields, metrics, created_at, updated_at
FROM contracts
WHERE id = $1
`, id)

	doc, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrContractNotFound, "get contract", fmt.Errorf("id %s", id))
		}
		return nil, err
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(row rowScanner) (*domain.ContractDocument, error) {
	var doc domain.ContractDocument
	var status string
	var errMessage sql.NullString
	var fieldsRaw, metricsRaw []byte

	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.MimeType, &doc.StoragePath, &status, &errMessage,
		&doc.Confidence, &fieldsRaw, &metricsRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan contract: %w", err)
	}

	doc.Status = domain.ContractStatus(status)
	doc.Error = errMessage.String

	if len(fieldsRaw) > 0 {
		var fields domain.BasicExtractedFields
		if err := json.Unmarshal(fieldsRaw, &fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
		doc.Fields = &fields
	}
	if len(metricsRaw) > 0 {
		var metrics domain.ExtractionMetrics
		if err := json.Unmarshal(metricsRaw, &metrics); err != nil {
			return nil, fmt.Errorf("unmarshal metrics: %w", err)
		}
		doc.Metrics = &metrics
	}
	return &doc, nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE contracts
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	return requireRowAffected(result, "update status", id)
}

func (r *ContractRepository) SaveExtraction(ctx context.Context, id string, fields domain.BasicExtractedFields, metrics domain.ExtractionMetrics) error {
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
UPDATE contracts
SET fields = $2, metrics = $3, confidence = $4, updated_at = $5
WHERE id = $1
`, id, fieldsJSON, metricsJSON, fields.ExtractionConfidence, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}
	return requireRowAffected(result, "save extraction", id)
}

func (r *ContractRepository) ListReady(ctx context.Context, limit int) ([]domain.ContractDocument, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, filename, mime_type, storage_path, status, error_message, confidence, fields, metrics, created_at, updated_at
FROM contracts
WHERE status = $1
ORDER BY created_at DESC
LIMIT $2
`, string(domain.StatusReady), limit)
	if err != nil {
		return nil, fmt.Errorf("list ready contracts: %w", err)
	}
	defer rows.Close()

	var docs []domain.ContractDocument
	for rows.Next() {
		doc, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}
	return docs, nil
}

func requireRowAffected(result sql.Result, operation, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrContractNotFound, operation, fmt.Errorf("id %s", id))
	}
	return nil
}
