package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docstore/internal/model"
	"docstore/internal/repository"
)

const documentColumns = `id, content_hash, type, source_id, meta, created_at, updated_at`

// jsonNull is how a JSON column holding a literal null comes back.
const jsonNull = "null"

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	meta, err := encodeMeta(doc)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO documents (content_hash, type, source_id, meta)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ContentHash(),
		string(doc.Type),
		nullableID(doc.SourceID),
		meta,
	)
	return scanDocument(row)
}

// ByID fetches a single document by its ID. A missing row yields (nil, nil).
func (r *DocumentPostgres) ByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update rewrites the mutable columns and bumps updated_at.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	meta, err := encodeMeta(doc)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE documents
		SET content_hash = $1, type = $2, source_id = $3, meta = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ContentHash(),
		string(doc.Type),
		nullableID(doc.SourceID),
		meta,
		doc.ID,
	)
	return scanDocument(row)
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where := ""
	args := []any{}
	if f.SourceID != nil {
		where = " WHERE source_id = $1"
		args = append(args, *f.SourceID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	n := len(args)
	qList := fmt.Sprintf(`SELECT %s FROM documents%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, n+1, n+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// CountByContentHash counts the documents that share a content hash.
func (r *DocumentPostgres) CountByContentHash(ctx context.Context, hash string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE content_hash = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, hash).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents by hash: %w", err)
	}
	return n, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*model.Document, error) {
	var (
		doc      model.Document
		hash     string
		typ      string
		sourceID sql.NullInt64
		rawMeta  []byte
	)
	if err := s.Scan(&doc.ID, &hash, &typ, &sourceID, &rawMeta, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	doc.Type = model.DocumentType(typ)
	if sourceID.Valid {
		id := sourceID.Int64
		doc.SourceID = &id
	}

	var data map[string]any
	if len(rawMeta) > 0 && string(rawMeta) != jsonNull {
		if err := json.Unmarshal(rawMeta, &data); err != nil {
			return nil, fmt.Errorf("decode meta of document %d: %w", doc.ID, err)
		}
	}
	meta, err := model.LoadMetadata(data, hash)
	if err != nil {
		return nil, fmt.Errorf("load meta of document %d: %w", doc.ID, err)
	}
	doc.SetMeta(meta)

	return &doc, nil
}

func encodeMeta(doc *model.Document) (string, error) {
	b, err := json.Marshal(doc.Meta().Data())
	if err != nil {
		return "", fmt.Errorf("encode meta: %w", err)
	}
	return string(b), nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
