package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"docstore/internal/model"
	"docstore/internal/repository"
)

const (
	sourceColumns   = `id, slug, label, created_at, updated_at`
	uniqueViolation = "23505"
)

// SourcePostgres is a PostgreSQL implementation of repository.SourceRepository.
type SourcePostgres struct {
	db *sql.DB
}

func NewSourcePostgres(db *sql.DB) *SourcePostgres {
	return &SourcePostgres{db: db}
}

var _ repository.SourceRepository = (*SourcePostgres)(nil)

func (r *SourcePostgres) Create(ctx context.Context, src *model.Source) (*model.Source, error) {
	const q = `INSERT INTO sources (slug, label) VALUES ($1, $2) RETURNING ` + sourceColumns
	stored, err := scanSource(r.db.QueryRowContext(ctx, q, src.Slug, src.Label))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: source %q", repository.ErrDuplicate, src.Slug)
		}
		return nil, err
	}
	return stored, nil
}

func (r *SourcePostgres) ByID(ctx context.Context, id int64) (*model.Source, error) {
	const q = `SELECT ` + sourceColumns + ` FROM sources WHERE id = $1`
	src, err := scanSource(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (r *SourcePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Source], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sources`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}

	const qList = `SELECT ` + sourceColumns + ` FROM sources ORDER BY slug LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	items := make([]model.Source, 0)
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *src)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Source]{Items: items, Total: total}, nil
}

func scanSource(s scanner) (*model.Source, error) {
	var src model.Source
	if err := s.Scan(&src.ID, &src.Slug, &src.Label, &src.CreatedAt, &src.UpdatedAt); err != nil {
		return nil, err
	}
	return &src, nil
}
