package repository

import (
	"context"
	"errors"

	"docstore/internal/model"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document and returns the stored row, including the
	// ID and timestamps assigned by the database.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// ByID returns the document with the given ID, or nil without an error
	// when no such row exists.
	ByID(ctx context.Context, id int64) (*model.Document, error)

	// Update writes the mutable columns of doc and returns the stored row.
	// It returns sql.ErrNoRows if the document no longer exists.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// List returns a page of documents matching the filter, newest first,
	// together with the total number of matching rows.
	List(ctx context.Context, f DocumentFilter, pq PageQuery) (*PageResult[model.Document], error)

	// CountByContentHash returns how many documents reference the given content hash.
	CountByContentHash(ctx context.Context, hash string) (int, error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id int64) error
}

// SourceRepository defines data access for document sources.
type SourceRepository interface {
	// Create inserts a new source and returns the stored row.
	Create(ctx context.Context, src *model.Source) (*model.Source, error)

	// ByID returns the source with the given ID, or nil without an error when absent.
	ByID(ctx context.Context, id int64) (*model.Source, error)

	// List returns a page of sources ordered by slug.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Source], error)
}

// DocumentFilter narrows document listings. Zero values match everything.
type DocumentFilter struct {
	SourceID *int64
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
