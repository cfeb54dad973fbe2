package service

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/storage"
)

const (
	defaultArchivePrefix = "archive"
	defaultPresignExpiry = 15 * time.Minute
	defaultContentType   = "application/octet-stream"
)

// IngestInput describes an uploaded file and the metadata supplied with it.
type IngestInput struct {
	FileName    string
	ContentType string
	// Type overrides type inference when set.
	Type     model.DocumentType
	SourceID *int64
	Meta     map[string]any
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document
	Total int
}

// DocumentServiceConfig tunes archive layout and download links.
type DocumentServiceConfig struct {
	ArchivePrefix string
	PresignExpiry time.Duration
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Ingest archives the file under its SHA-256 content hash (once per hash),
	// then records a document describing it. A freshly archived file is removed
	// again if the document cannot be saved.
	Ingest(ctx context.Context, r io.ReadSeeker, in IngestInput) (*model.Document, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id int64) (*model.Document, error)

	// List returns documents using limit/offset and a total count, optionally
	// restricted to one source.
	List(ctx context.Context, limit, offset int, sourceID *int64) (*DocumentListResult, error)

	// UpdateMeta replaces the metadata payload of a document. The content hash
	// is always kept; a payload naming a different one is rejected.
	UpdateMeta(ctx context.Context, id int64, data map[string]any) (*model.Document, error)

	// Delete removes the document, and its archived file when no other
	// document references the same content hash.
	Delete(ctx context.Context, id int64) error

	// FileURL returns a time-limited download URL for the archived file.
	FileURL(ctx context.Context, id int64) (string, error)

	// Source resolves the source a document belongs to; nil when it has none.
	Source(ctx context.Context, doc *model.Document) (*model.Source, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store   storage.Storage
	repo    repository.DocumentRepository
	sources repository.SourceRepository
	log     *zap.Logger
	tracer  trace.Tracer
	cfg     DocumentServiceConfig
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, sources repository.SourceRepository, log *zap.Logger, cfg DocumentServiceConfig) DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ArchivePrefix == "" {
		cfg.ArchivePrefix = defaultArchivePrefix
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}
	return &documentService{
		store:   store,
		repo:    repo,
		sources: sources,
		log:     log.With(zap.String("component", "document_service")),
		tracer:  otel.Tracer("docstore/internal/service"),
		cfg:     cfg,
	}
}

func (s *documentService) Ingest(ctx context.Context, r io.ReadSeeker, in IngestInput) (_ *model.Document, err error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Ingest", trace.WithAttributes(
		attribute.String("document.file_name", in.FileName),
	))
	defer func() { endSpan(span, err) }()

	if r == nil {
		return nil, ErrReaderNil
	}
	if in.Type != "" && !in.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDocumentType, in.Type)
	}
	if in.SourceID != nil {
		if _, err := s.requireSource(ctx, *in.SourceID); err != nil {
			return nil, err
		}
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	h := sha256.New()
	size, err := io.Copy(h, r)
	if err != nil {
		return nil, fmt.Errorf("hash content: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind content: %w", err)
	}
	hash := hex.EncodeToString(h.Sum(nil))
	span.SetAttributes(attribute.String("document.content_hash", hash), attribute.Int64("document.size", size))

	data := make(map[string]any, len(in.Meta)+4)
	for k, v := range in.Meta {
		data[k] = v
	}
	if in.FileName != "" {
		data["file_name"] = in.FileName
	}
	data["mime_type"] = contentType
	data["file_size"] = size
	data[model.ContentHashKey] = hash

	meta, err := model.NewMetadata(data)
	if err != nil {
		return nil, err
	}
	typ := in.Type
	if typ == "" {
		typ = model.InferDocumentType(meta.MimeType(), meta.Extension())
	}
	doc, err := model.NewDocument(typ, in.SourceID, meta)
	if err != nil {
		return nil, err
	}

	key, err := storage.ArchiveKey(s.cfg.ArchivePrefix, hash)
	if err != nil {
		return nil, err
	}
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check archive: %w", err)
	}
	if !exists {
		_, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
			Size:        size,
			ContentType: contentType,
			Metadata: map[string]string{
				"original-filename": in.FileName,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("upload to storage: %w", err)
		}
	}

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if !exists {
			if delErr := s.store.Delete(ctx, key); delErr != nil {
				s.log.Error("archive_rollback_failed", zap.String("key", key), zap.Error(delErr))
				return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
			}
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.Info("document_ingested",
		zap.Int64("document_id", stored.ID),
		zap.String("content_hash", hash),
		zap.String("type", string(stored.Type)),
		zap.Bool("archived", !exists),
	)
	return stored, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNotFound
	}
	return doc, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int, sourceID *int64) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.DocumentFilter{SourceID: sourceID}, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) UpdateMeta(ctx context.Context, id int64, data map[string]any) (*model.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// The hash names the archived file, which a metadata edit cannot change.
	current := doc.ContentHash()
	next := make(map[string]any, len(data)+1)
	for k, v := range data {
		next[k] = v
	}
	switch v := next[model.ContentHashKey].(type) {
	case nil:
	case string:
		if v != "" && v != current {
			return nil, fmt.Errorf("%w: document is bound to %q", model.ErrInvalidContentHash, current)
		}
	default:
		return nil, fmt.Errorf("%w: expected string, got %T", model.ErrInvalidContentHash, v)
	}
	next[model.ContentHashKey] = current
	meta, err := model.NewMetadata(next)
	if err != nil {
		return nil, err
	}
	doc.SetMeta(meta)

	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the archived file first when this document is its only
// reference, so a failed object delete leaves the row in place for a retry.
func (s *documentService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "DocumentService.Delete", trace.WithAttributes(
		attribute.Int64("document.id", id),
	))
	defer func() { endSpan(span, err) }()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash := doc.ContentHash()
	refs, err := s.repo.CountByContentHash(ctx, hash)
	if err != nil {
		return fmt.Errorf("count references: %w", err)
	}
	span.SetAttributes(attribute.Int("document.remaining_refs", max(refs-1, 0)))

	if refs <= 1 {
		if key, keyErr := storage.ArchiveKey(s.cfg.ArchivePrefix, hash); keyErr != nil {
			s.log.Warn("archive_key_invalid", zap.Int64("document_id", id), zap.String("content_hash", hash))
		} else if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if refs <= 1 {
			s.log.Error("document_delete_after_archive_failed", zap.Int64("document_id", id), zap.Error(err))
		}
		return err
	}
	return nil
}

func (s *documentService) FileURL(ctx context.Context, id int64) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	key, err := storage.ArchiveKey(s.cfg.ArchivePrefix, doc.ContentHash())
	if err != nil {
		return "", ErrFileNotFound
	}
	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("check archive: %w", err)
	}
	if !exists {
		return "", ErrFileNotFound
	}
	return s.store.PresignGet(ctx, key, s.cfg.PresignExpiry)
}

func (s *documentService) Source(ctx context.Context, doc *model.Document) (*model.Source, error) {
	if doc == nil || doc.SourceID == nil {
		return nil, nil
	}
	return s.sources.ByID(ctx, *doc.SourceID)
}

func (s *documentService) requireSource(ctx context.Context, id int64) (*model.Source, error) {
	src, err := s.sources.ByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
