package service

import (
	"context"
	"fmt"
	"strings"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// SourceListResult is the service-level DTO for paginated sources.
type SourceListResult struct {
	Items []model.Source `json:"data"`
	Total int            `json:"total"`
}

// SourceService manages the origins documents are attached to.
type SourceService interface {
	// Create registers a source. The slug is lower-cased; an empty label
	// defaults to the slug.
	Create(ctx context.Context, slug, label string) (*model.Source, error)
	Get(ctx context.Context, id int64) (*model.Source, error)
	List(ctx context.Context, limit, offset int) (*SourceListResult, error)
}

type sourceService struct {
	repo repository.SourceRepository
}

func NewSourceService(repo repository.SourceRepository) SourceService {
	return &sourceService{repo: repo}
}

func (s *sourceService) Create(ctx context.Context, slug, label string) (*model.Source, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !model.ValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidSlug, slug)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = slug
	}
	return s.repo.Create(ctx, &model.Source{Slug: slug, Label: label})
}

func (s *sourceService) Get(ctx context.Context, id int64) (*model.Source, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	src, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

func (s *sourceService) List(ctx context.Context, limit, offset int) (*SourceListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &SourceListResult{Items: res.Items, Total: res.Total}, nil
}
