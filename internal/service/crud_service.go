package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "sitecms/internal/errors"
	"sitecms/internal/repository"
)

const (
	// DefaultPageSize is used when a list request does not name one.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a client may ask for.
	MaxPageSize = 100
)

// ListParams selects one page of a listing.
type ListParams struct {
	Page     int
	PageSize int
	Filters  map[string]interface{}
	Keyword  string
}

// normalize clamps paging to the supported range.
func (p ListParams) normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Page is one page of results plus the paging totals.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func newPage[T any](items []T, params ListParams, total int64) *Page[T] {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	}
	return &Page[T]{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// CRUDService exposes list, get, create, update and delete for one entity.
type CRUDService[T any] interface {
	List(ctx context.Context, params ListParams) (*Page[T], error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	// Update loads the row, lets mutate change it and saves every column.
	Update(ctx context.Context, id uint, mutate func(*T)) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// CRUDOptions tunes listing for one entity.
type CRUDOptions struct {
	KeywordColumns []string
	Order          string
	Preloads       []string
}

type crudService[T any] struct {
	repo repository.Repository[T]
	opts CRUDOptions
}

// NewCRUDService builds a CRUDService over repo.
func NewCRUDService[T any](repo repository.Repository[T], opts CRUDOptions) CRUDService[T] {
	return &crudService[T]{repo: repo, opts: opts}
}

func (s *crudService[T]) List(ctx context.Context, params ListParams) (*Page[T], error) {
	params = params.normalize()
	items, total, err := s.repo.List(ctx, repository.ListOptions{
		Page:           params.Page,
		PageSize:       params.PageSize,
		Filters:        params.Filters,
		Keyword:        params.Keyword,
		KeywordColumns: s.opts.KeywordColumns,
		Order:          s.opts.Order,
		Preloads:       s.opts.Preloads,
	})
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return newPage(items, params, total), nil
}

func (s *crudService[T]) Get(ctx context.Context, id uint) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id, s.opts.Preloads...)
	if err != nil {
		return nil, translate(err)
	}
	return entity, nil
}

func (s *crudService[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return entity, nil
}

func (s *crudService[T]) Update(ctx context.Context, id uint, mutate func(*T)) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	mutate(entity)
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	if len(s.opts.Preloads) > 0 {
		return s.Get(ctx, id)
	}
	return entity, nil
}

func (s *crudService[T]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err)
	}
	return nil
}

// translate maps persistence errors onto domain errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
