package service

import (
	"context"

	"go.uber.org/zap"

	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// CategoryService manages product categories.
type CategoryService interface {
	CRUDService[model.ProductCategory]
}

type categoryService struct {
	CRUDService[model.ProductCategory]
	repo   repository.CategoryRepository
	cache  Cache
	logger *zap.Logger
}

// NewCategoryService builds a CategoryService. cache may be nil.
func NewCategoryService(repo repository.CategoryRepository, cache Cache, logger *zap.Logger) CategoryService {
	return &categoryService{
		CRUDService: NewCRUDService[model.ProductCategory](repo, CRUDOptions{
			KeywordColumns: []string{"name", "description"},
			Order:          "display_order ASC, id ASC",
		}),
		repo:   repo,
		cache:  orNoCache(cache),
		logger: logger,
	}
}

// Delete removes the category together with every product in it.
func (s *categoryService) Delete(ctx context.Context, id uint) error {
	products, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return translate(err)
	}
	keys := make([]string, 0, len(products))
	for _, p := range products {
		keys = append(keys, productCacheKey(p.ID))
	}
	_ = s.cache.Delete(ctx, keys...)
	s.logger.Info("category deleted",
		zap.Uint("category_id", id),
		zap.Int("products_deleted", len(products)))
	return nil
}

// Update edits the category and drops cached products, which embed it.
func (s *categoryService) Update(ctx context.Context, id uint, mutate func(*model.ProductCategory)) (*model.ProductCategory, error) {
	updated, err := s.CRUDService.Update(ctx, id, func(c *model.ProductCategory) {
		mutate(c)
		c.ID = id
		c.Products = nil
	})
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ProductIDs(ctx, id)
	if err != nil {
		s.logger.Warn("list category products for cache invalidation", zap.Uint("category_id", id), zap.Error(err))
		return updated, nil
	}
	keys := make([]string, 0, len(ids))
	for _, pid := range ids {
		keys = append(keys, productCacheKey(pid))
	}
	_ = s.cache.Delete(ctx, keys...)
	return updated, nil
}
