package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sitecms/internal/errors"
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

const productCacheTTL = 5 * time.Minute

// Prices are stored as decimal(12,2).
const (
	priceScale = 2
	priceLimit = 10_000_000_000
)

// ProductService manages catalogue products.
type ProductService interface {
	CRUDService[model.Product]
	Featured(ctx context.Context, limit int) ([]model.Product, error)
}

type productService struct {
	CRUDService[model.Product]
	repo       repository.Repository[model.Product]
	categories repository.CategoryRepository
	cache      Cache
}

// NewProductService builds a ProductService. cache may be nil.
func NewProductService(repo repository.Repository[model.Product], categories repository.CategoryRepository, cache Cache) ProductService {
	return &productService{
		CRUDService: NewCRUDService(repo, CRUDOptions{
			KeywordColumns: []string{"name", "summary"},
			Order:          "display_order ASC, id DESC",
			Preloads:       []string{"Category"},
		}),
		repo:       repo,
		categories: categories,
		cache:      orNoCache(cache),
	}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}
	product, err := s.CRUDService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, productCacheKey(id), product, productCacheTTL)
	return product, nil
}

func (s *productService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := checkPrices(product); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	product.Category = nil
	if _, err := s.CRUDService.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.CRUDService.Get(ctx, product.ID)
}

func (s *productService) Update(ctx context.Context, id uint, mutate func(*model.Product)) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	mutate(product)
	product.ID = id
	product.Category = nil
	if err := checkPrices(product); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	_ = s.cache.Delete(ctx, productCacheKey(id))
	return s.CRUDService.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	if err := s.CRUDService.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, productCacheKey(id))
	return nil
}

// Featured returns featured products in display order.
func (s *productService) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	page, err := s.List(ctx, ListParams{PageSize: limit, Filters: map[string]interface{}{"featured": true}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *productService) checkCategory(ctx context.Context, categoryID uint) error {
	if categoryID == 0 {
		return fmt.Errorf("%w: categoryId is required", apperrors.ErrInvalidInput)
	}
	ok, err := s.categories.Exists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %d", apperrors.ErrCategoryNotFound, categoryID)
	}
	return nil
}

func checkPrices(p *model.Product) error {
	for _, f := range []struct {
		name  string
		value decimal.NullDecimal
	}{{"price", p.Price}, {"originalPrice", p.OriginalPrice}} {
		if !f.value.Valid {
			continue
		}
		d := f.value.Decimal
		if !d.Equal(d.Round(priceScale)) {
			return fmt.Errorf("%w: %s must have at most %d decimal places", apperrors.ErrInvalidInput, f.name, priceScale)
		}
		if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(priceLimit)) {
			return fmt.Errorf("%w: %s is out of range", apperrors.ErrInvalidInput, f.name)
		}
	}
	return nil
}
