package repository

import (
	"context"

	"gorm.io/gorm"

	"sitecms/internal/model"
)

// CategoryRepository adds cascade deletion to the generic product category operations.
type CategoryRepository interface {
	Repository[model.ProductCategory]
	// DeleteCascade removes the category and all of its products atomically.
	// It returns the deleted products so their images can be cleaned up.
	DeleteCascade(ctx context.Context, id uint) ([]model.Product, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// ProductIDs returns the ids of the products in the category.
	ProductIDs(ctx context.Context, id uint) ([]uint, error)
}

type categoryRepository struct {
	Repository[model.ProductCategory]
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{Repository: New[model.ProductCategory](db), db: db}
}

// DeleteCascade deletes products first so it also works where foreign keys are not enforced.
func (r *categoryRepository) DeleteCascade(ctx context.Context, id uint) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.ProductCategory{}, id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Find(&products).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ProductCategory{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ProductCategory{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) ProductIDs(ctx context.Context, id uint) ([]uint, error) {
	ids := make([]uint, 0)
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
